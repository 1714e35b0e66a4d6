// Package cache provides a generic LRU cache for GPU objects that are
// expensive to create and must be released when evicted.
//
//	pipelines := cache.New[pipelineKey, *pipeline](16, func(k pipelineKey, p *pipeline) {
//		p.destroy()
//	})
//	p, err := pipelines.GetOrCreate(key, func() (*pipeline, error) { return build(key) })
//
// The eviction callback runs for every entry that leaves the cache:
// on overflow, Delete, Clear and Purge. Cache is safe for concurrent use
// and must not be copied after creation.
package cache
