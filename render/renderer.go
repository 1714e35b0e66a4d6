// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/tilemap"
	"github.com/gogpu/tilemap/coord"
	"github.com/gogpu/tilemap/internal/gpu"
	"github.com/gogpu/tilemap/internal/parallel"
	"github.com/gogpu/wgpu/hal"
)

// Renderer draws the tilemaps of a World. Each frame runs three stages:
// extract copies the changes out of the world, prepare rebuilds and
// uploads dirty chunks, and queue sorts the visible chunks into per-view
// draw lists that Draw or Render record.
//
// A Renderer is safe for concurrent use, but frames are serialized.
type Renderer struct {
	mu     sync.Mutex
	closed bool

	device hal.Device
	queue  hal.Queue
	cfg    Config
	start  time.Time

	mem       *gpu.Memory
	store     *ChunkStore
	textures  *TextureCache
	pool      *parallel.Pool
	pipelines *pipelines
	extractor Extractor
	preparer  *Preparer
	queuer    *Queuer
	metrics   *Metrics

	last FrameStats
}

// NewRenderer creates a renderer on a HAL device.
func NewRenderer(device hal.Device, queue hal.Queue, opts ...Option) (*Renderer, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return newRenderer(device, queue, cfg)
}

// NewRendererFromProvider creates a renderer on the device of a host
// provider. The provider must expose HalDevice and HalQueue. Its surface
// format is the default for non-HDR views.
func NewRendererFromProvider(provider DeviceHandle, opts ...Option) (*Renderer, error) {
	if provider == nil {
		return nil, ErrNoDevice
	}
	device, queue, err := halFromProvider(provider)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if f := provider.SurfaceFormat(); f != gputypes.TextureFormatUndefined {
		cfg.SurfaceFormat = f
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	info := provider.AdapterInfo()
	tilemap.Logger().Info("render: using host device", "adapter", info.Name, "type", info.Type)
	return newRenderer(device, queue, cfg)
}

func newRenderer(device hal.Device, queue hal.Queue, cfg Config) (*Renderer, error) {
	if device == nil || queue == nil {
		return nil, ErrNoDevice
	}
	p, err := newPipelines(device, cfg.SPIRV)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	r := &Renderer{
		device:    device,
		queue:     queue,
		cfg:       cfg,
		start:     time.Now(),
		mem:       gpu.NewMemory(cfg.MemoryBudgetMB),
		pool:      parallel.NewPool(cfg.Workers),
		pipelines: p,
		metrics:   NewMetrics(cfg.Registerer),
	}
	r.store = NewChunkStore(device, queue, r.mem)
	r.textures = NewTextureCache(device, queue, r.mem)
	r.preparer = NewPreparer(device, queue, r.mem, r.store, r.textures, r.pool, cfg.Images)
	r.queuer = newQueuer(device, r.preparer, p, r.textures, cfg.SurfaceFormat)
	tilemap.Logger().Info("render: renderer created",
		"format", cfg.SurfaceFormat, "spirv", cfg.SPIRV, "workers", r.pool.Workers())
	return r, nil
}

func (r *Renderer) clock() time.Duration {
	if r.cfg.Clock != nil {
		return r.cfg.Clock()
	}
	return time.Since(r.start)
}

// Frame runs extract, prepare and queue for the given views. It never
// mutates the world. Per-chunk and per-texture failures are logged and
// retried next frame; only a closed renderer is an error.
func (r *Renderer) Frame(ctx context.Context, w World, views []View) (FrameStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return FrameStats{}, ErrRendererClosed
	}
	begin := time.Now()

	f := r.extractor.Extract(w, views)
	f.Time = float32(r.clock().Seconds())
	for _, e := range f.RemovedTilemaps {
		r.queuer.retireMaterial(e)
	}

	items := r.preparer.Prepare(ctx, f)
	r.queuer.refreshMaterials(r.queue)
	r.queuer.Queue(f, items)

	r.metrics.observe(&f.Stats, r.textures.Counts(), r.mem.Stats(), time.Since(begin))
	tilemap.Logger().Debug("render: frame",
		"tick", f.Tick, "chunks", f.Stats.Chunks, "rebuilt", f.Stats.ChunksRebuilt,
		"culled", f.Stats.ChunksCulled, "draws", f.Stats.Draws)
	r.last = f.Stats
	return f.Stats, nil
}

// Draw records the draws queued for view into a render pass the caller
// began. The pass must target the view's color format and sample count.
func (r *Renderer) Draw(rp hal.RenderPassEncoder, view int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrRendererClosed
	}
	return r.queuer.RecordDraws(rp, view)
}

// Render runs a frame for a single view and draws it into target,
// clearing it first.
func (r *Renderer) Render(ctx context.Context, w World, target *Target, view View) (FrameStats, error) {
	view.SampleCount = target.SampleCount()
	stats, err := r.Frame(ctx, w, []View{view})
	if err != nil {
		return stats, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return stats, ErrRendererClosed
	}
	encoder, err := r.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "tilemap_encoder"})
	if err != nil {
		return stats, fmt.Errorf("render: create command encoder: %w", err)
	}
	defer encoder.Destroy()
	if err := encoder.BeginEncoding("tilemap_frame"); err != nil {
		return stats, fmt.Errorf("render: begin encoding: %w", err)
	}
	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label:            "tilemap_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{target.colorAttachment()},
	})
	drawErr := r.queuer.RecordDraws(rp, 0)
	rp.End()
	cmd, err := encoder.EndEncoding()
	if err != nil {
		return stats, fmt.Errorf("render: end encoding: %w", err)
	}
	defer r.device.FreeCommandBuffer(cmd)
	if drawErr != nil {
		return stats, fmt.Errorf("render: record draws: %w", drawErr)
	}
	if _, err := r.queue.Submit([]hal.CommandBuffer{cmd}); err != nil {
		return stats, fmt.Errorf("render: submit: %w", err)
	}
	return stats, nil
}

// SetMaterial draws the given map with m. A nil m restores the default
// pipeline.
func (r *Renderer) SetMaterial(mapEntity tilemap.Entity, m Material) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrRendererClosed
	}
	if old, ok := r.queuer.materials[mapEntity]; ok {
		if old.material == m {
			return nil
		}
		r.queuer.retireMaterial(mapEntity)
	}
	if m == nil {
		return nil
	}
	b, err := newMaterialBinding(r.device, m)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	r.queuer.materials[mapEntity] = b
	return nil
}

// EvictTexture drops a texture array from the GPU. It is registered again
// the next time a map uses it.
func (r *Renderer) EvictTexture(key tilemap.TextureKey) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return false
	}
	r.queuer.forgetTexture(key)
	return r.textures.Evict(key)
}

// TextureState returns the lifecycle state of a texture.
func (r *Renderer) TextureState(key tilemap.TextureKey) (TextureState, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.textures.State(key)
}

// Lookup returns the chunk and local position holding a tile entity.
func (r *Renderer) Lookup(e tilemap.Entity) (ChunkKey, tilemap.UVec2, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.store.Lookup(e)
}

// ChunkInfo describes one chunk of the store.
type ChunkInfo struct {
	Key   ChunkKey
	Tiles int
	Quads int
	// Dirty reports a chunk waiting for a rebuild.
	Dirty    bool
	Uploaded bool
	// AABB is the chunk's local bounding box.
	AABB    coord.Rect
	SortKey float32
}

// Chunk describes the chunk with the given key.
func (r *Renderer) Chunk(key ChunkKey) (ChunkInfo, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.store.Get(key)
	if !ok {
		return ChunkInfo{}, false
	}
	return ChunkInfo{
		Key:      c.key,
		Tiles:    c.Len(),
		Quads:    c.mesh.Quads(),
		Dirty:    c.Dirty(),
		Uploaded: c.vertices != nil && c.indexCount > 0,
		AABB:     c.aabb,
		SortKey:  SortKey(c),
	}, true
}

// Chunks returns the keys of every chunk, ordered by map, layer, row and
// column.
func (r *Renderer) Chunks() []ChunkKey {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := r.store.All()
	keys := make([]ChunkKey, len(all))
	for i, c := range all {
		keys[i] = c.key
	}
	return keys
}

// DrawCount returns the number of draws queued for view.
func (r *Renderer) DrawCount(view int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.queuer.DrawCount(view)
}

// Stats returns the statistics of the last frame.
func (r *Renderer) Stats() FrameStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}

// MemoryStats returns the GPU memory accounted to the renderer.
func (r *Renderer) MemoryStats() gpu.MemoryStats {
	return r.mem.Stats()
}

// Pipelines returns the number of specialized pipelines built so far.
func (r *Renderer) Pipelines() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pipelines.Len()
}

// Close releases every GPU resource the renderer owns. The device itself
// belongs to the caller. Close is idempotent.
func (r *Renderer) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.closed = true
	r.queuer.release()
	r.preparer.release()
	r.textures.Release()
	r.store.Release()
	r.pipelines.destroy()
	tilemap.Logger().Info("render: renderer closed")
}
