// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"cmp"
	"slices"

	"github.com/gogpu/tilemap"
	"github.com/gogpu/tilemap/internal/gpu"
	"github.com/gogpu/tilemap/internal/parallel"
	"github.com/gogpu/wgpu/hal"
)

// tileRef locates a tile entity's slot.
type tileRef struct {
	tilemap tilemap.Entity
	index   tilemap.UVec2
	pos     tilemap.UVec2
}

// mapChunks holds the chunks of one map.
type mapChunks struct {
	z      uint32
	count  tilemap.UVec2
	chunks map[tilemap.UVec2]*Chunk
	dirty  *parallel.DirtyGrid
}

// ChunkStore owns every render chunk and the reverse map from tile entity
// to slot. It is not safe for concurrent use; the renderer serializes
// access.
type ChunkStore struct {
	device hal.Device
	queue  hal.Queue
	mem    *gpu.Memory

	maps  map[tilemap.Entity]*mapChunks
	tiles map[tilemap.Entity]tileRef
	len   int
}

// NewChunkStore returns an empty store. A nil device is allowed for
// CPU-only use; chunk uploads then fail with ErrNoDevice.
func NewChunkStore(device hal.Device, queue hal.Queue, mem *gpu.Memory) *ChunkStore {
	return &ChunkStore{
		device: device,
		queue:  queue,
		mem:    mem,
		maps:   make(map[tilemap.Entity]*mapChunks),
		tiles:  make(map[tilemap.Entity]tileRef),
	}
}

// ChunkIndex returns the chunk containing pos and pos relative to it.
func ChunkIndex(pos tilemap.TilePos, chunkSize tilemap.UVec2) (index, local tilemap.UVec2) {
	index = tilemap.UVec2{X: pos.X / chunkSize.X, Y: pos.Y / chunkSize.Y}
	local = tilemap.UVec2{X: pos.X % chunkSize.X, Y: pos.Y % chunkSize.Y}
	return index, local
}

// mapFor returns the chunk set of params.Tilemap, creating it on first use.
func (s *ChunkStore) mapFor(params *ChunkParams) *mapChunks {
	m, ok := s.maps[params.Tilemap]
	if ok {
		return m
	}
	count := params.ChunkCount()
	m = &mapChunks{
		z:      params.Layer(),
		count:  count,
		chunks: make(map[tilemap.UVec2]*Chunk),
		dirty:  parallel.NewDirtyGrid(int(count.X), int(count.Y)),
	}
	s.maps[params.Tilemap] = m
	return m
}

// GetOrAdd returns the chunk that holds pos on the map described by
// params, creating it when absent, together with pos relative to the
// chunk. The tile entity is recorded in the reverse map; if it was
// previously stored in another slot, that slot is cleared. A different
// entity occupying the target slot loses its reverse map entry, since
// the caller is about to overwrite it.
func (s *ChunkStore) GetOrAdd(e tilemap.Entity, pos tilemap.TilePos, params ChunkParams) (*Chunk, tilemap.UVec2) {
	m := s.mapFor(&params)
	index, local := ChunkIndex(pos, params.ChunkSize)
	ref := tileRef{tilemap: params.Tilemap, index: index, pos: local}
	if old, ok := s.tiles[e]; ok && old != ref {
		s.clearRef(e, old)
	}
	c, ok := m.chunks[index]
	if !ok {
		key := ChunkKey{X: index.X, Y: index.Y, Z: m.z, Tilemap: params.Tilemap}
		c = newChunk(key, params, m.dirty)
		m.chunks[index] = c
		s.len++
		tilemap.Logger().Debug("render: chunk created", "key", key)
	}
	if prev := c.occupant(local); prev != tilemap.InvalidEntity && prev != e {
		delete(s.tiles, prev)
	}
	s.tiles[e] = ref
	return c, local
}

// Get returns the chunk with the given key.
func (s *ChunkStore) Get(key ChunkKey) (*Chunk, bool) {
	m, ok := s.maps[key.Tilemap]
	if !ok || m.z != key.Z {
		return nil, false
	}
	c, ok := m.chunks[key.Index()]
	return c, ok
}

// GetMut returns the chunk with the given key and marks it dirty.
func (s *ChunkStore) GetMut(key ChunkKey) (*Chunk, bool) {
	c, ok := s.Get(key)
	if ok {
		c.MarkDirty()
	}
	return c, ok
}

// Remove drops a chunk, releasing its GPU buffers and the reverse map
// entries of its tiles.
func (s *ChunkStore) Remove(key ChunkKey) bool {
	m, ok := s.maps[key.Tilemap]
	if !ok || m.z != key.Z {
		return false
	}
	c, ok := m.chunks[key.Index()]
	if !ok {
		return false
	}
	s.dropChunk(m, c)
	return true
}

func (s *ChunkStore) dropChunk(m *mapChunks, c *Chunk) {
	key := c.key
	s.releaseChunk(m, c)
	s.dropRefs(func(ref tileRef) bool {
		return ref.tilemap == key.Tilemap && ref.index == key.Index()
	})
}

func (s *ChunkStore) releaseChunk(m *mapChunks, c *Chunk) {
	c.release()
	delete(m.chunks, c.key.Index())
	s.len--
}

// dropRefs deletes the reverse map entries matching drop, including
// entities recorded by GetOrAdd whose slot was never written.
func (s *ChunkStore) dropRefs(drop func(tileRef) bool) {
	for e, ref := range s.tiles {
		if drop(ref) {
			delete(s.tiles, e)
		}
	}
}

// RemoveTileWithEntity clears the slot holding e. The chunk is kept even
// when it becomes empty. It reports whether e was stored.
func (s *ChunkStore) RemoveTileWithEntity(e tilemap.Entity) bool {
	ref, ok := s.tiles[e]
	if !ok {
		return false
	}
	s.clearRef(e, ref)
	delete(s.tiles, e)
	return true
}

// clearRef empties the slot of ref if e still occupies it.
func (s *ChunkStore) clearRef(e tilemap.Entity, ref tileRef) {
	m, ok := s.maps[ref.tilemap]
	if !ok {
		return
	}
	if c, ok := m.chunks[ref.index]; ok && c.occupant(ref.pos) == e {
		c.Clear(ref.pos)
	}
}

// RemoveMap drops every chunk of a map and every reverse map entry
// pointing into it.
func (s *ChunkStore) RemoveMap(e tilemap.Entity) int {
	m, ok := s.maps[e]
	if !ok {
		return 0
	}
	n := len(m.chunks)
	for _, c := range m.chunks {
		s.releaseChunk(m, c)
	}
	s.dropRefs(func(ref tileRef) bool { return ref.tilemap == e })
	delete(s.maps, e)
	tilemap.Logger().Debug("render: tilemap chunks removed", "tilemap", e, "chunks", n)
	return n
}

// Lookup returns the chunk key and in-chunk position of a tile entity.
func (s *ChunkStore) Lookup(e tilemap.Entity) (ChunkKey, tilemap.UVec2, bool) {
	ref, ok := s.tiles[e]
	if !ok {
		return ChunkKey{}, tilemap.UVec2{}, false
	}
	m, ok := s.maps[ref.tilemap]
	if !ok {
		return ChunkKey{}, tilemap.UVec2{}, false
	}
	return ChunkKey{X: ref.index.X, Y: ref.index.Y, Z: m.z, Tilemap: ref.tilemap}, ref.pos, true
}

// SetParams copies map parameters into every chunk of the map. A changed
// z translation moves the chunks to the new layer.
func (s *ChunkStore) SetParams(params ChunkParams) {
	m, ok := s.maps[params.Tilemap]
	if !ok {
		return
	}
	if z := params.Layer(); z != m.z {
		m.z = z
		for _, c := range m.chunks {
			c.key.Z = z
			c.MarkDirty()
		}
	}
	for _, c := range m.chunks {
		geometry := !c.params.sameGeometry(&params)
		c.setParams(params)
		if geometry {
			c.MarkDirty()
		}
	}
}

// Maps returns the entities of every map with chunks, in ascending order.
func (s *ChunkStore) Maps() []tilemap.Entity {
	out := make([]tilemap.Entity, 0, len(s.maps))
	for e := range s.maps {
		out = append(out, e)
	}
	slices.Sort(out)
	return out
}

// All returns every chunk ordered by map, z, y, then x.
func (s *ChunkStore) All() []*Chunk {
	out := make([]*Chunk, 0, s.len)
	for _, m := range s.maps {
		for _, c := range m.chunks {
			out = append(out, c)
		}
	}
	slices.SortFunc(out, func(a, b *Chunk) int {
		return cmp.Or(
			cmp.Compare(a.key.Tilemap, b.key.Tilemap),
			cmp.Compare(a.key.Z, b.key.Z),
			cmp.Compare(a.key.Y, b.key.Y),
			cmp.Compare(a.key.X, b.key.X),
		)
	})
	return out
}

// Len returns the number of chunks.
func (s *ChunkStore) Len() int { return s.len }

// dirtyChunks drains the dirty set of a map and returns the chunks it
// named, row-major. Indices without a chunk are dropped.
func (s *ChunkStore) dirtyChunks(e tilemap.Entity) []*Chunk {
	m, ok := s.maps[e]
	if !ok || m.dirty == nil {
		return nil
	}
	var out []*Chunk
	for _, xy := range m.dirty.Drain() {
		if c, ok := m.chunks[tilemap.UVec2{X: uint32(xy[0]), Y: uint32(xy[1])}]; ok {
			out = append(out, c)
		}
	}
	return out
}

// Release destroys every chunk's GPU buffers.
func (s *ChunkStore) Release() {
	for _, m := range s.maps {
		for _, c := range m.chunks {
			c.release()
		}
	}
}
