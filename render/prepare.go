// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"context"

	"github.com/gogpu/tilemap"
	"github.com/gogpu/tilemap/internal/gpu"
	"github.com/gogpu/tilemap/internal/parallel"
	"github.com/gogpu/wgpu/hal"
)

// FrameStats counts the work one frame did.
type FrameStats struct {
	TilesChanged    int
	TilesRemoved    int
	TilemapsRemoved int
	Chunks          int
	ChunksRebuilt   int
	ChunksCulled    int
	ChunksHidden    int
	UploadFailures  int
	Items           int
	Draws           int
	Quads           int
}

// ChunkItem is a chunk prepared for drawing this frame.
type ChunkItem struct {
	Key     ChunkKey
	Texture tilemap.TextureKey

	chunk         *Chunk
	meshOffset    uint32
	tilemapOffset uint32
	// inView[i] reports whether view i sees the chunk.
	inView []bool
}

// Preparer turns extracted frames into GPU-resident chunks.
type Preparer struct {
	device hal.Device
	queue  hal.Queue
	mem    *gpu.Memory

	store    *ChunkStore
	textures *TextureCache
	pool     *parallel.Pool
	src      tilemap.ImageSource

	views    *UniformBuffer
	meshes   *UniformBuffer
	tilemaps *UniformBuffer

	viewOffsets []uint32
}

// NewPreparer returns a preparer writing into store and textures.
func NewPreparer(device hal.Device, queue hal.Queue, mem *gpu.Memory, store *ChunkStore, textures *TextureCache, pool *parallel.Pool, src tilemap.ImageSource) *Preparer {
	return &Preparer{
		device:   device,
		queue:    queue,
		mem:      mem,
		store:    store,
		textures: textures,
		pool:     pool,
		src:      src,
		views:    NewUniformBuffer(device, queue, mem, "tilemap_view_uniforms", viewUniformSize),
		meshes:   NewUniformBuffer(device, queue, mem, "tilemap_mesh_uniforms", meshUniformSize),
		tilemaps: NewUniformBuffer(device, queue, mem, "tilemap_tilemap_uniforms", tilemapUniformSize),
	}
}

// Prepare applies a frame's changes to the chunk store, rebuilds the
// meshes of dirty visible chunks, advances the texture cache and writes
// the uniforms. Failures are logged and the affected work is retried next
// frame.
func (p *Preparer) Prepare(ctx context.Context, f *Frame) []ChunkItem {
	st := &f.Stats

	for _, e := range f.RemovedTilemaps {
		p.store.RemoveMap(e)
		st.TilemapsRemoved++
	}
	for _, e := range f.RemovedTiles {
		if p.store.RemoveTileWithEntity(e) {
			st.TilesRemoved++
		}
	}
	for _, t := range f.Tiles {
		params := f.Tilemaps[t.Tilemap.Entity]
		if !t.Pos.InBounds(params.MapSize) {
			tilemap.Logger().Debug("render: tile outside its tilemap", "tile", t.Entity, "pos", t.Pos)
			continue
		}
		c, local := p.store.GetOrAdd(t.Entity, t.Pos, params)
		c.Set(local, t.Entity, t.Tile)
		st.TilesChanged++
	}
	for _, e := range f.maps {
		params := f.Tilemaps[e]
		p.store.SetParams(params)
		p.textures.Register(params.Texture, params.TileSize, params.Spacing, params.Filter)
	}
	p.textures.Prepare(p.src)

	visible := make(map[*Chunk][]bool)
	var rebuild []*Chunk
	for _, e := range p.store.Maps() {
		params, ok := f.Tilemaps[e]
		for _, c := range p.store.dirtyChunks(e) {
			if !ok || !params.Visible {
				c.MarkDirty()
				continue
			}
			in, hit := p.cull(c, f.views)
			if !hit {
				c.MarkDirty()
				continue
			}
			visible[c] = in
			rebuild = append(rebuild, c)
		}
	}

	// Chunks are disjoint, so their CPU meshes build in parallel.
	built := make([]bool, len(rebuild))
	if err := p.pool.For(ctx, len(rebuild), func(_ context.Context, i int) error {
		rebuild[i].rebuild()
		built[i] = true
		return nil
	}); err != nil && len(rebuild) > 0 {
		tilemap.Logger().Debug("render: chunk rebuild interrupted", "chunks", len(rebuild), "err", err)
	}
	for i, c := range rebuild {
		if !built[i] {
			c.MarkDirty()
			continue
		}
		if err := c.upload(p.device, p.queue, p.mem); err != nil {
			tilemap.Logger().Warn("render: chunk upload failed", "chunk", c.key, "err", err)
			st.UploadFailures++
			c.MarkDirty()
			continue
		}
		st.ChunksRebuilt++
	}

	p.views.Clear()
	p.meshes.Clear()
	p.tilemaps.Clear()
	p.viewOffsets = p.viewOffsets[:0]
	for i := range f.views {
		u := viewUniform{viewProj: f.views[i].ViewProj, time: f.Time}
		p.viewOffsets = append(p.viewOffsets, p.views.Push(u.bytes()))
	}

	var items []ChunkItem
	for _, c := range p.store.All() {
		st.Chunks++
		params, ok := f.Tilemaps[c.key.Tilemap]
		if !ok || !params.Visible {
			st.ChunksHidden++
			continue
		}
		in, seen := visible[c]
		if !seen {
			var hit bool
			if in, hit = p.cull(c, f.views); !hit {
				st.ChunksCulled++
				continue
			}
		}
		if c.vertices == nil || c.Dirty() {
			// Never uploaded, or the upload failed this frame.
			continue
		}
		items = append(items, ChunkItem{
			Key:           c.key,
			Texture:       params.Texture.Key(),
			chunk:         c,
			meshOffset:    p.meshes.Push((&meshUniform{model: c.transform}).bytes()),
			tilemapOffset: p.tilemaps.Push(p.tilemapUniform(c, f.Time).bytes()),
			inView:        in,
		})
		st.Quads += c.mesh.Quads()
	}
	st.Items = len(items)

	for _, u := range []*UniformBuffer{p.views, p.meshes, p.tilemaps} {
		if err := u.Write(); err != nil {
			tilemap.Logger().Warn("render: uniform upload failed", "err", err)
			return nil
		}
	}
	return items
}

// cull reports which views see a chunk and whether any does.
func (p *Preparer) cull(c *Chunk, views []extractedView) ([]bool, bool) {
	in := make([]bool, len(views))
	hit := false
	for i := range views {
		v := &views[i]
		if !v.sees(c.key.Tilemap) {
			continue
		}
		if c.params.FrustumCulling && !v.frustum.IntersectsOBB(c.aabb, c.transform) {
			continue
		}
		in[i] = true
		hit = true
	}
	return in, hit
}

func (p *Preparer) tilemapUniform(c *Chunk, t float32) *tilemapUniform {
	params := &c.params
	u := &tilemapUniform{
		tileSize: params.TileSize.Vec(),
		gridSize: params.GridSize.Vec(),
		spacing:  params.Spacing.Vec(),
		chunkPos: tilemap.V2(
			float32(c.key.X*params.ChunkSize.X),
			float32(c.key.Y*params.ChunkSize.Y),
		),
		mapSize: params.MapSize.AsVec2(),
		time:    t,
	}
	if a, err := p.textures.Get(params.Texture.Key()); err == nil {
		u.textureSize = tilemap.V2(float32(a.Width), float32(a.Height))
		u.layers = float32(a.Layers)
	}
	return u
}

// release destroys the uniform buffers.
func (p *Preparer) release() {
	p.views.Destroy()
	p.meshes.Destroy()
	p.tilemaps.Destroy()
}
