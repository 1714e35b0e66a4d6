// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/tilemap"
	"github.com/gogpu/tilemap/coord"
	"github.com/gogpu/tilemap/internal/gpu"
	"github.com/gogpu/tilemap/internal/parallel"
	"github.com/gogpu/wgpu/hal"
)

// ChunkKey identifies a render chunk: its chunk index within the map, the
// map's z layer, and the map entity.
type ChunkKey struct {
	X, Y, Z uint32
	Tilemap tilemap.Entity
}

// Index returns the chunk index within its map.
func (k ChunkKey) Index() tilemap.UVec2 { return tilemap.UVec2{X: k.X, Y: k.Y} }

// String implements fmt.Stringer.
func (k ChunkKey) String() string {
	return fmt.Sprintf("chunk(%d, %d, z=%d, map=%d)", k.X, k.Y, k.Z, k.Tilemap)
}

// ChunkParams are the map-level parameters every chunk of a map shares.
type ChunkParams struct {
	Tilemap        tilemap.Entity
	ChunkSize      tilemap.UVec2
	MapSize        tilemap.TilemapSize
	Type           tilemap.TilemapType
	TileSize       tilemap.TileSize
	GridSize       tilemap.GridSize
	Spacing        tilemap.Spacing
	Texture        tilemap.TilemapTexture
	Filter         tilemap.FilterMode
	Visible        bool
	FrustumCulling bool
	YSort          bool
	Order          tilemap.RenderOrder
	// Transform is the map's world transform with the anchor offset
	// applied.
	Transform tilemap.Mat4
}

// ParamsFromTilemap derives chunk parameters from a map bundle.
func ParamsFromTilemap(e tilemap.Entity, tm *tilemap.Tilemap) ChunkParams {
	offset := coord.AnchorOffset(tm.Anchor, tm.Size, tm.GridSize, tm.TileSize, tm.Type)
	return ChunkParams{
		Tilemap:        e,
		ChunkSize:      tm.RenderSettings.ChunkSize,
		MapSize:        tm.Size,
		Type:           tm.Type,
		TileSize:       tm.TileSize,
		GridSize:       tm.GridSize,
		Spacing:        tm.Spacing,
		Texture:        tm.Texture,
		Filter:         tm.Filter,
		Visible:        tm.Visible,
		FrustumCulling: tm.FrustumCulling,
		YSort:          tm.RenderSettings.YSort,
		Order:          tm.RenderSettings.Order,
		Transform:      tm.Transform.Matrix().Mul(tilemap.Translation4(offset.Extend(0))),
	}
}

// Layer returns the z layer encoded in chunk keys: the map's z translation
// truncated to an unsigned integer.
func (p *ChunkParams) Layer() uint32 {
	z := p.Transform.Translation().Z
	if z <= 0 {
		return 0
	}
	return uint32(z)
}

// ChunkCount returns the number of chunks along each axis.
func (p *ChunkParams) ChunkCount() tilemap.UVec2 {
	if p.ChunkSize.X == 0 || p.ChunkSize.Y == 0 {
		return tilemap.UVec2{}
	}
	return tilemap.UVec2{
		X: (p.MapSize.X + p.ChunkSize.X - 1) / p.ChunkSize.X,
		Y: (p.MapSize.Y + p.ChunkSize.Y - 1) / p.ChunkSize.Y,
	}
}

// sameGeometry reports whether two parameter sets place chunks
// identically.
func (p *ChunkParams) sameGeometry(o *ChunkParams) bool {
	return p.ChunkSize == o.ChunkSize && p.Type == o.Type && p.TileSize == o.TileSize &&
		p.GridSize == o.GridSize && p.Transform == o.Transform
}

type tileSlot struct {
	entity tilemap.Entity
	tile   tilemap.Tile
}

// Chunk is a fixed-size block of one map's tiles, drawn with one mesh.
type Chunk struct {
	key    ChunkKey
	params ChunkParams
	slots  []tileSlot
	count  int
	dirty  *parallel.DirtyGrid

	position  tilemap.Vec2
	aabb      coord.Rect
	transform tilemap.Mat4

	mesh       Mesh
	vertices   *gpu.Buffer
	indices    *gpu.Buffer
	indexCount uint32
}

func newChunk(key ChunkKey, params ChunkParams, dirty *parallel.DirtyGrid) *Chunk {
	c := &Chunk{
		key:   key,
		slots: make([]tileSlot, int(params.ChunkSize.X)*int(params.ChunkSize.Y)),
		dirty: dirty,
	}
	c.params = params
	c.updateGeometry()
	return c
}

// Key returns the chunk's key.
func (c *Chunk) Key() ChunkKey { return c.key }

// Params returns the map parameters last copied into the chunk.
func (c *Chunk) Params() ChunkParams { return c.params }

// Len returns the number of occupied slots.
func (c *Chunk) Len() int { return c.count }

// Dirty reports whether the mesh must be rebuilt.
func (c *Chunk) Dirty() bool {
	return c.dirty != nil && c.dirty.IsDirty(int(c.key.X), int(c.key.Y))
}

// MarkDirty schedules a mesh rebuild.
func (c *Chunk) MarkDirty() {
	if c.dirty != nil {
		c.dirty.Mark(int(c.key.X), int(c.key.Y))
	}
}

// Position returns the map-local world position of the chunk's first tile.
func (c *Chunk) Position() tilemap.Vec2 { return c.position }

// AABB returns the chunk's bounds relative to its transform.
func (c *Chunk) AABB() coord.Rect { return c.aabb }

// Transform returns the chunk's world transform.
func (c *Chunk) Transform() tilemap.Mat4 { return c.transform }

// Mesh returns the last built mesh.
func (c *Chunk) Mesh() *Mesh { return &c.mesh }

// IndexCount returns the number of indices uploaded for drawing.
func (c *Chunk) IndexCount() uint32 { return c.indexCount }

// Tile returns the tile in slot pos.
func (c *Chunk) Tile(pos tilemap.UVec2) (tilemap.Tile, bool) {
	i, ok := c.slot(pos)
	if !ok || c.slots[i].entity == tilemap.InvalidEntity {
		return tilemap.Tile{}, false
	}
	return c.slots[i].tile, true
}

// Set stores a tile in slot pos and marks the chunk dirty.
func (c *Chunk) Set(pos tilemap.UVec2, e tilemap.Entity, t tilemap.Tile) {
	i, ok := c.slot(pos)
	if !ok {
		return
	}
	if c.slots[i].entity == tilemap.InvalidEntity {
		c.count++
	}
	c.slots[i] = tileSlot{entity: e, tile: t}
	c.MarkDirty()
}

// Clear empties slot pos and marks the chunk dirty. It returns the entity
// that occupied the slot.
func (c *Chunk) Clear(pos tilemap.UVec2) (tilemap.Entity, bool) {
	i, ok := c.slot(pos)
	if !ok {
		return tilemap.InvalidEntity, false
	}
	e := c.slots[i].entity
	c.slots[i] = tileSlot{}
	c.MarkDirty()
	if e == tilemap.InvalidEntity {
		return e, false
	}
	c.count--
	return e, true
}

// drawable reports whether the chunk has uploaded geometry.
func (c *Chunk) drawable() bool {
	return c.indexCount > 0 && c.vertices != nil && c.vertices.Raw() != nil
}

// occupant returns the entity in slot pos, or InvalidEntity.
func (c *Chunk) occupant(pos tilemap.UVec2) tilemap.Entity {
	i, ok := c.slot(pos)
	if !ok {
		return tilemap.InvalidEntity
	}
	return c.slots[i].entity
}

func (c *Chunk) slot(pos tilemap.UVec2) (int, bool) {
	if pos.X >= c.params.ChunkSize.X || pos.Y >= c.params.ChunkSize.Y {
		return 0, false
	}
	return int(pos.Y)*int(c.params.ChunkSize.X) + int(pos.X), true
}

// setParams copies map parameters into the chunk, recomputing its
// placement when the geometry changed. The chunk size is fixed.
func (c *Chunk) setParams(p ChunkParams) {
	p.ChunkSize = c.params.ChunkSize
	same := c.params.sameGeometry(&p)
	c.params = p
	if !same {
		c.updateGeometry()
	}
}

func (c *Chunk) updateGeometry() {
	p := &c.params
	c.position = coord.ChunkIndexToWorld(c.key.Index(), p.ChunkSize, p.GridSize, p.Type)
	c.aabb = coord.ChunkAABB(p.ChunkSize, p.GridSize, p.TileSize, p.Type)
	c.transform = p.Transform.Mul(tilemap.Translation4(c.position.Extend(0)))
}

// rebuild rebuilds the CPU mesh. It touches only this chunk and may run
// concurrently with other chunks' rebuilds.
func (c *Chunk) rebuild() {
	c.mesh.Build(c.slots, c.params.ChunkSize.X, float32(c.key.Z))
}

// upload writes the mesh to the chunk's GPU buffers.
func (c *Chunk) upload(device hal.Device, queue hal.Queue, mem *gpu.Memory) error {
	if device == nil {
		return ErrNoDevice
	}
	if c.vertices == nil {
		label := fmt.Sprintf("tilemap_chunk_%d_%d_%d", c.key.Tilemap, c.key.X, c.key.Y)
		c.vertices = gpu.NewBuffer(device, queue, mem, label+"_vertices", gputypes.BufferUsageVertex)
		c.indices = gpu.NewBuffer(device, queue, mem, label+"_indices", gputypes.BufferUsageIndex)
	}
	c.indexCount = 0
	if err := c.vertices.Write(c.mesh.VertexBytes()); err != nil {
		return err
	}
	if err := c.indices.Write(c.mesh.IndexBytes()); err != nil {
		return err
	}
	c.indexCount = uint32(len(c.mesh.Indices))
	return nil
}

// release destroys the chunk's GPU buffers.
func (c *Chunk) release() {
	if c.vertices != nil {
		c.vertices.Destroy()
		c.indices.Destroy()
	}
	c.indexCount = 0
}
