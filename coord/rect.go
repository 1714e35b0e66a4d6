// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package coord

import "github.com/gogpu/tilemap"

// Rect is an axis-aligned rectangle in world space.
type Rect struct {
	Min, Max tilemap.Vec2
}

// RectFromPoints returns the smallest rectangle containing every point.
// No points yields the zero rectangle.
func RectFromPoints(pts ...tilemap.Vec2) Rect {
	if len(pts) == 0 {
		return Rect{}
	}
	r := Rect{Min: pts[0], Max: pts[0]}
	for _, p := range pts[1:] {
		r.Min = r.Min.Min(p)
		r.Max = r.Max.Max(p)
	}
	return r
}

// Size returns the width and height.
func (r Rect) Size() tilemap.Vec2 { return r.Max.Sub(r.Min) }

// Center returns the midpoint.
func (r Rect) Center() tilemap.Vec2 { return r.Min.Add(r.Max).Mul(0.5) }

// Expand grows the rectangle by d on every side.
func (r Rect) Expand(d tilemap.Vec2) Rect {
	return Rect{Min: r.Min.Sub(d), Max: r.Max.Add(d)}
}

// Contains reports whether p lies inside or on the edge.
func (r Rect) Contains(p tilemap.Vec2) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// Point returns the point at rectangle-relative coordinates rel, where
// (-0.5, -0.5) is Min and (0.5, 0.5) is Max.
func (r Rect) Point(rel tilemap.Vec2) tilemap.Vec2 {
	t := rel.Add(tilemap.V2(0.5, 0.5))
	return r.Min.Add(t.MulVec(r.Size()))
}

// MapRect returns the bounding rectangle of every tile sprite of a map
// placed without an anchor. A map with no tiles yields the zero rectangle.
func MapRect(size tilemap.TilemapSize, grid tilemap.GridSize, tile tilemap.TileSize, typ tilemap.TilemapType) Rect {
	if size.X == 0 || size.Y == 0 {
		return Rect{}
	}
	// Tile centers move monotonically with the stored coordinates apart
	// from the hex stagger, so the extremes lie on the border.
	first := CenterInWorld(tilemap.TilePos{}, grid, typ)
	r := Rect{Min: first, Max: first}
	add := func(x, y uint32) {
		c := CenterInWorld(tilemap.TilePos{X: x, Y: y}, grid, typ)
		r.Min = r.Min.Min(c)
		r.Max = r.Max.Max(c)
	}
	for x := range size.X {
		add(x, 0)
		add(x, size.Y-1)
	}
	for y := range size.Y {
		add(0, y)
		add(size.X-1, y)
	}
	return r.Expand(tile.Vec().Mul(0.5))
}

// AnchorOffset returns the translation that moves the anchor point of the
// map rectangle to the map's transform origin. NoAnchor yields zero.
func AnchorOffset(a tilemap.Anchor, size tilemap.TilemapSize, grid tilemap.GridSize, tile tilemap.TileSize, typ tilemap.TilemapType) tilemap.Vec2 {
	rel, ok := a.Relative()
	if !ok {
		return tilemap.Vec2{}
	}
	return MapRect(size, grid, tile, typ).Point(rel).Neg()
}

// ChunkIndexToWorld returns the map-local world position of the center of
// a chunk's first tile. Chunk meshes are positioned relative to it.
func ChunkIndexToWorld(index, chunkSize tilemap.UVec2, grid tilemap.GridSize, typ tilemap.TilemapType) tilemap.Vec2 {
	anchor := tilemap.TilePos{X: index.X * chunkSize.X, Y: index.Y * chunkSize.Y}
	return CenterInWorld(anchor, grid, typ)
}

// ChunkAABB returns a conservative bounding rectangle of a chunk's tile
// sprites, relative to ChunkIndexToWorld. The chunk-local footprint
// corners are projected with ProjectFrac and the result is grown by half a
// tile, plus half a grid cell along the staggered axis of offset hex maps.
func ChunkAABB(chunkSize tilemap.UVec2, grid tilemap.GridSize, tile tilemap.TileSize, typ tilemap.TilemapType) Rect {
	w, h := float32(chunkSize.X), float32(chunkSize.Y)
	r := RectFromPoints(
		ProjectFrac(tilemap.V2(-0.5, -0.5), grid, typ),
		ProjectFrac(tilemap.V2(w-0.5, -0.5), grid, typ),
		ProjectFrac(tilemap.V2(-0.5, h-0.5), grid, typ),
		ProjectFrac(tilemap.V2(w-0.5, h-0.5), grid, typ),
	)
	return r.Expand(tile.Vec().Mul(0.5).Add(staggerSlack(grid, typ)))
}
