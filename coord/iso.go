// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package coord

import "github.com/gogpu/tilemap"

// DiamondBasis maps diamond coordinates to unit world space.
var DiamondBasis = tilemap.Mat2FromCols(tilemap.V2(0.5, -0.5), tilemap.V2(0.5, 0.5))

// InvDiamondBasis is the inverse of DiamondBasis.
var InvDiamondBasis = tilemap.Mat2FromCols(tilemap.V2(1, 1), tilemap.V2(-1, 1))

// DiamondPos is a position on an isometric diamond grid. Its axes run along
// the two screen diagonals.
type DiamondPos struct {
	X, Y int32
}

// DiamondFromTilePos converts a tile position stored in diamond layout.
func DiamondFromTilePos(p tilemap.TilePos) DiamondPos {
	return DiamondPos{X: int32(p.X), Y: int32(p.Y)}
}

// Add returns p + o.
func (p DiamondPos) Add(o DiamondPos) DiamondPos { return DiamondPos{X: p.X + o.X, Y: p.Y + o.Y} }

// Sub returns p - o.
func (p DiamondPos) Sub(o DiamondPos) DiamondPos { return DiamondPos{X: p.X - o.X, Y: p.Y - o.Y} }

// Scale returns k * p.
func (p DiamondPos) Scale(k int32) DiamondPos { return DiamondPos{X: k * p.X, Y: k * p.Y} }

// Square reinterprets the diamond position as a square position.
// The two grids share component values; only the projection differs.
func (p DiamondPos) Square() SquarePos { return SquarePos(p) }

// Staggered converts to staggered coordinates.
func (p DiamondPos) Staggered() StaggeredPos {
	return StaggeredPos{X: p.X, Y: p.Y - p.X}
}

// CenterInWorld returns the world position of the tile center.
func (p DiamondPos) CenterInWorld(grid tilemap.GridSize) tilemap.Vec2 {
	return projectDiamond(tilemap.Vec2{X: float32(p.X), Y: float32(p.Y)}, grid)
}

// TilePos converts to a tile position, reporting false outside the map.
func (p DiamondPos) TilePos(size tilemap.TilemapSize) (tilemap.TilePos, bool) {
	return tilemap.TilePosFromInt(p.X, p.Y, size)
}

// DiamondFromWorld returns the diamond tile containing a world position.
func DiamondFromWorld(world tilemap.Vec2, grid tilemap.GridSize) DiamondPos {
	n := InvDiamondBasis.MulVec(world.DivVec(grid.Vec()))
	return DiamondPos{X: roundHalfUp(n.X), Y: roundHalfUp(n.Y)}
}

func projectDiamond(v tilemap.Vec2, grid tilemap.GridSize) tilemap.Vec2 {
	return DiamondBasis.MulVec(v).MulVec(grid.Vec())
}

// StaggeredPos is a position on a staggered isometric grid: the same
// visual layout as diamond, stored row-major with shifted rows.
type StaggeredPos struct {
	X, Y int32
}

// StaggeredFromTilePos converts a tile position stored in staggered layout.
func StaggeredFromTilePos(p tilemap.TilePos) StaggeredPos {
	return StaggeredPos{X: int32(p.X), Y: int32(p.Y)}
}

// Add returns p + o.
func (p StaggeredPos) Add(o StaggeredPos) StaggeredPos {
	return StaggeredPos{X: p.X + o.X, Y: p.Y + o.Y}
}

// Sub returns p - o.
func (p StaggeredPos) Sub(o StaggeredPos) StaggeredPos {
	return StaggeredPos{X: p.X - o.X, Y: p.Y - o.Y}
}

// Scale returns k * p.
func (p StaggeredPos) Scale(k int32) StaggeredPos { return StaggeredPos{X: k * p.X, Y: k * p.Y} }

// Diamond converts to diamond coordinates.
func (p StaggeredPos) Diamond() DiamondPos {
	return DiamondPos{X: p.X, Y: p.Y + p.X}
}

// CenterInWorld returns the world position of the tile center.
func (p StaggeredPos) CenterInWorld(grid tilemap.GridSize) tilemap.Vec2 {
	return p.Diamond().CenterInWorld(grid)
}

// TilePos converts to a tile position, reporting false outside the map.
func (p StaggeredPos) TilePos(size tilemap.TilemapSize) (tilemap.TilePos, bool) {
	return tilemap.TilePosFromInt(p.X, p.Y, size)
}

// StaggeredFromWorld returns the staggered tile containing a world position.
func StaggeredFromWorld(world tilemap.Vec2, grid tilemap.GridSize) StaggeredPos {
	return DiamondFromWorld(world, grid).Staggered()
}

// staggeredToDiamond is the linear map (x, y) -> (x, y + x) on fractional
// positions.
func staggeredToDiamond(v tilemap.Vec2) tilemap.Vec2 {
	return tilemap.Vec2{X: v.X, Y: v.Y + v.X}
}
