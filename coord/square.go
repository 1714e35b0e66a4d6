// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package coord

import (
	"math"

	"github.com/gogpu/tilemap"
)

// SquarePos is a signed position on a square grid.
type SquarePos struct {
	X, Y int32
}

// SquareFromTilePos converts a tile position.
func SquareFromTilePos(p tilemap.TilePos) SquarePos {
	return SquarePos{X: int32(p.X), Y: int32(p.Y)}
}

// Add returns p + o.
func (p SquarePos) Add(o SquarePos) SquarePos { return SquarePos{X: p.X + o.X, Y: p.Y + o.Y} }

// Sub returns p - o.
func (p SquarePos) Sub(o SquarePos) SquarePos { return SquarePos{X: p.X - o.X, Y: p.Y - o.Y} }

// Scale returns k * p.
func (p SquarePos) Scale(k int32) SquarePos { return SquarePos{X: k * p.X, Y: k * p.Y} }

// CenterInWorld returns the world position of the tile center.
func (p SquarePos) CenterInWorld(grid tilemap.GridSize) tilemap.Vec2 {
	return projectSquare(tilemap.Vec2{X: float32(p.X), Y: float32(p.Y)}, grid)
}

// TilePos converts to a tile position, reporting false outside the map.
func (p SquarePos) TilePos(size tilemap.TilemapSize) (tilemap.TilePos, bool) {
	return tilemap.TilePosFromInt(p.X, p.Y, size)
}

// SquareFromWorld returns the square containing a world position.
func SquareFromWorld(world tilemap.Vec2, grid tilemap.GridSize) SquarePos {
	n := world.DivVec(grid.Vec())
	return SquarePos{X: roundHalfUp(n.X), Y: roundHalfUp(n.Y)}
}

func projectSquare(v tilemap.Vec2, grid tilemap.GridSize) tilemap.Vec2 {
	return v.MulVec(grid.Vec())
}

// roundHalfUp is floor(v + 0.5), which places each tile center in the
// middle of its cell and assigns shared edges to the upper cell.
func roundHalfUp(v float32) int32 {
	return int32(math.Floor(float64(v) + 0.5))
}
