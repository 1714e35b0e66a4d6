// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package coord

import (
	"math"

	"github.com/gogpu/tilemap"
)

const (
	halfSqrt3      float32 = 0.8660254 // √3/2
	invSqrt3       float32 = 0.57735026
	doubleInvSqrt3 float32 = 1.1547005
)

// Hex bases map axial coordinates to unit world space. Row layouts have
// pointy-topped hexes; column layouts have flat-topped hexes. Increasing y
// goes up.
var (
	RowBasis    = tilemap.Mat2FromCols(tilemap.V2(1, 0), tilemap.V2(0.5, halfSqrt3))
	InvRowBasis = tilemap.Mat2FromCols(tilemap.V2(1, 0), tilemap.V2(-invSqrt3, doubleInvSqrt3))
	ColBasis    = tilemap.Mat2FromCols(tilemap.V2(halfSqrt3, 0.5), tilemap.V2(0, 1))
	InvColBasis = tilemap.Mat2FromCols(tilemap.V2(doubleInvSqrt3, -invSqrt3), tilemap.V2(0, 1))
)

// AxialPos is a hex position in axial coordinates. The q and r axes are
// 60° apart.
type AxialPos struct {
	Q, R int32
}

// AxialFromTilePos reads a tile position as raw axial coordinates.
func AxialFromTilePos(p tilemap.TilePos) AxialPos {
	return AxialPos{Q: int32(p.X), R: int32(p.Y)}
}

// Add returns p + o.
func (p AxialPos) Add(o AxialPos) AxialPos { return AxialPos{Q: p.Q + o.Q, R: p.R + o.R} }

// Sub returns p - o.
func (p AxialPos) Sub(o AxialPos) AxialPos { return AxialPos{Q: p.Q - o.Q, R: p.R - o.R} }

// Scale returns k * p.
func (p AxialPos) Scale(k int32) AxialPos { return AxialPos{Q: k * p.Q, R: k * p.R} }

// Cube converts to cube coordinates.
func (p AxialPos) Cube() CubePos {
	return CubePos{Q: p.Q, R: p.R, S: -(p.Q + p.R)}
}

// Magnitude returns the hex distance from the origin.
func (p AxialPos) Magnitude() int32 { return p.Cube().Magnitude() }

// DistanceFrom returns the hex distance between p and o.
func (p AxialPos) DistanceFrom(o AxialPos) int32 { return p.Sub(o).Magnitude() }

// Neighbor returns the adjacent hex in direction d.
func (p AxialPos) Neighbor(d HexDirection) AxialPos { return p.Add(d.Offset()) }

// CenterInWorldRow projects the hex center for a row (pointy-top) layout.
func (p AxialPos) CenterInWorldRow(grid tilemap.GridSize) tilemap.Vec2 {
	return ProjectRow(tilemap.Vec2{X: float32(p.Q), Y: float32(p.R)}, grid)
}

// CenterInWorldCol projects the hex center for a column (flat-top) layout.
func (p AxialPos) CenterInWorldCol(grid tilemap.GridSize) tilemap.Vec2 {
	return ProjectCol(tilemap.Vec2{X: float32(p.Q), Y: float32(p.R)}, grid)
}

// TilePos converts raw axial coordinates to a tile position, reporting
// false outside the map.
func (p AxialPos) TilePos(size tilemap.TilemapSize) (tilemap.TilePos, bool) {
	return tilemap.TilePosFromInt(p.Q, p.R, size)
}

// ProjectRow maps a fractional axial position to world space for a row
// layout.
func ProjectRow(v tilemap.Vec2, grid tilemap.GridSize) tilemap.Vec2 {
	return RowBasis.MulVec(v).MulVec(grid.Vec())
}

// ProjectCol maps a fractional axial position to world space for a column
// layout.
func ProjectCol(v tilemap.Vec2, grid tilemap.GridSize) tilemap.Vec2 {
	return ColBasis.MulVec(v).MulVec(grid.Vec())
}

// AxialFromWorldRow returns the hex containing a world position in a row
// layout.
func AxialFromWorldRow(world tilemap.Vec2, grid tilemap.GridSize) AxialPos {
	f := InvRowBasis.MulVec(world.DivVec(grid.Vec()))
	return FracAxial{Q: f.X, R: f.Y}.Round()
}

// AxialFromWorldCol returns the hex containing a world position in a
// column layout.
func AxialFromWorldCol(world tilemap.Vec2, grid tilemap.GridSize) AxialPos {
	f := InvColBasis.MulVec(world.DivVec(grid.Vec()))
	return FracAxial{Q: f.X, R: f.Y}.Round()
}

// CubePos is a hex position in cube coordinates. Q + R + S is always zero.
type CubePos struct {
	Q, R, S int32
}

// Axial drops the redundant S component.
func (c CubePos) Axial() AxialPos { return AxialPos{Q: c.Q, R: c.R} }

// Add returns c + o.
func (c CubePos) Add(o CubePos) CubePos {
	return CubePos{Q: c.Q + o.Q, R: c.R + o.R, S: c.S + o.S}
}

// Sub returns c - o.
func (c CubePos) Sub(o CubePos) CubePos {
	return CubePos{Q: c.Q - o.Q, R: c.R - o.R, S: c.S - o.S}
}

// Scale returns k * c.
func (c CubePos) Scale(k int32) CubePos { return CubePos{Q: k * c.Q, R: k * c.R, S: k * c.S} }

// Magnitude returns the hex distance from the origin.
func (c CubePos) Magnitude() int32 {
	return max(abs(c.Q), abs(c.R), abs(c.S))
}

// DistanceFrom returns the hex distance between c and o.
func (c CubePos) DistanceFrom(o CubePos) int32 { return c.Sub(o).Magnitude() }

// FracAxial is a fractional axial position, typically a world position
// mapped into hex space.
type FracAxial struct {
	Q, R float32
}

// Cube converts to fractional cube coordinates.
func (f FracAxial) Cube() FracCube {
	return FracCube{Q: f.Q, R: f.R, S: -(f.Q + f.R)}
}

// Round returns the hex containing f.
func (f FracAxial) Round() AxialPos { return f.Cube().Round().Axial() }

// FracCube is a fractional cube position.
type FracCube struct {
	Q, R, S float32
}

// Round rounds each component to the nearest integer, then recomputes the
// component with the largest rounding error from the other two so the
// result lies on the q + r + s == 0 plane.
func (f FracCube) Round() CubePos {
	qr := math.Round(float64(f.Q))
	rr := math.Round(float64(f.R))
	sr := math.Round(float64(f.S))

	dq := math.Abs(qr - float64(f.Q))
	dr := math.Abs(rr - float64(f.R))
	ds := math.Abs(sr - float64(f.S))

	q, r, s := int32(qr), int32(rr), int32(sr)
	switch {
	case dq > dr && dq > ds:
		q = -(r + s)
	case dr > ds:
		r = -(q + s)
	default:
		s = -(q + r)
	}
	return CubePos{Q: q, R: r, S: s}
}

// HexDirection names the six axial neighbor directions, counterclockwise
// starting at +q.
type HexDirection uint8

const (
	HexDir0 HexDirection = iota // (+1,  0)
	HexDir1                     // ( 0, +1)
	HexDir2                     // (-1, +1)
	HexDir3                     // (-1,  0)
	HexDir4                     // ( 0, -1)
	HexDir5                     // (+1, -1)
)

var hexOffsets = [6]AxialPos{
	{Q: 1, R: 0},
	{Q: 0, R: 1},
	{Q: -1, R: 1},
	{Q: -1, R: 0},
	{Q: 0, R: -1},
	{Q: 1, R: -1},
}

// Offset returns the axial step in direction d.
func (d HexDirection) Offset() AxialPos { return hexOffsets[d%6] }

// Rotate returns the direction k steps counterclockwise from d.
// Negative k rotates clockwise.
func (d HexDirection) Rotate(k int) HexDirection {
	return HexDirection(((int(d)+k)%6 + 6) % 6)
}

// HexRing returns the hexes at exactly radius steps from origin, walking
// counterclockwise from the corner in direction 0. A zero radius yields
// only origin.
func HexRing(origin AxialPos, radius uint32) []AxialPos {
	if radius == 0 {
		return []AxialPos{origin}
	}
	r := int32(radius)
	ring := make([]AxialPos, 0, 6*radius)
	for d := HexDir0; d <= HexDir5; d++ {
		corner := origin.Add(d.Offset().Scale(r))
		tangent := d.Rotate(2).Offset()
		for k := range r {
			ring = append(ring, corner.Add(tangent.Scale(k)))
		}
	}
	return ring
}

// Hexagon returns every hex within radius steps of origin, ring by ring.
func Hexagon(origin AxialPos, radius uint32) []AxialPos {
	out := make([]AxialPos, 0, 1+3*radius*(radius+1))
	for r := range radius + 1 {
		out = append(out, HexRing(origin, r)...)
	}
	return out
}

func abs(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}
