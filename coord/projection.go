// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package coord

import "github.com/gogpu/tilemap"

var (
	identityBasis = tilemap.Mat2FromCols(tilemap.V2(1, 0), tilemap.V2(0, 1))
	// Offset hex systems are approximated by an unsheared basis; the true
	// centers differ by at most half a cell along the staggered axis.
	rowOffsetBasis = tilemap.Mat2FromCols(tilemap.V2(1, 0), tilemap.V2(0, halfSqrt3))
	colOffsetBasis = tilemap.Mat2FromCols(tilemap.V2(halfSqrt3, 0), tilemap.V2(0, 1))
)

// Basis returns the matrix that maps tile-space coordinates of the given
// map type to unit world space. Staggered maps return the diamond basis;
// their positions must be converted with StaggeredToDiamond first.
func Basis(typ tilemap.TilemapType) tilemap.Mat2 {
	switch typ.Topology {
	case tilemap.TopologyHexagon:
		if typ.Hex.IsRow() {
			return RowBasis
		}
		return ColBasis
	case tilemap.TopologyIsometric:
		return DiamondBasis
	}
	return identityBasis
}

// StaggeredToDiamond maps a fractional staggered position to diamond space.
func StaggeredToDiamond(v tilemap.Vec2) tilemap.Vec2 { return staggeredToDiamond(v) }

// CenterInWorld returns the map-local world position of a tile center.
func CenterInWorld(p tilemap.TilePos, grid tilemap.GridSize, typ tilemap.TilemapType) tilemap.Vec2 {
	switch typ.Topology {
	case tilemap.TopologyHexagon:
		a := HexFromTilePos(p, typ.Hex)
		if typ.Hex.IsRow() {
			return a.CenterInWorldRow(grid)
		}
		return a.CenterInWorldCol(grid)
	case tilemap.TopologyIsometric:
		if typ.Iso == tilemap.IsoStaggered {
			return StaggeredFromTilePos(p).CenterInWorld(grid)
		}
		return DiamondFromTilePos(p).CenterInWorld(grid)
	}
	return SquareFromTilePos(p).CenterInWorld(grid)
}

// FromWorldPos returns the tile containing a map-local world position, or
// false when that tile lies outside the map.
func FromWorldPos(world tilemap.Vec2, size tilemap.TilemapSize, grid tilemap.GridSize, typ tilemap.TilemapType) (tilemap.TilePos, bool) {
	switch typ.Topology {
	case tilemap.TopologyHexagon:
		var a AxialPos
		if typ.Hex.IsRow() {
			a = AxialFromWorldRow(world, grid)
		} else {
			a = AxialFromWorldCol(world, grid)
		}
		return HexToTilePos(a, typ.Hex, size)
	case tilemap.TopologyIsometric:
		if typ.Iso == tilemap.IsoStaggered {
			return StaggeredFromWorld(world, grid).TilePos(size)
		}
		return DiamondFromWorld(world, grid).TilePos(size)
	}
	return SquareFromWorld(world, grid).TilePos(size)
}

// ProjectFrac maps a fractional position in the map's stored tile
// coordinates to world space. It is exact for square, isometric and axial
// hex maps. For offset hex maps it ignores the half-cell stagger, so
// results may be off by up to half a grid cell along the staggered axis.
func ProjectFrac(v tilemap.Vec2, grid tilemap.GridSize, typ tilemap.TilemapType) tilemap.Vec2 {
	var b tilemap.Mat2
	switch typ.Topology {
	case tilemap.TopologyHexagon:
		switch typ.Hex {
		case tilemap.HexRow:
			b = RowBasis
		case tilemap.HexColumn:
			b = ColBasis
		case tilemap.HexRowEven, tilemap.HexRowOdd:
			b = rowOffsetBasis
		default:
			b = colOffsetBasis
		}
	case tilemap.TopologyIsometric:
		b = DiamondBasis
		if typ.Iso == tilemap.IsoStaggered {
			v = staggeredToDiamond(v)
		}
	default:
		b = identityBasis
	}
	return b.MulVec(v).MulVec(grid.Vec())
}

// staggerSlack returns how far true tile centers may stray from
// ProjectFrac along each axis.
func staggerSlack(grid tilemap.GridSize, typ tilemap.TilemapType) tilemap.Vec2 {
	if typ.Topology != tilemap.TopologyHexagon {
		return tilemap.Vec2{}
	}
	switch typ.Hex {
	case tilemap.HexRowEven, tilemap.HexRowOdd:
		return tilemap.Vec2{X: grid.X / 2}
	case tilemap.HexColumnEven, tilemap.HexColumnOdd:
		return tilemap.Vec2{Y: grid.Y / 2}
	}
	return tilemap.Vec2{}
}
