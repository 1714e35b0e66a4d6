// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package coord

import "github.com/gogpu/tilemap"

// Offset coordinates store hexes as (column, row) with every other row
// (row layouts) or column (column layouts) shifted by half a cell. Odd
// systems shift odd rows/columns, even systems shift even ones.

// RowOddPos is an offset position in a row layout with shifted odd rows.
type RowOddPos struct{ Q, R int32 }

// RowEvenPos is an offset position in a row layout with shifted even rows.
type RowEvenPos struct{ Q, R int32 }

// ColOddPos is an offset position in a column layout with shifted odd
// columns.
type ColOddPos struct{ Q, R int32 }

// ColEvenPos is an offset position in a column layout with shifted even
// columns.
type ColEvenPos struct{ Q, R int32 }

// ceilDiv2 divides by two rounding away from zero.
func ceilDiv2(n int32) int32 {
	if n < 0 {
		return (n - 1) / 2
	}
	return (n + 1) / 2
}

// RowOdd converts to odd-row offset coordinates.
func (p AxialPos) RowOdd() RowOddPos { return RowOddPos{Q: p.Q + p.R/2, R: p.R} }

// RowEven converts to even-row offset coordinates.
func (p AxialPos) RowEven() RowEvenPos { return RowEvenPos{Q: p.Q + ceilDiv2(p.R), R: p.R} }

// ColOdd converts to odd-column offset coordinates.
func (p AxialPos) ColOdd() ColOddPos { return ColOddPos{Q: p.Q, R: p.R + p.Q/2} }

// ColEven converts to even-column offset coordinates.
func (p AxialPos) ColEven() ColEvenPos { return ColEvenPos{Q: p.Q, R: p.R + ceilDiv2(p.Q)} }

// Axial converts back to axial coordinates.
func (p RowOddPos) Axial() AxialPos { return AxialPos{Q: p.Q - p.R/2, R: p.R} }

// Axial converts back to axial coordinates.
func (p RowEvenPos) Axial() AxialPos { return AxialPos{Q: p.Q - ceilDiv2(p.R), R: p.R} }

// Axial converts back to axial coordinates.
func (p ColOddPos) Axial() AxialPos { return AxialPos{Q: p.Q, R: p.R - p.Q/2} }

// Axial converts back to axial coordinates.
func (p ColEvenPos) Axial() AxialPos { return AxialPos{Q: p.Q, R: p.R - ceilDiv2(p.Q)} }

// Add returns p + o.
func (p RowOddPos) Add(o RowOddPos) RowOddPos { return RowOddPos{Q: p.Q + o.Q, R: p.R + o.R} }

// Sub returns p - o.
func (p RowOddPos) Sub(o RowOddPos) RowOddPos { return RowOddPos{Q: p.Q - o.Q, R: p.R - o.R} }

// Scale returns k * p.
func (p RowOddPos) Scale(k int32) RowOddPos { return RowOddPos{Q: k * p.Q, R: k * p.R} }

// Add returns p + o.
func (p RowEvenPos) Add(o RowEvenPos) RowEvenPos { return RowEvenPos{Q: p.Q + o.Q, R: p.R + o.R} }

// Sub returns p - o.
func (p RowEvenPos) Sub(o RowEvenPos) RowEvenPos { return RowEvenPos{Q: p.Q - o.Q, R: p.R - o.R} }

// Scale returns k * p.
func (p RowEvenPos) Scale(k int32) RowEvenPos { return RowEvenPos{Q: k * p.Q, R: k * p.R} }

// Add returns p + o.
func (p ColOddPos) Add(o ColOddPos) ColOddPos { return ColOddPos{Q: p.Q + o.Q, R: p.R + o.R} }

// Sub returns p - o.
func (p ColOddPos) Sub(o ColOddPos) ColOddPos { return ColOddPos{Q: p.Q - o.Q, R: p.R - o.R} }

// Scale returns k * p.
func (p ColOddPos) Scale(k int32) ColOddPos { return ColOddPos{Q: k * p.Q, R: k * p.R} }

// Add returns p + o.
func (p ColEvenPos) Add(o ColEvenPos) ColEvenPos { return ColEvenPos{Q: p.Q + o.Q, R: p.R + o.R} }

// Sub returns p - o.
func (p ColEvenPos) Sub(o ColEvenPos) ColEvenPos { return ColEvenPos{Q: p.Q - o.Q, R: p.R - o.R} }

// Scale returns k * p.
func (p ColEvenPos) Scale(k int32) ColEvenPos { return ColEvenPos{Q: k * p.Q, R: k * p.R} }

// HexFromTilePos reads a tile position in the given hex system and returns
// its axial coordinates.
func HexFromTilePos(p tilemap.TilePos, sys tilemap.HexCoordSystem) AxialPos {
	q, r := int32(p.X), int32(p.Y)
	switch sys {
	case tilemap.HexRowOdd:
		return RowOddPos{Q: q, R: r}.Axial()
	case tilemap.HexRowEven:
		return RowEvenPos{Q: q, R: r}.Axial()
	case tilemap.HexColumnOdd:
		return ColOddPos{Q: q, R: r}.Axial()
	case tilemap.HexColumnEven:
		return ColEvenPos{Q: q, R: r}.Axial()
	}
	return AxialPos{Q: q, R: r}
}

// HexToTilePos stores an axial position in the given hex system, reporting
// false when the result lies outside the map.
func HexToTilePos(a AxialPos, sys tilemap.HexCoordSystem, size tilemap.TilemapSize) (tilemap.TilePos, bool) {
	x, y := hexStored(a, sys)
	return tilemap.TilePosFromInt(x, y, size)
}

// hexStored returns the (x, y) components a tile position in sys would
// hold for a.
func hexStored(a AxialPos, sys tilemap.HexCoordSystem) (int32, int32) {
	switch sys {
	case tilemap.HexRowOdd:
		o := a.RowOdd()
		return o.Q, o.R
	case tilemap.HexRowEven:
		o := a.RowEven()
		return o.Q, o.R
	case tilemap.HexColumnOdd:
		o := a.ColOdd()
		return o.Q, o.R
	case tilemap.HexColumnEven:
		o := a.ColEven()
		return o.Q, o.R
	}
	return a.Q, a.R
}
