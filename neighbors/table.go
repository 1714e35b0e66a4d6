package neighbors

import (
	"github.com/gogpu/tilemap"
	"github.com/gogpu/tilemap/coord"
)

type delta struct{ dx, dy int32 }

// rule is one table cell. A fixed rule uses even for every source; a
// parity rule picks even or odd by the parity of the source coordinate
// named by the table's axis.
type rule struct {
	valid  bool
	parity bool
	even   delta
	odd    delta
}

func fixed(dx, dy int32) rule { return rule{valid: true, even: delta{dx, dy}} }

func byParity(even, odd delta) rule { return rule{valid: true, parity: true, even: even, odd: odd} }

type space uint8

const (
	// spaceStored applies steps to the stored tile coordinates directly
	// (square, diamond and axial hex maps).
	spaceStored space = iota
	// spaceDiamond converts staggered coordinates to diamond space first.
	spaceDiamond
)

type axis uint8

const (
	axisY axis = iota // row layouts
	axisX             // column layouts
)

type table struct {
	space space
	axis  axis
	rules [8]rule
}

func (t *table) step(pos tilemap.TilePos, d Direction, size tilemap.TilemapSize) (tilemap.TilePos, bool) {
	r := t.rules[d]
	if !r.valid {
		return tilemap.TilePos{}, false
	}
	s := r.even
	if r.parity {
		c := pos.Y
		if t.axis == axisX {
			c = pos.X
		}
		if c%2 == 1 {
			s = r.odd
		}
	}
	x, y := int32(pos.X), int32(pos.Y)
	if t.space == spaceDiamond {
		dp := coord.StaggeredPos{X: x, Y: y}.Diamond().Add(coord.DiamondPos{X: s.dx, Y: s.dy})
		sp := dp.Staggered()
		return tilemap.TilePosFromInt(sp.X, sp.Y, size)
	}
	return tilemap.TilePosFromInt(x+s.dx, y+s.dy, size)
}

func squareRules(diagonal bool) [8]rule {
	var r [8]rule
	r[North] = fixed(0, 1)
	r[East] = fixed(1, 0)
	r[South] = fixed(0, -1)
	r[West] = fixed(-1, 0)
	if diagonal {
		r[NorthEast] = fixed(1, 1)
		r[SouthEast] = fixed(1, -1)
		r[SouthWest] = fixed(-1, -1)
		r[NorthWest] = fixed(-1, 1)
	}
	return r
}

var (
	squareTable         = table{rules: squareRules(false)}
	squareDiagonalTable = table{rules: squareRules(true)}

	staggeredTable         = table{space: spaceDiamond, rules: squareRules(false)}
	staggeredDiagonalTable = table{space: spaceDiamond, rules: squareRules(true)}

	// Axial steps for pointy-top rows; there is no N or S neighbor.
	hexRowTable = table{rules: [8]rule{
		East:      fixed(1, 0),
		NorthEast: fixed(0, 1),
		NorthWest: fixed(-1, 1),
		West:      fixed(-1, 0),
		SouthWest: fixed(0, -1),
		SouthEast: fixed(1, -1),
	}}

	// Axial steps for flat-top columns; there is no E or W neighbor.
	hexColTable = table{rules: [8]rule{
		NorthEast: fixed(1, 0),
		North:     fixed(0, 1),
		NorthWest: fixed(-1, 1),
		SouthWest: fixed(-1, 0),
		South:     fixed(0, -1),
		SouthEast: fixed(1, -1),
	}}

	hexRowOddTable  = rowOffsetTable(false)
	hexRowEvenTable = rowOffsetTable(true)
	hexColOddTable  = colOffsetTable(false)
	hexColEvenTable = colOffsetTable(true)
)

// rowOffsetTable builds the parity table for offset row layouts. In an
// odd layout the odd rows sit half a cell to the right; an even layout
// shifts the even rows instead, which swaps the two step sets.
func rowOffsetTable(evenShifted bool) table {
	unshifted := map[Direction]delta{
		East: {1, 0}, NorthEast: {0, 1}, NorthWest: {-1, 1},
		West: {-1, 0}, SouthWest: {-1, -1}, SouthEast: {0, -1},
	}
	shifted := map[Direction]delta{
		East: {1, 0}, NorthEast: {1, 1}, NorthWest: {0, 1},
		West: {-1, 0}, SouthWest: {0, -1}, SouthEast: {1, -1},
	}
	return offsetTable(axisY, unshifted, shifted, evenShifted)
}

// colOffsetTable is rowOffsetTable for column layouts, where odd columns
// sit half a cell up in an odd layout.
func colOffsetTable(evenShifted bool) table {
	unshifted := map[Direction]delta{
		North: {0, 1}, South: {0, -1}, NorthEast: {1, 0},
		NorthWest: {-1, 0}, SouthWest: {-1, -1}, SouthEast: {1, -1},
	}
	shifted := map[Direction]delta{
		North: {0, 1}, South: {0, -1}, NorthEast: {1, 1},
		NorthWest: {-1, 1}, SouthWest: {-1, 0}, SouthEast: {1, 0},
	}
	return offsetTable(axisX, unshifted, shifted, evenShifted)
}

func offsetTable(a axis, unshifted, shifted map[Direction]delta, evenShifted bool) table {
	t := table{axis: a}
	for d, u := range unshifted {
		s := shifted[d]
		if evenShifted {
			t.rules[d] = byParity(s, u)
		} else {
			t.rules[d] = byParity(u, s)
		}
	}
	return t
}

func tableFor(typ tilemap.TilemapType) *table {
	switch typ.Topology {
	case tilemap.TopologyHexagon:
		switch typ.Hex {
		case tilemap.HexRow:
			return &hexRowTable
		case tilemap.HexColumn:
			return &hexColTable
		case tilemap.HexRowOdd:
			return &hexRowOddTable
		case tilemap.HexRowEven:
			return &hexRowEvenTable
		case tilemap.HexColumnOdd:
			return &hexColOddTable
		default:
			return &hexColEvenTable
		}
	case tilemap.TopologyIsometric:
		if typ.Iso == tilemap.IsoStaggered {
			if typ.Diagonal {
				return &staggeredDiagonalTable
			}
			return &staggeredTable
		}
	}
	if typ.Diagonal {
		return &squareDiagonalTable
	}
	return &squareTable
}
