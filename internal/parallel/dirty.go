package parallel

import (
	"math/bits"
	"sync/atomic"
)

// DirtyGrid tracks which cells of a 2D grid need rebuilding using an
// atomic bitmap, one bit per cell packed into uint64 words.
// All methods are safe for concurrent use without external locking.
type DirtyGrid struct {
	// Bit index = y*width + x.
	words  []atomic.Uint64
	width  int
	height int
}

// NewDirtyGrid creates a grid with every cell clean.
// Returns nil if either dimension is zero or negative.
func NewDirtyGrid(width, height int) *DirtyGrid {
	if width <= 0 || height <= 0 {
		return nil
	}
	return &DirtyGrid{
		words:  make([]atomic.Uint64, (width*height+63)/64),
		width:  width,
		height: height,
	}
}

// Size returns the grid dimensions.
func (d *DirtyGrid) Size() (width, height int) {
	return d.width, d.height
}

// Mark flags cell (x, y). Out-of-range cells are ignored.
func (d *DirtyGrid) Mark(x, y int) {
	if x < 0 || x >= d.width || y < 0 || y >= d.height {
		return
	}
	idx := y*d.width + x
	d.words[idx/64].Or(1 << (idx & 63))
}

// MarkAll flags every cell.
func (d *DirtyGrid) MarkAll() {
	total := d.width * d.height
	full := total / 64
	for i := range full {
		d.words[i].Store(^uint64(0))
	}
	if rem := total % 64; rem > 0 {
		d.words[full].Store(uint64(1)<<rem - 1)
	}
}

// Clear unflags every cell.
func (d *DirtyGrid) Clear() {
	for i := range d.words {
		d.words[i].Store(0)
	}
}

// IsDirty reports whether cell (x, y) is flagged. Out-of-range cells are
// clean.
func (d *DirtyGrid) IsDirty(x, y int) bool {
	if x < 0 || x >= d.width || y < 0 || y >= d.height {
		return false
	}
	idx := y*d.width + x
	return d.words[idx/64].Load()&(1<<(idx&63)) != 0
}

// Count returns the number of flagged cells.
func (d *DirtyGrid) Count() int {
	n := 0
	for i := range d.words {
		n += bits.OnesCount64(d.words[i].Load())
	}
	return n
}

// IsEmpty reports whether no cell is flagged.
func (d *DirtyGrid) IsEmpty() bool {
	for i := range d.words {
		if d.words[i].Load() != 0 {
			return false
		}
	}
	return true
}

// Drain atomically clears the grid and returns the flagged cells in
// row-major order.
func (d *DirtyGrid) Drain() [][2]int {
	var out [][2]int
	for wi := range d.words {
		word := d.words[wi].Swap(0)
		for word != 0 {
			idx := wi*64 + bits.TrailingZeros64(word)
			out = append(out, [2]int{idx % d.width, idx / d.width})
			word &= word - 1
		}
	}
	return out
}
