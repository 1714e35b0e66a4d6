package neighbors

import (
	"iter"

	"github.com/gogpu/tilemap"
)

// Neighbors is a record with one optional value per compass direction.
type Neighbors[T any] struct {
	values  [8]T
	present [8]bool
}

// Get returns the value in direction d and whether the slot is filled.
func (n *Neighbors[T]) Get(d Direction) (T, bool) {
	return n.values[d], n.present[d]
}

// Set fills the slot in direction d.
func (n *Neighbors[T]) Set(d Direction, v T) {
	n.values[d] = v
	n.present[d] = true
}

// Clear empties the slot in direction d.
func (n *Neighbors[T]) Clear(d Direction) {
	var zero T
	n.values[d] = zero
	n.present[d] = false
}

// Len returns the number of filled slots.
func (n *Neighbors[T]) Len() int {
	c := 0
	for _, ok := range n.present {
		if ok {
			c++
		}
	}
	return c
}

// All yields the filled slots in compass order starting at North.
func (n *Neighbors[T]) All() iter.Seq2[Direction, T] {
	return func(yield func(Direction, T) bool) {
		for _, d := range Directions {
			if n.present[d] && !yield(d, n.values[d]) {
				return
			}
		}
	}
}

// Map applies f to every filled slot of n. Slots for which f reports false
// are left empty.
func Map[T, U any](n Neighbors[T], f func(T) (U, bool)) Neighbors[U] {
	var out Neighbors[U]
	for d, v := range n.All() {
		if u, ok := f(v); ok {
			out.Set(d, u)
		}
	}
	return out
}

// Positions returns the in-bounds neighbors of pos on a map of the given
// size and type.
func Positions(pos tilemap.TilePos, size tilemap.TilemapSize, typ tilemap.TilemapType) Neighbors[tilemap.TilePos] {
	var out Neighbors[tilemap.TilePos]
	t := tableFor(typ)
	for _, d := range Directions {
		if p, ok := t.step(pos, d, size); ok {
			out.Set(d, p)
		}
	}
	return out
}

// Step returns the neighbor of pos in direction d, or false when the
// topology has no such neighbor or it lies outside the map.
func Step(pos tilemap.TilePos, d Direction, size tilemap.TilemapSize, typ tilemap.TilemapType) (tilemap.TilePos, bool) {
	return tableFor(typ).step(pos, d, size)
}

// Entities looks up each neighbor position in storage. Slots whose tile
// position is empty are left empty.
func Entities(n Neighbors[tilemap.TilePos], storage *tilemap.TileStorage) Neighbors[tilemap.Entity] {
	return Map(n, storage.CheckedGet)
}

// TileNeighbors returns the entities adjacent to pos in storage.
func TileNeighbors(pos tilemap.TilePos, storage *tilemap.TileStorage, typ tilemap.TilemapType) Neighbors[tilemap.Entity] {
	return Entities(Positions(pos, storage.Size(), typ), storage)
}
