package tilemap

import (
	"fmt"
	"iter"
)

// TileStorage is a dense grid of optional tile entities, one slot per tile
// position, indexed row-major by y*w + x.
//
// The number of slots is fixed at creation. Reallocating means creating a
// new storage value. TileStorage does not track entity liveness: when the
// host remaps entity handles, call Remap.
type TileStorage struct {
	size  TilemapSize
	tiles []Entity
}

// NewTileStorage allocates size.X*size.Y empty slots.
// A zero size yields a storage with no slots.
func NewTileStorage(size TilemapSize) *TileStorage {
	return &TileStorage{
		size:  size,
		tiles: make([]Entity, size.Count()),
	}
}

// Size returns the map size the storage was created for.
func (s *TileStorage) Size() TilemapSize {
	return s.size
}

// Len returns the number of slots (occupied or not).
func (s *TileStorage) Len() int {
	return len(s.tiles)
}

// Get returns the entity at pos and whether the slot is occupied.
// It panics if pos is out of bounds.
func (s *TileStorage) Get(pos TilePos) (Entity, bool) {
	s.mustInBounds(pos)
	e := s.tiles[pos.Index(s.size)]
	return e, e != InvalidEntity
}

// CheckedGet is Get that reports an empty slot for out-of-bounds
// positions instead of panicking.
func (s *TileStorage) CheckedGet(pos TilePos) (Entity, bool) {
	if !pos.InBounds(s.size) {
		return InvalidEntity, false
	}
	e := s.tiles[pos.Index(s.size)]
	return e, e != InvalidEntity
}

// Set stores e at pos, replacing any previous entity.
// It panics if pos is out of bounds.
func (s *TileStorage) Set(pos TilePos, e Entity) {
	s.mustInBounds(pos)
	s.tiles[pos.Index(s.size)] = e
}

// CheckedSet is Set that does nothing for out-of-bounds positions.
// It reports whether the slot was written.
func (s *TileStorage) CheckedSet(pos TilePos, e Entity) bool {
	if !pos.InBounds(s.size) {
		return false
	}
	s.tiles[pos.Index(s.size)] = e
	return true
}

// Remove empties the slot at pos and returns its previous entity.
// It panics if pos is out of bounds.
func (s *TileStorage) Remove(pos TilePos) (Entity, bool) {
	s.mustInBounds(pos)
	return s.take(pos.Index(s.size))
}

// CheckedRemove is Remove that reports an empty slot for out-of-bounds
// positions instead of panicking.
func (s *TileStorage) CheckedRemove(pos TilePos) (Entity, bool) {
	if !pos.InBounds(s.size) {
		return InvalidEntity, false
	}
	return s.take(pos.Index(s.size))
}

// All yields every occupied slot in row-major order.
func (s *TileStorage) All() iter.Seq2[TilePos, Entity] {
	return func(yield func(TilePos, Entity) bool) {
		if s.size.X == 0 {
			return
		}
		for i, e := range s.tiles {
			if e == InvalidEntity {
				continue
			}
			pos := TilePos{X: uint32(i) % s.size.X, Y: uint32(i) / s.size.X}
			if !yield(pos, e) {
				return
			}
		}
	}
}

// Slots returns the backing slots in row-major order. Writes through the
// returned slice update the storage; InvalidEntity marks an empty slot.
func (s *TileStorage) Slots() []Entity {
	return s.tiles
}

// Remap replaces every occupied slot with f(entity). Used when the host
// world reassigns entity handles, for example after a scene reload.
func (s *TileStorage) Remap(f func(Entity) Entity) {
	for i, e := range s.tiles {
		if e != InvalidEntity {
			s.tiles[i] = f(e)
		}
	}
}

func (s *TileStorage) take(i int) (Entity, bool) {
	e := s.tiles[i]
	s.tiles[i] = InvalidEntity
	return e, e != InvalidEntity
}

func (s *TileStorage) mustInBounds(pos TilePos) {
	if !pos.InBounds(s.size) {
		panic(fmt.Sprintf("tilemap: position %v outside map of size %dx%d", pos, s.size.X, s.size.Y))
	}
}
