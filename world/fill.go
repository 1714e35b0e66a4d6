package world

import (
	"errors"
	"fmt"
	"iter"

	"github.com/gogpu/tilemap"
	"github.com/gogpu/tilemap/coord"
)

// ErrNotHexagonal is returned by FillHexagon for maps of another topology.
var ErrNotHexagonal = errors.New("world: tilemap is not hexagonal")

// TileFunc returns the tile to place at pos, or false to leave pos alone.
type TileFunc func(pos tilemap.TilePos) (tilemap.Tile, bool)

// Constant places the same tile everywhere.
func Constant(t tilemap.Tile) TileFunc {
	return func(tilemap.TilePos) (tilemap.Tile, bool) { return t, true }
}

// Fill spawns a tile at every position yielded by positions for which fn
// reports true. It stops at the first error and returns the number of
// tiles spawned so far.
func (w *World) Fill(mapEntity tilemap.Entity, positions iter.Seq[tilemap.TilePos], fn TileFunc) (int, error) {
	n := 0
	for pos := range positions {
		t, ok := fn(pos)
		if !ok {
			continue
		}
		if _, err := w.SpawnTile(mapEntity, pos, t); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// FillTilemap spawns a tile at every position of the map.
func (w *World) FillTilemap(mapEntity tilemap.Entity, fn TileFunc) (int, error) {
	tm, ok := w.Tilemap(mapEntity)
	if !ok {
		return 0, fmt.Errorf("%w: %d", ErrUnknownTilemap, mapEntity)
	}
	return w.Fill(mapEntity, rectPositions(tilemap.TilePos{}, tm.Size, tm.Size), fn)
}

// FillRect spawns tiles over the extent starting at origin, clipped to the
// map.
func (w *World) FillRect(mapEntity tilemap.Entity, origin tilemap.TilePos, extent tilemap.TilemapSize, fn TileFunc) (int, error) {
	tm, ok := w.Tilemap(mapEntity)
	if !ok {
		return 0, fmt.Errorf("%w: %d", ErrUnknownTilemap, mapEntity)
	}
	return w.Fill(mapEntity, rectPositions(origin, extent, tm.Size), fn)
}

// FillHexagon spawns tiles on every in-bounds hex within radius steps of
// center on a hexagonal map.
func (w *World) FillHexagon(mapEntity tilemap.Entity, center tilemap.TilePos, radius uint32, fn TileFunc) (int, error) {
	tm, ok := w.Tilemap(mapEntity)
	if !ok {
		return 0, fmt.Errorf("%w: %d", ErrUnknownTilemap, mapEntity)
	}
	if tm.Type.Topology != tilemap.TopologyHexagon {
		return 0, fmt.Errorf("%w: %v", ErrNotHexagonal, tm.Type)
	}
	sys := tm.Type.Hex
	origin := coord.HexFromTilePos(center, sys)
	positions := func(yield func(tilemap.TilePos) bool) {
		for _, a := range coord.Hexagon(origin, radius) {
			p, ok := coord.HexToTilePos(a, sys, tm.Size)
			if ok && !yield(p) {
				return
			}
		}
	}
	return w.Fill(mapEntity, positions, fn)
}

func rectPositions(origin tilemap.TilePos, extent, size tilemap.TilemapSize) iter.Seq[tilemap.TilePos] {
	return func(yield func(tilemap.TilePos) bool) {
		maxX := min(origin.X+extent.X, size.X)
		maxY := min(origin.Y+extent.Y, size.Y)
		for y := origin.Y; y < maxY; y++ {
			for x := origin.X; x < maxX; x++ {
				if !yield(tilemap.TilePos{X: x, Y: y}) {
					return
				}
			}
		}
	}
}
