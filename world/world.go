// Package world is an in-memory host world for tilemaps: it allocates
// entities, stores tile and tilemap components, and records every change
// with a monotonically increasing tick so the render pipeline can extract
// only what changed since its previous frame.
//
// A World is safe for concurrent use. Mutations and the read accessors
// used by extraction take the same lock, so extraction always observes a
// consistent snapshot.
package world

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/gogpu/tilemap"
)

// Errors returned by World mutations.
var (
	ErrUnknownTilemap = errors.New("world: unknown tilemap entity")
	ErrUnknownTile    = errors.New("world: unknown tile entity")
)

type tileEntry struct {
	record  tilemap.TileRecord
	changed uint64
}

type mapEntry struct {
	tm *tilemap.Tilemap
}

type logEntry struct {
	entity tilemap.Entity
	tick   uint64
}

// World owns tile and tilemap entities.
type World struct {
	mu sync.RWMutex

	nextEntity tilemap.Entity
	tick       uint64

	tilemaps map[tilemap.Entity]*mapEntry
	tiles    map[tilemap.Entity]*tileEntry

	changedLog     []logEntry
	removedTiles   []logEntry
	removedTilemap []logEntry
}

// New returns an empty world.
func New() *World {
	return &World{
		tilemaps: make(map[tilemap.Entity]*mapEntry),
		tiles:    make(map[tilemap.Entity]*tileEntry),
	}
}

// allocLocked returns a fresh entity. Entities are never reused.
func (w *World) allocLocked() tilemap.Entity {
	w.nextEntity++
	return w.nextEntity
}

func (w *World) bumpLocked() uint64 {
	w.tick++
	return w.tick
}

// Tick returns the tick of the most recent change.
func (w *World) Tick() uint64 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.tick
}

// SpawnTilemap adds a tilemap entity. The world takes ownership of tm and
// fills its Storage as tiles are spawned.
func (w *World) SpawnTilemap(tm *tilemap.Tilemap) tilemap.Entity {
	w.mu.Lock()
	defer w.mu.Unlock()
	if tm.Storage == nil {
		tm.Storage = tilemap.NewTileStorage(tm.Size)
	}
	e := w.allocLocked()
	w.tilemaps[e] = &mapEntry{tm: tm}
	w.bumpLocked()
	tilemap.Logger().Debug("world: tilemap spawned", "entity", e, "size", tm.Size, "type", tm.Type)
	return e
}

// SpawnTile adds a tile at pos on the given map, replacing any tile
// already there.
func (w *World) SpawnTile(mapEntity tilemap.Entity, pos tilemap.TilePos, tile tilemap.Tile) (tilemap.Entity, error) {
	if err := tile.Validate(); err != nil {
		return tilemap.InvalidEntity, err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	m, ok := w.tilemaps[mapEntity]
	if !ok {
		return tilemap.InvalidEntity, fmt.Errorf("%w: %d", ErrUnknownTilemap, mapEntity)
	}
	if !pos.InBounds(m.tm.Size) {
		return tilemap.InvalidEntity, fmt.Errorf("%w: %v", tilemap.ErrOutOfBounds, pos)
	}
	if old, ok := m.tm.Storage.Get(pos); ok {
		w.despawnTileLocked(old)
	}
	e := w.allocLocked()
	tick := w.bumpLocked()
	w.tiles[e] = &tileEntry{
		record: tilemap.TileRecord{
			Entity:  e,
			Pos:     pos,
			Tilemap: tilemap.TilemapID{Entity: mapEntity},
			Tile:    tile,
		},
		changed: tick,
	}
	w.changedLog = append(w.changedLog, logEntry{entity: e, tick: tick})
	m.tm.Storage.Set(pos, e)
	return e, nil
}

// UpdateTile applies fn to a tile's attributes and records the change.
func (w *World) UpdateTile(e tilemap.Entity, fn func(*tilemap.Tile)) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	t, ok := w.tiles[e]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownTile, e)
	}
	next := t.record.Tile
	fn(&next)
	if err := next.Validate(); err != nil {
		return err
	}
	t.record.Tile = next
	t.changed = w.bumpLocked()
	w.changedLog = append(w.changedLog, logEntry{entity: e, tick: t.changed})
	return nil
}

// DespawnTile removes a tile. It reports whether the tile existed.
func (w *World) DespawnTile(e tilemap.Entity) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.despawnTileLocked(e)
}

func (w *World) despawnTileLocked(e tilemap.Entity) bool {
	t, ok := w.tiles[e]
	if !ok {
		return false
	}
	delete(w.tiles, e)
	if m, ok := w.tilemaps[t.record.Tilemap.Entity]; ok {
		if cur, _ := m.tm.Storage.CheckedGet(t.record.Pos); cur == e {
			m.tm.Storage.CheckedRemove(t.record.Pos)
		}
	}
	w.removedTiles = append(w.removedTiles, logEntry{entity: e, tick: w.bumpLocked()})
	return true
}

// DespawnTilemap removes a tilemap and every tile it owns. It reports
// whether the tilemap existed.
func (w *World) DespawnTilemap(e tilemap.Entity) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	m, ok := w.tilemaps[e]
	if !ok {
		return false
	}
	for _, te := range m.tm.Storage.All() {
		delete(w.tiles, te)
	}
	delete(w.tilemaps, e)
	w.removedTilemap = append(w.removedTilemap, logEntry{entity: e, tick: w.bumpLocked()})
	tilemap.Logger().Debug("world: tilemap despawned", "entity", e)
	return true
}

// UpdateTilemap applies fn to a tilemap's parameters. Changing Size or the
// chunk size of an existing map is not supported.
func (w *World) UpdateTilemap(e tilemap.Entity, fn func(*tilemap.Tilemap)) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	m, ok := w.tilemaps[e]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownTilemap, e)
	}
	fn(m.tm)
	w.bumpLocked()
	return nil
}

// Tile returns a tile entity's current record.
func (w *World) Tile(e tilemap.Entity) (tilemap.TileRecord, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	t, ok := w.tiles[e]
	if !ok {
		return tilemap.TileRecord{}, false
	}
	return t.record, true
}

// Tilemap returns a copy of a tilemap entity's parameters.
func (w *World) Tilemap(e tilemap.Entity) (tilemap.Tilemap, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	m, ok := w.tilemaps[e]
	if !ok {
		return tilemap.Tilemap{}, false
	}
	return *m.tm, true
}

// TileCount returns the number of live tiles.
func (w *World) TileCount() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.tiles)
}

// ChangedTiles returns every live tile added or modified after tick since,
// ordered by the tick of its latest change.
func (w *World) ChangedTiles(since uint64) []tilemap.TileRecord {
	w.mu.RLock()
	defer w.mu.RUnlock()
	start := searchLog(w.changedLog, since)
	var out []tilemap.TileRecord
	for _, l := range w.changedLog[start:] {
		t, ok := w.tiles[l.entity]
		// Only the latest log entry of a tile is reported.
		if !ok || t.changed != l.tick {
			continue
		}
		out = append(out, t.record)
	}
	return out
}

// RemovedTiles returns the tiles despawned after tick since.
func (w *World) RemovedTiles(since uint64) []tilemap.Entity {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return entitiesSince(w.removedTiles, since)
}

// RemovedTilemaps returns the tilemaps despawned after tick since.
func (w *World) RemovedTilemaps(since uint64) []tilemap.Entity {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return entitiesSince(w.removedTilemap, since)
}

// Tilemaps returns a copy of every live tilemap, ordered by entity.
func (w *World) Tilemaps() []tilemap.TilemapRecord {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]tilemap.TilemapRecord, 0, len(w.tilemaps))
	for e, m := range w.tilemaps {
		out = append(out, tilemap.TilemapRecord{Entity: e, Map: *m.tm})
	}
	slices.SortFunc(out, func(a, b tilemap.TilemapRecord) int {
		return cmp.Compare(a.Entity, b.Entity)
	})
	return out
}

// ClearTrackers discards change and removal logs up to and including
// tick. Call it once every consumer has extracted past tick.
func (w *World) ClearTrackers(tick uint64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.changedLog = trimLog(w.changedLog, tick)
	w.removedTiles = trimLog(w.removedTiles, tick)
	w.removedTilemap = trimLog(w.removedTilemap, tick)
}

// searchLog returns the index of the first entry newer than since.
// Logs are appended in tick order.
func searchLog(log []logEntry, since uint64) int {
	i, _ := slices.BinarySearchFunc(log, since+1, func(l logEntry, t uint64) int {
		return cmp.Compare(l.tick, t)
	})
	return i
}

func entitiesSince(log []logEntry, since uint64) []tilemap.Entity {
	start := searchLog(log, since)
	if start == len(log) {
		return nil
	}
	out := make([]tilemap.Entity, 0, len(log)-start)
	for _, l := range log[start:] {
		out = append(out, l.entity)
	}
	return out
}

func trimLog(log []logEntry, tick uint64) []logEntry {
	return slices.Clone(log[searchLog(log, tick):])
}
