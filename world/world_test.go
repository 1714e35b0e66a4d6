package world

import (
	"errors"
	"slices"
	"testing"

	"github.com/gogpu/tilemap"
)

func newMap(w *World, x, y uint32, opts ...tilemap.Option) tilemap.Entity {
	tm := tilemap.NewTilemap(tilemap.TilemapSize{X: x, Y: y}, tilemap.TileSize{X: 16, Y: 16}, tilemap.AtlasTexture(1), opts...)
	return w.SpawnTilemap(tm)
}

func TestSpawnTile(t *testing.T) {
	w := New()
	m := newMap(w, 4, 4)
	pos := tilemap.TilePos{X: 1, Y: 2}
	e, err := w.SpawnTile(m, pos, tilemap.NewTile(3))
	if err != nil {
		t.Fatalf("SpawnTile: %v", err)
	}
	rec, ok := w.Tile(e)
	if !ok {
		t.Fatal("spawned tile not found")
	}
	if rec.Pos != pos || rec.Tilemap.Entity != m || rec.Tile.Texture != 3 {
		t.Errorf("record = %+v", rec)
	}
	tm, _ := w.Tilemap(m)
	if got, ok := tm.Storage.Get(pos); !ok || got != e {
		t.Errorf("storage(%v) = (%d, %t), want %d", pos, got, ok, e)
	}
	if w.TileCount() != 1 {
		t.Errorf("TileCount = %d, want 1", w.TileCount())
	}
}

func TestSpawnTileErrors(t *testing.T) {
	w := New()
	m := newMap(w, 2, 2)

	if _, err := w.SpawnTile(m, tilemap.TilePos{X: 2, Y: 0}, tilemap.NewTile(0)); !errors.Is(err, tilemap.ErrOutOfBounds) {
		t.Errorf("out of bounds: err = %v", err)
	}
	if _, err := w.SpawnTile(99, tilemap.TilePos{}, tilemap.NewTile(0)); !errors.Is(err, ErrUnknownTilemap) {
		t.Errorf("unknown map: err = %v", err)
	}
	bad := tilemap.NewTile(0)
	bad.Animation = &tilemap.AnimatedTile{Start: 3, End: 1}
	if _, err := w.SpawnTile(m, tilemap.TilePos{}, bad); !errors.Is(err, tilemap.ErrInvalidAnimation) {
		t.Errorf("bad animation: err = %v", err)
	}
	if err := w.UpdateTile(42, func(*tilemap.Tile) {}); !errors.Is(err, ErrUnknownTile) {
		t.Errorf("UpdateTile unknown: err = %v", err)
	}
	if w.TileCount() != 0 {
		t.Errorf("failed spawns left %d tiles", w.TileCount())
	}
}

func TestSpawnReplacesExisting(t *testing.T) {
	w := New()
	m := newMap(w, 3, 3)
	pos := tilemap.TilePos{X: 1, Y: 1}
	first, _ := w.SpawnTile(m, pos, tilemap.NewTile(1))
	since := w.Tick()
	second, err := w.SpawnTile(m, pos, tilemap.NewTile(2))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := w.Tile(first); ok {
		t.Error("replaced tile still alive")
	}
	if got := w.RemovedTiles(since); !slices.Equal(got, []tilemap.Entity{first}) {
		t.Errorf("RemovedTiles = %v, want [%d]", got, first)
	}
	changed := w.ChangedTiles(since)
	if len(changed) != 1 || changed[0].Entity != second {
		t.Errorf("ChangedTiles = %+v, want only %d", changed, second)
	}
}

func TestChangedTilesReportsLatestOnce(t *testing.T) {
	w := New()
	m := newMap(w, 4, 1)
	a, _ := w.SpawnTile(m, tilemap.TilePos{X: 0}, tilemap.NewTile(0))
	b, _ := w.SpawnTile(m, tilemap.TilePos{X: 1}, tilemap.NewTile(0))
	since := w.Tick()

	if got := w.ChangedTiles(since); len(got) != 0 {
		t.Fatalf("no changes yet, got %d", len(got))
	}
	if err := w.UpdateTile(a, func(t *tilemap.Tile) { t.Texture = 5 }); err != nil {
		t.Fatal(err)
	}
	_ = w.UpdateTile(b, func(t *tilemap.Tile) { t.Visible = false })
	_ = w.UpdateTile(a, func(t *tilemap.Tile) { t.Color = tilemap.RGBA(1, 0, 0, 1) })

	got := w.ChangedTiles(since)
	if len(got) != 2 {
		t.Fatalf("ChangedTiles returned %d records, want 2", len(got))
	}
	// Ordered by latest change: b then a.
	if got[0].Entity != b || got[1].Entity != a {
		t.Errorf("order = [%d %d], want [%d %d]", got[0].Entity, got[1].Entity, b, a)
	}
	if got[1].Tile.Texture != 5 || got[1].Tile.Color.G != 0 {
		t.Errorf("a = %+v, want both updates applied", got[1].Tile)
	}
	if all := w.ChangedTiles(0); len(all) != 2 {
		t.Errorf("ChangedTiles(0) = %d records, want 2", len(all))
	}
}

func TestUpdateTileRejectsInvalid(t *testing.T) {
	w := New()
	m := newMap(w, 1, 1)
	e, _ := w.SpawnTile(m, tilemap.TilePos{}, tilemap.NewTile(1))
	tick := w.Tick()
	err := w.UpdateTile(e, func(t *tilemap.Tile) {
		t.Texture = 9
		t.Animation = &tilemap.AnimatedTile{Speed: -1}
	})
	if !errors.Is(err, tilemap.ErrInvalidAnimation) {
		t.Fatalf("err = %v", err)
	}
	rec, _ := w.Tile(e)
	if rec.Tile.Texture != 1 || w.Tick() != tick {
		t.Error("rejected update was applied")
	}
}

func TestDespawnTile(t *testing.T) {
	w := New()
	m := newMap(w, 2, 2)
	pos := tilemap.TilePos{X: 1, Y: 0}
	e, _ := w.SpawnTile(m, pos, tilemap.NewTile(0))
	since := w.Tick()

	if !w.DespawnTile(e) {
		t.Fatal("DespawnTile returned false")
	}
	if w.DespawnTile(e) {
		t.Error("second DespawnTile returned true")
	}
	tm, _ := w.Tilemap(m)
	if _, ok := tm.Storage.Get(pos); ok {
		t.Error("storage slot not cleared")
	}
	if got := w.RemovedTiles(since); !slices.Equal(got, []tilemap.Entity{e}) {
		t.Errorf("RemovedTiles = %v", got)
	}
	if got := w.ChangedTiles(0); len(got) != 0 {
		t.Errorf("despawned tile still reported changed: %v", got)
	}
}

func TestDespawnTilemap(t *testing.T) {
	w := New()
	m := newMap(w, 3, 3)
	other := newMap(w, 1, 1)
	if _, err := w.FillTilemap(m, Constant(tilemap.NewTile(0))); err != nil {
		t.Fatal(err)
	}
	keep, _ := w.SpawnTile(other, tilemap.TilePos{}, tilemap.NewTile(0))
	since := w.Tick()

	if !w.DespawnTilemap(m) {
		t.Fatal("DespawnTilemap returned false")
	}
	if w.DespawnTilemap(m) {
		t.Error("second DespawnTilemap returned true")
	}
	if w.TileCount() != 1 {
		t.Errorf("TileCount = %d, want 1", w.TileCount())
	}
	if _, ok := w.Tile(keep); !ok {
		t.Error("tile of another map was removed")
	}
	if got := w.RemovedTilemaps(since); !slices.Equal(got, []tilemap.Entity{m}) {
		t.Errorf("RemovedTilemaps = %v", got)
	}
	if got := w.RemovedTiles(since); len(got) != 0 {
		t.Errorf("tiles of a removed map logged individually: %v", got)
	}
	recs := w.Tilemaps()
	if len(recs) != 1 || recs[0].Entity != other {
		t.Errorf("Tilemaps = %+v", recs)
	}
}

func TestTilemapsOrderedAndUpdatable(t *testing.T) {
	w := New()
	a := newMap(w, 1, 1)
	b := newMap(w, 1, 1)
	c := newMap(w, 1, 1)
	var got []tilemap.Entity
	for _, r := range w.Tilemaps() {
		got = append(got, r.Entity)
	}
	if !slices.Equal(got, []tilemap.Entity{a, b, c}) {
		t.Errorf("Tilemaps order = %v", got)
	}

	tick := w.Tick()
	if err := w.UpdateTilemap(b, func(tm *tilemap.Tilemap) { tm.Visible = false }); err != nil {
		t.Fatal(err)
	}
	if w.Tick() <= tick {
		t.Error("UpdateTilemap did not advance the tick")
	}
	if tm, _ := w.Tilemap(b); tm.Visible {
		t.Error("update not applied")
	}
	if err := w.UpdateTilemap(1000, func(*tilemap.Tilemap) {}); !errors.Is(err, ErrUnknownTilemap) {
		t.Errorf("err = %v", err)
	}
}

func TestClearTrackers(t *testing.T) {
	w := New()
	m := newMap(w, 3, 1)
	a, _ := w.SpawnTile(m, tilemap.TilePos{X: 0}, tilemap.NewTile(0))
	b, _ := w.SpawnTile(m, tilemap.TilePos{X: 1}, tilemap.NewTile(0))
	w.DespawnTile(a)
	cut := w.Tick()
	c, _ := w.SpawnTile(m, tilemap.TilePos{X: 2}, tilemap.NewTile(0))

	w.ClearTrackers(cut)

	changed := w.ChangedTiles(0)
	if len(changed) != 1 || changed[0].Entity != c {
		t.Errorf("ChangedTiles(0) after clear = %+v, want only %d", changed, c)
	}
	if got := w.RemovedTiles(0); len(got) != 0 {
		t.Errorf("RemovedTiles(0) after clear = %v", got)
	}
	if _, ok := w.Tile(b); !ok {
		t.Error("ClearTrackers removed a live tile")
	}
}

func TestEntitiesNeverReused(t *testing.T) {
	w := New()
	m := newMap(w, 1, 1)
	seen := map[tilemap.Entity]bool{m: true}
	for range 5 {
		e, _ := w.SpawnTile(m, tilemap.TilePos{}, tilemap.NewTile(0))
		if seen[e] || e == tilemap.InvalidEntity {
			t.Fatalf("entity %d reused", e)
		}
		seen[e] = true
	}
	if w.TileCount() != 1 {
		t.Errorf("TileCount = %d, want 1", w.TileCount())
	}
}
