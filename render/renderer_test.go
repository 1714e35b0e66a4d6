// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"context"
	"errors"
	"image/color"
	"testing"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/tilemap"
	"github.com/gogpu/tilemap/internal/cache"
	"github.com/gogpu/tilemap/world"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewRendererNoDevice(t *testing.T) {
	if _, err := NewRenderer(nil, nil); !errors.Is(err, ErrNoDevice) {
		t.Errorf("NewRenderer(nil) err = %v, want ErrNoDevice", err)
	}
	if _, err := NewRendererFromProvider(&HalHandle{}); !errors.Is(err, ErrNoDevice) {
		t.Errorf("NewRendererFromProvider(empty) err = %v, want ErrNoDevice", err)
	}
}

func TestRendererFromProvider(t *testing.T) {
	dev := openNoop(t)
	h := &HalHandle{
		HAL:    dev.Device,
		Q:      dev.Queue,
		Info:   AdapterInfoFrom(dev.Info),
		Format: gputypes.TextureFormatRGBA8Unorm,
	}
	r, err := NewRendererFromProvider(h)
	if err != nil {
		t.Fatalf("NewRendererFromProvider: %v", err)
	}
	defer r.Close()
	if r.cfg.SurfaceFormat != gputypes.TextureFormatRGBA8Unorm {
		t.Errorf("surface format = %v, want the provider's", r.cfg.SurfaceFormat)
	}
}

func TestFrameChunkAssignment(t *testing.T) {
	r := newTestRenderer(t)
	w := world.New()
	m := newTestMap(w, 8, 8)
	a := spawn(t, w, m, 0, 0, 0)
	b := spawn(t, w, m, 3, 3, 1)
	c := spawn(t, w, m, 4, 3, 2)

	st := frame(t, r, w, screenView(256))
	if st.TilesChanged != 3 || st.Chunks != 2 || st.ChunksRebuilt != 2 {
		t.Fatalf("first frame stats = %+v", st)
	}
	if st.Draws != 2 || st.Quads != 3 {
		t.Errorf("draws = %d quads = %d, want 2 and 3", st.Draws, st.Quads)
	}

	ka, _, _ := r.Lookup(a)
	kb, lb, _ := r.Lookup(b)
	kc, lc, _ := r.Lookup(c)
	if ka != kb || ka.Index() != (tilemap.UVec2{}) {
		t.Errorf("(0,0) in %v and (3,3) in %v, want both in chunk (0,0)", ka, kb)
	}
	if kc.Index() != (tilemap.UVec2{X: 1, Y: 0}) || lc != (tilemap.UVec2{X: 0, Y: 3}) {
		t.Errorf("(4,3) at %v local %v", kc, lc)
	}
	if lb != (tilemap.UVec2{X: 3, Y: 3}) {
		t.Errorf("(3,3) local = %v", lb)
	}

	if st := frame(t, r, w, screenView(256)); st.ChunksRebuilt != 0 || st.TilesChanged != 0 {
		t.Errorf("idle frame rebuilt %d chunks for %d changes", st.ChunksRebuilt, st.TilesChanged)
	}

	if err := w.UpdateTile(a, func(tile *tilemap.Tile) { tile.Texture = 5 }); err != nil {
		t.Fatal(err)
	}
	st = frame(t, r, w, screenView(256))
	if st.ChunksRebuilt != 1 {
		t.Errorf("texture change rebuilt %d chunks, want 1", st.ChunksRebuilt)
	}
	info, ok := r.Chunk(ka)
	if !ok || info.Tiles != 2 || info.Quads != 2 || info.Dirty || !info.Uploaded {
		t.Errorf("chunk (0,0) = %+v", info)
	}
}

func TestFrameTileRemoval(t *testing.T) {
	r := newTestRenderer(t)
	w := world.New()
	m := newTestMap(w, 8, 8)
	e := spawn(t, w, m, 2, 2, 7)

	if st := frame(t, r, w, screenView(256)); st.Quads != 1 {
		t.Fatalf("Quads = %d, want 1", st.Quads)
	}
	key, _, ok := r.Lookup(e)
	if !ok {
		t.Fatal("tile not in the reverse map")
	}

	w.DespawnTile(e)
	st := frame(t, r, w, screenView(256))
	if st.TilesRemoved != 1 || st.Quads != 0 || st.Draws != 0 {
		t.Errorf("after despawn: removed = %d quads = %d draws = %d", st.TilesRemoved, st.Quads, st.Draws)
	}
	if n := r.DrawCount(0); n != 0 {
		t.Errorf("DrawCount = %d for an empty chunk, want 0", n)
	}
	if _, _, ok := r.Lookup(e); ok {
		t.Error("despawned tile still in the reverse map")
	}
	info, ok := r.Chunk(key)
	if !ok {
		t.Fatal("emptied chunk dropped")
	}
	if info.Quads != 0 || info.Uploaded {
		t.Errorf("emptied chunk = %+v", info)
	}

	pass := newRecordingPass()
	if err := r.Draw(pass, 0); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if len(pass.indexCounts) != 0 {
		t.Errorf("empty chunk recorded %d draws", len(pass.indexCounts))
	}
}

func TestFrameCancelledRebuild(t *testing.T) {
	r := newTestRenderer(t)
	w := world.New()
	m := newTestMap(w, 8, 8)
	e := spawn(t, w, m, 2, 2, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	st, err := r.Frame(ctx, w, []View{screenView(256)})
	if err != nil {
		t.Fatalf("Frame(cancelled): %v", err)
	}
	if st.ChunksRebuilt != 0 || st.Draws != 0 {
		t.Errorf("cancelled frame rebuilt %d chunks and queued %d draws", st.ChunksRebuilt, st.Draws)
	}
	key, _, ok := r.Lookup(e)
	if !ok {
		t.Fatal("tile not in the reverse map")
	}
	if info, _ := r.Chunk(key); !info.Dirty || info.Uploaded {
		t.Errorf("after cancelled frame: %+v, want dirty and not uploaded", info)
	}

	st = frame(t, r, w, screenView(256))
	if st.ChunksRebuilt != 1 || st.Quads != 1 || st.Draws != 1 {
		t.Errorf("next frame: rebuilt %d quads %d draws %d, want 1 1 1", st.ChunksRebuilt, st.Quads, st.Draws)
	}
	info, _ := r.Chunk(key)
	if info.Tiles != 1 || info.Quads != 1 || info.Dirty || !info.Uploaded {
		t.Errorf("next frame: %+v", info)
	}
}

func TestFrameTilemapRemoval(t *testing.T) {
	r := newTestRenderer(t)
	w := world.New()
	m := newTestMap(w, 8, 8)
	e := spawn(t, w, m, 1, 1, 0)
	spawn(t, w, m, 6, 6, 0)
	frame(t, r, w, screenView(256))
	if err := r.SetMaterial(m, NewTintMaterial(tilemap.White)); err != nil {
		t.Fatal(err)
	}

	w.DespawnTilemap(m)
	st := frame(t, r, w, screenView(256))
	if st.TilemapsRemoved != 1 || st.Chunks != 0 || st.Draws != 0 {
		t.Errorf("after despawning the map: %+v", st)
	}
	if _, _, ok := r.Lookup(e); ok {
		t.Error("tile of a despawned map still in the reverse map")
	}
	if len(r.queuer.materials) != 0 {
		t.Error("material of a despawned map kept")
	}
}

func TestFrameDraws(t *testing.T) {
	r := newTestRenderer(t)
	w := world.New()
	m := newTestMap(w, 8, 8)
	for _, p := range [][2]uint32{{0, 0}, {1, 0}, {5, 5}} {
		spawn(t, w, m, p[0], p[1], 0)
	}
	frame(t, r, w, screenView(256))

	pass := newRecordingPass()
	if err := r.Draw(pass, 0); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if len(pass.indexCounts) != 2 {
		t.Fatalf("recorded %d draws, want 2", len(pass.indexCounts))
	}
	if pass.indexCounts[0] != 12 || pass.indexCounts[1] != 6 {
		t.Errorf("index counts = %v, want [12 6]", pass.indexCounts)
	}
	for group := uint32(0); group < 3; group++ {
		if pass.bindGroups[group] != 2 {
			t.Errorf("group %d bound %d times, want 2", group, pass.bindGroups[group])
		}
	}
	if pass.bindGroups[3] != 0 {
		t.Error("material group bound without a material")
	}

	if err := r.Draw(pass, 1); !errors.Is(err, ErrUnknownView) {
		t.Errorf("Draw(view 1) err = %v, want ErrUnknownView", err)
	}
}

func TestFrameCulling(t *testing.T) {
	r := newTestRenderer(t)
	w := world.New()
	m := newTestMap(w, 8, 8)
	spawn(t, w, m, 0, 0, 0)
	spawn(t, w, m, 7, 7, 0)

	away := View{ViewProj: tilemap.Orthographic(5000, 5100, 5000, 5100, -1000, 1000)}
	st := frame(t, r, w, away)
	if st.ChunksCulled != 2 || st.ChunksRebuilt != 0 || st.Draws != 0 {
		t.Errorf("view away from the map: %+v", st)
	}

	// Culled chunks stay dirty and are rebuilt once they come into view.
	st = frame(t, r, w, screenView(256))
	if st.ChunksCulled != 0 || st.ChunksRebuilt != 2 || st.Draws != 2 {
		t.Errorf("view on the map: %+v", st)
	}

	// Only the lower left chunk is inside a 40 px view.
	st = frame(t, r, w, View{ViewProj: tilemap.Orthographic(0, 40, 0, 40, -1000, 1000)})
	if st.ChunksCulled != 1 || st.Draws != 1 {
		t.Errorf("small view: %+v", st)
	}

	if err := w.UpdateTilemap(m, func(tm *tilemap.Tilemap) { tm.FrustumCulling = false }); err != nil {
		t.Fatal(err)
	}
	st = frame(t, r, w, away)
	if st.ChunksCulled != 0 || st.Draws != 2 {
		t.Errorf("culling disabled: %+v", st)
	}
}

func TestFrameHiddenMap(t *testing.T) {
	r := newTestRenderer(t)
	w := world.New()
	m := newTestMap(w, 8, 8, tilemap.WithVisible(false))
	spawn(t, w, m, 0, 0, 0)

	st := frame(t, r, w, screenView(256))
	if st.ChunksHidden != 1 || st.ChunksRebuilt != 0 || st.Draws != 0 {
		t.Errorf("hidden map: %+v", st)
	}

	if err := w.UpdateTilemap(m, func(tm *tilemap.Tilemap) { tm.Visible = true }); err != nil {
		t.Fatal(err)
	}
	st = frame(t, r, w, screenView(256))
	if st.ChunksHidden != 0 || st.ChunksRebuilt != 1 || st.Draws != 1 {
		t.Errorf("shown map: %+v", st)
	}
}

func TestFrameViewFilter(t *testing.T) {
	r := newTestRenderer(t)
	w := world.New()
	a := newTestMap(w, 4, 4)
	b := newTestMap(w, 4, 4)
	spawn(t, w, a, 0, 0, 0)
	spawn(t, w, b, 0, 0, 0)

	onlyB := screenView(256)
	onlyB.Tilemaps = []tilemap.Entity{b}
	st := frame(t, r, w, screenView(256), onlyB)
	if st.Draws != 3 {
		t.Errorf("Draws = %d, want 3", st.Draws)
	}
	if r.DrawCount(0) != 2 || r.DrawCount(1) != 1 {
		t.Errorf("per view draws = %d, %d", r.DrawCount(0), r.DrawCount(1))
	}
}

func TestFrameTextureNotReady(t *testing.T) {
	r := newTestRenderer(t, WithImageSource(images{}))
	w := world.New()
	m := newTestMap(w, 4, 4)
	spawn(t, w, m, 0, 0, 0)

	st := frame(t, r, w, screenView(256))
	if st.ChunksRebuilt != 1 || st.Items != 1 || st.Draws != 0 {
		t.Errorf("loading texture: %+v", st)
	}
	key := tilemap.AtlasTexture(atlasHandle).Key()
	if s, ok := r.TextureState(key); !ok || s != TextureRegistered {
		t.Errorf("texture state = %v, %t", s, ok)
	}
}

func TestEvictTexture(t *testing.T) {
	r := newTestRenderer(t)
	w := world.New()
	m := newTestMap(w, 4, 4)
	spawn(t, w, m, 0, 0, 0)
	frame(t, r, w, screenView(256))

	key := tilemap.AtlasTexture(atlasHandle).Key()
	if !r.EvictTexture(key) {
		t.Fatal("EvictTexture = false")
	}
	if _, ok := r.TextureState(key); ok {
		t.Error("evicted texture still known")
	}
	st := frame(t, r, w, screenView(256))
	if s, _ := r.TextureState(key); s != TexturePopulated || st.Draws != 1 {
		t.Errorf("after re-registering: state %v, draws %d", s, st.Draws)
	}
}

func TestEvictTextureBeforeDraw(t *testing.T) {
	r := newTestRenderer(t)
	w := world.New()
	spawn(t, w, newTestMap(w, 4, 4), 0, 0, 0)
	frame(t, r, w, screenView(256))

	key := tilemap.AtlasTexture(atlasHandle).Key()
	if !r.EvictTexture(key) {
		t.Fatal("EvictTexture = false")
	}
	if n := len(r.queuer.retiredGroups); n != 1 {
		t.Errorf("retired bind groups = %d, want 1", n)
	}
	if n := r.DrawCount(0); n != 0 {
		t.Errorf("DrawCount = %d after eviction, want 0", n)
	}
	pass := newRecordingPass()
	if err := r.Draw(pass, 0); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if len(pass.indexCounts) != 0 {
		t.Errorf("recorded %d draws of an evicted texture", len(pass.indexCounts))
	}

	frame(t, r, w, screenView(256))
	if n := len(r.queuer.retiredGroups); n != 0 {
		t.Errorf("retired bind groups = %d after the next frame, want 0", n)
	}
}

func TestTextureGroupEvictedWhileQueued(t *testing.T) {
	const second tilemap.ImageHandle = 2
	imgs := testImages()
	imgs[second] = solid(64, 32, color.RGBA{G: 255, A: 255})
	r := newTestRenderer(t, WithImageSource(imgs))
	r.queuer.textureGroups = cache.New(1, r.queuer.retireTextureGroup)

	w := world.New()
	spawn(t, w, newTestMap(w, 4, 4), 0, 0, 0)
	other := w.SpawnTilemap(tilemap.NewTilemap(tilemap.TilemapSize{X: 4, Y: 4}, tilemap.TileSize{X: 16, Y: 16},
		tilemap.AtlasTexture(second), tilemap.WithChunkSize(4, 4)))
	spawn(t, w, other, 0, 0, 0)

	if st := frame(t, r, w, screenView(256)); st.Draws != 2 {
		t.Fatalf("Draws = %d, want 2", st.Draws)
	}
	if n := len(r.queuer.retiredGroups); n != 1 {
		t.Errorf("retired bind groups = %d, want 1", n)
	}
	pass := newRecordingPass()
	if err := r.Draw(pass, 0); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if len(pass.indexCounts) != 2 || pass.bindGroups[2] != 2 {
		t.Errorf("recorded %d draws with %d texture groups, want 2 and 2", len(pass.indexCounts), pass.bindGroups[2])
	}
}

func TestPipelineEvictedWhileQueued(t *testing.T) {
	r := newTestRenderer(t)
	r.pipelines.compiled = cache.New(1, r.pipelines.retire)
	w := world.New()
	spawn(t, w, newTestMap(w, 4, 4), 0, 0, 0)

	hdr := screenView(256)
	hdr.HDR = true
	frame(t, r, w, screenView(256), hdr)
	if r.Pipelines() != 1 {
		t.Errorf("Pipelines = %d, want 1", r.Pipelines())
	}
	if n := len(r.pipelines.retired); n != 1 {
		t.Errorf("retired pipelines = %d, want 1", n)
	}
	for view := range 2 {
		pass := newRecordingPass()
		if err := r.Draw(pass, view); err != nil {
			t.Fatalf("Draw(%d): %v", view, err)
		}
		if len(pass.indexCounts) != 1 {
			t.Errorf("view %d recorded %d draws, want 1", view, len(pass.indexCounts))
		}
	}
}

func TestSetMaterialBeforeDraw(t *testing.T) {
	r := newTestRenderer(t)
	w := world.New()
	m := newTestMap(w, 4, 4)
	spawn(t, w, m, 0, 0, 0)
	if err := r.SetMaterial(m, NewTintMaterial(tilemap.RGBA(1, 0, 0, 1))); err != nil {
		t.Fatal(err)
	}
	frame(t, r, w, screenView(256))

	if err := r.SetMaterial(m, NewTintMaterial(tilemap.RGBA(0, 0, 1, 1))); err != nil {
		t.Fatal(err)
	}
	if n := len(r.queuer.retiredMaterials); n != 1 {
		t.Fatalf("retired materials = %d, want 1", n)
	}
	old := r.queuer.retiredMaterials[0]
	if old.group == nil {
		t.Error("replaced material released before the queued draws")
	}
	pass := newRecordingPass()
	if err := r.Draw(pass, 0); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if pass.bindGroups[3] != 1 {
		t.Errorf("material group bound %d times, want 1", pass.bindGroups[3])
	}

	frame(t, r, w, screenView(256))
	if old.group != nil || len(r.queuer.retiredMaterials) != 0 {
		t.Error("replaced material not released by the next frame")
	}
}

func TestSortOrder(t *testing.T) {
	r := newTestRenderer(t)
	w := world.New()
	top := newTestMap(w, 4, 4, tilemap.WithTransform(tilemap.TransformFromTranslation(tilemap.V3(0, 0, 2))))
	bottom := newTestMap(w, 4, 4)
	spawn(t, w, top, 0, 0, 0)
	spawn(t, w, bottom, 0, 0, 0)
	frame(t, r, w, screenView(256))

	draws := r.queuer.queued[0].draws
	if len(draws) != 2 {
		t.Fatalf("%d draws, want 2", len(draws))
	}
	if draws[0].key.Tilemap != bottom || draws[1].key.Tilemap != top {
		t.Errorf("draw order = %v, %v; want the z=0 map first", draws[0].key, draws[1].key)
	}
}

func TestSortKeyYSort(t *testing.T) {
	s := NewChunkStore(nil, nil, nil)
	tm := tilemap.NewTilemap(tilemap.TilemapSize{X: 8, Y: 8}, tilemap.TileSize{X: 16, Y: 16},
		tilemap.AtlasTexture(atlasHandle), tilemap.WithChunkSize(4, 4), tilemap.WithYSort(true))
	params := ParamsFromTilemap(1, tm)
	low, _ := s.GetOrAdd(10, tilemap.TilePos{X: 0, Y: 0}, params)
	high, _ := s.GetOrAdd(11, tilemap.TilePos{X: 0, Y: 4}, params)
	if SortKey(high) >= SortKey(low) {
		t.Errorf("SortKey(upper row) = %v, SortKey(lower row) = %v; upper rows must draw first",
			SortKey(high), SortKey(low))
	}

	tm.RenderSettings.YSort = false
	tm.RenderSettings.Order = tilemap.OrderXThenY
	params = ParamsFromTilemap(2, tm)
	left, _ := s.GetOrAdd(20, tilemap.TilePos{X: 0, Y: 4}, params)
	right, _ := s.GetOrAdd(21, tilemap.TilePos{X: 4, Y: 0}, params)
	if SortKey(left) >= SortKey(right) {
		t.Errorf("OrderXThenY: SortKey(left) = %v, SortKey(right) = %v", SortKey(left), SortKey(right))
	}
}

func TestMaterialPipeline(t *testing.T) {
	r := newTestRenderer(t)
	w := world.New()
	tinted := newTestMap(w, 4, 4)
	plain := newTestMap(w, 4, 4)
	spawn(t, w, tinted, 0, 0, 0)
	spawn(t, w, plain, 0, 0, 0)

	if err := r.SetMaterial(tinted, NewTintMaterial(tilemap.RGBA(1, 0, 0, 1))); err != nil {
		t.Fatalf("SetMaterial: %v", err)
	}
	st := frame(t, r, w, screenView(256))
	if st.Draws != 2 {
		t.Fatalf("Draws = %d, want 2", st.Draws)
	}
	if r.Pipelines() != 2 {
		t.Errorf("Pipelines = %d, want a default and a tint variant", r.Pipelines())
	}
	pass := newRecordingPass()
	if err := r.Draw(pass, 0); err != nil {
		t.Fatal(err)
	}
	if pass.bindGroups[3] != 1 {
		t.Errorf("material group bound %d times, want 1", pass.bindGroups[3])
	}

	if err := r.SetMaterial(tinted, nil); err != nil {
		t.Fatal(err)
	}
	frame(t, r, w, screenView(256))
	pass = newRecordingPass()
	_ = r.Draw(pass, 0)
	if pass.bindGroups[3] != 0 {
		t.Error("material group bound after the material was removed")
	}
}

func TestPipelineVariants(t *testing.T) {
	r := newTestRenderer(t)
	w := world.New()
	spawn(t, w, newTestMap(w, 4, 4), 0, 0, 0)
	hex := newTestMap(w, 4, 4, tilemap.WithType(tilemap.HexagonType(tilemap.HexRow)))
	spawn(t, w, hex, 0, 0, 0)

	hdr := screenView(256)
	hdr.HDR = true
	msaa := screenView(256)
	msaa.SampleCount = 4
	frame(t, r, w, screenView(256), hdr, msaa)
	if r.Pipelines() != 6 {
		t.Errorf("Pipelines = %d, want 2 types x 3 views", r.Pipelines())
	}
	frame(t, r, w, screenView(256), hdr, msaa)
	if r.Pipelines() != 6 {
		t.Errorf("Pipelines = %d after a second frame, want 6", r.Pipelines())
	}
}

func TestAnimationClock(t *testing.T) {
	now := 2500 * time.Millisecond
	r := newTestRenderer(t, WithClock(func() time.Duration { return now }))
	w := world.New()
	m := newTestMap(w, 4, 4)
	e, err := w.SpawnTile(m, tilemap.TilePos{}, tilemap.Tile{
		Color:     tilemap.White,
		Visible:   true,
		Animation: &tilemap.AnimatedTile{Start: 0, End: 4, Speed: 2},
	})
	if err != nil {
		t.Fatal(err)
	}
	frame(t, r, w, screenView(256))

	key, _, _ := r.Lookup(e)
	c, _ := r.store.Get(key)
	if v := c.mesh.Vertices[0]; v.Position[3] != 2 || v.Texture[2] != 0 || v.Texture[3] != 4 {
		t.Errorf("animated vertex = %+v", v)
	}
	// The view uniform's time follows the clock.
	if got := r.preparer.views.Bytes()[64:68]; got[0] == 0 && got[1] == 0 && got[2] == 0 && got[3] == 0 {
		t.Error("view time not written")
	}
}

func TestRender(t *testing.T) {
	r := newTestRenderer(t)
	w := world.New()
	m := newTestMap(w, 4, 4)
	spawn(t, w, m, 1, 1, 0)

	target, err := NewTarget(r.device, 128, 128, gputypes.TextureFormatBGRA8Unorm, 4)
	if err != nil {
		t.Fatalf("NewTarget: %v", err)
	}
	defer target.Destroy()
	st, err := r.Render(context.Background(), w, target, screenView(128))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if st.Draws != 1 {
		t.Errorf("Draws = %d, want 1", st.Draws)
	}
	if a := target.colorAttachment(); a.ResolveTarget == nil {
		t.Error("multisampled target has no resolve target")
	}
}

func TestRendererClosed(t *testing.T) {
	r := newTestRenderer(t)
	r.Close()
	r.Close()
	w := world.New()
	if _, err := r.Frame(context.Background(), w, nil); !errors.Is(err, ErrRendererClosed) {
		t.Errorf("Frame err = %v, want ErrRendererClosed", err)
	}
	if err := r.Draw(newRecordingPass(), 0); !errors.Is(err, ErrRendererClosed) {
		t.Errorf("Draw err = %v, want ErrRendererClosed", err)
	}
	if err := r.SetMaterial(1, nil); !errors.Is(err, ErrRendererClosed) {
		t.Errorf("SetMaterial err = %v, want ErrRendererClosed", err)
	}
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := newTestRenderer(t, WithMetrics(reg))
	w := world.New()
	m := newTestMap(w, 8, 8)
	spawn(t, w, m, 0, 0, 0)
	spawn(t, w, m, 7, 7, 0)
	frame(t, r, w, screenView(256))
	frame(t, r, w, screenView(256))

	tests := []struct {
		name string
		c    prometheus.Collector
		want float64
	}{
		{"frames", r.metrics.frames, 2},
		{"tiles changed", r.metrics.tilesChanged, 2},
		{"chunks rebuilt", r.metrics.chunksRebuilt, 2},
		{"chunks", r.metrics.chunks, 2},
		{"draws", r.metrics.draws, 2},
		{"populated textures", r.metrics.textures.WithLabelValues("populated"), 1},
	}
	for _, tt := range tests {
		if got := testutil.ToFloat64(tt.c); got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, got, tt.want)
		}
	}
	if n, err := testutil.GatherAndCount(reg, "tilemap_frames_total"); err != nil || n != 1 {
		t.Errorf("GatherAndCount(frames) = %d, %v", n, err)
	}
}
