// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/gogpu/tilemap"
	"github.com/gogpu/tilemap/internal/gpu"
)

var tile16 = tilemap.TileSize{X: 16, Y: 16}

func newTestCache(t *testing.T) (*TextureCache, *gpu.Memory) {
	t.Helper()
	dev := openNoop(t)
	mem := gpu.NewMemory(64)
	c := NewTextureCache(dev.Device, dev.Queue, mem)
	t.Cleanup(c.Release)
	return c, mem
}

func mustState(t *testing.T, c *TextureCache, key tilemap.TextureKey, want TextureState) {
	t.Helper()
	got, ok := c.State(key)
	if !ok {
		t.Fatalf("%s not registered", key)
	}
	if got != want {
		t.Fatalf("%s state = %v, want %v", key, got, want)
	}
}

func TestTextureCacheLifecycle(t *testing.T) {
	c, mem := newTestCache(t)
	tex := tilemap.AtlasTexture(atlasHandle)
	key := tex.Key()
	src := images{}

	c.Register(tex, tile16, tilemap.Spacing{}, tilemap.FilterNearest)
	c.Register(tex, tile16, tilemap.Spacing{}, tilemap.FilterNearest)
	if c.Len() != 1 {
		t.Fatalf("Len = %d after registering twice, want 1", c.Len())
	}
	mustState(t, c, key, TextureRegistered)
	if _, err := c.Get(key); !errors.Is(err, ErrTextureNotReady) {
		t.Errorf("Get before upload: err = %v, want ErrTextureNotReady", err)
	}

	// The atlas is still loading: its layer count is unknown.
	c.Prepare(src)
	mustState(t, c, key, TextureRegistered)

	src[atlasHandle] = solid(64, 32, color.RGBA{G: 255, A: 255})
	c.Prepare(src)
	mustState(t, c, key, TexturePopulated)

	a, err := c.Get(key)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if a.Layers != 8 || a.Width != 16 || a.Height != 16 {
		t.Errorf("array = %d layers of %dx%d, want 8 of 16x16", a.Layers, a.Width, a.Height)
	}
	if got := mem.Stats().TextureBytes; got != 16*16*4*8 {
		t.Errorf("TextureBytes = %d, want %d", got, 16*16*4*8)
	}
	if n := c.Counts(); n != [3]int{0, 0, 1} {
		t.Errorf("Counts = %v", n)
	}

	if !c.Evict(key) {
		t.Fatal("Evict = false")
	}
	if _, ok := c.State(key); ok {
		t.Error("evicted texture still known")
	}
	if got := mem.Stats().TextureBytes; got != 0 {
		t.Errorf("TextureBytes after evict = %d, want 0", got)
	}
	if _, err := c.Get(key); !errors.Is(err, ErrUnknownTexture) {
		t.Errorf("Get after evict: err = %v, want ErrUnknownTexture", err)
	}
}

func TestTextureCacheVectorAllocatesBeforeImages(t *testing.T) {
	c, _ := newTestCache(t)
	tex := tilemap.VectorTexture(1, 2, 3, 4, 5, 6)
	key := tex.Key()
	src := images{}

	c.Register(tex, tile16, tilemap.Spacing{}, tilemap.FilterNearest)
	c.Prepare(src)
	mustState(t, c, key, TextureAllocated)

	for h := tilemap.ImageHandle(1); h <= 5; h++ {
		src[h] = solid(16, 16, color.RGBA{B: 255, A: 255})
	}
	c.Prepare(src)
	mustState(t, c, key, TextureAllocated)

	// A wrongly sized image is resampled rather than rejected.
	src[6] = solid(32, 8, color.RGBA{R: 255, A: 255})
	c.Prepare(src)
	mustState(t, c, key, TexturePopulated)

	a, _ := c.Get(key)
	if a.Layers != 7 {
		t.Errorf("6 tile layers allocated %d array layers, want 7", a.Layers)
	}
}

func TestTextureCacheContainer(t *testing.T) {
	c, _ := newTestCache(t)
	tex := tilemap.ContainerTexture(9)
	c.Register(tex, tile16, tilemap.Spacing{}, tilemap.FilterLinear)
	c.Prepare(images{9: solid(16, 48, color.RGBA{A: 255})})
	a, err := c.Get(tex.Key())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if a.Layers != 3 {
		t.Errorf("Layers = %d, want 3", a.Layers)
	}
}

func TestTextureCacheInvalidAtlas(t *testing.T) {
	c, mem := newTestCache(t)
	tex := tilemap.AtlasTexture(2)
	c.Register(tex, tile16, tilemap.Spacing{}, tilemap.FilterNearest)
	src := images{2: solid(8, 8, color.RGBA{A: 255})}
	c.Prepare(src)
	c.Prepare(src)
	mustState(t, c, tex.Key(), TextureRegistered)
	if mem.Stats().Textures != 0 {
		t.Error("an atlas smaller than one tile was allocated")
	}
}

func TestAtlasGrid(t *testing.T) {
	tests := []struct {
		size       image.Point
		spacing    tilemap.Spacing
		cols, rows uint32
	}{
		{image.Pt(64, 32), tilemap.Spacing{}, 4, 2},
		{image.Pt(70, 16), tilemap.Spacing{}, 4, 1},
		// 16 + 2 + 16 + 2 + 16: no spacing before the first cell or after the last.
		{image.Pt(52, 16), tilemap.Spacing{X: 2}, 3, 1},
		{image.Pt(51, 34), tilemap.Spacing{X: 2, Y: 2}, 2, 2},
		{image.Pt(8, 8), tilemap.Spacing{}, 0, 0},
	}
	for _, tt := range tests {
		cols, rows := atlasGrid(tt.size, 16, 16, tt.spacing)
		if cols != tt.cols || rows != tt.rows {
			t.Errorf("atlasGrid(%v, %v) = %dx%d, want %dx%d", tt.size, tt.spacing, cols, rows, tt.cols, tt.rows)
		}
	}
}

func TestAtlasLayerSource(t *testing.T) {
	e := &textureEntry{
		texture:  tilemap.AtlasTexture(1),
		tileSize: tile16,
		spacing:  tilemap.Spacing{X: 2, Y: 1},
	}
	src := images{1: solid(52, 33, color.RGBA{A: 255})}
	_, r, err := e.layerSource(src, 4, 16, 16)
	if err != nil {
		t.Fatalf("layerSource: %v", err)
	}
	// Layer 4 of a 3-column atlas is column 1 of row 1.
	if want := image.Rect(18, 17, 34, 33); r != want {
		t.Errorf("layer 4 rect = %v, want %v", r, want)
	}
}

func TestCopyRectPadsOutside(t *testing.T) {
	img := solid(4, 4, color.RGBA{R: 1, G: 2, B: 3, A: 4})
	dst := make([]byte, 4*4*4)
	copyRect(dst, img, image.Rect(2, 2, 6, 6), 4)
	if dst[0] != 1 || dst[3] != 4 {
		t.Errorf("inside pixel = %v", dst[:4])
	}
	// (2, 0) of the destination reads (4, 2) of the image, outside it.
	if px := dst[2*4 : 2*4+4]; px[3] != 0 {
		t.Errorf("outside pixel = %v, want transparent", px)
	}
}
