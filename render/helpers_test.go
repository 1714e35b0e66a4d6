// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"context"
	"image"
	"image/color"
	"testing"

	"github.com/gogpu/tilemap"
	"github.com/gogpu/tilemap/internal/gpu"
	"github.com/gogpu/tilemap/world"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
)

// images is an ImageSource backed by a map. Handles missing from the map
// are reported as still loading.
type images map[tilemap.ImageHandle]*image.RGBA

func (m images) Image(h tilemap.ImageHandle) (*image.RGBA, bool) {
	img, ok := m[h]
	return img, ok
}

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

const atlasHandle tilemap.ImageHandle = 1

// testImages holds a 4x2 atlas of 16 px tiles.
func testImages() images {
	return images{atlasHandle: solid(64, 32, color.RGBA{R: 255, A: 255})}
}

func openNoop(t *testing.T) *gpu.Device {
	t.Helper()
	dev, err := gpu.OpenNoop()
	if err != nil {
		t.Fatalf("OpenNoop: %v", err)
	}
	t.Cleanup(dev.Close)
	return dev
}

func newTestRenderer(t *testing.T, opts ...Option) *Renderer {
	t.Helper()
	dev := openNoop(t)
	opts = append([]Option{WithImageSource(testImages()), WithWorkers(2)}, opts...)
	r, err := NewRenderer(dev.Device, dev.Queue, opts...)
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	t.Cleanup(r.Close)
	return r
}

// newTestMap spawns a 16 px square map with 4x4 chunks.
func newTestMap(w *world.World, x, y uint32, opts ...tilemap.Option) tilemap.Entity {
	opts = append([]tilemap.Option{tilemap.WithChunkSize(4, 4)}, opts...)
	tm := tilemap.NewTilemap(tilemap.TilemapSize{X: x, Y: y}, tilemap.TileSize{X: 16, Y: 16},
		tilemap.AtlasTexture(atlasHandle), opts...)
	return w.SpawnTilemap(tm)
}

func spawn(t *testing.T, w *world.World, m tilemap.Entity, x, y uint32, tex tilemap.TileTextureIndex) tilemap.Entity {
	t.Helper()
	e, err := w.SpawnTile(m, tilemap.TilePos{X: x, Y: y}, tilemap.NewTile(tex))
	if err != nil {
		t.Fatalf("SpawnTile(%d, %d): %v", x, y, err)
	}
	return e
}

// screenView sees world x and y in [0, size).
func screenView(size float32) View {
	return View{ViewProj: tilemap.Orthographic(0, size, 0, size, -1000, 1000)}
}

func frame(t *testing.T, r *Renderer, w World, views ...View) FrameStats {
	t.Helper()
	st, err := r.Frame(context.Background(), w, views)
	if err != nil {
		t.Fatalf("Frame: %v", err)
	}
	return st
}

// recordingPass counts the draws recorded into it.
type recordingPass struct {
	noop.RenderPassEncoder
	indexCounts []uint32
	bindGroups  map[uint32]int
}

func newRecordingPass() *recordingPass {
	return &recordingPass{bindGroups: make(map[uint32]int)}
}

func (p *recordingPass) SetBindGroup(index uint32, _ hal.BindGroup, _ []uint32) {
	p.bindGroups[index]++
}

func (p *recordingPass) DrawIndexed(indexCount, _, _ uint32, _ int32, _ uint32) {
	p.indexCounts = append(p.indexCounts, indexCount)
}
