package main

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/aquilax/go-perlin"
	"github.com/gogpu/tilemap"
)

// Perlin parameters: smoothing, frequency falloff and octaves.
const (
	noiseAlpha   = 2.0
	noiseBeta    = 2.0
	noiseOctaves = 3
)

// Terrain maps noise samples in [0, 1] to tiles.
type Terrain struct {
	noise     *perlin.Perlin
	scale     float64
	threshold float64
	layers    uint32
}

// NewTerrain creates a terrain generator for m seeded with seed.
func NewTerrain(m *MapConfig, seed int64) *Terrain {
	return &Terrain{
		noise:     perlin.NewPerlin(noiseAlpha, noiseBeta, noiseOctaves, seed),
		scale:     m.Scale,
		threshold: m.Threshold,
		layers:    m.Layers,
	}
}

// Sample returns the noise at pos, in [0, 1].
func (t *Terrain) Sample(pos tilemap.TilePos) float64 {
	n := t.noise.Noise2D(float64(pos.X)*t.scale, float64(pos.Y)*t.scale)
	return math.Min(math.Max((n+1)/2, 0), 1)
}

// Tile is a world.TileFunc: cells below the threshold stay empty and the
// rest pick a texture layer by height.
func (t *Terrain) Tile(pos tilemap.TilePos) (tilemap.Tile, bool) {
	v := t.Sample(pos)
	if v < t.threshold {
		return tilemap.Tile{}, false
	}
	idx := uint32(v * float64(t.layers))
	if idx >= t.layers {
		idx = t.layers - 1
	}
	return tilemap.NewTile(tilemap.TileTextureIndex(idx)), true
}

// GenerateAtlas draws a single-row atlas of layers tiles, each a flat
// color ramp from water blue to snow white with a darker border.
func GenerateAtlas(layers uint32, tileW, tileH int) *image.RGBA {
	if layers == 0 || tileW <= 0 || tileH <= 0 {
		panic(fmt.Sprintf("tilebench: invalid atlas %d x %dx%d", layers, tileW, tileH))
	}
	img := image.NewRGBA(image.Rect(0, 0, int(layers)*tileW, tileH))
	for l := range int(layers) {
		c := rampColor(float64(l) / float64(max(layers-1, 1)))
		edge := color.RGBA{R: c.R / 2, G: c.G / 2, B: c.B / 2, A: 255}
		x0 := l * tileW
		for y := range tileH {
			for x := range tileW {
				px := c
				if x == 0 || y == 0 || x == tileW-1 || y == tileH-1 {
					px = edge
				}
				img.SetRGBA(x0+x, y, px)
			}
		}
	}
	return img
}

var ramp = []color.RGBA{
	{R: 30, G: 60, B: 160, A: 255},
	{R: 210, G: 190, B: 120, A: 255},
	{R: 60, G: 140, B: 50, A: 255},
	{R: 110, G: 100, B: 90, A: 255},
	{R: 245, G: 245, B: 250, A: 255},
}

func rampColor(t float64) color.RGBA {
	f := t * float64(len(ramp)-1)
	i := int(f)
	if i >= len(ramp)-1 {
		return ramp[len(ramp)-1]
	}
	frac := f - float64(i)
	lerp := func(a, b uint8) uint8 {
		return uint8(float64(a) + (float64(b)-float64(a))*frac)
	}
	a, b := ramp[i], ramp[i+1]
	return color.RGBA{R: lerp(a.R, b.R), G: lerp(a.G, b.G), B: lerp(a.B, b.B), A: 255}
}
