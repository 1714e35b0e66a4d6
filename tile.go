package tilemap

import (
	"fmt"
	"image/color"
)

// TileTextureIndex selects a layer of the map's texture array.
type TileTextureIndex uint32

// Color is a linear RGBA color with float components in [0, 1].
type Color struct {
	R, G, B, A float32
}

// White is the default tile tint.
var White = Color{R: 1, G: 1, B: 1, A: 1}

// RGBA creates a Color from float components.
func RGBA(r, g, b, a float32) Color {
	return Color{R: r, G: g, B: b, A: a}
}

// ColorFrom converts a standard library color.
func ColorFrom(c color.Color) Color {
	r, g, b, a := c.RGBA()
	return Color{
		R: float32(r) / 0xffff,
		G: float32(g) / 0xffff,
		B: float32(b) / 0xffff,
		A: float32(a) / 0xffff,
	}
}

// Array returns the components in RGBA order.
func (c Color) Array() [4]float32 {
	return [4]float32{c.R, c.G, c.B, c.A}
}

// TileFlip mirrors a tile's texture. D flips along the anti-diagonal; all
// three together express the eight rotations and reflections of a square.
type TileFlip struct {
	X, Y, D bool
}

// Bits packs the flags as x | y<<1 | d<<2.
func (f TileFlip) Bits() uint32 {
	var bits uint32
	if f.X {
		bits |= 1
	}
	if f.Y {
		bits |= 1 << 1
	}
	if f.D {
		bits |= 1 << 2
	}
	return bits
}

// AnimatedTile cycles a tile through texture layers [Start, End) at Speed
// frames per second.
type AnimatedTile struct {
	Start uint32
	End   uint32
	Speed float32
}

// Validate checks Start <= End and Speed >= 0.
func (a AnimatedTile) Validate() error {
	if a.Start > a.End {
		return fmt.Errorf("%w: start %d > end %d", ErrInvalidAnimation, a.Start, a.End)
	}
	if a.Speed < 0 {
		return fmt.Errorf("%w: negative speed %g", ErrInvalidAnimation, a.Speed)
	}
	return nil
}

// Tile holds the per-tile render attributes.
type Tile struct {
	Texture   TileTextureIndex
	Color     Color
	Visible   bool
	Flip      TileFlip
	Animation *AnimatedTile
}

// NewTile returns a visible, untinted tile showing the given layer.
func NewTile(texture TileTextureIndex) Tile {
	return Tile{Texture: texture, Color: White, Visible: true}
}

// Validate checks the animation window, if any.
func (t Tile) Validate() error {
	if t.Animation == nil {
		return nil
	}
	return t.Animation.Validate()
}

// Equal reports whether two tiles render identically.
func (t Tile) Equal(o Tile) bool {
	if t.Texture != o.Texture || t.Color != o.Color || t.Visible != o.Visible || t.Flip != o.Flip {
		return false
	}
	if (t.Animation == nil) != (o.Animation == nil) {
		return false
	}
	return t.Animation == nil || *t.Animation == *o.Animation
}
