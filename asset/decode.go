package asset

import (
	"errors"
	"fmt"
	"image"
	"io"

	// Registered decoders.
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
	"golang.org/x/image/draw"
)

// ErrEmptyImage is returned for images with no pixels.
var ErrEmptyImage = errors.New("asset: image has no pixels")

// Decode reads a PNG, JPEG, BMP, TIFF or WebP image and converts it to
// RGBA with its origin at (0, 0).
func Decode(r io.Reader) (*image.RGBA, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("asset: decode: %w", err)
	}
	rgba, err := ToRGBA(img)
	if err != nil {
		return nil, format, err
	}
	return rgba, format, nil
}

// ToRGBA returns img as an *image.RGBA whose bounds start at (0, 0).
// An RGBA image that already satisfies this is returned as is.
func ToRGBA(img image.Image) (*image.RGBA, error) {
	b := img.Bounds()
	if b.Empty() {
		return nil, ErrEmptyImage
	}
	if rgba, ok := img.(*image.RGBA); ok && b.Min == (image.Point{}) {
		return rgba, nil
	}
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst, nil
}

// Scale resamples src to w x h. Nearest-neighbor keeps pixel art crisp;
// smooth uses Catmull-Rom.
func Scale(src *image.RGBA, w, h int, smooth bool) *image.RGBA {
	if src.Bounds().Dx() == w && src.Bounds().Dy() == h {
		return src
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	var s draw.Scaler = draw.NearestNeighbor
	if smooth {
		s = draw.CatmullRom
	}
	s.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}
