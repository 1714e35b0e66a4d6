package tilemap

import (
	"image"
	"strconv"
	"strings"
)

// ImageHandle is an opaque reference to an image owned by the host asset
// system. The zero handle is never valid.
type ImageHandle uint64

// ImageSource resolves image handles to decoded pixels. Images load
// asynchronously; Image reports false until the pixels are resident.
type ImageSource interface {
	Image(h ImageHandle) (*image.RGBA, bool)
}

// TextureKind tags the variant of a TilemapTexture.
type TextureKind uint8

const (
	// TextureAtlas is a single image sliced into equally sized cells.
	TextureAtlas TextureKind = iota
	// TextureVector is one image per tile layer.
	TextureVector
	// TextureContainer is a single image that already stacks every layer
	// vertically, one tile-sized band per layer.
	TextureContainer
)

// TilemapTexture names the images a map draws its tiles from.
type TilemapTexture struct {
	Kind    TextureKind
	Handles []ImageHandle
}

// AtlasTexture returns a texture sliced from one atlas image.
func AtlasTexture(h ImageHandle) TilemapTexture {
	return TilemapTexture{Kind: TextureAtlas, Handles: []ImageHandle{h}}
}

// VectorTexture returns a texture with one image per layer.
func VectorTexture(hs ...ImageHandle) TilemapTexture {
	return TilemapTexture{Kind: TextureVector, Handles: append([]ImageHandle(nil), hs...)}
}

// ContainerTexture returns a texture whose image already holds every layer.
func ContainerTexture(h ImageHandle) TilemapTexture {
	return TilemapTexture{Kind: TextureContainer, Handles: []ImageHandle{h}}
}

// TextureKey is a comparable identity for a TilemapTexture.
type TextureKey string

// Key returns the identity used to share texture arrays between maps.
func (t TilemapTexture) Key() TextureKey {
	var b strings.Builder
	switch t.Kind {
	case TextureAtlas:
		b.WriteString("atlas:")
	case TextureVector:
		b.WriteString("vector:")
	case TextureContainer:
		b.WriteString("container:")
	}
	for i, h := range t.Handles {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatUint(uint64(h), 10))
	}
	return TextureKey(b.String())
}

// Ready reports whether every referenced image is resident in src.
func (t TilemapTexture) Ready(src ImageSource) bool {
	if len(t.Handles) == 0 || src == nil {
		return false
	}
	for _, h := range t.Handles {
		if _, ok := src.Image(h); !ok {
			return false
		}
	}
	return true
}

// FilterMode selects texture sampling.
type FilterMode uint8

const (
	// FilterNearest samples the closest texel. Default for pixel art.
	FilterNearest FilterMode = iota
	// FilterLinear blends neighboring texels.
	FilterLinear
)
