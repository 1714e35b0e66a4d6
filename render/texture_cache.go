// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"
	"fmt"
	"image"
	"slices"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/tilemap"
	"github.com/gogpu/tilemap/asset"
	"github.com/gogpu/tilemap/internal/gpu"
	"github.com/gogpu/wgpu/hal"
)

// TextureState is the lifecycle state of a texture array.
type TextureState uint8

const (
	// TextureRegistered entries are known but have no GPU texture yet.
	TextureRegistered TextureState = iota
	// TextureAllocated entries own an empty GPU texture array.
	TextureAllocated
	// TexturePopulated entries hold every layer and can be drawn.
	TexturePopulated
)

func (s TextureState) String() string {
	switch s {
	case TextureRegistered:
		return "registered"
	case TextureAllocated:
		return "allocated"
	case TexturePopulated:
		return "populated"
	}
	return fmt.Sprintf("TextureState(%d)", uint8(s))
}

// TextureArray is a populated GPU texture array ready for binding.
type TextureArray struct {
	Texture hal.Texture
	View    hal.TextureView
	Sampler hal.Sampler
	Layers  uint32
	// Width and Height are the size of one layer in pixels.
	Width, Height uint32
}

type textureEntry struct {
	texture  tilemap.TilemapTexture
	tileSize tilemap.TileSize
	spacing  tilemap.Spacing
	filter   tilemap.FilterMode

	state  TextureState
	layers uint32
	array  TextureArray
	bytes  uint64
	// failed entries are skipped until evicted.
	failed bool
}

// TextureCache turns tilemap textures into GPU texture arrays, one layer
// per tile texture index. Entries move from registered to allocated to
// populated as their images become resident in the image source.
//
// TextureCache is not safe for concurrent use.
type TextureCache struct {
	device hal.Device
	queue  hal.Queue
	mem    *gpu.Memory

	entries map[tilemap.TextureKey]*textureEntry
	scratch []byte
}

// NewTextureCache returns an empty cache. mem may be nil.
func NewTextureCache(device hal.Device, queue hal.Queue, mem *gpu.Memory) *TextureCache {
	return &TextureCache{
		device:  device,
		queue:   queue,
		mem:     mem,
		entries: make(map[tilemap.TextureKey]*textureEntry),
	}
}

// Register adds a texture if it is not known yet. Registering the same
// texture again is a no-op.
func (c *TextureCache) Register(t tilemap.TilemapTexture, tileSize tilemap.TileSize, spacing tilemap.Spacing, filter tilemap.FilterMode) {
	key := t.Key()
	if _, ok := c.entries[key]; ok {
		return
	}
	c.entries[key] = &textureEntry{
		texture:  tilemap.TilemapTexture{Kind: t.Kind, Handles: slices.Clone(t.Handles)},
		tileSize: tileSize,
		spacing:  spacing,
		filter:   filter,
	}
	tilemap.Logger().Debug("render: texture registered", "key", key)
}

// State returns the state of a texture. The second result is false for
// unknown textures.
func (c *TextureCache) State(key tilemap.TextureKey) (TextureState, bool) {
	e, ok := c.entries[key]
	if !ok {
		return 0, false
	}
	return e.state, true
}

// Get returns the texture array of a populated entry.
func (c *TextureCache) Get(key tilemap.TextureKey) (*TextureArray, error) {
	e, ok := c.entries[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTexture, key)
	}
	if e.state != TexturePopulated {
		return nil, fmt.Errorf("%w: %s is %v", ErrTextureNotReady, key, e.state)
	}
	return &e.array, nil
}

// Len returns the number of entries.
func (c *TextureCache) Len() int { return len(c.entries) }

// Counts returns the number of entries in each state.
func (c *TextureCache) Counts() [3]int {
	var n [3]int
	for _, e := range c.entries {
		n[e.state]++
	}
	return n
}

// Evict releases a texture's GPU resources and forgets it.
func (c *TextureCache) Evict(key tilemap.TextureKey) bool {
	e, ok := c.entries[key]
	if !ok {
		return false
	}
	c.release(e)
	delete(c.entries, key)
	tilemap.Logger().Debug("render: texture evicted", "key", key)
	return true
}

// Release destroys every entry.
func (c *TextureCache) Release() {
	for key, e := range c.entries {
		c.release(e)
		delete(c.entries, key)
	}
}

func (c *TextureCache) release(e *textureEntry) {
	if e.state == TextureRegistered {
		return
	}
	c.device.DestroySampler(e.array.Sampler)
	c.device.DestroyTextureView(e.array.View)
	c.device.DestroyTexture(e.array.Texture)
	if c.mem != nil {
		c.mem.Release(gpu.KindTexture, e.bytes)
	}
	e.array = TextureArray{}
	e.state = TextureRegistered
}

// Prepare advances every entry as far as its images allow: registered
// entries whose layer count is known are allocated, and allocated entries
// whose images are all resident are uploaded. Failures are logged and the
// entry is retried next frame, except for images that can never form a
// texture array.
func (c *TextureCache) Prepare(src tilemap.ImageSource) {
	keys := make([]tilemap.TextureKey, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, key := range keys {
		e := c.entries[key]
		if e.failed || e.state == TexturePopulated {
			continue
		}
		if e.state == TextureRegistered {
			if err := c.allocate(key, e, src); err != nil {
				if isPermanent(err) {
					e.failed = true
				}
				tilemap.Logger().Warn("render: texture allocation failed", "key", key, "err", err)
				continue
			}
		}
		if e.state == TextureAllocated && e.texture.Ready(src) {
			if err := c.populate(key, e, src); err != nil {
				tilemap.Logger().Warn("render: texture upload failed", "key", key, "err", err)
			}
		}
	}
}

func isPermanent(err error) bool {
	return err != nil && errors.Is(err, ErrInvalidTexture)
}

// layerCount returns the number of layers and the layer size of a texture.
// The count of atlas and container textures needs the image.
func (e *textureEntry) layerCount(src tilemap.ImageSource) (layers, w, h uint32, err error) {
	tw, th := uint32(e.tileSize.X), uint32(e.tileSize.Y)
	if tw == 0 || th == 0 {
		return 0, 0, 0, fmt.Errorf("%w: tile size %gx%g", ErrInvalidTexture, e.tileSize.X, e.tileSize.Y)
	}
	switch e.texture.Kind {
	case tilemap.TextureVector:
		if len(e.texture.Handles) == 0 {
			return 0, 0, 0, fmt.Errorf("%w: vector texture without images", ErrInvalidTexture)
		}
		return uint32(len(e.texture.Handles)), tw, th, nil
	case tilemap.TextureContainer:
		img, ok := imageOf(src, e.texture.Handles)
		if !ok {
			return 0, 0, 0, ErrTextureNotReady
		}
		b := img.Bounds()
		layers = uint32(b.Dy()) / th
		if layers == 0 {
			return 0, 0, 0, fmt.Errorf("%w: container %dx%d is shorter than one tile", ErrInvalidTexture, b.Dx(), b.Dy())
		}
		return layers, uint32(b.Dx()), th, nil
	default:
		img, ok := imageOf(src, e.texture.Handles)
		if !ok {
			return 0, 0, 0, ErrTextureNotReady
		}
		cols, rows := atlasGrid(img.Bounds().Size(), tw, th, e.spacing)
		if cols == 0 || rows == 0 {
			return 0, 0, 0, fmt.Errorf("%w: atlas %v smaller than tile %dx%d", ErrInvalidTexture, img.Bounds().Size(), tw, th)
		}
		return cols * rows, tw, th, nil
	}
}

// atlasGrid returns the number of atlas cells along each axis. Spacing
// separates cells; there is none before the first cell or after the last.
func atlasGrid(size image.Point, tw, th uint32, spacing tilemap.Spacing) (cols, rows uint32) {
	sx, sy := uint32(spacing.X), uint32(spacing.Y)
	cols = (uint32(size.X) + sx) / (tw + sx)
	rows = (uint32(size.Y) + sy) / (th + sy)
	return cols, rows
}

func imageOf(src tilemap.ImageSource, hs []tilemap.ImageHandle) (*image.RGBA, bool) {
	if src == nil || len(hs) == 0 {
		return nil, false
	}
	return src.Image(hs[0])
}

// allocatedLayers returns the array layer count for n tile layers. Six
// layer arrays are promoted to seven so backends do not treat the view as
// a cube map.
func allocatedLayers(n uint32) uint32 {
	if n == 6 {
		return 7
	}
	return n
}

func (c *TextureCache) allocate(key tilemap.TextureKey, e *textureEntry, src tilemap.ImageSource) error {
	layers, w, h, err := e.layerCount(src)
	if err != nil {
		if errors.Is(err, ErrTextureNotReady) {
			return nil
		}
		return err
	}
	n := allocatedLayers(layers)
	bytes := uint64(w) * uint64(h) * 4 * uint64(n)
	if c.mem != nil {
		if err := c.mem.Reserve(gpu.KindTexture, bytes); err != nil {
			return err
		}
	}
	label := "tilemap_texture_" + string(key)
	tex, err := c.device.CreateTexture(&hal.TextureDescriptor{
		Label:         label,
		Size:          hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: n},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatRGBA8UnormSrgb,
		Usage:         gputypes.TextureUsageCopyDst | gputypes.TextureUsageTextureBinding,
	})
	if err != nil {
		c.releaseBytes(bytes)
		return fmt.Errorf("create texture: %w", err)
	}
	view, err := c.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:           label + "_view",
		Format:          gputypes.TextureFormatRGBA8UnormSrgb,
		Dimension:       gputypes.TextureViewDimension2DArray,
		Aspect:          gputypes.TextureAspectAll,
		MipLevelCount:   1,
		ArrayLayerCount: n,
	})
	if err != nil {
		c.device.DestroyTexture(tex)
		c.releaseBytes(bytes)
		return fmt.Errorf("create texture view: %w", err)
	}
	mode := samplerFilter(e.filter)
	sampler, err := c.device.CreateSampler(&hal.SamplerDescriptor{
		Label:        label + "_sampler",
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    mode,
		MinFilter:    mode,
		MipmapFilter: mode,
		LodMaxClamp:  32,
		Anisotropy:   1,
	})
	if err != nil {
		c.device.DestroyTextureView(view)
		c.device.DestroyTexture(tex)
		c.releaseBytes(bytes)
		return fmt.Errorf("create sampler: %w", err)
	}
	e.layers = layers
	e.bytes = bytes
	e.array = TextureArray{Texture: tex, View: view, Sampler: sampler, Layers: n, Width: w, Height: h}
	e.state = TextureAllocated
	tilemap.Logger().Debug("render: texture allocated", "key", key, "layers", n, "width", w, "height", h)
	return nil
}

func (c *TextureCache) releaseBytes(n uint64) {
	if c.mem != nil {
		c.mem.Release(gpu.KindTexture, n)
	}
}

func samplerFilter(f tilemap.FilterMode) gputypes.FilterMode {
	if f == tilemap.FilterLinear {
		return gputypes.FilterModeLinear
	}
	return gputypes.FilterModeNearest
}

// populate uploads every layer in one pass.
func (c *TextureCache) populate(key tilemap.TextureKey, e *textureEntry, src tilemap.ImageSource) error {
	a := &e.array
	size := int(a.Width) * int(a.Height) * 4
	if cap(c.scratch) < size {
		c.scratch = make([]byte, size)
	}
	buf := c.scratch[:size]
	for layer := range e.layers {
		img, rect, err := e.layerSource(src, layer, a.Width, a.Height)
		if err != nil {
			return err
		}
		copyRect(buf, img, rect, int(a.Width))
		err = c.queue.WriteTexture(
			&hal.ImageCopyTexture{
				Texture: a.Texture,
				Origin:  hal.Origin3D{Z: layer},
				Aspect:  gputypes.TextureAspectAll,
			},
			buf,
			&hal.ImageDataLayout{BytesPerRow: a.Width * 4, RowsPerImage: a.Height},
			&hal.Extent3D{Width: a.Width, Height: a.Height, DepthOrArrayLayers: 1},
		)
		if err != nil {
			return fmt.Errorf("write layer %d: %w", layer, err)
		}
	}
	e.state = TexturePopulated
	tilemap.Logger().Info("render: texture populated", "key", key, "layers", e.layers)
	return nil
}

// layerSource returns the image and source rectangle of one layer.
func (e *textureEntry) layerSource(src tilemap.ImageSource, layer, w, h uint32) (*image.RGBA, image.Rectangle, error) {
	switch e.texture.Kind {
	case tilemap.TextureVector:
		img, ok := src.Image(e.texture.Handles[layer])
		if !ok {
			return nil, image.Rectangle{}, ErrTextureNotReady
		}
		if img.Bounds().Dx() != int(w) || img.Bounds().Dy() != int(h) {
			tilemap.Logger().Warn("render: vector texture image resampled to tile size",
				"layer", layer, "size", img.Bounds().Size(), "tile", image.Pt(int(w), int(h)))
			img = asset.Scale(img, int(w), int(h), e.filter == tilemap.FilterLinear)
		}
		return img, img.Bounds(), nil
	case tilemap.TextureContainer:
		img, ok := imageOf(src, e.texture.Handles)
		if !ok {
			return nil, image.Rectangle{}, ErrTextureNotReady
		}
		o := img.Bounds().Min.Add(image.Pt(0, int(layer*h)))
		return img, image.Rectangle{Min: o, Max: o.Add(image.Pt(int(w), int(h)))}, nil
	default:
		img, ok := imageOf(src, e.texture.Handles)
		if !ok {
			return nil, image.Rectangle{}, ErrTextureNotReady
		}
		cols, _ := atlasGrid(img.Bounds().Size(), w, h, e.spacing)
		sx, sy := uint32(e.spacing.X), uint32(e.spacing.Y)
		x := (layer % cols) * (w + sx)
		y := (layer / cols) * (h + sy)
		o := img.Bounds().Min.Add(image.Pt(int(x), int(y)))
		return img, image.Rectangle{Min: o, Max: o.Add(image.Pt(int(w), int(h)))}, nil
	}
}

// copyRect copies r from img into dst, a tightly packed RGBA buffer w
// pixels wide. Pixels outside img are transparent.
func copyRect(dst []byte, img *image.RGBA, r image.Rectangle, w int) {
	clear(dst)
	clipped := r.Intersect(img.Bounds())
	for y := clipped.Min.Y; y < clipped.Max.Y; y++ {
		so := img.PixOffset(clipped.Min.X, y)
		do := ((y-r.Min.Y)*w + (clipped.Min.X - r.Min.X)) * 4
		copy(dst[do:do+clipped.Dx()*4], img.Pix[so:so+clipped.Dx()*4])
	}
}
