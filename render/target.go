// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Target is an offscreen color target. With a sample count above one it
// renders into a multisampled texture that resolves into the color texture.
type Target struct {
	device      hal.Device
	width       uint32
	height      uint32
	format      gputypes.TextureFormat
	sampleCount uint32

	color     hal.Texture
	colorView hal.TextureView
	msaa      hal.Texture
	msaaView  hal.TextureView

	// Clear is the color the target is cleared to before drawing.
	Clear gputypes.Color
}

// NewTarget creates a width x height target. A sampleCount of zero means 1.
func NewTarget(device hal.Device, width, height uint32, format gputypes.TextureFormat, sampleCount uint32) (*Target, error) {
	if device == nil {
		return nil, ErrNoDevice
	}
	if width == 0 || height == 0 {
		return nil, errors.New("render: target size must be positive")
	}
	if sampleCount == 0 {
		sampleCount = 1
	}
	t := &Target{
		device:      device,
		width:       width,
		height:      height,
		format:      format,
		sampleCount: sampleCount,
	}
	var err error
	t.color, t.colorView, err = t.createTexture("tilemap_target_color", 1,
		gputypes.TextureUsageRenderAttachment|gputypes.TextureUsageCopySrc|gputypes.TextureUsageTextureBinding)
	if err != nil {
		return nil, err
	}
	if sampleCount > 1 {
		t.msaa, t.msaaView, err = t.createTexture("tilemap_target_msaa", sampleCount,
			gputypes.TextureUsageRenderAttachment)
		if err != nil {
			t.Destroy()
			return nil, err
		}
	}
	return t, nil
}

func (t *Target) createTexture(label string, samples uint32, usage gputypes.TextureUsage) (hal.Texture, hal.TextureView, error) {
	tex, err := t.device.CreateTexture(&hal.TextureDescriptor{
		Label:         label,
		Size:          hal.Extent3D{Width: t.width, Height: t.height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   samples,
		Dimension:     gputypes.TextureDimension2D,
		Format:        t.format,
		Usage:         usage,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("create %s: %w", label, err)
	}
	view, err := t.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         label + "_view",
		Format:        t.format,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		t.device.DestroyTexture(tex)
		return nil, nil, fmt.Errorf("create %s view: %w", label, err)
	}
	return tex, view, nil
}

// Width returns the target width in pixels.
func (t *Target) Width() uint32 { return t.width }

// Height returns the target height in pixels.
func (t *Target) Height() uint32 { return t.height }

// Format returns the color format.
func (t *Target) Format() gputypes.TextureFormat { return t.format }

// SampleCount returns the MSAA sample count.
func (t *Target) SampleCount() uint32 { return t.sampleCount }

// Texture returns the resolved color texture.
func (t *Target) Texture() hal.Texture { return t.color }

// View returns the view of the resolved color texture.
func (t *Target) View() hal.TextureView { return t.colorView }

// colorAttachment describes the target as the single color attachment of
// a render pass that clears it.
func (t *Target) colorAttachment() hal.RenderPassColorAttachment {
	a := hal.RenderPassColorAttachment{
		View:       t.colorView,
		LoadOp:     gputypes.LoadOpClear,
		StoreOp:    gputypes.StoreOpStore,
		ClearValue: t.Clear,
	}
	if t.msaaView != nil {
		a.View = t.msaaView
		a.ResolveTarget = t.colorView
	}
	return a
}

// Destroy releases the target's textures in reverse creation order.
func (t *Target) Destroy() {
	if t.msaaView != nil {
		t.device.DestroyTextureView(t.msaaView)
		t.msaaView = nil
	}
	if t.msaa != nil {
		t.device.DestroyTexture(t.msaa)
		t.msaa = nil
	}
	if t.colorView != nil {
		t.device.DestroyTextureView(t.colorView)
		t.colorView = nil
	}
	if t.color != nil {
		t.device.DestroyTexture(t.color)
		t.color = nil
	}
}
