// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/tilemap"
	"github.com/gogpu/wgpu/hal"
)

// Material extends the tilemap pipeline with an extra bind group at
// group 3. Maps drawn with a material use a pipeline specialized on Key.
//
// Materials with the same Key must declare the same layout and shaders.
type Material interface {
	// Key identifies the material's pipeline variant.
	Key() string
	// BindGroupLayout describes the entries of bind group 3.
	BindGroupLayout() []gputypes.BindGroupLayoutEntry
	// BindGroup creates or updates the material's resources and returns
	// the entries of bind group 3. It is called once per frame for every
	// material that is drawn.
	BindGroup(device hal.Device, queue hal.Queue) ([]gputypes.BindGroupEntry, error)
	// Release destroys the material's GPU resources.
	Release(device hal.Device)
}

// MaterialShader is implemented by materials that replace a shader stage.
// An empty string keeps the default stage. A replacement vertex stage must
// declare everything the default fragment stage uses; a replacement
// fragment stage may use every declaration of the default vertex stage.
type MaterialShader interface {
	VertexShader() string
	FragmentShader() string
}

// materialBinding is the renderer-side state of one material instance.
type materialBinding struct {
	material Material
	layout   hal.BindGroupLayout
	group    hal.BindGroup
}

func newMaterialBinding(device hal.Device, m Material) (*materialBinding, error) {
	layout, err := device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label:   "tilemap_material_layout_" + m.Key(),
		Entries: m.BindGroupLayout(),
	})
	if err != nil {
		return nil, fmt.Errorf("create material %s layout: %w", m.Key(), err)
	}
	return &materialBinding{material: m, layout: layout}, nil
}

// refresh recreates the bind group from the material's current entries.
func (b *materialBinding) refresh(device hal.Device, queue hal.Queue) error {
	entries, err := b.material.BindGroup(device, queue)
	if err != nil {
		return fmt.Errorf("material %s bind group: %w", b.material.Key(), err)
	}
	group, err := device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:   "tilemap_material_" + b.material.Key(),
		Layout:  b.layout,
		Entries: entries,
	})
	if err != nil {
		return fmt.Errorf("create material %s bind group: %w", b.material.Key(), err)
	}
	if b.group != nil {
		device.DestroyBindGroup(b.group)
	}
	b.group = group
	return nil
}

func (b *materialBinding) release(device hal.Device) {
	if b.group != nil {
		device.DestroyBindGroup(b.group)
		b.group = nil
	}
	if b.layout != nil {
		device.DestroyBindGroupLayout(b.layout)
		b.layout = nil
	}
	b.material.Release(device)
}

const tintFragmentShader = `
@group(3) @binding(0) var<uniform> material_tint: vec4<f32>;

@fragment
fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
    let texel = textureSample(tile_texture, tile_sampler, in.uv, in.layer);
    let color = texel * in.color * material_tint;
    if color.a < 0.001 {
        discard;
    }
    return color;
}
`

// TintMaterial multiplies every tile of a map by a constant color.
type TintMaterial struct {
	Tint tilemap.Color

	buf hal.Buffer
}

// NewTintMaterial returns a tint material.
func NewTintMaterial(c tilemap.Color) *TintMaterial {
	return &TintMaterial{Tint: c}
}

// Key implements Material.
func (m *TintMaterial) Key() string { return "tint" }

// BindGroupLayout implements Material.
func (m *TintMaterial) BindGroupLayout() []gputypes.BindGroupLayoutEntry {
	return []gputypes.BindGroupLayoutEntry{{
		Binding:    0,
		Visibility: gputypes.ShaderStageFragment,
		Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
	}}
}

// BindGroup implements Material.
func (m *TintMaterial) BindGroup(device hal.Device, queue hal.Queue) ([]gputypes.BindGroupEntry, error) {
	if m.buf == nil {
		buf, err := device.CreateBuffer(&hal.BufferDescriptor{
			Label: "tilemap_tint_material",
			Size:  16,
			Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
		})
		if err != nil {
			return nil, fmt.Errorf("create tint buffer: %w", err)
		}
		m.buf = buf
	}
	data := make([]byte, 16)
	putVec4(data, 0, m.Tint.Array())
	if err := queue.WriteBuffer(m.buf, 0, data); err != nil {
		return nil, fmt.Errorf("write tint buffer: %w", err)
	}
	return []gputypes.BindGroupEntry{{
		Binding:  0,
		Resource: gputypes.BufferBinding{Buffer: m.buf.NativeHandle(), Size: 16},
	}}, nil
}

// Release implements Material.
func (m *TintMaterial) Release(device hal.Device) {
	if m.buf != nil {
		device.DestroyBuffer(m.buf)
		m.buf = nil
	}
}

// VertexShader implements MaterialShader.
func (m *TintMaterial) VertexShader() string { return "" }

// FragmentShader implements MaterialShader.
func (m *TintMaterial) FragmentShader() string { return tintFragmentShader }

var (
	_ Material       = (*TintMaterial)(nil)
	_ MaterialShader = (*TintMaterial)(nil)
)
