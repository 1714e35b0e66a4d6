// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/tilemap"
	"github.com/gogpu/tilemap/internal/cache"
	"github.com/gogpu/wgpu/hal"
)

// PipelineKey identifies a specialized tilemap pipeline.
type PipelineKey struct {
	SampleCount uint32
	Type        tilemap.TilemapType
	HDR         bool
	Format      gputypes.TextureFormat
	// Material is the material key, empty for the default pipeline.
	Material string
}

type shaderKey struct {
	variant  uint32
	material string
}

// pipelines owns the shared bind group layouts and every specialized
// pipeline.
//
// Bind groups:
//
//	0: view uniform (dynamic)
//	1: mesh uniform, tilemap uniform (both dynamic)
//	2: texture array, sampler
//	3: material (optional)
type pipelines struct {
	device hal.Device
	spirv  bool

	viewLayout    hal.BindGroupLayout
	meshLayout    hal.BindGroupLayout
	textureLayout hal.BindGroupLayout

	layouts  map[string]hal.PipelineLayout
	shaders  map[shaderKey]hal.ShaderModule
	compiled *cache.Cache[PipelineKey, hal.RenderPipeline]
	// Evicted pipelines wait for flushRetired.
	retired []hal.RenderPipeline
}

// maxPipelines bounds the specialized pipelines kept alive.
const maxPipelines = 64

func newPipelines(device hal.Device, spirv bool) (*pipelines, error) {
	p := &pipelines{
		device:  device,
		spirv:   spirv,
		layouts: make(map[string]hal.PipelineLayout),
		shaders: make(map[shaderKey]hal.ShaderModule),
	}
	p.compiled = cache.New(maxPipelines, p.retire)
	if err := p.createLayouts(); err != nil {
		p.destroy()
		return nil, err
	}
	return p, nil
}

func (p *pipelines) createLayouts() error {
	var err error
	p.viewLayout, err = p.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "tilemap_view_layout",
		Entries: []gputypes.BindGroupLayoutEntry{{
			Binding:    0,
			Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
			Buffer: &gputypes.BufferBindingLayout{
				Type:             gputypes.BufferBindingTypeUniform,
				HasDynamicOffset: true,
				MinBindingSize:   viewUniformSize,
			},
		}},
	})
	if err != nil {
		return fmt.Errorf("create tilemap view layout: %w", err)
	}
	p.meshLayout, err = p.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "tilemap_mesh_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
				Buffer: &gputypes.BufferBindingLayout{
					Type:             gputypes.BufferBindingTypeUniform,
					HasDynamicOffset: true,
					MinBindingSize:   meshUniformSize,
				},
			},
			{
				Binding:    1,
				Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
				Buffer: &gputypes.BufferBindingLayout{
					Type:             gputypes.BufferBindingTypeUniform,
					HasDynamicOffset: true,
					MinBindingSize:   tilemapUniformSize,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create tilemap mesh layout: %w", err)
	}
	p.textureLayout, err = p.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "tilemap_texture_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageFragment,
				Texture: &gputypes.TextureBindingLayout{
					SampleType:    gputypes.TextureSampleTypeFloat,
					ViewDimension: gputypes.TextureViewDimension2DArray,
				},
			},
			{
				Binding:    1,
				Visibility: gputypes.ShaderStageFragment,
				Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create tilemap texture layout: %w", err)
	}
	return nil
}

// pipelineLayout returns the layout for a material key, creating it from
// the material's bind group layout on first use.
func (p *pipelines) pipelineLayout(mat *materialBinding) (hal.PipelineLayout, error) {
	key := ""
	groups := []hal.BindGroupLayout{p.viewLayout, p.meshLayout, p.textureLayout}
	if mat != nil {
		key = mat.material.Key()
		groups = append(groups, mat.layout)
	}
	if l, ok := p.layouts[key]; ok {
		return l, nil
	}
	l, err := p.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "tilemap_pipe_layout_" + key,
		BindGroupLayouts: groups,
	})
	if err != nil {
		return nil, fmt.Errorf("create tilemap pipeline layout: %w", err)
	}
	p.layouts[key] = l
	return l, nil
}

func (p *pipelines) shader(typ tilemap.TilemapType, mat *materialBinding) (hal.ShaderModule, error) {
	var m Material
	key := shaderKey{variant: typ.ShaderVariant()}
	if mat != nil {
		m = mat.material
		key.material = m.Key()
	}
	if s, ok := p.shaders[key]; ok {
		return s, nil
	}
	label := fmt.Sprintf("tilemap_shader_%d_%s", key.variant, key.material)
	s, err := createShaderModule(p.device, label, ShaderSource(typ, m), p.spirv)
	if err != nil {
		return nil, err
	}
	p.shaders[key] = s
	return s, nil
}

// get returns the pipeline for key, specializing it on first use.
func (p *pipelines) get(key PipelineKey, mat *materialBinding) (hal.RenderPipeline, error) {
	return p.compiled.GetOrCreate(key, func() (hal.RenderPipeline, error) {
		layout, err := p.pipelineLayout(mat)
		if err != nil {
			return nil, err
		}
		shader, err := p.shader(key.Type, mat)
		if err != nil {
			return nil, err
		}
		blend := gputypes.BlendStateAlpha()
		rp, err := p.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
			Label:  fmt.Sprintf("tilemap_pipeline_%v_msaa%d_%s", key.Type, key.SampleCount, key.Material),
			Layout: layout,
			Vertex: hal.VertexState{
				Module:     shader,
				EntryPoint: "vs_main",
				Buffers:    tileVertexLayout(),
			},
			Fragment: &hal.FragmentState{
				Module:     shader,
				EntryPoint: "fs_main",
				Targets: []gputypes.ColorTargetState{{
					Format:    key.Format,
					Blend:     &blend,
					WriteMask: gputypes.ColorWriteMaskAll,
				}},
			},
			Primitive: gputypes.PrimitiveState{
				Topology: gputypes.PrimitiveTopologyTriangleList,
				CullMode: gputypes.CullModeNone,
			},
			Multisample: gputypes.MultisampleState{
				Count: key.SampleCount,
				Mask:  0xFFFFFFFF,
			},
		})
		if err != nil {
			return nil, fmt.Errorf("create tilemap pipeline: %w", err)
		}
		tilemap.Logger().Debug("render: pipeline specialized", "type", key.Type, "samples", key.SampleCount,
			"hdr", key.HDR, "material", key.Material)
		return rp, nil
	})
}

func (p *pipelines) retire(_ PipelineKey, rp hal.RenderPipeline) {
	p.retired = append(p.retired, rp)
}

func (p *pipelines) flushRetired() {
	for i, rp := range p.retired {
		p.device.DestroyRenderPipeline(rp)
		p.retired[i] = nil
	}
	p.retired = p.retired[:0]
}

// Len returns the number of specialized pipelines.
func (p *pipelines) Len() int { return p.compiled.Len() }

// tileVertexLayout describes Vertex.
func tileVertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{{
		ArrayStride: VertexStride,
		StepMode:    gputypes.VertexStepModeVertex,
		Attributes: []gputypes.VertexAttribute{
			{Format: gputypes.VertexFormatFloat32x4, Offset: 0, ShaderLocation: 0},  // position
			{Format: gputypes.VertexFormatFloat32x4, Offset: 16, ShaderLocation: 1}, // texture
			{Format: gputypes.VertexFormatFloat32x4, Offset: 32, ShaderLocation: 2}, // color
		},
	}}
}

// destroy releases everything in reverse creation order.
func (p *pipelines) destroy() {
	p.compiled.Clear()
	p.flushRetired()
	for k, s := range p.shaders {
		p.device.DestroyShaderModule(s)
		delete(p.shaders, k)
	}
	for k, l := range p.layouts {
		p.device.DestroyPipelineLayout(l)
		delete(p.layouts, k)
	}
	for _, l := range []*hal.BindGroupLayout{&p.textureLayout, &p.meshLayout, &p.viewLayout} {
		if *l != nil {
			p.device.DestroyBindGroupLayout(*l)
			*l = nil
		}
	}
}
