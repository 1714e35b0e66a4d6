// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/gogpu/naga"
	"github.com/gogpu/tilemap"
	"github.com/gogpu/wgpu/hal"
)

//go:embed shaders/tilemap_vertex.wgsl
var vertexShaderSource string

//go:embed shaders/tilemap_fragment.wgsl
var fragmentShaderSource string

// ShaderSource returns the WGSL module drawing maps of the given type,
// with the stages a material replaces. m may be nil.
func ShaderSource(typ tilemap.TilemapType, m Material) string {
	vertex, fragment := vertexShaderSource, fragmentShaderSource
	if ms, ok := m.(MaterialShader); ok {
		if s := ms.VertexShader(); s != "" {
			vertex = s
		}
		if s := ms.FragmentShader(); s != "" {
			fragment = s
		}
	}
	var b strings.Builder
	fmt.Fprintf(&b, "const MESH_TYPE: u32 = %du;\n\n", typ.ShaderVariant())
	b.WriteString(vertex)
	b.WriteString("\n")
	b.WriteString(fragment)
	return b.String()
}

// compileSPIRV compiles WGSL to SPIR-V words.
func compileSPIRV(source string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(source)
	if err != nil {
		return nil, fmt.Errorf("compile shader: %w", err)
	}
	// SPIR-V is little-endian 32-bit words.
	code := make([]uint32, len(spirvBytes)/4)
	for i := range code {
		code[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return code, nil
}

// createShaderModule builds a module from WGSL, or from SPIR-V compiled by
// naga when spirv is set.
func createShaderModule(device hal.Device, label, source string, spirv bool) (hal.ShaderModule, error) {
	src := hal.ShaderSource{WGSL: source}
	if spirv {
		code, err := compileSPIRV(source)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", label, err)
		}
		src = hal.ShaderSource{SPIRV: code}
	}
	module, err := device.CreateShaderModule(&hal.ShaderModuleDescriptor{Label: label, Source: src})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", label, err)
	}
	return module, nil
}
