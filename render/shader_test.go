// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"strings"
	"testing"

	"github.com/gogpu/tilemap"
)

func TestShaderSourceMeshType(t *testing.T) {
	tests := []struct {
		typ  tilemap.TilemapType
		want string
	}{
		{tilemap.SquareType(false), "const MESH_TYPE: u32 = 0u;"},
		{tilemap.HexagonType(tilemap.HexRowOdd), "const MESH_TYPE: u32 = 2u;"},
		{tilemap.HexagonType(tilemap.HexColumn), "const MESH_TYPE: u32 = 6u;"},
		{tilemap.IsometricType(false, tilemap.IsoDiamond), "const MESH_TYPE: u32 = 7u;"},
		{tilemap.IsometricType(true, tilemap.IsoStaggered), "const MESH_TYPE: u32 = 8u;"},
	}
	for _, tt := range tests {
		src := ShaderSource(tt.typ, nil)
		if !strings.HasPrefix(src, tt.want) {
			t.Errorf("%v: source starts %q, want %q", tt.typ, src[:min(len(src), 40)], tt.want)
		}
		for _, entry := range []string{"fn vs_main", "fn fs_main"} {
			if strings.Count(src, entry) != 1 {
				t.Errorf("%v: %q appears %d times", tt.typ, entry, strings.Count(src, entry))
			}
		}
	}
}

func TestShaderSourceMaterial(t *testing.T) {
	src := ShaderSource(tilemap.SquareType(false), NewTintMaterial(tilemap.White))
	if !strings.Contains(src, "material_tint") {
		t.Error("tint fragment stage missing")
	}
	if strings.Count(src, "fn fs_main") != 1 {
		t.Error("default fragment stage not replaced")
	}
	if !strings.Contains(src, "fn vs_main") {
		t.Error("default vertex stage dropped")
	}
}
