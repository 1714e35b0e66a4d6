// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/gogpu/tilemap"
)

func TestUniformBufferAlignment(t *testing.T) {
	dev := openNoop(t)
	u := NewUniformBuffer(dev.Device, dev.Queue, nil, "test_uniforms", meshUniformSize)
	defer u.Destroy()

	var offsets []uint32
	for i := range 3 {
		m := meshUniform{model: tilemap.Translation4(tilemap.V3(float32(i), 0, 0))}
		offsets = append(offsets, u.Push(m.bytes()))
	}
	for i, off := range offsets {
		if off != uint32(i)*uniformAlignment {
			t.Errorf("offset %d = %d, want %d", i, off, i*uniformAlignment)
		}
	}
	if u.Len() != 3 || len(u.Bytes()) != 3*uniformAlignment {
		t.Errorf("Len = %d, bytes = %d", u.Len(), len(u.Bytes()))
	}
	// Translation x of record 2 lives at element 12 of its matrix.
	x := math.Float32frombits(binary.LittleEndian.Uint32(u.Bytes()[offsets[2]+12*4:]))
	if x != 2 {
		t.Errorf("record 2 translation x = %v, want 2", x)
	}

	if u.Raw() != nil {
		t.Error("buffer allocated before Write")
	}
	if err := u.Write(); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if u.Raw() == nil {
		t.Error("buffer not allocated by Write")
	}

	u.Clear()
	if u.Len() != 0 {
		t.Errorf("Len after Clear = %d", u.Len())
	}
}

func TestUniformSizes(t *testing.T) {
	tests := []struct {
		name string
		got  int
		want int
	}{
		{"view", len((&viewUniform{}).bytes()), viewUniformSize},
		{"mesh", len((&meshUniform{}).bytes()), meshUniformSize},
		{"tilemap", len((&tilemapUniform{}).bytes()), tilemapUniformSize},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s uniform is %d bytes, want %d", tt.name, tt.got, tt.want)
		}
		if alignUp(uint32(tt.want), uniformAlignment) != uniformAlignment {
			t.Errorf("%s uniform does not fit one aligned slot", tt.name)
		}
	}
}

func TestTilemapUniformLayout(t *testing.T) {
	u := tilemapUniform{
		textureSize: tilemap.V2(64, 32),
		chunkPos:    tilemap.V2(4, 8),
		time:        1.5,
		layers:      8,
	}
	b := u.bytes()
	f := func(i int) float32 { return math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:])) }
	if f(0) != 64 || f(1) != 32 {
		t.Errorf("texture size = (%v, %v)", f(0), f(1))
	}
	if f(8) != 4 || f(9) != 8 {
		t.Errorf("chunk pos = (%v, %v)", f(8), f(9))
	}
	if f(12) != 1.5 || f(13) != 8 {
		t.Errorf("time, layers = %v, %v", f(12), f(13))
	}
}
