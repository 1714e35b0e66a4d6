// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/tilemap"
	"github.com/gogpu/tilemap/internal/gpu"
	"github.com/gogpu/wgpu/hal"
)

// uniformAlignment is the dynamic offset alignment every backend accepts
// (the WebGPU default minUniformBufferOffsetAlignment).
const uniformAlignment = 256

// Uniform sizes in bytes, matching the WGSL structs.
const (
	viewUniformSize    = 80 // view_proj mat4x4 + time vec4
	meshUniformSize    = 64 // model mat4x4
	tilemapUniformSize = 64
)

// UniformBuffer packs fixed-size uniform records at aligned offsets into
// one GPU buffer bound with a dynamic offset.
type UniformBuffer struct {
	buf    *gpu.Buffer
	size   uint32
	stride uint32
	data   []byte
}

// NewUniformBuffer returns a buffer for records of size bytes.
func NewUniformBuffer(device hal.Device, queue hal.Queue, mem *gpu.Memory, label string, size uint32) *UniformBuffer {
	return &UniformBuffer{
		buf:    gpu.NewBuffer(device, queue, mem, label, gputypes.BufferUsageUniform),
		size:   size,
		stride: alignUp(size, uniformAlignment),
	}
}

func alignUp(n, a uint32) uint32 {
	return (n + a - 1) / a * a
}

// Clear drops every record.
func (u *UniformBuffer) Clear() { u.data = u.data[:0] }

// Len returns the number of records.
func (u *UniformBuffer) Len() int { return len(u.data) / int(u.stride) }

// Size returns the size of one record.
func (u *UniformBuffer) Size() uint32 { return u.size }

// Push appends a record and returns its dynamic offset. Records shorter
// than the record size are zero padded.
func (u *UniformBuffer) Push(record []byte) uint32 {
	off := uint32(len(u.data))
	u.data = append(u.data, make([]byte, u.stride)...)
	copy(u.data[off:off+u.size], record)
	return off
}

// Write uploads the records.
func (u *UniformBuffer) Write() error {
	return u.buf.Write(u.data)
}

// Raw returns the GPU buffer, nil before the first non-empty Write.
func (u *UniformBuffer) Raw() hal.Buffer { return u.buf.Raw() }

// Bytes returns the packed records.
func (u *UniformBuffer) Bytes() []byte { return u.data }

// Destroy releases the GPU buffer.
func (u *UniformBuffer) Destroy() { u.buf.Destroy() }

type viewUniform struct {
	viewProj tilemap.Mat4
	time     float32
}

func (v *viewUniform) bytes() []byte {
	b := make([]byte, viewUniformSize)
	off := putMat4(b, 0, v.viewProj)
	putVec4(b, off, [4]float32{v.time})
	return b
}

type meshUniform struct {
	model tilemap.Mat4
}

func (m *meshUniform) bytes() []byte {
	b := make([]byte, meshUniformSize)
	putMat4(b, 0, m.model)
	return b
}

// tilemapUniform mirrors the WGSL TilemapData struct.
type tilemapUniform struct {
	textureSize tilemap.Vec2
	tileSize    tilemap.Vec2
	gridSize    tilemap.Vec2
	spacing     tilemap.Vec2
	// chunkPos is the chunk's first tile in map tile coordinates.
	chunkPos tilemap.Vec2
	mapSize  tilemap.Vec2
	time     float32
	layers   float32
}

func (t *tilemapUniform) bytes() []byte {
	b := make([]byte, tilemapUniformSize)
	off := 0
	for _, v := range []tilemap.Vec2{t.textureSize, t.tileSize, t.gridSize, t.spacing, t.chunkPos, t.mapSize} {
		binary.LittleEndian.PutUint32(b[off:], math.Float32bits(v.X))
		binary.LittleEndian.PutUint32(b[off+4:], math.Float32bits(v.Y))
		off += 8
	}
	binary.LittleEndian.PutUint32(b[off:], math.Float32bits(t.time))
	binary.LittleEndian.PutUint32(b[off+4:], math.Float32bits(t.layers))
	return b
}
