// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/tilemap"
)

// VertexStride is the size in bytes of one interleaved Vertex.
const VertexStride = 48

// Vertex is one corner of a tile quad.
//
// Position holds the tile's in-chunk x and y, the chunk's z layer and the
// animation speed. Texture holds the layer index, flip bits and the
// animation's start and end layers. Color is the linear RGBA tint.
type Vertex struct {
	Position [4]float32
	Texture  [4]float32
	Color    [4]float32
}

// Mesh is the CPU-side geometry of one chunk.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32

	vbytes []byte
	ibytes []byte
}

// quadIndices is the per-tile index pattern, offset by 4 per quad.
var quadIndices = [6]uint32{0, 2, 1, 0, 3, 2}

// Quads returns the number of tile quads in the mesh.
func (m *Mesh) Quads() int { return len(m.Vertices) / 4 }

// Reset empties the mesh, keeping its storage.
func (m *Mesh) Reset() {
	m.Vertices = m.Vertices[:0]
	m.Indices = m.Indices[:0]
}

// Build rebuilds the mesh from a row-major slot slice width slots wide.
// Empty slots and invisible tiles contribute nothing.
func (m *Mesh) Build(slots []tileSlot, width uint32, z float32) {
	m.Reset()
	if width == 0 {
		return
	}
	for i, s := range slots {
		if s.entity == tilemap.InvalidEntity || !s.tile.Visible {
			continue
		}
		x := float32(uint32(i) % width)
		y := float32(uint32(i) / width)
		m.AddTile(x, y, z, s.tile)
	}
}

// AddTile appends one quad for a tile at in-chunk position (x, y).
func (m *Mesh) AddTile(x, y, z float32, t tilemap.Tile) {
	var speed, start, end float32
	index := float32(t.Texture)
	if a := t.Animation; a != nil {
		speed = a.Speed
		start = float32(a.Start)
		end = float32(a.End)
	}
	v := Vertex{
		Position: [4]float32{x, y, z, speed},
		Texture:  [4]float32{index, float32(t.Flip.Bits()), start, end},
		Color:    t.Color.Array(),
	}
	base := uint32(len(m.Vertices))
	// The vertex shader derives the corner from vertex_index % 4.
	m.Vertices = append(m.Vertices, v, v, v, v)
	for _, idx := range quadIndices {
		m.Indices = append(m.Indices, base+idx)
	}
}

// VertexBytes returns the vertices encoded little-endian. The returned
// slice is reused by the next call.
func (m *Mesh) VertexBytes() []byte {
	n := len(m.Vertices) * VertexStride
	if cap(m.vbytes) < n {
		m.vbytes = make([]byte, n)
	}
	b := m.vbytes[:n]
	off := 0
	for i := range m.Vertices {
		v := &m.Vertices[i]
		off = putVec4(b, off, v.Position)
		off = putVec4(b, off, v.Texture)
		off = putVec4(b, off, v.Color)
	}
	return b
}

// IndexBytes returns the indices encoded little-endian. The returned slice
// is reused by the next call.
func (m *Mesh) IndexBytes() []byte {
	n := len(m.Indices) * 4
	if cap(m.ibytes) < n {
		m.ibytes = make([]byte, n)
	}
	b := m.ibytes[:n]
	for i, idx := range m.Indices {
		binary.LittleEndian.PutUint32(b[i*4:], idx)
	}
	return b
}

func putVec4(b []byte, off int, v [4]float32) int {
	for _, f := range v {
		binary.LittleEndian.PutUint32(b[off:], math.Float32bits(f))
		off += 4
	}
	return off
}

func putMat4(b []byte, off int, m tilemap.Mat4) int {
	for _, f := range m {
		binary.LittleEndian.PutUint32(b[off:], math.Float32bits(f))
		off += 4
	}
	return off
}
