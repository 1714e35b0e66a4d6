// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"math"

	"github.com/gogpu/tilemap"
	"github.com/gogpu/tilemap/coord"
)

// Plane is a half-space n·p + d >= 0 with a unit normal.
type Plane struct {
	Normal tilemap.Vec3
	D      float32
}

// Distance returns the signed distance from the plane to p.
func (p Plane) Distance(v tilemap.Vec3) float32 {
	return dot3(p.Normal, v) + p.D
}

// Plane indices within a Frustum.
const (
	PlaneLeft = iota
	PlaneRight
	PlaneBottom
	PlaneTop
	PlaneNear
	PlaneFar
)

// Frustum is the six clip planes of a view-projection matrix, normals
// pointing inward.
type Frustum struct {
	Planes [6]Plane
}

// FrustumFromMatrix extracts the planes of a view-projection matrix with a
// [0, 1] clip depth range (Gribb and Hartmann).
func FrustumFromMatrix(m tilemap.Mat4) Frustum {
	r0, r1, r2, r3 := m.Row(0), m.Row(1), m.Row(2), m.Row(3)
	var f Frustum
	f.Planes[PlaneLeft] = planeFromRow(add4(r3, r0))
	f.Planes[PlaneRight] = planeFromRow(sub4(r3, r0))
	f.Planes[PlaneBottom] = planeFromRow(add4(r3, r1))
	f.Planes[PlaneTop] = planeFromRow(sub4(r3, r1))
	f.Planes[PlaneNear] = planeFromRow(r2)
	f.Planes[PlaneFar] = planeFromRow(sub4(r3, r2))
	return f
}

// ContainsPoint reports whether p is inside every plane.
func (f *Frustum) ContainsPoint(p tilemap.Vec3) bool {
	for _, pl := range f.Planes {
		if pl.Distance(p) < 0 {
			return false
		}
	}
	return true
}

// IntersectsOBB reports whether the rectangle r, placed by model, may be
// visible. The rectangle is treated as a box of zero depth. Only the first
// five planes are tested: chunks are never culled by the far plane.
func (f *Frustum) IntersectsOBB(r coord.Rect, model tilemap.Mat4) bool {
	c := r.Center()
	half := r.Size().Mul(0.5)
	center := model.TransformPoint(c.Extend(0))
	ax := tilemap.V3(model[0], model[1], model[2])
	ay := tilemap.V3(model[4], model[5], model[6])
	for _, pl := range f.Planes[:PlaneFar] {
		radius := abs32(dot3(pl.Normal, ax))*half.X + abs32(dot3(pl.Normal, ay))*half.Y
		if pl.Distance(center)+radius <= 0 {
			return false
		}
	}
	return true
}

func planeFromRow(v [4]float32) Plane {
	n := tilemap.V3(v[0], v[1], v[2])
	l := float32(math.Sqrt(float64(dot3(n, n))))
	if l == 0 {
		return Plane{Normal: n, D: v[3]}
	}
	return Plane{Normal: tilemap.V3(n.X/l, n.Y/l, n.Z/l), D: v[3] / l}
}

func add4(a, b [4]float32) [4]float32 {
	return [4]float32{a[0] + b[0], a[1] + b[1], a[2] + b[2], a[3] + b[3]}
}

func sub4(a, b [4]float32) [4]float32 {
	return [4]float32{a[0] - b[0], a[1] - b[1], a[2] - b[2], a[3] - b[3]}
}

func dot3(a, b tilemap.Vec3) float32 { return a.X*b.X + a.Y*b.Y + a.Z*b.Z }

func abs32(f float32) float32 {
	if f < 0 {
		return -f
	}
	return f
}
