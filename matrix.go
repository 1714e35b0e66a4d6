package tilemap

import "math"

// Mat2 is a 2x2 matrix stored as two columns.
//
//	| C0.X  C1.X |
//	| C0.Y  C1.Y |
//
// Grid topologies use a Mat2 basis to map grid coordinates to world space.
type Mat2 struct {
	C0, C1 Vec2
}

// Mat2FromCols builds a matrix from its two columns.
func Mat2FromCols(c0, c1 Vec2) Mat2 {
	return Mat2{C0: c0, C1: c1}
}

// MulVec applies the matrix to a vector.
func (m Mat2) MulVec(v Vec2) Vec2 {
	return Vec2{
		X: m.C0.X*v.X + m.C1.X*v.Y,
		Y: m.C0.Y*v.X + m.C1.Y*v.Y,
	}
}

// Determinant returns the determinant of the matrix.
func (m Mat2) Determinant() float32 {
	return m.C0.X*m.C1.Y - m.C1.X*m.C0.Y
}

// Inverse returns the inverse matrix.
// A singular matrix yields the zero matrix.
func (m Mat2) Inverse() Mat2 {
	det := m.Determinant()
	if det == 0 {
		return Mat2{}
	}
	inv := 1 / det
	return Mat2{
		C0: Vec2{X: m.C1.Y * inv, Y: -m.C0.Y * inv},
		C1: Vec2{X: -m.C1.X * inv, Y: m.C0.X * inv},
	}
}

// Mat4 is a 4x4 column-major matrix in the layout WGSL expects for
// mat4x4<f32> uniforms: element (row r, column c) is at index c*4+r.
type Mat4 [16]float32

// Identity4 returns the 4x4 identity matrix.
func Identity4() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Translation4 creates a translation matrix.
func Translation4(t Vec3) Mat4 {
	m := Identity4()
	m[12], m[13], m[14] = t.X, t.Y, t.Z
	return m
}

// Orthographic creates a right-handed orthographic projection with a
// [0, 1] depth range. near and far are distances along -Z in view space.
func Orthographic(left, right, bottom, top, near, far float32) Mat4 {
	rcpW := 1 / (right - left)
	rcpH := 1 / (top - bottom)
	rcpD := 1 / (near - far)
	return Mat4{
		2 * rcpW, 0, 0, 0,
		0, 2 * rcpH, 0, 0,
		0, 0, rcpD, 0,
		-(left + right) * rcpW, -(top + bottom) * rcpH, rcpD * near, 1,
	}
}

// At returns the element at row r, column c.
func (m Mat4) At(r, c int) float32 {
	return m[c*4+r]
}

// Row returns row r as a 4-vector.
func (m Mat4) Row(r int) [4]float32 {
	return [4]float32{m[r], m[4+r], m[8+r], m[12+r]}
}

// Mul returns m * n.
func (m Mat4) Mul(n Mat4) Mat4 {
	var out Mat4
	for c := range 4 {
		for r := range 4 {
			var sum float32
			for k := range 4 {
				sum += m[k*4+r] * n[c*4+k]
			}
			out[c*4+r] = sum
		}
	}
	return out
}

// TransformPoint applies the matrix to a point (w = 1).
func (m Mat4) TransformPoint(p Vec3) Vec3 {
	return Vec3{
		X: m[0]*p.X + m[4]*p.Y + m[8]*p.Z + m[12],
		Y: m[1]*p.X + m[5]*p.Y + m[9]*p.Z + m[13],
		Z: m[2]*p.X + m[6]*p.Y + m[10]*p.Z + m[14],
	}
}

// Translation returns the translation part of an affine matrix.
func (m Mat4) Translation() Vec3 {
	return Vec3{X: m[12], Y: m[13], Z: m[14]}
}

// Transform is a 2D placement with a z layer: translation, rotation about
// the Z axis (radians) and a per-axis scale.
type Transform struct {
	Translation Vec3
	Rotation    float32
	Scale       Vec2
}

// IdentityTransform returns a transform that leaves points unchanged.
func IdentityTransform() Transform {
	return Transform{Scale: Vec2{X: 1, Y: 1}}
}

// TransformFromTranslation returns an unrotated, unscaled transform.
func TransformFromTranslation(t Vec3) Transform {
	return Transform{Translation: t, Scale: Vec2{X: 1, Y: 1}}
}

// Matrix returns translate * rotate * scale.
func (t Transform) Matrix() Mat4 {
	sin, cos := math.Sincos(float64(t.Rotation))
	s, c := float32(sin), float32(cos)
	return Mat4{
		c * t.Scale.X, s * t.Scale.X, 0, 0,
		-s * t.Scale.Y, c * t.Scale.Y, 0, 0,
		0, 0, 1, 0,
		t.Translation.X, t.Translation.Y, t.Translation.Z, 1,
	}
}
