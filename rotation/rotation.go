// Package rotation re-expresses rank-2 tensors in a coordinate system whose
// reference axis has been turned onto an arbitrary direction.
package rotation

import (
	"math"

	"github.com/notargets/macaw/tensor"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// QuaternionFromAxisAngle returns the quaternion for a rotation of angle
// radians about axis. The axis is normalized here.
//
// The angle is negated so the coordinate system turns counter-clockwise,
// rather than a vector turning clockwise. Transforms built from it are
// mirrored if that sign is dropped.
func QuaternionFromAxisAngle(axis r3.Vec, angle float64) quat.Number {
	w := tensor.Unit(axis)

	// Half angle for quaternion rotation
	s, c := math.Sincos(-angle / 2)
	return quat.Number{
		Real: c,
		Imag: s * w.X,
		Jmag: s * w.Y,
		Kmag: s * w.Z,
	}
}

// RotationMatrix converts a unit quaternion into its 3x3 rotation matrix.
//
// Diagonal terms are accumulated as w²+x²-1/2 and the matrix is doubled at
// the end, which equals the usual w²+x²-y²-z² form for unit quaternions.
func RotationMatrix(q quat.Number) tensor.Tensor {
	w, x, y, z := q.Real, q.Imag, q.Jmag, q.Kmag

	var T tensor.Tensor
	T[0][0] = math.Pow(w, 2) + math.Pow(x, 2) - 0.5
	T[0][1] = x*y - w*z
	T[0][2] = w*y + x*z
	T[1][0] = w*z + x*y
	T[1][1] = math.Pow(w, 2) + math.Pow(y, 2) - 0.5
	T[1][2] = y*z - w*x
	T[2][0] = x*z - w*y
	T[2][1] = w*x + y*z
	T[2][2] = math.Pow(w, 2) + math.Pow(z, 2) - 0.5
	return T.Scale(2)
}

// Alignment is the axis-angle rotation carrying a reference axis onto a
// target direction
type Alignment struct {
	Axis  r3.Vec  // unit rotation axis
	Angle float64 // radians, in [0, π]
}

// Align computes the rotation carrying the unit vector reference onto the
// direction of target. ok is false when no rotation is needed: target has no
// magnitude, or its direction already equals reference exactly.
func Align(reference, target r3.Vec) (a Alignment, ok bool) {
	// Make sure the direction has a positive magnitude
	if r3.Norm(target) <= 0 {
		return Alignment{}, false
	}
	dir := tensor.Unit(target)

	// Already aligned, the cross product below would vanish
	if dir == reference {
		return Alignment{}, false
	}

	w := r3.Cross(reference, dir)
	if r3.Norm(w) <= 0 {
		// Antiparallel: any axis normal to reference gives the half turn
		w = tensor.Perpendicular(reference)
	}
	return Alignment{
		Axis:  tensor.Unit(w),
		Angle: tensor.Angle(reference, dir),
	}, true
}

// Quaternion returns the quaternion of the alignment
func (a Alignment) Quaternion() quat.Number {
	return QuaternionFromAxisAngle(a.Axis, a.Angle)
}

// Matrix returns the rotation matrix of the alignment
func (a Alignment) Matrix() tensor.Tensor {
	return RotationMatrix(a.Quaternion())
}

// Inverse returns the alignment undoing a
func (a Alignment) Inverse() Alignment {
	return Alignment{Axis: a.Axis, Angle: -a.Angle}
}

// Transform applies the similarity transform T*m*Tᵀ
func (a Alignment) Transform(m tensor.Tensor) tensor.Tensor {
	T := a.Matrix()
	return T.Mul(m).Mul(T.Transpose())
}

// AlignAndTransform rotates the basis of m so that reference is carried onto
// target. m is returned unchanged when target has no magnitude or already
// points along reference.
func AlignAndTransform(reference, target r3.Vec, m tensor.Tensor) tensor.Tensor {
	a, ok := Align(reference, target)
	if !ok {
		return m
	}
	return a.Transform(m)
}
