package tensor

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Axis unit vectors
var (
	XAxis = r3.Vec{X: 1}
	YAxis = r3.Vec{Y: 1}
	ZAxis = r3.Vec{Z: 1}
)

// Unit returns the unit vector colinear with v, or the zero vector when v has
// no magnitude. r3.Unit yields NaN components in that case.
//
// v is first divided by its largest component so that subnormal vectors,
// whose reciprocal norm overflows, still normalize to a finite result.
func Unit(v r3.Vec) r3.Vec {
	m := math.Max(math.Abs(v.X), math.Max(math.Abs(v.Y), math.Abs(v.Z)))
	if !(m > 0) {
		return r3.Vec{}
	}
	return r3.Unit(r3.Vec{X: v.X / m, Y: v.Y / m, Z: v.Z / m})
}

// Clamp limits a cosine to [-1, 1] so acos stays defined under rounding
func Clamp(c float64) float64 {
	return math.Max(-1, math.Min(1, c))
}

// Angle returns the angle in radians between two unit vectors
func Angle(u, v r3.Vec) float64 {
	return math.Acos(Clamp(r3.Dot(u, v)))
}

// Degrees converts radians to degrees
func Degrees(rad float64) float64 { return rad * 180 / math.Pi }

// Perpendicular returns a unit vector orthogonal to v (v non-zero).
// The coordinate axis least aligned with v is used to build it.
func Perpendicular(v r3.Vec) r3.Vec {
	ax, ay, az := math.Abs(v.X), math.Abs(v.Y), math.Abs(v.Z)
	other := XAxis
	switch {
	case ay <= ax && ay <= az:
		other = YAxis
	case az <= ax && az <= ay:
		other = ZAxis
	}
	return Unit(r3.Cross(v, other))
}
