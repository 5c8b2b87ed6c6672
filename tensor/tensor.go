package tensor

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Tensor is a rank-2 tensor in three dimensions, addressed as (row, col).
// It is a value type: every operation returns a new Tensor.
type Tensor [3][3]float64

var _ mat.Matrix = Tensor{}

// Zero returns the zero tensor
func Zero() Tensor { return Tensor{} }

// Identity returns the 3x3 identity tensor
func Identity() Tensor {
	return Tensor{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
	}
}

// FromComponents packs nine components in row-major order
func FromComponents(xx, xy, xz, yx, yy, yz, zx, zy, zz float64) Tensor {
	return Tensor{
		{xx, xy, xz},
		{yx, yy, yz},
		{zx, zy, zz},
	}
}

// FromMatrix copies a 3x3 gonum matrix into a Tensor
func FromMatrix(m mat.Matrix) Tensor {
	r, c := m.Dims()
	if r != 3 || c != 3 {
		panic(mat.ErrShape)
	}
	var t Tensor
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			t[i][j] = m.At(i, j)
		}
	}
	return t
}

// Dims implements mat.Matrix
func (t Tensor) Dims() (r, c int) { return 3, 3 }

// At implements mat.Matrix
func (t Tensor) At(i, j int) float64 { return t[i][j] }

// T implements mat.Matrix, returning an implicit transpose
func (t Tensor) T() mat.Matrix { return mat.Transpose{Matrix: t} }

// Transpose returns the explicit transpose
func (t Tensor) Transpose() Tensor {
	var out Tensor
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = t[j][i]
		}
	}
	return out
}

// Scale returns f*t
func (t Tensor) Scale(f float64) Tensor {
	var out Tensor
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = f * t[i][j]
		}
	}
	return out
}

// Mul returns the matrix product t*b
func (t Tensor) Mul(b Tensor) Tensor {
	var out Tensor
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			var sum float64
			for k := 0; k < 3; k++ {
				sum += t[i][k] * b[k][j]
			}
			out[i][j] = sum
		}
	}
	return out
}

// MulVec returns t*v
func (t Tensor) MulVec(v r3.Vec) r3.Vec {
	return r3.Vec{
		X: t[0][0]*v.X + t[0][1]*v.Y + t[0][2]*v.Z,
		Y: t[1][0]*v.X + t[1][1]*v.Y + t[1][2]*v.Z,
		Z: t[2][0]*v.X + t[2][1]*v.Y + t[2][2]*v.Z,
	}
}

// Det returns the determinant
func (t Tensor) Det() float64 {
	return t[0][0]*(t[1][1]*t[2][2]-t[1][2]*t[2][1]) -
		t[0][1]*(t[1][0]*t[2][2]-t[1][2]*t[2][0]) +
		t[0][2]*(t[1][0]*t[2][1]-t[1][1]*t[2][0])
}

// Dense returns a freshly allocated gonum copy of t
func (t Tensor) Dense() *mat.Dense {
	return mat.NewDense(3, 3, t.Slice())
}

// Slice returns the components in row-major order
func (t Tensor) Slice() []float64 {
	return []float64{
		t[0][0], t[0][1], t[0][2],
		t[1][0], t[1][1], t[1][2],
		t[2][0], t[2][1], t[2][2],
	}
}

// IsZero reports whether every component is exactly zero
func (t Tensor) IsZero() bool { return t == Tensor{} }

// EqualApprox compares componentwise within an absolute tolerance
func (t Tensor) EqualApprox(b Tensor, tol float64) bool {
	return floats.EqualApprox(t.Slice(), b.Slice(), tol)
}

// IsFinite reports whether no component is NaN or infinite
func (t Tensor) IsFinite() bool {
	for _, v := range t.Slice() {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
