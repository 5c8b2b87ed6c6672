package material

import (
	"github.com/cockroachdb/errors"
	"github.com/notargets/macaw/tensor"
	"gonum.org/v1/gonum/spatial/r3"
)

// ErrMissingProperty marks a lookup of a property absent from a Point
var ErrMissingProperty = errors.New("missing property")

// ErrDimension marks a Point whose mesh dimension is outside 1 to 3
var ErrDimension = errors.New("invalid mesh dimension")

// Point holds the named values available at one quadrature point: coupled
// variable values and gradients supplied by the host, and the properties
// computed by materials.
type Point struct {
	Dim     int // Mesh dimension, 1 to 3
	Scalars map[string]float64
	Vectors map[string]r3.Vec
	Tensors map[string]tensor.Tensor
}

// NewPoint returns an empty Point of mesh dimension dim
func NewPoint(dim int) *Point {
	return &Point{
		Dim:     dim,
		Scalars: make(map[string]float64),
		Vectors: make(map[string]r3.Vec),
		Tensors: make(map[string]tensor.Tensor),
	}
}

// CheckDim returns an error marked ErrDimension unless Dim is 1, 2 or 3
func (p *Point) CheckDim() error {
	if p.Dim < 1 || p.Dim > 3 {
		return errors.Mark(errors.Newf("mesh dimension %d not in [1, 3]", p.Dim), ErrDimension)
	}
	return nil
}

func missing(kind, name string) error {
	return errors.Mark(errors.Newf("%s property %q not found", kind, name), ErrMissingProperty)
}

// Scalar returns the scalar property name
func (p *Point) Scalar(name string) (float64, error) {
	v, ok := p.Scalars[name]
	if !ok {
		return 0, missing("scalar", name)
	}
	return v, nil
}

// Vector returns the vector property name
func (p *Point) Vector(name string) (r3.Vec, error) {
	v, ok := p.Vectors[name]
	if !ok {
		return r3.Vec{}, missing("vector", name)
	}
	return v, nil
}

// Tensor returns the tensor property name
func (p *Point) Tensor(name string) (tensor.Tensor, error) {
	v, ok := p.Tensors[name]
	if !ok {
		return tensor.Tensor{}, missing("tensor", name)
	}
	return v, nil
}

// SetScalar stores a scalar property
func (p *Point) SetScalar(name string, v float64) { p.Scalars[name] = v }

// SetVector stores a vector property
func (p *Point) SetVector(name string, v r3.Vec) { p.Vectors[name] = v }

// SetTensor stores a tensor property
func (p *Point) SetTensor(name string, v tensor.Tensor) { p.Tensors[name] = v }

// GradientName is the key under which the host stores the gradient of a
// coupled variable
func GradientName(variable string) string { return "grad_" + variable }
