package material

import (
	"github.com/notargets/macaw/config"
	"github.com/notargets/macaw/rotation"
	"github.com/notargets/macaw/tensor"
)

// MobilityRotationVector rotates the coordinate system of a mobility (or
// conductivity) tensor so that the original x axis follows a direction vector
// property.
type MobilityRotationVector struct {
	name      string
	mobilityA string // input tensor of phase A
	mName     string // output tensor
	direction string // direction vector property
}

// Name returns the block name
func (o *MobilityRotationVector) Name() string { return o.name }

// Init reads the property names
func (o *MobilityRotationVector) Init(opts config.Options) (err error) {
	if o.mobilityA, err = opts.RequiredString("M_A"); err != nil {
		return err
	}
	if o.mName, err = opts.RequiredString("M_name"); err != nil {
		return err
	}
	o.direction, err = opts.RequiredString("direction_vector")
	return err
}

// InitPoint zeroes the rotated tensor
func (o *MobilityRotationVector) InitPoint(p *Point) { p.SetTensor(o.mName, tensor.Zero()) }

// Outputs returns the rotated tensor name
func (o *MobilityRotationVector) Outputs() []string { return []string{o.mName} }

// Compute evaluates the rotated tensor at p
func (o *MobilityRotationVector) Compute(p *Point) error {
	ma, err := p.Tensor(o.mobilityA)
	if err != nil {
		return err
	}
	dir, err := p.Vector(o.direction)
	if err != nil {
		return err
	}
	p.SetTensor(o.mName, rotation.AlignAndTransform(tensor.XAxis, dir, ma))
	return nil
}
