package material

import (
	"github.com/notargets/macaw/config"
	"github.com/notargets/macaw/tensor"
)

// componentKeys are the options naming the nine scalar variables, row-major
var componentKeys = [9]string{
	"var_xx", "var_xy", "var_xz",
	"var_yx", "var_yy", "var_yz",
	"var_zx", "var_zy", "var_zz",
}

// VariableToTensor packs nine scalar variables into a tensor, multiplied by a
// constant scale factor. Used to transfer tensors between simulations.
type VariableToTensor struct {
	name  string
	vars  [9]string
	scale float64
	mName string
}

// Name returns the block name
func (o *VariableToTensor) Name() string { return o.name }

// Init reads the component names and scale factor
func (o *VariableToTensor) Init(opts config.Options) (err error) {
	for i, key := range componentKeys {
		if o.vars[i], err = opts.RequiredString(key); err != nil {
			return err
		}
	}
	if o.scale, err = opts.Float("scale_factor", 1); err != nil {
		return err
	}
	o.mName, err = opts.RequiredString("M_name")
	return err
}

// InitPoint zeroes the tensor
func (o *VariableToTensor) InitPoint(p *Point) { p.SetTensor(o.mName, tensor.Zero()) }

// Outputs returns the tensor name
func (o *VariableToTensor) Outputs() []string { return []string{o.mName} }

// Compute packs the tensor at p
func (o *VariableToTensor) Compute(p *Point) error {
	var c [9]float64
	for i, v := range o.vars {
		x, err := p.Scalar(v)
		if err != nil {
			return err
		}
		c[i] = x
	}
	T := tensor.FromComponents(c[0], c[1], c[2], c[3], c[4], c[5], c[6], c[7], c[8])
	p.SetTensor(o.mName, T.Scale(o.scale))
	return nil
}
