// Package kernel evaluates per-point residual and Jacobian contributions from
// material property values and their derivatives. Derivatives are supplied by
// the host; nothing here differentiates.
package kernel

import (
	"github.com/cockroachdb/errors"
	"github.com/notargets/macaw/config"
	"github.com/notargets/macaw/material"
)

// PhaseFieldMaterialReaction adds -K to the residual of a variable u, where K
// is a material property that may depend on u and on coupled arguments.
//
//	R     = -K test
//	J     = -∂K/∂u test phi
//	J_arg = -∂K/∂arg test phi
type PhaseFieldMaterialReaction struct {
	name     string
	variable string         // the variable u this kernel acts on
	matFunc  string         // property K
	args     []string       // coupled arguments of K
	argIndex map[string]int // coupled variable name to index in args
}

// NewPhaseFieldMaterialReaction initialises the kernel for variable from opts
func NewPhaseFieldMaterialReaction(name, variable string, opts config.Options) (*PhaseFieldMaterialReaction, error) {
	o := &PhaseFieldMaterialReaction{name: name, variable: variable}
	var err error
	if o.matFunc, err = opts.RequiredString("mat_function"); err != nil {
		return nil, errors.Wrapf(err, "kernel %q", name)
	}
	if o.args, err = opts.Strings("args"); err != nil {
		return nil, errors.Wrapf(err, "kernel %q", name)
	}
	o.argIndex = make(map[string]int, len(o.args))
	for i, a := range o.args {
		if a == variable {
			return nil, errors.Newf("kernel %q: args must not contain the kernel variable %q", name, variable)
		}
		if _, dup := o.argIndex[a]; dup {
			return nil, errors.Newf("kernel %q: argument %q coupled twice", name, a)
		}
		o.argIndex[a] = i
	}
	return o, nil
}

// FromBlock initialises the kernel configured by b. The variable it acts on
// is given by the "variable" option.
func FromBlock(b config.Block) (*PhaseFieldMaterialReaction, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	if b.Type != "PhaseFieldMaterialReaction" {
		return nil, errors.Newf("kernel type %q is not available", b.Type)
	}
	variable, err := b.Options.RequiredString("variable")
	if err != nil {
		return nil, errors.Wrapf(err, "kernel %q", b.Name)
	}
	return NewPhaseFieldMaterialReaction(b.Name, variable, b.Options)
}

// Name returns the block name
func (o *PhaseFieldMaterialReaction) Name() string { return o.name }

// Args returns the coupled argument names
func (o *PhaseFieldMaterialReaction) Args() []string { return o.args }

// Residual returns -K test
func Residual(K, test float64) float64 {
	return -K * test
}

// Jacobian returns -dK/du test phi
func Jacobian(dKdu, test, phi float64) float64 {
	return -dKdu * test * phi
}

// DerivativeName is the property holding ∂prop/∂variable
func DerivativeName(prop, variable string) string {
	return "d" + prop + "/d" + variable
}

// QpResidual returns the residual contribution at p for test function value test
func (o *PhaseFieldMaterialReaction) QpResidual(p *material.Point, test float64) (float64, error) {
	K, err := p.Scalar(o.matFunc)
	if err != nil {
		return 0, err
	}
	return Residual(K, test), nil
}

// QpJacobian returns the on-diagonal Jacobian contribution at p
func (o *PhaseFieldMaterialReaction) QpJacobian(p *material.Point, test, phi float64) (float64, error) {
	dKdu, err := p.Scalar(DerivativeName(o.matFunc, o.variable))
	if err != nil {
		return 0, err
	}
	return Jacobian(dKdu, test, phi), nil
}

// QpOffDiagJacobian returns the Jacobian contribution with respect to the
// coupled variable jvar. Variables K does not depend on contribute zero.
func (o *PhaseFieldMaterialReaction) QpOffDiagJacobian(p *material.Point, jvar string, test, phi float64) (float64, error) {
	if _, ok := o.argIndex[jvar]; !ok {
		return 0, nil
	}
	dKdarg, err := p.Scalar(DerivativeName(o.matFunc, jvar))
	if err != nil {
		return 0, err
	}
	return Jacobian(dKdarg, test, phi), nil
}

// Contribution holds the residual and Jacobian entries for one test/trial pair
type Contribution struct {
	Residual float64
	Jacobian float64
	OffDiag  []float64 // parallel to Args()
}

// Evaluate returns all contributions at p for one test/trial pair
func (o *PhaseFieldMaterialReaction) Evaluate(p *material.Point, test, phi float64) (c Contribution, err error) {
	if c.Residual, err = o.QpResidual(p, test); err != nil {
		return c, err
	}
	if c.Jacobian, err = o.QpJacobian(p, test, phi); err != nil {
		return c, err
	}
	c.OffDiag = make([]float64, len(o.args))
	for i, a := range o.args {
		if c.OffDiag[i], err = o.QpOffDiagJacobian(p, a, test, phi); err != nil {
			return c, err
		}
	}
	return c, nil
}
