package material

import (
	"github.com/notargets/macaw/config"
	"github.com/notargets/macaw/fiber"
	"gonum.org/v1/gonum/spatial/r3"
)

// FiberDirectionAF computes the fiber direction vector from the artificial
// heat fluxes of up to three temperature fields, one per imposed axis.
//
//	q_i = -k ∇T_i
//
// temp_y is only read on meshes of dimension 2 or more and temp_z only on 3-D
// meshes; otherwise, or when not configured, their flux is zero.
type FiberDirectionAF struct {
	name                string
	tempX, tempY, tempZ string // coupled temperature variables
	vectorName          string // output direction property
	thcond              string // isotropic thermal conductivity property
	est                 *fiber.Estimator
}

// Name returns the block name
func (o *FiberDirectionAF) Name() string { return o.name }

// Init reads and validates the options
func (o *FiberDirectionAF) Init(opts config.Options) (err error) {
	if o.tempX, err = opts.RequiredString("temp_x"); err != nil {
		return err
	}
	if o.tempY, err = opts.String("temp_y", ""); err != nil {
		return err
	}
	if o.tempZ, err = opts.String("temp_z", ""); err != nil {
		return err
	}
	if o.vectorName, err = opts.RequiredString("vector_name"); err != nil {
		return err
	}
	if o.thcond, err = opts.RequiredString("thermal_conductivity"); err != nil {
		return err
	}

	cfg := fiber.DefaultConfig()
	if cfg.AngleTol, err = opts.Float("angle_tol", cfg.AngleTol); err != nil {
		return err
	}
	if cfg.NormTol, err = opts.Float("norm_tol", cfg.NormTol); err != nil {
		return err
	}
	if cfg.CorrectSigns, err = opts.Bool("correct_negative_directions", cfg.CorrectSigns); err != nil {
		return err
	}
	o.est, err = fiber.NewEstimator(cfg)
	return err
}

// InitPoint zeroes the direction
func (o *FiberDirectionAF) InitPoint(p *Point) { p.SetVector(o.vectorName, r3.Vec{}) }

// Outputs returns the direction property name
func (o *FiberDirectionAF) Outputs() []string { return []string{o.vectorName} }

// Compute evaluates the fiber direction at p
func (o *FiberDirectionAF) Compute(p *Point) error {
	if err := p.CheckDim(); err != nil {
		return err
	}
	k, err := p.Scalar(o.thcond)
	if err != nil {
		return err
	}
	gradX, err := p.Vector(GradientName(o.tempX))
	if err != nil {
		return err
	}
	var gradY, gradZ r3.Vec
	if p.Dim >= 2 && o.tempY != "" {
		if gradY, err = p.Vector(GradientName(o.tempY)); err != nil {
			return err
		}
	}
	if p.Dim == 3 && o.tempZ != "" {
		if gradZ, err = p.Vector(GradientName(o.tempZ)); err != nil {
			return err
		}
	}

	// Heat flux for the imposed directions
	fluxX := fiber.Flux(k, gradX)
	fluxY := fiber.Flux(k, gradY)
	fluxZ := fiber.Flux(k, gradZ)

	p.SetVector(o.vectorName, o.est.Estimate(fluxX, fluxY, fluxZ))
	return nil
}
