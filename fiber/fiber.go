// Package fiber estimates fiber orientation with the artificial heat flux
// approach of M. Schneider et al., Thermal fiber orientation tensors for
// digital paper physics, Int. J. Solids Struct. 100 (2016) 234–244.
//
// One artificial temperature gradient is imposed along each coordinate axis.
// The resulting fluxes are summed into a single direction. Two fluxes of
// near-equal magnitude pointing in near-opposite directions describe the same
// physical orientation, so one of them is flipped before summing.
package fiber

import (
	"math"

	"github.com/cockroachdb/errors"
	"github.com/notargets/macaw/tensor"
	"gonum.org/v1/gonum/spatial/r3"
)

// ErrInvalidConfig marks tolerance settings outside their valid range
var ErrInvalidConfig = errors.New("invalid fiber direction configuration")

// Config holds the sign correction settings
type Config struct {
	CorrectSigns bool    // Correct negative directions of same orientation
	AngleTol     float64 // Degrees in [0, 90]
	NormTol      float64 // Relative flux magnitude difference, >= 0
}

// DefaultConfig returns the settings used when none are given
func DefaultConfig() Config {
	return Config{
		CorrectSigns: true,
		AngleTol:     60,
		NormTol:      1,
	}
}

// Validate reports tolerances outside their valid ranges
func (c Config) Validate() error {
	if !(c.AngleTol >= 0 && c.AngleTol <= 90) {
		return errors.Mark(
			errors.Newf("angle tolerance %g must be between 0 and 90 degrees", c.AngleTol),
			ErrInvalidConfig)
	}
	if !(c.NormTol >= 0) {
		return errors.Mark(
			errors.Newf("relative magnitude tolerance %g must not be negative", c.NormTol),
			ErrInvalidConfig)
	}
	return nil
}

// Correction identifies the flux flipped by the sign heuristic
type Correction uint8

const (
	None    Correction = iota // No flux flipped
	FlipY                     // Y-axis flux negated
	FlipZ                     // Z-axis flux negated
)

func (c Correction) String() string {
	switch c {
	case FlipY:
		return "flip-y"
	case FlipZ:
		return "flip-z"
	default:
		return "none"
	}
}

// Estimator computes fiber directions for a validated Config.
// It holds no mutable state and is safe for concurrent use.
type Estimator struct {
	cfg Config
}

// NewEstimator validates cfg and returns an Estimator for it
func NewEstimator(cfg Config) (*Estimator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Estimator{cfg: cfg}, nil
}

// Config returns the settings of e
func (e *Estimator) Config() Config { return e.cfg }

// Estimate returns the unit fiber direction for the three axis fluxes, or the
// zero vector when they cancel. Axes that are absent are passed as zero.
func (e *Estimator) Estimate(fluxX, fluxY, fluxZ r3.Vec) r3.Vec {
	dir, _ := e.EstimateDetail(fluxX, fluxY, fluxZ)
	return dir
}

// EstimateDetail is Estimate, also reporting which flux was flipped.
//
// At most one flux is flipped per call: the X-Z pair is only considered when
// the X-Y pair does not qualify. Each pair is gated on its own two fluxes, so
// Z can be flipped against X while Y is zero; {X:1}, {}, {X:-1} yields (1,0,0)
// rather than the zero vector a gate on all three fluxes would give.
func (e *Estimator) EstimateDetail(fluxX, fluxY, fluxZ r3.Vec) (dir r3.Vec, c Correction) {
	nx, ny, nz := r3.Norm(fluxX), r3.Norm(fluxY), r3.Norm(fluxZ)

	// A pair is checked only when both of its fluxes are non-zero
	if e.cfg.CorrectSigns && nx > 0 {
		dirX := tensor.Unit(fluxX)
		limit := 180 - e.cfg.AngleTol
		switch {
		case ny > 0 && opposed(dirX, tensor.Unit(fluxY), nx, ny, limit, e.cfg.NormTol):
			fluxY = r3.Scale(-1, fluxY)
			c = FlipY
		case nz > 0 && opposed(dirX, tensor.Unit(fluxZ), nx, nz, limit, e.cfg.NormTol):
			fluxZ = r3.Scale(-1, fluxZ)
			c = FlipZ
		}
	}

	sum := r3.Add(r3.Add(fluxX, fluxY), fluxZ)
	return tensor.Unit(sum), c
}

// opposed reports whether two flux directions are at least limit degrees
// apart while their magnitudes differ relatively by at most ntol
func opposed(dirX, dir r3.Vec, nx, n, limit, ntol float64) bool {
	// Relative difference in flux magnitude
	diff := math.Abs((n - nx) / nx)

	// Angle in [0, 180] degrees
	angle := tensor.Degrees(tensor.Angle(dirX, dir))

	return angle >= limit && diff <= ntol
}

// Estimate validates the tolerances and returns the fiber direction for the
// given fluxes. See Estimator.Estimate.
func Estimate(fluxX, fluxY, fluxZ r3.Vec, correctSigns bool, angleTolDeg, normTol float64) (r3.Vec, error) {
	e, err := NewEstimator(Config{
		CorrectSigns: correctSigns,
		AngleTol:     angleTolDeg,
		NormTol:      normTol,
	})
	if err != nil {
		return r3.Vec{}, err
	}
	return e.Estimate(fluxX, fluxY, fluxZ), nil
}

// Flux returns the Fourier heat flux -k∇T for an isotropic conductivity k
func Flux(conductivity float64, grad r3.Vec) r3.Vec {
	return r3.Scale(-conductivity, grad)
}
