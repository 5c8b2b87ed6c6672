// Package material adapts the rotation and fiber routines to named per-point
// properties, configured by flat named options.
package material

import (
	"github.com/cockroachdb/errors"
	"github.com/notargets/macaw/config"
)

// Material computes properties at a single point
type Material interface {
	Name() string                   // Name of the configured block
	Init(opts config.Options) error // Init reads and validates options
	InitPoint(p *Point)             // InitPoint zeroes the declared outputs
	Compute(p *Point) error         // Compute evaluates the outputs at p
	Outputs() []string              // Outputs lists declared property names
}

// allocators holds all available materials
var allocators = map[string]func(name string) Material{
	"FiberDirectionAF":       func(name string) Material { return &FiberDirectionAF{name: name} },
	"MobilityRotationVector": func(name string) Material { return &MobilityRotationVector{name: name} },
	"VariableToTensor":       func(name string) Material { return &VariableToTensor{name: name} },
}

// New allocates an uninitialised material of type typ
func New(typ, name string) (Material, error) {
	allocator, ok := allocators[typ]
	if !ok {
		return nil, errors.Newf("material type %q is not available", typ)
	}
	return allocator(name), nil
}

// FromBlock allocates and initialises the material configured by b
func FromBlock(b config.Block) (Material, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	m, err := New(b.Type, b.Name)
	if err != nil {
		return nil, err
	}
	if err := m.Init(b.Options); err != nil {
		return nil, errors.Wrapf(err, "material %q", b.Name)
	}
	return m, nil
}

// FromFile initialises every material block of cfg in order
func FromFile(cfg *config.File) ([]Material, error) {
	mats := make([]Material, 0, len(cfg.Materials))
	for _, b := range cfg.Materials {
		m, err := FromBlock(b)
		if err != nil {
			return nil, err
		}
		mats = append(mats, m)
	}
	return mats, nil
}
