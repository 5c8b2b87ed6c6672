package runner

import (
	"context"
	"io"
	"log"

	"github.com/cockroachdb/errors"
	"github.com/notargets/macaw/kernel"
	"github.com/notargets/macaw/material"
	"github.com/notargets/macaw/partitions"
	"golang.org/x/sync/errgroup"
)

// Config controls point evaluation
type Config struct {
	NumPartitions int         // Concurrent workers; one partition each
	Logger        *log.Logger // Progress output, discarded when nil
}

// Runner evaluates materials over a set of independent quadrature points.
// Partitions run concurrently; points within a partition run in order.
type Runner struct {
	Config
	materials []material.Material
	byName    map[string]material.Material
}

// NewRunner creates a Runner for the given materials, evaluated in order
func NewRunner(cfg Config, mats ...material.Material) (*Runner, error) {
	if cfg.NumPartitions <= 0 {
		return nil, errors.Newf("invalid partition count %d", cfg.NumPartitions)
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard, "", 0)
	}
	kr := &Runner{
		Config: cfg,
		byName: make(map[string]material.Material, len(mats)),
	}
	for _, m := range mats {
		if _, dup := kr.byName[m.Name()]; dup {
			return nil, errors.Newf("material %q defined twice", m.Name())
		}
		kr.byName[m.Name()] = m
		kr.materials = append(kr.materials, m)
	}
	return kr, nil
}

// Layout partitions n points for this runner
func (kr *Runner) Layout(n int) (*partitions.PartitionLayout, error) {
	return partitions.NewPointLayout(n, kr.NumPartitions)
}

// InitPoints zeroes every declared material output at every point
func (kr *Runner) InitPoints(points []*material.Point) {
	for _, p := range points {
		for _, m := range kr.materials {
			m.InitPoint(p)
		}
	}
}

// Run evaluates all materials at every point
func (kr *Runner) Run(ctx context.Context, points []*material.Point) error {
	return kr.run(ctx, points, kr.materials)
}

// RunMaterial evaluates the single named material at every point
func (kr *Runner) RunMaterial(ctx context.Context, name string, points []*material.Point) error {
	m, ok := kr.byName[name]
	if !ok {
		return errors.Newf("material %s not defined", name)
	}
	return kr.run(ctx, points, []material.Material{m})
}

func (kr *Runner) run(ctx context.Context, points []*material.Point, mats []material.Material) error {
	layout, err := kr.Layout(len(points))
	if err != nil {
		return err
	}
	kr.Logger.Printf("evaluating %d materials at %d points in %d partitions (KpartMax=%d)",
		len(mats), layout.TotalPoints, layout.NumPartitions, layout.KpartMax)

	return kr.forEachPartition(ctx, layout, func(ctx context.Context, part partitions.Partition) error {
		for _, i := range part.Points {
			if err := ctx.Err(); err != nil {
				return err
			}
			for _, m := range mats {
				if err := m.Compute(points[i]); err != nil {
					return errors.Wrapf(err, "point %d: material %q", i, m.Name())
				}
			}
		}
		return nil
	})
}

// forEachPartition runs fn once per partition, concurrently, returning the
// first error
func (kr *Runner) forEachPartition(ctx context.Context, layout *partitions.PartitionLayout,
	fn func(ctx context.Context, part partitions.Partition) error) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, part := range layout.Partitions {
		g.Go(func() error {
			return fn(ctx, part)
		})
	}
	return g.Wait()
}

// Residuals evaluates the reaction kernel's residual contribution at every
// point for test function values test[i], stored by partition
func (kr *Runner) Residuals(ctx context.Context, k *kernel.PhaseFieldMaterialReaction,
	points []*material.Point, test []float64) (*partitions.PartitionedArray, *partitions.PartitionLayout, error) {
	if len(test) != len(points) {
		return nil, nil, errors.Newf("%d test values for %d points", len(test), len(points))
	}
	layout, err := kr.Layout(len(points))
	if err != nil {
		return nil, nil, err
	}
	out := layout.NewPartitionedArray(1)

	// Each partition writes only its own slice of out
	err = kr.forEachPartition(ctx, layout, func(ctx context.Context, part partitions.Partition) error {
		data := out.GetPartitionData(part.ID)
		for local, i := range part.Points {
			r, err := k.QpResidual(points[i], test[i])
			if err != nil {
				return errors.Wrapf(err, "point %d: kernel %q", i, k.Name())
			}
			data[local] = r
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return out, layout, nil
}

// GatherVector copies a vector property of every point into a partitioned
// array of stride 3
func (kr *Runner) GatherVector(points []*material.Point, name string) (*partitions.PartitionedArray, *partitions.PartitionLayout, error) {
	layout, err := kr.Layout(len(points))
	if err != nil {
		return nil, nil, err
	}
	out := layout.NewPartitionedArray(3)
	for _, part := range layout.Partitions {
		data := out.GetPartitionData(part.ID)
		for local, i := range part.Points {
			v, err := points[i].Vector(name)
			if err != nil {
				return nil, nil, errors.Wrapf(err, "point %d", i)
			}
			data[3*local], data[3*local+1], data[3*local+2] = v.X, v.Y, v.Z
		}
	}
	return out, layout, nil
}
