package runner

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"math"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/notargets/macaw/config"
	"github.com/notargets/macaw/kernel"
	"github.com/notargets/macaw/material"
	"github.com/notargets/macaw/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

// countingMaterial records how often each point is computed
type countingMaterial struct {
	name   string
	calls  atomic.Int64
	failAt int
}

func (c *countingMaterial) Name() string { return c.name }
func (c *countingMaterial) Init(opts config.Options) error { return nil }
func (c *countingMaterial) InitPoint(p *material.Point) { p.SetScalar("count", 0) }
func (c *countingMaterial) Outputs() []string { return []string{"count"} }
func (c *countingMaterial) Compute(p *material.Point) error {
	c.calls.Add(1)
	if c.failAt >= 0 && int(p.Scalars["id"]) == c.failAt {
		return fmt.Errorf("boom")
	}
	p.Scalars["count"]++
	return nil
}

func makePoints(n int) []*material.Point {
	points := make([]*material.Point, n)
	for i := range points {
		p := material.NewPoint(3)
		p.SetScalar("id", float64(i))
		points[i] = p
	}
	return points
}

func fiberMaterials(t *testing.T) []material.Material {
	cfg, err := config.Load(strings.NewReader(`
materials:
  - name: fiber
    type: FiberDirectionAF
    options: {temp_x: tx, temp_y: ty, temp_z: tz, vector_name: dir, thermal_conductivity: k}
  - name: mobility
    type: MobilityRotationVector
    options: {M_A: M_a, M_name: M, direction_vector: dir}
`))
	require.NoError(t, err)
	mats, err := material.FromFile(cfg)
	require.NoError(t, err)
	return mats
}

func TestNewRunner(t *testing.T) {
	_, err := NewRunner(Config{NumPartitions: 0})
	assert.Error(t, err)

	a := &countingMaterial{name: "a", failAt: -1}
	_, err = NewRunner(Config{NumPartitions: 2}, a, a)
	assert.Error(t, err)

	kr, err := NewRunner(Config{NumPartitions: 2}, a)
	require.NoError(t, err)
	assert.NotNil(t, kr.Logger)
}

func TestRunEveryPointOnce(t *testing.T) {
	for _, nparts := range []int{1, 3, 8, 200} {
		t.Run(fmt.Sprintf("partitions=%d", nparts), func(t *testing.T) {
			m := &countingMaterial{name: "count", failAt: -1}
			kr, err := NewRunner(Config{NumPartitions: nparts}, m)
			require.NoError(t, err)

			points := makePoints(101)
			kr.InitPoints(points)
			require.NoError(t, kr.Run(context.Background(), points))

			assert.Equal(t, int64(101), m.calls.Load())
			for _, p := range points {
				assert.Equal(t, 1.0, p.Scalars["count"])
			}
		})
	}
}

func TestRunError(t *testing.T) {
	m := &countingMaterial{name: "count", failAt: 42}
	kr, err := NewRunner(Config{NumPartitions: 4}, m)
	require.NoError(t, err)

	err = kr.Run(context.Background(), makePoints(100))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "point 42")
	assert.Contains(t, err.Error(), "boom")
}

func TestRunCancelled(t *testing.T) {
	m := &countingMaterial{name: "count", failAt: -1}
	kr, err := NewRunner(Config{NumPartitions: 2}, m)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = kr.Run(ctx, makePoints(10))
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, int64(0), m.calls.Load())
}

func TestRunFiberAndMobility(t *testing.T) {
	var buf bytes.Buffer
	kr, err := NewRunner(Config{NumPartitions: 4, Logger: log.New(&buf, "", 0)}, fiberMaterials(t)...)
	require.NoError(t, err)

	ma := tensor.FromComponents(5, 0, 0, 0, 1, 0, 0, 0, 1)
	points := makePoints(50)
	for i, p := range points {
		theta := 2 * math.Pi * float64(i) / float64(len(points))
		p.SetScalar("k", 1)
		// Fluxes -k∇T along (cosθ, sinθ, 0), orthogonal Y, zero Z
		p.SetVector("grad_tx", r3.Vec{X: -math.Cos(theta), Y: -math.Sin(theta)})
		p.SetVector("grad_ty", r3.Vec{})
		p.SetVector("grad_tz", r3.Vec{})
		p.SetTensor("M_a", ma)
	}
	kr.InitPoints(points)
	require.NoError(t, kr.Run(context.Background(), points))
	assert.Contains(t, buf.String(), "at 50 points in 4 partitions")

	for i, p := range points {
		theta := 2 * math.Pi * float64(i) / float64(len(points))
		dir := p.Vectors["dir"]
		assert.InDelta(t, math.Cos(theta), dir.X, 1.e-12)
		assert.InDelta(t, math.Sin(theta), dir.Y, 1.e-12)

		M := p.Tensors["M"]
		assert.True(t, M.IsFinite())
		assert.InDelta(t, 7.0, M[0][0]+M[1][1]+M[2][2], 1.e-12)
	}

	arr, layout, err := kr.GatherVector(points, "dir")
	require.NoError(t, err)
	flat := arr.Gather(layout)
	require.Len(t, flat, 150)
	assert.InDelta(t, points[7].Vectors["dir"].Y, flat[3*7+1], 0)

	_, _, err = kr.GatherVector(points, "missing")
	assert.True(t, errors.Is(err, material.ErrMissingProperty))
}

func TestRunMaterial(t *testing.T) {
	kr, err := NewRunner(Config{NumPartitions: 3}, fiberMaterials(t)...)
	require.NoError(t, err)

	points := makePoints(5)
	for _, p := range points {
		p.SetScalar("k", 1)
		p.SetVector("grad_tx", r3.Vec{X: -1})
		p.SetVector("grad_ty", r3.Vec{Y: -1})
		p.SetVector("grad_tz", r3.Vec{})
	}
	require.NoError(t, kr.RunMaterial(context.Background(), "fiber", points))
	for _, p := range points {
		assert.Contains(t, p.Vectors, "dir")
		assert.NotContains(t, p.Tensors, "M")
	}

	assert.Error(t, kr.RunMaterial(context.Background(), "nope", points))
}

func TestResiduals(t *testing.T) {
	k, err := kernel.NewPhaseFieldMaterialReaction("reaction", "eta", config.Options{"mat_function": "K"})
	require.NoError(t, err)
	kr, err := NewRunner(Config{NumPartitions: 3})
	require.NoError(t, err)

	points := makePoints(10)
	test := make([]float64, len(points))
	for i, p := range points {
		p.SetScalar("K", float64(i))
		test[i] = 0.5
	}
	arr, layout, err := kr.Residuals(context.Background(), k, points, test)
	require.NoError(t, err)
	got := arr.Gather(layout)
	for i := range points {
		assert.Equal(t, -0.5*float64(i), got[i])
	}

	_, _, err = kr.Residuals(context.Background(), k, points, test[:3])
	assert.Error(t, err)

	delete(points[6].Scalars, "K")
	_, _, err = kr.Residuals(context.Background(), k, points, test)
	assert.True(t, errors.Is(err, material.ErrMissingProperty))
}
