package partitions

import (
	"github.com/cockroachdb/errors"
)

// Partition is a group of quadrature points evaluated together by one worker
type Partition struct {
	// Unique identifier for this partition
	ID int

	// Point membership
	Points    []int // Global point indices in this partition
	NumPoints int   // Actual number of points
	MaxPoints int   // Largest partition size across the layout
}

// PartitionLayout manages the decomposition of a point set
type PartitionLayout struct {
	// All partitions of the point set
	Partitions []Partition

	// Global sizing information
	KpartMax      int // max(NumPoints) across all partitions
	TotalPoints   int // Sum of all points across partitions
	NumPartitions int // Total number of partitions

	// Point to partition mapping
	PToP []int // Length TotalPoints: point i belongs to partition PToP[i]
}

// PartitionedArray stores one value per point, contiguous by partition
type PartitionedArray struct {
	// Layout: [Partition 0 Data][Partition 1 Data]...[Partition N-1 Data]
	GlobalData []float64

	// Partition p's data is GlobalData[Offsets[p]:Offsets[p+1]]
	Offsets []int

	// Number of values per point
	Stride int
}

// GetPartition returns the partition containing point i
func (pl *PartitionLayout) GetPartition(pointID int) int {
	if pointID < 0 || pointID >= len(pl.PToP) {
		return -1
	}
	return pl.PToP[pointID]
}

// ValidateLayout checks partition consistency
func (pl *PartitionLayout) ValidateLayout() error {
	if len(pl.Partitions) != pl.NumPartitions {
		return errors.Newf("%d partitions, expected %d", len(pl.Partitions), pl.NumPartitions)
	}
	if len(pl.PToP) != pl.TotalPoints {
		return errors.Newf("PToP length %d does not match %d points", len(pl.PToP), pl.TotalPoints)
	}

	// Verify KpartMax and membership
	actualMax, total := 0, 0
	for _, p := range pl.Partitions {
		if p.NumPoints != len(p.Points) {
			return errors.Newf("partition %d: NumPoints %d != %d members", p.ID, p.NumPoints, len(p.Points))
		}
		if p.NumPoints > actualMax {
			actualMax = p.NumPoints
		}
		if p.MaxPoints != pl.KpartMax {
			return errors.Newf("partition %d: MaxPoints %d != KpartMax %d",
				p.ID, p.MaxPoints, pl.KpartMax)
		}
		for _, i := range p.Points {
			if pl.GetPartition(i) != p.ID {
				return errors.Newf("point %d listed in partition %d but mapped to %d",
					i, p.ID, pl.GetPartition(i))
			}
		}
		total += p.NumPoints
	}
	if actualMax != pl.KpartMax {
		return errors.Newf("computed KpartMax %d != stored KpartMax %d",
			actualMax, pl.KpartMax)
	}
	if total != pl.TotalPoints {
		return errors.Newf("partitions hold %d points, expected %d", total, pl.TotalPoints)
	}
	return nil
}

// NewPartitionedArray allocates stride values per point of the layout
func (pl *PartitionLayout) NewPartitionedArray(stride int) *PartitionedArray {
	pa := &PartitionedArray{
		GlobalData: make([]float64, pl.TotalPoints*stride),
		Offsets:    make([]int, pl.NumPartitions+1),
		Stride:     stride,
	}
	for i, p := range pl.Partitions {
		pa.Offsets[i+1] = pa.Offsets[i] + p.NumPoints*stride
	}
	return pa
}

// GetPartitionData returns a slice for partition p's data
func (pa *PartitionedArray) GetPartitionData(partitionID int) []float64 {
	if partitionID < 0 || partitionID >= len(pa.Offsets)-1 {
		return nil
	}
	start := pa.Offsets[partitionID]
	end := pa.Offsets[partitionID+1]
	return pa.GlobalData[start:end]
}

// Gather returns the values in global point order
func (pa *PartitionedArray) Gather(pl *PartitionLayout) []float64 {
	out := make([]float64, len(pa.GlobalData))
	for _, p := range pl.Partitions {
		data := pa.GetPartitionData(p.ID)
		for local, global := range p.Points {
			copy(out[global*pa.Stride:(global+1)*pa.Stride], data[local*pa.Stride:(local+1)*pa.Stride])
		}
	}
	return out
}
