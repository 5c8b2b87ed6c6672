package partitions

import (
	"github.com/cockroachdb/errors"
)

// PartitionStrategy defines how points are grouped
type PartitionStrategy int

const (
	BlockPartition PartitionStrategy = iota // Consecutive points
	RoundRobin                              // Distribute cyclically
)

// PartitionBuilder constructs partitions over a point set
type PartitionBuilder struct {
	NumPoints     int
	NumPartitions int
	Strategy      PartitionStrategy
}

// NewPointLayout splits n points into at most p consecutive partitions whose
// sizes differ by at most one
func NewPointLayout(n, p int) (*PartitionLayout, error) {
	pb := &PartitionBuilder{NumPoints: n, NumPartitions: p, Strategy: BlockPartition}
	return pb.BuildPartitions()
}

// BuildPartitions creates the partition layout
func (pb *PartitionBuilder) BuildPartitions() (*PartitionLayout, error) {
	if pb.NumPoints < 0 {
		return nil, errors.Newf("invalid point count %d", pb.NumPoints)
	}
	if pb.NumPartitions <= 0 {
		return nil, errors.Newf("invalid partition count %d", pb.NumPartitions)
	}

	// Never more partitions than points, but keep one for an empty set
	numPartitions := pb.NumPartitions
	if numPartitions > pb.NumPoints {
		numPartitions = max(pb.NumPoints, 1)
	}

	pToP := pb.partitionPoints(numPartitions)
	partitions := pb.createPartitions(pToP, numPartitions)

	kpartMax := 0
	for _, p := range partitions {
		kpartMax = max(kpartMax, p.NumPoints)
	}
	for i := range partitions {
		partitions[i].MaxPoints = kpartMax
	}

	layout := &PartitionLayout{
		Partitions:    partitions,
		KpartMax:      kpartMax,
		TotalPoints:   pb.NumPoints,
		NumPartitions: numPartitions,
		PToP:          pToP,
	}
	if err := layout.ValidateLayout(); err != nil {
		return nil, errors.Wrap(err, "invalid partition layout")
	}
	return layout, nil
}

// partitionPoints assigns each point to a partition
func (pb *PartitionBuilder) partitionPoints(numPartitions int) []int {
	pToP := make([]int, pb.NumPoints)
	switch pb.Strategy {
	case RoundRobin:
		for i := range pToP {
			pToP[i] = i % numPartitions
		}
	default:
		// The first n%p partitions take one extra point
		base, extra := pb.NumPoints/numPartitions, pb.NumPoints%numPartitions
		i := 0
		for p := 0; p < numPartitions; p++ {
			size := base
			if p < extra {
				size++
			}
			for j := 0; j < size; j++ {
				pToP[i] = p
				i++
			}
		}
	}
	return pToP
}

// createPartitions builds partition structures from the point mapping
func (pb *PartitionBuilder) createPartitions(pToP []int, numPartitions int) []Partition {
	partitions := make([]Partition, numPartitions)
	for p := range partitions {
		partitions[p].ID = p
	}
	for i, p := range pToP {
		partitions[p].Points = append(partitions[p].Points, i)
	}
	for p := range partitions {
		partitions[p].NumPoints = len(partitions[p].Points)
	}
	return partitions
}
