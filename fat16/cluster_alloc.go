package fat16

import (
	"github.com/boljen/go-bitmap"
	"github.com/mkhdmenu/atarihd/hderrors"
)

// ClusterID is a FAT16 cluster number. 0 and 1 are reserved; usable
// clusters start at 2.
type ClusterID uint16

// clusterAllocator hands out contiguous runs of data clusters in
// ascending order, tracking occupancy with a bitmap the way the teacher's
// drivers/common/allocatormap.go tracks block occupancy — generalized here
// from disk blocks to FAT clusters, since the FAT16 serializer never frees
// a cluster once assigned (there is no delete operation in this engine).
type clusterAllocator struct {
	occupied bitmap.Bitmap
	total    uint
}

func newClusterAllocator(totalClusters uint) *clusterAllocator {
	return &clusterAllocator{
		occupied: bitmap.New(int(totalClusters)),
		total:    totalClusters,
	}
}

// allocateRun reserves the next `count` contiguous free clusters and
// returns the first cluster's ID (offset by firstUsableCluster). Since
// this allocator is only ever used for the planner's single depth-first
// pass, allocations are always contiguous starting at the lowest free
// index; AllocateContiguousBlocks-style run search matches the teacher's
// algorithm even though in practice the run is always exactly the tail of
// the bitmap.
func (a *clusterAllocator) allocateRun(count uint) (ClusterID, error) {
	if count == 0 {
		return 0, nil
	}

	runStart, err := a.findRun(count)
	if err != nil {
		return 0, err
	}
	for i := uint(0); i < count; i++ {
		a.occupied.Set(int(runStart+i), true)
	}
	return ClusterID(runStart + firstUsableCluster), nil
}

func (a *clusterAllocator) findRun(count uint) (uint, error) {
	runSize := uint(0)
	runStart := uint(0)

	for i := uint(0); i < a.total; i++ {
		if a.occupied.Get(int(i)) {
			runSize = 0
			continue
		}
		if runSize == 0 {
			runStart = i
		}
		runSize++
		if runSize == count {
			return runStart, nil
		}
	}
	return 0, hderrors.ErrFatOverflow
}
