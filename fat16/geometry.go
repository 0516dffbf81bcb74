// Package fat16 computes FAT16 (with Atari variations) partition geometry
// and serializes a partition's boot sector, FATs, root directory,
// subdirectory clusters, and file data.
//
// Grounded on dargueta-disko's file_systems/fat/common.go, which parses
// these same BPB fields out of an existing image; this package runs the
// computation in reverse, producing the fields a blank image needs.
package fat16

import "github.com/mkhdmenu/atarihd/hderrors"

const (
	// BytesPerSector is fixed at 512 for this file system; see spec Non-goals.
	BytesPerSector = 512

	// NumFATs is fixed at 2.
	NumFATs = 2

	// ReservedSectors is fixed at 1 (just the boot sector).
	ReservedSectors = 1

	// RootEntryCount is fixed at 512 directory entries (32 sectors).
	RootEntryCount = 512

	// RootDirSectors is RootEntryCount*32/BytesPerSector.
	RootDirSectors = RootEntryCount * DirentSize / BytesPerSector

	// MaxClusters is the FAT16 upper bound on total cluster count.
	MaxClusters = 65525

	// MaxPartitionSectors is the 16 MiB-at-512-bytes ceiling on partition size.
	MaxPartitionSectors = 32768

	// firstUsableCluster is the first cluster number available for data;
	// clusters 0 and 1 are reserved.
	firstUsableCluster = 2

	// endOfChain is the FAT16 end-of-chain marker this serializer always
	// writes; per spec, any value >= 0xFFF8 is valid but 0xFFFF is used
	// uniformly.
	endOfChain = 0xFFFF

	// mediaDescriptor is the fixed media byte for a hard disk.
	mediaDescriptor = 0xF8
)

// candidateSPCs are the sectors-per-cluster values tried in increasing
// order; FAT16 bounds SectorsPerCluster to a power of two from 1 to 128.
var candidateSPCs = []uint{1, 2, 4, 8, 16, 32, 64, 128}

// Geometry is the computed layout of one FAT16 partition.
type Geometry struct {
	SectorsPerCluster uint
	TotalSectors      uint
	TotalClusters     uint
	FATSectors        uint
	FirstDataSector   uint
}

// BytesPerCluster returns SectorsPerCluster*BytesPerSector.
func (g Geometry) BytesPerCluster() uint {
	return g.SectorsPerCluster * BytesPerSector
}

// clusterDemand is how many data clusters a single node needs at a given
// sectors-per-cluster value: ceil(size / bytesPerCluster), with an empty
// payload consuming zero clusters.
func clusterDemand(sizeBytes uint, spc uint) uint {
	if sizeBytes == 0 {
		return 0
	}
	bytesPerCluster := spc * BytesPerSector
	return (sizeBytes + bytesPerCluster - 1) / bytesPerCluster
}

// PlanGeometry chooses the smallest sectors-per-cluster value that can hold
// every node's payload (nodeSizes, one entry per file/non-root-directory,
// in bytes; a non-root directory's "size" is its dirent-table byte length)
// within FAT16's 65525-cluster ceiling, then computes the remaining BPB
// derived fields for a partition of capacitySectors sectors.
func PlanGeometry(nodeSizes []uint, capacitySectors uint) (Geometry, error) {
	if capacitySectors == 0 || capacitySectors > MaxPartitionSectors {
		return Geometry{}, hderrors.ErrPartitionTooSmall.WithMessage(
			"partition capacity must be in (0, 32768] sectors")
	}

	overflow := true
	for _, spc := range candidateSPCs {
		var totalClusters uint
		for _, size := range nodeSizes {
			totalClusters += clusterDemand(size, spc)
		}
		if totalClusters > MaxClusters {
			continue
		}
		overflow = false

		fatSectors := fatSizeSectors(totalClusters)
		nonDataSectors := ReservedSectors + NumFATs*fatSectors + RootDirSectors
		if nonDataSectors >= capacitySectors {
			continue
		}
		dataSectors := capacitySectors - nonDataSectors
		dataClusterCapacity := dataSectors / spc
		if dataClusterCapacity < totalClusters {
			// Capacity can't hold the computed demand at this SPC; a larger
			// SPC wastes more space per file and will only make it worse,
			// but the FAT also shrinks, so keep trying larger values.
			continue
		}

		return Geometry{
			SectorsPerCluster: spc,
			TotalSectors:      capacitySectors,
			TotalClusters:     totalClusters,
			FATSectors:        fatSectors,
			FirstDataSector:   nonDataSectors,
		}, nil
	}

	if overflow {
		return Geometry{}, hderrors.ErrFatOverflow
	}
	return Geometry{}, hderrors.ErrPartitionTooSmall
}

// fatSizeSectors computes ceil((clusterCount+2)*2 / BytesPerSector): two
// bytes per entry, plus the two reserved entries at the head of the table.
func fatSizeSectors(clusterCount uint) uint {
	entryBytes := (clusterCount + 2) * 2
	return (entryBytes + BytesPerSector - 1) / BytesPerSector
}
