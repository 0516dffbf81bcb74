package fat16

import (
	"github.com/mkhdmenu/atarihd/binpack"
	"github.com/mkhdmenu/atarihd/fsnode"
)

// oemName identifies this tool in the boot sector's 8-byte OEM field.
var oemName = [8]byte{'M', 'K', 'H', 'D', 'M', 'E', 'N', 'U'}

// bootChecksumOffset is where the Atari-specific checksum word lives; it
// occupies the same two bytes a PC boot sector would use for the 0x55AA
// signature.
const bootChecksumOffset = 510

// bootCodeOffset is where boot-loader machine code begins, immediately
// following the standard FAT12/16 extended BPB fields.
const bootCodeOffset = 0x3E

// targetChecksum is the big-endian word-sum value an Atari TOS loader
// requires for a sector to be treated as bootable.
const targetChecksum = 0x1234

// Options carries the per-partition values the serializer needs beyond
// what's captured in Plan: where this partition starts relative to the
// image, whether it's marked bootable, and what boot code (if any) to
// embed.
type Options struct {
	// HiddenSectors is this partition's starting LBA, relative to the whole
	// image (sector 0 is the root sector, so partition 1 begins at 1).
	HiddenSectors uint32

	// VolumeSerial is written into the BPB's extended volume ID field.
	VolumeSerial uint32

	// Bootable marks the boot sector for the Atari checksum; it should be
	// true exactly when this is partition C and a driver file was found.
	Bootable bool

	// BootCode is the machine code written at bootCodeOffset. It must fit
	// in the 448 bytes between bootCodeOffset and the checksum word; longer
	// code is truncated. Ignored if Bootable is false.
	BootCode []byte
}

// Serialize renders tree's already-planned contents into a single
// partition-sized byte buffer: boot sector, two FAT copies, root directory,
// subdirectory clusters, then file data, in that order.
func Serialize(tree *fsnode.Tree, plan *Plan, opts Options) []byte {
	g := plan.Geometry
	buf := make([]byte, g.TotalSectors*BytesPerSector)

	writeBootSector(buf[:BytesPerSector], g, opts)

	fatOffset := ReservedSectors * BytesPerSector
	fatBytes := g.FATSectors * BytesPerSector
	writeFAT(buf[fatOffset:fatOffset+fatBytes], plan.FAT)
	writeFAT(buf[fatOffset+fatBytes:fatOffset+2*fatBytes], plan.FAT)

	rootOffset := fatOffset + 2*fatBytes
	writeRootDirectory(buf[rootOffset:rootOffset+RootDirSectors*BytesPerSector], tree, plan)

	writeDataRegion(buf, tree, plan)

	return buf
}

func writeBootSector(dst []byte, g Geometry, opts Options) {
	// Written sequentially through binpack.Writer (bytewriter-backed), the
	// same cursor-based approach the teacher's compression tests use to
	// avoid manual offset bookkeeping; every BPB field here is contiguous,
	// so the cursor lands exactly at bootCodeOffset once FAT16   is written.
	w := binpack.NewWriter(dst)
	w.WriteUint8(0xEB)
	w.WriteUint8(0x3C)
	w.WriteUint8(0x90) // JmpBoot: short jump + NOP
	w.WriteBytes(oemName[:])

	w.WriteUint16LE(BytesPerSector)
	w.WriteUint8(uint8(g.SectorsPerCluster))
	w.WriteUint16LE(ReservedSectors)
	w.WriteUint8(NumFATs)
	w.WriteUint16LE(RootEntryCount)
	w.WriteUint16LE(uint16(g.TotalSectors)) // always fits: <= 32768
	w.WriteUint8(mediaDescriptor)
	w.WriteUint16LE(uint16(g.FATSectors))
	w.WriteUint16LE(0) // SectorsPerTrack: left zero
	w.WriteUint16LE(0) // NumHeads: left zero
	w.WriteUint32LE(opts.HiddenSectors)
	w.WriteUint32LE(0) // TotalSectors32: unused, fits in 16 bits

	w.WriteUint8(0x80) // DriveNumber: fixed disk
	w.WriteUint8(0)    // Reserved1
	w.WriteUint8(0x29) // BootSig: extended BPB fields follow
	w.WriteUint32LE(opts.VolumeSerial)
	w.WriteBytes([]byte("NO NAME    "))
	w.WriteBytes([]byte("FAT16   "))

	if opts.Bootable && len(opts.BootCode) > 0 {
		copy(dst[bootCodeOffset:BytesPerSector-2], opts.BootCode)
	}

	if opts.Bootable {
		checksum := binpack.ChecksumWordBE(dst, bootChecksumOffset, targetChecksum)
		binpack.PutUint16BE(dst, bootChecksumOffset, checksum)
	}
}

func writeFAT(dst []byte, fat []uint16) {
	for i, entry := range fat {
		binpack.PutUint16LE(dst, i*2, entry)
	}
}

func writeRootDirectory(dst []byte, tree *fsnode.Tree, plan *Plan) {
	children := tree.Root.Dir.Children
	for i, child := range children {
		entryOffset := i * DirentSize
		if entryOffset+DirentSize > len(dst) {
			break
		}
		nodeDirent(dst[entryOffset:entryOffset+DirentSize], child, plan)
	}
}

// writeDataRegion writes every non-root directory's cluster chain (dot
// entries + children) and every file's payload into the data area.
func writeDataRegion(buf []byte, tree *fsnode.Tree, plan *Plan) {
	parentCluster := make(map[*fsnode.Node]ClusterID)
	parentCluster[tree.Root] = 0

	tree.Walk(func(path string, node *fsnode.Node, depth int) {
		if node.IsDir() {
			np := plan.ByNode[node]
			for _, child := range node.Dir.Children {
				parentCluster[child] = np.StartCluster
			}
		}
	})

	for _, np := range plan.Order {
		if np.ClusterCount == 0 {
			continue
		}
		if np.Node.IsDir() {
			writeDirectoryClusters(buf, np, parentCluster[np.Node], plan)
		} else {
			writeFileClusters(buf, np, plan)
		}
	}
}

func clusterByteOffset(g Geometry, cluster ClusterID) uint {
	return g.FirstDataSector*BytesPerSector + uint(uint(cluster)-firstUsableCluster)*g.BytesPerCluster()
}

func writeDirectoryClusters(buf []byte, np *NodePlan, parentCluster ClusterID, plan *Plan) {
	g := plan.Geometry
	dirents := uint(2 + len(np.Node.Dir.Children))
	direntsPerCluster := g.BytesPerCluster() / DirentSize

	start := clusterByteOffset(g, np.StartCluster)
	writeDotEntries(buf[start:start+2*DirentSize], np.StartCluster, parentCluster, np.Node.Date, np.Node.Time)

	written := uint(2)
	for ci := uint(0); ci < np.ClusterCount && written < dirents; ci++ {
		clusterStart := start + ci*g.BytesPerCluster()
		slot := uint(0)
		if ci == 0 {
			slot = 2
		}
		for slot < direntsPerCluster && written < dirents {
			child := np.Node.Dir.Children[written-2]
			off := clusterStart + slot*DirentSize
			nodeDirent(buf[off:off+DirentSize], child, plan)
			slot++
			written++
		}
	}
}

func writeFileClusters(buf []byte, np *NodePlan, plan *Plan) {
	g := plan.Geometry
	start := clusterByteOffset(g, np.StartCluster)
	copy(buf[start:start+g.BytesPerCluster()*np.ClusterCount], np.Node.File.Data)
}
