package fat16

import (
	"github.com/mkhdmenu/atarihd/binpack"
	"github.com/mkhdmenu/atarihd/dostime"
	"github.com/mkhdmenu/atarihd/fsnode"
	"github.com/mkhdmenu/atarihd/shortname"
)

// Directory entry attribute flags, per spec §4.4. Only the two this engine
// ever emits are named; the teacher's drivers/fat/dirent.go enumerates the
// full FAT attribute set (hidden, system, volume label, archive, device)
// for a read/write driver, none of which this build-only engine sets.
const (
	attrDirectory = 0x10
	attrFile      = 0x20
)

// writeDirent encodes one 32-byte directory entry into dst[0:32].
func writeDirent(dst []byte, name [8]byte, ext [3]byte, attr uint8, date dostime.Date, tm dostime.Time, startCluster ClusterID, size uint32) {
	copy(dst[0:8], name[:])
	copy(dst[8:11], ext[:])
	dst[11] = attr
	// bytes 12-21 reserved/created/accessed: all zero, this engine doesn't
	// track creation or last-accessed times separately from modification.
	binpack.PutUint16LE(dst, 22, uint16(tm))
	binpack.PutUint16LE(dst, 24, uint16(date))
	binpack.PutUint16LE(dst, 26, uint16(startCluster))
	binpack.PutUint32LE(dst, 28, size)
}

// nodeDirent encodes the directory entry for node as it appears inside its
// parent, using the cluster assignment from plan. Zero-length files are
// encoded with starting cluster 0, per spec.
func nodeDirent(dst []byte, node *fsnode.Node, plan *Plan) {
	name, ext := shortname.Split(node.Name)

	if node.IsDir() {
		np := plan.ByNode[node]
		writeDirent(dst, name, ext, attrDirectory, node.Date, node.Time, np.StartCluster, 0)
		return
	}

	var start ClusterID
	if np, ok := plan.ByNode[node]; ok {
		start = np.StartCluster
	}
	writeDirent(dst, name, ext, attrFile, node.Date, node.Time, start, uint32(len(node.File.Data)))
}

// writeDotEntries writes the "." and ".." entries that begin every
// non-root directory's cluster, per spec §4.4: "." points at the directory
// itself, ".." points at its parent (0 if the parent is the partition
// root).
func writeDotEntries(dst []byte, selfCluster, parentCluster ClusterID, date dostime.Date, tm dostime.Time) {
	dotName := [8]byte{'.', ' ', ' ', ' ', ' ', ' ', ' ', ' '}
	dotdotName := [8]byte{'.', '.', ' ', ' ', ' ', ' ', ' ', ' '}
	var blankExt [3]byte = [3]byte{' ', ' ', ' '}

	writeDirent(dst[0:32], dotName, blankExt, attrDirectory, date, tm, selfCluster, 0)
	writeDirent(dst[32:64], dotdotName, blankExt, attrDirectory, date, tm, parentCluster, 0)
}
