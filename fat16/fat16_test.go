package fat16_test

import (
	"testing"

	"github.com/mkhdmenu/atarihd/binpack"
	"github.com/mkhdmenu/atarihd/dostime"
	"github.com/mkhdmenu/atarihd/fat16"
	"github.com/mkhdmenu/atarihd/fsnode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmptyPartitionSectorCount(t *testing.T) {
	tree := fsnode.NewTree()
	plan, err := fat16.PlanPartition(tree, 32768)
	require.NoError(t, err)
	assert.Equal(t, uint(32768), plan.Geometry.TotalSectors)

	buf := fat16.Serialize(tree, plan, fat16.Options{HiddenSectors: 1})
	assert.Equal(t, 32768*512, len(buf))

	assert.Equal(t, uint16(0xFFF8), plan.FAT[0])
	assert.Equal(t, uint16(0xFFFF), plan.FAT[1])
	for i := 2; i < len(plan.FAT); i++ {
		assert.Equal(t, uint16(0), plan.FAT[i])
	}
}

func TestSingleFileOccupiesCluster2(t *testing.T) {
	tree := fsnode.NewTree()
	require.NoError(t, tree.Insert("TEST.TXT", fsnode.NewFile("_", []byte("hello"), 0, 0)))

	plan, err := fat16.PlanPartition(tree, 2048) // 1 MiB
	require.NoError(t, err)

	buf := fat16.Serialize(tree, plan, fat16.Options{HiddenSectors: 1})

	np := plan.ByNode[tree.Lookup("TEST.TXT")]
	require.NotNil(t, np)
	assert.Equal(t, fat16.ClusterID(2), np.StartCluster)
	assert.Equal(t, uint16(0xFFFF), plan.FAT[2])

	rootOffset := (fat16.ReservedSectors + fat16.NumFATs*plan.Geometry.FATSectors) * 512
	name := string(buf[rootOffset : rootOffset+8])
	ext := string(buf[rootOffset+8 : rootOffset+11])
	assert.Equal(t, "TEST    ", name)
	assert.Equal(t, "TXT", ext)

	size := binpack.Uint32LE(buf, rootOffset+28)
	assert.Equal(t, uint32(5), size)

	startCluster := binpack.Uint16LE(buf, rootOffset+26)
	assert.Equal(t, uint16(2), startCluster)

	dataOffset := plan.Geometry.FirstDataSector * 512
	assert.Equal(t, []byte("hello"), buf[dataOffset:dataOffset+5])
}

func TestFATsAreByteIdentical(t *testing.T) {
	tree := fsnode.NewTree()
	require.NoError(t, tree.Insert("A.TXT", fsnode.NewFile("_", []byte("some data here"), 0, 0)))
	require.NoError(t, tree.Insert(`SUB\B.TXT`, fsnode.NewFile("_", []byte("more data"), 0, 0)))

	plan, err := fat16.PlanPartition(tree, 2048)
	require.NoError(t, err)
	buf := fat16.Serialize(tree, plan, fat16.Options{HiddenSectors: 1})

	fatOffset := fat16.ReservedSectors * 512
	fatBytes := plan.Geometry.FATSectors * 512
	fat1 := buf[fatOffset : fatOffset+fatBytes]
	fat2 := buf[fatOffset+fatBytes : fatOffset+2*fatBytes]
	assert.Equal(t, fat1, fat2)
}

func TestSubdirectoryHasDotEntries(t *testing.T) {
	tree := fsnode.NewTree()
	date := dostime.PackDate(2024, 1, 1)
	require.NoError(t, tree.Insert(`SUB\FILE.TXT`, fsnode.NewFile("_", []byte("x"), date, 0)))

	plan, err := fat16.PlanPartition(tree, 2048)
	require.NoError(t, err)
	buf := fat16.Serialize(tree, plan, fat16.Options{HiddenSectors: 1})

	sub := tree.Lookup("SUB")
	np := plan.ByNode[sub]
	offset := plan.Geometry.FirstDataSector*512 + uint(uint(np.StartCluster)-2)*plan.Geometry.BytesPerCluster()

	dotName := string(buf[offset : offset+8])
	assert.Equal(t, ".       ", dotName)
	dotdotName := string(buf[offset+32 : offset+40])
	assert.Equal(t, "..      ", dotdotName)
}

func TestZeroLengthFileHasNoClusterAndNoChain(t *testing.T) {
	tree := fsnode.NewTree()
	require.NoError(t, tree.Insert("EMPTY.TXT", fsnode.NewFile("_", []byte{}, 0, 0)))

	plan, err := fat16.PlanPartition(tree, 2048)
	require.NoError(t, err)

	np := plan.ByNode[tree.Lookup("EMPTY.TXT")]
	assert.Equal(t, fat16.ClusterID(0), np.StartCluster)
	assert.Equal(t, uint(0), np.ClusterCount)
}

func TestPlanGeometryRejectsOversizedPartition(t *testing.T) {
	_, err := fat16.PlanGeometry(nil, fat16.MaxPartitionSectors+1)
	assert.Error(t, err)
}
