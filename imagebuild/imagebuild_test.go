package imagebuild_test

import (
	"testing"

	"github.com/mkhdmenu/atarihd/fsnode"
	"github.com/mkhdmenu/atarihd/imagebuild"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeScreenshots map[string][]byte

func (f fakeScreenshots) Lookup(key string) ([]byte, bool) {
	data, ok := f[key]
	return data, ok
}

func TestAssembleEmptyImageSectorCount(t *testing.T) {
	img, err := imagebuild.NewImage([]uint{32768}, 1)
	require.NoError(t, err)

	data, err := img.Assemble(imagebuild.AssembleOptions{})
	require.Error(t, err) // MissingDriver warning surfaces through ErrorOrNil
	assert.Len(t, data, (1+32768)*512)
}

func TestAssembleWithGameAndScreenshot(t *testing.T) {
	img, err := imagebuild.NewImage([]uint{2048}, 1)
	require.NoError(t, err)

	c := img.PartitionByDrive('C')
	require.NoError(t, c.Tree.Insert(`FOO\FOO.PRG`, fsnode.NewFile("_", []byte{1, 2, 3}, 0, 0)))

	shots := fakeScreenshots{"f/FOO/FOO.NEO": []byte("pic")}
	_, err = img.Assemble(imagebuild.AssembleOptions{Screenshots: shots})
	require.Error(t, err) // still warns about missing driver, not fatal

	assert.True(t, c.Tree.Exists(`GAMES\FOO\FOO.NEO`))
	assert.True(t, c.Tree.Exists("HDMENU.CSV"))
}

func TestAssembleWithBootloaderSetsBootableFlag(t *testing.T) {
	img, err := imagebuild.NewImage([]uint{2048}, 1)
	require.NoError(t, err)

	c := img.PartitionByDrive('C')
	require.NoError(t, c.Tree.Insert("ICDBOOT.SYS", fsnode.NewFile("_", []byte{1}, 0, 0)))

	data, err := img.Assemble(imagebuild.AssembleOptions{})
	require.NoError(t, err)

	assert.Equal(t, byte(0x81), data[0x1C6])
}

func TestStatsCountsFilesAndDirectories(t *testing.T) {
	img, err := imagebuild.NewImage([]uint{2048}, 1)
	require.NoError(t, err)
	c := img.PartitionByDrive('C')
	require.NoError(t, c.Tree.Insert(`SUB\FILE.TXT`, fsnode.NewFile("_", []byte("hi"), 0, 0)))

	stats := img.Stats()
	assert.Equal(t, 1, stats.Directories)
	assert.Equal(t, 1, stats.Files)
	assert.Equal(t, uint64(2), stats.DataBytes)
}

func TestExistsInAnyPartitionFirstMatchWins(t *testing.T) {
	img, err := imagebuild.NewImage([]uint{2048, 2048}, 1)
	require.NoError(t, err)
	d := img.PartitionByDrive('D')
	require.NoError(t, d.Tree.Insert("SHARED.TXT", fsnode.NewFile("_", []byte("x"), 0, 0)))

	drive, found := img.ExistsInAnyPartition("SHARED.TXT")
	assert.True(t, found)
	assert.Equal(t, byte('D'), drive)

	_, found = img.ExistsInAnyPartition("NOPE.TXT")
	assert.False(t, found)

	c := img.PartitionByDrive('C')
	require.NoError(t, c.Tree.Insert("SHARED.TXT", fsnode.NewFile("_", []byte("y"), 0, 0)))

	drive, found = img.ExistsInAnyPartition("SHARED.TXT")
	assert.True(t, found)
	assert.Equal(t, byte('C'), drive)
}
