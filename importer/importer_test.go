package importer_test

import (
	"testing"

	"github.com/mkhdmenu/atarihd/fsnode"
	"github.com/mkhdmenu/atarihd/importer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportRawExactDestination(t *testing.T) {
	tree := fsnode.NewTree()
	require.NoError(t, importer.ImportRaw(tree, "TEST.TXT", []byte("hi"), "ignored.txt", 0, 0))
	assert.True(t, tree.Exists("TEST.TXT"))
}

func TestImportRawAppendsBasenameForDirDestination(t *testing.T) {
	tree := fsnode.NewTree()
	require.NoError(t, tree.Insert("GAMES", fsnode.NewDir("_", 0, 0)))
	require.NoError(t, importer.ImportRaw(tree, `GAMES\`, []byte("hi"), "readme.txt", 0, 0))
	assert.True(t, tree.Exists(`GAMES\README.TXT`))
}

func TestImportDirectoryPreservesStructure(t *testing.T) {
	tree := fsnode.NewTree()
	entries := []importer.DirEntry{
		{Name: "SUB", IsDir: true, Children: []importer.DirEntry{
			{Name: "file.txt", Data: []byte("x")},
		}},
		{Name: "top.txt", Data: []byte("y")},
	}
	require.NoError(t, importer.ImportDirectory(tree, "GAMES", entries))

	assert.True(t, tree.Exists(`GAMES\SUB\FILE.TXT`))
	assert.True(t, tree.Exists(`GAMES\TOP.TXT`))
}

func TestImportZipEntryWithEmbeddedDirectory(t *testing.T) {
	tree := fsnode.NewTree()
	entries := []importer.ZipEntry{
		{Name: "FOO/RUNME.TOS", Data: []byte("x")},
	}
	require.NoError(t, importer.ImportZip(tree, entries, importer.ZipImportOptions{}))
	assert.True(t, tree.Exists(`GAMES\FOO\RUNME.TOS`))
}

func TestImportZipTopLevelPRGOnly(t *testing.T) {
	tree := fsnode.NewTree()
	entries := []importer.ZipEntry{
		{Name: "BAR.PRG", Data: []byte("x")},
	}
	require.NoError(t, importer.ImportZip(tree, entries, importer.ZipImportOptions{}))
	assert.True(t, tree.Exists(`GAMES\BAR\BAR.PRG`))
}

func TestImportZipSkipsDirectoryEntries(t *testing.T) {
	tree := fsnode.NewTree()
	entries := []importer.ZipEntry{
		{Name: "FOO/"},
		{Name: "FOO/RUNME.TOS", Data: []byte("x")},
	}
	require.NoError(t, importer.ImportZip(tree, entries, importer.ZipImportOptions{}))
	assert.True(t, tree.Exists(`GAMES\FOO\RUNME.TOS`))
}

func TestImportZipExplicitDestination(t *testing.T) {
	tree := fsnode.NewTree()
	entries := []importer.ZipEntry{
		{Name: "DATA.DAT", Data: []byte("x")},
	}
	require.NoError(t, importer.ImportZip(tree, entries, importer.ZipImportOptions{Destination: `EXTRA`}))
	assert.True(t, tree.Exists(`EXTRA\DATA.DAT`))
}

func TestImportZipNoProgramPathFails(t *testing.T) {
	tree := fsnode.NewTree()
	entries := []importer.ZipEntry{
		{Name: "README.TXT", Data: []byte("x")},
	}
	err := importer.ImportZip(tree, entries, importer.ZipImportOptions{})
	assert.Error(t, err)
}
