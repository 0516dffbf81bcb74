package cfgparse_test

import (
	"strings"
	"testing"

	"github.com/mkhdmenu/atarihd/cfgparse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSizeSuffixes(t *testing.T) {
	size, err := cfgparse.ParseSize("512")
	require.NoError(t, err)
	assert.Equal(t, uint64(512), size)

	size, err = cfgparse.ParseSize("16M")
	require.NoError(t, err)
	assert.Equal(t, uint64(16*1024*1024), size)

	size, err = cfgparse.ParseSize("8K")
	require.NoError(t, err)
	assert.Equal(t, uint64(8*1024), size)
}

func TestParseSizeRejectsOversized(t *testing.T) {
	_, err := cfgparse.ParseSize("17M")
	assert.Error(t, err)
}

func TestParseSizeRejectsUnaligned(t *testing.T) {
	_, err := cfgparse.ParseSize("513")
	assert.Error(t, err)
}

func TestParseFullConfig(t *testing.T) {
	input := strings.Join([]string{
		"# sample config",
		"img BOOT;16M",
		"file C:\\ICDBOOT.SYS;drivers/icdboot.sys",
		"game https://example.com/foo.zip;Foo Game;foo.neo",
		"link FOO;Foo!",
		"partition",
		"cfg",
		"end",
	}, "\n")

	commands, err := cfgparse.Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, commands, 7)

	assert.Equal(t, cfgparse.CmdImg, commands[0].Kind)
	assert.Equal(t, "BOOT", commands[0].ImageName)
	assert.Equal(t, uint64(16*1024*1024), commands[0].SizeBytes)

	assert.Equal(t, cfgparse.CmdFile, commands[1].Kind)
	assert.Equal(t, `C:\ICDBOOT.SYS`, commands[1].Dest)

	assert.Equal(t, cfgparse.CmdGame, commands[2].Kind)
	assert.Equal(t, "Foo Game", commands[2].GameName)
	assert.Equal(t, "foo.neo", commands[2].GameNeopic)

	assert.Equal(t, cfgparse.CmdLink, commands[3].Kind)
	assert.Equal(t, cfgparse.CmdPartition, commands[4].Kind)
	assert.Equal(t, cfgparse.CmdCfg, commands[5].Kind)
	assert.Equal(t, cfgparse.CmdEnd, commands[6].Kind)
}

func TestParseUnknownCommandFails(t *testing.T) {
	_, err := cfgparse.Parse(strings.NewReader("bogus foo"))
	assert.Error(t, err)
}
