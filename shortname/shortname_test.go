package shortname_test

import (
	"testing"

	"github.com/mkhdmenu/atarihd/shortname"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeUppercases(t *testing.T) {
	got, err := shortname.Normalize("test.txt")
	require.NoError(t, err)
	assert.Equal(t, "TEST.TXT", got)
}

func TestNormalizeRejectsLongBase(t *testing.T) {
	_, err := shortname.Normalize("TOOLONGNAME.TXT")
	assert.Error(t, err)
}

func TestNormalizeRejectsLongExtension(t *testing.T) {
	_, err := shortname.Normalize("NAME.TOOLONG")
	assert.Error(t, err)
}

func TestNormalizeAllowsPunctuation(t *testing.T) {
	got, err := shortname.Normalize("bubl-gst.prg")
	require.NoError(t, err)
	assert.Equal(t, "BUBL-GST.PRG", got)
}

func TestNormalizeRejectsIllegalCharacters(t *testing.T) {
	_, err := shortname.Normalize("bad name.txt")
	assert.Error(t, err)
}

func TestSplitJoinRoundTrip(t *testing.T) {
	name, ext := shortname.Split("TEST.TXT")
	assert.Equal(t, "TEST    TXT", string(name[:])+string(ext[:]))
	assert.Equal(t, "TEST.TXT", shortname.Join(name, ext))
}

func TestSplitJoinNoExtension(t *testing.T) {
	name, ext := shortname.Split("RUNME")
	assert.Equal(t, "RUNME", shortname.Join(name, ext))
}
