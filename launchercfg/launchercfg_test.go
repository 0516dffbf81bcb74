package launchercfg_test

import (
	"testing"

	"github.com/mkhdmenu/atarihd/binpack"
	"github.com/mkhdmenu/atarihd/launchercfg"
	"github.com/stretchr/testify/assert"
)

func TestDefaultBlobLength(t *testing.T) {
	assert.Len(t, launchercfg.Default(), launchercfg.Size)
}

func TestDefaultVersionAndFlags(t *testing.T) {
	buf := launchercfg.Default()
	assert.Equal(t, uint32(3), binpack.Uint32BE(buf, 0))
	assert.Equal(t, byte(1), buf[6]) // bootkey-to-desktop
	assert.Equal(t, byte(2), buf[10]) // copyright-timeout
}

func TestDefaultSNDHNameIsSpaces(t *testing.T) {
	buf := launchercfg.Default()
	for i := 16; i < 30; i++ {
		assert.Equal(t, byte(' '), buf[i])
	}
}

func TestUnspecifiedBytesAreZero(t *testing.T) {
	buf := launchercfg.Default()
	assert.Equal(t, byte(0), buf[30])
	assert.Equal(t, byte(0), buf[108])
	assert.Equal(t, byte(0), buf[167])
}
