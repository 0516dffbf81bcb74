// Package launchercfg builds the default HDMENU.CFG launcher configuration
// blob inserted at C:\HDMENU.CFG when requested, per spec §6.
package launchercfg

import "github.com/mkhdmenu/atarihd/binpack"

// Size is the fixed length of the HDMENU.CFG blob.
const Size = 168

const (
	versionOffset     = 0
	flagsOffset       = 4
	screensaverOffset = 12
	sndhNameOffset    = 16
	sndhNameLen       = 14
	postSettingsOffset = 109
	postSettingsLen    = 9
)

const defaultVersion = 0x00000003

// Behavior flags, one byte each, at offsets 4 through 11 in that order.
const (
	flagSaveOnExit        = 0
	flagSync              = 0
	flagBootkeyToDesktop  = 1
	flagBootTimeout       = 0
	flagKeyclick          = 0
	flagBootkeyScancode   = 0
	flagCopyrightTimeout  = 2
	flagRestoreResolution = 0
)

// PostSettings are the generator-tabulated bytes written at offsets
// 109-117; spec §6 leaves their exact table to the implementation, so this
// holds zeroed defaults an operator can override per build.
type PostSettings [postSettingsLen]byte

// Default renders the 168-byte default HDMENU.CFG blob: every documented
// field at its fixed offset, every other byte zero.
func Default() []byte {
	return Build(PostSettings{})
}

// Build renders the HDMENU.CFG blob with post customized.
func Build(post PostSettings) []byte {
	buf := make([]byte, Size)

	binpack.PutUint32BE(buf, versionOffset, defaultVersion)

	flags := [8]byte{
		flagSaveOnExit, flagSync, flagBootkeyToDesktop, flagBootTimeout,
		flagKeyclick, flagBootkeyScancode, flagCopyrightTimeout, flagRestoreResolution,
	}
	copy(buf[flagsOffset:flagsOffset+8], flags[:])

	binpack.PutUint32BE(buf, screensaverOffset, 0)

	for i := 0; i < sndhNameLen; i++ {
		buf[sndhNameOffset+i] = ' '
	}

	copy(buf[postSettingsOffset:postSettingsOffset+postSettingsLen], post[:])

	return buf
}
