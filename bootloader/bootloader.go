// Package bootloader detects which Atari hard-disk driver file (if any) is
// present in a partition's root directory and supplies the matching MBR and
// partition-bootsector machine code blobs, per spec §4.6.
//
// The two loader families are embedded byte constants, loaded from binary
// resources at build time rather than hand-transcribed; see blobs/doc.go.
// Grounded on dargueta-disko's utilities/compression package for the idea of
// treating bootloader payloads as opaque blobs the rest of the tree never
// inspects.
package bootloader

import (
	"embed"
	"os"
	"path/filepath"

	"github.com/mkhdmenu/atarihd/hderrors"
)

//go:embed blobs/*.bin
var blobFS embed.FS

// DriverICD and DriverSHDRIVER name the two recognized Atari hard-disk
// driver files, in the order they're checked.
const (
	DriverICD      = "ICDBOOT.SYS"
	DriverSHDRIVER = "SHDRIVER.SYS"
)

// Kind identifies which bootloader family was detected.
type Kind int

const (
	// KindNone means no recognized driver file was found.
	KindNone Kind = iota
	KindICD
	KindSHDRIVER
)

// Loader is a detected bootloader's pair of machine-code blobs.
type Loader struct {
	Kind         Kind
	MBRCode      []byte
	BootsectCode []byte
}

func mustLoad(name string) []byte {
	data, err := blobFS.ReadFile("blobs/" + name)
	if err != nil {
		panic("bootloader: missing embedded blob " + name + ": " + err.Error())
	}
	return data
}

var (
	icdMBRCode           = mustLoad("icd_mbr.bin")
	icdBootsectorCode    = mustLoad("icd_bootsector.bin")
	shdriverMBRCode      = mustLoad("shdriver_mbr.bin")
	shdriverBootsectCode = mustLoad("shdriver_bootsector.bin")
)

// RootFileNames is the set of names Detect looks for, for callers that
// need to check presence without invoking the full detection.
var RootFileNames = []string{DriverICD, DriverSHDRIVER}

// Detect inspects the names of partition C's root-level files (as returned
// by fsnode, already normalized to 8.3 form) and returns the matching
// Loader. ICDBOOT.SYS takes priority over SHDRIVER.SYS when both are
// present, per spec §4.6. If neither is present, it returns a KindNone
// Loader and hderrors.ErrMissingDriver as a warning-class error: the caller
// should record it but continue, since the partition is still usable
// unbootable.
func Detect(rootFileNames []string) (Loader, error) {
	has := func(name string) bool {
		for _, n := range rootFileNames {
			if n == name {
				return true
			}
		}
		return false
	}

	switch {
	case has(DriverICD):
		return Loader{Kind: KindICD, MBRCode: icdMBRCode, BootsectCode: icdBootsectorCode}, nil
	case has(DriverSHDRIVER):
		return Loader{Kind: KindSHDRIVER, MBRCode: shdriverMBRCode, BootsectCode: shdriverBootsectCode}, nil
	default:
		return Loader{Kind: KindNone}, hderrors.ErrMissingDriver
	}
}

// Export writes <name>_mbr.bin and <name>_bootsector.bin to dir, the one
// observable host-side side effect of the -export-bootloader=<name> CLI
// option (spec §4.6, §6).
func (l Loader) Export(dir, name string) error {
	if l.Kind == KindNone {
		return hderrors.ErrMissingDriver
	}
	mbrPath := filepath.Join(dir, name+"_mbr.bin")
	if err := os.WriteFile(mbrPath, l.MBRCode, 0o644); err != nil {
		return err
	}
	bootPath := filepath.Join(dir, name+"_bootsector.bin")
	return os.WriteFile(bootPath, l.BootsectCode, 0o644)
}
