// Package mbr serializes the Atari AHDI root sector: the four-entry
// partition table at the classic MBR offset, an optional embedded MBR
// bootloader, and the Atari big-endian checksum word.
//
// Grounded on the same checksum-word technique the fat16 package uses for
// its boot sector (both satisfy the same "sums to 0x1234" contract that
// marks an Atari TOS boot sector/root sector bootable); see
// binpack.ChecksumWordBE.
package mbr

import "github.com/mkhdmenu/atarihd/binpack"

const (
	// SectorSize is the fixed AHDI/MBR sector size.
	SectorSize = 512

	// MaxPartitions is the number of partition slots this format supports.
	MaxPartitions = 4

	descriptorSize   = 12
	firstDescriptor  = 0x1C6
	totalSectorsOff  = 0x1FA
	checksumOffset   = 0x1FE
	targetChecksum   = 0x1234
	flagBootable     = 0x01
	flagFirstEntry   = 0x80
	partitionTypeGEM = "GEM"
)

// PartitionEntry describes one slot in the AHDI partition table.
type PartitionEntry struct {
	// Present marks whether this slot holds a partition at all; an unused
	// slot is left entirely zero.
	Present bool

	// Bootable sets the 0x01 flag bit. The first partition additionally
	// gets the 0x80 bit regardless of Bootable (see spec §4.5).
	Bootable bool

	// StartSector and SectorCount are both in whole 512-byte sectors.
	StartSector uint32
	SectorCount uint32
}

// Options carries the values needed to render a root sector.
type Options struct {
	// Partitions holds up to MaxPartitions entries, in slot order (C, D, E, F).
	Partitions [MaxPartitions]PartitionEntry

	// TotalImageSectors is the full image's sector count, including this
	// root sector.
	TotalImageSectors uint32

	// BootCode is optional MBR-resident bootloader machine code, written at
	// offset 0 if non-empty.
	BootCode []byte

	// AnyBootable must be true if any partition is marked bootable; it
	// gates whether the checksum word is computed or left zero, per spec
	// §4.5.
	AnyBootable bool
}

// Serialize renders a complete 512-byte AHDI root sector.
func Serialize(opts Options) []byte {
	buf := make([]byte, SectorSize)

	if len(opts.BootCode) > 0 {
		n := len(opts.BootCode)
		if n > firstDescriptor {
			n = firstDescriptor
		}
		copy(buf[:n], opts.BootCode[:n])
	}

	for i, entry := range opts.Partitions {
		if !entry.Present {
			continue
		}
		off := firstDescriptor + i*descriptorSize
		writeDescriptor(buf[off:off+descriptorSize], entry, i == 0)
	}

	binpack.PutUint32BE(buf, totalSectorsOff, opts.TotalImageSectors)

	if opts.AnyBootable {
		checksum := binpack.ChecksumWordBE(buf, checksumOffset, targetChecksum)
		binpack.PutUint16BE(buf, checksumOffset, checksum)
	}

	return buf
}

func writeDescriptor(dst []byte, entry PartitionEntry, isFirst bool) {
	var flag byte
	if entry.Bootable {
		flag |= flagBootable
	}
	if isFirst {
		flag |= flagFirstEntry
	}

	w := binpack.NewWriter(dst)
	w.WriteUint8(flag)
	w.WriteBytes([]byte(partitionTypeGEM))
	w.WriteUint32BE(entry.StartSector)
	w.WriteUint32BE(entry.SectorCount)
}
