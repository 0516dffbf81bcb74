package mbr_test

import (
	"testing"

	"github.com/mkhdmenu/atarihd/binpack"
	"github.com/mkhdmenu/atarihd/mbr"
	"github.com/stretchr/testify/assert"
)

func TestSingleBootablePartitionDescriptor(t *testing.T) {
	opts := mbr.Options{
		TotalImageSectors: 32769,
		AnyBootable:       true,
	}
	opts.Partitions[0] = mbr.PartitionEntry{Present: true, Bootable: true, StartSector: 1, SectorCount: 32768}

	buf := mbr.Serialize(opts)
	assert.Equal(t, 512, len(buf))

	flag := buf[0x1C6]
	assert.Equal(t, byte(0x81), flag)
	assert.Equal(t, "GEM", string(buf[0x1C7:0x1CA]))
	assert.Equal(t, uint32(1), binpack.Uint32BE(buf, 0x1CA))
	assert.Equal(t, uint32(32768), binpack.Uint32BE(buf, 0x1CE))

	assert.Equal(t, uint32(32769), binpack.Uint32BE(buf, 0x1FA))
	assert.Equal(t, uint16(0x1234), binpack.WordSumBE(buf))
}

func TestTwoPartitionLayout(t *testing.T) {
	opts := mbr.Options{TotalImageSectors: 1 + 32768 + 16384}
	opts.Partitions[0] = mbr.PartitionEntry{Present: true, StartSector: 1, SectorCount: 32768}
	opts.Partitions[1] = mbr.PartitionEntry{Present: true, StartSector: 32769, SectorCount: 16384}

	buf := mbr.Serialize(opts)
	assert.Equal(t, uint32(1), binpack.Uint32BE(buf, 0x1CA))
	assert.Equal(t, uint32(32768), binpack.Uint32BE(buf, 0x1CE))
	assert.Equal(t, uint32(32769), binpack.Uint32BE(buf, 0x1D6))
	assert.Equal(t, uint32(16384), binpack.Uint32BE(buf, 0x1DA))
}

func TestUnusedDescriptorsAreZero(t *testing.T) {
	opts := mbr.Options{TotalImageSectors: 32769}
	opts.Partitions[0] = mbr.PartitionEntry{Present: true, StartSector: 1, SectorCount: 32768}

	buf := mbr.Serialize(opts)
	for i := 1; i < mbr.MaxPartitions; i++ {
		off := 0x1C6 + i*12
		for _, b := range buf[off : off+12] {
			assert.Equal(t, byte(0), b)
		}
	}
}

func TestNonBootableChecksumLeftZero(t *testing.T) {
	opts := mbr.Options{TotalImageSectors: 32769}
	opts.Partitions[0] = mbr.PartitionEntry{Present: true, StartSector: 1, SectorCount: 32768}

	buf := mbr.Serialize(opts)
	assert.Equal(t, uint16(0), binpack.Uint16BE(buf, 0x1FE))
}
