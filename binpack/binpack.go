// Package binpack provides little- and big-endian packed-integer helpers
// over fixed-size byte buffers, plus the Atari-style big-endian word-sum
// checksum shared by the FAT16 boot sector and the AHDI root sector.
//
// Buffers are written through github.com/noxer/bytewriter, the same
// fixed-backing-array writer the teacher's compression tests use to avoid
// manual offset bookkeeping when serializing a sequence of fields.
package binpack

import (
	"encoding/binary"

	"github.com/noxer/bytewriter"
)

// Writer sequentially writes packed fields into a fixed-size buffer.
type Writer struct {
	buf []byte
	w   *bytewriter.Writer
}

// NewWriter wraps buf for sequential little/big-endian writes starting at
// offset 0. buf is written in place; no copy is made.
func NewWriter(buf []byte) *Writer {
	return &Writer{buf: buf, w: bytewriter.New(buf)}
}

// WriteBytes appends raw bytes at the writer's current cursor.
func (w *Writer) WriteBytes(p []byte) {
	_, _ = w.w.Write(p)
}

// WriteUint8 appends a single byte at the writer's current cursor.
func (w *Writer) WriteUint8(v uint8) {
	_, _ = w.w.Write([]byte{v})
}

// WriteUint16LE appends a little-endian uint16 at the writer's current cursor.
func (w *Writer) WriteUint16LE(v uint16) {
	var tmp [2]byte
	binary.LittleEndian.PutUint16(tmp[:], v)
	_, _ = w.w.Write(tmp[:])
}

// WriteUint32LE appends a little-endian uint32 at the writer's current cursor.
func (w *Writer) WriteUint32LE(v uint32) {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	_, _ = w.w.Write(tmp[:])
}

// WriteUint16BE appends a big-endian uint16 at the writer's current cursor.
func (w *Writer) WriteUint16BE(v uint16) {
	var tmp [2]byte
	binary.BigEndian.PutUint16(tmp[:], v)
	_, _ = w.w.Write(tmp[:])
}

// WriteUint32BE appends a big-endian uint32 at the writer's current cursor.
func (w *Writer) WriteUint32BE(v uint32) {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], v)
	_, _ = w.w.Write(tmp[:])
}

// PutUint16LE writes a little-endian uint16 at the given absolute offset.
func PutUint16LE(buf []byte, offset int, v uint16) {
	binary.LittleEndian.PutUint16(buf[offset:offset+2], v)
}

// PutUint32LE writes a little-endian uint32 at the given absolute offset.
func PutUint32LE(buf []byte, offset int, v uint32) {
	binary.LittleEndian.PutUint32(buf[offset:offset+4], v)
}

// PutUint16BE writes a big-endian uint16 at the given absolute offset.
func PutUint16BE(buf []byte, offset int, v uint16) {
	binary.BigEndian.PutUint16(buf[offset:offset+2], v)
}

// PutUint32BE writes a big-endian uint32 at the given absolute offset.
func PutUint32BE(buf []byte, offset int, v uint32) {
	binary.BigEndian.PutUint32(buf[offset:offset+4], v)
}

// Uint16LE reads a little-endian uint16 at the given absolute offset.
func Uint16LE(buf []byte, offset int) uint16 {
	return binary.LittleEndian.Uint16(buf[offset : offset+2])
}

// Uint32LE reads a little-endian uint32 at the given absolute offset.
func Uint32LE(buf []byte, offset int) uint32 {
	return binary.LittleEndian.Uint32(buf[offset : offset+4])
}

// Uint16BE reads a big-endian uint16 at the given absolute offset.
func Uint16BE(buf []byte, offset int) uint16 {
	return binary.BigEndian.Uint16(buf[offset : offset+2])
}

// Uint32BE reads a big-endian uint32 at the given absolute offset.
func Uint32BE(buf []byte, offset int) uint32 {
	return binary.BigEndian.Uint32(buf[offset : offset+4])
}

// WordSumBE sums a buffer as a sequence of big-endian 16-bit words, modulo
// 65536. The buffer's length must be even; a trailing odd byte is ignored.
func WordSumBE(buf []byte) uint16 {
	var sum uint32
	for i := 0; i+1 < len(buf); i += 2 {
		sum += uint32(Uint16BE(buf, i))
	}
	return uint16(sum & 0xFFFF)
}

// ChecksumWordBE computes the big-endian 16-bit value that, written at
// checksumOffset (which must currently hold zero, or whatever value is being
// replaced), makes WordSumBE(buf) equal target.
//
// Callers zero out the 2 bytes at checksumOffset, call this, and then write
// the result there with PutUint16BE.
func ChecksumWordBE(buf []byte, checksumOffset int, target uint16) uint16 {
	zeroed := make([]byte, len(buf))
	copy(zeroed, buf)
	PutUint16BE(zeroed, checksumOffset, 0)
	current := WordSumBE(zeroed)
	return target - current
}
