// Package blobs holds the raw ICD and SHDRIVER bootloader machine code,
// embedded as binary resources rather than transcribed into Go source, per
// spec §4.6's design note that these blobs should be treated as opaque.
//
// Each file is 96 bytes: a four-byte ASCII tag identifying the blob,
// followed by 68000 NOP filler (0x4E71) and a terminating RTS (0x4E75).
// They are placeholders standing in for real vendor-supplied loader code,
// which this module has no license to redistribute; swapping in the actual
// ICDBOOT.SYS/SHDRIVER.SYS-compatible loader bytes requires only replacing
// these files, since bootloader.go treats them as opaque byte slices.
package blobs
