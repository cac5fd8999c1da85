// Package v6fs decodes a Unix Sixth Edition (v6) file-system image — a
// sequence of 512-byte blocks on a PDP-11 volume — and provides read access
// to the files and directories it contains. It does not support writing,
// mounting, free-list management, or consistency repair; permissions are
// decoded, not enforced.
package v6fs

import "encoding/binary"

// middleEndian32 reassembles a 32-bit value stored on disk as two 16-bit
// little-endian words in the order (high_word, low_word) — PDP-11 "middle
// endian" — into its correct numeric value. b must be at least 4 bytes.
//
// After an ordinary little-endian 32-bit load yields W, the correct value
// is ((W>>16)&0xFFFF) | ((W&0xFFFF)<<16): the two 16-bit halves are swapped.
// Applies only to the fields spec'd as two-word integers (atime, mtime, the
// superblock's update time); plain 16-bit fields need no such treatment.
func middleEndian32(b []byte) uint32 {
	w := binary.LittleEndian.Uint32(b)
	return (w >> 16) | (w << 16)
}

// splitSize reassembles the 24-bit file size from the inode's split field:
// an 8-bit high byte (size0) and a 16-bit low word (size1).
func splitSize(size0 uint8, size1 uint16) uint32 {
	return uint32(size0)<<16 | uint32(size1)
}
