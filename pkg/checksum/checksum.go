// Package checksum computes the standard CRC32 (IEEE 802.3 / zip polynomial
// 0xEDB88320, reflected) over caller-owned byte buffers.
//
// All functions are pure and safe for concurrent use. Buffers are only read
// for the duration of a call and never retained.
package checksum

import (
	"hash"

	"github.com/klauspost/crc32"
	"golang.org/x/sys/cpu"

	cerrors "github.com/iamNilotpal/checksum/pkg/errors"
)

// Size is the number of meaningful bytes in a CRC32 value.
const Size = crc32.Size

// ErrInvalidArgument is returned by Checksum for a missing or short buffer.
var ErrInvalidArgument = cerrors.ErrInvalidArgument

var table = crc32.IEEETable

// Checksum computes the CRC32 of the first size bytes of data and returns it
// widened to 64 bits. The upper 32 bits of the result are always zero.
//
// A zero size is always valid and yields 0. A nil buffer with a non-zero size,
// or a size larger than the buffer, fails with ErrInvalidArgument.
func Checksum(data []byte, size uint32) (uint64, error) {
	if size == 0 {
		return 0, nil
	}

	if data == nil {
		return 0, cerrors.InvalidArgument("checksum", "nil buffer with size %d", size)
	}

	if uint64(size) > uint64(len(data)) {
		return 0, cerrors.InvalidArgument("checksum", "size %d exceeds buffer length %d", size, len(data))
	}

	return uint64(crc32.Checksum(data[:size], table)), nil
}

// Sum computes the CRC32 of the whole slice. A nil or empty slice yields 0.
func Sum(data []byte) uint64 {
	return uint64(crc32.Checksum(data, table))
}

// Update returns the result of adding data to crc.
// Update(Update(0, a), b) equals the checksum of a followed by b.
func Update(crc uint32, data []byte) uint32 {
	return crc32.Update(crc, table, data)
}

// Verify reports whether data checksums to expected.
func Verify(data []byte, expected uint64) bool {
	return Sum(data) == expected
}

// New returns a streaming CRC32 digest.
func New() hash.Hash32 {
	return crc32.New(table)
}

// Accelerated reports whether the running CPU has instructions the CRC32
// implementation uses to speed up checksumming.
func Accelerated() bool {
	return (cpu.X86.HasSSE42 && cpu.X86.HasPCLMULQDQ) || cpu.ARM64.HasCRC32
}
