package ports

import "hash"

// Defines an interface for calculating and verifying data checksums.
type ChecksumPort interface {
	// Calculates the checksum for the provided data.
	// Algorithms producing fewer than 64 bits are zero-extended; longer
	// digests are truncated to their first 8 bytes.
	Calculate(data []byte) uint64

	// Validates whether the provided data matches the expected checksum.
	Verify(data []byte, expected uint64) bool

	// NewHash returns a streaming digest whose result, folded with
	// checksum.Value, equals Calculate over the same bytes.
	NewHash() hash.Hash

	// Size returns the number of significant bytes in a checksum.
	Size() uint8

	// Name returns the registry name of the algorithm.
	Name() string
}
