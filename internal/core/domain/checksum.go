// Package domain defines the core types shared by the checksum services.
package domain

import (
	"github.com/iamNilotpal/checksum/internal/core/ports"
)

// ChecksumAlgorithm represents supported checksum algorithms
type ChecksumAlgorithm string

// ChecksumOptions selects the algorithm used by services that compute sums.
type ChecksumOptions struct {
	// Algorithm specifies which checksum algorithm to use.
	// Defaults to crc32-ieee if not specified.
	Algorithm ChecksumAlgorithm

	// Custom allows using a custom ChecksumPort implementation.
	// If provided, it takes precedence over Algorithm.
	Custom ports.ChecksumPort
}
