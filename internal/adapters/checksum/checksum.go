// Package checksum provides the registry of checksum algorithms behind
// ports.ChecksumPort. The default algorithm is the standard CRC32 from
// pkg/checksum; the others exist for interoperating with stored sums.
package checksum

import (
	"encoding/binary"
	"hash"
	"sort"

	"github.com/iamNilotpal/checksum/internal/core/domain"
	"github.com/iamNilotpal/checksum/internal/core/ports"
	cerrors "github.com/iamNilotpal/checksum/pkg/errors"
)

const (
	// CRC32IEEE uses the IEEE polynomial for CRC32 checksums
	CRC32IEEE domain.ChecksumAlgorithm = "crc32-ieee"

	// CRC32Castagnoli uses the Castagnoli polynomial (CRC-32C)
	CRC32Castagnoli domain.ChecksumAlgorithm = "crc32-castagnoli"

	// CRC32Koopman uses the Koopman polynomial
	CRC32Koopman domain.ChecksumAlgorithm = "crc32-koopman"

	// CRC64ISO uses the ISO polynomial for CRC64 checksums
	CRC64ISO domain.ChecksumAlgorithm = "crc64-iso"

	// CRC64ECMA uses the ECMA polynomial for CRC64 checksums
	CRC64ECMA domain.ChecksumAlgorithm = "crc64-ecma"

	// SHA1 provides SHA-1 checksums truncated to 64 bits
	SHA1 domain.ChecksumAlgorithm = "sha1"

	// SHA256 provides SHA-256 checksums truncated to 64 bits
	SHA256 domain.ChecksumAlgorithm = "sha256"

	// XXHash64 provides 64-bit xxHash checksums
	XXHash64 domain.ChecksumAlgorithm = "xxhash64"
)

var registry = map[domain.ChecksumAlgorithm]func() ports.ChecksumPort{
	CRC32IEEE:       func() ports.ChecksumPort { return NewCRC32IEEE() },
	CRC32Castagnoli: func() ports.ChecksumPort { return NewCRC32Castagnoli() },
	CRC32Koopman:    func() ports.ChecksumPort { return NewCRC32Koopman() },
	CRC64ISO:        func() ports.ChecksumPort { return NewCRC64ISO() },
	CRC64ECMA:       func() ports.ChecksumPort { return NewCRC64ECMA() },
	SHA1:            func() ports.ChecksumPort { return NewSHA1() },
	SHA256:          func() ports.ChecksumPort { return NewSHA256() },
	XXHash64:        func() ports.ChecksumPort { return NewXXHash64() },
}

// Returns recommended checksum settings.
func DefaultOptions() *domain.ChecksumOptions {
	return &domain.ChecksumOptions{Algorithm: CRC32IEEE}
}

// Validate reports an error for an unknown algorithm unless a custom
// implementation is supplied.
func Validate(input *domain.ChecksumOptions) error {
	if input == nil {
		return cerrors.NewValidationError("checksum", nil, cerrors.ErrInvalidArgument)
	}

	if input.Custom == nil {
		if _, ok := registry[input.Algorithm]; !ok {
			return cerrors.NewValidationError("algorithm", input.Algorithm, cerrors.ErrUnsupported)
		}
	}

	return nil
}

// New returns the implementation registered under algorithm.
func New(algorithm domain.ChecksumAlgorithm) (ports.ChecksumPort, error) {
	factory, ok := registry[algorithm]
	if !ok {
		return nil, cerrors.NewChecksumError(
			cerrors.ErrorConfig, "new checksum", cerrors.NewValidationError("algorithm", algorithm, cerrors.ErrUnsupported),
		)
	}
	return factory(), nil
}

// FromOptions resolves options to an implementation, preferring Custom.
// Nil options select the default algorithm.
func FromOptions(opts *domain.ChecksumOptions) (ports.ChecksumPort, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	if opts.Custom != nil {
		return opts.Custom, nil
	}
	if opts.Algorithm == "" {
		return New(CRC32IEEE)
	}
	return New(opts.Algorithm)
}

// Algorithms lists the registered algorithm names in sorted order.
func Algorithms() []domain.ChecksumAlgorithm {
	names := make([]domain.ChecksumAlgorithm, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// Value folds the current state of a digest into the 64-bit form returned
// by ports.ChecksumPort.Calculate.
func Value(h hash.Hash) uint64 {
	switch d := h.(type) {
	case hash.Hash64:
		return d.Sum64()
	case hash.Hash32:
		return uint64(d.Sum32())
	}
	return truncate(h.Sum(nil))
}

func truncate(sum []byte) uint64 {
	if len(sum) < 8 {
		var padded [8]byte
		copy(padded[8-len(sum):], sum)
		return binary.BigEndian.Uint64(padded[:])
	}
	return binary.BigEndian.Uint64(sum[:8])
}
