package compression

import (
	"fmt"
	"runtime"

	"github.com/iamNilotpal/checksum/internal/core/domain"
	"github.com/iamNilotpal/checksum/internal/core/ports"
	cerrors "github.com/iamNilotpal/checksum/pkg/errors"
)

// Payloads below this size are stored uncompressed.
const minCompressibleSize = 64

// Returns CompressionOptions struct initialized with
// recommended default values that provide a good balance between compression ratio
// and performance for most use cases.
func DefaultOptions() *domain.CompressionOptions {
	return &domain.CompressionOptions{
		Level:              DefaultLevel,
		EncoderConcurrency: uint8(runtime.NumCPU()),
		DecoderConcurrency: uint8(runtime.NumCPU()),
	}
}

// Checks if the compression options are valid and returns an error if any option
// is outside acceptable bounds.
func Validate(input *domain.CompressionOptions) error {
	if input.Level < FastestLevel || input.Level > BestLevel {
		return cerrors.NewValidationError(
			"level", input.Level,
			fmt.Errorf("compression level must be between %d and %d, got %d", FastestLevel, BestLevel, input.Level),
		)
	}

	if int(input.EncoderConcurrency) > runtime.NumCPU() {
		return cerrors.NewValidationError(
			"encoderConcurrency", input.EncoderConcurrency,
			fmt.Errorf("encoder concurrency must be between 0 and %d, got %d", runtime.NumCPU(), input.EncoderConcurrency),
		)
	}

	if int(input.DecoderConcurrency) > runtime.NumCPU() {
		return cerrors.NewValidationError(
			"decoderConcurrency", input.DecoderConcurrency,
			fmt.Errorf("decoder concurrency must be between 0 and %d, got %d", runtime.NumCPU(), input.DecoderConcurrency),
		)
	}

	return nil
}

// Codecs indexes block codecs by their on-wire identifier.
type Codecs map[domain.CompressionID]ports.CompressionPort

// NewCodecs builds every block codec with default options. The caller owns
// the result and must Close it.
func NewCodecs() (Codecs, error) {
	opts := DefaultOptions()
	zstd, err := NewZstdCompression(Options{
		Level:              opts.Level,
		EncoderConcurrency: opts.EncoderConcurrency,
		DecoderConcurrency: opts.DecoderConcurrency,
	})
	if err != nil {
		return nil, err
	}

	return Codecs{
		domain.CompressionZstd:   zstd,
		domain.CompressionSnappy: NewSnappyCompression(),
	}, nil
}

// Close releases all codecs.
func (c Codecs) Close() error {
	var first error
	for _, codec := range c {
		if err := codec.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
