package domain

// CompressionFormat names an encoding applied to checksummed input.
type CompressionFormat string

const (
	// FormatNone reads input as-is.
	FormatNone CompressionFormat = "none"

	// FormatZstd decodes zstd frames before checksumming.
	FormatZstd CompressionFormat = "zstd"

	// FormatSnappy decodes the framed snappy stream format before checksumming.
	FormatSnappy CompressionFormat = "snappy"

	// FormatAuto sniffs the first bytes of the input and picks one of the
	// formats above, falling back to FormatNone.
	FormatAuto CompressionFormat = "auto"
)

// CompressionID is the on-wire identifier of a block compression codec.
type CompressionID uint8

const (
	CompressionNone CompressionID = iota
	CompressionZstd
	CompressionSnappy
)

// String returns the string representation of the CompressionID.
func (c CompressionID) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionZstd:
		return "zstd"
	case CompressionSnappy:
		return "snappy"
	default:
		return "unknown"
	}
}

// CompressionOptions configures the zstd block codec.
type CompressionOptions struct {
	// Level defines the zstd encoder level.
	// Supported levels:
	//   - 1: Fastest compression
	//   - 2: Default balanced compression (≈ zstd level 3)
	//   - 3: Better compression ratio with 2x-3x CPU usage
	//   - 4: Maximum compression regardless of CPU cost
	Level uint8

	// EncoderConcurrency specifies the number of concurrent compression operations.
	// Default is number of CPU cores if set to 0.
	EncoderConcurrency uint8

	// DecoderConcurrency specifies the number of concurrent decompression operations.
	// Default is number of CPU cores if set to 0.
	DecoderConcurrency uint8
}
