package ports

// Defines the interface for block compression operations.
// This allows us to swap compression algorithms without changing core logic.
type CompressionPort interface {
	// Compress reduces data size.
	// Returns compressed data and any error that occurred.
	Compress(data []byte) ([]byte, error)

	// Decompress restores original data.
	// Returns decompressed data and any error that occurred.
	Decompress(data []byte) ([]byte, error)

	// ID returns the on-wire identifier of the codec.
	ID() uint8

	// Close cleans up compression resources.
	Close() error
}
