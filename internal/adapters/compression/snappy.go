package compression

import (
	"github.com/golang/snappy"

	"github.com/iamNilotpal/checksum/internal/core/domain"
	cerrors "github.com/iamNilotpal/checksum/pkg/errors"
)

// SnappyCompression implements CompressionPort with the snappy block format.
// It holds no state and is safe for concurrent use.
type SnappyCompression struct{}

func NewSnappyCompression() *SnappyCompression {
	return &SnappyCompression{}
}

func (s *SnappyCompression) Compress(data []byte) ([]byte, error) {
	if len(data) < minCompressibleSize {
		return data, nil
	}

	compressed := snappy.Encode(nil, data)
	if len(compressed) < len(data) {
		return compressed, nil
	}

	return data, nil
}

func (s *SnappyCompression) Decompress(data []byte) ([]byte, error) {
	decompressed, err := snappy.Decode(nil, data)
	if err != nil {
		return nil, cerrors.NewChecksumError(cerrors.ErrorCompression, "snappy decompress", err)
	}
	return decompressed, nil
}

func (s *SnappyCompression) ID() uint8 {
	return uint8(domain.CompressionSnappy)
}

func (s *SnappyCompression) Close() error {
	return nil
}
