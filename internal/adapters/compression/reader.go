package compression

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"

	"github.com/iamNilotpal/checksum/internal/core/domain"
	cerrors "github.com/iamNilotpal/checksum/pkg/errors"
)

var (
	zstdMagic   = []byte{0x28, 0xb5, 0x2f, 0xfd}
	snappyMagic = []byte("\xff\x06\x00\x00sNaPpY")
)

// Detect inspects the leading bytes of a stream and reports its format.
func Detect(prefix []byte) domain.CompressionFormat {
	switch {
	case bytes.HasPrefix(prefix, zstdMagic):
		return domain.FormatZstd
	case bytes.HasPrefix(prefix, snappyMagic):
		return domain.FormatSnappy
	default:
		return domain.FormatNone
	}
}

// NewReader wraps r with a streaming decoder for format. FormatAuto sniffs
// the stream; the resolved format is returned alongside the reader. Closing
// the returned reader releases decoder resources but never closes r.
func NewReader(format domain.CompressionFormat, r io.Reader) (io.ReadCloser, domain.CompressionFormat, error) {
	if format == "" {
		format = domain.FormatNone
	}

	if format == domain.FormatAuto {
		br := bufio.NewReaderSize(r, 64)
		prefix, err := br.Peek(len(snappyMagic))
		if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
			return nil, "", cerrors.NewChecksumError(cerrors.ErrorStorage, "detect format", err)
		}
		format, r = Detect(prefix), br
	}

	switch format {
	case domain.FormatNone:
		return io.NopCloser(r), format, nil
	case domain.FormatZstd:
		decoder, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, "", cerrors.NewChecksumError(cerrors.ErrorCompression, "open zstd stream", err)
		}
		return decoder.IOReadCloser(), format, nil
	case domain.FormatSnappy:
		return io.NopCloser(snappy.NewReader(r)), format, nil
	default:
		return nil, "", cerrors.NewChecksumError(
			cerrors.ErrorConfig, "open stream", fmt.Errorf("%w: format %q", cerrors.ErrUnsupported, format),
		)
	}
}
