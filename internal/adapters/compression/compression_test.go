package compression

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iamNilotpal/checksum/internal/core/domain"
	cerrors "github.com/iamNilotpal/checksum/pkg/errors"
)

var sample = []byte(strings.Repeat("compressible checksum payload ", 64))

func zstdStream(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w, err := zstd.NewWriter(&buf)
	require.NoError(t, err)
	_, err = w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func snappyStream(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := snappy.NewBufferedWriter(&buf)
	_, err := w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestBlockCodecs(t *testing.T) {
	codecs, err := NewCodecs()
	require.NoError(t, err)
	defer codecs.Close()

	for id, codec := range codecs {
		t.Run(id.String(), func(t *testing.T) {
			assert.Equal(t, uint8(id), codec.ID())

			compressed, err := codec.Compress(sample)
			require.NoError(t, err)
			assert.Less(t, len(compressed), len(sample))

			restored, err := codec.Decompress(compressed)
			require.NoError(t, err)
			assert.Equal(t, sample, restored)
		})

		t.Run(id.String()+" keeps small payloads", func(t *testing.T) {
			small := []byte("tiny")
			out, err := codec.Compress(small)
			require.NoError(t, err)
			assert.Equal(t, small, out)
		})

		t.Run(id.String()+" rejects garbage", func(t *testing.T) {
			_, err := codec.Decompress([]byte("definitely not compressed data"))
			require.Error(t, err)
			assert.Equal(t, cerrors.ErrorCompression, cerrors.Category(err))
		})
	}
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(DefaultOptions()))

	err := Validate(&domain.CompressionOptions{Level: BestLevel + 1})
	require.True(t, cerrors.IsValidationError(err))
	assert.Equal(t, "level", cerrors.AsValidationError(err).Field)

	_, err = NewZstdCompression(Options{Level: 0})
	assert.Error(t, err)
}

func TestNewReader(t *testing.T) {
	cases := []struct {
		name   string
		format domain.CompressionFormat
		input  []byte
		want   domain.CompressionFormat
	}{
		{"plain", domain.FormatNone, sample, domain.FormatNone},
		{"empty format means none", "", sample, domain.FormatNone},
		{"zstd", domain.FormatZstd, zstdStream(t, sample), domain.FormatZstd},
		{"snappy", domain.FormatSnappy, snappyStream(t, sample), domain.FormatSnappy},
		{"auto zstd", domain.FormatAuto, zstdStream(t, sample), domain.FormatZstd},
		{"auto snappy", domain.FormatAuto, snappyStream(t, sample), domain.FormatSnappy},
		{"auto plain", domain.FormatAuto, sample, domain.FormatNone},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r, format, err := NewReader(tc.format, bytes.NewReader(tc.input))
			require.NoError(t, err)
			defer r.Close()

			assert.Equal(t, tc.want, format)
			got, err := io.ReadAll(r)
			require.NoError(t, err)
			assert.Equal(t, sample, got)
		})
	}

	t.Run("auto with short input", func(t *testing.T) {
		r, format, err := NewReader(domain.FormatAuto, bytes.NewReader([]byte("ab")))
		require.NoError(t, err)
		assert.Equal(t, domain.FormatNone, format)

		got, err := io.ReadAll(r)
		require.NoError(t, err)
		assert.Equal(t, []byte("ab"), got)
	})

	t.Run("unknown format", func(t *testing.T) {
		_, _, err := NewReader("gzip", bytes.NewReader(sample))
		assert.ErrorIs(t, err, cerrors.ErrUnsupported)
	})
}
