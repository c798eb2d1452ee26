package page

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/iamNilotpal/checksum/pkg/checksum"
	cerrors "github.com/iamNilotpal/checksum/pkg/errors"
)

const pageSize = 64

func stampedPages(t *testing.T, n int) []byte {
	t.Helper()
	data := make([]byte, n*pageSize)
	for i := range data {
		data[i] = byte(i * 7)
	}
	for i := 0; i < n; i++ {
		require.NoError(t, Stamp(data[i*pageSize:(i+1)*pageSize]))
	}
	return data
}

func TestStamp(t *testing.T) {
	page := make([]byte, pageSize)
	copy(page[HeaderSize:], "page body")
	require.NoError(t, Stamp(page))

	assert.Equal(t, MagicNumber, binary.LittleEndian.Uint64(page))
	assert.Equal(t, uint64(binary.LittleEndian.Uint32(page[8:])), checksum.Sum(page[HeaderSize:]))
	assert.NoError(t, Verify(page))

	t.Run("header-only page", func(t *testing.T) {
		page := make([]byte, HeaderSize)
		require.NoError(t, Stamp(page))
		assert.NoError(t, Verify(page))
	})

	t.Run("too small", func(t *testing.T) {
		assert.ErrorIs(t, Stamp(make([]byte, HeaderSize-1)), cerrors.ErrInvalidArgument)
		assert.ErrorIs(t, Verify(nil), cerrors.ErrInvalidArgument)
	})
}

func TestVerify(t *testing.T) {
	t.Run("body corruption", func(t *testing.T) {
		page := stampedPages(t, 1)
		page[pageSize-1] ^= 0x01

		err := Verify(page)
		require.Error(t, err)
		assert.ErrorIs(t, err, cerrors.ErrCorruption)

		var ve *VerificationError
		require.True(t, errors.As(err, &ve))
		assert.True(t, ve.ChecksumIncorrect)
		assert.False(t, ve.MagicIncorrect)
		assert.Contains(t, err.Error(), "checksum is incorrect")
	})

	t.Run("magic corruption", func(t *testing.T) {
		page := stampedPages(t, 1)
		page[0] ^= 0xff

		var ve *VerificationError
		require.True(t, errors.As(Verify(page), &ve))
		assert.True(t, ve.MagicIncorrect)
		assert.False(t, ve.ChecksumIncorrect)
	})

	t.Run("unstamped page", func(t *testing.T) {
		page := make([]byte, pageSize)
		page[HeaderSize] = 1

		var ve *VerificationError
		require.True(t, errors.As(Verify(page), &ve))
		assert.True(t, ve.MagicIncorrect)
		assert.True(t, ve.ChecksumIncorrect)
		assert.Contains(t, ve.Error(), "magic number and checksum")
	})
}

func TestVerifyFile(t *testing.T) {
	t.Run("clean file", func(t *testing.T) {
		data := stampedPages(t, 4)
		report, err := VerifyFile(context.Background(), "clean", bytes.NewReader(data), int64(len(data)), pageSize, nil)
		require.NoError(t, err)

		assert.Equal(t, int64(4), report.Pages)
		assert.True(t, report.OK())
		assert.NoError(t, report.Err())
	})

	t.Run("reports every corrupted page", func(t *testing.T) {
		core, logs := observer.New(zap.InfoLevel)
		data := stampedPages(t, 5)
		data[1*pageSize+20] ^= 0x10
		data[3*pageSize+2] ^= 0x10

		report, err := VerifyFile(context.Background(), "dirty", bytes.NewReader(data), int64(len(data)), pageSize, zap.New(core).Sugar())
		require.NoError(t, err)

		require.Len(t, report.Errors, 2)
		assert.Equal(t, int64(1), report.Errors[0].Page)
		assert.True(t, report.Errors[0].ChecksumIncorrect)
		assert.Equal(t, int64(3), report.Errors[1].Page)
		assert.True(t, report.Errors[1].MagicIncorrect)
		assert.Len(t, multierr.Errors(report.Err()), 2)

		assert.Equal(t, 2, logs.FilterMessage("page verification failed").Len())
		assert.Equal(t, 1, logs.FilterMessage("file verified").Len())
	})

	t.Run("trailing partial page", func(t *testing.T) {
		data := append(stampedPages(t, 2), 1, 2, 3)
		report, err := VerifyFile(context.Background(), "short", bytes.NewReader(data), int64(len(data)), pageSize, nil)
		assert.ErrorIs(t, err, cerrors.ErrCorruption)
		assert.Equal(t, int64(2), report.Pages)
	})

	t.Run("empty file", func(t *testing.T) {
		report, err := VerifyFile(context.Background(), "empty", bytes.NewReader(nil), 0, pageSize, nil)
		require.NoError(t, err)
		assert.Zero(t, report.Pages)
	})

	t.Run("invalid page size", func(t *testing.T) {
		_, err := VerifyFile(context.Background(), "x", bytes.NewReader(nil), 0, 4, nil)
		assert.ErrorIs(t, err, cerrors.ErrInvalidArgument)

		_, err = VerifyFile(context.Background(), "x", bytes.NewReader(nil), 4096, MaxPageSize*2, nil)
		assert.ErrorIs(t, err, cerrors.ErrInvalidArgument)
	})

	t.Run("page larger than file", func(t *testing.T) {
		data := stampedPages(t, 1)
		report, err := VerifyFile(context.Background(), "small", bytes.NewReader(data), int64(len(data)), MaxPageSize, nil)
		assert.ErrorIs(t, err, cerrors.ErrCorruption)
		require.NotNil(t, report)
		assert.Zero(t, report.Pages)
	})

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		data := stampedPages(t, 2)
		_, err := VerifyFile(ctx, "x", bytes.NewReader(data), int64(len(data)), pageSize, nil)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
