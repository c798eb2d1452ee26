package main

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iamNilotpal/checksum/pkg/checksum"
)

func TestChecksumAt(t *testing.T) {
	t.Run("reads exactly size bytes", func(t *testing.T) {
		data := []byte("123456789 and more")
		sum, err := checksumAt(unsafe.Pointer(&data[0]), 9)
		require.NoError(t, err)
		assert.Equal(t, uint64(0xCBF43926), sum)
	})

	t.Run("null pointer with zero size", func(t *testing.T) {
		sum, err := checksumAt(nil, 0)
		require.NoError(t, err)
		assert.Zero(t, sum)
	})

	t.Run("null pointer with size", func(t *testing.T) {
		_, err := checksumAt(nil, 16)
		assert.ErrorIs(t, err, checksum.ErrInvalidArgument)
		assert.Equal(t, statusInvalidArgument, status(err))
	})

	assert.Equal(t, statusOK, status(nil))
}
