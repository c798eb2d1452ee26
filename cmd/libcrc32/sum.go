package main

import (
	"unsafe"

	"github.com/iamNilotpal/checksum/pkg/checksum"
)

const (
	statusOK              = 0
	statusInvalidArgument = 22 // EINVAL
)

// checksumAt reads size bytes at data for the duration of the call only.
func checksumAt(data unsafe.Pointer, size uint32) (uint64, error) {
	var buf []byte
	if data != nil {
		buf = unsafe.Slice((*byte)(data), size)
	}
	return checksum.Checksum(buf, size)
}

// status maps a checksum error to an errno-style code. Checksum only fails
// on invalid arguments.
func status(err error) int {
	if err == nil {
		return statusOK
	}
	return statusInvalidArgument
}
