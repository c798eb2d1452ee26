// Command libcrc32 exposes the CRC32 checksum through a C ABI.
//
// Build with:
//
//	go build -buildmode=c-shared -o libcrc32.so ./cmd/libcrc32
//
// which also emits libcrc32.h declaring:
//
//	uint64_t crc32_checksum(uint8_t *data, uint32_t size);
//	int crc32_checksum_checked(uint8_t *data, uint32_t size, uint64_t *out);
package main

// #include <stdint.h>
import "C"

import "unsafe"

// crc32_checksum returns the CRC32 of size bytes at data, or 0 when data is
// NULL and size is non-zero.
//
//export crc32_checksum
func crc32_checksum(data *C.uint8_t, size C.uint32_t) C.uint64_t {
	sum, err := checksumAt(unsafe.Pointer(data), uint32(size))
	if err != nil {
		return 0
	}
	return C.uint64_t(sum)
}

// crc32_checksum_checked stores the CRC32 in *out and returns 0, or returns
// EINVAL when data is NULL with a non-zero size or out is NULL.
//
//export crc32_checksum_checked
func crc32_checksum_checked(data *C.uint8_t, size C.uint32_t, out *C.uint64_t) C.int {
	if out == nil {
		return C.int(statusInvalidArgument)
	}

	sum, err := checksumAt(unsafe.Pointer(data), uint32(size))
	if err != nil {
		return C.int(status(err))
	}

	*out = C.uint64_t(sum)
	return C.int(statusOK)
}

func main() {}
