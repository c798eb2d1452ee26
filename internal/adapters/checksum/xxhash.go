package checksum

import (
	"hash"

	"github.com/cespare/xxhash/v2"
)

type xxhash64 struct {
	name string
}

func NewXXHash64() *xxhash64 {
	return &xxhash64{name: string(XXHash64)}
}

func (x *xxhash64) Calculate(data []byte) uint64 {
	return xxhash.Sum64(data)
}

func (x *xxhash64) Verify(data []byte, expected uint64) bool {
	return xxhash.Sum64(data) == expected
}

func (x *xxhash64) NewHash() hash.Hash {
	return xxhash.New()
}

func (x *xxhash64) Size() uint8 {
	return 8
}

func (x *xxhash64) Name() string {
	return x.name
}
