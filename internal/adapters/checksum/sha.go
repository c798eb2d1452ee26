package checksum

import (
	sha1_lib "crypto/sha1"
	sha256_lib "crypto/sha256"
	"hash"
)

// digest adapts a cryptographic hash, keeping the first 8 bytes of the sum.
type digest struct {
	name string
	size uint8
	new  func() hash.Hash
}

func NewSHA1() *digest {
	return &digest{name: string(SHA1), size: sha1_lib.Size, new: sha1_lib.New}
}

func NewSHA256() *digest {
	return &digest{name: string(SHA256), size: sha256_lib.Size, new: sha256_lib.New}
}

func (d *digest) Calculate(data []byte) uint64 {
	h := d.new()
	h.Write(data)
	return truncate(h.Sum(nil))
}

func (d *digest) Verify(data []byte, expected uint64) bool {
	return d.Calculate(data) == expected
}

func (d *digest) NewHash() hash.Hash {
	return d.new()
}

func (d *digest) Size() uint8 {
	return d.size
}

func (d *digest) Name() string {
	return d.name
}
