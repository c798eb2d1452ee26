package checksum

import (
	"hash"

	"github.com/klauspost/crc32"

	core "github.com/iamNilotpal/checksum/pkg/checksum"
)

type crc32IEEE struct {
	name string
}

// NewCRC32IEEE returns the standard CRC32 used by zip, gzip and Ethernet.
func NewCRC32IEEE() *crc32IEEE {
	return &crc32IEEE{name: string(CRC32IEEE)}
}

func (c *crc32IEEE) Calculate(data []byte) uint64 {
	return core.Sum(data)
}

func (c *crc32IEEE) Verify(data []byte, expected uint64) bool {
	return core.Verify(data, expected)
}

func (c *crc32IEEE) NewHash() hash.Hash {
	return core.New()
}

func (c *crc32IEEE) Size() uint8 {
	return core.Size
}

func (c *crc32IEEE) Name() string {
	return c.name
}

// crc32Table serves CRC32 variants that differ only by polynomial.
type crc32Table struct {
	name  string
	table *crc32.Table
}

func NewCRC32Castagnoli() *crc32Table {
	return &crc32Table{
		name:  string(CRC32Castagnoli),
		table: crc32.MakeTable(crc32.Castagnoli),
	}
}

func NewCRC32Koopman() *crc32Table {
	return &crc32Table{
		name:  string(CRC32Koopman),
		table: crc32.MakeTable(crc32.Koopman),
	}
}

func (c *crc32Table) Calculate(data []byte) uint64 {
	return uint64(crc32.Checksum(data, c.table))
}

func (c *crc32Table) Verify(data []byte, expected uint64) bool {
	return c.Calculate(data) == expected
}

func (c *crc32Table) NewHash() hash.Hash {
	return crc32.New(c.table)
}

func (c *crc32Table) Size() uint8 {
	return crc32.Size
}

func (c *crc32Table) Name() string {
	return c.name
}
