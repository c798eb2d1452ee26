package checksum

import (
	"hash"
	"hash/crc64"
)

type crc64Table struct {
	name  string
	table *crc64.Table
}

func NewCRC64ISO() *crc64Table {
	return &crc64Table{
		name:  string(CRC64ISO),
		table: crc64.MakeTable(crc64.ISO),
	}
}

func NewCRC64ECMA() *crc64Table {
	return &crc64Table{
		name:  string(CRC64ECMA),
		table: crc64.MakeTable(crc64.ECMA),
	}
}

func (c *crc64Table) Calculate(data []byte) uint64 {
	return crc64.Checksum(data, c.table)
}

func (c *crc64Table) Verify(data []byte, expected uint64) bool {
	return c.Calculate(data) == expected
}

func (c *crc64Table) NewHash() hash.Hash {
	return crc64.New(c.table)
}

func (c *crc64Table) Size() uint8 {
	return crc64.Size
}

func (c *crc64Table) Name() string {
	return c.name
}
