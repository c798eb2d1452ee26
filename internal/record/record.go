// Package record frames payloads with a CRC32 so they can be stored or sent
// and verified on the way back. Frames use the protobuf wire format:
//
//	1: varint  format version
//	2: varint  compression id (0 none, 1 zstd, 2 snappy)
//	3: bytes   payload, compressed when field 2 is non-zero
//	4: fixed32 CRC32-IEEE of the uncompressed payload
package record

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/iamNilotpal/checksum/internal/core/domain"
	"github.com/iamNilotpal/checksum/internal/core/ports"
	"github.com/iamNilotpal/checksum/pkg/checksum"
	cerrors "github.com/iamNilotpal/checksum/pkg/errors"
)

const Version = 1

const (
	fieldVersion     protowire.Number = 1
	fieldCompression protowire.Number = 2
	fieldPayload     protowire.Number = 3
	fieldChecksum    protowire.Number = 4
)

// Encoder frames payloads. A nil Compression stores payloads as-is.
type Encoder struct {
	Compression ports.CompressionPort
}

// Encode frames payload. The payload is compressed only when that makes it smaller.
func (e *Encoder) Encode(payload []byte) ([]byte, error) {
	sum := uint32(checksum.Sum(payload))
	body, id := payload, domain.CompressionNone

	if e != nil && e.Compression != nil {
		compressed, err := e.Compression.Compress(payload)
		if err != nil {
			return nil, cerrors.NewChecksumError(cerrors.ErrorCompression, "encode record", err)
		}
		if len(compressed) < len(payload) {
			body, id = compressed, domain.CompressionID(e.Compression.ID())
		}
	}

	frame := make([]byte, 0, len(body)+16)
	frame = protowire.AppendTag(frame, fieldVersion, protowire.VarintType)
	frame = protowire.AppendVarint(frame, Version)
	frame = protowire.AppendTag(frame, fieldCompression, protowire.VarintType)
	frame = protowire.AppendVarint(frame, uint64(id))
	frame = protowire.AppendTag(frame, fieldPayload, protowire.BytesType)
	frame = protowire.AppendBytes(frame, body)
	frame = protowire.AppendTag(frame, fieldChecksum, protowire.Fixed32Type)
	frame = protowire.AppendFixed32(frame, sum)

	return frame, nil
}

// Decode parses a frame, decompresses its payload with the matching codec
// and verifies the CRC32. Unknown fields are skipped.
func Decode(frame []byte, codecs map[domain.CompressionID]ports.CompressionPort) ([]byte, error) {
	var (
		version     uint64
		compression uint64
		payload     []byte
		sum         uint32
		hasVersion  bool
		hasPayload  bool
		hasChecksum bool
	)

	for len(frame) > 0 {
		num, typ, n := protowire.ConsumeTag(frame)
		if n < 0 {
			return nil, malformed(protowire.ParseError(n))
		}
		frame = frame[n:]

		switch {
		case num == fieldVersion && typ == protowire.VarintType:
			version, n = protowire.ConsumeVarint(frame)
			hasVersion = true
		case num == fieldCompression && typ == protowire.VarintType:
			compression, n = protowire.ConsumeVarint(frame)
		case num == fieldPayload && typ == protowire.BytesType:
			payload, n = protowire.ConsumeBytes(frame)
			hasPayload = true
		case num == fieldChecksum && typ == protowire.Fixed32Type:
			sum, n = protowire.ConsumeFixed32(frame)
			hasChecksum = true
		default:
			n = protowire.ConsumeFieldValue(num, typ, frame)
		}

		if n < 0 {
			return nil, malformed(protowire.ParseError(n))
		}
		frame = frame[n:]
	}

	if !hasVersion || !hasPayload || !hasChecksum {
		return nil, malformed(fmt.Errorf("missing version, payload or checksum"))
	}
	if version != Version {
		return nil, cerrors.NewChecksumError(
			cerrors.ErrorConfig, "decode record", fmt.Errorf("%w: version %d", cerrors.ErrUnsupported, version),
		)
	}

	if id := domain.CompressionID(compression); id != domain.CompressionNone {
		codec, ok := codecs[id]
		if !ok {
			return nil, cerrors.NewChecksumError(
				cerrors.ErrorConfig, "decode record", fmt.Errorf("%w: compression %s", cerrors.ErrUnsupported, id),
			)
		}

		decompressed, err := codec.Decompress(payload)
		if err != nil {
			return nil, cerrors.Corruption("decode record", "payload does not decompress: %v", err)
		}
		payload = decompressed
	}

	if got := uint32(checksum.Sum(payload)); got != sum {
		return nil, cerrors.Corruption("decode record", "checksum mismatch: stored %08x, computed %08x", sum, got)
	}

	// Detach from the caller's frame.
	return append([]byte(nil), payload...), nil
}

func malformed(err error) error {
	return cerrors.Corruption("decode record", "malformed frame: %v", err)
}
