// Package page stamps fixed-size storage pages with a magic number and a
// CRC32 of their body, and verifies pages read back from disk.
//
// Page layout (little endian):
//
//	[0:8)   magic number 0xFACB03FE
//	[8:12)  CRC32 of page[12:]
//	[12:)   body
package page

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/iamNilotpal/checksum/pkg/checksum"
	cerrors "github.com/iamNilotpal/checksum/pkg/errors"
	"github.com/iamNilotpal/checksum/pkg/logger"
)

const (
	MagicNumber uint64 = 0xFACB03FE

	magicOffset = 0
	crcOffset   = 8

	// HeaderSize is the number of bytes reserved at the start of every page.
	HeaderSize = 12

	// MaxPageSize bounds the page buffer VerifyFile allocates.
	MaxPageSize = 64 * 1024 * 1024
)

// VerificationError describes why a page failed verification.
type VerificationError struct {
	Page              int64
	MagicIncorrect    bool
	ChecksumIncorrect bool
}

func (e *VerificationError) Error() string {
	switch {
	case e.MagicIncorrect && e.ChecksumIncorrect:
		return fmt.Sprintf("page %d: magic number and checksum are incorrect", e.Page)
	case e.MagicIncorrect:
		return fmt.Sprintf("page %d: magic number is incorrect", e.Page)
	default:
		return fmt.Sprintf("page %d: checksum is incorrect", e.Page)
	}
}

func (e *VerificationError) Unwrap() error {
	return cerrors.ErrCorruption
}

// Stamp writes the magic number and the CRC32 of the body into page.
func Stamp(page []byte) error {
	if len(page) < HeaderSize {
		return cerrors.InvalidArgument("stamp page", "page of %d bytes is smaller than the %d byte header", len(page), HeaderSize)
	}

	binary.LittleEndian.PutUint64(page[magicOffset:], MagicNumber)
	binary.LittleEndian.PutUint32(page[crcOffset:], bodyCRC(page))
	return nil
}

// Verify checks the magic number and CRC32 of a single page. It returns a
// *VerificationError, which matches errors.ErrCorruption, when either is wrong.
func Verify(page []byte) error {
	return verify(page, 0)
}

func verify(page []byte, index int64) error {
	if len(page) < HeaderSize {
		return cerrors.InvalidArgument("verify page", "page of %d bytes is smaller than the %d byte header", len(page), HeaderSize)
	}

	magicIncorrect := binary.LittleEndian.Uint64(page[magicOffset:]) != MagicNumber
	checksumIncorrect := binary.LittleEndian.Uint32(page[crcOffset:]) != bodyCRC(page)

	if magicIncorrect || checksumIncorrect {
		return &VerificationError{Page: index, MagicIncorrect: magicIncorrect, ChecksumIncorrect: checksumIncorrect}
	}
	return nil
}

func bodyCRC(page []byte) uint32 {
	return checksum.Update(0, page[HeaderSize:])
}

// Report summarises the verification of a paged file.
type Report struct {
	Pages  int64
	Errors []*VerificationError
}

// OK reports whether every page verified.
func (r *Report) OK() bool {
	return len(r.Errors) == 0
}

// Err combines every page error, or returns nil when all pages verified.
func (r *Report) Err() error {
	var err error
	for _, e := range r.Errors {
		err = multierr.Append(err, e)
	}
	return err
}

// VerifyFile checks every page of size bytes read from r. Corrupted pages
// are collected in the report and logged; the returned error is reserved for
// invalid arguments, I/O failures, a trailing partial page and cancellation.
func VerifyFile(ctx context.Context, name string, r io.ReaderAt, size int64, pageSize int, log *zap.SugaredLogger) (*Report, error) {
	log = logger.OrNop(log)

	if pageSize < HeaderSize {
		return nil, cerrors.InvalidArgument("verify file", "page size %d is smaller than the %d byte header", pageSize, HeaderSize)
	}
	if pageSize > MaxPageSize {
		return nil, cerrors.InvalidArgument("verify file", "page size %d exceeds the %d byte limit", pageSize, MaxPageSize)
	}
	if size < 0 {
		return nil, cerrors.InvalidArgument("verify file", "negative size %d", size)
	}

	report := &Report{}
	if size > 0 && int64(pageSize) > size {
		return report, cerrors.Corruption("verify file", "%s: trailing partial page 0 of %d bytes", name, size)
	}

	buf := make([]byte, pageSize)

	for offset := int64(0); offset < size; offset += int64(pageSize) {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		index := offset / int64(pageSize)
		if size-offset < int64(pageSize) {
			return report, cerrors.Corruption("verify file", "%s: trailing partial page %d of %d bytes", name, index, size-offset)
		}

		if _, err := r.ReadAt(buf, offset); err != nil && !errors.Is(err, io.EOF) {
			return report, cerrors.NewChecksumError(cerrors.ErrorStorage, "read page", err)
		}

		report.Pages++
		if err := verify(buf, index); err != nil {
			var ve *VerificationError
			if !errors.As(err, &ve) {
				return report, err
			}

			report.Errors = append(report.Errors, ve)
			log.Errorw(
				"page verification failed",
				"file", name, "page", index, "magicIncorrect", ve.MagicIncorrect, "checksumIncorrect", ve.ChecksumIncorrect,
			)
		}
	}

	log.Infow("file verified", "file", name, "pages", report.Pages, "corrupted", len(report.Errors))
	return report, nil
}
