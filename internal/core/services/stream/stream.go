// Package stream computes checksums over readers and files, optionally
// decoding compressed input first, and fans out across files with a bounded
// worker pool.
package stream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/iamNilotpal/checksum/internal/adapters/checksum"
	"github.com/iamNilotpal/checksum/internal/adapters/compression"
	"github.com/iamNilotpal/checksum/internal/core/domain"
	"github.com/iamNilotpal/checksum/internal/core/ports"
	cerrors "github.com/iamNilotpal/checksum/pkg/errors"
	"github.com/iamNilotpal/checksum/pkg/logger"
	"github.com/iamNilotpal/checksum/pkg/pool"
	"github.com/iamNilotpal/checksum/pkg/system"
)

const (
	DefaultChunkSize   = 64 * 1024 // 64KB
	DefaultConcurrency = 4
)

// Options configures a Summer. Zero values select the defaults.
type Options struct {
	// Checksum selects the algorithm. Nil selects crc32-ieee.
	Checksum *domain.ChecksumOptions

	// ChunkSize is the number of bytes read per iteration.
	//
	// Default: 64KB
	ChunkSize int

	// Concurrency bounds the number of files summed in parallel by SumFiles.
	//
	// Default: 4
	Concurrency int

	// Decompression decodes input before it is checksummed.
	//
	// Default: none
	Decompression domain.CompressionFormat

	Logger *zap.SugaredLogger
}

// Result describes the checksum of one input.
type Result struct {
	Name      string                   `json:"name"`
	Algorithm string                   `json:"algorithm"`
	Sum       uint64                   `json:"sum"`
	Size      uint8                    `json:"size"`
	Bytes     int64                    `json:"bytes"`
	Format    domain.CompressionFormat `json:"format"`
	Err       error                    `json:"-"`
}

// Hex formats the sum using as many hex digits as the algorithm has bytes,
// capped at 16.
func (r *Result) Hex() string {
	digits := int(r.Size) * 2
	if digits > 16 || digits == 0 {
		digits = 16
	}
	return fmt.Sprintf("%0*x", digits, r.Sum)
}

// Summer computes checksums over streams. It is safe for concurrent use.
type Summer struct {
	checksum    ports.ChecksumPort
	format      domain.CompressionFormat
	concurrency int
	buffers     *pool.BufferPool
	log         *zap.SugaredLogger
}

// New builds a Summer, validating the algorithm selection.
func New(opts Options) (*Summer, error) {
	if opts.Checksum != nil {
		if err := checksum.Validate(opts.Checksum); err != nil {
			return nil, err
		}
	}

	port, err := checksum.FromOptions(opts.Checksum)
	if err != nil {
		return nil, err
	}

	if opts.ChunkSize <= 0 {
		opts.ChunkSize = DefaultChunkSize
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	if opts.Decompression == "" {
		opts.Decompression = domain.FormatNone
	}

	return &Summer{
		checksum:    port,
		format:      opts.Decompression,
		concurrency: opts.Concurrency,
		buffers:     pool.NewBufferPool(opts.ChunkSize),
		log:         logger.OrNop(opts.Logger),
	}, nil
}

// Algorithm returns the name of the configured algorithm.
func (s *Summer) Algorithm() string {
	return s.checksum.Name()
}

// Sum reads r to the end and returns its checksum. Bytes counts the
// decoded bytes that were checksummed. The context is checked between chunks.
func (s *Summer) Sum(ctx context.Context, name string, r io.Reader) (*Result, error) {
	if r == nil {
		return nil, cerrors.InvalidArgument("sum", "nil reader for %q", name)
	}

	decoded, format, err := compression.NewReader(s.format, r)
	if err != nil {
		return nil, err
	}
	defer decoded.Close()

	h := s.checksum.NewHash()
	buf := s.buffers.Get()
	defer s.buffers.Put(buf)

	var total int64
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		n, err := decoded.Read(*buf)
		if n > 0 {
			h.Write((*buf)[:n])
			total += int64(n)
		}

		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			category := cerrors.ErrorStorage
			if format != domain.FormatNone {
				category = cerrors.ErrorCompression
			}
			return nil, cerrors.NewChecksumError(category, "read "+name, err)
		}
	}

	result := &Result{
		Name:      name,
		Algorithm: s.checksum.Name(),
		Sum:       checksum.Value(h),
		Size:      s.checksum.Size(),
		Bytes:     total,
		Format:    format,
	}

	s.log.Debugw("checksum computed", "name", name, "algorithm", result.Algorithm, "sum", result.Hex(), "bytes", total)
	return result, nil
}

// SumFile opens path and checksums its contents.
func (s *Summer) SumFile(ctx context.Context, path string) (*Result, error) {
	var result *Result

	err := system.RunWithContext(ctx, func(ctx context.Context) error {
		file, err := os.Open(path)
		if err != nil {
			return cerrors.NewChecksumError(cerrors.ErrorStorage, "open "+path, err)
		}
		defer file.Close()

		result, err = s.Sum(ctx, path, file)
		return err
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// SumFiles checksums every path using up to Concurrency workers. The returned
// slice has one entry per path, in input order; failed entries carry their
// error in Result.Err. The returned error combines every failure.
func (s *Summer) SumFiles(ctx context.Context, paths []string) ([]*Result, error) {
	results := make([]*Result, len(paths))
	jobs := make(chan int)

	workers := min(s.concurrency, len(paths))
	var wg sync.WaitGroup
	wg.Add(workers)

	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range jobs {
				result, err := s.SumFile(ctx, paths[i])
				if err != nil {
					s.log.Warnw("checksum failed", "path", paths[i], "error", err)
					result = &Result{Name: paths[i], Algorithm: s.checksum.Name(), Size: s.checksum.Size(), Err: err}
				}
				results[i] = result
			}
		}()
	}

feed:
	for i := range paths {
		select {
		case jobs <- i:
		case <-ctx.Done():
			for j := i; j < len(paths); j++ {
				results[j] = &Result{Name: paths[j], Algorithm: s.checksum.Name(), Size: s.checksum.Size(), Err: ctx.Err()}
			}
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	var errs error
	for _, result := range results {
		if result.Err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", result.Name, result.Err))
		}
	}

	return results, errs
}
