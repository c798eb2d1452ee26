package errors

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidArgument is returned when a caller passes input that can never
	// succeed, such as a missing buffer paired with a non-zero length.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrCorruption is returned when stored data does not match its checksum.
	ErrCorruption = errors.New("data corruption detected")

	// ErrUnsupported is returned for unknown algorithms or formats.
	ErrUnsupported = errors.New("unsupported")
)

// ErrorCategory classifies different types of errors that can occur while
// computing or verifying checksums. This helps callers decide how to react
// and keeps log output consistent.
type ErrorCategory int

const (
	// ErrorInvalidArgument indicates the caller supplied unusable input,
	// such as a nil buffer with a non-zero size.
	ErrorInvalidArgument ErrorCategory = iota + 1

	// ErrorStorage indicates errors related to underlying I/O such as
	// missing files, permissions or short reads.
	ErrorStorage

	// ErrorCompression indicates errors while decoding compressed input.
	ErrorCompression

	// ErrorCorruption indicates stored data failed integrity verification.
	ErrorCorruption

	// ErrorConfig indicates invalid or unsupported configuration.
	ErrorConfig
)

// String returns the string representation of the error category.
func (c ErrorCategory) String() string {
	switch c {
	case ErrorInvalidArgument:
		return "invalid_argument"
	case ErrorStorage:
		return "storage"
	case ErrorCompression:
		return "compression"
	case ErrorCorruption:
		return "corruption"
	case ErrorConfig:
		return "config"
	default:
		return "unknown"
	}
}

// ChecksumError wraps an underlying error with the operation that failed
// and its category.
type ChecksumError struct {
	Err       error
	Operation string
	Timestamp time.Time
	Category  ErrorCategory
}

// NewChecksumError creates a ChecksumError stamped with the current time.
func NewChecksumError(category ErrorCategory, operation string, err error) *ChecksumError {
	return &ChecksumError{
		Err:       err,
		Category:  category,
		Operation: operation,
		Timestamp: time.Now(),
	}
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("[%v] %s: %v", e.Category, e.Operation, e.Err)
}

func (e *ChecksumError) Unwrap() error {
	return e.Err
}

// IsRetryAble returns whether errors of this category can be retried.
// Checksums are deterministic, so only I/O failures may succeed on retry.
func (e *ChecksumError) IsRetryAble() bool {
	switch e.Category {
	case ErrorStorage:
		return true
	default:
		return false
	}
}

// InvalidArgument builds an ErrorInvalidArgument error wrapping ErrInvalidArgument.
func InvalidArgument(operation, format string, args ...any) *ChecksumError {
	return NewChecksumError(
		ErrorInvalidArgument, operation, fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...)),
	)
}

// Corruption builds an ErrorCorruption error wrapping ErrCorruption.
func Corruption(operation, format string, args ...any) *ChecksumError {
	return NewChecksumError(
		ErrorCorruption, operation, fmt.Errorf("%w: %s", ErrCorruption, fmt.Sprintf(format, args...)),
	)
}

// Category reports the category of the first ChecksumError in err's chain.
func Category(err error) ErrorCategory {
	var ce *ChecksumError
	if errors.As(err, &ce) {
		return ce.Category
	}
	return 0
}
