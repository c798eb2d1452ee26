package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	cerrors "github.com/iamNilotpal/checksum/pkg/errors"
)

const (
	MinChunkSize = 512              // 512B
	MaxChunkSize = 16 * 1024 * 1024 // 16MB
	MaxWorkers   = 256
	MinPageSize  = 12               // magic + crc
	MaxPageSize  = 64 * 1024 * 1024 // 64MB
)

type Config struct {
	Checksum ChecksumConfig `yaml:"checksum"`
	Stream   StreamConfig   `yaml:"stream"`
	Page     PageConfig     `yaml:"page"`
	Log      LogConfig      `yaml:"log"`
}

// Holds checksum algorithm selection.
type ChecksumConfig struct {
	Algorithm string `yaml:"algorithm"` // Registry name, e.g. crc32-ieee
}

// Holds settings for streaming inputs.
type StreamConfig struct {
	ChunkSize     int    `yaml:"chunk_size"`    // Bytes read per iteration
	Concurrency   int    `yaml:"concurrency"`   // Files summed in parallel
	Decompression string `yaml:"decompression"` // none, zstd, snappy or auto
}

// Holds settings for page integrity verification.
type PageConfig struct {
	Size int `yaml:"size"` // Page size in bytes
}

type LogConfig struct {
	Level       string `yaml:"level"`       // debug, info, warn or error
	Development bool   `yaml:"development"` // Human readable console output
}

// Returns a Config struct with reasonable default values.
func DefaultConfig() *Config {
	return &Config{
		Checksum: ChecksumConfig{Algorithm: "crc32-ieee"},
		Stream: StreamConfig{
			ChunkSize:     64 * 1024, // 64KB
			Concurrency:   4,
			Decompression: "none",
		},
		Page: PageConfig{Size: 4096},
		Log:  LogConfig{Level: "info"},
	}
}

// Loads configuration from a YAML file. Fields missing from the file keep
// their default values.
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// Validate checks every section and returns the first ValidationError found.
func (c *Config) Validate() error {
	if c.Checksum.Algorithm == "" {
		return cerrors.NewValidationError("checksum.algorithm", c.Checksum.Algorithm, fmt.Errorf("algorithm is required"))
	}

	if err := validateStreamConfig(&c.Stream); err != nil {
		return err
	}

	if c.Page.Size < MinPageSize || c.Page.Size > MaxPageSize || c.Page.Size&(c.Page.Size-1) != 0 {
		return cerrors.NewValidationError(
			"page.size", c.Page.Size,
			fmt.Errorf("page size must be a power of 2 between %d and %d", MinPageSize, MaxPageSize),
		)
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return cerrors.NewValidationError("log.level", c.Log.Level, fmt.Errorf("unknown log level"))
	}

	return nil
}

func validateStreamConfig(config *StreamConfig) error {
	if config.ChunkSize < MinChunkSize || config.ChunkSize > MaxChunkSize {
		return cerrors.NewValidationError(
			"stream.chunk_size", config.ChunkSize,
			fmt.Errorf("chunk_size must be between %d and %d", MinChunkSize, MaxChunkSize),
		)
	}

	if config.Concurrency < 1 || config.Concurrency > MaxWorkers {
		return cerrors.NewValidationError(
			"stream.concurrency", config.Concurrency,
			fmt.Errorf("concurrency must be between 1 and %d", MaxWorkers),
		)
	}

	switch config.Decompression {
	case "none", "zstd", "snappy", "auto":
	default:
		return cerrors.NewValidationError(
			"stream.decompression", config.Decompression, fmt.Errorf("decompression must be none, zstd, snappy or auto"),
		)
	}

	return nil
}
