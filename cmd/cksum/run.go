package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/iamNilotpal/checksum/config"
	"github.com/iamNilotpal/checksum/internal/adapters/checksum"
	"github.com/iamNilotpal/checksum/internal/core/domain"
	"github.com/iamNilotpal/checksum/internal/core/services/page"
	"github.com/iamNilotpal/checksum/internal/core/services/stream"
	"github.com/iamNilotpal/checksum/internal/serialize"
	core "github.com/iamNilotpal/checksum/pkg/checksum"
	cerrors "github.com/iamNilotpal/checksum/pkg/errors"
	"github.com/iamNilotpal/checksum/pkg/fs"
	"github.com/iamNilotpal/checksum/pkg/logger"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
	stdinName   = "-"
)

type flags struct {
	configPath  string
	algorithm   string
	decompress  string
	logLevel    string
	extension   string
	exclude     string
	pageSize    int
	concurrency int
	recursive   bool
	jsonOutput  bool
	pages       bool
	cpu         bool
}

type jsonResult struct {
	Name      string  `json:"name"`
	Algorithm string  `json:"algorithm,omitempty"`
	Sum       string  `json:"sum,omitempty"`
	Bytes     int64   `json:"bytes"`
	Format    string  `json:"format,omitempty"`
	Pages     int64   `json:"pages,omitempty"`
	Corrupted []int64 `json:"corrupted,omitempty"`
	Error     string  `json:"error,omitempty"`
}

func parseFlags(args []string, stderr io.Writer) (*flags, []string, map[string]bool, error) {
	f := &flags{}
	set := flag.NewFlagSet("cksum", flag.ContinueOnError)
	set.SetOutput(stderr)
	set.Usage = func() {
		fmt.Fprintf(stderr, "usage: cksum [flags] [path ...]\n\n")
		fmt.Fprintf(stderr, "Reads standard input when no path or %q is given; a repeated %q is read once.\n\n", stdinName, stdinName)
		set.PrintDefaults()
	}

	names := make([]string, 0, len(checksum.Algorithms()))
	for _, a := range checksum.Algorithms() {
		names = append(names, string(a))
	}

	set.StringVar(&f.configPath, "config", "", "path to a YAML configuration file")
	set.StringVar(&f.algorithm, "algo", "", "checksum algorithm: "+strings.Join(names, ", "))
	set.StringVar(&f.decompress, "decompress", "", "decode input first: none, zstd, snappy or auto")
	set.StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn or error")
	set.StringVar(&f.extension, "ext", "", "with -r, only include files with this extension (e.g. .bin)")
	set.StringVar(&f.exclude, "exclude", "", "with -r, comma separated directory names to skip")
	set.IntVar(&f.pageSize, "page-size", 0, "page size used by -pages")
	set.IntVar(&f.concurrency, "concurrency", 0, "number of files processed in parallel")
	set.BoolVar(&f.recursive, "r", false, "recurse into directories")
	set.BoolVar(&f.jsonOutput, "json", false, "print results as JSON")
	set.BoolVar(&f.pages, "pages", false, "verify page magic numbers and checksums instead of printing sums")
	set.BoolVar(&f.cpu, "cpu", false, "report whether CRC32 hardware acceleration is available and exit")

	if err := set.Parse(args); err != nil {
		return nil, nil, nil, err
	}

	visited := map[string]bool{}
	set.Visit(func(fl *flag.Flag) { visited[fl.Name] = true })

	return f, set.Args(), visited, nil
}

func loadConfig(f *flags, visited map[string]bool) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if f.configPath != "" {
		loaded, err := config.LoadConfig(f.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if visited["algo"] {
		cfg.Checksum.Algorithm = f.algorithm
	}
	if visited["decompress"] {
		cfg.Stream.Decompression = f.decompress
	}
	if visited["concurrency"] {
		cfg.Stream.Concurrency = f.concurrency
	}
	if visited["page-size"] {
		cfg.Page.Size = f.pageSize
	}
	if visited["log-level"] {
		cfg.Log.Level = f.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	f, paths, visited, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	if f.cpu {
		fmt.Fprintf(stdout, "crc32 acceleration: %t\n", core.Accelerated())
		return exitOK
	}

	cfg, err := loadConfig(f, visited)
	if err != nil {
		if ve := cerrors.AsValidationError(err); ve != nil {
			fmt.Fprintf(stderr, "cksum: invalid %s (%v): %v\n", ve.Field, ve.Value, ve.Err)
		} else {
			fmt.Fprintf(stderr, "cksum: %v\n", err)
		}
		return exitUsage
	}

	log, err := logger.NewWithConfig("cksum", cfg.Log)
	if err != nil {
		fmt.Fprintf(stderr, "cksum: %v\n", err)
		return exitFailure
	}
	defer log.Sync()

	log = log.With("run_id", uuid.NewString())

	inputs, err := resolveInputs(fs.NewLocalFileSystem(), paths, f)
	if err != nil {
		log.Errorw("resolve inputs", "error", err)
		fmt.Fprintf(stderr, "cksum: %v\n", err)
		return exitFailure
	}

	log.Debugw("starting", "inputs", len(inputs), "algorithm", cfg.Checksum.Algorithm, "pages", f.pages)

	if f.pages {
		return verifyPages(ctx, inputs, stdin, cfg, f.jsonOutput, stdout, stderr, log)
	}
	return sum(ctx, inputs, stdin, cfg, f.jsonOutput, stdout, stderr, log)
}

// resolveInputs expands directories when recursion is enabled. Standard
// input appears at most once.
func resolveInputs(lfs fs.FileSystem, paths []string, f *flags) ([]string, error) {
	if len(paths) == 0 {
		return []string{stdinName}, nil
	}

	var excludes []string
	if f.exclude != "" {
		excludes = strings.Split(f.exclude, ",")
	}

	inputs := make([]string, 0, len(paths))
	seenStdin := false
	for _, path := range paths {
		if path == stdinName {
			if !seenStdin {
				inputs = append(inputs, path)
				seenStdin = true
			}
			continue
		}

		exists, err := lfs.Exists(path)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", path, err)
		}
		if !exists {
			// Missing files are reported per input by the summer.
			inputs = append(inputs, path)
			continue
		}

		dir, err := lfs.IsDir(path)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", path, err)
		}
		if !dir {
			inputs = append(inputs, path)
			continue
		}
		if !f.recursive {
			return nil, fmt.Errorf("%s is a directory (use -r)", path)
		}

		files, err := lfs.SearchFiles(path, excludes, f.extension)
		if err != nil {
			return nil, fmt.Errorf("search %s: %w", path, err)
		}
		inputs = append(inputs, files...)
	}

	return inputs, nil
}

func sum(
	ctx context.Context, inputs []string, stdin io.Reader, cfg *config.Config,
	asJSON bool, stdout, stderr io.Writer, log *zap.SugaredLogger,
) int {
	summer, err := stream.New(stream.Options{
		Checksum:      &domain.ChecksumOptions{Algorithm: domain.ChecksumAlgorithm(cfg.Checksum.Algorithm)},
		ChunkSize:     cfg.Stream.ChunkSize,
		Concurrency:   cfg.Stream.Concurrency,
		Decompression: domain.CompressionFormat(cfg.Stream.Decompression),
		Logger:        log,
	})
	if err != nil {
		fmt.Fprintf(stderr, "cksum: %v\n", err)
		return exitUsage
	}

	files := make([]string, 0, len(inputs))
	for _, input := range inputs {
		if input != stdinName {
			files = append(files, input)
		}
	}

	fileResults, _ := summer.SumFiles(ctx, files)

	results := make([]*stream.Result, 0, len(inputs))
	for _, input := range inputs {
		if input == stdinName {
			result, err := summer.Sum(ctx, stdinName, stdin)
			if err != nil {
				result = &stream.Result{Name: stdinName, Algorithm: summer.Algorithm(), Err: err}
			}
			results = append(results, result)
			continue
		}
		results = append(results, fileResults[0])
		fileResults = fileResults[1:]
	}

	code := exitOK
	out := make([]jsonResult, 0, len(results))
	for _, result := range results {
		if result.Err != nil {
			code = exitFailure
			fmt.Fprintf(stderr, "cksum: %s: %v\n", result.Name, result.Err)
			out = append(out, jsonResult{Name: result.Name, Algorithm: result.Algorithm, Error: result.Err.Error()})
			continue
		}

		if !asJSON {
			fmt.Fprintf(stdout, "%s %d %s\n", result.Hex(), result.Bytes, result.Name)
		}
		out = append(out, jsonResult{
			Name:      result.Name,
			Algorithm: result.Algorithm,
			Sum:       result.Hex(),
			Bytes:     result.Bytes,
			Format:    string(result.Format),
		})
	}

	if asJSON {
		if err := serialize.WriteJSON(stdout, out); err != nil {
			fmt.Fprintf(stderr, "cksum: %v\n", err)
			return exitFailure
		}
	}

	log.Infow("finished", "inputs", len(results), "failed", code != exitOK)
	return code
}

func verifyPages(
	ctx context.Context, inputs []string, stdin io.Reader, cfg *config.Config,
	asJSON bool, stdout, stderr io.Writer, log *zap.SugaredLogger,
) int {
	code := exitOK
	out := make([]jsonResult, 0, len(inputs))

	for _, input := range inputs {
		result := jsonResult{Name: input}

		report, size, err := verifyInput(ctx, input, stdin, cfg.Page.Size, log)
		result.Bytes = size
		if report != nil {
			result.Pages = report.Pages
			for _, pe := range report.Errors {
				result.Corrupted = append(result.Corrupted, pe.Page)
			}
		}

		switch {
		case err != nil:
			code = exitFailure
			result.Error = err.Error()
			fmt.Fprintf(stderr, "cksum: %s: %v\n", input, err)
		case !report.OK():
			code = exitFailure
			result.Error = report.Err().Error()
			if !asJSON {
				fmt.Fprintf(stdout, "%s: %d of %d pages corrupted\n", input, len(report.Errors), report.Pages)
				for _, pe := range report.Errors {
					fmt.Fprintf(stdout, "  %v\n", pe)
				}
			}
		default:
			if !asJSON {
				fmt.Fprintf(stdout, "%s: ok (%d pages)\n", input, report.Pages)
			}
		}

		out = append(out, result)
	}

	if asJSON {
		if err := serialize.WriteJSON(stdout, out); err != nil {
			fmt.Fprintf(stderr, "cksum: %v\n", err)
			return exitFailure
		}
	}

	return code
}

func verifyInput(ctx context.Context, input string, stdin io.Reader, pageSize int, log *zap.SugaredLogger) (*page.Report, int64, error) {
	if input == stdinName {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, 0, cerrors.NewChecksumError(cerrors.ErrorStorage, "read stdin", err)
		}
		report, err := page.VerifyFile(ctx, input, bytes.NewReader(data), int64(len(data)), pageSize, log)
		return report, int64(len(data)), err
	}

	file, err := os.Open(input)
	if err != nil {
		return nil, 0, cerrors.NewChecksumError(cerrors.ErrorStorage, "open "+input, err)
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, 0, cerrors.NewChecksumError(cerrors.ErrorStorage, "stat "+input, err)
	}

	report, err := page.VerifyFile(ctx, input, file, stat.Size(), pageSize, log)
	return report, stat.Size(), err
}
