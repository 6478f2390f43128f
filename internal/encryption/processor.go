package encryption

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/idelchi/secfile/internal/config"
	"github.com/idelchi/secfile/internal/fileutil"
	"github.com/idelchi/secfile/internal/naming"
)

// Processor handles the encryption and decryption of files.
type Processor struct {
	// cfg contains runtime configuration options
	cfg *config.Config

	// password is shared read-only by all jobs
	password []byte

	// observer receives progress notifications
	observer Observer

	// logger receives diagnostics
	logger *zap.Logger

	// readTimes reads the timestamps embedded in encrypted names
	readTimes func(path string) (fileutil.Times, error)

	stdout io.Writer
	stderr io.Writer
}

// Job describes the work planned for one input file.
type Job struct {
	// Input is the absolute source path
	Input string
	// Output is the absolute destination path
	Output string
	// Mode is encrypt or decrypt, never auto
	Mode config.Mode
	// Tier of the encoded output name, for encryption
	Tier naming.Tier
	// Times to apply to the output, recovered from the name when decrypting
	Times *fileutil.Times
	// TotalBytes is the estimated cipher input size
	TotalBytes int64
}

// NewProcessor creates a new Processor with the given configuration.
// observer and logger may be nil.
func NewProcessor(cfg *config.Config, observer Observer, logger *zap.Logger) (*Processor, error) {
	if cfg.Password == "" {
		return nil, errors.New("password can't be empty")
	}

	if observer == nil {
		observer = NopObserver{}
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Processor{
		cfg:       cfg,
		password:  []byte(cfg.Password),
		observer:  observer,
		logger:    logger,
		readTimes: fileutil.ReadTimes,
		stdout:    os.Stdout,
		stderr:    os.Stderr,
	}, nil
}

// ProcessFiles processes the files one after another. The batch stops at the
// first failure unless KeepGoing is set. Returns the number of successfully
// processed files, the number of errors and the total output size.
func (p *Processor) ProcessFiles(ctx context.Context, files []string) (processed, errored int, totalSize int64, err error) {
	var errs []error

	for _, file := range files {
		result := p.Process(ctx, file)

		p.report(result)

		if result.Error != nil {
			errored++

			errs = append(errs, fmt.Errorf("%q: %w", file, result.Error))

			if !p.cfg.KeepGoing {
				break
			}

			continue
		}

		processed++

		totalSize += result.OutputSize
	}

	if len(errs) > 0 {
		return processed, errored, totalSize, fmt.Errorf("processing files: %w", errors.Join(errs...))
	}

	return processed, errored, totalSize, nil
}

// Process runs a single file through its pipeline.
func (p *Processor) Process(ctx context.Context, file string) Result {
	job, err := p.Plan(file)
	if err != nil {
		return Result{Input: file, Error: err}
	}

	result := Result{Input: file, Output: job.Output, Mode: job.Mode, Tier: job.Tier}

	if _, err := os.Stat(job.Output); err == nil && !p.cfg.Overwrite {
		result.Error = fmt.Errorf("%w: %q", ErrOutputCollision, job.Output)

		return result
	}

	if err := os.MkdirAll(filepath.Dir(job.Output), 0o755); err != nil { //nolint:gosec,mnd
		result.Error = fmt.Errorf("creating output directory: %w", err)

		return result
	}

	result.OutputSize, result.Error = p.processFile(ctx, job)
	if result.Error != nil {
		return result
	}

	if p.cfg.Delete {
		if err := os.Remove(job.Input); err != nil {
			result.Error = fmt.Errorf("deleting input: %w", err)

			return result
		}

		result.Deleted = true
	}

	return result
}

// Plan resolves the output path, mode and timestamps for file without touching the output.
func (p *Processor) Plan(file string) (Job, error) {
	abs, err := filepath.Abs(file)
	if err != nil {
		return Job{}, fmt.Errorf("resolving %q: %w", file, err)
	}

	info, err := os.Stat(abs)
	if errors.Is(err, fs.ErrNotExist) {
		return Job{}, fmt.Errorf("%w: %q", ErrInputNotFound, file)
	}

	if err != nil {
		return Job{}, fmt.Errorf("getting file info: %w", err)
	}

	outDir, err := outputDir(abs, p.cfg.Move)
	if err != nil {
		return Job{}, err
	}

	job := Job{Input: abs, Mode: p.cfg.ModeFor(abs)}
	base := filepath.Base(abs)

	switch job.Mode {
	case config.ModeDecrypt:
		if !naming.HasSuffix(base, p.cfg.Suffix) {
			p.logger.Warn("decrypting file without the encrypted suffix",
				zap.String("file", base), zap.String("suffix", p.cfg.Suffix))
		}

		parsed, err := naming.Parse(base)
		if err != nil {
			return Job{}, fmt.Errorf("parsing name: %w", err)
		}

		if parsed.Original == "" {
			return Job{}, fmt.Errorf("%w: %q carries no original name", naming.ErrUnparseable, base)
		}

		if parsed.HasModified() {
			job.Times = &fileutil.Times{Modified: parsed.Modified, Created: parsed.Created}
		}

		job.Output = filepath.Join(outDir, parsed.Original)
		job.TotalBytes = info.Size() - IVSize
	default:
		times, err := p.readTimes(abs)
		if err != nil {
			return Job{}, err
		}

		for _, ts := range []struct {
			kind string
			at   time.Time
		}{{"modified", times.Modified}, {"created", times.Created}} {
			if !ts.at.IsZero() && !naming.Representable(ts.at) {
				p.logger.Warn("timestamp outside 2000-2099 will not be restored correctly",
					zap.String("file", base), zap.String("kind", ts.kind), zap.Time("time", ts.at))
			}
		}

		name, tier := naming.Encode(base, times.Modified, times.Created, p.cfg.Suffix)
		if tier != naming.TierFull {
			p.logger.Warn("encoded name drops metadata",
				zap.String("file", base), zap.Stringer("tier", tier))
		}

		job.Output = filepath.Join(outDir, name)
		job.Tier = tier
		job.TotalBytes = info.Size()
	}

	p.logger.Debug("planned job",
		zap.String("input", job.Input),
		zap.String("output", job.Output),
		zap.String("mode", string(job.Mode)),
		zap.Int64("total", job.TotalBytes))

	return job, nil
}

// processFile runs the stream pipeline for job into a temporary file and
// renames it into place on success, so a failed job leaves no output behind.
func (p *Processor) processFile(ctx context.Context, job Job) (size int64, err error) {
	tc, err := fileutil.NewTempContext(job.Input, job.Output)
	if err != nil {
		return 0, fmt.Errorf("preparing atomic write: %w", err)
	}

	defer tc.CleanupOnError(&err)

	inFile, err := os.Open(job.Input)
	if err != nil {
		return 0, fmt.Errorf("opening input file: %w", err)
	}
	defer inFile.Close()

	label := filepath.Base(job.Input)

	if job.Mode == config.ModeDecrypt {
		p.observer.Notify(label, "Decrypting file: "+label)

		if err := p.decryptStream(ctx, inFile, tc.TmpFile, label, job.TotalBytes); err != nil {
			return 0, fmt.Errorf("decrypting file: %w", err)
		}
	} else {
		p.observer.Notify(label, "Encrypting file: "+label)

		if err := p.encryptStream(ctx, inFile, tc.TmpFile, label, job.TotalBytes); err != nil {
			return 0, fmt.Errorf("encrypting file: %w", err)
		}
	}

	if err := inFile.Close(); err != nil {
		return 0, fmt.Errorf("closing input file: %w", err)
	}

	if err := tc.Commit(job.Output); err != nil {
		return 0, err
	}

	size, err = fileutil.FinalizeOutput(job.Output, job.Times)
	if err != nil {
		return 0, fmt.Errorf("finalizing output: %w", err)
	}

	return size, nil
}

// report prints the outcome of a job.
func (p *Processor) report(result Result) {
	if result.Error != nil {
		fmt.Fprintf(p.stderr, "Error processing %q: %v\n", result.Input, result.Error)

		return
	}

	if p.cfg.Quiet {
		return
	}

	fmt.Fprintf(p.stdout, "Processed %q -> %q\n", result.Input, result.Output)

	if result.Deleted {
		fmt.Fprintf(p.stdout, "Deleted %q\n", result.Input)
	}
}

// outputDir returns the directory the output of input, an absolute path, goes to.
// With move set, this is move followed by the segments of input's directory
// that differ from move's segment at the same position, with the first colon
// of each removed so drive letters become plain names.
func outputDir(input, move string) (string, error) {
	dir := filepath.Dir(input)

	if move == "" {
		return dir, nil
	}

	target, err := filepath.Abs(move)
	if err != nil {
		return "", fmt.Errorf("resolving move path %q: %w", move, err)
	}

	sep := string(filepath.Separator)
	inputParts := strings.Split(dir, sep)
	targetParts := strings.Split(target, sep)

	parts := []string{target}

	for i, part := range inputParts {
		if i < len(targetParts) && targetParts[i] == part {
			continue
		}

		parts = append(parts, strings.Replace(part, ":", "", 1))
	}

	return filepath.Join(parts...), nil
}
