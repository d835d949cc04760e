// Package driver turns walked files into shader jobs and runs them.
package driver

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc/pool"

	"gitlab.com/gitlab-org/buildshaders/common"
)

const outputDirPerm = 0o755

// Compiler compiles a single job. Implementations report every failure in
// the returned result.
//
//go:generate mockery --name=Compiler --inpackage
type Compiler interface {
	Compile(ctx context.Context, job common.ShaderJob) common.BuildResult
}

type Config struct {
	Mode common.LayoutMode
	// OutputRoot is where bin-root mode writes outputs. It defaults to the
	// bin directory inside the walked root.
	OutputRoot string
	Extensions common.ExtensionSet
	// Concurrency caps the number of jobs running at once. Values lower than
	// 1 mean no cap.
	Concurrency int
}

type Option func(*Driver)

func WithLogger(logger logrus.FieldLogger) Option {
	return func(d *Driver) {
		d.logger = logger
	}
}

// WithResultHandler registers fn to be called with every finished result.
// Calls may come from several goroutines at once.
func WithResultHandler(fn func(common.BuildResult)) Option {
	return func(d *Driver) {
		d.onResult = fn
	}
}

type Driver struct {
	cfg      Config
	compiler Compiler
	logger   logrus.FieldLogger
	onResult func(common.BuildResult)
}

func New(cfg Config, c Compiler, opts ...Option) (*Driver, error) {
	if c == nil {
		return nil, errors.New("no compiler given")
	}

	mode, err := common.ParseLayoutMode(string(cfg.Mode))
	if err != nil {
		return nil, err
	}
	cfg.Mode = mode

	if len(cfg.Extensions) == 0 {
		cfg.Extensions = common.NewExtensionSet()
	}

	d := &Driver{
		cfg:      cfg,
		compiler: c,
		logger:   logrus.StandardLogger(),
	}

	for _, opt := range opts {
		opt(d)
	}

	return d, nil
}

// OutputRoot returns the bin-root output directory used for root.
func (d *Driver) OutputRoot(root string) string {
	if d.cfg.OutputRoot != "" {
		return d.cfg.OutputRoot
	}

	return filepath.Join(root, common.DefaultBinRootDir)
}

// Matches reports whether path has one of the configured shader extensions.
func (d *Driver) Matches(path string) bool {
	return d.cfg.Extensions.Matches(path)
}

// Plan returns one job per matching file entry, in entry order. Directories
// and non-matching files produce no job.
func (d *Driver) Plan(root string, entries []common.FileEntry) ([]common.ShaderJob, error) {
	outputRoot := d.OutputRoot(root)

	var jobs []common.ShaderJob
	for _, entry := range entries {
		if entry.IsDir || !d.Matches(entry.Path) {
			continue
		}

		job, err := DeriveJob(d.cfg.Mode, root, outputRoot, entry.Path)
		if err != nil {
			return nil, err
		}

		jobs = append(jobs, job)
	}

	return jobs, nil
}

// Build plans entries and runs every job. The returned error is reserved for
// setup failures; failed jobs are reported in the summary.
func (d *Driver) Build(ctx context.Context, root string, entries []common.FileEntry) (*Summary, error) {
	jobs, err := d.Plan(root, entries)
	if err != nil {
		return nil, err
	}

	if d.cfg.Mode == common.LayoutBinRoot && len(jobs) > 0 {
		outputRoot := d.OutputRoot(root)
		if err := os.MkdirAll(outputRoot, outputDirPerm); err != nil {
			return nil, fmt.Errorf("creating output root: %w", common.NewPathError(outputRoot, err))
		}
	}

	return d.BuildJobs(ctx, jobs), nil
}

// BuildJobs runs jobs concurrently and waits for all of them.
func (d *Driver) BuildJobs(ctx context.Context, jobs []common.ShaderJob) *Summary {
	results := make([]common.BuildResult, len(jobs))

	p := pool.New()
	if d.cfg.Concurrency > 0 {
		p = p.WithMaxGoroutines(d.cfg.Concurrency)
	}

	for i, job := range jobs {
		i, job := i, job
		p.Go(func() {
			results[i] = d.runJob(ctx, job)
		})
	}
	p.Wait()

	return NewSummary(results)
}

func (d *Driver) runJob(ctx context.Context, job common.ShaderJob) common.BuildResult {
	result := d.compile(ctx, job)
	d.logResult(result)

	if d.onResult != nil {
		d.onResult(result)
	}

	return result
}

func (d *Driver) compile(ctx context.Context, job common.ShaderJob) common.BuildResult {
	if err := ctx.Err(); err != nil {
		return common.NewFailedResult(job, fmt.Errorf("compiling %s: %w", job.SourcePath, err))
	}

	// MkdirAll succeeds when the directory already exists, including when a
	// concurrent job created it first.
	if err := os.MkdirAll(job.OutputDir, outputDirPerm); err != nil {
		return common.NewFailedResult(job, fmt.Errorf("creating output directory: %w", common.NewPathError(job.OutputDir, err)))
	}

	result := d.compiler.Compile(ctx, job)
	result.Job = job

	return result
}

func (d *Driver) logResult(result common.BuildResult) {
	logger := d.logger.WithFields(logrus.Fields{
		"source": result.Job.SourcePath,
		"output": result.Job.OutputPath,
	})

	if result.Truncated {
		logger.Warningln("Compiler output was truncated")
	}

	if result.Succeeded() {
		logger.WithField("duration_s", result.Duration.Seconds()).Infoln("Compiled")
		if stdout := strings.TrimSpace(result.Stdout); stdout != "" {
			logger.Debugln(stdout)
		}
		return
	}

	logger.WithFields(logrus.Fields{
		"exit_code":      result.ExitCode,
		"failure_reason": result.FailureReason,
	}).WithError(result.Err).Errorln("Compiling failed")
}
