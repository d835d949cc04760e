package compiler

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"github.com/mattn/go-shellwords"
	"github.com/sirupsen/logrus"

	"gitlab.com/gitlab-org/buildshaders/common"
	"gitlab.com/gitlab-org/buildshaders/helpers/limitwriter"
	"gitlab.com/gitlab-org/buildshaders/helpers/process"
	"gitlab.com/gitlab-org/buildshaders/helpers/retry"
)

const (
	spawnRetryMinBackoff = 50 * time.Millisecond
	spawnRetryMaxBackoff = 500 * time.Millisecond
)

// Executable runs an external glslangValidator compatible compiler, once per
// job, as `<Path> [ExtraArgs...] -V <source> -o <output>`.
type Executable struct {
	Path      string
	ExtraArgs []string

	// MaxOutputBytes caps captured stdout and stderr, each.
	MaxOutputBytes int64

	GracefulKillTimeout time.Duration
	ForceKillTimeout    time.Duration

	// SpawnRetries is the number of extra start attempts after a transient
	// start failure.
	SpawnRetries int

	Logger logrus.FieldLogger

	newCommander func(executable string, args []string, options process.CommandOptions) process.Commander
}

// NewExecutable creates an Executable for path. extraArgs is split with shell
// quoting rules.
func NewExecutable(path, extraArgs string) (*Executable, error) {
	args, err := shellwords.Parse(extraArgs)
	if err != nil {
		return nil, fmt.Errorf("parsing compiler arguments %q: %w", extraArgs, err)
	}

	return &Executable{
		Path:                path,
		ExtraArgs:           args,
		MaxOutputBytes:      common.DefaultOutputLimit,
		GracefulKillTimeout: common.DefaultGracefulKillTimeout,
		ForceKillTimeout:    common.DefaultForceKillTimeout,
		SpawnRetries:        common.DefaultSpawnRetries,
		Logger:              logrus.StandardLogger(),
	}, nil
}

// Resolve looks up Path and replaces it with the absolute executable path. A
// compiler that can't be found is a *common.NotFoundError.
func (e *Executable) Resolve() error {
	path, err := exec.LookPath(e.Path)
	if err != nil {
		return &common.NotFoundError{Path: e.Path, Err: err}
	}

	e.Path = path
	return nil
}

// Args returns the compiler arguments for job.
func (e *Executable) Args(job common.ShaderJob) []string {
	args := make([]string, 0, len(e.ExtraArgs)+4)
	args = append(args, e.ExtraArgs...)

	return append(args, "-V", job.SourcePath, "-o", job.OutputPath)
}

// Compile runs the compiler for job and waits for it. Cancelling ctx stops the
// compiler's process group.
func (e *Executable) Compile(ctx context.Context, job common.ShaderJob) common.BuildResult {
	started := time.Now()

	result := e.compile(ctx, job)
	result.Duration = time.Since(started)

	return result
}

func (e *Executable) compile(ctx context.Context, job common.ShaderJob) common.BuildResult {
	if err := ctx.Err(); err != nil {
		return common.NewFailedResult(job, fmt.Errorf("compiling %s: %w", job.SourcePath, err))
	}

	logger := e.logger().WithFields(logrus.Fields{
		"source": job.SourcePath,
		"output": job.OutputPath,
	})

	stdout := limitwriter.NewBuffer(e.outputLimit())
	stderr := limitwriter.NewBuffer(e.outputLimit())

	args := e.Args(job)
	logger.Debugln("Executing", e.Path, args)

	cmd, err := e.start(ctx, logger, args, process.CommandOptions{
		Stdout: stdout,
		Stderr: stderr,
	})
	if err != nil {
		if ctx.Err() != nil {
			err = fmt.Errorf("%w: %w", err, ctx.Err())
		}
		return common.NewFailedResult(job, err)
	}

	waitCh := make(chan error, 1)
	go func() {
		waitCh <- cmd.Wait()
	}()

	select {
	case err = <-waitCh:
	case <-ctx.Done():
		return e.cancel(ctx, logger, job, cmd, waitCh, stdout, stderr)
	}

	return e.newResult(job, err, stdout, stderr)
}

func (e *Executable) start(
	ctx context.Context,
	logger logrus.FieldLogger,
	args []string,
	options process.CommandOptions,
) (process.Commander, error) {
	newCommander := e.newCommander
	if newCommander == nil {
		newCommander = process.NewOSCmd
	}

	var cmd process.Commander
	err := retry.New(func() error {
		cmd = newCommander(e.Path, args, options)
		return cmd.Start()
	}).
		WithCheck(func(_ int, err error) bool {
			return isTransientStartError(err)
		}).
		WithMaxTries(e.SpawnRetries + 1).
		WithBackoff(spawnRetryMinBackoff, spawnRetryMaxBackoff).
		WithContext(ctx).
		WithLogrus(logger).
		Run()
	if err != nil {
		return nil, &common.SpawnError{Path: e.Path, Err: err}
	}

	return cmd, nil
}

func (e *Executable) cancel(
	ctx context.Context,
	logger logrus.FieldLogger,
	job common.ShaderJob,
	cmd process.Commander,
	waitCh chan error,
	stdout, stderr *limitwriter.Buffer,
) common.BuildResult {
	killWaiter := process.NewOSKillWait(process.NewLogrusLogger(logger), e.GracefulKillTimeout, e.ForceKillTimeout)

	killErr := killWaiter.KillAndWait(cmd, waitCh)
	result := common.NewFailedResult(job, fmt.Errorf("compiling %s: %w", job.SourcePath, ctx.Err()))

	if errors.Is(killErr, &process.KillProcessError{}) {
		// the process may still write to the buffers
		logger.WithError(killErr).Warningln("Compiler did not stop")
		return result
	}

	logger.Debugln("Compiler stopped")

	result.Stdout = stdout.String()
	result.Stderr = stderr.String()
	result.Truncated = stdout.Truncated() || stderr.Truncated()

	return result
}

func (e *Executable) newResult(job common.ShaderJob, err error, stdout, stderr *limitwriter.Buffer) common.BuildResult {
	var result common.BuildResult

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		result = common.NewSucceededResult(job, stdout.String(), stderr.String())
	case errors.As(err, &exitErr):
		result = common.NewFailedResult(job, &common.CompileError{
			Source:   job.SourcePath,
			ExitCode: exitErr.ExitCode(),
		})
	default:
		result = common.NewFailedResult(job, &common.SpawnError{Path: e.Path, Err: err})
	}

	result.Stdout = stdout.String()
	result.Stderr = stderr.String()
	result.Truncated = stdout.Truncated() || stderr.Truncated()

	return result
}

func (e *Executable) logger() logrus.FieldLogger {
	if e.Logger == nil {
		return logrus.StandardLogger()
	}

	return e.Logger
}

func (e *Executable) outputLimit() int64 {
	if e.MaxOutputBytes <= 0 {
		return common.DefaultOutputLimit
	}

	return e.MaxOutputBytes
}
