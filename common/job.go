package common

import (
	"fmt"
	"strings"
	"time"
)

// FileEntry is a single path discovered on disk.
type FileEntry struct {
	Path  string
	IsDir bool
}

type LayoutMode string

const (
	// LayoutSibling places compiled binaries next to their sources.
	LayoutSibling LayoutMode = "sibling"
	// LayoutBinRoot places compiled binaries under a single output root that
	// mirrors the source tree.
	LayoutBinRoot LayoutMode = "binroot"
)

var layoutModes = []LayoutMode{LayoutSibling, LayoutBinRoot}

func ParseLayoutMode(mode string) (LayoutMode, error) {
	for _, m := range layoutModes {
		if strings.EqualFold(string(m), strings.TrimSpace(mode)) {
			return m, nil
		}
	}

	return "", fmt.Errorf("unknown layout mode %q, expected one of: %v", mode, layoutModes)
}

// ShaderJob is one compiler invocation derived from a matching source file.
type ShaderJob struct {
	SourcePath string
	OutputPath string
	OutputDir  string
}

type BuildStatus string

const (
	BuildSucceeded BuildStatus = "success"
	BuildFailed    BuildStatus = "failed"
)

type JobFailureReason string

const (
	NoneFailure       JobFailureReason = ""
	CompileFailure    JobFailureReason = "compile_error"
	SpawnFailure      JobFailureReason = "spawn_error"
	PermissionFailure JobFailureReason = "permission_error"
	OutputFailure     JobFailureReason = "output_error"
	CanceledFailure   JobFailureReason = "canceled"
)

var FailureReasons = []JobFailureReason{
	CompileFailure,
	SpawnFailure,
	PermissionFailure,
	OutputFailure,
	CanceledFailure,
}

// BuildResult is the outcome of a single ShaderJob.
type BuildResult struct {
	Job    ShaderJob
	Status BuildStatus

	ExitCode int
	Stdout   string
	Stderr   string
	// Truncated is set when stdout or stderr exceeded the capture limit.
	Truncated bool

	Err           error
	FailureReason JobFailureReason

	Duration time.Duration
}

func (r BuildResult) Succeeded() bool {
	return r.Status == BuildSucceeded
}

// Diagnostic returns the most useful text to show for a failed job: the
// compiler's stderr, then stdout, then the error itself.
func (r BuildResult) Diagnostic() string {
	for _, s := range []string{r.Stderr, r.Stdout} {
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}

	if r.Err != nil {
		return r.Err.Error()
	}

	return ""
}

// NewSucceededResult builds the result of a job whose compiler exited with 0.
func NewSucceededResult(job ShaderJob, stdout, stderr string) BuildResult {
	return BuildResult{
		Job:    job,
		Status: BuildSucceeded,
		Stdout: stdout,
		Stderr: stderr,
	}
}

// NewFailedResult builds the result of a failed job. The failure reason and
// exit code are derived from err.
func NewFailedResult(job ShaderJob, err error) BuildResult {
	return BuildResult{
		Job:           job,
		Status:        BuildFailed,
		ExitCode:      ExitCodeOf(err),
		Err:           err,
		FailureReason: FailureReasonOf(err),
	}
}
