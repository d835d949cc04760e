package commands

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/samber/lo"

	"gitlab.com/gitlab-org/buildshaders/common"
	"gitlab.com/gitlab-org/buildshaders/driver"
)

const maxDiagnosticLines = 5

var (
	successColor = color.New(color.FgGreen, color.Bold)
	failureColor = color.New(color.FgRed, color.Bold)
)

func printSummary(w io.Writer, summary *driver.Summary) {
	if failures := summary.Failures(); len(failures) > 0 {
		printFailures(w, failures)
	}

	if summary.Failed > 0 {
		_, _ = failureColor.Fprintf(w, "%s (%s)\n", summary, failureBreakdown(summary))
		return
	}

	_, _ = successColor.Fprintln(w, summary.String())
}

// failureBreakdown lists the failed job count of each failure reason, sorted
// by reason.
func failureBreakdown(summary *driver.Summary) string {
	byReason := summary.FailuresByReason()

	reasons := lo.Keys(byReason)
	slices.Sort(reasons)

	return strings.Join(lo.Map(reasons, func(reason common.JobFailureReason, _ int) string {
		return fmt.Sprintf("%s: %d", reason, byReason[reason])
	}), ", ")
}

func printFailures(w io.Writer, failures []common.BuildResult) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	t.AppendHeader(table.Row{"Source", "Reason", "Exit code", "Diagnostic"})
	for _, r := range failures {
		exitCode := "-"
		if r.FailureReason == common.CompileFailure {
			exitCode = fmt.Sprint(r.ExitCode)
		}

		t.AppendRow(table.Row{r.Job.SourcePath, r.FailureReason, exitCode, shortDiagnostic(r)})
	}

	t.Render()
}

func shortDiagnostic(r common.BuildResult) string {
	lines := strings.Split(r.Diagnostic(), "\n")
	if len(lines) > maxDiagnosticLines {
		lines = append(lines[:maxDiagnosticLines], fmt.Sprintf("... %d more lines", len(lines)-maxDiagnosticLines))
	}

	if r.Truncated {
		lines = append(lines, "(output truncated)")
	}

	return strings.Join(lines, "\n")
}

func printPlan(w io.Writer, jobs []common.ShaderJob) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	t.AppendHeader(table.Row{"Source", "Output"})
	for _, job := range jobs {
		t.AppendRow(table.Row{job.SourcePath, job.OutputPath})
	}
	t.AppendFooter(table.Row{fmt.Sprintf("%d shaders", len(jobs)), ""})

	t.Render()
}
