package driver

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/samber/lo"

	"gitlab.com/gitlab-org/buildshaders/common"
)

// Summary aggregates the results of a build, in job order.
type Summary struct {
	Total     int
	Succeeded int
	Failed    int

	Results []common.BuildResult
}

func NewSummary(results []common.BuildResult) *Summary {
	succeeded := lo.CountBy(results, func(r common.BuildResult) bool {
		return r.Succeeded()
	})

	return &Summary{
		Total:     len(results),
		Succeeded: succeeded,
		Failed:    len(results) - succeeded,
		Results:   results,
	}
}

func (s *Summary) Failures() []common.BuildResult {
	return lo.Reject(s.Results, func(r common.BuildResult, _ int) bool {
		return r.Succeeded()
	})
}

// Err combines the errors of all failed jobs, nil when every job succeeded.
func (s *Summary) Err() error {
	var result *multierror.Error
	for _, r := range s.Failures() {
		err := r.Err
		if err == nil {
			err = fmt.Errorf("compiling %s failed", r.Job.SourcePath)
		}
		result = multierror.Append(result, err)
	}

	return result.ErrorOrNil()
}

// FailuresByReason counts failed jobs per failure reason.
func (s *Summary) FailuresByReason() map[common.JobFailureReason]int {
	return lo.CountValuesBy(s.Failures(), func(r common.BuildResult) common.JobFailureReason {
		return r.FailureReason
	})
}

func (s *Summary) String() string {
	return fmt.Sprintf("%d jobs, %d succeeded, %d failed", s.Total, s.Succeeded, s.Failed)
}
