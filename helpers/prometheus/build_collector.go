package prometheus

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"gitlab.com/gitlab-org/buildshaders/common"
)

var (
	numJobsDesc = prometheus.NewDesc(
		"buildshaders_jobs_total",
		"Total number of shader compile jobs by status",
		[]string{"status"},
		nil,
	)
	numJobFailuresDesc = prometheus.NewDesc(
		"buildshaders_failed_jobs_total",
		"Total number of failed shader compile jobs",
		[]string{"failure_reason"},
		nil,
	)
)

// BuildCollector accumulates per-job build results.
type BuildCollector struct {
	lock sync.RWMutex

	jobs     map[common.BuildStatus]int64
	failures map[common.JobFailureReason]int64

	duration prometheus.Histogram
}

func NewBuildCollector() *BuildCollector {
	return &BuildCollector{
		jobs:     make(map[common.BuildStatus]int64),
		failures: make(map[common.JobFailureReason]int64),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "buildshaders_job_duration_seconds",
			Help:    "Duration of shader compile jobs",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
	}
}

func (bc *BuildCollector) RecordResult(result common.BuildResult) {
	bc.lock.Lock()
	bc.jobs[result.Status]++
	if !result.Succeeded() {
		bc.failures[result.FailureReason]++
	}
	bc.lock.Unlock()

	bc.duration.Observe(result.Duration.Seconds())
}

func (bc *BuildCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- numJobsDesc
	ch <- numJobFailuresDesc
	bc.duration.Describe(ch)
}

func (bc *BuildCollector) Collect(ch chan<- prometheus.Metric) {
	bc.lock.RLock()
	defer bc.lock.RUnlock()

	for status, number := range bc.jobs {
		ch <- prometheus.MustNewConstMetric(
			numJobsDesc,
			prometheus.CounterValue,
			float64(number),
			string(status),
		)
	}

	for reason, number := range bc.failures {
		ch <- prometheus.MustNewConstMetric(
			numJobFailuresDesc,
			prometheus.CounterValue,
			float64(number),
			string(reason),
		)
	}

	bc.duration.Collect(ch)
}
