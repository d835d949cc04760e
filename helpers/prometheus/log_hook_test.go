//go:build !integration

package prometheus

import (
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	prometheus_go "github.com/prometheus/client_model/go"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConcurrentFireCall(t *testing.T) {
	lh := NewLogHook()

	times := 5
	repeats := 100

	var wg sync.WaitGroup
	for i := 0; i < times; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < repeats; j++ {
				_ = lh.Fire(&logrus.Entry{Level: logrus.ErrorLevel})
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(times*repeats), *lh.errorsNumber[logrus.ErrorLevel], "Should fire log_hook N times")
}

func TestLogHookIgnoresOtherLevels(t *testing.T) {
	lh := NewLogHook()

	require.NoError(t, lh.Fire(&logrus.Entry{Level: logrus.InfoLevel}))
	require.NoError(t, lh.Fire(&logrus.Entry{Level: logrus.WarnLevel}))

	assert.Equal(t, int64(1), *lh.errorsNumber[logrus.WarnLevel])
	assert.NotContains(t, lh.errorsNumber, logrus.InfoLevel)
}

func TestLogHookCollect(t *testing.T) {
	logger := logrus.New()
	lh := NewLogHook()
	logger.AddHook(lh)

	logger.Warn("first")
	logger.Warn("second")

	ch := make(chan prometheus.Metric, 10)
	lh.Collect(ch)
	close(ch)

	values := make(map[string]float64)
	for m := range ch {
		metric := &prometheus_go.Metric{}
		require.NoError(t, m.Write(metric))
		values[metric.GetLabel()[0].GetValue()] = metric.GetCounter().GetValue()
	}

	assert.Len(t, values, len(lh.Levels()))
	assert.Equal(t, float64(2), values["warning"])
	assert.Equal(t, float64(0), values["error"])
}
