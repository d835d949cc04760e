package prometheus

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// WriteTextfile registers collectors in a fresh registry and writes them to
// path in the text exposition format, atomically replacing the file.
func WriteTextfile(path string, collectors ...prometheus.Collector) error {
	registry := prometheus.NewRegistry()
	for _, c := range collectors {
		if err := registry.Register(c); err != nil {
			return fmt.Errorf("registering collector: %w", err)
		}
	}

	if err := prometheus.WriteToTextfile(path, registry); err != nil {
		return fmt.Errorf("writing metrics to %s: %w", path, err)
	}

	return nil
}
