// Package metrics collects Prometheus metrics about backend calls and transfers.
// A command line run is short lived, so metrics are exported to a textfile
// readable by the node exporter instead of being served over HTTP.
package metrics

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/sgaunet/s3dfs/pkg/backend"
)

// DefaultNamespace prefixes every metric name.
const DefaultNamespace = "s3dfs"

// Collector holds the metrics of one run on its own registry.
// A nil *Collector is valid and records nothing.
type Collector struct {
	registry *prometheus.Registry

	operations       *prometheus.CounterVec
	operationLatency *prometheus.HistogramVec
	bytesRead        *prometheus.CounterVec
	bytesWritten     *prometheus.CounterVec
	filesTransferred *prometheus.CounterVec
}

// NewCollector creates a collector. An empty namespace uses DefaultNamespace.
func NewCollector(namespace string) *Collector {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	c := &Collector{
		registry: prometheus.NewRegistry(),
		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "backend_operations_total",
				Help:      "Total number of backend calls by provider, operation and result",
			},
			[]string{"provider", "operation", "result"},
		),
		operationLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "backend_operation_duration_seconds",
				Help:      "Backend call duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"provider", "operation"},
		),
		bytesRead: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "bytes_read_total",
				Help:      "Total bytes read from the backend",
			},
			[]string{"provider"},
		),
		bytesWritten: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "bytes_written_total",
				Help:      "Total bytes written to the backend",
			},
			[]string{"provider"},
		),
		filesTransferred: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "files_transferred_total",
				Help:      "Total number of files downloaded or uploaded",
			},
			[]string{"direction"},
		),
	}
	c.registry.MustRegister(
		c.operations,
		c.operationLatency,
		c.bytesRead,
		c.bytesWritten,
		c.filesTransferred,
	)
	return c
}

// Registry returns the registry holding the metrics.
func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}

// ObserveOperation records one backend call.
func (c *Collector) ObserveOperation(provider, op string, err error, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.operations.WithLabelValues(provider, op, result(err)).Inc()
	c.operationLatency.WithLabelValues(provider, op).Observe(elapsed.Seconds())
}

// AddBytesRead records bytes read from the backend.
func (c *Collector) AddBytesRead(provider string, n uint64) {
	if c == nil {
		return
	}
	c.bytesRead.WithLabelValues(provider).Add(float64(n))
}

// AddBytesWritten records bytes written to the backend.
func (c *Collector) AddBytesWritten(provider string, n uint64) {
	if c == nil {
		return
	}
	c.bytesWritten.WithLabelValues(provider).Add(float64(n))
}

// FileDownloaded counts one downloaded file.
func (c *Collector) FileDownloaded() {
	if c == nil {
		return
	}
	c.filesTransferred.WithLabelValues("download").Inc()
}

// FileUploaded counts one uploaded file.
func (c *Collector) FileUploaded() {
	if c == nil {
		return
	}
	c.filesTransferred.WithLabelValues("upload").Inc()
}

// WriteToTextfile writes the metrics in the text exposition format to filename.
func (c *Collector) WriteToTextfile(filename string) error {
	if c == nil || filename == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(filename, c.registry); err != nil {
		return fmt.Errorf("metrics: error writing %s: %w", filename, err)
	}
	return nil
}

func result(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, backend.ErrNotFound):
		return "not_found"
	case errors.Is(err, backend.ErrPermissionDenied):
		return "permission_denied"
	case errors.Is(err, backend.ErrNetwork):
		return "network_error"
	default:
		return "error"
	}
}
