package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"charm-dblog-tui/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder holds the client's collectors on a private registry
type Recorder struct {
	registry *prometheus.Registry

	ContractCallsTotal   *prometheus.CounterVec
	ContractCallDuration *prometheus.HistogramVec
	UploadsTotal         *prometheus.CounterVec
	UploadDuration       prometheus.Histogram
	UploadBytes          prometheus.Counter
}

// New creates a recorder with all collectors registered
func New() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		ContractCallsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dblog_contract_calls_total",
				Help: "Total number of contract calls by method and outcome",
			},
			[]string{"method", "outcome"},
		),
		ContractCallDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "dblog_contract_call_duration_seconds",
				Help:    "Duration of contract calls in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method"},
		),
		UploadsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dblog_pin_uploads_total",
				Help: "Total number of image pinning requests by outcome",
			},
			[]string{"outcome"},
		),
		UploadDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "dblog_pin_upload_duration_seconds",
				Help:    "Duration of image pinning requests in seconds",
				Buckets: prometheus.ExponentialBuckets(0.25, 2, 8),
			},
		),
		UploadBytes: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "dblog_pin_upload_bytes_total",
				Help: "Total bytes sent to the pinning service",
			},
		),
	}
}

// Outcome labels an error with its taxonomy class
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrUserRejected):
		return "rejected"
	case errors.Is(err, domain.ErrProviderUnavailable):
		return "unavailable"
	case errors.Is(err, domain.ErrRead):
		return "read_error"
	case errors.Is(err, domain.ErrUpload):
		return "upload_error"
	default:
		return "error"
	}
}

// ObserveContractCall records one gateway call
func (r *Recorder) ObserveContractCall(method string, d time.Duration, err error) {
	r.ContractCallsTotal.WithLabelValues(method, Outcome(err)).Inc()
	r.ContractCallDuration.WithLabelValues(method).Observe(d.Seconds())
}

// ObserveUpload records one pinning request
func (r *Recorder) ObserveUpload(size int64, d time.Duration, err error) {
	r.UploadsTotal.WithLabelValues(Outcome(err)).Inc()
	r.UploadDuration.Observe(d.Seconds())
	if err == nil && size > 0 {
		r.UploadBytes.Add(float64(size))
	}
}

// Handler exposes the registry in the Prometheus text format
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Serve exposes /metrics on addr until ctx is done
func (r *Recorder) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", r.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
