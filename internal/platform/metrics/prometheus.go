package metrics

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/Abdurahmanit/GroupProject/directory-service/internal/platform/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// MetricsManager holds the service's Prometheus collectors. A nil
// *MetricsManager is valid and records nothing.
type MetricsManager struct {
	Registry              *prometheus.Registry
	BackendRequestLatency *prometheus.HistogramVec
	BackendErrorsTotal    *prometheus.CounterVec
	StoreFallbacksTotal   *prometheus.CounterVec
	StoreMutationsTotal   *prometheus.CounterVec
	StaleFetchesDiscarded *prometheus.CounterVec
}

// NewMetricsManager initializes and registers the collectors on a private
// registry. Dashes in serviceName become underscores in the metric namespace.
func NewMetricsManager(serviceName string) *MetricsManager {
	registry := prometheus.NewRegistry()
	serviceName = strings.ReplaceAll(serviceName, "-", "_")

	backendRequestLatency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: serviceName,
		Name:      "backend_request_latency_seconds",
		Help:      "Latency of REST backend calls by resource and operation.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"resource", "operation"})
	backendErrorsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "backend_errors_total",
		Help:      "Total number of failed REST backend calls by error kind.",
	}, []string{"resource", "operation", "error_type"})
	storeFallbacksTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "store_fallbacks_total",
		Help:      "Total number of fetches answered with built-in sample data.",
	}, []string{"kind"})
	storeMutationsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "store_mutations_total",
		Help:      "Total number of store mutations by outcome.",
	}, []string{"kind", "operation", "outcome"})
	staleFetchesDiscarded := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "store_stale_fetches_discarded_total",
		Help:      "Total number of fetch results dropped because a newer fetch was issued.",
	}, []string{"kind"})

	registry.MustRegister(
		backendRequestLatency,
		backendErrorsTotal,
		storeFallbacksTotal,
		storeMutationsTotal,
		staleFetchesDiscarded,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)

	return &MetricsManager{
		Registry:              registry,
		BackendRequestLatency: backendRequestLatency,
		BackendErrorsTotal:    backendErrorsTotal,
		StoreFallbacksTotal:   storeFallbacksTotal,
		StoreMutationsTotal:   storeMutationsTotal,
		StaleFetchesDiscarded: staleFetchesDiscarded,
	}
}

func (m *MetricsManager) ObserveBackendCall(resource, operation string, started time.Time, errorType string) {
	if m == nil {
		return
	}
	m.BackendRequestLatency.WithLabelValues(resource, operation).Observe(time.Since(started).Seconds())
	if errorType != "" {
		m.BackendErrorsTotal.WithLabelValues(resource, operation, errorType).Inc()
	}
}

func (m *MetricsManager) IncFallback(kind string) {
	if m == nil {
		return
	}
	m.StoreFallbacksTotal.WithLabelValues(kind).Inc()
}

func (m *MetricsManager) IncMutation(kind, operation string, err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	m.StoreMutationsTotal.WithLabelValues(kind, operation, outcome).Inc()
}

func (m *MetricsManager) IncStaleFetch(kind string) {
	if m == nil {
		return
	}
	m.StaleFetchesDiscarded.WithLabelValues(kind).Inc()
}

// Handler exposes the registry in the Prometheus text format.
func (m *MetricsManager) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// StartMetricsServer binds port and serves /metrics in the background.
// The server is nil when port is empty; callers Shutdown it on exit.
func StartMetricsServer(port string, appLogger *logger.Logger, m *MetricsManager) (*http.Server, error) {
	if port == "" {
		appLogger.Info("Prometheus metrics server port not configured, server will not start.")
		return nil, nil
	}

	ln, err := net.Listen("tcp", ":"+port)
	if err != nil {
		return nil, fmt.Errorf("metrics server listen on %s: %w", port, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())

	server := &http.Server{
		Addr:              ln.Addr().String(),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	appLogger.Info("Prometheus metrics server starting", zap.String("addr", server.Addr), zap.String("path", "/metrics"))

	go func() {
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("Prometheus metrics server failed", zap.Error(err))
		}
	}()
	return server, nil
}
