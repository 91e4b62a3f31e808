package metrics

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Abdurahmanit/GroupProject/directory-service/internal/platform/logger"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsManager_Counters(t *testing.T) {
	m := NewMetricsManager("directory_test")

	m.IncFallback("business")
	m.IncFallback("business")
	m.IncMutation("job", "create", nil)
	m.IncMutation("job", "create", errors.New("boom"))
	m.IncStaleFetch("business")
	m.ObserveBackendCall("businesses", "list", time.Now(), "network")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.StoreFallbacksTotal.WithLabelValues("business")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StoreMutationsTotal.WithLabelValues("job", "create", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StoreMutationsTotal.WithLabelValues("job", "create", "failure")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StaleFetchesDiscarded.WithLabelValues("business")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BackendErrorsTotal.WithLabelValues("businesses", "list", "network")))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "directory_test_store_fallbacks_total")
}

func TestMetricsManager_NilIsNoop(t *testing.T) {
	var m *MetricsManager
	assert.NotPanics(t, func() {
		m.IncFallback("business")
		m.IncMutation("business", "delete", nil)
		m.IncStaleFetch("job")
		m.ObserveBackendCall("jobs", "list", time.Now(), "")
	})
}

func TestNewMetricsManager_DashedServiceName(t *testing.T) {
	assert.NotPanics(t, func() {
		m := NewMetricsManager("directory-service")
		m.IncFallback("job")
	})
}

func TestStartMetricsServer_ServesUntilShutdown(t *testing.T) {
	m := NewMetricsManager("metrics_server_test")
	m.IncFallback("job")

	srv, err := StartMetricsServer("0", logger.NewNop(), m)
	require.NoError(t, err)
	require.NotNil(t, srv)

	_, port, err := net.SplitHostPort(srv.Addr)
	require.NoError(t, err)
	url := "http://127.0.0.1:" + port + "/metrics"

	resp, err := http.Get(url)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "metrics_server_test_store_fallbacks_total")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, srv.Shutdown(ctx))

	_, err = http.Get(url)
	assert.Error(t, err)
}

func TestStartMetricsServer_Disabled(t *testing.T) {
	srv, err := StartMetricsServer("", logger.NewNop(), NewMetricsManager("disabled_test"))
	assert.NoError(t, err)
	assert.Nil(t, srv)
}

func TestStartMetricsServer_BadPort(t *testing.T) {
	_, err := StartMetricsServer("not-a-port", logger.NewNop(), nil)
	assert.Error(t, err)
}
