package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsCountersAndExposition(t *testing.T) {
	m := NewMetrics()
	m.ObserveDispatch("pricing", "completed", 120*time.Millisecond)
	m.ObserveDispatch("pricing", "failed", time.Second)
	m.IncRecordWriteFailure("start")
	m.IncReconcileLink("synced")
	m.IncReconcileLink("synced")
	m.IncCacheLookup("hit")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.dispatchTotal.WithLabelValues("pricing", "completed")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.reconcileLinks.WithLabelValues("synced")))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `vpnscout_jobs_record_write_failures_total{phase="start"} 1`))
	assert.True(t, strings.Contains(body, `vpnscout_content_summary_cache_lookups_total{result="hit"} 1`))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveDispatch("news", "completed", time.Second)
	m.IncRecordWriteFailure("finish")
	m.IncReconcileRun("failed")
	m.IncCacheLookup("miss")
	m.ObserveAPI("GET", "/healthcheck", "200", time.Millisecond)
	assert.Nil(t, m.Registry())
}

func TestParseHeaders(t *testing.T) {
	assert.Nil(t, ParseHeaders(""))
	assert.Nil(t, ParseHeaders("junk, =x"))
	assert.Equal(t, map[string]string{"a": "1", "b": "2=3"}, ParseHeaders(" a=1 ,b=2=3,c="))
}
