package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/signcare/internal/domain/models"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

func gaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, g.Write(&m))
	return m.GetGauge().GetValue()
}

func TestGinMiddlewareUsesRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(GinMiddleware())
	r.GET("/api/v1/items/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	before := counterValue(t, httpRequestsTotal.WithLabelValues(http.MethodGet, "/api/v1/items/:id", "204"))
	unmatchedBefore := counterValue(t, httpRequestsTotal.WithLabelValues(http.MethodGet, unmatchedRoute, "404"))

	for _, path := range []string{"/api/v1/items/a", "/api/v1/items/b", "/nowhere"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, before+2, counterValue(t, httpRequestsTotal.WithLabelValues(http.MethodGet, "/api/v1/items/:id", "204")))
	assert.Equal(t, unmatchedBefore+1, counterValue(t, httpRequestsTotal.WithLabelValues(http.MethodGet, unmatchedRoute, "404")))
}

func TestRecordDefaultedClass(t *testing.T) {
	before := counterValue(t, defaultedClassTotal.WithLabelValues("empty"))
	RecordDefaultedClass("")
	assert.Equal(t, before+1, counterValue(t, defaultedClassTotal.WithLabelValues("empty")))
}

func TestRecordDefaultedClassCollapsesRawValues(t *testing.T) {
	before := counterValue(t, defaultedClassTotal.WithLabelValues("unknown"))

	RecordDefaultedClass("classe-X")
	RecordDefaultedClass("Engineering Grade (3M 3430) lot 7781")

	assert.Equal(t, before+2, counterValue(t, defaultedClassTotal.WithLabelValues("unknown")))

	ch := make(chan prometheus.Metric, 8)
	defaultedClassTotal.Collect(ch)
	close(ch)
	for metric := range ch {
		var m dto.Metric
		require.NoError(t, metric.Write(&m))
		require.Len(t, m.GetLabel(), 1)
		assert.Contains(t, []string{"empty", "unknown"}, m.GetLabel()[0].GetValue())
	}
}

func TestSetProductCounts(t *testing.T) {
	SetProductCounts(models.ExpirySummary{OKCount: 5, WarningCount: 3, CriticalCount: 2, ExpiredCount: 1})

	assert.Equal(t, 5.0, gaugeValue(t, productsByStatus.WithLabelValues("ok")))
	assert.Equal(t, 3.0, gaugeValue(t, productsByStatus.WithLabelValues("warning")))
	assert.Equal(t, 2.0, gaugeValue(t, productsByStatus.WithLabelValues("critical")))
	assert.Equal(t, 1.0, gaugeValue(t, productsByStatus.WithLabelValues("expired")))
}

func TestRecordDigestRun(t *testing.T) {
	okBefore := counterValue(t, digestRunsTotal.WithLabelValues("success"))
	errBefore := counterValue(t, digestRunsTotal.WithLabelValues("error"))

	RecordDigestRun(nil)
	RecordDigestRun(errors.New("boom"))

	assert.Equal(t, okBefore+1, counterValue(t, digestRunsTotal.WithLabelValues("success")))
	assert.Equal(t, errBefore+1, counterValue(t, digestRunsTotal.WithLabelValues("error")))
}

func TestHandlerExposesCollectors(t *testing.T) {
	RecordDigestRun(nil)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "signcare_digest_runs_total"))
}
