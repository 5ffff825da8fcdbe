package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_CountersHistogramsAndUnmatchedPath(t *testing.T) {
	gin.SetMode(gin.TestMode)

	m := newHTTPCollectors()
	m.register(prometheus.NewRegistry())

	r := gin.New()
	r.Use(m.handler())
	r.POST("/v1/survey", func(c *gin.Context) { c.JSON(http.StatusCreated, gin.H{"status": "ok"}) })
	r.GET("/statusonly", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for _, tc := range []struct {
		method, path string
		want         int
	}{
		{http.MethodPost, "/v1/survey", http.StatusCreated},
		{http.MethodGet, "/does-not-exist", http.StatusNotFound},
		{http.MethodGet, "/another-miss", http.StatusNotFound},
		{http.MethodGet, "/statusonly", http.StatusNoContent},
	} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, nil))
		if w.Code != tc.want {
			t.Fatalf("%s %s -> %d, want %d", tc.method, tc.path, w.Code, tc.want)
		}
	}

	if got := testutil.ToFloat64(m.reqs.WithLabelValues("POST", "/v1/survey", "201")); got != 1 {
		t.Fatalf("survey counter = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.reqs.WithLabelValues("GET", unmatchedPath, "404")); got != 2 {
		t.Fatalf("unmatched counter = %v, want 2", got)
	}
	if n := testutil.CollectAndCount(m.lat); n != 3 {
		t.Fatalf("latency series = %d, want 3", n)
	}
	// 204 with no body reports size -1 and is skipped.
	if n := testutil.CollectAndCount(m.size); n != 2 {
		t.Fatalf("size series = %d, want 2", n)
	}
	if got := testutil.ToFloat64(m.inflight); got != 0 {
		t.Fatalf("inflight = %v, want 0", got)
	}
}

func TestMetricsWith_RegistersOnGivenRegistry(t *testing.T) {
	gin.SetMode(gin.TestMode)
	reg := prometheus.NewRegistry()

	r := gin.New()
	r.Use(MetricsWith(reg))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	expected := `
# HELP http_requests_total Total number of HTTP requests.
# TYPE http_requests_total counter
http_requests_total{method="GET",path="/ping",status="200"} 1
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(expected), "http_requests_total"); err != nil {
		t.Fatalf("unexpected metrics: %v", err)
	}

	defer func() {
		if recover() == nil {
			t.Fatal("expected duplicate registration to panic")
		}
	}()
	_ = MetricsWith(reg)
}
