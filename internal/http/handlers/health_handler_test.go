package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestPingAndTime_UseInjectedClock(t *testing.T) {
	gin.SetMode(gin.TestMode)
	fixed := time.Date(2024, 5, 1, 12, 30, 0, 0, time.FixedZone("CEST", 2*3600))
	h := New(stubValidator{}, &stubWriter{}, Options{Now: func() time.Time { return fixed }})

	r := gin.New()
	r.GET("/ping", h.Ping)
	r.GET("/time", h.Time)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	var ping PingResponse
	if err := json.Unmarshal(w.Body.Bytes(), &ping); err != nil {
		t.Fatalf("json: %v", err)
	}
	if w.Code != http.StatusOK || ping.Status != "ok" || ping.UTCTime != "2024-05-01T10:30:00Z" {
		t.Fatalf("ping: %d %+v", w.Code, ping)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/time", nil))
	var tr TimeResponse
	if err := json.Unmarshal(w.Body.Bytes(), &tr); err != nil {
		t.Fatalf("json: %v", err)
	}
	if tr.UTCISO != "2024-05-01T10:30:00Z" {
		t.Fatalf("utc_iso = %q", tr.UTCISO)
	}
	local, err := time.Parse(time.RFC3339Nano, tr.LocalISO)
	if err != nil || !local.Equal(fixed) {
		t.Fatalf("local_iso = %q (%v)", tr.LocalISO, err)
	}
}

func TestNew_Defaults(t *testing.T) {
	h := New(stubValidator{}, &stubWriter{}, Options{})
	if h.opts.StoreFailureStatus != http.StatusInternalServerError || h.opts.Now == nil {
		t.Fatalf("defaults not applied: %+v", h.opts)
	}
}
