package httpapi

import (
	"bufio"
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-survey-backend/internal/config"
	"github.com/tbourn/go-survey-backend/internal/repo"
)

const validBody = `{"name":"Ada","email":"ada.l@example.com","age":30,"consent":true,"rating":5,"source":"web"}`

func testConfig() config.Config {
	return config.Config{
		APIBasePath:  "/v1",
		MaxBodyBytes: 1 << 20,
		Survey: config.SurveyConfig{
			MinAge:              13,
			MaxAge:              120,
			DefaultSource:       "other",
			RecordSource:        true,
			IncludeSubmissionID: true,
			StoreFailureStatus:  http.StatusInternalServerError,
		},
		OTEL: config.OTELConfig{ServiceName: "test-svc"},
	}
}

func newFileRouter(t *testing.T, cfg config.Config) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	path := filepath.Join(t.TempDir(), "data", "survey.ndjson")
	log, err := repo.NewFileLog(path, false)
	if err != nil {
		t.Fatalf("NewFileLog: %v", err)
	}
	r := gin.New()
	RegisterRoutes(r, log, cfg)
	return r, path
}

func do(r http.Handler, method, target, body string, hdr map[string]string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func readLines(t *testing.T, path string) []map[string]any {
	t.Helper()
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	var out []map[string]any
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var m map[string]any
		if err := json.Unmarshal(sc.Bytes(), &m); err != nil {
			t.Fatalf("line is not JSON: %q", sc.Text())
		}
		out = append(out, m)
	}
	return out
}

func sha(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

func TestSurvey_AcceptedAndAppended(t *testing.T) {
	r, path := newFileRouter(t, testConfig())

	w := do(r, http.MethodPost, "/v1/survey", validBody, map[string]string{
		"User-Agent":      "pytest-agent/1.0",
		"X-Forwarded-For": "203.0.113.7, 10.0.0.1",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("POST /v1/survey = %d body=%s", w.Code, w.Body.String())
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if resp["status"] != "ok" || len(resp["submission_id"]) != 64 {
		t.Fatalf("unexpected response: %v", resp)
	}
	if w.Header().Get("X-Request-ID") == "" || w.Header().Get("Cache-Control") != "no-store" {
		t.Fatalf("missing request id or no-store: %v", w.Header())
	}

	lines := readLines(t, path)
	if len(lines) != 1 {
		t.Fatalf("lines = %d, want 1", len(lines))
	}
	rec := lines[0]
	if rec["hashed_email"] != sha("ada.l@example.com") || rec["hashed_age"] != sha("30") {
		t.Fatalf("hashes wrong: %v", rec)
	}
	if _, ok := rec["email"]; ok {
		t.Fatalf("cleartext email stored: %v", rec)
	}
	if _, ok := rec["age"]; ok {
		t.Fatalf("cleartext age stored: %v", rec)
	}
	if rec["submission_id"] != resp["submission_id"] {
		t.Fatalf("response id %q != stored id %v", resp["submission_id"], rec["submission_id"])
	}
	if rec["user_agent"] != "pytest-agent/1.0" || rec["ip"] != "203.0.113.7" || rec["source"] != "web" {
		t.Fatalf("metadata wrong: %v", rec)
	}
}

func TestSurvey_RejectionsDoNotAppend(t *testing.T) {
	cfg := testConfig()
	cfg.MaxBodyBytes = 256
	r, path := newFileRouter(t, cfg)

	cases := []struct {
		name, body, code string
		status           int
	}{
		{"malformed", `{"name":`, "invalid_json", http.StatusBadRequest},
		{"array", `[1,2]`, "invalid_json", http.StatusBadRequest},
		{"empty object", `{}`, "validation_error", http.StatusUnprocessableEntity},
		{"age too low", strings.Replace(validBody, `"age":30`, `"age":12`, 1), "validation_error", http.StatusUnprocessableEntity},
		{"too large", `{"name":"` + strings.Repeat("a", 300) + `"}`, "payload_too_large", http.StatusRequestEntityTooLarge},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := do(r, http.MethodPost, "/v1/survey", tc.body, nil)
			if w.Code != tc.status {
				t.Fatalf("status = %d, want %d (body=%s)", w.Code, tc.status, w.Body.String())
			}
			var body map[string]any
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("bad json: %v", err)
			}
			if body["error"] != tc.code {
				t.Fatalf("error = %v, want %s", body["error"], tc.code)
			}
		})
	}

	if lines := readLines(t, path); len(lines) != 0 {
		t.Fatalf("rejected requests appended %d lines", len(lines))
	}
}

func TestSurvey_ValidationDetailShape(t *testing.T) {
	r, _ := newFileRouter(t, testConfig())

	w := do(r, http.MethodPost, "/v1/survey", `{"name":"","email":"nope","age":30,"rating":6}`, nil)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d", w.Code)
	}
	var body struct {
		Error  string `json:"error"`
		Detail []struct {
			Loc  []string `json:"loc"`
			Msg  string   `json:"msg"`
			Type string   `json:"type"`
		} `json:"detail"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	var fields []string
	for _, d := range body.Detail {
		if len(d.Loc) != 2 || d.Loc[0] != "body" || d.Msg == "" || d.Type == "" {
			t.Fatalf("malformed violation: %+v", d)
		}
		fields = append(fields, d.Loc[1])
	}
	if got := strings.Join(fields, ","); got != "name,email,rating" {
		t.Fatalf("violation fields = %s", got)
	}
}

type failingLog struct{}

func (failingLog) Append(context.Context, string, []byte) error { return errors.New("disk full") }
func (failingLog) Close() error                                 { return nil }

func TestSurvey_StorageFailureStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	for _, status := range []int{http.StatusInternalServerError, http.StatusBadRequest} {
		cfg := testConfig()
		cfg.Survey.StoreFailureStatus = status
		r := gin.New()
		RegisterRoutes(r, failingLog{}, cfg)

		w := do(r, http.MethodPost, "/v1/survey", validBody, nil)
		if w.Code != status {
			t.Fatalf("status = %d, want %d", w.Code, status)
		}
		if !strings.Contains(w.Body.String(), `"error":"storage_error"`) || strings.Contains(w.Body.String(), "disk full") {
			t.Fatalf("unexpected body: %s", w.Body.String())
		}
	}
}

func TestRegisterRoutes_HealthMetricsFallbacks(t *testing.T) {
	r, _ := newFileRouter(t, testConfig())

	w := do(r, http.MethodGet, "/ping", "", nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"status":"ok"`) {
		t.Fatalf("GET /ping = %d %s", w.Code, w.Body.String())
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("ACAO = %q, want *", got)
	}

	if w := do(r, http.MethodGet, "/time", "", nil); w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "utc_iso") {
		t.Fatalf("GET /time = %d %s", w.Code, w.Body.String())
	}

	do(r, http.MethodPost, "/v1/survey", `{}`, nil)
	w = do(r, http.MethodGet, "/metrics", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /metrics = %d", w.Code)
	}
	for _, name := range []string{"http_requests_total", "survey_submissions_total", "survey_violations_total"} {
		if !strings.Contains(w.Body.String(), name) {
			t.Fatalf("metrics missing %s", name)
		}
	}

	if w := do(r, http.MethodGet, "/nope", "", nil); w.Code != http.StatusNotFound || !strings.Contains(w.Body.String(), "not_found") {
		t.Fatalf("GET /nope = %d %s", w.Code, w.Body.String())
	}
	if w := do(r, http.MethodGet, "/v1/survey", "", nil); w.Code != http.StatusMethodNotAllowed || !strings.Contains(w.Body.String(), "method_not_allowed") {
		t.Fatalf("GET /v1/survey = %d %s", w.Code, w.Body.String())
	}
	if w := do(r, http.MethodGet, "/swagger/index.html", "", nil); w.Code != http.StatusNotFound {
		t.Fatalf("swagger served while disabled: %d", w.Code)
	}
}

func TestRegisterRoutes_CORSWithOrigins_SwaggerAndGzip(t *testing.T) {
	cfg := testConfig()
	cfg.CORS = config.CORSConfig{AllowedOrigins: []string{"http://example.com"}}
	cfg.Security = config.SecurityConfig{EnableHSTS: true, HSTSMaxAge: time.Hour}
	cfg.SwaggerEnabled = true
	r, _ := newFileRouter(t, cfg)

	w := do(r, http.MethodGet, "/ping", "", map[string]string{"Origin": "http://example.com"})
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://example.com" {
		t.Fatalf("expected ACAO echo, got %q", got)
	}
	w = do(r, http.MethodGet, "/ping", "", map[string]string{"Origin": "http://evil.example"})
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("unexpected ACAO for foreign origin: %q", got)
	}

	w = do(r, http.MethodGet, "/swagger/doc.json", "", nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "/survey") {
		t.Fatalf("GET /swagger/doc.json = %d", w.Code)
	}

	w = do(r, http.MethodGet, "/ping", "", map[string]string{"Accept-Encoding": "gzip"})
	if w.Header().Get("Content-Encoding") != "gzip" {
		t.Fatalf("expected gzip encoding, got %v", w.Header())
	}

	w = do(r, http.MethodGet, "/ping", "", map[string]string{"X-Forwarded-Proto": "https"})
	if !strings.HasPrefix(w.Header().Get("Strict-Transport-Security"), "max-age=3600") {
		t.Fatalf("missing HSTS: %v", w.Header())
	}
}

func Test_limitBody_Middleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	for _, tc := range []struct {
		limit int64
		want  int
	}{{10, http.StatusRequestEntityTooLarge}, {0, http.StatusOK}} {
		r := gin.New()
		r.Use(limitBody(tc.limit))
		r.POST("/echo", func(c *gin.Context) {
			if _, err := io.ReadAll(c.Request.Body); err != nil {
				c.String(http.StatusRequestEntityTooLarge, "too big")
				return
			}
			c.String(http.StatusOK, "ok")
		})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/echo", bytes.NewBufferString("0123456789AB")))
		if w.Code != tc.want {
			t.Fatalf("limit %d: status %d, want %d", tc.limit, w.Code, tc.want)
		}
	}
}

func Test_groupWithPrefix(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	groupWithPrefix(r, "/").GET("/one", func(c *gin.Context) { c.String(http.StatusOK, "one") })
	groupWithPrefix(r, "").GET("/two", func(c *gin.Context) { c.String(http.StatusOK, "two") })
	groupWithPrefix(r, "/v2").GET("/three", func(c *gin.Context) { c.String(http.StatusOK, "three") })

	for path, want := range map[string]string{"/one": "one", "/two": "two", "/v2/three": "three"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != http.StatusOK || w.Body.String() != want {
			t.Fatalf("GET %s got %d %q", path, w.Code, w.Body.String())
		}
	}
}
