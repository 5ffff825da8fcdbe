// Package config provides application configuration loaded from environment
// variables with defaults and validation. It centralizes server timeouts,
// logging, survey validation policy, the append-only store backend, and
// observability settings.
package config

import (
	"errors"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/tbourn/go-survey-backend/internal/domain"
)

// CORSConfig defines Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string
}

// SecurityConfig defines security-related settings such as HSTS.
type SecurityConfig struct {
	EnableHSTS bool
	HSTSMaxAge time.Duration
}

// OTELConfig defines OpenTelemetry observability settings.
type OTELConfig struct {
	Enabled     bool    // OTEL_ENABLED
	Endpoint    string  // OTEL_EXPORTER_OTLP_ENDPOINT (e.g. "otel:4317")
	Insecure    bool    // OTEL_EXPORTER_OTLP_INSECURE (true if no TLS)
	ServiceName string  // OTEL_SERVICE_NAME (e.g. "survey-intake")
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG in [0..1]
}

// SurveyConfig holds the deployment-dependent submission policy.
type SurveyConfig struct {
	MinAge              int    // SURVEY_MIN_AGE, inclusive
	MaxAge              int    // SURVEY_MAX_AGE, inclusive
	DefaultSource       string // SURVEY_DEFAULT_SOURCE
	RecordSource        bool   // SURVEY_RECORD_SOURCE
	IncludeSubmissionID bool   // INCLUDE_SUBMISSION_ID in 201 responses
	StoreFailureStatus  int    // STORE_FAILURE_STATUS: 400 or 500
}

// Policy converts the survey settings into the validation policy.
func (s SurveyConfig) Policy() domain.Policy {
	return domain.Policy{
		MinAge:        s.MinAge,
		MaxAge:        s.MaxAge,
		DefaultSource: s.DefaultSource,
		RecordSource:  s.RecordSource,
	}
}

// StoreConfig selects and configures the append-only store.
type StoreConfig struct {
	Backend      string        // file|kafka
	DataFile     string        // NDJSON path for the file backend
	Fsync        bool          // fsync after each append (file backend)
	KafkaBrokers []string      // kafka backend
	KafkaTopic   string        // kafka backend
	WriteTimeout time.Duration // kafka backend
}

// Config holds all configuration values for the application.
type Config struct {
	// Server
	Port              string        // just the number
	ReadTimeout       time.Duration // e.g. 15s
	ReadHeaderTimeout time.Duration // e.g. 10s
	WriteTimeout      time.Duration // e.g. 20s
	IdleTimeout       time.Duration // e.g. 60s
	ShutdownTimeout   time.Duration // graceful drain window
	MaxHeaderBytes    int           // bytes
	MaxBodyBytes      int64         // request body cap
	GinMode           string        // debug|release|test

	// Logging / Docs
	LogLevel       string // debug|info|warn|error|fatal|panic
	LogPretty      bool   // pretty console logs in dev
	SwaggerEnabled bool   // enable Swagger UI route
	APIBasePath    string // base path for API routes

	Survey SurveyConfig
	Store  StoreConfig

	// Web protection
	CORS     CORSConfig
	Security SecurityConfig

	// Observability
	OTEL OTELConfig
}

// MustLoad loads the configuration and panics if validation fails.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads configuration from environment variables,
// applies defaults, normalizes values, and validates the result.
func Load() (Config, error) {
	cfg := Config{
		// Server
		Port:              getenv("PORT", "8080"),
		ReadTimeout:       getdur("READ_TIMEOUT", 15*time.Second),
		ReadHeaderTimeout: getdur("READ_HEADER_TIMEOUT", 10*time.Second),
		WriteTimeout:      getdur("WRITE_TIMEOUT", 20*time.Second),
		IdleTimeout:       getdur("IDLE_TIMEOUT", 60*time.Second),
		ShutdownTimeout:   getdur("SHUTDOWN_TIMEOUT", 10*time.Second),
		MaxHeaderBytes:    getint("MAX_HEADER_BYTES", 1<<20),
		MaxBodyBytes:      int64(getint("MAX_BODY_BYTES", 1<<20)),
		GinMode:           strings.ToLower(getenv("GIN_MODE", "release")),

		// Logging / Docs
		LogLevel:       strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogPretty:      getbool("LOG_PRETTY", false),
		SwaggerEnabled: getbool("SWAGGER_ENABLED", false),
		APIBasePath:    normalizeBasePath(getenv("API_BASE_PATH", "/v1")),

		Survey: SurveyConfig{
			MinAge:              getint("SURVEY_MIN_AGE", 13),
			MaxAge:              getint("SURVEY_MAX_AGE", 120),
			DefaultSource:       getenv("SURVEY_DEFAULT_SOURCE", "other"),
			RecordSource:        getbool("SURVEY_RECORD_SOURCE", true),
			IncludeSubmissionID: getbool("INCLUDE_SUBMISSION_ID", true),
			StoreFailureStatus:  getint("STORE_FAILURE_STATUS", http.StatusInternalServerError),
		},

		Store: StoreConfig{
			Backend:      strings.ToLower(strings.TrimSpace(getenv("STORE_BACKEND", "file"))),
			DataFile:     getenv("DATA_FILE", "data/survey.ndjson"),
			Fsync:        getbool("DATA_FSYNC", true),
			KafkaBrokers: splitCSV(getenv("KAFKA_BROKERS", "")),
			KafkaTopic:   getenv("KAFKA_TOPIC", "survey.submissions"),
			WriteTimeout: getdur("KAFKA_WRITE_TIMEOUT", 10*time.Second),
		},

		// Web protection
		CORS: CORSConfig{
			AllowedOrigins: splitCSV(getenv("CORS_ALLOWED_ORIGINS", "")),
		},
		Security: SecurityConfig{
			EnableHSTS: getbool("ENABLE_HSTS", false),
			HSTSMaxAge: getdur("HSTS_MAX_AGE", 180*24*time.Hour),
		},

		// Observability (OpenTelemetry)
		OTEL: OTELConfig{
			Enabled:     getbool("OTEL_ENABLED", false),
			Endpoint:    getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    getbool("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: getenv("OTEL_SERVICE_NAME", "survey-intake"),
			SampleRatio: getfloat("OTEL_TRACES_SAMPLER_ARG", 1.0),
		},
	}

	// --- normalization ---
	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}
	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		cfg.GinMode = "release"
	}

	// --- validation ---
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return cfg, errors.New("LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic")
	}
	if strings.TrimSpace(cfg.Port) == "" {
		return cfg, errors.New("PORT must not be empty")
	}
	if cfg.ReadTimeout <= 0 || cfg.ReadHeaderTimeout <= 0 || cfg.WriteTimeout <= 0 || cfg.IdleTimeout <= 0 || cfg.ShutdownTimeout <= 0 {
		return cfg, errors.New("timeouts must be positive durations")
	}
	if cfg.MaxHeaderBytes <= 0 {
		return cfg, errors.New("MAX_HEADER_BYTES must be > 0")
	}
	if cfg.MaxBodyBytes <= 0 {
		return cfg, errors.New("MAX_BODY_BYTES must be > 0")
	}
	if cfg.Survey.MinAge < 0 || cfg.Survey.MinAge > cfg.Survey.MaxAge {
		return cfg, errors.New("SURVEY_MIN_AGE must be >= 0 and <= SURVEY_MAX_AGE")
	}
	if strings.TrimSpace(cfg.Survey.DefaultSource) == "" {
		return cfg, errors.New("SURVEY_DEFAULT_SOURCE must not be empty")
	}
	switch cfg.Survey.StoreFailureStatus {
	case http.StatusBadRequest, http.StatusInternalServerError:
	default:
		return cfg, errors.New("STORE_FAILURE_STATUS must be 400 or 500")
	}
	switch cfg.Store.Backend {
	case "file":
		if strings.TrimSpace(cfg.Store.DataFile) == "" {
			return cfg, errors.New("DATA_FILE must not be empty")
		}
	case "kafka":
		if len(cfg.Store.KafkaBrokers) == 0 {
			return cfg, errors.New("KAFKA_BROKERS is required when STORE_BACKEND=kafka")
		}
		if strings.TrimSpace(cfg.Store.KafkaTopic) == "" {
			return cfg, errors.New("KAFKA_TOPIC must not be empty")
		}
	default:
		return cfg, errors.New("STORE_BACKEND must be one of: file, kafka")
	}
	if cfg.Security.HSTSMaxAge < 0 {
		return cfg, errors.New("HSTS_MAX_AGE must be >= 0")
	}
	if cfg.OTEL.SampleRatio < 0 || cfg.OTEL.SampleRatio > 1 {
		return cfg, errors.New("OTEL_TRACES_SAMPLER_ARG must be in [0,1]")
	}

	return cfg, nil
}

// ---- helpers (no external deps) ----

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		return v
	}
	return def
}

func getfloat(k string, def float64) float64 {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getint(k string, def int) int {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if i, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return i
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// normalizeBasePath ensures leading '/' and strips trailing '/' (except root).
func normalizeBasePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 && strings.HasSuffix(p, "/") {
		p = strings.TrimRight(p, "/")
	}
	return p
}
