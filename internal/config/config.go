package config

import (
	"errors"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env      string         `json:"env"`
	Http     HttpConfig     `json:"http"`
	Reporter ReporterConfig `json:"reporter"`
	Submit   SubmitConfig   `json:"submit"`
	Session  SessionConfig  `json:"session"`
}

type HttpConfig struct {
	Port            string        `json:"port"`
	ReadTimeout     time.Duration `json:"read_timeout"`
	WriteTimeout    time.Duration `json:"write_timeout"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout"`
}

// ReporterConfig points the submission client at the backend that accepts reports.
// When JWTSecret is set each report carries a token signed with it instead of APIKey.
type ReporterConfig struct {
	BaseURL   string `json:"base_url"`
	Path      string `json:"path"`
	APIKey    string `json:"api_key,omitempty"`
	JWTSecret string `json:"-"`
}

func (c ReporterConfig) Endpoint() string {
	return strings.TrimRight(c.BaseURL, "/") + "/" + strings.TrimLeft(c.Path, "/")
}

type SubmitConfig struct {
	RatePerSecond  int   `json:"rate_per_second"`
	Burst          int   `json:"burst"`
	MaxUploadBytes int64 `json:"max_upload_bytes"`
}

type SessionConfig struct {
	CookieName string        `json:"cookie_name"`
	TTL        time.Duration `json:"ttl"`
}

const DefaultReportPath = "/api/emergency-reports"

func Load() (*Config, error) {
	stdLogger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		stdLogger.Warn(".env load warning", slog.Any("error", err))
	}

	cfg := &Config{
		Env: getEnv("ENV", "local"),
		Http: HttpConfig{
			Port:            getEnv("HTTP_PORT", ":8080"),
			ReadTimeout:     getEnvDuration("HTTP_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getEnvDuration("HTTP_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getEnvDuration("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Reporter: ReporterConfig{
			BaseURL:   getEnv("REPORT_BASE_URL", "http://localhost:3000"),
			Path:      getEnv("REPORT_PATH", DefaultReportPath),
			APIKey:    getEnv("REPORT_API_KEY", ""),
			JWTSecret: getEnv("REPORT_JWT_SECRET", ""),
		},
		Submit: SubmitConfig{
			RatePerSecond:  getEnvInt("SUBMIT_RATE_RPS", 2),
			Burst:          getEnvInt("SUBMIT_RATE_BURST", 5),
			MaxUploadBytes: int64(getEnvInt("MAX_UPLOAD_BYTES", 20<<20)),
		},
		Session: SessionConfig{
			CookieName: getEnv("SESSION_COOKIE", "emergency_session"),
			TTL:        getEnvDuration("SESSION_TTL", 30*time.Minute),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	stdLogger.Info("Config loaded successfully",
		slog.String("env", cfg.Env),
		slog.String("http_port", cfg.Http.Port),
		slog.String("report_endpoint", cfg.Reporter.Endpoint()),
	)

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Http.Port == "" || c.Http.Port[0] != ':' {
		return errors.New("HTTP_PORT must start with ':' like ':8080'")
	}

	u, err := url.Parse(c.Reporter.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.New("REPORT_BASE_URL must be an absolute URL like 'https://api.example.com'")
	}

	if c.Reporter.Path == "" {
		return errors.New("REPORT_PATH required")
	}

	if c.Submit.RatePerSecond <= 0 || c.Submit.Burst <= 0 {
		return errors.New("SUBMIT_RATE_RPS and SUBMIT_RATE_BURST must be positive")
	}

	if c.Submit.MaxUploadBytes <= 0 {
		return errors.New("MAX_UPLOAD_BYTES must be positive")
	}

	if c.Session.CookieName == "" {
		return errors.New("SESSION_COOKIE required")
	}

	if c.Session.TTL <= 0 {
		return errors.New("SESSION_TTL must be positive")
	}

	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
