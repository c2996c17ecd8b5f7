package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the relay service configuration, shared by the Lambda and the
// HTTP server binaries.
type Config struct {
	WebhookURL          string        `env:"WEBHOOK_URL,required,notEmpty"`
	WebhookToken        string        `env:"WEBHOOK_TOKEN"`
	WebhookTokenParam   string        `env:"WEBHOOK_TOKEN_PARAM"`
	RequireWebhookToken bool          `env:"REQUIRE_WEBHOOK_TOKEN" envDefault:"false"`
	WebhookTimeout      time.Duration `env:"WEBHOOK_TIMEOUT" envDefault:"8s"`

	AlertWebhookURL string        `env:"ALERT_WEBHOOK_URL"`
	AlertTimeout    time.Duration `env:"ALERT_TIMEOUT" envDefault:"5s"`

	PassThroughUpstreamStatus bool `env:"PASS_THROUGH_UPSTREAM_STATUS" envDefault:"false"`

	Port              string        `env:"PORT" envDefault:"8080"`
	AllowedOrigins    []string      `env:"ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
	RateLimitRequests int           `env:"RATE_LIMIT_REQUESTS" envDefault:"60"`
	RateLimitWindow   time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"1m"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load reads the configuration from the process environment, after loading
// envFile into it when one is given.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return Config{}, fmt.Errorf("config: load env file %q: %w", envFile, err)
		}
	}
	return parse(env.Options{})
}

// FromMap reads the configuration from environ instead of the process
// environment.
func FromMap(environ map[string]string) (Config, error) {
	return parse(env.Options{Environment: environ})
}

func parse(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the cross-field rules the struct tags cannot express.
func (c Config) Validate() error {
	if c.WebhookToken != "" && c.WebhookTokenParam != "" {
		return errors.New("config: WEBHOOK_TOKEN and WEBHOOK_TOKEN_PARAM are mutually exclusive")
	}
	if c.RequireWebhookToken && c.WebhookToken == "" && c.WebhookTokenParam == "" {
		return errors.New("config: REQUIRE_WEBHOOK_TOKEN is set but no WEBHOOK_TOKEN or WEBHOOK_TOKEN_PARAM is configured")
	}
	if c.WebhookTimeout <= 0 {
		return fmt.Errorf("config: WEBHOOK_TIMEOUT must be positive, got %s", c.WebhookTimeout)
	}
	if c.AlertTimeout <= 0 {
		return fmt.Errorf("config: ALERT_TIMEOUT must be positive, got %s", c.AlertTimeout)
	}
	if c.RateLimitRequests < 0 {
		return fmt.Errorf("config: RATE_LIMIT_REQUESTS must not be negative, got %d", c.RateLimitRequests)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// Addr is the HTTP listen address.
func (c Config) Addr() string {
	return ":" + strings.TrimPrefix(c.Port, ":")
}

// ParseLevel maps debug/info/warn/error to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("config: invalid LOG_LEVEL %q", s)
	}
	return level, nil
}

// NewLogger builds the JSON logger used by the service binaries.
func NewLogger(w io.Writer, level string) *slog.Logger {
	lvl, err := ParseLevel(level)
	if err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl}))
}
