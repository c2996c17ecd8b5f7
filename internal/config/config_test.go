package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFromMap_Defaults(t *testing.T) {
	cfg, err := FromMap(map[string]string{"WEBHOOK_URL": "https://hooks.example.com/IBuddy"})
	require.NoError(t, err)

	require.Equal(t, "https://hooks.example.com/IBuddy", cfg.WebhookURL)
	require.Equal(t, 8*time.Second, cfg.WebhookTimeout)
	require.Equal(t, 5*time.Second, cfg.AlertTimeout)
	require.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	require.Equal(t, 60, cfg.RateLimitRequests)
	require.Equal(t, time.Minute, cfg.RateLimitWindow)
	require.Equal(t, ":8080", cfg.Addr())
	require.False(t, cfg.RequireWebhookToken)
	require.False(t, cfg.PassThroughUpstreamStatus)
}

func TestFromMap_Overrides(t *testing.T) {
	cfg, err := FromMap(map[string]string{
		"WEBHOOK_URL":                  "https://hooks.example.com/IBuddy",
		"WEBHOOK_TOKEN_PARAM":          "/ibuddy/webhook-token",
		"REQUIRE_WEBHOOK_TOKEN":        "true",
		"WEBHOOK_TIMEOUT":              "3s",
		"ALERT_WEBHOOK_URL":            "https://chat.example.com/alerts",
		"PASS_THROUGH_UPSTREAM_STATUS": "true",
		"ALLOWED_ORIGINS":              "https://a.example,https://b.example",
		"PORT":                         "9000",
		"LOG_LEVEL":                    "debug",
	})
	require.NoError(t, err)

	require.Equal(t, "/ibuddy/webhook-token", cfg.WebhookTokenParam)
	require.True(t, cfg.RequireWebhookToken)
	require.Equal(t, 3*time.Second, cfg.WebhookTimeout)
	require.Equal(t, "https://chat.example.com/alerts", cfg.AlertWebhookURL)
	require.True(t, cfg.PassThroughUpstreamStatus)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	require.Equal(t, ":9000", cfg.Addr())
}

func TestFromMap_Errors(t *testing.T) {
	cases := []struct {
		name    string
		environ map[string]string
	}{
		{name: "missing webhook url", environ: map[string]string{}},
		{name: "required token without source", environ: map[string]string{
			"WEBHOOK_URL": "https://h", "REQUIRE_WEBHOOK_TOKEN": "true",
		}},
		{name: "two token sources", environ: map[string]string{
			"WEBHOOK_URL": "https://h", "WEBHOOK_TOKEN": "t", "WEBHOOK_TOKEN_PARAM": "/p",
		}},
		{name: "bad timeout", environ: map[string]string{"WEBHOOK_URL": "https://h", "WEBHOOK_TIMEOUT": "0s"}},
		{name: "bad level", environ: map[string]string{"WEBHOOK_URL": "https://h", "LOG_LEVEL": "loud"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := FromMap(tc.environ)
			require.Error(t, err)
		})
	}
}

func TestLoad_ReadsEnvFile(t *testing.T) {
	for _, key := range []string{"WEBHOOK_URL", "WEBHOOK_TOKEN", "WEBHOOK_TOKEN_PARAM"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("WEBHOOK_URL=https://hooks.example.com/from-file\nWEBHOOK_TOKEN=secret\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "https://hooks.example.com/from-file", cfg.WebhookURL)
	require.Equal(t, "secret", cfg.WebhookToken)
}

func TestLoad_MissingEnvFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.env"))
	require.Error(t, err)
}

func TestNewLogger_Level(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(&buf, "warn")
	log.Info("hidden")
	log.Warn("shown")
	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), "shown")

	lvl, err := ParseLevel("ERROR")
	require.NoError(t, err)
	require.Equal(t, slog.LevelError, lvl)
}
