package app

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/require"

	"github.com/qowq/IBuddy/internal/config"
	"github.com/qowq/IBuddy/internal/credential"
)

func TestNewCredentialSource_Static(t *testing.T) {
	src, err := NewCredentialSource(context.Background(), config.Config{WebhookToken: "tok"})
	require.NoError(t, err)
	require.IsType(t, &credential.Static{}, src)

	token, err := src.Token(context.Background())
	require.NoError(t, err)
	require.Equal(t, "tok", token)
}

func TestNewHandler_RejectsInvalidWebhookURL(t *testing.T) {
	_, err := NewHandler(context.Background(), config.Config{WebhookURL: "not a url", WebhookTimeout: 1})
	require.Error(t, err)
}

func TestNewHandler_RelaysWithBearerToken(t *testing.T) {
	var auth string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		_, _ = io.WriteString(w, "Hi there!")
	}))
	defer upstream.Close()

	cfg, err := config.FromMap(map[string]string{
		"WEBHOOK_URL":   upstream.URL,
		"WEBHOOK_TOKEN": "secret",
	})
	require.NoError(t, err)

	h, err := NewHandler(context.Background(), cfg)
	require.NoError(t, err)

	resp, err := h.Handle(context.Background(), events.APIGatewayProxyRequest{
		HTTPMethod: http.MethodPost,
		Path:       "/chat",
		Body:       `{"body":{"text":"hello"}}`,
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "Hi there!", resp.Body)
	require.Equal(t, "Bearer secret", auth)
}
