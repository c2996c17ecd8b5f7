package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/require"

	"github.com/qowq/IBuddy/internal/usecase"
)

type stubRelay struct {
	out         string
	err         error
	chatIn      string
	feedbackIn  string
	chatCalls   int
	feedbackCnt int
}

func (s *stubRelay) Chat(_ context.Context, payload []byte) (string, error) {
	s.chatCalls++
	s.chatIn = string(payload)
	return s.out, s.err
}

func (s *stubRelay) Feedback(_ context.Context, payload []byte) error {
	s.feedbackCnt++
	s.feedbackIn = string(payload)
	return s.err
}

func makeEvent(method, path, body string) events.APIGatewayProxyRequest {
	return events.APIGatewayProxyRequest{
		HTTPMethod: method,
		Path:       path,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       body,
	}
}

func parseBody[T any](t *testing.T, body string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(body), &v))
	return v
}

func newTestHandler(t *testing.T, relay Relay, opts ...Option) *Handler {
	t.Helper()
	h, err := NewHandler(relay, opts...)
	require.NoError(t, err)
	return h
}

func TestNewHandler_ValidatesDependency(t *testing.T) {
	_, err := NewHandler(nil)
	require.Error(t, err)
}

func TestHandle_ChatHappyPath(t *testing.T) {
	relay := &stubRelay{out: "Hi there!"}
	h := newTestHandler(t, relay)

	body := `{"sessionId":"s-1","history":[],"body":{"text":"hello"}}`
	resp, err := h.Handle(context.Background(), makeEvent(http.MethodPost, "/chat", body))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "Hi there!", resp.Body)
	require.Equal(t, contentTypeText, resp.Headers[headerContentType])
	require.Equal(t, body, relay.chatIn)
	require.NotEmpty(t, resp.Headers[headerCorrelationID])
}

func TestHandle_NetlifyStylePath(t *testing.T) {
	relay := &stubRelay{out: "ok"}
	h := newTestHandler(t, relay)

	resp, err := h.Handle(context.Background(), makeEvent(http.MethodPost, "/.netlify/functions/chat/", `{}`))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, 1, relay.chatCalls)
}

func TestHandle_FeedbackHappyPath(t *testing.T) {
	relay := &stubRelay{}
	h := newTestHandler(t, relay)

	body := `{"thumbsdown":true,"reason":"too vague"}`
	resp, err := h.Handle(context.Background(), makeEvent(http.MethodPost, "/feedback", body))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.JSONEq(t, `{"success":true}`, resp.Body)
	require.Equal(t, body, relay.feedbackIn)
}

func TestHandle_Base64Body(t *testing.T) {
	relay := &stubRelay{out: "ok"}
	h := newTestHandler(t, relay)

	event := makeEvent(http.MethodPost, "/chat", base64.StdEncoding.EncodeToString([]byte(`{"body":{"text":"hi"}}`)))
	event.IsBase64Encoded = true
	resp, err := h.Handle(context.Background(), event)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, `{"body":{"text":"hi"}}`, relay.chatIn)

	event.Body = "%%%"
	resp, err = h.Handle(context.Background(), event)
	require.NoError(t, err)
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestHandle_RejectsNonPost(t *testing.T) {
	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		for _, path := range []string{"/chat", "/feedback"} {
			relay := &stubRelay{}
			h := newTestHandler(t, relay)

			resp, err := h.Handle(context.Background(), makeEvent(method, path, `{}`))
			require.NoError(t, err)
			require.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
			require.Equal(t, "Method Not Allowed", resp.Body)
			require.Zero(t, relay.chatCalls+relay.feedbackCnt)
		}
	}
}

func TestHandle_UnknownRoute(t *testing.T) {
	h := newTestHandler(t, &stubRelay{})

	resp, err := h.Handle(context.Background(), makeEvent(http.MethodPost, "/other", `{}`))
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHandle_MapsRelayErrors(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{name: "malformed", err: &usecase.Error{Code: usecase.ErrorMalformedRequest}, status: http.StatusInternalServerError, msg: msgInternal},
		{name: "configuration", err: &usecase.Error{Code: usecase.ErrorConfiguration}, status: http.StatusInternalServerError, msg: msgConfiguration},
		{name: "upstream", err: &usecase.Error{Code: usecase.ErrorUpstream, UpstreamStatus: 502, Detail: "bad"}, status: http.StatusServiceUnavailable, msg: msgUnavailable},
		{name: "timeout", err: &usecase.Error{Code: usecase.ErrorTimeout}, status: http.StatusInternalServerError, msg: msgInternal},
		{name: "transport", err: &usecase.Error{Code: usecase.ErrorTransport}, status: http.StatusInternalServerError, msg: msgInternal},
		{name: "unexpected", err: errors.New("boom"), status: http.StatusInternalServerError, msg: msgInternal},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := newTestHandler(t, &stubRelay{err: tc.err})

			resp, err := h.Handle(context.Background(), makeEvent(http.MethodPost, "/chat", `{}`))
			require.NoError(t, err)
			require.Equal(t, tc.status, resp.StatusCode)
			require.Equal(t, contentTypeJSON, resp.Headers[headerContentType])

			out := parseBody[errorResponse](t, resp.Body)
			require.Equal(t, tc.msg, out.Error)
		})
	}
}

func TestHandle_UpstreamStatusPassThrough(t *testing.T) {
	relayErr := &usecase.Error{Code: usecase.ErrorUpstream, UpstreamStatus: http.StatusNotFound, Detail: "no such workflow"}
	h := newTestHandler(t, &stubRelay{err: relayErr}, WithUpstreamStatusPassThrough(true))

	resp, err := h.Handle(context.Background(), makeEvent(http.MethodPost, "/chat", `{}`))
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.Equal(t, "Webhook request failed: no such workflow", parseBody[errorResponse](t, resp.Body).Error)

	resp, err = h.Handle(context.Background(), makeEvent(http.MethodPost, "/feedback", `{"thumbsup":true}`))
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.Equal(t, msgFeedbackFailed, parseBody[errorResponse](t, resp.Body).Error)
}

func TestHandle_UsesProvidedCorrelationID_CaseInsensitive(t *testing.T) {
	h := newTestHandler(t, &stubRelay{out: "ok"})

	event := makeEvent(http.MethodPost, "/chat", `{}`)
	event.Headers["x-correlation-id"] = "corr-123"
	resp, err := h.Handle(context.Background(), event)
	require.NoError(t, err)
	require.Equal(t, "corr-123", resp.Headers[headerCorrelationID])
}

func TestRouteFromPath(t *testing.T) {
	require.Equal(t, usecase.RouteChat, routeFromPath("/chat"))
	require.Equal(t, usecase.RouteChat, routeFromPath("/prod/chat/"))
	require.Equal(t, usecase.RouteFeedback, routeFromPath("/.netlify/functions/feedback"))
}
