package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/qowq/IBuddy/internal/metrics"
	"github.com/qowq/IBuddy/internal/usecase"
)

const (
	headerCorrelationID = "X-Correlation-Id"
	headerContentType   = "Content-Type"

	contentTypeJSON = "application/json"
	contentTypeText = "text/plain; charset=utf-8"

	msgMethodNotAllowed = "Method Not Allowed"
	msgInternal         = "An internal server error occurred."
	msgConfiguration    = "Server configuration error."
	msgUnavailable      = "The assistant is temporarily unavailable. Please try again in a few minutes."
	msgFeedbackFailed   = "Feedback webhook request failed."
	msgNotFound         = "Not Found"
)

// Relay is the use case behind the two endpoint operations.
type Relay interface {
	Chat(ctx context.Context, payload []byte) (string, error)
	Feedback(ctx context.Context, payload []byte) error
}

// Response is a transport-neutral HTTP response.
type Response struct {
	StatusCode int               `json:"statusCode"`
	Headers    map[string]string `json:"headers"`
	Body       string            `json:"body"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type successResponse struct {
	Success bool `json:"success"`
}

// Handler maps relay requests to responses. It is shared by the Lambda and
// the HTTP server transports.
type Handler struct {
	relay       Relay
	passThrough bool
}

type Option func(*Handler)

// WithUpstreamStatusPassThrough returns the upstream's status code and error
// detail instead of a generic 503 when the webhook answers non-2xx.
func WithUpstreamStatusPassThrough(enabled bool) Option {
	return func(h *Handler) {
		h.passThrough = enabled
	}
}

func NewHandler(relay Relay, opts ...Option) (*Handler, error) {
	if relay == nil {
		return nil, errors.New("handler: relay must not be nil")
	}
	h := &Handler{relay: relay}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

// Serve runs one relay operation. Every branch produces a response; no error
// escapes to the transport.
func (h *Handler) Serve(ctx context.Context, method string, route usecase.Route, body []byte, correlationID string) Response {
	log := slog.With("route", route, "correlation_id", correlationID)

	var resp Response
	switch {
	case method != http.MethodPost:
		resp = textResponse(http.StatusMethodNotAllowed, msgMethodNotAllowed)
	case route == usecase.RouteChat:
		out, err := h.relay.Chat(ctx, body)
		if err != nil {
			resp = h.errorResponse(route, err)
		} else {
			resp = textResponse(http.StatusOK, out)
		}
	case route == usecase.RouteFeedback:
		if err := h.relay.Feedback(ctx, body); err != nil {
			resp = h.errorResponse(route, err)
		} else {
			resp = jsonResponse(http.StatusOK, successResponse{Success: true})
		}
	default:
		resp = jsonResponse(http.StatusNotFound, errorResponse{Error: msgNotFound})
	}

	resp.Headers[headerCorrelationID] = correlationID
	metrics.RecordResponse(string(route), strconv.Itoa(resp.StatusCode))
	if resp.StatusCode >= http.StatusInternalServerError {
		log.WarnContext(ctx, "relay request degraded", "status", resp.StatusCode)
	}
	return resp
}

func (h *Handler) errorResponse(route usecase.Route, err error) Response {
	var ucErr *usecase.Error
	if !errors.As(err, &ucErr) {
		slog.Error("unclassified relay error", "route", route, "err", err)
		return jsonResponse(http.StatusInternalServerError, errorResponse{Error: msgInternal})
	}

	switch ucErr.Code {
	case usecase.ErrorMethodNotAllowed:
		return textResponse(http.StatusMethodNotAllowed, msgMethodNotAllowed)
	case usecase.ErrorConfiguration:
		return jsonResponse(http.StatusInternalServerError, errorResponse{Error: msgConfiguration})
	case usecase.ErrorUpstream:
		if !h.passThrough {
			return jsonResponse(http.StatusServiceUnavailable, errorResponse{Error: msgUnavailable})
		}
		status := ucErr.UpstreamStatus
		if status < http.StatusBadRequest {
			status = http.StatusBadGateway
		}
		if route == usecase.RouteFeedback {
			return jsonResponse(status, errorResponse{Error: msgFeedbackFailed})
		}
		return jsonResponse(status, errorResponse{Error: "Webhook request failed: " + ucErr.Detail})
	default:
		return jsonResponse(http.StatusInternalServerError, errorResponse{Error: msgInternal})
	}
}

func textResponse(status int, body string) Response {
	return Response{
		StatusCode: status,
		Headers:    map[string]string{headerContentType: contentTypeText},
		Body:       body,
	}
}

func jsonResponse(status int, v any) Response {
	b, err := json.Marshal(v)
	if err != nil {
		return Response{
			StatusCode: http.StatusInternalServerError,
			Headers:    map[string]string{headerContentType: contentTypeJSON},
			Body:       `{"error":"` + msgInternal + `"}`,
		}
	}
	return Response{
		StatusCode: status,
		Headers:    map[string]string{headerContentType: contentTypeJSON},
		Body:       string(b),
	}
}
