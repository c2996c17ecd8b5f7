package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/qowq/IBuddy/internal/alert"
	"github.com/qowq/IBuddy/internal/credential"
	"github.com/qowq/IBuddy/internal/domain"
	"github.com/qowq/IBuddy/internal/integrations/webhook"
	"github.com/qowq/IBuddy/internal/metrics"
)

// Route names the relay operation.
type Route string

const (
	RouteChat     Route = "chat"
	RouteFeedback Route = "feedback"
)

const maxAlertDetail = 500

// Poster sends one payload to the upstream webhook.
type Poster interface {
	Post(ctx context.Context, body []byte, token string) (string, error)
}

// RelayService forwards chat turns and feedback to the upstream webhook and
// alerts an operator whenever the upstream misbehaves.
type RelayService struct {
	webhook Poster
	tokens  credential.Source
	alerts  alert.Notifier
}

func NewRelayService(w Poster, tokens credential.Source, alerts alert.Notifier) (*RelayService, error) {
	if w == nil {
		return nil, errors.New("usecase: webhook client must not be nil")
	}
	if tokens == nil {
		return nil, errors.New("usecase: credential source must not be nil")
	}
	if alerts == nil {
		return nil, errors.New("usecase: alert notifier must not be nil")
	}
	return &RelayService{webhook: w, tokens: tokens, alerts: alerts}, nil
}

// Chat relays one conversation turn. payload must be a ChatRequest JSON object
// and is forwarded byte for byte; the upstream's reply text is returned as is.
func (s *RelayService) Chat(ctx context.Context, payload []byte) (string, error) {
	payload = normalizePayload(payload)
	var req domain.ChatRequest
	if err := decodeObject(payload, &req); err != nil {
		return "", newError(ErrorMalformedRequest, "invalid_chat_payload", err)
	}
	return s.relay(ctx, RouteChat, req.SessionID, payload)
}

// Feedback relays a rating. The upstream's reply body is discarded.
func (s *RelayService) Feedback(ctx context.Context, payload []byte) error {
	payload = normalizePayload(payload)
	var rec domain.FeedbackRecord
	if err := decodeObject(payload, &rec); err != nil {
		return newError(ErrorMalformedRequest, "invalid_feedback_payload", err)
	}
	if err := rec.Validate(); err != nil {
		return newError(ErrorMalformedRequest, "invalid_feedback_polarity", err)
	}
	_, err := s.relay(ctx, RouteFeedback, "", payload)
	return err
}

func (s *RelayService) relay(ctx context.Context, route Route, sessionID string, payload []byte) (string, error) {
	token, err := s.tokens.Token(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "webhook credential unavailable", "route", route, "err", err)
		return "", newError(ErrorConfiguration, "webhook_token_unavailable", err)
	}

	start := time.Now()
	out, err := s.webhook.Post(ctx, payload, token)
	outcome := webhook.Classify(err)
	metrics.RecordRelay(string(route), string(outcome), time.Since(start).Seconds())
	if err == nil {
		return out, nil
	}

	slog.ErrorContext(ctx, "relay to webhook failed",
		"route", route,
		"outcome", outcome,
		"session_id", sessionID,
		"err", err,
	)
	s.alerts.Notify(ctx, alertText(route, sessionID, outcome, err))

	switch outcome {
	case webhook.OutcomeTimeout:
		return "", newError(ErrorTimeout, "webhook_timeout", err)
	case webhook.OutcomeUpstreamError:
		var statusErr *webhook.StatusError
		errors.As(err, &statusErr)
		e := newError(ErrorUpstream, "webhook_status", err)
		e.UpstreamStatus = statusErr.StatusCode
		e.Detail = statusErr.Message()
		return "", e
	default:
		return "", newError(ErrorTransport, "webhook_unreachable", err)
	}
}

func alertText(route Route, sessionID string, outcome webhook.Outcome, err error) string {
	var detail string
	var statusErr *webhook.StatusError
	switch {
	case errors.As(err, &statusErr):
		detail = fmt.Sprintf("upstream returned %d: %s", statusErr.StatusCode, truncate(statusErr.Message(), maxAlertDetail))
	case outcome == webhook.OutcomeTimeout:
		detail = "upstream did not answer in time"
	default:
		detail = truncate(err.Error(), maxAlertDetail)
	}
	text := fmt.Sprintf(":rotating_light: IBuddy %s relay failed (%s): %s", route, outcome, detail)
	if sessionID != "" {
		text += fmt.Sprintf(" [session %s]", sessionID)
	}
	return text
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}

// normalizePayload treats an empty body as an empty JSON object.
func normalizePayload(payload []byte) []byte {
	if len(bytes.TrimSpace(payload)) == 0 {
		return []byte("{}")
	}
	return payload
}

func decodeObject(payload []byte, v any) error {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return errors.New("usecase: payload must be a JSON object")
	}
	if err := json.Unmarshal(trimmed, v); err != nil {
		return fmt.Errorf("usecase: decode payload: %w", err)
	}
	return nil
}
