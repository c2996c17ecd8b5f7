// Package alert sends best-effort operator notifications when the relay fails.
// Notifiers never return errors: an alerting outage must not become a
// user-facing one.
package alert

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/qowq/IBuddy/internal/integrations/restyslog"
	"github.com/qowq/IBuddy/internal/metrics"
)

// DefaultTimeout bounds a single alert delivery.
const DefaultTimeout = 5 * time.Second

// Notifier delivers a human-readable failure description to an operator.
type Notifier interface {
	Notify(ctx context.Context, text string)
}

// New returns a WebhookNotifier posting to url, or a LogNotifier when url is
// empty.
func New(url string, timeout time.Duration) Notifier {
	url = strings.TrimSpace(url)
	if url == "" {
		return LogNotifier{}
	}
	return NewWebhookNotifier(url, timeout)
}

// LogNotifier only logs; it is used when no alert destination is configured.
type LogNotifier struct{}

func (LogNotifier) Notify(ctx context.Context, text string) {
	slog.WarnContext(ctx, "alert not delivered: no alert destination configured", "alert", text)
	metrics.RecordAlert(metrics.AlertSkipped)
}

type alertPayload struct {
	Text string `json:"text"`
}

// WebhookNotifier posts {"text": ...} to a chat-ops style incoming webhook.
type WebhookNotifier struct {
	url     string
	timeout time.Duration
	http    *resty.Client
}

func NewWebhookNotifier(url string, timeout time.Duration) *WebhookNotifier {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &WebhookNotifier{
		url:     url,
		timeout: timeout,
		http:    resty.New().SetLogger(restyslog.New("alert", nil)).SetRetryCount(0),
	}
}

// Notify makes one delivery attempt. The attempt is detached from the
// caller's cancellation so an aborted request still alerts, and is bounded by
// the notifier's own timeout.
func (n *WebhookNotifier) Notify(ctx context.Context, text string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), n.timeout)
	defer cancel()

	res, err := n.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(alertPayload{Text: text}).
		Post(n.url)
	if err != nil {
		slog.ErrorContext(ctx, "alert delivery failed", "err", err)
		metrics.RecordAlert(metrics.AlertFailed)
		return
	}
	if !res.IsSuccess() {
		slog.ErrorContext(ctx, "alert channel rejected notification", "status_code", res.StatusCode(), "body", res.String())
		metrics.RecordAlert(metrics.AlertFailed)
		return
	}
	metrics.RecordAlert(metrics.AlertDelivered)
}
