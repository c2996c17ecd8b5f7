package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/qowq/IBuddy/internal/integrations/restyslog"
)

// DefaultTimeout bounds a single upstream call.
const DefaultTimeout = 8 * time.Second

// ErrTimeout is returned when the upstream does not answer within the
// client's timeout. The upstream workflow may still be running.
var ErrTimeout = errors.New("webhook: upstream timed out")

// StatusError captures a non-2xx upstream response. Body is the raw response
// text and is never interpreted by the client.
type StatusError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("webhook: unexpected status %d from %s: %s", e.StatusCode, e.URL, e.Body)
}

func (e *StatusError) HTTPStatusCode() int {
	return e.StatusCode
}

// Message extracts a human-readable message from the body. It looks for an
// "error" or "message" string field and falls back to the raw text.
func (e *StatusError) Message() string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal([]byte(e.Body), &payload); err == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	if body := strings.TrimSpace(e.Body); body != "" {
		return body
	}
	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

// TransportError is a failure before any response was received: DNS,
// refused or reset connections, or a request aborted by the caller.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("webhook: request to %s failed: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Client posts relay payloads to the upstream automation webhook.
type Client struct {
	url     string
	timeout time.Duration
	http    *resty.Client
}

type Option func(*Client)

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

func WithRestyClient(rc *resty.Client) Option {
	return func(c *Client) {
		if rc != nil {
			c.http = rc
		}
	}
}

// NewClient creates a Client for the given webhook URL. Retries are disabled:
// the upstream runs workflows with side effects, so a failure is reported once.
func NewClient(webhookURL string, opts ...Option) (*Client, error) {
	webhookURL = strings.TrimSpace(webhookURL)
	if webhookURL == "" {
		return nil, errors.New("webhook: url must not be empty")
	}
	u, err := url.ParseRequestURI(webhookURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("webhook: invalid url %q", webhookURL)
	}
	c := &Client{
		url:     webhookURL,
		timeout: DefaultTimeout,
		http:    resty.New().SetLogger(restyslog.New("webhook", nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.http.SetRetryCount(0)
	return c, nil
}

// URL returns the configured upstream URL.
func (c *Client) URL() string {
	return c.url
}

// Post forwards body unchanged and returns the upstream's text reply. token,
// when non-empty, is sent as a bearer credential.
func (c *Client) Post(ctx context.Context, body []byte, token string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body)
	if token != "" {
		req.SetAuthToken(token)
	}

	res, err := req.Post(c.url)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", ErrTimeout
		}
		return "", &TransportError{URL: c.url, Err: err}
	}
	if !res.IsSuccess() {
		return "", &StatusError{
			StatusCode: res.StatusCode(),
			URL:        c.url,
			Body:       string(res.Body()),
		}
	}
	return string(res.Body()), nil
}
