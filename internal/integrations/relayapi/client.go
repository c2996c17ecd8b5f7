package relayapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"github.com/qowq/IBuddy/internal/domain"
	"github.com/qowq/IBuddy/internal/integrations/restyslog"
)

const (
	DefaultChatPath     = "/chat"
	DefaultFeedbackPath = "/feedback"

	// DefaultTimeout covers the relay's own upstream budget plus alerting.
	DefaultTimeout = 30 * time.Second

	headerCorrelationID = "X-Correlation-Id"
)

// StatusError is a non-2xx answer from the relay endpoint.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("relayapi: status %d: %s", e.StatusCode, e.Message)
}

// Client talks to the relay endpoint on behalf of a conversation session.
type Client struct {
	baseURL      string
	chatPath     string
	feedbackPath string
	http         *resty.Client
}

type Option func(*Client)

func WithChatPath(p string) Option {
	return func(c *Client) {
		if p != "" {
			c.chatPath = p
		}
	}
}

func WithFeedbackPath(p string) Option {
	return func(c *Client) {
		if p != "" {
			c.feedbackPath = p
		}
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.SetTimeout(d)
		}
	}
}

func NewClient(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	u, err := url.ParseRequestURI(baseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("relayapi: invalid endpoint %q", baseURL)
	}
	c := &Client{
		baseURL:      baseURL,
		chatPath:     DefaultChatPath,
		feedbackPath: DefaultFeedbackPath,
		http: resty.New().
			SetLogger(restyslog.New("relayapi", nil)).
			SetTimeout(DefaultTimeout).
			SetRetryCount(0),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Chat posts one turn and returns the reply text exactly as received.
func (c *Client) Chat(ctx context.Context, req domain.ChatRequest) (string, error) {
	if req.History == nil {
		req.History = []domain.Message{}
	}
	res, err := c.post(ctx, c.chatPath, req)
	if err != nil {
		return "", err
	}
	return string(res.Body()), nil
}

// Feedback posts a rating. The success body is ignored.
func (c *Client) Feedback(ctx context.Context, rec domain.FeedbackRecord) error {
	_, err := c.post(ctx, c.feedbackPath, rec)
	return err
}

func (c *Client) post(ctx context.Context, path string, body any) (*resty.Response, error) {
	res, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader(headerCorrelationID, uuid.NewString()).
		SetBody(body).
		Post(c.endpoint(path))
	if err != nil {
		return nil, fmt.Errorf("relayapi: post %s: %w", path, err)
	}
	if !res.IsSuccess() {
		return nil, &StatusError{StatusCode: res.StatusCode(), Message: errorMessage(res)}
	}
	return res, nil
}

func (c *Client) endpoint(p string) string {
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return c.baseURL + p
}

// errorMessage prefers the endpoint's {"error"} field, then the raw body.
func errorMessage(res *resty.Response) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(res.Body(), &payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	if body := strings.TrimSpace(string(res.Body())); body != "" {
		return body
	}
	return fmt.Sprintf("request failed with status %d", res.StatusCode())
}

// IsStatus reports whether err is a StatusError with the given code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == code
}
