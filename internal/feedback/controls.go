package feedback

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/qowq/IBuddy/internal/domain"
)

// DefaultMaxReason is the reason length limit, counted in runes.
const DefaultMaxReason = 200

// Sender delivers a rating to the relay.
type Sender interface {
	Feedback(ctx context.Context, rec domain.FeedbackRecord) error
}

// Controls are the rating actions attached to one model reply. A reply can be
// rated once; the copy action is served by Answer.
type Controls struct {
	mu        sync.Mutex
	sender    Sender
	question  string
	answer    string
	maxReason int

	rating domain.Polarity
	form   *Form
}

type Option func(*Controls)

// WithMaxReason overrides DefaultMaxReason.
func WithMaxReason(n int) Option {
	return func(c *Controls) {
		if n > 0 {
			c.maxReason = n
		}
	}
}

func NewControls(sender Sender, question, answer string, opts ...Option) (*Controls, error) {
	if sender == nil {
		return nil, errors.New("feedback: sender must not be nil")
	}
	c := &Controls{
		sender:    sender,
		question:  question,
		answer:    answer,
		maxReason: DefaultMaxReason,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Answer returns the raw reply text.
func (c *Controls) Answer() string {
	return c.answer
}

// Question returns the user message the reply answered.
func (c *Controls) Question() string {
	return c.question
}

// Rating returns the recorded polarity, or "" while unrated.
func (c *Controls) Rating() domain.Polarity {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rating
}

// Enabled reports whether the thumbs buttons accept input.
func (c *Controls) Enabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rating == "" && (c.form == nil || c.form.state != StateSubmitting)
}

// ThumbsUp sends a positive rating. The controls lock immediately and stay
// locked even if delivery fails; delivery errors are logged, not returned.
func (c *Controls) ThumbsUp(ctx context.Context) error {
	c.mu.Lock()
	if c.rating != "" {
		c.mu.Unlock()
		return ErrAlreadyRated
	}
	if c.form != nil && c.form.state != StateClosed {
		c.mu.Unlock()
		return ErrFormOpen
	}
	c.rating = domain.PolarityUp
	c.mu.Unlock()

	if err := c.sender.Feedback(ctx, domain.NewThumbsUp(c.question, c.answer)); err != nil {
		slog.WarnContext(ctx, "failed to send feedback", "polarity", domain.PolarityUp, "err", err)
	}
	return nil
}

// ThumbsDown opens the reason form. Calling it while the form is already open
// returns the same form.
func (c *Controls) ThumbsDown() (*Form, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.rating != "" {
		return nil, ErrAlreadyRated
	}
	if c.form != nil {
		switch c.form.state {
		case StateOpen:
			return c.form, nil
		case StateSubmitting:
			return nil, ErrSubmitting
		}
	}
	c.form = &Form{controls: c, state: StateOpen}
	return c.form, nil
}
