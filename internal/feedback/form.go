package feedback

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/qowq/IBuddy/internal/domain"
)

// State is the reason form lifecycle: Closed -> Open -> Submitting -> Closed.
type State int

const (
	StateClosed State = iota
	StateOpen
	StateSubmitting
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateSubmitting:
		return "submitting"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Counter is the character counter shown under the reason input.
type Counter struct {
	Length   int
	Max      int
	Overflow bool
}

func (c Counter) String() string {
	return fmt.Sprintf("%d / %d", c.Length, c.Max)
}

// Form collects the reason for a thumbs-down. It shares its Controls' lock.
type Form struct {
	controls *Controls
	state    State
	reason   string
}

func (f *Form) State() State {
	f.controls.mu.Lock()
	defer f.controls.mu.Unlock()
	return f.state
}

func (f *Form) Reason() string {
	f.controls.mu.Lock()
	defer f.controls.mu.Unlock()
	return f.reason
}

// SetReason replaces the reason text. Input is only accepted while Open.
func (f *Form) SetReason(reason string) error {
	f.controls.mu.Lock()
	defer f.controls.mu.Unlock()
	if f.state != StateOpen {
		return ErrNotOpen
	}
	f.reason = reason
	return nil
}

func (f *Form) Counter() Counter {
	f.controls.mu.Lock()
	defer f.controls.mu.Unlock()
	n := utf8.RuneCountInString(f.reason)
	return Counter{Length: n, Max: f.controls.maxReason, Overflow: n > f.controls.maxReason}
}

// CanSubmit reports whether the submit button is enabled.
func (f *Form) CanSubmit() bool {
	f.controls.mu.Lock()
	defer f.controls.mu.Unlock()
	return f.state == StateOpen && strings.TrimSpace(f.reason) != ""
}

// Submit sends the thumbs-down with the trimmed reason, cut to the maximum
// length. The form closes whatever the outcome; the reply counts as rated only
// when delivery succeeds. Delivery errors are logged, not returned.
func (f *Form) Submit(ctx context.Context) error {
	c := f.controls

	c.mu.Lock()
	switch f.state {
	case StateSubmitting:
		c.mu.Unlock()
		return ErrSubmitting
	case StateClosed:
		c.mu.Unlock()
		return ErrNotOpen
	}
	reason := strings.TrimSpace(f.reason)
	if reason == "" {
		c.mu.Unlock()
		return ErrEmptyReason
	}
	if r := []rune(reason); len(r) > c.maxReason {
		reason = string(r[:c.maxReason])
	}
	f.state = StateSubmitting
	c.mu.Unlock()

	err := c.sender.Feedback(ctx, domain.NewThumbsDown(reason, c.question, c.answer))

	c.mu.Lock()
	f.state = StateClosed
	f.reason = ""
	if err == nil {
		c.rating = domain.PolarityDown
	}
	c.mu.Unlock()

	if err != nil {
		slog.WarnContext(ctx, "failed to send feedback", "polarity", domain.PolarityDown, "err", err)
	}
	return nil
}

// Cancel closes the form without sending. It is refused while submitting.
func (f *Form) Cancel() error {
	f.controls.mu.Lock()
	defer f.controls.mu.Unlock()
	switch f.state {
	case StateSubmitting:
		return ErrSubmitting
	case StateOpen:
		f.state = StateClosed
		f.reason = ""
	}
	return nil
}
