package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/qowq/IBuddy/internal/domain"
	"github.com/qowq/IBuddy/internal/feedback"
)

// ApologyMessage replaces the pending reply when a send fails.
const ApologyMessage = "Sorry, I'm having a bit of trouble connecting right now. 😓 I have been notified. Please try again in a few minutes!"

var (
	ErrEmptyMessage = errors.New("session: message is empty")
	ErrBusy         = errors.New("session: a message is already being sent")
	ErrEmptyReply   = errors.New("session: received an empty reply")
)

// Relay is the client side of the relay endpoint.
type Relay interface {
	Chat(ctx context.Context, req domain.ChatRequest) (string, error)
	Feedback(ctx context.Context, rec domain.FeedbackRecord) error
}

// View renders session events. Calls are made outside the session lock.
type View interface {
	ShowChat()
	AppendUserMessage(text string)
	ShowPending()
	ShowReply(reply *Reply)
	ShowFailure(message string)
	SetInputEnabled(enabled bool)
}

// Reply is a successful model turn with its rating controls.
type Reply struct {
	Question string
	Answer   string
	Feedback *feedback.Controls
}

// Session owns the transcript of one conversation and sequences sends so at
// most one is in flight.
type Session struct {
	relay       Relay
	view        View
	id          string
	authToken   string
	instruction string
	feedbackOpt []feedback.Option

	mu         sync.Mutex
	transcript []domain.Message
	loading    bool
	started    bool
}

type Option func(*Session)

// WithSessionID overrides the random session identifier.
func WithSessionID(id string) Option {
	return func(s *Session) {
		if id != "" {
			s.id = id
		}
	}
}

// WithAuthToken sets the token forwarded verbatim in every chat request.
func WithAuthToken(token string) Option {
	return func(s *Session) {
		s.authToken = token
	}
}

// WithSystemInstruction replaces DefaultSystemInstruction.
func WithSystemInstruction(text string) Option {
	return func(s *Session) {
		s.instruction = text
	}
}

// WithFeedbackOptions configures the controls attached to each reply.
func WithFeedbackOptions(opts ...feedback.Option) Option {
	return func(s *Session) {
		s.feedbackOpt = append(s.feedbackOpt, opts...)
	}
}

func New(relay Relay, view View, opts ...Option) (*Session, error) {
	if relay == nil {
		return nil, errors.New("session: relay must not be nil")
	}
	if view == nil {
		return nil, errors.New("session: view must not be nil")
	}
	s := &Session{
		relay:       relay,
		view:        view,
		id:          uuid.NewString(),
		instruction: DefaultSystemInstruction,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.transcript = []domain.Message{domain.NewMessage(domain.RoleModel, s.instruction)}
	return s, nil
}

func (s *Session) ID() string {
	return s.id
}

// Transcript returns a copy of the history, persona entry included.
func (s *Session) Transcript() []domain.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Message(nil), s.transcript...)
}

func (s *Session) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *Session) Started() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started
}

// Send relays one user message. Blank text returns ErrEmptyMessage and a send
// while another is in flight returns ErrBusy; neither touches any state. On
// failure the view shows ApologyMessage and the transcript is left unchanged.
func (s *Session) Send(ctx context.Context, text string) (*Reply, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}

	s.mu.Lock()
	if s.loading {
		s.mu.Unlock()
		return nil, ErrBusy
	}
	s.loading = true
	firstSend := !s.started
	s.started = true
	history := append([]domain.Message(nil), s.transcript...)
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
		s.view.SetInputEnabled(true)
	}()

	if firstSend {
		s.view.ShowChat()
	}
	s.view.SetInputEnabled(false)
	s.view.AppendUserMessage(text)
	s.view.ShowPending()

	answer, err := s.relay.Chat(ctx, domain.ChatRequest{
		SessionID: s.id,
		AuthToken: s.authToken,
		History:   history,
		Body:      domain.ChatBody{Text: text},
	})
	if err == nil && strings.TrimSpace(answer) == "" {
		err = ErrEmptyReply
	}
	if err != nil {
		return nil, s.fail(ctx, err)
	}
	controls, err := feedback.NewControls(s.relay, text, answer, s.feedbackOpt...)
	if err != nil {
		return nil, s.fail(ctx, err)
	}

	s.mu.Lock()
	s.transcript = append(s.transcript,
		domain.NewMessage(domain.RoleUser, text),
		domain.NewMessage(domain.RoleModel, answer),
	)
	s.mu.Unlock()

	reply := &Reply{Question: text, Answer: answer, Feedback: controls}
	s.view.ShowReply(reply)
	return reply, nil
}

func (s *Session) fail(ctx context.Context, err error) error {
	slog.WarnContext(ctx, "failed to send message", "session_id", s.id, "err", err)
	s.view.ShowFailure(ApologyMessage)
	return fmt.Errorf("session: send: %w", err)
}
