package terminal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/qowq/IBuddy/internal/feedback"
	"github.com/qowq/IBuddy/internal/session"
)

const helpText = `Type a message and press Enter.
  /copy            copy the last reply
  /up              rate the last reply as good
  /down <reason>   rate the last reply as bad
  /help            show this help
  /quit            exit`

// REPL reads lines from a terminal and drives a session.
type REPL struct {
	session *session.Session
	view    *View
	out     io.Writer
	copier  func(string) error
}

type REPLOption func(*REPL)

// WithCopier replaces the system clipboard.
func WithCopier(fn func(string) error) REPLOption {
	return func(r *REPL) {
		if fn != nil {
			r.copier = fn
		}
	}
}

func NewREPL(s *session.Session, v *View, out io.Writer, opts ...REPLOption) (*REPL, error) {
	if s == nil || v == nil {
		return nil, errors.New("terminal: session and view must not be nil")
	}
	r := &REPL{session: s, view: v, out: out, copier: clipboard.WriteAll}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Run processes input until EOF, /quit or ctx is done.
func (r *REPL) Run(ctx context.Context, in io.Reader) error {
	fmt.Fprintln(r.out, "IBuddy: your IB study companion. Type /help for commands.")

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "/quit" {
			return nil
		}
		r.handle(ctx, line)
	}
	return scanner.Err()
}

func (r *REPL) handle(ctx context.Context, line string) {
	cmd, arg, _ := strings.Cut(line, " ")
	switch cmd {
	case "/help":
		fmt.Fprintln(r.out, helpText)
	case "/copy":
		r.withReply(func(reply *session.Reply) {
			if err := r.copier(reply.Feedback.Answer()); err != nil {
				fmt.Fprintf(r.out, "copy failed: %v\n", err)
				return
			}
			fmt.Fprintln(r.out, "Copied!")
		})
	case "/up":
		r.withReply(func(reply *session.Reply) {
			r.reportRating(reply.Feedback.ThumbsUp(ctx), reply.Feedback)
		})
	case "/down":
		r.withReply(func(reply *session.Reply) {
			r.rateDown(ctx, reply.Feedback, arg)
		})
	default:
		if _, err := r.session.Send(ctx, line); errors.Is(err, session.ErrBusy) {
			fmt.Fprintln(r.out, "still waiting for the previous reply")
		}
	}
}

func (r *REPL) rateDown(ctx context.Context, controls *feedback.Controls, reason string) {
	form, err := controls.ThumbsDown()
	if err != nil {
		r.reportRating(err, controls)
		return
	}
	if err := form.SetReason(reason); err != nil {
		fmt.Fprintf(r.out, "feedback: %v\n", err)
		return
	}
	if c := form.Counter(); c.Overflow {
		fmt.Fprintf(r.out, "reason is %d characters (max %d), it will be shortened\n", c.Length, c.Max)
	}
	if !form.CanSubmit() {
		_ = form.Cancel()
		fmt.Fprintln(r.out, "usage: /down <reason>")
		return
	}
	r.reportRating(form.Submit(ctx), controls)
}

func (r *REPL) reportRating(err error, controls *feedback.Controls) {
	switch {
	case errors.Is(err, feedback.ErrAlreadyRated):
		fmt.Fprintln(r.out, "you already rated this reply")
	case err != nil:
		fmt.Fprintf(r.out, "feedback: %v\n", err)
	case controls.Rating() != "":
		fmt.Fprintln(r.out, "Thanks for the feedback!")
	default:
		fmt.Fprintln(r.out, "feedback could not be sent")
	}
}

func (r *REPL) withReply(fn func(*session.Reply)) {
	reply := r.view.LastReply()
	if reply == nil {
		fmt.Fprintln(r.out, "no reply yet")
		return
	}
	fn(reply)
}
