package terminal

import (
	"fmt"
	"io"
	"strings"
	"sync"

	markdown "github.com/MichaelMure/go-term-markdown"

	"github.com/qowq/IBuddy/internal/session"
)

const leftPad = 2

// View renders a conversation session to a terminal.
type View struct {
	mu      sync.Mutex
	out     io.Writer
	width   int
	enabled bool
	last    *session.Reply
}

func NewView(out io.Writer, width int) *View {
	if width <= 0 {
		width = DefaultWidth
	}
	return &View{out: out, width: width, enabled: true}
}

func (v *View) ShowChat() {
	v.printf("%s\n", strings.Repeat("─", v.width))
}

func (v *View) AppendUserMessage(text string) {
	v.printf("you › %s\n", text)
}

func (v *View) ShowPending() {
	v.printf("IBuddy is thinking…\n")
}

func (v *View) ShowReply(reply *session.Reply) {
	v.mu.Lock()
	v.last = reply
	v.mu.Unlock()

	v.printf("%s\n", markdown.Render(reply.Answer, v.width, leftPad))
	v.printf("  [/copy] [/up] [/down <reason>]\n")
}

func (v *View) ShowFailure(message string) {
	v.printf("%s\n", message)
}

func (v *View) SetInputEnabled(enabled bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.enabled = enabled
}

// InputEnabled reports whether the prompt accepts a new message.
func (v *View) InputEnabled() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.enabled
}

// LastReply is the most recent successful reply, or nil.
func (v *View) LastReply() *session.Reply {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.last
}

func (v *View) printf(format string, args ...any) {
	v.mu.Lock()
	defer v.mu.Unlock()
	_, _ = fmt.Fprintf(v.out, format, args...)
}
