package domain

import "strings"

// Role identifies who authored a transcript entry.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Part is one text fragment of a message. The upstream workflow expects the
// parts list even though the client only ever sends a single part.
type Part struct {
	Text string `json:"text"`
}

// Message is a single transcript entry as sent upstream in the history.
type Message struct {
	Role  Role   `json:"role"`
	Parts []Part `json:"parts"`
}

// NewMessage builds a single-part message.
func NewMessage(role Role, text string) Message {
	return Message{Role: role, Parts: []Part{{Text: text}}}
}

// Text returns the concatenated text of all parts.
func (m Message) Text() string {
	if len(m.Parts) == 1 {
		return m.Parts[0].Text
	}
	var b strings.Builder
	for _, p := range m.Parts {
		b.WriteString(p.Text)
	}
	return b.String()
}
