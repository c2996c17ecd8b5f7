package domain

// ChatBody carries the text of the current user turn.
type ChatBody struct {
	Text string `json:"text"`
}

// ChatRequest is the envelope posted to the relay and forwarded unchanged to
// the upstream webhook. History holds the transcript before this turn.
type ChatRequest struct {
	SessionID string    `json:"sessionId,omitempty"`
	AuthToken string    `json:"authToken,omitempty"`
	History   []Message `json:"history"`
	Body      ChatBody  `json:"body"`
}
