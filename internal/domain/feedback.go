package domain

import "errors"

// Polarity is the direction of a rating.
type Polarity string

const (
	PolarityUp   Polarity = "up"
	PolarityDown Polarity = "down"
)

// FeedbackRecord is the payload of POST /feedback. Exactly one of ThumbsUp and
// ThumbsDown is set; Reason accompanies a thumbs-down.
type FeedbackRecord struct {
	ThumbsUp         bool   `json:"thumbsup,omitempty"`
	ThumbsDown       bool   `json:"thumbsdown,omitempty"`
	Reason           string `json:"reason,omitempty"`
	OriginalQuestion string `json:"originalQuestion,omitempty"`
	AIAnswer         string `json:"aiAnswer,omitempty"`
}

// NewThumbsUp builds a positive rating for a question/answer pair.
func NewThumbsUp(question, answer string) FeedbackRecord {
	return FeedbackRecord{ThumbsUp: true, OriginalQuestion: question, AIAnswer: answer}
}

// NewThumbsDown builds a negative rating carrying the user's reason.
func NewThumbsDown(reason, question, answer string) FeedbackRecord {
	return FeedbackRecord{ThumbsDown: true, Reason: reason, OriginalQuestion: question, AIAnswer: answer}
}

// Polarity reports the rating direction, or "" when neither flag is set.
func (r FeedbackRecord) Polarity() Polarity {
	switch {
	case r.ThumbsUp:
		return PolarityUp
	case r.ThumbsDown:
		return PolarityDown
	default:
		return ""
	}
}

// Validate checks that the record carries exactly one polarity.
func (r FeedbackRecord) Validate() error {
	if r.ThumbsUp && r.ThumbsDown {
		return errors.New("domain: feedback cannot be both thumbs up and thumbs down")
	}
	if !r.ThumbsUp && !r.ThumbsDown {
		return errors.New("domain: feedback polarity is required")
	}
	return nil
}
