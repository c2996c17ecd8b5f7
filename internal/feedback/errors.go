package feedback

import "errors"

var (
	ErrAlreadyRated = errors.New("feedback: reply has already been rated")
	ErrFormOpen     = errors.New("feedback: reason form is open")
	ErrNotOpen      = errors.New("feedback: reason form is not open")
	ErrEmptyReason  = errors.New("feedback: reason is required")
	ErrSubmitting   = errors.New("feedback: submission in progress")
)
