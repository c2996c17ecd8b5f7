package usecase

import "fmt"

type ErrorCode string

const (
	ErrorConfiguration    ErrorCode = "CONFIGURATION_ERROR"
	ErrorMethodNotAllowed ErrorCode = "METHOD_NOT_ALLOWED"
	ErrorMalformedRequest ErrorCode = "MALFORMED_REQUEST"
	ErrorUpstream         ErrorCode = "UPSTREAM_ERROR"
	ErrorTimeout          ErrorCode = "UPSTREAM_TIMEOUT"
	ErrorTransport        ErrorCode = "TRANSPORT_FAILURE"
)

// Error is a classified relay failure. UpstreamStatus is set for
// ErrorUpstream and Detail carries the upstream's human-readable message.
type Error struct {
	Code           ErrorCode
	Reason         string
	Err            error
	UpstreamStatus int
	Detail         string
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err == nil {
		return fmt.Sprintf("usecase: %s (%s)", e.Code, e.Reason)
	}
	return fmt.Sprintf("usecase: %s (%s): %v", e.Code, e.Reason, e.Err)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func newError(code ErrorCode, reason string, err error) *Error {
	return &Error{Code: code, Reason: reason, Err: err}
}
