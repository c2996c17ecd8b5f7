package webhook

import "errors"

// Outcome is the classification of one relay attempt.
type Outcome string

const (
	OutcomeSuccess          Outcome = "success"
	OutcomeUpstreamError    Outcome = "upstream_error"
	OutcomeTimeout          Outcome = "timeout"
	OutcomeTransportFailure Outcome = "transport_failure"
)

// Classify maps an error returned by Client.Post to its Outcome. Errors not
// produced by the client count as transport failures.
func Classify(err error) Outcome {
	if err == nil {
		return OutcomeSuccess
	}
	if errors.Is(err, ErrTimeout) {
		return OutcomeTimeout
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return OutcomeUpstreamError
	}
	return OutcomeTransportFailure
}
