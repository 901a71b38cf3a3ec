package providers

// Outcome classifies how a fetch ended.
type Outcome string

const (
	OutcomeOK                  Outcome = "ok"
	OutcomeNoData              Outcome = "no_data"
	OutcomeUpstreamUnavailable Outcome = "upstream_unavailable"
	OutcomeUnexpectedShape     Outcome = "unexpected_shape"
)

// Degraded reports whether the outcome stems from a failure rather than an empty answer.
func (o Outcome) Degraded() bool {
	return o == OutcomeUpstreamUnavailable || o == OutcomeUnexpectedShape
}

// Result carries a fetched value together with its outcome. Value always
// holds a usable default, so callers may ignore Outcome and Err entirely.
type Result[T any] struct {
	Value   T
	Outcome Outcome
	Err     error
}

// OK reports whether the fetch succeeded with data.
func (r Result[T]) OK() bool {
	return r.Outcome == OutcomeOK
}

// Classify maps a provider error to an Outcome. Anything that is not a
// decoding problem (timeouts, cancellation, transport and status errors,
// rate limits) counts as the upstream being unavailable.
func Classify(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeOK
	case IsShapeError(err):
		return OutcomeUnexpectedShape
	default:
		return OutcomeUpstreamUnavailable
	}
}

// Resolve converts a (value, error) pair into a Result, substituting fallback
// on error. empty decides whether a successful value counts as no data.
func Resolve[T any](value T, err error, fallback T, empty func(T) bool) Result[T] {
	if err != nil {
		return Result[T]{Value: fallback, Outcome: Classify(err), Err: err}
	}
	if empty != nil && empty(value) {
		return Result[T]{Value: fallback, Outcome: OutcomeNoData}
	}
	return Result[T]{Value: value, Outcome: OutcomeOK}
}
