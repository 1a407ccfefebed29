// Package apperr defines the typed error taxonomy surfaced by tool and
// resource handlers (validation / not-found / upstream / logic /
// unsupported). Handlers return these instead of bare fmt.Errorf so the
// dispatcher can classify a failure without string-matching it.
package apperr

import "fmt"

// Kind identifies which branch of the taxonomy an error belongs to.
type Kind int

const (
	KindValidation Kind = iota
	KindNotFound
	KindUpstream
	KindLogic
	KindUnsupported
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindUpstream:
		return "upstream"
	case KindLogic:
		return "logic"
	case KindUnsupported:
		return "unsupported"
	default:
		return "unknown"
	}
}

// Error is a typed application error with an identifying step and an
// optional wrapped cause.
type Error struct {
	Kind  Kind
	Step  string
	Msg   string
	cause error
}

func (e *Error) Error() string {
	if e.Step == "" {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", e.Step, e.Msg)
}

func (e *Error) Unwrap() error { return e.cause }

func new(kind Kind, step, format string, args []interface{}) *Error {
	return &Error{Kind: kind, Step: step, Msg: fmt.Sprintf(format, args...)}
}

// Validation builds a ValidationError for a schema violation, unknown
// network, non-sibling network on a sibling-only tool, or malformed input.
func Validation(step, format string, args ...interface{}) *Error {
	return new(KindValidation, step, format, args)
}

// NotFound builds a NotFoundError for missing txs, contracts, or pools.
func NotFound(step, format string, args ...interface{}) *Error {
	return new(KindNotFound, step, format, args)
}

// Upstream wraps an RPC transport/timeout/decoding failure. The cause is
// kept for logging but never rendered into the message the client sees.
func Upstream(step string, cause error) *Error {
	e := new(KindUpstream, step, "upstream request failed: %s", []interface{}{step})
	e.cause = cause
	return e
}

// Logic builds a LogicError for violated arithmetic preconditions.
func Logic(step, format string, args ...interface{}) *Error {
	return new(KindLogic, step, format, args)
}

// Unsupported builds an UnsupportedError for stubbed operations.
func Unsupported(step, format string, args ...interface{}) *Error {
	return new(KindUnsupported, step, format, args)
}

// As returns the first *Error found by walking err's Unwrap chain, and
// whether one was found.
func As(err error) (*Error, bool) {
	var target *Error
	ok := asError(err, &target)
	return target, ok
}

func asError(err error, target **Error) bool {
	for err != nil {
		if e, ok := err.(*Error); ok {
			*target = e
			return true
		}
		unwrapper, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = unwrapper.Unwrap()
	}
	return false
}
