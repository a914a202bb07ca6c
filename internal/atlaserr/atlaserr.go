// Package atlaserr defines the error taxonomy shared across the risk
// engine: errors are signalled by Kind, not by Go type, so every
// collaborator (HTTP surface, CLI, batch orchestrator) can make the same
// success/error/partial decision from the same small vocabulary.
package atlaserr

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind is one of the five error categories spec'd for this service.
type Kind string

const (
	InvalidInput     Kind = "INVALID_INPUT"
	ModelNotAvailable Kind = "MODEL_NOT_AVAILABLE"
	UpstreamDegraded Kind = "UPSTREAM_DEGRADED"
	Timeout          Kind = "TIMEOUT"
	Internal         Kind = "INTERNAL"
)

// Error is the structured error value surfaced to callers. AssetID and
// RequestID are optional annotations attached at the orchestrator boundary.
type Error struct {
	Kind      Kind
	Code      string
	Message   string
	AssetID   string
	RequestID string
	cause     error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// New constructs an Error of the given kind. Internal errors capture a
// stack trace via pkg/errors for later logging.
func New(kind Kind, code, message string) *Error {
	e := &Error{Kind: kind, Code: code, Message: message}
	if kind == Internal {
		e.cause = errors.New(message)
	}
	return e
}

// Wrap annotates an existing error with a Kind, preserving its cause chain.
// Internal-kind wraps add a stack trace if the cause doesn't already carry
// one.
func Wrap(kind Kind, code string, cause error) *Error {
	e := &Error{Kind: kind, Code: code, Message: cause.Error(), cause: cause}
	if kind == Internal {
		if _, hasStack := cause.(interface{ StackTrace() errors.StackTrace }); !hasStack {
			e.cause = errors.WithStack(cause)
		}
	}
	return e
}

// WithAsset returns a copy of e annotated with an asset id, for attaching a
// per-asset failure at the orchestrator boundary without poisoning shared
// state.
func (e *Error) WithAsset(assetID string) *Error {
	cp := *e
	cp.AssetID = assetID
	return &cp
}

// WithRequest returns a copy of e annotated with a request id.
func (e *Error) WithRequest(requestID string) *Error {
	cp := *e
	cp.RequestID = requestID
	return &cp
}

// Invalid is a convenience constructor for the common validation-failure
// case.
func Invalid(code, message string) *Error {
	return New(InvalidInput, code, message)
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	ae, ok := err.(*Error)
	return ok && ae.Kind == kind
}
