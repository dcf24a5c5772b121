// Package apperr defines the immutable structured error value passed up from
// failure sites. An Error is constructed once where the failure happens and
// never mutated on the way out.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure for response mapping.
type Kind int

const (
	// KindUnknown is the zero value; treated as infrastructure.
	KindUnknown Kind = iota
	// KindValidation marks missing or out-of-range input.
	KindValidation
	// KindAuth marks a missing, invalid, or expired token.
	KindAuth
	// KindConflict marks a duplicate handle or lost optimistic update.
	KindConflict
	// KindState marks a domain-rule rejection such as over-payment.
	KindState
	// KindIntegrity marks broken referential data, e.g. a user without an
	// assigned admin.
	KindIntegrity
	// KindInfrastructure marks pool, statement, or transaction-control
	// failures.
	KindInfrastructure
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuth:
		return "auth"
	case KindConflict:
		return "conflict"
	case KindState:
		return "state"
	case KindIntegrity:
		return "integrity"
	case KindInfrastructure:
		return "infrastructure"
	default:
		return "unknown"
	}
}

// Error carries the failure classification plus the operation and actor that
// hit it. QueryIndex identifies which statement of a multi-statement workflow
// failed; -1 means not applicable.
type Error struct {
	Kind       Kind
	Op         string
	Actor      string
	QueryIndex int
	Err        error
}

// E builds an Error. QueryIndex defaults to -1; use WithQueryIndex when a
// specific statement is known.
func E(kind Kind, op, actor string, err error) *Error {
	return &Error{Kind: kind, Op: op, Actor: actor, QueryIndex: -1, Err: err}
}

// WithQueryIndex returns a copy with the failing statement index set.
func (e *Error) WithQueryIndex(index int) *Error {
	clone := *e
	clone.QueryIndex = index
	return &clone
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf extracts the Kind from err, walking the wrap chain. Errors that are
// not apperr values classify as infrastructure.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInfrastructure
}
