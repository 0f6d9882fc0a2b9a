// Package apperr defines the typed errors returned by the moderation and
// rating core.
//
// Every component-level operation fails with exactly one *Error. The Kind
// classifies the failure; transport code maps kinds to user-facing codes
// (see httpjson). Callers test for a kind with errors.Is against the
// exported sentinels:
//
//	if errors.Is(err, apperr.ErrNotFound) { ... }
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error.
type Kind int

const (
	KindUnknown Kind = iota
	KindInvalidInput
	KindNotFound
	KindForbidden
	KindInvalidState
	KindDuplicateReview
	KindDuplicateReport
	KindUnsupportedContentType
)

var kindNames = map[Kind]string{
	KindUnknown:                "Unknown",
	KindInvalidInput:           "InvalidInput",
	KindNotFound:               "NotFound",
	KindForbidden:              "Forbidden",
	KindInvalidState:           "InvalidState",
	KindDuplicateReview:        "DuplicateReview",
	KindDuplicateReport:        "DuplicateReport",
	KindUnsupportedContentType: "UnsupportedContentType",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Error is the single error type surfaced by the core.
type Error struct {
	Kind Kind
	Op   string // operation that failed, e.g. "moderation.FlagContent"
	Msg  string // human-readable detail
	Err  error  // underlying cause, if any
}

// Sentinels for errors.Is. They carry only a Kind.
var (
	ErrInvalidInput           = &Error{Kind: KindInvalidInput}
	ErrNotFound               = &Error{Kind: KindNotFound}
	ErrForbidden              = &Error{Kind: KindForbidden}
	ErrInvalidState           = &Error{Kind: KindInvalidState}
	ErrDuplicateReview        = &Error{Kind: KindDuplicateReview}
	ErrDuplicateReport        = &Error{Kind: KindDuplicateReport}
	ErrUnsupportedContentType = &Error{Kind: KindUnsupportedContentType}
)

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same Kind, so a detailed error matches its
// kind sentinel.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// E builds an error of the given kind.
func E(kind Kind, op, msg string) *Error {
	return &Error{Kind: kind, Op: op, Msg: msg}
}

// Wrap builds an error of the given kind around a cause.
func Wrap(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf returns the Kind of the first *Error in err's chain, or KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// NotFound is shorthand for a NotFound error naming the missing entity.
func NotFound(op, what string) *Error {
	return E(KindNotFound, op, what+" not found")
}

// Forbidden is shorthand for a Forbidden error.
func Forbidden(op, msg string) *Error {
	return E(KindForbidden, op, msg)
}

// InvalidInput is shorthand for an InvalidInput error.
func InvalidInput(op, msg string) *Error {
	return E(KindInvalidInput, op, msg)
}
