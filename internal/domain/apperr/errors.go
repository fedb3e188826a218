package apperr

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a failure so callers can decide how to surface it.
type Kind string

const (
	KindValidation   Kind = "validation"
	KindState        Kind = "invalid_state"
	KindResource     Kind = "insufficient_resource"
	KindNotFound     Kind = "not_found"
	KindUnauthorized Kind = "unauthorized"
	KindConflict     Kind = "conflict"
	KindDependency   Kind = "dependency_failure"
	KindInternal     Kind = "internal"
)

// FieldError is one violated input rule, keyed by the JSON field name.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is the canonical application error.
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Fields  []FieldError
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	op := strings.TrimSpace(e.Op)
	msg := strings.TrimSpace(e.Message)
	switch {
	case op != "" && msg != "":
		return fmt.Sprintf("%s: %s (%s)", op, msg, e.Kind)
	case op != "":
		return fmt.Sprintf("%s (%s)", op, e.Kind)
	case msg != "":
		return fmt.Sprintf("%s (%s)", msg, e.Kind)
	default:
		return string(e.Kind)
	}
}

func (e *Error) Unwrap() error { return e.Cause }

// New builds an error of the given kind.
func New(kind Kind, op, message string) error {
	return &Error{Kind: kind, Op: strings.TrimSpace(op), Message: strings.TrimSpace(message)}
}

// Newf is New with a format string.
func Newf(kind Kind, op, format string, args ...any) error {
	return New(kind, op, fmt.Sprintf(format, args...))
}

// Wrap annotates err with op. The kind of the innermost *Error is kept,
// anything else becomes KindInternal.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return &Error{Kind: ae.Kind, Op: op, Message: ae.Message, Fields: ae.Fields, Cause: err}
	}
	return &Error{Kind: KindInternal, Op: op, Message: err.Error(), Cause: err}
}

// WrapKind annotates err with an explicit kind regardless of what it wraps.
func WrapKind(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Message: err.Error(), Cause: err}
}

// Validation builds a validation error carrying field-level details.
func Validation(op string, fields ...FieldError) error {
	msg := "validation failed"
	if len(fields) == 1 {
		msg = fields[0].Field + " " + fields[0].Message
	}
	return &Error{Kind: KindValidation, Op: op, Message: msg, Fields: fields}
}

// KindOf extracts the kind when err is (or wraps) an *Error.
func KindOf(err error) Kind {
	var ae *Error
	if !errors.As(err, &ae) {
		return ""
	}
	return ae.Kind
}

// IsKind reports whether err carries kind.
func IsKind(err error, kind Kind) bool { return err != nil && KindOf(err) == kind }

// FieldsOf returns the field details of a validation error, if any.
func FieldsOf(err error) []FieldError {
	var ae *Error
	if !errors.As(err, &ae) {
		return nil
	}
	return ae.Fields
}

// Sentinels matched with errors.Is.
var (
	ErrInvalidState           = New(KindState, "", "invalid state transition")
	ErrInsufficientUnits      = New(KindResource, "", "insufficient units")
	ErrInsufficientLiquidity  = New(KindResource, "", "insufficient liquidity")
	ErrInsufficientCapital    = New(KindResource, "", "insufficient capital")
	ErrAmountExceedsRemaining = New(KindValidation, "", "amount exceeds remaining balance")
	ErrUnauthorized           = New(KindUnauthorized, "", "caller is not allowed to perform this action")
	ErrVersionConflict        = New(KindConflict, "", "concurrent modification")
)

// From returns a copy of a sentinel annotated with op and detail, still matching errors.Is.
func From(sentinel error, op, detail string) error {
	var ae *Error
	if !errors.As(sentinel, &ae) {
		return Wrap(op, sentinel)
	}
	msg := ae.Message
	if detail = strings.TrimSpace(detail); detail != "" {
		msg += ": " + detail
	}
	return &Error{Kind: ae.Kind, Op: op, Message: msg, Cause: sentinel}
}
