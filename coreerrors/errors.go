// Package coreerrors defines the single error shape surfaced across every
// public boundary of the invoice core, grounded on the donor pack's
// Op/Err/Details wrapper convention (tools/internal/invoice/errors.go,
// tools/internal/ocr/errors.go).
package coreerrors

import (
	"errors"
	"fmt"
)

// Kind is a stable, language-independent error category. Callers switch on
// Kind rather than on message text.
type Kind string

const (
	KindValidation          Kind = "VALIDATION"
	KindNotFound            Kind = "NOT_FOUND"
	KindConflict            Kind = "CONFLICT"
	KindReferenceInUse      Kind = "REFERENCE_IN_USE"
	KindFA3ValidationFailed Kind = "FA3_VALIDATION_FAILED"
	KindIO                  Kind = "IO_ERROR"
	KindInternal            Kind = "INTERNAL"
)

// Error is the structured error returned by the exported functions of the
// invoice service, store queries, numbering, money, validate and fa3.Build;
// store.Open, fa3.Write and the PDF renderer return plain wrapped errors
// instead. Op names the failing operation (e.g. "invoiceservice.Issue"),
// Details carries structured context (a field-issue list for KindValidation,
// validator stderr for KindFA3ValidationFailed).
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Details any
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %s: %v", e.Op, e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s: %s", e.Op, e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets errors.Is(err, coreerrors.New(coreerrors.KindValidation, "", ""))
// style checks work by comparing Kind when the target is also an *Error.
func (e *Error) Is(target error) bool {
	var other *Error
	if errors.As(target, &other) {
		return e.Kind == other.Kind
	}
	return false
}

func New(kind Kind, op, message string) *Error {
	return &Error{Kind: kind, Op: op, Message: message}
}

func Wrap(kind Kind, op, message string, err error) *Error {
	return &Error{Kind: kind, Op: op, Message: message, Err: err}
}

func WithDetails(kind Kind, op, message string, details any) *Error {
	return &Error{Kind: kind, Op: op, Message: message, Details: details}
}

// OfKind reports whether err is a *Error of the given kind.
func OfKind(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// FieldIssue is one entry of a KindValidation error's Details list, the Go
// equivalent of the donor's Zod-like issue shape referenced in the spec.
type FieldIssue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func Validation(op string, issues ...FieldIssue) *Error {
	msg := "validation failed"
	if len(issues) == 1 {
		msg = issues[0].Message
	}
	return WithDetails(KindValidation, op, msg, issues)
}
