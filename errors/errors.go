// Package errors provides error handling for qsfdecode.
//
// It re-exports github.com/cockroachdb/errors (stack traces, wrapping, hints)
// and defines the sentinels that classify translation failures:
//
//   - ErrUnsupported: a question kind has no rendering for an operation.
//     The translation pipeline skips such questions.
//   - ErrMalformed: a survey element is missing a required field or has the
//     wrong shape. The pipeline reports the question and continues.
//   - ErrExportFailed: the survey platform refused or failed an export.
//     Transport failures are wrapped separately so callers can tell them apart.
//
// Usage:
//
//	if _, err := q.LabelValues(); errors.IsUnsupported(err) {
//	    continue
//	}
//
//	return errors.Wrapf(errors.ErrMalformed, "Payload.%s missing", key)
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
	Mark         = crdb.Mark
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
)

// Error inspection
var (
	Is             = crdb.Is
	IsAny          = crdb.IsAny
	As             = crdb.As
	Unwrap         = crdb.Unwrap
	UnwrapAll      = crdb.UnwrapAll
	GetAllHints    = crdb.GetAllHints
	GetAllDetails  = crdb.GetAllDetails
	FlattenHints   = crdb.FlattenHints
	FlattenDetails = crdb.FlattenDetails
)

var (
	// ErrUnsupported indicates a question kind has no meaningful rendering
	// for the requested generation operation
	ErrUnsupported = New("unsupported operation")

	// ErrMalformed indicates a survey element is missing a required field
	// or carries a value of the wrong shape
	ErrMalformed = New("malformed survey element")

	// ErrExportFailed indicates the survey platform reported a failed export
	ErrExportFailed = New("export failed")

	// ErrNotFound indicates the requested resource does not exist
	ErrNotFound = New("not found")

	// ErrInvalidRequest indicates the request was malformed or invalid
	ErrInvalidRequest = New("invalid request")
)

// IsUnsupported checks if an error is or wraps ErrUnsupported
func IsUnsupported(err error) bool {
	return err != nil && Is(err, ErrUnsupported)
}

// IsMalformed checks if an error is or wraps ErrMalformed
func IsMalformed(err error) bool {
	return err != nil && Is(err, ErrMalformed)
}

// IsExportFailed checks if an error is or wraps ErrExportFailed
func IsExportFailed(err error) bool {
	return err != nil && Is(err, ErrExportFailed)
}

// IsNotFoundError checks if an error is or wraps ErrNotFound
func IsNotFoundError(err error) bool {
	return err != nil && Is(err, ErrNotFound)
}

// NewUnsupportedError creates an unsupported-operation error with a formatted message
func NewUnsupportedError(format string, args ...interface{}) error {
	return Wrapf(ErrUnsupported, format, args...)
}

// NewMalformedError creates a malformed-input error with a formatted message
func NewMalformedError(format string, args ...interface{}) error {
	return Wrapf(ErrMalformed, format, args...)
}

// NewExportFailedError creates an export-failed error with a formatted message
func NewExportFailedError(format string, args ...interface{}) error {
	return Wrapf(ErrExportFailed, format, args...)
}
