// Package errors is the error vocabulary for kinlink.
//
// It re-exports github.com/cockroachdb/errors so call sites get stack
// traces, wrapping and hints from a single import:
//
//	if err := store.CreatePersona(ctx, p); err != nil {
//	    return errors.Wrapf(err, "persona for reference %d", refID)
//	}
//
// Sentinels below are checked with errors.Is.
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Creation and wrapping
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

// User-facing context
var (
	WithHint       = crdb.WithHint
	WithHintf      = crdb.WithHintf
	WithDetail     = crdb.WithDetail
	WithDetailf    = crdb.WithDetailf
	GetAllHints    = crdb.GetAllHints
	FlattenHints   = crdb.FlattenHints
	FlattenDetails = crdb.FlattenDetails
)

// Inspection
var (
	Is        = crdb.Is
	IsAny     = crdb.IsAny
	As        = crdb.As
	Unwrap    = crdb.Unwrap
	UnwrapAll = crdb.UnwrapAll
)

var (
	// ErrNotFound indicates the requested record does not exist
	ErrNotFound = New("not found")

	// ErrMissingBody indicates a document has no body element to process
	ErrMissingBody = New("document has no body")

	// ErrInvalidConfig indicates configuration failed validation
	ErrInvalidConfig = New("invalid configuration")

	// ErrNoCurrentEventa indicates a statement needs an event assertion that has not been declared
	ErrNoCurrentEventa = New("no current event assertion")
)

// IsNotFoundError reports whether err is or wraps ErrNotFound.
func IsNotFoundError(err error) bool {
	return err != nil && Is(err, ErrNotFound)
}

// NewNotFoundError creates a not-found error with a formatted message.
func NewNotFoundError(format string, args ...interface{}) error {
	return Mark(Newf(format, args...), ErrNotFound)
}
