// Package errs defines the typed error hierarchy raised synchronously by
// construction, transformation, and lowering across this module.
//
// Grounded on sentra's internal/errors/errors.go: a Kind enum plus a single
// wrapping struct type, adapted here to wrap causes with
// github.com/pkg/errors instead of carrying source-location/call-stack
// fields (there is no source text in a DAG IR, only node context).
package errs

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies a CompileError for programmatic matching (errors.As plus
// a switch on Kind), mirroring sentra's ErrorType.
type Kind string

const (
	// Construction errors (spec.md §7 "Construction errors").
	KindBadShape         Kind = "BadShape"
	KindBadAxes          Kind = "BadAxes"
	KindUnknownName      Kind = "UnknownName"
	KindNegativeSize     Kind = "NegativeSize"
	KindNonIntegralIndex Kind = "NonIntegralIndex"
	KindDtypeMismatch    Kind = "DtypeMismatch"

	// Name clashes (§4.5, §7).
	KindNameClash Kind = "NameClash"

	// Concatenation errors (§4.4, §7).
	KindInvalidConcatenatability      Kind = "InvalidConcatenatability"
	KindNoValidConcatenationCandidate Kind = "NoValidConcatenationCandidate"
	KindNonSimilarCallSites           Kind = "NonSimilarCallSites"
	KindCallSiteCycle                 Kind = "CallSiteCycle"
	KindNestedCallUnsupported         Kind = "NestedCallUnsupported"

	// Lowering errors (§4.6, §7).
	KindUnsupportedImplementationStrategy Kind = "UnsupportedImplementationStrategy"
	KindOutlinedCallAtLowering            Kind = "OutlinedCallAtLowering"
	KindLoopyCallOnNonLoopyTarget         Kind = "LoopyCallOnNonLoopyTarget"
	KindOptionsReturnMismatch             Kind = "OptionsReturnMismatch"

	// Mapper collision errors (§4.1, §7).
	KindMapperCollision       Kind = "MapperCollision"
	KindMapperDuplicateCreated Kind = "MapperDuplicateCreated"
)

// CompileError is the single concrete error type raised by this module.
// Every constructor below returns one, wrapping an optional cause.
type CompileError struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *CompileError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap lets errors.As/errors.Is see through to the wrapped cause.
func (e *CompileError) Unwrap() error { return e.cause }

// New creates a CompileError of the given kind with no wrapped cause.
func New(kind Kind, format string, args ...any) *CompileError {
	return &CompileError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates a CompileError of the given kind, wrapping cause with
// github.com/pkg/errors so the stack trace at the wrap site is preserved.
func Wrap(kind Kind, cause error, format string, args ...any) *CompileError {
	return &CompileError{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		cause:   errors.WithStack(cause),
	}
}

// Is reports whether err is a *CompileError of the given kind.
func Is(err error, kind Kind) bool {
	var ce *CompileError
	if !errors.As(err, &ce) {
		return false
	}
	return ce.Kind == kind
}
