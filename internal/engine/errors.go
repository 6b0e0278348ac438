package engine

import (
	"errors"
	"fmt"

	"github.com/fHachenberg/groupq/internal/ir"
)

// EvalError represents a typed failure detected during query evaluation.
//
// All evaluation errors are raised at evaluation time, never at query
// construction time: construction only captures values, and resolution is
// deferred until the query is evaluated.
type EvalError struct {
	// Code identifies the error category.
	Code EvalErrorCode

	// Message is a human-readable description.
	Message string

	// Identifier is the offending identifier (for KEY_NOT_FOUND).
	Identifier ir.Identifier

	// Label is the offending group label (for UNKNOWN_GROUP and
	// CYCLE_DETECTED).
	Label ir.GroupLabel

	// Details contains additional context.
	Details map[string]string
}

// EvalErrorCode categorizes evaluation errors.
type EvalErrorCode string

const (
	// ErrCodeKeyNotFound indicates a single or range lookup named an
	// identifier absent from the identifier database.
	ErrCodeKeyNotFound EvalErrorCode = "KEY_NOT_FOUND"

	// ErrCodeUnknownGroup indicates a group reference named a label absent
	// from the group database at evaluation time.
	ErrCodeUnknownGroup EvalErrorCode = "UNKNOWN_GROUP"

	// ErrCodeInvalidRange indicates a range lookup whose resolved first
	// index exceeds its resolved last index.
	ErrCodeInvalidRange EvalErrorCode = "INVALID_RANGE"

	// ErrCodeCycleDetected indicates group resolution re-entered a label
	// already being resolved in the same evaluation.
	ErrCodeCycleDetected EvalErrorCode = "CYCLE_DETECTED"

	// ErrCodeDepthExceeded indicates the nesting depth quota was exceeded.
	ErrCodeDepthExceeded EvalErrorCode = "DEPTH_EXCEEDED"

	// ErrCodeEmptyIntersection indicates an intersection of zero queries,
	// for which no universe set exists.
	ErrCodeEmptyIntersection EvalErrorCode = "EMPTY_INTERSECTION"

	// ErrCodeInvalidQuery indicates a nil or foreign query node reached
	// the evaluator.
	ErrCodeInvalidQuery EvalErrorCode = "INVALID_QUERY"
)

// Error implements the error interface.
func (e *EvalError) Error() string {
	if e.Label != "" {
		return fmt.Sprintf("%s: %s (label=%q)", e.Code, e.Message, e.Label)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// CodeOf extracts the EvalErrorCode from an error, or "" if the error is
// not an EvalError. Uses errors.As to handle wrapped errors.
func CodeOf(err error) EvalErrorCode {
	var ee *EvalError
	if errors.As(err, &ee) {
		return ee.Code
	}
	return ""
}

// IsKeyNotFound returns true if the error is a missing-identifier error.
func IsKeyNotFound(err error) bool {
	return CodeOf(err) == ErrCodeKeyNotFound
}

// IsUnknownGroup returns true if the error is a missing-group error.
func IsUnknownGroup(err error) bool {
	return CodeOf(err) == ErrCodeUnknownGroup
}

// IsInvalidRange returns true if the error is an inverted-range error.
func IsInvalidRange(err error) bool {
	return CodeOf(err) == ErrCodeInvalidRange
}

// IsCycleError returns true if the error is a group-cycle error.
func IsCycleError(err error) bool {
	return CodeOf(err) == ErrCodeCycleDetected
}

// IsDepthError returns true if the error is a depth-quota error.
func IsDepthError(err error) bool {
	return CodeOf(err) == ErrCodeDepthExceeded
}

// NewKeyNotFoundError creates an EvalError for a missing identifier.
func NewKeyNotFoundError(id ir.Identifier) *EvalError {
	return &EvalError{
		Code:       ErrCodeKeyNotFound,
		Message:    fmt.Sprintf("identifier %d not in identifier database", id),
		Identifier: id,
	}
}

// NewUnknownGroupError creates an EvalError for a missing group label.
func NewUnknownGroupError(label ir.GroupLabel) *EvalError {
	return &EvalError{
		Code:    ErrCodeUnknownGroup,
		Message: "group label not registered",
		Label:   label,
	}
}

// NewInvalidRangeError creates an EvalError for an inverted range.
func NewInvalidRangeError(first, last ir.Identifier, firstIdx, lastIdx ir.Index) *EvalError {
	return &EvalError{
		Code:    ErrCodeInvalidRange,
		Message: fmt.Sprintf("range (%d, %d) resolves to inverted index range [%d, %d]", first, last, firstIdx, lastIdx),
		Details: map[string]string{
			"first_index": fmt.Sprintf("%d", firstIdx),
			"last_index":  fmt.Sprintf("%d", lastIdx),
		},
	}
}

// NewCycleError creates an EvalError for re-entrant group resolution.
func NewCycleError(label ir.GroupLabel) *EvalError {
	return &EvalError{
		Code:    ErrCodeCycleDetected,
		Message: "group resolution cycle",
		Label:   label,
	}
}

// NewDepthExceededError creates an EvalError for a blown depth quota.
func NewDepthExceededError(depth, maxDepth int) *EvalError {
	return &EvalError{
		Code:    ErrCodeDepthExceeded,
		Message: fmt.Sprintf("query nesting exceeded max depth (%d >= %d)", depth, maxDepth),
		Details: map[string]string{
			"depth":     fmt.Sprintf("%d", depth),
			"max_depth": fmt.Sprintf("%d", maxDepth),
		},
	}
}

// NewEmptyIntersectionError creates an EvalError for an intersection with
// no operands.
func NewEmptyIntersectionError() *EvalError {
	return &EvalError{
		Code:    ErrCodeEmptyIntersection,
		Message: "intersection of zero queries has no universe set",
	}
}

// NewInvalidQueryError creates an EvalError for a nil or foreign query
// node.
func NewInvalidQueryError(q any) *EvalError {
	return &EvalError{
		Code:    ErrCodeInvalidQuery,
		Message: fmt.Sprintf("invalid query node of type %T", q),
	}
}
