package queryir

import "github.com/fHachenberg/groupq/internal/ir"

// Query represents an abstract groupq query.
//
// This is a sealed interface - only types in this package implement it.
// The marker method pattern prevents external implementations and enables
// exhaustive type switches in evaluators and serializers.
//
// A Query carries only value data. It holds no database references: the
// engine package resolves identifiers and group labels at evaluation time
// against explicitly passed databases. Group resolution in particular is
// late-bound - a GroupReference may be constructed before its label exists,
// as long as the label is registered by the time the query is evaluated.
//
// Queries are immutable after construction. Composition happens by wrapping
// existing queries inside a new combinator, never by modifying one in place.
type Query interface {
	queryNode() // Marker method - seals interface to this package
}

// SingleLookup resolves one identifier to a one-element index set.
//
// Evaluation fails with KEY_NOT_FOUND if the identifier is absent from the
// identifier database.
type SingleLookup struct {
	Identifier ir.Identifier
}

func (SingleLookup) queryNode() {}

// RangeLookup resolves First and Last each to an index and yields every
// index in the inclusive range [idx(First), idx(Last)].
//
// Evaluation fails with KEY_NOT_FOUND if either bound is absent, and with
// INVALID_RANGE if the resolved first index exceeds the resolved last
// index.
type RangeLookup struct {
	First ir.Identifier
	Last  ir.Identifier
}

func (RangeLookup) queryNode() {}

// GroupReference resolves a label in the group database and evaluates the
// query registered there.
//
// Resolution happens at evaluation time, not construction time. Reassigning
// a label changes the behavior of every GroupReference naming it - this is
// the intentional late-binding channel of the design, not a snapshot
// semantic. Evaluation fails with UNKNOWN_GROUP if the label is absent.
type GroupReference struct {
	Label ir.GroupLabel
}

func (GroupReference) queryNode() {}

// ListCombination evaluates every nested query and yields the union of
// their results.
//
// The result is order-independent. An empty Queries slice yields the empty
// set. If any nested query fails, the whole combination fails atomically -
// no partial results.
type ListCombination struct {
	Queries []Query
}

func (ListCombination) queryNode() {}

// Intersection evaluates every nested query and yields the intersection of
// their results.
//
// An empty Queries slice fails with EMPTY_INTERSECTION: with no operands
// there is no universe set to intersect down from.
type Intersection struct {
	Queries []Query
}

func (Intersection) queryNode() {}

// Difference yields the result of Left minus the result of Right.
type Difference struct {
	Left  Query
	Right Query
}

func (Difference) queryNode() {}
