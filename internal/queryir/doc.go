// Package queryir defines the tagged-variant intermediate representation
// for groupq queries.
//
// Queries are a sealed sum type rather than closures over live database
// references: each variant holds only value data, and evaluation takes the
// databases as explicit parameters (see the engine package). Queries are
// therefore inspectable, hashable, and free of any lifetime coupling to
// the databases they are evaluated against.
//
// QUERY VARIANTS:
//
//   - SingleLookup: one identifier, resolved to a one-element set
//   - RangeLookup: two identifiers, resolved to an inclusive index range
//   - GroupReference: late-bound reference to a named query
//   - ListCombination: union of nested query results
//   - Intersection: intersection of nested query results
//   - Difference: left result minus right result
//
// ListCombination is the combinator of the original system; Intersection
// and Difference follow the same shape as siblings.
//
// SEALED INTERFACE:
//
// Query is a sealed interface using the marker method pattern. Only types
// in this package implement it, so evaluators and serializers can type
// switch exhaustively:
//
//	switch q := query.(type) {
//	case SingleLookup:
//	    // ...
//	case RangeLookup:
//	    // ...
//	}
//
// CANONICAL FORM:
//
// MarshalCanonical produces deterministic JSON (sorted keys, NFC-normalized
// labels, no floats) and Hash derives a domain-separated SHA-256 content
// address from it. Two structurally equal queries always hash identically,
// regardless of how they were constructed or loaded.
package queryir
