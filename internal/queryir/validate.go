package queryir

import "fmt"

// ValidationResult contains the structural analysis of a query.
type ValidationResult struct {
	// Valid indicates the query has no structural defects and can be
	// handed to the engine for evaluation.
	Valid bool

	// Issues lists the structural defects found. Empty when Valid is true.
	Issues []string
}

// Validate checks a query tree for structural defects.
//
// Structural defects are problems visible without any database: nil query
// nodes, empty group labels, intersections with no operands, differences
// missing a side. Resolution failures (missing identifiers, unknown
// groups) are by design NOT structural - they depend on database state at
// evaluation time and surface as typed engine errors instead.
//
// Validate is a pure function with no side effects.
func Validate(query Query) ValidationResult {
	v := &validator{
		issues: []string{},
	}
	v.validateQuery(query, "query")

	return ValidationResult{
		Valid:  len(v.issues) == 0,
		Issues: v.issues,
	}
}

// validator accumulates issues during traversal.
type validator struct {
	issues []string
}

// addIssue appends an issue message.
func (v *validator) addIssue(format string, args ...any) {
	v.issues = append(v.issues, fmt.Sprintf(format, args...))
}

// validateQuery recursively validates a query node. path locates the node
// within the tree for issue messages.
func (v *validator) validateQuery(q Query, path string) {
	if q == nil {
		v.addIssue("%s: nil query node", path)
		return
	}

	switch query := q.(type) {
	case SingleLookup, *SingleLookup, RangeLookup, *RangeLookup:
		// No structural constraints. Range bound ordering depends on
		// resolved indices and is an evaluation-time concern.
	case GroupReference:
		v.validateGroupReference(query, path)
	case *GroupReference:
		v.validateGroupReference(*query, path)
	case ListCombination:
		v.validateList(query, path)
	case *ListCombination:
		v.validateList(*query, path)
	case Intersection:
		v.validateIntersection(query, path)
	case *Intersection:
		v.validateIntersection(*query, path)
	case Difference:
		v.validateDifference(query, path)
	case *Difference:
		v.validateDifference(*query, path)
	default:
		v.addIssue("%s: unknown query type %T", path, q)
	}
}

func (v *validator) validateGroupReference(ref GroupReference, path string) {
	if ref.Label == "" {
		v.addIssue("%s: empty group label", path)
	}
}

func (v *validator) validateList(list ListCombination, path string) {
	// An empty list is legal: it yields the empty set.
	for i, sub := range list.Queries {
		v.validateQuery(sub, fmt.Sprintf("%s.list[%d]", path, i))
	}
}

func (v *validator) validateIntersection(in Intersection, path string) {
	if len(in.Queries) == 0 {
		v.addIssue("%s: intersection of zero queries", path)
	}
	for i, sub := range in.Queries {
		v.validateQuery(sub, fmt.Sprintf("%s.intersect[%d]", path, i))
	}
}

func (v *validator) validateDifference(d Difference, path string) {
	if d.Left == nil {
		v.addIssue("%s: difference missing left operand", path)
	} else {
		v.validateQuery(d.Left, path+".except.left")
	}
	if d.Right == nil {
		v.addIssue("%s: difference missing right operand", path)
	} else {
		v.validateQuery(d.Right, path+".except.right")
	}
}
