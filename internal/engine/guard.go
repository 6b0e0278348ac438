package engine

import "github.com/fHachenberg/groupq/internal/ir"

// guard tracks termination state for a single evaluation.
//
// Late-bound group references admit two non-terminating shapes the
// reference behavior would recurse on forever:
//
//	cycle:  group "a" = {group: "a"}, or a → b → a
//	depth:  a chain of distinct groups (or combinators) nested past any
//	        reasonable bound
//
// The active-label set catches cycles exactly; the depth counter catches
// linear explosion. Both are scoped to one evaluation - a fresh guard is
// allocated per Evaluate call, so repeated evaluations of the same query
// never interfere with each other.
type guard struct {
	maxDepth int
	depth    int
	active   map[ir.GroupLabel]bool
}

func newGuard(maxDepth int) *guard {
	return &guard{
		maxDepth: maxDepth,
		active:   make(map[ir.GroupLabel]bool),
	}
}

// enter records one level of query nesting. Returns DEPTH_EXCEEDED when
// the quota is blown.
func (g *guard) enter() error {
	g.depth++
	if g.depth > g.maxDepth {
		return NewDepthExceededError(g.depth, g.maxDepth)
	}
	return nil
}

// leave unwinds one level of query nesting.
func (g *guard) leave() {
	g.depth--
}

// enterGroup marks a label as being resolved. Returns CYCLE_DETECTED if
// the label is already on the active resolution chain.
func (g *guard) enterGroup(label ir.GroupLabel) error {
	if g.active[label] {
		return NewCycleError(label)
	}
	g.active[label] = true
	return nil
}

// leaveGroup removes a label from the active resolution chain. Sibling
// references to the same label are legal; only re-entrant ones cycle.
func (g *guard) leaveGroup(label ir.GroupLabel) {
	delete(g.active, label)
}
