package ir

import "slices"

// IndexSet is a set of Index values: unique, unordered.
//
// Query evaluation produces a fresh IndexSet on every invocation. The set
// operations (Union, Intersect, Difference) follow the same rule: they
// allocate a new set and leave both operands untouched. Use Add only on
// sets the caller owns.
type IndexSet map[Index]struct{}

// NewIndexSet creates a set containing the given indices.
func NewIndexSet(indices ...Index) IndexSet {
	s := make(IndexSet, len(indices))
	for _, idx := range indices {
		s[idx] = struct{}{}
	}
	return s
}

// FromRange creates the set of all indices in the inclusive range
// [first, last]. If first > last the result is empty; callers that treat
// an inverted range as an error must check before calling.
func FromRange(first, last Index) IndexSet {
	if first > last {
		return IndexSet{}
	}
	s := make(IndexSet, last-first+1)
	for idx := first; idx <= last; idx++ {
		s[idx] = struct{}{}
	}
	return s
}

// Add inserts idx into the set.
func (s IndexSet) Add(idx Index) {
	s[idx] = struct{}{}
}

// Contains reports whether idx is in the set.
func (s IndexSet) Contains(idx Index) bool {
	_, ok := s[idx]
	return ok
}

// Len returns the number of indices in the set.
func (s IndexSet) Len() int {
	return len(s)
}

// Union returns a new set containing every index in s or other.
func (s IndexSet) Union(other IndexSet) IndexSet {
	res := make(IndexSet, len(s)+len(other))
	for idx := range s {
		res[idx] = struct{}{}
	}
	for idx := range other {
		res[idx] = struct{}{}
	}
	return res
}

// Intersect returns a new set containing every index in both s and other.
func (s IndexSet) Intersect(other IndexSet) IndexSet {
	small, large := s, other
	if len(large) < len(small) {
		small, large = large, small
	}
	res := make(IndexSet)
	for idx := range small {
		if _, ok := large[idx]; ok {
			res[idx] = struct{}{}
		}
	}
	return res
}

// Difference returns a new set containing every index in s but not other.
func (s IndexSet) Difference(other IndexSet) IndexSet {
	res := make(IndexSet)
	for idx := range s {
		if _, ok := other[idx]; !ok {
			res[idx] = struct{}{}
		}
	}
	return res
}

// Equal reports whether s and other contain exactly the same indices.
func (s IndexSet) Equal(other IndexSet) bool {
	if len(s) != len(other) {
		return false
	}
	for idx := range s {
		if _, ok := other[idx]; !ok {
			return false
		}
	}
	return true
}

// Clone returns a fresh copy of the set.
func (s IndexSet) Clone() IndexSet {
	res := make(IndexSet, len(s))
	for idx := range s {
		res[idx] = struct{}{}
	}
	return res
}

// Sorted returns the indices in ascending order. Use for deterministic
// output and test assertions; the set itself carries no order.
func (s IndexSet) Sorted() []Index {
	out := make([]Index, 0, len(s))
	for idx := range s {
		out = append(out, idx)
	}
	slices.Sort(out)
	return out
}
