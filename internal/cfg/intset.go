package cfg

import "sort"

// IntSet is a small unordered set of block IDs, standing in for the
// dominator-frontier bitsets and exit-node sets of spec.md §3.
type IntSet map[int]struct{}

// NewIntSet builds an IntSet from the given ids.
func NewIntSet(ids ...int) IntSet {
	s := make(IntSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Add inserts id into the set.
func (s IntSet) Add(id int) { s[id] = struct{}{} }

// Remove deletes id from the set.
func (s IntSet) Remove(id int) { delete(s, id) }

// Contains reports whether id is a member.
func (s IntSet) Contains(id int) bool {
	_, ok := s[id]
	return ok
}

// Clone returns an independent copy of the set.
func (s IntSet) Clone() IntSet {
	out := make(IntSet, len(s))
	for id := range s {
		out[id] = struct{}{}
	}
	return out
}

// Union adds every member of other into s and returns s.
func (s IntSet) Union(other IntSet) IntSet {
	for id := range other {
		s[id] = struct{}{}
	}
	return s
}

// Sorted returns the set's members in ascending order, used wherever
// iteration order must be deterministic (spec.md §5, "Ordering guarantees").
func (s IntSet) Sorted() []int {
	out := make([]int, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Ints(out)
	return out
}

// BlocksToSet converts a block slice to the set of their ids.
func BlocksToSet(blocks []*BasicBlock) IntSet {
	s := make(IntSet, len(blocks))
	for _, b := range blocks {
		if b != nil {
			s.Add(b.ID)
		}
	}
	return s
}
