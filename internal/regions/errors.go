package regions

import "fmt"

// OverflowError is raised when regionsCount exceeds the builder's region
// limit, blocksCount*100 unless set with SetRegionLimit (spec.md §3
// invariant 6, §7 "Overflow"). It is fatal to the method
// being built; callers should fall back to raw-CFG emission.
type OverflowError struct {
	Method string
	Count  int
	Limit  int
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("region count overflow in %q: %d regions exceeds limit %d", e.Method, e.Count, e.Limit)
}

// InvariantError is raised when the builder detects a violated invariant
// that should not happen for valid input, e.g. a loop-exit check that
// cannot find the main exit edge it expects (spec.md §7, "Invariant
// violation").
type InvariantError struct {
	Method string
	Detail string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("invariant violation in %q: %s", e.Method, e.Detail)
}

// DepthError is raised when recursion nesting alone (independent of total
// region count) exceeds the builder's configured maximum, the nesting
// guard SPEC_FULL.md's supplement 1 adds on top of spec.md's region-count
// limit.
type DepthError struct {
	Method string
	Depth  int
	Max    int
}

func (e *DepthError) Error() string {
	return fmt.Sprintf("region nesting overflow in %q: depth %d exceeds max %d", e.Method, e.Depth, e.Max)
}
