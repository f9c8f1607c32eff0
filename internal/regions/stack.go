package regions

import "github.com/ludo-technologies/cfgregion/internal/cfg"

// frame is one scope of the RegionStack: the region currently being
// populated and the set of blocks at which a nested `build` must stop
// (spec.md §4.A).
type frame struct {
	region *Region
	exits  cfg.IntSet
}

// Stack is a stack of build scopes. Its top frame's exit set is what a
// recursive `build` invocation treats as its boundary (spec.md §3,
// invariant 2).
type Stack struct {
	frames []*frame
}

// NewStack creates an empty stack.
func NewStack() *Stack { return &Stack{} }

// Push opens a new frame around region, with an empty exit set.
func (s *Stack) Push(region *Region) {
	s.frames = append(s.frames, &frame{region: region, exits: cfg.IntSet{}})
}

// Pop closes the top frame.
func (s *Stack) Pop() {
	if len(s.frames) == 0 {
		return
	}
	s.frames = s.frames[:len(s.frames)-1]
}

// AddExit adds a single exit block to the top frame.
func (s *Stack) AddExit(b *cfg.BasicBlock) {
	if b == nil || len(s.frames) == 0 {
		return
	}
	s.top().exits.Add(b.ID)
}

// AddExits adds every block in blocks as an exit of the top frame.
func (s *Stack) AddExits(blocks []*cfg.BasicBlock) {
	for _, b := range blocks {
		s.AddExit(b)
	}
}

// RemoveExit removes b from the top frame's exit set.
func (s *Stack) RemoveExit(b *cfg.BasicBlock) {
	if b == nil || len(s.frames) == 0 {
		return
	}
	s.top().exits.Remove(b.ID)
}

// ContainsExit reports whether b is an exit of the top frame OR of any
// frame beneath it, so callers can early-terminate when a block is a
// boundary of any enclosing scope (spec.md §4.A).
func (s *Stack) ContainsExit(b *cfg.BasicBlock) bool {
	if b == nil {
		return false
	}
	for i := len(s.frames) - 1; i >= 0; i-- {
		if s.frames[i].exits.Contains(b.ID) {
			return true
		}
	}
	return false
}

// ContainsTopExit reports whether b is an exit of only the top frame.
func (s *Stack) ContainsTopExit(b *cfg.BasicBlock) bool {
	if b == nil || len(s.frames) == 0 {
		return false
	}
	return s.top().exits.Contains(b.ID)
}

// PeekRegion returns the region the top frame is populating.
func (s *Stack) PeekRegion() *Region {
	if len(s.frames) == 0 {
		return nil
	}
	return s.top().region
}

// Depth reports how many frames are currently open, used to enforce the
// nesting-depth guard (SPEC_FULL.md supplement 1).
func (s *Stack) Depth() int { return len(s.frames) }

func (s *Stack) top() *frame { return s.frames[len(s.frames)-1] }
