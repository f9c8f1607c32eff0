package cfg

// BasicBlock is a maximal straight-line instruction sequence with one
// entry and one exit (spec.md GLOSSARY). It is owned by the CFG and only
// ever referenced by built regions (spec.md §3, Lifecycle).
type BasicBlock struct {
	ID int

	Predecessors []*BasicBlock
	Successors   []*BasicBlock

	// CleanSuccessors excludes synthetic back-edges inserted by the loop
	// detector, so forward-structure recognizers never walk into a loop's
	// own header through its latch (spec.md §3).
	CleanSuccessors []*BasicBlock

	// DomFrontier holds this block's dominance-frontier, by block id.
	DomFrontier IntSet

	Instructions []*Insn

	flags FlagSet

	// dom is set once by the owning CFG after dominator-tree construction,
	// so IsDominator can be answered without threading the tree through
	// every call site (spec.md §6, "isDominator(other)").
	dom *DomTree
}

// NewBasicBlock allocates a block with the given id.
func NewBasicBlock(id int) *BasicBlock {
	return &BasicBlock{ID: id, DomFrontier: IntSet{}}
}

// Add sets a flag on the block.
func (b *BasicBlock) Add(flag BlockFlag) { b.flags.Add(flag) }

// Remove clears a flag on the block.
func (b *BasicBlock) Remove(flag BlockFlag) { b.flags.Remove(flag) }

// Contains reports whether the block carries the given flag.
func (b *BasicBlock) Contains(flag BlockFlag) bool { return b.flags.Contains(flag) }

// Flags returns a snapshot of the block's current flag bits, used to
// restore them after temporary mutation (spec.md §3, invariant 3).
func (b *BasicBlock) Flags() FlagSet { return b.flags.Clone() }

// SetFlags overwrites the block's flag bits from a previously taken
// snapshot.
func (b *BasicBlock) SetFlags(f FlagSet) { b.flags = f }

// LastInsn returns the block's terminator instruction, or nil for an
// empty block.
func (b *BasicBlock) LastInsn() *Insn {
	if len(b.Instructions) == 0 {
		return nil
	}
	return b.Instructions[len(b.Instructions)-1]
}

// LastInsnType reports the InsnType of the block's terminator, or
// InsnPlain for an empty block (spec.md §6, "checkLastInsnType").
func (b *BasicBlock) LastInsnType() InsnType {
	if li := b.LastInsn(); li != nil {
		return li.Type
	}
	return InsnPlain
}

// IsDominator reports whether b dominates other in the owning CFG.
func (b *BasicBlock) IsDominator(other *BasicBlock) bool {
	if b.dom == nil || other == nil {
		return b == other
	}
	return b.dom.Dominates(b.ID, other.ID)
}

// AddSuccessor connects b to target as a clean (forward) edge, recorded in
// both Successors and CleanSuccessors, mirroring the teacher's BasicBlock.AddSuccessor /
// CFG.ConnectBlocks idiom (cfg_builder.go).
func (b *BasicBlock) AddSuccessor(target *BasicBlock) {
	b.Successors = append(b.Successors, target)
	b.CleanSuccessors = append(b.CleanSuccessors, target)
	target.Predecessors = append(target.Predecessors, b)
}

// AddBackEdgeSuccessor connects b to target as a loop back-edge: it is
// recorded in Successors but not CleanSuccessors, so forward structural
// recognizers skip it (spec.md §3, "clean successors").
func (b *BasicBlock) AddBackEdgeSuccessor(target *BasicBlock) {
	b.Successors = append(b.Successors, target)
	target.Predecessors = append(target.Predecessors, b)
}

// HasSuccessor reports whether target is already a direct successor of b.
func (b *BasicBlock) HasSuccessor(target *BasicBlock) bool {
	for _, s := range b.Successors {
		if s == target {
			return true
		}
	}
	return false
}
