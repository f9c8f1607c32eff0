package cfg

// BlockFlag is a single bit in a BasicBlock's mutable flag set. The region
// builder both reads and sets these flags as an observable side-effect of
// building (spec.md §3, "Mutations to block flags ... are the builder's
// observable side-effects on the CFG").
type BlockFlag uint32

const (
	// FlagLoopStart marks a block as the header of a natural loop.
	FlagLoopStart BlockFlag = 1 << iota

	// FlagSynthetic marks a trampoline block inserted by an earlier pass,
	// bearing no original instructions.
	FlagSynthetic

	// FlagReturn marks a block that terminates the method.
	FlagReturn

	// FlagAddedToRegion marks a block already consumed into some region,
	// preventing re-entry (spec.md §3, invariant 1).
	FlagAddedToRegion

	// FlagDontGenerate marks a block whose content must not be emitted
	// (e.g. a matched monitor-exit's block).
	FlagDontGenerate

	// FlagRemove marks an instruction or block slated for removal.
	FlagRemove

	// FlagFallThrough marks a switch case block that falls into the next
	// case rather than breaking.
	FlagFallThrough

	// FlagInconsistentCode marks a method where a structural recognizer
	// could not reconcile the input (e.g. an unfixable switch fallthrough
	// order).
	FlagInconsistentCode

	// FlagCatchBlock marks a block that is the entry of an exception
	// handler.
	FlagCatchBlock

	// FlagExcHandler marks a block belonging to an exception handler's body.
	FlagExcHandler
)

// FlagSet is a small bitset wrapper shared by BasicBlock and the method
// itself (spec.md §6, "method: ... add(flag)").
type FlagSet struct {
	bits BlockFlag
}

// Add sets the given flag.
func (f *FlagSet) Add(flag BlockFlag) { f.bits |= flag }

// Remove clears the given flag.
func (f *FlagSet) Remove(flag BlockFlag) { f.bits &^= flag }

// Contains reports whether the given flag is set.
func (f *FlagSet) Contains(flag BlockFlag) bool { return f.bits&flag != 0 }

// Clone returns a copy of the flag set, used to snapshot/restore a block's
// flags around loop-header recursion (spec.md §3, invariant 3).
func (f FlagSet) Clone() FlagSet { return FlagSet{bits: f.bits} }
