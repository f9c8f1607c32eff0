package cfg

// InsnType identifies the kind of a basic block's terminator instruction.
// Only the last instruction of a block's instruction list drives region
// recognition (spec.md §3, "whose last instruction's type determines the
// branch kind").
type InsnType string

const (
	InsnPlain        InsnType = "plain"
	InsnIf           InsnType = "if"
	InsnSwitch       InsnType = "switch"
	InsnMonitorEnter InsnType = "monitor_enter"
	InsnMonitorExit  InsnType = "monitor_exit"
	InsnReturn       InsnType = "return"
	InsnBreak        InsnType = "break"
	InsnContinue     InsnType = "continue"
)

// Insn is a single instruction in a block's instruction list. Arg0 is
// consulted only by the monitor builder, which matches monitor-enter and
// monitor-exit instructions that share a lock argument (spec.md §4.G).
type Insn struct {
	Type InsnType
	Arg0 string

	// Switch holds the case/target mapping for an InsnSwitch terminator
	// (nil otherwise).
	Switch *SwitchData

	flags FlagSet
}

// CaseKey is a switch case label. The original (jadx, switching on
// Java's int or String) supports both; SPEC_FULL.md supplement 4 carries
// that forward even though spec.md's literal scenarios only use ints.
type CaseKey struct {
	IsString bool
	Int      int
	Str      string
}

// IntCase builds an integer case key.
func IntCase(v int) CaseKey { return CaseKey{Int: v} }

// StringCase builds a string case key.
func StringCase(v string) CaseKey { return CaseKey{IsString: true, Str: v} }

// Equal reports whether two case keys denote the same label.
func (k CaseKey) Equal(other CaseKey) bool {
	if k.IsString != other.IsString {
		return false
	}
	if k.IsString {
		return k.Str == other.Str
	}
	return k.Int == other.Int
}

// SwitchData is the case/target table of a switch terminator.
type SwitchData struct {
	// Cases lists (key, target) pairs in source order; a target may
	// repeat across multiple keys.
	Cases []SwitchEdge

	// Default is the default case's target, or nil if the switch has no
	// default.
	Default *BasicBlock
}

// SwitchEdge is one case label routed to a target block.
type SwitchEdge struct {
	Key    CaseKey
	Target *BasicBlock
}

// Add sets a flag on the instruction (monitor-exit instructions are marked
// FlagDontGenerate|FlagRemove once matched, spec.md §4.G.3).
func (i *Insn) Add(flag BlockFlag) { i.flags.Add(flag) }

// Contains reports whether the instruction carries the given flag.
func (i *Insn) Contains(flag BlockFlag) bool { return i.flags.Contains(flag) }

// LoopLabelAttr is attached to a synthesized BREAK (or to a loop header
// that needs disambiguation) when the block lies inside more than one
// loop and the break must name which loop it exits (spec.md §4.D step 5,
// §6 "Optional LoopLabelAttr").
type LoopLabelAttr struct {
	Loop *Loop
}

// ExcHandlerAttr is attached to each handler region built by the try/catch
// builder (spec.md §6).
type ExcHandlerAttr struct {
	Handler *ExceptionHandler
}
