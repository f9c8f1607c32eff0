// Package regions implements the region builder: the algorithm that walks
// a method's control-flow graph and recognizes loop/if/switch/monitor/
// try-catch patterns, producing a nested tree of structured regions
// suitable for source emission (spec.md §1–§2).
//
// It is grounded on jadx's RegionMaker.java
// (_examples/original_source/jadx-core/.../regions/RegionMaker.java), the
// original this spec distills, and written in the idiom of the teacher
// repository's CFG-walking code (ludo-technologies/jscan,
// internal/analyzer/cfg_builder.go: an explicit stack of loop/exception
// contexts threaded through a recursive-descent builder).
package regions

import "github.com/ludo-technologies/cfgregion/internal/cfg"

// Kind identifies which structured construct a Region represents
// (spec.md §3, "Region (produced). Variant:").
type Kind string

const (
	KindSequence     Kind = "sequence"
	KindLoop         Kind = "loop"
	KindIf           Kind = "if"
	KindSwitch       Kind = "switch"
	KindSynchronized Kind = "synchronized"
)

// LoopPosition records whether a loop's condition sits at the start
// (while) or end (do-while) of its body.
type LoopPosition string

const (
	PositionConditionNone  LoopPosition = "none" // endless loop
	PositionConditionStart LoopPosition = "start"
	PositionConditionEnd   LoopPosition = "end"
)

// Item is either a *cfg.BasicBlock or a *Region, the element type of a
// Sequence region's ordered list (spec.md §3, "Sequence: ordered list of
// sub-items").
type Item struct {
	Block  *cfg.BasicBlock
	Region *Region
}

// BlockItem wraps a block as a sequence Item.
func BlockItem(b *cfg.BasicBlock) Item { return Item{Block: b} }

// RegionItem wraps a region as a sequence Item.
func RegionItem(r *Region) Item { return Item{Region: r} }

// IsBlock reports whether the item is a block (as opposed to a region).
func (i Item) IsBlock() bool { return i.Block != nil }

// SwitchCase is one entry of a Switch region's ordered case list: a set of
// keys sharing a body (spec.md §3, "ordered map caseKeyList -> Region").
type SwitchCase struct {
	Keys        []cfg.CaseKey
	Body        *Region
	FallThrough bool
}

// Region is the tagged union of structured constructs the builder
// produces (spec.md §3). A single struct with a Kind discriminant is used
// instead of an interface hierarchy, matching spec.md §9's guidance
// ("Model regions as a tagged sum ... The dispatcher inspects the last
// instruction type and flags; no runtime reflection is needed") and the
// teacher's preference for small concrete structs over interface zoos.
type Region struct {
	Kind Kind

	Parent *Region

	// Sequence
	Items []Item

	// Loop
	LoopPosition  LoopPosition
	LoopCondition *cfg.IfInfo
	LoopHeaders   []*cfg.BasicBlock
	LoopPreCond   *cfg.BasicBlock
	LoopBody      *Region
	Loop          *cfg.Loop
	Label         bool

	// If
	IfCondition  *cfg.IfInfo
	IfHeaders    []*cfg.BasicBlock
	IfThen       *Region
	IfElse       *Region

	// Switch
	SwitchHeader  *cfg.BasicBlock
	SwitchCases   []SwitchCase
	SwitchDefault *Region

	// Synchronized
	MonitorHeader *cfg.BasicBlock
	LockArg       string
	SyncBody      *Region
	MonitorExits  []*cfg.Insn
}

// NewSequence creates an empty sequence region.
func NewSequence(parent *Region) *Region {
	return &Region{Kind: KindSequence, Parent: parent}
}

// Append adds a block to a sequence region.
func (r *Region) Append(b *cfg.BasicBlock) {
	r.Items = append(r.Items, BlockItem(b))
}

// AppendRegion adds a sub-region to a sequence region.
func (r *Region) AppendRegion(sub *Region) {
	sub.Parent = r
	r.Items = append(r.Items, RegionItem(sub))
}

// IsEmpty reports whether a sequence region has no items.
func (r *Region) IsEmpty() bool { return r == nil || len(r.Items) == 0 }
