package cfg

// This file is the Condition Merger (spec.md §4.C): it builds and inverts
// IfInfo from a header block and merges short-circuited &&/|| chains. It
// is "supplied as helper" (spec.md §2) — the If Builder (internal/regions)
// treats it as a black-box collaborator, exactly as spec.md §6 lists
// `IfMakerHelper.makeIfInfo`, `mergeNestedIfNodes`, `searchNestedIf`,
// `confirmMerge`, `restructureIf` and `IfInfo.invert` as external
// interfaces.
//
// By convention (documented here since it is this package's own
// contract, not an externally imposed one), a block whose last
// instruction is InsnIf has exactly two successors: Successors[0] is the
// then-target (condition true), Successors[1] is the else-target
// (condition false).

// CondOp identifies a node in a merged condition tree.
type CondOp string

const (
	CondLeaf CondOp = "leaf" // a single comparison, rooted at a block
	CondAnd  CondOp = "and"
	CondOr   CondOp = "or"
)

// Cond is a node in an abstract condition tree (spec.md §3, "condition
// tree"). Leaves reference the block whose IF instruction supplied them;
// this package never interprets the comparison itself, only its
// true/false branch structure.
type Cond struct {
	Op    CondOp
	Block *BasicBlock // set when Op == CondLeaf
	Args  []*Cond
}

// IfInfo is the abstract condition built from a header block (spec.md §3).
type IfInfo struct {
	IfBlock *BasicBlock

	// Merged is the set of header blocks folded into this condition by
	// nested-if merging (spec.md §3, "the set of merged header blocks").
	Merged IntSet

	ThenBlock *BasicBlock
	ElseBlock *BasicBlock
	OutBlock  *BasicBlock

	Condition *Cond

	inverted bool
}

// MakeIfInfo builds the simple (unmerged) IfInfo for an IF block.
func MakeIfInfo(block *BasicBlock) *IfInfo {
	if block == nil || block.LastInsnType() != InsnIf || len(block.Successors) != 2 {
		return nil
	}
	return &IfInfo{
		IfBlock:   block,
		Merged:    NewIntSet(block.ID),
		ThenBlock: block.Successors[0],
		ElseBlock: block.Successors[1],
		Condition: &Cond{Op: CondLeaf, Block: block},
	}
}

// Invert swaps the then/else branches and negates the condition tree's
// root, used when the compiler emitted the branch in "if (!cond) goto
// else" form (spec.md §4.D.4, "If the then-branch points outside the
// loop, invert the condition"; §4.E.2, "a common compiler convention").
func (info *IfInfo) Invert() {
	info.ThenBlock, info.ElseBlock = info.ElseBlock, info.ThenBlock
	info.inverted = !info.inverted
	info.Condition = negate(info.Condition)
}

func negate(c *Cond) *Cond {
	if c == nil {
		return nil
	}
	switch c.Op {
	case CondLeaf:
		return &Cond{Op: CondLeaf, Block: c.Block}
	case CondAnd:
		args := make([]*Cond, len(c.Args))
		for i, a := range c.Args {
			args[i] = negate(a)
		}
		return &Cond{Op: CondOr, Args: args}
	case CondOr:
		args := make([]*Cond, len(c.Args))
		for i, a := range c.Args {
			args[i] = negate(a)
		}
		return &Cond{Op: CondAnd, Args: args}
	}
	return c
}

// SearchNestedIf looks one level into info's then/else branch for another
// IF block that shares a branch target with info, the signature of a
// short-circuited && or || chain, and returns it together with which side
// it was found on.
func SearchNestedIf(info *IfInfo) (nested *BasicBlock, isAnd bool, ok bool) {
	if then := info.ThenBlock; then != nil && then.LastInsnType() == InsnIf && len(then.Predecessors) == 1 {
		if len(then.Successors) == 2 && then.Successors[1] == info.ElseBlock {
			return then, true, true
		}
	}
	if els := info.ElseBlock; els != nil && els.LastInsnType() == InsnIf && len(els.Predecessors) == 1 {
		if len(els.Successors) == 2 && els.Successors[0] == info.ThenBlock {
			return els, false, true
		}
	}
	return nil, false, false
}

// MergeNestedIfNodes repeatedly applies SearchNestedIf, folding each
// discovered header into info's Merged set and condition tree, producing
// the short-circuit trees spec.md §4.E.2 describes. It returns false
// (without partially mutating info) if no merge was possible at all.
func MergeNestedIfNodes(info *IfInfo) bool {
	merged := false
	for {
		nested, isAnd, ok := SearchNestedIf(info)
		if !ok {
			break
		}
		nestedInfo := MakeIfInfo(nested)
		if nestedInfo == nil {
			break
		}
		info.Merged.Add(nested.ID)
		if isAnd {
			info.ThenBlock = nestedInfo.ThenBlock
			info.Condition = &Cond{Op: CondAnd, Args: []*Cond{info.Condition, nestedInfo.Condition}}
		} else {
			info.ElseBlock = nestedInfo.ElseBlock
			info.Condition = &Cond{Op: CondOr, Args: []*Cond{info.Condition, nestedInfo.Condition}}
		}
		merged = true
	}
	return merged
}

// ConfirmMerge marks every header block folded into info as consumed
// (spec.md §4.E.4, "marks consumed header blocks with ADDED_TO_REGION").
func ConfirmMerge(cfg *CFG, info *IfInfo) {
	for _, id := range info.Merged.Sorted() {
		if b := cfg.BlockByID(id); b != nil {
			b.Add(FlagAddedToRegion)
		}
	}
}

// RestructureIf chooses/validates the then/else/out blocks for info,
// finding the post-dominator-like merge point where the two branches
// rejoin (spec.md §4.E.3). When the then-branch is the merge point itself,
// info is inverted so that the real branch becomes the then-branch and the
// else-branch equals the out-block. It returns false if no convergence
// point could be found, in which case the If Builder treats the if as
// opaque (spec.md §7, "Recognition failure").
func RestructureIf(cfg *CFG, info *IfInfo) bool {
	if info == nil || info.ThenBlock == nil || info.ElseBlock == nil {
		return false
	}
	if info.ThenBlock == info.ElseBlock {
		info.OutBlock = info.ThenBlock
		return true
	}
	out := cfg.PathCross().GetPathCross(info.ThenBlock, info.ElseBlock)
	if out == nil {
		return false
	}
	info.OutBlock = out
	if info.ThenBlock == out {
		info.Invert()
	}
	return true
}
