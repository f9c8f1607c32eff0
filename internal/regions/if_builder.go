package regions

import "github.com/ludo-technologies/cfgregion/internal/cfg"

// ifBuilder implements the If Builder (spec.md §4.E): it recognizes a
// block ending with IF, merges short-circuited conditions via the
// Condition Merger, and builds an IfRegion with then/else sub-regions.
type ifBuilder struct{ b *Builder }

// process handles a block whose terminator is InsnIf and returns the
// continuation block. When recognition fails twice in a row (spec.md §7,
// "Recognition failure"), it falls back to opaqueBranch, which appends the
// block and walks every successor without building an if region.
func (ib *ifBuilder) process(region *Region, block *cfg.BasicBlock, stack *Stack) (*cfg.BasicBlock, error) {
	c := ib.b.cfg

	// Step 1: a nested-if merge already consumed this header.
	if block.Contains(cfg.FlagAddedToRegion) {
		return block.Successors[0], nil
	}

	info := cfg.MakeIfInfo(block)
	if info == nil {
		return ib.b.opaqueBranch(region, block, stack)
	}

	merged := cfg.MergeNestedIfNodes(info)
	if !merged {
		info.Invert()
	}

	ok := cfg.RestructureIf(c, info)
	if !ok && len(info.Merged) > 1 {
		retry := cfg.MakeIfInfo(block)
		cfg.MergeNestedIfNodes(retry)
		if cfg.RestructureIf(c, retry) {
			info = retry
			ok = true
		}
	}
	if !ok {
		ib.b.warnf("if recognition failed at block %d, falling back to an unstructured flattened traversal of both branches", block.ID)
		return ib.b.opaqueBranch(region, block, stack)
	}

	cfg.ConfirmMerge(c, info)
	block.Add(cfg.FlagAddedToRegion)

	ifRegion, err := ib.b.newRegion(KindIf, region)
	if err != nil {
		return nil, err
	}
	ifRegion.IfCondition = info
	ifRegion.IfHeaders = cfg.BitSetToBlocks(c, info.Merged)

	stack.Push(ifRegion)
	stack.AddExit(info.OutBlock)

	thenSeq := NewSequence(ifRegion)
	stack.Push(thenSeq)
	if _, err := ib.b.buildSequence(info.ThenBlock, stack); err != nil {
		return nil, err
	}
	stack.Pop()
	ifRegion.IfThen = thenSeq

	if info.ElseBlock != info.OutBlock {
		elseSeq := NewSequence(ifRegion)
		stack.Push(elseSeq)
		if _, err := ib.b.buildSequence(info.ElseBlock, stack); err != nil {
			return nil, err
		}
		stack.Pop()
		ifRegion.IfElse = elseSeq
	} else {
		ifRegion.IfElse = ib.synthesizeElse(c, info, ifRegion)
	}

	stack.Pop()
	region.AppendRegion(ifRegion)

	ib.b.markProcessed(block)
	return info.OutBlock, nil
}

// synthesizeElse implements spec.md §4.E.6: when there is no real else
// branch but the out-block carries break/continue/fallthrough edge
// instructions originating from one of this if's header blocks, those
// edge-effects must still be emitted somewhere — on a synthetic else
// branch collecting the origin blocks.
func (ib *ifBuilder) synthesizeElse(c *cfg.CFG, info *cfg.IfInfo, parent *Region) *Region {
	var origins []*cfg.BasicBlock
	for _, id := range info.Merged.Sorted() {
		h := c.BlockByID(id)
		if h == nil {
			continue
		}
		if len(c.EdgeInsns(h, info.OutBlock)) > 0 {
			origins = append(origins, h)
		}
	}
	if len(origins) == 0 {
		return nil
	}
	seq := NewSequence(parent)
	for _, h := range origins {
		seq.Append(h)
	}
	return seq
}
