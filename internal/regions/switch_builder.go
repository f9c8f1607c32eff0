package regions

import "github.com/ludo-technologies/cfgregion/internal/cfg"

// switchBuilder implements the Switch Builder (spec.md §4.F): it groups
// cases by target, detects fallthrough, narrows the out-block candidate
// set, and orders cases to match the input's fallthrough chain.
//
// spec.md §9 itself admits the out-block narrowing sequence is
// heuristic ("the source comment admits heuristic behavior"); this is
// preserved rather than tightened.
type switchBuilder struct{ b *Builder }

type caseGroup struct {
	target    *cfg.BasicBlock
	keys      []cfg.CaseKey
	fallsInto *cfg.BasicBlock // set when this case's dom-frontier chains into another case
}

func (sb *switchBuilder) process(region *Region, block *cfg.BasicBlock, stack *Stack) (*cfg.BasicBlock, error) {
	c := sb.b.cfg
	sw := block.LastInsn().Switch
	if sw == nil {
		return sb.b.plain(region, block)
	}

	order, groups, defaultTarget := sb.groupCases(sw)
	sb.detectFallthrough(groups, order)
	sb.reorderForFallthrough(c, order, groups)

	candidates := sb.computeOutCandidates(c, block, order)

	var out *cfg.BasicBlock
	switch {
	case len(candidates) == 1:
		out = c.BlockByID(candidates.Sorted()[0])
	case len(candidates) > 1:
		if loop := c.GetLoopForBlock(block); loop == nil {
			sb.b.warnf("switch at block %d has %d ambiguous out-block candidates", block.ID, len(candidates))
		}
	}

	swRegion, err := sb.b.newRegion(KindSwitch, region)
	if err != nil {
		return nil, err
	}
	swRegion.SwitchHeader = block
	block.Add(cfg.FlagAddedToRegion)
	sb.b.markProcessed(block)

	stack.Push(swRegion)
	if out != nil {
		stack.AddExit(out)
	}

	if loop := c.GetLoopForBlock(block); loop != nil && out != loop.End {
		sb.insertSwitchContinue(c, block, loop, out)
	}

	if defaultTarget != nil && !sb.isExit(stack, out, defaultTarget) {
		defSeq := NewSequence(swRegion)
		stack.Push(defSeq)
		if _, err := sb.b.buildSequence(defaultTarget, stack); err != nil {
			return nil, err
		}
		stack.Pop()
		if !defSeq.IsEmpty() {
			swRegion.SwitchDefault = defSeq
		}
	}

	for _, target := range order {
		g := groups[target.ID]
		sc := SwitchCase{Keys: g.keys}

		if sb.isExit(stack, out, target) {
			swRegion.SwitchCases = append(swRegion.SwitchCases, sc)
			continue
		}

		if g.fallsInto != nil {
			stack.AddExit(g.fallsInto)
		}
		caseSeq := NewSequence(swRegion)
		stack.Push(caseSeq)
		if _, err := sb.b.buildSequence(target, stack); err != nil {
			return nil, err
		}
		stack.Pop()
		if g.fallsInto != nil {
			stack.RemoveExit(g.fallsInto)
			g.fallsInto.Add(cfg.FlagFallThrough)
			sc.FallThrough = true
		}
		sc.Body = caseSeq
		swRegion.SwitchCases = append(swRegion.SwitchCases, sc)
	}

	stack.Pop()
	region.AppendRegion(swRegion)
	return out, nil
}

func (sb *switchBuilder) isExit(stack *Stack, out, target *cfg.BasicBlock) bool {
	return (out != nil && target == out) || stack.ContainsExit(target)
}

// groupCases builds the insertion-ordered target->keys grouping of
// spec.md §4.F.1.
func (sb *switchBuilder) groupCases(sw *cfg.SwitchData) ([]*cfg.BasicBlock, map[int]*caseGroup, *cfg.BasicBlock) {
	var order []*cfg.BasicBlock
	groups := map[int]*caseGroup{}

	for _, e := range sw.Cases {
		if sw.Default != nil && e.Target == sw.Default {
			continue
		}
		g, ok := groups[e.Target.ID]
		if !ok {
			g = &caseGroup{target: e.Target}
			groups[e.Target.ID] = g
			order = append(order, e.Target)
		}
		g.keys = append(g.keys, e.Key)
	}
	return order, groups, sw.Default
}

// detectFallthrough implements spec.md §4.F.2's chain detection: a case
// target whose dom-frontier has exactly two members, one of which is the
// other, falls through into it.
func (sb *switchBuilder) detectFallthrough(groups map[int]*caseGroup, order []*cfg.BasicBlock) {
	for _, target := range order {
		if len(target.DomFrontier) != 2 {
			continue
		}
		g := groups[target.ID]
		for _, other := range order {
			if other == target {
				continue
			}
			if target.DomFrontier.Contains(other.ID) {
				g.fallsInto = other
				break
			}
		}
	}
}

// reorderForFallthrough implements spec.md §4.F.4: reorder so that a case
// falling into another immediately precedes it; if that cannot be made
// consistent, flag the method FlagInconsistentCode.
func (sb *switchBuilder) reorderForFallthrough(c *cfg.CFG, order []*cfg.BasicBlock, groups map[int]*caseGroup) {
	hasFallthrough := false
	for _, g := range groups {
		if g.fallsInto != nil {
			hasFallthrough = true
			break
		}
	}
	if !hasFallthrough {
		return
	}

	indexOf := func(b *cfg.BasicBlock) int {
		for i, o := range order {
			if o == b {
				return i
			}
		}
		return -1
	}

	for attempt := 0; attempt < len(order); attempt++ {
		fixed := true
		for i, target := range order {
			g := groups[target.ID]
			if g.fallsInto == nil {
				continue
			}
			if i+1 >= len(order) || order[i+1] != g.fallsInto {
				j := indexOf(g.fallsInto)
				if j < 0 {
					continue
				}
				order = append(order[:j], order[j+1:]...)
				insertAt := indexOf(target) + 1
				order = append(order[:insertAt], append([]*cfg.BasicBlock{g.fallsInto}, order[insertAt:]...)...)
				fixed = false
				break
			}
		}
		if fixed {
			break
		}
	}

	for i, target := range order {
		g := groups[target.ID]
		if g.fallsInto != nil && (i+1 >= len(order) || order[i+1] != g.fallsInto) {
			c.Add(cfg.FlagInconsistentCode)
			break
		}
	}
}

// computeOutCandidates implements spec.md §4.F.2-5: the out-block
// candidate narrowing sequence.
func (sb *switchBuilder) computeOutCandidates(c *cfg.CFG, header *cfg.BasicBlock, order []*cfg.BasicBlock) cfg.IntSet {
	candidates := header.DomFrontier.Clone()
	for _, s := range header.CleanSuccessors {
		candidates.Union(s.DomFrontier)
		if len(s.DomFrontier) > 2 {
			sb.b.warnf("switch successor %d has an unusually large dom-frontier (%d)", s.ID, len(s.DomFrontier))
		}
	}
	candidates.Remove(header.ID)

	loops := c.GetAllLoopsForBlock(header)
	var innermost *cfg.Loop
	if len(loops) > 0 {
		innermost = loops[0]
		candidates.Remove(innermost.Start.ID)
	}

	if len(candidates) > 1 {
		candidates = cfg.CleanBitSet(c, candidates)
	}
	if len(candidates) > 1 {
		for _, id := range candidates.Sorted() {
			cb := c.BlockByID(id)
			if cb == nil {
				continue
			}
			if cb.Contains(cfg.FlagLoopStart) {
				candidates.Remove(id)
				continue
			}
		}
		for _, id := range candidates.Sorted() {
			cb := c.BlockByID(id)
			if cb == nil {
				continue
			}
			for _, s := range cb.Successors {
				if s.ID != id {
					candidates.Remove(s.ID)
				}
			}
			for fid := range cb.DomFrontier {
				if fid != id {
					candidates.Remove(fid)
				}
			}
		}
	}
	if innermost != nil && len(candidates) > 1 {
		candidates.Remove(innermost.End.ID)
	}

	if len(candidates) == 0 {
		if m := sb.findCommonDescendant(header); m != nil {
			candidates.Add(m.ID)
		}
	}
	return candidates
}

// findCommonDescendant finds a successor of header reachable from all of
// header's other successors, the spec.md §4.F.5 empty-candidate fallback.
func (sb *switchBuilder) findCommonDescendant(header *cfg.BasicBlock) *cfg.BasicBlock {
	for _, m := range header.CleanSuccessors {
		reachableFromAll := true
		for _, other := range header.CleanSuccessors {
			if other == m {
				continue
			}
			if !cfg.IsPathExists(other, m, nil) {
				reachableFromAll = false
				break
			}
		}
		if reachableFromAll {
			return m
		}
	}
	return nil
}

// insertSwitchContinue implements spec.md §4.F.7: for each clean
// successor whose dom-frontier reaches the loop end and differs from the
// chosen out-block, append a CONTINUE directly into a synthetic
// predecessor of the loop end dominated by that successor (spec.md §3
// invariant 5's inline exception for synthetic trampolines).
func (sb *switchBuilder) insertSwitchContinue(c *cfg.CFG, header *cfg.BasicBlock, loop *cfg.Loop, out *cfg.BasicBlock) {
	for _, s := range header.CleanSuccessors {
		if !s.DomFrontier.Contains(loop.End.ID) || s == out {
			continue
		}
		for _, pred := range loop.End.Predecessors {
			if pred.Contains(cfg.FlagSynthetic) && s.IsDominator(pred) {
				pred.Instructions = append(pred.Instructions, &cfg.Insn{Type: cfg.InsnContinue})
				break
			}
		}
	}
}
