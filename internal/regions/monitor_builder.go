package regions

import "github.com/ludo-technologies/cfgregion/internal/cfg"

// monitorBuilder implements the Synchronized Builder (spec.md §4.G): it
// matches a monitor-enter against every reaching monitor-exit that shares
// its lock argument, strips those bracket instructions out of the block
// bodies, and narrows the exits down to a single out-block.
type monitorBuilder struct{ b *Builder }

func (mb *monitorBuilder) process(region *Region, block *cfg.BasicBlock, stack *Stack) (*cfg.BasicBlock, error) {
	enter := block.LastInsn()
	lockArg := enter.Arg0
	block.Instructions = block.Instructions[:len(block.Instructions)-1]

	start := cfg.GetNextBlock(block)
	if start == nil {
		mb.b.warnf("synchronized block %d has no body successor", block.ID)
		return mb.b.plain(region, block)
	}

	exits, outCandidates := mb.findExits(start, lockArg)
	if len(exits) == 0 {
		mb.b.warnf("synchronized block %d: no matching monitor-exit found for lock %q", block.ID, lockArg)
		return mb.b.plain(region, block)
	}

	out := mb.narrowOut(outCandidates)

	syncRegion, err := mb.b.newRegion(KindSynchronized, region)
	if err != nil {
		return nil, err
	}
	syncRegion.LockArg = lockArg
	syncRegion.MonitorHeader = block
	syncRegion.MonitorExits = exits

	block.Add(cfg.FlagAddedToRegion)
	mb.b.markProcessed(block)

	stack.Push(syncRegion)
	if out != nil {
		stack.AddExit(out)
	}

	bodySeq := NewSequence(syncRegion)
	stack.Push(bodySeq)
	if _, err := mb.b.buildSequence(start, stack); err != nil {
		return nil, err
	}
	stack.Pop()
	syncRegion.SyncBody = bodySeq

	stack.Pop()
	region.AppendRegion(syncRegion)
	return out, nil
}

// findExits walks the monitor body via a local DFS, collecting every
// monitor-exit instruction whose Arg0 matches lockArg and stripping it
// from its block. The block following each matched exit becomes an
// out-block candidate; traversal does not continue past a matched exit.
func (mb *monitorBuilder) findExits(start *cfg.BasicBlock, lockArg string) ([]*cfg.Insn, []*cfg.BasicBlock) {
	var exits []*cfg.Insn
	var outCandidates []*cfg.BasicBlock
	visited := cfg.IntSet{}

	var walk func(b *cfg.BasicBlock)
	walk = func(b *cfg.BasicBlock) {
		if b == nil || visited.Contains(b.ID) {
			return
		}
		visited.Add(b.ID)

		for _, insn := range b.Instructions {
			if insn.Type == cfg.InsnMonitorExit && insn.Arg0 == lockArg {
				exits = append(exits, insn)
				insn.Add(cfg.FlagDontGenerate | cfg.FlagRemove)
				b.Add(cfg.FlagDontGenerate)
				if next := cfg.GetNextBlock(b); next != nil {
					outCandidates = append(outCandidates, next)
				}
				return
			}
		}
		for _, s := range b.CleanSuccessors {
			walk(s)
		}
	}
	walk(start)
	return exits, outCandidates
}

// narrowOut folds multiple candidate out-blocks down to their first common
// convergence point via the CFG's path-cross cache, the same technique
// the If Builder uses to find a shared successor.
func (mb *monitorBuilder) narrowOut(candidates []*cfg.BasicBlock) *cfg.BasicBlock {
	if len(candidates) == 0 {
		return nil
	}
	out := candidates[0]
	for _, c := range candidates[1:] {
		if c == out {
			continue
		}
		if m := mb.b.cfg.PathCross().GetPathCross(out, c); m != nil {
			out = m
		}
	}
	return out
}
