package regions

import (
	"sort"

	"github.com/ludo-technologies/cfgregion/internal/cfg"
)

// loopBuilder implements the Loop Builder (spec.md §4.D): it recognizes
// the while/do-while/endless shape of a natural loop, recurses into its
// body, and inserts the synthetic break/continue edge instructions a
// structured emitter needs in place of raw back-edges and exit edges.
//
// Back-edges are never walked here directly: cfg.BasicBlock.AddBackEdgeSuccessor
// excludes them from CleanSuccessors, so buildSequence's own "no clean
// successor" termination is what ends a loop body's traversal — this
// builder only has to locate where the body starts and where its
// condition (if any) lives.
type loopBuilder struct{ b *Builder }

func (lb *loopBuilder) process(region *Region, header *cfg.BasicBlock, loop *cfg.Loop, stack *Stack) (*cfg.BasicBlock, error) {
	c := lb.b.cfg

	loopRegion, err := lb.b.newRegion(KindLoop, region)
	if err != nil {
		return nil, err
	}
	loopRegion.Loop = loop
	loopRegion.LoopHeaders = []*cfg.BasicBlock{header}

	exitEdges := lb.orderedExitEdges(loop)
	outBlocks := lb.exitTargets(exitEdges)
	out := lb.narrowOut(outBlocks)

	stack.Push(loopRegion)
	stack.AddExits(outBlocks)

	condHeader := mergeEmptyBlocks(header)

	// The header's loop-start flag is cleared while the body is built, so
	// that walking the body from the header does not re-enter this loop.
	header.Remove(cfg.FlagLoopStart)
	var buildErr error
	switch {
	case lb.isPreCondition(condHeader, loop):
		buildErr = lb.buildWhileLoop(loopRegion, header, condHeader, loop, stack)
	case lb.isPostCondition(loop):
		buildErr = lb.buildDoWhileLoop(loopRegion, header, loop, stack)
	default:
		buildErr = lb.buildEndlessLoop(loopRegion, header, loop, stack)
	}
	header.Add(cfg.FlagLoopStart)
	if buildErr != nil {
		return nil, buildErr
	}

	lb.insertLoopBreaks(c, loop, exitEdges, lb.naturalExitEdge(loopRegion))
	lb.insertContinues(c, loop, header)

	stack.Pop()
	region.AppendRegion(loopRegion)
	lb.b.markProcessed(header)
	return out, nil
}

// isPreCondition reports whether header itself is the loop's test: an IF
// with exactly one successor inside the loop and the other outside
// (spec.md §4.D.1, the while-loop shape).
func (lb *loopBuilder) isPreCondition(header *cfg.BasicBlock, loop *cfg.Loop) bool {
	if header.LastInsnType() != cfg.InsnIf || len(header.Successors) != 2 {
		return false
	}
	in0 := loop.Blocks.Contains(header.Successors[0].ID)
	in1 := loop.Blocks.Contains(header.Successors[1].ID)
	return in0 != in1
}

// isPostCondition reports whether the loop's latch (End) is the test: an
// IF with one successor back inside the loop and the other outside
// (spec.md §4.D.1, the do-while shape).
func (lb *loopBuilder) isPostCondition(loop *cfg.Loop) bool {
	end := loop.End
	if end == nil || end.LastInsnType() != cfg.InsnIf || len(end.Successors) != 2 {
		return false
	}
	in0 := loop.Blocks.Contains(end.Successors[0].ID)
	in1 := loop.Blocks.Contains(end.Successors[1].ID)
	return in0 != in1
}

func (lb *loopBuilder) buildWhileLoop(loopRegion *Region, header, condHeader *cfg.BasicBlock, loop *cfg.Loop, stack *Stack) error {
	info := cfg.MakeIfInfo(condHeader)
	if info == nil {
		return lb.buildEndlessLoop(loopRegion, header, loop, stack)
	}
	if !loop.Blocks.Contains(info.ThenBlock.ID) {
		info.Invert()
	}
	loopRegion.LoopPosition = PositionConditionStart
	loopRegion.LoopCondition = info
	if condHeader != header {
		loopRegion.LoopHeaders = append(loopRegion.LoopHeaders, condHeader)
	}

	bodySeq := NewSequence(loopRegion)
	for b := header; b != nil && b != condHeader; b = cfg.GetNextBlock(b) {
		bodySeq.Append(b)
		b.Add(cfg.FlagAddedToRegion)
		lb.b.markProcessed(b)
	}
	condHeader.Add(cfg.FlagAddedToRegion)
	lb.b.markProcessed(condHeader)

	stack.Push(bodySeq)
	if _, err := lb.b.buildSequence(info.ThenBlock, stack); err != nil {
		return err
	}
	stack.Pop()
	loopRegion.LoopBody = bodySeq
	return nil
}

func (lb *loopBuilder) buildDoWhileLoop(loopRegion *Region, header *cfg.BasicBlock, loop *cfg.Loop, stack *Stack) error {
	info := cfg.MakeIfInfo(loop.End)
	if info == nil {
		return lb.buildEndlessLoop(loopRegion, header, loop, stack)
	}
	if !loop.Blocks.Contains(info.ThenBlock.ID) {
		info.Invert()
	}
	loopRegion.LoopPosition = PositionConditionEnd
	loopRegion.LoopCondition = info
	loopRegion.LoopHeaders = []*cfg.BasicBlock{header, loop.End}

	bodySeq := NewSequence(loopRegion)
	stack.Push(bodySeq)
	stack.AddExit(loop.End)
	if _, err := lb.b.buildSequence(header, stack); err != nil {
		return err
	}
	stack.RemoveExit(loop.End)
	stack.Pop()
	loopRegion.LoopBody = bodySeq

	loop.End.Add(cfg.FlagAddedToRegion)
	lb.b.markProcessed(loop.End)
	return nil
}

func (lb *loopBuilder) buildEndlessLoop(loopRegion *Region, header *cfg.BasicBlock, loop *cfg.Loop, stack *Stack) error {
	loopRegion.LoopPosition = PositionConditionNone

	bodySeq := NewSequence(loopRegion)
	stack.Push(bodySeq)
	if _, err := lb.b.buildSequence(header, stack); err != nil {
		return err
	}
	stack.Pop()
	loopRegion.LoopBody = bodySeq
	return nil
}

// orderedExitEdges sorts a loop's exit edges by (from, to) id for
// deterministic output (spec.md §5, "Ordering guarantees").
func (lb *loopBuilder) orderedExitEdges(loop *cfg.Loop) []cfg.Edge {
	edges := append([]cfg.Edge(nil), loop.ExitEdges...)
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].From.ID != edges[j].From.ID {
			return edges[i].From.ID < edges[j].From.ID
		}
		return edges[i].To.ID < edges[j].To.ID
	})
	return edges
}

func (lb *loopBuilder) exitTargets(edges []cfg.Edge) []*cfg.BasicBlock {
	seen := cfg.IntSet{}
	var out []*cfg.BasicBlock
	for _, e := range edges {
		if !seen.Contains(e.To.ID) {
			seen.Add(e.To.ID)
			out = append(out, e.To)
		}
	}
	return out
}

// narrowOut folds multiple loop-exit targets to their first common
// convergence point, the same path-cross technique the if/switch/monitor
// builders use.
func (lb *loopBuilder) narrowOut(targets []*cfg.BasicBlock) *cfg.BasicBlock {
	if len(targets) == 0 {
		return nil
	}
	out := targets[0]
	for _, t := range targets[1:] {
		if t == out {
			continue
		}
		if m := lb.b.cfg.PathCross().GetPathCross(out, t); m != nil {
			out = m
		}
	}
	return out
}

// naturalExitEdge returns the one exit edge that a recognized while/do-while
// loop's own condition test already expresses without a synthetic break:
// the condition block's false-branch edge to whatever lies outside the
// loop. An endless loop (spec.md §4.D, no recognized pre/post condition)
// has no such edge at all — every path out of it is an explicit break, a
// point the previous "skip any edge landing on out" rule got wrong (spec.md
// §8 scenario 3, testable property §8.4).
func (lb *loopBuilder) naturalExitEdge(loopRegion *Region) *cfg.Edge {
	info := loopRegion.LoopCondition
	if info == nil || info.IfBlock == nil || info.ElseBlock == nil {
		return nil
	}
	switch loopRegion.LoopPosition {
	case PositionConditionStart, PositionConditionEnd:
		return &cfg.Edge{From: info.IfBlock, To: info.ElseBlock}
	default:
		return nil
	}
}

// insertLoopBreaks attaches a synthetic BREAK edge instruction to every
// loop-exit edge other than a recognized while/do-while's own natural
// condition-false edge (spec.md §4.D step 5): that one edge is already
// expressed by the condition test itself, but every other edge leaving the
// loop — including every exit edge of an endless loop, which has no
// natural edge at all — must get an explicit break, or the structured
// output silently drops the exit. A break is also skipped when its source
// lies inside a finally handler whose splitter is the loop's own end: the
// loop ends there naturally and an explicit break would be redundant.
func (lb *loopBuilder) insertLoopBreaks(c *cfg.CFG, loop *cfg.Loop, edges []cfg.Edge, natural *cfg.Edge) {
	for _, e := range edges {
		if natural != nil && e.From == natural.From && e.To == natural.To {
			continue
		}
		if lb.isTryFinallyLoopEnd(c, loop, e.From) {
			continue
		}
		insn := &cfg.Insn{Type: cfg.InsnBreak}
		if loops := c.GetAllLoopsForBlock(e.From); len(loops) > 1 {
			c.SetLoopLabel(insn, loop)
			loop.Label = true
		}
		c.AddEdgeInsn(e.From, e.To, insn)
	}
}

func (lb *loopBuilder) isTryFinallyLoopEnd(c *cfg.CFG, loop *cfg.Loop, from *cfg.BasicBlock) bool {
	for _, h := range c.ExceptionHandlers {
		if !h.IsFinally || h.Splitter == nil || h.Splitter != loop.End {
			continue
		}
		for _, protected := range h.TryBlocks {
			if protected == from {
				return true
			}
		}
	}
	return false
}

// insertContinues attaches a synthetic CONTINUE edge instruction to every
// latch reaching header other than the loop's own natural back-edge
// (loop.End) or a predecessor that falls through to header already
// (spec.md §4.D step 5, SPEC_FULL.md supplement "labelled loop continue").
func (lb *loopBuilder) insertContinues(c *cfg.CFG, loop *cfg.Loop, header *cfg.BasicBlock) {
	for _, pred := range header.Predecessors {
		if !loop.Blocks.Contains(pred.ID) || pred == loop.End {
			continue
		}
		if cfg.GetNextBlock(pred) == header {
			continue
		}
		insn := &cfg.Insn{Type: cfg.InsnContinue}
		if loops := c.GetAllLoopsForBlock(pred); len(loops) > 1 {
			c.SetLoopLabel(insn, loop)
			loop.Label = true
		}
		c.AddEdgeInsn(pred, header, insn)
	}
}
