package regions

import "github.com/ludo-technologies/cfgregion/internal/cfg"

// tryCatchBuilder implements the try/catch/finally construction of
// spec.md §4.H. Unlike loop/if/switch/monitor, a handler's body is not
// nested inside the main sequence tree the way it is reached by normal
// control flow: it is reachable only along exceptional edges, so it gets
// its own independently-built region tree, attached to its
// *cfg.ExceptionHandler via Body and ExcHandlerAttr (spec.md §6).
type tryCatchBuilder struct{ b *Builder }

// process builds a region tree for every exception handler on the method,
// then performs the supplementary region collection of SPEC_FULL.md's
// try/catch section: any block reachable from the entry but covered by
// neither the main tree nor a handler tree is appended to root as a
// best-effort raw sequence item, with a warning, rather than silently
// dropped (spec.md §3 invariant 2).
func (tb *tryCatchBuilder) process(root *Region, stack *Stack) error {
	c := tb.b.cfg

	for _, h := range c.ExceptionHandlers {
		if h.HandlerBlock == nil {
			continue
		}
		body, err := tb.buildHandler(h)
		if err != nil {
			return err
		}
		h.Body = body
		c.SetExcHandlerAttr(h, &cfg.ExcHandlerAttr{Handler: h})
	}

	tb.collectSupplementary(root)
	return nil
}

// buildHandler builds the handler's own region tree, exiting at the
// dominance-frontier-derived continuation the try/catch construct shares
// with its protected blocks.
func (tb *tryCatchBuilder) buildHandler(h *cfg.ExceptionHandler) (*Region, error) {
	exits := tb.computeExits(h)

	hstack := NewStack()
	hroot := NewSequence(nil)
	hstack.Push(hroot)
	hstack.AddExits(cfg.BitSetToBlocks(tb.b.cfg, exits))

	entry := h.HandlerBlock
	if h.IsFinally && h.Splitter != nil {
		entry = h.Splitter
	}

	if _, err := tb.b.buildSequence(entry, hstack); err != nil {
		return nil, err
	}
	hstack.Pop()
	return hroot, nil
}

// computeExits narrows a handler's exit candidates to the dominance
// frontier common to every block it protects, i.e. the point at which
// control resumes regardless of which try-block raised (spec.md §4.H.2).
func (tb *tryCatchBuilder) computeExits(h *cfg.ExceptionHandler) cfg.IntSet {
	if len(h.TryBlocks) == 0 {
		return cfg.IntSet{}
	}
	exits := h.TryBlocks[0].DomFrontier.Clone()
	for _, tryB := range h.TryBlocks[1:] {
		exits = intersectIDs(exits, tryB.DomFrontier)
	}
	return exits
}

func intersectIDs(a, b cfg.IntSet) cfg.IntSet {
	out := cfg.IntSet{}
	for id := range a {
		if b.Contains(id) {
			out.Add(id)
		}
	}
	return out
}

// collectSupplementary appends any block reachable from the method entry
// that ended up covered by neither the main tree nor a handler tree,
// guarding against silently dropped code when recognition of a handler's
// shape fails.
func (tb *tryCatchBuilder) collectSupplementary(root *Region) {
	c := tb.b.cfg
	result := cfg.AnalyzeReachability(c)

	covered := cfg.IntSet{}
	for _, b := range c.Blocks {
		if b.Contains(cfg.FlagAddedToRegion) {
			covered.Add(b.ID)
		}
	}
	for _, h := range c.ExceptionHandlers {
		for _, protected := range h.TryBlocks {
			covered.Add(protected.ID)
		}
		if h.HandlerBlock != nil {
			covered.Add(h.HandlerBlock.ID)
		}
	}

	missing := result.UnaccountedFor(covered)
	if len(missing) == 0 {
		return
	}
	for _, b := range missing {
		tb.b.warnf("block %d reachable but unaccounted for after build, appending to root", b.ID)
		root.Append(b)
		b.Add(cfg.FlagAddedToRegion)
	}
}
