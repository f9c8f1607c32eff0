package service

import (
	"github.com/sourcegraph/conc/pool"

	"github.com/ludo-technologies/cfgregion/internal/cfg"
	"github.com/ludo-technologies/cfgregion/internal/regions"
)

// WalkItem pairs one region build outcome with the CFG it was built from,
// so RegionWalker can report FlagInconsistentCode alongside the tree
// shape.
type WalkItem struct {
	Name   string
	CFG    *cfg.CFG
	Region *regions.Region
	Err    error
}

// RegionStats summarizes a single built region tree for reporting and
// invariant checking (spec.md §8's testable properties: region count,
// max nesting depth, and whether the structural recognizers left the
// method flagged inconsistent).
type RegionStats struct {
	Name         string
	RegionCount  int
	MaxDepth     int
	Inconsistent bool
	Err          error
}

// RegionWalker re-walks a batch of built region trees with a bounded
// worker pool, independent from the region builder's own recursion
// (internal/regions.Builder.Build is single-threaded per method; this
// walks the already-built trees of a whole batch concurrently), grounded
// on the teacher's dependency graph traversal pattern generalized here to
// use sourcegraph/conc instead of a hand-rolled WaitGroup.
type RegionWalker struct {
	maxGoroutines int
}

// NewRegionWalker creates a RegionWalker bounded to maxGoroutines
// concurrent tree walks. A non-positive value leaves the pool unbounded.
func NewRegionWalker(maxGoroutines int) *RegionWalker {
	return &RegionWalker{maxGoroutines: maxGoroutines}
}

// WalkAll computes RegionStats for every item in items, preserving input
// order.
func (w *RegionWalker) WalkAll(items []WalkItem) []RegionStats {
	p := pool.NewWithResults[RegionStats]()
	if w.maxGoroutines > 0 {
		p = p.WithMaxGoroutines(w.maxGoroutines)
	}

	for _, it := range items {
		it := it
		p.Go(func() RegionStats {
			return walkOne(it)
		})
	}

	return p.Wait()
}

func walkOne(it WalkItem) RegionStats {
	if it.Err != nil {
		return RegionStats{Name: it.Name, Err: it.Err}
	}

	count, depth := countAndDepth(it.Region, 0)
	inconsistent := it.CFG != nil && it.CFG.Contains(cfg.FlagInconsistentCode)
	return RegionStats{
		Name:         it.Name,
		RegionCount:  count,
		MaxDepth:     depth,
		Inconsistent: inconsistent,
	}
}

// countAndDepth walks the region tree, returning the total number of
// regions and the maximum nesting depth reached.
func countAndDepth(r *regions.Region, depth int) (count, maxDepth int) {
	if r == nil {
		return 0, depth
	}

	count = 1
	maxDepth = depth

	visit := func(sub *regions.Region) {
		if sub == nil {
			return
		}
		c, d := countAndDepth(sub, depth+1)
		count += c
		if d > maxDepth {
			maxDepth = d
		}
	}

	switch r.Kind {
	case regions.KindSequence:
		for _, item := range r.Items {
			if !item.IsBlock() {
				visit(item.Region)
			}
		}
	case regions.KindLoop:
		visit(r.LoopBody)
	case regions.KindIf:
		visit(r.IfThen)
		visit(r.IfElse)
	case regions.KindSwitch:
		for _, c := range r.SwitchCases {
			visit(c.Body)
		}
		visit(r.SwitchDefault)
	case regions.KindSynchronized:
		visit(r.SyncBody)
	}

	return count, maxDepth
}
