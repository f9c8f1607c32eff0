package cfg

// ReachabilityResult reports which blocks are reachable from the method's
// entry. It is adapted from the teacher's ReachabilityAnalyzer
// (internal/analyzer/reachability.go in jscan): same traverseFrom
// worklist shape, applied to cfg.BasicBlock instead of corecfg.BasicBlock,
// and repurposed here to check spec.md §3 invariant 2 ("Coverage: every
// basic block reachable from the method entry ... appears in the tree or
// is referenced by a region's header/condition field") after a build.
type ReachabilityResult struct {
	Reachable   map[int]*BasicBlock
	Unreachable map[int]*BasicBlock
}

// AnalyzeReachability walks cfg's successor graph (back-edges included)
// from its entry block and classifies every block as reachable or not.
func AnalyzeReachability(c *CFG) *ReachabilityResult {
	result := &ReachabilityResult{
		Reachable:   map[int]*BasicBlock{},
		Unreachable: map[int]*BasicBlock{},
	}
	if c == nil || c.EnterBlock == nil {
		return result
	}

	visited := map[int]bool{}
	stack := []*BasicBlock{c.EnterBlock}
	for len(stack) > 0 {
		b := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[b.ID] {
			continue
		}
		visited[b.ID] = true
		result.Reachable[b.ID] = b
		for _, s := range b.Successors {
			if !visited[s.ID] {
				stack = append(stack, s)
			}
		}
	}

	for _, b := range c.Blocks {
		if _, ok := result.Reachable[b.ID]; !ok {
			result.Unreachable[b.ID] = b
		}
	}
	return result
}

// UnaccountedFor returns every reachable block that is not marked
// FlagDontGenerate/FlagRemove and not present in `coveredIDs` — a direct
// check of spec.md §3 invariant 2, intended to run after Build.
func (r *ReachabilityResult) UnaccountedFor(coveredIDs IntSet) []*BasicBlock {
	var missing []*BasicBlock
	for _, id := range sortedKeys(r.Reachable) {
		b := r.Reachable[id]
		if b.Contains(FlagDontGenerate) || b.Contains(FlagRemove) {
			continue
		}
		if !coveredIDs.Contains(id) {
			missing = append(missing, b)
		}
	}
	return missing
}

func sortedKeys(m map[int]*BasicBlock) []int {
	ids := make(IntSet, len(m))
	for id := range m {
		ids.Add(id)
	}
	return ids.Sorted()
}
