package cfg

// This file implements the pure helper functions spec.md §6 lists as
// "treated as pure" collaborators of the region builder: getNextBlock,
// skipSyntheticSuccessor, selectOther, isPathExists, getPathCross,
// getAllPathsBlocks, bitSetToBlocks, cleanBitSet, collectBlocksDominatedBy,
// buildSimplePath and isEmptySimplePath.

// GetNextBlock returns block's sole clean successor, or nil if it has zero
// or more than one.
func GetNextBlock(block *BasicBlock) *BasicBlock {
	if block == nil || len(block.CleanSuccessors) != 1 {
		return nil
	}
	return block.CleanSuccessors[0]
}

// SkipSyntheticSuccessor follows a chain of FlagSynthetic trampoline
// blocks (each with exactly one clean successor) until it reaches a
// non-synthetic block.
func SkipSyntheticSuccessor(block *BasicBlock) *BasicBlock {
	for block != nil && block.Contains(FlagSynthetic) {
		next := GetNextBlock(block)
		if next == nil {
			return block
		}
		block = next
	}
	return block
}

// SelectOther returns whichever of a block's two successors is not
// `exclude`, or nil if that does not uniquely identify one.
func SelectOther(block, exclude *BasicBlock) *BasicBlock {
	if block == nil || len(block.Successors) != 2 {
		return nil
	}
	if block.Successors[0] == exclude {
		return block.Successors[1]
	}
	if block.Successors[1] == exclude {
		return block.Successors[0]
	}
	return nil
}

// IsPathExists reports whether target is reachable from start by
// following clean successors only, optionally staying within `within`
// when non-nil (used to confine a search to a loop's member blocks).
func IsPathExists(start, target *BasicBlock, within IntSet) bool {
	if start == target {
		return true
	}
	visited := map[int]bool{start.ID: true}
	stack := []*BasicBlock{start}
	for len(stack) > 0 {
		b := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, s := range b.CleanSuccessors {
			if within != nil && !within.Contains(s.ID) {
				continue
			}
			if s == target {
				return true
			}
			if !visited[s.ID] {
				visited[s.ID] = true
				stack = append(stack, s)
			}
		}
	}
	return false
}

// BuildSimplePath returns the chain of blocks from start following single
// clean successors, up to and including the first block with zero or more
// than one clean successor, or up to (but not including) `stop` if given.
func BuildSimplePath(start, stop *BasicBlock) []*BasicBlock {
	var path []*BasicBlock
	b := start
	seen := map[int]bool{}
	for b != nil && b != stop && !seen[b.ID] {
		seen[b.ID] = true
		path = append(path, b)
		b = GetNextBlock(b)
	}
	return path
}

// IsEmptySimplePath reports whether every block in the simple path from
// start to stop (exclusive of stop) has no instructions, i.e. the path
// carries no observable code between the two blocks.
func IsEmptySimplePath(start, stop *BasicBlock) bool {
	for _, b := range BuildSimplePath(start, stop) {
		if len(b.Instructions) > 0 {
			return false
		}
	}
	return true
}

// CollectBlocksDominatedBy returns every block in `within` (or the whole
// CFG if within is nil) that is dominated by `dominator`.
func CollectBlocksDominatedBy(dominator *BasicBlock, within []*BasicBlock) []*BasicBlock {
	var out []*BasicBlock
	for _, b := range within {
		if dominator.IsDominator(b) {
			out = append(out, b)
		}
	}
	return out
}

// BitSetToBlocks resolves an IntSet of block ids against the CFG's block
// list, in ascending id order for determinism (spec.md §5).
func BitSetToBlocks(cfg *CFG, ids IntSet) []*BasicBlock {
	out := make([]*BasicBlock, 0, len(ids))
	for _, id := range ids.Sorted() {
		if b := cfg.BlockByID(id); b != nil {
			out = append(out, b)
		}
	}
	return out
}

// CleanBitSet drops exception-handler blocks from a set of block ids
// (spec.md §6, "cleanBitSet (drops exception-handler blocks)").
func CleanBitSet(cfg *CFG, ids IntSet) IntSet {
	out := ids.Clone()
	for id := range out {
		if b := cfg.BlockByID(id); b != nil && (b.Contains(FlagCatchBlock) || b.Contains(FlagExcHandler)) {
			out.Remove(id)
		}
	}
	return out
}

// GetAllPathsBlocks returns the union of blocks on every simple path from
// start to target that stays within `within` (depth-first enumeration;
// CFGs here are small enough that this is cheap, unlike a generic
// decompiler workload).
func GetAllPathsBlocks(start, target *BasicBlock, within IntSet) IntSet {
	result := IntSet{}
	visiting := map[int]bool{}

	var walk func(b *BasicBlock, path []int)
	walk = func(b *BasicBlock, path []int) {
		if within != nil && !within.Contains(b.ID) {
			return
		}
		if visiting[b.ID] {
			return
		}
		path = append(path, b.ID)
		if b == target {
			for _, id := range path {
				result.Add(id)
			}
			return
		}
		visiting[b.ID] = true
		for _, s := range b.CleanSuccessors {
			walk(s, path)
		}
		delete(visiting, b.ID)
	}
	walk(start, nil)
	return result
}

// PathCrossCache memoizes GetPathCross lookups for one builder invocation,
// addressing spec.md §9's "TODO: expensive" note on insertLoopBreak's
// repeated global walks (SPEC_FULL.md supplemented feature 5).
type PathCrossCache struct {
	cfg  *CFG
	memo map[[2]int]*BasicBlock
}

func newPathCrossCache(cfg *CFG) *PathCrossCache {
	return &PathCrossCache{cfg: cfg, memo: map[[2]int]*BasicBlock{}}
}

// GetPathCross finds the first block at which the forward paths from a and
// b converge, i.e. the nearest common block reachable (via clean
// successors) from both — a post-dominator-ish merge point used to detect
// whether two loop-exit paths "cross" (spec.md §4.D.2, checkLoopExits).
// Returns nil if the two paths never converge within the CFG.
func (pc *PathCrossCache) GetPathCross(a, b *BasicBlock) *BasicBlock {
	key := [2]int{a.ID, b.ID}
	if v, ok := pc.memo[key]; ok {
		return v
	}
	reach := reachableSet(a)
	var result *BasicBlock
	visited := map[int]bool{}
	var walk func(n *BasicBlock) *BasicBlock
	walk = func(n *BasicBlock) *BasicBlock {
		if n == nil || visited[n.ID] {
			return nil
		}
		visited[n.ID] = true
		if reach[n.ID] {
			return n
		}
		for _, s := range n.CleanSuccessors {
			if found := walk(s); found != nil {
				return found
			}
		}
		return nil
	}
	result = walk(b)
	pc.memo[key] = result
	pc.memo[[2]int{b.ID, a.ID}] = result
	return result
}

func reachableSet(start *BasicBlock) map[int]bool {
	out := map[int]bool{start.ID: true}
	stack := []*BasicBlock{start}
	for len(stack) > 0 {
		b := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, s := range b.CleanSuccessors {
			if !out[s.ID] {
				out[s.ID] = true
				stack = append(stack, s)
			}
		}
	}
	return out
}
