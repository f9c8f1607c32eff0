package cfg

// DomTree is a minimal immediate-dominator tree, built once per CFG and
// consulted by BasicBlock.IsDominator. Prior CFG transforms are assumed to
// have already computed dominator relations (spec.md §1, "Out of scope");
// this iterative dataflow computation stands in for that external pass so
// fixtures built directly in Go (internal/cfgtest) have real dominator
// data to test against.
type DomTree struct {
	idom map[int]int
}

// BuildDomTree computes immediate dominators for the CFG reachable from
// entry, using the classic iterative Cooper/Harvey/Kennedy algorithm over
// a reverse-postorder block list.
func BuildDomTree(entry *BasicBlock, blocks []*BasicBlock) *DomTree {
	order, postIndex := reversePostOrder(entry)
	idom := map[int]int{entry.ID: entry.ID}

	changed := true
	for changed {
		changed = false
		for _, b := range order {
			if b == entry {
				continue
			}
			newIdom := -1
			for _, pred := range b.Predecessors {
				if _, ok := idom[pred.ID]; !ok {
					continue
				}
				if newIdom == -1 {
					newIdom = pred.ID
					continue
				}
				newIdom = intersect(newIdom, pred.ID, idom, postIndex)
			}
			if newIdom == -1 {
				continue
			}
			if prev, ok := idom[b.ID]; !ok || prev != newIdom {
				idom[b.ID] = newIdom
				changed = true
			}
		}
	}

	return &DomTree{idom: idom}
}

func intersect(a, b int, idom map[int]int, postIndex map[int]int) int {
	for a != b {
		for postIndex[a] < postIndex[b] {
			a = idom[a]
		}
		for postIndex[b] < postIndex[a] {
			b = idom[b]
		}
	}
	return a
}

// reversePostOrder returns entry's reachable blocks in reverse postorder,
// plus a map from block id to postorder index (higher = later finished,
// used by intersect for the walk-up comparison).
func reversePostOrder(entry *BasicBlock) ([]*BasicBlock, map[int]int) {
	visited := map[int]bool{}
	var post []*BasicBlock

	var visit func(b *BasicBlock)
	visit = func(b *BasicBlock) {
		if b == nil || visited[b.ID] {
			return
		}
		visited[b.ID] = true
		for _, s := range b.Successors {
			visit(s)
		}
		post = append(post, b)
	}
	visit(entry)

	rpo := make([]*BasicBlock, len(post))
	postIndex := make(map[int]int, len(post))
	for i, b := range post {
		rpo[len(post)-1-i] = b
		postIndex[b.ID] = i
	}
	return rpo, postIndex
}

// Dominates reports whether a dominates b (reflexively: a dominates a).
func (t *DomTree) Dominates(a, b int) bool {
	if t == nil {
		return a == b
	}
	for {
		if b == a {
			return true
		}
		parent, ok := t.idom[b]
		if !ok || parent == b {
			return b == a
		}
		b = parent
	}
}

// AttachTo wires the dominator tree into every block so BasicBlock.IsDominator
// can answer without an explicit tree argument.
func (t *DomTree) AttachTo(blocks []*BasicBlock) {
	for _, b := range blocks {
		b.dom = t
	}
}

// ComputeDomFrontiers fills in each block's DomFrontier set using the
// standard Cytron et al. algorithm, run after BuildDomTree.
func ComputeDomFrontiers(blocks []*BasicBlock, dom *DomTree) {
	for _, b := range blocks {
		b.DomFrontier = IntSet{}
	}
	for _, b := range blocks {
		if len(b.Predecessors) < 2 {
			continue
		}
		idomB, ok := dom.idom[b.ID]
		if !ok {
			continue
		}
		for _, pred := range b.Predecessors {
			runner := pred.ID
			for runner != idomB {
				byID := blockByID(blocks, runner)
				if byID == nil {
					break
				}
				byID.DomFrontier.Add(b.ID)
				parent, ok := dom.idom[runner]
				if !ok || parent == runner {
					break
				}
				runner = parent
			}
		}
	}
}

func blockByID(blocks []*BasicBlock, id int) *BasicBlock {
	for _, b := range blocks {
		if b.ID == id {
			return b
		}
	}
	return nil
}
