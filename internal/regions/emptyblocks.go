package regions

import "github.com/ludo-technologies/cfgregion/internal/cfg"

// mergeEmptyBlocks implements spec.md §4.D step 6 / SPEC_FULL.md
// supplement 3 ("EmptyRegion"/merge of instruction-empty blocks): when a
// loop's header is not itself the block carrying the loop condition,
// purely instruction-empty blocks between header and the real condition
// block are walked through here rather than surfaced as region items of
// their own. The loop builder still records them as plain prologue items
// in the body sequence, it just never runs recognition on them.
func mergeEmptyBlocks(header *cfg.BasicBlock) *cfg.BasicBlock {
	b := header
	for b != nil && len(b.Instructions) == 0 {
		next := cfg.GetNextBlock(b)
		if next == nil || next == b {
			break
		}
		b = next
	}
	return b
}
