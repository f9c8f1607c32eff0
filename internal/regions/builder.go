package regions

import (
	"fmt"
	"log"

	"github.com/ludo-technologies/cfgregion/internal/cfg"
)

// RegionCountMultiplier is the default safety-limit multiplier applied to
// a method's block count (spec.md §3 invariant 6: "A region-count safety
// limit (blocksCount × 100) bounds total region creation").
const RegionCountMultiplier = 100

// DefaultMaxDepth is used when a Builder is not given an explicit depth
// cap (SPEC_FULL.md supplement 1).
const DefaultMaxDepth = 256

// Builder walks one method's CFG and produces its region tree (spec.md
// §2, "Entry point"). One Builder is used per method; it is not
// goroutine-safe (spec.md §5, "Single-threaded, strictly recursive").
type Builder struct {
	cfg *cfg.CFG

	processed    cfg.IntSet
	regionsCount int
	regionLimit  int
	maxDepth     int

	logger *log.Logger

	loop      *loopBuilder
	ifB       *ifBuilder
	switchB   *switchBuilder
	monitor   *monitorBuilder
	tryCatch  *tryCatchBuilder
}

// NewBuilder creates a Builder for c, deriving the region-count limit from
// its block count (spec.md §3 invariant 6).
func NewBuilder(c *cfg.CFG) *Builder {
	b := &Builder{
		cfg:         c,
		processed:   cfg.IntSet{},
		regionLimit: len(c.Blocks) * RegionCountMultiplier,
		maxDepth:    DefaultMaxDepth,
	}
	if b.regionLimit == 0 {
		b.regionLimit = RegionCountMultiplier
	}
	b.loop = &loopBuilder{b: b}
	b.ifB = &ifBuilder{b: b}
	b.switchB = &switchBuilder{b: b}
	b.monitor = &monitorBuilder{b: b}
	b.tryCatch = &tryCatchBuilder{b: b}
	return b
}

// SetLogger sets an optional logger for diagnostics, mirroring the
// teacher's CFGBuilder.SetLogger (nil-safe: logging is best-effort).
func (b *Builder) SetLogger(logger *log.Logger) { b.logger = logger }

// SetMaxDepth overrides the nesting-depth guard.
func (b *Builder) SetMaxDepth(max int) { b.maxDepth = max }

// SetRegionLimit overrides the region-count safety limit (spec.md §3
// invariant 6), letting callers derive it from internal/config.RegionConfig
// instead of the built-in RegionCountMultiplier.
func (b *Builder) SetRegionLimit(limit int) {
	if limit > 0 {
		b.regionLimit = limit
	}
}

func (b *Builder) warnf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	b.cfg.AddWarn(msg)
	if b.logger != nil {
		b.logger.Printf("[regions] %s", msg)
	}
}

// Build runs the region builder over the whole method and returns its
// region tree (spec.md §2, "Entry point").
func (b *Builder) Build() (*Region, error) {
	root := NewSequence(nil)
	stack := NewStack()
	stack.Push(root)

	if _, err := b.buildSequence(b.cfg.EnterBlock, stack); err != nil {
		return nil, err
	}
	stack.Pop()

	if err := b.tryCatch.process(root, stack); err != nil {
		return nil, err
	}

	b.cfg.Region = root
	return root, nil
}

// newRegion allocates a region and enforces the region-count safety limit
// (spec.md §3 invariant 6, §7 "Overflow").
func (b *Builder) newRegion(kind Kind, parent *Region) (*Region, error) {
	b.regionsCount++
	if b.regionsCount > b.regionLimit {
		return nil, &OverflowError{Method: b.cfg.Name, Count: b.regionsCount, Limit: b.regionLimit}
	}
	return &Region{Kind: kind, Parent: parent}, nil
}

// markProcessed sets block's processedBlocks bit (spec.md §3 invariant 1).
func (b *Builder) markProcessed(block *cfg.BasicBlock) { b.processed.Add(block.ID) }

// clearProcessed clears block's processedBlocks bit, used only when
// recursing into a loop body from its header (spec.md §3 invariant 4).
func (b *Builder) clearProcessed(block *cfg.BasicBlock) { b.processed.Remove(block.ID) }

// buildSequence is spec.md §2's `build(startBlock, stack)`: it populates
// the stack's top-frame region by repeatedly calling traverse until a
// stack exit or the end of the graph is reached, returning the block
// where outer flow resumes (the "continuation block"). Each call counts as
// one region toward the region-count safety limit.
func (b *Builder) buildSequence(start *cfg.BasicBlock, stack *Stack) (*cfg.BasicBlock, error) {
	if stack.Depth() > b.maxDepth {
		return nil, &DepthError{Method: b.cfg.Name, Depth: stack.Depth(), Max: b.maxDepth}
	}
	b.regionsCount++
	if b.regionsCount > b.regionLimit {
		return nil, &OverflowError{Method: b.cfg.Name, Count: b.regionsCount, Limit: b.regionLimit}
	}

	block := start
	for block != nil {
		if stack.ContainsExit(block) {
			return block, nil
		}
		if b.processed.Contains(block.ID) {
			b.warnf("block %d already processed, refusing re-entry", block.ID)
			return block, nil
		}

		next, err := b.traverse(block, stack)
		if err != nil {
			return nil, err
		}
		block = next
	}
	return nil, nil
}

// traverse dispatches a single block to the recognizer matching its role
// (loop header, or its terminator's InsnType), or appends it as a plain
// sequence item (spec.md §2, "Data flow"; §9, "Dynamic dispatch by
// last-instruction kind").
func (b *Builder) traverse(block *cfg.BasicBlock, stack *Stack) (*cfg.BasicBlock, error) {
	region := stack.PeekRegion()

	if block.Contains(cfg.FlagLoopStart) {
		if loop := b.cfg.GetLoopForBlock(block); loop != nil && loop.Start == block {
			return b.loop.process(region, block, loop, stack)
		}
	}

	switch block.LastInsnType() {
	case cfg.InsnMonitorEnter:
		return b.monitor.process(region, block, stack)
	case cfg.InsnIf:
		return b.ifB.process(region, block, stack)
	case cfg.InsnSwitch:
		return b.switchB.process(region, block, stack)
	default:
		return b.plain(region, block)
	}
}

// plain appends a block with no special structural role to the current
// region and continues to its sole clean successor.
func (b *Builder) plain(region *Region, block *cfg.BasicBlock) (*cfg.BasicBlock, error) {
	b.markProcessed(block)
	block.Add(cfg.FlagAddedToRegion)
	region.Append(block)

	if block.LastInsnType() == cfg.InsnReturn || block == b.cfg.ExitBlock {
		return nil, nil
	}
	return cfg.GetNextBlock(block), nil
}

// opaqueBranch handles a branching block whose structural recognition
// failed (spec.md §7, "Recognition failure"): unlike plain, which requires
// exactly one clean successor, a failed if/switch still has two-or-more raw
// successors that must all still be walked, or a block reachable only
// through one of them (e.g. a loop's latch, when the interior if carrying
// the loop's exit edge can't be restructured) is silently dropped from the
// walk instead of merely losing its structure. Both branches are traversed
// in turn and appended flat into the current region; there is no
// convergence information to rebuild an if/else from, so this is a
// deliberately unstructured flattening, not a best-effort reconstruction.
func (b *Builder) opaqueBranch(region *Region, block *cfg.BasicBlock, stack *Stack) (*cfg.BasicBlock, error) {
	b.markProcessed(block)
	block.Add(cfg.FlagAddedToRegion)
	region.Append(block)

	var cont *cfg.BasicBlock
	for _, succ := range block.Successors {
		next, err := b.buildSequence(succ, stack)
		if err != nil {
			return nil, err
		}
		if next != nil {
			cont = next
		}
	}
	return cont, nil
}
