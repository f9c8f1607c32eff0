package cfg

// CFG is the read-only view the region builder walks (spec.md §4.A, "CFG
// View"): blocks, their successors/predecessors, dominator info, the
// method's natural loops, and exception-handler metadata. It plays the
// role the teacher's external `codescan-core/cfg.CFG` plays for jscan
// (internal/analyzer/reachability.go et al.) — here it is in-module
// because, per spec.md §1, CFG construction is an external collaborator
// but the region builder's input *contract* is this package's concern.
type CFG struct {
	Name string

	Blocks     []*BasicBlock
	EnterBlock *BasicBlock
	ExitBlock  *BasicBlock

	Loops []*Loop

	ExceptionHandlers []*ExceptionHandler

	Dom *DomTree

	flags FlagSet

	warnings []string

	// edgeInsns holds synthesized break/continue/fallthrough instructions
	// attached to an edge rather than inlined into a block's instruction
	// list (spec.md §3, invariant 5; §6, "EdgeInsnAttr.addEdgeInsn").
	edgeInsns map[edgeKey][]*Insn

	// loopLabels maps a break Insn to the loop it disambiguates.
	loopLabels map[*Insn]*LoopLabelAttr

	// excHandlerAttrs maps a handler to the attribute attached to its
	// built region (spec.md §6).
	excHandlerAttrs map[*ExceptionHandler]*ExcHandlerAttr

	// Region holds the built region tree's root once a builder finishes
	// (spec.md §6, "method.getRegion()"). It is `any` to avoid an import
	// cycle with internal/regions; callers type-assert to *regions.Region.
	Region any

	pathCross *PathCrossCache
}

type edgeKey struct{ from, to int }

// NewCFG constructs an empty CFG with entry/exit sentinel blocks, mirroring
// the teacher's NewCFG(name) + Entry/Exit convention (cfg_builder.go).
func NewCFG(name string) *CFG {
	entry := NewBasicBlock(0)
	exit := NewBasicBlock(-1)
	return &CFG{
		Name:            name,
		Blocks:          []*BasicBlock{entry, exit},
		EnterBlock:      entry,
		ExitBlock:       exit,
		edgeInsns:       map[edgeKey][]*Insn{},
		loopLabels:      map[*Insn]*LoopLabelAttr{},
		excHandlerAttrs: map[*ExceptionHandler]*ExcHandlerAttr{},
	}
}

// Add sets a method-level flag (spec.md §6, "method.add(flag)"); currently
// only FlagInconsistentCode is used at this level.
func (c *CFG) Add(flag BlockFlag) { c.flags.Add(flag) }

// Contains reports whether the method carries the given flag.
func (c *CFG) Contains(flag BlockFlag) bool { return c.flags.Contains(flag) }

// AddWarn records a non-fatal diagnostic (spec.md §7, "logged at
// debug/warn level via addWarn").
func (c *CFG) AddWarn(msg string) { c.warnings = append(c.warnings, msg) }

// Warnings returns every warning recorded so far.
func (c *CFG) Warnings() []string { return c.warnings }

// GetBasicBlocks returns the method's blocks in declaration order
// (spec.md §6).
func (c *CFG) GetBasicBlocks() []*BasicBlock { return c.Blocks }

// GetEnterBlock returns the method's entry block.
func (c *CFG) GetEnterBlock() *BasicBlock { return c.EnterBlock }

// GetLoopForBlock returns the innermost loop containing block (or headed
// by it), or nil.
func (c *CFG) GetLoopForBlock(block *BasicBlock) *Loop {
	loops := c.GetAllLoopsForBlock(block)
	if len(loops) == 0 {
		return nil
	}
	return loops[0]
}

// GetAllLoopsForBlock returns every loop containing block, innermost
// first (spec.md §6, "getAllLoopsForBlock").
func (c *CFG) GetAllLoopsForBlock(block *BasicBlock) []*Loop {
	if block == nil {
		return nil
	}
	var out []*Loop
	for _, l := range c.Loops {
		if l.Contains(block) || l.Start == block {
			out = append(out, l)
		}
	}
	// Deepest (most nested) loop first.
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j].Depth() > out[i].Depth() {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	return out
}

// GetExceptionHandlers returns the method's exception handlers.
func (c *CFG) GetExceptionHandlers() []*ExceptionHandler { return c.ExceptionHandlers }

// GetExceptionHandlersCount returns the number of exception handlers.
func (c *CFG) GetExceptionHandlersCount() int { return len(c.ExceptionHandlers) }

// GetRegion returns the root of the built region tree, or nil if Build has
// not run yet.
func (c *CFG) GetRegion() any { return c.Region }

// AddEdgeInsn attaches a synthesized instruction (break/continue/fallthrough)
// to the edge (from, to) rather than inlining it into a block (spec.md §3,
// invariant 5; §6, "EdgeInsnAttr.addEdgeInsn").
func (c *CFG) AddEdgeInsn(from, to *BasicBlock, insn *Insn) {
	key := edgeKey{from.ID, to.ID}
	c.edgeInsns[key] = append(c.edgeInsns[key], insn)
}

// EdgeInsns returns the synthesized instructions attached to (from, to).
func (c *CFG) EdgeInsns(from, to *BasicBlock) []*Insn {
	return c.edgeInsns[edgeKey{from.ID, to.ID}]
}

// SetLoopLabel attaches a LoopLabelAttr to a synthesized break instruction.
func (c *CFG) SetLoopLabel(insn *Insn, loop *Loop) {
	c.loopLabels[insn] = &LoopLabelAttr{Loop: loop}
}

// LoopLabel returns the loop a break instruction was labelled for, if any.
func (c *CFG) LoopLabel(insn *Insn) *Loop {
	if attr, ok := c.loopLabels[insn]; ok {
		return attr.Loop
	}
	return nil
}

// SetExcHandlerAttr records the ExcHandlerAttr for a built handler region.
func (c *CFG) SetExcHandlerAttr(h *ExceptionHandler, attr *ExcHandlerAttr) {
	c.excHandlerAttrs[h] = attr
}

// ExcHandlerAttrFor returns the ExcHandlerAttr recorded for h, if any.
func (c *CFG) ExcHandlerAttrFor(h *ExceptionHandler) *ExcHandlerAttr {
	return c.excHandlerAttrs[h]
}

// PathCross lazily builds the per-build path-cross memo table described in
// SPEC_FULL.md's supplemented feature 5 (BreakLoopHelper's cross-point cache).
func (c *CFG) PathCross() *PathCrossCache {
	if c.pathCross == nil {
		c.pathCross = newPathCrossCache(c)
	}
	return c.pathCross
}

// FinishDominance builds the dominator tree and dominance frontiers for the
// CFG and wires them into every block. Callers (internal/cfgio loaders,
// internal/cfgtest fixtures) must call this once the graph's edges are
// final and before handing the CFG to the region builder.
func (c *CFG) FinishDominance() {
	c.Dom = BuildDomTree(c.EnterBlock, c.Blocks)
	c.Dom.AttachTo(c.Blocks)
	ComputeDomFrontiers(c.Blocks, c.Dom)
}

// BlockByID looks up a block by id, or nil.
func (c *CFG) BlockByID(id int) *BasicBlock { return blockByID(c.Blocks, id) }
