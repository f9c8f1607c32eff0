// Package cfgtest provides a small fluent fixture builder for
// constructing internal/cfg.CFG graphs directly in tests, without going
// through a real CFG-construction pass. It is grounded on the teacher's
// CFGBuilder.ConnectBlocks idiom (jscan's internal/analyzer/cfg_builder.go,
// deleted from this repo once its AST-driven half went out of scope) but
// driven by symbolic block names instead of AST traversal.
package cfgtest

import "github.com/ludo-technologies/cfgregion/internal/cfg"

// Builder accumulates a CFG by symbolic block name.
type Builder struct {
	cfg    *cfg.CFG
	blocks map[string]*cfg.BasicBlock
	nextID int
}

// New starts a fixture builder for a method named name. The builder
// pre-registers "entry" and "exit" against the CFG's sentinel blocks.
func New(name string) *Builder {
	b := &Builder{cfg: cfg.NewCFG(name), blocks: map[string]*cfg.BasicBlock{}, nextID: 1}
	b.blocks["entry"] = b.cfg.EnterBlock
	b.blocks["exit"] = b.cfg.ExitBlock
	return b
}

// Block returns the named block, creating and registering it on first
// reference.
func (b *Builder) Block(name string) *cfg.BasicBlock {
	if bl, ok := b.blocks[name]; ok {
		return bl
	}
	bl := cfg.NewBasicBlock(b.nextID)
	b.nextID++
	b.blocks[name] = bl
	b.cfg.Blocks = append(b.cfg.Blocks, bl)
	return bl
}

// Plain appends a no-op instruction to name's block.
func (b *Builder) Plain(name string) *Builder {
	bl := b.Block(name)
	bl.Instructions = append(bl.Instructions, &cfg.Insn{Type: cfg.InsnPlain})
	return b
}

// Return marks name's block as ending in a return.
func (b *Builder) Return(name string) *Builder {
	bl := b.Block(name)
	bl.Instructions = append(bl.Instructions, &cfg.Insn{Type: cfg.InsnReturn})
	return b
}

// Edge connects from -> to as an ordinary forward edge.
func (b *Builder) Edge(from, to string) *Builder {
	b.Block(from).AddSuccessor(b.Block(to))
	return b
}

// BackEdge connects from -> to as a loop latch edge, excluded from clean
// successors.
func (b *Builder) BackEdge(from, to string) *Builder {
	b.Block(from).AddBackEdgeSuccessor(b.Block(to))
	return b
}

// If appends an IF terminator to name's block. By package convention,
// Successors[0] is the then-target and Successors[1] the else-target.
func (b *Builder) If(name, then, els string) *Builder {
	bl := b.Block(name)
	bl.AddSuccessor(b.Block(then))
	bl.AddSuccessor(b.Block(els))
	bl.Instructions = append(bl.Instructions, &cfg.Insn{Type: cfg.InsnIf})
	return b
}

// Switch appends a SWITCH terminator to name's block. order lists the
// int case keys in source order (routed to cases[key]); def, if
// non-empty, is the default target's block name.
func (b *Builder) Switch(name string, cases map[int]string, order []int, def string) *Builder {
	bl := b.Block(name)
	sw := &cfg.SwitchData{}
	for _, k := range order {
		target := b.Block(cases[k])
		bl.AddSuccessor(target)
		sw.Cases = append(sw.Cases, cfg.SwitchEdge{Key: cfg.IntCase(k), Target: target})
	}
	if def != "" {
		defTarget := b.Block(def)
		bl.AddSuccessor(defTarget)
		sw.Default = defTarget
	}
	bl.Instructions = append(bl.Instructions, &cfg.Insn{Type: cfg.InsnSwitch, Switch: sw})
	return b
}

// MonitorEnter appends a MONITOR_ENTER terminator for lockArg to name's block.
func (b *Builder) MonitorEnter(name, lockArg string) *Builder {
	bl := b.Block(name)
	bl.Instructions = append(bl.Instructions, &cfg.Insn{Type: cfg.InsnMonitorEnter, Arg0: lockArg})
	return b
}

// MonitorExit appends a MONITOR_EXIT instruction for lockArg to name's
// block (not necessarily its terminator).
func (b *Builder) MonitorExit(name, lockArg string) *Builder {
	bl := b.Block(name)
	bl.Instructions = append(bl.Instructions, &cfg.Insn{Type: cfg.InsnMonitorExit, Arg0: lockArg})
	return b
}

// Loop registers a natural loop over the named member blocks, marking
// start as a loop header and wiring exits as (from, to) name pairs.
func (b *Builder) Loop(start, end string, members []string, exits [][2]string) *Builder {
	startBlock := b.Block(start)
	l := cfg.NewLoop(startBlock, b.Block(end))
	startBlock.Add(cfg.FlagLoopStart)
	for _, m := range members {
		l.Blocks.Add(b.Block(m).ID)
	}
	for _, e := range exits {
		from, to := b.Block(e[0]), b.Block(e[1])
		l.ExitEdges = append(l.ExitEdges, cfg.Edge{From: from, To: to})
		l.ExitNodes.Add(from.ID)
	}
	b.cfg.Loops = append(b.cfg.Loops, l)
	return b
}

// Handler registers an exception handler over the named try blocks and
// handler entry block.
func (b *Builder) Handler(handlerBlock string, tryBlocks []string, isFinally bool, splitter string) *Builder {
	h := &cfg.ExceptionHandler{HandlerBlock: b.Block(handlerBlock), IsFinally: isFinally}
	for _, tb := range tryBlocks {
		h.TryBlocks = append(h.TryBlocks, b.Block(tb))
	}
	if splitter != "" {
		h.Splitter = b.Block(splitter)
	}
	b.cfg.ExceptionHandlers = append(b.cfg.ExceptionHandlers, h)
	return b
}

// Build finalizes dominance info and returns the constructed CFG, ready
// to be handed to regions.NewBuilder.
func (b *Builder) Build() *cfg.CFG {
	b.cfg.FinishDominance()
	return b.cfg
}
