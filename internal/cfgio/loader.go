package cfgio

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ludo-technologies/cfgregion/internal/cfg"
)

// LoadFile reads a *.cfg.json or *.cfg.yaml/*.cfg.yml fixture and builds
// its internal/cfg.CFG, dispatching on file extension.
func LoadFile(path string) (*cfg.CFG, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cfgio: read %s: %w", path, err)
	}

	var doc FileDoc
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("cfgio: parse %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("cfgio: parse %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("cfgio: unrecognized fixture extension %q", ext)
	}

	return Build(&doc)
}

// Build constructs a fully-wired internal/cfg.CFG from a parsed FileDoc,
// running FinishDominance before returning it.
func Build(doc *FileDoc) (*cfg.CFG, error) {
	c := cfg.NewCFG(doc.Name)
	blocks := make(map[int]*cfg.BasicBlock, len(doc.Blocks))

	get := func(id int) *cfg.BasicBlock {
		if b, ok := blocks[id]; ok {
			return b
		}
		b := cfg.NewBasicBlock(id)
		blocks[id] = b
		c.Blocks = append(c.Blocks, b)
		return b
	}

	for _, bd := range doc.Blocks {
		get(bd.ID)
	}

	entry, ok := blocks[doc.Entry]
	if !ok {
		return nil, fmt.Errorf("cfgio: entry block %d not defined", doc.Entry)
	}
	c.EnterBlock.AddSuccessor(entry)

	for _, bd := range doc.Blocks {
		b := blocks[bd.ID]
		for _, succID := range bd.Successors {
			b.AddSuccessor(get(succID))
		}
		for _, succID := range bd.BackEdges {
			b.AddBackEdgeSuccessor(get(succID))
		}
		for _, insn := range bd.Instructions {
			built, err := buildInsn(insn, get)
			if err != nil {
				return nil, fmt.Errorf("cfgio: block %d: %w", bd.ID, err)
			}
			b.Instructions = append(b.Instructions, built)
		}
	}

	for _, ld := range doc.Loops {
		start, end := get(ld.Start), get(ld.End)
		start.Add(cfg.FlagLoopStart)
		loop := cfg.NewLoop(start, end)
		for _, id := range ld.Blocks {
			loop.Blocks.Add(id)
		}
		for _, e := range ld.Exits {
			from, to := get(e.From), get(e.To)
			loop.ExitEdges = append(loop.ExitEdges, cfg.Edge{From: from, To: to})
			loop.ExitNodes.Add(from.ID)
		}
		c.Loops = append(c.Loops, loop)
	}

	for _, hd := range doc.Handlers {
		h := &cfg.ExceptionHandler{
			HandlerBlock: get(hd.Handler),
			IsFinally:    hd.IsFinally,
		}
		for _, id := range hd.TryBlocks {
			h.TryBlocks = append(h.TryBlocks, get(id))
		}
		if hd.Splitter != nil {
			h.Splitter = get(*hd.Splitter)
		}
		c.ExceptionHandlers = append(c.ExceptionHandlers, h)
	}

	c.FinishDominance()
	return c, nil
}

func buildInsn(doc InsnDoc, get func(int) *cfg.BasicBlock) (*cfg.Insn, error) {
	insnType := cfg.InsnType(doc.Type)
	switch insnType {
	case cfg.InsnPlain, cfg.InsnIf, cfg.InsnMonitorEnter, cfg.InsnMonitorExit, cfg.InsnReturn:
		insn := &cfg.Insn{Type: insnType, Arg0: doc.Arg0}
		return insn, nil
	case cfg.InsnSwitch:
		if doc.Switch == nil {
			return nil, fmt.Errorf("switch instruction missing case table")
		}
		sw := &cfg.SwitchData{}
		for _, c := range doc.Switch.Cases {
			var key cfg.CaseKey
			switch {
			case c.IntKey != nil:
				key = cfg.IntCase(*c.IntKey)
			case c.StrKey != nil:
				key = cfg.StringCase(*c.StrKey)
			default:
				return nil, fmt.Errorf("switch case missing int_key/str_key")
			}
			sw.Cases = append(sw.Cases, cfg.SwitchEdge{Key: key, Target: get(c.Target)})
		}
		if doc.Switch.Default != nil {
			sw.Default = get(*doc.Switch.Default)
		}
		return &cfg.Insn{Type: cfg.InsnSwitch, Switch: sw}, nil
	default:
		return nil, fmt.Errorf("unrecognized instruction type %q", doc.Type)
	}
}
