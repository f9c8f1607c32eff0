package regions

import (
	"testing"

	"github.com/ludo-technologies/cfgregion/internal/cfgtest"
)

// TestBuilder_SimpleSwitch builds a three-case switch where every case
// returns directly (no fallthrough), matching the "switch-fallthrough"
// literal scenario's non-fallthrough baseline (SPEC_FULL.md §8).
func TestBuilder_SimpleSwitch(t *testing.T) {
	c := cfgtest.New("simpleSwitch").
		Edge("entry", "header").
		Switch("header", map[int]string{0: "case0", 1: "case1"}, []int{0, 1}, "def").
		Return("case0").
		Return("case1").
		Return("def").
		Build()

	root, err := NewBuilder(c).Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	var swRegion *Region
	for _, item := range root.Items {
		if !item.IsBlock() && item.Region.Kind == KindSwitch {
			swRegion = item.Region
		}
	}
	if swRegion == nil {
		t.Fatalf("expected a switch region in root sequence, items=%v", root.Items)
	}
	if len(swRegion.SwitchCases) != 2 {
		t.Errorf("expected 2 cases, got %d", len(swRegion.SwitchCases))
	}
	if swRegion.SwitchDefault == nil {
		t.Error("expected a default case body")
	}
}
