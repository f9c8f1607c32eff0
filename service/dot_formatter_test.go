package service

import (
	"strings"
	"testing"

	"github.com/ludo-technologies/cfgregion/internal/regions"
)

func TestRegionDOTFormatter_SimpleTree(t *testing.T) {
	region, _ := buildFixture(t, "dotTest")

	f := NewRegionDOTFormatter(nil)
	out, err := f.FormatRegion("dotTest", region)
	if err != nil {
		t.Fatalf("FormatRegion: %v", err)
	}

	if !strings.Contains(out, "digraph dotTest {") {
		t.Errorf("expected a digraph header naming the fixture, got:\n%s", out)
	}
	if !strings.Contains(out, "rankdir=TB;") {
		t.Error("expected the default TB rank direction")
	}
	if !strings.Contains(out, "Legend") {
		t.Error("expected a legend by default")
	}
}

func TestRegionDOTFormatter_NilRoot(t *testing.T) {
	f := NewRegionDOTFormatter(nil)
	out, err := f.FormatRegion("empty", nil)
	if err != nil {
		t.Fatalf("FormatRegion: %v", err)
	}
	if !strings.Contains(out, "empty region tree") {
		t.Errorf("expected an empty-graph comment, got:\n%s", out)
	}
}

func TestRegionDOTFormatter_InvalidRankDir(t *testing.T) {
	f := NewRegionDOTFormatter(&DOTFormatterConfig{RankDir: "DIAGONAL"})
	if _, err := f.FormatRegion("x", &regions.Region{Kind: regions.KindSequence}); err == nil {
		t.Error("expected an error for an invalid rank direction")
	}
}

func TestRegionDOTFormatter_NoLegend(t *testing.T) {
	region, _ := buildFixture(t, "bareTree")
	f := NewRegionDOTFormatter(&DOTFormatterConfig{RankDir: "LR", ShowLegend: false})
	out, err := f.FormatRegion("bareTree", region)
	if err != nil {
		t.Fatalf("FormatRegion: %v", err)
	}
	if strings.Contains(out, "Legend") {
		t.Error("expected no legend when ShowLegend is false")
	}
	if !strings.Contains(out, "rankdir=LR;") {
		t.Error("expected the configured LR rank direction")
	}
}
