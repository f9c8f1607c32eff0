package service

import (
	"errors"
	"testing"

	"github.com/ludo-technologies/cfgregion/internal/cfg"
	"github.com/ludo-technologies/cfgregion/internal/cfgtest"
	"github.com/ludo-technologies/cfgregion/internal/regions"
)

func buildFixture(t *testing.T, name string) (*regions.Region, *cfg.CFG) {
	t.Helper()
	c := cfgtest.New(name).
		Edge("entry", "cond").
		If("cond", "then", "els").
		Plain("then").
		Plain("els").
		Edge("then", "out").
		Edge("els", "out").
		Return("out").
		Edge("out", "exit").
		Build()
	region, err := regions.NewBuilder(c).Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return region, c
}

func TestRegionWalker_WalkAll_Success(t *testing.T) {
	region, c := buildFixture(t, "walked")

	w := NewRegionWalker(2)
	stats := w.WalkAll([]WalkItem{
		{Name: "walked", CFG: c, Region: region},
	})

	if len(stats) != 1 {
		t.Fatalf("expected 1 stat, got %d", len(stats))
	}
	if stats[0].Err != nil {
		t.Errorf("unexpected error: %v", stats[0].Err)
	}
	if stats[0].RegionCount == 0 {
		t.Error("expected a non-zero region count")
	}
}

func TestRegionWalker_WalkAll_PreservesOrderAndErrors(t *testing.T) {
	region, c := buildFixture(t, "ordered")

	items := []WalkItem{
		{Name: "first", CFG: c, Region: region},
		{Name: "second", Err: errors.New("boom")},
		{Name: "third", CFG: c, Region: region},
	}

	w := NewRegionWalker(0)
	stats := w.WalkAll(items)

	if len(stats) != 3 {
		t.Fatalf("expected 3 stats, got %d", len(stats))
	}
	if stats[0].Name != "first" || stats[1].Name != "second" || stats[2].Name != "third" {
		t.Errorf("expected input order preserved, got %+v", stats)
	}
	if stats[1].Err == nil {
		t.Error("expected the second item's error to be preserved")
	}
}
