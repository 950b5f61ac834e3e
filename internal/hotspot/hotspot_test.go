package hotspot_test

import (
	"testing"

	"github.com/dsablic/mergeplan/internal/hotspot"
	"github.com/dsablic/mergeplan/internal/model"
)

func TestAccumulatorHotspots(t *testing.T) {
	var acc hotspot.Accumulator
	acc.Add("dev", []string{"main.go", "util.go", "README.md"})
	acc.Add("feature", []string{"util.go", "main.go"})
	acc.Add("hotfix", []string{"main.go", "main.go"})

	spots := acc.Hotspots()
	if len(spots) != 2 {
		t.Fatalf("expected 2 hotspots, got %d", len(spots))
	}
	if spots[0].File != "main.go" || spots[1].File != "util.go" {
		t.Errorf("expected first-seen order main.go, util.go; got %s, %s", spots[0].File, spots[1].File)
	}
	if got := spots[0].Branches; len(got) != 3 || got[0] != "dev" || got[2] != "hotfix" {
		t.Errorf("unexpected branches for main.go: %v", got)
	}
	// three branches form three pairs
	if spots[0].RiskLevel != model.RiskHigh {
		t.Errorf("expected high risk for main.go, got %s", spots[0].RiskLevel)
	}
	if spots[1].RiskLevel != model.RiskMedium {
		t.Errorf("expected medium risk for util.go, got %s", spots[1].RiskLevel)
	}
	if got := acc.Branches("README.md"); len(got) != 1 {
		t.Errorf("expected README.md touched once, got %v", got)
	}
}

func TestAccumulatorEmpty(t *testing.T) {
	var acc hotspot.Accumulator
	if spots := acc.Hotspots(); len(spots) != 0 {
		t.Errorf("expected no hotspots, got %d", len(spots))
	}
}

func TestRank(t *testing.T) {
	spots := []model.Hotspot{
		{File: "b.go", RiskLevel: model.RiskMedium, Complexity: 5},
		{File: "a.go", RiskLevel: model.RiskMedium, Complexity: 5},
		{File: "complex.go", RiskLevel: model.RiskMedium, Complexity: 50},
		{File: "core.go", RiskLevel: model.RiskHigh, Complexity: 1},
	}

	ranked := hotspot.Rank(spots, 0)
	want := []string{"core.go", "complex.go", "a.go", "b.go"}
	for i, w := range want {
		if ranked[i].File != w {
			t.Errorf("position %d: expected %s, got %s", i, w, ranked[i].File)
		}
	}
	if spots[0].File != "b.go" {
		t.Error("Rank must not reorder its input")
	}
}

func TestRankLimit(t *testing.T) {
	spots := []model.Hotspot{
		{File: "a", RiskLevel: model.RiskMedium},
		{File: "b", RiskLevel: model.RiskHigh},
		{File: "c", RiskLevel: model.RiskMedium},
	}
	ranked := hotspot.Rank(spots, 2)
	if len(ranked) != 2 {
		t.Fatalf("expected 2 hotspots, got %d", len(ranked))
	}
	if ranked[0].File != "b" {
		t.Errorf("expected b first, got %s", ranked[0].File)
	}
}
