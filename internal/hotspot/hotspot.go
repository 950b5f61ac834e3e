// Package hotspot finds files changed on more than one branch since a
// shared comparison baseline.
package hotspot

import (
	"sort"

	"github.com/dsablic/mergeplan/internal/model"
	"github.com/dsablic/mergeplan/internal/risk"
)

// Accumulator maps each file to the branches that changed it, in the order
// files and branches were first seen.
type Accumulator struct {
	files    []string
	branches map[string][]string
}

// Add records that branch changed each of files. Repeats are ignored.
func (a *Accumulator) Add(branch string, files []string) {
	if a.branches == nil {
		a.branches = map[string][]string{}
	}
	for _, f := range files {
		touched, ok := a.branches[f]
		if !ok {
			a.files = append(a.files, f)
		}
		if contains(touched, branch) {
			continue
		}
		a.branches[f] = append(touched, branch)
	}
}

// Branches returns the branches that touched file.
func (a *Accumulator) Branches(file string) []string {
	return a.branches[file]
}

// Hotspots returns every file touched by more than one branch, in first-seen
// order. Each hotspot's risk is scored from the number of branch pairs that
// could conflict on it.
func (a *Accumulator) Hotspots() []model.Hotspot {
	var out []model.Hotspot
	for _, f := range a.files {
		touched := a.branches[f]
		if len(touched) < 2 {
			continue
		}
		k := len(touched)
		out = append(out, model.Hotspot{
			File:      f,
			Branches:  append([]string(nil), touched...),
			RiskLevel: risk.AssessRiskLevel(k * (k - 1) / 2),
		})
	}
	return out
}

// Rank orders hotspots by risk, then complexity, then path, and keeps at
// most limit of them when limit is positive. The input is not modified.
func Rank(hotspots []model.Hotspot, limit int) []model.Hotspot {
	ranked := make([]model.Hotspot, len(hotspots))
	copy(ranked, hotspots)

	sort.SliceStable(ranked, func(i, j int) bool {
		ri, rj := risk.RiskToNumber(ranked[i].RiskLevel), risk.RiskToNumber(ranked[j].RiskLevel)
		if ri != rj {
			return ri > rj
		}
		if ranked[i].Complexity != ranked[j].Complexity {
			return ranked[i].Complexity > ranked[j].Complexity
		}
		return ranked[i].File < ranked[j].File
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
