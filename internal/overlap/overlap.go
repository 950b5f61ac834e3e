// Package overlap detects branches whose activity periods intersect.
package overlap

import (
	"time"

	"github.com/dsablic/mergeplan/internal/model"
)

// DatesOverlap reports whether [start1, end1] and [start2, end2] intersect.
// Touching endpoints overlap. A zero time is not a valid instant and never
// overlaps anything.
func DatesOverlap(start1, end1, start2, end2 time.Time) bool {
	if start1.IsZero() || end1.IsZero() || start2.IsZero() || end2.IsZero() {
		return false
	}
	return !start1.After(end2) && !start2.After(end1)
}

// ParseAndOverlap is DatesOverlap over RFC3339 strings. Any value that does
// not parse makes the result false.
func ParseAndOverlap(start1, end1, start2, end2 string) bool {
	var ts [4]time.Time
	for i, s := range []string{start1, end1, start2, end2} {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return false
		}
		ts[i] = t
	}
	return DatesOverlap(ts[0], ts[1], ts[2], ts[3])
}

// ActivityRange returns [oldest, newest] over the commit timestamps of a
// history. Commits without a timestamp are ignored. The second result is
// false when no commit carries a timestamp.
func ActivityRange(history []model.Commit) (model.TimeRange, bool) {
	var r model.TimeRange
	for _, c := range history {
		ts := c.Timestamp
		if ts.IsZero() {
			continue
		}
		if r.Start.IsZero() || ts.Before(r.Start) {
			r.Start = ts
		}
		if r.End.IsZero() || ts.After(r.End) {
			r.End = ts
		}
	}
	if r.Start.IsZero() {
		return model.TimeRange{}, false
	}
	return r, true
}

// Pair is an overlapping pair of branches. A precedes B in input order.
type Pair struct {
	A      string
	B      string
	RangeA model.TimeRange
	RangeB model.TimeRange
}

// FindOverlappingChanges derives an activity range per entry and returns
// every unordered pair of entries whose ranges overlap. Entries without a
// range are left out of every comparison, and each pair appears once.
func FindOverlappingChanges(entries []model.FileHistoryEntry) []Pair {
	type ranged struct {
		branch string
		r      model.TimeRange
	}
	var active []ranged
	for _, e := range entries {
		if r, ok := ActivityRange(e.History); ok {
			active = append(active, ranged{branch: e.Branch, r: r})
		}
	}

	var pairs []Pair
	for i := 0; i < len(active); i++ {
		for j := i + 1; j < len(active); j++ {
			a, b := active[i], active[j]
			if DatesOverlap(a.r.Start, a.r.End, b.r.Start, b.r.End) {
				pairs = append(pairs, Pair{A: a.branch, B: b.branch, RangeA: a.r, RangeB: b.r})
			}
		}
	}
	return pairs
}
