// Package shiftengine implements the per-event audio matching pipeline:
// building search groups, then searching for each group's shift with
// escalating windows and rewind-on-error.
package shiftengine

import (
	"math"
	"sort"

	"github.com/tp7/sushi-go/internal/event"
)

// Group is a search group: one or more subtitle events whose combined
// audio span is matched as a single pattern.
type Group struct {
	Members []*event.Event
}

func (g *Group) Start() float64    { return g.Members[0].Start }
func (g *Group) End() float64      { return g.Members[len(g.Members)-1].End }
func (g *Group) Duration() float64 { return g.End() - g.Start() }

func absDiff(a, b float64) float64 {
	if a > b {
		return a - b
	}
	return b - a
}

// PrepareSearchGroups sorts events by start time, links comments and
// zero-duration/out-of-range/duplicate-bounds events to a neighbor
// rather than matching them independently, then merges the remaining
// independent events into typesetting-aware search groups and drops
// fully-contained groups.
func PrepareSearchGroups(events []*event.Event, sourceDuration float64, chapters []float64, maxTsDuration, maxTsDistance float64) []*Group {
	event.SortByStart(events)

	var lastUnlinked *event.Event
	seen := make(map[[2]float64]*event.Event)

	linkForward := func(e *event.Event, i int) {
		if i+1 < len(events) {
			e.Link(events[i+1])
		} else if lastUnlinked != nil {
			e.Link(lastUnlinked)
		}
	}

	for i, e := range events {
		switch {
		case e.IsComment:
			linkForward(e, i)
		case e.Start+e.Duration()/2 > sourceDuration:
			if lastUnlinked != nil {
				e.Link(lastUnlinked)
			}
		case e.End == e.Start:
			linkForward(e, i)
		default:
			key := [2]float64{e.Start, e.End}
			if dup, ok := seen[key]; ok {
				e.Link(dup)
				continue
			}
			seen[key] = e
			lastUnlinked = e
		}
	}

	independent := event.NonLinked(events)
	groups := MergeShortLines(independent, chapters, maxTsDuration, maxTsDistance)
	return dropContainedGroups(groups)
}

// nextChapterBoundary returns the smallest chapter start strictly greater
// than t, or +inf if none.
func nextChapterBoundary(t float64, chapters []float64) float64 {
	idx := sort.Search(len(chapters), func(i int) bool { return chapters[i] > t })
	if idx >= len(chapters) {
		return math.Inf(1)
	}
	return chapters[idx]
}

// MergeShortLines implements merge_short_lines_into_groups: clumps of
// consecutive short "typesetting" events get matched as one pattern
// rather than each needing to individually match two frames of audio.
// Exported so keyframesnap can re-group the same way before snapping.
func MergeShortLines(independent []*event.Event, chapters []float64, maxTsDuration, maxTsDistance float64) []*Group {
	var groups []*Group
	n := len(independent)
	i := 0
	for i < n {
		first := independent[i]
		g := &Group{Members: []*event.Event{first}}
		if first.Duration() > maxTsDuration {
			groups = append(groups, g)
			i++
			continue
		}

		boundary := nextChapterBoundary(first.End, chapters)
		groupEnd := first.End
		j := i + 1
		for j < n {
			next := independent[j]
			if absDiff(groupEnd, next.Start) < maxTsDistance && next.Duration() <= maxTsDuration && next.End < boundary {
				g.Members = append(g.Members, next)
				groupEnd = next.End
				j++
				continue
			}
			break
		}
		groups = append(groups, g)
		i = j
	}
	return groups
}

// dropContainedGroups removes any search group strictly contained (in
// time) inside an earlier one, linking its members to the outer group's
// first event instead of matching them independently.
func dropContainedGroups(groups []*Group) []*Group {
	contained := make([]bool, len(groups))
	for i, g := range groups {
		for j, other := range groups {
			if i == j {
				continue
			}
			if other.Start() <= g.Start() && g.End() <= other.End() && !(other.Start() == g.Start() && other.End() == g.End()) {
				for _, m := range g.Members {
					m.Link(other.Members[0])
				}
				contained[i] = true
				break
			}
		}
	}
	out := make([]*Group, 0, len(groups))
	for i, g := range groups {
		if !contained[i] {
			out = append(out, g)
		}
	}
	return out
}
