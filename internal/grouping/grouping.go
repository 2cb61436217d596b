// Package grouping implements chapter-seeded and automatic grouping of
// subtitle events that share one shift decision.
package grouping

import (
	"math"
	"sort"

	"github.com/tp7/sushi-go/internal/event"
)

// Group is an ordered, contiguous-by-start-time bag of events sharing one
// shift decision.
type Group struct {
	Events []*event.Event
	// Broken marks a group produced by re-grouping a chapter-seeded group
	// whose shift standard deviation exceeded MAX_GROUP_STD.
	Broken bool
}

func absDiff(a, b float64) float64 {
	if a > b {
		return a - b
	}
	return b - a
}

func shiftsOf(events []*event.Event) []float64 {
	out := make([]float64, len(events))
	for i, e := range events {
		out[i] = e.Shift()
	}
	return out
}

func stdDev(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	mean := 0.0
	for _, v := range xs {
		mean += v
	}
	mean /= float64(len(xs))
	var variance float64
	for _, v := range xs {
		d := v - mean
		variance += d * d
	}
	variance /= float64(len(xs))
	return math.Sqrt(variance)
}

// GroupsFromChapters assigns each event to the chapter whose start-time is
// the greatest <= event.End. A synthetic sentinel chapter at +inf catches
// anything past the last real chapter. Linked events are bucketed by
// their chain end's end-time, so an all-linked group lands in its chain
// end's group without a separate reattachment pass.
func GroupsFromChapters(events []*event.Event, chapterStarts []float64) []*Group {
	bounds := append(append([]float64(nil), chapterStarts...), math.Inf(1))

	buckets := make([][]*event.Event, len(bounds))
	for _, e := range events {
		key := e
		if e.IsLinked() {
			key = e.LinkedTo()
			for key.IsLinked() {
				key = key.LinkedTo()
			}
		}
		idx := chapterIndexFor(key.End, bounds)
		buckets[idx] = append(buckets[idx], e)
	}

	var groups []*Group
	for _, b := range buckets {
		if len(b) == 0 {
			continue
		}
		event.SortByStart(b)
		groups = append(groups, &Group{Events: b})
	}
	return groups
}

// chapterIndexFor returns the index of the greatest bound <= t (bounds
// must be ascending, ending in +inf).
func chapterIndexFor(t float64, bounds []float64) int {
	idx := sort.Search(len(bounds), func(i int) bool { return bounds[i] > t })
	if idx == 0 {
		return 0
	}
	return idx - 1
}

// DetectGroups implements automatic grouping: start a new group whenever
// |shift - last_shift| > allowedError.
func DetectGroups(events []*event.Event, allowedError float64) []*Group {
	if len(events) == 0 {
		return nil
	}
	var groups []*Group
	start := 0
	lastShift := events[0].Shift()
	for i := 1; i < len(events); i++ {
		if absDiff(events[i].Shift(), lastShift) > allowedError {
			groups = append(groups, &Group{Events: events[start:i]})
			start = i
			lastShift = events[i].Shift()
		}
	}
	groups = append(groups, &Group{Events: events[start:]})
	return groups
}
