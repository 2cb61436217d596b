package event

import "sort"

// SortByStart orders events by Start time, stable so events sharing a
// start time keep their relative (authoring) order.
func SortByStart(events []*Event) {
	sort.SliceStable(events, func(i, j int) bool { return events[i].Start < events[j].Start })
}

// SortBySourceIndex restores the original authoring order, used when
// serializing output regardless of any in-memory sort applied for matching.
func SortBySourceIndex(events []*Event) {
	sort.SliceStable(events, func(i, j int) bool { return events[i].SourceIndex < events[j].SourceIndex })
}

// NonLinked returns the subset of events that are not currently linked
// to another event.
func NonLinked(events []*Event) []*Event {
	out := make([]*Event, 0, len(events))
	for _, e := range events {
		if !e.IsLinked() {
			out = append(out, e)
		}
	}
	return out
}
