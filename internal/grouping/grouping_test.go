package grouping

import (
	"testing"

	"github.com/tp7/sushi-go/internal/event"
)

func makeEventsWithShifts(shifts []float64) []*event.Event {
	events := make([]*event.Event, len(shifts))
	for i, s := range shifts {
		e := event.New(float64(i), float64(i+1), "Default", "x")
		e.SetShift(s, 0.1)
		events[i] = e
	}
	return events
}

func groupSizes(groups []*Group) []int {
	out := make([]int, len(groups))
	for i, g := range groups {
		out[i] = len(g.Events)
	}
	return out
}

func TestDetectGroupsSizes(t *testing.T) {
	var shifts []float64
	for i := 0; i < 3; i++ {
		shifts = append(shifts, 0.5)
	}
	for i := 0; i < 10; i++ {
		shifts = append(shifts, 1.0)
	}
	for i := 0; i < 5; i++ {
		shifts = append(shifts, 0.5)
	}
	events := makeEventsWithShifts(shifts)
	groups := DetectGroups(events, 0.01)
	got := groupSizes(groups)
	want := []int{3, 10, 5}
	if len(got) != len(want) {
		t.Fatalf("got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("index %d: got %d want %d", i, got[i], want[i])
		}
	}
}

func TestDetectGroupsWithMinMerge(t *testing.T) {
	var shifts []float64
	for i := 0; i < 10; i++ {
		shifts = append(shifts, 0.5)
	}
	shifts = append(shifts, 0.8)
	for i := 0; i < 10; i++ {
		shifts = append(shifts, 1.0)
	}
	events := makeEventsWithShifts(shifts)
	groups := DetectGroups(events, 0.01)
	merged := MergeSmallGroups(groups, 5)
	got := groupSizes(merged)
	want := []int{10, 11}
	if len(got) != len(want) {
		t.Fatalf("got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("index %d: got %d want %d", i, got[i], want[i])
		}
	}
}

func TestGroupsFromChaptersEmptyYieldsOneGroup(t *testing.T) {
	events := makeEventsWithShifts([]float64{0, 0, 0})
	groups := GroupsFromChapters(events, nil)
	if len(groups) != 1 {
		t.Fatalf("expected one group, got %d", len(groups))
	}
	if len(groups[0].Events) != 3 {
		t.Errorf("expected 3 events in the single group, got %d", len(groups[0].Events))
	}
}

func TestGroupsFromChaptersAssignsByEndTime(t *testing.T) {
	events := []*event.Event{
		event.New(0, 5, "Default", "a"),
		event.New(12, 15, "Default", "b"),
	}
	for _, e := range events {
		e.SetShift(0, 0.1)
	}
	groups := GroupsFromChapters(events, []float64{0, 10})
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
}
