package shiftengine

import (
	"testing"

	"github.com/tp7/sushi-go/internal/event"
)

func TestPrepareSearchGroupsLinksComments(t *testing.T) {
	a := event.New(0, 1, "Default", "a")
	comment := event.New(1, 2, "Default", "c")
	comment.IsComment = true
	b := event.New(2, 3, "Default", "b")
	events := []*event.Event{a, comment, b}

	groups := PrepareSearchGroups(events, 1000, nil, 0.4, 0.5)

	if !comment.IsLinked() {
		t.Fatal("comment should be linked")
	}
	var total int
	for _, g := range groups {
		total += len(g.Members)
	}
	if total != 2 {
		t.Errorf("expected 2 independent members across groups, got %d", total)
	}
}

func TestPrepareSearchGroupsLinksDuplicateBounds(t *testing.T) {
	a := event.New(0, 1, "Default", "a")
	dup := event.New(0, 1, "Default", "dup")
	events := []*event.Event{a, dup}

	PrepareSearchGroups(events, 1000, nil, 0.4, 0.5)

	if !dup.IsLinked() {
		t.Fatal("duplicate-bounds event should be linked to the first occurrence")
	}
	if dup.LinkedTo() != a {
		t.Errorf("expected dup linked to a")
	}
}

func TestPrepareSearchGroupsLinksZeroDuration(t *testing.T) {
	a := event.New(0, 0, "Default", "zero")
	b := event.New(1, 2, "Default", "b")
	events := []*event.Event{a, b}

	PrepareSearchGroups(events, 1000, nil, 0.4, 0.5)

	if !a.IsLinked() {
		t.Fatal("zero-duration event should be linked forward")
	}
}

func TestMergeShortLinesClumpsTypesetting(t *testing.T) {
	var events []*event.Event
	for i := 0; i < 12; i++ {
		start := float64(i) * 0.5
		e := event.New(start, start+0.3, "Default", "ts")
		events = append(events, e)
	}
	groups := MergeShortLines(events, nil, 0.4, 1.0)
	if len(groups) != 1 {
		t.Fatalf("expected all 12 short events in one group, got %d groups", len(groups))
	}

	groupsNoMerge := MergeShortLines(events, nil, 0.4, 0)
	if len(groupsNoMerge) != len(events) {
		t.Fatalf("expected each event in its own group with max_ts_distance=0, got %d groups", len(groupsNoMerge))
	}
}
