package event

import "testing"

func TestLinkCircularPanics(t *testing.T) {
	a := New(0, 1, "Default", "a")
	b := New(1, 2, "Default", "b")
	a.Link(b)

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on circular link")
		}
	}()
	b.Link(a)
}

func TestLinkedMutationPanics(t *testing.T) {
	a := New(0, 1, "Default", "a")
	b := New(1, 2, "Default", "b")
	a.Link(b)

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic mutating a linked event")
		}
	}()
	a.SetShift(0.5, 0.1)
}

func TestShiftReadsThroughChain(t *testing.T) {
	a := New(0, 1, "Default", "a")
	b := New(1, 2, "Default", "b")
	b.SetShift(2.5, 0.05)
	a.Link(b)

	if got := a.Shift(); got != 2.5 {
		t.Errorf("got %v want 2.5", got)
	}
	if got := a.Diff(); got != 0.05 {
		t.Errorf("got %v want 0.05", got)
	}
}

func TestResolveLink(t *testing.T) {
	a := New(0, 1, "Default", "a")
	b := New(1, 2, "Default", "b")
	b.SetShift(2.5, 0.05)
	a.Link(b)

	a.ResolveLink()
	if a.IsLinked() {
		t.Fatal("expected a to be independent after resolve")
	}
	if a.Shift() != 2.5 || a.Diff() != 0.05 {
		t.Errorf("resolved shift/diff mismatch: %v/%v", a.Shift(), a.Diff())
	}
	// Now independent: must be safe to mutate.
	a.SetShift(1.0, 0.2)
	if a.Shift() != 1.0 {
		t.Errorf("got %v want 1.0", a.Shift())
	}
}

func TestApplyShiftIsNoOpAtZero(t *testing.T) {
	e := New(10, 20, "Default", "x")
	e.SetShift(0, 0.1)
	e.ApplyShift()
	if e.Start != 10 || e.End != 20 {
		t.Errorf("expected no-op, got start=%v end=%v", e.Start, e.End)
	}
}

func TestApplyShiftAddsStartEndShift(t *testing.T) {
	e := New(10, 20, "Default", "x")
	e.SetShift(3, 0.1)
	e.AdjustAdditionalShifts(0.5, -0.25)
	e.ApplyShift()
	if e.Start != 13.5 {
		t.Errorf("start: got %v want 13.5", e.Start)
	}
	if e.End != 22.75 {
		t.Errorf("end: got %v want 22.75", e.End)
	}
}
