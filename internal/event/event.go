// Package event models a subtitle line and the shift/diff/linking state
// the synchronization engine attaches to it.
//
// Linking replaces a "copy shift from" assignment with a live reference:
// a linked event reads its shift/diff by walking to the end of its link
// chain, and only resolve_link snapshots that value back onto itself.
// Chains are implemented as direct pointers rather than indices into a
// flat vector, since Go's pointers are memory-safe. Cycle detection and
// the "no mutation while linked" invariant are still enforced.
package event

import "github.com/tp7/sushi-go/internal/errorsx"

// Event is one subtitle line.
type Event struct {
	Start float64
	End   float64

	Style string
	Text  string

	// Extra ASS presentation fields, preserved verbatim for round-trip.
	Layer    int
	Name     string
	MarginL  int
	MarginR  int
	MarginV  int
	Effect   string

	IsComment   bool
	SourceIndex int

	// Kind is the original ASS line verb ("Dialogue", "Comment", or a
	// nonstandard extension type), preserved for round-trip. Empty for
	// events parsed from SRT.
	Kind string

	shift      float64
	diff       float64
	startShift float64
	endShift   float64
	linkedTo   *Event
}

// New returns an independent event with default shift state.
func New(start, end float64, style, text string) *Event {
	return &Event{Start: start, End: end, Style: style, Text: text}
}

func (e *Event) Duration() float64 { return e.End - e.Start }

// IsLinked reports whether e currently reads its shift through another event.
func (e *Event) IsLinked() bool { return e.linkedTo != nil }

// LinkedTo returns the immediate link target, or nil.
func (e *Event) LinkedTo() *Event { return e.linkedTo }

func (e *Event) chainEnd() *Event {
	cur := e
	for cur.linkedTo != nil {
		cur = cur.linkedTo
	}
	return cur
}

// Link makes e read its shift/diff through other. It panics with an
// InternalInvariant error if doing so would create a cycle.
func (e *Event) Link(other *Event) {
	if other == nil {
		errorsx.InternalInvariant("link to nil event")
	}
	for cur := other; cur != nil; cur = cur.linkedTo {
		if cur == e {
			errorsx.InternalInvariant("circular link")
		}
	}
	e.linkedTo = other
}

// Shift returns the event's effective shift, resolved through the link chain.
func (e *Event) Shift() float64 { return e.chainEnd().shift }

// Diff returns the event's effective match score, resolved through the link chain.
func (e *Event) Diff() float64 { return e.chainEnd().diff }

func (e *Event) StartShift() float64 { return e.startShift }
func (e *Event) EndShift() float64   { return e.endShift }

// SetShift records the result of matching this (independent) event
// against audio. It panics if e is linked.
func (e *Event) SetShift(shift, diff float64) {
	if e.IsLinked() {
		errorsx.InternalInvariant("set_shift on a linked event")
	}
	e.shift = shift
	e.diff = diff
}

// AdjustAdditionalShifts adds per-boundary refinements on top of shift,
// e.g. from keyframe snapping. It panics if e is linked.
func (e *Event) AdjustAdditionalShifts(startDelta, endDelta float64) {
	if e.IsLinked() {
		errorsx.InternalInvariant("adjust_additional_shifts on a linked event")
	}
	e.startShift += startDelta
	e.endShift += endDelta
}

// ResolveLink copies the chain-end's shift/diff into e and detaches it
// from the chain, leaving e independent. A no-op on unlinked events.
func (e *Event) ResolveLink() {
	end := e.chainEnd()
	if end == e {
		return
	}
	e.shift = end.shift
	e.diff = end.diff
	e.linkedTo = nil
}

// ApplyShift writes the accumulated shift into Start/End. It is
// idempotent only if called once per event; calling it twice double-applies.
func (e *Event) ApplyShift() {
	s := e.Shift()
	e.Start += s + e.startShift
	e.End += s + e.endShift
}
