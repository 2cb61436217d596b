// Package smoothing implements the running-median shift smoother, the
// cold-open/credits border repair pass, and the None-aware linear
// interpolation used by keyframe correction.
package smoothing

import (
	"sort"

	"github.com/tp7/sushi-go/internal/errorsx"
	"github.com/tp7/sushi-go/internal/event"
)

// RunningMedian returns, for each position i, the median of values in a
// window of the given size centered on i, shrinking near the edges
// instead of using a trimmed/reflected window. window must be odd.
func RunningMedian(values []float64, window int) []float64 {
	if window%2 == 0 {
		errorsx.InternalInvariant("running_median requires an odd window size")
	}
	n := len(values)
	out := make([]float64, n)
	halfW := window / 2
	buf := make([]float64, 0, window)
	for i := 0; i < n; i++ {
		r := halfW
		if i < r {
			r = i
		}
		if n-i-1 < r {
			r = n - i - 1
		}
		buf = buf[:0]
		buf = append(buf, values[i-r:i+r+1]...)
		sort.Float64s(buf)
		out[i] = buf[len(buf)/2]
	}
	return out
}

// SmoothEvents replaces each event's shift with the running median of
// the group's shifts over a window of 2*radius+1. diff is left
// untouched. A non-positive radius is a no-op.
func SmoothEvents(events []*event.Event, radius int) {
	if radius <= 0 || len(events) == 0 {
		return
	}
	shifts := make([]float64, len(events))
	for i, e := range events {
		shifts[i] = e.Shift()
	}
	smoothed := RunningMedian(shifts, 2*radius+1)
	for i, e := range events {
		if e.IsLinked() {
			continue
		}
		e.SetShift(smoothed[i], e.Diff())
	}
}

// bandLow and bandHigh bound the [0.2, 5.0] multiplier-of-median-diff range
// outside of which a boundary event is considered "broken": the start
// or end of the program has no matching audio on one side (cold open,
// missing credits), so its match score is garbage.
const (
	bandLow  = 0.2
	bandHigh = 5.0
)

// FixNearBorders links broken leading/trailing events (whose diff is
// far from the group's median diff) to the first well-matched event
// found walking inward from that end.
func FixNearBorders(events []*event.Event) {
	n := len(events)
	if n == 0 {
		return
	}
	diffs := make([]float64, n)
	for i, e := range events {
		diffs[i] = e.Diff()
	}
	medianDiff := median(diffs)
	if medianDiff == 0 {
		return
	}
	inBand := func(e *event.Event) bool {
		ratio := e.Diff() / medianDiff
		return ratio >= bandLow && ratio <= bandHigh
	}

	i := 0
	for i < n && !inBand(events[i]) {
		i++
	}
	if i > 0 && i < n {
		good := events[i]
		for j := 0; j < i; j++ {
			events[j].Link(good)
		}
	}

	j := n - 1
	for j >= 0 && !inBand(events[j]) {
		j--
	}
	if j >= 0 && j < n-1 {
		good := events[j]
		for k := j + 1; k < n; k++ {
			events[k].Link(good)
		}
	}
}

func median(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// Optional is an explicit present/absent float, used instead of a
// truthiness check (a legitimate value can be exactly 0) or a NaN
// sentinel that would silently poison arithmetic.
type Optional struct {
	Value float64
	Set   bool
}

// Some wraps a known value.
func Some(v float64) Optional { return Optional{Value: v, Set: true} }

// InterpolateNones linearly interpolates missing entries in values
// using xs as the interpolation key. Missing entries before the first
// known value or after the last take that boundary's value. Returns an
// empty slice if every value is missing.
func InterpolateNones(values []Optional, xs []float64) []float64 {
	n := len(values)
	var known []int
	for i, v := range values {
		if v.Set {
			known = append(known, i)
		}
	}
	if len(known) == 0 {
		return []float64{}
	}

	out := make([]float64, n)
	first, last := known[0], known[len(known)-1]
	for i := 0; i <= first; i++ {
		out[i] = values[first].Value
	}
	for i := last; i < n; i++ {
		out[i] = values[last].Value
	}

	for k := 0; k < len(known)-1; k++ {
		i0, i1 := known[k], known[k+1]
		v0, v1 := values[i0].Value, values[i1].Value
		x0, x1 := xs[i0], xs[i1]
		out[i0] = v0
		out[i1] = v1
		for i := i0 + 1; i < i1; i++ {
			if x1 == x0 {
				out[i] = v0
				continue
			}
			t := (xs[i] - x0) / (x1 - x0)
			out[i] = v0 + t*(v1-v0)
		}
	}
	return out
}
