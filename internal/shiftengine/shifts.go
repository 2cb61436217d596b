package shiftengine

import (
	"log/slog"

	"github.com/tp7/sushi-go/internal/audio"
	"github.com/tp7/sushi-go/internal/event"
)

// smallWindow is the cheap first-guess half-window tried before falling
// back to the escalating three-search termination test.
const smallWindow = 1.5

type groupState struct {
	shift, diff float64
	null        bool
}

// CalculateShifts walks groups in order with committed and uncommitted
// queues of group states, escalating the search window on repeated
// disagreement and rewinding when too many groups accumulate without
// terminating. rewindThresh is a count of accumulated uncommitted
// groups, not a window size.
func CalculateShifts(src, dst *audio.Stream, groups []*Group, normalWindow, maxWindow float64, rewindThresh int, allowedError float64, logger *slog.Logger) {
	committed := make([]groupState, 0, len(groups))
	var uncommitted []groupState
	window := normalWindow
	idx := 0

	for idx < len(groups) {
		g := groups[idx]
		pattern := src.GetSubstream(g.Start(), g.End()).Samples()
		origin := g.Start()
		lastShift := 0.0
		if len(committed) > 0 {
			lastShift = committed[len(committed)-1].shift
		}

		if origin+lastShift > dst.Duration() {
			committed = append(committed, groupState{null: true})
			idx++
			continue
		}

		if len(uncommitted) == 0 && smallWindow < window {
			diff, t := dst.FindSubstream(pattern, origin+lastShift, smallWindow)
			if absDiff(t-origin, lastShift) <= allowedError {
				committed = append(committed, groupState{shift: t - origin, diff: diff})
				window = normalWindow
				idx++
				continue
			}
		}

		halfDur := g.Duration() / 2
		mid := len(pattern) / 2
		firstHalf, secondHalf := pattern[:mid], pattern[mid:]

		terminate, shift, diff := searchTriple(dst, pattern, firstHalf, secondHalf, origin, origin+lastShift, halfDur, window, allowedError)
		if !terminate && len(uncommitted) > 0 {
			altCenter := origin + uncommitted[len(uncommitted)-1].shift
			if t2, s2, d2 := searchTriple(dst, pattern, firstHalf, secondHalf, origin, altCenter, halfDur, window, allowedError); t2 {
				terminate, shift, diff = true, s2, d2
			}
		}

		if terminate {
			for k := range uncommitted {
				uncommitted[k].shift = shift
			}
			if logger != nil && len(uncommitted) > 0 {
				logger.Warn("accepting carried-over groups at new shift", "count", len(uncommitted), "shift", shift)
			}
			committed = append(committed, uncommitted...)
			committed = append(committed, groupState{shift: shift, diff: diff})
			uncommitted = uncommitted[:0]
			idx++
			continue
		}

		uncommitted = append(uncommitted, groupState{shift: shift, diff: diff})
		if len(uncommitted) == rewindThresh && window < maxWindow {
			if logger != nil {
				logger.Warn("rewinding after repeated disagreement", "start", groups[len(committed)].Start(), "window", maxWindow)
			}
			window = maxWindow
			idx = len(committed)
			uncommitted = uncommitted[:0]
			continue
		}
		idx++
	}

	for range uncommitted {
		committed = append(committed, groupState{null: true})
	}

	applyStates(groups, committed)
}

// searchTriple runs the whole/left-half/right-half searches centered on
// center and reports whether all three agree within allowedError.
func searchTriple(dst *audio.Stream, whole, left, right []float64, origin, center, halfDur, window, allowedError float64) (terminate bool, shift, diff float64) {
	wholeDiff, wholeTime := dst.FindSubstream(whole, center, window)
	_, leftTime := dst.FindSubstream(left, center, window)
	_, rightTime := dst.FindSubstream(right, center+halfDur, window)

	shiftWhole := wholeTime - origin
	shiftLeft := leftTime - origin
	shiftRight := rightTime - (origin + halfDur)

	ok := absDiff(shiftLeft, shiftRight) <= allowedError &&
		absDiff(shiftLeft, shiftWhole) <= allowedError &&
		absDiff(shiftRight, shiftWhole) <= allowedError
	return ok, shiftWhole, wholeDiff
}

// applyStates writes final shifts into every group's members, or links
// null groups to the nearest earlier group with a still-independent
// member.
func applyStates(groups []*Group, states []groupState) {
	for i, st := range states {
		if !st.null {
			for _, m := range groups[i].Members {
				m.SetShift(st.shift, st.diff)
			}
			continue
		}
		for k := i - 1; k >= 0; k-- {
			var target *event.Event
			for _, m := range groups[k].Members {
				if !m.IsLinked() {
					target = m
					break
				}
			}
			if target != nil {
				for _, m := range groups[i].Members {
					m.Link(target)
				}
				break
			}
		}
	}
}
