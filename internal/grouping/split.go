package grouping

import (
	"sort"

	"github.com/tp7/sushi-go/internal/event"
)

// SplitBrokenGroups implements broken-group splitting: applied after
// chapter-seeded grouping, it re-groups any chapter group
// whose shift standard deviation exceeds maxGroupStd (the chapter
// boundary was likely wrong), then coalesces adjacent groups (original or
// freshly re-grouped) whose edge shifts are close and whose combined std
// stays under the threshold.
func SplitBrokenGroups(groups []*Group, allowedError, maxGroupStd float64, minGroupSize int) []*Group {
	var expanded []*Group
	for _, g := range groups {
		std := stdDev(shiftsOf(g.Events))
		if std > maxGroupStd {
			sub := DetectGroups(g.Events, allowedError)
			sub = MergeSmallGroups(sub, minGroupSize)
			for _, sg := range sub {
				sg.Broken = true
			}
			expanded = append(expanded, sub...)
		} else {
			expanded = append(expanded, g)
		}
	}

	sort.SliceStable(expanded, func(i, j int) bool {
		return expanded[i].Events[0].Start < expanded[j].Events[0].Start
	})

	var coalesced []*Group
	for _, g := range expanded {
		if len(coalesced) > 0 {
			last := coalesced[len(coalesced)-1]
			lastShift := last.Events[len(last.Events)-1].Shift()
			gShift := g.Events[0].Shift()
			if absDiff(lastShift, gShift) < allowedError {
				merged := append(append([]*event.Event{}, last.Events...), g.Events...)
				if stdDev(shiftsOf(merged)) < maxGroupStd {
					last.Events = merged
					last.Broken = last.Broken || g.Broken
					continue
				}
			}
		}
		coalesced = append(coalesced, &Group{Events: g.Events, Broken: g.Broken})
	}
	return coalesced
}
