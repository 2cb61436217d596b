package grouping

import "github.com/tp7/sushi-go/internal/event"

// MergeSmallGroups implements min-group merging: if no group reaches
// minGroupSize, groups are returned unchanged. Otherwise
// each run of consecutive small groups is merged into the large neighbor
// whose shift is closest to the small run's edge, with first/last-run
// policies for runs that only have a neighbor on one side.
func MergeSmallGroups(groups []*Group, minGroupSize int) []*Group {
	anyLarge := false
	for _, g := range groups {
		if len(g.Events) >= minGroupSize {
			anyLarge = true
			break
		}
	}
	if !anyLarge {
		return groups
	}

	n := len(groups)
	var result []*Group
	i := 0
	for i < n {
		if len(groups[i].Events) >= minGroupSize {
			result = append(result, groups[i])
			i++
			continue
		}

		j := i
		for j < n && len(groups[j].Events) < minGroupSize {
			j++
		}
		run := groups[i:j]
		merged := concatGroups(run)

		hasPrev := len(result) > 0
		hasNext := j < n

		switch {
		case !hasPrev && hasNext:
			groups[j].Events = append(append([]*event.Event{}, merged...), groups[j].Events...)
			i = j
		case hasPrev && !hasNext:
			prev := result[len(result)-1]
			prev.Events = append(prev.Events, merged...)
			i = j
		case hasPrev && hasNext:
			prev := result[len(result)-1]
			next := groups[j]
			runFirstShift := merged[0].Shift()
			runLastShift := merged[len(merged)-1].Shift()
			distToNext := absDiff(runLastShift, next.Events[0].Shift())
			distToPrev := absDiff(prev.Events[len(prev.Events)-1].Shift(), runFirstShift)
			if distToNext < distToPrev {
				next.Events = append(append([]*event.Event{}, merged...), next.Events...)
			} else {
				prev.Events = append(prev.Events, merged...)
			}
			i = j
		default:
			result = append(result, &Group{Events: merged})
			i = j
		}
	}
	return result
}

func concatGroups(groups []*Group) []*event.Event {
	var out []*event.Event
	for _, g := range groups {
		out = append(out, g.Events...)
	}
	return out
}
