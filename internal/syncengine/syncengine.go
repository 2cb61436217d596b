// Package syncengine drives the full shift-and-apply pipeline: it owns
// no algorithm of its own, only the order in which the other engine
// packages run against one shared event list.
package syncengine

import (
	"log/slog"

	"github.com/tp7/sushi-go/internal/audio"
	"github.com/tp7/sushi-go/internal/config"
	"github.com/tp7/sushi-go/internal/event"
	"github.com/tp7/sushi-go/internal/grouping"
	"github.com/tp7/sushi-go/internal/keyframesnap"
	"github.com/tp7/sushi-go/internal/shiftengine"
	"github.com/tp7/sushi-go/internal/smoothing"
	"github.com/tp7/sushi-go/internal/timecode"
)

// Keyframes bundles the optional keyframe-snap inputs. The zero value
// (Present == false) means keyframe snapping is skipped.
type Keyframes struct {
	Present bool
	SrcKT   timecode.Keytimes
	DstKT   timecode.Keytimes
	SrcTC   *timecode.Timecodes
	DstTC   *timecode.Timecodes
	Mode    keyframesnap.Mode
}

// Options gathers everything the orchestrator needs. Audio decoding,
// script parsing, and timecode/keyframe construction all happen before
// Run is called; the orchestrator only sequences the shift pipeline.
type Options struct {
	Src, Dst *audio.Stream
	Events   []*event.Event
	Chapters []float64 // empty when grouping should run automatic detect_groups

	GroupingEnabled bool
	Keyframes       Keyframes

	Cfg    *config.Config
	Logger *slog.Logger
}

// Run executes the seven-step shift pipeline in place over opts.Events.
func Run(opts Options) {
	cfg := opts.Cfg
	logger := opts.Logger

	// Step 2: sort events by start time.
	event.SortByStart(opts.Events)

	// Step 3: prepare_search_groups, then calculate_shifts.
	searchGroups := shiftengine.PrepareSearchGroups(opts.Events, opts.Src.Duration(), opts.Chapters, cfg.MaxTsDuration, cfg.MaxTsDistance)
	shiftengine.CalculateShifts(opts.Src, opts.Dst, searchGroups, cfg.NormalWindow, cfg.MaxWindow, cfg.RewindThresh, cfg.AllowedError, logger)

	// Step 4: grouping.
	var groups []*grouping.Group
	if opts.GroupingEnabled && len(opts.Chapters) > 0 {
		groups = grouping.GroupsFromChapters(opts.Events, opts.Chapters)
		for _, g := range groups {
			smoothing.FixNearBorders(g.Events)
			smoothing.SmoothEvents(event.NonLinked(g.Events), cfg.SmoothRadius)
		}
		groups = grouping.SplitBrokenGroups(groups, cfg.AllowedError, cfg.MaxGroupStd, cfg.MinGroupSize)
	} else {
		smoothing.FixNearBorders(opts.Events)
		smoothing.SmoothEvents(event.NonLinked(opts.Events), cfg.SmoothRadius)
		groups = grouping.DetectGroups(opts.Events, cfg.AllowedError)
		groups = grouping.MergeSmallGroups(groups, cfg.MinGroupSize)
	}

	// Step 5: average_shifts per group, weighted by 1-diff, written back
	// through every independent member (linked members pick it up by
	// walking their chain, since a chain-end always lands in the same
	// time-bucketed group as the events that link to it).
	for _, g := range groups {
		averageShifts(g.Events)
	}

	// Step 6: keyframe snap.
	if opts.Keyframes.Present {
		for _, e := range opts.Events {
			e.ResolveLink()
		}
		kf := opts.Keyframes
		if opts.GroupingEnabled && len(opts.Chapters) > 0 {
			for _, g := range groups {
				keyframesnap.SnapToKeyframes(g.Events, opts.Chapters, kf.SrcKT, kf.DstKT, kf.SrcTC, kf.DstTC, float64(cfg.MaxKfDistance), kf.Mode, cfg.MaxTsDuration, cfg.MaxTsDistance)
			}
		} else {
			keyframesnap.SnapToKeyframes(opts.Events, opts.Chapters, kf.SrcKT, kf.DstKT, kf.SrcTC, kf.DstTC, float64(cfg.MaxKfDistance), kf.Mode, cfg.MaxTsDuration, cfg.MaxTsDistance)
		}
	}

	// Step 7: apply_shift on every event.
	for _, e := range opts.Events {
		e.ApplyShift()
	}
}

// averageShifts computes a weighted mean of member shifts (weight
// 1-diff), written back onto every independent member while each
// member's own diff is preserved.
func averageShifts(members []*event.Event) {
	if len(members) == 0 {
		return
	}

	var weightedSum, weightSum float64
	for _, e := range members {
		w := 1 - e.Diff()
		weightedSum += e.Shift() * w
		weightSum += w
	}

	var mean float64
	if weightSum > 0 {
		mean = weightedSum / weightSum
	} else {
		mean = members[0].Shift()
	}

	for _, e := range members {
		if e.IsLinked() {
			continue
		}
		e.SetShift(mean, e.Diff())
	}
}
