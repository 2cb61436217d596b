// Package keyframesnap implements keyframe-based shift correction:
// whole-group boundary correction toward the nearest keyframe and, for
// single-event groups, individual per-boundary snapping.
package keyframesnap

import (
	"github.com/tp7/sushi-go/internal/event"
	"github.com/tp7/sushi-go/internal/shiftengine"
	"github.com/tp7/sushi-go/internal/smoothing"
	"github.com/tp7/sushi-go/internal/timecode"
)

// Mode selects which correction passes run.
type Mode int

const (
	ModeShift Mode = iota
	ModeSnap
	ModeAll
)

func absDiff(a, b float64) float64 {
	if a > b {
		return a - b
	}
	return b - a
}

// boundaryCloseEnough is the threshold below which a snap-mode boundary
// adjustment is considered negligible and skipped.
const boundaryCloseEnough = 0.01

// inconsistentAdjustThresh is the 0.001s threshold above which a group's
// start/end whole-group adjustments are considered inconsistent.
const inconsistentAdjustThresh = 0.001

// SnapToKeyframes re-groups events with merge_short_lines_into_groups,
// then applies the requested correction passes.
func SnapToKeyframes(events []*event.Event, chapters []float64, srcKT, dstKT timecode.Keytimes, srcTC, dstTC *timecode.Timecodes, maxKfDistance float64, mode Mode, maxTsDuration, maxTsDistance float64) {
	independent := event.NonLinked(events)
	if len(independent) == 0 {
		return
	}
	groups := shiftengine.MergeShortLines(independent, chapters, maxTsDuration, maxTsDistance)
	if len(groups) == 0 {
		return
	}

	if mode == ModeShift || mode == ModeAll {
		applyGroupShiftCorrection(groups, srcKT, dstKT, srcTC, dstTC, maxKfDistance)
	}
	if mode == ModeSnap || mode == ModeAll {
		applyBoundarySnap(groups, srcKT, dstKT, srcTC, dstTC, maxKfDistance)
	}
}

// findKeyframeShift implements find_keyframe_shift for one boundary: the
// distance to the nearest src keyframe and to the nearest dst keyframe
// (measured at the shifted boundary) must both be within
// maxKfDistance*local-frame-size, and so must their difference, or the
// boundary contributes no adjustment.
func findKeyframeShift(boundary, shift float64, srcKT, dstKT timecode.Keytimes, srcTC, dstTC *timecode.Timecodes, maxKfDistance float64) smoothing.Optional {
	srcDist := timecode.GetDistanceToClosestKF(boundary, srcKT)
	if absDiff(srcDist, 0) > maxKfDistance*srcTC.GetFrameSize(boundary) {
		return smoothing.Optional{}
	}
	shiftedBoundary := boundary + shift
	dstDist := timecode.GetDistanceToClosestKF(shiftedBoundary, dstKT)
	dstFrame := dstTC.GetFrameSize(shiftedBoundary)
	if absDiff(dstDist, 0) > maxKfDistance*dstFrame {
		return smoothing.Optional{}
	}
	adjust := dstDist - srcDist
	if absDiff(adjust, 0) > maxKfDistance*dstFrame {
		return smoothing.Optional{}
	}
	return smoothing.Some(adjust)
}

// applyGroupShiftCorrection applies mode shift/all: a whole-group
// boundary correction, interpolated across missing groups.
func applyGroupShiftCorrection(groups []*shiftengine.Group, srcKT, dstKT timecode.Keytimes, srcTC, dstTC *timecode.Timecodes, maxKfDistance float64) {
	n := len(groups)
	startOpt := make([]smoothing.Optional, n)
	endOpt := make([]smoothing.Optional, n)
	startXs := make([]float64, n)
	endXs := make([]float64, n)

	for i, g := range groups {
		shift := g.Members[0].Shift()
		startOpt[i] = findKeyframeShift(g.Start(), shift, srcKT, dstKT, srcTC, dstTC, maxKfDistance)
		endOpt[i] = findKeyframeShift(g.End(), shift, srcKT, dstKT, srcTC, dstTC, maxKfDistance)
		startXs[i] = g.Start()
		endXs[i] = g.End()
	}

	startAdj := smoothing.InterpolateNones(startOpt, startXs)
	endAdj := smoothing.InterpolateNones(endOpt, endXs)
	if len(startAdj) == 0 || len(endAdj) == 0 {
		return
	}

	for i, g := range groups {
		sa, ea := startAdj[i], endAdj[i]
		if len(g.Members) < 2 {
			avg := (sa + ea) / 2
			g.Members[0].AdjustAdditionalShifts(avg, avg)
			continue
		}
		if absDiff(sa, ea) > inconsistentAdjustThresh {
			mean := (sa + ea) / 2
			if absDiff(sa-mean, 0) <= absDiff(ea-mean, 0) {
				ea = sa
			} else {
				sa = ea
			}
		}
		for _, m := range g.Members {
			m.AdjustAdditionalShifts(sa, ea)
		}
	}
}

// findKeyframesDistances implements find_keyframes_distances for snap
// mode: the kept distance is dst-distance minus src-distance only when
// both distances and their difference stay within the allowed band,
// otherwise 0 (no adjustment, not a propagated neighbor value).
func findKeyframesDistances(startT, endT, shift float64, srcKT, dstKT timecode.Keytimes, srcTC, dstTC *timecode.Timecodes, maxKfDistance float64) (startDist, endDist float64) {
	compute := func(t float64) float64 {
		srcDist := timecode.GetDistanceToClosestKF(t, srcKT)
		shiftedT := t + shift
		dstDist := timecode.GetDistanceToClosestKF(shiftedT, dstKT)
		diff := dstDist - srcDist
		limit := maxKfDistance * dstTC.GetFrameSize(shiftedT)
		if absDiff(srcDist, 0) > limit || absDiff(dstDist, 0) > limit || absDiff(diff, 0) > limit {
			return 0
		}
		return diff
	}
	return compute(startT), compute(endT)
}

// applyBoundarySnap applies mode snap/all: individual boundary
// correction, skipped for multi-member groups.
func applyBoundarySnap(groups []*shiftengine.Group, srcKT, dstKT timecode.Keytimes, srcTC, dstTC *timecode.Timecodes, maxKfDistance float64) {
	for _, g := range groups {
		if len(g.Members) > 1 {
			continue
		}
		e := g.Members[0]
		startDist, endDist := findKeyframesDistances(e.Start, e.End, e.Shift(), srcKT, dstKT, srcTC, dstTC, maxKfDistance)
		if absDiff(startDist, 0) > boundaryCloseEnough || absDiff(endDist, 0) > boundaryCloseEnough {
			e.AdjustAdditionalShifts(startDist, endDist)
		}
	}
}
