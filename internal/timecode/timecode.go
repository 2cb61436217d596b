// Package timecode implements the CFR/VFR frame/time mapping: built
// once from an fps or a v1/v2 file, read-only thereafter. One tagged
// type dispatched by a mode flag, rather than an interface hierarchy,
// since the set of variants is small and closed.
package timecode

import (
	"sort"

	"github.com/tp7/sushi-go/internal/errorsx"
)

type mode int

const (
	modeCFR mode = iota
	modeV2
)

// Timecodes maps a frame number to its start time (seconds) and reports
// the local frame duration at an arbitrary timestamp.
type Timecodes struct {
	mode mode

	fps float64 // valid when mode == modeCFR

	times       []float64 // valid when mode == modeV2: ascending frame-start times
	defaultStep float64   // extrapolation step beyond len(times)
}

// NewCFR builds a constant-frame-rate timecode table.
func NewCFR(fps float64) *Timecodes {
	if fps <= 0 {
		errorsx.InternalInvariant("fps must be positive")
	}
	return &Timecodes{mode: modeCFR, fps: fps}
}

// NewV2 builds a variable-frame-rate table from explicit ascending
// frame-start times plus the duration used to extrapolate past the last
// recorded frame. If defaultStep is zero it is derived from the last two
// frames (or left zero for a single-frame table, which never
// extrapolates beyond frame 0).
func NewV2(times []float64, defaultStep float64) *Timecodes {
	if defaultStep == 0 && len(times) >= 2 {
		defaultStep = times[len(times)-1] - times[len(times)-2]
	}
	return &Timecodes{mode: modeV2, times: times, defaultStep: defaultStep}
}

// V1Override is one `start_frame,end_frame,fps` line of a v1 timecode file.
type V1Override struct {
	StartFrame int
	EndFrame   int
	Fps        float64
}

// NewV1 builds a v2 table from a default fps plus a set of per-range fps
// overrides, by constructing the per-frame fps table implied by the
// overrides and accumulating inverse-fps as per-frame durations.
func NewV1(defaultFps float64, overrides []V1Override) *Timecodes {
	numFrames := 0
	for _, o := range overrides {
		if o.EndFrame+1 > numFrames {
			numFrames = o.EndFrame + 1
		}
	}
	if numFrames == 0 {
		return NewV2(nil, 1/defaultFps)
	}

	fpsTable := make([]float64, numFrames)
	for i := range fpsTable {
		fpsTable[i] = defaultFps
	}
	for _, o := range overrides {
		for i := o.StartFrame; i <= o.EndFrame && i < numFrames; i++ {
			if i >= 0 {
				fpsTable[i] = o.Fps
			}
		}
	}

	times := make([]float64, numFrames)
	for i := 1; i < numFrames; i++ {
		times[i] = times[i-1] + 1/fpsTable[i-1]
	}
	return NewV2(times, 1/defaultFps)
}

// GetFrameTime returns the start time, in seconds, of frame n.
func (t *Timecodes) GetFrameTime(n int) float64 {
	if t.mode == modeCFR {
		return float64(n) / t.fps
	}
	if n < len(t.times) {
		return t.times[n]
	}
	if len(t.times) == 0 {
		return float64(n) * t.defaultStep
	}
	last := len(t.times) - 1
	return t.times[last] + float64(n-last)*t.defaultStep
}

// GetFrameSize returns the local frame duration at timestamp ts.
func (t *Timecodes) GetFrameSize(ts float64) float64 {
	if t.mode == modeCFR {
		return 1 / t.fps
	}
	n := len(t.times)
	if n == 0 {
		return t.defaultStep
	}
	if n == 1 {
		return t.defaultStep
	}
	idx := sort.Search(n, func(i int) bool { return t.times[i] >= ts })
	switch {
	case idx == 0:
		return t.times[1] - t.times[0]
	case idx >= n:
		return t.times[n-1] - t.times[n-2]
	case idx == n-1:
		return t.times[idx] - t.times[idx-1]
	default:
		return t.times[idx+1] - t.times[idx]
	}
}

// GetFrameNumber returns the index of the largest frame-start ≤ ts.
func (t *Timecodes) GetFrameNumber(ts float64) int {
	if t.mode == modeCFR {
		return int(ts * t.fps)
	}
	n := len(t.times)
	if n == 0 {
		if t.defaultStep == 0 {
			return 0
		}
		return int(ts / t.defaultStep)
	}
	idx := sort.Search(n, func(i int) bool { return t.times[i] > ts })
	if idx == 0 {
		return 0
	}
	if idx < n {
		return idx - 1
	}
	// ts falls past the last recorded frame: extrapolate.
	last := n - 1
	if t.defaultStep == 0 {
		return last
	}
	extra := int((ts - t.times[last]) / t.defaultStep)
	return last + extra
}
