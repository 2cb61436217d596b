package timecode

import "sort"

// Keytimes is an ordered ascending sequence of keyframe wall-clock
// times, derived once from keyframe frame numbers through a Timecodes
// table and never mutated afterward.
type Keytimes []float64

// NewKeytimes maps ascending keyframe numbers through tc into seconds.
func NewKeytimes(frameNumbers []int, tc *Timecodes) Keytimes {
	kt := make(Keytimes, len(frameNumbers))
	for i, n := range frameNumbers {
		kt[i] = tc.GetFrameTime(n)
	}
	return kt
}

// GetDistanceToClosestKF returns kf - t for whichever keyframe in kt is
// nearest to t, clamping at both ends of the array.
func GetDistanceToClosestKF(t float64, kt Keytimes) float64 {
	if len(kt) == 0 {
		return 0
	}
	idx := sort.Search(len(kt), func(i int) bool { return kt[i] >= t })
	switch {
	case idx == 0:
		return kt[0] - t
	case idx >= len(kt):
		return kt[len(kt)-1] - t
	default:
		before := kt[idx-1]
		after := kt[idx]
		if (t - before) <= (after - t) {
			return before - t
		}
		return after - t
	}
}
