package keyframesnap

import (
	"math"
	"testing"

	"github.com/tp7/sushi-go/internal/event"
	"github.com/tp7/sushi-go/internal/timecode"
)

func TestSnapToKeyframesAligns(t *testing.T) {
	tc := timecode.NewCFR(25)
	frames := make([]int, 0, 200)
	for i := 0; i < 200; i++ {
		frames = append(frames, i)
	}
	srcKT := timecode.NewKeytimes(frames, tc)
	dstKT := timecode.NewKeytimes(frames, tc)

	var events []*event.Event
	for i := 0; i < 5; i++ {
		start := tc.GetFrameTime(i * 20)
		end := tc.GetFrameTime(i*20 + 10)
		e := event.New(start, end, "Default", "x")
		e.SetShift(0, 0.1)
		events = append(events, e)
	}

	SnapToKeyframes(events, nil, srcKT, dstKT, tc, tc, 2, ModeAll, 0.4, 0.5)

	for _, e := range events {
		startKF := timecode.GetDistanceToClosestKF(e.Start+e.Shift()+e.StartShift(), dstKT)
		if math.Abs(startKF) > tc.GetFrameSize(e.Start)*2.01 {
			t.Errorf("event start not within keyframe tolerance: dist=%v", startKF)
		}
	}
}
