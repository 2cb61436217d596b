package shiftengine

import (
	"math"
	"testing"

	"github.com/tp7/sushi-go/internal/audio"
	"github.com/tp7/sushi-go/internal/event"
)

func sineStream(sampleRate int, seconds float64) *audio.Stream {
	n := int(float64(sampleRate) * seconds)
	data := make([]float64, n)
	for i := range data {
		data[i] = math.Sin(float64(i) / 19.0)
	}
	return audio.FromNormalizedSamples(data, sampleRate)
}

func TestCalculateShiftsFindsConstantOffset(t *testing.T) {
	sampleRate := 1000
	src := sineStream(sampleRate, 10.0)

	// dst is src delayed by 0.5s: dst[t] == src[t-0.5].
	delay := 0.5
	dstData := make([]float64, sampleRate*11)
	srcSamples := src.RawSamples()
	offset := int(delay * float64(sampleRate))
	for i := range dstData {
		si := i - offset
		if si >= 0 && si < len(srcSamples) {
			dstData[i] = srcSamples[si]
		}
	}
	dst := audio.FromNormalizedSamples(dstData, sampleRate)

	a := event.New(1.0, 2.0, "Default", "a")
	b := event.New(3.0, 4.0, "Default", "b")
	groups := PrepareSearchGroups([]*event.Event{a, b}, src.Duration(), nil, 0.4, 0.5)

	CalculateShifts(src, dst, groups, 5, 30, 3, 0.01, nil)

	if math.Abs(a.Shift()-delay) > 0.05 {
		t.Errorf("expected shift ~%v, got %v", delay, a.Shift())
	}
	if math.Abs(b.Shift()-delay) > 0.05 {
		t.Errorf("expected shift ~%v, got %v", delay, b.Shift())
	}
}
