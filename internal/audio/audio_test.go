package audio

import (
	"math"
	"testing"
)

func TestNormalizeClipsAndRescales(t *testing.T) {
	samples := []float64{-1, -0.5, -0.1, 0, 0.1, 0.5, 1, 50}
	out := normalize(samples)
	for _, v := range out {
		if v < 0 || v > 1 {
			t.Fatalf("value out of [0,1]: %v", v)
		}
	}
	if out[7] != out[6] && out[7] < out[6] {
		t.Errorf("clipped spike should not map below the largest in-band sample")
	}
}

func TestFindSubstreamExactSelfMatch(t *testing.T) {
	sampleRate := 1000
	data := make([]float64, sampleRate*5)
	for i := range data {
		data[i] = math.Sin(float64(i) / 17.0)
	}
	stream := newStream(data, sampleRate)
	pattern := stream.GetSubstream(2.0, 2.5).Samples()

	diff, at := stream.FindSubstream(pattern, 2.0, 1.0)
	if diff > 1e-6 {
		t.Errorf("expected near-zero diff for an exact self-match, got %v", diff)
	}
	if math.Abs(at-2.0) > 1.0/float64(sampleRate) {
		t.Errorf("expected match at ~2.0s, got %v", at)
	}
}

func TestFindSubstreamShiftedMatch(t *testing.T) {
	sampleRate := 1000
	data := make([]float64, sampleRate*5)
	for i := range data {
		data[i] = math.Sin(float64(i) / 13.0)
	}
	stream := newStream(data, sampleRate)
	pattern := stream.GetSubstream(1.0, 1.3).Samples()

	diff, at := stream.FindSubstream(pattern, 2.0, 1.5)
	if diff > 1e-6 {
		t.Errorf("expected near-zero diff, got %v", diff)
	}
	if math.Abs(at-1.0) > 1.0/float64(sampleRate) {
		t.Errorf("expected match at ~1.0s, got %v", at)
	}
}

func TestNearestNeighborResampleLength(t *testing.T) {
	block := make([]float64, 48000)
	out := nearestNeighborResample(block, 48000, 12000)
	if len(out) != 12000 {
		t.Errorf("got %d samples, want 12000", len(out))
	}
}
