package audio

import "math"

// Stream is an immutable, normalized, downsampled mono audio signal.
type Stream struct {
	sampleRate int
	data       []float64 // normalized to [0, 1]
}

func newStream(mono []float64, sampleRate int) *Stream {
	normalized := normalize(mono)
	return &Stream{sampleRate: sampleRate, data: normalized}
}

// FromNormalizedSamples wraps an already-normalized sample buffer
// (e.g. one round-tripped through internal/cache) without re-applying
// the median clip/rescale step LoadWAV performs on raw PCM.
func FromNormalizedSamples(samples []float64, sampleRate int) *Stream {
	return &Stream{sampleRate: sampleRate, data: samples}
}

// RawSamples exposes the normalized sample buffer for serialization
// (e.g. into internal/cache); callers must not mutate it.
func (s *Stream) RawSamples() []float64 { return s.data }

// normalize clips to 3x the median of the positive/negative samples
// (rejecting transient spikes), then rescales the result to [0, 1].
func normalize(samples []float64) []float64 {
	var positives, negatives []float64
	for _, v := range samples {
		if v > 0 {
			positives = append(positives, v)
		} else if v < 0 {
			negatives = append(negatives, -v)
		}
	}
	maxValue := 3 * medianOf(positives)
	minValue := -3 * medianOf(negatives)
	if maxValue <= minValue {
		maxValue = minValue + 1
	}

	out := make([]float64, len(samples))
	span := maxValue - minValue
	for i, v := range samples {
		if v > maxValue {
			v = maxValue
		} else if v < minValue {
			v = minValue
		}
		out[i] = (v - minValue) / span
	}
	return out
}

// SampleRate returns the stream's sample rate in Hz.
func (s *Stream) SampleRate() int { return s.sampleRate }

// SampleCount returns the number of samples in the stream.
func (s *Stream) SampleCount() int { return len(s.data) }

// Duration returns the stream's length in seconds.
func (s *Stream) Duration() float64 { return float64(len(s.data)) / float64(s.sampleRate) }

// Substream is a read-only view over a contiguous range of a Stream.
type Substream struct {
	stream     *Stream
	start, end int // sample indices, [start, end)
}

// GetSubstream returns a view over [start, end) seconds, clipped to the
// stream's bounds.
func (s *Stream) GetSubstream(start, end float64) Substream {
	si := int(math.Round(start * float64(s.sampleRate)))
	ei := int(math.Round(end * float64(s.sampleRate)))
	if si < 0 {
		si = 0
	}
	if ei > len(s.data) {
		ei = len(s.data)
	}
	if ei < si {
		ei = si
	}
	return Substream{stream: s, start: si, end: ei}
}

// Len returns the number of samples in the view.
func (v Substream) Len() int { return v.end - v.start }

// Samples returns the view's samples without copying; the slice shares
// the stream's buffer and must not be modified.
func (v Substream) Samples() []float64 {
	return v.stream.data[v.start:v.end]
}
