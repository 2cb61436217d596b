package audio

import (
	"math"

	"github.com/mjibson/go-dsp/fft"
)

// FindSubstream searches for pattern inside the stream within
// [center-halfWindow, center+halfWindow] (plus len(pattern), to let the
// pattern fully cover the right edge), scoring every candidate offset
// with normalized sum-of-squared-differences (SQDIFF_NORMED) and
// returning the best (lowest) score and its time.
//
// The cross-correlation term of the score is computed via FFT
// convolution (github.com/mjibson/go-dsp/fft) rather than a naive
// O(n*m) loop.
func (s *Stream) FindSubstream(pattern []float64, center, halfWindow float64) (diff float64, at float64) {
	m := len(pattern)
	if m == 0 || len(s.data) == 0 {
		return 1, center
	}

	regionStart := int(math.Round((center - halfWindow) * float64(s.sampleRate)))
	regionEnd := int(math.Round((center+halfWindow)*float64(s.sampleRate))) + m
	if regionStart < 0 {
		regionStart = 0
	}
	if regionEnd > len(s.data) {
		regionEnd = len(s.data)
	}
	if regionEnd-regionStart < m {
		return 1, center
	}
	search := s.data[regionStart:regionEnd]
	n := len(search)

	corr := fftCrossCorrelate(pattern, search)

	sumP2 := sumSquares(pattern)
	prefix := make([]float64, n+1)
	for i, v := range search {
		prefix[i+1] = prefix[i] + v*v
	}

	bestScore := math.Inf(1)
	bestOffset := 0
	candidates := n - m + 1
	for t := 0; t < candidates; t++ {
		sumS2 := prefix[t+m] - prefix[t]
		score := sqdiffNormed(sumP2, sumS2, corr[t])
		if score < bestScore {
			bestScore = score
			bestOffset = t
		}
	}

	if math.IsInf(bestScore, 1) {
		bestScore = 1
	}
	if bestScore < 0 {
		bestScore = 0
	}
	if bestScore > 1 {
		bestScore = 1
	}

	regionStartTime := float64(regionStart) / float64(s.sampleRate)
	at = regionStartTime + float64(bestOffset)/float64(s.sampleRate)
	return bestScore, at
}

func sqdiffNormed(sumP2, sumS2, cross float64) float64 {
	denom := math.Sqrt(sumP2 * sumS2)
	if denom == 0 {
		if sumP2 == 0 && sumS2 == 0 {
			return 0
		}
		return 1
	}
	return (sumP2 - 2*cross + sumS2) / denom
}

func sumSquares(xs []float64) float64 {
	var sum float64
	for _, v := range xs {
		sum += v * v
	}
	return sum
}

// fftCrossCorrelate returns, for every valid offset t in
// [0, len(search)-len(pattern)], sum_i pattern[i]*search[t+i], computed
// via one forward FFT pair and an inverse FFT rather than a nested loop.
func fftCrossCorrelate(pattern, search []float64) []float64 {
	m, n := len(pattern), len(search)
	convLen := n + m - 1

	a := make([]float64, convLen) // reversed, zero-padded pattern
	for i := 0; i < m; i++ {
		a[i] = pattern[m-1-i]
	}
	b := make([]float64, convLen)
	copy(b, search)

	fa := fft.FFTReal(a)
	fb := fft.FFTReal(b)
	prod := make([]complex128, convLen)
	for i := range prod {
		prod[i] = fa[i] * fb[i]
	}
	conv := fft.IFFT(prod)

	candidates := n - m + 1
	out := make([]float64, candidates)
	for t := 0; t < candidates; t++ {
		out[t] = real(conv[t+m-1])
	}
	return out
}
