package timecode

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestCFR(t *testing.T) {
	for _, fps := range []float64{23.976, 24, 25, 29.97, 60} {
		tc := NewCFR(fps)
		for n := 0; n < 1000; n += 37 {
			if got := tc.GetFrameTime(n); !almostEqual(got, float64(n)/fps) {
				t.Errorf("fps=%v n=%d: got %v want %v", fps, n, got, float64(n)/fps)
			}
		}
		if got := tc.GetFrameSize(1.23); !almostEqual(got, 1/fps) {
			t.Errorf("fps=%v: frame size got %v want %v", fps, got, 1/fps)
		}
	}
}

func TestV2ExactTable(t *testing.T) {
	table := []float64{0, 0.04, 0.09, 0.15}
	tc := NewV2(table, 0.05)
	for n, want := range table {
		if got := tc.GetFrameTime(n); got != want {
			t.Errorf("n=%d: got %v want %v", n, got, want)
		}
	}
	// extrapolation beyond the table uses the default step.
	if got := tc.GetFrameTime(4); !almostEqual(got, 0.20) {
		t.Errorf("extrapolated frame 4: got %v want 0.20", got)
	}
}

func TestV1ToV2(t *testing.T) {
	tc := NewV1(25, []V1Override{{StartFrame: 10, EndFrame: 19, Fps: 50}})
	for n := 0; n < 10; n++ {
		want := float64(n) / 25
		if got := tc.GetFrameTime(n); !almostEqual(got, want) {
			t.Errorf("n=%d: got %v want %v", n, got, want)
		}
	}
	base := tc.GetFrameTime(10)
	if !almostEqual(base, 10.0/25) {
		t.Errorf("frame 10 start: got %v want %v", base, 10.0/25)
	}
	if got := tc.GetFrameTime(11); !almostEqual(got, base+1.0/50) {
		t.Errorf("frame 11 start: got %v want %v", got, base+1.0/50)
	}
}

func TestGetDistanceToClosestKF(t *testing.T) {
	kt := make(Keytimes, 11)
	for i := range kt {
		kt[i] = float64(i * 10)
	}
	cases := []struct {
		t    float64
		want float64
	}{
		{36, 4},
		{63, -3},
		{105, -5},
		{0, 0},
	}
	for _, c := range cases {
		if got := GetDistanceToClosestKF(c.t, kt); !almostEqual(got, c.want) {
			t.Errorf("t=%v: got %v want %v", c.t, got, c.want)
		}
	}
}
