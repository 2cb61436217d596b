package script

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func TestParseASSTime(t *testing.T) {
	cases := map[string]float64{
		"0:00:17.01": 17.01,
		"0:01:47.02": 107.02,
		"1:00:00.00": 3600,
	}
	for in, want := range cases {
		got, err := parseASSTime(in)
		if err != nil {
			t.Fatalf("parseASSTime(%q): %v", in, err)
		}
		if !almostEqual(got, want) {
			t.Errorf("parseASSTime(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestFormatASSTimeRoundTrip(t *testing.T) {
	for _, secs := range []float64{0, 1.5, 17.01, 107.02, 3723.456} {
		formatted := formatASSTime(secs)
		parsed, err := parseASSTime(formatted)
		if err != nil {
			t.Fatalf("parseASSTime(%q): %v", formatted, err)
		}
		if math.Abs(parsed-secs) > 0.01 {
			t.Errorf("round-trip %v -> %q -> %v, off by more than a centisecond", secs, formatted, parsed)
		}
	}
}

func TestParseSRTTime(t *testing.T) {
	got, err := parseSRTTime("00:01:47,023")
	if err != nil {
		t.Fatal(err)
	}
	if !almostEqual(got, 107.023) {
		t.Errorf("got %v want 107.023", got)
	}
}

func TestFormatSRTTimeRoundTrip(t *testing.T) {
	formatted := formatSRTTime(107.023)
	got, err := parseSRTTime(formatted)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(got-107.023) > 0.001 {
		t.Errorf("round-trip mismatch: got %v", got)
	}
}

func TestDetectFormat(t *testing.T) {
	cases := map[string]Format{
		"a.ass": FormatASS,
		"a.ssa": FormatASS,
		"a.srt": FormatSRT,
	}
	for path, want := range cases {
		got, err := DetectFormat(path)
		if err != nil {
			t.Fatalf("DetectFormat(%q): %v", path, err)
		}
		if got != want {
			t.Errorf("DetectFormat(%q) = %v, want %v", path, got, want)
		}
	}
	if _, err := DetectFormat("a.txt"); err == nil {
		t.Error("expected error for unrecognized extension")
	}
}
