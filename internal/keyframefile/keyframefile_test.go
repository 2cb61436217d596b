package keyframefile

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseExtractsKeyframesAndInsertsZero(t *testing.T) {
	stats := "# XviD 2pass stat file\n" +
		"version\n" +
		"something\n" +
		"i 0 0 0\n" +
		"p 0 0 0\n" +
		"p 0 0 0\n" +
		"i 0 0 0\n"
	path := filepath.Join(t.TempDir(), "stats.txt")
	if err := os.WriteFile(path, []byte(stats), 0o644); err != nil {
		t.Fatal(err)
	}

	frames, err := Parse(path)
	if err != nil {
		t.Fatal(err)
	}
	want := []int{0, 3}
	if len(frames) != len(want) {
		t.Fatalf("got %v want %v", frames, want)
	}
	for i := range want {
		if frames[i] != want[i] {
			t.Errorf("frames[%d] = %v, want %v", i, frames[i], want[i])
		}
	}
}

func TestParseRejectsUnsupportedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.txt")
	if err := os.WriteFile(path, []byte("not a stats file\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Parse(path); err == nil {
		t.Error("expected error for unsupported keyframes file")
	}
}
