package cache

import (
	"os"
	"path/filepath"
	"testing"
)

func TestStoreAndLoadRoundTrip(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "audio.db")
	c, err := Open(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	srcPath := filepath.Join(t.TempDir(), "a.wav")
	if err := os.WriteFile(srcPath, []byte("fake"), 0o644); err != nil {
		t.Fatal(err)
	}
	key, err := KeyFromFile(srcPath, 12000)
	if err != nil {
		t.Fatal(err)
	}

	entry := Entry{SampleRate: 12000, Samples: []float64{0, 0.5, -0.5, 1}}
	if err := c.Store(key, entry); err != nil {
		t.Fatal(err)
	}

	got, found, err := c.Load(key)
	if err != nil {
		t.Fatal(err)
	}
	if !found {
		t.Fatal("expected cache hit")
	}
	if got.SampleRate != entry.SampleRate || len(got.Samples) != len(entry.Samples) {
		t.Errorf("got %+v, want %+v", got, entry)
	}
}

func TestLoadMissReturnsFalse(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "audio.db")
	c, err := Open(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	_, found, err := c.Load(Key{Path: "nope"})
	if err != nil {
		t.Fatal(err)
	}
	if found {
		t.Error("expected no cache hit")
	}
}
