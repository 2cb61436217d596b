package chapters

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseXMLTimes(t *testing.T) {
	xml := `<Chapters><EditionEntry>
<ChapterAtom><ChapterTimeStart>0:00:17.017000000</ChapterTimeStart></ChapterAtom>
<ChapterAtom><ChapterTimeStart>0:01:47.023000000</ChapterTimeStart></ChapterAtom>
</EditionEntry></Chapters>`
	path := writeTemp(t, "chapters.xml", xml)

	times, err := ParseXML(path)
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{0, 17.017, 107.023}
	if len(times) != len(want) {
		t.Fatalf("got %v, want %v", times, want)
	}
	for i := range want {
		if diff := times[i] - want[i]; diff > 1e-6 || diff < -1e-6 {
			t.Errorf("times[%d] = %v, want %v", i, times[i], want[i])
		}
	}
}

func TestParseOGMTimes(t *testing.T) {
	ogm := "CHAPTER01=00:00:17.017\nCHAPTER01NAME=Intro\nCHAPTER02=00:01:47.023\nCHAPTER02NAME=Part2\n"
	path := writeTemp(t, "chapters.txt", ogm)

	times, err := ParseOGM(path)
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{0, 17.017, 107.023}
	if len(times) != len(want) {
		t.Fatalf("got %v, want %v", times, want)
	}
}

func TestDetectDispatchesByContent(t *testing.T) {
	xmlPath := writeTemp(t, "a.xml", `<Chapters><ChapterAtom><ChapterTimeStart>0:00:05.000000000</ChapterTimeStart></ChapterAtom></Chapters>`)
	if _, err := Detect(xmlPath); err != nil {
		t.Fatalf("Detect(xml): %v", err)
	}

	ogmPath := writeTemp(t, "a.txt", "CHAPTER01=00:00:05.000\n")
	if _, err := Detect(ogmPath); err != nil {
		t.Fatalf("Detect(ogm): %v", err)
	}
}

func TestParseTimesPrependsZero(t *testing.T) {
	ogm := "CHAPTER01=00:00:05.000\n"
	path := writeTemp(t, "b.txt", ogm)
	times, err := ParseOGM(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(times) != 2 || times[0] != 0 {
		t.Errorf("expected leading 0, got %v", times)
	}
}
