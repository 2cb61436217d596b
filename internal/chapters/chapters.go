// Package chapters parses matroska-style XML and OGM text chapter files
// into ascending chapter start times.
package chapters

import (
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/tp7/sushi-go/internal/errorsx"
)

var (
	xmlTimeRe = regexp.MustCompile(`<ChapterTimeStart>(\d+):(\d+):(\d+(?:\.\d+)?)</ChapterTimeStart>`)
	ogmTimeRe = regexp.MustCompile(`(?i)CHAPTER\d+=(\d+):(\d+):(\d+(?:\.\d+)?)`)
)

// ParseXML reads matroska-style <ChapterTimeStart>H:MM:SS.nnnnnnnnn</ChapterTimeStart>
// entries.
func ParseXML(path string) ([]float64, error) {
	text, err := readAll(path)
	if err != nil {
		return nil, err
	}
	return parseTimes(xmlTimeRe.FindAllStringSubmatch(text, -1), path)
}

// ParseOGM reads OGM text "CHAPTERnn=H:MM:SS.mmm" lines.
func ParseOGM(path string) ([]float64, error) {
	text, err := readAll(path)
	if err != nil {
		return nil, err
	}
	return parseTimes(ogmTimeRe.FindAllStringSubmatch(text, -1), path)
}

func readAll(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", errorsx.FileMissing(path, path)
	}
	return string(raw), nil
}

func parseTimes(matches [][]string, title string) ([]float64, error) {
	times := make([]float64, 0, len(matches))
	for _, m := range matches {
		h, err1 := strconv.ParseFloat(m[1], 64)
		mnt, err2 := strconv.ParseFloat(m[2], 64)
		s, err3 := strconv.ParseFloat(m[3], 64)
		if err1 != nil || err2 != nil || err3 != nil {
			return nil, errorsx.BadFormat(title, "malformed chapter timestamp")
		}
		times = append(times, h*3600+mnt*60+s)
	}
	sort.Float64s(times)
	if len(times) == 0 || times[0] != 0 {
		times = append([]float64{0}, times...)
	}
	return times, nil
}

// Detect picks ParseXML or ParseOGM by looking for an opening XML tag.
func Detect(path string) ([]float64, error) {
	text, err := readAll(path)
	if err != nil {
		return nil, err
	}
	if strings.Contains(text, "<Chapters>") || strings.Contains(text, "<ChapterAtom>") {
		return parseTimes(xmlTimeRe.FindAllStringSubmatch(text, -1), path)
	}
	return parseTimes(ogmTimeRe.FindAllStringSubmatch(text, -1), path)
}
