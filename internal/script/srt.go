package script

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/tp7/sushi-go/internal/errorsx"
	"github.com/tp7/sushi-go/internal/event"
)

// ParseSRT reads an SRT script: blank-line-separated blocks of an index
// line, an "HH:MM:SS,mmm --> HH:MM:SS,mmm" line, then free-form text.
func ParseSRT(path string) (*Script, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errorsx.FileMissing(path, path)
	}
	text := trimBOM(string(raw))
	text = strings.ReplaceAll(text, "\r\n", "\n")
	blocks := strings.Split(text, "\n\n")

	s := &Script{Format: FormatSRT}
	sourceIndex := 0
	for _, block := range blocks {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		e, err := parseSRTBlock(block, sourceIndex, path)
		if err != nil {
			return nil, err
		}
		s.Events = append(s.Events, e)
		sourceIndex++
	}
	return s, nil
}

func parseSRTBlock(block string, sourceIndex int, title string) (*event.Event, error) {
	lines := strings.SplitN(block, "\n", 3)
	if len(lines) < 2 {
		return nil, errorsx.BadFormat(title, "malformed SRT block: "+block)
	}
	times := strings.SplitN(lines[1], "-->", 2)
	if len(times) != 2 {
		return nil, errorsx.BadFormat(title, "malformed SRT time line: "+lines[1])
	}
	start, err := parseSRTTime(strings.TrimSpace(times[0]))
	if err != nil {
		return nil, errorsx.BadFormat(title, "bad SRT start time: "+times[0])
	}
	end, err := parseSRTTime(strings.TrimSpace(times[1]))
	if err != nil {
		return nil, errorsx.BadFormat(title, "bad SRT end time: "+times[1])
	}
	text := ""
	if len(lines) == 3 {
		text = lines[2]
	}

	e := event.New(start, end, "", text)
	e.SourceIndex = sourceIndex
	return e, nil
}

func parseSRTTime(s string) (float64, error) {
	return parseASSTime(strings.Replace(s, ",", ".", 1))
}

func formatSRTTime(seconds float64) string {
	ms := int64(math.Round(seconds * 1000))
	return fmt.Sprintf("%02d:%02d:%02d,%03d",
		ms/3600000,
		(ms/60000)%60,
		(ms/1000)%60,
		ms%1000,
	)
}

func writeSRT(w io.Writer, s *Script) error {
	bw := bufio.NewWriter(w)
	ordered := append([]*event.Event(nil), s.Events...)
	event.SortBySourceIndex(ordered)

	for i, e := range ordered {
		if i > 0 {
			fmt.Fprintln(bw)
		}
		fmt.Fprintf(bw, "%d\n%s --> %s\n%s\n", i+1,
			formatSRTTime(e.Start), formatSRTTime(e.End), e.Text)
	}
	return bw.Flush()
}
