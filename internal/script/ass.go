package script

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/tp7/sushi-go/internal/errorsx"
	"github.com/tp7/sushi-go/internal/event"
)

const assStylesFormat = "Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding"
const assEventsFormat = "Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text"

// ParseASS reads an ASS/SSA script, preserving every non-Events section
// verbatim (in original order) and parsing [Events] lines into Events.
func ParseASS(path string) (*Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errorsx.FileMissing(path, path)
	}
	defer f.Close()

	s := &Script{Format: FormatASS}
	var current *section
	inEvents := false
	sourceIndex := 0

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	first := true
	for scanner.Scan() {
		line := scanner.Text()
		if first {
			line = trimBOM(line)
			first = false
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		low := strings.ToLower(line)

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			name := strings.TrimSuffix(strings.TrimPrefix(line, "["), "]")
			if strings.EqualFold(name, "Events") {
				inEvents = true
				current = nil
			} else {
				inEvents = false
				current = &section{name: name}
				s.sections = append(s.sections, current)
			}
			continue
		}
		if strings.HasPrefix(low, "format:") {
			continue
		}
		if inEvents {
			e, err := parseASSEventLine(line, sourceIndex, path)
			if err != nil {
				return nil, err
			}
			s.Events = append(s.Events, e)
			sourceIndex++
			continue
		}
		if current == nil {
			return nil, errorsx.BadFormat(path, "content before any section header")
		}
		current.lines = append(current.lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, errorsx.Wrap(err, "reading "+path)
	}
	return s, nil
}

// parseASSEventLine splits an ASS "Dialogue:"/"Comment:" line into its
// event. The line's own verb distinguishes comment from dialogue;
// Event.Name is the ASS actor field, so the verb is kept in Event.Kind
// (with IsComment set for "Comment" lines) and written back as is.
func parseASSEventLine(line string, sourceIndex int, title string) (*event.Event, error) {
	kindSplit := strings.SplitN(line, ":", 2)
	if len(kindSplit) != 2 {
		return nil, errorsx.BadFormat(title, "malformed event line: "+line)
	}
	kind := strings.TrimSpace(kindSplit[0])
	fields := strings.SplitN(strings.TrimSpace(kindSplit[1]), ",", 10)
	if len(fields) != 10 {
		return nil, errorsx.BadFormat(title, "event line has wrong field count: "+line)
	}
	for i := range fields {
		if i != 9 {
			fields[i] = strings.TrimSpace(fields[i])
		}
	}

	layer, _ := strconv.Atoi(fields[0])
	start, err := parseASSTime(fields[1])
	if err != nil {
		return nil, errorsx.BadFormat(title, "bad start time: "+fields[1])
	}
	end, err := parseASSTime(fields[2])
	if err != nil {
		return nil, errorsx.BadFormat(title, "bad end time: "+fields[2])
	}
	marginL, _ := strconv.Atoi(fields[5])
	marginR, _ := strconv.Atoi(fields[6])
	marginV, _ := strconv.Atoi(fields[7])

	e := event.New(start, end, fields[3], fields[9])
	e.Layer = layer
	e.Name = fields[4]
	e.MarginL = marginL
	e.MarginR = marginR
	e.MarginV = marginV
	e.Effect = fields[8]
	e.IsComment = strings.EqualFold(kind, "Comment")
	e.SourceIndex = sourceIndex
	e.Kind = kind
	return e, nil
}

func parseASSTime(s string) (float64, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("expected H:MM:SS.cc, got %q", s)
	}
	h, err1 := strconv.ParseFloat(parts[0], 64)
	m, err2 := strconv.ParseFloat(parts[1], 64)
	sec, err3 := strconv.ParseFloat(parts[2], 64)
	if err1 != nil || err2 != nil || err3 != nil {
		return 0, fmt.Errorf("non-numeric time component in %q", s)
	}
	return h*3600 + m*60 + sec, nil
}

func formatASSTime(seconds float64) string {
	cs := int64(math.Round(seconds * 100))
	return fmt.Sprintf("%d:%02d:%02d.%02d",
		cs/360000,
		(cs/6000)%60,
		(cs/100)%60,
		cs%100,
	)
}

// Write serializes the script back to w, restoring authoring order for
// events regardless of any in-memory sort applied during matching.
func (s *Script) Write(w io.Writer) error {
	if s.Format != FormatASS {
		return writeSRT(w, s)
	}
	bw := bufio.NewWriter(w)

	for _, sec := range s.sections {
		if strings.EqualFold(sec.name, "V4+ Styles") {
			fmt.Fprintf(bw, "[%s]\n", sec.name)
			fmt.Fprintln(bw, assStylesFormat)
			for _, l := range sec.lines {
				fmt.Fprintln(bw, l)
			}
			fmt.Fprintln(bw)
			continue
		}
		fmt.Fprintf(bw, "[%s]\n", sec.name)
		for _, l := range sec.lines {
			fmt.Fprintln(bw, l)
		}
		fmt.Fprintln(bw)
	}

	if len(s.Events) > 0 {
		ordered := append([]*event.Event(nil), s.Events...)
		event.SortBySourceIndex(ordered)

		fmt.Fprintln(bw, "[Events]")
		fmt.Fprintln(bw, assEventsFormat)
		for _, e := range ordered {
			kind := e.Kind
			if kind == "" {
				kind = "Dialogue"
			}
			fmt.Fprintf(bw, "%s: %d,%s,%s,%s,%s,%d,%d,%d,%s,%s\n",
				kind, e.Layer, formatASSTime(e.Start), formatASSTime(e.End),
				e.Style, e.Name, e.MarginL, e.MarginR, e.MarginV, e.Effect, e.Text)
		}
	}
	return bw.Flush()
}
