package timecode

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/tp7/sushi-go/internal/errorsx"
)

// ParseFile reads a "# timecode format v1" or "# timecode format v2"
// file and returns the resulting Timecodes.
func ParseFile(path string, r io.Reader) (*Timecodes, error) {
	scanner := bufio.NewScanner(r)
	if !scanner.Scan() {
		return nil, errorsx.BadFormat(path, "empty timecode file")
	}
	header := strings.TrimSpace(scanner.Text())
	switch {
	case strings.Contains(header, "v1"):
		return parseV1(path, scanner)
	case strings.Contains(header, "v2"):
		return parseV2(path, scanner)
	default:
		return nil, errorsx.BadFormat(path, "unrecognized timecode header: "+header)
	}
}

func parseV1(path string, scanner *bufio.Scanner) (*Timecodes, error) {
	if !scanner.Scan() {
		return nil, errorsx.BadFormat(path, "v1 timecode file missing assume-fps line")
	}
	assumeLine := strings.TrimSpace(scanner.Text())
	fields := strings.SplitN(assumeLine, " ", 2)
	if len(fields) != 2 {
		return nil, errorsx.BadFormat(path, "malformed assume-fps line: "+assumeLine)
	}
	defaultFps, err := strconv.ParseFloat(strings.TrimSpace(fields[1]), 64)
	if err != nil {
		return nil, errorsx.BadFormat(path, "malformed assume fps value: "+fields[1])
	}

	var overrides []V1Override
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		parts := strings.Split(line, ",")
		if len(parts) != 3 {
			return nil, errorsx.BadFormat(path, "malformed v1 override line: "+line)
		}
		start, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
		end, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
		fps, err3 := strconv.ParseFloat(strings.TrimSpace(parts[2]), 64)
		if err1 != nil || err2 != nil || err3 != nil {
			return nil, errorsx.BadFormat(path, "malformed v1 override line: "+line)
		}
		overrides = append(overrides, V1Override{StartFrame: start, EndFrame: end, Fps: fps})
	}
	return NewV1(defaultFps, overrides), nil
}

func parseV2(path string, scanner *bufio.Scanner) (*Timecodes, error) {
	var times []float64
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		ms, err := strconv.ParseFloat(line, 64)
		if err != nil {
			return nil, errorsx.BadFormat(path, "malformed v2 timecode line: "+line)
		}
		times = append(times, ms/1000.0)
	}
	if len(times) == 0 {
		return nil, errorsx.BadFormat(path, "v2 timecode file has no entries")
	}
	return NewV2(times, 0), nil
}
