// Package keyframefile parses SCXviD stats text into keyframe numbers.
package keyframefile

import (
	"os"
	"strings"

	"github.com/tp7/sushi-go/internal/errorsx"
)

// Parse reads SCXviD stats text: any line whose first character is 'i'
// marks a keyframe at line-index - 3 (the header is 3 lines). 0 is
// always present in the returned sequence.
func Parse(path string) ([]int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errorsx.FileMissing(path, path)
	}
	text := string(raw)
	if !strings.Contains(text, "XviD") {
		return nil, errorsx.BadFormat(path, "unsupported keyframes file type")
	}

	var frames []int
	hasZero := false
	for i, line := range strings.Split(text, "\n") {
		if line == "" {
			continue
		}
		if line[0] == 'i' {
			n := i - 3
			frames = append(frames, n)
			if n == 0 {
				hasZero = true
			}
		}
	}
	if !hasZero {
		frames = append([]int{0}, frames...)
	}
	return frames, nil
}
