// Package script parses and serializes the two subtitle text formats the
// engine round-trips: ASS/SSA and SRT.
package script

import (
	"path/filepath"
	"strings"

	"github.com/tp7/sushi-go/internal/errorsx"
	"github.com/tp7/sushi-go/internal/event"
)

// Format identifies which textual subtitle format a Script was parsed
// from (and will be serialized back to).
type Format int

const (
	FormatASS Format = iota
	FormatSRT
)

// DetectFormat chooses a format from a file extension, per the
// SPEC_FULL.md script-extension-auto-detection supplement.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ass", ".ssa":
		return FormatASS, nil
	case ".srt":
		return FormatSRT, nil
	default:
		return 0, errorsx.BadArgs("unrecognized script extension: " + path)
	}
}

// section is a non-Events ASS section ("Script Info", "V4+ Styles", or
// any other bracketed header), preserved verbatim in original order.
type section struct {
	name  string
	lines []string
}

// Script holds the parsed events plus whatever non-event structure needs
// to round-trip (ASS sections; SRT has none).
type Script struct {
	Format   Format
	Events   []*event.Event
	sections []*section // ASS only
}

// trimBOM strips a leading UTF-8 byte-order-mark.
func trimBOM(s string) string {
	return strings.TrimPrefix(s, "\xEF\xBB\xBF")
}
