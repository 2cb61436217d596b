// Package demux wraps ffmpeg as an external process to pull a single
// audio stream out of a container into a temporary WAV file.
package demux

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/tp7/sushi-go/internal/errorsx"
)

var ffmpegPath = "ffmpeg"

func init() {
	if p := os.Getenv("SUSHI_FFMPEG_PATH"); p != "" {
		ffmpegPath = p
	}
}

// AudioStreamInfo describes one audio stream ffmpeg reports inside a
// container.
type AudioStreamInfo struct {
	Index int
	Codec string
	Title string
}

var audioStreamRe = regexp.MustCompile(`Stream #0:(\d+).*?Audio: ([^,\n]+)`)
var streamTitleRe = regexp.MustCompile(`title\s*:\s*(.*)`)

// Probe runs `ffmpeg -i path` and parses its stderr banner for the
// audio streams the container carries. ffmpeg always exits non-zero
// for a bare -i probe, so a nonzero exit by itself is not an error.
func Probe(ctx context.Context, path string) ([]AudioStreamInfo, error) {
	cmd := exec.CommandContext(ctx, ffmpegPath, "-hide_banner", "-i", path)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	_ = cmd.Run()

	info := stderr.String()
	lines := strings.Split(info, "\n")

	var streams []AudioStreamInfo
	for i, line := range lines {
		m := audioStreamRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		idx, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		title := ""
		if i+1 < len(lines) {
			if tm := streamTitleRe.FindStringSubmatch(lines[i+1]); tm != nil {
				title = strings.TrimSpace(tm[1])
			}
		}
		streams = append(streams, AudioStreamInfo{
			Index: idx,
			Codec: strings.TrimSpace(m[2]),
			Title: title,
		})
	}
	return streams, nil
}

// SelectAudioStream resolves which stream to demux: an explicit index
// is used as-is, otherwise exactly one stream must be present.
func SelectAudioStream(streams []AudioStreamInfo, explicit int, title string) (AudioStreamInfo, error) {
	if explicit >= 0 {
		for _, s := range streams {
			if s.Index == explicit {
				return s, nil
			}
		}
		return AudioStreamInfo{}, errorsx.BadArgs(fmt.Sprintf("no audio stream with index %d in %s", explicit, title))
	}
	if len(streams) == 0 {
		return AudioStreamInfo{}, errorsx.NoStreams(title)
	}
	if len(streams) > 1 {
		candidates := make([]string, len(streams))
		for i, s := range streams {
			candidates[i] = fmt.Sprintf("%d:%s %q", s.Index, s.Codec, s.Title)
		}
		return AudioStreamInfo{}, errorsx.AmbiguousStream(title, candidates)
	}
	return streams[0], nil
}

// ExtractWAV demuxes the given audio stream from path into a new WAV
// file under tempDir, returning its path. The caller is responsible for
// removing it (or tempDir) once done.
func ExtractWAV(ctx context.Context, path string, streamIndex int, tempDir string) (string, error) {
	if err := os.MkdirAll(tempDir, 0o755); err != nil {
		return "", errorsx.Wrap(err, "creating temp dir")
	}

	outPath := filepath.Join(tempDir, fmt.Sprintf("sushi-audio-%d.wav", streamIndex))
	args := []string{
		"-hide_banner", "-y",
		"-i", path,
		"-map", fmt.Sprintf("0:%d", streamIndex),
		"-ac", "1",
		"-acodec", "pcm_s16le",
		outPath,
	}

	cmd := exec.CommandContext(ctx, ffmpegPath, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", errorsx.Wrap(err, fmt.Sprintf("ffmpeg demux failed: %s", stderr.String()))
	}
	return outPath, nil
}
