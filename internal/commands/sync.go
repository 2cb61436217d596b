// Package commands wires the engine packages into gcli subcommands.
package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gookit/gcli/v2"

	"github.com/tp7/sushi-go/internal/appdirs"
	"github.com/tp7/sushi-go/internal/audio"
	"github.com/tp7/sushi-go/internal/cache"
	"github.com/tp7/sushi-go/internal/chapters"
	"github.com/tp7/sushi-go/internal/config"
	"github.com/tp7/sushi-go/internal/demux"
	"github.com/tp7/sushi-go/internal/errorsx"
	"github.com/tp7/sushi-go/internal/keyframefile"
	"github.com/tp7/sushi-go/internal/keyframesnap"
	"github.com/tp7/sushi-go/internal/logging"
	"github.com/tp7/sushi-go/internal/script"
	"github.com/tp7/sushi-go/internal/syncengine"
	"github.com/tp7/sushi-go/internal/timecode"
)

// GlobalOptions holds process-wide flags set once on the root app.
var GlobalOptions struct {
	DebugMode bool
}

// syncOpts holds every --flag the sync command accepts.
var syncOpts struct {
	srcAudio   string
	dstAudio   string
	output     string
	configFile string
	tempDir    string

	chaptersFile string
	noGrouping   bool

	srcKeyframes string
	dstKeyframes string
	kfMode       string
	srcFps       float64
	dstFps       float64
	srcTimecodes string
	dstTimecodes string

	srcAudioStream int
	dstAudioStream int

	plotFile string
}

// NewSyncCommand builds the "sync" subcommand: retime input_script
// against src/dst audio (or containers demux'd via ffmpeg) and write
// the result to --output.
func NewSyncCommand() *gcli.Command {
	cmd := &gcli.Command{
		Name:   "sync",
		UseFor: "Re-time a subtitle script against reference and target audio",
		Config: func(c *gcli.Command) {
			c.Flags.StrOpt(&syncOpts.srcAudio, "src-audio", "", "", "Source media or WAV with known-good timing")
			c.Flags.StrOpt(&syncOpts.dstAudio, "dst-audio", "", "", "Destination media or WAV to re-time onto")
			c.Flags.StrOpt(&syncOpts.output, "output", "o", "", "Output script path")
			c.Flags.StrOpt(&syncOpts.configFile, "config", "", "", "TOML config file overriding built-in defaults")
			c.Flags.StrOpt(&syncOpts.tempDir, "temp-dir", "", "", "Scratch directory for demuxed audio (default: system temp)")

			c.Flags.StrOpt(&syncOpts.chaptersFile, "chapters", "", "", "Source XML or OGM chapters file")
			c.Flags.BoolOpt(&syncOpts.noGrouping, "no-grouping", "", false, "Disable chapter/automatic grouping")

			c.Flags.StrOpt(&syncOpts.srcKeyframes, "src-keyframes", "", "", "Source SCXviD keyframes file")
			c.Flags.StrOpt(&syncOpts.dstKeyframes, "dst-keyframes", "", "", "Destination SCXviD keyframes file")
			c.Flags.StrOpt(&syncOpts.kfMode, "kf-mode", "", "all", "Keyframe correction mode: shift, snap, or all")
			c.Flags.StrOpt(&syncOpts.srcTimecodes, "src-timecodes", "", "", "Source timecodes v1/v2 file")
			c.Flags.StrOpt(&syncOpts.dstTimecodes, "dst-timecodes", "", "", "Destination timecodes v1/v2 file")
			c.Flags.Float64Opt(&syncOpts.srcFps, "src-fps", "", 0, "Source constant frame rate (alternative to --src-timecodes)")
			c.Flags.Float64Opt(&syncOpts.dstFps, "dst-fps", "", 0, "Destination constant frame rate (alternative to --dst-timecodes)")

			c.Flags.IntOpt(&syncOpts.srcAudioStream, "src-audio-stream", "", -1, "Explicit source audio stream index")
			c.Flags.IntOpt(&syncOpts.dstAudioStream, "dst-audio-stream", "", -1, "Explicit destination audio stream index")

			c.Flags.StrOpt(&syncOpts.plotFile, "plot", "", "", "Write per-event {start,end,shift,diff} records as CSV")
		},
		Func: runSync,
	}
	return cmd
}

func runSync(c *gcli.Command, args []string) error {
	if len(args) != 1 {
		return errorsx.BadArgs("expected exactly one input script argument")
	}
	inputScript := args[0]

	if syncOpts.srcAudio == "" || syncOpts.dstAudio == "" {
		return errorsx.BadArgs("--src-audio and --dst-audio are required")
	}
	if syncOpts.output == "" {
		return errorsx.BadArgs("--output is required")
	}
	srcExt := strings.ToLower(filepath.Ext(inputScript))
	dstExt := strings.ToLower(filepath.Ext(syncOpts.output))
	if srcExt != dstExt {
		return errorsx.BadArgs("source and destination script extensions don't match")
	}
	if (syncOpts.srcKeyframes == "") != (syncOpts.dstKeyframes == "") {
		return errorsx.BadArgs("keyframes must be given for both sides or neither")
	}

	level := slog.LevelInfo
	if GlobalOptions.DebugMode {
		level = slog.LevelDebug
	}
	logger := logging.Init(os.Stderr, level)

	configPath := syncOpts.configFile
	if configPath == "" {
		configPath = appdirs.ConfigFilePath()
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	ctx := context.Background()

	tempDir := syncOpts.tempDir
	if tempDir == "" {
		tempDir, err = os.MkdirTemp("", "sushi-demux-")
		if err != nil {
			return errorsx.Wrap(err, "creating temp dir")
		}
		defer os.RemoveAll(tempDir)
	}

	srcWav, err := resolveWAV(ctx, syncOpts.srcAudio, syncOpts.srcAudioStream, tempDir)
	if err != nil {
		return err
	}
	dstWav, err := resolveWAV(ctx, syncOpts.dstAudio, syncOpts.dstAudioStream, tempDir)
	if err != nil {
		return err
	}

	srcStream, err := loadStreamCached(srcWav, cfg)
	if err != nil {
		return err
	}
	dstStream, err := loadStreamCached(dstWav, cfg)
	if err != nil {
		return err
	}

	sc, err := parseScript(inputScript)
	if err != nil {
		return err
	}

	var chapterTimes []float64
	if syncOpts.chaptersFile != "" {
		chapterTimes, err = chapters.Detect(syncOpts.chaptersFile)
		if err != nil {
			return err
		}
	}

	var kf syncengine.Keyframes
	if syncOpts.srcKeyframes != "" {
		kf, err = buildKeyframes()
		if err != nil {
			return err
		}
	}

	syncengine.Run(syncengine.Options{
		Src:             srcStream,
		Dst:             dstStream,
		Events:          sc.Events,
		Chapters:        chapterTimes,
		GroupingEnabled: !syncOpts.noGrouping,
		Keyframes:       kf,
		Cfg:             cfg,
		Logger:          logger,
	})

	if syncOpts.plotFile != "" {
		if err := writePlot(syncOpts.plotFile, sc); err != nil {
			logger.Warn("failed to write plot file", logging.Error(err))
		}
	}

	outFile, err := os.Create(syncOpts.output)
	if err != nil {
		return errorsx.Wrap(err, fmt.Sprintf("creating output %s", syncOpts.output))
	}
	defer outFile.Close()
	if err := sc.Write(outFile); err != nil {
		return errorsx.Wrap(err, "writing output script")
	}

	logger.Info("sync complete", slog.String("output", syncOpts.output))
	return nil
}

// resolveWAV returns a WAV path usable by internal/audio: the file
// itself when it's already a .wav, or a freshly demuxed temporary
// otherwise.
func resolveWAV(ctx context.Context, path string, explicitStream int, tempDir string) (string, error) {
	if strings.ToLower(filepath.Ext(path)) == ".wav" {
		return path, nil
	}
	streams, err := demux.Probe(ctx, path)
	if err != nil {
		return "", err
	}
	stream, err := demux.SelectAudioStream(streams, explicitStream, path)
	if err != nil {
		return "", err
	}
	return demux.ExtractWAV(ctx, path, stream.Index, tempDir)
}

// loadStreamCached decodes and normalizes wavPath, consulting
// internal/cache first so re-running sync over an unchanged source
// skips the WAV decode. A cache miss or read error is never fatal -
// this is purely an optimization.
func loadStreamCached(wavPath string, cfg *config.Config) (*audio.Stream, error) {
	if !cfg.CacheEnabled {
		return audio.LoadWAV(wavPath, cfg.SampleRate, wavPath)
	}

	c, err := cache.Open(appdirs.CacheDBPath())
	if err != nil {
		return audio.LoadWAV(wavPath, cfg.SampleRate, wavPath)
	}
	defer c.Close()

	key, err := cache.KeyFromFile(wavPath, cfg.SampleRate)
	if err == nil {
		if entry, found, loadErr := c.Load(key); loadErr == nil && found {
			return audio.FromNormalizedSamples(entry.Samples, entry.SampleRate), nil
		}
	}

	stream, err := audio.LoadWAV(wavPath, cfg.SampleRate, wavPath)
	if err != nil {
		return nil, err
	}
	if key, keyErr := cache.KeyFromFile(wavPath, cfg.SampleRate); keyErr == nil {
		_ = c.Store(key, cache.Entry{SampleRate: stream.SampleRate(), Samples: stream.RawSamples()})
	}
	return stream, nil
}

func parseScript(path string) (*script.Script, error) {
	format, err := script.DetectFormat(path)
	if err != nil {
		return nil, err
	}
	if format == script.FormatASS {
		return script.ParseASS(path)
	}
	return script.ParseSRT(path)
}

func buildKeyframes() (syncengine.Keyframes, error) {
	var mode keyframesnap.Mode
	switch syncOpts.kfMode {
	case "shift":
		mode = keyframesnap.ModeShift
	case "snap":
		mode = keyframesnap.ModeSnap
	case "all":
		mode = keyframesnap.ModeAll
	default:
		return syncengine.Keyframes{}, errorsx.BadArgs("kf-mode must be shift, snap, or all")
	}

	srcTC, err := loadTimecodes(syncOpts.srcTimecodes, syncOpts.srcFps)
	if err != nil {
		return syncengine.Keyframes{}, err
	}
	dstTC, err := loadTimecodes(syncOpts.dstTimecodes, syncOpts.dstFps)
	if err != nil {
		return syncengine.Keyframes{}, err
	}

	srcFrames, err := keyframefile.Parse(syncOpts.srcKeyframes)
	if err != nil {
		return syncengine.Keyframes{}, err
	}
	dstFrames, err := keyframefile.Parse(syncOpts.dstKeyframes)
	if err != nil {
		return syncengine.Keyframes{}, err
	}

	return syncengine.Keyframes{
		Present: true,
		SrcKT:   timecode.NewKeytimes(srcFrames, srcTC),
		DstKT:   timecode.NewKeytimes(dstFrames, dstTC),
		SrcTC:   srcTC,
		DstTC:   dstTC,
		Mode:    mode,
	}, nil
}

func loadTimecodes(path string, fps float64) (*timecode.Timecodes, error) {
	if path != "" && fps != 0 {
		return nil, errorsx.BadArgs("can't give both an fps and a timecodes file")
	}
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, errorsx.FileMissing(path, path)
		}
		defer f.Close()
		return timecode.ParseFile(path, f)
	}
	if fps == 0 {
		return nil, errorsx.BadArgs("need either a timecodes file or an fps for keyframe snapping")
	}
	return timecode.NewCFR(fps), nil
}

func writePlot(path string, sc *script.Script) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	fmt.Fprintln(f, "start,end,shift,diff")
	for _, e := range sc.Events {
		rec := logging.GroupRecord{Start: e.Start, End: e.End, Shift: e.Shift(), Diff: e.Diff()}
		fmt.Fprintf(f, "%f,%f,%f,%f\n", rec.Start, rec.End, rec.Shift, rec.Diff)
	}
	return nil
}
