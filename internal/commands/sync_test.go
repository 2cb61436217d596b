package commands

import "testing"

func resetSyncOpts() {
	syncOpts = struct {
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
	}{}
}

func TestRunSyncRequiresExactlyOneScriptArg(t *testing.T) {
	resetSyncOpts()
	if err := runSync(nil, nil); err == nil {
		t.Error("expected error for missing script argument")
	}
	if err := runSync(nil, []string{"a.ass", "b.ass"}); err == nil {
		t.Error("expected error for too many script arguments")
	}
}

func TestRunSyncRequiresAudioAndOutput(t *testing.T) {
	resetSyncOpts()
	if err := runSync(nil, []string{"a.ass"}); err == nil {
		t.Error("expected error for missing --src-audio/--dst-audio")
	}
	syncOpts.srcAudio = "src.wav"
	syncOpts.dstAudio = "dst.wav"
	if err := runSync(nil, []string{"a.ass"}); err == nil {
		t.Error("expected error for missing --output")
	}
}

func TestRunSyncRejectsMismatchedScriptExtensions(t *testing.T) {
	resetSyncOpts()
	syncOpts.srcAudio = "src.wav"
	syncOpts.dstAudio = "dst.wav"
	syncOpts.output = "out.srt"
	if err := runSync(nil, []string{"a.ass"}); err == nil {
		t.Error("expected error for mismatched script extensions")
	}
}

func TestRunSyncRejectsOneSidedKeyframes(t *testing.T) {
	resetSyncOpts()
	syncOpts.srcAudio = "src.wav"
	syncOpts.dstAudio = "dst.wav"
	syncOpts.output = "out.ass"
	syncOpts.srcKeyframes = "src.kf.txt"
	if err := runSync(nil, []string{"a.ass"}); err == nil {
		t.Error("expected error for one-sided keyframes")
	}
}
