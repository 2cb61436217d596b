// Package logging wires the engine's diagnostic output to log/slog.
//
// The core never reaches into a process-wide logger on its own:
// callers (the CLI, tests) pass a *slog.Logger into the orchestrator;
// with a nil logger the engine logs nothing. Warnings are emitted as
// structured attributes rather than formatted text.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Init installs a text-handler logger writing to w (os.Stderr in
// production, a buffer in tests) at the given level and returns it. It
// does not call slog.SetDefault by itself; callers decide whether this
// logger should also become the process default.
func Init(w io.Writer, level slog.Level) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Error turns an arbitrary error (or nil) into a slog.Attr, matching the
// project's convention of logging wrapped causes with %+v so pkg/errors
// stack traces survive into the log line.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String("error", fmt.Sprintf("%+v", err))
}

// GroupRecord is a structured {start, end, shift, diff} diagnostic
// record. The sync command's --plot output builds one per event; the
// engine itself does not log these records.
type GroupRecord struct {
	Start float64
	End   float64
	Shift float64
	Diff  float64
}

func (g GroupRecord) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Float64("start", g.Start),
		slog.Float64("end", g.End),
		slog.Float64("shift", g.Shift),
		slog.Float64("diff", g.Diff),
	)
}
