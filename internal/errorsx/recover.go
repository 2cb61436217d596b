package errorsx

import (
	"log/slog"
	"runtime/debug"
)

// Recover is meant to be deferred at the top of main. It logs a caught
// panic with its stack trace and, unless ignore is set, re-panics so the
// process still exits non-zero.
func Recover(ignore bool) (hasCaught bool) {
	if r := recover(); r != nil {
		slog.Error("caught panic", slog.Any("error", r), slog.String("stack", string(debug.Stack())))
		if ignore {
			return true
		}
		panic(r)
	}
	return false
}
