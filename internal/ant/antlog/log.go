// Package antlog provides a minimal leveled logger for the evaluator.
//
// There is no per-invocation configuration object threaded through the
// CEK driver and memo trie (that would mean passing a logger through every
// step function the code generator emits), so logging is package-level
// state set once at process start, mirroring how cc-backend's pkg/log
// does it.
package antlog

import (
	"fmt"
	"io"
	"log"
	"os"
)

var (
	DebugWriter io.Writer = os.Stderr
	WarnWriter  io.Writer = os.Stderr
	ErrWriter   io.Writer = os.Stderr
)

var (
	DebugPrefix = "<7>[DEBUG] "
	WarnPrefix  = "<4>[WARN]  "
	ErrPrefix   = "<3>[ERROR] "
)

var (
	debugLog = log.New(DebugWriter, DebugPrefix, 0)
	warnLog  = log.New(WarnWriter, WarnPrefix, log.Lshortfile)
	errLog   = log.New(ErrWriter, ErrPrefix, log.Llongfile)
)

// SetLevel discards everything below the named level: "debug", "warn", or
// "error".
func SetLevel(level string) {
	switch level {
	case "error":
		WarnWriter = io.Discard
		fallthrough
	case "warn":
		DebugWriter = io.Discard
	case "debug":
		// nothing discarded
	default:
		DebugWriter = io.Discard
	}
	debugLog = log.New(DebugWriter, DebugPrefix, 0)
	warnLog = log.New(WarnWriter, WarnPrefix, log.Lshortfile)
	errLog = log.New(ErrWriter, ErrPrefix, log.Llongfile)
}

// Debug traces per-step and per-fetch memo activity: suspension, skip,
// need-node growth. High volume; on by default (DebugWriter starts as
// os.Stderr) until SetLevel("warn") or SetLevel("error") discards it.
func Debug(v ...any) {
	if DebugWriter != io.Discard {
		debugLog.Output(2, fmtJoin(v...))
	}
}

// Warn reports recoverable control-flow outcomes worth a human's attention:
// a fetch miss that unwound a recording, a reentrance.
func Warn(v ...any) {
	if WarnWriter != io.Discard {
		warnLog.Output(2, fmtJoin(v...))
	}
}

// Error reports a structural invariant violation immediately before the
// caller aborts.
func Error(v ...any) {
	if ErrWriter != io.Discard {
		errLog.Output(2, fmtJoin(v...))
	}
}

func fmtJoin(v ...any) string {
	return fmt.Sprint(v...)
}
