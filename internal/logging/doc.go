// Package logging assembles the slog loggers used by speakerscript.
//
// It owns the console and JSON handlers, parses level and format settings from
// configuration, and exposes context-aware helpers so pipeline stages tag log
// lines with the run ID and stage name. Console output is colorized only when
// the destination is a terminal. A no-op logger is provided for tests and for
// library callers that do not care about diagnostics.
package logging
