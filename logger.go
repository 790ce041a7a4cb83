package batch

import (
	"log/slog"

	"github.com/gogpu/batch/internal/logging"
)

// SetLogger configures the logger for batch and all its sub-packages.
// By default, batch produces no log output. Call SetLogger to enable it.
//
// SetLogger is safe for concurrent use: it stores the new logger
// atomically. Pass nil to disable logging (restore the silent default).
//
// Log levels used by batch:
//   - [slog.LevelDebug]: per-operation diagnostics (placements, splits)
//   - [slog.LevelInfo]: lifecycle events (atlas page created, repacked)
//   - [slog.LevelWarn]: resource pressure (LRU eviction pass)
//
// Example:
//
//	// Enable info-level logging to stderr:
//	batch.SetLogger(slog.Default())
//
//	// Enable debug-level logging for full diagnostics:
//	batch.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	logging.Set(l)
}

// Logger returns the current logger used by batch. Sub-packages (atlas,
// integration/gpubridge) share the same logger configuration.
//
// Logger is safe for concurrent use.
func Logger() *slog.Logger {
	return logging.Logger()
}
