// Package obslog is the module's ambient logging layer: a thin wrapper
// around go.uber.org/zap that hands out component-tagged loggers, the
// idiom standardbeagle-lci's internal/debug package uses with hand-rolled
// mutex+io.Writer plumbing (SetDebugOutput/InitDebugLogFile), re-expressed
// here on a real structured-logging library per this pack's compiler-
// tooling repos (bufbuild-buf wires go.uber.org/zap directly).
package obslog

import (
	"sync"

	"go.uber.org/zap"
)

var (
	mu   sync.Mutex
	base *zap.Logger
)

// Init installs the process-wide base logger: production config (JSON,
// info level) unless dev is true, which switches to zap's human-readable
// development config. Safe to call more than once; the last call wins.
func Init(dev bool) error {
	var logger *zap.Logger
	var err error
	if dev {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return err
	}

	mu.Lock()
	base = logger
	mu.Unlock()
	return nil
}

// Named returns a SugaredLogger tagged with component, the shape
// internal/srcmap and cmd/srcspan both log through. If Init was never
// called, it falls back to a no-op logger rather than panicking, so that
// library code (internal/srcmap.New with a nil logger) never requires the
// caller to have configured logging first.
func Named(component string) *zap.SugaredLogger {
	mu.Lock()
	logger := base
	mu.Unlock()

	if logger == nil {
		return zap.NewNop().Sugar()
	}
	return logger.Named(component).Sugar()
}

// Sync flushes any buffered log entries. Call it before process exit; the
// returned error is often non-nil and ignorable when stderr is a terminal
// (a well-known zap quirk), so callers typically discard it.
func Sync() error {
	mu.Lock()
	logger := base
	mu.Unlock()
	if logger == nil {
		return nil
	}
	return logger.Sync()
}
