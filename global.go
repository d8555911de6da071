package funclog

import (
	"fmt"
	"sync"
)

// Global default instance: one FuncLogger with the built-in probes, plus an
// optional exporter when a remote-write URL is configured. The lifecycle is
// restartable: Shutdown releases the instances and a later Init creates
// fresh ones.
var (
	globalMu       sync.Mutex
	globalLogger   *FuncLogger
	globalExporter *Exporter
)

// Init initializes the global instrumentation system: a FuncLogger with the
// runtime and memory probes connected and, if config carries a remote-write
// URL, a started Exporter. Calling Init while already initialized is a no-op.
func Init(config ExportConfig) error {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalLogger != nil {
		return nil
	}

	logger := NewFuncLogger(config.Logger)
	logger.ConnectDefaults()

	if config.RemoteWriteURL != "" {
		exp, err := NewExporter(config, logger)
		if err != nil {
			return err
		}
		if err := exp.Start(); err != nil {
			return err
		}
		globalExporter = exp
	}

	globalLogger = logger
	return nil
}

// Wrap instruments fn through the global FuncLogger.
func Wrap(fn any) (any, error) {
	l := Logger()
	if l == nil {
		return nil, fmt.Errorf("funclog is not initialized")
	}
	return l.Wrap(fn)
}

// WrapNamed is Wrap with an explicit identity descriptor.
func WrapNamed(fn any, info FuncInfo) (any, error) {
	l := Logger()
	if l == nil {
		return nil, fmt.Errorf("funclog is not initialized")
	}
	return l.WrapNamed(fn, info)
}

// Render renders the global FuncLogger's report in the named format.
func Render(format string) (string, error) {
	l := Logger()
	if l == nil {
		return "", fmt.Errorf("funclog is not initialized")
	}
	return l.Render(format)
}

// WriteLogs writes the global FuncLogger's default-format report to path.
func WriteLogs(path string) error {
	l := Logger()
	if l == nil {
		return fmt.Errorf("funclog is not initialized")
	}
	return l.WriteLogs(path)
}

// Logger returns the global FuncLogger, or nil before Init and after
// Shutdown.
func Logger() *FuncLogger {
	globalMu.Lock()
	defer globalMu.Unlock()
	return globalLogger
}

// ForceWrite pushes the global aggregates to the remote-write endpoint
// immediately.
func ForceWrite() error {
	globalMu.Lock()
	exp := globalExporter
	globalMu.Unlock()

	if exp == nil {
		return fmt.Errorf("funclog exporter is not initialized")
	}
	return exp.ForceWrite()
}

// Shutdown stops the exporter and releases the global instances. A later
// Init starts over with a fresh FuncLogger.
func Shutdown() {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalExporter != nil {
		globalExporter.Stop()
		globalExporter = nil
	}
	globalLogger = nil
}
