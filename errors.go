package funclog

import (
	"errors"
	"fmt"
)

// ErrNotImplemented is returned by Wrap when a Wrapper has no on-call hook,
// i.e. the base Wrapper is used directly instead of through a variant such as
// FuncLogger or Counter.
var ErrNotImplemented = errors.New("funclog: on-call hook not implemented")

// ConfigError reports invalid instrument configuration: a bad identity
// template, an unknown report format name, or a misconfigured Propagator.
// It is always returned at the point of assignment or construction, never
// deferred to call time.
type ConfigError struct {
	msg string
}

func (e *ConfigError) Error() string {
	return "funclog: " + e.msg
}

func newConfigError(format string, args ...any) *ConfigError {
	return &ConfigError{msg: fmt.Sprintf(format, args...)}
}

// IsConfigError reports whether err is (or wraps) a ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}
