package funclog

import (
	"reflect"

	"go.uber.org/zap"
)

// callHook is supplied by Wrapper variants. It receives the identity of the
// wrapped function and a thunk that performs the actual call; the hook decides
// what to measure around it and must return the call's results unchanged.
type callHook interface {
	onCall(info FuncInfo, call func() []reflect.Value) []reflect.Value
}

// Instrument is anything that can wrap a function: the base Wrapper and every
// variant built on it (FuncLogger, Counter, Timer, CallLog, Diagnostic).
type Instrument interface {
	Wrap(fn any) (any, error)
	WrapNamed(fn any, info FuncInfo) (any, error)
}

// Wrapper is the base instrumentation unit. It owns the activation flag and
// the identity template; the recording behavior comes from the variant's
// on-call hook. Wrapped closures hold the *Wrapper itself, so toggling
// activation or changing the template is observed by every call site that was
// wrapped earlier.
type Wrapper struct {
	activated  bool
	nameFormat string
	hook       callHook
	logger     *zap.Logger
}

// NewWrapper creates a base Wrapper: activated, template "{name}". A base
// Wrapper has no on-call hook, so Wrap fails with ErrNotImplemented until a
// variant supplies one.
func NewWrapper(logger *zap.Logger) *Wrapper {
	return &Wrapper{
		activated:  true,
		nameFormat: DefaultNameFormat,
		logger:     logger,
	}
}

// Activated reports whether calls through this instrument are being recorded.
func (w *Wrapper) Activated() bool {
	return w.activated
}

// Activate turns recording on for all wrapped call sites. Idempotent.
func (w *Wrapper) Activate() {
	w.activated = true
}

// Deactivate turns recording off; wrapped functions call through directly
// with no side effects until Activate is called again.
func (w *Wrapper) Deactivate() {
	w.activated = false
}

// SetActivated sets the activation flag explicitly.
func (w *Wrapper) SetActivated(activated bool) {
	w.activated = activated
}

// NameFormat returns the current identity template.
func (w *Wrapper) NameFormat() string {
	return w.nameFormat
}

// SetNameFormat validates and installs a new identity template. On a
// ConfigError the previous template stays in effect.
func (w *Wrapper) SetNameFormat(format string) error {
	if err := validateNameFormat(format); err != nil {
		return err
	}
	w.nameFormat = format
	return nil
}

// FormatName resolves a function's display identity against the current
// template. Resolution happens per call, so template changes apply to already
// wrapped functions.
func (w *Wrapper) FormatName(info FuncInfo) string {
	return resolveNameFormat(w.nameFormat, info)
}

// Wrap returns a new function with the same signature as fn. When the
// instrument is activated each invocation runs through the variant's on-call
// hook; when deactivated it calls fn directly. The identity descriptor is
// derived from the runtime symbol table at wrap time.
func (w *Wrapper) Wrap(fn any) (any, error) {
	return w.WrapNamed(fn, funcInfoFor(fn))
}

// WrapNamed is Wrap with a caller-supplied identity descriptor, for closures
// and adapters whose introspected name is not meaningful.
func (w *Wrapper) WrapNamed(fn any, info FuncInfo) (any, error) {
	if w.hook == nil {
		return nil, ErrNotImplemented
	}
	v := reflect.ValueOf(fn)
	if !v.IsValid() || v.Kind() != reflect.Func {
		return nil, newConfigError("wrap target must be a function, got %T", fn)
	}

	call := func(args []reflect.Value) []reflect.Value {
		if v.Type().IsVariadic() {
			return v.CallSlice(args)
		}
		return v.Call(args)
	}

	wrapped := reflect.MakeFunc(v.Type(), func(args []reflect.Value) []reflect.Value {
		if !w.activated {
			return call(args)
		}
		return w.hook.onCall(info, func() []reflect.Value {
			return call(args)
		})
	})

	if w.logger != nil {
		w.logger.Debug("wrapped function",
			zap.String("function", info.QualName),
			zap.String("module", info.Module))
	}
	return wrapped.Interface(), nil
}

// WrapFunc wraps fn through in and returns the result with fn's static type,
// saving the caller the type assertion that Wrap's any return requires.
func WrapFunc[F any](in Instrument, fn F) (F, error) {
	wrapped, err := in.Wrap(fn)
	if err != nil {
		var zero F
		return zero, err
	}
	return wrapped.(F), nil
}
