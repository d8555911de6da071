package funclog

import (
	"reflect"

	"go.uber.org/zap"
)

// MethodSet is a method table: method name to wrapped bound method. It is the
// result of propagating one instrument across a value's methods.
type MethodSet map[string]any

// defaultExcludedMethods are never auto-selected when propagating without an
// explicit method list; listing one of them by name wraps it anyway. Override
// the list with SetExcluded.
var defaultExcludedMethods = []string{"String", "GoString", "Error", "Format"}

// Propagator applies one instrument to a selected subset of a value's
// methods. All selected methods share the single instrument, so their call
// statistics aggregate together unless the identity template disambiguates by
// qualified name.
type Propagator struct {
	in       Instrument
	methods  []string
	explicit bool
	exclude  []string
	logger   *zap.Logger
}

// NewPropagator builds a propagator for in. A nil methods list selects every
// method except the exclusion list; an explicit list (even an empty one)
// selects exactly the named methods. A nil instrument is a ConfigError.
func NewPropagator(in Instrument, methods []string, logger *zap.Logger) (*Propagator, error) {
	if in == nil {
		return nil, newConfigError("propagator requires an instrument")
	}
	p := &Propagator{
		in:       in,
		explicit: methods != nil,
		methods:  append([]string(nil), methods...),
		exclude:  append([]string(nil), defaultExcludedMethods...),
		logger:   logger,
	}
	return p, nil
}

// SetExcluded replaces the exclusion list applied when no explicit method
// list was given.
func (p *Propagator) SetExcluded(names []string) {
	p.exclude = append([]string(nil), names...)
}

// Apply walks target's method set and returns a MethodSet in which every
// selected method is replaced by its wrapped form. Methods named in an
// explicit list but absent from target are skipped. The target value itself
// is not modified.
func (p *Propagator) Apply(target any) (MethodSet, error) {
	v := reflect.ValueOf(target)
	if !v.IsValid() {
		return nil, newConfigError("propagation target must not be nil")
	}

	set := make(MethodSet)
	t := v.Type()
	for i := 0; i < v.NumMethod(); i++ {
		name := t.Method(i).Name
		if !p.selected(name) {
			continue
		}
		wrapped, err := p.in.Wrap(v.Method(i).Interface())
		if err != nil {
			return nil, err
		}
		set[name] = wrapped
		if p.logger != nil {
			p.logger.Debug("propagated instrument to method",
				zap.String("type", t.String()), zap.String("method", name))
		}
	}
	return set, nil
}

func (p *Propagator) selected(name string) bool {
	if p.explicit {
		return contains(p.methods, name)
	}
	return !contains(p.exclude, name)
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
