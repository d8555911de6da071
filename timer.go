package funclog

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Timer accumulates elapsed wall time per resolved identity. Like Counter it
// aggregates by identity only; disambiguate with the template if needed.
type Timer struct {
	*Wrapper
	totals map[string]time.Duration
	order  []string
}

// NewTimer creates a cumulative-runtime accumulator.
func NewTimer(logger *zap.Logger) *Timer {
	t := &Timer{
		Wrapper: NewWrapper(logger),
		totals:  make(map[string]time.Duration),
	}
	t.hook = t
	return t
}

func (t *Timer) onCall(info FuncInfo, call func() []reflect.Value) []reflect.Value {
	name := t.FormatName(info)
	if _, ok := t.totals[name]; !ok {
		t.order = append(t.order, name)
		t.totals[name] = 0
	}
	start := time.Now()
	out := call()
	t.totals[name] += time.Since(start)
	return out
}

// Runtime returns the cumulative elapsed time recorded for one identity.
func (t *Timer) Runtime(name string) time.Duration {
	return t.totals[name]
}

// Total returns the cumulative elapsed time across all identities.
func (t *Timer) Total() time.Duration {
	var total time.Duration
	for _, d := range t.totals {
		total += d
	}
	return total
}

// Reset clears all accumulated runtimes.
func (t *Timer) Reset() {
	t.totals = make(map[string]time.Duration)
	t.order = nil
}

// String lists each identity's cumulative runtime in order of first
// appearance, followed by the total.
func (t *Timer) String() string {
	var b strings.Builder
	b.WriteString("Timer(\n")
	for _, name := range t.order {
		fmt.Fprintf(&b, "[%s] cumulative runtime : %s\n", name, formatDuration(t.totals[name]))
	}
	fmt.Fprintf(&b, "-----------\ntotal runtime : %s\n)", formatDuration(t.Total()))
	return b.String()
}
