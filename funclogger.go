package funclog

import (
	"fmt"
	"os"
	"reflect"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Report formats understood by FuncLogger.Render and SetLogFormat.
const (
	// FormatByTime lists one line per call in insertion order.
	FormatByTime = "by-time"
	// FormatByFunction groups calls under their resolved identity, in order
	// of first appearance.
	FormatByFunction = "by-function"
	// FormatCumulative lists one line per identity with its call count and
	// per-metric sums.
	FormatCumulative = "cumulative"
)

var logFormats = []string{FormatByTime, FormatByFunction, FormatCumulative}

const timeLayout = "2006-01-02 15:04:05.000000"

// CallRecord is one logged invocation: when it happened, the identity it
// resolved to under the template in effect at call time, and the value each
// connected probe collected. Records are immutable once appended.
type CallRecord struct {
	At     time.Time
	Func   string
	Values map[string]any
}

// FuncTotals is one identity's aggregate: how many calls were recorded for it
// and, per metric, the sum of that metric across those calls. A metric whose
// values are not summable carries a nonSummable marker and renders as "n/a".
type FuncTotals struct {
	Func   string
	Calls  int
	Totals map[string]any
}

// nonSummable marks a cumulative slot whose metric values cannot be added.
type nonSummable struct{}

// FuncLogger is the aggregating instrument: each call through it runs every
// connected probe around the wrapped function and appends a CallRecord. The
// accumulated history renders in three layouts.
//
// The record store is guarded so an Exporter can snapshot it from its own
// goroutine; the probes themselves still assume one call at a time.
type FuncLogger struct {
	*Wrapper

	mu      sync.RWMutex
	probes  map[string]Probe
	order   []string
	records []CallRecord
	format  string
}

// NewFuncLogger creates an aggregating logger with the given probes
// connected and the by-time format selected. Nil probes are skipped.
func NewFuncLogger(logger *zap.Logger, probes ...Probe) *FuncLogger {
	l := &FuncLogger{
		Wrapper: NewWrapper(logger),
		probes:  make(map[string]Probe),
		format:  FormatByTime,
	}
	l.hook = l
	l.Connect(probes...)
	return l
}

// Connect registers probes by metric name. A probe with an already-registered
// metric name replaces the previous one in place, keeping its position in the
// execution order. Nil entries are ignored.
func (l *FuncLogger) Connect(probes ...Probe) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, p := range probes {
		if p == nil {
			continue
		}
		name := p.MetricName()
		if _, exists := l.probes[name]; !exists {
			l.order = append(l.order, name)
		}
		l.probes[name] = p
		if l.logger != nil {
			l.logger.Debug("connected probe", zap.String("metric", name))
		}
	}
}

// ConnectDefaults connects the two built-in probes, runtime and memory.
func (l *FuncLogger) ConnectDefaults() {
	l.Connect(NewRuntimeProbe(), NewMemoryProbe())
}

// DisconnectAll removes every probe. Stored records are kept.
func (l *FuncLogger) DisconnectAll() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.probes = make(map[string]Probe)
	l.order = nil
}

// Reset discards all stored records. Connected probes are kept.
func (l *FuncLogger) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = nil
}

// LogFormat returns the format used by String and WriteLogs.
func (l *FuncLogger) LogFormat() string {
	return l.format
}

// SetLogFormat selects the default report format. Unknown names are a
// ConfigError and leave the previous format in effect.
func (l *FuncLogger) SetLogFormat(format string) error {
	if !validLogFormat(format) {
		return newConfigError("unknown log format %q, want one of %s",
			format, strings.Join(logFormats, ", "))
	}
	l.format = format
	return nil
}

func validLogFormat(format string) bool {
	for _, f := range logFormats {
		if format == f {
			return true
		}
	}
	return false
}

// onCall implements the instrumentation hook: resolve identity, sample every
// probe around the call, collect one value per probe, append the record.
func (l *FuncLogger) onCall(info FuncInfo, call func() []reflect.Value) []reflect.Value {
	name := l.FormatName(info)
	at := time.Now()

	l.mu.RLock()
	probes := make([]Probe, 0, len(l.order))
	for _, metric := range l.order {
		probes = append(probes, l.probes[metric])
	}
	l.mu.RUnlock()

	for _, p := range probes {
		p.PreExecute(info)
	}
	out := call()
	for _, p := range probes {
		p.PostExecute(info)
	}

	values := make(map[string]any, len(probes))
	for _, p := range probes {
		values[p.MetricName()] = p.Collect()
	}

	l.mu.Lock()
	l.records = append(l.records, CallRecord{At: at, Func: name, Values: values})
	l.mu.Unlock()

	if l.logger != nil {
		l.logger.Debug("recorded call",
			zap.String("function", name), zap.Int("metrics", len(values)))
	}
	return out
}

// Records returns a copy of the stored call records in insertion order.
func (l *FuncLogger) Records() []CallRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]CallRecord, len(l.records))
	copy(out, l.records)
	return out
}

// LoggedFunctions returns the distinct resolved identities that have at least
// one record, sorted lexicographically.
func (l *FuncLogger) LoggedFunctions() []string {
	l.mu.RLock()
	seen := make(map[string]struct{}, len(l.records))
	for _, r := range l.records {
		seen[r.Func] = struct{}{}
	}
	l.mu.RUnlock()

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Cumulative aggregates the stored records per identity, in order of first
// appearance: call count plus the sum of each metric's values. Non-summable
// metric values poison their slot with a nonSummable marker.
func (l *FuncLogger) Cumulative() []FuncTotals {
	l.mu.RLock()
	defer l.mu.RUnlock()

	index := make(map[string]int)
	var out []FuncTotals
	for _, r := range l.records {
		i, ok := index[r.Func]
		if !ok {
			i = len(out)
			index[r.Func] = i
			out = append(out, FuncTotals{Func: r.Func, Totals: make(map[string]any)})
		}
		out[i].Calls++
		for metric, v := range r.Values {
			prev, exists := out[i].Totals[metric]
			if !exists {
				if !summable(v) {
					v = nonSummable{}
				}
				out[i].Totals[metric] = v
				continue
			}
			sum, ok := addValues(prev, v)
			if !ok {
				sum = nonSummable{}
			}
			out[i].Totals[metric] = sum
		}
	}
	return out
}

func summable(v any) bool {
	switch v.(type) {
	case time.Duration, int, int64, float64:
		return true
	}
	return false
}

func addValues(a, b any) (any, bool) {
	switch x := a.(type) {
	case time.Duration:
		if y, ok := b.(time.Duration); ok {
			return x + y, true
		}
	case int:
		if y, ok := b.(int); ok {
			return x + y, true
		}
	case int64:
		if y, ok := b.(int64); ok {
			return x + y, true
		}
	case float64:
		if y, ok := b.(float64); ok {
			return x + y, true
		}
	}
	return nil, false
}

// Render produces the report for the named format. The output is a pure
// function of the stored records: rendering twice with no intervening calls
// returns identical strings.
func (l *FuncLogger) Render(format string) (string, error) {
	switch format {
	case FormatByTime:
		return l.renderByTime(), nil
	case FormatByFunction:
		return l.renderByFunction(), nil
	case FormatCumulative:
		return l.renderCumulative(), nil
	}
	return "", newConfigError("unknown log format %q, want one of %s",
		format, strings.Join(logFormats, ", "))
}

// String renders with the configured default format.
func (l *FuncLogger) String() string {
	s, _ := l.Render(l.format)
	return s
}

// WriteLogs writes the default-format report to path, replacing any existing
// content.
func (l *FuncLogger) WriteLogs(path string) error {
	if err := os.WriteFile(path, []byte(l.String()), 0o644); err != nil {
		return fmt.Errorf("writing logs to %s: %w", path, err)
	}
	return nil
}

func (l *FuncLogger) renderByTime() string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var b strings.Builder
	for _, r := range l.records {
		fmt.Fprintf(&b, "[%s] - [%s]", r.At.Format(timeLayout), r.Func)
		l.appendMetrics(&b, " - ", r.Values)
		b.WriteString("\n")
	}
	return b.String()
}

func (l *FuncLogger) renderByFunction() string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var names []string
	seen := make(map[string]struct{})
	for _, r := range l.records {
		if _, ok := seen[r.Func]; !ok {
			seen[r.Func] = struct{}{}
			names = append(names, r.Func)
		}
	}

	var b strings.Builder
	for _, name := range names {
		fmt.Fprintf(&b, "[%s]\n", name)
		for _, r := range l.records {
			if r.Func != name {
				continue
			}
			fmt.Fprintf(&b, "\t[%s]", r.At.Format(timeLayout))
			l.appendMetrics(&b, " - ", r.Values)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (l *FuncLogger) renderCumulative() string {
	totals := l.Cumulative()

	l.mu.RLock()
	defer l.mu.RUnlock()

	var b strings.Builder
	for _, t := range totals {
		fmt.Fprintf(&b, "[%s] - %d calls", t.Func, t.Calls)
		l.appendMetrics(&b, " - ", t.Totals)
		b.WriteString("\n")
	}
	return b.String()
}

// appendMetrics writes "sep metric : value" for every metric present in
// values, connected probes first in registration order, orphaned metrics
// (probe since disconnected) after them in name order.
func (l *FuncLogger) appendMetrics(b *strings.Builder, sep string, values map[string]any) {
	for _, metric := range l.metricOrder(values) {
		b.WriteString(sep)
		b.WriteString(metric)
		b.WriteString(" : ")
		b.WriteString(l.formatValue(metric, values[metric]))
	}
}

func (l *FuncLogger) metricOrder(values map[string]any) []string {
	ordered := make([]string, 0, len(values))
	for _, metric := range l.order {
		if _, ok := values[metric]; ok {
			ordered = append(ordered, metric)
		}
	}
	var rest []string
	for metric := range values {
		if _, ok := l.probes[metric]; !ok {
			rest = append(rest, metric)
		}
	}
	sort.Strings(rest)
	return append(ordered, rest...)
}

func (l *FuncLogger) formatValue(metric string, v any) string {
	if _, ok := v.(nonSummable); ok {
		return "n/a"
	}
	if p, ok := l.probes[metric]; ok {
		return p.Format(v)
	}
	return fmt.Sprintf("%v", v)
}
