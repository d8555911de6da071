package funclog

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
)

// LogEntry is one CallLog invocation: when it started, the identity it
// resolved to, and how long it ran.
type LogEntry struct {
	At      time.Time
	Func    string
	Runtime time.Duration
}

// CallLog keeps the full per-call history as a flat sequence instead of
// aggregating eagerly; per-identity counts and cumulative runtimes are
// computed on demand by filtering the sequence.
type CallLog struct {
	*Wrapper
	entries []LogEntry
}

// NewCallLog creates a per-call runtime log.
func NewCallLog(logger *zap.Logger) *CallLog {
	l := &CallLog{Wrapper: NewWrapper(logger)}
	l.hook = l
	return l
}

func (l *CallLog) onCall(info FuncInfo, call func() []reflect.Value) []reflect.Value {
	name := l.FormatName(info)
	at := time.Now()
	out := call()
	l.entries = append(l.entries, LogEntry{At: at, Func: name, Runtime: time.Since(at)})
	return out
}

// Calls returns the number of logged invocations for one identity.
func (l *CallLog) Calls(name string) int {
	count := 0
	for _, e := range l.entries {
		if e.Func == name {
			count++
		}
	}
	return count
}

// Runtime returns the cumulative runtime of one identity's invocations.
func (l *CallLog) Runtime(name string) time.Duration {
	var total time.Duration
	for _, e := range l.entries {
		if e.Func == name {
			total += e.Runtime
		}
	}
	return total
}

// TotalCalls returns the number of logged invocations.
func (l *CallLog) TotalCalls() int {
	return len(l.entries)
}

// TotalRuntime returns the cumulative runtime across all invocations.
func (l *CallLog) TotalRuntime() time.Duration {
	var total time.Duration
	for _, e := range l.entries {
		total += e.Runtime
	}
	return total
}

// Functions returns the distinct logged identities, sorted lexicographically.
func (l *CallLog) Functions() []string {
	seen := make(map[string]struct{})
	for _, e := range l.entries {
		seen[e.Func] = struct{}{}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Entries returns one identity's log entries sorted by date. The result is a
// copy; mutating it does not affect the stored log.
func (l *CallLog) Entries(name string) []LogEntry {
	var out []LogEntry
	for _, e := range l.entries {
		if e.Func == name {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].At.Before(out[j].At) })
	return out
}

// SortByDate reorders the stored log chronologically. The new order is what
// LogReport renders.
func (l *CallLog) SortByDate() {
	sort.SliceStable(l.entries, func(i, j int) bool { return l.entries[i].At.Before(l.entries[j].At) })
}

// SortByName reorders the stored log by resolved identity.
func (l *CallLog) SortByName() {
	sort.SliceStable(l.entries, func(i, j int) bool { return l.entries[i].Func < l.entries[j].Func })
}

// Reset discards all logged entries.
func (l *CallLog) Reset() {
	l.entries = nil
}

// LogReport renders the flat log in stored order, one line per invocation,
// with totals at the end.
func (l *CallLog) LogReport() string {
	var b strings.Builder
	b.WriteString("CallLog(\n")
	for _, e := range l.entries {
		fmt.Fprintf(&b, "[%s] function : %s - runtime : %s\n",
			e.At.Format(timeLayout), e.Func, formatDuration(e.Runtime))
	}
	l.appendTotals(&b)
	return b.String()
}

// SummaryReport renders one line per identity with its call count and
// cumulative runtime, identities sorted lexicographically.
func (l *CallLog) SummaryReport() string {
	return l.groupedReport(false)
}

// DetailReport is SummaryReport with each identity's chronological entries
// nested under its summary line.
func (l *CallLog) DetailReport() string {
	return l.groupedReport(true)
}

func (l *CallLog) groupedReport(detail bool) string {
	var b strings.Builder
	b.WriteString("CallLog(\n")
	for _, name := range l.Functions() {
		fmt.Fprintf(&b, "[%s] number of calls : %d - cumulative runtime : %s\n",
			name, l.Calls(name), formatDuration(l.Runtime(name)))
		if !detail {
			continue
		}
		for _, e := range l.Entries(name) {
			fmt.Fprintf(&b, "\t\t[%s] runtime : %s\n",
				e.At.Format(timeLayout), formatDuration(e.Runtime))
		}
	}
	l.appendTotals(&b)
	return b.String()
}

func (l *CallLog) appendTotals(b *strings.Builder) {
	fmt.Fprintf(b, "-----------\ntotal number of calls : %d\ntotal runtime : %s\n)",
		l.TotalCalls(), formatDuration(l.TotalRuntime()))
}

// String renders the grouped summary.
func (l *CallLog) String() string {
	return l.SummaryReport()
}
