package funclog

import (
	"fmt"
	"time"
)

// RuntimeProbe measures elapsed wall time per call using the monotonic clock.
// Its metric is "runtime", collected as a time.Duration.
type RuntimeProbe struct {
	start time.Time
	stop  time.Time
}

// NewRuntimeProbe creates an elapsed-time probe.
func NewRuntimeProbe() *RuntimeProbe {
	return &RuntimeProbe{}
}

// MetricName implements Probe.
func (p *RuntimeProbe) MetricName() string { return "runtime" }

// PreExecute implements Probe.
func (p *RuntimeProbe) PreExecute(FuncInfo) { p.start = time.Now() }

// PostExecute implements Probe.
func (p *RuntimeProbe) PostExecute(FuncInfo) { p.stop = time.Now() }

// Collect implements Probe. It returns the elapsed time of the last call.
func (p *RuntimeProbe) Collect() any { return p.stop.Sub(p.start) }

// Format implements Probe, rendering a duration as "Hh Mm S.ssss s".
func (p *RuntimeProbe) Format(value any) string {
	d, ok := value.(time.Duration)
	if !ok {
		return fmt.Sprintf("%v", value)
	}
	return formatDuration(d)
}

// MemoryProbe measures the change in the process's resident set size across a
// call, in bytes. Its metric is "memory", collected as an int64; the delta is
// negative when memory was returned to the OS during the call.
type MemoryProbe struct {
	before int64
	after  int64
}

// NewMemoryProbe creates a resident-memory probe.
func NewMemoryProbe() *MemoryProbe {
	return &MemoryProbe{}
}

// MetricName implements Probe.
func (p *MemoryProbe) MetricName() string { return "memory" }

// PreExecute implements Probe.
func (p *MemoryProbe) PreExecute(FuncInfo) { p.before = residentMemory() }

// PostExecute implements Probe.
func (p *MemoryProbe) PostExecute(FuncInfo) { p.after = residentMemory() }

// Collect implements Probe. It returns the RSS delta of the last call.
func (p *MemoryProbe) Collect() any { return p.after - p.before }

// Format implements Probe, rendering a byte count as "NMB NKB NB".
func (p *MemoryProbe) Format(value any) string {
	n, ok := value.(int64)
	if !ok {
		return fmt.Sprintf("%v", value)
	}
	return formatBytes(n)
}

// formatDuration decomposes a duration into whole hours, whole minutes and
// fractional seconds.
func formatDuration(d time.Duration) string {
	secs := d.Seconds()
	hours := int(secs) / 3600
	rem := secs - float64(hours)*3600
	minutes := int(rem) / 60
	seconds := rem - float64(minutes*60)
	return fmt.Sprintf("%dh %dm %.4fs", hours, minutes, seconds)
}

// formatBytes decomposes a byte count into megabytes, kilobytes and bytes.
func formatBytes(n int64) string {
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	megabytes := n / (1024 * 1024)
	rem := n % (1024 * 1024)
	kilobytes := rem / 1024
	bytes := rem % 1024
	return fmt.Sprintf("%s%dMB %dKB %dB", sign, megabytes, kilobytes, bytes)
}
