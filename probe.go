package funclog

import (
	"fmt"
	"io"
	"os"
	"reflect"

	"go.uber.org/zap"
)

// Probe is an independently swappable measurement unit producing one named
// metric per intercepted call. PreExecute and PostExecute sample state around
// the call, Collect computes the metric from the two samples, and Format
// renders a collected (or summed) value for reports.
//
// A probe keeps its transient samples on the instance, so a single probe must
// not observe concurrent calls; give each goroutine its own probe or
// serialize the calls.
type Probe interface {
	MetricName() string
	PreExecute(fn FuncInfo)
	PostExecute(fn FuncInfo)
	Collect() any
	Format(value any) string
}

// Diagnostic runs a single probe standalone: every call through it prints the
// rendered measurement immediately instead of accumulating records. Output
// goes to os.Stdout unless redirected with SetOutput.
type Diagnostic struct {
	*Wrapper
	probe Probe
	out   io.Writer
}

// NewDiagnostic creates a standalone wrapper around one probe.
func NewDiagnostic(probe Probe, logger *zap.Logger) (*Diagnostic, error) {
	if probe == nil {
		return nil, newConfigError("diagnostic requires a probe")
	}
	d := &Diagnostic{
		Wrapper: NewWrapper(logger),
		probe:   probe,
		out:     os.Stdout,
	}
	d.hook = d
	return d, nil
}

// SetOutput redirects the per-call measurement lines.
func (d *Diagnostic) SetOutput(w io.Writer) {
	d.out = w
}

func (d *Diagnostic) onCall(info FuncInfo, call func() []reflect.Value) []reflect.Value {
	d.probe.PreExecute(info)
	out := call()
	d.probe.PostExecute(info)

	value := d.probe.Collect()
	fmt.Fprintf(d.out, "%s - %s : %s\n",
		d.FormatName(info), d.probe.MetricName(), d.probe.Format(value))
	return out
}
