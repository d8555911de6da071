package funclog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funclog/funclog"
)

// wrapWithIdentity wraps a no-op function under an explicit descriptor,
// simulating two same-named functions from different modules.
func wrapWithIdentity(t *testing.T, in funclog.Instrument, name, module string) func() {
	t.Helper()
	info := funclog.FuncInfo{Name: name, Module: module, QualName: module + "." + name}
	wrapped, err := in.WrapNamed(func() {}, info)
	require.NoError(t, err)
	return wrapped.(func())
}

func Test_Counter_SameNameAggregatesUnderOneIdentity(t *testing.T) {
	c := funclog.NewCounter(nil)
	require.NoError(t, c.SetNameFormat("{name}"))

	f := wrapWithIdentity(t, c, "helper", "alpha")
	g := wrapWithIdentity(t, c, "helper", "beta")

	f()
	g()
	g()

	// Identity collision is the documented behavior, not a bug: both
	// functions land under "helper".
	assert.Equal(t, int64(3), c.Count("helper"))
	assert.Equal(t, int64(3), c.Total())
}

func Test_Counter_QualnameTemplateDisambiguates(t *testing.T) {
	c := funclog.NewCounter(nil)
	require.NoError(t, c.SetNameFormat("{qualname}"))

	f := wrapWithIdentity(t, c, "helper", "alpha")
	g := wrapWithIdentity(t, c, "helper", "beta")

	f()
	g()
	g()

	assert.Equal(t, int64(1), c.Count("alpha.helper"))
	assert.Equal(t, int64(2), c.Count("beta.helper"))
	assert.Equal(t, int64(3), c.Total())
}

func Test_Counter_Report(t *testing.T) {
	c := funclog.NewCounter(nil)
	f := wrapWithIdentity(t, c, "first", "m")
	s := wrapWithIdentity(t, c, "second", "m")

	f()
	f()
	s()

	report := c.String()
	assert.Contains(t, report, "Counter(")
	assert.Contains(t, report, "[first] number of calls : 2")
	assert.Contains(t, report, "[second] number of calls : 1")
	assert.Contains(t, report, "total number of calls : 3")

	c.Reset()
	assert.Equal(t, int64(0), c.Total())
	assert.NotContains(t, c.String(), "[first]")
}
