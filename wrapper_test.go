package funclog_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funclog/funclog"
)

func addPair(a, b int) int {
	return a + b
}

func joinAll(sep string, parts ...string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += sep
		}
		out += p
	}
	return out
}

func Test_Wrapper_BaseHasNoHook(t *testing.T) {
	w := funclog.NewWrapper(nil)

	_, err := w.Wrap(addPair)
	assert.ErrorIs(t, err, funclog.ErrNotImplemented)
}

func Test_Wrapper_RejectsNonFunction(t *testing.T) {
	c := funclog.NewCounter(nil)

	_, err := c.Wrap(42)
	require.Error(t, err)
	assert.True(t, funclog.IsConfigError(err))

	_, err = c.Wrap(nil)
	require.Error(t, err)
	assert.True(t, funclog.IsConfigError(err))
}

func Test_Wrapper_PreservesSignatureAndResults(t *testing.T) {
	c := funclog.NewCounter(nil)

	wrapped, err := funclog.WrapFunc(c, addPair)
	require.NoError(t, err)
	assert.Equal(t, addPair(19, 23), wrapped(19, 23))

	variadic, err := funclog.WrapFunc(c, joinAll)
	require.NoError(t, err)
	assert.Equal(t, "a-b-c", variadic("-", "a", "b", "c"))
	assert.Equal(t, "", variadic("-"))
}

func Test_Wrapper_PropagatesReturnedErrors(t *testing.T) {
	sentinel := errors.New("boom")
	fail := func() error { return sentinel }

	c := funclog.NewCounter(nil)
	wrapped, err := funclog.WrapFunc(c, fail)
	require.NoError(t, err)

	assert.ErrorIs(t, wrapped(), sentinel)
}

func Test_Wrapper_DeactivationSkipsRecording(t *testing.T) {
	c := funclog.NewCounter(nil)
	wrapped, err := funclog.WrapFunc(c, addPair)
	require.NoError(t, err)

	assert.Equal(t, 3, wrapped(1, 2))
	assert.Equal(t, int64(1), c.Total())

	// Toggling the already-created closure, no re-wrap.
	c.Deactivate()
	assert.False(t, c.Activated())
	assert.Equal(t, 7, wrapped(3, 4))
	assert.Equal(t, int64(1), c.Total())

	c.Activate()
	assert.True(t, c.Activated())
	assert.Equal(t, 11, wrapped(5, 6))
	assert.Equal(t, int64(2), c.Total())
}

func Test_Wrapper_IntrospectsIdentity(t *testing.T) {
	c := funclog.NewCounter(nil)
	require.NoError(t, c.SetNameFormat("{name}"))

	wrapped, err := funclog.WrapFunc(c, addPair)
	require.NoError(t, err)
	wrapped(1, 1)

	assert.Equal(t, int64(1), c.Count("addPair"))
}

func Test_Wrapper_TemplateChangeAffectsWrappedCalls(t *testing.T) {
	c := funclog.NewCounter(nil)
	info := funclog.FuncInfo{Name: "helper", Module: "alpha", QualName: "alpha.helper"}

	wrappedAny, err := c.WrapNamed(func() {}, info)
	require.NoError(t, err)
	wrapped := wrappedAny.(func())

	wrapped()
	require.NoError(t, c.SetNameFormat("{qualname}"))
	wrapped()

	assert.Equal(t, int64(1), c.Count("helper"))
	assert.Equal(t, int64(1), c.Count("alpha.helper"))
}
