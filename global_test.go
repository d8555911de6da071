package funclog_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funclog/funclog"
)

func Test_Global_Lifecycle(t *testing.T) {
	_, err := funclog.Wrap(addPair)
	require.Error(t, err, "wrapping before Init must fail")

	cfg := funclog.DefaultExportConfig()
	cfg.InstanceIP = "127.0.0.1"
	cfg.RemoteWriteURL = "" // no exporter in tests
	require.NoError(t, funclog.Init(cfg))

	require.NotNil(t, funclog.Logger())
	wrapped, err := funclog.WrapFunc(funclog.Logger(), addPair)
	require.NoError(t, err)
	assert.Equal(t, 5, wrapped(2, 3))

	report, err := funclog.Render(funclog.FormatCumulative)
	require.NoError(t, err)
	assert.Contains(t, report, "addPair")
	assert.Contains(t, report, "runtime : ")
	assert.Contains(t, report, "memory : ")

	path := filepath.Join(t.TempDir(), "global.log")
	require.NoError(t, funclog.WriteLogs(path))
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotEmpty(t, content)

	// No exporter configured.
	assert.Error(t, funclog.ForceWrite())

	funclog.Shutdown()
	_, err = funclog.Wrap(addPair)
	assert.Error(t, err)
}

func Test_Global_RestartsAfterShutdown(t *testing.T) {
	cfg := funclog.DefaultExportConfig()
	cfg.InstanceIP = "127.0.0.1"
	cfg.RemoteWriteURL = ""

	require.NoError(t, funclog.Init(cfg))
	first := funclog.Logger()
	require.NotNil(t, first)

	// Init while initialized is a no-op: same instance, no error.
	require.NoError(t, funclog.Init(cfg))
	assert.Same(t, first, funclog.Logger())

	funclog.Shutdown()
	require.Nil(t, funclog.Logger())

	// A fresh Init after Shutdown must fully re-create the facade.
	require.NoError(t, funclog.Init(cfg))
	second := funclog.Logger()
	require.NotNil(t, second)
	assert.NotSame(t, first, second)

	wrapped, err := funclog.WrapFunc(second, addPair)
	require.NoError(t, err)
	assert.Equal(t, 3, wrapped(1, 2))
	report, err := funclog.Render(funclog.FormatCumulative)
	require.NoError(t, err)
	assert.Contains(t, report, "addPair")

	funclog.Shutdown()
}
