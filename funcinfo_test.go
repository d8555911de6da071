package funclog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_ParseFuncName(t *testing.T) {
	tests := []struct {
		name string
		full string
		want FuncInfo
	}{
		{
			name: "package_function",
			full: "github.com/acme/pkg.Fetch",
			want: FuncInfo{Name: "Fetch", Module: "github.com/acme/pkg", QualName: "Fetch"},
		},
		{
			name: "pointer_method_value",
			full: "github.com/acme/pkg.(*Client).Fetch-fm",
			want: FuncInfo{Name: "Fetch", Module: "github.com/acme/pkg", QualName: "Client.Fetch"},
		},
		{
			name: "value_method",
			full: "github.com/acme/pkg.Client.Fetch",
			want: FuncInfo{Name: "Fetch", Module: "github.com/acme/pkg", QualName: "Client.Fetch"},
		},
		{
			name: "main_package",
			full: "main.run",
			want: FuncInfo{Name: "run", Module: "main", QualName: "run"},
		},
		{
			name: "closure",
			full: "github.com/acme/pkg.run.func1",
			want: FuncInfo{Name: "func1", Module: "github.com/acme/pkg", QualName: "run.func1"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, parseFuncName(tc.full))
		})
	}
}

func Test_FuncInfoFor_NonFunction(t *testing.T) {
	info := funcInfoFor(42)
	assert.Equal(t, "unknown", info.Name)
}
