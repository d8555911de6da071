package funclog

import (
	"reflect"
	"runtime"
	"strings"
)

// FuncInfo describes the identity of a wrapped function: its simple name, the
// import path of its defining package, and its qualified name within that
// package (including a method receiver, if any).
//
// Descriptors are normally derived by runtime introspection at wrap time; use
// WrapNamed to supply one explicitly when wrapping a closure or an adapter
// whose introspected name is not meaningful.
type FuncInfo struct {
	Name     string
	Module   string
	QualName string
}

// funcInfoFor introspects a function value through the runtime symbol table.
func funcInfoFor(fn any) FuncInfo {
	v := reflect.ValueOf(fn)
	if !v.IsValid() || v.Kind() != reflect.Func {
		return FuncInfo{Name: "unknown", Module: "unknown", QualName: "unknown"}
	}
	rf := runtime.FuncForPC(v.Pointer())
	if rf == nil {
		return FuncInfo{Name: "unknown", Module: "unknown", QualName: "unknown"}
	}
	return parseFuncName(rf.Name())
}

// parseFuncName splits a runtime symbol name such as
// "github.com/acme/pkg.(*Client).Fetch-fm" into its module path and
// receiver-qualified name. The "-fm" suffix the runtime appends to method
// values is stripped, as are the receiver's pointer markers.
func parseFuncName(full string) FuncInfo {
	full = strings.TrimSuffix(full, "-fm")

	// The package path ends at the first dot after the last slash; dots
	// before that belong to the import path (e.g. "github.com").
	module := full
	qual := full
	slash := strings.LastIndex(full, "/")
	if dot := strings.Index(full[slash+1:], "."); dot >= 0 {
		module = full[:slash+1+dot]
		qual = full[slash+1+dot+1:]
	}

	qual = strings.NewReplacer("(", "", ")", "", "*", "").Replace(qual)
	name := qual
	if i := strings.LastIndex(qual, "."); i >= 0 {
		name = qual[i+1:]
	}

	return FuncInfo{Name: name, Module: module, QualName: qual}
}
