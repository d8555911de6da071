// Package funclog attaches cross-cutting instrumentation (timing, resident
// memory deltas, call counting, call logging) to arbitrary functions without
// touching their bodies, and renders the accumulated data as human-readable
// reports aggregated by function identity.
//
// Design goals:
//   - Signature-transparent wrapping: a wrapped function keeps its exact
//     calling convention and return values
//   - Runtime toggling: every instrument carries an activation flag observed
//     by reference, so previously wrapped call sites react immediately
//   - Pluggable measurement: the FuncLogger delegates per-call sampling to
//     independently swappable Probe implementations
//   - Configurable identity: a template over {name}, {module} and {qualname}
//     decides how calls are keyed for aggregation
//
// Basic usage:
//
//	logger := funclog.NewFuncLogger(nil, funclog.NewRuntimeProbe())
//
//	wrapped, err := funclog.WrapFunc(logger, slowQuery)
//	if err != nil {
//	  log.Fatal(err)
//	}
//
//	wrapped(ctx, 42)
//	report, _ := logger.Render(funclog.FormatCumulative)
//	fmt.Print(report)
package funclog
