package funclog

import (
	"fmt"
	"reflect"
	"strings"

	"go.uber.org/zap"
)

// Counter counts calls per resolved identity. Two functions resolving to the
// same identity share one counter; use a "{qualname}"-based template to keep
// them apart.
type Counter struct {
	*Wrapper
	counts map[string]int64
	order  []string
}

// NewCounter creates a call counter.
func NewCounter(logger *zap.Logger) *Counter {
	c := &Counter{
		Wrapper: NewWrapper(logger),
		counts:  make(map[string]int64),
	}
	c.hook = c
	return c
}

func (c *Counter) onCall(info FuncInfo, call func() []reflect.Value) []reflect.Value {
	name := c.FormatName(info)
	if _, ok := c.counts[name]; !ok {
		c.order = append(c.order, name)
		c.counts[name] = 0
	}
	out := call()
	c.counts[name]++
	return out
}

// Count returns the number of recorded calls for one identity.
func (c *Counter) Count(name string) int64 {
	return c.counts[name]
}

// Total returns the number of recorded calls across all identities.
func (c *Counter) Total() int64 {
	var total int64
	for _, n := range c.counts {
		total += n
	}
	return total
}

// Reset clears all counts.
func (c *Counter) Reset() {
	c.counts = make(map[string]int64)
	c.order = nil
}

// String lists each identity's call count in order of first appearance,
// followed by the grand total.
func (c *Counter) String() string {
	var b strings.Builder
	b.WriteString("Counter(\n")
	for _, name := range c.order {
		fmt.Fprintf(&b, "[%s] number of calls : %d\n", name, c.counts[name])
	}
	fmt.Fprintf(&b, "-----------\ntotal number of calls : %d\n)", c.Total())
	return b.String()
}
