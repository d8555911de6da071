package funclog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funclog/funclog"
)

type shopService struct {
	orders int
	pings  int
}

func (s *shopService) PlaceOrder(quantity int) int {
	s.orders += quantity
	return s.orders
}

func (s *shopService) Ping() {
	s.pings++
}

func (s *shopService) String() string {
	return "shopService"
}

func Test_Propagator_ExplicitMethodList(t *testing.T) {
	c := funclog.NewCounter(nil)
	p, err := funclog.NewPropagator(c, []string{"PlaceOrder"}, nil)
	require.NoError(t, err)

	svc := &shopService{}
	set, err := p.Apply(svc)
	require.NoError(t, err)

	// Only PlaceOrder is wrapped; Ping stays untouched.
	require.Contains(t, set, "PlaceOrder")
	assert.NotContains(t, set, "Ping")

	placeOrder := set["PlaceOrder"].(func(int) int)
	assert.Equal(t, 2, placeOrder(2))
	assert.Equal(t, 5, placeOrder(3))
	svc.Ping()

	assert.Equal(t, int64(2), c.Count("PlaceOrder"))
	assert.Equal(t, int64(2), c.Total())
	assert.Equal(t, 1, svc.pings)
}

func Test_Propagator_NilListSelectsAllPlainMethods(t *testing.T) {
	c := funclog.NewCounter(nil)
	p, err := funclog.NewPropagator(c, nil, nil)
	require.NoError(t, err)

	set, err := p.Apply(&shopService{})
	require.NoError(t, err)

	assert.Contains(t, set, "PlaceOrder")
	assert.Contains(t, set, "Ping")
	// String is on the default exclusion list.
	assert.NotContains(t, set, "String")
}

func Test_Propagator_ExplicitNameBypassesExclusion(t *testing.T) {
	c := funclog.NewCounter(nil)
	p, err := funclog.NewPropagator(c, []string{"String"}, nil)
	require.NoError(t, err)

	set, err := p.Apply(&shopService{})
	require.NoError(t, err)

	require.Contains(t, set, "String")
	assert.Equal(t, "shopService", set["String"].(func() string)())
	assert.Equal(t, int64(1), c.Count("String"))
}

func Test_Propagator_ConfigurableExclusion(t *testing.T) {
	c := funclog.NewCounter(nil)
	p, err := funclog.NewPropagator(c, nil, nil)
	require.NoError(t, err)
	p.SetExcluded([]string{"PlaceOrder"})

	set, err := p.Apply(&shopService{})
	require.NoError(t, err)

	assert.NotContains(t, set, "PlaceOrder")
	assert.Contains(t, set, "Ping")
	assert.Contains(t, set, "String")
}

func Test_Propagator_SharedInstrumentAggregatesAcrossMethods(t *testing.T) {
	c := funclog.NewCounter(nil)
	p, err := funclog.NewPropagator(c, nil, nil)
	require.NoError(t, err)

	set, err := p.Apply(&shopService{})
	require.NoError(t, err)

	set["PlaceOrder"].(func(int) int)(1)
	set["Ping"].(func())()

	assert.Equal(t, int64(2), c.Total())
}

func Test_Propagator_ConfigErrors(t *testing.T) {
	_, err := funclog.NewPropagator(nil, nil, nil)
	require.Error(t, err)
	assert.True(t, funclog.IsConfigError(err))

	c := funclog.NewCounter(nil)
	p, err := funclog.NewPropagator(c, nil, nil)
	require.NoError(t, err)

	_, err = p.Apply(nil)
	require.Error(t, err)
	assert.True(t, funclog.IsConfigError(err))
}

func Test_Propagator_MissingExplicitNameIsSkipped(t *testing.T) {
	c := funclog.NewCounter(nil)
	p, err := funclog.NewPropagator(c, []string{"DoesNotExist", "Ping"}, nil)
	require.NoError(t, err)

	set, err := p.Apply(&shopService{})
	require.NoError(t, err)
	assert.Len(t, set, 1)
	assert.Contains(t, set, "Ping")
}
