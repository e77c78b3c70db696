package mvc

import (
	"errors"
	"testing"

	"github.com/abdul-hamid-achik/mvctest/packages/core/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fooObject struct {
	Bar string
}

func TestServiceManager_FactoryIsShared(t *testing.T) {
	sm := NewServiceManager()
	calls := 0
	sm.SetFactory("FooObject", func(*ServiceManager) (any, error) {
		calls++
		return &fooObject{}, nil
	})

	assert.True(t, sm.Has("FooObject"))
	a, err := sm.Get("FooObject")
	require.NoError(t, err)
	b, err := sm.Get("FooObject")
	require.NoError(t, err)

	assert.Same(t, a, b)
	assert.Equal(t, 1, calls)
}

func TestServiceManager_FactoryDependsOnService(t *testing.T) {
	sm := NewServiceManager()
	sm.SetFactory("FooObject", func(*ServiceManager) (any, error) { return &fooObject{}, nil })
	sm.SetFactory("BarObject", func(sm *ServiceManager) (any, error) {
		foo, err := GetAs[*fooObject](sm, "FooObject")
		if err != nil {
			return nil, err
		}
		foo.Bar = "baz"
		return foo, nil
	})

	bar, err := GetAs[*fooObject](sm, "BarObject")
	require.NoError(t, err)
	assert.Equal(t, "baz", bar.Bar)
}

func TestServiceManager_Errors(t *testing.T) {
	sm := NewServiceManager()

	_, err := sm.Get("missing")
	assert.ErrorIs(t, err, ErrServiceNotFound)

	sm.SetFactory("a", func(sm *ServiceManager) (any, error) { return sm.Get("b") })
	sm.SetFactory("b", func(sm *ServiceManager) (any, error) { return sm.Get("a") })
	_, err = sm.Get("a")
	assert.ErrorIs(t, err, ErrServiceCycle)

	sm.SetFactory("broken", func(*ServiceManager) (any, error) { return nil, errors.New("nope") })
	_, err = sm.Get("broken")
	assert.ErrorContains(t, err, "creating service broken")

	sm.SetService("number", 42)
	_, err = GetAs[string](sm, "number")
	assert.ErrorContains(t, err, "service number is int")
}

func TestServiceManager_Configure(t *testing.T) {
	sm := NewServiceManager()
	sm.Configure(config.ServiceManagerConfig{
		Services: map[string]any{"greeting": "hello"},
		Aliases:  map[string]string{"hi": "greeting"},
	})

	v, err := GetAs[string](sm, "hi")
	require.NoError(t, err)
	assert.Equal(t, "hello", v)
	assert.Equal(t, []string{"greeting", "hi"}, sm.Names())
}
