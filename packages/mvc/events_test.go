package mvc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recorder(calls *[]string, name string, result any) Listener {
	return func(e *Event) any {
		*calls = append(*calls, name)
		return result
	}
}

func TestEventManager_Priority(t *testing.T) {
	var calls []string
	em := NewEventManager(nil)
	em.Attach("evt", recorder(&calls, "low", nil), -10)
	em.Attach("evt", recorder(&calls, "first", nil), 5)
	em.Attach("evt", recorder(&calls, "second", nil), 5)
	em.Attach("other", recorder(&calls, "other", nil), 100)

	res := em.Trigger(NewEvent("evt", nil))

	assert.Equal(t, []string{"first", "second", "low"}, calls)
	assert.Equal(t, 3, res.Len())
	assert.False(t, res.Stopped())
}

func TestEventManager_TriggerUntil(t *testing.T) {
	var calls []string
	em := NewEventManager(nil)
	em.Attach("evt", recorder(&calls, "a", "keep going"), 3)
	em.Attach("evt", recorder(&calls, "b", "stop"), 2)
	em.Attach("evt", recorder(&calls, "c", nil), 1)

	res := em.TriggerUntil(NewEvent("evt", nil), func(r any) bool { return r == "stop" })

	assert.True(t, res.Stopped())
	assert.Equal(t, "stop", res.Last())
	assert.Equal(t, "keep going", res.First())
	assert.Equal(t, []string{"a", "b"}, calls)
}

func TestEventManager_StopPropagation(t *testing.T) {
	var calls []string
	em := NewEventManager(nil)
	em.Attach("evt", func(e *Event) any {
		e.StopPropagation(true)
		return nil
	}, 2)
	em.Attach("evt", recorder(&calls, "never", nil), 1)

	res := em.Trigger(NewEvent("evt", nil))
	assert.True(t, res.Stopped())
	assert.Empty(t, calls)
}

func TestEventManager_Detach(t *testing.T) {
	var calls []string
	em := NewEventManager(nil)
	h := em.Attach("evt", recorder(&calls, "x", nil), 1)

	require.True(t, em.Detach(h))
	assert.False(t, em.Detach(h))
	em.TriggerEvent("evt", NewEvent("", nil))
	assert.Empty(t, calls)
}

func TestSharedEventManager(t *testing.T) {
	var calls []string
	shared := NewSharedEventManager()
	shared.Attach(ApplicationIdentifier, "evt", recorder(&calls, "shared", nil), 10)
	shared.Attach(ApplicationIdentifier, "*", recorder(&calls, "wildcard", nil), -10)
	shared.Attach("Other", "evt", recorder(&calls, "other", nil), 10)

	em := NewEventManager(shared, ApplicationIdentifier)
	em.Attach("evt", recorder(&calls, "local", nil), 0)

	assert.Equal(t, 3, em.ListenerCount("evt"))
	em.Trigger(NewEvent("evt", nil))
	assert.Equal(t, []string{"shared", "local", "wildcard"}, calls)

	shared.ClearListeners(ApplicationIdentifier)
	assert.Equal(t, 1, em.ListenerCount("evt"))
}

func TestEvent_Params(t *testing.T) {
	e := NewEvent("route", nil)
	assert.Nil(t, e.Exception())

	err := Errorf("broken")
	e.SetParam(ParamException, err)
	assert.Equal(t, err, e.Exception())
	assert.Contains(t, e.Params(), ParamException)

	e.SetParam(ParamException, nil)
	assert.Nil(t, e.Exception())
	assert.Empty(t, e.Params())
}
