package mvc

import (
	"sort"
)

// ApplicationIdentifier is the shared-event identifier of the application's
// event manager.
const ApplicationIdentifier = "Application"

// Listener handles an event. Its return value is collected into the
// ResponseCollection of the trigger.
type Listener func(e *Event) any

// ListenerHandle identifies an attached listener for Detach.
type ListenerHandle struct {
	event string
	id    uint64
}

type listenerEntry struct {
	id       uint64
	priority int
	listener Listener
}

// ResponseCollection holds listener results in call order.
type ResponseCollection struct {
	results []any
	stopped bool
}

// Stopped reports whether the trigger was short-circuited.
func (c *ResponseCollection) Stopped() bool {
	return c.stopped
}

func (c *ResponseCollection) Len() int {
	return len(c.results)
}

// First returns the first result, or nil.
func (c *ResponseCollection) First() any {
	if len(c.results) == 0 {
		return nil
	}
	return c.results[0]
}

// Last returns the last result, or nil.
func (c *ResponseCollection) Last() any {
	if len(c.results) == 0 {
		return nil
	}
	return c.results[len(c.results)-1]
}

// Results returns all results.
func (c *ResponseCollection) Results() []any {
	return append([]any(nil), c.results...)
}

// EventManager dispatches events to listeners by descending priority. Equal
// priorities run in attach order.
type EventManager struct {
	identifiers []string
	shared      *SharedEventManager
	listeners   map[string][]listenerEntry
	nextID      uint64
}

func NewEventManager(shared *SharedEventManager, identifiers ...string) *EventManager {
	return &EventManager{
		identifiers: identifiers,
		shared:      shared,
		listeners:   make(map[string][]listenerEntry),
	}
}

// SharedManager returns the shared registry, which may be nil.
func (m *EventManager) SharedManager() *SharedEventManager {
	return m.shared
}

func (m *EventManager) Identifiers() []string {
	return append([]string(nil), m.identifiers...)
}

func (m *EventManager) Attach(event string, l Listener, priority int) ListenerHandle {
	m.nextID++
	m.listeners[event] = append(m.listeners[event], listenerEntry{id: m.nextID, priority: priority, listener: l})
	return ListenerHandle{event: event, id: m.nextID}
}

// Detach removes a listener. It reports whether the listener was attached.
func (m *EventManager) Detach(h ListenerHandle) bool {
	entries := m.listeners[h.event]
	for i, entry := range entries {
		if entry.id == h.id {
			m.listeners[h.event] = append(entries[:i], entries[i+1:]...)
			return true
		}
	}
	return false
}

// ListenerCount returns how many listeners, shared ones included, would run
// for event.
func (m *EventManager) ListenerCount(event string) int {
	return len(m.collect(event))
}

// Trigger runs all listeners for the event's name.
func (m *EventManager) Trigger(e *Event) *ResponseCollection {
	return m.TriggerUntil(e, nil)
}

// TriggerEvent sets the event name and triggers it.
func (m *EventManager) TriggerEvent(name string, e *Event) *ResponseCollection {
	e.SetName(name)
	return m.Trigger(e)
}

// TriggerUntil runs listeners until one stops propagation or until returns
// true for a listener result.
func (m *EventManager) TriggerUntil(e *Event, until func(result any) bool) *ResponseCollection {
	e.StopPropagation(false)
	responses := &ResponseCollection{}

	for _, entry := range m.collect(e.Name()) {
		result := entry.listener(e)
		responses.results = append(responses.results, result)

		if e.PropagationIsStopped() {
			responses.stopped = true
			break
		}
		if until != nil && until(result) {
			responses.stopped = true
			break
		}
	}
	return responses
}

func (m *EventManager) collect(event string) []listenerEntry {
	var entries []listenerEntry
	entries = append(entries, m.listeners[event]...)
	if m.shared != nil {
		entries = append(entries, m.shared.listenersFor(m.identifiers, event)...)
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].priority > entries[j].priority
	})
	return entries
}

// SharedEventManager registers listeners by identifier, so they attach to
// every event manager carrying that identifier, including ones created later.
type SharedEventManager struct {
	listeners map[string]map[string][]listenerEntry
	nextID    uint64
}

func NewSharedEventManager() *SharedEventManager {
	return &SharedEventManager{listeners: make(map[string]map[string][]listenerEntry)}
}

func (s *SharedEventManager) Attach(identifier, event string, l Listener, priority int) {
	if s.listeners[identifier] == nil {
		s.listeners[identifier] = make(map[string][]listenerEntry)
	}
	s.nextID++
	s.listeners[identifier][event] = append(s.listeners[identifier][event], listenerEntry{id: s.nextID, priority: priority, listener: l})
}

// ClearListeners removes all listeners of identifier.
func (s *SharedEventManager) ClearListeners(identifier string) {
	delete(s.listeners, identifier)
}

func (s *SharedEventManager) listenersFor(identifiers []string, event string) []listenerEntry {
	var out []listenerEntry
	for _, id := range identifiers {
		for _, name := range []string{event, "*"} {
			out = append(out, s.listeners[id][name]...)
		}
	}
	return out
}
