package pvp

import (
	"reflect"
)

// Cancellable is embedded in custom events whose default action may be
// vetoed by a listener. Raise such events with Emit.
//
//	type ExhaustEvent struct {
//	    pvp.Cancellable
//	    Amount float32
//	}
type Cancellable struct {
	cancelled bool
}

// Cancel vetoes the default action of the event.
func (c *Cancellable) Cancel() {
	c.cancelled = true
}

// Cancelled reports whether a listener vetoed the event.
func (c *Cancellable) Cancelled() bool {
	return c.cancelled
}

// CancellableEvent is implemented by every event embedding Cancellable.
type CancellableEvent interface {
	Cancel()
	Cancelled() bool
}

// Emitter raises cancellable events. *Session implements it.
type Emitter interface {
	Emit(event CancellableEvent) bool
}

// Emit dispatches a cancellable event to the session's handlers and reports
// whether the default action should proceed. Listeners run synchronously and
// may mutate the event before the caller applies it. A nil session has no
// listeners.
func (s *Session) Emit(event CancellableEvent) bool {
	s.Dispatch(event)
	return !event.Cancelled()
}

// Dispatch dispatches a custom event to all registered handlers that listen for it.
// Handlers listen for events by implementing a method with the signature:
//
//	func (h *MyHandler) HandleMyEvent(event *MyEventType)
//
// The method name does not matter, only the signature (one argument).
func (s *Session) Dispatch(event any) {
	if s == nil || s.manager == nil || s.closed.Load() {
		return
	}

	eventType := reflect.TypeOf(event)
	arg := []reflect.Value{reflect.ValueOf(event)}

	for _, hm := range s.manager.handlers {
		methodIdx, ok := hm.events[eventType]
		if !ok {
			continue
		}
		if !s.canRun(hm.meta) {
			continue
		}

		handler := hm.meta.Pool.Get()
		if injectSystem(handler, s, hm.meta, s.manager) {
			reflect.ValueOf(handler).Method(methodIdx).Call(arg)
		}
		zeroSystem(handler, hm.meta)
		hm.meta.Pool.Put(handler)
	}
}

// ComponentAttachEvent is dispatched when a component is added to a session.
type ComponentAttachEvent struct {
	ComponentType reflect.Type
}

// ComponentDetachEvent is dispatched when a component is removed from a session.
type ComponentDetachEvent struct {
	ComponentType reflect.Type
}
