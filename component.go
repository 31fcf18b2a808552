package pvp

import (
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"
	"unsafe"
)

// ComponentID is a unique identifier for a component type.
type ComponentID uint8

// MaxComponents is the maximum number of component types supported.
const MaxComponents = 255

// componentRegistry assigns IDs to component types.
// Lookups are lock-free; registration happens once per type.
type componentRegistry struct {
	types sync.Map // map[reflect.Type]ComponentID

	names    [MaxComponents]string
	typesArr [MaxComponents]reflect.Type
	arrMu    sync.RWMutex

	nextID atomic.Uint32
}

var registry = &componentRegistry{}

// register returns the ID for t, allocating one on first use.
func (r *componentRegistry) register(t reflect.Type) ComponentID {
	if id, ok := r.types.Load(t); ok {
		return id.(ComponentID)
	}

	newID := r.nextID.Add(1) - 1
	if newID >= MaxComponents {
		panic(fmt.Sprintf("pvp: component limit exceeded (max %d types)", MaxComponents))
	}

	// Another goroutine may have registered t in the meantime; the allocated
	// ID is then wasted.
	actual, loaded := r.types.LoadOrStore(t, ComponentID(newID))
	if loaded {
		return actual.(ComponentID)
	}

	r.arrMu.Lock()
	r.names[newID] = t.Name()
	r.typesArr[newID] = t
	r.arrMu.Unlock()

	return ComponentID(newID)
}

func (r *componentRegistry) name(id ComponentID) string {
	r.arrMu.RLock()
	defer r.arrMu.RUnlock()
	return r.names[id]
}

func (r *componentRegistry) typeOf(id ComponentID) reflect.Type {
	r.arrMu.RLock()
	defer r.arrMu.RUnlock()
	return r.typesArr[id]
}

func componentID[T any]() ComponentID {
	return registry.register(reflect.TypeFor[T]())
}

// Attachable is implemented by components that need initialization logic
// when attached to a session.
type Attachable interface {
	Attach(s *Session)
}

// Detachable is implemented by components that need cleanup logic when
// detached from a session or when the session closes.
type Detachable interface {
	Detach(s *Session)
}

// Add attaches a component to the session, replacing any component of the
// same type. Detach is called on the replaced component and Attach on the
// new one.
//
// Concurrency:
// Handlers, commands and forms run synchronously with the player, so it is
// safe to add components directly in those contexts.
func Add[T any](s *Session, component *T) {
	if s == nil || component == nil {
		return
	}

	id := componentID[T]()

	s.mu.Lock()
	old := s.components[id]
	s.components[id] = unsafe.Pointer(component)
	s.mask.Set(id)
	s.mu.Unlock()

	if old != nil {
		if d, ok := any((*T)(old)).(Detachable); ok {
			d.Detach(s)
		}
	}
	if a, ok := any(component).(Attachable); ok {
		a.Attach(s)
	}

	s.Dispatch(&ComponentAttachEvent{ComponentType: reflect.TypeFor[T]()})
}

// Remove detaches a component from the session.
// If the component implements Detachable, its Detach method is called after
// it has been removed.
func Remove[T any](s *Session) {
	if s == nil {
		return
	}

	id := componentID[T]()

	s.mu.Lock()
	ptr := s.components[id]
	if ptr == nil {
		s.mu.Unlock()
		return
	}
	s.components[id] = nil
	s.mask.Clear(id)
	s.mu.Unlock()

	if d, ok := any((*T)(ptr)).(Detachable); ok {
		d.Detach(s)
	}

	s.Dispatch(&ComponentDetachEvent{ComponentType: reflect.TypeFor[T]()})
}

// Get retrieves a component from the session, or nil if it is not present.
//
// Concurrency:
// The returned pointer is shared. Only modify it from handlers, loops or
// Session.Exec, which are serialized with the player.
func Get[T any](s *Session) *T {
	if s == nil {
		return nil
	}

	id := componentID[T]()

	s.mu.RLock()
	ptr := s.components[id]
	s.mu.RUnlock()

	return (*T)(ptr)
}

// Has checks if a component type is present on the session.
func Has[T any](s *Session) bool {
	if s == nil {
		return false
	}

	id := componentID[T]()

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mask.Has(id)
}

// ComponentName returns the name of the component type with the given ID.
func ComponentName(id ComponentID) string {
	return registry.name(id)
}

// RegisteredComponentCount returns the number of registered component types.
func RegisteredComponentCount() int {
	return int(registry.nextID.Load())
}
