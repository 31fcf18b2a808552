package pvp

import (
	"reflect"
	"time"

	"github.com/df-mc/dragonfly/server/cmd"
)

// Feature groups the handlers, loops, resources and join initializers of a
// single gameplay mechanic. Features are registered with the Builder and
// declare the resources they depend on, so a misconfigured server fails at
// build time rather than during play.
type Feature struct {
	name string

	handlers []any
	loops    []loopRegistration

	// resources holds feature-level resources (registered with the manager)
	resources []resourceRegistration

	// requires lists resource types that must be provided before the
	// feature can be built
	requires []reflect.Type

	// joins are run once for every new session
	joins []func(*Session) error

	commands []cmd.Command
}

type loopRegistration struct {
	system   Runnable
	interval time.Duration
	stage    Stage
}

type resourceRegistration struct {
	typ   reflect.Type
	value reflect.Value
}

// NewFeature creates a new feature with the given name.
func NewFeature(name string) *Feature {
	return &Feature{name: name}
}

// Name returns the feature name.
func (f *Feature) Name() string {
	return f.name
}

// Handler registers a handler for this feature.
// Handlers are structs embedding NopHandler that override player.Handler
// methods, and optionally declare one-argument methods for custom events.
func (f *Feature) Handler(h any) *Feature {
	f.handlers = append(f.handlers, h)
	return f
}

// Loop registers a loop system that runs at fixed intervals.
// Interval of 0 means the loop runs every tick.
func (f *Feature) Loop(sys Runnable, interval time.Duration, stage Stage) *Feature {
	f.loops = append(f.loops, loopRegistration{
		system:   sys,
		interval: interval,
		stage:    stage,
	})
	return f
}

// Resource registers a feature-level resource under its dynamic type.
func (f *Feature) Resource(res any) *Feature {
	f.resources = append(f.resources, resourceRegistration{
		typ:   reflect.TypeOf(res),
		value: reflect.ValueOf(res),
	})
	return f
}

// Requires declares resource types the feature depends on. Resource fields
// of the feature's systems are checked as well; Requires covers
// dependencies that are only resolved at runtime through Resource.
func (f *Feature) Requires(types ...reflect.Type) *Feature {
	f.requires = append(f.requires, types...)
	return f
}

// Dependencies returns the declared dependency list.
func (f *Feature) Dependencies() []reflect.Type {
	return f.requires
}

// OnJoin registers an initializer run once for every new session, before
// the session receives any event. Initializers attach the feature's
// components with their default values.
func (f *Feature) OnJoin(fn func(*Session) error) *Feature {
	f.joins = append(f.joins, fn)
	return f
}

// Command registers a Dragonfly command for this feature. Commands are
// registered with Dragonfly's command system when the manager is built.
func (f *Feature) Command(c cmd.Command) *Feature {
	f.commands = append(f.commands, c)
	return f
}

// Build returns a callback returning this feature, for inline registration
// with Builder.Lazy.
func (f *Feature) Build() func(*Manager) *Feature {
	return func(*Manager) *Feature {
		return f
	}
}
