package pvp

import (
	"log/slog"
	"reflect"
)

// Builder configures the runtime before initialization.
// Use NewBuilder() to create a builder and chain configuration methods.
type Builder struct {
	features  []func(*Manager) *Feature
	resources []resourceRegistration
	log       *slog.Logger
}

// NewBuilder creates a new builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Feature adds a feature to the builder.
func (b *Builder) Feature(f *Feature) *Builder {
	return b.Lazy(f.Build())
}

// Lazy adds a feature constructed once the manager exists.
func (b *Builder) Lazy(callback func(*Manager) *Feature) *Builder {
	b.features = append(b.features, callback)
	return b
}

// Resource adds a global resource available to all features, registered
// under its dynamic type.
func (b *Builder) Resource(res any) *Builder {
	b.resources = append(b.resources, resourceRegistration{
		typ:   reflect.TypeOf(res),
		value: reflect.ValueOf(res),
	})
	return b
}

// Logger sets the logger used by the manager. Defaults to slog.Default().
func (b *Builder) Logger(log *slog.Logger) *Builder {
	b.log = log
	return b
}

// Provide registers v as the resource for type T. Use it to provide
// interface-typed dependencies:
//
//	pvp.Provide[pvp.DifficultyProvider](b, pvp.FixedDifficulty(pvp.Hard))
func Provide[T any](b *Builder, v T) *Builder {
	b.resources = append(b.resources, resourceRegistration{
		typ:   reflect.TypeFor[T](),
		value: reflect.ValueOf(&v).Elem(),
	})
	return b
}

// Build creates the manager and analyzes every feature without starting the
// scheduler. It fails if a feature dependency is not provided or a system
// is malformed.
func (b *Builder) Build() (*Manager, error) {
	m := newManager(b.log)

	for _, f := range b.features {
		m.features = append(m.features, f(m))
	}

	for _, res := range b.resources {
		m.addResource(res.typ, res.value)
	}
	for _, f := range m.features {
		for _, res := range f.resources {
			m.addResource(res.typ, res.value)
		}
	}

	if err := m.build(); err != nil {
		return nil, err
	}
	return m, nil
}

// Init builds the manager and starts its scheduler.
// It panics if the configuration is invalid.
func (b *Builder) Init() *Manager {
	m, err := b.Build()
	if err != nil {
		panic("pvp: failed to build features: " + err.Error())
	}
	m.Start()
	return m
}
