package pvp

import (
	"reflect"
)

// With is a phantom type that indicates a component must exist for the system to run.
// The component is not injected into the field, it only filters.
//
// Usage:
//
//	type burnLoop struct {
//	    Session *pvp.Session
//	    _ pvp.With[Burning]
//	}
type With[T any] struct{}

// Without is a phantom type that indicates a component must NOT exist for the system to run.
//
// Usage:
//
//	type hungerLoop struct {
//	    Session *pvp.Session
//	    _ pvp.Without[Frozen]
//	}
type Without[T any] struct{}

// PhantomTypeInfo provides component type information for phantom types.
type PhantomTypeInfo interface {
	ComponentType() reflect.Type
	IsWithout() bool
}

// ComponentType implements PhantomTypeInfo for With[T].
func (With[T]) ComponentType() reflect.Type {
	return reflect.TypeFor[T]()
}

// IsWithout implements PhantomTypeInfo for With[T].
func (With[T]) IsWithout() bool {
	return false
}

// ComponentType implements PhantomTypeInfo for Without[T].
func (Without[T]) ComponentType() reflect.Type {
	return reflect.TypeFor[T]()
}

// IsWithout implements PhantomTypeInfo for Without[T].
func (Without[T]) IsWithout() bool {
	return true
}

var phantomTypeInfoType = reflect.TypeFor[PhantomTypeInfo]()

func isPhantomType(t reflect.Type) bool {
	return t.Kind() == reflect.Struct && t.Implements(phantomTypeInfoType)
}

// getPhantomInfo extracts the component type and kind from a phantom type.
func getPhantomInfo(t reflect.Type) (compType reflect.Type, isWithout bool) {
	v := reflect.New(t).Elem().Interface().(PhantomTypeInfo)
	return v.ComponentType(), v.IsWithout()
}
