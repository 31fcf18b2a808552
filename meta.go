package pvp

import (
	"fmt"
	"reflect"
	"sync"
)

// SystemMeta holds pre-computed metadata about a handler or loop type.
// This is computed once at build time and reused for all executions.
type SystemMeta struct {
	// Type is the reflect.Type of the system struct
	Type reflect.Type

	// Name is the type name for debugging
	Name string

	// RequireMask is the bitmask of required components
	RequireMask Bitmask

	// ExcludeMask is the bitmask of excluded components (Without[T])
	ExcludeMask Bitmask

	// Fields holds injection metadata for each field
	Fields []FieldMeta

	// Stage is the execution stage (loops only)
	Stage Stage

	// Pool recycles system instances between executions
	Pool *sync.Pool

	// Feature is the feature this system belongs to
	Feature *Feature
}

// FieldMeta holds metadata about a single injectable field.
type FieldMeta struct {
	// Offset is the field offset in the struct for unsafe injection
	Offset uintptr

	// Name is the field name for debugging
	Name string

	// Kind is the type of field (component, resource, etc.)
	Kind FieldKind

	// ComponentID is the ID of the component type (for component fields)
	ComponentID ComponentID

	// Type is the component type for component and phantom fields, and the
	// declared field type for resource and payload fields.
	Type reflect.Type

	// Optional indicates the field can be nil
	Optional bool

	// Mutable indicates the field has write access
	Mutable bool
}

var (
	sessionPtrType = reflect.TypeFor[*Session]()
	managerPtrType = reflect.TypeFor[*Manager]()
)

// analyzeSystem analyzes a system type and returns its metadata.
func analyzeSystem(systemType reflect.Type) (*SystemMeta, error) {
	if systemType.Kind() == reflect.Ptr {
		systemType = systemType.Elem()
	}
	if systemType.Kind() != reflect.Struct {
		return nil, fmt.Errorf("system must be a struct, got %v", systemType.Kind())
	}

	meta := &SystemMeta{
		Type: systemType,
		Name: systemType.Name(),
		Pool: &sync.Pool{
			New: func() any {
				return reflect.New(systemType).Interface()
			},
		},
	}

	for i := 0; i < systemType.NumField(); i++ {
		field := systemType.Field(i)
		tag := parseTag(field.Tag.Get(tagName))

		fm := FieldMeta{
			Offset:   field.Offset,
			Name:     field.Name,
			Optional: tag.Optional,
			Mutable:  tag.Mutable,
		}

		switch {
		case field.Type == sessionPtrType:
			fm.Kind = KindSession

		case field.Type == managerPtrType:
			fm.Kind = KindManager

		case isPhantomType(field.Type):
			compType, isWithout := getPhantomInfo(field.Type)
			fm.ComponentID = registry.register(compType)
			fm.Type = compType
			if isWithout {
				fm.Kind = KindPhantomWithout
				meta.ExcludeMask.Set(fm.ComponentID)
			} else {
				fm.Kind = KindPhantomWith
				meta.RequireMask.Set(fm.ComponentID)
			}

		case tag.Resource:
			fm.Kind = KindResource
			fm.Type = field.Type

		case field.Type.Kind() == reflect.Ptr && field.Type.Elem().Kind() == reflect.Struct:
			compType := field.Type.Elem()
			fm.Kind = KindComponent
			fm.ComponentID = registry.register(compType)
			fm.Type = compType
			if !tag.Optional {
				meta.RequireMask.Set(fm.ComponentID)
			}

		default:
			fm.Kind = KindPayload
			fm.Type = field.Type
		}

		meta.Fields = append(meta.Fields, fm)
	}

	return meta, nil
}
