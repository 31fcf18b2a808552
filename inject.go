package pvp

import (
	"reflect"
	"unsafe"
)

// injectSystem injects dependencies into a system instance.
// It returns false if a required component or resource is missing, in which
// case the system must not run.
func injectSystem(system any, s *Session, meta *SystemMeta, m *Manager) bool {
	base := reflect.ValueOf(system).UnsafePointer()

	for i := range meta.Fields {
		field := &meta.Fields[i]

		switch field.Kind {
		case KindSession:
			setFieldPtr(base, field.Offset, unsafe.Pointer(s))

		case KindManager:
			if m == nil {
				return false
			}
			setFieldPtr(base, field.Offset, unsafe.Pointer(m))

		case KindComponent:
			ptr := s.component(field.ComponentID)
			if ptr == nil && !field.Optional {
				return false
			}
			setFieldPtr(base, field.Offset, ptr)

		case KindResource:
			if m == nil {
				return false
			}
			res, ok := m.resource(field.Type)
			if !ok {
				return false
			}
			fieldValue(base, field).Set(res)

		case KindPayload:
			// Payload must not leak from one session to the next when an
			// instance is reused.
			zeroField(base, field)
		}
	}

	return true
}

// zeroSystem zeros all injected fields in a system for pool reuse.
func zeroSystem(system any, meta *SystemMeta) {
	base := reflect.ValueOf(system).UnsafePointer()

	for i := range meta.Fields {
		field := &meta.Fields[i]

		switch field.Kind {
		case KindSession, KindManager, KindComponent:
			setFieldPtr(base, field.Offset, nil)
		case KindResource, KindPayload:
			zeroField(base, field)
		}
	}
}

// setFieldPtr sets a pointer field at the given offset.
func setFieldPtr(base unsafe.Pointer, offset uintptr, value unsafe.Pointer) {
	*(*unsafe.Pointer)(unsafe.Add(base, offset)) = value
}

// fieldValue returns a settable value for a field, exported or not.
func fieldValue(base unsafe.Pointer, field *FieldMeta) reflect.Value {
	return reflect.NewAt(field.Type, unsafe.Add(base, field.Offset)).Elem()
}

func zeroField(base unsafe.Pointer, field *FieldMeta) {
	if field.Type == nil || field.Type.Size() == 0 {
		return
	}
	fieldValue(base, field).SetZero()
}
