package ecs

import (
	"reflect"
	"unsafe"
)

// singletonEntry holds one heap-allocated singleton value. The pointer never
// moves, so Singleton accessors may cache it.
type singletonEntry struct {
	typ     reflect.Type
	dataPtr unsafe.Pointer
}

// AddSingleton stores value as the singleton of its dynamic type. If a singleton
// of that type already exists its value is overwritten in place.
func (s *Storage) AddSingleton(value any) {
	if value == nil {
		panic("cannot add nil singleton")
	}
	s.putSingleton(reflect.TypeOf(value), reflect.ValueOf(value))
}

func (s *Storage) putSingleton(t reflect.Type, value reflect.Value) *singletonEntry {
	if entry, ok := s.singletons[t]; ok {
		reflect.NewAt(t, entry.dataPtr).Elem().Set(value)
		return entry
	}

	ptr := reflect.New(t)
	if value.IsValid() {
		ptr.Elem().Set(value)
	}

	entry := &singletonEntry{typ: t, dataPtr: ptr.UnsafePointer()}
	s.singletons[t] = entry
	s.singletonOrder = append(s.singletonOrder, t)
	return entry
}

func (s *Storage) getSingletonEntry(t reflect.Type) *singletonEntry {
	return s.singletons[t]
}

// ReadSingleton points *out at the stored singleton. out must be a **T.
// Returns false when no singleton of type T exists.
func (s *Storage) ReadSingleton(out any) bool {
	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Ptr {
		panic("ReadSingleton expects a pointer to a pointer")
	}

	t := rv.Elem().Type().Elem()
	entry := s.getSingletonEntry(t)
	if entry == nil {
		return false
	}

	rv.Elem().Set(reflect.NewAt(t, entry.dataPtr))
	return true
}

// Singleton provides efficient access to a single component instance
// that is not associated with any entity. Use this for simulation-wide
// resources such as counters, play-area geometry or input state.
type Singleton[T any] struct {
	storage       *Storage
	componentPtr  unsafe.Pointer
	componentType reflect.Type
}

// NewSingleton creates a new Singleton accessor for the given storage.
// If initializer is provided and the singleton doesn't exist in storage,
// it will be created with the initializer value. Otherwise, a zero value is used.
// This guarantees the singleton exists in storage after the call.
func NewSingleton[T any](storage *Storage, initializer ...T) *Singleton[T] {
	componentType := reflect.TypeFor[T]()

	entry := storage.getSingletonEntry(componentType)
	if entry == nil {
		var value T
		if len(initializer) > 0 {
			value = initializer[0]
		}
		entry = storage.putSingleton(componentType, reflect.ValueOf(&value).Elem())
	}

	return &Singleton[T]{
		storage:       storage,
		componentPtr:  entry.dataPtr,
		componentType: componentType,
	}
}

// Init initializes the Singleton with a storage reference.
// This is called automatically by the Scheduler during system registration.
func (s *Singleton[T]) Init(storage *Storage) {
	s.storage = storage
	s.componentType = reflect.TypeFor[T]()
	s.updateCache()
}

// Get returns a pointer to the singleton component.
// Returns nil if the singleton has not been added to storage.
func (s *Singleton[T]) Get() *T {
	if s.componentPtr == nil {
		s.updateCache()
	}
	if s.componentPtr == nil {
		return nil
	}
	return (*T)(s.componentPtr)
}

// updateCache refreshes the cached pointer from storage
func (s *Singleton[T]) updateCache() {
	if s.storage == nil {
		return
	}
	entry := s.storage.getSingletonEntry(s.componentType)
	if entry != nil {
		s.componentPtr = entry.dataPtr
	} else {
		s.componentPtr = nil
	}
}

// Exists returns true if the singleton component has been added to storage
func (s *Singleton[T]) Exists() bool {
	if s.componentPtr == nil {
		s.updateCache()
	}
	return s.componentPtr != nil
}
