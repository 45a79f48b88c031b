package ecs

// Store holds every component of type T, keyed by entity.
// Iteration order is insertion order so ticks are deterministic.
type Store[T any] struct {
	world    *World
	data     map[Entity]*T
	entities []Entity
}

func newStore[T any](w *World) *Store[T] {
	return &Store[T]{
		world:    w,
		data:     make(map[Entity]*T),
		entities: make([]Entity, 0, 64),
	}
}

// Set attaches or overwrites the component of e.
// Panics if e is not alive.
func (s *Store[T]) Set(e Entity, v T) {
	s.world.mustAlive(e)
	if p, ok := s.data[e]; ok {
		*p = v
		return
	}
	p := new(T)
	*p = v
	s.data[e] = p
	s.entities = append(s.entities, e)
}

// Get returns a copy of the component of e.
func (s *Store[T]) Get(e Entity) (T, bool) {
	if p, ok := s.data[e]; ok {
		return *p, true
	}
	var zero T
	return zero, false
}

// GetMut returns a pointer to the component of e, or nil when absent.
// The pointer stays valid until the component is removed.
func (s *Store[T]) GetMut(e Entity) *T {
	return s.data[e]
}

// Ensure returns the component of e, attaching a zero value first if absent.
func (s *Store[T]) Ensure(e Entity) *T {
	if p, ok := s.data[e]; ok {
		return p
	}
	var zero T
	s.Set(e, zero)
	return s.data[e]
}

// Has reports whether e has a component in this store.
func (s *Store[T]) Has(e Entity) bool {
	_, ok := s.data[e]
	return ok
}

// Remove detaches the component of e, if any.
func (s *Store[T]) Remove(e Entity) {
	if _, ok := s.data[e]; !ok {
		return
	}
	delete(s.data, e)
	for i, other := range s.entities {
		if other == e {
			s.entities = append(s.entities[:i], s.entities[i+1:]...)
			break
		}
	}
}

// Entities returns a copy of the entities that have this component.
// Safe to range over while the store is mutated.
func (s *Store[T]) Entities() []Entity {
	out := make([]Entity, len(s.entities))
	copy(out, s.entities)
	return out
}

// Len returns the number of components in the store.
func (s *Store[T]) Len() int {
	return len(s.entities)
}

// Each calls fn with every entity and a mutable pointer to its component.
// fn must not add or remove components of this type.
func (s *Store[T]) Each(fn func(Entity, *T)) {
	for _, e := range s.entities {
		fn(e, s.data[e])
	}
}
