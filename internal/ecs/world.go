// Package ecs is the small entity/component substrate the game core runs on.
//
// Entities are opaque handles. Components live in typed stores obtained with
// StoreOf, prefabs stamp shared defaults onto new entities, relations attach
// tagged references between entities, and a Scheduler runs systems in a fixed
// phase order once per tick. Nothing here is safe for concurrent use; the
// simulation is single-threaded.
package ecs

import (
	"fmt"
	"reflect"

	"github.com/zyedidia/generic/mapset"
)

// Entity is an opaque entity handle. The zero value is never allocated.
type Entity uint64

// Nil is the zero entity, used for "no entity".
const Nil Entity = 0

// remover is implemented by every store so the world can drop an entity's
// data from all of them on destroy.
type remover interface {
	Remove(e Entity)
}

// World owns entity identity, the component stores, relations, singletons
// and the set of entities marked as changed since the last drain.
type World struct {
	next       Entity
	alive      map[Entity]struct{}
	stores     map[reflect.Type]remover
	order      []reflect.Type
	relations  map[relationKey]Entity
	singletons map[reflect.Type]any
	changed    mapset.Set[Entity]
}

// NewWorld creates an empty world.
func NewWorld() *World {
	return &World{
		next:       1,
		alive:      make(map[Entity]struct{}),
		stores:     make(map[reflect.Type]remover),
		relations:  make(map[relationKey]Entity),
		singletons: make(map[reflect.Type]any),
		changed:    mapset.New[Entity](),
	}
}

// Create allocates a new entity with no components.
func (w *World) Create() Entity {
	e := w.next
	w.next++
	w.alive[e] = struct{}{}
	return e
}

// Alive reports whether e was created and not yet destroyed.
func (w *World) Alive(e Entity) bool {
	_, ok := w.alive[e]
	return ok
}

// Destroy removes e and every component, outgoing relation and change mark
// attached to it. Destroying a dead entity is a no-op.
func (w *World) Destroy(e Entity) {
	if !w.Alive(e) {
		return
	}
	for _, t := range w.order {
		w.stores[t].Remove(e)
	}
	for k := range w.relations {
		if k.source == e {
			delete(w.relations, k)
		}
	}
	w.changed.Remove(e)
	delete(w.alive, e)
}

// Count returns the number of live entities.
func (w *World) Count() int {
	return len(w.alive)
}

// MarkChanged flags e for downstream observers such as renderers.
func (w *World) MarkChanged(e Entity) {
	if w.Alive(e) {
		w.changed.Put(e)
	}
}

// Changed reports whether e is currently marked as changed.
func (w *World) Changed(e Entity) bool {
	return w.changed.Has(e)
}

// ChangedCount returns how many entities are marked as changed.
func (w *World) ChangedCount() int {
	return w.changed.Size()
}

// DrainChanged returns the marked entities and clears the marks.
func (w *World) DrainChanged() []Entity {
	out := make([]Entity, 0, w.changed.Size())
	w.changed.Each(func(e Entity) {
		out = append(out, e)
	})
	w.changed = mapset.New[Entity]()
	return out
}

// StoreOf returns the world's store for component type T, creating it on
// first use. Callers should cache the result.
func StoreOf[T any](w *World) *Store[T] {
	t := reflect.TypeFor[T]()
	if s, ok := w.stores[t]; ok {
		return s.(*Store[T])
	}
	s := newStore[T](w)
	w.stores[t] = s
	w.order = append(w.order, t)
	return s
}

// Singleton returns the world-wide instance of T, creating a zero value on
// first access (ensure semantics).
func Singleton[T any](w *World) *T {
	t := reflect.TypeFor[T]()
	if v, ok := w.singletons[t]; ok {
		return v.(*T)
	}
	v := new(T)
	w.singletons[t] = v
	return v
}

// SetSingleton replaces the world-wide instance of T.
func SetSingleton[T any](w *World, v T) {
	w.singletons[reflect.TypeFor[T]()] = &v
}

func (w *World) mustAlive(e Entity) {
	if !w.Alive(e) {
		panic(fmt.Sprintf("ecs: entity %d is not alive", e))
	}
}
