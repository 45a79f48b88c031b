package ecs

// Relation tags a directed reference from one entity to another.
type Relation string

type relationKey struct {
	source Entity
	kind   Relation
}

// Relate points source at target under kind, replacing any previous target.
func (w *World) Relate(source Entity, kind Relation, target Entity) {
	w.mustAlive(source)
	w.relations[relationKey{source: source, kind: kind}] = target
}

// Target returns the entity source points at under kind.
// The target may have been destroyed since; check Alive when that matters.
func (w *World) Target(source Entity, kind Relation) (Entity, bool) {
	t, ok := w.relations[relationKey{source: source, kind: kind}]
	return t, ok
}

// Unrelate drops the relation of kind from source.
func (w *World) Unrelate(source Entity, kind Relation) {
	delete(w.relations, relationKey{source: source, kind: kind})
}
