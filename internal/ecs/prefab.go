package ecs

// Prefab is a named archetype. Spawning a prefab runs its parent chain
// root-first and then its own Stamp, so children override parent defaults.
// Nothing links the spawned entity back to the prefab afterwards.
type Prefab struct {
	Name   string
	Parent *Prefab
	Stamp  func(w *World, e Entity)
}

// Spawn creates an entity and stamps p onto it.
func (w *World) Spawn(p *Prefab) Entity {
	e := w.Create()
	p.apply(w, e)
	return e
}

// Is reports whether p is ancestor or equal to other.
func (p *Prefab) Is(other *Prefab) bool {
	for cur := p; cur != nil; cur = cur.Parent {
		if cur == other {
			return true
		}
	}
	return false
}

func (p *Prefab) apply(w *World, e Entity) {
	if p.Parent != nil {
		p.Parent.apply(w, e)
	}
	if p.Stamp != nil {
		p.Stamp(w, e)
	}
}
