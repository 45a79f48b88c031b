package game

import (
	"github.com/amalg/gridbomber/internal/ecs"
	"github.com/amalg/gridbomber/internal/grid"
	"github.com/amalg/gridbomber/internal/lifetime"
)

// archetypes are the prefabs every session stamps entities from.
type archetypes struct {
	cell      *ecs.Prefab
	floor     *ecs.Prefab
	wall      *ecs.Prefab
	rock      *ecs.Prefab
	character *ecs.Prefab
	bomb      *ecs.Prefab
	explosion *ecs.Prefab
}

func (e *Engine) buildArchetypes() archetypes {
	visible := &ecs.Prefab{
		Name: "visible",
		Stamp: func(w *ecs.World, ent ecs.Entity) {
			e.visuals.Set(ent, Visual{BoxVisible: e.state.DebugBoxes})
		},
	}

	cell := &ecs.Prefab{Name: "cell", Parent: visible}
	decoration := func(name string, k grid.Kind) *ecs.Prefab {
		return &ecs.Prefab{
			Name:   name,
			Parent: cell,
			Stamp: func(w *ecs.World, ent ecs.Entity) {
				e.decorations.Set(ent, Decoration{Kind: k})
			},
		}
	}

	return archetypes{
		cell:  cell,
		floor: decoration("floor", grid.Floor),
		wall:  decoration("wall", grid.Wall),
		rock:  decoration("rock", grid.Rock),
		character: &ecs.Prefab{
			Name:   "character",
			Parent: visible,
			Stamp: func(w *ecs.World, ent ecs.Entity) {
				e.characters.Set(ent, Character{})
				e.movers.Set(ent, Mover{DefaultCooldown: e.Config.MoveCooldown})
				e.inventories.Set(ent, BombInventory{
					Count:    e.Config.BombCapacity,
					MaxCount: e.Config.BombCapacity,
				})
			},
		},
		bomb: &ecs.Prefab{
			Name:   "bomb",
			Parent: visible,
			Stamp: func(w *ecs.World, ent ecs.Entity) {
				e.bombs.Set(ent, Bomb{})
				e.lifetime.Start(ent, e.Config.BombFuse, detonator{e})
			},
		},
		explosion: &ecs.Prefab{
			Name:   "explosion",
			Parent: visible,
			Stamp: func(w *ecs.World, ent ecs.Entity) {
				e.explosions.Set(ent, Explosion{})
				e.lifetime.Start(ent, e.Config.ExplosionTicks, nil)
			},
		},
	}
}

func (a archetypes) decorationFor(k grid.Kind) *ecs.Prefab {
	switch k {
	case grid.Wall:
		return a.wall
	case grid.Rock:
		return a.rock
	}
	return a.floor
}

// detonator is the expiry callback shared by every bomb.
type detonator struct {
	engine *Engine
}

func (d detonator) Expire(ent ecs.Entity) {
	d.engine.detonate(ent)
}

var _ lifetime.Expirer = detonator{}
