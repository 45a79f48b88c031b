package game

import (
	"fmt"

	"github.com/amalg/gridbomber/internal/ecs"
	"github.com/amalg/gridbomber/internal/grid"
)

// TryPlaceBomb arms a bomb under the controller's pawn.
// Running out of bombs or standing on an armed cell is an ordinary outcome:
// it returns false and leaves all state untouched.
func (e *Engine) TryPlaceBomb(c *Controller) bool {
	if c == nil || c.pawn == ecs.Nil || !e.World.Alive(c.pawn) {
		e.log.Debug("bomb rejected: no pawn bound")
		return false
	}
	pawn := c.pawn

	pos, ok := e.positions.Get(pawn)
	inv := e.inventories.GetMut(pawn)
	if !ok || inv == nil {
		panic(fmt.Sprintf("game: pawn %d has no position or inventory", pawn))
	}

	if inv.Count <= 0 {
		e.log.Debug("bomb rejected: none left", "slot", c.Slot, "max", inv.MaxCount)
		return false
	}
	if e.Grid.HasBomb(pos.X, pos.Y) {
		e.log.Debug("bomb rejected: cell already armed", "slot", c.Slot, "x", pos.X, "y", pos.Y)
		return false
	}

	inv.Count--
	if err := e.Grid.SetHasBomb(pos.X, pos.Y, true); err != nil {
		panic(err)
	}

	b := e.World.Spawn(e.archetypes.bomb)
	e.positions.Set(b, pos)
	e.World.Relate(b, Instigator, pawn)

	e.World.MarkChanged(pawn)
	e.World.MarkChanged(b)
	e.log.Debug("bomb placed", "slot", c.Slot, "x", pos.X, "y", pos.Y, "left", inv.Count)
	return true
}

// detonate runs when a bomb's fuse expires: spawn the blast, give the bomb
// back to whoever placed it, then disarm the cell.
func (e *Engine) detonate(b ecs.Entity) {
	origin, ok := e.positions.Get(b)
	if !ok {
		panic(fmt.Sprintf("game: bomb %d has no position", b))
	}
	instigator, hasInstigator := e.World.Target(b, Instigator)

	cells, obstacles := BlastPattern(e.Grid, origin, e.Config.BombRadius)
	for _, p := range cells {
		x := e.World.Spawn(e.archetypes.explosion)
		e.positions.Set(x, p)
		if hasInstigator {
			e.World.Relate(x, Instigator, instigator)
		}
		e.World.MarkChanged(x)
	}
	if e.Config.DestroyRocks {
		for _, p := range obstacles {
			e.destroyRock(p)
		}
	}

	if hasInstigator {
		e.credit(instigator)
	}

	if err := e.Grid.SetHasBomb(origin.X, origin.Y, false); err != nil {
		panic(err)
	}
	e.log.Debug("bomb detonated", "x", origin.X, "y", origin.Y, "cells", len(cells))
}

// credit returns one bomb to the instigator, never above its capacity.
func (e *Engine) credit(instigator ecs.Entity) {
	inv := e.inventories.GetMut(instigator)
	if inv == nil {
		e.log.Debug("detonation credit dropped: instigator gone", "entity", instigator)
		return
	}
	if inv.Count >= inv.MaxCount {
		e.log.Debug("detonation credit capped", "entity", instigator, "max", inv.MaxCount)
		return
	}
	inv.Count++
	e.World.MarkChanged(instigator)
}

// destroyRock turns a rock into floor and swaps its decoration.
func (e *Engine) destroyRock(p Position) {
	if e.Grid.KindAt(p.X, p.Y) != grid.Rock {
		return
	}
	for _, d := range e.Grid.Decorations(p.X, p.Y) {
		if dec, ok := e.decorations.Get(d); ok && dec.Kind == grid.Rock {
			_ = e.Grid.Undecorate(p.X, p.Y, d)
			e.World.Destroy(d)
		}
	}
	if err := e.Grid.SetKind(p.X, p.Y, grid.Floor); err != nil {
		panic(err)
	}
	floor := e.addDecoration(p.X, p.Y, grid.Floor)
	e.visuals.GetMut(floor).RegenerateBackdrop = true
	e.World.MarkChanged(floor)
	e.log.Debug("rock destroyed", "x", p.X, "y", p.Y)
}

// BlastPattern computes the cross-shaped blast around origin.
//
// The center is included when open. Each arm walks outward up to radius
// cells and stops at the grid edge or at the first blocked cell; that
// blocked cell absorbs the blast and is returned in obstacles instead of
// cells. Arms never bend around corners.
func BlastPattern(g *grid.Grid, origin Position, radius int) (cells, obstacles []Position) {
	if g.InBounds(origin.X, origin.Y) && !g.IsBlocked(origin.X, origin.Y) {
		cells = append(cells, origin)
	}

	for _, d := range directions {
		step := d.Delta()
		for dist := 1; dist <= radius; dist++ {
			p := Position{
				X: origin.X + step.X*dist,
				Y: origin.Y + step.Y*dist,
			}
			if !g.InBounds(p.X, p.Y) {
				break
			}
			if g.IsBlocked(p.X, p.Y) {
				obstacles = append(obstacles, p)
				break
			}
			cells = append(cells, p)
		}
	}
	return cells, obstacles
}
