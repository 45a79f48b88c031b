package game

import (
	"fmt"

	"github.com/amalg/gridbomber/internal/ecs"
)

// TryMove attempts to step a character by delta and reports whether it moved.
//
// Legality is checked before timing: a target outside the grid or on a
// blocked cell is rejected without touching the cooldown. A legal step with
// a pending cooldown consumes one unit of it instead of moving, which keeps
// the movement cadence steady while a direction is held.
func (e *Engine) TryMove(ch ecs.Entity, delta Position) bool {
	pos := e.positions.GetMut(ch)
	mv := e.movers.GetMut(ch)
	if pos == nil || mv == nil {
		panic(fmt.Sprintf("game: TryMove on entity %d without position or mover", ch))
	}
	mv.Delta = delta

	if delta == (Position{}) {
		return false
	}
	if !delta.IsStep() {
		e.log.Debug("move rejected: not a unit step", "entity", ch, "dx", delta.X, "dy", delta.Y)
		return false
	}

	target := pos.Add(delta)
	if !e.Grid.InBounds(target.X, target.Y) || e.Grid.IsBlocked(target.X, target.Y) {
		return false
	}

	if mv.Cooldown > 0 {
		mv.Cooldown--
		return false
	}

	*pos = target
	mv.Cooldown = mv.DefaultCooldown
	e.World.MarkChanged(ch)
	return true
}
