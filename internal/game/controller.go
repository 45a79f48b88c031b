package game

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/amalg/gridbomber/internal/ecs"
	"github.com/amalg/gridbomber/internal/grid"
)

// KeyState is the debounced state of an input source.
type KeyState int

const (
	Pressed KeyState = iota
	Held
	Released
)

// InputKind represents the type of player input.
type InputKind int

const (
	InputMove InputKind = iota
	InputPlaceBomb
	InputToggleBoxes
	InputMouse
)

// Input is one normalised input event for a player slot.
type Input struct {
	Slot  int
	Kind  InputKind
	Dir   Direction  // InputMove only
	State KeyState   // InputMove and InputMouse
	Pixel mgl64.Vec2 // InputMouse only
}

// MoveInput builds a directional input.
func MoveInput(slot int, dir Direction, state KeyState) Input {
	return Input{Slot: slot, Kind: InputMove, Dir: dir, State: state}
}

// PlaceBombInput builds a bomb placement request.
func PlaceBombInput(slot int) Input {
	return Input{Slot: slot, Kind: InputPlaceBomb, State: Pressed}
}

// ToggleBoxesInput builds a debug box visualisation toggle.
func ToggleBoxesInput(slot int) Input {
	return Input{Slot: slot, Kind: InputToggleBoxes, State: Pressed}
}

// MouseInput builds a mouse event at a pixel position.
func MouseInput(slot int, pixel mgl64.Vec2, state KeyState) Input {
	return Input{Slot: slot, Kind: InputMouse, Pixel: pixel, State: state}
}

type axis int

const (
	axisNone axis = iota
	axisX
	axisY
)

// Controller turns one player's input into a desired delta for the pawn it
// is bound to. The pawn may change without touching input handling.
type Controller struct {
	Slot int

	pawn ecs.Entity
	dx   int
	dy   int
	last axis
}

// Pawn returns the bound character, or ecs.Nil.
func (c *Controller) Pawn() ecs.Entity {
	return c.pawn
}

// Desired returns this frame's movement delta. When both axes were set the
// one written last wins, since diagonal steps are not modeled.
func (c *Controller) Desired() Position {
	switch {
	case c.dx != 0 && c.dy != 0 && c.last == axisY:
		return Position{Y: c.dy}
	case c.dx != 0:
		return Position{X: c.dx}
	default:
		return Position{Y: c.dy}
	}
}

func (c *Controller) reset() {
	c.dx, c.dy = 0, 0
	c.last = axisNone
}

func (c *Controller) push(d Direction) {
	step := d.Delta()
	if step.X != 0 {
		c.dx = step.X
		c.last = axisX
	}
	if step.Y != 0 {
		c.dy = step.Y
		c.last = axisY
	}
}

// applyInput is the input phase: clear every controller, then replay the
// queued events in arrival order.
func (e *Engine) applyInput() {
	for _, c := range e.controllers {
		c.reset()
	}
	pending := e.pending
	e.pending = nil
	for _, in := range pending {
		e.apply(in)
	}
}

func (e *Engine) apply(in Input) {
	c := e.Controller(in.Slot)
	if c == nil {
		e.log.Debug("input dropped: unknown slot", "slot", in.Slot)
		return
	}

	switch in.Kind {
	case InputMove:
		// release needs no work: the delta was cleared at frame start
		if in.State == Pressed || in.State == Held {
			c.push(in.Dir)
		}
	case InputPlaceBomb:
		e.TryPlaceBomb(c)
	case InputToggleBoxes:
		if in.State == Pressed {
			e.toggleBoxes()
		}
	case InputMouse:
		if in.State == Pressed {
			e.inspect(in.Pixel)
		}
	}
}

// toggleBoxes flips debug box visibility on every visible entity and asks
// renderers to rebuild their cached backdrop.
func (e *Engine) toggleBoxes() {
	e.state.DebugBoxes = !e.state.DebugBoxes
	e.visuals.Each(func(ent ecs.Entity, v *Visual) {
		v.BoxVisible = e.state.DebugBoxes
		v.RegenerateBackdrop = true
		e.World.MarkChanged(ent)
	})
	e.log.Debug("debug boxes toggled", "visible", e.state.DebugBoxes)
}

// inspect logs the cell under a pixel and flags its decorations for redraw.
func (e *Engine) inspect(pixel mgl64.Vec2) {
	x, y := grid.FromPixel(pixel, e.Config.CellSize)
	c, err := e.Grid.CellAt(x, y)
	if err != nil {
		e.log.Debug("inspect outside grid", "px", pixel.X(), "py", pixel.Y())
		return
	}
	for _, d := range e.Grid.Decorations(x, y) {
		e.World.MarkChanged(d)
	}
	e.log.Debug("inspect cell",
		"x", x, "y", y, "kind", c.Kind.String(), "blocked", c.Blocked, "bomb", c.HasBomb)
}
