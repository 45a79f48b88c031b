package game

import (
	"github.com/amalg/gridbomber/internal/ecs"
	"github.com/amalg/gridbomber/internal/grid"
)

// Direction represents a movement direction.
type Direction int

const (
	DirUp Direction = iota
	DirDown
	DirLeft
	DirRight
)

// Delta returns the unit step of d.
func (d Direction) Delta() Position {
	switch d {
	case DirUp:
		return Position{X: 0, Y: -1}
	case DirDown:
		return Position{X: 0, Y: 1}
	case DirLeft:
		return Position{X: -1, Y: 0}
	case DirRight:
		return Position{X: 1, Y: 0}
	}
	return Position{}
}

func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	}
	return "none"
}

// directions is the blast arm order.
var directions = []Direction{DirUp, DirDown, DirLeft, DirRight}

// Position represents a coordinate on the grid. It doubles as the position
// component of every placed entity and as a movement delta.
type Position struct {
	X int `json:"x" msgpack:"x"`
	Y int `json:"y" msgpack:"y"`
}

// Add returns p translated by d.
func (p Position) Add(d Position) Position {
	return Position{X: p.X + d.X, Y: p.Y + d.Y}
}

// IsStep reports whether p is a single orthogonal step.
func (p Position) IsStep() bool {
	return (p.X == 0) != (p.Y == 0) && abs(p.X)+abs(p.Y) == 1
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Character marks a controllable actor.
type Character struct {
	Slot int
}

// Mover gates movement. Cooldown must reach zero before a step applies.
type Mover struct {
	Cooldown        int
	DefaultCooldown int
	Delta           Position // last requested delta
}

// BombInventory tracks how many bombs a character may still place.
type BombInventory struct {
	Count    int
	MaxCount int
}

// Bomb marks an armed bomb.
type Bomb struct{}

// Explosion marks a blast cell.
type Explosion struct{}

// Decoration is a render-only entity attached to a grid cell.
type Decoration struct {
	Kind grid.Kind
}

// Visual holds renderer-facing flags. They never affect the simulation.
type Visual struct {
	BoxVisible         bool
	RegenerateBackdrop bool
}

// Instigator relates a bomb or explosion to the character that placed it.
const Instigator ecs.Relation = "instigator"

// GameState is the world-wide singleton.
type GameState struct {
	Tick       uint64
	DebugBoxes bool
}
