// Package grid is the fixed-size cell store shared by every subsystem of a
// tick: blocking, bomb occupancy and render decorations per coordinate.
package grid

import (
	"errors"
	"fmt"

	"github.com/zyedidia/generic/mapset"

	"github.com/amalg/gridbomber/internal/ecs"
)

// ErrOutOfBounds is returned for coordinates outside the grid.
var ErrOutOfBounds = errors.New("out of bounds")

// Kind is what occupies a cell at load time.
type Kind int

const (
	Floor Kind = iota
	Wall       // permanent
	Rock       // destructible
)

func (k Kind) String() string {
	switch k {
	case Floor:
		return "floor"
	case Wall:
		return "wall"
	case Rock:
		return "rock"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Cell is the state record of one coordinate.
type Cell struct {
	X, Y    int
	Kind    Kind
	Blocked bool
	HasBomb bool

	decorations mapset.Set[ecs.Entity]
}

// Grid is a dense W×H array of cells. It is never resized after construction.
type Grid struct {
	width  int
	height int
	cells  []Cell
}

// New creates a grid of open floor cells.
func New(width, height int) *Grid {
	if width <= 0 || height <= 0 {
		panic(fmt.Sprintf("grid: invalid dimensions %dx%d", width, height))
	}
	g := &Grid{
		width:  width,
		height: height,
		cells:  make([]Cell, width*height),
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			g.cells[y*width+x] = Cell{X: x, Y: y, decorations: mapset.New[ecs.Entity]()}
		}
	}
	return g
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.height }

// InBounds reports whether (x,y) lies in [0,W)×[0,H).
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.width && y >= 0 && y < g.height
}

// CellAt returns the cell record at (x,y).
func (g *Grid) CellAt(x, y int) (*Cell, error) {
	if !g.InBounds(x, y) {
		return nil, fmt.Errorf("cell (%d,%d) in %dx%d grid: %w", x, y, g.width, g.height, ErrOutOfBounds)
	}
	return &g.cells[y*g.width+x], nil
}

// mustCell is for callers that have already checked bounds.
func (g *Grid) mustCell(x, y int) *Cell {
	c, err := g.CellAt(x, y)
	if err != nil {
		panic(err)
	}
	return c
}

// IsBlocked reports whether (x,y) blocks movement and blasts.
// Coordinates outside the grid read as blocked.
func (g *Grid) IsBlocked(x, y int) bool {
	if !g.InBounds(x, y) {
		return true
	}
	return g.mustCell(x, y).Blocked
}

// HasBomb reports whether an armed bomb occupies (x,y).
func (g *Grid) HasBomb(x, y int) bool {
	if !g.InBounds(x, y) {
		return false
	}
	return g.mustCell(x, y).HasBomb
}

// KindAt returns the kind of (x,y), or Wall outside the grid.
func (g *Grid) KindAt(x, y int) Kind {
	if !g.InBounds(x, y) {
		return Wall
	}
	return g.mustCell(x, y).Kind
}

// SetBlocked sets the blocking flag of (x,y).
func (g *Grid) SetBlocked(x, y int, blocked bool) error {
	c, err := g.CellAt(x, y)
	if err != nil {
		return err
	}
	c.Blocked = blocked
	return nil
}

// SetHasBomb sets the armed-bomb flag of (x,y).
func (g *Grid) SetHasBomb(x, y int, armed bool) error {
	c, err := g.CellAt(x, y)
	if err != nil {
		return err
	}
	c.HasBomb = armed
	return nil
}

// SetKind changes what occupies (x,y). Walls and rocks block, floor does not.
func (g *Grid) SetKind(x, y int, k Kind) error {
	c, err := g.CellAt(x, y)
	if err != nil {
		return err
	}
	c.Kind = k
	c.Blocked = k != Floor
	return nil
}

// mustSetKind is SetKind for coordinates the caller has already checked.
func (g *Grid) mustSetKind(x, y int, k Kind) {
	if err := g.SetKind(x, y, k); err != nil {
		panic(err)
	}
}

// Decorate attaches a render-only entity to (x,y).
func (g *Grid) Decorate(x, y int, e ecs.Entity) error {
	c, err := g.CellAt(x, y)
	if err != nil {
		return err
	}
	c.decorations.Put(e)
	return nil
}

// Undecorate detaches a render-only entity from (x,y).
func (g *Grid) Undecorate(x, y int, e ecs.Entity) error {
	c, err := g.CellAt(x, y)
	if err != nil {
		return err
	}
	c.decorations.Remove(e)
	return nil
}

// Decorations returns the render-only entities attached to (x,y).
func (g *Grid) Decorations(x, y int) []ecs.Entity {
	c, err := g.CellAt(x, y)
	if err != nil {
		return nil
	}
	out := make([]ecs.Entity, 0, c.decorations.Size())
	c.decorations.Each(func(e ecs.Entity) {
		out = append(out, e)
	})
	return out
}

// Each calls fn for every cell in row-major order.
func (g *Grid) Each(fn func(c *Cell)) {
	for i := range g.cells {
		fn(&g.cells[i])
	}
}

// Kinds returns a row-major copy of every cell's kind.
func (g *Grid) Kinds() [][]Kind {
	out := make([][]Kind, g.height)
	for y := 0; y < g.height; y++ {
		out[y] = make([]Kind, g.width)
		for x := 0; x < g.width; x++ {
			out[y][x] = g.cells[y*g.width+x].Kind
		}
	}
	return out
}
