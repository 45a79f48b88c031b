package game

import (
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"

	"github.com/google/uuid"

	"github.com/amalg/gridbomber/internal/ecs"
	"github.com/amalg/gridbomber/internal/grid"
	"github.com/amalg/gridbomber/internal/lifetime"
)

// Engine is the authoritative simulation of one session. It owns the world,
// the grid and the controllers; nothing in it is global. Not safe for
// concurrent use: drive Enqueue and Tick from one goroutine.
type Engine struct {
	ID     uuid.UUID
	Config Config
	World  *ecs.World
	Grid   *grid.Grid

	controllers []*Controller
	pending     []Input
	scheduler   *ecs.Scheduler
	lifetime    *lifetime.Manager
	archetypes  archetypes
	state       *GameState
	log         *slog.Logger

	positions   *ecs.Store[Position]
	characters  *ecs.Store[Character]
	movers      *ecs.Store[Mover]
	inventories *ecs.Store[BombInventory]
	bombs       *ecs.Store[Bomb]
	explosions  *ecs.Store[Explosion]
	decorations *ecs.Store[Decoration]
	visuals     *ecs.Store[Visual]
}

// Option customises NewEngine.
type Option func(*Engine)

// WithLogger routes engine logs to l.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.log = l
	}
}

// WithoutPlayers skips spawning characters, for callers that place them
// with AddCharacter.
func WithoutPlayers() Option {
	return func(e *Engine) {
		e.Config.Players = 0
	}
}

// NewEngine creates a session on g. A nil grid generates the classic layout
// from the config. The grid's dimensions win over the configured ones.
func NewEngine(config Config, g *grid.Grid, opts ...Option) (*Engine, error) {
	if g != nil {
		config.Width = g.Width()
		config.Height = g.Height()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if g == nil {
		rng := rand.New(rand.NewPCG(config.Seed, config.Seed^0x9e3779b97f4a7c15))
		g = grid.Classic(config.Width, config.Height, config.RockDensity, rng)
	}

	w := ecs.NewWorld()
	e := &Engine{
		ID:          uuid.New(),
		Config:      config,
		World:       w,
		Grid:        g,
		scheduler:   ecs.NewScheduler(),
		state:       ecs.Singleton[GameState](w),
		log:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		positions:   ecs.StoreOf[Position](w),
		characters:  ecs.StoreOf[Character](w),
		movers:      ecs.StoreOf[Mover](w),
		inventories: ecs.StoreOf[BombInventory](w),
		bombs:       ecs.StoreOf[Bomb](w),
		explosions:  ecs.StoreOf[Explosion](w),
		decorations: ecs.StoreOf[Decoration](w),
		visuals:     ecs.StoreOf[Visual](w),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.log = e.log.With("session", e.ID.String())
	e.lifetime = lifetime.New(w, e.log)
	e.archetypes = e.buildArchetypes()

	e.scheduler.Add(ecs.SystemFunc{In: ecs.PhaseInput, Fn: e.applyInput})
	e.scheduler.Add(ecs.SystemFunc{In: ecs.PhaseMovement, Fn: e.resolveMovement})
	e.scheduler.Add(e.lifetime)

	e.decorate()
	if err := e.spawnPlayers(); err != nil {
		return nil, err
	}

	e.log.Info("session created",
		"width", g.Width(), "height", g.Height(), "players", len(e.controllers))
	return e, nil
}

// decorate stamps one render entity per cell.
func (e *Engine) decorate() {
	e.Grid.Each(func(c *grid.Cell) {
		e.addDecoration(c.X, c.Y, c.Kind)
	})
}

func (e *Engine) addDecoration(x, y int, k grid.Kind) ecs.Entity {
	d := e.World.Spawn(e.archetypes.decorationFor(k))
	e.positions.Set(d, Position{X: x, Y: y})
	if err := e.Grid.Decorate(x, y, d); err != nil {
		panic(err)
	}
	return d
}

// spawnPlayers places one character per configured slot on the spawn
// corners, falling back to the first open cell when a corner is blocked.
func (e *Engine) spawnPlayers() error {
	taken := make(map[Position]bool)
	spawns := grid.SpawnPositions(e.Grid.Width(), e.Grid.Height())

	for slot := 0; slot < e.Config.Players; slot++ {
		pos, ok := e.findSpawn(spawns[slot%len(spawns)], taken)
		if !ok {
			return fmt.Errorf("no open cell to spawn player %d", slot)
		}
		taken[pos] = true
		if _, err := e.AddCharacter(slot, pos); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) findSpawn(preferred [2]int, taken map[Position]bool) (Position, bool) {
	p := Position{X: preferred[0], Y: preferred[1]}
	if e.Grid.InBounds(p.X, p.Y) && !e.Grid.IsBlocked(p.X, p.Y) && !taken[p] {
		return p, true
	}
	for y := 0; y < e.Grid.Height(); y++ {
		for x := 0; x < e.Grid.Width(); x++ {
			p := Position{X: x, Y: y}
			if !e.Grid.IsBlocked(x, y) && !taken[p] {
				return p, true
			}
		}
	}
	return Position{}, false
}

// AddCharacter spawns a character at pos and binds it to the controller of
// slot, creating the controller if needed.
func (e *Engine) AddCharacter(slot int, pos Position) (ecs.Entity, error) {
	if slot < 0 || slot >= MaxPlayers {
		return ecs.Nil, fmt.Errorf("slot %d out of range [0,%d)", slot, MaxPlayers)
	}
	if _, err := e.Grid.CellAt(pos.X, pos.Y); err != nil {
		return ecs.Nil, fmt.Errorf("spawn player %d: %w", slot, err)
	}
	if e.Grid.IsBlocked(pos.X, pos.Y) {
		return ecs.Nil, fmt.Errorf("spawn player %d: cell (%d,%d) is blocked", slot, pos.X, pos.Y)
	}

	ch := e.World.Spawn(e.archetypes.character)
	e.characters.GetMut(ch).Slot = slot
	e.positions.Set(ch, pos)

	for len(e.controllers) <= slot {
		e.controllers = append(e.controllers, &Controller{Slot: len(e.controllers)})
	}
	if err := e.Bind(slot, ch); err != nil {
		return ecs.Nil, err
	}
	e.log.Debug("character spawned", "slot", slot, "x", pos.X, "y", pos.Y)
	return ch, nil
}

// Bind makes pawn the character driven by the controller of slot.
func (e *Engine) Bind(slot int, pawn ecs.Entity) error {
	c := e.Controller(slot)
	if c == nil {
		return fmt.Errorf("no controller for slot %d", slot)
	}
	if !e.characters.Has(pawn) || !e.positions.Has(pawn) || !e.movers.Has(pawn) || !e.inventories.Has(pawn) {
		return fmt.Errorf("entity %d is not a character", pawn)
	}
	c.pawn = pawn
	return nil
}

// Controller returns the controller of slot, or nil.
func (e *Engine) Controller(slot int) *Controller {
	if slot < 0 || slot >= len(e.controllers) {
		return nil
	}
	return e.controllers[slot]
}

// Controllers returns every controller in slot order.
func (e *Engine) Controllers() []*Controller {
	return e.controllers
}

// Enqueue queues an input event for the next tick.
func (e *Engine) Enqueue(in Input) {
	e.pending = append(e.pending, in)
}

// Tick processes one frame: input, movement, then timed entities.
func (e *Engine) Tick() {
	e.scheduler.Run()
	e.state.Tick++
}

// TickCount returns the number of completed ticks.
func (e *Engine) TickCount() uint64 {
	return e.state.Tick
}

// Position returns the grid position of ent.
func (e *Engine) Position(ent ecs.Entity) (Position, bool) {
	return e.positions.Get(ent)
}

// Inventory returns the bomb inventory of a character.
func (e *Engine) Inventory(ent ecs.Entity) (BombInventory, bool) {
	return e.inventories.Get(ent)
}

// Mover returns the movement state of a character.
func (e *Engine) Mover(ent ecs.Entity) (Mover, bool) {
	return e.movers.Get(ent)
}

// Bombs returns every armed bomb.
func (e *Engine) Bombs() []ecs.Entity {
	return e.bombs.Entities()
}

// Explosions returns every live explosion.
func (e *Engine) Explosions() []ecs.Entity {
	return e.explosions.Entities()
}

// Visual returns the render flags of ent.
func (e *Engine) Visual(ent ecs.Entity) (Visual, bool) {
	return e.visuals.Get(ent)
}

// AckBackdrop clears every regenerate-backdrop flag once a renderer has
// rebuilt its cached backdrop.
func (e *Engine) AckBackdrop() {
	e.visuals.Each(func(_ ecs.Entity, v *Visual) {
		v.RegenerateBackdrop = false
	})
}

func (e *Engine) resolveMovement() {
	for _, c := range e.controllers {
		if c.pawn == ecs.Nil || !e.World.Alive(c.pawn) {
			continue
		}
		e.TryMove(c.pawn, c.Desired())
	}
}
