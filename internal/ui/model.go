package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/amalg/gridbomber/internal/game"
)

// frameMsg fires once per simulation tick.
type frameMsg time.Time

// binding is what a key does.
type binding struct {
	slot int
	kind game.InputKind
	dir  game.Direction
}

var keyBindings = map[string]binding{
	"w":     {slot: 0, kind: game.InputMove, dir: game.DirUp},
	"s":     {slot: 0, kind: game.InputMove, dir: game.DirDown},
	"a":     {slot: 0, kind: game.InputMove, dir: game.DirLeft},
	"d":     {slot: 0, kind: game.InputMove, dir: game.DirRight},
	" ":     {slot: 0, kind: game.InputPlaceBomb},
	"up":    {slot: 1, kind: game.InputMove, dir: game.DirUp},
	"down":  {slot: 1, kind: game.InputMove, dir: game.DirDown},
	"left":  {slot: 1, kind: game.InputMove, dir: game.DirLeft},
	"right": {slot: 1, kind: game.InputMove, dir: game.DirRight},
	"enter": {slot: 1, kind: game.InputPlaceBomb},
	"b":     {slot: 0, kind: game.InputToggleBoxes},
}

// heldKey identifies a direction held by one slot.
type heldKey struct {
	slot int
	dir  game.Direction
}

// holdState tracks the last key event of a held direction.
type holdState struct {
	seen     uint64 // frame of the last press or repeat
	repeated bool   // a repeat arrived after the first press
}

// Terminal key repeat starts after an initial delay (commonly 250-500ms)
// and then fires much faster. The first window has to cover that delay.
const (
	firstRepeatWait = 500 * time.Millisecond
	repeatWait      = 150 * time.Millisecond
)

// holdFrames converts a wait into whole frames at rate ticks per second.
func holdFrames(wait time.Duration, rate int) uint64 {
	return uint64(max(1, int(wait.Milliseconds())*rate/1000))
}

// Model is the Bubbletea model for a local session. It owns the engine and
// drives it from the frame timer, so the engine only ever sees one goroutine.
type Model struct {
	engine   *game.Engine
	renderer *Renderer
	snapshot game.Snapshot
	interval time.Duration

	// Terminals report key repeats but never key releases. A direction
	// counts as held until no repeat arrived within its hold window.
	held       map[heldKey]holdState
	firstHold  uint64
	repeatHold uint64
	frame      uint64

	quitting bool
}

// NewModel creates a TUI model around engine.
func NewModel(engine *game.Engine) Model {
	rate := engine.Config.TickRate
	return Model{
		engine:     engine,
		renderer:   NewRenderer(),
		snapshot:   engine.Snapshot(),
		interval:   time.Second / time.Duration(rate),
		held:       make(map[heldKey]holdState),
		firstHold:  holdFrames(firstRepeatWait, rate),
		repeatHold: holdFrames(repeatWait, rate),
	}
}

// Init starts the frame timer.
func (m Model) Init() tea.Cmd {
	return m.nextFrame()
}

func (m Model) nextFrame() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

// Update handles key presses, mouse clicks and frame ticks.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case frameMsg:
		m.step()
		return m, m.nextFrame()
	}

	return m, nil
}

// step runs one simulation tick and refreshes the snapshot.
func (m *Model) step() {
	m.refreshHeld()
	m.engine.Tick()
	m.frame++

	m.snapshot = m.engine.Snapshot()
	if m.renderer.Prepare(m.snapshot) {
		m.engine.AckBackdrop()
	}
	m.engine.World.DrainChanged()
}

// refreshHeld re-sends every held direction and releases the ones whose
// repeats stopped.
func (m *Model) refreshHeld() {
	for k, h := range m.held {
		window := m.firstHold
		if h.repeated {
			window = m.repeatHold
		}
		if m.frame-h.seen > window {
			m.engine.Enqueue(game.MoveInput(k.slot, k.dir, game.Released))
			delete(m.held, k)
			continue
		}
		if h.seen != m.frame {
			m.engine.Enqueue(game.MoveInput(k.slot, k.dir, game.Held))
		}
	}
}

// View renders the current game state.
func (m Model) View() string {
	if m.quitting {
		return "Goodbye!\n"
	}

	board := m.renderer.Board(m.snapshot)
	hud := HUD(m.snapshot)

	// Layout: board on the left, HUD on the right
	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		board,
		"  ",
		hud,
	) + "\n"
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "q", "ctrl+c", "esc":
		m.quitting = true
		return m, tea.Quit
	}

	b, ok := keyBindings[key]
	if !ok {
		return m, nil
	}

	switch b.kind {
	case game.InputMove:
		k := heldKey{slot: b.slot, dir: b.dir}
		state := game.Pressed
		_, repeat := m.held[k]
		if repeat {
			state = game.Held
		}
		m.held[k] = holdState{seen: m.frame, repeated: repeat}
		m.engine.Enqueue(game.MoveInput(b.slot, b.dir, state))
	case game.InputPlaceBomb:
		m.engine.Enqueue(game.PlaceBombInput(b.slot))
	case game.InputToggleBoxes:
		m.engine.Enqueue(game.ToggleBoxesInput(b.slot))
	}
	return m, nil
}

// handleMouse turns a left click on the board into an inspect request.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Button != tea.MouseButtonLeft || msg.Action == tea.MouseActionMotion {
		return m, nil
	}
	state := game.Pressed
	if msg.Action == tea.MouseActionRelease {
		state = game.Released
	}
	m.engine.Enqueue(game.MouseInput(0, CellPixel(msg.X, msg.Y, m.engine.Config.CellSize), state))
	return m, nil
}

// CellPixel maps a terminal column and row on the board to a pixel position.
func CellPixel(col, row, cellSize int) mgl64.Vec2 {
	return mgl64.Vec2{float64(col) / cellWidth, float64(row)}.Mul(float64(cellSize))
}
