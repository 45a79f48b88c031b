package ui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/amalg/gridbomber/internal/game"
	"github.com/amalg/gridbomber/internal/grid"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	g, err := grid.FromLayout(
		"0000000",
		"0000000",
		"0020000",
		"0000000",
		"0000000",
	)
	if err != nil {
		t.Fatal(err)
	}
	config := game.DefaultConfig()
	config.MoveCooldown = 0
	config.TickRate = 20
	engine, err := game.NewEngine(config, g, game.WithoutPlayers())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := engine.AddCharacter(0, game.Position{X: 0, Y: 0}); err != nil {
		t.Fatal(err)
	}
	if _, err := engine.AddCharacter(1, game.Position{X: 6, Y: 4}); err != nil {
		t.Fatal(err)
	}
	return NewModel(engine)
}

func press(m Model, key string) Model {
	var msg tea.KeyMsg
	switch key {
	case "up":
		msg = tea.KeyMsg{Type: tea.KeyUp}
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case " ":
		msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	next, _ := m.Update(msg)
	return next.(Model)
}

func frame(m Model) Model {
	next, _ := m.Update(frameMsg(time.Now()))
	return next.(Model)
}

func TestKeysDriveSlots(t *testing.T) {
	m := newTestModel(t)

	m = press(m, "d")
	m = press(m, "up")
	m = frame(m)

	p1, _ := m.engine.Position(m.engine.Controller(0).Pawn())
	p2, _ := m.engine.Position(m.engine.Controller(1).Pawn())
	if p1 != (game.Position{X: 1, Y: 0}) {
		t.Errorf("P1 expected at (1,0), got %v", p1)
	}
	if p2 != (game.Position{X: 6, Y: 3}) {
		t.Errorf("P2 expected at (6,3), got %v", p2)
	}

	m = press(m, " ")
	m = press(m, "enter")
	m = frame(m)
	if n := len(m.snapshot.Bombs); n != 2 {
		t.Errorf("expected 2 bombs, got %d", n)
	}
}

func TestHoldCoversInitialRepeatDelay(t *testing.T) {
	m := newTestModel(t)
	pawn := m.engine.Controller(0).Pawn()
	k := heldKey{slot: 0, dir: game.DirDown}

	// 20 ticks per second: 10 frames before the first repeat, 3 after
	if m.firstHold != 10 || m.repeatHold != 3 {
		t.Fatalf("unexpected hold windows: first %d repeat %d", m.firstHold, m.repeatHold)
	}

	// a held key stays quiet for ~400ms before the terminal repeats it
	m = press(m, "s")
	for i := 0; i < 8; i++ {
		m = frame(m)
	}
	if _, ok := m.held[k]; !ok {
		t.Fatal("key released before the first repeat could arrive")
	}
	m = press(m, "s")
	if h := m.held[k]; !h.repeated {
		t.Error("second event should count as a repeat")
	}
	m = frame(m)
	if pos, _ := m.engine.Position(pawn); pos != (game.Position{X: 0, Y: 4}) {
		t.Errorf("expected continuous movement to (0,4), got %v", pos)
	}
}

func TestHoldWindowReleases(t *testing.T) {
	m := newTestModel(t)
	k := heldKey{slot: 0, dir: game.DirRight}

	// a lone press is released once the first window passes
	m = press(m, "d")
	for i := 0; i < 11; i++ {
		m = frame(m)
	}
	if _, ok := m.held[k]; !ok {
		t.Fatal("lone press released inside the first window")
	}
	m = frame(m)
	if len(m.held) != 0 {
		t.Fatalf("lone press should be released, %d keys held", len(m.held))
	}

	// once repeats flow, a gap longer than the repeat window releases
	pawn := m.engine.Controller(1).Pawn()
	start, _ := m.engine.Position(pawn)
	up := heldKey{slot: 1, dir: game.DirUp}
	m = press(m, "up")
	m = frame(m)
	m = press(m, "up")
	for i := 0; i < 4; i++ {
		m = frame(m)
	}
	if _, ok := m.held[up]; !ok {
		t.Fatal("repeated key released inside the repeat window")
	}
	m = frame(m)
	if _, ok := m.held[up]; ok {
		t.Fatal("repeated key should be released after the gap")
	}

	pos, _ := m.engine.Position(pawn)
	if pos.X != start.X || pos.Y >= start.Y {
		t.Errorf("expected upward movement from %v, got %v", start, pos)
	}
	m = frame(m)
	if again, _ := m.engine.Position(pawn); again != pos {
		t.Errorf("character kept moving after release: %v", again)
	}
}

func TestToggleAndBackdrop(t *testing.T) {
	m := newTestModel(t)
	m = frame(m)
	rebuilds := m.renderer.Rebuilds

	m = press(m, "b")
	m = frame(m)
	if !m.snapshot.ShowBoxes {
		t.Fatal("boxes should be on")
	}
	if m.renderer.Rebuilds != rebuilds+1 {
		t.Errorf("expected one rebuild, got %d", m.renderer.Rebuilds-rebuilds)
	}

	// the model acknowledged the rebuild
	m = frame(m)
	if m.snapshot.RegenerateBackdrop {
		t.Error("backdrop flag should be cleared after acknowledgement")
	}
	if m.renderer.Rebuilds != rebuilds+1 {
		t.Error("backdrop rebuilt without a request")
	}
	if !strings.Contains(m.View(), "[]") {
		t.Error("box glyphs should be drawn on floor")
	}
}

func TestMouseInspect(t *testing.T) {
	m := newTestModel(t)
	m = frame(m)

	// column 5 row 2 is cell (2,2)
	next, _ := m.Update(tea.MouseMsg{X: 5, Y: 2, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	m = next.(Model)
	m.engine.Tick()

	d := m.engine.Grid.Decorations(2, 2)[0]
	if !m.engine.World.Changed(d) {
		t.Error("clicked cell should be marked changed")
	}
}

func TestCellPixel(t *testing.T) {
	p := CellPixel(5, 2, 32)
	x, y := grid.FromPixel(p, 32)
	if x != 2 || y != 2 {
		t.Errorf("expected cell (2,2), got (%d,%d)", x, y)
	}
}

func TestQuit(t *testing.T) {
	m := newTestModel(t)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil || !next.(Model).quitting {
		t.Error("q should quit")
	}
}

func TestBoardLayout(t *testing.T) {
	m := newTestModel(t)
	m = frame(m)

	board := m.renderer.Board(m.snapshot)
	lines := strings.Split(board, "\n")
	if len(lines) != 5 {
		t.Fatalf("expected 5 rows, got %d", len(lines))
	}
	if !strings.Contains(lines[0], "P1") || !strings.Contains(lines[4], "P2") {
		t.Error("characters missing from the board")
	}
	if !strings.Contains(lines[2], "▒▒") {
		t.Error("rock missing from row 2")
	}
	if !strings.Contains(HUD(m.snapshot), "bombs 2/2") {
		t.Error("HUD should list inventories")
	}
}
