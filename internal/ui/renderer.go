package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/amalg/gridbomber/internal/game"
	"github.com/amalg/gridbomber/internal/grid"
)

// Color palette
var (
	// Tile styles
	wallStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#3a3a3a")).
			Foreground(lipgloss.Color("#555555"))

	rockStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#8B6914")).
			Foreground(lipgloss.Color("#A0772B"))

	floorStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#1a1a2e")).
			Foreground(lipgloss.Color("#1a1a2e"))

	boxStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#1a1a2e")).
			Foreground(lipgloss.Color("#444466"))

	bombStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#1a1a2e")).
			Foreground(lipgloss.Color("#ff4444")).
			Bold(true)

	fireStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#ff6600")).
			Foreground(lipgloss.Color("#ffcc00")).
			Bold(true)

	// one color per slot
	playerColors = []lipgloss.Color{
		lipgloss.Color("#00ff88"),
		lipgloss.Color("#4488ff"),
		lipgloss.Color("#ff44ff"),
		lipgloss.Color("#ffff44"),
	}

	// HUD styles
	hudBorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444466")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ff8844")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
)

// cellWidth is the number of terminal columns per grid cell.
const cellWidth = 2

// Renderer draws snapshots. The static tiles are rendered once into a
// backdrop and only rebuilt when the snapshot asks for it.
type Renderer struct {
	backdrop [][]string
	width    int
	height   int

	// Rebuilds counts backdrop regenerations.
	Rebuilds int
}

// NewRenderer creates a renderer with an empty backdrop.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Prepare rebuilds the backdrop when s requests it or the grid size changed.
// It reports whether a rebuild happened, so the caller can acknowledge it.
func (r *Renderer) Prepare(s game.Snapshot) bool {
	if !s.RegenerateBackdrop && !r.stale(s) {
		return false
	}
	r.rebuild(s)
	return true
}

func (r *Renderer) stale(s game.Snapshot) bool {
	return r.backdrop == nil || r.width != s.Width || r.height != s.Height
}

func (r *Renderer) rebuild(s game.Snapshot) {
	r.width, r.height = s.Width, s.Height
	r.backdrop = make([][]string, s.Height)
	for y := 0; y < s.Height; y++ {
		r.backdrop[y] = make([]string, s.Width)
		for x := 0; x < s.Width; x++ {
			r.backdrop[y][x] = renderTile(s.Tiles[y][x], s.ShowBoxes)
		}
	}
	r.Rebuilds++
}

func renderTile(k grid.Kind, boxes bool) string {
	switch k {
	case grid.Wall:
		return wallStyle.Render("██")
	case grid.Rock:
		return rockStyle.Render("▒▒")
	}
	if boxes {
		return boxStyle.Render("[]")
	}
	return floorStyle.Render("  ")
}

// Board renders the grid with characters, bombs and explosions on top of
// the backdrop. Priority: character > explosion > bomb > tile.
func (r *Renderer) Board(s game.Snapshot) string {
	if s.Width == 0 || s.Height == 0 {
		return "Waiting for game state..."
	}
	if r.stale(s) {
		r.rebuild(s)
	}

	overlay := make(map[game.Position]string)
	for _, b := range s.Bombs {
		overlay[b.Pos] = bombStyle.Render(fuseGlyph(b.Remaining))
	}
	for _, x := range s.Explosions {
		overlay[x.Pos] = fireStyle.Render("░░")
	}
	for _, c := range s.Characters {
		overlay[c.Pos] = renderCharacter(c, s.ShowBoxes)
	}

	var rows []string
	for y := 0; y < s.Height; y++ {
		var b strings.Builder
		for x := 0; x < s.Width; x++ {
			if o, ok := overlay[game.Position{X: x, Y: y}]; ok {
				b.WriteString(o)
				continue
			}
			b.WriteString(r.backdrop[y][x])
		}
		rows = append(rows, b.String())
	}
	return strings.Join(rows, "\n")
}

func renderCharacter(c game.CharacterView, boxes bool) string {
	color := playerColors[c.Slot%len(playerColors)]
	style := lipgloss.NewStyle().
		Background(lipgloss.Color("#1a1a2e")).
		Foreground(color).
		Bold(true)
	if boxes {
		style = style.Underline(true)
	}
	return style.Render(fmt.Sprintf("P%d", c.Slot+1))
}

// fuseGlyph shows a bomb's remaining fuse as a single digit once it is
// close to going off.
func fuseGlyph(remaining int) string {
	if remaining < 10 {
		return fmt.Sprintf("(%d", remaining)
	}
	return "()"
}

// HUD renders the side panel with player info and controls.
func HUD(s game.Snapshot) string {
	var parts []string

	parts = append(parts, titleStyle.Render("BOMBERMAN"))
	parts = append(parts, dimStyle.Render(fmt.Sprintf("tick %d", s.Tick)))
	parts = append(parts, "")

	parts = append(parts, dimStyle.Render("Players:"))
	for _, c := range s.Characters {
		name := lipgloss.NewStyle().
			Foreground(playerColors[c.Slot%len(playerColors)]).
			Render(fmt.Sprintf("P%d", c.Slot+1))
		line := fmt.Sprintf("  %s (%d,%d) bombs %d/%d", name, c.Pos.X, c.Pos.Y, c.Bombs, c.MaxBombs)
		if s.ShowBoxes {
			line += fmt.Sprintf(" cd %d", c.Cooldown)
		}
		parts = append(parts, line)
	}

	parts = append(parts, "")
	parts = append(parts, fmt.Sprintf("bombs %d  blasts %d", len(s.Bombs), len(s.Explosions)))
	if s.ShowBoxes {
		parts = append(parts, dimStyle.Render(fmt.Sprintf("changed %d", s.Changed)))
	}

	parts = append(parts, "")
	parts = append(parts, dimStyle.Render("P1: WASD + Space | P2: Arrows + Enter"))
	parts = append(parts, dimStyle.Render("B: Boxes | Click: Inspect | Q: Quit"))

	return hudBorderStyle.Render(strings.Join(parts, "\n"))
}
