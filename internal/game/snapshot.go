package game

import (
	"fmt"
	"io"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/amalg/gridbomber/internal/ecs"
	"github.com/amalg/gridbomber/internal/grid"
)

// Snapshot is a deep copy of everything a renderer needs for one frame.
type Snapshot struct {
	Session            string          `msgpack:"session"`
	Tick               uint64          `msgpack:"tick"`
	Width              int             `msgpack:"width"`
	Height             int             `msgpack:"height"`
	CellSize           int             `msgpack:"cell_size"`
	Tiles              [][]grid.Kind   `msgpack:"tiles"`
	Characters         []CharacterView `msgpack:"characters"`
	Bombs              []TimedView     `msgpack:"bombs"`
	Explosions         []TimedView     `msgpack:"explosions"`
	ShowBoxes          bool            `msgpack:"show_boxes"`
	RegenerateBackdrop bool            `msgpack:"regenerate_backdrop"`
	Changed            int             `msgpack:"changed"`
}

// CharacterView is a character as seen by a renderer.
type CharacterView struct {
	Slot     int        `msgpack:"slot"`
	Pos      Position   `msgpack:"pos"`
	Pixel    mgl64.Vec2 `msgpack:"pixel"`
	Bombs    int        `msgpack:"bombs"`
	MaxBombs int        `msgpack:"max_bombs"`
	Cooldown int        `msgpack:"cooldown"`
}

// TimedView is a bomb or explosion as seen by a renderer.
type TimedView struct {
	Pos       Position   `msgpack:"pos"`
	Pixel     mgl64.Vec2 `msgpack:"pixel"`
	Remaining int        `msgpack:"remaining"`
	Slot      int        `msgpack:"slot"` // instigator slot, -1 if unknown
}

// Snapshot copies the current state for rendering.
func (e *Engine) Snapshot() Snapshot {
	s := Snapshot{
		Session:   e.ID.String(),
		Tick:      e.state.Tick,
		Width:     e.Grid.Width(),
		Height:    e.Grid.Height(),
		CellSize:  e.Config.CellSize,
		Tiles:     e.Grid.Kinds(),
		ShowBoxes: e.state.DebugBoxes,
		Changed:   e.World.ChangedCount(),
	}

	// every character, bound or not, in spawn order
	e.characters.Each(func(ent ecs.Entity, ch *Character) {
		pos, _ := e.positions.Get(ent)
		inv, _ := e.inventories.Get(ent)
		mv, _ := e.movers.Get(ent)
		s.Characters = append(s.Characters, CharacterView{
			Slot:     ch.Slot,
			Pos:      pos,
			Pixel:    grid.ToPixel(pos.X, pos.Y, e.Config.CellSize),
			Bombs:    inv.Count,
			MaxBombs: inv.MaxCount,
			Cooldown: mv.Cooldown,
		})
	})

	s.Bombs = e.timedViews(e.bombs.Entities())
	s.Explosions = e.timedViews(e.explosions.Entities())

	e.visuals.Each(func(_ ecs.Entity, v *Visual) {
		if v.RegenerateBackdrop {
			s.RegenerateBackdrop = true
		}
	})
	return s
}

func (e *Engine) timedViews(ents []ecs.Entity) []TimedView {
	out := make([]TimedView, 0, len(ents))
	for _, ent := range ents {
		pos, _ := e.positions.Get(ent)
		remaining, _ := e.lifetime.Remaining(ent)
		v := TimedView{
			Pos:       pos,
			Pixel:     grid.ToPixel(pos.X, pos.Y, e.Config.CellSize),
			Remaining: remaining,
			Slot:      -1,
		}
		if inst, ok := e.World.Target(ent, Instigator); ok {
			if ch, ok := e.characters.Get(inst); ok {
				v.Slot = ch.Slot
			}
		}
		out = append(out, v)
	}
	return out
}

// EncodeSnapshot writes s as msgpack, for renderers running out of process
// and for debugging dumps.
func EncodeSnapshot(w io.Writer, s Snapshot) error {
	if err := msgpack.NewEncoder(w).Encode(&s); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return nil
}

// DecodeSnapshot reads a snapshot written by EncodeSnapshot.
func DecodeSnapshot(r io.Reader) (Snapshot, error) {
	var s Snapshot
	if err := msgpack.NewDecoder(r).Decode(&s); err != nil {
		return Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return s, nil
}
