package game

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestControllerHoldAndRelease(t *testing.T) {
	config := testConfig()
	config.MoveCooldown = 0
	engine := newTestEngine(t, config, openRows(6, 3)...)
	ch := mustAddCharacter(t, engine, 0, Position{X: 0, Y: 1})

	engine.Enqueue(MoveInput(0, DirRight, Pressed))
	engine.Tick()
	engine.Enqueue(MoveInput(0, DirRight, Held))
	engine.Tick()
	engine.Enqueue(MoveInput(0, DirRight, Released))
	engine.Tick()
	// nothing queued: the delta does not stick
	engine.Tick()

	if pos, _ := engine.Position(ch); pos != (Position{X: 2, Y: 1}) {
		t.Errorf("expected (2,1), got %v", pos)
	}
	if d := engine.Controller(0).Desired(); d != (Position{}) {
		t.Errorf("released controller should want nothing, got %v", d)
	}
}

func TestControllerLastAxisWins(t *testing.T) {
	c := &Controller{}
	c.push(DirRight)
	c.push(DirUp)
	if d := c.Desired(); d != (Position{Y: -1}) {
		t.Errorf("expected up, got %v", d)
	}

	c.reset()
	c.push(DirDown)
	c.push(DirLeft)
	if d := c.Desired(); d != (Position{X: -1}) {
		t.Errorf("expected left, got %v", d)
	}

	c.reset()
	c.push(DirLeft)
	c.push(DirRight)
	if d := c.Desired(); d != (Position{X: 1}) {
		t.Errorf("opposite presses on one axis: expected right, got %v", d)
	}
}

func TestControllerDrivesReboundPawn(t *testing.T) {
	config := testConfig()
	config.MoveCooldown = 0
	engine := newTestEngine(t, config, openRows(5, 5)...)
	a := mustAddCharacter(t, engine, 0, Position{X: 0, Y: 0})
	b := mustAddCharacter(t, engine, 1, Position{X: 4, Y: 4})

	if err := engine.Bind(0, b); err != nil {
		t.Fatal(err)
	}
	engine.Enqueue(MoveInput(0, DirUp, Pressed))
	engine.Tick()

	if pos, _ := engine.Position(b); pos != (Position{X: 4, Y: 3}) {
		t.Errorf("rebound pawn should move, got %v", pos)
	}
	if pos, _ := engine.Position(a); pos != (Position{X: 0, Y: 0}) {
		t.Errorf("old pawn should stay, got %v", pos)
	}
}

func TestPlaceBombInputIsImmediate(t *testing.T) {
	engine := newTestEngine(t, testConfig(), openRows(5, 5)...)
	mustAddCharacter(t, engine, 0, Position{X: 2, Y: 2})

	engine.Enqueue(PlaceBombInput(0))
	engine.Tick()

	bombs := engine.Bombs()
	if len(bombs) != 1 {
		t.Fatalf("expected 1 bomb, got %d", len(bombs))
	}
	// placed in the input phase, so the same tick already counted it down
	if r, _ := engine.lifetime.Remaining(bombs[0]); r != 2 {
		t.Errorf("expected 2 ticks left, got %d", r)
	}
}

func TestToggleBoxes(t *testing.T) {
	engine := newTestEngine(t, testConfig(), openRows(3, 3)...)
	ch := mustAddCharacter(t, engine, 0, Position{X: 1, Y: 1})
	engine.World.DrainChanged()

	engine.Enqueue(ToggleBoxesInput(0))
	engine.Tick()

	snap := engine.Snapshot()
	if !snap.ShowBoxes || !snap.RegenerateBackdrop {
		t.Fatalf("expected boxes shown and backdrop regeneration, got %+v", snap)
	}
	v, _ := engine.Visual(ch)
	if !v.BoxVisible {
		t.Error("character box should be visible")
	}
	d := engine.Grid.Decorations(0, 0)[0]
	if v, _ := engine.Visual(d); !v.BoxVisible {
		t.Error("decoration box should be visible")
	}
	// nine decorations plus the character
	if n := engine.World.ChangedCount(); n != 10 {
		t.Errorf("expected 10 changed entities, got %d", n)
	}

	engine.AckBackdrop()
	if engine.Snapshot().RegenerateBackdrop {
		t.Error("ack should clear regeneration")
	}

	// entities stamped later follow the current setting
	engine.TryPlaceBomb(engine.Controller(0))
	if v, _ := engine.Visual(engine.Bombs()[0]); !v.BoxVisible {
		t.Error("new bomb should inherit visible boxes")
	}

	engine.Enqueue(ToggleBoxesInput(0))
	engine.Tick()
	if engine.Snapshot().ShowBoxes {
		t.Error("second toggle should hide boxes")
	}
}

func TestMouseInspect(t *testing.T) {
	engine := newTestEngine(t, testConfig(), openRows(3, 3)...)
	engine.World.DrainChanged()

	// CellSize 32: pixel (40,70) is cell (1,2)
	engine.Enqueue(MouseInput(0, mgl64.Vec2{40, 70}, Pressed))
	mustAddCharacter(t, engine, 0, Position{})
	engine.Tick()

	d := engine.Grid.Decorations(1, 2)[0]
	if !engine.World.Changed(d) {
		t.Error("inspected cell decoration should be marked changed")
	}

	engine.World.DrainChanged()
	engine.Enqueue(MouseInput(0, mgl64.Vec2{-5, 500}, Pressed))
	engine.Enqueue(MouseInput(0, mgl64.Vec2{40, 70}, Released))
	engine.Tick()
	if engine.World.ChangedCount() != 0 {
		t.Errorf("outside or released clicks should change nothing, got %d", engine.World.ChangedCount())
	}
}

func TestUnknownSlotDropped(t *testing.T) {
	engine := newTestEngine(t, testConfig(), openRows(3, 3)...)
	ch := mustAddCharacter(t, engine, 0, Position{X: 1, Y: 1})

	engine.Enqueue(MoveInput(3, DirUp, Pressed))
	engine.Enqueue(PlaceBombInput(-1))
	engine.Tick()

	if pos, _ := engine.Position(ch); pos != (Position{X: 1, Y: 1}) {
		t.Errorf("character moved on foreign input: %v", pos)
	}
	if len(engine.Bombs()) != 0 {
		t.Error("bomb placed for an unknown slot")
	}
}
