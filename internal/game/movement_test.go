package game

import (
	"math/rand/v2"
	"testing"
)

func TestTryMoveCooldown(t *testing.T) {
	engine := newTestEngine(t, testConfig(), openRows(7, 3)...)
	ch := mustAddCharacter(t, engine, 0, Position{X: 0, Y: 1})
	right := DirRight.Delta()

	// MoveCooldown 2: a step, two waiting calls, a step.
	want := []bool{true, false, false, true, false, false, true}
	for i, w := range want {
		if got := engine.TryMove(ch, right); got != w {
			t.Fatalf("call %d: expected %v, got %v", i, w, got)
		}
	}
	pos, _ := engine.Position(ch)
	if pos != (Position{X: 3, Y: 1}) {
		t.Errorf("expected (3,1), got %v", pos)
	}
	mv, _ := engine.Mover(ch)
	if mv.Cooldown != 2 || mv.Delta != right {
		t.Errorf("unexpected mover after step: %+v", mv)
	}
}

func TestTryMoveBlocked(t *testing.T) {
	engine := newTestEngine(t, testConfig(),
		"000",
		"012",
		"000",
	)
	ch := mustAddCharacter(t, engine, 0, Position{X: 0, Y: 1})

	if engine.TryMove(ch, DirRight.Delta()) {
		t.Fatal("moved into a wall")
	}
	// rocks block too
	engine2 := newTestEngine(t, testConfig(),
		"000",
		"020",
		"000",
	)
	ch2 := mustAddCharacter(t, engine2, 0, Position{X: 1, Y: 0})
	if engine2.TryMove(ch2, DirDown.Delta()) {
		t.Fatal("moved into a rock")
	}

	pos, _ := engine.Position(ch)
	if pos != (Position{X: 0, Y: 1}) {
		t.Errorf("blocked move changed position to %v", pos)
	}
}

func TestTryMoveOutOfBoundsKeepsCooldown(t *testing.T) {
	engine := newTestEngine(t, testConfig(), openRows(3, 3)...)
	ch := mustAddCharacter(t, engine, 0, Position{X: 0, Y: 0})
	engine.movers.GetMut(ch).Cooldown = 2

	for i := 0; i < 5; i++ {
		if engine.TryMove(ch, DirLeft.Delta()) {
			t.Fatal("moved off the grid")
		}
	}
	mv, _ := engine.Mover(ch)
	if mv.Cooldown != 2 {
		t.Errorf("illegal target should not consume cooldown, got %d", mv.Cooldown)
	}
}

func TestTryMoveRejectsNonSteps(t *testing.T) {
	engine := newTestEngine(t, testConfig(), openRows(5, 5)...)
	ch := mustAddCharacter(t, engine, 0, Position{X: 2, Y: 2})

	for _, d := range []Position{{}, {X: 1, Y: 1}, {X: 2}, {Y: -2}} {
		if engine.TryMove(ch, d) {
			t.Errorf("delta %v should not move", d)
		}
	}
	if pos, _ := engine.Position(ch); pos != (Position{X: 2, Y: 2}) {
		t.Errorf("position changed to %v", pos)
	}
	if mv, _ := engine.Mover(ch); mv.Cooldown != 0 {
		t.Errorf("cooldown changed to %d", mv.Cooldown)
	}
}

func TestTryMoveMissingComponentsPanics(t *testing.T) {
	engine := newTestEngine(t, testConfig(), openRows(3, 3)...)
	defer func() {
		if recover() == nil {
			t.Error("expected panic for an entity without mover")
		}
	}()
	engine.TryMove(engine.World.Create(), DirUp.Delta())
}

func TestRandomWalkNeverEntersBlockedCells(t *testing.T) {
	engine := newTestEngine(t, testConfig(),
		"0000000",
		"0101010",
		"0020000",
		"0101210",
		"0000000",
	)
	ch := mustAddCharacter(t, engine, 0, Position{X: 0, Y: 0})
	rng := rand.New(rand.NewPCG(7, 11))

	prev, _ := engine.Position(ch)
	for i := 0; i < 2000; i++ {
		d := directions[rng.IntN(len(directions))].Delta()
		moved := engine.TryMove(ch, d)
		pos, _ := engine.Position(ch)

		if !engine.Grid.InBounds(pos.X, pos.Y) || engine.Grid.IsBlocked(pos.X, pos.Y) {
			t.Fatalf("step %d: character on illegal cell %v", i, pos)
		}
		if moved && pos != prev.Add(d) {
			t.Fatalf("step %d: moved from %v by %v but landed on %v", i, prev, d, pos)
		}
		if !moved && pos != prev {
			t.Fatalf("step %d: position changed without a move", i)
		}
		mv, _ := engine.Mover(ch)
		if mv.Cooldown < 0 || mv.Cooldown > mv.DefaultCooldown {
			t.Fatalf("step %d: cooldown %d out of range", i, mv.Cooldown)
		}
		prev = pos
	}
}

func TestMovementThroughTicks(t *testing.T) {
	engine := newTestEngine(t, testConfig(), openRows(7, 3)...)
	ch := mustAddCharacter(t, engine, 0, Position{X: 0, Y: 1})

	// holding right for six ticks steps on ticks 0 and 3
	for i := 0; i < 6; i++ {
		engine.Enqueue(MoveInput(0, DirRight, Held))
		engine.Tick()
	}
	if pos, _ := engine.Position(ch); pos != (Position{X: 2, Y: 1}) {
		t.Errorf("expected (2,1), got %v", pos)
	}
	if !engine.World.Changed(ch) {
		t.Error("moved character should be marked changed")
	}
}
