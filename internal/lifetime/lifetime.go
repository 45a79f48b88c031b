// Package lifetime counts down timed entities and destroys them on expiry.
package lifetime

import (
	"log/slog"

	"github.com/amalg/gridbomber/internal/ecs"
)

// Expirer is invoked exactly once when a timer reaches zero, before the
// entity is destroyed.
type Expirer interface {
	Expire(e ecs.Entity)
}

// ExpireFunc adapts a plain function to Expirer.
type ExpireFunc func(e ecs.Entity)

func (f ExpireFunc) Expire(e ecs.Entity) { f(e) }

// Timer is the countdown component of a timed entity. OnExpire may be nil.
type Timer struct {
	Remaining int
	OnExpire  Expirer
}

// Manager drives every Timer in a world by one unit per tick.
type Manager struct {
	world  *ecs.World
	timers *ecs.Store[Timer]
	log    *slog.Logger
}

// New creates a manager over w's timer store.
func New(w *ecs.World, log *slog.Logger) *Manager {
	if log == nil {
		log = slog.Default()
	}
	return &Manager{
		world:  w,
		timers: ecs.StoreOf[Timer](w),
		log:    log,
	}
}

// Start attaches a timer to e. ticks < 0 is treated as 0.
func (m *Manager) Start(e ecs.Entity, ticks int, onExpire Expirer) {
	m.timers.Set(e, Timer{Remaining: max(ticks, 0), OnExpire: onExpire})
}

// Remaining returns the countdown of e.
func (m *Manager) Remaining(e ecs.Entity) (int, bool) {
	t, ok := m.timers.Get(e)
	return t.Remaining, ok
}

// Len returns the number of live timed entities.
func (m *Manager) Len() int {
	return m.timers.Len()
}

// Advance runs one tick. Only timers that existed when the tick began are
// processed, so entities spawned by an expiry callback start counting on
// the next tick.
func (m *Manager) Advance() {
	for _, e := range m.timers.Entities() {
		t := m.timers.GetMut(e)
		if t == nil {
			// destroyed by an earlier callback this tick
			continue
		}
		if t.Remaining > 0 {
			t.Remaining--
		}
		if t.Remaining > 0 {
			continue
		}

		if t.OnExpire != nil {
			t.OnExpire.Expire(e)
		}
		m.timers.Remove(e)
		m.world.Destroy(e)
		m.log.Debug("timed entity expired", "entity", e)
	}
}

// Phase places the manager in the lifetime phase of the scheduler.
func (m *Manager) Phase() ecs.Phase { return ecs.PhaseLifetime }

// Update implements ecs.System.
func (m *Manager) Update() { m.Advance() }
