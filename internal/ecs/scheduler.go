package ecs

import "sort"

// Phase orders systems within one tick. Lower phases run first.
type Phase int

const (
	PhaseInput    Phase = iota // apply queued input to controllers
	PhaseMovement              // resolve controller movement
	PhaseLifetime              // advance timed entities
	PhaseCleanup               // late bookkeeping
)

// System is a unit of per-tick logic.
type System interface {
	Phase() Phase
	Update()
}

// Scheduler runs registered systems once per Run, in phase order.
// Systems sharing a phase run in registration order.
type Scheduler struct {
	systems []System
}

// NewScheduler creates an empty scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Add registers a system.
func (s *Scheduler) Add(sys System) {
	s.systems = append(s.systems, sys)
	sort.SliceStable(s.systems, func(i, j int) bool {
		return s.systems[i].Phase() < s.systems[j].Phase()
	})
}

// Run executes one tick.
func (s *Scheduler) Run() {
	for _, sys := range s.systems {
		sys.Update()
	}
}

// Len returns the number of registered systems.
func (s *Scheduler) Len() int {
	return len(s.systems)
}

// SystemFunc adapts a function to the System interface.
type SystemFunc struct {
	In Phase
	Fn func()
}

func (f SystemFunc) Phase() Phase { return f.In }
func (f SystemFunc) Update()      { f.Fn() }
