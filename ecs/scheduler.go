package ecs

import "time"

// System runs once per tick, in scheduler order.
type System interface {
	Update(w *World, dt time.Duration) error
}

type Scheduler struct {
	systems []System
}

func NewScheduler(systems ...System) *Scheduler {
	copied := make([]System, 0, len(systems))
	for _, s := range systems {
		if s != nil {
			copied = append(copied, s)
		}
	}
	return &Scheduler{systems: copied}
}

func (s *Scheduler) Add(system System) {
	if system == nil {
		return
	}
	s.systems = append(s.systems, system)
}

// Update runs every system, stopping at the first error.
func (s *Scheduler) Update(w *World, dt time.Duration) error {
	for _, system := range s.systems {
		if err := system.Update(w, dt); err != nil {
			return err
		}
	}
	return nil
}

func (s *Scheduler) Systems() []System {
	systems := make([]System, 0, len(s.systems))
	return append(systems, s.systems...)
}
