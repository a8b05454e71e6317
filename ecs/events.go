package ecs

import "github.com/milk9111/tilecombat/collision"

// EventType identifies what an Event carries.
type EventType string

const (
	EventAnimationComplete EventType = "animation_complete"
	EventCollision         EventType = "collision"
)

// Event is one thing that happened during a tick. Data is an
// AnimationCompleteEvent or a CollisionEvent.
type Event struct {
	Type EventType
	Data any
}

// AnimationCompleteEvent is emitted once per finished animation cycle.
type AnimationCompleteEvent struct {
	Entity Entity
	// AnimationID is the tile owning the animation.
	AnimationID int
}

// CollisionEvent is a phased hitbox/hurtbox contact between two entities.
type CollisionEvent struct {
	Attacker Entity
	Defender Entity
	collision.PhasedEvent
}

// EventQueue is a simple FIFO queue.
type EventQueue struct {
	items []Event
}

// Push adds an event.
func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Pending returns queued events without removing them.
func (q *EventQueue) Pending() []Event {
	if q == nil {
		return nil
	}
	return q.items
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}
