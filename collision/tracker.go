package collision

// Phase tells whether a contact is new, continuing, or over.
type Phase int

const (
	PhaseStarted Phase = iota
	PhaseOngoing
	PhaseStopped
)

func (p Phase) String() string {
	switch p {
	case PhaseStarted:
		return "started"
	case PhaseOngoing:
		return "ongoing"
	case PhaseStopped:
		return "stopped"
	}
	return "unknown"
}

// ContactKey identifies a hitbox/hurtbox pair across ticks. Bodies without an
// ID are keyed by their index in the Detect input instead, so anonymous
// callers must pass bodies in a stable order.
type ContactKey struct {
	Attacker      uint64
	AttackerIndex int
	Hitbox        int
	Defender      uint64
	DefenderIndex int
	Hurtbox       int
}

// Key returns the cross-tick identity of evt.
func (evt Event) Key() ContactKey {
	return ContactKey{
		Attacker:      evt.Attacker.Entity,
		AttackerIndex: anonymousIndex(evt.Attacker),
		Hitbox:        evt.Attacker.Shape.ID,
		Defender:      evt.Defender.Entity,
		DefenderIndex: anonymousIndex(evt.Defender),
		Hurtbox:       evt.Defender.Shape.ID,
	}
}

func anonymousIndex(c Contact) int {
	if c.Entity != 0 {
		return -1
	}
	return c.Index
}

// PhasedEvent is an Event tagged with its contact phase.
type PhasedEvent struct {
	Event
	Phase Phase
}

// Tracker turns per-tick detector output into contact phases. Stopped events
// carry the last overlap seen for the pair.
type Tracker struct {
	prev  map[ContactKey]Event
	order []ContactKey
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{prev: make(map[ContactKey]Event)}
}

// Update consumes one tick of events. Started and ongoing contacts come first
// in detector order, followed by stopped contacts in the order they were last seen.
func (t *Tracker) Update(events []Event) []PhasedEvent {
	if t.prev == nil {
		t.prev = make(map[ContactKey]Event)
	}
	out := make([]PhasedEvent, 0, len(events))
	cur := make(map[ContactKey]Event, len(events))
	order := make([]ContactKey, 0, len(events))
	for _, evt := range events {
		key := evt.Key()
		if _, dup := cur[key]; dup {
			continue
		}
		cur[key] = evt
		order = append(order, key)
		phase := PhaseStarted
		if _, ok := t.prev[key]; ok {
			phase = PhaseOngoing
		}
		out = append(out, PhasedEvent{Event: evt, Phase: phase})
	}
	for _, key := range t.order {
		if _, ok := cur[key]; ok {
			continue
		}
		out = append(out, PhasedEvent{Event: t.prev[key], Phase: PhaseStopped})
	}
	t.prev = cur
	t.order = order
	return out
}

// Forget drops every contact involving entity, without emitting stopped events.
func (t *Tracker) Forget(entity uint64) {
	kept := t.order[:0]
	for _, key := range t.order {
		if key.Attacker == entity || key.Defender == entity {
			delete(t.prev, key)
			continue
		}
		kept = append(kept, key)
	}
	t.order = kept
}

// Reset clears all tracked contacts.
func (t *Tracker) Reset() {
	t.prev = make(map[ContactKey]Event)
	t.order = nil
}
