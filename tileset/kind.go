package tileset

import (
	"strconv"
	"strings"
	"sync"
)

// ShapeKind enumerates collision shape kinds. New kinds are added with
// RegisterShapeKind; the behaviour of each kind is decided by the collision policy.
type ShapeKind int

const (
	KindUnknown ShapeKind = iota
	KindHitbox
	KindHurtbox
)

var kinds = struct {
	sync.RWMutex
	byLabel map[string]ShapeKind
	labels  []string
}{
	byLabel: map[string]ShapeKind{"hitbox": KindHitbox, "hurtbox": KindHurtbox},
	labels:  []string{"Unknown", "Hitbox", "Hurtbox"},
}

// RegisterShapeKind makes label a known shape kind and returns its value.
// Registering an existing label returns the existing kind.
func RegisterShapeKind(label string) ShapeKind {
	key := strings.ToLower(strings.TrimSpace(label))
	kinds.Lock()
	defer kinds.Unlock()
	if k, ok := kinds.byLabel[key]; ok {
		return k
	}
	k := ShapeKind(len(kinds.labels))
	kinds.byLabel[key] = k
	kinds.labels = append(kinds.labels, strings.TrimSpace(label))
	return k
}

// ParseShapeKind looks up a kind label case-insensitively.
func ParseShapeKind(label string) (ShapeKind, bool) {
	key := strings.ToLower(strings.TrimSpace(label))
	kinds.RLock()
	defer kinds.RUnlock()
	k, ok := kinds.byLabel[key]
	return k, ok
}

func (k ShapeKind) String() string {
	kinds.RLock()
	defer kinds.RUnlock()
	if k >= 0 && int(k) < len(kinds.labels) {
		return kinds.labels[k]
	}
	return "ShapeKind(" + strconv.Itoa(int(k)) + ")"
}
