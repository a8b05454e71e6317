package collision

import "github.com/milk9111/tilecombat/tileset"

// Role is what a shape kind does in combat.
type Role int

const (
	// RoleNone shapes are carried but never tested.
	RoleNone Role = iota
	// RoleAttack shapes deal effects (hitboxes).
	RoleAttack
	// RoleDefend shapes receive effects (hurtboxes).
	RoleDefend
)

// Team tags entities for friendly-fire checks.
type Team string

// TeamNeutral hits and is hit by every team.
const TeamNeutral Team = ""

// Policy configures the detector. The zero value uses DefaultRoles and
// suppresses friendly fire.
type Policy struct {
	// Roles maps shape kinds to roles. Kinds missing from the map are RoleNone.
	Roles map[tileset.ShapeKind]Role
	// FriendlyFire lets entities of the same team hit each other.
	FriendlyFire bool
}

// DefaultRoles returns the built-in kind table. Adding a kind such as a
// pushbox means registering it with tileset.RegisterShapeKind and giving it a
// role here.
func DefaultRoles() map[tileset.ShapeKind]Role {
	return map[tileset.ShapeKind]Role{
		tileset.KindHitbox:  RoleAttack,
		tileset.KindHurtbox: RoleDefend,
	}
}

// Role returns the role of kind under p.
func (p Policy) Role(kind tileset.ShapeKind) Role {
	if p.Roles == nil {
		switch kind {
		case tileset.KindHitbox:
			return RoleAttack
		case tileset.KindHurtbox:
			return RoleDefend
		}
		return RoleNone
	}
	return p.Roles[kind]
}

// CanHit reports whether an attacker on team a may hit a defender on team d.
func (p Policy) CanHit(a, d Team) bool {
	if p.FriendlyFire || a == TeamNeutral || d == TeamNeutral {
		return true
	}
	return a != d
}
