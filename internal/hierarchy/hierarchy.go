// Package hierarchy defines the ordered privilege tiers used by the
// platform and the primitives for comparing them.
package hierarchy

import "time"

// Well-known role names seeded by the platform.
const (
	RoleContributor = "contributor"
	RoleManager     = "manager"
	RoleAdmin       = "admin"
)

// Levels for the seeded roles. Persisted roles occupy levels >= 1; level 0
// is reserved for the implicit guest and is never stored.
const (
	GuestLevel       = 0
	ContributorLevel = 1
	ManagerLevel     = 2
	AdminLevel       = 3
)

// Role is a named privilege tier. Levels are unique across roles and
// strictly increasing in privilege.
type Role struct {
	ID        int64
	Name      string
	Level     int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Actor is the effective identity performing a request, with its role set
// fully resolved up front. The zero value is the unauthenticated guest.
type Actor struct {
	UserID        int64
	Roles         []Role
	Authenticated bool
}

// Guest returns the sentinel actor for requests without a session user.
func Guest() Actor {
	return Actor{}
}

// EffectiveLevel returns the maximum level among the actor's roles, or
// GuestLevel when the actor holds none. A signed-in user with no role
// assignments ranks the same as an anonymous guest.
func (a Actor) EffectiveLevel() int {
	level := GuestLevel
	for _, role := range a.Roles {
		if role.Level > level {
			level = role.Level
		}
	}
	return level
}

// Ordering is the result of comparing two privilege levels.
type Ordering int

// Ordering values returned by Compare.
const (
	Lower  Ordering = -1
	Equal  Ordering = 0
	Higher Ordering = 1
)

// Compare reports how level a ranks against level b. Guest (level 0)
// compares strictly lower than every persisted role.
func Compare(a, b int) Ordering {
	switch {
	case a < b:
		return Lower
	case a > b:
		return Higher
	default:
		return Equal
	}
}
