package assignments

import "github.com/chronicle-cms/chronicle/internal/hierarchy"

// Visibility and privilege are two separate phases applied in a fixed
// order: scope first (what the actor may perceive), then authorization
// (what the actor may do to a record it perceives). Keeping them apart is
// what produces the not-found-vs-forbidden distinction.

// ScopeLevel returns the highest role level the actor may perceive. Listing
// and single-record visibility both derive from this value.
func ScopeLevel(actor hierarchy.Actor) int {
	return actor.EffectiveLevel()
}

// CanList reports whether the actor has listing capability at all. Guests
// perceive nothing, and the list action itself is rejected for them rather
// than returning an empty scope.
func CanList(actor hierarchy.Actor) bool {
	return actor.EffectiveLevel() > hierarchy.GuestLevel
}

// Visible reports whether an assignment at roleLevel falls within the
// actor's scope. The predicate is shared verbatim by fetch-one and delete.
func Visible(actor hierarchy.Actor, roleLevel int) bool {
	return hierarchy.Compare(roleLevel, actor.EffectiveLevel()) != hierarchy.Higher
}

// CanGrant reports whether the actor may create an assignment for a role at
// targetLevel. Granting is permitted at or below the actor's own level.
func CanGrant(actor hierarchy.Actor, targetLevel int) bool {
	return hierarchy.Compare(targetLevel, actor.EffectiveLevel()) != hierarchy.Higher
}

// CanRevoke reports whether the actor may delete an assignment at
// roleLevel. Unlike reads and grants the comparison is strict: same-level
// revocation is rejected for every tier, admins included.
func CanRevoke(actor hierarchy.Actor, roleLevel int) bool {
	return hierarchy.Compare(roleLevel, actor.EffectiveLevel()) == hierarchy.Lower
}
