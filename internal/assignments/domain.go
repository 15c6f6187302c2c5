package assignments

import (
	"errors"
	"time"
)

// Assignment grants one role to one user. RoleLevel is denormalized from the
// granted role so every policy decision can run without a second lookup.
type Assignment struct {
	ID        int64
	UserID    int64
	RoleID    int64
	RoleLevel int
	CreatedAt time.Time
}

// Outcomes emitted by the service. Handlers translate these into transport
// responses; the engine itself never speaks HTTP.
var (
	// ErrUnauthenticated indicates the request carries no session user.
	ErrUnauthenticated = errors.New("assignments: authentication required")
	// ErrForbidden indicates the actor's effective level is insufficient.
	ErrForbidden = errors.New("assignments: forbidden")
	// ErrNotFound covers both absent records and records outside the
	// actor's visibility scope. The two cases are indistinguishable on
	// purpose so callers cannot probe for hidden assignments.
	ErrNotFound = errors.New("assignments: not found")
	// ErrUnprocessable indicates a malformed or unresolvable request,
	// independent of privilege.
	ErrUnprocessable = errors.New("assignments: unprocessable")
)
