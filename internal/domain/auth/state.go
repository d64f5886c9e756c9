// Package auth models the authentication state that gates remote storage.
package auth

// Status is the resolution state of the current principal.
type Status int

const (
	// StatusUnknown means the session has not been resolved yet.
	StatusUnknown Status = iota
	StatusAuthenticated
	StatusUnauthenticated
)

func (s Status) String() string {
	switch s {
	case StatusAuthenticated:
		return "authenticated"
	case StatusUnauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// State is a snapshot of the authentication state.
type State struct {
	Status      Status
	PrincipalID string
}

// Authenticated returns a state for the given principal.
func Authenticated(principalID string) State {
	return State{Status: StatusAuthenticated, PrincipalID: principalID}
}

// Unauthenticated returns the signed-out state.
func Unauthenticated() State {
	return State{Status: StatusUnauthenticated}
}

// Principal returns the principal ID and whether one is authenticated.
// Unknown and Unauthenticated both report false.
func (s State) Principal() (string, bool) {
	if s.Status != StatusAuthenticated || s.PrincipalID == "" {
		return "", false
	}
	return s.PrincipalID, true
}

// Source publishes authentication state.
type Source interface {
	Current() State
	// Subscribe registers fn for state changes. If the state is already
	// resolved, fn is called once with it before Subscribe returns.
	// The returned function removes the subscription and is idempotent.
	Subscribe(fn func(State)) (unsubscribe func())
}
