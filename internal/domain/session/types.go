package session

// Package session contains domain-level types for the authenticated session.
// It is pure and free of transport/storage concerns.

// Role represents an application authorization role.
// Keep string form for easy persistence and cookies.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Allows reports whether a holder of the role may access a route requiring
// required. Admin always passes; an empty role defaults to user.
func (r Role) Allows(required Role) bool {
	if required == "" {
		return true
	}
	if r == RoleAdmin {
		return true
	}
	if r == "" {
		r = RoleUser
	}
	return r == required
}

// User is the authenticated identity returned by the backend identity endpoints.
type User struct {
	ID       string `json:"user_id"`
	Email    string `json:"email"`
	FullName string `json:"full_name,omitempty"`
	Role     Role   `json:"role,omitempty"`
}

// State is the coarse session lifecycle position.
type State int

const (
	// StateUnknown holds before the persisted session has been restored.
	StateUnknown State = iota
	// StateAnonymous means no user is logged in.
	StateAnonymous
	// StateAuthenticated means a user and access token are both present.
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateUnknown:
		return "unknown"
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "invalid"
	}
}

// Record is the durable encoding of a session written to storage. The JSON
// keys match the storage keys the web client used, so a record survives
// migration between the two.
type Record struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
	User         User   `json:"user"`
}

// Valid reports whether the record carries enough to restore an authenticated
// session: both halves of the invariant, user identity and access token.
func (r Record) Valid() bool {
	return r.AccessToken != "" && r.User.ID != ""
}
