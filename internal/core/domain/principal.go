package domain

type principalState uint8

const (
	principalUnevaluated principalState = iota
	principalAnonymous
	principalAuthenticated
)

// Principal is the per-request authentication slot. The zero value means the
// request has not been through authentication yet, which is distinct from
// Anonymous (evaluated, nobody attached).
type Principal struct {
	state principalState
	user  *User
}

// Anonymous returns the explicit absence marker.
func Anonymous() Principal {
	return Principal{state: principalAnonymous}
}

// Authenticated attaches u. A nil user yields Anonymous.
func Authenticated(u *User) Principal {
	if u == nil {
		return Anonymous()
	}
	return Principal{state: principalAuthenticated, user: u}
}

// Evaluated reports whether authentication has run for the request.
func (p Principal) Evaluated() bool {
	return p.state != principalUnevaluated
}

// User returns the attached user and true, or nil and false when the
// principal is anonymous or unevaluated.
func (p Principal) User() (*User, bool) {
	if p.state != principalAuthenticated {
		return nil, false
	}
	return p.user, true
}

func (p Principal) String() string {
	switch p.state {
	case principalAnonymous:
		return "anonymous"
	case principalAuthenticated:
		return "user:" + p.user.Username
	default:
		return "unevaluated"
	}
}
