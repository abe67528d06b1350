package models

// Session pairs exactly one profile with exactly one credential, or holds
// neither (anonymous).
type Session struct {
	Profile    *UserProfile
	Credential string
}

// Anonymous returns the empty session.
func Anonymous() Session {
	return Session{}
}

// Anonymous reports whether no user is signed in.
func (s Session) Anonymous() bool {
	return s.Profile == nil && s.Credential == ""
}

// Valid reports whether the session is fully populated.
func (s Session) Valid() bool {
	return s.Profile != nil && s.Profile.Username != "" && s.Credential != ""
}

// Username returns the signed-in username or "".
func (s Session) Username() string {
	if s.Profile == nil {
		return ""
	}
	return s.Profile.Username
}

// Clone returns a copy that shares no memory with s.
func (s Session) Clone() Session {
	if s.Profile == nil {
		return s
	}
	p := s.Profile.Clone()
	return Session{Profile: &p, Credential: s.Credential}
}

// StoredSession is the persisted record layout: {"user": ..., "token": ...}.
type StoredSession struct {
	User  *UserProfile `json:"user"`
	Token string       `json:"token"`
}
