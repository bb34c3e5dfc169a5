package domain

import "time"

// Claims is the payload carried inside a session token.
type Claims struct {
	Subject   string
	Role      string
	ExpiresAt time.Time
}

// Principal is the per-request identity derived from verified Claims.
type Principal struct {
	Subject string
	Role    string
}

// HasRole reports whether the principal carries exactly the expected role.
// No normalization is applied; role strings are compared case-sensitively.
func (p Principal) HasRole(role string) bool {
	return p.Role == role
}
