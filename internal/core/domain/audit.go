package domain

import "time"

// Audit actions recorded for the credential lifecycle.
const (
	AuditRegistered     = "registered"
	AuditLoginSucceeded = "login_succeeded"
	AuditLoginFailed    = "login_failed"
)

// AuthEvent is one entry in the credential audit trail.
type AuthEvent struct {
	UserID    string    `json:"user_id,omitempty"`
	Email     string    `json:"email"`
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
}
