package ports

import (
	"context"
	"time"

	"github.com/identityforge/identity-api/internal/core/domain"
)

// AuthEventInput is the DTO handed from the auth service to the audit pipeline.
type AuthEventInput struct {
	UserID    string
	Email     string
	Action    string
	Timestamp time.Time
}

// AuditService processes a single audit event.
type AuditService interface {
	Process(ctx context.Context, event AuthEventInput) error
}

// AuditRepository persists audit events.
type AuditRepository interface {
	InsertEvent(ctx context.Context, event *domain.AuthEvent) error
}

// AuditRecorder accepts events for asynchronous processing. Recording is
// fire-and-forget: failures never affect the request that produced the event.
type AuditRecorder interface {
	Record(event AuthEventInput)
}
