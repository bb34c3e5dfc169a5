package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/identityforge/identity-api/internal/api/metrics"
	"github.com/identityforge/identity-api/internal/core/domain"
	"github.com/identityforge/identity-api/internal/core/ports"
)

type auditService struct {
	repo ports.AuditRepository
	log  zerolog.Logger
}

// NewAuditService returns an AuditService that persists credential-lifecycle
// events to the audit trail.
func NewAuditService(repo ports.AuditRepository, log zerolog.Logger) ports.AuditService {
	return &auditService{repo: repo, log: log}
}

// Process persists a single audit event.
func (s *auditService) Process(ctx context.Context, in ports.AuthEventInput) error {
	event := &domain.AuthEvent{
		UserID:    in.UserID,
		Email:     in.Email,
		Action:    in.Action,
		Timestamp: in.Timestamp,
	}

	if err := s.repo.InsertEvent(ctx, event); err != nil {
		metrics.AuditEventsTotal.WithLabelValues(in.Action, "error").Inc()
		return fmt.Errorf("insert audit event: %w", err)
	}

	metrics.AuditEventsTotal.WithLabelValues(in.Action, "ok").Inc()
	s.log.Debug().
		Str("action", in.Action).
		Str("email", in.Email).
		Msg("audit event recorded")

	return nil
}
