package audit

import (
	"context"
	"time"

	"docsign_web/internal/config"

	"go.uber.org/zap"
)

// Service records auth outcomes. Recording is best effort: a broken audit
// store never blocks a sign-in.
type Service interface {
	Record(ctx context.Context, event Event)
	Recent(ctx context.Context, email string) []Event
	Prune(ctx context.Context) (int64, error)
}

// ServiceImplementation is the GORM-backed Service.
type ServiceImplementation struct {
	repo   Repository
	cfg    *config.Config
	logger *zap.Logger
	now    func() time.Time
}

// NewService creates a new audit service.
func NewService(repo Repository, cfg *config.Config, logger *zap.Logger) *ServiceImplementation {
	return &ServiceImplementation{
		repo:   repo,
		cfg:    cfg,
		logger: logger.Named("audit"),
		now:    time.Now,
	}
}

func (s *ServiceImplementation) Record(ctx context.Context, event Event) {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = s.now().UTC()
	}
	if err := s.repo.Create(ctx, &event); err != nil {
		s.logger.Error("Failed to record auth event",
			zap.Error(err),
			zap.String("action", string(event.Action)),
			zap.String("outcome", string(event.Outcome)),
		)
	}
}

func (s *ServiceImplementation) Recent(ctx context.Context, email string) []Event {
	limit := s.cfg.AuditRecentLimit
	if limit <= 0 {
		return nil
	}
	events, err := s.repo.ListRecentByEmail(ctx, email, limit)
	if err != nil {
		s.logger.Warn("Failed to load recent auth events", zap.Error(err))
		return nil
	}
	return events
}

// Prune removes events older than the configured retention.
func (s *ServiceImplementation) Prune(ctx context.Context) (int64, error) {
	if s.cfg.AuditRetentionDays <= 0 {
		return 0, nil
	}
	cutoff := s.now().UTC().AddDate(0, 0, -s.cfg.AuditRetentionDays)
	return s.repo.DeleteOlderThan(ctx, cutoff)
}
