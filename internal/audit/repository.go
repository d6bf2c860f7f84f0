package audit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Repository defines the interface for audit event storage.
type Repository interface {
	Create(ctx context.Context, event *Event) error
	ListRecentByEmail(ctx context.Context, email string, limit int) ([]Event, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM audit repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, event *Event) error {
	event.Email = normalizeEmail(event.Email)
	if err := r.db.WithContext(ctx).Create(event).Error; err != nil {
		return fmt.Errorf("failed to insert auth event: %w", err)
	}
	return nil
}

// ListRecentByEmail returns the newest events first.
func (r *gormRepository) ListRecentByEmail(ctx context.Context, email string, limit int) ([]Event, error) {
	var events []Event
	err := r.db.WithContext(ctx).
		Where("email = ?", normalizeEmail(email)).
		Order("created_at DESC").
		Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list auth events: %w", err)
	}
	return events, nil
}

func (r *gormRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("created_at < ?", cutoff).Delete(&Event{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to prune auth events: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// AutoMigrate creates or updates the auth_events table.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&Event{}); err != nil {
		return fmt.Errorf("failed to migrate auth_events: %w", err)
	}
	return nil
}
