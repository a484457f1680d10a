package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/johnquangdev/voice-agent/internal/domain/entities"
)

// CallRepository implements the call repository interface using GORM
type CallRepository struct {
	db *gorm.DB
}

// NewCallRepository creates a new call repository
func NewCallRepository(db *gorm.DB) *CallRepository {
	return &CallRepository{
		db: db,
	}
}

// Create inserts a call record
func (r *CallRepository) Create(ctx context.Context, call *entities.Call) error {
	if err := r.db.WithContext(ctx).Create(call).Error; err != nil {
		return fmt.Errorf("failed to create call: %w", err)
	}
	return nil
}

// ListByUser returns a user's calls, newest first
func (r *CallRepository) ListByUser(ctx context.Context, userID string) ([]*entities.Call, error) {
	calls := make([]*entities.Call, 0)
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&calls).Error; err != nil {
		return nil, fmt.Errorf("failed to list calls by user: %w", err)
	}
	return calls, nil
}
