package repositories

import (
	"context"

	"github.com/johnquangdev/voice-agent/internal/domain/entities"
)

// CallRepository defines the persistence of call records
type CallRepository interface {
	// Create stores a new call; the repository assigns ID and CreatedAt when unset
	Create(ctx context.Context, call *entities.Call) error

	// ListByUser returns the calls owned by userID, newest first
	ListByUser(ctx context.Context, userID string) ([]*entities.Call, error)
}
