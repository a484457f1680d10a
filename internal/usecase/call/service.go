package call

import (
	"context"
	"strings"

	"github.com/johnquangdev/voice-agent/internal/domain/entities"
	"github.com/johnquangdev/voice-agent/internal/domain/repositories"
	ucErrors "github.com/johnquangdev/voice-agent/internal/usecase/errors"
)

// Service is the call record store used by the orchestrator and the calls endpoints
type Service interface {
	// Create validates and stores one call record
	Create(ctx context.Context, userID, summary string, metadata *entities.CallMetadata) (*entities.Call, error)
	// ListByUser returns the caller's calls, newest first
	ListByUser(ctx context.Context, userID string) ([]*entities.Call, error)
}

type service struct {
	repo repositories.CallRepository
}

var _ Service = (*service)(nil)

// NewService creates a call service over a repository
func NewService(repo repositories.CallRepository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, userID, summary string, metadata *entities.CallMetadata) (*entities.Call, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, &ucErrors.ValidationError{Field: "userId"}
	}
	if strings.TrimSpace(summary) == "" {
		return nil, &ucErrors.ValidationError{Field: "summary"}
	}

	call := entities.NewCall(userID, summary)
	if metadata != nil {
		call.Metadata = metadata.ToJSONMap()
	}

	if err := s.repo.Create(ctx, call); err != nil {
		return nil, &ucErrors.StoreError{Op: "create call", Err: err}
	}
	return call, nil
}

func (s *service) ListByUser(ctx context.Context, userID string) ([]*entities.Call, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, &ucErrors.AuthError{Op: "list calls"}
	}

	calls, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, &ucErrors.StoreError{Op: "list calls", Err: err}
	}
	return calls, nil
}
