package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/johnquangdev/voice-agent/internal/domain/entities"
	"github.com/johnquangdev/voice-agent/internal/domain/repositories"
	"github.com/johnquangdev/voice-agent/internal/infrastructure/external/oauth"
	ucErrors "github.com/johnquangdev/voice-agent/internal/usecase/errors"
	"github.com/johnquangdev/voice-agent/pkg/jwt"
)

// IdentityProvider is an OAuth provider that can authenticate a user
type IdentityProvider interface {
	Name() string
	AuthURL(state string) string
	Exchange(ctx context.Context, code string) (*oauth.Identity, error)
}

// OAuthService handles OAuth authentication
type OAuthService struct {
	userRepo     repositories.UserRepository
	sessionRepo  repositories.SessionRepository
	provider     IdentityProvider
	stateManager *oauth.StateManager
	jwtManager   *jwt.Manager
	logger       *zap.Logger
}

// NewOAuthService creates a new OAuth service
func NewOAuthService(
	userRepo repositories.UserRepository,
	sessionRepo repositories.SessionRepository,
	provider IdentityProvider,
	stateManager *oauth.StateManager,
	jwtManager *jwt.Manager,
	logger *zap.Logger,
) *OAuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OAuthService{
		userRepo:     userRepo,
		sessionRepo:  sessionRepo,
		provider:     provider,
		stateManager: stateManager,
		jwtManager:   jwtManager,
		logger:       logger,
	}
}

// AuthURLResponse represents the response for auth URL request
type AuthURLResponse struct {
	URL   string `json:"url"`
	State string `json:"state"`
}

// GetAuthURL generates the provider's OAuth URL with a fresh state
func (s *OAuthService) GetAuthURL(ctx context.Context) (*AuthURLResponse, error) {
	state, err := s.stateManager.GenerateState(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate state: %w", err)
	}

	return &AuthURLResponse{
		URL:   s.provider.AuthURL(state),
		State: state,
	}, nil
}

// CallbackRequest represents the callback request
type CallbackRequest struct {
	Code      string
	State     string
	IPAddress string
	UserAgent string
}

// AuthResponse represents the authentication response
type AuthResponse struct {
	User         *entities.User `json:"user"`
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token,omitempty"`
	ExpiresIn    int64          `json:"expires_in"`
}

// HandleCallback finishes the OAuth flow and opens a session
func (s *OAuthService) HandleCallback(ctx context.Context, req *CallbackRequest) (*AuthResponse, error) {
	ok, err := s.stateManager.ValidateState(ctx, req.State)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, entities.ErrOAuthStateMismatch
	}

	identity, err := s.provider.Exchange(ctx, req.Code)
	if err != nil {
		return nil, err
	}

	user, err := s.upsertUser(ctx, identity)
	if err != nil {
		return nil, err
	}

	return s.openSession(ctx, user, req.IPAddress, req.UserAgent)
}

func (s *OAuthService) upsertUser(ctx context.Context, identity *oauth.Identity) (*entities.User, error) {
	user, err := s.userRepo.FindByOAuth(ctx, identity.Provider, identity.ProviderID)
	switch {
	case err == nil:
		user.UpdateLastLogin()
		applyIdentity(user, identity)
		if err := s.userRepo.Update(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to update user: %w", err)
		}
		return user, nil
	case !errors.Is(err, entities.ErrUserNotFound):
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	// Link an existing account with the same email
	if existing, err := s.userRepo.FindByEmail(ctx, identity.Email); err == nil {
		existing.OAuthProvider = &identity.Provider
		existing.OAuthID = &identity.ProviderID
		existing.UpdateLastLogin()
		applyIdentity(existing, identity)
		if err := s.userRepo.Update(ctx, existing); err != nil {
			return nil, fmt.Errorf("failed to link accounts: %w", err)
		}
		return existing, nil
	}

	user = entities.NewOAuthUser(identity.Email, identity.Name, identity.Provider, identity.ProviderID)
	applyIdentity(user, identity)
	user.UpdateLastLogin()
	if err := user.Validate(); err != nil {
		return nil, err
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("auth.user_created", zap.String("user_id", user.ID.String()), zap.String("provider", identity.Provider))
	return user, nil
}

func applyIdentity(user *entities.User, identity *oauth.Identity) {
	if identity.Picture != "" {
		user.AvatarURL = &identity.Picture
	}
	if identity.RefreshToken != "" {
		user.OAuthRefreshToken = &identity.RefreshToken
	}
	if identity.Locale != "" {
		user.Language = identity.Locale
	}
}

// openSession issues an access token and stores the hash of a new refresh token
func (s *OAuthService) openSession(ctx context.Context, user *entities.User, ip, userAgent string) (*AuthResponse, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(user.ID, user.Email, user.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	session := entities.NewSession(
		user.ID,
		jwt.HashToken(refreshToken),
		time.Now().Add(s.jwtManager.GetRefreshExpiry()),
	).WithDeviceInfo(ip, userAgent)

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &AuthResponse{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.jwtManager.GetAccessExpiry().Seconds()),
	}, nil
}

// RefreshAccessToken issues a new access token for a live refresh session
func (s *OAuthService) RefreshAccessToken(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	userID, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, ucErrors.ErrTokenInvalid
	}

	session, err := s.sessionRepo.FindByTokenHash(ctx, jwt.HashToken(refreshToken))
	if err != nil {
		return nil, err
	}
	if !session.IsValid() || session.UserID != userID {
		return nil, entities.ErrSessionExpired
	}

	if err := s.sessionRepo.UpdateLastUsed(ctx, session.ID); err != nil {
		s.logger.Warn("auth.session_touch_failed", zap.String("session_id", session.ID.String()), zap.Error(err))
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, entities.ErrUnauthorized
	}

	accessToken, err := s.jwtManager.GenerateAccessToken(user.ID, user.Email, user.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	return &AuthResponse{
		User:        user,
		AccessToken: accessToken,
		ExpiresIn:   int64(s.jwtManager.GetAccessExpiry().Seconds()),
	}, nil
}

// ValidateSession resolves an access token to an active user
func (s *OAuthService) ValidateSession(ctx context.Context, token string) (*entities.User, error) {
	claims, err := s.jwtManager.ValidateAccessToken(token)
	if err != nil {
		return nil, entities.ErrInvalidToken
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}

	if !user.IsActive {
		return nil, entities.ErrUnauthorized
	}

	return user, nil
}

// Logout revokes the session of a refresh token
func (s *OAuthService) Logout(ctx context.Context, refreshToken string) error {
	session, err := s.sessionRepo.FindByTokenHash(ctx, jwt.HashToken(refreshToken))
	if err != nil {
		return err
	}
	return s.sessionRepo.Revoke(ctx, session.ID)
}

// IssueDevToken finds or creates a local user and opens a session for it.
// Used by the CLI in development.
func (s *OAuthService) IssueDevToken(ctx context.Context, email, name string) (*AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if errors.Is(err, entities.ErrUserNotFound) {
		user = entities.NewUser(email, name)
		if err := user.Validate(); err != nil {
			return nil, err
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
	} else if err != nil {
		return nil, err
	}

	return s.openSession(ctx, user, "", "voicectl")
}

// PurgeExpiredSessions deletes refresh sessions that expired before the given time
func (s *OAuthService) PurgeExpiredSessions(ctx context.Context, before time.Time) error {
	return s.sessionRepo.DeleteExpired(ctx, before)
}

// RunSessionJanitor purges expired sessions every interval until ctx is done
func (s *OAuthService) RunSessionJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if err := s.PurgeExpiredSessions(ctx, now); err != nil {
				s.logger.Warn("auth.session_purge_failed", zap.Error(err))
			}
		}
	}
}
