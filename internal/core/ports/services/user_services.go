package services

import (
	"context"

	"github.com/openhrstack/speakup_app/internal/core/domain"
)

// UserSvcFacade exposes account lookup and credential verification.
type UserSvcFacade interface {
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
	// GetUserByUsername resolves an account by its login name. SSO logins use
	// the verified email as the username.
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	// Authenticate verifies username/password and returns the account on
	// success, apperrors.ErrNotFound or a credential error otherwise.
	Authenticate(ctx context.Context, username, password string) (*domain.User, error)
	UpdateRefreshTokenHash(ctx context.Context, userID string, refreshToken string) error
	ClearRefreshToken(ctx context.Context, userID string) error
}
