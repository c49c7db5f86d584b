package repositories

import (
	"context"
	"time"

	"github.com/openhrstack/speakup_app/internal/core/domain"
)

// UserRepositoryFacade is everything the user/auth services need from the
// account store.
type UserRepositoryFacade interface {
	SaveUser(ctx context.Context, user domain.User, passwordHash string) error
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)
	// FindUserWithCredentials also returns the stored bcrypt hash so the
	// auth service can verify a password without the hash ever entering
	// the domain model.
	FindUserWithCredentials(ctx context.Context, username string) (*domain.User, string, error)
	UpdateRefreshToken(ctx context.Context, userID string, refreshTokenHash string, refreshTokenExpiryTime time.Time) error
	ClearRefreshToken(ctx context.Context, userID string) error
}
