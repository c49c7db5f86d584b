package services

import (
	"context"
	"time"

	"github.com/openhrstack/speakup_app/internal/core/domain"
)

// TokenSvcFacade issues and rotates the application's own tokens.
type TokenSvcFacade interface {
	GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error)
	GenerateRefreshToken(ctx context.Context, user *domain.User) (string, time.Time, error)
}

// GoogleAuthSvcFacade validates Google-issued ID tokens for SSO login.
type GoogleAuthSvcFacade interface {
	// ValidateIDToken returns the verified email and display name claims.
	ValidateIDToken(ctx context.Context, idToken string) (email string, name string, err error)
}
