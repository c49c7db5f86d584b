package services

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/api/idtoken"

	"github.com/openhrstack/speakup_app/internal/apperrors"
	"github.com/openhrstack/speakup_app/internal/core/domain"
	portssvc "github.com/openhrstack/speakup_app/internal/core/ports/services"
	"github.com/openhrstack/speakup_app/internal/platform/config"
	"github.com/openhrstack/speakup_app/internal/utils"
)

type tokenService struct {
	cfg *config.Config
}

// NewTokenService issues the application's access and refresh tokens.
func NewTokenService(cfg *config.Config) portssvc.TokenSvcFacade {
	return &tokenService{cfg: cfg}
}

var _ portssvc.TokenSvcFacade = (*tokenService)(nil)

func (s *tokenService) GenerateAccessToken(_ context.Context, user *domain.User) (string, time.Time, error) {
	expiresAt := time.Now().Add(s.cfg.JWTExpiryDuration)
	token, err := utils.GenerateJWT(user.UserID, user.CompanyID, user.Role, s.cfg.JWTSecret, s.cfg.JWTExpiryDuration, s.cfg.JWTIssuer)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate access token: %w", err)
	}
	return token, expiresAt, nil
}

func (s *tokenService) GenerateRefreshToken(_ context.Context, user *domain.User) (string, time.Time, error) {
	// Refresh tokens are opaque random strings, not JWTs; only their hash is
	// stored server side.
	token, err := utils.GenerateSecureRandomString(32)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate refresh token: %w", err)
	}
	return token, time.Now().Add(s.cfg.RefreshTokenExpiryDuration), nil
}

type googleAuthService struct {
	clientID string
}

// NewGoogleAuthService validates Google ID tokens against the configured
// OAuth client ID.
func NewGoogleAuthService(clientID string) portssvc.GoogleAuthSvcFacade {
	return &googleAuthService{clientID: clientID}
}

var _ portssvc.GoogleAuthSvcFacade = (*googleAuthService)(nil)

func (s *googleAuthService) ValidateIDToken(ctx context.Context, idTokenStr string) (string, string, error) {
	if s.clientID == "" {
		return "", "", fmt.Errorf("%w: google login is not configured", apperrors.ErrValidation)
	}

	tokenPayload, err := idtoken.Validate(ctx, idTokenStr, s.clientID)
	if err != nil {
		return "", "", fmt.Errorf("%w: invalid google id token: %v", apperrors.ErrForbidden, err)
	}

	email, _ := tokenPayload.Claims["email"].(string)
	if email == "" {
		return "", "", fmt.Errorf("%w: google id token carries no email claim", apperrors.ErrForbidden)
	}
	if verified, _ := tokenPayload.Claims["email_verified"].(bool); !verified {
		return "", "", fmt.Errorf("%w: google account email is not verified", apperrors.ErrForbidden)
	}
	name, _ := tokenPayload.Claims["name"].(string)
	return email, name, nil
}
