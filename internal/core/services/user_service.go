package services

import (
	"context"
	"fmt"
	"time"

	"github.com/openhrstack/speakup_app/internal/apperrors"
	"github.com/openhrstack/speakup_app/internal/core/domain"
	portsrepo "github.com/openhrstack/speakup_app/internal/core/ports/repositories"
	portssvc "github.com/openhrstack/speakup_app/internal/core/ports/services"
	"github.com/openhrstack/speakup_app/internal/utils"
)

type userService struct {
	userRepo           portsrepo.UserRepositoryFacade
	refreshTokenExpiry time.Duration
}

// NewUserService wires the account service over the user repository.
func NewUserService(userRepo portsrepo.UserRepositoryFacade, refreshTokenExpiry time.Duration) portssvc.UserSvcFacade {
	return &userService{userRepo: userRepo, refreshTokenExpiry: refreshTokenExpiry}
}

var _ portssvc.UserSvcFacade = (*userService)(nil)

func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user %s: %w", userID, err)
	}
	return user, nil
}

func (s *userService) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	user, _, err := s.userRepo.FindUserWithCredentials(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}
	return user, nil
}

func (s *userService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	user, passwordHash, err := s.userRepo.FindUserWithCredentials(ctx, username)
	if err != nil {
		return nil, err
	}
	if !utils.CheckPasswordHash(password, passwordHash) {
		return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrForbidden)
	}
	return user, nil
}

func (s *userService) UpdateRefreshTokenHash(ctx context.Context, userID string, refreshToken string) error {
	// Refresh tokens are stored hashed, same as passwords.
	hash, err := utils.HashPassword(refreshToken)
	if err != nil {
		return fmt.Errorf("failed to hash refresh token: %w", err)
	}
	expiry := time.Now().Add(s.refreshTokenExpiry)
	if err := s.userRepo.UpdateRefreshToken(ctx, userID, hash, expiry); err != nil {
		return fmt.Errorf("failed to store refresh token for user %s: %w", userID, err)
	}
	return nil
}

func (s *userService) ClearRefreshToken(ctx context.Context, userID string) error {
	if err := s.userRepo.ClearRefreshToken(ctx, userID); err != nil {
		return fmt.Errorf("failed to clear refresh token for user %s: %w", userID, err)
	}
	return nil
}
