package dto

import (
	"time"

	"github.com/openhrstack/speakup_app/internal/core/domain"
)

// LoginRequest carries username/password credentials.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// GoogleLoginRequest exchanges a Google-issued ID token for app tokens.
type GoogleLoginRequest struct {
	IDToken string `json:"idToken" binding:"required"`
}

// UserResponse is the public shape of an employee account.
type UserResponse struct {
	UserID         string `json:"userID"`
	Username       string `json:"username"`
	Name           string `json:"name"`
	EmployeeNumber string `json:"employeeNumber,omitempty"`
	Designation    string `json:"designation,omitempty"`
	CompanyID      int    `json:"companyId"`
	Role           string `json:"role,omitempty"`
}

// ToUserResponse converts a domain user to its public shape.
func ToUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		UserID:         u.UserID,
		Username:       u.Username,
		Name:           u.Name,
		EmployeeNumber: u.EmployeeNumber,
		Designation:    u.Designation,
		CompanyID:      u.CompanyID,
		Role:           u.Role,
	}
}

// LoginResponse carries the issued tokens plus the authenticated user.
type LoginResponse struct {
	AccessToken  string       `json:"accessToken"`
	ExpiresAt    time.Time    `json:"expiresAt"`
	RefreshToken string       `json:"refreshToken"`
	User         UserResponse `json:"user"`
}
