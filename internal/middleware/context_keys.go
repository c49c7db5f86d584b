package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
)

const (
	// userIDKey is the key used to store the authenticated user's ID in the request context.
	userIDKey = contextKey("userID")
	// companyIDKey is the key used to store the authenticated user's company scope.
	companyIDKey = contextKey("companyID")
	// approverKey marks callers carrying the approver role claim.
	approverKey = contextKey("isApprover")
)

// GetUserIDFromContext retrieves the authenticated user ID from the Gin context.
// It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	userID, ok := c.Request.Context().Value(userIDKey).(string)
	if !ok || userID == "" {
		return "", false
	}
	return userID, true
}

// GetCompanyIDFromContext retrieves the caller's company scope. Falls back to
// false when the claim was absent from the token.
func GetCompanyIDFromContext(c *gin.Context) (int, bool) {
	companyID, ok := c.Request.Context().Value(companyIDKey).(int)
	return companyID, ok
}

// IsApproverFromContext reports whether the caller holds the approver role.
func IsApproverFromContext(c *gin.Context) bool {
	isApprover, _ := c.Request.Context().Value(approverKey).(bool)
	return isApprover
}

// WithCaller stamps caller identity onto a context. Used by the auth
// middleware and by handler tests that bypass it.
func WithCaller(ctx context.Context, userID string, companyID int, isApprover bool) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	ctx = context.WithValue(ctx, companyIDKey, companyID)
	ctx = context.WithValue(ctx, approverKey, isApprover)
	return ctx
}
