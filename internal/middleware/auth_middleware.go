package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yigit/placementprep/internal/app/models/dto"
	"github.com/yigit/placementprep/internal/pkg/apperrors"
	"github.com/yigit/placementprep/internal/pkg/auth"
)

// Context keys set by JWTAuth
const (
	ContextUserID   = "userID"
	ContextEmail    = "email"
	ContextUsername = "username"
	ContextRoleType = "roleType"
	ContextIsAdmin  = "isAdmin"
)

// AdminChecker decides whether an identity may use admin endpoints
type AdminChecker interface {
	IsAdmin(ctx context.Context, id auth.Identity) (bool, error)
}

// AuthMiddleware for authentication and authorization
type AuthMiddleware struct {
	jwtService *auth.JWTService
	admins     AdminChecker
	logger     zerolog.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtService *auth.JWTService, admins AdminChecker, logger zerolog.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		admins:     admins,
		logger:     logger,
	}
}

// tokenFromRequest reads the bearer token from the Authorization header or,
// for websocket upgrades and Swagger UI, the token query parameter.
func tokenFromRequest(c *gin.Context) (string, error) {
	header := c.GetHeader("Authorization")
	if header == "" {
		header = c.Query("token")
	}
	if header == "" {
		return "", apperrors.ErrUnauthenticated
	}
	return auth.ExtractBearerToken(strings.Trim(header, "\"'"))
}

func abortUnauthorized(c *gin.Context, err error) {
	code := dto.ErrorCodeInvalidToken
	details := "Invalid token"
	switch {
	case errors.Is(err, apperrors.ErrUnauthenticated):
		code, details = dto.ErrorCodeUnauthorized, "Authorization header missing"
	case errors.Is(err, apperrors.ErrTokenExpired):
		code, details = dto.ErrorCodeExpiredToken, "Token has expired"
	case errors.Is(err, apperrors.ErrInvalidFormat):
		details = "Invalid token format"
	}
	detail := dto.NewErrorDetail(code, "Authentication required").WithDetails(details)
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(detail))
}

func setIdentity(c *gin.Context, id auth.Identity) {
	c.Set(ContextUserID, id.UserID)
	c.Set(ContextEmail, id.Email)
	c.Set(ContextUsername, id.Username)
	c.Set(ContextRoleType, id.RoleType)
}

// JWTAuth rejects requests without a valid bearer token and stores the
// caller's identity in the context
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := tokenFromRequest(c)
		if err != nil {
			abortUnauthorized(c, err)
			return
		}
		claims, err := m.jwtService.ValidateAndExtractClaims(token)
		if err != nil {
			abortUnauthorized(c, err)
			return
		}
		setIdentity(c, claims.Identity())
		c.Next()
	}
}

// OptionalAuth stores the identity when a valid token is present and lets
// anonymous requests through otherwise
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, err := tokenFromRequest(c); err == nil {
			if claims, err := m.jwtService.ValidateAndExtractClaims(token); err == nil {
				setIdentity(c, claims.Identity())
			}
		}
		c.Next()
	}
}

// RequireAdmin must run after JWTAuth
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := CurrentIdentity(c)
		if !ok {
			abortUnauthorized(c, apperrors.ErrUnauthenticated)
			return
		}

		isAdmin, err := m.admins.IsAdmin(c.Request.Context(), id)
		if err != nil {
			m.logger.Error().Err(err).Str("userID", id.UserID).Msg("Admin check failed")
			detail := dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")
			c.AbortWithStatusJSON(http.StatusInternalServerError, dto.NewErrorResponse(detail))
			return
		}
		if !isAdmin {
			detail := dto.NewErrorDetail(dto.ErrorCodeForbidden, "Access denied").
				WithDetails("Admin access required")
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(detail))
			return
		}

		c.Set(ContextIsAdmin, true)
		c.Next()
	}
}

// CurrentIdentity returns the identity stored by JWTAuth or OptionalAuth
func CurrentIdentity(c *gin.Context) (auth.Identity, bool) {
	userID := c.GetString(ContextUserID)
	if userID == "" {
		return auth.Identity{}, false
	}
	return auth.Identity{
		UserID:   userID,
		Email:    c.GetString(ContextEmail),
		Username: c.GetString(ContextUsername),
		RoleType: c.GetString(ContextRoleType),
	}, true
}
