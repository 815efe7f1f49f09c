package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yigit/placementprep/internal/app/models"
	"github.com/yigit/placementprep/internal/pkg/apperrors"
	pkgauth "github.com/yigit/placementprep/internal/pkg/auth"
	"github.com/yigit/placementprep/internal/pkg/logger"
)

// UserLookup is the part of the user store authorization needs
type UserLookup interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// AuthorizationService answers "may this caller do that" questions.
// Admin access is granted by any of: the ADMIN role claim in the token, the
// configured email allow-list, or the ADMIN role on the stored user record.
type AuthorizationService struct {
	users       UserLookup
	adminEmails map[string]struct{}
}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService(users UserLookup, adminEmails []string) *AuthorizationService {
	set := make(map[string]struct{}, len(adminEmails))
	for _, e := range adminEmails {
		if e = strings.ToLower(strings.TrimSpace(e)); e != "" {
			set[e] = struct{}{}
		}
	}
	return &AuthorizationService{users: users, adminEmails: set}
}

// IsAdmin reports whether id may use admin endpoints
func (s *AuthorizationService) IsAdmin(ctx context.Context, id pkgauth.Identity) (bool, error) {
	if models.RoleType(id.RoleType) == models.RoleAdmin {
		return true, nil
	}
	if _, ok := s.adminEmails[strings.ToLower(strings.TrimSpace(id.Email))]; ok {
		return true, nil
	}

	user, err := s.users.GetByID(ctx, id.UserID)
	if err != nil {
		// Users who never synced their session simply have no stored role
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return false, nil
		}
		logger.Error().Err(err).Str("userID", id.UserID).Msg("Error getting user in IsAdmin")
		return false, fmt.Errorf("failed to resolve admin status: %w", err)
	}
	return user.IsAdmin(), nil
}

// ValidateAdmin returns ErrPermissionDenied unless id is an admin
func (s *AuthorizationService) ValidateAdmin(ctx context.Context, id pkgauth.Identity) error {
	ok, err := s.IsAdmin(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.NewForbiddenError("admin access required")
	}
	return nil
}

// ValidateCommentOwnership allows the author of c or an admin
func (s *AuthorizationService) ValidateCommentOwnership(ctx context.Context, c *models.Comment, id pkgauth.Identity) error {
	if c.UserID == id.UserID {
		return nil
	}
	ok, err := s.IsAdmin(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.NewForbiddenError("only the author or an admin can delete this comment")
	}
	return nil
}
