package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/yigit/placementprep/internal/app/models"
	"github.com/yigit/placementprep/internal/app/models/dto"
	"github.com/yigit/placementprep/internal/pkg/apperrors"
	pkgauth "github.com/yigit/placementprep/internal/pkg/auth"
	"github.com/yigit/placementprep/internal/pkg/webhook"
)

// AdminResolver decides whether an identity has admin rights
type AdminResolver interface {
	IsAdmin(ctx context.Context, id pkgauth.Identity) (bool, error)
}

// UserService defines the interface for user operations
type UserService interface {
	// SyncSession records the caller in the local user table and reports
	// whether this was their first visit
	SyncSession(ctx context.Context, id pkgauth.Identity) (*dto.SessionResponse, error)
}

// userServiceImpl implements UserService
type userServiceImpl struct {
	users    UserStore
	admins   AdminResolver
	notifier webhook.Notifier
	logger   zerolog.Logger
}

// NewUserService creates a new UserService
func NewUserService(users UserStore, admins AdminResolver, notifier webhook.Notifier, logger zerolog.Logger) UserService {
	return &userServiceImpl{
		users:    users,
		admins:   admins,
		notifier: notifier,
		logger:   logger.With().Str("service", "user").Logger(),
	}
}

// SyncSession upserts the user and sends the welcome webhook on creation
func (s *userServiceImpl) SyncSession(ctx context.Context, id pkgauth.Identity) (*dto.SessionResponse, error) {
	if strings.TrimSpace(id.UserID) == "" {
		return nil, apperrors.ErrUnauthenticated
	}
	email := strings.ToLower(strings.TrimSpace(id.Email))
	if email == "" {
		return nil, apperrors.FieldError("email", "identity has no email address")
	}
	username := strings.TrimSpace(id.Username)
	if username == "" {
		username = strings.SplitN(email, "@", 2)[0]
	}

	user := &models.User{ID: id.UserID, Email: email, Username: username}
	created, err := s.users.Upsert(ctx, user)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrResourceAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("error syncing user: %w", err)
	}

	if created {
		s.logger.Info().Str("userID", user.ID).Str("email", user.Email).Msg("New user registered")
		if s.notifier != nil {
			s.notifier.SendWelcome(user.Email, user.Username)
		}
	}

	isAdmin, err := s.admins.IsAdmin(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.SessionResponse{
		User:      dto.NewUserResponse(user, isAdmin || user.IsAdmin()),
		IsNewUser: created,
	}, nil
}
