package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yigit/placementprep/internal/app/models"
	"github.com/yigit/placementprep/internal/pkg/apperrors"
	"github.com/yigit/placementprep/internal/pkg/dberrors"
	"github.com/yigit/placementprep/internal/pkg/logger"
)

// ErrEmailTaken is returned when another identity already owns the email
var ErrEmailTaken = apperrors.NewCustomError(apperrors.ErrResourceAlreadyExists, "email is linked to another account")

// UserRepository stores the local copy of identities seen by the service
type UserRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Upsert records a login for u, creating the row on first sight. The stored
// role is never downgraded by a login. It reports whether the row was created.
func (r *UserRepository) Upsert(ctx context.Context, u *models.User) (bool, error) {
	if u.RoleType == "" {
		u.RoleType = models.RoleStudent
	}

	var created bool
	var role string
	err := r.db.QueryRow(ctx, `
		INSERT INTO users (id, email, username, role_type, created_at, updated_at, last_login_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW(), NOW())
		ON CONFLICT (id) DO UPDATE
		SET email = EXCLUDED.email,
		    username = EXCLUDED.username,
		    updated_at = NOW(),
		    last_login_at = NOW()
		RETURNING role_type, created_at, updated_at, last_login_at, (xmax = 0) AS created`,
		u.ID, u.Email, u.Username, string(u.RoleType),
	).Scan(&role, &u.CreatedAt, &u.UpdatedAt, &u.LastLoginAt, &created)
	if dberrors.IsDuplicateConstraintError(err, "users_email_key") {
		return false, ErrEmailTaken
	}
	if err != nil {
		logger.Error().Err(err).Str("userID", u.ID).Msg("Error upserting user")
		return false, fmt.Errorf("failed to upsert user: %w", err)
	}
	u.RoleType = models.RoleType(role)
	return created, nil
}

// GetByID loads a user
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query, args, err := r.sb.Select("id", "email", "username", "role_type", "created_at", "updated_at", "last_login_at").
		From("users").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get user query: %w", err)
	}

	var u models.User
	var role string
	err = r.db.QueryRow(ctx, query, args...).Scan(&u.ID, &u.Email, &u.Username, &role, &u.CreatedAt, &u.UpdatedAt, &u.LastLoginAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	u.RoleType = models.RoleType(role)
	return &u, nil
}

// ListIDs returns the id of every known user
func (r *UserRepository) ListIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT id FROM users ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to list user ids: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to scan user ids: %w", err)
	}
	return ids, nil
}

// Count returns the number of known users
func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return n, nil
}

// PromoteAdmins grants the admin role to users whose email is in emails
func (r *UserRepository) PromoteAdmins(ctx context.Context, emails []string) (int64, error) {
	lowered := make([]string, 0, len(emails))
	for _, e := range emails {
		if e = strings.ToLower(strings.TrimSpace(e)); e != "" {
			lowered = append(lowered, e)
		}
	}
	if len(lowered) == 0 {
		return 0, nil
	}

	query, args, err := r.sb.Update("users").
		Set("role_type", string(models.RoleAdmin)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"lower(email)": lowered}).
		Where(squirrel.NotEq{"role_type": string(models.RoleAdmin)}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build promote admins query: %w", err)
	}
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to promote admins: %w", err)
	}
	return tag.RowsAffected(), nil
}
