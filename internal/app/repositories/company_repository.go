package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yigit/placementprep/internal/app/models"
	"github.com/yigit/placementprep/internal/pkg/apperrors"
	"github.com/yigit/placementprep/internal/pkg/logger"
)

// CompanyRepository stores company documents as JSONB. The id, name,
// status and timestamp columns are authoritative; the document carries
// everything else.
type CompanyRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewCompanyRepository creates a new CompanyRepository
func NewCompanyRepository(db *pgxpool.Pool) *CompanyRepository {
	return &CompanyRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// CompanyFilter narrows a company listing
type CompanyFilter struct {
	Status *models.CompanyStatus
	Search string // case-insensitive substring of the name
	Offset uint64
	Limit  uint64
}

var companyColumns = []string{"id", "name", "status", "doc", "created_at", "updated_at"}

func scanCompany(row pgx.Row) (*models.Company, error) {
	var (
		id                   uuid.UUID
		name, status         string
		doc                  []byte
		createdAt, updatedAt time.Time
	)
	if err := row.Scan(&id, &name, &status, &doc, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	var c models.Company
	if err := json.Unmarshal(doc, &c); err != nil {
		return nil, fmt.Errorf("decode company %s: %w", id, err)
	}
	c.ID = id
	c.Name = name
	c.Status = models.CompanyStatus(status)
	c.CreatedAt = createdAt
	c.UpdatedAt = updatedAt
	return &c, nil
}

// Create inserts c, assigning an id and timestamps when unset
func (r *CompanyRepository) Create(ctx context.Context, c *models.Company) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	now := time.Now().UTC()
	c.CreatedAt, c.UpdatedAt = now, now

	doc, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode company: %w", err)
	}

	query, args, err := r.sb.Insert("companies").
		Columns(companyColumns...).
		Values(c.ID, c.Name, string(c.Status), doc, c.CreatedAt, c.UpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert company query: %w", err)
	}
	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		logger.Error().Err(err).Str("companyID", c.ID.String()).Msg("Error inserting company")
		return fmt.Errorf("failed to insert company: %w", err)
	}
	return nil
}

// GetByID loads one company regardless of status
func (r *CompanyRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	query, args, err := r.sb.Select(companyColumns...).
		From("companies").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get company query: %w", err)
	}

	c, err := scanCompany(r.db.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrCompanyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get company: %w", err)
	}
	return c, nil
}

func (r *CompanyRepository) applyFilter(b squirrel.SelectBuilder, f CompanyFilter) squirrel.SelectBuilder {
	if f.Status != nil {
		b = b.Where(squirrel.Eq{"status": string(*f.Status)})
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		b = b.Where(squirrel.ILike{"name": "%" + escapeLike(s) + "%"})
	}
	return b
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes s match literally inside a LIKE pattern (default escape
// character is backslash)
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// List returns one page of companies ordered by name, plus the total
func (r *CompanyRepository) List(ctx context.Context, f CompanyFilter) ([]*models.Company, int64, error) {
	countQuery, countArgs, err := r.applyFilter(r.sb.Select("COUNT(*)").From("companies"), f).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count companies query: %w", err)
	}
	var total int64
	if err := r.db.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count companies: %w", err)
	}
	if total == 0 {
		return []*models.Company{}, 0, nil
	}

	b := r.applyFilter(r.sb.Select(companyColumns...).From("companies"), f).
		OrderBy("lower(name) ASC", "created_at DESC")
	if f.Limit > 0 {
		b = b.Limit(f.Limit).Offset(f.Offset)
	}
	query, args, err := b.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list companies query: %w", err)
	}

	companies, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return companies, total, nil
}

func (r *CompanyRepository) query(ctx context.Context, query string, args ...interface{}) ([]*models.Company, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query companies: %w", err)
	}
	defer rows.Close()

	companies := make([]*models.Company, 0)
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning company row")
			return nil, err
		}
		companies = append(companies, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating company rows: %w", err)
	}
	return companies, nil
}

// Save overwrites the stored document with c. Concurrent saves of the same
// company are last-write-wins.
func (r *CompanyRepository) Save(ctx context.Context, c *models.Company) error {
	c.UpdatedAt = time.Now().UTC()
	doc, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode company: %w", err)
	}

	query, args, err := r.sb.Update("companies").
		Set("name", c.Name).
		Set("status", string(c.Status)).
		Set("doc", doc).
		Set("updated_at", c.UpdatedAt).
		Where(squirrel.Eq{"id": c.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update company query: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		logger.Error().Err(err).Str("companyID", c.ID.String()).Msg("Error saving company")
		return fmt.Errorf("failed to save company: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrCompanyNotFound
	}
	return nil
}

// Delete removes a company; notifications, batches and comments cascade
func (r *CompanyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query, args, err := r.sb.Delete("companies").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete company query: %w", err)
	}
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete company: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrCompanyNotFound
	}
	return nil
}

// CountByStatus counts companies in one status
func (r *CompanyRepository) CountByStatus(ctx context.Context, status models.CompanyStatus) (int64, error) {
	query, args, err := r.sb.Select("COUNT(*)").From("companies").
		Where(squirrel.Eq{"status": string(status)}).ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count query: %w", err)
	}
	var n int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count companies: %w", err)
	}
	return n, nil
}

// ListApprovedWithoutBatch finds approved companies whose fan-out of the
// given type never completed
func (r *CompanyRepository) ListApprovedWithoutBatch(ctx context.Context, notifType models.NotificationType, limit uint64) ([]*models.Company, error) {
	query, args, err := r.sb.Select("c.id", "c.name", "c.status", "c.doc", "c.created_at", "c.updated_at").
		From("companies c").
		LeftJoin("notification_batches b ON b.company_id = c.id AND b.type = ?", string(notifType)).
		Where(squirrel.Eq{"c.status": string(models.CompanyApproved)}).
		Where("b.company_id IS NULL").
		OrderBy("c.updated_at ASC").
		Limit(limit).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build reconcile query: %w", err)
	}
	return r.query(ctx, query, args...)
}
