package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	CompanyRepository      *CompanyRepository
	SubmissionRepository   *SubmissionRepository
	NotificationRepository *NotificationRepository
	UserRepository         *UserRepository
	CommentRepository      *CommentRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		CompanyRepository:      NewCompanyRepository(db),
		SubmissionRepository:   NewSubmissionRepository(db),
		NotificationRepository: NewNotificationRepository(db),
		UserRepository:         NewUserRepository(db),
		CommentRepository:      NewCommentRepository(db),
	}
}
