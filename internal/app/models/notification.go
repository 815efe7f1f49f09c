package models

import (
	"time"

	"github.com/google/uuid"
)

// NotificationType identifies what produced a notification
type NotificationType string

const (
	NotificationNewCompany NotificationType = "new_company"
)

// Notification is a per-user message
type Notification struct {
	ID        uuid.UUID        `json:"id" db:"id"`
	UserID    string           `json:"userId" db:"user_id"`
	Type      NotificationType `json:"type" db:"type"`
	Title     string           `json:"title" db:"title"`
	Message   string           `json:"message" db:"message"`
	CompanyID *uuid.UUID       `json:"companyId,omitempty" db:"company_id"`
	IsSeen    bool             `json:"isSeen" db:"is_seen"`
	CreatedAt time.Time        `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time        `json:"updatedAt" db:"updated_at"`
}
