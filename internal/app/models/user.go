package models

import (
	"time"
)

// User is the local record of an identity issued by the external provider.
// It exists so notifications can be fanned out to every known user.
type User struct {
	ID          string     `json:"id" db:"id" example:"google-oauth2|1093"`        // Subject from the identity provider
	Email       string     `json:"email" db:"email" example:"student@college.edu"` // User's email address
	Username    string     `json:"username" db:"username" example:"asha"`          // Display name
	RoleType    RoleType   `json:"roleType" db:"role_type" example:"STUDENT"`      // STUDENT or ADMIN
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`                      // First time the user was seen
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at"`                      // Last profile change
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty" db:"last_login_at"`       // Last session sync (nullable)
}

// IsAdmin reports whether the role flag grants admin access
func (u *User) IsAdmin() bool {
	return u != nil && u.RoleType == RoleAdmin
}
