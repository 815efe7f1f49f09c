package dto

import (
	"time"

	"github.com/yigit/placementprep/internal/app/models"
)

// UserResponse is the current user as seen by the frontend
type UserResponse struct {
	ID          string     `json:"id" example:"google-oauth2|1093"`
	Email       string     `json:"email" example:"asha@college.edu"`
	Username    string     `json:"username" example:"asha"`
	RoleType    string     `json:"roleType" example:"STUDENT" enums:"STUDENT,ADMIN"`
	IsAdmin     bool       `json:"isAdmin"`
	CreatedAt   time.Time  `json:"createdAt"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
}

// SessionResponse is returned by GET /auth/me
type SessionResponse struct {
	User      UserResponse `json:"user"`
	IsNewUser bool         `json:"isNewUser"`
}

// NewUserResponse maps a user; isAdmin reflects every admin source, not just the role flag
func NewUserResponse(u *models.User, isAdmin bool) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		Username:    u.Username,
		RoleType:    string(u.RoleType),
		IsAdmin:     isAdmin,
		CreatedAt:   u.CreatedAt,
		LastLoginAt: u.LastLoginAt,
	}
}
