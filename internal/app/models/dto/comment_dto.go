package dto

import (
	"time"

	"github.com/yigit/placementprep/internal/app/models"
)

// CreateCommentRequest is the body of POST /companies/:id/comments
type CreateCommentRequest struct {
	Content string `json:"content" binding:"required,max=2000" example:"The second round was mostly DSA on graphs."`
}

// CommentResponse represents a comment
type CommentResponse struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"companyId"`
	UserID    string    `json:"userId"`
	Username  string    `json:"username" example:"asha"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewCommentResponse maps a comment
func NewCommentResponse(c *models.Comment) CommentResponse {
	return CommentResponse{
		ID:        c.ID.String(),
		CompanyID: c.CompanyID.String(),
		UserID:    c.UserID,
		Username:  c.Username,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
	}
}
