package dto

import (
	"time"

	"github.com/yigit/placementprep/internal/app/models"
)

// NotificationResponse is one entry of the notification inbox
type NotificationResponse struct {
	ID        string    `json:"id"`
	Type      string    `json:"type" example:"new_company"`
	Title     string    `json:"title" example:"New company added"`
	Message   string    `json:"message" example:"Acme Corp has been added to the portal"`
	CompanyID *string   `json:"companyId,omitempty"`
	IsSeen    bool      `json:"isSeen"`
	CreatedAt time.Time `json:"createdAt"`
}

// NotificationListResponse is the inbox with its unread counter
type NotificationListResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	UnreadCount   int                    `json:"unreadCount" example:"2"`
}

// UnreadCountResponse carries only the counter
type UnreadCountResponse struct {
	Count int `json:"count" example:"2"`
}

// NewNotificationResponse maps a notification
func NewNotificationResponse(n *models.Notification) NotificationResponse {
	resp := NotificationResponse{
		ID:        n.ID.String(),
		Type:      string(n.Type),
		Title:     n.Title,
		Message:   n.Message,
		IsSeen:    n.IsSeen,
		CreatedAt: n.CreatedAt,
	}
	if n.CompanyID != nil {
		id := n.CompanyID.String()
		resp.CompanyID = &id
	}
	return resp
}

// NewNotificationList maps an inbox page
func NewNotificationList(items []*models.Notification, unread int) NotificationListResponse {
	out := make([]NotificationResponse, 0, len(items))
	for _, n := range items {
		out = append(out, NewNotificationResponse(n))
	}
	return NotificationListResponse{Notifications: out, UnreadCount: unread}
}
