package dto

import "time"

// MediaURLResponse is a short-lived link to a stored object
type MediaURLResponse struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// SignMediaRequest asks for a signed link to a stored object
type SignMediaRequest struct {
	Key string `json:"key" binding:"required,max=512" example:"videos/acme-2025.mp4"`
}
