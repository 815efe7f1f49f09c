package dto

import "time"

// APIResponse is the envelope every successful handler writes
type APIResponse struct {
	Success    bool            `json:"success" example:"true"`
	Message    string          `json:"message,omitempty" example:"Operation completed successfully"`
	Data       interface{}     `json:"data,omitempty"`
	Error      *ErrorDetail    `json:"error,omitempty"`
	Pagination *PaginationInfo `json:"pagination,omitempty"`
	Timestamp  time.Time       `json:"timestamp" example:"2026-04-23T12:01:05.123Z"`
}

// PaginationInfo describes one page of a listing
type PaginationInfo struct {
	CurrentPage int   `json:"currentPage" example:"1"`
	TotalPages  int   `json:"totalPages" example:"4"`
	PageSize    int   `json:"pageSize" example:"20"`
	TotalItems  int64 `json:"totalItems" example:"73"`
}

// SuccessResponse is returned by endpoints that only acknowledge
type SuccessResponse struct {
	Message string `json:"message" example:"Submission rejected"`
}

// NewSuccessResponse wraps data in a successful envelope
func NewSuccessResponse(data interface{}) APIResponse {
	return APIResponse{
		Success:   true,
		Data:      data,
		Timestamp: time.Now(),
	}
}

// NewSuccessMessage wraps data with a human-readable message
func NewSuccessMessage(data interface{}, message string) APIResponse {
	resp := NewSuccessResponse(data)
	resp.Message = message
	return resp
}

// NewPaginatedResponse wraps a page of items with its pagination info
func NewPaginatedResponse(items interface{}, page, pageSize int, total int64) APIResponse {
	resp := NewSuccessResponse(items)
	resp.Pagination = NewPaginationInfo(page, pageSize, total)
	return resp
}

// NewPaginationInfo computes the page count for total items
func NewPaginationInfo(page, pageSize int, total int64) *PaginationInfo {
	totalPages := 0
	if pageSize > 0 {
		totalPages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}
	return &PaginationInfo{
		CurrentPage: page,
		TotalPages:  totalPages,
		PageSize:    pageSize,
		TotalItems:  total,
	}
}
