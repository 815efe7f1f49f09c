package dto

// StatsResponse holds the admin dashboard counters
type StatsResponse struct {
	TotalUsers          int64 `json:"totalUsers" example:"412"`
	PendingSubmissions  int64 `json:"pendingSubmissions" example:"9"`
	ApprovedSubmissions int64 `json:"approvedSubmissions" example:"230"`
	ApprovedCompanies   int64 `json:"approvedCompanies" example:"57"`
	PendingCompanies    int64 `json:"pendingCompanies" example:"3"`
}
