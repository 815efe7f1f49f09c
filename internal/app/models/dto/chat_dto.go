package dto

// ChatRequest is a question for the preparation assistant
type ChatRequest struct {
	Message   string `json:"message" binding:"required,max=4000" example:"How should I prepare for Acme's system design round?"`
	CompanyID string `json:"companyId,omitempty" example:"3b241101-e2bb-4255-8caf-4136c566a962"`
}

// ChatResponse is the assistant's answer
type ChatResponse struct {
	Reply string `json:"reply"`
}
