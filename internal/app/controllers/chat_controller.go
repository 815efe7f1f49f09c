package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/placementprep/internal/app/models/dto"
	"github.com/yigit/placementprep/internal/app/services"
	"github.com/yigit/placementprep/internal/middleware"
)

// ChatController handles the preparation assistant
type ChatController struct {
	chatService services.ChatService
}

// NewChatController creates a new ChatController
func NewChatController(chatService services.ChatService) *ChatController {
	return &ChatController{chatService: chatService}
}

// Ask forwards a question to the assistant
// @Summary Ask the preparation assistant
// @Description Passes the message to the configured language model. When companyId names an approved company its details are included as context.
// @Tags chat
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ChatRequest true "Question"
// @Success 200 {object} dto.APIResponse{data=dto.ChatResponse} "Assistant reply"
// @Failure 400 {object} dto.ErrorResponse "Invalid request"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Company not found"
// @Failure 502 {object} dto.ErrorResponse "Assistant call failed"
// @Failure 503 {object} dto.ErrorResponse "Assistant not configured"
// @Router /chat [post]
func (c *ChatController) Ask(ctx *gin.Context) {
	var req dto.ChatRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	resp, err := c.chatService.Ask(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}
