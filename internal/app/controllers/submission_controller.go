package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/placementprep/internal/app/models/dto"
	"github.com/yigit/placementprep/internal/app/services"
	"github.com/yigit/placementprep/internal/middleware"
)

// SubmissionController handles student contributions
type SubmissionController struct {
	submissionService services.SubmissionService
}

// NewSubmissionController creates a new SubmissionController
func NewSubmissionController(submissionService services.SubmissionService) *SubmissionController {
	return &SubmissionController{submissionService: submissionService}
}

// CreateSubmission queues a content fragment for moderation
// @Summary Submit interview content
// @Description Queues an online question, interview question, process step or must-do topic for admin review. Online question content may be plain text or a JSON object with question and solution.
// @Tags submissions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateSubmissionRequest true "Submission"
// @Success 201 {object} dto.APIResponse{data=dto.SubmissionReceipt} "Submission queued"
// @Failure 400 {object} dto.ErrorResponse "Invalid submission"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /submissions [post]
func (c *SubmissionController) CreateSubmission(ctx *gin.Context) {
	id, ok := mustIdentity(ctx)
	if !ok {
		return
	}
	var req dto.CreateSubmissionRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	receipt, err := c.submissionService.CreateSubmission(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessMessage(receipt, "Submission received and pending review"))
}
