package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/placementprep/internal/app/models/dto"
	"github.com/yigit/placementprep/internal/app/services"
	"github.com/yigit/placementprep/internal/middleware"
	"github.com/yigit/placementprep/internal/pkg/helpers"
)

// CommentController handles company discussion threads
type CommentController struct {
	commentService services.CommentService
}

// NewCommentController creates a new CommentController
func NewCommentController(commentService services.CommentService) *CommentController {
	return &CommentController{commentService: commentService}
}

// ListComments lists a company's comments
// @Summary List comments
// @Tags comments
// @Produce json
// @Param id path string true "Company ID" Format(uuid)
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(20)
// @Success 200 {object} dto.APIResponse{data=[]dto.CommentResponse} "Comments retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid company ID"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /companies/{id}/comments [get]
func (c *CommentController) ListComments(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)

	comments, total, err := c.commentService.ListComments(ctx.Request.Context(), ctx.Param("id"), page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewPaginatedResponse(comments, page, size, total))
}

// CreateComment posts a comment on a company
// @Summary Add a comment
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Company ID" Format(uuid)
// @Param request body dto.CreateCommentRequest true "Comment"
// @Success 201 {object} dto.APIResponse{data=dto.CommentResponse} "Comment created"
// @Failure 400 {object} dto.ErrorResponse "Invalid comment"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Company not found"
// @Router /companies/{id}/comments [post]
func (c *CommentController) CreateComment(ctx *gin.Context) {
	id, ok := mustIdentity(ctx)
	if !ok {
		return
	}
	var req dto.CreateCommentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	comment, err := c.commentService.CreateComment(ctx.Request.Context(), id, ctx.Param("id"), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(comment))
}

// DeleteComment removes a comment
// @Summary Delete a comment
// @Description The author or an admin may delete a comment
// @Tags comments
// @Produce json
// @Security BearerAuth
// @Param commentId path string true "Comment ID" Format(uuid)
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Comment deleted"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Not the author"
// @Failure 404 {object} dto.ErrorResponse "Comment not found"
// @Router /comments/{commentId} [delete]
func (c *CommentController) DeleteComment(ctx *gin.Context) {
	id, ok := mustIdentity(ctx)
	if !ok {
		return
	}
	if err := c.commentService.DeleteComment(ctx.Request.Context(), id, ctx.Param("commentId")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "Comment deleted"}))
}
