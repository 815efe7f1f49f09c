package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/placementprep/internal/app/models/dto"
	"github.com/yigit/placementprep/internal/app/services"
	"github.com/yigit/placementprep/internal/middleware"
)

// NotificationController handles the caller's inbox
type NotificationController struct {
	notificationService services.NotificationService
}

// NewNotificationController creates a new NotificationController
func NewNotificationController(notificationService services.NotificationService) *NotificationController {
	return &NotificationController{notificationService: notificationService}
}

// List returns the latest notifications
// @Summary List notifications
// @Description Returns the caller's 50 most recent notifications and the unread count
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.NotificationListResponse} "Notifications retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /notifications [get]
func (c *NotificationController) List(ctx *gin.Context) {
	id, ok := mustIdentity(ctx)
	if !ok {
		return
	}
	inbox, err := c.notificationService.List(ctx.Request.Context(), id.UserID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(inbox))
}

// UnreadCount returns the unread counter
// @Summary Unread notification count
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.UnreadCountResponse} "Count retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /notifications/unread-count [get]
func (c *NotificationController) UnreadCount(ctx *gin.Context) {
	id, ok := mustIdentity(ctx)
	if !ok {
		return
	}
	n, err := c.notificationService.UnreadCount(ctx.Request.Context(), id.UserID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.UnreadCountResponse{Count: n}))
}

// MarkSeen marks one notification read
// @Summary Mark notification as seen
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param id path string true "Notification ID" Format(uuid)
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Notification marked as seen"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Notification not found"
// @Router /notifications/{id}/seen [patch]
func (c *NotificationController) MarkSeen(ctx *gin.Context) {
	id, ok := mustIdentity(ctx)
	if !ok {
		return
	}
	if err := c.notificationService.MarkSeen(ctx.Request.Context(), id.UserID, ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "Notification marked as seen"}))
}

// MarkAllSeen marks every notification read
// @Summary Mark all notifications as seen
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "All notifications marked as seen"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /notifications/seen-all [patch]
func (c *NotificationController) MarkAllSeen(ctx *gin.Context) {
	id, ok := mustIdentity(ctx)
	if !ok {
		return
	}
	if err := c.notificationService.MarkAllSeen(ctx.Request.Context(), id.UserID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "All notifications marked as seen"}))
}

// Delete removes one notification
// @Summary Delete a notification
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param id path string true "Notification ID" Format(uuid)
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Notification deleted"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Notification not found"
// @Router /notifications/{id} [delete]
func (c *NotificationController) Delete(ctx *gin.Context) {
	id, ok := mustIdentity(ctx)
	if !ok {
		return
	}
	if err := c.notificationService.Delete(ctx.Request.Context(), id.UserID, ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "Notification deleted"}))
}

// Clear removes every notification of the caller
// @Summary Clear all notifications
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Notifications cleared"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /notifications [delete]
func (c *NotificationController) Clear(ctx *gin.Context) {
	id, ok := mustIdentity(ctx)
	if !ok {
		return
	}
	if _, err := c.notificationService.Clear(ctx.Request.Context(), id.UserID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "Notifications cleared"}))
}
