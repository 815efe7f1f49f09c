// Package controllers handles HTTP request handling
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yigit/placementprep/internal/app/models/dto"
	"github.com/yigit/placementprep/internal/app/services"
	"github.com/yigit/placementprep/internal/middleware"
)

// AuthController handles session related operations. Sign-in itself happens
// at the identity provider; this API only trusts the bearer token it issues.
type AuthController struct {
	userService services.UserService
	logger      zerolog.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(userService services.UserService, logger zerolog.Logger) *AuthController {
	return &AuthController{
		userService: userService,
		logger:      logger,
	}
}

// Me syncs the caller into the user table
// @Summary Current session
// @Description Records the authenticated user on first visit, sends the welcome webhook for new users and returns the profile with the resolved admin flag
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.SessionResponse} "Session synced"
// @Failure 400 {object} dto.ErrorResponse "Token carries no email"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/me [get]
func (c *AuthController) Me(ctx *gin.Context) {
	id, ok := mustIdentity(ctx)
	if !ok {
		return
	}

	session, err := c.userService.SyncSession(ctx.Request.Context(), id)
	if err != nil {
		c.logger.Warn().Err(err).Str("userID", id.UserID).Msg("Session sync failed")
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(session))
}
