package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/yigit/placementprep/internal/middleware"
	"github.com/yigit/placementprep/internal/pkg/apperrors"
	"github.com/yigit/placementprep/internal/pkg/auth"
)

// mustIdentity returns the caller set by the auth middleware. Routes that
// use it are always behind JWTAuth; a missing identity is answered with 401.
func mustIdentity(ctx *gin.Context) (auth.Identity, bool) {
	id, ok := middleware.CurrentIdentity(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrUnauthenticated)
		return auth.Identity{}, false
	}
	return id, true
}
