package controllers

import (
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yigit/placementprep/internal/app/models/dto"
	"github.com/yigit/placementprep/internal/middleware"
	"github.com/yigit/placementprep/internal/pkg/apperrors"
	"github.com/yigit/placementprep/internal/pkg/filestorage"
)

// MediaStore signs and verifies links to stored objects
type MediaStore interface {
	filestorage.URLSigner
	Verify(key, expires, sig string) (string, error)
}

// MediaController serves interview videos behind signed links
type MediaController struct {
	store MediaStore
	ttl   time.Duration
}

// NewMediaController creates a new MediaController
func NewMediaController(store MediaStore, ttl time.Duration) *MediaController {
	return &MediaController{store: store, ttl: ttl}
}

// Serve streams an object whose link signature checks out
// @Summary Fetch a media object
// @Description Serves a stored object when expires and sig match the signed link
// @Tags media
// @Produce octet-stream
// @Param key path string true "Object key"
// @Param expires query int true "Unix expiry"
// @Param sig query string true "Link signature"
// @Success 200 {file} binary "Object content"
// @Failure 400 {object} dto.ErrorResponse "Invalid key"
// @Failure 403 {object} dto.ErrorResponse "Invalid or expired link"
// @Failure 404 {object} dto.ErrorResponse "Object not found"
// @Router /media/{key} [get]
func (c *MediaController) Serve(ctx *gin.Context) {
	path, err := c.store.Verify(ctx.Param("key"), ctx.Query("expires"), ctx.Query("sig"))
	if err != nil {
		middleware.HandleAPIError(ctx, mediaError(err))
		return
	}
	if info, err := os.Stat(path); err != nil || info.IsDir() {
		middleware.HandleAPIError(ctx, apperrors.NewResourceNotFoundError("media not found"))
		return
	}
	ctx.File(path)
}

// Sign issues a signed link for an object key
// @Summary Sign a media link
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.SignMediaRequest true "Object key"
// @Success 200 {object} dto.APIResponse{data=dto.MediaURLResponse} "Signed link"
// @Failure 400 {object} dto.ErrorResponse "Invalid key"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Admin access required"
// @Router /admin/media/sign [post]
func (c *MediaController) Sign(ctx *gin.Context) {
	var req dto.SignMediaRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	expiresAt := time.Now().Add(c.ttl).UTC()
	url, err := c.store.SignedURL(ctx.Request.Context(), req.Key, c.ttl)
	if err != nil {
		middleware.HandleAPIError(ctx, mediaError(err))
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.MediaURLResponse{URL: url, ExpiresAt: expiresAt}))
}

func mediaError(err error) error {
	switch {
	case errors.Is(err, filestorage.ErrInvalidKey):
		return apperrors.NewBadRequestError("invalid media key")
	case errors.Is(err, filestorage.ErrSignatureExpired):
		return apperrors.NewForbiddenError("media link expired")
	case errors.Is(err, filestorage.ErrSignatureInvalid):
		return apperrors.NewForbiddenError("invalid media signature")
	default:
		return err
	}
}
