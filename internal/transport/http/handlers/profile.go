package handlers

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Nasymkhan/SOFTWAREHOUSE/internal/infra/config"
	"github.com/Nasymkhan/SOFTWAREHOUSE/internal/transport/http/middleware"
	"github.com/Nasymkhan/SOFTWAREHOUSE/internal/usecase"
)

// ProfileHandler exposes profile read, edit, and picture upload endpoints.
type ProfileHandler struct {
	profiles *usecase.ProfileService
	uploads  config.UploadSettings
	logger   *zap.Logger
}

// NewProfileHandler constructs ProfileHandler.
func NewProfileHandler(profiles *usecase.ProfileService, uploads config.UploadSettings, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, uploads: uploads, logger: logger}
}

// RegisterRoutes binds profile routes behind the session middleware.
func (h *ProfileHandler) RegisterRoutes(r *gin.RouterGroup, requireSession gin.HandlerFunc) {
	group := r.Group("/profile", requireSession)
	group.GET("", h.get)
	group.PATCH("", h.update)
	group.POST("/picture", h.uploadPicture)
}

var profileErrorCases = []ErrorCase{
	{Err: usecase.ErrUserNotFound, Status: http.StatusNotFound, Message: "user not found"},
	{Err: usecase.ErrNoProfileChanges, Status: http.StatusBadRequest, Message: "no profile changes provided"},
	{Err: usecase.ErrInvalidProfile, Status: http.StatusBadRequest, Message: usecase.ErrInvalidProfile.Error()},
	{Err: usecase.ErrUnsupportedFileType, Status: http.StatusBadRequest, Message: "unsupported file type"},
	{Err: usecase.ErrFileTooLarge, Status: http.StatusBadRequest, Message: "file exceeds maximum size"},
}

func (h *ProfileHandler) get(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	profile, err := h.profiles.Get(c.Request.Context(), user.ID)
	if err != nil {
		RespondWithMappedError(c, err, profileErrorCases, http.StatusInternalServerError, "profile lookup failed")
		return
	}

	c.JSON(http.StatusOK, newUserSummary(profile))
}

func (h *ProfileHandler) update(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	var req ProfileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid request payload"))
		return
	}

	updated, err := h.profiles.Update(c.Request.Context(), user.ID, usecase.ProfileUpdate{
		FullName: req.FullName,
		Location: req.Location,
		Country:  req.Country,
	})
	if err != nil {
		RespondWithMappedError(c, err, profileErrorCases, http.StatusInternalServerError, "profile update failed")
		return
	}

	c.JSON(http.StatusOK, newUserSummary(updated))
}

func (h *ProfileHandler) uploadPicture(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	file, err := c.FormFile("picture")
	if err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "picture file is required"))
		return
	}

	filename, err := h.profiles.SetProfilePicture(c.Request.Context(), user.ID, file.Filename, file.Size)
	if err != nil {
		RespondWithMappedError(c, err, profileErrorCases, http.StatusInternalServerError, "picture upload failed")
		return
	}

	if err := os.MkdirAll(h.uploads.Directory, 0o755); err != nil {
		h.logger.Error("create upload directory", zap.Error(err))
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "picture upload failed"))
		return
	}
	dest := filepath.Join(h.uploads.Directory, filename)
	if err := c.SaveUploadedFile(file, dest); err != nil {
		h.logger.Error("store uploaded picture", zap.Error(err), zap.String("path", dest))
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "picture upload failed"))
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: fmt.Sprintf("profile picture updated: %s", filename)})
}
