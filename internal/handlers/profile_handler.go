package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/phonics-service/internal/services"
	"github.com/SAP-F-2025/phonics-service/internal/utils"
)

type ProfileHandler struct {
	BaseHandler
	profileService services.ProfileService
}

func NewProfileHandler(profileService services.ProfileService, logger utils.Logger) *ProfileHandler {
	return &ProfileHandler{
		BaseHandler:    NewBaseHandler(logger),
		profileService: profileService,
	}
}

// Me returns the caller's profile
func (h *ProfileHandler) Me(c *gin.Context) {
	profile, err := h.profileService.Me(c.Request.Context(), principal(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) ListProfiles(c *gin.Context) {
	var req services.ListProfilesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, CodeBadRequest, "Invalid query parameters", err, err.Error())
		return
	}

	resp, err := h.profileService.List(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// SetRole assigns a role to an identity provider subject
func (h *ProfileHandler) SetRole(c *gin.Context) {
	id, ok := h.parseStringIDParam(c, "id")
	if !ok {
		return
	}

	h.LogRequest(c, "Setting profile role", "subject", id)

	var req services.SetRoleRequest
	if !h.bindJSON(c, &req) {
		return
	}

	profile, err := h.profileService.SetRole(c.Request.Context(), id, &req, principal(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}
