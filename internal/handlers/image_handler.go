package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/phonics-service/internal/services"
	"github.com/SAP-F-2025/phonics-service/internal/utils"
)

// multipart overhead allowed on top of the image itself
const uploadSlack = 64 << 10

type ImageHandler struct {
	BaseHandler
	imageService services.ImageService
}

func NewImageHandler(imageService services.ImageService, logger utils.Logger) *ImageHandler {
	return &ImageHandler{
		BaseHandler:  NewBaseHandler(logger),
		imageService: imageService,
	}
}

// UploadImage stores a multipart "file" field and returns its public URL
// @Summary Upload image
// @Tags admin
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Image"
// @Success 201 {object} services.ImageUploadResponse
// @Failure 413 {object} ErrorResponse
// @Failure 415 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /admin/images [post]
func (h *ImageHandler) UploadImage(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, services.MaxImageSize+uploadSlack)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.handleServiceError(c, services.ErrImageTooLarge)
			return
		}
		h.RespondWithError(c, http.StatusBadRequest, CodeBadRequest, "A file field is required", err)
		return
	}
	if fileHeader.Size > services.MaxImageSize {
		h.handleServiceError(c, services.ErrImageTooLarge)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.RespondWithError(c, http.StatusBadRequest, CodeBadRequest, "Unable to read uploaded file", err)
		return
	}
	defer file.Close()

	h.LogRequest(c, "Uploading image", "filename", fileHeader.Filename, "size", fileHeader.Size)

	resp, err := h.imageService.Upload(c.Request.Context(), fileHeader.Filename, file, principal(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// DeleteImage removes an uploaded image by key
func (h *ImageHandler) DeleteImage(c *gin.Context) {
	key, ok := h.parseStringIDParam(c, "key")
	if !ok {
		return
	}

	if err := h.imageService.Delete(c.Request.Context(), key, principal(c)); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
