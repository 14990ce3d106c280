package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/phonics-service/internal/services"
	"github.com/SAP-F-2025/phonics-service/internal/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type MaterialHandler struct {
	BaseHandler
	materialService     services.MaterialService
	assignmentService   services.AssignmentService
	importExportService services.ImportExportService
}

func NewMaterialHandler(
	materialService services.MaterialService,
	assignmentService services.AssignmentService,
	importExportService services.ImportExportService,
	logger utils.Logger,
) *MaterialHandler {
	return &MaterialHandler{
		BaseHandler:         NewBaseHandler(logger),
		materialService:     materialService,
		assignmentService:   assignmentService,
		importExportService: importExportService,
	}
}

// ListMaterials lists every material
// @Summary List materials
// @Description Lists materials ordered by display order
// @Tags materials
// @Produce json
// @Success 200 {array} models.Material
// @Failure 502 {object} ErrorResponse
// @Router /materials [get]
func (h *MaterialHandler) ListMaterials(c *gin.Context) {
	materials, err := h.materialService.List(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, materials)
}

// GetMaterial retrieves a material by ID
// @Summary Get material
// @Tags materials
// @Produce json
// @Param id path uint true "Material ID"
// @Success 200 {object} models.Material
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /materials/{id} [get]
func (h *MaterialHandler) GetMaterial(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	material, err := h.materialService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, material)
}

// ListMaterialAssignments lists the assignments of a material, oldest first
// @Summary List material assignments
// @Tags materials
// @Produce json
// @Param id path uint true "Material ID"
// @Success 200 {array} models.AssignmentSummary
// @Failure 404 {object} ErrorResponse
// @Router /materials/{id}/assignments [get]
func (h *MaterialHandler) ListMaterialAssignments(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	assignments, err := h.assignmentService.ListByMaterial(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, assignments)
}

// CreateMaterial creates a new material
// @Summary Create material
// @Tags admin
// @Accept json
// @Produce json
// @Param material body services.CreateMaterialRequest true "Material data"
// @Success 201 {object} models.Material
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /admin/materials [post]
func (h *MaterialHandler) CreateMaterial(c *gin.Context) {
	h.LogRequest(c, "Creating material")

	var req services.CreateMaterialRequest
	if !h.bindJSON(c, &req) {
		return
	}

	material, err := h.materialService.Create(c.Request.Context(), &req, principal(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, material)
}

func (h *MaterialHandler) UpdateMaterial(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	h.LogRequest(c, "Updating material", "material_id", id)

	var req services.UpdateMaterialRequest
	if !h.bindJSON(c, &req) {
		return
	}

	material, err := h.materialService.Update(c.Request.Context(), id, &req, principal(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, material)
}

// DeleteMaterial removes a material together with its assignments
func (h *MaterialHandler) DeleteMaterial(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	h.LogRequest(c, "Deleting material", "material_id", id)

	if err := h.materialService.Delete(c.Request.Context(), id, principal(c)); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ExportAssignments streams the material's assignments as an xlsx workbook
func (h *MaterialHandler) ExportAssignments(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	data, err := h.importExportService.ExportAssignmentsToExcel(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("material_%d_assignments_%s.xlsx", id, time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}

// ImportAssignments loads assignments from an uploaded workbook
func (h *MaterialHandler) ImportAssignments(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.RespondWithError(c, http.StatusBadRequest, CodeBadRequest, "A file field is required", err)
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		h.RespondWithError(c, http.StatusBadRequest, CodeBadRequest, "Unable to read uploaded file", err)
		return
	}
	defer file.Close()

	h.LogRequest(c, "Importing assignments", "material_id", id, "filename", fileHeader.Filename)

	result, err := h.importExportService.ImportAssignmentsFromExcel(c.Request.Context(), id, file, principal(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
