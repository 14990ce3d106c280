package services

import (
	"github.com/SAP-F-2025/phonics-service/internal/models"
)

// ===== MATERIAL DTOs =====

type CreateMaterialRequest struct {
	Title        string  `json:"title" binding:"required" validate:"required,notblank,max=200"`
	ImageURL     *string `json:"image_url" validate:"omitempty,max=1000"`
	DisplayOrder *int    `json:"display_order" validate:"omitempty,min=0"`
}

type UpdateMaterialRequest struct {
	Title        *string `json:"title" validate:"omitempty,notblank,max=200"`
	ImageURL     *string `json:"image_url" validate:"omitempty,max=1000"`
	ClearImage   bool    `json:"clear_image"`
	DisplayOrder *int    `json:"display_order" validate:"omitempty,min=0"`
}

// ===== ASSIGNMENT DTOs =====

// AssignmentRequest is the full document an author saves. Question ids sent
// by the client are kept; missing or repeated ones are reassigned.
type AssignmentRequest struct {
	MaterialID   uint                `json:"material_id" binding:"required"`
	Title        string              `json:"title"`
	Description  *string             `json:"description"`
	SoundLetter  string              `json:"sound_letter"`
	QuestionType models.QuestionType `json:"question_type"`
	Questions    []models.Question   `json:"questions"`
}

type QuestionResponse struct {
	AssignmentID uint            `json:"assignment_id"`
	Question     models.Question `json:"question"`
	Total        int             `json:"questions_count"`
}

// ===== IMAGE DTOs =====

type ImageUploadResponse struct {
	Key         string          `json:"key"`
	URL         models.ImageRef `json:"url"`
	ContentType string          `json:"content_type"`
	Size        int64           `json:"size"`
}

// ===== PLAY AND GRADING DTOs =====

type StartSessionRequest struct {
	AssignmentID uint `json:"assignment_id" binding:"required"`
}

type CheckResponse struct {
	Correct bool `json:"correct"`
	IsLast  bool `json:"is_last"`
}

type CheckAnswerRequest struct {
	Question models.Question       `json:"question"`
	Answer   models.AnswerEnvelope `json:"answer"`
}

type ScoreRequest struct {
	Questions []models.Question       `json:"questions"`
	Answers   []models.AnswerEnvelope `json:"answers"`
}

// ===== PROFILE DTOs =====

type ListProfilesRequest struct {
	Role   *models.UserRole `form:"role" validate:"omitempty,user_role"`
	Limit  int              `form:"limit" validate:"omitempty,min=1,max=100"`
	Offset int              `form:"offset" validate:"omitempty,min=0"`
}

type ProfileListResponse struct {
	Profiles []*models.Profile `json:"profiles"`
	Total    int64             `json:"total"`
	Limit    int               `json:"limit"`
	Offset   int               `json:"offset"`
}

type SetRoleRequest struct {
	Email string          `json:"email" validate:"omitempty,email"`
	Role  models.UserRole `json:"role" binding:"required" validate:"required,user_role"`
}

// ===== IMPORT DTOs =====

type ImportRowError struct {
	Row     int    `json:"row"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

type ImportResult struct {
	TotalRows    int                        `json:"total_rows"`
	SuccessCount int                        `json:"success_count"`
	ErrorCount   int                        `json:"error_count"`
	Errors       []ImportRowError           `json:"errors"`
	Assignments  []models.AssignmentSummary `json:"assignments,omitempty"`
}
