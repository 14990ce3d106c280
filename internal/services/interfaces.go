package services

import (
	"context"
	"io"

	"github.com/SAP-F-2025/phonics-service/internal/models"
	"github.com/SAP-F-2025/phonics-service/internal/playback"
)

// MaterialService manages the topics assignments are grouped under
type MaterialService interface {
	Create(ctx context.Context, req *CreateMaterialRequest, actor models.Principal) (*models.Material, error)
	GetByID(ctx context.Context, id uint) (*models.Material, error)
	List(ctx context.Context) ([]*models.Material, error)
	Update(ctx context.Context, id uint, req *UpdateMaterialRequest, actor models.Principal) (*models.Material, error)
	// Delete removes the material and all of its assignments in one transaction
	Delete(ctx context.Context, id uint, actor models.Principal) error
}

// AssignmentService stores assignments built through an authoring document
type AssignmentService interface {
	Create(ctx context.Context, req *AssignmentRequest, actor models.Principal) (*models.Assignment, error)
	GetByID(ctx context.Context, id uint) (*models.Assignment, error)
	ListByMaterial(ctx context.Context, materialID uint) ([]models.AssignmentSummary, error)
	Update(ctx context.Context, id uint, req *AssignmentRequest, actor models.Principal) (*models.Assignment, error)
	Delete(ctx context.Context, id uint, actor models.Principal) error

	// Single question edits
	AddQuestion(ctx context.Context, assignmentID uint, q models.Question, actor models.Principal) (*QuestionResponse, error)
	UpdateQuestion(ctx context.Context, assignmentID uint, questionID int64, q models.Question, actor models.Principal) (*QuestionResponse, error)
	RemoveQuestion(ctx context.Context, assignmentID uint, questionID int64, actor models.Principal) error

	// ValidateQuestion checks a draft without saving anything
	ValidateQuestion(ctx context.Context, q models.Question) error
}

// ImageService uploads images used by materials and questions
type ImageService interface {
	Upload(ctx context.Context, filename string, r io.Reader, actor models.Principal) (*ImageUploadResponse, error)
	Delete(ctx context.Context, key string, actor models.Principal) error
}

// PlayService runs play sessions for learners
type PlayService interface {
	Start(ctx context.Context, assignmentID uint, learner models.Principal) (*playback.SessionView, error)
	Get(ctx context.Context, sessionID string, learner models.Principal) (*playback.SessionView, error)
	RecordAnswer(ctx context.Context, sessionID string, answer models.AnswerEnvelope, learner models.Principal) (*playback.SessionView, error)
	Next(ctx context.Context, sessionID string, learner models.Principal) (*playback.SessionView, error)
	Previous(ctx context.Context, sessionID string, learner models.Principal) (*playback.SessionView, error)
	Check(ctx context.Context, sessionID string, learner models.Principal) (*CheckResponse, error)
	Finish(ctx context.Context, sessionID string, learner models.Principal) (*playback.ResultView, error)
	Restart(ctx context.Context, sessionID string, learner models.Principal) (*playback.SessionView, error)
	Abandon(ctx context.Context, sessionID string, learner models.Principal) error
	// Sweep drops idle sessions and returns how many were removed
	Sweep() int
}

// GradingService grades answers without a play session
type GradingService interface {
	Check(ctx context.Context, req *CheckAnswerRequest) (*CheckResponse, error)
	Score(ctx context.Context, req *ScoreRequest) (*playback.ResultView, error)
}

// ProfileService manages the role attached to identity provider subjects
type ProfileService interface {
	Me(ctx context.Context, principal models.Principal) (*models.Profile, error)
	List(ctx context.Context, req *ListProfilesRequest) (*ProfileListResponse, error)
	SetRole(ctx context.Context, id string, req *SetRoleRequest, actor models.Principal) (*models.Profile, error)
}

// ImportExportService moves assignments in and out of spreadsheets
type ImportExportService interface {
	ExportAssignmentsToExcel(ctx context.Context, materialID uint) ([]byte, error)
	ImportAssignmentsFromExcel(ctx context.Context, materialID uint, r io.Reader, actor models.Principal) (*ImportResult, error)
}
