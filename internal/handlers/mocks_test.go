package handlers

import (
	"context"
	"io"
	"log/slog"

	"github.com/stretchr/testify/mock"

	"github.com/SAP-F-2025/phonics-service/internal/models"
	"github.com/SAP-F-2025/phonics-service/internal/playback"
	"github.com/SAP-F-2025/phonics-service/internal/services"
	"github.com/SAP-F-2025/phonics-service/internal/utils"
)

func newTestLogger() utils.Logger {
	return utils.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// ===== SERVICE MANAGER =====

type fakeServiceManager struct {
	material     *MockMaterialService
	assignment   *MockAssignmentService
	image        *MockImageService
	play         *MockPlayService
	grading      *MockGradingService
	profile      *MockProfileService
	importExport *MockImportExportService
}

func newFakeServiceManager() *fakeServiceManager {
	return &fakeServiceManager{
		material:     new(MockMaterialService),
		assignment:   new(MockAssignmentService),
		image:        new(MockImageService),
		play:         new(MockPlayService),
		grading:      new(MockGradingService),
		profile:      new(MockProfileService),
		importExport: new(MockImportExportService),
	}
}

func (m *fakeServiceManager) Material() services.MaterialService         { return m.material }
func (m *fakeServiceManager) Assignment() services.AssignmentService     { return m.assignment }
func (m *fakeServiceManager) Image() services.ImageService               { return m.image }
func (m *fakeServiceManager) Play() services.PlayService                 { return m.play }
func (m *fakeServiceManager) Grading() services.GradingService           { return m.grading }
func (m *fakeServiceManager) Profile() services.ProfileService           { return m.profile }
func (m *fakeServiceManager) ImportExport() services.ImportExportService { return m.importExport }

// ===== MATERIAL =====

type MockMaterialService struct {
	mock.Mock
}

func (m *MockMaterialService) Create(ctx context.Context, req *services.CreateMaterialRequest, actor models.Principal) (*models.Material, error) {
	args := m.Called(ctx, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Material), args.Error(1)
}

func (m *MockMaterialService) GetByID(ctx context.Context, id uint) (*models.Material, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Material), args.Error(1)
}

func (m *MockMaterialService) List(ctx context.Context) ([]*models.Material, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Material), args.Error(1)
}

func (m *MockMaterialService) Update(ctx context.Context, id uint, req *services.UpdateMaterialRequest, actor models.Principal) (*models.Material, error) {
	args := m.Called(ctx, id, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Material), args.Error(1)
}

func (m *MockMaterialService) Delete(ctx context.Context, id uint, actor models.Principal) error {
	return m.Called(ctx, id, actor).Error(0)
}

// ===== ASSIGNMENT =====

type MockAssignmentService struct {
	mock.Mock
}

func (m *MockAssignmentService) Create(ctx context.Context, req *services.AssignmentRequest, actor models.Principal) (*models.Assignment, error) {
	args := m.Called(ctx, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Assignment), args.Error(1)
}

func (m *MockAssignmentService) GetByID(ctx context.Context, id uint) (*models.Assignment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Assignment), args.Error(1)
}

func (m *MockAssignmentService) ListByMaterial(ctx context.Context, materialID uint) ([]models.AssignmentSummary, error) {
	args := m.Called(ctx, materialID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.AssignmentSummary), args.Error(1)
}

func (m *MockAssignmentService) Update(ctx context.Context, id uint, req *services.AssignmentRequest, actor models.Principal) (*models.Assignment, error) {
	args := m.Called(ctx, id, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Assignment), args.Error(1)
}

func (m *MockAssignmentService) Delete(ctx context.Context, id uint, actor models.Principal) error {
	return m.Called(ctx, id, actor).Error(0)
}

func (m *MockAssignmentService) AddQuestion(ctx context.Context, assignmentID uint, q models.Question, actor models.Principal) (*services.QuestionResponse, error) {
	args := m.Called(ctx, assignmentID, q, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.QuestionResponse), args.Error(1)
}

func (m *MockAssignmentService) UpdateQuestion(ctx context.Context, assignmentID uint, questionID int64, q models.Question, actor models.Principal) (*services.QuestionResponse, error) {
	args := m.Called(ctx, assignmentID, questionID, q, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.QuestionResponse), args.Error(1)
}

func (m *MockAssignmentService) RemoveQuestion(ctx context.Context, assignmentID uint, questionID int64, actor models.Principal) error {
	return m.Called(ctx, assignmentID, questionID, actor).Error(0)
}

func (m *MockAssignmentService) ValidateQuestion(ctx context.Context, q models.Question) error {
	return m.Called(ctx, q).Error(0)
}

// ===== IMAGE =====

type MockImageService struct {
	mock.Mock
}

func (m *MockImageService) Upload(ctx context.Context, filename string, r io.Reader, actor models.Principal) (*services.ImageUploadResponse, error) {
	args := m.Called(ctx, filename, r, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.ImageUploadResponse), args.Error(1)
}

func (m *MockImageService) Delete(ctx context.Context, key string, actor models.Principal) error {
	return m.Called(ctx, key, actor).Error(0)
}

// ===== PLAY =====

type MockPlayService struct {
	mock.Mock
}

func (m *MockPlayService) view(args mock.Arguments) (*playback.SessionView, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*playback.SessionView), args.Error(1)
}

func (m *MockPlayService) Start(ctx context.Context, assignmentID uint, learner models.Principal) (*playback.SessionView, error) {
	return m.view(m.Called(ctx, assignmentID, learner))
}

func (m *MockPlayService) Get(ctx context.Context, sessionID string, learner models.Principal) (*playback.SessionView, error) {
	return m.view(m.Called(ctx, sessionID, learner))
}

func (m *MockPlayService) RecordAnswer(ctx context.Context, sessionID string, answer models.AnswerEnvelope, learner models.Principal) (*playback.SessionView, error) {
	return m.view(m.Called(ctx, sessionID, answer, learner))
}

func (m *MockPlayService) Next(ctx context.Context, sessionID string, learner models.Principal) (*playback.SessionView, error) {
	return m.view(m.Called(ctx, sessionID, learner))
}

func (m *MockPlayService) Previous(ctx context.Context, sessionID string, learner models.Principal) (*playback.SessionView, error) {
	return m.view(m.Called(ctx, sessionID, learner))
}

func (m *MockPlayService) Check(ctx context.Context, sessionID string, learner models.Principal) (*services.CheckResponse, error) {
	args := m.Called(ctx, sessionID, learner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.CheckResponse), args.Error(1)
}

func (m *MockPlayService) Finish(ctx context.Context, sessionID string, learner models.Principal) (*playback.ResultView, error) {
	args := m.Called(ctx, sessionID, learner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*playback.ResultView), args.Error(1)
}

func (m *MockPlayService) Restart(ctx context.Context, sessionID string, learner models.Principal) (*playback.SessionView, error) {
	return m.view(m.Called(ctx, sessionID, learner))
}

func (m *MockPlayService) Abandon(ctx context.Context, sessionID string, learner models.Principal) error {
	return m.Called(ctx, sessionID, learner).Error(0)
}

func (m *MockPlayService) Sweep() int {
	return m.Called().Int(0)
}

// ===== GRADING =====

type MockGradingService struct {
	mock.Mock
}

func (m *MockGradingService) Check(ctx context.Context, req *services.CheckAnswerRequest) (*services.CheckResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.CheckResponse), args.Error(1)
}

func (m *MockGradingService) Score(ctx context.Context, req *services.ScoreRequest) (*playback.ResultView, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*playback.ResultView), args.Error(1)
}

// ===== PROFILE =====

type MockProfileService struct {
	mock.Mock
}

func (m *MockProfileService) Me(ctx context.Context, principal models.Principal) (*models.Profile, error) {
	args := m.Called(ctx, principal)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *MockProfileService) List(ctx context.Context, req *services.ListProfilesRequest) (*services.ProfileListResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.ProfileListResponse), args.Error(1)
}

func (m *MockProfileService) SetRole(ctx context.Context, id string, req *services.SetRoleRequest, actor models.Principal) (*models.Profile, error) {
	args := m.Called(ctx, id, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

// ===== IMPORT / EXPORT =====

type MockImportExportService struct {
	mock.Mock
}

func (m *MockImportExportService) ExportAssignmentsToExcel(ctx context.Context, materialID uint) ([]byte, error) {
	args := m.Called(ctx, materialID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockImportExportService) ImportAssignmentsFromExcel(ctx context.Context, materialID uint, r io.Reader, actor models.Principal) (*services.ImportResult, error) {
	args := m.Called(ctx, materialID, r, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.ImportResult), args.Error(1)
}
