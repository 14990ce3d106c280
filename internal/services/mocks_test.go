package services

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/SAP-F-2025/phonics-service/internal/models"
	"github.com/SAP-F-2025/phonics-service/internal/repositories"
)

// MockRepository groups the table mocks. Transactions run fn against the same
// mocks so expectations hold inside and outside of them.
type MockRepository struct {
	materials   *MockMaterialRepository
	assignments *MockAssignmentRepository
	profiles    *MockProfileRepository
	txCount     int
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		materials:   &MockMaterialRepository{},
		assignments: &MockAssignmentRepository{},
		profiles:    &MockProfileRepository{},
	}
}

func (m *MockRepository) Material() repositories.MaterialRepository     { return m.materials }
func (m *MockRepository) Assignment() repositories.AssignmentRepository { return m.assignments }
func (m *MockRepository) Profile() repositories.ProfileRepository       { return m.profiles }

func (m *MockRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	m.txCount++
	return fn(m)
}

func (m *MockRepository) Ping(ctx context.Context) error {
	return nil
}

// MockMaterialRepository is a mock implementation of MaterialRepository
type MockMaterialRepository struct {
	mock.Mock
}

func (m *MockMaterialRepository) Create(ctx context.Context, material *models.Material) error {
	args := m.Called(ctx, material)
	return args.Error(0)
}

func (m *MockMaterialRepository) GetByID(ctx context.Context, id uint) (*models.Material, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Material), args.Error(1)
}

func (m *MockMaterialRepository) Update(ctx context.Context, material *models.Material) error {
	args := m.Called(ctx, material)
	return args.Error(0)
}

func (m *MockMaterialRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockMaterialRepository) List(ctx context.Context) ([]*models.Material, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Material), args.Error(1)
}

func (m *MockMaterialRepository) Exists(ctx context.Context, id uint) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockMaterialRepository) NextDisplayOrder(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// MockAssignmentRepository is a mock implementation of AssignmentRepository
type MockAssignmentRepository struct {
	mock.Mock
}

func (m *MockAssignmentRepository) Create(ctx context.Context, assignment *models.Assignment) error {
	args := m.Called(ctx, assignment)
	return args.Error(0)
}

func (m *MockAssignmentRepository) GetByID(ctx context.Context, id uint) (*models.Assignment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Assignment), args.Error(1)
}

func (m *MockAssignmentRepository) Update(ctx context.Context, assignment *models.Assignment) error {
	args := m.Called(ctx, assignment)
	return args.Error(0)
}

func (m *MockAssignmentRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAssignmentRepository) GetByMaterial(ctx context.Context, materialID uint) ([]*models.Assignment, error) {
	args := m.Called(ctx, materialID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Assignment), args.Error(1)
}

func (m *MockAssignmentRepository) DeleteByMaterial(ctx context.Context, materialID uint) (int64, error) {
	args := m.Called(ctx, materialID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAssignmentRepository) CountByMaterial(ctx context.Context, materialID uint) (int64, error) {
	args := m.Called(ctx, materialID)
	return args.Get(0).(int64), args.Error(1)
}

// MockProfileRepository is a mock implementation of ProfileRepository
type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *MockProfileRepository) Upsert(ctx context.Context, profile *models.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockProfileRepository) List(ctx context.Context, filters repositories.ProfileFilters) ([]*models.Profile, int64, error) {
	args := m.Called(ctx, filters)
	return args.Get(0).([]*models.Profile), args.Get(1).(int64), args.Error(2)
}

func (m *MockProfileRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockCacheService is a mock implementation of cache.CacheService
type MockCacheService struct {
	mock.Mock
}

func (m *MockCacheService) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCacheService) Get(ctx context.Context, key string, dest interface{}) error {
	args := m.Called(ctx, key, dest)
	return args.Error(0)
}

func (m *MockCacheService) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCacheService) DeletePattern(ctx context.Context, pattern string) error {
	args := m.Called(ctx, pattern)
	return args.Error(0)
}

// MockImageStore is a mock implementation of storage.ImageStore
type MockImageStore struct {
	mock.Mock
}

func (m *MockImageStore) Put(ctx context.Context, key, contentType string, r io.Reader) (models.ImageRef, error) {
	args := m.Called(ctx, key, contentType, r)
	return args.Get(0).(models.ImageRef), args.Error(1)
}

func (m *MockImageStore) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockImageStore) PublicURL(key string) string {
	args := m.Called(key)
	return args.String(0)
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ===== FIXTURES =====

func learner() models.Principal {
	return models.Principal{Subject: "learner-1", Role: models.RoleLearner}
}

func admin() models.Principal {
	return models.Principal{Subject: "admin-1", Role: models.RoleAdmin}
}

func pictureQuestion(id int64) models.Question {
	return models.Question{
		ID:   id,
		Text: "Find the pictures that start with S",
		Content: models.PictureChoiceContent{
			CorrectImages:   []models.ImageRef{"sun.png", "sock.png"},
			IncorrectImages: []models.ImageRef{"cat.png"},
		},
	}
}

func syllableQuestion(id int64) models.Question {
	return models.Question{
		ID:   id,
		Text: "Match the syllables",
		Content: models.SyllablePatternContent{
			Syllables: []models.SyllableEntry{
				{Word: "sun", Pattern: "-"},
				{Word: "sister", Pattern: "--"},
			},
		},
	}
}

func pictureAssignment(id, materialID uint, questions ...models.Question) *models.Assignment {
	return &models.Assignment{
		ID:           id,
		MaterialID:   materialID,
		Title:        "Sound S",
		SoundLetter:  "S",
		QuestionType: models.PictureChoice,
		Questions:    questions,
	}
}
