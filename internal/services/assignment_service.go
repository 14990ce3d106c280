package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/phonics-service/internal/authoring"
	"github.com/SAP-F-2025/phonics-service/internal/cache"
	"github.com/SAP-F-2025/phonics-service/internal/events"
	"github.com/SAP-F-2025/phonics-service/internal/models"
	"github.com/SAP-F-2025/phonics-service/internal/repositories"
	"github.com/SAP-F-2025/phonics-service/internal/validator"
)

type assignmentService struct {
	repo      repositories.Repository
	cache     cache.CacheService
	events    *eventNotifier
	logger    *slog.Logger
	log       *ServiceLogger
	validator *validator.Validator
	cacheTTL  time.Duration
	docOpts   []authoring.Option
}

func NewAssignmentService(
	repo repositories.Repository,
	cacheService cache.CacheService,
	publisher events.EventPublisher,
	logger *slog.Logger,
	validator *validator.Validator,
	cacheTTL time.Duration,
	docOpts ...authoring.Option,
) AssignmentService {
	if cacheService == nil {
		cacheService = cache.NewNoopCache()
	}
	return &assignmentService{
		repo:      repo,
		cache:     cacheService,
		events:    newEventNotifier(publisher, logger),
		logger:    logger,
		log:       NewServiceLogger(logger, LogConfig{Service: "phonics", Component: "assignments"}),
		validator: validator,
		cacheTTL:  cacheTTL,
		docOpts:   docOpts,
	}
}

// ===== CORE CRUD OPERATIONS =====

func (s *assignmentService) Create(ctx context.Context, req *AssignmentRequest, actor models.Principal) (assignment *models.Assignment, err error) {
	op := s.log.WithOperation(ctx, "create_assignment", actor.Subject)
	defer func() { op.LogResult(assignmentID(assignment), "assignment", err) }()

	doc, err := s.buildDocument(req)
	if err != nil {
		return nil, err
	}
	record, err := doc.ToPersistable()
	if err != nil {
		return nil, err
	}
	if err := s.requireMaterial(ctx, record.MaterialID); err != nil {
		return nil, err
	}

	assignment = &models.Assignment{}
	record.Apply(assignment)
	if err := s.repo.Assignment().Create(ctx, assignment); err != nil {
		return nil, storageFailure("create assignment", err)
	}

	s.invalidate(ctx, assignment.ID, assignment.MaterialID)
	s.events.assignment(ctx, events.EventAssignmentCreated, assignment, actor)
	op.LogAudit(AuditEventCreate, assignment.ID, "assignment", map[string]any{
		"material_id":     assignment.MaterialID,
		"questions_count": len(assignment.Questions),
	})

	return assignment, nil
}

func (s *assignmentService) GetByID(ctx context.Context, id uint) (*models.Assignment, error) {
	var cached models.Assignment
	if err := s.cache.Get(ctx, cache.AssignmentKey(id), &cached); err == nil {
		return &cached, nil
	}

	assignment, err := s.load(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}

	s.store(ctx, cache.AssignmentKey(id), assignment)
	return assignment, nil
}

// ListByMaterial returns the material's assignments oldest first
func (s *assignmentService) ListByMaterial(ctx context.Context, materialID uint) ([]models.AssignmentSummary, error) {
	var cached []models.AssignmentSummary
	if err := s.cache.Get(ctx, cache.MaterialAssignmentsKey(materialID), &cached); err == nil {
		return cached, nil
	}

	if err := s.requireMaterial(ctx, materialID); err != nil {
		return nil, err
	}

	assignments, err := s.repo.Assignment().GetByMaterial(ctx, materialID)
	if err != nil {
		return nil, storageFailure("list assignments", err)
	}

	summaries := make([]models.AssignmentSummary, 0, len(assignments))
	for _, a := range assignments {
		summaries = append(summaries, a.Summary())
	}

	s.store(ctx, cache.MaterialAssignmentsKey(materialID), summaries)
	return summaries, nil
}

func (s *assignmentService) Update(ctx context.Context, id uint, req *AssignmentRequest, actor models.Principal) (assignment *models.Assignment, err error) {
	op := s.log.WithOperation(ctx, "update_assignment", actor.Subject)
	defer func() { op.LogResult(id, "assignment", err) }()

	assignment, err = s.load(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	previousMaterial := assignment.MaterialID

	doc, err := s.buildDocument(req)
	if err != nil {
		return nil, err
	}
	record, err := doc.ToPersistable()
	if err != nil {
		return nil, err
	}
	if record.MaterialID != previousMaterial {
		if err := s.requireMaterial(ctx, record.MaterialID); err != nil {
			return nil, err
		}
	}

	record.Apply(assignment)
	if err := s.repo.Assignment().Update(ctx, assignment); err != nil {
		return nil, s.mapRepoError("update assignment", id, err)
	}

	s.invalidate(ctx, id, previousMaterial, assignment.MaterialID)
	s.events.assignment(ctx, events.EventAssignmentUpdated, assignment, actor)
	op.LogAudit(AuditEventUpdate, id, "assignment", nil)

	return assignment, nil
}

func (s *assignmentService) Delete(ctx context.Context, id uint, actor models.Principal) (err error) {
	op := s.log.WithOperation(ctx, "delete_assignment", actor.Subject)
	defer func() { op.LogResult(id, "assignment", err) }()

	assignment, err := s.load(ctx, s.repo, id)
	if err != nil {
		return err
	}
	if err := s.repo.Assignment().Delete(ctx, id); err != nil {
		return s.mapRepoError("delete assignment", id, err)
	}

	s.invalidate(ctx, id, assignment.MaterialID)
	s.events.assignment(ctx, events.EventAssignmentDeleted, assignment, actor)
	op.LogAudit(AuditEventDelete, id, "assignment", nil)
	return nil
}

// ===== QUESTION EDITS =====

func (s *assignmentService) AddQuestion(ctx context.Context, assignmentID uint, q models.Question, actor models.Principal) (resp *QuestionResponse, err error) {
	op := s.log.WithOperation(ctx, "add_question", actor.Subject)
	defer func() { op.LogResult(assignmentID, "assignment", err) }()

	if err := s.ValidateQuestion(ctx, q); err != nil {
		return nil, err
	}

	var questionID int64
	assignment, doc, err := s.editQuestions(ctx, assignmentID, func(doc *authoring.Document) error {
		var err error
		questionID, err = doc.AddQuestion(q)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.events.assignment(ctx, events.EventAssignmentUpdated, assignment, actor)
	added, _ := doc.Question(questionID)
	return &QuestionResponse{AssignmentID: assignmentID, Question: added, Total: doc.Len()}, nil
}

func (s *assignmentService) UpdateQuestion(ctx context.Context, assignmentID uint, questionID int64, q models.Question, actor models.Principal) (resp *QuestionResponse, err error) {
	op := s.log.WithOperation(ctx, "update_question", actor.Subject)
	defer func() { op.LogResult(assignmentID, "assignment", err) }()

	if err := s.ValidateQuestion(ctx, q); err != nil {
		return nil, err
	}

	assignment, doc, err := s.editQuestions(ctx, assignmentID, func(doc *authoring.Document) error {
		return doc.UpdateQuestion(questionID, q)
	})
	if err != nil {
		return nil, err
	}

	s.events.assignment(ctx, events.EventAssignmentUpdated, assignment, actor)
	updated, _ := doc.Question(questionID)
	return &QuestionResponse{AssignmentID: assignmentID, Question: updated, Total: doc.Len()}, nil
}

// RemoveQuestion refuses to remove the last question of an assignment
func (s *assignmentService) RemoveQuestion(ctx context.Context, assignmentID uint, questionID int64, actor models.Principal) (err error) {
	op := s.log.WithOperation(ctx, "remove_question", actor.Subject)
	defer func() { op.LogResult(assignmentID, "assignment", err) }()

	assignment, _, err := s.editQuestions(ctx, assignmentID, func(doc *authoring.Document) error {
		return doc.RemoveQuestion(questionID)
	})
	if err != nil {
		return err
	}

	s.events.assignment(ctx, events.EventAssignmentUpdated, assignment, actor)
	return nil
}

// ValidateQuestion runs the question rules and the authored field checks
func (s *assignmentService) ValidateQuestion(ctx context.Context, q models.Question) error {
	if err := s.validator.ValidateQuestionDraft(q); err != nil {
		return validationError(err)
	}
	return nil
}

// ===== HELPERS =====

// buildDocument loads a request into an authoring document. Metadata and
// every question are validated before anything is persisted.
func (s *assignmentService) buildDocument(req *AssignmentRequest) (*authoring.Document, error) {
	draft := &models.Assignment{
		MaterialID:   req.MaterialID,
		Title:        req.Title,
		Description:  req.Description,
		SoundLetter:  req.SoundLetter,
		QuestionType: req.QuestionType,
		Questions:    req.Questions,
	}
	doc := authoring.FromAssignment(draft, s.docOpts...)

	description := ""
	if req.Description != nil {
		description = *req.Description
	}
	if err := doc.SetMetadata(req.Title, description, req.SoundLetter, req.QuestionType); err != nil {
		return nil, err
	}

	questions := doc.Questions()
	if err := s.validator.Question().ValidateBatch(questions); err != nil {
		return nil, err
	}
	for i, q := range questions {
		if err := s.validator.ValidateStruct(q.Content); err != nil {
			return nil, fmt.Errorf("question %d: %w", i+1, validationError(err))
		}
	}
	return doc, nil
}

// editQuestions applies edit to the stored assignment's document and saves
// the result inside one transaction
func (s *assignmentService) editQuestions(ctx context.Context, id uint, edit func(*authoring.Document) error) (*models.Assignment, *authoring.Document, error) {
	var assignment *models.Assignment
	var doc *authoring.Document

	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		var err error
		assignment, err = s.load(ctx, tx, id)
		if err != nil {
			return err
		}

		doc = authoring.FromAssignment(assignment, s.docOpts...)
		if err := edit(doc); err != nil {
			return err
		}

		record, err := doc.ToPersistable()
		if err != nil {
			return err
		}
		record.Apply(assignment)

		if err := tx.Assignment().Update(ctx, assignment); err != nil {
			return s.mapRepoError("update assignment", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	s.invalidate(ctx, id, assignment.MaterialID)
	return assignment, doc, nil
}

func (s *assignmentService) load(ctx context.Context, repo repositories.Repository, id uint) (*models.Assignment, error) {
	assignment, err := repo.Assignment().GetByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError("get assignment", id, err)
	}
	return assignment, nil
}

func (s *assignmentService) requireMaterial(ctx context.Context, materialID uint) error {
	exists, err := s.repo.Material().Exists(ctx, materialID)
	if err != nil {
		return storageFailure("check material", err)
	}
	if !exists {
		return fmt.Errorf("%w: %d", ErrMaterialNotFound, materialID)
	}
	return nil
}

func (s *assignmentService) mapRepoError(op string, id uint, err error) error {
	if repositories.IsNotFound(err) {
		return fmt.Errorf("%w: %d", ErrAssignmentNotFound, id)
	}
	return storageFailure(op, err)
}

func (s *assignmentService) store(ctx context.Context, key string, value interface{}) {
	if err := s.cache.Set(ctx, key, value, s.cacheTTL); err != nil {
		s.logger.Warn("Failed to cache value", "key", key, "error", err)
	}
}

func (s *assignmentService) invalidate(ctx context.Context, id uint, materialIDs ...uint) {
	keys := []string{cache.AssignmentKey(id)}
	for _, materialID := range materialIDs {
		keys = append(keys, cache.MaterialAssignmentsKey(materialID))
	}
	for _, key := range keys {
		if err := s.cache.Delete(ctx, key); err != nil {
			s.logger.Warn("Failed to invalidate cache", "key", key, "error", err)
		}
	}
}

func assignmentID(a *models.Assignment) uint {
	if a == nil {
		return 0
	}
	return a.ID
}
