package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SAP-F-2025/phonics-service/internal/cache"
	apperrors "github.com/SAP-F-2025/phonics-service/internal/errors"
	"github.com/SAP-F-2025/phonics-service/internal/events"
	"github.com/SAP-F-2025/phonics-service/internal/models"
	"github.com/SAP-F-2025/phonics-service/internal/repositories"
	"github.com/SAP-F-2025/phonics-service/internal/validator"
)

type materialService struct {
	repo      repositories.Repository
	cache     cache.CacheService
	events    *eventNotifier
	logger    *slog.Logger
	log       *ServiceLogger
	validator *validator.Validator
	cacheTTL  time.Duration
}

func NewMaterialService(
	repo repositories.Repository,
	cacheService cache.CacheService,
	publisher events.EventPublisher,
	logger *slog.Logger,
	validator *validator.Validator,
	cacheTTL time.Duration,
) MaterialService {
	if cacheService == nil {
		cacheService = cache.NewNoopCache()
	}
	return &materialService{
		repo:      repo,
		cache:     cacheService,
		events:    newEventNotifier(publisher, logger),
		logger:    logger,
		log:       NewServiceLogger(logger, LogConfig{Service: "phonics", Component: "materials"}),
		validator: validator,
		cacheTTL:  cacheTTL,
	}
}

// ===== CORE CRUD OPERATIONS =====

func (s *materialService) Create(ctx context.Context, req *CreateMaterialRequest, actor models.Principal) (material *models.Material, err error) {
	op := s.log.WithOperation(ctx, "create_material", actor.Subject)
	defer func() { op.LogResult(materialID(material), "material", err) }()

	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, validationError(err)
	}

	material = &models.Material{
		Title:    strings.TrimSpace(req.Title),
		ImageURL: trimmedOrNil(req.ImageURL),
	}
	if req.DisplayOrder != nil {
		material.DisplayOrder = *req.DisplayOrder
	} else {
		next, err := s.repo.Material().NextDisplayOrder(ctx)
		if err != nil {
			return nil, storageFailure("next display order", err)
		}
		material.DisplayOrder = next
	}

	if errs := s.validator.ValidateBusiness(material); len(errs) > 0 {
		return nil, errs
	}

	if err := s.repo.Material().Create(ctx, material); err != nil {
		return nil, storageFailure("create material", err)
	}

	s.invalidateMaterial(ctx, material.ID)
	s.events.material(ctx, events.EventMaterialCreated, material, actor)
	op.LogAudit(AuditEventCreate, material.ID, "material", map[string]any{"title": material.Title})

	return material, nil
}

func (s *materialService) GetByID(ctx context.Context, id uint) (*models.Material, error) {
	var cached models.Material
	if err := s.cache.Get(ctx, cache.MaterialKey(id), &cached); err == nil {
		return &cached, nil
	}

	material, err := s.repo.Material().GetByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError("get material", id, err)
	}

	s.store(ctx, cache.MaterialKey(id), material)
	return material, nil
}

// List returns materials ordered by display order
func (s *materialService) List(ctx context.Context) ([]*models.Material, error) {
	var cached []*models.Material
	if err := s.cache.Get(ctx, cache.KeyMaterialList, &cached); err == nil {
		return cached, nil
	}

	materials, err := s.repo.Material().List(ctx)
	if err != nil {
		return nil, storageFailure("list materials", err)
	}
	if materials == nil {
		materials = []*models.Material{}
	}

	s.store(ctx, cache.KeyMaterialList, materials)
	return materials, nil
}

func (s *materialService) Update(ctx context.Context, id uint, req *UpdateMaterialRequest, actor models.Principal) (material *models.Material, err error) {
	op := s.log.WithOperation(ctx, "update_material", actor.Subject)
	defer func() { op.LogResult(id, "material", err) }()

	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, validationError(err)
	}

	material, err = s.repo.Material().GetByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError("get material", id, err)
	}

	if req.Title != nil {
		material.Title = strings.TrimSpace(*req.Title)
	}
	if req.ClearImage {
		material.ImageURL = nil
	} else if req.ImageURL != nil {
		material.ImageURL = trimmedOrNil(req.ImageURL)
	}
	if req.DisplayOrder != nil {
		material.DisplayOrder = *req.DisplayOrder
	}

	if errs := s.validator.ValidateBusiness(material); len(errs) > 0 {
		return nil, errs
	}

	if err := s.repo.Material().Update(ctx, material); err != nil {
		return nil, s.mapRepoError("update material", id, err)
	}

	s.invalidateMaterial(ctx, id)
	s.events.material(ctx, events.EventMaterialUpdated, material, actor)
	op.LogAudit(AuditEventUpdate, id, "material", nil)

	return material, nil
}

// Delete removes the material's assignments first, then the material, inside
// one transaction
func (s *materialService) Delete(ctx context.Context, id uint, actor models.Principal) (err error) {
	op := s.log.WithOperation(ctx, "delete_material", actor.Subject)
	defer func() { op.LogResult(id, "material", err) }()

	var material *models.Material
	var assignments []*models.Assignment
	err = s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		var err error
		material, err = tx.Material().GetByID(ctx, id)
		if err != nil {
			return s.mapRepoError("get material", id, err)
		}

		assignments, err = tx.Assignment().GetByMaterial(ctx, id)
		if err != nil {
			return storageFailure("get material assignments", err)
		}
		if _, err := tx.Assignment().DeleteByMaterial(ctx, id); err != nil {
			return storageFailure("delete material assignments", err)
		}

		if err := tx.Material().Delete(ctx, id); err != nil {
			return s.mapRepoError("delete material", id, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.invalidateMaterial(ctx, id)
	for _, a := range assignments {
		if err := s.cache.Delete(ctx, cache.AssignmentKey(a.ID)); err != nil {
			s.logger.Warn("Failed to invalidate cache", "assignment_id", a.ID, "error", err)
		}
		s.events.assignment(ctx, events.EventAssignmentDeleted, a, actor)
	}
	s.events.material(ctx, events.EventMaterialDeleted, material, actor)
	op.LogAudit(AuditEventDelete, id, "material", map[string]any{"assignments_removed": len(assignments)})

	return nil
}

// ===== HELPERS =====

func (s *materialService) mapRepoError(op string, id uint, err error) error {
	if repositories.IsNotFound(err) {
		return fmt.Errorf("%w: %d", ErrMaterialNotFound, id)
	}
	return storageFailure(op, err)
}

func (s *materialService) store(ctx context.Context, key string, value interface{}) {
	if err := s.cache.Set(ctx, key, value, s.cacheTTL); err != nil {
		s.logger.Warn("Failed to cache value", "key", key, "error", err)
	}
}

func (s *materialService) invalidateMaterial(ctx context.Context, id uint) {
	for _, key := range []string{cache.KeyMaterialList, cache.MaterialKey(id), cache.MaterialAssignmentsKey(id)} {
		if err := s.cache.Delete(ctx, key); err != nil {
			s.logger.Warn("Failed to invalidate cache", "key", key, "error", err)
		}
	}
}

func materialID(m *models.Material) uint {
	if m == nil {
		return 0
	}
	return m.ID
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// validationError converts go-playground errors into the shared shape. Input
// the validator could not inspect at all is reported as a bad request.
func validationError(err error) error {
	var single *apperrors.ValidationError
	if errors.As(err, &single) {
		return err
	}
	var errs apperrors.ValidationErrors
	if errors.As(err, &errs) {
		return errs
	}
	if converted := apperrors.ToValidationErrors(err); len(converted) > 0 {
		return converted
	}
	return fmt.Errorf("%w: %v", ErrBadRequest, err)
}
