package services

import (
	"context"
	"log/slog"
	"strings"

	apperrors "github.com/SAP-F-2025/phonics-service/internal/errors"
	"github.com/SAP-F-2025/phonics-service/internal/models"
	"github.com/SAP-F-2025/phonics-service/internal/repositories"
	"github.com/SAP-F-2025/phonics-service/internal/validator"
)

const defaultProfileLimit = 20

type profileService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	log       *ServiceLogger
	validator *validator.Validator
}

func NewProfileService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator) ProfileService {
	return &profileService{
		repo:      repo,
		logger:    logger,
		log:       NewServiceLogger(logger, LogConfig{Service: "phonics", Component: "profiles"}),
		validator: validator,
	}
}

// Me returns the stored profile of the caller, or the role the token implies
// when nothing is stored yet
func (s *profileService) Me(ctx context.Context, principal models.Principal) (*models.Profile, error) {
	if !principal.IsAuthenticated() {
		return nil, ErrUnauthorized
	}

	profile, err := s.repo.Profile().GetByID(ctx, principal.Subject)
	if err != nil {
		return nil, storageFailure("get profile", err)
	}
	if profile == nil {
		profile = &models.Profile{ID: principal.Subject, Email: principal.Email, Role: principal.Role}
	}
	return profile, nil
}

func (s *profileService) List(ctx context.Context, req *ListProfilesRequest) (*ProfileListResponse, error) {
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, validationError(err)
	}

	limit := req.Limit
	if limit == 0 {
		limit = defaultProfileLimit
	}

	profiles, total, err := s.repo.Profile().List(ctx, repositories.ProfileFilters{
		Role:   req.Role,
		Limit:  limit,
		Offset: req.Offset,
	})
	if err != nil {
		return nil, storageFailure("list profiles", err)
	}

	return &ProfileListResponse{Profiles: profiles, Total: total, Limit: limit, Offset: req.Offset}, nil
}

// SetRole creates or updates the profile of subject id
func (s *profileService) SetRole(ctx context.Context, id string, req *SetRoleRequest, actor models.Principal) (profile *models.Profile, err error) {
	op := s.log.WithOperation(ctx, "set_role", actor.Subject)
	defer func() { op.LogResult(0, "profile", err) }()

	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperrors.MissingField("id")
	}
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, validationError(err)
	}

	existing, err := s.repo.Profile().GetByID(ctx, id)
	if err != nil {
		return nil, storageFailure("get profile", err)
	}

	profile = &models.Profile{ID: id, Email: strings.TrimSpace(req.Email), Role: req.Role}
	if profile.Email == "" && existing != nil {
		profile.Email = existing.Email
	}

	if err := s.repo.Profile().Upsert(ctx, profile); err != nil {
		return nil, storageFailure("save profile", err)
	}

	op.LogAudit(AuditEventUpdate, 0, "profile", map[string]any{"subject": id, "role": req.Role})
	return profile, nil
}
