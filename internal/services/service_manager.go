package services

import (
	"log/slog"
	"time"

	"github.com/SAP-F-2025/phonics-service/internal/cache"
	"github.com/SAP-F-2025/phonics-service/internal/events"
	"github.com/SAP-F-2025/phonics-service/internal/playback"
	"github.com/SAP-F-2025/phonics-service/internal/repositories"
	"github.com/SAP-F-2025/phonics-service/internal/storage"
	"github.com/SAP-F-2025/phonics-service/internal/validator"
)

// ServiceManager hands the HTTP layer every service it routes to
type ServiceManager interface {
	Material() MaterialService
	Assignment() AssignmentService
	Image() ImageService
	Play() PlayService
	Grading() GradingService
	Profile() ProfileService
	ImportExport() ImportExportService
}

// Dependencies are the collaborators shared by all services
type Dependencies struct {
	Repo      repositories.Repository
	Cache     cache.CacheService
	Publisher events.EventPublisher
	Store     storage.ImageStore
	Registry  *playback.Registry
	Validator *validator.Validator
	Logger    *slog.Logger
	CacheTTL  time.Duration
}

type serviceManager struct {
	material     MaterialService
	assignment   AssignmentService
	image        ImageService
	play         PlayService
	grading      GradingService
	profile      ProfileService
	importExport ImportExportService
}

func NewServiceManager(deps Dependencies, playOpts ...PlayOption) ServiceManager {
	assignment := NewAssignmentService(deps.Repo, deps.Cache, deps.Publisher, deps.Logger, deps.Validator, deps.CacheTTL)

	return &serviceManager{
		material:     NewMaterialService(deps.Repo, deps.Cache, deps.Publisher, deps.Logger, deps.Validator, deps.CacheTTL),
		assignment:   assignment,
		image:        NewImageService(deps.Store, deps.Logger),
		play:         NewPlayService(assignment, deps.Registry, deps.Publisher, deps.Logger, playOpts...),
		grading:      NewGradingService(deps.Logger, deps.Validator),
		profile:      NewProfileService(deps.Repo, deps.Logger, deps.Validator),
		importExport: NewImportExportService(deps.Repo, assignment, deps.Logger),
	}
}

func (m *serviceManager) Material() MaterialService         { return m.material }
func (m *serviceManager) Assignment() AssignmentService     { return m.assignment }
func (m *serviceManager) Image() ImageService               { return m.image }
func (m *serviceManager) Play() PlayService                 { return m.play }
func (m *serviceManager) Grading() GradingService           { return m.grading }
func (m *serviceManager) Profile() ProfileService           { return m.profile }
func (m *serviceManager) ImportExport() ImportExportService { return m.importExport }
