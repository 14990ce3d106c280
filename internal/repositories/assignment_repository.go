package repositories

import (
	"context"

	"github.com/SAP-F-2025/phonics-service/internal/models"
)

// AssignmentRepository interface for assignment operations. Questions are
// stored inline as a JSON column, so there is no separate question table.
type AssignmentRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, assignment *models.Assignment) error
	GetByID(ctx context.Context, id uint) (*models.Assignment, error)
	Update(ctx context.Context, assignment *models.Assignment) error
	Delete(ctx context.Context, id uint) error

	// Material scoped operations
	GetByMaterial(ctx context.Context, materialID uint) ([]*models.Assignment, error) // created_at ASC
	DeleteByMaterial(ctx context.Context, materialID uint) (int64, error)
	CountByMaterial(ctx context.Context, materialID uint) (int64, error)
}
