package repositories

import (
	"context"

	"github.com/SAP-F-2025/phonics-service/internal/models"
)

// MaterialRepository interface for material operations
type MaterialRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, material *models.Material) error
	GetByID(ctx context.Context, id uint) (*models.Material, error)
	Update(ctx context.Context, material *models.Material) error
	Delete(ctx context.Context, id uint) error

	// List returns every material ordered by display_order, then id
	List(ctx context.Context) ([]*models.Material, error)

	Exists(ctx context.Context, id uint) (bool, error)
	NextDisplayOrder(ctx context.Context) (int, error)
}
