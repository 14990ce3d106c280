package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/phonics-service/internal/repositories"
)

type Repository struct {
	db *gorm.DB

	material   repositories.MaterialRepository
	assignment repositories.AssignmentRepository
	profile    repositories.ProfileRepository
}

func NewRepository(db *gorm.DB) repositories.Repository {
	return &Repository{
		db:         db,
		material:   NewMaterialPostgreSQL(db),
		assignment: NewAssignmentPostgreSQL(db),
		profile:    NewProfilePostgreSQL(db),
	}
}

func (r *Repository) Material() repositories.MaterialRepository     { return r.material }
func (r *Repository) Assignment() repositories.AssignmentRepository { return r.assignment }
func (r *Repository) Profile() repositories.ProfileRepository       { return r.profile }

func (r *Repository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}

func (r *Repository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database handle: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// notFound converts gorm's not-found error into the repository sentinel
func notFound(err error, entity string, id any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s not found with ID %v: %w", entity, id, repositories.ErrNotFound)
	}
	return fmt.Errorf("failed to get %s: %w", entity, err)
}
