package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/phonics-service/internal/models"
	"github.com/SAP-F-2025/phonics-service/internal/repositories"
)

type AssignmentPostgreSQL struct {
	db *gorm.DB
}

func NewAssignmentPostgreSQL(db *gorm.DB) repositories.AssignmentRepository {
	return &AssignmentPostgreSQL{db: db}
}

// ===== BASIC OPERATIONS =====

func (a *AssignmentPostgreSQL) Create(ctx context.Context, assignment *models.Assignment) error {
	if err := a.db.WithContext(ctx).Omit("Material").Create(assignment).Error; err != nil {
		return fmt.Errorf("failed to create assignment: %w", err)
	}
	assignment.QuestionsCount = len(assignment.Questions)
	return nil
}

func (a *AssignmentPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Assignment, error) {
	var assignment models.Assignment
	if err := a.db.WithContext(ctx).First(&assignment, id).Error; err != nil {
		return nil, notFound(err, "assignment", id)
	}
	assignment.QuestionsCount = len(assignment.Questions)
	return &assignment, nil
}

// Update replaces metadata and the full question list
func (a *AssignmentPostgreSQL) Update(ctx context.Context, assignment *models.Assignment) error {
	result := a.db.WithContext(ctx).
		Model(&models.Assignment{ID: assignment.ID}).
		Select("MaterialID", "Title", "Description", "SoundLetter", "QuestionType", "Questions").
		Updates(assignment)
	if result.Error != nil {
		return fmt.Errorf("failed to update assignment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("assignment not found with ID %d: %w", assignment.ID, repositories.ErrNotFound)
	}
	assignment.QuestionsCount = len(assignment.Questions)
	return nil
}

func (a *AssignmentPostgreSQL) Delete(ctx context.Context, id uint) error {
	result := a.db.WithContext(ctx).Delete(&models.Assignment{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete assignment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("assignment not found with ID %d: %w", id, repositories.ErrNotFound)
	}
	return nil
}

// ===== MATERIAL SCOPED OPERATIONS =====

func (a *AssignmentPostgreSQL) GetByMaterial(ctx context.Context, materialID uint) ([]*models.Assignment, error) {
	var assignments []*models.Assignment
	err := a.db.WithContext(ctx).
		Where("material_id = ?", materialID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&assignments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get assignments by material: %w", err)
	}

	for _, assignment := range assignments {
		assignment.QuestionsCount = len(assignment.Questions)
	}
	return assignments, nil
}

func (a *AssignmentPostgreSQL) DeleteByMaterial(ctx context.Context, materialID uint) (int64, error) {
	result := a.db.WithContext(ctx).
		Where("material_id = ?", materialID).
		Delete(&models.Assignment{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete assignments by material: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (a *AssignmentPostgreSQL) CountByMaterial(ctx context.Context, materialID uint) (int64, error) {
	var count int64
	err := a.db.WithContext(ctx).
		Model(&models.Assignment{}).
		Where("material_id = ?", materialID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count assignments: %w", err)
	}
	return count, nil
}
