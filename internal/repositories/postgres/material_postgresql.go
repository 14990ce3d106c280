package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/phonics-service/internal/models"
	"github.com/SAP-F-2025/phonics-service/internal/repositories"
)

type MaterialPostgreSQL struct {
	db *gorm.DB
}

func NewMaterialPostgreSQL(db *gorm.DB) repositories.MaterialRepository {
	return &MaterialPostgreSQL{db: db}
}

// ===== BASIC OPERATIONS =====

func (m *MaterialPostgreSQL) Create(ctx context.Context, material *models.Material) error {
	if err := m.db.WithContext(ctx).Omit("Assignments").Create(material).Error; err != nil {
		return fmt.Errorf("failed to create material: %w", err)
	}
	return nil
}

func (m *MaterialPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Material, error) {
	var material models.Material
	if err := m.db.WithContext(ctx).First(&material, id).Error; err != nil {
		return nil, notFound(err, "material", id)
	}
	return &material, nil
}

// Update saves title, image and display order
func (m *MaterialPostgreSQL) Update(ctx context.Context, material *models.Material) error {
	result := m.db.WithContext(ctx).
		Model(&models.Material{ID: material.ID}).
		Select("Title", "ImageURL", "DisplayOrder").
		Updates(material)
	if result.Error != nil {
		return fmt.Errorf("failed to update material: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("material not found with ID %d: %w", material.ID, repositories.ErrNotFound)
	}
	return nil
}

func (m *MaterialPostgreSQL) Delete(ctx context.Context, id uint) error {
	result := m.db.WithContext(ctx).Delete(&models.Material{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete material: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("material not found with ID %d: %w", id, repositories.ErrNotFound)
	}
	return nil
}

// ===== QUERY OPERATIONS =====

func (m *MaterialPostgreSQL) List(ctx context.Context) ([]*models.Material, error) {
	var materials []*models.Material
	err := m.db.WithContext(ctx).
		Order("display_order ASC").
		Order("id ASC").
		Find(&materials).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list materials: %w", err)
	}
	return materials, nil
}

func (m *MaterialPostgreSQL) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := m.db.WithContext(ctx).
		Model(&models.Material{}).
		Where("id = ?", id).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check material existence: %w", err)
	}
	return count > 0, nil
}

// NextDisplayOrder returns one past the highest display order in use
func (m *MaterialPostgreSQL) NextDisplayOrder(ctx context.Context) (int, error) {
	var maxOrder int
	err := m.db.WithContext(ctx).
		Model(&models.Material{}).
		Select("COALESCE(MAX(display_order), -1)").
		Scan(&maxOrder).Error
	if err != nil {
		return 0, fmt.Errorf("failed to get max display order: %w", err)
	}
	return maxOrder + 1, nil
}
