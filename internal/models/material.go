package models

import (
	"time"
)

type Material struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Title        string    `json:"title" gorm:"not null;size:200" validate:"required,notblank,max=200"`
	ImageURL     *string   `json:"image_url" gorm:"size:1000"`
	DisplayOrder int       `json:"display_order" gorm:"default:0;index"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relations
	Assignments []Assignment `json:"assignments,omitempty" gorm:"foreignKey:MaterialID"`
}

func (Material) TableName() string {
	return "materials"
}
