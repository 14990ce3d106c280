package models

import (
	"time"

	"gorm.io/datatypes"
)

type Assignment struct {
	ID           uint                          `json:"id" gorm:"primaryKey"`
	MaterialID   uint                          `json:"material_id" gorm:"not null;index"`
	Title        string                        `json:"title" gorm:"not null;size:200"`
	Description  *string                       `json:"description" gorm:"type:text"`
	SoundLetter  string                        `json:"sound_letter" gorm:"not null;size:20"`
	QuestionType QuestionType                  `json:"question_type" gorm:"not null;size:10"`
	Questions    datatypes.JSONSlice[Question] `json:"questions"`
	CreatedAt    time.Time                     `json:"created_at"`
	UpdatedAt    time.Time                     `json:"updated_at"`

	// Relations
	Material *Material `json:"material,omitempty" gorm:"foreignKey:MaterialID"`

	// Computed fields (not stored)
	QuestionsCount int `json:"questions_count" gorm:"-"`
}

func (Assignment) TableName() string {
	return "assignments"
}

// Playable reports whether the assignment has at least one question.
func (a *Assignment) Playable() bool {
	return len(a.Questions) > 0
}

// AssignmentSummary is the list view of an assignment, without questions.
type AssignmentSummary struct {
	ID             uint         `json:"id"`
	MaterialID     uint         `json:"material_id"`
	Title          string       `json:"title"`
	Description    *string      `json:"description"`
	SoundLetter    string       `json:"sound_letter"`
	QuestionType   QuestionType `json:"question_type"`
	QuestionsCount int          `json:"questions_count"`
	CreatedAt      time.Time    `json:"created_at"`
}

func (a *Assignment) Summary() AssignmentSummary {
	return AssignmentSummary{
		ID:             a.ID,
		MaterialID:     a.MaterialID,
		Title:          a.Title,
		Description:    a.Description,
		SoundLetter:    a.SoundLetter,
		QuestionType:   a.QuestionType,
		QuestionsCount: len(a.Questions),
		CreatedAt:      a.CreatedAt,
	}
}
