package models

import (
	"time"
)

type UserRole string

const (
	RoleAnonymous UserRole = "anonymous"
	RoleLearner   UserRole = "learner"
	RoleAdmin     UserRole = "admin"
)

func (r UserRole) IsValid() bool {
	return r == RoleAnonymous || r == RoleLearner || r == RoleAdmin
}

// Profile stores the application role of an identity provider subject.
type Profile struct {
	ID        string    `json:"id" gorm:"primaryKey;size:255"`
	Email     string    `json:"email" gorm:"size:255;index"`
	Role      UserRole  `json:"role" gorm:"not null;size:20;default:learner" validate:"required,user_role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Profile) TableName() string {
	return "profiles"
}

// Principal is the caller identity attached to a request.
type Principal struct {
	Subject string   `json:"subject"`
	Email   string   `json:"email,omitempty"`
	Role    UserRole `json:"role"`
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

func (p Principal) IsAuthenticated() bool {
	return p.Role != RoleAnonymous && p.Subject != ""
}
