package repositories

import (
	"context"
	"errors"

	"github.com/SAP-F-2025/phonics-service/internal/models"
)

// ErrNotFound is returned (wrapped) when a row does not exist
var ErrNotFound = errors.New("record not found")

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// Repository groups the per-table repositories so services can run several
// writes inside one transaction.
type Repository interface {
	Material() MaterialRepository
	Assignment() AssignmentRepository
	Profile() ProfileRepository

	// WithTransaction runs fn with a Repository bound to a single transaction.
	// Returning an error from fn rolls everything back.
	WithTransaction(ctx context.Context, fn func(Repository) error) error
	Ping(ctx context.Context) error
}

// ===== SHARED FILTER STRUCTS =====

type ProfileFilters struct {
	Role   *models.UserRole `json:"role"`
	Limit  int              `json:"limit"`
	Offset int              `json:"offset"`
}
