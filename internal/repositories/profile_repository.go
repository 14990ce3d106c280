package repositories

import (
	"context"

	"github.com/SAP-F-2025/phonics-service/internal/models"
)

// ProfileRepository stores application roles. The service is not the owner of
// user identities; profiles only attach a role to an identity provider subject.
type ProfileRepository interface {
	// GetByID returns (nil, nil) when the subject has no profile
	GetByID(ctx context.Context, id string) (*models.Profile, error)
	Upsert(ctx context.Context, profile *models.Profile) error
	List(ctx context.Context, filters ProfileFilters) ([]*models.Profile, int64, error)
	Delete(ctx context.Context, id string) error
}
