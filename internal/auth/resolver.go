package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/SAP-F-2025/phonics-service/internal/models"
)

// ErrProfileUnavailable means the token was valid but its stored role could
// not be read.
var ErrProfileUnavailable = errors.New("profile store unavailable")

// ProfileReader looks up the stored role of a subject. A missing profile is
// reported as (nil, nil).
type ProfileReader interface {
	GetByID(ctx context.Context, id string) (*models.Profile, error)
}

// RoleResolver answers "who is calling and what may they do"
type RoleResolver struct {
	verifier TokenVerifier
	profiles ProfileReader
}

func NewRoleResolver(verifier TokenVerifier, profiles ProfileReader) *RoleResolver {
	return &RoleResolver{verifier: verifier, profiles: profiles}
}

func Anonymous() models.Principal {
	return models.Principal{Role: models.RoleAnonymous}
}

// Resolve maps a bearer token to a principal. No token means anonymous. A
// stored profile decides the role; without one the identity provider's admin
// flag does, and everyone else is a learner.
func (r *RoleResolver) Resolve(ctx context.Context, token string) (models.Principal, error) {
	if token == "" {
		return Anonymous(), nil
	}

	identity, err := r.verifier.Verify(ctx, token)
	if err != nil {
		return Anonymous(), err
	}

	principal := models.Principal{
		Subject: identity.Subject,
		Email:   identity.Email,
		Role:    models.RoleLearner,
	}
	if identity.Admin {
		principal.Role = models.RoleAdmin
	}

	if r.profiles == nil {
		return principal, nil
	}
	profile, err := r.profiles.GetByID(ctx, identity.Subject)
	if err != nil {
		return Anonymous(), fmt.Errorf("%w: %w", ErrProfileUnavailable, err)
	}
	if profile != nil && profile.Role.IsValid() && profile.Role != models.RoleAnonymous {
		principal.Role = profile.Role
	}
	return principal, nil
}
