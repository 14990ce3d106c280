// Package auth turns bearer tokens into request principals.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/phonics-service/internal/config"
)

var ErrInvalidToken = errors.New("invalid token")

// Identity is what a verified token says about its bearer
type Identity struct {
	Subject string
	Email   string
	Admin   bool
}

type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

// NewVerifier builds the verifier selected by cfg.Mode
func NewVerifier(cfg config.AuthConfig, logger *slog.Logger) (TokenVerifier, error) {
	switch cfg.Mode {
	case "casdoor":
		logger.Info("Using Casdoor token verifier", "endpoint", cfg.Casdoor.Endpoint, "organization", cfg.Casdoor.Organization)
		return NewCasdoorVerifier(cfg.Casdoor), nil
	case "jwt", "":
		if cfg.JWTSecret == "" {
			return nil, errors.New("JWT_SECRET is required for jwt auth mode")
		}
		logger.Info("Using HMAC token verifier")
		return NewHMACVerifier(cfg.JWTSecret), nil
	default:
		return nil, fmt.Errorf("unknown auth mode: %s", cfg.Mode)
	}
}
