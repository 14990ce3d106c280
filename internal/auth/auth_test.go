package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SAP-F-2025/phonics-service/internal/config"
	"github.com/SAP-F-2025/phonics-service/internal/models"
	"github.com/SAP-F-2025/phonics-service/internal/utils"
)

type fakeProfiles map[string]*models.Profile

func (f fakeProfiles) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	if id == "broken" {
		return nil, errors.New("db down")
	}
	return f[id], nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestHMACVerifier_RoundTrip(t *testing.T) {
	v := NewHMACVerifier("secret")

	token, err := v.IssueToken("user-1", "kid@example.com", models.RoleAdmin, time.Hour)
	require.NoError(t, err)

	identity, err := v.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", identity.Subject)
	assert.Equal(t, "kid@example.com", identity.Email)
	assert.True(t, identity.Admin)
}

func TestHMACVerifier_Rejects(t *testing.T) {
	v := NewHMACVerifier("secret")

	expired, err := v.IssueToken("user-1", "", models.RoleLearner, -time.Minute)
	require.NoError(t, err)
	foreign, err := NewHMACVerifier("other").IssueToken("user-1", "", models.RoleLearner, time.Hour)
	require.NoError(t, err)
	noSubject, err := v.IssueToken("", "", models.RoleLearner, time.Hour)
	require.NoError(t, err)

	for name, token := range map[string]string{
		"expired":      expired,
		"wrong secret": foreign,
		"no subject":   noSubject,
		"garbage":      "not.a.jwt",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := v.Verify(context.Background(), token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestNewVerifier(t *testing.T) {
	v, err := NewVerifier(config.AuthConfig{Mode: "jwt", JWTSecret: "s"}, discardLogger())
	require.NoError(t, err)
	assert.IsType(t, &HMACVerifier{}, v)

	v, err = NewVerifier(config.AuthConfig{Mode: "casdoor"}, discardLogger())
	require.NoError(t, err)
	assert.IsType(t, &CasdoorVerifier{}, v)

	_, err = NewVerifier(config.AuthConfig{Mode: "jwt"}, discardLogger())
	assert.Error(t, err)

	_, err = NewVerifier(config.AuthConfig{Mode: "ldap"}, discardLogger())
	assert.Error(t, err)
}

func TestRoleResolver_Resolve(t *testing.T) {
	v := NewHMACVerifier("secret")
	profiles := fakeProfiles{
		"promoted": {ID: "promoted", Role: models.RoleAdmin},
		"demoted":  {ID: "demoted", Role: models.RoleLearner},
	}
	resolver := NewRoleResolver(v, profiles)
	ctx := context.Background()

	issue := func(subject string, role models.UserRole) string {
		token, err := v.IssueToken(subject, "", role, time.Hour)
		require.NoError(t, err)
		return token
	}

	tests := []struct {
		name    string
		token   string
		want    models.UserRole
		wantErr error
	}{
		{name: "no token", token: "", want: models.RoleAnonymous},
		{name: "plain learner", token: issue("fresh", ""), want: models.RoleLearner},
		{name: "provider admin", token: issue("boss", models.RoleAdmin), want: models.RoleAdmin},
		{name: "stored admin role", token: issue("promoted", ""), want: models.RoleAdmin},
		{name: "stored role overrides provider", token: issue("demoted", models.RoleAdmin), want: models.RoleLearner},
		{name: "invalid token", token: "junk", want: models.RoleAnonymous, wantErr: ErrInvalidToken},
		{name: "profile lookup fails", token: issue("broken", ""), want: models.RoleAnonymous, wantErr: ErrProfileUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			principal, err := resolver.Resolve(ctx, tt.token)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, principal.Role)
		})
	}
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	v := NewHMACVerifier("secret")
	resolver := NewRoleResolver(v, fakeProfiles{})
	logger := utils.NewSlogLogger(discardLogger())

	router := gin.New()
	router.Use(Authenticate(resolver, logger))
	router.GET("/whoami", func(c *gin.Context) {
		c.JSON(http.StatusOK, PrincipalFrom(c))
	})
	router.GET("/admin", RequireRole(models.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	learnerToken, err := v.IssueToken("learner-1", "", models.RoleLearner, time.Hour)
	require.NoError(t, err)
	adminToken, err := v.IssueToken("admin-1", "", models.RoleAdmin, time.Hour)
	require.NoError(t, err)
	brokenToken, err := v.IssueToken("broken", "", models.RoleLearner, time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name   string
		path   string
		header string
		status int
	}{
		{"anonymous may browse", "/whoami", "", http.StatusOK},
		{"bad token is rejected", "/whoami", "Bearer junk", http.StatusUnauthorized},
		{"anonymous admin route", "/admin", "", http.StatusUnauthorized},
		{"learner admin route", "/admin", "Bearer " + learnerToken, http.StatusForbidden},
		{"admin route", "/admin", "bearer " + adminToken, http.StatusNoContent},
		{"profile store down", "/whoami", "Bearer " + brokenToken, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestBearerToken(t *testing.T) {
	assert.Equal(t, "abc", bearerToken("Bearer abc"))
	assert.Equal(t, "abc", bearerToken("BEARER  abc "))
	assert.Equal(t, "", bearerToken("Basic abc"))
	assert.Equal(t, "", bearerToken("Bearer "))
}
