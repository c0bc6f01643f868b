package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mealsync/api/internal/infrastructure/config"
	"github.com/mealsync/api/internal/infrastructure/persistence/memory"
	apperrors "github.com/mealsync/api/pkg/errors"
)

func newTokenService(accessTTL time.Duration) *TokenService {
	cfg := &config.Config{}
	cfg.Auth.JWTSecret = "test-secret-for-unit-tests"
	cfg.Auth.Issuer = "mealsync-test"
	cfg.Auth.JWTExpiration = accessTTL
	cfg.Auth.RefreshExpiration = 24 * time.Hour
	return NewTokenService(cfg, memory.NewCacheRepository())
}

func TestGeneratePairAndValidate(t *testing.T) {
	ctx := context.Background()
	svc := newTokenService(15 * time.Minute)
	userID := uuid.New()

	access, refresh, err := svc.GeneratePair(userID, "a@b.com")
	require.NoError(t, err)
	assert.NotEqual(t, access, refresh)

	claims, err := svc.Validate(ctx, access, TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "a@b.com", claims.Email)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)

	_, err = svc.Validate(ctx, refresh, TokenTypeRefresh)
	assert.NoError(t, err)
}

func TestValidateRejectsWrongTokenType(t *testing.T) {
	ctx := context.Background()
	svc := newTokenService(15 * time.Minute)

	access, refresh, err := svc.GeneratePair(uuid.New(), "a@b.com")
	require.NoError(t, err)

	_, err = svc.Validate(ctx, access, TokenTypeRefresh)
	assert.True(t, apperrors.Is(err, apperrors.CodeUnauthorized))

	_, err = svc.Validate(ctx, refresh, TokenTypeAccess)
	assert.True(t, apperrors.Is(err, apperrors.CodeUnauthorized))
}

func TestValidateRejectsForeignSignature(t *testing.T) {
	ctx := context.Background()
	svc := newTokenService(15 * time.Minute)

	other := newTokenService(15 * time.Minute)
	other.secret = []byte("a-completely-different-secret")

	access, _, err := other.GeneratePair(uuid.New(), "a@b.com")
	require.NoError(t, err)

	_, err = svc.Validate(ctx, access, TokenTypeAccess)
	assert.True(t, apperrors.Is(err, apperrors.CodeUnauthorized))
}

func TestValidateRejectsExpired(t *testing.T) {
	ctx := context.Background()
	svc := newTokenService(-time.Minute)

	access, _, err := svc.GeneratePair(uuid.New(), "a@b.com")
	require.NoError(t, err)

	_, err = svc.Validate(ctx, access, TokenTypeAccess)
	assert.True(t, apperrors.Is(err, apperrors.CodeUnauthorized))
}

func TestRevoke(t *testing.T) {
	ctx := context.Background()
	svc := newTokenService(15 * time.Minute)

	access, _, err := svc.GeneratePair(uuid.New(), "a@b.com")
	require.NoError(t, err)

	claims, err := svc.Validate(ctx, access, TokenTypeAccess)
	require.NoError(t, err)

	require.NoError(t, svc.Revoke(ctx, claims))

	_, err = svc.Validate(ctx, access, TokenTypeAccess)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeUnauthorized))
}
