package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/mealsync/api/internal/infrastructure/config"
	gormrepo "github.com/mealsync/api/internal/infrastructure/persistence/gorm"
	"github.com/mealsync/api/internal/infrastructure/persistence/memory"
	"github.com/mealsync/api/internal/ports/outbound"
	apperrors "github.com/mealsync/api/pkg/errors"
)

func newAuthService(t *testing.T) (*Service, outbound.UserRepository) {
	t.Helper()

	db, err := gorm.Open(
		sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"),
		&gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)},
	)
	require.NoError(t, err)
	require.NoError(t, gormrepo.AutoMigrate(db))

	cfg := &config.Config{}
	cfg.Auth.JWTSecret = "test-secret-for-unit-tests"
	cfg.Auth.Issuer = "mealsync-test"
	cfg.Auth.JWTExpiration = 15 * time.Minute
	cfg.Auth.RefreshExpiration = 24 * time.Hour

	userRepo := gormrepo.NewUserRepository(db)
	tokens := NewTokenService(cfg, memory.NewCacheRepository())
	return NewService(userRepo, tokens, zap.NewNop()), userRepo
}

func register(t *testing.T, svc *Service, email string) *AuthResponse {
	t.Helper()
	resp, err := svc.Register(context.Background(), RegisterCommand{
		Email:    email,
		Username: "user-" + uuid.NewString()[:8],
		Password: "password123",
	})
	require.NoError(t, err)
	return resp
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthService(t)

	resp, err := svc.Register(ctx, RegisterCommand{
		Email:    " Alice@Example.com",
		Username: "alice",
		Password: "password123",
		FullName: "Alice Smith",
	})
	require.NoError(t, err)

	assert.Equal(t, "alice@example.com", resp.User.Email)
	assert.Equal(t, "Alice Smith", resp.User.FullName)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, int((15 * time.Minute).Seconds()), resp.ExpiresIn)

	t.Run("DuplicateEmail", func(t *testing.T) {
		_, err := svc.Register(ctx, RegisterCommand{
			Email:    "ALICE@example.com",
			Username: "alice2",
			Password: "password123",
		})
		assert.True(t, apperrors.Is(err, apperrors.CodeEmailExists))
	})

	t.Run("DuplicateUsername", func(t *testing.T) {
		_, err := svc.Register(ctx, RegisterCommand{
			Email:    "bob@example.com",
			Username: "alice",
			Password: "password123",
		})
		assert.True(t, apperrors.Is(err, apperrors.CodeUsernameExists))
	})

	t.Run("WeakPassword", func(t *testing.T) {
		_, err := svc.Register(ctx, RegisterCommand{
			Email:    "carol@example.com",
			Username: "carol",
			Password: "short",
		})
		assert.True(t, apperrors.Is(err, apperrors.CodeValidationFailed))
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	svc, userRepo := newAuthService(t)
	register(t, svc, "alice@example.com")

	t.Run("Success", func(t *testing.T) {
		resp, err := svc.Login(ctx, LoginCommand{Email: "Alice@Example.com", Password: "password123"})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.AccessToken)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		_, err := svc.Login(ctx, LoginCommand{Email: "alice@example.com", Password: "nope-nope"})
		assert.True(t, apperrors.Is(err, apperrors.CodeInvalidCredentials))
	})

	t.Run("UnknownEmailLooksTheSame", func(t *testing.T) {
		_, err := svc.Login(ctx, LoginCommand{Email: "ghost@example.com", Password: "password123"})
		assert.True(t, apperrors.Is(err, apperrors.CodeInvalidCredentials))
	})

	t.Run("DeactivatedAccount", func(t *testing.T) {
		u, err := userRepo.FindByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		u.Deactivate()
		require.NoError(t, userRepo.Update(ctx, u))

		_, err = svc.Login(ctx, LoginCommand{Email: "alice@example.com", Password: "password123"})
		assert.True(t, apperrors.Is(err, apperrors.CodeForbidden))
	})
}

func TestRefresh(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthService(t)
	resp := register(t, svc, "alice@example.com")

	t.Run("AccessTokenRejected", func(t *testing.T) {
		_, err := svc.Refresh(ctx, resp.AccessToken)
		assert.True(t, apperrors.Is(err, apperrors.CodeUnauthorized))
	})

	t.Run("RotatesTheRefreshToken", func(t *testing.T) {
		fresh, err := svc.Refresh(ctx, resp.RefreshToken)
		require.NoError(t, err)
		assert.NotEmpty(t, fresh.AccessToken)
		assert.NotEqual(t, resp.RefreshToken, fresh.RefreshToken)

		// the old refresh token is single-use
		_, err = svc.Refresh(ctx, resp.RefreshToken)
		assert.True(t, apperrors.Is(err, apperrors.CodeUnauthorized))
	})
}

func TestLogout(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthService(t)
	resp := register(t, svc, "alice@example.com")

	claims, err := svc.Authenticate(ctx, resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)

	require.NoError(t, svc.Logout(ctx, resp.AccessToken))

	_, err = svc.Authenticate(ctx, resp.AccessToken)
	assert.True(t, apperrors.Is(err, apperrors.CodeUnauthorized))
}
