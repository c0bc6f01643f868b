package household

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/mealsync/api/internal/domain/user"
	gormrepo "github.com/mealsync/api/internal/infrastructure/persistence/gorm"
	apperrors "github.com/mealsync/api/pkg/errors"
)

func newHouseholdService(t *testing.T) (*Service, func(email, name string) *user.User) {
	t.Helper()
	ctx := context.Background()

	db, err := gorm.Open(
		sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"),
		&gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)},
	)
	require.NoError(t, err)
	require.NoError(t, gormrepo.AutoMigrate(db))

	userRepo := gormrepo.NewUserRepository(db)
	newUser := func(email, name string) *user.User {
		u, err := user.New(email, name, "password123")
		require.NoError(t, err)
		require.NoError(t, userRepo.Create(ctx, u))
		return u
	}
	return NewService(gormrepo.NewHouseholdRepository(db), zap.NewNop()), newUser
}

func TestCreateEnrollsTheOwner(t *testing.T) {
	ctx := context.Background()
	svc, newUser := newHouseholdService(t)
	owner := newUser("owner@example.com", "owner")

	hh, err := svc.Create(ctx, owner.ID, "Smith Family", "our kitchen")
	require.NoError(t, err)
	assert.Equal(t, owner.ID, hh.CreatedByID)
	assert.Len(t, hh.InviteCode, 8)

	members, err := svc.Members(ctx, owner.ID, hh.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, owner.ID, members[0].ID)
}

func TestJoin(t *testing.T) {
	ctx := context.Background()
	svc, newUser := newHouseholdService(t)
	owner := newUser("owner@example.com", "owner")
	joiner := newUser("joiner@example.com", "joiner")

	hh, err := svc.Create(ctx, owner.ID, "Smith Family", "")
	require.NoError(t, err)

	joined, err := svc.Join(ctx, joiner.ID, hh.InviteCode)
	require.NoError(t, err)
	assert.Equal(t, hh.ID, joined.ID)

	members, err := svc.Members(ctx, joiner.ID, hh.ID)
	require.NoError(t, err)
	assert.Len(t, members, 2)

	t.Run("AlreadyMember", func(t *testing.T) {
		_, err := svc.Join(ctx, joiner.ID, hh.InviteCode)
		assert.True(t, apperrors.Is(err, apperrors.CodeConflict))
	})

	t.Run("InvalidCode", func(t *testing.T) {
		stranger := newUser("stranger@example.com", "stranger")
		_, err := svc.Join(ctx, stranger.ID, "WRONGCOD")
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.CodeInvalidInviteCode))
	})
}

func TestRotateInviteCodeInvalidatesTheOldOne(t *testing.T) {
	ctx := context.Background()
	svc, newUser := newHouseholdService(t)
	owner := newUser("owner@example.com", "owner")
	joiner := newUser("joiner@example.com", "joiner")

	hh, err := svc.Create(ctx, owner.ID, "Smith Family", "")
	require.NoError(t, err)
	oldCode := hh.InviteCode

	_, err = svc.RotateInviteCode(ctx, joiner.ID, hh.ID)
	assert.True(t, apperrors.Is(err, apperrors.CodeForbidden), "only the owner rotates")

	rotated, err := svc.RotateInviteCode(ctx, owner.ID, hh.ID)
	require.NoError(t, err)
	assert.NotEqual(t, oldCode, rotated.InviteCode)

	_, err = svc.Join(ctx, joiner.ID, oldCode)
	assert.True(t, apperrors.Is(err, apperrors.CodeInvalidInviteCode))

	_, err = svc.Join(ctx, joiner.ID, rotated.InviteCode)
	assert.NoError(t, err)
}

func TestLeave(t *testing.T) {
	ctx := context.Background()
	svc, newUser := newHouseholdService(t)
	owner := newUser("owner@example.com", "owner")
	joiner := newUser("joiner@example.com", "joiner")

	hh, err := svc.Create(ctx, owner.ID, "Smith Family", "")
	require.NoError(t, err)
	_, err = svc.Join(ctx, joiner.ID, hh.InviteCode)
	require.NoError(t, err)

	t.Run("OwnerCannotLeave", func(t *testing.T) {
		err := svc.Leave(ctx, owner.ID, hh.ID)
		assert.True(t, apperrors.Is(err, apperrors.CodeBadRequest))
	})

	t.Run("MemberLeaves", func(t *testing.T) {
		require.NoError(t, svc.Leave(ctx, joiner.ID, hh.ID))

		err := svc.RequireMember(ctx, hh.ID, joiner.ID)
		assert.True(t, apperrors.Is(err, apperrors.CodeNotHouseholdMember))
	})
}

func TestRemoveMember(t *testing.T) {
	ctx := context.Background()
	svc, newUser := newHouseholdService(t)
	owner := newUser("owner@example.com", "owner")
	joiner := newUser("joiner@example.com", "joiner")

	hh, err := svc.Create(ctx, owner.ID, "Smith Family", "")
	require.NoError(t, err)
	_, err = svc.Join(ctx, joiner.ID, hh.InviteCode)
	require.NoError(t, err)

	t.Run("NonOwnerForbidden", func(t *testing.T) {
		err := svc.RemoveMember(ctx, joiner.ID, hh.ID, owner.ID)
		assert.True(t, apperrors.Is(err, apperrors.CodeForbidden))
	})

	t.Run("OwnerCannotRemoveSelf", func(t *testing.T) {
		err := svc.RemoveMember(ctx, owner.ID, hh.ID, owner.ID)
		assert.True(t, apperrors.Is(err, apperrors.CodeBadRequest))
	})

	t.Run("OwnerRemovesMember", func(t *testing.T) {
		require.NoError(t, svc.RemoveMember(ctx, owner.ID, hh.ID, joiner.ID))
		err := svc.RequireMember(ctx, hh.ID, joiner.ID)
		assert.True(t, apperrors.Is(err, apperrors.CodeNotHouseholdMember))
	})
}

func TestUpdateAndDeleteAreOwnerOnly(t *testing.T) {
	ctx := context.Background()
	svc, newUser := newHouseholdService(t)
	owner := newUser("owner@example.com", "owner")
	joiner := newUser("joiner@example.com", "joiner")

	hh, err := svc.Create(ctx, owner.ID, "Smith Family", "")
	require.NoError(t, err)
	_, err = svc.Join(ctx, joiner.ID, hh.InviteCode)
	require.NoError(t, err)

	_, err = svc.Update(ctx, joiner.ID, hh.ID, "Taken Over", "")
	assert.True(t, apperrors.Is(err, apperrors.CodeForbidden))

	updated, err := svc.Update(ctx, owner.ID, hh.ID, "Smith-Jones Family", "merged")
	require.NoError(t, err)
	assert.Equal(t, "Smith-Jones Family", updated.Name)

	err = svc.Delete(ctx, joiner.ID, hh.ID)
	assert.True(t, apperrors.Is(err, apperrors.CodeForbidden))

	require.NoError(t, svc.Delete(ctx, owner.ID, hh.ID))
	_, err = svc.Get(ctx, owner.ID, hh.ID)
	require.Error(t, err)
}
