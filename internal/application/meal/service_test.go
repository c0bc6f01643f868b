package meal

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

	householdapp "github.com/mealsync/api/internal/application/household"
	"github.com/mealsync/api/internal/domain/household"
	"github.com/mealsync/api/internal/domain/meal"
	"github.com/mealsync/api/internal/domain/user"
	gormrepo "github.com/mealsync/api/internal/infrastructure/persistence/gorm"
	apperrors "github.com/mealsync/api/pkg/errors"
)

type mealFixture struct {
	svc        *Service
	households *householdapp.Service
	owner      *user.User
	member     *user.User
	outsider   *user.User
	household  *household.Household
}

func newMealFixture(t *testing.T) *mealFixture {
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

	f := &mealFixture{
		owner:    newUser("owner@example.com", "owner"),
		member:   newUser("member@example.com", "member"),
		outsider: newUser("stranger@example.com", "stranger"),
	}

	f.households = householdapp.NewService(gormrepo.NewHouseholdRepository(db), zap.NewNop())
	f.household, err = f.households.Create(ctx, f.owner.ID, "Test Kitchen", "")
	require.NoError(t, err)
	_, err = f.households.Join(ctx, f.member.ID, f.household.InviteCode)
	require.NoError(t, err)

	f.svc = NewService(
		gormrepo.NewMealRepository(db),
		gormrepo.NewRecipeRepository(db),
		f.households,
		zap.NewNop(),
	)
	return f
}

func (f *mealFixture) create(t *testing.T, cmd CreateCommand) *meal.Meal {
	t.Helper()
	if cmd.HouseholdID == uuid.Nil {
		cmd.HouseholdID = f.household.ID
	}
	if cmd.MealDate.IsZero() {
		cmd.MealDate = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	}
	if cmd.Name == "" {
		cmd.Name = "Dinner"
	}
	if cmd.MealType == "" {
		cmd.MealType = "dinner"
	}
	m, err := f.svc.Create(context.Background(), f.owner.ID, cmd)
	require.NoError(t, err)
	return m
}

func TestCreate(t *testing.T) {
	ctx := context.Background()
	f := newMealFixture(t)

	m := f.create(t, CreateCommand{Name: "Taco night"})
	assert.Equal(t, meal.StatusPlanned, m.Status)
	assert.Equal(t, 1, m.Servings, "servings default to 1")

	t.Run("NonMember", func(t *testing.T) {
		_, err := f.svc.Create(ctx, f.outsider.ID, CreateCommand{
			HouseholdID: f.household.ID,
			Name:        "Sneaky",
			MealDate:    m.MealDate,
			MealType:    "dinner",
		})
		assert.True(t, apperrors.Is(err, apperrors.CodeNotHouseholdMember))
	})

	t.Run("OutsiderAssignee", func(t *testing.T) {
		outsiderID := f.outsider.ID
		_, err := f.svc.Create(ctx, f.owner.ID, CreateCommand{
			HouseholdID:  f.household.ID,
			Name:         "Soup",
			MealDate:     m.MealDate,
			MealType:     "dinner",
			AssignedToID: &outsiderID,
		})
		assert.True(t, apperrors.Is(err, apperrors.CodeBadRequest))
	})

	t.Run("UnknownRecipe", func(t *testing.T) {
		bogus := uuid.New()
		_, err := f.svc.Create(ctx, f.owner.ID, CreateCommand{
			HouseholdID: f.household.ID,
			Name:        "Soup",
			MealDate:    m.MealDate,
			MealType:    "dinner",
			RecipeID:    &bogus,
		})
		assert.True(t, apperrors.Is(err, apperrors.CodeBadRequest))
	})
}

func TestUpdateStatus(t *testing.T) {
	ctx := context.Background()
	f := newMealFixture(t)
	m := f.create(t, CreateCommand{})

	m2, err := f.svc.UpdateStatus(ctx, f.owner.ID, m.ID, "preparing")
	require.NoError(t, err)
	assert.Equal(t, meal.StatusPreparing, m2.Status)

	m2, err = f.svc.UpdateStatus(ctx, f.owner.ID, m.ID, "completed")
	require.NoError(t, err)
	assert.Equal(t, meal.StatusCompleted, m2.Status)

	t.Run("TerminalStateRejectsChanges", func(t *testing.T) {
		_, err := f.svc.UpdateStatus(ctx, f.owner.ID, m.ID, "planned")
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.CodeInvalidTransition))
	})

	t.Run("UnknownStatus", func(t *testing.T) {
		_, err := f.svc.UpdateStatus(ctx, f.owner.ID, m.ID, "eaten")
		assert.True(t, apperrors.Is(err, apperrors.CodeValidationFailed))
	})
}

func TestClaimAndUnclaim(t *testing.T) {
	ctx := context.Background()
	f := newMealFixture(t)
	m := f.create(t, CreateCommand{})

	claimed, err := f.svc.Claim(ctx, f.member.ID, m.ID)
	require.NoError(t, err)
	require.NotNil(t, claimed.AssignedToID)
	assert.Equal(t, f.member.ID, *claimed.AssignedToID)

	t.Run("ClaimingTwiceIsIdempotent", func(t *testing.T) {
		again, err := f.svc.Claim(ctx, f.member.ID, m.ID)
		require.NoError(t, err)
		assert.Equal(t, f.member.ID, *again.AssignedToID)
	})

	t.Run("SomeoneElseCannotClaim", func(t *testing.T) {
		_, err := f.svc.Claim(ctx, f.owner.ID, m.ID)
		assert.True(t, apperrors.Is(err, apperrors.CodeConflict))
	})

	t.Run("OnlyAssigneeUnclaims", func(t *testing.T) {
		_, err := f.svc.Unclaim(ctx, f.owner.ID, m.ID)
		assert.True(t, apperrors.Is(err, apperrors.CodeForbidden))

		released, err := f.svc.Unclaim(ctx, f.member.ID, m.ID)
		require.NoError(t, err)
		assert.Nil(t, released.AssignedToID)
	})
}

func TestAssign(t *testing.T) {
	ctx := context.Background()
	f := newMealFixture(t)
	m := f.create(t, CreateCommand{})

	assigned, err := f.svc.Assign(ctx, f.owner.ID, m.ID, f.member.ID)
	require.NoError(t, err)
	require.NotNil(t, assigned.AssignedToID)
	assert.Equal(t, f.member.ID, *assigned.AssignedToID)

	_, err = f.svc.Assign(ctx, f.owner.ID, m.ID, f.outsider.ID)
	assert.True(t, apperrors.Is(err, apperrors.CodeBadRequest))
}

func TestCalendar(t *testing.T) {
	ctx := context.Background()
	f := newMealFixture(t)
	monday := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	f.create(t, CreateCommand{Name: "Oatmeal", MealType: "breakfast", MealDate: monday})
	f.create(t, CreateCommand{Name: "Tacos", MealType: "dinner", MealDate: monday})
	f.create(t, CreateCommand{Name: "Soup", MealType: "lunch", MealDate: monday.AddDate(0, 0, 2)})

	days, err := f.svc.Week(ctx, f.owner.ID, f.household.ID, monday)
	require.NoError(t, err)
	require.Len(t, days, 7)

	assert.Len(t, days[0].Meals, 2)
	assert.Empty(t, days[1].Meals)
	assert.Len(t, days[2].Meals, 1)
	assert.True(t, days[0].Date.Equal(monday))
	assert.True(t, days[6].Date.Equal(monday.AddDate(0, 0, 6)))

	t.Run("InvertedRange", func(t *testing.T) {
		_, err := f.svc.Calendar(ctx, f.owner.ID, f.household.ID, monday, monday.AddDate(0, 0, -1))
		assert.True(t, apperrors.Is(err, apperrors.CodeBadRequest))
	})
}
