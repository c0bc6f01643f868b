package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	appai "github.com/mealsync/api/internal/application/ai"
	"github.com/mealsync/api/internal/application/auth"
	appgrocery "github.com/mealsync/api/internal/application/grocery"
	apphousehold "github.com/mealsync/api/internal/application/household"
	appingredient "github.com/mealsync/api/internal/application/ingredient"
	appmeal "github.com/mealsync/api/internal/application/meal"
	apprecipe "github.com/mealsync/api/internal/application/recipe"
	appuser "github.com/mealsync/api/internal/application/user"
	"github.com/mealsync/api/internal/infrastructure/ai/mock"
	"github.com/mealsync/api/internal/infrastructure/config"
	"github.com/mealsync/api/internal/infrastructure/http/handlers"
	"github.com/mealsync/api/internal/infrastructure/http/middleware"
	gormrepo "github.com/mealsync/api/internal/infrastructure/persistence/gorm"
	"github.com/mealsync/api/internal/infrastructure/persistence/memory"
)

// envelope mirrors the response wire format for assertions.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Message    string `json:"message"`
		StatusCode int    `json:"status_code"`
		Category   string `json:"category"`
	} `json:"error"`
}

func newTestEngine(t *testing.T, aiClient *mock.Client) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(
		sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"),
		&gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)},
	)
	require.NoError(t, err)
	require.NoError(t, gormrepo.AutoMigrate(db))

	cfg := &config.Config{}
	cfg.App.Name = "mealsync"
	cfg.App.Environment = "test"
	cfg.Auth.JWTSecret = "test-secret-for-http-tests"
	cfg.Auth.Issuer = "mealsync-test"
	cfg.Auth.JWTExpiration = 15 * time.Minute
	cfg.Auth.RefreshExpiration = 24 * time.Hour
	cfg.AI.Model = "test-model"
	cfg.AI.MealPlanModel = "test-plan-model"

	log := zap.NewNop()

	userRepo := gormrepo.NewUserRepository(db)
	ingredientRepo := gormrepo.NewIngredientRepository(db)
	recipeRepo := gormrepo.NewRecipeRepository(db)
	mealRepo := gormrepo.NewMealRepository(db)
	groceryRepo := gormrepo.NewGroceryListRepository(db)
	transactor := gormrepo.NewTransactor(db)

	tokens := auth.NewTokenService(cfg, memory.NewCacheRepository())
	authService := auth.NewService(userRepo, tokens, log)
	households := apphousehold.NewService(gormrepo.NewHouseholdRepository(db), log)
	users := appuser.NewService(userRepo, log)
	ingredients := appingredient.NewService(ingredientRepo, households, log)
	recipes := apprecipe.NewService(recipeRepo, ingredientRepo, households, transactor, log)
	meals := appmeal.NewService(mealRepo, recipeRepo, households, log)
	groceries := appgrocery.NewService(groceryRepo, mealRepo, households, transactor, log)
	aiService := appai.NewService(aiClient, ingredientRepo, recipeRepo, mealRepo, groceryRepo, households, transactor, memory.NewCacheRepository(), cfg, log)

	srv := NewServer(cfg, log, middleware.New(cfg, log), authService, Handlers{
		Auth:       handlers.NewAuthHandlers(authService, log),
		User:       handlers.NewUserHandlers(users, log),
		Household:  handlers.NewHouseholdHandlers(households, log),
		Ingredient: handlers.NewIngredientHandlers(ingredients, log),
		Recipe:     handlers.NewRecipeHandlers(recipes, log),
		Meal:       handlers.NewMealHandlers(meals, log),
		Grocery:    handlers.NewGroceryHandlers(groceries, log),
		AI:         handlers.NewAIHandlers(aiService, log),
		Health:     handlers.NewHealthHandlers(db, cfg, log),
	})
	return srv.Engine()
}

func doJSON(t *testing.T, engine *gin.Engine, method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	var env envelope
	if w.Header().Get("Content-Type") != "" && w.Body.Len() > 0 {
		_ = json.Unmarshal(w.Body.Bytes(), &env)
	}
	return w, env
}

func registerUser(t *testing.T, engine *gin.Engine, email, username string) string {
	t.Helper()
	w, env := doJSON(t, engine, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"email":    email,
		"username": username,
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var data struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(t, data.AccessToken)
	return data.AccessToken
}

func TestAPI(t *testing.T) {
	engine := newTestEngine(t, mock.NewClient())

	t.Run("Health", func(t *testing.T) {
		w, _ := doJSON(t, engine, http.MethodGet, "/health", "", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"status"`)
	})

	t.Run("RegisterWrapsDataInEnvelope", func(t *testing.T) {
		w, env := doJSON(t, engine, http.MethodPost, "/api/v1/auth/register", "", gin.H{
			"email":    "alice@example.com",
			"username": "alice",
			"password": "password123",
		})
		require.Equal(t, http.StatusCreated, w.Code)
		assert.True(t, env.Success)
		assert.Nil(t, env.Error)
		assert.Contains(t, string(env.Data), "refresh_token")
	})

	t.Run("ValidationErrorEnvelope", func(t *testing.T) {
		w, env := doJSON(t, engine, http.MethodPost, "/api/v1/auth/register", "", gin.H{
			"email":    "not-an-email",
			"username": "bob",
			"password": "password123",
		})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.False(t, env.Success)
		require.NotNil(t, env.Error)
		assert.Equal(t, http.StatusUnprocessableEntity, env.Error.StatusCode)
		assert.Equal(t, "Validation", env.Error.Category)
		assert.NotEmpty(t, env.Error.Message)
	})

	t.Run("MissingTokenIsUnauthorized", func(t *testing.T) {
		w, env := doJSON(t, engine, http.MethodGet, "/api/v1/users/me", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		require.NotNil(t, env.Error)
		assert.Equal(t, "Authentication", env.Error.Category)
	})

	t.Run("GarbageTokenIsUnauthorized", func(t *testing.T) {
		w, _ := doJSON(t, engine, http.MethodGet, "/api/v1/users/me", "not-a-jwt", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("AuthenticatedFlow", func(t *testing.T) {
		token := registerUser(t, engine, "carol@example.com", "carol")

		w, env := doJSON(t, engine, http.MethodGet, "/api/v1/users/me", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, string(env.Data), "carol@example.com")
		assert.NotContains(t, string(env.Data), "password_hash", "hashes never leave the API")

		w, env = doJSON(t, engine, http.MethodPost, "/api/v1/households", token, gin.H{
			"name": "Carol's Kitchen",
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var hh struct {
			ID         uuid.UUID `json:"id"`
			InviteCode string    `json:"invite_code"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &hh))
		assert.Len(t, hh.InviteCode, 8)

		w, env = doJSON(t, engine, http.MethodPost, "/api/v1/ingredients", token, gin.H{
			"household_id": hh.ID,
			"name":         "tomatoes",
			"category":     "produce",
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		assert.Contains(t, string(env.Data), "tomatoes")

		w, _ = doJSON(t, engine, http.MethodGet, "/api/v1/ingredients?household_id="+hh.ID.String(), token, nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("InvalidDateQueryIsBadRequest", func(t *testing.T) {
		token := registerUser(t, engine, "dave@example.com", "dave")

		w, env := doJSON(t, engine, http.MethodPost, "/api/v1/households", token, gin.H{"name": "Dave's"})
		require.Equal(t, http.StatusCreated, w.Code)
		var hh struct {
			ID uuid.UUID `json:"id"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &hh))

		w, _ = doJSON(t, engine, http.MethodGet,
			"/api/v1/meals/calendar?household_id="+hh.ID.String()+"&start=03/02/2026&end=2026-03-08", token, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("RequestIDHeader", func(t *testing.T) {
		w, _ := doJSON(t, engine, http.MethodGet, "/health", "", nil)
		assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	})
}

func TestAIGenerateEndpoint(t *testing.T) {
	aiClient := mock.NewClient("```json\n" + `{
  "ingredients": [
    {"name": "spaghetti", "quantity": 400, "unit": "gram", "category": "pantry"},
    {"name": "guanciale", "quantity": 150, "unit": "gram", "category": "meat"}
  ]
}` + "\n```")
	engine := newTestEngine(t, aiClient)
	token := registerUser(t, engine, "cook@example.com", "cook")

	w, env := doJSON(t, engine, http.MethodPost, "/api/v1/households", token, gin.H{"name": "Cook's Kitchen"})
	require.Equal(t, http.StatusCreated, w.Code)
	var hh struct {
		ID uuid.UUID `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &hh))

	w, env = doJSON(t, engine, http.MethodPost, "/api/v1/ai/generate-ingredients", token, gin.H{
		"meal_name":    "carbonara",
		"household_id": hh.ID,
		"servings":     2,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.True(t, env.Success)

	var data struct {
		TotalIngredients    int `json:"total_ingredients"`
		NewIngredientsCount int `json:"new_ingredients_count"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, 2, data.TotalIngredients)
	assert.Equal(t, 2, data.NewIngredientsCount)
	assert.Equal(t, 1, aiClient.CallCount())
}
