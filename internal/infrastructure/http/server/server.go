// Package server provides the HTTP server and API route table
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/mealsync/api/internal/application/auth"
	"github.com/mealsync/api/internal/infrastructure/config"
	"github.com/mealsync/api/internal/infrastructure/http/handlers"
	"github.com/mealsync/api/internal/infrastructure/http/middleware"
)

// Server represents the HTTP server
type Server struct {
	config *config.Config
	logger *zap.Logger
	engine *gin.Engine
	server *http.Server
}

// Handlers bundles every handler group the router mounts.
type Handlers struct {
	Auth       *handlers.AuthHandlers
	User       *handlers.UserHandlers
	Household  *handlers.HouseholdHandlers
	Ingredient *handlers.IngredientHandlers
	Recipe     *handlers.RecipeHandlers
	Meal       *handlers.MealHandlers
	Grocery    *handlers.GroceryHandlers
	AI         *handlers.AIHandlers
	Health     *handlers.HealthHandlers
}

// NewServer creates a new HTTP server instance
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	mw *middleware.Middleware,
	authService *auth.Service,
	h Handlers,
) *Server {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		config: cfg,
		logger: logger,
	}
	s.engine = s.setupRouter(mw, authService, h)

	s.server = &http.Server{
		Addr:           fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:        s.engine,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	return s
}

func (s *Server) setupRouter(mw *middleware.Middleware, authService *auth.Service, h Handlers) *gin.Engine {
	engine := gin.New()

	if len(s.config.Server.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(s.config.Server.TrustedProxies); err != nil {
			s.logger.Warn("invalid trusted proxies", zap.Error(err))
		}
	}

	engine.Use(mw.RequestID())
	engine.Use(mw.Recovery())
	engine.Use(mw.Logger())
	engine.Use(mw.Security())
	engine.Use(mw.CORS())
	engine.Use(mw.RateLimit())

	// Probes and metrics sit outside the versioned API.
	engine.GET("/health", h.Health.Health)
	engine.GET("/ready", h.Health.Ready)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := engine.Group("/api/v1")

	authGroup := v1.Group("/auth")
	{
		authGroup.POST("/register", h.Auth.Register)
		authGroup.POST("/login", h.Auth.Login)
		authGroup.POST("/refresh", h.Auth.Refresh)
		authGroup.POST("/logout", h.Auth.Logout)
	}

	protected := v1.Group("")
	protected.Use(mw.Auth(authService))
	{
		protected.GET("/auth/me", h.User.Me)

		users := protected.Group("/users")
		{
			users.GET("", h.User.ListPeers)
			users.GET("/me", h.User.Me)
			users.PUT("/me", h.User.UpdateMe)
			users.PATCH("/me", h.User.UpdateMe)
			users.DELETE("/me", h.User.DeactivateMe)
			users.POST("/me/deactivate", h.User.DeactivateMe)
			users.POST("/me/change-password", h.User.ChangePassword)
			users.GET("/:id", h.User.Get)
		}

		households := protected.Group("/households")
		{
			households.POST("", h.Household.Create)
			households.GET("", h.Household.List)
			households.POST("/join", h.Household.Join)
			households.GET("/:id", h.Household.Get)
			households.PUT("/:id", h.Household.Update)
			households.DELETE("/:id", h.Household.Delete)
			households.POST("/:id/leave", h.Household.Leave)
			households.GET("/:id/members", h.Household.Members)
			households.DELETE("/:id/members/:userId", h.Household.RemoveMember)
			households.POST("/:id/invite", h.Household.RotateInviteCode)

			// Household-scoped views over the other resources.
			households.POST("/:id/ingredients", h.Ingredient.Create)
			households.GET("/:id/ingredients", h.Ingredient.List)
			households.GET("/:id/ingredients/search", h.Ingredient.List)
			households.GET("/:id/recipes", h.Recipe.ListByHousehold)
			households.GET("/:id/meals/week", h.Meal.Week)
			households.GET("/:id/meals/calendar", h.Meal.Calendar)
			households.GET("/:id/grocery-lists", h.Grocery.List)
		}

		ingredients := protected.Group("/ingredients")
		{
			ingredients.POST("", h.Ingredient.Create)
			ingredients.GET("", h.Ingredient.List)
			ingredients.GET("/:id", h.Ingredient.Get)
			ingredients.PUT("/:id", h.Ingredient.Update)
			ingredients.PATCH("/:id", h.Ingredient.Update)
			ingredients.DELETE("/:id", h.Ingredient.Delete)
		}

		recipes := protected.Group("/recipes")
		{
			recipes.POST("", h.Recipe.Create)
			recipes.GET("", h.Recipe.Search)
			recipes.POST("/search", h.Recipe.SearchPost)
			recipes.GET("/:id", h.Recipe.Get)
			recipes.PUT("/:id", h.Recipe.Update)
			recipes.PATCH("/:id", h.Recipe.Update)
			recipes.DELETE("/:id", h.Recipe.Delete)
		}

		meals := protected.Group("/meals")
		{
			meals.POST("", h.Meal.Create)
			meals.GET("", h.Meal.List)
			meals.GET("/week", h.Meal.Week)
			meals.GET("/calendar", h.Meal.Calendar)
			meals.GET("/:id", h.Meal.Get)
			meals.PUT("/:id", h.Meal.Update)
			meals.PATCH("/:id", h.Meal.Update)
			meals.DELETE("/:id", h.Meal.Delete)
			meals.POST("/:id/assign", h.Meal.Assign)
			meals.POST("/:id/claim", h.Meal.Claim)
			meals.POST("/:id/unclaim", h.Meal.Unclaim)
			meals.PATCH("/:id/status", h.Meal.UpdateStatus)
		}

		groceryLists := protected.Group("/grocery-lists")
		{
			groceryLists.POST("", h.Grocery.Create)
			groceryLists.GET("", h.Grocery.List)
			groceryLists.POST("/generate", h.Grocery.Generate)
			groceryLists.GET("/:id", h.Grocery.Get)
			groceryLists.PUT("/:id", h.Grocery.Update)
			groceryLists.PATCH("/:id", h.Grocery.Update)
			groceryLists.DELETE("/:id", h.Grocery.Delete)
			groceryLists.POST("/:id/items", h.Grocery.AddItem)
			groceryLists.DELETE("/:id/purchased", h.Grocery.ClearPurchased)
			groceryLists.POST("/:id/export", h.Grocery.Export)
		}

		groceryItems := protected.Group("/grocery-items")
		{
			groceryItems.PATCH("/:id", h.Grocery.UpdateItem)
			groceryItems.PATCH("/:id/purchase", h.Grocery.TogglePurchase)
			groceryItems.DELETE("/:id", h.Grocery.DeleteItem)
		}

		ai := protected.Group("/ai")
		{
			ai.POST("/generate-ingredients", h.AI.GenerateIngredients)
			ai.POST("/generate-recipe", h.AI.GenerateRecipe)
			ai.POST("/generate-meal-plan", h.AI.GenerateMealPlan)
			ai.POST("/save-recipe", h.AI.SaveRecipe)
			ai.POST("/save-meal-plan", h.AI.SaveMealPlan)
		}
	}

	return engine
}

// Start begins listening for requests. Blocks until the server stops.
func (s *Server) Start() error {
	s.logger.Info("starting http server",
		zap.String("addr", s.server.Addr),
		zap.String("environment", s.config.App.Environment),
	)

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server, draining in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")

	ctx, cancel := context.WithTimeout(ctx, s.config.Server.ShutdownTimeout)
	defer cancel()

	return s.server.Shutdown(ctx)
}

// Engine exposes the router, used by httptest in integration tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}
