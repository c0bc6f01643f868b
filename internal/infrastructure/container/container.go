// Package container provides dependency injection using Uber FX
package container

import (
	"context"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/mealsync/api/internal/application/ai"
	"github.com/mealsync/api/internal/application/auth"
	"github.com/mealsync/api/internal/application/grocery"
	"github.com/mealsync/api/internal/application/household"
	"github.com/mealsync/api/internal/application/ingredient"
	"github.com/mealsync/api/internal/application/meal"
	"github.com/mealsync/api/internal/application/recipe"
	"github.com/mealsync/api/internal/application/user"
	"github.com/mealsync/api/internal/infrastructure/ai/gemini"
	"github.com/mealsync/api/internal/infrastructure/ai/mock"
	"github.com/mealsync/api/internal/infrastructure/config"
	"github.com/mealsync/api/internal/infrastructure/http/handlers"
	"github.com/mealsync/api/internal/infrastructure/http/middleware"
	"github.com/mealsync/api/internal/infrastructure/http/server"
	gormrepo "github.com/mealsync/api/internal/infrastructure/persistence/gorm"
	"github.com/mealsync/api/internal/infrastructure/persistence/memory"
	"github.com/mealsync/api/internal/infrastructure/persistence/redis"
	"github.com/mealsync/api/internal/ports/outbound"
	"github.com/mealsync/api/pkg/logger"
)

// Module provides all dependency injection modules
var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	DatabaseModule,
	CacheModule,
	AIModule,
	RepositoryModule,
	ServiceModule,
	HTTPModule,
	LifecycleModule,
)

// ConfigModule provides configuration
var ConfigModule = fx.Provide(
	func() (*config.Config, error) {
		return config.Load("")
	},
)

// LoggerModule provides logging
var LoggerModule = fx.Provide(
	func(cfg *config.Config) (*zap.Logger, error) {
		return logger.New(logger.Config{
			Level:       cfg.App.LogLevel,
			Format:      cfg.App.LogFormat,
			Development: cfg.App.Debug,
		})
	},
	func(log *zap.Logger) *zap.SugaredLogger {
		return log.Sugar()
	},
)

// DatabaseModule provides the GORM database connection
var DatabaseModule = fx.Provide(
	gormrepo.NewDatabase,
)

// cacheResources pairs the cache repository with the Redis client that
// backs it, if any, so the lifecycle hook can close it.
type cacheResources struct {
	repo   outbound.CacheRepository
	client *goredis.Client
}

// CacheModule provides caching. Redis when enabled, otherwise an
// in-process store suitable for development and tests.
var CacheModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) (*cacheResources, error) {
		if !cfg.Redis.Enabled {
			log.Info("redis disabled, using in-memory cache")
			return &cacheResources{repo: memory.NewCacheRepository()}, nil
		}

		client, err := redis.NewClient(context.Background(), cfg)
		if err != nil {
			return nil, err
		}
		return &cacheResources{
			repo:   redis.NewCacheRepository(client, log),
			client: client,
		}, nil
	},
	func(res *cacheResources) outbound.CacheRepository {
		return res.repo
	},
)

// aiResources pairs the AI client with its Gemini handle, if any, so
// the lifecycle hook can close it.
type aiResources struct {
	client outbound.AIClient
	gemini *gemini.Client
}

// AIModule provides the text generation client. Gemini when an API key
// is configured, otherwise a mock that fails loudly.
var AIModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) (*aiResources, error) {
		if cfg.AI.Provider == "gemini" && cfg.AI.APIKey != "" {
			client, err := gemini.NewClient(context.Background(), cfg, log)
			if err != nil {
				return nil, err
			}
			return &aiResources{client: client, gemini: client}, nil
		}

		log.Warn("no AI API key configured, AI endpoints will return errors",
			zap.String("provider", cfg.AI.Provider),
		)
		return &aiResources{client: mock.NewClient()}, nil
	},
	func(res *aiResources) outbound.AIClient {
		return res.client
	},
)

// RepositoryModule provides repository implementations
var RepositoryModule = fx.Provide(
	gormrepo.NewUserRepository,
	gormrepo.NewHouseholdRepository,
	gormrepo.NewIngredientRepository,
	gormrepo.NewRecipeRepository,
	gormrepo.NewMealRepository,
	gormrepo.NewGroceryListRepository,
	gormrepo.NewTransactor,
)

// ServiceModule provides application services
var ServiceModule = fx.Provide(
	auth.NewTokenService,
	auth.NewService,
	user.NewService,
	household.NewService,
	ingredient.NewService,
	recipe.NewService,
	meal.NewService,
	grocery.NewService,
	ai.NewService,
)

// HTTPModule provides the HTTP server, middleware and handlers
var HTTPModule = fx.Provide(
	middleware.New,
	handlers.NewAuthHandlers,
	handlers.NewUserHandlers,
	handlers.NewHouseholdHandlers,
	handlers.NewIngredientHandlers,
	handlers.NewRecipeHandlers,
	handlers.NewMealHandlers,
	handlers.NewGroceryHandlers,
	handlers.NewAIHandlers,
	handlers.NewHealthHandlers,
	func(
		authH *handlers.AuthHandlers,
		userH *handlers.UserHandlers,
		householdH *handlers.HouseholdHandlers,
		ingredientH *handlers.IngredientHandlers,
		recipeH *handlers.RecipeHandlers,
		mealH *handlers.MealHandlers,
		groceryH *handlers.GroceryHandlers,
		aiH *handlers.AIHandlers,
		healthH *handlers.HealthHandlers,
	) server.Handlers {
		return server.Handlers{
			Auth:       authH,
			User:       userH,
			Household:  householdH,
			Ingredient: ingredientH,
			Recipe:     recipeH,
			Meal:       mealH,
			Grocery:    groceryH,
			AI:         aiH,
			Health:     healthH,
		}
	},
	server.NewServer,
)

// LifecycleModule provides lifecycle hooks
var LifecycleModule = fx.Invoke(
	RegisterLifecycleHooks,
)

// RegisterLifecycleHooks registers application lifecycle hooks
func RegisterLifecycleHooks(
	lc fx.Lifecycle,
	cfg *config.Config,
	log *zap.Logger,
	db *gorm.DB,
	cache *cacheResources,
	aiRes *aiResources,
	mw *middleware.Middleware,
	srv *server.Server,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("starting application",
				zap.String("name", cfg.App.Name),
				zap.String("version", cfg.App.Version),
				zap.String("environment", cfg.App.Environment),
			)

			go func() {
				if err := srv.Start(); err != nil {
					log.Fatal("http server failed", zap.Error(err))
				}
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("shutting down application")

			if err := srv.Shutdown(ctx); err != nil {
				log.Error("failed to shut down http server", zap.Error(err))
			}

			mw.Close()

			if aiRes.gemini != nil {
				if err := aiRes.gemini.Close(); err != nil {
					log.Error("failed to close gemini client", zap.Error(err))
				}
			}

			if cache.client != nil {
				if err := cache.client.Close(); err != nil {
					log.Error("failed to close redis client", zap.Error(err))
				}
			}

			if sqlDB, err := db.DB(); err == nil {
				if err := sqlDB.Close(); err != nil {
					log.Error("failed to close database connection", zap.Error(err))
				}
			}

			_ = log.Sync()
			return nil
		},
	})
}
