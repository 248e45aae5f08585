package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/yigit/electivehub/internal/app/controllers"
	appMigrations "github.com/yigit/electivehub/internal/app/migrations"
	appRepos "github.com/yigit/electivehub/internal/app/repositories"
	appRoutes "github.com/yigit/electivehub/internal/app/routes"
	appServices "github.com/yigit/electivehub/internal/app/services"
	"github.com/yigit/electivehub/internal/config"
	"github.com/yigit/electivehub/internal/db"
	appMiddleware "github.com/yigit/electivehub/internal/middleware"
	"github.com/yigit/electivehub/internal/pkg/logger"
	"github.com/yigit/electivehub/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	AllocationService    *appServices.AllocationService
	CatalogService       *appServices.CatalogService
	ContainerController  *appControllers.ContainerController
	OfferingController   *appControllers.OfferingController
	EnrollmentController *appControllers.EnrollmentController
	IdentityMiddleware   *appMiddleware.IdentityMiddleware
	Repos                *appRepos.Repositories
	Logger               zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbPool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		dbPool.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	lgr.Info().Msg("Database migrations successfully applied.")

	if cfg.Seed.Enabled {
		if err := seed.CreateDefaultData(context.Background(), dbPool, lgr); err != nil {
			// Log the error but don't fail the startup
			lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
		}
	}

	return dbPool, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)

	database := &db.PostgresDB{Pool: dbPool}
	stores := appServices.NewRepositoryStores(deps.Repos)

	deps.AllocationService = appServices.NewAllocationService(database, stores, lgr)
	deps.CatalogService = appServices.NewCatalogService(database, deps.Repos)

	deps.IdentityMiddleware = appMiddleware.NewIdentityMiddleware(cfg.Gateway.UserIDHeader, cfg.Gateway.RoleHeader)

	deps.ContainerController = appControllers.NewContainerController(deps.CatalogService)
	deps.OfferingController = appControllers.NewOfferingController(deps.AllocationService, deps.CatalogService)
	deps.EnrollmentController = appControllers.NewEnrollmentController(deps.AllocationService, deps.CatalogService)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.Default()

	appRoutes.SetupRouter(router,
		deps.ContainerController,
		deps.OfferingController,
		deps.EnrollmentController,
		deps.IdentityMiddleware,
	)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
