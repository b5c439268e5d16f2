package bootstrap

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	appControllers "github.com/yigit/registrar/internal/app/controllers"
	appMigrations "github.com/yigit/registrar/internal/app/migrations"
	appRepos "github.com/yigit/registrar/internal/app/repositories"
	"github.com/yigit/registrar/internal/app/repositories/memory"
	appRoutes "github.com/yigit/registrar/internal/app/routes"
	appServices "github.com/yigit/registrar/internal/app/services"
	"github.com/yigit/registrar/internal/config"
	"github.com/yigit/registrar/internal/db"
	appMiddleware "github.com/yigit/registrar/internal/middleware"
	pkgAuth "github.com/yigit/registrar/internal/pkg/auth"
	"github.com/yigit/registrar/internal/pkg/logger"
	"github.com/yigit/registrar/internal/seed"
)

// Storage is the configured directory store and how to release it
type Storage struct {
	Repos *appRepos.Repositories
	// database is nil for the memory driver
	database *db.PostgresDB
}

// Close releases the database pool, if any
func (s *Storage) Close() {
	if s.database != nil {
		s.database.Close()
	}
}

// Dependencies holds all the application dependencies
type Dependencies struct {
	Services       *appServices.Services
	Controllers    appRoutes.Controllers
	AuthMiddleware *appMiddleware.AuthMiddleware
	Repos          *appRepos.Repositories
	JWTService     *pkgAuth.JWTService
	Hasher         pkgAuth.PasswordHasher
	Logger         zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := config.GetEnv("CONFIG_PATH", filepath.Join("configs", "config.yaml"))
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	lgr := logger.Configure(logger.Config{
		Level:  cfg.Logging.Level,
		Pretty: strings.ToLower(cfg.Logging.Format) == "text",
	})
	lgr.Info().Str("logLevel", cfg.Logging.Level).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupStorage opens the configured store, runs migrations for postgres and seeds default data
func SetupStorage(ctx context.Context, cfg *config.Config, hasher pkgAuth.PasswordHasher, lgr zerolog.Logger) (*Storage, error) {
	storage := &Storage{}

	if cfg.UsesMemoryStore() {
		lgr.Warn().Msg("Using in-memory store; data is lost on shutdown")
		storage.Repos = memory.NewRepositories(memory.NewStore())
	} else {
		lgr.Info().Msg("Establishing database connection...")
		database, err := db.NewPostgresDB(cfg)
		if err != nil {
			lgr.Error().Err(err).Msg("Failed to connect to database")
			return nil, err
		}
		lgr.Info().Msg("Database connection successfully established.")

		lgr.Info().Msg("Running database migrations...")
		fsys, dir := migrationSource(cfg, lgr)
		if err := appMigrations.NewMigrator(database.Pool, lgr).Migrate(ctx, fsys, dir); err != nil {
			database.Close()
			lgr.Error().Err(err).Msg("Database migration error")
			return nil, fmt.Errorf("database migrations failed: %w", err)
		}

		storage.database = database
		storage.Repos = appRepos.NewRepositories(database)
	}

	if cfg.Seed.Enabled {
		seedCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		if err := seed.CreateDefaultData(seedCtx, storage.Repos, hasher, lgr); err != nil {
			lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
		}
	}

	return storage, nil
}

// migrationSource prefers a migrations directory on disk and falls back to the embedded set
func migrationSource(cfg *config.Config, lgr zerolog.Logger) (fs.FS, string) {
	dir := cfg.Database.MigrationsDir
	if dir != "" {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			lgr.Info().Str("path", dir).Msg("Using migrations from disk")
			return os.DirFS(dir), "."
		}
	}
	return appMigrations.Embedded, appMigrations.EmbeddedDir
}

// NewHasher builds the bcrypt hasher with the configured cost
func NewHasher(cfg *config.Config) pkgAuth.PasswordHasher {
	return pkgAuth.NewBcryptHasher(cfg.Auth.BcryptCost)
}

// BuildDependencies initializes services, controllers and middleware on top of the repositories.
func BuildDependencies(cfg *config.Config, repos *appRepos.Repositories, hasher pkgAuth.PasswordHasher, lgr zerolog.Logger) *Dependencies {
	deps := &Dependencies{Repos: repos, Hasher: hasher, Logger: lgr}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: cfg.JWT.AccessTokenExpiration,
		TokenIssuer:    cfg.JWT.Issuer,
	})

	deps.Services = appServices.NewServices(repos, hasher, deps.JWTService, lgr)
	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.Controllers = appRoutes.Controllers{
		Auth:       appControllers.NewAuthController(deps.Services.AccountService, lgr),
		Profile:    appControllers.NewProfileController(deps.Services.ProfileService),
		Dashboard:  appControllers.NewDashboardController(deps.Services.DashboardService),
		Department: appControllers.NewDepartmentController(deps.Services.DepartmentService),
		Teacher:    appControllers.NewTeacherController(deps.Services.TeacherService),
		Student:    appControllers.NewStudentController(deps.Services.StudentService),
		Course:     appControllers.NewCourseController(deps.Services.CourseService),
	}

	return deps
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

	router := gin.New()
	router.Use(gin.Recovery(), appMiddleware.RequestLogger())

	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}

// WrapHandler applies the transport-level middleware that sits in front of gin
func WrapHandler(cfg *config.Config, router http.Handler) http.Handler {
	return appMiddleware.Chain(router,
		appMiddleware.SecurityHeaders(strings.ToLower(cfg.Server.Mode) == "production"),
		appMiddleware.RateLimitByIP(cfg.RateLimit.Requests, cfg.RateLimit.Window),
	)
}
