package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	appAuth "github.com/ypropel/backend/internal/app/auth"
	appControllers "github.com/ypropel/backend/internal/app/controllers"
	appMigrations "github.com/ypropel/backend/internal/app/migrations"
	appRepos "github.com/ypropel/backend/internal/app/repositories"
	appRoutes "github.com/ypropel/backend/internal/app/routes"
	appServices "github.com/ypropel/backend/internal/app/services"
	"github.com/ypropel/backend/internal/config"
	"github.com/ypropel/backend/internal/db"
	appMiddleware "github.com/ypropel/backend/internal/middleware"
	pkgAuth "github.com/ypropel/backend/internal/pkg/auth"
	"github.com/ypropel/backend/internal/pkg/email"
	"github.com/ypropel/backend/internal/pkg/filestorage"
	"github.com/ypropel/backend/internal/pkg/helpers"
	"github.com/ypropel/backend/internal/pkg/logger"
	"github.com/ypropel/backend/internal/pkg/ratelimit"
	"github.com/ypropel/backend/internal/pkg/validation"
	"github.com/ypropel/backend/internal/pkg/websocket"
	"github.com/ypropel/backend/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos          *appRepos.Repositories
	Services       *appServices.Services
	Handlers       appRoutes.Handlers
	AuthMiddleware *appMiddleware.AuthMiddleware
	JWTService     *pkgAuth.JWTService
	Media          filestorage.MediaStore
	Limiter        *ratelimit.Limiter
	Hub            *websocket.Hub
	Logger         zerolog.Logger
}

// Close stops the background workers started by BuildDependencies
func (d *Dependencies) Close() {
	if d.Hub != nil {
		d.Hub.Close()
	}
	if d.Limiter != nil {
		if err := d.Limiter.Close(); err != nil {
			d.Logger.Warn().Err(err).Msg("Failed to close rate limit store")
		}
	}
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := config.GetEnv("CONFIG_PATH", filepath.Join("configs", "config.yaml"))
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	lgr := logger.Configure(logger.ConfigFrom(cfg.Logging.Level, cfg.Logging.Format))
	lgr.Info().Str("logLevel", cfg.Logging.Level).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and
// seeds the reference data.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(database, lgr.With().Str("component", "migrator").Logger())

	// A migrations directory on disk overrides the embedded schema
	if dir := cfg.Database.MigrationsDir; dir != "" && isDir(dir) {
		err = migrator.MigrateFromDirectory(ctx, dir)
	} else {
		err = migrator.MigrateEmbedded(ctx)
	}
	if err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		database.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	admin := seed.Admin{Name: cfg.Admin.Name, Email: cfg.Admin.Email, Password: cfg.Admin.Password}
	if err := seed.CreateDefaultData(ctx, database, admin, lgr); err != nil {
		// Startup continues with whatever was seeded
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return database, nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(database)

	var err error
	deps.Media, err = newMediaStore(cfg, lgr)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:            cfg.JWT.Secret,
		UnsubscribeSecretKey: cfg.JWT.UnsubscribeSecret,
		AccessTokenExp:       helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 7*24*time.Hour),
		ResetTokenExp:        helpers.ParseDuration(cfg.JWT.ResetTokenExpiration, time.Hour),
		UnsubscribeExp:       helpers.ParseDuration(cfg.JWT.UnsubscribeExpiration, 90*24*time.Hour),
		TokenIssuer:          cfg.JWT.Issuer,
	})

	mailer := email.NewEmailService(email.SMTPConfig{
		Host:        cfg.SMTP.Host,
		Port:        cfg.SMTP.Port,
		Username:    cfg.SMTP.Username,
		Password:    cfg.SMTP.Password,
		FromName:    cfg.SMTP.FromName,
		FromEmail:   cfg.SMTP.FromEmail,
		UseTLS:      cfg.SMTP.UseTLS,
		PublicURL:   cfg.Server.PublicURL,
		FrontendURL: cfg.Server.FrontendURL,
	}, deps.JWTService, lgr.With().Str("component", "email").Logger())

	// A nil *GoogleVerifier inside the interface would not compare equal to nil
	var google pkgAuth.IdentityVerifier
	if cfg.Google.ClientID != "" {
		google = pkgAuth.NewGoogleVerifier(cfg.Google.ClientID)
	} else {
		lgr.Warn().Msg("GOOGLE_CLIENT_ID not set, Google sign-in disabled")
	}

	deps.Limiter = newLimiter(cfg, lgr)

	deps.Hub = websocket.NewHub(lgr.With().Str("component", "hub").Logger())
	go deps.Hub.Run()
	websocket.NewMessageHandler(deps.Repos.StudyCircleRepository, deps.Hub, lgr.With().Str("component", "chat").Logger()).Start()

	deps.Services = appServices.NewServices(appServices.Dependencies{
		Repos:  deps.Repos,
		Tokens: deps.JWTService,
		Google: google,
		Email:  mailer,
		Media:  deps.Media,
		Hub:    deps.Hub,
		Authz:  appAuth.NewAuthorizationService(),
		Logger: lgr,
	})

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)
	deps.Handlers = BuildHandlers(deps.Services, lgr)
	deps.Handlers.CircleSocket = websocket.NewHandler(
		deps.Hub,
		deps.Services.Circle,
		cfg.CORSOrigins(),
		lgr.With().Str("component", "websocket").Logger(),
	).HandleConnection

	return deps, nil
}

// BuildHandlers creates one controller per resource
func BuildHandlers(svc *appServices.Services, lgr zerolog.Logger) appRoutes.Handlers {
	return appRoutes.Handlers{
		Auth:        appControllers.NewAuthController(svc.Auth, lgr),
		User:        appControllers.NewUserController(svc.User),
		Post:        appControllers.NewPostController(svc.Post),
		Discussion:  appControllers.NewDiscussionController(svc.Discussion),
		StudyCircle: appControllers.NewStudyCircleController(svc.Circle),
		Message:     appControllers.NewMessageController(svc.Message),
		Freelance:   appControllers.NewFreelanceController(svc.Freelance),
		Resume:      appControllers.NewResumeController(svc.Resume),
		Job:         appControllers.NewJobController(svc.Job),
		Article:     appControllers.NewArticleController(svc.Article),
		Content:     appControllers.NewContentController(svc.Content),
		Video:       appControllers.NewVideoController(svc.Video),
		Lookup:      appControllers.NewLookupController(svc.Lookup),
		Admin:       appControllers.NewAdminController(svc.Admin, lgr),
	}
}

func newMediaStore(cfg *config.Config, lgr zerolog.Logger) (filestorage.MediaStore, error) {
	if strings.EqualFold(cfg.Media.Driver, "oss") {
		lgr.Info().Str("bucket", cfg.Media.Bucket).Msg("Using OSS media storage")
		return filestorage.NewOSSStorage(filestorage.OSSConfig{
			Endpoint:      cfg.Media.Endpoint,
			AccessKey:     cfg.Media.AccessKey,
			SecretKey:     cfg.Media.SecretKey,
			Bucket:        cfg.Media.Bucket,
			PublicBaseURL: cfg.Media.PublicBaseURL,
			Prefix:        cfg.Media.Prefix,
			MaxImageWidth: cfg.Media.MaxImageWidth,
		}, lgr.With().Str("component", "oss").Logger())
	}

	// Must match the static route registered by the server
	baseURL := strings.TrimRight(cfg.Server.PublicURL, "/") + "/uploads"
	return filestorage.NewLocalStorage(cfg.Server.StoragePath, baseURL, cfg.Media.MaxImageWidth)
}

// newLimiter counts in redis when configured and reachable, otherwise in memory
func newLimiter(cfg *config.Config, lgr zerolog.Logger) *ratelimit.Limiter {
	window := helpers.ParseDuration(cfg.RateLimit.Window, 15*time.Minute)

	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		err := client.Ping(ctx).Err()
		if err == nil {
			lgr.Info().Str("addr", cfg.Redis.Addr).Msg("Rate limiter using redis")
			return ratelimit.New(ratelimit.NewRedisStore(client), cfg.RateLimit.Max, window)
		}
		lgr.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("Redis unreachable, rate limiter falling back to memory")
		_ = client.Close()
	}
	return ratelimit.New(ratelimit.NewMemoryStore(), cfg.RateLimit.Max, window)
}

// NewEngine creates the gin engine with the global middleware chain
func NewEngine(mode string, origins []string, lgr zerolog.Logger) *gin.Engine {
	switch strings.ToLower(mode) {
	case "production":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	if err := validation.Register(); err != nil {
		lgr.Error().Err(err).Msg("Failed to register validation rules")
	}

	router := gin.New()
	router.Use(
		appMiddleware.ErrorHandler(lgr),
		appMiddleware.RequestLogger(lgr),
		appMiddleware.CORS(origins),
	)
	return router
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	router := NewEngine(cfg.Server.Mode, cfg.CORSOrigins(), lgr)
	lgr.Info().Str("mode", gin.Mode()).Msg("Gin engine configured")

	appRoutes.SetupSwagger(router)
	appRoutes.SetupRouter(router, deps.Handlers, deps.AuthMiddleware, deps.Limiter)

	return router
}
