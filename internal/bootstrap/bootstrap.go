package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"

	appAuth "github.com/yigit/placementprep/internal/app/auth"
	"github.com/yigit/placementprep/internal/app/compensation"
	appControllers "github.com/yigit/placementprep/internal/app/controllers"
	"github.com/yigit/placementprep/internal/app/events"
	"github.com/yigit/placementprep/internal/app/jobs"
	appMigrations "github.com/yigit/placementprep/internal/app/migrations"
	"github.com/yigit/placementprep/internal/app/moderation"
	appRepos "github.com/yigit/placementprep/internal/app/repositories"
	appRoutes "github.com/yigit/placementprep/internal/app/routes"
	appServices "github.com/yigit/placementprep/internal/app/services"
	"github.com/yigit/placementprep/internal/config"
	"github.com/yigit/placementprep/internal/db"
	appMiddleware "github.com/yigit/placementprep/internal/middleware"
	pkgAuth "github.com/yigit/placementprep/internal/pkg/auth"
	"github.com/yigit/placementprep/internal/pkg/email"
	"github.com/yigit/placementprep/internal/pkg/filestorage"
	"github.com/yigit/placementprep/internal/pkg/helpers"
	"github.com/yigit/placementprep/internal/pkg/logger"
	"github.com/yigit/placementprep/internal/pkg/webhook"
	"github.com/yigit/placementprep/internal/pkg/websocket"
	"github.com/yigit/placementprep/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	CompanyService      appServices.CompanyService
	SubmissionService   appServices.SubmissionService
	NotificationService appServices.NotificationService
	UserService         appServices.UserService
	CommentService      appServices.CommentService
	StatsService        appServices.StatsService
	ChatService         appServices.ChatService

	Controllers    appRoutes.Controllers
	AuthMiddleware *appMiddleware.AuthMiddleware
	Repos          *appRepos.Repositories
	JWTService     *pkgAuth.JWTService
	AuthzService   *appAuth.AuthorizationService
	FileStorage    *filestorage.LocalStorage

	Dispatcher     *events.Dispatcher
	Hub            *websocket.Hub
	MessageHandler *websocket.MessageHandler
	Scheduler      *jobs.Scheduler
	Redis          *redis.Client // nil when redis is not configured
	Logger         zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.ParseLevel(cfg.Logging.Level)
	lgr := logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: strings.ToLower(cfg.Logging.Format) == "text",
	})
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, applies migrations and
// seeds the admin roles.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool
	lgr.Info().Msg("Database connection successfully established.")

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	lgr.Info().Msg("Running database migrations...")
	if err := appMigrations.NewMigrator(dbPool).Migrate(ctx); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		dbPool.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	if err := seed.CreateDefaultData(ctx, appRepos.NewUserRepository(dbPool), cfg.Auth.AdminEmails, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return dbPool, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}
	ctx := context.Background()

	deps.Repos = appRepos.NewRepositories(dbPool)

	if cfg.Redis.URL != "" {
		rdb, err := db.NewRedisClient(ctx, cfg.Redis.URL)
		if err != nil {
			lgr.Error().Err(err).Msg("Failed to connect to redis")
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		deps.Redis = rdb
		lgr.Info().Msg("Redis connected; events are mirrored and fan-out is claimed cluster-wide")
	}

	var err error
	deps.FileStorage, err = filestorage.NewLocalStorage(
		cfg.Storage.LocalPath,
		strings.TrimRight(cfg.Server.PublicBaseURL, "/")+"/media",
		cfg.Storage.SigningSecret,
	)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	fanOutTimeout := helpers.ParseDuration(cfg.Notifications.FanOutTimeout, 30*time.Second)
	signedURLTTL := helpers.ParseDuration(cfg.Storage.SignedURLTTL, 15*time.Minute)

	deps.Dispatcher = events.NewDispatcher(deps.Redis, fanOutTimeout, lgr)
	deps.Hub = websocket.NewHub(lgr)
	go deps.Hub.Run()

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:   cfg.JWT.Secret,
		TokenExp:    helpers.ParseDuration(cfg.JWT.TokenExpiration, 24*time.Hour),
		TokenIssuer: cfg.JWT.Issuer,
	})
	deps.AuthzService = appAuth.NewAuthorizationService(deps.Repos.UserRepository, cfg.Auth.AdminEmails)
	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService, deps.AuthzService, lgr)

	var welcome webhook.Notifiers
	if cfg.Webhook.WelcomeURL != "" {
		welcome = append(welcome, webhook.NewHTTPNotifier(webhook.Config{
			WelcomeURL:    cfg.Webhook.WelcomeURL,
			Timeout:       helpers.ParseDuration(cfg.Webhook.Timeout, 5*time.Second),
			RatePerSecond: cfg.Webhook.RatePerSecond,
			Burst:         cfg.Webhook.Burst,
		}, lgr))
	}
	if cfg.Mail.Host != "" {
		welcome = append(welcome, email.NewMailer(email.SMTPConfig{
			Host:      cfg.Mail.Host,
			Port:      cfg.Mail.Port,
			Username:  cfg.Mail.Username,
			Password:  cfg.Mail.Password,
			FromName:  cfg.Mail.FromName,
			FromEmail: cfg.Mail.FromEmail,
			UseTLS:    cfg.Mail.UseTLS,
			PortalURL: cfg.Mail.PortalURL,
		}, lgr))
	}
	var notifier webhook.Notifier
	if len(welcome) > 0 {
		notifier = welcome
	} else {
		lgr.Warn().Msg("Neither welcome webhook nor SMTP configured; welcome notifications are disabled")
	}

	var model llms.Model
	if cfg.Assistant.APIKey != "" {
		gm, err := googleai.New(ctx,
			googleai.WithAPIKey(cfg.Assistant.APIKey),
			googleai.WithDefaultModel(cfg.Assistant.Model),
		)
		if err != nil {
			lgr.Error().Err(err).Msg("Failed to initialize assistant model")
			return nil, fmt.Errorf("failed to initialize assistant model: %w", err)
		}
		model = gm
	} else {
		lgr.Warn().Msg("Assistant API key not set; /chat will answer 503")
	}

	// Initialize services
	deps.CompanyService = appServices.NewCompanyService(
		deps.Repos.CompanyRepository,
		compensation.NewNormalizer(lgr),
		deps.Dispatcher,
		deps.FileStorage,
		signedURLTTL,
		lgr,
	)
	deps.SubmissionService = appServices.NewSubmissionService(
		deps.Repos.SubmissionRepository,
		deps.Repos.CompanyRepository,
		deps.CompanyService,
		moderation.NewMerger(lgr),
		lgr,
	)
	deps.NotificationService = appServices.NewNotificationService(
		deps.Repos.NotificationRepository,
		deps.Repos.UserRepository,
		deps.Hub,
		deps.Redis,
		2*fanOutTimeout,
		lgr,
	)
	deps.UserService = appServices.NewUserService(deps.Repos.UserRepository, deps.AuthzService, notifier, lgr)
	deps.CommentService = appServices.NewCommentService(deps.Repos.CommentRepository, deps.Repos.CompanyRepository, deps.AuthzService, lgr)
	deps.StatsService = appServices.NewStatsService(deps.Repos.UserRepository, deps.Repos.SubmissionRepository, deps.Repos.CompanyRepository)
	deps.ChatService = appServices.NewChatService(model, deps.Repos.CompanyRepository, helpers.ParseDuration(cfg.Assistant.Timeout, 30*time.Second), lgr)

	deps.Dispatcher.Subscribe(events.CompanyApproved, deps.NotificationService.FanOutNewCompany)

	deps.MessageHandler = websocket.NewMessageHandler(deps.NotificationService, deps.Hub, lgr)
	deps.MessageHandler.Start()

	deps.Scheduler = jobs.NewScheduler(deps.Repos.CompanyRepository, deps.NotificationService, jobs.Config{
		ReconcileSchedule: cfg.Notifications.ReconcileSchedule,
		PruneSchedule:     cfg.Notifications.PruneSchedule,
		Retention:         helpers.ParseDuration(cfg.Notifications.Retention, 90*24*time.Hour),
		Workers:           cfg.Notifications.ReconcileWorkers,
		FanOutTimeout:     fanOutTimeout,
	}, lgr)
	if err := deps.Scheduler.Start(); err != nil {
		lgr.Error().Err(err).Msg("Failed to start scheduler")
		return nil, fmt.Errorf("failed to start scheduler: %w", err)
	}

	deps.Controllers = appRoutes.Controllers{
		Auth:         appControllers.NewAuthController(deps.UserService, lgr),
		Company:      appControllers.NewCompanyController(deps.CompanyService),
		Submission:   appControllers.NewSubmissionController(deps.SubmissionService),
		Admin:        appControllers.NewAdminController(deps.SubmissionService, deps.CompanyService, deps.StatsService),
		Notification: appControllers.NewNotificationController(deps.NotificationService),
		Comment:      appControllers.NewCommentController(deps.CommentService),
		Chat:         appControllers.NewChatController(deps.ChatService),
		Media:        appControllers.NewMediaController(deps.FileStorage, signedURLTTL),
		Socket:       websocket.NewHandler(deps.Hub, cfg.Server.CORSOrigins, lgr).HandleConnection,
	}

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}
	appMiddleware.RegisterJSONFieldNames()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(appMiddleware.RequestID())
	router.Use(appMiddleware.RequestLogger(lgr))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization", "X-Request-ID")
	if len(cfg.Server.CORSOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.Server.CORSOrigins
		corsConfig.AllowCredentials = true
	}
	router.Use(cors.New(corsConfig))

	router.Use(appMiddleware.Timeout(helpers.ParseDuration(cfg.Server.RequestTimeout, 15*time.Second)))

	appRoutes.SetupSwagger(router)
	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
