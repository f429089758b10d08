package di

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/wire"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/accountd/accountd/internal/app"
	"github.com/accountd/accountd/internal/config"
	"github.com/accountd/accountd/internal/database"
	"github.com/accountd/accountd/internal/health"
	"github.com/accountd/accountd/internal/http/handler"
	"github.com/accountd/accountd/internal/http/middleware"
	"github.com/accountd/accountd/internal/http/router"
	"github.com/accountd/accountd/internal/mail"
	"github.com/accountd/accountd/internal/observability"
	"github.com/accountd/accountd/internal/repository"
	"github.com/accountd/accountd/internal/security"
	"github.com/accountd/accountd/internal/service"
)

var ConfigSet = wire.NewSet(config.Load)

var ObservabilitySet = wire.NewSet(
	provideObservabilityRuntime,
	provideAppLogger,
)

var RuntimeInfraSet = wire.NewSet(
	provideRuntimeDB,
	provideRedisClient,
	provideReadinessProbeRunner,
)

var RepositorySet = wire.NewSet(
	repository.NewAccountRepository,
)

var SecuritySet = wire.NewSet(
	provideJWTManager,
	provideCookieManager,
)

var ServiceSet = wire.NewSet(
	provideMailer,
	provideNotificationService,
	wire.Bind(new(service.Notifier), new(*service.NotificationService)),
	provideTokenService,
	provideAuthService,
	wire.Bind(new(service.AuthServiceInterface), new(*service.AuthService)),
)

var HTTPSet = wire.NewSet(
	provideAuthHandler,
	provideIdempotencyMiddlewareFactory,
	provideRouterDependencies,
	router.NewRouter,
	provideHTTPServer,
)

var AppSet = wire.NewSet(provideApp)

type MigrationRunner struct {
	cfg *config.Config
	db  *gorm.DB
}

func NewMigrationRunner(cfg *config.Config, db *gorm.DB) *MigrationRunner {
	return &MigrationRunner{cfg: cfg, db: db}
}

func (m *MigrationRunner) Run() error {
	if err := database.Migrate(m.db); err != nil {
		return err
	}
	fmt.Println("migration complete")
	return nil
}

func (m *MigrationRunner) Seed(email, password string) error {
	return database.Seed(m.db, email, password)
}

func (m *MigrationRunner) DB() *gorm.DB { return m.db }

func provideObservabilityRuntime(cfg *config.Config) (*observability.Runtime, error) {
	bootstrapLogger := observability.NewBootstrapLogger(cfg)
	return observability.InitRuntime(context.Background(), cfg, bootstrapLogger)
}

func provideAppLogger(cfg *config.Config, runtime *observability.Runtime) *slog.Logger {
	return observability.InitLogger(cfg, runtime.LoggerProvider)
}

func provideOpenDB(cfg *config.Config) (*gorm.DB, error) {
	return database.Open(cfg)
}

func provideRuntimeDB(cfg *config.Config) (*gorm.DB, error) {
	db, err := database.Open(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func provideRedisClient(cfg *config.Config) redis.UniversalClient {
	if !cfg.IdempotencyEnabled {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
}

func provideJWTManager(cfg *config.Config) *security.JWTManager {
	return security.NewJWTManager(cfg.JWTIssuer, cfg.JWTAudience, cfg.JWTSecret)
}

func provideCookieManager(cfg *config.Config) *security.CookieManager {
	return security.NewCookieManager(cfg.CookieDomain, cfg.CookieSecure, cfg.CookieSameSite)
}

func provideMailer(cfg *config.Config, logger *slog.Logger) (mail.Mailer, error) {
	if cfg.SMTPConfigured() {
		return mail.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SenderEmail)
	}
	logger.Warn("SMTP_HOST not set, outgoing mail will be logged instead of sent")
	return mail.NewLogMailer(logger), nil
}

func provideNotificationService(mailer mail.Mailer, cfg *config.Config, logger *slog.Logger) *service.NotificationService {
	return service.NewNotificationService(mailer, cfg.AppName, logger)
}

func provideTokenService(cfg *config.Config, jwt *security.JWTManager) *service.TokenService {
	return service.NewTokenService(jwt, cfg.SessionTTL)
}

func provideAuthService(
	accounts repository.AccountRepository,
	tokenSvc *service.TokenService,
	notifier service.Notifier,
	cfg *config.Config,
	logger *slog.Logger,
) *service.AuthService {
	return service.NewAuthService(accounts, tokenSvc, notifier, cfg.VerifyOTPTTL, cfg.ResetOTPTTL, logger)
}

func provideAuthHandler(authSvc service.AuthServiceInterface, cookieMgr *security.CookieManager, cfg *config.Config) *handler.AuthHandler {
	return handler.NewAuthHandler(authSvc, cookieMgr, cfg.SessionTTL)
}

func provideIdempotencyMiddlewareFactory(cfg *config.Config, redisClient redis.UniversalClient) router.IdempotencyMiddlewareFactory {
	if !cfg.IdempotencyEnabled || redisClient == nil {
		return nil
	}
	store := service.NewRedisIdempotencyStore(redisClient, "accountd:idem")
	mw := middleware.NewIdempotencyMiddleware(store, cfg.IdempotencyTTL)
	return mw.Middleware
}

func provideRouterDependencies(
	authHandler *handler.AuthHandler,
	jwt *security.JWTManager,
	idempotency router.IdempotencyMiddlewareFactory,
	readiness *health.ProbeRunner,
	cfg *config.Config,
) router.Dependencies {
	return router.Dependencies{
		AuthHandler:    authHandler,
		JWTManager:     jwt,
		CORSOrigins:    cfg.CORSAllowedOrigins,
		Idempotency:    idempotency,
		Readiness:      readiness,
		EnableOTelHTTP: cfg.OTELMetricsEnabled || cfg.OTELTracingEnabled,
	}
}

func provideHTTPServer(cfg *config.Config, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           h,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func provideReadinessProbeRunner(cfg *config.Config, db *gorm.DB, redisClient redis.UniversalClient) *health.ProbeRunner {
	checkers := make([]health.Checker, 0, 2)
	if c := health.NewDBChecker(db); c != nil {
		checkers = append(checkers, c)
	}
	if cfg.IdempotencyEnabled {
		if c := health.NewRedisChecker(redisClient); c != nil {
			checkers = append(checkers, c)
		}
	}
	return health.NewProbeRunner(cfg.ReadinessProbeTimeout, checkers...)
}

func provideApp(
	cfg *config.Config,
	logger *slog.Logger,
	server *http.Server,
	runtime *observability.Runtime,
	db *gorm.DB,
	redisClient redis.UniversalClient,
	accounts repository.AccountRepository,
	readiness *health.ProbeRunner,
) *app.App {
	return app.New(cfg, logger, server, runtime, db, redisClient, accounts, readiness)
}
