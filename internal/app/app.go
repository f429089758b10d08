package app

import (
	"log/slog"
	"net/http"

	"github.com/accountd/accountd/internal/config"
	"github.com/accountd/accountd/internal/health"
	"github.com/accountd/accountd/internal/observability"
	"github.com/accountd/accountd/internal/repository"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type App struct {
	Config        *config.Config
	Logger        *slog.Logger
	Server        *http.Server
	Observability *observability.Runtime
	DB            *gorm.DB
	Redis         redis.UniversalClient
	Accounts      repository.AccountRepository
	Readiness     *health.ProbeRunner
}

func New(
	cfg *config.Config,
	logger *slog.Logger,
	server *http.Server,
	runtime *observability.Runtime,
	db *gorm.DB,
	redisClient redis.UniversalClient,
	accounts repository.AccountRepository,
	readiness *health.ProbeRunner,
) *App {
	return &App{
		Config:        cfg,
		Logger:        logger,
		Server:        server,
		Observability: runtime,
		DB:            db,
		Redis:         redisClient,
		Accounts:      accounts,
		Readiness:     readiness,
	}
}
