package app

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/mx-space/mailcast/internal/config"
	"github.com/mx-space/mailcast/internal/database"
	"github.com/mx-space/mailcast/internal/middleware"
	"github.com/mx-space/mailcast/internal/pkg/mail"
	pkgredis "github.com/mx-space/mailcast/internal/pkg/redis"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App holds all application dependencies.
type App struct {
	cfg      *config.AppConfig
	router   *gin.Engine
	db       *gorm.DB
	rc       *pkgredis.Client
	provider mail.Provider
	logger   *zap.Logger
}

// Deps are the external collaborators. Redis is optional.
type Deps struct {
	DB       *gorm.DB
	Redis    *pkgredis.Client
	Provider mail.Provider
}

// New initializes the application: DB → Redis → mail provider → routes.
func New(logger *zap.Logger, cfg *config.AppConfig) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	provider, err := mail.New(cfg.Mail)
	if err != nil {
		return nil, err
	}

	db, err := database.Connect(cfg, true)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}

	var rc *pkgredis.Client
	if cfg.Redis.Enable {
		rc, err = pkgredis.Connect(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("redis: %w", err)
		}
	}

	return NewWithDeps(logger, cfg, Deps{
		DB:       db,
		Redis:    rc,
		Provider: mail.Instrument(provider),
	}), nil
}

// NewWithDeps builds the router around already constructed collaborators.
func NewWithDeps(logger *zap.Logger, cfg *config.AppConfig, deps Deps) *App {
	if cfg.IsDev() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Metrics())
	router.Use(cors.New(corsConfig(cfg)))

	app := &App{
		cfg:      cfg,
		router:   router,
		db:       deps.DB,
		rc:       deps.Redis,
		provider: deps.Provider,
		logger:   logger,
	}
	app.registerRoutes()
	return app
}

// Addr returns the listen address.
func (a *App) Addr() string { return a.cfg.Addr() }

// Router returns the HTTP handler.
func (a *App) Router() http.Handler { return a.router }

// Shutdown releases the database and Redis connections.
func (a *App) Shutdown() {
	if a.rc != nil {
		if err := a.rc.Close(); err != nil {
			a.logger.Warn("redis close failed", zap.Error(err))
		}
	}
	if sqlDB, err := a.db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			a.logger.Warn("database close failed", zap.Error(err))
		}
	}
}
