package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/ulule/limiter/v3"

	"console/internal/backend"
	"console/internal/config"
	"console/internal/database"
	"console/internal/entity"
	"console/internal/handler"
	"console/internal/logging"
	"console/internal/metrics"
	"console/internal/middleware"
	"console/internal/repository"
	"console/internal/service"
	"console/internal/session"
	"console/internal/view"
)

func main() {
	loaded, err := config.LoadEnv(".env", "configs/.env")
	if err != nil {
		log.Fatalf("Failed to load env files: %v", err)
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("Invalid logging configuration: %v", err)
	}
	logger.WithField("env_files", loaded).Debug("configuration loaded")
	gin.SetMode(cfg.GinMode)
	if cfg.Production() && !cfg.Session.Secure {
		logger.Warn("COOKIE_SECURE is off in release mode; session cookies will be sent over plain HTTP")
	}

	registry, err := entity.LoadFile(cfg.EntityRegistryPath)
	if err != nil {
		logger.WithError(err).Fatal("Failed to load entity registry")
	}
	logger.WithField("entities", registry.Len()).Info("Entity registry loaded")

	store, rateStore := stores(cfg, logger)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	client, err := backend.New(cfg.BackendURL, &http.Client{}, cfg.BackendTimeout, logger, metrics.NewBackend(reg))
	if err != nil {
		logger.WithError(err).Fatal("Invalid backend URL")
	}

	renderer, err := view.New()
	if err != nil {
		logger.WithError(err).Fatal("Failed to parse templates")
	}

	loginLimit, err := middleware.LoginRateLimit(cfg.LoginRateLimit, rateStore)
	if err != nil {
		logger.WithError(err).Fatal("Invalid login rate limit")
	}

	deps := &handler.Deps{
		Registry: registry,
		Auth:     service.NewAuthService(client, store, cfg.Session.Duration, logger),
		Cookie: middleware.CookieOptions{
			Name:   cfg.Session.CookieName,
			Secure: cfg.Session.Secure,
			MaxAge: cfg.Session.Duration,
		},
		Log:      logger,
		PageSize: cfg.PageSize,
	}
	router := handler.NewRouter(deps, client, renderer, handler.Services{
		Entities:  service.NewEntityService(registry),
		Employees: service.NewEmployeeService(logger),
		Dashboard: service.NewDashboardService(registry, logger),
		Users:     service.NewUserService(),
	}, handler.RouterOptions{
		LoginLimit:  loginLimit,
		CORSOrigins: cfg.CORSOrigins,
		MetricsPath: cfg.MetricsPath,
		Metrics:     metrics.Handler(reg),
	})

	logger.WithFields(logrus.Fields{"port": cfg.Port, "backend": cfg.BackendURL, "store": cfg.Session.Store}).Info("Server listening")
	if err := router.Run(":" + cfg.Port); err != nil {
		logger.WithError(err).Fatal("Server failed")
	}
}

// stores builds the session store and the login limiter store for the configured backend.
func stores(cfg *config.Configuration, logger *logrus.Logger) (session.Store, limiter.Store) {
	switch cfg.Session.Store {
	case config.StorePostgres:
		db, err := database.NewConnection(cfg.Database.DSN(), logger)
		if err != nil {
			logger.WithError(err).Fatal("Database connection failed")
		}
		logger.Info("Connected to PostgreSQL successfully.")
		return repository.NewSessionRepository(db), middleware.NewMemoryStore()

	case config.StoreRedis:
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.WithError(err).Fatal("Invalid REDIS_URL")
		}
		rdb := redis.NewClient(opts)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.WithError(err).Fatal("Redis connection failed")
		}
		rateStore, err := middleware.NewRedisStore(rdb)
		if err != nil {
			logger.WithError(err).Fatal("Failed to create rate limit store")
		}
		logger.Info("Connected to Redis successfully.")
		return repository.NewRedisSessionRepository(rdb), rateStore

	default:
		return session.NewMemoryStore(), middleware.NewMemoryStore()
	}
}
