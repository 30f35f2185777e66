package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/lumiforge/vidlinkgen-backend/internal/access"
	"github.com/lumiforge/vidlinkgen-backend/internal/analytics"
	"github.com/lumiforge/vidlinkgen-backend/internal/audit"
	"github.com/lumiforge/vidlinkgen-backend/internal/auth"
	"github.com/lumiforge/vidlinkgen-backend/internal/cache"
	"github.com/lumiforge/vidlinkgen-backend/internal/config"
	"github.com/lumiforge/vidlinkgen-backend/internal/email"
	app_errors "github.com/lumiforge/vidlinkgen-backend/internal/errors"
	httpserver "github.com/lumiforge/vidlinkgen-backend/internal/http"
	"github.com/lumiforge/vidlinkgen-backend/internal/identity"
	"github.com/lumiforge/vidlinkgen-backend/internal/jwt"
	"github.com/lumiforge/vidlinkgen-backend/internal/link"
	"github.com/lumiforge/vidlinkgen-backend/internal/logger"
	"github.com/lumiforge/vidlinkgen-backend/internal/plan"
	"github.com/lumiforge/vidlinkgen-backend/internal/postgres"
	"github.com/lumiforge/vidlinkgen-backend/internal/rbac"
	"github.com/lumiforge/vidlinkgen-backend/internal/storage"
	"github.com/lumiforge/vidlinkgen-backend/internal/support"
	"github.com/lumiforge/vidlinkgen-backend/internal/telegram"
	"github.com/lumiforge/vidlinkgen-backend/internal/worker"
	"github.com/lumiforge/vidlinkgen-backend/internal/ydb"
)

const (
	DriverYDB      = "ydb"
	DriverPostgres = "postgres"
)

// App собранное приложение
type App struct {
	Config *config.Config
	Router http.Handler
	Worker *worker.Checker
	Logger *slog.Logger

	closers []func() error
}

// Close освобождает соединения в обратном порядке
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.Logger.Warn("Failed to close resource", "error", err)
		}
	}
}

// Initialize настраивает все зависимости и возвращает готовое приложение
func Initialize(ctx context.Context) (*App, error) {
	// Загрузка конфигурации
	cfg := config.Load()

	// Инициализация Telegram клиента
	tgClient, err := telegram.NewClient(cfg)
	if err != nil {
		slog.Warn("Telegram alerts disabled", "error", err)
	}

	// Инициализация логгера
	log := logger.New(tgClient)
	slog.SetDefault(log)

	app := &App{Config: cfg, Logger: log}

	db, err := openDatabase(ctx, cfg)
	if err != nil {
		return nil, err
	}
	app.closers = append(app.closers, db.Close)

	// Кэш short id необязателен: без Redis ссылки читаются из базы
	var linkCache *cache.LinkCache
	var linkCacheIface cache.LinkCacheInterface
	if cfg.RedisURL != "" {
		linkCache, err = cache.NewLinkCacheFromURL(ctx, cfg.RedisURL)
		if err != nil {
			log.Warn("Redis unavailable, link cache disabled", "error", err)
		} else {
			linkCacheIface = linkCache
			app.closers = append(app.closers, linkCache.Close)
		}
	}

	// Инициализация JWT менеджера
	jwtManager := jwt.NewJWTManager(cfg)
	if jwtManager == nil {
		app.Close()
		return nil, app_errors.ErrJWTSecretKeyNotConfigured
	}

	// Инициализация RBAC
	rbacManager := rbac.NewRBAC()

	// Инициализация email клиента
	emailClient, err := email.NewClient(ctx, cfg)
	if err != nil {
		log.Warn("Email delivery disabled", "error", err)
		emailClient = &email.Client{SupportEmail: cfg.SupportEmail, AppURL: cfg.PublicBaseURL}
	}

	// Инициализация S3 клиента
	storageClient, err := storage.NewClient(ctx, cfg)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("%w: %v", app_errors.ErrFailedToInitStorageClient, err)
	}

	loc, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		log.Warn("Unknown time zone, using UTC", "time_zone", cfg.TimeZone, "error", err)
		loc = time.UTC
	}

	hub := identity.NewHub()
	catalog := plan.NewCatalog(cfg)

	// Инициализация сервисов
	auditService := audit.NewService(db, rbacManager, log)
	unsubscribe := auditService.Subscribe(hub)
	app.closers = append(app.closers, func() error { unsubscribe(); return nil })

	authService := auth.NewService(db, jwtManager, rbacManager, emailClient, hub)
	linkService := link.NewService(db, storageClient, linkCacheIface, catalog, rbacManager, auditService, cfg.PublicBaseURL)
	gate := access.NewGate(db, storageClient, linkCacheIface)
	planService := plan.NewService(db, catalog, rbacManager, auditService, hub, cfg.PaymentInstructions)
	analyticsService := analytics.NewService(db, rbacManager, loc)
	supportService := support.NewService(db, emailClient, tgClient, rbacManager, auditService)

	// Фоновая проверка сроков премиума, дедупликация уведомлений через Redis
	var deduper worker.Deduper
	if linkCache != nil {
		deduper = linkCache
	}
	app.Worker = worker.NewChecker(db, emailClient, deduper, hub, auditService, log)

	// Инициализация HTTP сервера
	server := httpserver.NewServer(httpserver.Services{
		Auth:      authService,
		Links:     linkService,
		Gate:      gate,
		Plans:     planService,
		Analytics: analyticsService,
		Support:   supportService,
		Audit:     auditService,
	})

	// Настройка роутера
	app.Router = httpserver.SetupRouter(server, authService, log)

	log.Info("Application initialized successfully", "db_driver", cfg.DBDriver, "link_cache", linkCacheIface != nil)
	return app, nil
}

// openDatabase выбирает хранилище по VL_DB_DRIVER
func openDatabase(ctx context.Context, cfg *config.Config) (ydb.Database, error) {
	switch cfg.DBDriver {
	case DriverYDB, "":
		db, err := ydb.NewYDBClient(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", app_errors.ErrFailedToConnectDB, err)
		}
		return db, nil
	case DriverPostgres:
		db, err := postgres.NewStore(ctx, cfg.PostgresDSN, cfg.SPYDBAutoCreateTables == 1)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", app_errors.ErrFailedToConnectDB, err)
		}
		return db, nil
	}
	return nil, fmt.Errorf("%w: %s", app_errors.ErrUnsupportedDatabaseBackend, cfg.DBDriver)
}
