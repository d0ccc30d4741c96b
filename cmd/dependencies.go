package cmd

import (
	"stock-watchlist/config"
	"stock-watchlist/internal/notification"
	"stock-watchlist/pkg/cache"
	"stock-watchlist/pkg/logger"
	"stock-watchlist/pkg/postgres"

	goValidator "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

type AppDependency struct {
	db        *postgres.DB
	cfg       *config.Config
	log       *logger.Logger
	validator *goValidator.Validate
	echo      *echo.Echo
	cache     cache.Cache
	sinks     []notification.Sink
}

func NewAppDependency() (*AppDependency, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Encoding)
	if err != nil {
		return nil, err
	}

	db, err := postgres.NewDB(cfg.DB, log)
	if err != nil {
		log.Error("Failed to connect to database", zap.Error(err))
		return nil, err
	}

	sinks, err := buildSinks(cfg, log)
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	return &AppDependency{
		cfg:       cfg,
		log:       log,
		validator: goValidator.New(),
		db:        db,
		echo:      e,
		cache:     cache.NewCache(cfg.Cache.DefaultExpiration, cfg.Cache.CleanupInterval),
		sinks:     sinks,
	}, nil
}

// buildSinks assembles the configured notification channels. Channels left
// unconfigured are skipped silently; a misconfigured telegram bot is an
// error because the token was deliberately set.
func buildSinks(cfg *config.Config, log *logger.Logger) ([]notification.Sink, error) {
	var sinks []notification.Sink

	if cfg.Notification.Email.Enabled() {
		sinks = append(sinks, notification.NewEmailSink(cfg.Notification.Email, log))
	}
	if cfg.Notification.Telegram.Enabled() {
		telegramSink, err := notification.NewTelegramSink(cfg.Notification.Telegram, log)
		if err != nil {
			log.Error("Failed to create telegram sink", zap.Error(err))
			return nil, err
		}
		sinks = append(sinks, telegramSink)
	}

	if len(sinks) == 0 {
		log.Warn("No notification channels configured, alerts will only be recorded")
	}
	return sinks, nil
}

func (d *AppDependency) Close() error {
	d.log.Info("Closing app dependency")
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}
