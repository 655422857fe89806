package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"SalesDriveSync/internal/catalog"
	"SalesDriveSync/internal/config"
	"SalesDriveSync/internal/domain"
	"SalesDriveSync/internal/httpapi"
	"SalesDriveSync/internal/infrastructure/cache"
	"SalesDriveSync/internal/infrastructure/events"
	"SalesDriveSync/internal/infrastructure/parser"
	"SalesDriveSync/internal/infrastructure/scheduler"
	"SalesDriveSync/internal/infrastructure/storage"
	"SalesDriveSync/internal/infrastructure/telegram"
	"SalesDriveSync/internal/logging"
	"SalesDriveSync/internal/ports"
	"SalesDriveSync/internal/usecase"
)

const shutdownTimeout = 30 * time.Second

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg       config.Config
	logger    *slog.Logger
	pipeline  *usecase.Pipeline
	scheduler *usecase.Scheduler
	server    *http.Server
	closers   []io.Closer
}

// New builds every adapter named in cfg. Close releases them.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}
	a := &Application{cfg: cfg, logger: baseLogger}

	c, err := a.buildCache()
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, c)

	store, err := a.buildStore(ctx, c)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	if err := seedMedia(ctx, store, cfg.Media.URLs, baseLogger); err != nil {
		_ = a.Close()
		return nil, err
	}

	var publisher ports.EventPublisher
	if len(cfg.Events.Brokers) > 0 {
		kafkaPublisher := events.NewKafkaPublisher(cfg.Events.Brokers, cfg.Events.Topic)
		a.closers = append(a.closers, kafkaPublisher)
		publisher = kafkaPublisher
		baseLogger.Info("kafka outcome events enabled", "brokers", cfg.Events.Brokers, "topic", cfg.Events.Topic)
	}

	var notifier ports.Notifier
	if cfg.Notifications.Telegram.Enabled() {
		notifier = telegram.NewNotifier(cfg.Notifications.Telegram.BotToken, cfg.Notifications.Telegram.ChatID)
	}

	source := parser.NewFeedReader(&http.Client{Timeout: cfg.Feed.Timeout}, baseLogger.With("component", "feed"))

	a.pipeline = usecase.NewPipeline(usecase.PipelineDeps{
		Source:      source,
		Store:       store,
		Publisher:   publisher,
		Notifier:    notifier,
		FeedURL:     cfg.Feed.URL,
		GalleryMode: catalog.ParseGalleryMode(cfg.Feed.GalleryMode),
		Logger:      baseLogger.With("component", "pipeline"),
	})

	if cfg.Scheduler.Enabled {
		driver := scheduler.NewTickerScheduler(cfg.Scheduler.Interval, cfg.Scheduler.RunOnStart)
		a.scheduler = usecase.NewScheduler(driver, a.pipeline)
	}

	limiter := rate.NewLimiter(rate.Every(cfg.HTTP.TriggerRate), cfg.HTTP.TriggerBurst)
	if cfg.HTTP.TriggerRate <= 0 {
		limiter = rate.NewLimiter(rate.Inf, cfg.HTTP.TriggerBurst)
	}

	apiLogger := baseLogger.With("component", "http")
	router := httpapi.NewRouter(httpapi.RouterConfig{
		Sync:     httpapi.NewSyncHandler(a.pipeline, c, cfg.HTTP.TokenTTL, limiter, apiLogger),
		Products: httpapi.NewProductHandler(store, c, cfg.Cache.TTL, apiLogger),
		Media:    httpapi.NewMediaHandler(store, c, apiLogger),
		Logger:   apiLogger,
	})
	a.server = httpapi.NewServer(cfg.HTTP.Addr, router)

	return a, nil
}

func (a *Application) buildCache() (cache.Cache, error) {
	if a.cfg.Cache.Type != "redis" {
		return cache.NewMemoryCache(), nil
	}

	c, err := cache.NewRedisCache(cache.RedisConfig{
		Addr:     a.cfg.Cache.Addr,
		Password: a.cfg.Cache.Password,
		DB:       a.cfg.Cache.DB,
	})
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	a.logger.Info("redis cache initialized", "addr", a.cfg.Cache.Addr)
	return c, nil
}

func (a *Application) buildStore(ctx context.Context, c cache.Cache) (ports.CatalogBackend, error) {
	storeLogger := a.logger.With("component", "store")
	if a.cfg.Storage.IsMemory() {
		a.logger.Warn("using in-memory catalog store, nothing survives a restart")
		return storage.NewMemoryStore(c, storeLogger), nil
	}

	store, err := storage.OpenSQLStore(ctx, a.cfg.Storage.DSN, c, storeLogger)
	if err != nil {
		return nil, fmt.Errorf("catalog store: %w", err)
	}
	a.closers = append(a.closers, store)
	return store, nil
}

// seedMedia registers the configured image URLs so feed pictures can resolve to attachments.
func seedMedia(ctx context.Context, registry ports.MediaRegistry, urls []string, logger *slog.Logger) error {
	registered := 0
	for _, url := range urls {
		url = strings.TrimSpace(url)
		if url == "" {
			continue
		}
		if _, err := registry.RegisterAttachment(ctx, url); err != nil {
			return fmt.Errorf("register attachment %s: %w", url, err)
		}
		registered++
	}
	if registered > 0 {
		logger.Info("media attachments registered", "count", registered)
	}
	return nil
}

// RunOnce performs a single manual sync.
func (a *Application) RunOnce(ctx context.Context) (domain.RunReport, error) {
	return a.pipeline.Run(ctx, domain.TriggerManual)
}

// Serve runs the scheduler and the HTTP API until ctx is cancelled.
func (a *Application) Serve(ctx context.Context) error {
	if a.scheduler != nil {
		if err := a.scheduler.Start(ctx); err != nil {
			return fmt.Errorf("start scheduler: %w", err)
		}
		a.logger.Info("scheduler started", "interval", a.cfg.Scheduler.Interval)
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("http server listening", "addr", a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
	case err := <-errCh:
		serveErr = err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown", "error", err)
	}
	if a.scheduler != nil {
		if err := a.scheduler.Stop(shutdownCtx); err != nil {
			a.logger.Error("scheduler stop", "error", err)
		}
	}

	if serveErr != nil {
		return fmt.Errorf("http server: %w", serveErr)
	}
	return nil
}

// Close releases stores, caches and publishers in reverse order.
func (a *Application) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
