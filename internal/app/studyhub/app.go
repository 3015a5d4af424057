package studyhub

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/magabrotheeeer/study-tools-hub/internal/cache"
	"github.com/magabrotheeeer/study-tools-hub/internal/config"
	"github.com/magabrotheeeer/study-tools-hub/internal/http/middlewarectx"
	"github.com/magabrotheeeer/study-tools-hub/internal/lib/jwt"
	"github.com/magabrotheeeer/study-tools-hub/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/study-tools-hub/internal/lib/sl"
	"github.com/magabrotheeeer/study-tools-hub/internal/paymentprovider"
	authservice "github.com/magabrotheeeer/study-tools-hub/internal/services/auth"
	bootstrap "github.com/magabrotheeeer/study-tools-hub/internal/services/bootstrap"
	forumservice "github.com/magabrotheeeer/study-tools-hub/internal/services/forum"
	schedulerservice "github.com/magabrotheeeer/study-tools-hub/internal/services/scheduler"
	subscriptionservice "github.com/magabrotheeeer/study-tools-hub/internal/services/subscription"
	toolsservice "github.com/magabrotheeeer/study-tools-hub/internal/services/tools"
	"github.com/magabrotheeeer/study-tools-hub/internal/storage/filedb"
	"github.com/magabrotheeeer/study-tools-hub/internal/storage/repository"
)

type App struct {
	server    *http.Server
	scheduler *schedulerservice.SchedulerService
	logger    *slog.Logger
	closers   []func() error
}

// New поднимает хранилище, необязательные Redis и RabbitMQ, заполняет хранилище
// начальными данными и собирает HTTP-сервер.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "app.studyhub.New"

	store, err := filedb.New(cfg.DataDir, filedb.AllCollections()...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	repo := repository.New(store)

	app := &App{logger: logger}

	var catalogCache toolsservice.Cache = cache.Nop{}
	if cfg.RedisAddress != "" {
		redisCache, err := cache.InitServer(ctx, cfg.RedisConnection)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		catalogCache = redisCache
		app.closers = append(app.closers, redisCache.Close)
	} else {
		logger.Info("redis address is empty, catalog cache disabled")
	}

	var publisher schedulerservice.Publisher = rabbitmq.NopPublisher{}
	if cfg.RabbitMQURL != "" {
		conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.ConnectRetries, cfg.RetryDelay)
		if err != nil {
			app.close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		app.closers = append(app.closers, conn.Close)
		ch, err := rabbitmq.SetupChannel(conn, cfg.Exchange, rabbitmq.NotificationQueues())
		if err != nil {
			app.close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		app.closers = append(app.closers, ch.Close)
		publisher = rabbitmq.NewPublisher(ch, cfg.Exchange)
	} else {
		logger.Info("rabbitmq url is empty, expiry notifications disabled")
	}

	provider := paymentprovider.NewClient(time.Now)
	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	authService := authservice.NewAuthService(repo.Users, provider, jwtMaker)
	subscriptionService := subscriptionservice.NewSubscriptionService(repo.Users, provider, cfg.TrialPeriod, cfg.PeriodMonths, logger)
	toolService := toolsservice.NewToolService(repo.Tools, catalogCache, cfg.CatalogTTL, logger)
	forumService := forumservice.NewForumService(repo.Posts, repo.Comments, logger)
	seeder := bootstrap.NewSeeder(repo.Users, repo.Tools, toolService, cfg.Admin, logger)

	if _, err := seeder.SeedAdmin(ctx); err != nil {
		app.close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if cfg.CatalogSeedEnabled() {
		if _, err := seeder.SeedCatalogIfEmpty(ctx); err != nil {
			app.close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	app.scheduler = schedulerservice.NewSchedulerService(subscriptionService, publisher, cfg.SchedulerInterval, logger)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, Services{
		Auth:         authService,
		Subscription: subscriptionService,
		Tools:        toolService,
		Forum:        forumService,
		Seeder:       seeder,
		Users:        repo.Users,
	},
		middlewarectx.NewRateLimiter(cfg.AuthRPS, cfg.AuthBurst),
		middlewarectx.NewMetrics(registry),
		registry,
	)

	app.server = &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return app, nil
}

// Handler возвращает корневой обработчик HTTP-сервера.
func (a *App) Handler() http.Handler {
	return a.server.Handler
}

func (a *App) Run(ctx context.Context) error {
	schedCtx, stopScheduler := context.WithCancel(ctx)
	defer stopScheduler()
	go a.scheduler.Run(schedCtx)

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.close()
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.close()
		return err
	}
}

// close освобождает подключения в обратном порядке открытия.
func (a *App) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn("failed to close resource", sl.Err(err))
		}
	}
	a.closers = nil
}
