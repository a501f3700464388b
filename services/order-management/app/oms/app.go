// Package oms wires the order management service together.
package oms

import (
	"context"
	"errors"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/muhammadchandra19/exchange/pkg/httplib/healthcheck"
	"github.com/muhammadchandra19/exchange/pkg/logger"
	"github.com/muhammadchandra19/exchange/pkg/postgresql"
	"github.com/muhammadchandra19/exchange/pkg/redis"
	"github.com/muhammadchandra19/exchange/services/order-management/domain/order"
	ordercommandv1 "github.com/muhammadchandra19/exchange/services/order-management/domain/order-command/v1"
	orderpublisherv1 "github.com/muhammadchandra19/exchange/services/order-management/domain/order-publisher/v1"
	commandConsumer "github.com/muhammadchandra19/exchange/services/order-management/internal/consumer/command"
	"github.com/muhammadchandra19/exchange/services/order-management/internal/infrastructure/kafka"
	"github.com/muhammadchandra19/exchange/services/order-management/internal/infrastructure/memory"
	eventInfra "github.com/muhammadchandra19/exchange/services/order-management/internal/infrastructure/postgresql/event"
	executionInfra "github.com/muhammadchandra19/exchange/services/order-management/internal/infrastructure/postgresql/execution"
	orderInfra "github.com/muhammadchandra19/exchange/services/order-management/internal/infrastructure/postgresql/order"
	outboxInfra "github.com/muhammadchandra19/exchange/services/order-management/internal/infrastructure/postgresql/outbox"
	"github.com/muhammadchandra19/exchange/services/order-management/internal/infrastructure/redis/lock"
	"github.com/muhammadchandra19/exchange/services/order-management/internal/metrics"
	"github.com/muhammadchandra19/exchange/services/order-management/internal/statemachine"
	"github.com/muhammadchandra19/exchange/services/order-management/internal/usecase/command"
	"github.com/muhammadchandra19/exchange/services/order-management/internal/usecase/outbox"
	"github.com/muhammadchandra19/exchange/services/order-management/pkg/config"
)

const shutdownTimeout = 30 * time.Second

var (
	_ order.CreateProcessor    = (*command.CreateProcessor)(nil)
	_ order.AcceptProcessor    = (*command.AcceptProcessor)(nil)
	_ order.ExecutionProcessor = (*command.ExecutionProcessor)(nil)
	_ command.Notifier         = (*outbox.Publisher)(nil)
	_ command.Locker           = (*lock.Local)(nil)
	_ command.Locker           = (*lock.Redis)(nil)
)

// App holds the running service.
type App struct {
	config  *config.Config
	logger  logger.Interface
	metrics *metrics.Metrics
	checks  map[string]healthcheck.Checker

	db    postgresql.PostgreSQLClient
	redis redis.Client

	deps    command.Dependencies
	machine *statemachine.Machine
	locker  command.Locker

	Create    order.CreateProcessor
	Accept    order.AcceptProcessor
	Execution order.ExecutionProcessor

	bus       orderpublisherv1.Bus
	reader    ordercommandv1.CommandReader
	Publisher *outbox.Publisher
	Consumer  *commandConsumer.CommandConsumer
}

// Option replaces a collaborator built from the configuration.
type Option func(*App)

// WithBus replaces the Kafka producer.
func WithBus(bus orderpublisherv1.Bus) Option {
	return func(a *App) { a.bus = bus }
}

// WithCommandReader replaces the Kafka command reader.
func WithCommandReader(r ordercommandv1.CommandReader) Option {
	return func(a *App) { a.reader = r }
}

// WithPostgreSQLClient replaces the pool opened from the configuration.
func WithPostgreSQLClient(db postgresql.PostgreSQLClient) Option {
	return func(a *App) { a.db = db }
}

// New builds the service from cfg.
func New(ctx context.Context, cfg *config.Config, log logger.Interface, opts ...Option) (*App, error) {
	a := &App{
		config:  cfg,
		logger:  log,
		metrics: metrics.New(metrics.DefaultConfig()),
		checks:  make(map[string]healthcheck.Checker),
	}
	for _, opt := range opts {
		opt(a)
	}

	steps := []func(context.Context) error{
		a.initStateMachine,
		a.initStore,
		a.initLocker,
		a.initPublisher,
		a.initProcessors,
		a.initConsumer,
	}
	for _, step := range steps {
		if err := step(ctx); err != nil {
			a.Close(ctx)
			return nil, err
		}
	}
	return a, nil
}

func (a *App) initStateMachine(context.Context) error {
	var err error
	if a.config.StateMachine.ProfileFile != "" {
		a.machine, err = statemachine.LoadProfileFile(a.config.StateMachine.ProfileFile)
	} else {
		a.machine, err = statemachine.ProfileByName(a.config.StateMachine.Profile)
	}
	if err != nil {
		return err
	}
	a.logger.Info("state machine loaded", logger.NewField("profile", a.machine.Name()))
	return nil
}

func (a *App) initStore(ctx context.Context) error {
	if a.config.App.Store == config.StoreMemory {
		store := memory.NewStore()
		a.deps = command.Dependencies{
			Orders:     store.Orders(),
			Events:     store.Events(),
			Executions: store.Executions(),
			Outbox:     store.Outbox(),
			Tx:         store,
		}
		a.logger.Warn("using in-memory store; state is lost on exit")
		return nil
	}

	if a.db == nil {
		db, err := postgresql.NewClient(ctx, a.config.PostgreSQL)
		if err != nil {
			a.logger.ErrorContext(ctx, err, logger.NewField("action", "init_db"))
			return err
		}
		a.db = db
	}
	db := a.db
	a.checks["postgresql"] = healthcheck.CheckerFunc(db.Check)

	a.deps = command.Dependencies{
		Orders:     orderInfra.NewRepository(db, a.logger),
		Events:     eventInfra.NewRepository(db, a.logger),
		Executions: executionInfra.NewRepository(db, a.logger),
		Outbox:     outboxInfra.NewRepository(db, a.logger),
		Tx:         postgresql.NewTransaction(db),
	}
	return nil
}

func (a *App) initLocker(ctx context.Context) error {
	switch a.config.Command.Lock {
	case config.LockRedis:
		a.redis = redis.NewClient(a.logger, &a.config.Redis)
		if err := a.redis.Connect(ctx); err != nil {
			a.logger.ErrorContext(ctx, err, logger.NewField("action", "init_redis"))
			return err
		}
		a.checks["redis"] = healthcheck.CheckerFunc(a.redis.Ping)
		a.locker = lock.NewRedis(a.redis, a.config.Command.LockTTL, a.logger)
	case config.LockLocal:
		a.locker = lock.NewLocal()
	}
	return nil
}

func (a *App) initPublisher(context.Context) error {
	if a.bus == nil {
		a.bus = kafka.NewProducer(a.config.Kafka, a.logger)
	}

	c := a.config.Outbox
	a.Publisher = outbox.NewPublisher(outbox.Config{
		Topic:          c.Topic,
		PublishEnabled: c.PublishEnabled,
		ScanInterval:   c.ScanInterval,
		BatchSize:      c.BatchSize,
		MaxAttempts:    c.MaxAttempts,
		Workers:        c.Workers,
		NotifyBuffer:   c.NotifyBuffer,
	}, a.deps.Outbox, a.bus, a.logger, a.metrics)
	return nil
}

func (a *App) initProcessors(context.Context) error {
	a.deps.Machine = a.machine
	a.deps.Logger = a.logger

	opts := []command.Option{
		command.WithNotifier(a.Publisher),
		command.WithMetrics(a.metrics),
		command.WithTimeout(a.config.Command.Timeout),
		command.WithCloseOnFill(a.config.Command.CloseOnFill),
	}
	if a.locker != nil {
		opts = append(opts, command.WithLocker(a.locker))
	}

	a.Create = command.NewCreateProcessor(a.deps, opts...)
	a.Accept = command.NewAcceptProcessor(a.deps, opts...)
	a.Execution = command.NewExecutionProcessor(a.deps, opts...)
	return nil
}

func (a *App) initConsumer(context.Context) error {
	if !a.config.Kafka.ConsumerEnabled {
		return nil
	}
	if a.reader == nil {
		a.reader = kafka.NewCommandReader(a.config.Kafka)
	}
	a.Consumer = commandConsumer.NewCommandConsumer(a.reader, commandConsumer.Processors{
		Create:    a.Create,
		Accept:    a.Accept,
		Execution: a.Execution,
	}, commandConsumer.RetryConfig{
		MaxRetries: a.config.Command.MaxRetries,
		Backoff:    a.config.Command.RetryBackoff,
	}, a.logger)
	return nil
}

// Handler serves GET /health and /metrics.
func (a *App) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", a.metrics.Handler())
	hc := healthcheck.HealthCheck{Checks: a.checks, Timeout: 2 * time.Second}
	return hc.Handler(mux)
}

// Run serves until ctx is done, then drains the publisher and stops the HTTP server.
func (a *App) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              a.config.App.MetricsAddr,
		Handler:           a.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("http server listening", logger.NewField("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return a.Publisher.Run(gctx)
	})
	if a.Consumer != nil {
		g.Go(func() error {
			a.Consumer.Start(gctx)
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	err := g.Wait()
	a.Close(context.Background())
	return err
}

// Close releases every connection. It is safe on a partially built App.
func (a *App) Close(ctx context.Context) {
	if a.Consumer != nil {
		if err := a.Consumer.Stop(); err != nil {
			a.logger.Error(err, logger.NewField("action", "close_reader"))
		}
	}
	if a.bus != nil {
		if err := a.bus.Close(); err != nil {
			a.logger.Error(err, logger.NewField("action", "close_bus"))
		}
	}
	if a.redis != nil {
		if err := a.redis.Disconnect(ctx); err != nil {
			a.logger.Error(err, logger.NewField("action", "close_redis"))
		}
	}
	if a.db != nil {
		a.db.Close()
	}
}
