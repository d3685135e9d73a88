package server

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hashicorp/go-multierror"

	"AgroCast/internal/middleware"
	"AgroCast/internal/usecase"
	"AgroCast/pkg/config"
	xhttp "AgroCast/pkg/http"
	pkgkafka "AgroCast/pkg/kafka"
	applogger "AgroCast/pkg/logger"
	"AgroCast/pkg/queue"
)

type namedCloser struct {
	name string
	c    io.Closer
}

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	logger     *applogger.Logger
	httpServer *xhttp.Server
	collector  *usecase.WeatherCollector
	buffer     *middleware.IngestBuffer
	consumer   *pkgkafka.Consumer
	kh         pkgkafka.MessageHandler
	queue      *queue.RedisQueue
	job        queue.Job
	retention  *usecase.RetentionWorker
	closers    []namedCloser
}

type Option func(*App)

func WithCollector(c *usecase.WeatherCollector) Option {
	return func(a *App) { a.collector = c }
}

func WithIngestBuffer(b *middleware.IngestBuffer) Option {
	return func(a *App) { a.buffer = b }
}

// WithConsumer runs consumer with kh registered on its topic.
func WithConsumer(consumer *pkgkafka.Consumer, kh pkgkafka.MessageHandler) Option {
	return func(a *App) {
		a.consumer = consumer
		a.kh = kh
	}
}

// WithQueue runs the Redis queue workers with job registered.
func WithQueue(q *queue.RedisQueue, job queue.Job) Option {
	return func(a *App) {
		a.queue = q
		a.job = job
	}
}

func WithRetention(w *usecase.RetentionWorker) Option {
	return func(a *App) { a.retention = w }
}

// WithCloser registers a resource closed on shutdown, in registration order.
func WithCloser(name string, c io.Closer) Option {
	return func(a *App) {
		if c != nil {
			a.closers = append(a.closers, namedCloser{name: name, c: c})
		}
	}
}

// New creates a new App instance with all dependencies.
func New(cfg *config.Config, logger *applogger.Logger, httpServer *xhttp.Server, opts ...Option) *App {
	if logger == nil {
		logger = applogger.NewNop()
	}
	a := &App{cfg: cfg, logger: logger, httpServer: httpServer}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	a.logger.Info("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	return a.Shutdown(shutdownCtx)
}

// Start launches background workers, then the HTTP server.
func (a *App) Start(ctx context.Context) error {
	if a.buffer != nil {
		a.buffer.Start(ctx)
	}

	if a.consumer != nil && a.kh != nil {
		a.consumer.RegisterHandler(a.kh)
		if err := a.consumer.Start(); err != nil {
			return fmt.Errorf("start kafka consumer: %w", err)
		}
		a.logger.Info("Kafka consumer started", applogger.String("topic", a.kh.Topic()))
	}

	if a.queue != nil && a.job != nil {
		a.queue.RegisterJob(a.job)
		if err := a.queue.Start(); err != nil {
			return fmt.Errorf("start queue: %w", err)
		}
	}

	if a.collector != nil {
		if err := a.collector.Start(ctx); err != nil {
			return fmt.Errorf("start collector: %w", err)
		}
	}

	if a.retention != nil {
		if _, err := a.retention.RunOnce(ctx); err != nil {
			a.logger.Warn("Initial retention sweep failed", applogger.Error(err))
		}
		a.retention.Start(ctx)
	}

	if a.httpServer != nil {
		if err := a.httpServer.Start(); err != nil {
			return fmt.Errorf("start http server: %w", err)
		}
	}
	return nil
}

// Shutdown stops everything in reverse dependency order. Every step runs;
// failures are collected into one error.
func (a *App) Shutdown(ctx context.Context) error {
	start := time.Now()
	var result *multierror.Error

	if a.httpServer != nil {
		if err := a.httpServer.Stop(ctx); err != nil {
			result = multierror.Append(result, err)
		}
	}
	if a.collector != nil {
		if err := a.collector.Shutdown(ctx); err != nil {
			result = multierror.Append(result, fmt.Errorf("collector: %w", err))
		}
	}
	if a.retention != nil {
		if err := a.retention.Shutdown(ctx); err != nil {
			result = multierror.Append(result, fmt.Errorf("retention: %w", err))
		}
	}
	if a.buffer != nil {
		if pending := a.buffer.Stop(); pending > 0 {
			result = multierror.Append(result, fmt.Errorf("ingest buffer: %d readings dropped", pending))
		}
	}
	if a.queue != nil {
		if err := a.queue.Stop(ctx); err != nil {
			result = multierror.Append(result, fmt.Errorf("queue: %w", err))
		}
	}
	if a.consumer != nil && a.kh != nil {
		if err := a.consumer.Stop(ctx); err != nil {
			result = multierror.Append(result, fmt.Errorf("kafka consumer: %w", err))
		}
	}
	for _, nc := range a.closers {
		if err := nc.c.Close(); err != nil {
			result = multierror.Append(result, fmt.Errorf("close %s: %w", nc.name, err))
		}
	}

	if err := result.ErrorOrNil(); err != nil {
		a.logger.Error("Shutdown finished with errors", applogger.Error(err), applogger.Duration("took", time.Since(start)))
		return err
	}
	a.logger.Info("Shutdown complete", applogger.Duration("took", time.Since(start)))
	return nil
}
