package di

import (
	"context"
	"fmt"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"AgroCast/internal/domain/repository"
	dsvc "AgroCast/internal/domain/service"
	"AgroCast/internal/handler/api"
	mid "AgroCast/internal/middleware"
	internalrepo "AgroCast/internal/repository"
	icache "AgroCast/internal/service/cache"
	"AgroCast/internal/service/openweather"
	"AgroCast/internal/service/ratelimit"
	"AgroCast/internal/services/forecast"
	"AgroCast/internal/usecase"
	pkgcache "AgroCast/pkg/cache"
	pkgch "AgroCast/pkg/clickhouse"
	"AgroCast/pkg/config"
	xhttp "AgroCast/pkg/http"
	pkgkafka "AgroCast/pkg/kafka"
	applogger "AgroCast/pkg/logger"
	"AgroCast/pkg/metrics"
	pkgpg "AgroCast/pkg/postgres"
	"AgroCast/pkg/queue"
	"AgroCast/pkg/server"
	"AgroCast/pkg/util"
)

// ProvideLogger builds the application logger from the log section.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	return applogger.New(&applogger.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Output:  cfg.Log.Output,
		Service: "agrocast",
	})
}

// ProvideClock returns the wall clock in the configured zone (IST by default).
func ProvideClock(cfg *config.Config) dsvc.Clock {
	return dsvc.SystemClock(util.LoadZone(cfg.Timezone, 5*60*60+30*60))
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideClickHouseClient creates a ClickHouse client when it is the storage backend.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if cfg.Storage.Backend != config.StorageClickHouse {
		return nil, nil
	}
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	stmts := append([]string{"CREATE DATABASE IF NOT EXISTS " + cfg.ClickHouse.Database},
		pkgch.ObservationsSchema(clickHouseTable(cfg), cfg.Retention.Days)...)
	if err := client.InitSchema(ctx, stmts); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}
	return client, nil
}

// ProvidePostgresClient creates a PostgreSQL client when it is the storage backend.
func ProvidePostgresClient(cfg *config.Config) (*pkgpg.Client, error) {
	if cfg.Storage.Backend != config.StoragePostgres {
		return nil, nil
	}
	client, err := pkgpg.NewClient(
		pkgpg.WithHost(cfg.Postgres.Host),
		pkgpg.WithPort(cfg.Postgres.Port),
		pkgpg.WithDatabase(cfg.Postgres.Database),
		pkgpg.WithCredentials(cfg.Postgres.User, cfg.Postgres.Password),
		pkgpg.WithSSLMode(cfg.Postgres.SSLMode),
		pkgpg.WithPool(cfg.Postgres.MaxOpenConns, cfg.Postgres.MaxIdleConns, cfg.Postgres.ConnMaxLifetime, cfg.Postgres.ConnMaxIdleTime),
	)
	if err != nil {
		return nil, fmt.Errorf("postgres client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.InitSchema(ctx, pkgpg.ObservationsSchema(cfg.Storage.Table)); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("postgres schema: %w", err)
	}
	return client, nil
}

func clickHouseTable(cfg *config.Config) string {
	return cfg.ClickHouse.Database + "." + cfg.Storage.Table
}

// ProvideObservationStore picks the store for the configured backend.
func ProvideObservationStore(
	cfg *config.Config,
	ch *pkgch.Client,
	pg *pkgpg.Client,
	logger *applogger.Logger,
) repository.ObservationStore {
	switch cfg.Storage.Backend {
	case config.StorageClickHouse:
		return internalrepo.NewClickHouseObservationStore(ch.DB(), clickHouseTable(cfg), logger)
	case config.StoragePostgres:
		return internalrepo.NewPostgresObservationStore(pg.DB(), cfg.Storage.Table, logger)
	default:
		return internalrepo.NewMemoryObservationStore(internalrepo.WithMemoryLogger(logger))
	}
}

// ProvideRedisCache connects to Redis when the cache or the ingest queue needs it.
func ProvideRedisCache(cfg *config.Config) (*pkgcache.RedisCache, error) {
	needed := cfg.Cache.Backend == config.CacheRedis ||
		cfg.Cache.Backend == config.CacheLayered ||
		cfg.Ingest.Backend == config.IngestQueue
	if !needed {
		return nil, nil
	}
	rc, err := pkgcache.NewRedisCache(
		pkgcache.WithRedisHost(cfg.Redis.Host),
		pkgcache.WithRedisPort(cfg.Redis.Port),
		pkgcache.WithRedisPassword(cfg.Redis.Password),
		pkgcache.WithRedisDB(cfg.Redis.DB),
		pkgcache.WithRedisPool(cfg.Redis.PoolSize, 2, 30*time.Second),
		pkgcache.WithRedisPrefix(cfg.Redis.Prefix),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return rc, nil
}

// ProvideCacheBackend builds the cache service behind the prediction cache.
func ProvideCacheBackend(cfg *config.Config, rc *pkgcache.RedisCache) pkgcache.Service {
	switch cfg.Cache.Backend {
	case config.CacheRedis:
		return rc
	case config.CacheLayered:
		return pkgcache.NewLayeredCache(rc,
			pkgcache.WithLayeredMemorySize(cfg.Cache.MaxSize),
			pkgcache.WithLayeredL1TTL(cfg.Cache.L1TTL),
		)
	default:
		return pkgcache.NewMemoryCache(pkgcache.WithMemoryMaxSize(cfg.Cache.MaxSize))
	}
}

func ProvidePredictionCache(backend pkgcache.Service, clock dsvc.Clock, cfg *config.Config, logger *applogger.Logger) repository.PredictionCache {
	return icache.NewPredictionCache(backend,
		icache.WithFreshness(cfg.Cache.Freshness),
		icache.WithClock(clock),
		icache.WithLogger(logger),
	)
}

func ProvidePredictor(cfg *config.Config) *forecast.Predictor {
	return forecast.NewPredictor(forecast.WithMinHistory(cfg.Predictor.MinHistory))
}

func ProvideWeatherPredictor(
	store repository.ObservationStore,
	cache repository.PredictionCache,
	predictor *forecast.Predictor,
	clock dsvc.Clock,
	m repository.Metrics,
	logger *applogger.Logger,
) *usecase.WeatherPredictor {
	return usecase.NewWeatherPredictor(store, cache, predictor, clock, m, logger)
}

func ProvideAgroReport(
	store repository.ObservationStore,
	predictor *usecase.WeatherPredictor,
	clock dsvc.Clock,
	m repository.Metrics,
	logger *applogger.Logger,
) *usecase.AgroReportUseCase {
	return usecase.NewAgroReportUseCase(store, predictor, clock, m, logger)
}

func ProvideLimiter() *ratelimit.Limiter {
	return ratelimit.New()
}

// ProvideKafkaProducer creates a Kafka producer when ingest goes through Kafka.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if cfg.Ingest.Backend != config.IngestKafka {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatch(cfg.Kafka.Producer.BatchSize, cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideQueue creates the Redis job queue when ingest goes through it.
func ProvideQueue(cfg *config.Config, rc *pkgcache.RedisCache, logger *applogger.Logger) *queue.RedisQueue {
	if cfg.Ingest.Backend != config.IngestQueue || rc == nil {
		return nil
	}
	return queue.NewRedisQueue(rc.Client(), logger,
		queue.WithWorkers(cfg.Queue.Workers),
		queue.WithRetry(cfg.Queue.RetryLimit, cfg.Queue.RetryDelay),
		queue.WithPolling(cfg.Queue.PollTimeout, 0),
		queue.WithKeyPrefix(cfg.Redis.Prefix+":queue"),
	)
}

// ProvideObservationPublisher wraps the Kafka producer or the Redis queue.
// Nil when ingest writes straight to the store.
func ProvideObservationPublisher(producer *pkgkafka.Producer, q *queue.RedisQueue, cfg *config.Config) repository.ObservationPublisher {
	switch {
	case producer != nil:
		return internalrepo.NewKafkaPublisher(producer, cfg.Kafka.Topic)
	case q != nil:
		return internalrepo.NewQueuePublisher(q, usecase.ObservationJobType)
	default:
		return nil
	}
}

func ProvideObservationProcessor(
	store repository.ObservationStore,
	pub repository.ObservationPublisher,
	m repository.Metrics,
	limiter *ratelimit.Limiter,
	clock dsvc.Clock,
	cfg *config.Config,
	logger *applogger.Logger,
) *usecase.ObservationProcessor {
	return usecase.NewObservationProcessor(store, pub, m, limiter, clock, usecase.ProcessorConfig{
		Backend:          cfg.Ingest.Backend,
		BurstPerLocation: cfg.Ingest.BurstPerLocation,
		RefillPerSecond:  cfg.Ingest.RefillPerSecond,
		Location:         util.LoadZone(cfg.Timezone, 5*60*60+30*60),
	}, logger)
}

// ProvideIngestBuffer puts a retry buffer between the collector and the processor.
func ProvideIngestBuffer(proc *usecase.ObservationProcessor, m repository.Metrics, cfg *config.Config, logger *applogger.Logger) *mid.IngestBuffer {
	return mid.NewIngestBuffer(proc, m, logger,
		mid.WithBufferSize(cfg.Ingest.BufferSize),
		mid.WithBackoff(cfg.Ingest.RetryMin, cfg.Ingest.RetryMax),
	)
}

// ProvideWeatherSource creates the OpenWeatherMap client.
func ProvideWeatherSource(cfg *config.Config, logger *applogger.Logger) dsvc.WeatherSource {
	return openweather.New(cfg.OpenWeather.APIKey,
		openweather.WithBaseURL(cfg.OpenWeather.BaseURL),
		openweather.WithHTTPClient(xhttp.NewClient(xhttp.WithTimeout(cfg.OpenWeather.Timeout))),
		openweather.WithRateLimit(cfg.OpenWeather.RateLimit, cfg.OpenWeather.Burst),
		openweather.WithLogger(logger),
	)
}

func ProvideWeatherCollector(
	source dsvc.WeatherSource,
	buffer *mid.IngestBuffer,
	m repository.Metrics,
	cfg *config.Config,
	logger *applogger.Logger,
) *usecase.WeatherCollector {
	locs := make([]usecase.FarmLocation, 0, len(cfg.OpenWeather.Locations))
	for _, l := range cfg.OpenWeather.Locations {
		locs = append(locs, usecase.FarmLocation{Name: l.Name, Lat: l.Lat, Lon: l.Lon})
	}
	return usecase.NewWeatherCollector(source, buffer, locs, cfg.OpenWeather.PollInterval, m, logger)
}

// ProvideRetentionWorker returns nil when retention is disabled.
func ProvideRetentionWorker(
	store repository.ObservationStore,
	limiter *ratelimit.Limiter,
	clock dsvc.Clock,
	m repository.Metrics,
	cfg *config.Config,
	logger *applogger.Logger,
) *usecase.RetentionWorker {
	if !cfg.Retention.Enabled {
		return nil
	}
	retention := time.Duration(cfg.Retention.Days) * 24 * time.Hour
	return usecase.NewRetentionWorker(store, limiter, clock, retention, cfg.Retention.Interval, m, logger)
}

// ProvideKafkaConsumer creates a consumer that drains the ingest topic into the store.
func ProvideKafkaConsumer(cfg *config.Config, m repository.Metrics, logger *applogger.Logger) (*pkgkafka.Consumer, error) {
	if cfg.Ingest.Backend != config.IngestKafka {
		return nil, nil
	}
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
		pkgkafka.WithConsumerLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	consumer.WithConsumerHook(pkgkafka.NewHookChain(
		pkgkafka.LoggingHook{Logger: logger, Slow: time.Second},
		pkgkafka.HookFuncs{
			Err: func(_ context.Context, _ string, _ kafkago.Message, _ []byte, _ error) {
				m.RecordError("consumer_handle")
			},
		},
	))
	return consumer, nil
}

// ProvideObservationsHandler drains Kafka or the queue into the store.
func ProvideObservationsHandler(store repository.ObservationStore, m repository.Metrics, cfg *config.Config) *usecase.ObservationsHandler {
	return usecase.NewObservationsHandler(cfg.Kafka.Topic, store, m)
}

func ProvideWeatherHandler(
	logger *applogger.Logger,
	predictor *usecase.WeatherPredictor,
	reports *usecase.AgroReportUseCase,
	proc *usecase.ObservationProcessor,
	store repository.ObservationStore,
	clock dsvc.Clock,
) *api.WeatherEchoHandler {
	return api.NewWeatherEchoHandler(logger, predictor, reports, proc, store, clock)
}

func ProvideHTTPServer(cfg *config.Config, h *api.WeatherEchoHandler, logger *applogger.Logger) *xhttp.Server {
	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
	}
	return xhttp.NewServer(h, logger,
		xhttp.WithHost(cfg.Server.Host),
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout),
		xhttp.WithCORS(corsOrigins(cfg)),
		xhttp.WithSlowThreshold(cfg.Server.SlowRequest),
		xhttp.WithMetricsPath(metricsPath),
	)
}

func corsOrigins(cfg *config.Config) []string {
	if len(cfg.Server.CORSOrigins) == 0 {
		return []string{"*"}
	}
	return cfg.Server.CORSOrigins
}

// ProvideApp assembles the application and registers what it must close.
func ProvideApp(
	cfg *config.Config,
	logger *applogger.Logger,
	srv *xhttp.Server,
	collector *usecase.WeatherCollector,
	buffer *mid.IngestBuffer,
	retention *usecase.RetentionWorker,
	consumer *pkgkafka.Consumer,
	q *queue.RedisQueue,
	oh *usecase.ObservationsHandler,
	proc *usecase.ObservationProcessor,
	cache pkgcache.Service,
	rc *pkgcache.RedisCache,
	ch *pkgch.Client,
	pg *pkgpg.Client,
) *server.App {
	opts := []server.Option{
		server.WithCollector(collector),
		server.WithIngestBuffer(buffer),
		server.WithCloser("processor", proc),
		server.WithCloser("cache", cache),
	}
	if retention != nil {
		opts = append(opts, server.WithRetention(retention))
	}
	if consumer != nil {
		opts = append(opts, server.WithConsumer(consumer, oh))
	}
	if q != nil {
		opts = append(opts, server.WithQueue(q, oh))
	}
	// the cache closes the redis client itself unless it is memory only
	if rc != nil && cfg.Cache.Backend == config.CacheMemory {
		opts = append(opts, server.WithCloser("redis", rc))
	}
	if ch != nil {
		opts = append(opts, server.WithCloser("clickhouse", ch))
	}
	if pg != nil {
		opts = append(opts, server.WithCloser("postgres", pg))
	}
	return server.New(cfg, logger, srv, opts...)
}
