//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"AgroCast/pkg/config"
	"AgroCast/pkg/server"
)

var infraSet = wire.NewSet(
	ProvideLogger,
	ProvideClock,
	ProvideMetrics,
	ProvideClickHouseClient,
	ProvidePostgresClient,
	ProvideRedisCache,
	ProvideCacheBackend,
	ProvideQueue,
	ProvideKafkaProducer,
	ProvideKafkaConsumer,
	ProvideLimiter,
)

var repositorySet = wire.NewSet(
	ProvideObservationStore,
	ProvidePredictionCache,
	ProvideObservationPublisher,
	ProvideWeatherSource,
)

var usecaseSet = wire.NewSet(
	ProvidePredictor,
	ProvideWeatherPredictor,
	ProvideAgroReport,
	ProvideObservationProcessor,
	ProvideIngestBuffer,
	ProvideWeatherCollector,
	ProvideRetentionWorker,
	ProvideObservationsHandler,
)

// InitializeApp wires up all dependencies and returns the application.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		infraSet,
		repositorySet,
		usecaseSet,
		ProvideWeatherHandler,
		ProvideHTTPServer,
		ProvideApp,
	)
	return &server.App{}, nil
}
