package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Backends accepted by the config.
const (
	StorageMemory     = "memory"
	StorageClickHouse = "clickhouse"
	StoragePostgres   = "postgres"

	CacheMemory  = "memory"
	CacheRedis   = "redis"
	CacheLayered = "layered"

	IngestStore = "store"
	IngestKafka = "kafka"
	IngestQueue = "queue"
)

type Config struct {
	Environment string            `yaml:"environment" default:"development"`
	Timezone    string            `yaml:"timezone" default:"Asia/Kolkata"`
	Server      ServerConfig      `yaml:"server"`
	Metrics     MetricsConfig     `yaml:"metrics"`
	Log         LogConfig         `yaml:"log"`
	Storage     StorageConfig     `yaml:"storage"`
	Cache       CacheConfig       `yaml:"cache"`
	Ingest      IngestConfig      `yaml:"ingest"`
	Kafka       KafkaConfig       `yaml:"kafka"`
	ClickHouse  ClickHouseConfig  `yaml:"clickhouse"`
	Postgres    PostgresConfig    `yaml:"postgres"`
	Redis       RedisConfig       `yaml:"redis"`
	Queue       QueueConfig       `yaml:"queue"`
	OpenWeather OpenWeatherConfig `yaml:"openweather"`
	Predictor   PredictorConfig   `yaml:"predictor"`
	Retention   RetentionConfig   `yaml:"retention"`
}

type ServerConfig struct {
	Host            string        `yaml:"host" default:"0.0.0.0"`
	Port            int           `yaml:"port" default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" default:"15s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"20s"`
	SlowRequest     time.Duration `yaml:"slow_request" default:"1s"`
	CORSOrigins     []string      `yaml:"cors_origins"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" default:"true"`
	Path    string `yaml:"path" default:"/metrics"`
}

type LogConfig struct {
	Level  string `yaml:"level" default:"info"`
	Format string `yaml:"format" default:"console"`
	Output string `yaml:"output" default:"stdout"`
}

type StorageConfig struct {
	Backend string `yaml:"backend" default:"memory"`
	Table   string `yaml:"table" default:"observations"`
}

type CacheConfig struct {
	Backend   string        `yaml:"backend" default:"memory"`
	Freshness time.Duration `yaml:"freshness" default:"6h"`
	MaxSize   int           `yaml:"max_size" default:"1000"`
	L1TTL     time.Duration `yaml:"l1_ttl" default:"5m"`
}

type IngestConfig struct {
	Backend          string        `yaml:"backend" default:"store"`
	BurstPerLocation float64       `yaml:"burst_per_location" default:"10"`
	RefillPerSecond  float64       `yaml:"refill_per_second" default:"0.1"`
	BufferSize       int           `yaml:"buffer_size" default:"1000"`
	RetryMin         time.Duration `yaml:"retry_min" default:"500ms"`
	RetryMax         time.Duration `yaml:"retry_max" default:"30s"`
}

type KafkaConfig struct {
	Brokers      []string      `yaml:"brokers"`
	Topic        string        `yaml:"topic" default:"weather.observations"`
	RequiredAcks int           `yaml:"required_acks" default:"-1"`
	Compression  string        `yaml:"compression" default:"snappy"`
	Producer     KafkaProducer `yaml:"producer"`
	Consumer     KafkaConsumer `yaml:"consumer"`
}

type KafkaProducer struct {
	MaxAttempts  int           `yaml:"max_attempts" default:"5"`
	BatchSize    int           `yaml:"batch_size" default:"100"`
	Linger       time.Duration `yaml:"linger" default:"50ms"`
	WriteTimeout time.Duration `yaml:"write_timeout" default:"10s"`
	ReadTimeout  time.Duration `yaml:"read_timeout" default:"10s"`
}

type KafkaConsumer struct {
	GroupID    string        `yaml:"group_id" default:"agrocast-observations"`
	Workers    int           `yaml:"workers" default:"4"`
	BufferSize int           `yaml:"buffer_size" default:"256"`
	RetryMax   int           `yaml:"retry_max" default:"3"`
	BackoffMin time.Duration `yaml:"backoff_min" default:"100ms"`
	BackoffMax time.Duration `yaml:"backoff_max" default:"5s"`
	DLQTopic   string        `yaml:"dlq_topic"`
}

type ClickHouseConfig struct {
	Host             string        `yaml:"host" default:"localhost"`
	Port             int           `yaml:"port" default:"9000"`
	Database         string        `yaml:"database" default:"agrocast"`
	User             string        `yaml:"user" default:"default"`
	Password         string        `yaml:"password"`
	UseHTTP          bool          `yaml:"use_http"`
	AsyncInsert      bool          `yaml:"async_insert"`
	WaitForAsync     bool          `yaml:"wait_for_async_insert" default:"true"`
	DialTimeout      time.Duration `yaml:"dial_timeout" default:"5s"`
	ReadTimeout      time.Duration `yaml:"read_timeout" default:"30s"`
	MaxExecutionTime time.Duration `yaml:"max_execution_time" default:"60s"`
}

type PostgresConfig struct {
	Host            string        `yaml:"host" default:"localhost"`
	Port            int           `yaml:"port" default:"5432"`
	Database        string        `yaml:"database" default:"agrocast"`
	User            string        `yaml:"user" default:"agrocast"`
	Password        string        `yaml:"password"`
	SSLMode         string        `yaml:"ssl_mode" default:"disable"`
	MaxOpenConns    int           `yaml:"max_open_conns" default:"10"`
	MaxIdleConns    int           `yaml:"max_idle_conns" default:"5"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" default:"30m"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time" default:"5m"`
}

type RedisConfig struct {
	Host     string `yaml:"host" default:"localhost"`
	Port     int    `yaml:"port" default:"6379"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size" default:"10"`
	Prefix   string `yaml:"prefix" default:"agrocast"`
}

// QueueConfig tunes the Redis job queue used when ingest.backend is queue.
type QueueConfig struct {
	Workers     int           `yaml:"workers" default:"2"`
	RetryLimit  int           `yaml:"retry_limit" default:"3"`
	RetryDelay  time.Duration `yaml:"retry_delay" default:"10s"`
	PollTimeout time.Duration `yaml:"poll_timeout" default:"1s"`
}

// Location is a farm coordinate polled by the collector.
type Location struct {
	Name string  `yaml:"name"`
	Lat  float64 `yaml:"lat"`
	Lon  float64 `yaml:"lon"`
}

type OpenWeatherConfig struct {
	APIKey       string        `yaml:"api_key"`
	BaseURL      string        `yaml:"base_url" default:"https://api.openweathermap.org/data/2.5"`
	Timeout      time.Duration `yaml:"timeout" default:"10s"`
	RateLimit    float64       `yaml:"rate_limit" default:"1"`
	Burst        int           `yaml:"burst" default:"1"`
	PollInterval time.Duration `yaml:"poll_interval" default:"30m"`
	Locations    []Location    `yaml:"locations"`
}

type PredictorConfig struct {
	MinHistory int `yaml:"min_history" default:"5"`
}

type RetentionConfig struct {
	Enabled  bool          `yaml:"enabled" default:"true"`
	Days     int           `yaml:"days" default:"90"`
	Interval time.Duration `yaml:"interval" default:"6h"`
}

// Default returns a config populated from the default tags only.
func Default() *Config {
	var c Config
	_ = defaults.Set(&c)
	return &c
}

// Load reads a YAML file on top of the defaults and validates the result.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(b)
}

// Parse decodes YAML on top of the defaults and validates the result.
func Parse(b []byte) (*Config, error) {
	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// LoadWithEnv loads .env (when present), then the YAML file, then applies
// environment overrides.
func LoadWithEnv(path string) (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := c.applyEnv(); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

func loadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	str := map[string]*string{
		"APP_ENV":             &c.Environment,
		"TIMEZONE":            &c.Timezone,
		"LOG_LEVEL":           &c.Log.Level,
		"STORAGE_BACKEND":     &c.Storage.Backend,
		"CACHE_BACKEND":       &c.Cache.Backend,
		"INGEST_BACKEND":      &c.Ingest.Backend,
		"KAFKA_TOPIC":         &c.Kafka.Topic,
		"CLICKHOUSE_HOST":     &c.ClickHouse.Host,
		"CLICKHOUSE_PASSWORD": &c.ClickHouse.Password,
		"POSTGRES_HOST":       &c.Postgres.Host,
		"POSTGRES_PASSWORD":   &c.Postgres.Password,
		"REDIS_HOST":          &c.Redis.Host,
		"REDIS_PASSWORD":      &c.Redis.Password,
		"OPENWEATHER_API_KEY": &c.OpenWeather.APIKey,
	}
	for key, dst := range str {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("HTTP_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("HTTP_PORT: %w", err)
		}
		c.Server.Port = port
	}
	return nil
}

// Validate checks the backend selections and the settings they require.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	switch c.Storage.Backend {
	case StorageMemory, StorageClickHouse, StoragePostgres:
	default:
		return fmt.Errorf("storage.backend must be 'memory', 'clickhouse' or 'postgres', got '%s'", c.Storage.Backend)
	}
	switch c.Cache.Backend {
	case CacheMemory, CacheRedis, CacheLayered:
	default:
		return fmt.Errorf("cache.backend must be 'memory', 'redis' or 'layered', got '%s'", c.Cache.Backend)
	}
	switch c.Ingest.Backend {
	case IngestStore:
	case IngestKafka:
		if len(c.Kafka.Brokers) == 0 {
			return fmt.Errorf("kafka.brokers cannot be empty when ingest.backend is kafka")
		}
	case IngestQueue:
		if c.Queue.Workers < 1 {
			return fmt.Errorf("queue.workers must be at least 1")
		}
	default:
		return fmt.Errorf("ingest.backend must be 'store', 'kafka' or 'queue', got '%s'", c.Ingest.Backend)
	}
	if len(c.OpenWeather.Locations) > 0 && c.OpenWeather.APIKey == "" {
		return fmt.Errorf("openweather.api_key is required when locations are configured")
	}
	for i, l := range c.OpenWeather.Locations {
		if l.Lat < -90 || l.Lat > 90 || l.Lon < -180 || l.Lon > 180 {
			return fmt.Errorf("openweather.locations[%d]: invalid coordinate %v,%v", i, l.Lat, l.Lon)
		}
	}
	if c.Predictor.MinHistory < 2 {
		return fmt.Errorf("predictor.min_history must be at least 2")
	}
	return nil
}
