// Package config provides configuration structures and validation for the payments engine.
// The same Config is shared by the CLI, the stream processor and the HTTP gateway;
// infrastructure sections are only validated by the binaries that connect to them.
package config

import (
	"errors"
	"strings"
	"time"
)

// Output sinks for the final account snapshot
const (
	SinkCSV      = "csv"
	SinkPostgres = "postgres"
	SinkMongo    = "mongo"
	SinkNone     = "none"
)

// Config holds the complete application configuration
type Config struct {
	Application ApplicationConfig
	Logging     LoggingConfig
	Diagnostics DiagnosticsConfig
	Input       InputConfig
	Output      OutputConfig
	Server      ServerConfig
	Kafka       KafkaConfig
	Postgres    PostgresConfig
	MongoDB     MongoDBConfig
	Redis       RedisConfig
	Snapshot    SnapshotConfig
	WorkerPool  WorkerPoolConfig
	Metrics     MetricsConfig
}

// ApplicationConfig contains general application configuration
type ApplicationConfig struct {
	Env  string
	Name string
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level string
}

// DiagnosticsConfig controls reporting of rejected and malformed events
type DiagnosticsConfig struct {
	Enabled bool
	// PublishRejections sends rejected events to the Kafka DLQ topic as well
	PublishRejections bool
}

// InputConfig contains settings for the CSV record source
type InputConfig struct {
	TrimSpaces bool
}

// OutputConfig selects where the final snapshot goes
type OutputConfig struct {
	Sink      string
	Precision int32 // Decimal places for available/held/total
}

// ServerConfig contains HTTP server configuration settings
type ServerConfig struct {
	Port            int           // Port to listen on
	ShutdownTimeout time.Duration // Grace period for server shutdown
	ReadTimeout     time.Duration // Maximum duration for reading entire request
	WriteTimeout    time.Duration // Maximum duration for writing response
	IdleTimeout     time.Duration // Maximum duration to wait for next request
	MaxBatchBytes   int64         // Upper bound for an uploaded CSV body
}

// KafkaConfig contains Kafka configuration
type KafkaConfig struct {
	Brokers           string
	EventTopic        string
	NumPartitions     int // Number of partitions for topics
	ReplicationFactor int // Replication factor for topics
	ConsumerGroup     string
	MinBytes          int
	MaxBytes          int
	MaxWait           time.Duration
	StartOffset       int64
	DLQTopic          string // Topic for undecodable and rejected events
}

// PostgresConfig contains PostgreSQL configuration
type PostgresConfig struct {
	URL             string        // Database connection string
	MaxConns        int32         // Maximum number of open connections
	MinConns        int32         // Maximum number of idle connections
	ConnMaxLifetime time.Duration // Maximum lifetime of a connection
	ConnMaxIdleTime time.Duration // Maximum idle time of a connection
	MigrationsPath  string        // Path to migration files
}

// MongoDBConfig contains MongoDB configuration
type MongoDBConfig struct {
	URI             string
	Database        string
	Timeout         time.Duration
	MaxPoolSize     uint64
	MinPoolSize     uint64
	MaxConnIdleTime time.Duration
}

// RedisConfig contains Redis settings for event dedupe and HTTP idempotency keys
type RedisConfig struct {
	Enabled        bool
	Addr           string
	Password       string
	DB             int
	DedupeTTL      time.Duration // How long processed event ids are remembered
	IdempotencyTTL time.Duration // How long a cached HTTP response is replayed
}

// SnapshotConfig controls how often the stream processor exports balances
type SnapshotConfig struct {
	PollingInterval time.Duration
}

// MetricsConfig controls the Prometheus listener of the stream processor.
// The gateway serves /metrics on its own router instead.
type MetricsConfig struct {
	Addr string // Empty disables the listener
}

// WorkerPoolConfig contains worker pool configuration
type WorkerPoolConfig struct {
	Size int // Maximum number of concurrent batch runs
}

// validate checks the settings every binary depends on. Infrastructure
// sections are checked here only when the selected output sink needs them.
func (c *Config) validate() error {
	var validationErrors []string

	switch c.Output.Sink {
	case SinkCSV, SinkPostgres, SinkMongo, SinkNone:
	default:
		validationErrors = append(validationErrors, "OUTPUT_SINK must be one of csv, postgres, mongo, none")
	}
	if c.Output.Precision < 0 || c.Output.Precision > 16 {
		validationErrors = append(validationErrors, "OUTPUT_PRECISION must be between 0 and 16")
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error", "":
	default:
		validationErrors = append(validationErrors, "LOG_LEVEL must be one of debug, info, warn, error")
	}

	if c.WorkerPool.Size <= 0 {
		validationErrors = append(validationErrors, "WORKER_POOL_SIZE must be greater than 0")
	}

	if c.Output.Sink == SinkPostgres {
		validationErrors = append(validationErrors, c.postgresErrors()...)
	}
	if c.Output.Sink == SinkMongo {
		validationErrors = append(validationErrors, c.mongoErrors()...)
	}

	return joinErrors(validationErrors)
}

// RequireServer validates the HTTP server section
func (c *Config) RequireServer() error {
	var validationErrors []string

	if c.Server.Port <= 0 {
		validationErrors = append(validationErrors, "SERVER_PORT must be greater than 0")
	}
	if c.Server.ShutdownTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_SHUTDOWN_TIMEOUT must be greater than 0")
	}
	if c.Server.ReadTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_READ_TIMEOUT must be greater than 0")
	}
	if c.Server.WriteTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_WRITE_TIMEOUT must be greater than 0")
	}
	if c.Server.IdleTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_IDLE_TIMEOUT must be greater than 0")
	}
	if c.Server.MaxBatchBytes <= 0 {
		validationErrors = append(validationErrors, "SERVER_MAX_BATCH_BYTES must be greater than 0")
	}

	return joinErrors(validationErrors)
}

// RequireKafka validates the Kafka section
func (c *Config) RequireKafka() error {
	var validationErrors []string

	if len(c.Kafka.Brokers) == 0 {
		validationErrors = append(validationErrors, "KAFKA_BROKERS is required")
	}
	if c.Kafka.EventTopic == "" {
		validationErrors = append(validationErrors, "KAFKA_EVENT_TOPIC is required")
	}
	if c.Kafka.ConsumerGroup == "" {
		validationErrors = append(validationErrors, "KAFKA_CONSUMER_GROUP is required")
	}
	if c.Kafka.MinBytes <= 0 {
		validationErrors = append(validationErrors, "KAFKA_CONSUMER_MIN_BYTES must be greater than 0")
	}
	if c.Kafka.MaxBytes <= 0 {
		validationErrors = append(validationErrors, "KAFKA_CONSUMER_MAX_BYTES must be greater than 0")
	}
	if c.Kafka.MaxWait <= 0 {
		validationErrors = append(validationErrors, "KAFKA_CONSUMER_MAX_WAIT must be greater than 0")
	}
	if c.Diagnostics.PublishRejections && c.Kafka.DLQTopic == "" {
		validationErrors = append(validationErrors, "KAFKA_DLQ_TOPIC is required when DIAGNOSTICS_PUBLISH_REJECTIONS is set")
	}

	return joinErrors(validationErrors)
}

// RequirePostgres validates the PostgreSQL section
func (c *Config) RequirePostgres() error {
	return joinErrors(c.postgresErrors())
}

// RequireMongo validates the MongoDB section
func (c *Config) RequireMongo() error {
	return joinErrors(c.mongoErrors())
}

// RequireSnapshot validates the periodic snapshot export settings
func (c *Config) RequireSnapshot() error {
	if c.Snapshot.PollingInterval <= 0 {
		return errors.New("SNAPSHOT_POLLING_INTERVAL must be greater than 0")
	}
	return nil
}

// RequireRedis validates the Redis section. A disabled Redis is always valid.
func (c *Config) RequireRedis() error {
	if !c.Redis.Enabled {
		return nil
	}

	var validationErrors []string

	if c.Redis.Addr == "" {
		validationErrors = append(validationErrors, "REDIS_ADDR is required")
	}
	if c.Redis.DB < 0 {
		validationErrors = append(validationErrors, "REDIS_DB must not be negative")
	}
	if c.Redis.DedupeTTL <= 0 {
		validationErrors = append(validationErrors, "REDIS_DEDUPE_TTL must be greater than 0")
	}
	if c.Redis.IdempotencyTTL <= 0 {
		validationErrors = append(validationErrors, "REDIS_IDEMPOTENCY_TTL must be greater than 0")
	}

	return joinErrors(validationErrors)
}

func (c *Config) postgresErrors() []string {
	var validationErrors []string

	if c.Postgres.URL == "" {
		validationErrors = append(validationErrors, "POSTGRES_URL is required")
	}
	if c.Postgres.MaxConns <= 0 {
		validationErrors = append(validationErrors, "POSTGRES_MAX_CONNS must be greater than 0")
	}
	if c.Postgres.MinConns <= 0 {
		validationErrors = append(validationErrors, "POSTGRES_MIN_CONNS must be greater than 0")
	}
	if c.Postgres.ConnMaxLifetime <= 0 {
		validationErrors = append(validationErrors, "POSTGRES_MAX_CONN_LIFETIME must be greater than 0")
	}
	if c.Postgres.ConnMaxIdleTime <= 0 {
		validationErrors = append(validationErrors, "POSTGRES_MAX_CONN_IDLE_TIME must be greater than 0")
	}

	return validationErrors
}

func (c *Config) mongoErrors() []string {
	var validationErrors []string

	if c.MongoDB.URI == "" {
		validationErrors = append(validationErrors, "MONGO_URI is required")
	}
	if c.MongoDB.Database == "" {
		validationErrors = append(validationErrors, "MONGO_DATABASE is required")
	}
	if c.MongoDB.Timeout <= 0 {
		validationErrors = append(validationErrors, "MONGO_TIMEOUT must be greater than 0")
	}
	if c.MongoDB.MaxPoolSize <= 0 {
		validationErrors = append(validationErrors, "MONGO_MAX_POOL_SIZE must be greater than 0")
	}
	if c.MongoDB.MinPoolSize <= 0 {
		validationErrors = append(validationErrors, "MONGO_MIN_POOL_SIZE must be greater than 0")
	}
	if c.MongoDB.MaxConnIdleTime <= 0 {
		validationErrors = append(validationErrors, "MONGO_MAX_CONN_IDLE_TIME must be greater than 0")
	}

	return validationErrors
}

func joinErrors(validationErrors []string) error {
	if len(validationErrors) > 0 {
		return errors.New(strings.Join(validationErrors, ", "))
	}
	return nil
}
