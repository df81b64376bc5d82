package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	structValidator "github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gopkg.in/yaml.v3"
)

const (
	CONFIG_PATH = "./res/config.yaml"
	ENV_PATH    = ".env"

	DatabaseTypeMongo    = "mongodb"
	DatabaseTypePostgres = "postgres"

	SessionStoreDatabase = "database"
	SessionStoreRedis    = "redis"

	DefaultLogFormat           = "console"
	DefaultCookieName          = "session_token"
	DefaultSessionTTL          = 24 * time.Hour
	DefaultSweepInterval       = 10 * time.Minute
	DefaultBcryptCost          = 12
	DefaultQueryTimeout        = 5 * time.Second
	DefaultRequestsPerSecond   = 5
	DefaultBurst               = 10
	DefaultClientIdleTimeout   = 10 * time.Minute
	DefaultMongoMaxPoolSize    = 20
	DefaultPostgresDriver      = "postgres"
	DefaultShutdownGracePeriod = 10 * time.Second

	ErrReadingConfig    = "failed to read config file"
	ErrParsingConfig    = "failed to parse config file"
	ErrLoadingEnvFile   = "failed to load env file"
	ErrDecodingEnv      = "failed to decode environment overrides"
	ErrValidationFailed = "config validation error"
)

// ServiceConfig holds the configuration for the service.
type ServiceConfig struct {
	ServiceName    string          `yaml:"service_name" validate:"required"`
	LogLevel       string          `yaml:"loglevel" validate:"required"`
	LogFormat      string          `yaml:"log_format" validate:"oneof=console json"`
	Host           string          `yaml:"host" validate:"required"`
	Port           string          `yaml:"port" validate:"required,numeric"`
	PrivateKeyPath string          `yaml:"private_key_path" validate:"required"`
	ShutdownGrace  time.Duration   `yaml:"shutdown_grace_period" validate:"gt=0"`
	Cookie         CookieConfig    `yaml:"cookie"`
	RateLimit      RateLimitConfig `yaml:"rate_limit"`
	Security       SecurityConfig  `yaml:"security"`
	Session        SessionConfig   `yaml:"session"`
	Database       Database        `yaml:"database" validate:"required"`
	Redis          RedisConfig     `yaml:"redis" validate:"-"`
}

type CookieConfig struct {
	Name   string `yaml:"name" validate:"required"`
	Secure bool   `yaml:"secure"`
}

// RateLimitConfig bounds the login endpoint per client address.
type RateLimitConfig struct {
	RequestsPerSecond float64       `yaml:"requests_per_second" validate:"gt=0"`
	Burst             int           `yaml:"burst" validate:"gt=0"`
	ClientIdleTimeout time.Duration `yaml:"client_idle_timeout" validate:"gt=0"`
}

type SecurityConfig struct {
	BcryptCost          int `yaml:"bcrypt_cost" validate:"gte=10,lte=31"`
	MaxConcurrentHashes int `yaml:"max_concurrent_hashes" validate:"gte=0"`
}

type SessionConfig struct {
	Store         string        `yaml:"store" validate:"oneof=database redis"`
	TTL           time.Duration `yaml:"ttl" validate:"gt=0"`
	SweepInterval time.Duration `yaml:"sweep_interval" validate:"gt=0"`
}

type Database struct {
	Type         string        `yaml:"type" validate:"required,oneof=mongodb postgres"`
	QueryTimeout time.Duration `yaml:"query_timeout" validate:"gt=0"`
	// For MongoDB
	MongoDB MongoDBConfig `yaml:"mongodb_config" validate:"-"`
	// For PostgreSQL
	Postgres PostgresConfig `yaml:"postgres_config" validate:"-"`
}

// MongoDBConfig holds the MongoDB connection settings.
type MongoDBConfig struct {
	DSN          string             `yaml:"dsn" validate:"required,startswith=mongodb"`
	DatabaseName string             `yaml:"database_name" validate:"required"`
	Timeout      time.Duration      `yaml:"timeout"`
	MaxPoolSize  uint64             `yaml:"max_pool_size" validate:"gt=0"`
	Options      MongoServerOptions `yaml:"mongo_server_options"`
}

type PostgresConfig struct {
	DSN     string                `yaml:"dsn" validate:"required"`
	Driver  string                `yaml:"driver" validate:"oneof=postgres pgx"`
	Options PostgresServerOptions `yaml:"postgres_server_options"`
}

type MongoServerOptions struct {
	APIVersion           string `yaml:"api_version"`
	SetStrict            bool   `yaml:"set_strict"`
	SetDeprecationErrors bool   `yaml:"set_deprecation_errors"`
}

type PostgresServerOptions struct {
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

// RedisConfig is only required when sessions live in Redis.
type RedisConfig struct {
	Host     string `yaml:"host" validate:"required"`
	Port     string `yaml:"port" validate:"required,numeric"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db" validate:"gte=0"`
	TLS      bool   `yaml:"tls"`
}

// Addr returns host:port.
func (r RedisConfig) Addr() string {
	return r.Host + ":" + r.Port
}

// EnvOverrides are the settings that may come from the environment.
// Empty values leave the file setting alone.
type EnvOverrides struct {
	DatabaseURL   string `mapstructure:"DATABASE_URL"`
	LogLevel      string `mapstructure:"BLOGUSER_LOG_LEVEL"`
	Port          string `mapstructure:"BLOGUSER_PORT"`
	RedisPassword string `mapstructure:"BLOGUSER_REDIS_PASSWORD"`
	BcryptCost    int    `mapstructure:"BLOGUSER_BCRYPT_COST"`
}

var envKeys = []string{
	"DATABASE_URL",
	"BLOGUSER_LOG_LEVEL",
	"BLOGUSER_PORT",
	"BLOGUSER_REDIS_PASSWORD",
	"BLOGUSER_BCRYPT_COST",
}

// Load reads .env (if present), the YAML file at configPath and the
// environment overrides, fills defaults and validates the result.
func Load(configPath string) (*ServiceConfig, error) {
	if err := godotenv.Load(ENV_PATH); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", ErrLoadingEnvFile, err)
	}

	cfg, err := ReadLocalConfig(configPath)
	if err != nil {
		return nil, err
	}

	overrides, err := ReadEnvOverrides(os.LookupEnv)
	if err != nil {
		return nil, err
	}
	cfg.ApplyOverrides(overrides)
	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ReadLocalConfig reads the service configuration from a YAML file at the specified path.
// It unmarshals the YAML content into a ServiceConfig struct and returns it.
func ReadLocalConfig(configPath string) (*ServiceConfig, error) {
	config := &ServiceConfig{}

	yamlFile, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrReadingConfig, err)
	}

	err = yaml.Unmarshal(yamlFile, config)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrParsingConfig, err)
	}

	return config, nil
}

// ReadEnvOverrides collects the known variables through lookup and decodes
// them, converting numeric strings where needed.
func ReadEnvOverrides(lookup func(string) (string, bool)) (EnvOverrides, error) {
	raw := make(map[string]interface{}, len(envKeys))
	for _, key := range envKeys {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			raw[key] = strings.TrimSpace(v)
		}
	}

	var out EnvOverrides
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &out,
	})
	if err != nil {
		return EnvOverrides{}, fmt.Errorf("%s: %w", ErrDecodingEnv, err)
	}
	if err := decoder.Decode(raw); err != nil {
		return EnvOverrides{}, fmt.Errorf("%s: %w", ErrDecodingEnv, err)
	}
	return out, nil
}

// ApplyOverrides copies every non-empty override onto the config.
// DATABASE_URL replaces the DSN of the configured database type.
func (c *ServiceConfig) ApplyOverrides(o EnvOverrides) {
	if o.DatabaseURL != "" {
		switch c.Database.Type {
		case DatabaseTypeMongo:
			c.Database.MongoDB.DSN = o.DatabaseURL
		case DatabaseTypePostgres:
			c.Database.Postgres.DSN = o.DatabaseURL
		}
	}
	if o.LogLevel != "" {
		c.LogLevel = o.LogLevel
	}
	if o.Port != "" {
		c.Port = o.Port
	}
	if o.RedisPassword != "" {
		c.Redis.Password = o.RedisPassword
	}
	if o.BcryptCost != 0 {
		c.Security.BcryptCost = o.BcryptCost
	}
}

// ApplyDefaults fills every optional setting left unset.
func (c *ServiceConfig) ApplyDefaults() {
	if c.LogFormat == "" {
		c.LogFormat = DefaultLogFormat
	}
	if c.ShutdownGrace == 0 {
		c.ShutdownGrace = DefaultShutdownGracePeriod
	}
	if c.Cookie.Name == "" {
		c.Cookie.Name = DefaultCookieName
	}
	if c.RateLimit.RequestsPerSecond == 0 {
		c.RateLimit.RequestsPerSecond = DefaultRequestsPerSecond
	}
	if c.RateLimit.Burst == 0 {
		c.RateLimit.Burst = DefaultBurst
	}
	if c.RateLimit.ClientIdleTimeout == 0 {
		c.RateLimit.ClientIdleTimeout = DefaultClientIdleTimeout
	}
	if c.Security.BcryptCost == 0 {
		c.Security.BcryptCost = DefaultBcryptCost
	}
	if c.Session.Store == "" {
		c.Session.Store = SessionStoreDatabase
	}
	if c.Session.TTL == 0 {
		c.Session.TTL = DefaultSessionTTL
	}
	if c.Session.SweepInterval == 0 {
		c.Session.SweepInterval = DefaultSweepInterval
	}
	if c.Database.QueryTimeout == 0 {
		c.Database.QueryTimeout = DefaultQueryTimeout
	}
	if c.Database.MongoDB.MaxPoolSize == 0 {
		c.Database.MongoDB.MaxPoolSize = DefaultMongoMaxPoolSize
	}
	if c.Database.Postgres.Driver == "" {
		c.Database.Postgres.Driver = DefaultPostgresDriver
	}
}

// Validate checks the struct tags, then the sections selected by
// database.type and session.store.
func (c *ServiceConfig) Validate() error {
	validator := structValidator.New()
	if err := validator.Struct(c); err != nil {
		return fmt.Errorf("%s: %w", ErrValidationFailed, err)
	}

	var section interface{}
	switch c.Database.Type {
	case DatabaseTypeMongo:
		section = &c.Database.MongoDB
	case DatabaseTypePostgres:
		section = &c.Database.Postgres
	}
	if err := validator.Struct(section); err != nil {
		return fmt.Errorf("%s: %w", ErrValidationFailed, err)
	}

	if c.Session.Store == SessionStoreRedis {
		if err := validator.Struct(&c.Redis); err != nil {
			return fmt.Errorf("%s: %w", ErrValidationFailed, err)
		}
	}
	return nil
}

func BuildServerAPIOptions(cfg MongoServerOptions) *options.ServerAPIOptions {
	opts := options.ServerAPI(options.ServerAPIVersion(cfg.APIVersion))
	opts.SetStrict(cfg.SetStrict)
	opts.SetDeprecationErrors(cfg.SetDeprecationErrors)

	return opts
}
