// Package config provides configuration loading and validation for the application.
package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Default configuration constants.
const (
	DefaultHost            = "0.0.0.0"
	DefaultPort            = 8080
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultShutdownTimeout = 10 * time.Second

	DefaultMongoDBTimeout     = 10 * time.Second
	DefaultMongoDBMaxPoolSize = 100

	DefaultRedisPoolSize = 10

	DefaultJWTLeeway          = 30 * time.Second
	DefaultJWTRefreshInterval = 1 * time.Hour

	DefaultExistsCacheTTL = 5 * time.Minute

	DefaultRateLimitRequests = 100
	DefaultRateLimitWindow   = time.Minute
	DefaultRateLimitBurst    = 10
)

// Config holds the complete application configuration.
type Config struct {
	App       AppConfig       `yaml:"app"`
	Server    ServerConfig    `yaml:"server"`
	MongoDB   MongoDBConfig   `yaml:"mongodb"`
	Redis     RedisConfig     `yaml:"redis"`
	OIDC      OIDCConfig      `yaml:"oidc"`
	Mail      MailConfig      `yaml:"mail"`
	Cache     CacheConfig     `yaml:"cache"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Log       LogConfig       `yaml:"log"`
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	// Name is the application name used in logs and metrics.
	Name string `yaml:"name" env:"APP_NAME"`

	// Environment is the deployment environment: development, staging or production.
	Environment string `yaml:"environment" env:"APP_ENVIRONMENT"`
}

// ServerConfig holds HTTP server configuration.
//
//nolint:golines // Struct tags require longer lines for readability
type ServerConfig struct {
	Host            string        `yaml:"host" env:"SERVER_HOST"`
	Port            int           `yaml:"port" env:"SERVER_PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT"`
}

// Address returns the full server address (host:port).
func (c ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// MongoDBConfig holds MongoDB connection configuration.
//
//nolint:golines // Struct tags require longer lines for readability
type MongoDBConfig struct {
	URI         string        `yaml:"uri" env:"MONGODB_URI"`
	Database    string        `yaml:"database" env:"MONGODB_DATABASE"`
	Timeout     time.Duration `yaml:"timeout" env:"MONGODB_TIMEOUT"`
	MaxPoolSize uint64        `yaml:"max_pool_size" env:"MONGODB_MAX_POOL_SIZE"`
}

// RedisConfig holds Redis connection configuration.
//
//nolint:golines // Struct tags require longer lines for readability
type RedisConfig struct {
	Addr     string `yaml:"addr" env:"REDIS_ADDR"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB"`
	PoolSize int    `yaml:"pool_size" env:"REDIS_POOL_SIZE"`
}

// OIDCConfig holds token validation configuration for the identity provider.
//
//nolint:golines // Struct tags require longer lines for readability
type OIDCConfig struct {
	JWKSURL         string        `yaml:"jwks_url" env:"OIDC_JWKS_URL"`
	Issuer          string        `yaml:"issuer" env:"OIDC_ISSUER"`
	Audience        string        `yaml:"audience" env:"OIDC_AUDIENCE"`
	Leeway          time.Duration `yaml:"leeway" env:"OIDC_LEEWAY"`
	RefreshInterval time.Duration `yaml:"refresh_interval" env:"OIDC_REFRESH_INTERVAL"`
}

// Enabled reports whether token validation is configured. Without a JWKS
// endpoint the protected routes stay open, which is only acceptable in
// development.
func (c OIDCConfig) Enabled() bool {
	return c.JWKSURL != ""
}

// MailConfig holds the message relay configuration for activation mail.
//
//nolint:golines // Struct tags require longer lines for readability
type MailConfig struct {
	BaseURL string `yaml:"base_url" env:"MAIL_BASE_URL"`
	APIKey  string `yaml:"api_key" env:"MAIL_API_KEY"`
}

// Enabled reports whether an activation relay is configured.
func (c MailConfig) Enabled() bool {
	return c.BaseURL != ""
}

// CacheConfig holds the existence cache configuration.
//
//nolint:golines // Struct tags require longer lines for readability
type CacheConfig struct {
	ExistsTTL time.Duration `yaml:"exists_ttl" env:"CACHE_EXISTS_TTL"`
	KeyPrefix string        `yaml:"key_prefix" env:"CACHE_KEY_PREFIX"`
}

// RateLimitConfig holds rate limiting configuration.
//
//nolint:golines // Struct tags require longer lines for readability
type RateLimitConfig struct {
	Enabled  bool          `yaml:"enabled" env:"RATE_LIMIT_ENABLED"`
	Requests int           `yaml:"requests" env:"RATE_LIMIT_REQUESTS"`
	Window   time.Duration `yaml:"window" env:"RATE_LIMIT_WINDOW"`
	Burst    int           `yaml:"burst" env:"RATE_LIMIT_BURST"`
}

// LogConfig holds logging configuration.
//
//nolint:golines // Struct tags require longer lines for readability
type LogConfig struct {
	Level  string `yaml:"level" env:"LOG_LEVEL"`   // debug | info | warn | error
	Format string `yaml:"format" env:"LOG_FORMAT"` // json | text
}

// Configuration errors.
var (
	ErrConfigNotFound     = errors.New("configuration file not found")
	ErrConfigInvalid      = errors.New("invalid configuration")
	ErrInvalidDuration    = errors.New("invalid duration format")
	ErrInvalidLogLevel    = errors.New("invalid log level: must be debug, info, warn, or error")
	ErrInvalidLogFormat   = errors.New("invalid log format: must be json or text")
	ErrInvalidEnvironment = errors.New("invalid environment: must be development, staging, or production")
	ErrOIDCRequiredInProd = errors.New("oidc.jwks_url is required in production")
)

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		App: AppConfig{
			Name:        "uaa",
			Environment: "development",
		},
		Server: ServerConfig{
			Host:            DefaultHost,
			Port:            DefaultPort,
			ReadTimeout:     DefaultReadTimeout,
			WriteTimeout:    DefaultWriteTimeout,
			ShutdownTimeout: DefaultShutdownTimeout,
		},
		MongoDB: MongoDBConfig{
			URI:         "mongodb://localhost:27017",
			Database:    "uaa",
			Timeout:     DefaultMongoDBTimeout,
			MaxPoolSize: DefaultMongoDBMaxPoolSize,
		},
		Redis: RedisConfig{
			Addr:     "localhost:6379",
			Password: "",
			DB:       0,
			PoolSize: DefaultRedisPoolSize,
		},
		OIDC: OIDCConfig{
			Issuer:          "http://localhost:8090/realms/hdmon",
			Audience:        "uaa",
			Leeway:          DefaultJWTLeeway,
			RefreshInterval: DefaultJWTRefreshInterval,
		},
		Cache: CacheConfig{
			ExistsTTL: DefaultExistsCacheTTL,
			KeyPrefix: "directory:exists:",
		},
		RateLimit: RateLimitConfig{
			Enabled:  true,
			Requests: DefaultRateLimitRequests,
			Window:   DefaultRateLimitWindow,
			Burst:    DefaultRateLimitBurst,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	var errs []error

	errs = c.validateApp(errs)
	errs = c.validateServer(errs)
	errs = c.validateMongoDB(errs)
	errs = c.validateRedis(errs)
	errs = c.validateOIDC(errs)
	errs = c.validateCache(errs)
	errs = c.validateRateLimit(errs)
	errs = c.validateLog(errs)

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrConfigInvalid, errors.Join(errs...))
	}

	return nil
}

// validateApp validates application configuration.
func (c *Config) validateApp(errs []error) []error {
	validEnvironments := map[string]bool{"development": true, "staging": true, "production": true}
	if c.App.Environment != "" && !validEnvironments[strings.ToLower(c.App.Environment)] {
		errs = append(errs, fmt.Errorf("%w: got %q", ErrInvalidEnvironment, c.App.Environment))
	}
	return errs
}

// validateServer validates server configuration.
func (c *Config) validateServer(errs []error) []error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port))
	}
	if c.Server.ReadTimeout <= 0 {
		errs = append(errs, errors.New("server.read_timeout must be positive"))
	}
	if c.Server.WriteTimeout <= 0 {
		errs = append(errs, errors.New("server.write_timeout must be positive"))
	}
	return errs
}

// validateMongoDB validates MongoDB configuration.
func (c *Config) validateMongoDB(errs []error) []error {
	if c.MongoDB.URI == "" {
		errs = append(errs, errors.New("mongodb.uri is required"))
	}
	if c.MongoDB.Database == "" {
		errs = append(errs, errors.New("mongodb.database is required"))
	}
	return errs
}

// validateRedis validates Redis configuration.
func (c *Config) validateRedis(errs []error) []error {
	if c.Redis.Addr == "" {
		errs = append(errs, errors.New("redis.addr is required"))
	}
	return errs
}

// validateOIDC validates token validation configuration.
func (c *Config) validateOIDC(errs []error) []error {
	if c.IsProduction() && !c.OIDC.Enabled() {
		errs = append(errs, ErrOIDCRequiredInProd)
	}
	if c.OIDC.Enabled() {
		if c.OIDC.Issuer == "" {
			errs = append(errs, errors.New("oidc.issuer is required when oidc.jwks_url is set"))
		}
		if c.OIDC.Audience == "" {
			errs = append(errs, errors.New("oidc.audience is required when oidc.jwks_url is set"))
		}
	}
	return errs
}

// validateCache validates the existence cache configuration.
func (c *Config) validateCache(errs []error) []error {
	if c.Cache.ExistsTTL <= 0 {
		errs = append(errs, errors.New("cache.exists_ttl must be positive"))
	}
	return errs
}

// validateRateLimit validates rate limiting configuration.
func (c *Config) validateRateLimit(errs []error) []error {
	if !c.RateLimit.Enabled {
		return errs
	}
	if c.RateLimit.Requests <= 0 {
		errs = append(errs, errors.New("rate_limit.requests must be positive"))
	}
	if c.RateLimit.Window <= 0 {
		errs = append(errs, errors.New("rate_limit.window must be positive"))
	}
	return errs
}

// validateLog validates logging configuration.
func (c *Config) validateLog(errs []error) []error {
	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[strings.ToLower(c.Log.Level)] {
		errs = append(errs, ErrInvalidLogLevel)
	}
	validLogFormats := map[string]bool{"json": true, "text": true}
	if !validLogFormats[strings.ToLower(c.Log.Format)] {
		errs = append(errs, ErrInvalidLogFormat)
	}
	return errs
}

// Load loads configuration from the default config file and environment variables.
func Load() (*Config, error) {
	return LoadFromPath("")
}

// LoadFromPath loads configuration from a specific file path.
// If path is empty, it tries to find the config file in standard locations.
func LoadFromPath(path string) (*Config, error) {
	loader := NewLoader()
	return loader.Load(path)
}

// Loader handles configuration loading from files and environment variables.
type Loader struct {
	configPaths []string
}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	return &Loader{
		configPaths: []string{
			"configs/config.yaml",
			"config.yaml",
			"/etc/uaa/config.yaml",
		},
	}
}

// WithConfigPaths sets custom config paths to search.
func (l *Loader) WithConfigPaths(paths []string) *Loader {
	l.configPaths = paths
	return l
}

// Load loads configuration from file and environment variables.
func (l *Loader) Load(path string) (*Config, error) {
	// Start with default config
	cfg := DefaultConfig()

	// Determine config file path
	configPath := path
	if configPath == "" {
		// Check CONFIG_PATH environment variable first
		if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
			configPath = envPath
		} else {
			// Search in standard locations
			for _, p := range l.configPaths {
				if _, err := os.Stat(p); err == nil {
					configPath = p
					break
				}
			}
		}
	}

	// Load from file if found
	if configPath != "" {
		if err := l.loadFromFile(cfg, configPath); err != nil {
			// Only return error if path was explicitly specified
			if path != "" || os.Getenv("CONFIG_PATH") != "" {
				return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
			}
			// Otherwise, continue with defaults + env vars
		}
	}

	// Override with environment variables
	if err := l.loadFromEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from environment: %w", err)
	}

	// Validate the final configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFromFile loads configuration from a YAML file.
func (l *Loader) loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if unmarshalErr := yaml.Unmarshal(data, cfg); unmarshalErr != nil {
		return fmt.Errorf("failed to parse config file: %w", unmarshalErr)
	}

	return nil
}

// loadFromEnv loads configuration from environment variables.
func (l *Loader) loadFromEnv(cfg *Config) error {
	return l.loadEnvToStruct(reflect.ValueOf(cfg).Elem())
}

// loadEnvToStruct recursively loads environment variables into a struct.
func (l *Loader) loadEnvToStruct(v reflect.Value) error {
	t := v.Type()

	for i := range v.NumField() {
		field := v.Field(i)
		fieldType := t.Field(i)

		// Handle embedded structs
		if field.Kind() == reflect.Struct {
			if err := l.loadEnvToStruct(field); err != nil {
				return err
			}
			continue
		}

		// Get env tag
		envTag := fieldType.Tag.Get("env")
		if envTag == "" {
			continue
		}

		// Get environment variable value
		envValue := os.Getenv(envTag)
		if envValue == "" {
			continue
		}

		// Set field value based on type
		if err := l.setFieldFromEnv(field, envValue); err != nil {
			return fmt.Errorf("failed to set %s from env %s: %w", fieldType.Name, envTag, err)
		}
	}

	return nil
}

// setFieldFromEnv sets a struct field value from an environment variable string.
//
//nolint:exhaustive // We only support a subset of reflect.Kind for config values
func (l *Loader) setFieldFromEnv(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		// Check if it's a time.Duration
		if field.Type() == reflect.TypeFor[time.Duration]() {
			d, err := time.ParseDuration(value)
			if err != nil {
				return fmt.Errorf("%w: %s", ErrInvalidDuration, value)
			}
			field.SetInt(int64(d))
		} else {
			i, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer value: %s", value)
			}
			field.SetInt(i)
		}

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid unsigned integer value: %s", value)
		}
		field.SetUint(u)

	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean value: %s", value)
		}
		field.SetBool(b)

	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid float value: %s", value)
		}
		field.SetFloat(f)

	default:
		return fmt.Errorf("unsupported field type: %s", field.Kind())
	}

	return nil
}

// IsDevelopment returns true for the development environment.
func (c *Config) IsDevelopment() bool {
	return strings.ToLower(c.App.Environment) == "development" || c.App.Environment == ""
}

// IsProduction returns true for the production environment.
func (c *Config) IsProduction() bool {
	return strings.ToLower(c.App.Environment) == "production"
}
