// Package config loads the service configuration from defaults, an optional
// YAML file, a .env file and the process environment, in that order.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Store drivers.
const (
	DriverNeo4j  = "neo4j"
	DriverMemory = "memory"
)

const (
	productionDefaultPort = 3000
	developmentPort       = 3100
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Environment    string        `yaml:"environment"`
	Port           int           `yaml:"port" validate:"min=1,max=65535"`
	RequestTimeout time.Duration `yaml:"request_timeout" validate:"min=0"`
	AllowedOrigins []string      `yaml:"allowed_origins"`

	// Logging
	LogLevel string `yaml:"log_level" validate:"oneof=debug info warn error"`

	Store   StoreConfig   `yaml:"store"`
	GraphQL GraphQLConfig `yaml:"graphql"`
	Cache   CacheConfig   `yaml:"cache"`
	Loader  LoaderConfig  `yaml:"loader"`
	Tracing TracingConfig `yaml:"tracing"`

	// Feature flags
	EnableMetrics        bool `yaml:"enable_metrics"`
	EnableTracing        bool `yaml:"enable_tracing"`
	EnableCircuitBreaker bool `yaml:"enable_circuit_breaker"`
	EnableCORS           bool `yaml:"-"`

	// File is the YAML file the configuration was read from, if any.
	File string `yaml:"-"`
}

// StoreConfig selects and configures the graph store.
type StoreConfig struct {
	Driver string `yaml:"driver" validate:"oneof=neo4j memory"`

	URL                   string        `yaml:"url"`
	Username              string        `yaml:"username"`
	Password              string        `yaml:"password"`
	Database              string        `yaml:"database"`
	MaxConnectionPoolSize int           `yaml:"max_connection_pool_size" validate:"min=0"`
	AcquisitionTimeout    time.Duration `yaml:"acquisition_timeout" validate:"min=0"`

	// Fixture is the YAML graph the memory driver loads. Empty means the built-in sample.
	Fixture string `yaml:"fixture"`
}

// GraphQLConfig tunes the GraphQL endpoint.
type GraphQLConfig struct {
	MaxDepth      int  `yaml:"max_depth" validate:"min=0"`
	Introspection bool `yaml:"introspection"`
	GraphiQL      bool `yaml:"graphiql"`
}

// CacheConfig configures the query-result cache.
type CacheConfig struct {
	Enabled    bool          `yaml:"enabled"`
	TTL        time.Duration `yaml:"ttl" validate:"min=0"`
	MaxEntries int64         `yaml:"max_entries" validate:"min=0"`
}

// LoaderConfig configures relationship batching.
type LoaderConfig struct {
	BatchWindow  time.Duration `yaml:"batch_window" validate:"min=0,max=1s"`
	MaxBatchSize int           `yaml:"max_batch_size" validate:"min=0,max=1000"`
}

// TracingConfig configures the OTLP exporter.
type TracingConfig struct {
	Endpoint   string  `yaml:"endpoint"`
	SampleRate float64 `yaml:"sample_rate" validate:"min=0,max=1"`
}

var validate = validator.New()

// Default returns the configuration used before any file or environment is read.
func Default() *Config {
	return &Config{
		Environment:    "development",
		RequestTimeout: 30 * time.Second,
		LogLevel:       "info",
		Store: StoreConfig{
			Driver:                DriverNeo4j,
			MaxConnectionPoolSize: 50,
			AcquisitionTimeout:    30 * time.Second,
		},
		GraphQL: GraphQLConfig{
			MaxDepth:      12,
			Introspection: true,
		},
		Cache: CacheConfig{
			TTL:        30 * time.Second,
			MaxEntries: 1000,
		},
		Loader: LoaderConfig{
			BatchWindow:  2 * time.Millisecond,
			MaxBatchSize: 100,
		},
		EnableMetrics: true,
	}
}

// Load reads the configuration. envFiles default to ".env"; missing files are skipped.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		// godotenv never overrides variables already set in the process.
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	cfg := Default()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()
	cfg.resolve()

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFile reads path over the defaults without consulting the environment.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if err := cfg.applyFile(path); err != nil {
		return nil, err
	}
	cfg.resolve()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config YAML: %w", err)
	}
	c.File = path
	return nil
}

func (c *Config) applyEnv() {
	c.Environment = getEnv("ENVIRONMENT", getEnv("NODE_ENV", c.Environment))
	c.Port = getEnvInt("PORT", c.Port)
	c.LogLevel = strings.ToLower(getEnv("LOG_LEVEL", c.LogLevel))
	c.RequestTimeout = getEnvDuration("REQUEST_TIMEOUT", c.RequestTimeout)

	c.Store.Driver = strings.ToLower(getEnv("STORE_DRIVER", c.Store.Driver))
	c.Store.URL = getEnv("DB_URL", c.Store.URL)
	c.Store.Username = getEnv("DB_USERNAME", c.Store.Username)
	c.Store.Password = getEnv("DB_PASSWORD", c.Store.Password)
	c.Store.Database = getEnv("DB_NAME", c.Store.Database)
	c.Store.Fixture = getEnv("MEMORY_FIXTURE", c.Store.Fixture)

	c.GraphQL.MaxDepth = getEnvInt("GRAPHQL_MAX_DEPTH", c.GraphQL.MaxDepth)

	c.Cache.Enabled = getEnvBool("ENABLE_CACHE", c.Cache.Enabled)
	c.Cache.TTL = getEnvDuration("CACHE_TTL", c.Cache.TTL)

	c.Tracing.Endpoint = getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", c.Tracing.Endpoint)

	c.EnableMetrics = getEnvBool("ENABLE_METRICS", c.EnableMetrics)
	c.EnableTracing = getEnvBool("ENABLE_TRACING", c.EnableTracing)
	c.EnableCircuitBreaker = getEnvBool("ENABLE_CIRCUIT_BREAKER", c.EnableCircuitBreaker)
}

// resolve derives the settings that depend on the environment.
func (c *Config) resolve() {
	if c.IsProduction() {
		if c.Port == 0 {
			c.Port = productionDefaultPort
		}
	} else {
		c.Port = developmentPort
	}
	c.EnableCORS = c.Environment == "" || c.IsDevelopment()
	if c.IsDevelopment() {
		c.GraphQL.GraphiQL = true
	}
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if c.Store.Driver == DriverNeo4j {
		if c.Store.URL == "" {
			return fmt.Errorf("DB_URL is required when STORE_DRIVER=%s", DriverNeo4j)
		}
		if c.Store.Username == "" || c.Store.Password == "" {
			return fmt.Errorf("DB_USERNAME and DB_PASSWORD are required when STORE_DRIVER=%s", DriverNeo4j)
		}
	}

	return nil
}

// IsDevelopment reports whether the environment names a development stage,
// such as "dev" or "development-local".
func (c *Config) IsDevelopment() bool {
	return strings.Contains(c.Environment, "dev")
}

// IsProduction reports whether the environment names a production stage,
// such as "prod" or "production-eu".
func (c *Config) IsProduction() bool {
	return strings.Contains(c.Environment, "prod")
}

// Address is the listen address for the HTTP server.
func (c *Config) Address() string {
	return ":" + strconv.Itoa(c.Port)
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvDuration accepts Go durations ("30s") or a bare number of seconds.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}
