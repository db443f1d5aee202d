// Package config defines the data structures related to configuration and
// includes functions for loading and parsing the config.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/iwvelando/finance-calculators/pkg/constants"
	"github.com/iwvelando/finance-calculators/pkg/validation"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for finance-calculators.
type Configuration struct {
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging,omitempty"`
	Output  OutputConfig  `mapstructure:"output" yaml:"output,omitempty"`
	Server  ServerConfig  `mapstructure:"server" yaml:"server,omitempty"`
	Storage StorageConfig `mapstructure:"storage" yaml:"storage,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `mapstructure:"level" yaml:"level,omitempty"`           // debug, info, warn, error
	Format     string `mapstructure:"format" yaml:"format,omitempty"`         // json, console
	OutputFile string `mapstructure:"outputFile" yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format,omitempty"` // pretty, csv, json, yaml, pdf
}

// ServerConfig defines runtime parameters for the HTTP server.
type ServerConfig struct {
	Address        string        `mapstructure:"address" yaml:"address,omitempty"`
	MaxRequestSize string        `mapstructure:"maxRequestSize" yaml:"maxRequestSize,omitempty"`
	ReadTimeout    time.Duration `mapstructure:"readTimeout" yaml:"readTimeout,omitempty"`
	WriteTimeout   time.Duration `mapstructure:"writeTimeout" yaml:"writeTimeout,omitempty"`
}

// StorageConfig selects and configures the persistence backend.
type StorageConfig struct {
	Backend string       `mapstructure:"backend" yaml:"backend,omitempty"` // memory, sqlite, mongo, none
	SQLite  SQLiteConfig `mapstructure:"sqlite" yaml:"sqlite,omitempty"`
	Mongo   MongoConfig  `mapstructure:"mongo" yaml:"mongo,omitempty"`
	Redis   RedisConfig  `mapstructure:"redis" yaml:"redis,omitempty"`
}

// SQLiteConfig holds the SQLite database location.
type SQLiteConfig struct {
	Path string `mapstructure:"path" yaml:"path,omitempty"`
}

// MongoConfig holds MongoDB connection settings.
type MongoConfig struct {
	URI      string        `mapstructure:"uri" yaml:"uri,omitempty"`
	Database string        `mapstructure:"database" yaml:"database,omitempty"`
	Timeout  time.Duration `mapstructure:"timeout" yaml:"timeout,omitempty"`
}

// RedisConfig configures the optional preferences cache.
type RedisConfig struct {
	Enabled  bool          `mapstructure:"enabled" yaml:"enabled,omitempty"`
	Address  string        `mapstructure:"address" yaml:"address,omitempty"`
	Password string        `mapstructure:"password" yaml:"password,omitempty"`
	DB       int           `mapstructure:"db" yaml:"db,omitempty"`
	TTL      time.Duration `mapstructure:"ttl" yaml:"ttl,omitempty"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.outputFile", "")

	v.SetDefault("output.format", constants.OutputFormatPretty)

	v.SetDefault("server.address", constants.DefaultServerAddress)
	v.SetDefault("server.maxRequestSize", strconv.FormatInt(constants.DefaultMaxRequestSizeBytes, 10))
	v.SetDefault("server.readTimeout", constants.DefaultReadTimeoutSeconds*time.Second)
	v.SetDefault("server.writeTimeout", constants.DefaultWriteTimeoutSeconds*time.Second)

	v.SetDefault("storage.backend", constants.StorageBackendMemory)
	v.SetDefault("storage.sqlite.path", constants.DefaultSQLitePath)
	v.SetDefault("storage.mongo.uri", "")
	v.SetDefault("storage.mongo.database", constants.DefaultMongoDatabase)
	v.SetDefault("storage.mongo.timeout", constants.DefaultMongoTimeoutSeconds*time.Second)
	v.SetDefault("storage.redis.enabled", false)
	v.SetDefault("storage.redis.address", constants.DefaultRedisAddress)
	v.SetDefault("storage.redis.password", "")
	v.SetDefault("storage.redis.db", 0)
	v.SetDefault("storage.redis.ttl", constants.DefaultRedisTTLMinutes*time.Minute)
}

// LoadConfiguration loads the YAML configuration at configPath over the
// defaults. A missing file (or an empty path) yields the defaults. Environment
// variables prefixed with FINCALC_ override file values, with "." in key names
// replaced by "_" (e.g. FINCALC_STORAGE_BACKEND).
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			v.SetConfigFile(configPath)
			v.SetConfigType("yaml")
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := configuration.Validate(); err != nil {
		return nil, err
	}
	return &configuration, nil
}

// Validate checks the enumerated settings and the request size.
func (c *Configuration) Validate() error {
	if err := validation.ValidateOutputFormat(c.Output.Format); err != nil {
		return err
	}

	switch c.Storage.Backend {
	case constants.StorageBackendMemory, constants.StorageBackendSQLite, constants.StorageBackendNone:
	case constants.StorageBackendMongo:
		if strings.TrimSpace(c.Storage.Mongo.URI) == "" {
			return fmt.Errorf("storage.mongo.uri is required for the mongo backend")
		}
	default:
		return fmt.Errorf("unsupported storage backend %q", c.Storage.Backend)
	}

	if _, err := c.Server.RequestSizeBytes(); err != nil {
		return fmt.Errorf("server.maxRequestSize: %w", err)
	}
	return nil
}

// RequestSizeBytes returns the configured request body limit in bytes. Empty or
// non-positive sizes fall back to the default.
func (s ServerConfig) RequestSizeBytes() (int64, error) {
	size, err := ParseSize(s.MaxRequestSize)
	if err != nil {
		return 0, err
	}
	if size <= 0 {
		return constants.DefaultMaxRequestSizeBytes, nil
	}
	return size, nil
}

// ParseSize converts a human-friendly byte string (e.g., "256K", "10M") into bytes.
func ParseSize(value string) (int64, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return constants.DefaultMaxRequestSizeBytes, nil
	}

	upper := strings.ToUpper(trimmed)
	idx := len(upper)
	for idx > 0 && !unicode.IsDigit(rune(upper[idx-1])) {
		idx--
	}
	if idx == 0 {
		return 0, fmt.Errorf("invalid size: %s", value)
	}
	numPart := strings.TrimSpace(upper[:idx])
	unitPart := strings.TrimSpace(upper[idx:])

	n, err := strconv.ParseInt(numPart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size value %q: %w", value, err)
	}

	var multiplier int64
	switch unitPart {
	case "", "B":
		multiplier = 1
	case "K", "KB":
		multiplier = 1024
	case "M", "MB":
		multiplier = 1024 * 1024
	case "G", "GB":
		multiplier = 1024 * 1024 * 1024
	default:
		return 0, fmt.Errorf("unsupported size unit %q", unitPart)
	}

	result := n * multiplier
	if result < 0 || (n != 0 && result/multiplier != n) {
		return 0, fmt.Errorf("size overflow for value %s", value)
	}
	return result, nil
}
