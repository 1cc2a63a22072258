package config

import (
	"errors"
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/spf13/viper"
)

const (
	EnvDev     = "dev"
	EnvStaging = "staging"
	EnvProd    = "prod"
)

const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

// Fallbacks used when neither the environment nor a config file sets a value.
const (
	DefaultPort            = "3000"
	DefaultDBHost          = "mariadb"
	DefaultDBPort          = "3306"
	DefaultDBUser          = "root"
	DefaultDBPassword      = "password"
	DefaultDBName          = "appdb"
	DefaultMaxOpenConns    = 10
	DefaultMaxIdleConns    = 5
	DefaultConnMaxLifetime = "30m"
	DefaultConnMaxIdleTime = "5m"
	DefaultAcquireTimeout  = "5s"
)

type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// DatabaseConfig holds the connection settings and pool bounds. Host, user,
// password and name are passed to the driver as-is; a bad value is reported
// when a request tries to connect, not at startup.
type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            string `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	Name            string `mapstructure:"name"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime string `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime string `mapstructure:"conn_max_idle_time"`
	AcquireTimeout  string `mapstructure:"acquire_timeout"`
}

type Config struct {
	Port        string         `mapstructure:"port"`
	Environment string         `mapstructure:"environment"`
	Logging     LoggingConfig  `mapstructure:"logging"`
	DB          DatabaseConfig `mapstructure:"db"`
}

// Address returns the listen address for the HTTP server.
func (c *Config) Address() string {
	return ":" + c.Port
}

// Load resolves the configuration once: fallbacks, then an optional
// config.yaml, then environment variables (DB_HOST, DB_USER, PORT, ...).
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("port", DefaultPort)
	v.SetDefault("environment", EnvDev)
	v.SetDefault("logging.level", LogLevelInfo)
	v.SetDefault("db.host", DefaultDBHost)
	v.SetDefault("db.port", DefaultDBPort)
	v.SetDefault("db.user", DefaultDBUser)
	v.SetDefault("db.password", DefaultDBPassword)
	v.SetDefault("db.name", DefaultDBName)
	v.SetDefault("db.max_open_conns", DefaultMaxOpenConns)
	v.SetDefault("db.max_idle_conns", DefaultMaxIdleConns)
	v.SetDefault("db.conn_max_lifetime", DefaultConnMaxLifetime)
	v.SetDefault("db.conn_max_idle_time", DefaultConnMaxIdleTime)
	v.SetDefault("db.acquire_timeout", DefaultAcquireTimeout)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			slog.Error("failed to read config file", slog.String("error", err.Error()))
			return nil, err
		}
		slog.Debug("config file not found, using defaults and environment variables")
	} else {
		slog.Info("loaded config file", slog.String("file", v.ConfigFileUsed()))
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		slog.Error("failed to unmarshal config", slog.String("error", err.Error()))
		return nil, err
	}

	// The idle fallback may exceed a lowered open limit; cap it the way
	// database/sql would rather than refusing to start.
	if cfg.DB.MaxOpenConns > 0 && cfg.DB.MaxIdleConns > cfg.DB.MaxOpenConns {
		cfg.DB.MaxIdleConns = cfg.DB.MaxOpenConns
	}

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port,
			validation.Required,
			is.Port,
		),
		validation.Field(&c.Environment,
			validation.Required,
			validation.In(EnvDev, EnvStaging, EnvProd),
		),
		validation.Field(&c.Logging,
			validation.By(func(value interface{}) error {
				lc, ok := value.(LoggingConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a LoggingConfig")
				}
				return validation.ValidateStruct(&lc,
					validation.Field(&lc.Level,
						validation.Required,
						validation.In(LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError),
					),
				)
			}),
		),
		validation.Field(&c.DB,
			validation.By(func(value interface{}) error {
				dc, ok := value.(DatabaseConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a DatabaseConfig")
				}
				return validation.ValidateStruct(&dc,
					validation.Field(&dc.Port,
						validation.Required,
						is.Port,
					),
					validation.Field(&dc.MaxOpenConns,
						validation.Required,
						validation.Min(1),
					),
					validation.Field(&dc.MaxIdleConns,
						validation.Min(0),
					),
					validation.Field(&dc.ConnMaxLifetime,
						validation.Required,
						validation.By(validateDuration),
					),
					validation.Field(&dc.ConnMaxIdleTime,
						validation.Required,
						validation.By(validateDuration),
					),
					validation.Field(&dc.AcquireTimeout,
						validation.Required,
						validation.By(validateDuration),
					),
				)
			}),
		),
	)
}

// ConnMaxLifetimeDuration returns the parsed pool connection lifetime.
// Validate guarantees the string parses.
func (d DatabaseConfig) ConnMaxLifetimeDuration() time.Duration {
	lifetime, _ := time.ParseDuration(d.ConnMaxLifetime)
	return lifetime
}

func (d DatabaseConfig) ConnMaxIdleTimeDuration() time.Duration {
	idle, _ := time.ParseDuration(d.ConnMaxIdleTime)
	return idle
}

func (d DatabaseConfig) AcquireTimeoutDuration() time.Duration {
	timeout, _ := time.ParseDuration(d.AcquireTimeout)
	return timeout
}

func validateDuration(value interface{}) error {
	durationStr, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}

	d, err := time.ParseDuration(durationStr)
	if err != nil {
		return validation.NewError("validation_invalid_duration", "must be a valid duration (e.g., 2s, 5m, 1h)")
	}

	if d <= 0 {
		return validation.NewError("validation_non_positive_duration", "must be greater than zero")
	}

	return nil
}
