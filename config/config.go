package config

import (
	"errors"
	"fmt"
	"inventory/internal/logger"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	GeneralVersion         string `mapstructure:"GENERAL_VERSION"`
	Environment            string `mapstructure:"ENVIRONMENT"`
	ServerPort             int    `mapstructure:"SERVER_PORT"`
	CorsAllowOrigins       string `mapstructure:"CORS_ALLOW_ORIGINS"`
	DatabaseDriver         string `mapstructure:"DATABASE_DRIVER"`
	DatabaseDbPath         string `mapstructure:"DATABASE_DB_PATH"`
	DatabaseHost           string `mapstructure:"DATABASE_HOST"`
	DatabasePort           int    `mapstructure:"DATABASE_PORT"`
	DatabaseUser           string `mapstructure:"DATABASE_USER"`
	DatabasePassword       string `mapstructure:"DATABASE_PASSWORD"`
	DatabaseName           string `mapstructure:"DATABASE_NAME"`
	DatabaseSSLMode        string `mapstructure:"DATABASE_SSL_MODE"`
	DatabaseAutoMigrate    bool   `mapstructure:"DATABASE_AUTO_MIGRATE"`
	DatabaseCacheAddress   string `mapstructure:"DATABASE_CACHE_ADDRESS"`
	DatabaseCachePort      int    `mapstructure:"DATABASE_CACHE_PORT"`
	SequenceLockTTLSeconds int    `mapstructure:"SEQUENCE_LOCK_TTL_SECONDS"`
}

var defaults = map[string]any{
	"GENERAL_VERSION":           "0.1.0",
	"ENVIRONMENT":               "development",
	"SERVER_PORT":               8288,
	"CORS_ALLOW_ORIGINS":        "*",
	"DATABASE_DRIVER":           DriverSQLite,
	"DATABASE_DB_PATH":          "data/inventory.db",
	"DATABASE_HOST":             "localhost",
	"DATABASE_PORT":             5432,
	"DATABASE_USER":             "inventory",
	"DATABASE_PASSWORD":         "",
	"DATABASE_NAME":             "inventory",
	"DATABASE_SSL_MODE":         "disable",
	"DATABASE_AUTO_MIGRATE":     true,
	"DATABASE_CACHE_ADDRESS":    "",
	"DATABASE_CACHE_PORT":       6379,
	"SEQUENCE_LOCK_TTL_SECONDS": 30,
}

func InitConfig() (Config, error) {
	log := logger.New("config").Function("InitConfig")

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn("failed to load .env file", "error", err)
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return Config{}, log.Err("failed to unmarshal config", err)
	}

	config.DatabaseDriver = strings.ToLower(strings.TrimSpace(config.DatabaseDriver))
	if err := config.Validate(); err != nil {
		return Config{}, log.Err("invalid config", err)
	}

	log.Info("Config loaded",
		"environment", config.Environment,
		"driver", config.DatabaseDriver,
		"cacheEnabled", config.CacheEnabled(),
	)
	return config, nil
}

func (c Config) Validate() error {
	switch c.DatabaseDriver {
	case DriverSQLite:
		if c.DatabaseDbPath == "" {
			return errors.New("DATABASE_DB_PATH is required for sqlite")
		}
	case DriverPostgres:
		if c.DatabaseHost == "" || c.DatabaseName == "" {
			return errors.New("DATABASE_HOST and DATABASE_NAME are required for postgres")
		}
	default:
		return fmt.Errorf("unsupported DATABASE_DRIVER %q", c.DatabaseDriver)
	}

	if c.SequenceLockTTLSeconds <= 0 {
		return errors.New("SEQUENCE_LOCK_TTL_SECONDS must be positive")
	}

	return nil
}

func (c Config) CacheEnabled() bool {
	return c.DatabaseCacheAddress != "" && c.DatabaseCachePort != 0
}

func (c Config) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		c.DatabaseHost,
		c.DatabasePort,
		c.DatabaseUser,
		c.DatabasePassword,
		c.DatabaseName,
		c.DatabaseSSLMode,
	)
}
