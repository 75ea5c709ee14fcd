package database

import (
	"context"
	"fmt"
	"inventory/config"
	logg "inventory/internal/logger"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/valkey-io/valkey-go"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type CacheClient valkey.Client

// Cache holds one client per logical valkey database. Every member is nil
// when no cache is configured; callers treat that as a cache miss.
type Cache struct {
	General CacheClient
	Catalog CacheClient
	Locks   CacheClient
	Events  CacheClient
}

const (
	cacheDBGeneral = 0
	cacheDBCatalog = 1
	cacheDBLocks   = 2
	cacheDBEvents  = 3
)

type DB struct {
	SQL    *gorm.DB
	Cache  Cache
	Driver string
	log    logg.Logger
}

func New(config config.Config) (DB, error) {
	log := logg.New("database").Function("New")

	log.Info("Initializing database")
	db := &DB{log: log}

	err := db.initializeDB(config)
	if err != nil {
		return DB{}, log.Err("failed to initialize database", err)
	}

	if config.DatabaseAutoMigrate {
		if err := Migrate(*db); err != nil {
			return DB{}, log.Err("failed to migrate database", err)
		}
	}

	if !config.CacheEnabled() {
		log.Warn("cache address not configured, running without cache")
		return *db, nil
	}

	err = db.initializeCacheDB(config)
	if err != nil {
		return DB{}, log.Err("failed to initialize cache database", err)
	}

	return *db, nil
}

func (s *DB) gormConfig() *gorm.Config {
	gormLogger := logger.New(
		slog.NewLogLogger(slog.Default().Handler(), slog.LevelInfo),
		logger.Config{
			SlowThreshold:             1 * time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			ParameterizedQueries:      true,
			Colorful:                  false,
		},
	)

	return &gorm.Config{
		Logger:                                   gormLogger,
		PrepareStmt:                              true,
		TranslateError:                           true,
		DisableForeignKeyConstraintWhenMigrating: false,
		CreateBatchSize:                          100,
	}
}

func (s *DB) initializeDB(config config.Config) error {
	gormConfig := s.gormConfig()

	switch config.DatabaseDriver {
	case "", "sqlite":
		return s.initializeSQLiteDB(gormConfig, config)
	case "postgres":
		return s.initializePostgresDB(gormConfig, config)
	default:
		return s.log.Function("initializeDB").
			Error("unsupported database driver", "driver", config.DatabaseDriver)
	}
}

// SQLiteDSN adds the pragmas the allocator relies on: writers take the
// database lock at BEGIN and wait for it instead of failing.
func SQLiteDSN(path string) string {
	if path == ":memory:" {
		return path
	}
	return fmt.Sprintf("%s?_busy_timeout=10000&_txlock=immediate&_foreign_keys=on", path)
}

func (s *DB) initializeSQLiteDB(gormConfig *gorm.Config, config config.Config) error {
	log := s.log.Function("initializeSQLiteDB")

	dbPath := config.DatabaseDbPath
	if dbPath == "" {
		return log.Error("database path is empty", "dbPath", dbPath)
	}

	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		log.Info("Creating database directory", "dir", dir)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return log.Err("failed to create database directory", err, "dir", dir)
		}
	}

	log.Info("Connecting with GORM", "dbPath", dbPath)
	db, err := gorm.Open(sqlite.Open(SQLiteDSN(dbPath)), gormConfig)
	if err != nil {
		return log.Err("failed to open database with GORM", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return log.Err("failed to get database from GORM", err)
	}

	if err := sqlDB.Ping(); err != nil {
		return log.Err("failed to ping database through GORM", err)
	}

	log.Info("Successfully connected with GORM")
	if dbPath == ":memory:" {
		// Each connection would otherwise see its own empty database.
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)

	s.SQL = db
	s.Driver = "sqlite"

	return nil
}

func (s *DB) initializePostgresDB(gormConfig *gorm.Config, config config.Config) error {
	log := s.log.Function("initializePostgresDB")

	log.Info("Connecting with GORM", "host", config.DatabaseHost, "database", config.DatabaseName)
	db, err := gorm.Open(postgres.Open(config.PostgresDSN()), gormConfig)
	if err != nil {
		return log.Err("failed to open postgres database with GORM", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return log.Err("failed to get database from GORM", err)
	}

	if err := sqlDB.Ping(); err != nil {
		return log.Err("failed to ping postgres database", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	s.SQL = db
	s.Driver = "postgres"

	return nil
}

func (s *DB) initializeCacheDB(config config.Config) error {
	log := s.log.Function("initializeCacheDB")

	if config.DatabaseCacheAddress == "" || config.DatabaseCachePort == 0 {
		return log.Error(
			"cache address or port is empty",
			"address", config.DatabaseCacheAddress,
			"port", config.DatabaseCachePort,
		)
	}

	address := fmt.Sprintf("%s:%d", config.DatabaseCacheAddress, config.DatabaseCachePort)

	clients := []struct {
		target *CacheClient
		db     int
		name   string
	}{
		{&s.Cache.General, cacheDBGeneral, "General"},
		{&s.Cache.Catalog, cacheDBCatalog, "Catalog"},
		{&s.Cache.Locks, cacheDBLocks, "Locks"},
		{&s.Cache.Events, cacheDBEvents, "Events"},
	}

	for _, c := range clients {
		client, err := valkey.NewClient(valkey.ClientOption{
			InitAddress: []string{address},
			SelectDB:    c.db,
		})
		if err != nil {
			s.closeCaches()
			return log.Err("failed to create cache client", err, "cache", c.name, "address", address)
		}
		*c.target = client
	}

	log.Info("Connected to cache", "address", address)
	return nil
}

func (s *DB) closeCaches() {
	for _, client := range []CacheClient{s.Cache.General, s.Cache.Catalog, s.Cache.Locks, s.Cache.Events} {
		if client != nil {
			client.Close()
		}
	}
	s.Cache = Cache{}
}

func (s *DB) Close() (err error) {
	if s.SQL != nil {
		sqlDB, dbErr := s.SQL.DB()
		if dbErr == nil {
			if closeErr := sqlDB.Close(); closeErr != nil {
				err = s.log.Err("failed to close database", closeErr)
			}
		}
	}

	s.closeCaches()

	return err
}

func (s *DB) SQLWithContext(ctx context.Context) *gorm.DB {
	return s.SQL.WithContext(ctx)
}

func (s *DB) FlushAllCaches() error {
	log := s.log.Function("FlushAllCaches")
	log.Info("Flushing all cache databases")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cacheClients := []struct {
		client CacheClient
		name   string
	}{
		{s.Cache.General, "General"},
		{s.Cache.Catalog, "Catalog"},
		{s.Cache.Locks, "Locks"},
		{s.Cache.Events, "Events"},
	}

	for _, cache := range cacheClients {
		if cache.client != nil {
			if err := cache.client.Do(ctx, cache.client.B().Flushdb().Build()).Error(); err != nil {
				return log.Err("failed to flush cache database", err, "cache", cache.name)
			}
			log.Info("Successfully flushed cache database", "cache", cache.name)
		}
	}

	log.Info("All cache databases flushed successfully")
	return nil
}
