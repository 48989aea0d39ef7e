package database

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned by Get when nothing has been stored under a key
var ErrNotFound = errors.New("slot not found")

// Store is a keyed slot store. Each slot holds one serialized value and is
// always replaced as a whole.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

// Supported drivers
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
	DriverMemory   = "memory"
)

// Config selects and configures a Store backend
type Config struct {
	Driver   string
	DSN      string
	Database string
	Timeout  time.Duration
}

// Open creates the Store configured by cfg
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Driver {
	case DriverSQLite:
		return NewGormStore("sqlite3", cfg.DSN)
	case DriverPostgres:
		return NewGormStore("postgres", cfg.DSN)
	case DriverMongo:
		return NewMongoStore(ctx, MongoConfig{
			URI:      cfg.DSN,
			Database: cfg.Database,
			Timeout:  cfg.Timeout,
		})
	case DriverMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unsupported store driver: %s", cfg.Driver)
	}
}
