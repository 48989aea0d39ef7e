package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres" // PostgreSQL driver
	_ "github.com/mattn/go-sqlite3"              // SQLite driver
)

// Slot is a single stored value addressed by key
type Slot struct {
	Key       string `gorm:"column:slot_key;primary_key"`
	Payload   string `gorm:"type:text"`
	UpdatedAt time.Time
}

// TableName sets the table name for Slot
func (Slot) TableName() string {
	return "store_slots"
}

// GormStore keeps slots in a SQL table through gorm
type GormStore struct {
	db *gorm.DB
}

// NewGormStore opens the database and migrates the slot table
func NewGormStore(dialect, dsn string) (*GormStore, error) {
	db, err := gorm.Open(dialect, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if dialect == "sqlite3" {
		// a second connection to an in-memory database would see an empty schema
		db.DB().SetMaxOpenConns(1)
	} else {
		db.DB().SetMaxIdleConns(5)
		db.DB().SetMaxOpenConns(20)
		db.DB().SetConnMaxLifetime(time.Hour)
	}

	if err := db.AutoMigrate(&Slot{}).Error; err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate slot table: %w", err)
	}

	return &GormStore{db: db}, nil
}

// Get returns the payload stored under key
func (s *GormStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var slot Slot
	err := s.db.Where("slot_key = ?", key).First(&slot).Error
	if gorm.IsRecordNotFoundError(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read slot %s: %w", key, err)
	}

	return []byte(slot.Payload), nil
}

// Set replaces the payload stored under key
func (s *GormStore) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	slot := Slot{Key: key, Payload: string(value)}
	if err := s.db.Save(&slot).Error; err != nil {
		return fmt.Errorf("failed to write slot %s: %w", key, err)
	}
	return nil
}

// Close closes the database connection
func (s *GormStore) Close() error {
	return s.db.Close()
}
