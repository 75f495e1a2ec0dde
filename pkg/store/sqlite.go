package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// record is one key/value row.
type record struct {
	Key       string `gorm:"primaryKey"`
	Value     []byte `gorm:"not null"`
	UpdatedAt time.Time
}

func (record) TableName() string {
	return "records"
}

// SQLiteBackend keeps every key in a single SQLite file.
type SQLiteBackend struct {
	db *gorm.DB
}

// NewSQLiteBackend opens <basePath>/focusflow.db and migrates the schema.
func NewSQLiteBackend(basePath string) (*SQLiteBackend, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("store: ensure base path: %w", err)
	}
	db, err := gorm.Open(sqlite.Open(filepath.Join(basePath, "focusflow.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("store: open sqlite: %w", err)
	}
	if err := db.AutoMigrate(&record{}); err != nil {
		return nil, fmt.Errorf("store: migrate sqlite: %w", err)
	}
	return &SQLiteBackend{db: db}, nil
}

func (b *SQLiteBackend) Read(key string) ([]byte, error) {
	var r record
	if err := b.db.First(&r, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return r.Value, nil
}

func (b *SQLiteBackend) Write(key string, val []byte) error {
	r := record{Key: key, Value: val, UpdatedAt: time.Now()}
	return b.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&r).Error
}

func (b *SQLiteBackend) Erase(key string) error {
	return b.db.Delete(&record{}, "key = ?", key).Error
}

func (b *SQLiteBackend) Keys(ctx context.Context) []string {
	var keys []string
	if err := b.db.WithContext(ctx).Model(&record{}).Order("key").Pluck("key", &keys).Error; err != nil {
		return nil
	}
	return keys
}

// Close releases the database handle.
func (b *SQLiteBackend) Close() error {
	sqlDB, err := b.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
