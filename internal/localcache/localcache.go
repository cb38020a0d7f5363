// Package localcache is the durable client-side fallback store: one sqlite
// file holding the last-known JSON snapshot of every entity collection.
package localcache

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type Entry struct {
	Key       string    `gorm:"column:key;primaryKey;type:varchar(100)"`
	Value     []byte    `gorm:"column:value;not null"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Entry) TableName() string {
	return "cache_entries"
}

type Store struct {
	db *gorm.DB
}

func Connect(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:      gormlogger.Default.LogMode(gormlogger.Silent),
		PrepareStmt: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening cache at %s: %w", path, err)
	}

	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("migrating cache schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Get returns the stored document for key. The second return is false when
// the key has never been written, which callers treat as "serve seed data".
func (s *Store) Get(key string) ([]byte, bool, error) {
	var e Entry
	err := s.db.First(&e, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading cache key %s: %w", key, err)
	}
	return e.Value, true, nil
}

// Set replaces the document for key. Errors here (disk full, locked file)
// must reach the caller: the cache is the last line of durability.
func (s *Store) Set(key string, value []byte) error {
	e := Entry{Key: key, Value: value}
	err := s.db.Save(&e).Error
	if err != nil {
		return fmt.Errorf("writing cache key %s: %w", key, err)
	}
	return nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
