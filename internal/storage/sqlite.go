package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

type collectionRecord struct {
	Name      string `gorm:"primaryKey"`
	Data      []byte `gorm:"not null"`
	UpdatedAt time.Time
}

func (collectionRecord) TableName() string {
	return "task_collections"
}

// SQLiteBackend stores each collection as one row of a local SQLite file.
type SQLiteBackend struct {
	db   *gorm.DB
	name string
}

func NewSQLiteBackend(path, name string) (*SQLiteBackend, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	err = db.AutoMigrate(&collectionRecord{})
	if err != nil {
		return nil, fmt.Errorf("failed to migrate sqlite database: %w", err)
	}

	return &SQLiteBackend{
		db:   db,
		name: name,
	}, nil
}

func (b *SQLiteBackend) Load(ctx context.Context) ([]byte, error) {
	var record collectionRecord
	err := b.db.WithContext(ctx).First(&record, "name = ?", b.name).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoData
		}
		return nil, fmt.Errorf("failed to find task collection: %w", err)
	}
	return record.Data, nil
}

func (b *SQLiteBackend) Save(ctx context.Context, data []byte) error {
	record := collectionRecord{
		Name:      b.name,
		Data:      data,
		UpdatedAt: time.Now(),
	}
	err := b.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
	}).Create(&record).Error
	if err != nil {
		return fmt.Errorf("failed to save task collection: %w", err)
	}
	return nil
}

func (b *SQLiteBackend) Close() error {
	sqlDB, err := b.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sqlite handle: %w", err)
	}
	return sqlDB.Close()
}
