package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chrissnell/myweather/internal/log"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// KVRecord is the row layout of the kv_entries table.
type KVRecord struct {
	Key       string `gorm:"primaryKey;type:text"`
	Value     string `gorm:"type:text;not null"`
	UpdatedAt time.Time
}

// TableName implements the gorm Tabler interface
func (KVRecord) TableName() string {
	return "kv_entries"
}

// PostgresStore keeps entries in a PostgreSQL table through gorm.
type PostgresStore struct {
	DB *gorm.DB
}

// NewPostgresStore connects to dsn and migrates the kv_entries table.
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	// Create a logger for gorm
	dbLogger := logger.New(
		zap.NewStdLog(log.GetZapLogger()),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: dbLogger})
	if err != nil {
		return nil, fmt.Errorf("unable to connect to PostgreSQL: %w", err)
	}

	if err := db.AutoMigrate(&KVRecord{}); err != nil {
		return nil, fmt.Errorf("error migrating kv_entries table: %w", err)
	}

	return &PostgresStore{DB: db}, nil
}

func (p *PostgresStore) Get(ctx context.Context, key string) (string, bool, error) {
	var record KVRecord
	err := p.DB.WithContext(ctx).Where("key = ?", key).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, &Error{Op: "get", Key: key, Backend: "postgres", Err: err}
	}
	return record.Value, true, nil
}

// Set upserts the value: look up the existing row, then create or save it.
func (p *PostgresStore) Set(ctx context.Context, key, value string) error {
	db := p.DB.WithContext(ctx)

	var record KVRecord
	err := db.Where("key = ?", key).First(&record).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		err = db.Create(&KVRecord{Key: key, Value: value}).Error
	case err == nil:
		record.Value = value
		err = db.Save(&record).Error
	}
	if err != nil {
		return &Error{Op: "set", Key: key, Backend: "postgres", Err: err}
	}
	return nil
}

func (p *PostgresStore) Close() error {
	sqlDB, err := p.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
