package database

import (
	"fmt"
	"sync"

	"content-archives/models"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	DB   *gorm.DB
	once sync.Once
	err  error
)

// Open connects to the SQLite database at path and auto-migrates the schema.
func Open(path string, log *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database at %s: %w", path, err)
	}
	log.Info("Database connection established", zap.String("path", path))

	if err := db.AutoMigrate(&models.ContentRecord{}); err != nil {
		return nil, fmt.Errorf("auto-migrate database schema: %w", err)
	}
	log.Info("Database schema migrated")
	return db, nil
}

// Init opens the database once and stores the handle in DB.
func Init(path string, log *zap.Logger) (*gorm.DB, error) {
	once.Do(func() {
		DB, err = Open(path, log)
		if err != nil {
			log.Error("Failed to initialize database", zap.String("path", path), zap.Error(err))
		}
	})
	return DB, err
}
