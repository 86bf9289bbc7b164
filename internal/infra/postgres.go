package infra

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"itinera/internal/models/db_models"
	"itinera/pkg/logger"
)

// InitPostgresql opens the pool. TranslateError turns unique violations into
// gorm.ErrDuplicatedKey so repositories can recognise them.
func InitPostgresql(cfg Config) (*gorm.DB, error) {
	if cfg.PostgresURL == "" {
		return nil, fmt.Errorf("POSTGRES_URL is not set")
	}

	db, err := gorm.Open(postgres.Open(cfg.PostgresURL), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	return db, nil
}

func ClosePostgresql(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		logger.GetLogger().Errorf("Error getting database instance: %v", err)
		return
	}

	if err := sqlDB.Close(); err != nil {
		logger.GetLogger().Errorf("Error closing database connection: %v", err)
	} else {
		logger.GetLogger().Info("PostgreSQL database connection closed successfully")
	}
}

// Migrate creates or updates every table and index the service owns.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(db_models.AllModels()...)
}
