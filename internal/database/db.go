package database

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"finance-backend/internal/config"
	"finance-backend/internal/models"
)

// Open connects to the configured database and migrates the schema.
func Open(cfg *config.Config, logger logrus.FieldLogger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case config.DriverPostgres:
		dialector = postgres.Open(cfg.DatabaseDSN)
	case config.DriverSQLite:
		dialector = sqlite.Open(cfg.DatabaseDSN)
	default:
		return nil, fmt.Errorf("unsupported db driver %q", cfg.DBDriver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: NewGormLogger(logger)})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if cfg.DBDriver == config.DriverSQLite {
		// sqlite allows a single writer; one connection keeps in-memory databases shared too.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("get sql.DB: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	logger.WithField("driver", cfg.DBDriver).Info("database connected, migration done")
	return db, nil
}

// Migrate creates or updates the categories and transactions tables.
// The transactions.category_id foreign key comes from the Category association.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Category{}, &models.Transaction{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// Ping checks that the database answers.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// NewGormLogger routes gorm's warnings (slow queries, errors) through logrus.
func NewGormLogger(logger logrus.FieldLogger) gormlogger.Interface {
	return gormlogger.New(logger.WithField("component", "gorm"), gormlogger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  gormlogger.Warn,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}
