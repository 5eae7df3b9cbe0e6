package db

import (
	"log"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/poolsyncdefi-ui/structured-lending-protocol-clean/internal/domain/guarantee"
	"github.com/poolsyncdefi-ui/structured-lending-protocol-clean/internal/domain/insurance"
	"github.com/poolsyncdefi-ui/structured-lending-protocol-clean/internal/domain/pool"
	"github.com/poolsyncdefi-ui/structured-lending-protocol-clean/internal/domain/tranche"
)

func OpenGorm(dsn string) (*gorm.DB, error) {
	return OpenGormWithDialector(mysql.Open(dsn))
}

// OpenGormWithDialector opens a pooled gorm connection on any dialector;
// tests inject sqlmock/sqlite here.
func OpenGormWithDialector(dial gorm.Dialector) (*gorm.DB, error) {
	cfg := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	}
	db, err := gorm.Open(dial, cfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(30)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, err
	}
	log.Println("gorm: connected")
	return db, nil
}

// Migrate creates or updates the full schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&pool.Pool{},
		&pool.InvestorPosition{},
		&tranche.Tranche{},
		&insurance.Insurer{},
		&insurance.Policy{},
		&guarantee.Tier{},
		&guarantee.Position{},
	)
}
