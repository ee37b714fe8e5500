package database

import (
	"github.com/go-faster/errors"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"console/internal/model"
)

// NewConnection opens the session database and migrates the session table.
func NewConnection(dsn string, log *logrus.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, errors.Wrap(err, "open postgres")
	}
	if err := Migrate(db); err != nil {
		log.WithError(err).Warn("failed to auto-migrate session table")
	}
	return db, nil
}

// Migrate creates or updates the tables owned by the console.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&model.Session{})
}
