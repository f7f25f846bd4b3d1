package database

import (
	"fmt"

	mysqldriver "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/justsurfingit/job-posts/internal/config"
	"github.com/justsurfingit/job-posts/internal/models"
)

// Connect opens the database for driver and migrates the job_posts table.
func Connect(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case config.DriverPostgres:
		dialector = postgres.Open(dsn)
	case config.DriverMySQL:
		mysqlDSN, err := withParseTime(dsn)
		if err != nil {
			return nil, err
		}
		dialector = mysql.Open(mysqlDSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", driver, err)
	}

	if err := db.AutoMigrate(&models.JobPost{}); err != nil {
		return nil, fmt.Errorf("migrate job posts: %w", err)
	}
	return db, nil
}

// withParseTime turns on parseTime so DATETIME columns scan into time.Time.
func withParseTime(dsn string) (string, error) {
	cfg, err := mysqldriver.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("parse mysql DATABASE_URL: %w", err)
	}
	cfg.ParseTime = true
	return cfg.FormatDSN(), nil
}
