package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// MySQLDSN returns MYSQL_DSN or one assembled from the split settings.
func (c *Config) MySQLDSN() string {
	if c.MySQL.DSN != "" {
		return c.MySQL.DSN
	}
	port := c.MySQL.Port
	if port == "" {
		port = "3306"
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true&charset=utf8mb4&loc=Local",
		c.MySQL.User, c.MySQL.Pass, c.MySQL.Host, port, c.MySQL.DB)
}

// Dialector picks the gorm driver for DB_DRIVER.
func (c *Config) Dialector() (gorm.Dialector, error) {
	switch c.DBDriver {
	case "", "mysql":
		return mysql.Open(c.MySQLDSN()), nil
	case "postgres":
		if c.PostgresDSN == "" {
			return nil, fmt.Errorf("db: POSTGRES_DSN is required for the postgres driver")
		}
		return postgres.Open(c.PostgresDSN), nil
	case "sqlite":
		return sqlite.Open(c.SQLitePath), nil
	}
	return nil, fmt.Errorf("db: unknown driver %q", c.DBDriver)
}

func NewDB(c *Config) (*gorm.DB, error) {
	dialector, err := c.Dialector()
	if err != nil {
		return nil, err
	}

	logMode := logger.Warn
	if c.Debug {
		logMode = logger.Info
	}
	if os.Getenv("GORM_LOG") == "off" {
		logMode = logger.Silent
	}

	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags), // Use log.Logger for Printf support
		logger.Config{
			SlowThreshold: time.Second, // Slow SQL threshold
			LogLevel:      logMode,
			Colorful:      c.Debug,
		},
	)

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("db: open %s: %w", c.DBDriver, err)
	}
	return db, nil
}
