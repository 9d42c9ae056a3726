package db

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Open connects to the relational store and migrates the schema.
// A non-empty databaseURL selects postgres; otherwise the sqlite file at
// databasePath is used, falling back to lumina.db.
func Open(databaseURL, databasePath string) (*gorm.DB, error) {
	var dialector gorm.Dialector

	if dsn := strings.TrimSpace(databaseURL); dsn != "" {
		dialector = postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		})
	} else {
		path := strings.TrimSpace(databasePath)
		if path == "" {
			path = "lumina.db"
		}
		if err := ensureParentDir(path); err != nil {
			return nil, err
		}
		dialector = sqlite.Open(path)
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	if dialector.Name() == "postgres" {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.SetMaxOpenConns(20)
			sqlDB.SetMaxIdleConns(10)
			sqlDB.SetConnMaxIdleTime(60 * time.Second)
			sqlDB.SetConnMaxLifetime(10 * time.Minute)
		}
	}

	if err := Migrate(gdb); err != nil {
		return nil, err
	}

	return gdb, nil
}

// Migrate creates or updates the tables for every persisted record kind.
func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&Parish{},
		&DemoRequest{},
		&Feedback{},
	)
}

func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}

	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return errors.New("database path parent is not a directory")
		}
		return nil
	}

	if os.IsNotExist(err) {
		return os.MkdirAll(dir, 0o755)
	}

	return err
}
