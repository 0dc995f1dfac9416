package testutil

import (
	"context"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/nomorelonelylife/Point-bot/config"
	"github.com/nomorelonelylife/Point-bot/migration"
	"github.com/nomorelonelylife/Point-bot/pkg/logger"
	"github.com/nomorelonelylife/Point-bot/pkg/xcontext"
)

// MockContext returns a context carrying default configs, a quiet logger,
// and a fresh in-memory database with all tables migrated.
func MockContext() context.Context {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		panic(err)
	}

	// A single connection keeps every in-memory access on the same
	// database and serializes concurrent test goroutines the way the
	// file-backed store serializes writers.
	sqlDB, err := db.DB()
	if err != nil {
		panic(err)
	}
	sqlDB.SetMaxOpenConns(1)

	ctx := context.Background()
	ctx = xcontext.WithConfigs(ctx, config.Default())
	ctx = xcontext.WithLogger(ctx, logger.NewLogger(logger.ERROR))
	ctx = xcontext.WithDB(ctx, db)

	if err := migration.AutoMigrate(ctx); err != nil {
		panic(err)
	}

	return ctx
}
