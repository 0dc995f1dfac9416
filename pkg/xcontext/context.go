package xcontext

import (
	"context"
	"net/http"

	"github.com/nomorelonelylife/Point-bot/config"
	"github.com/nomorelonelylife/Point-bot/pkg/logger"

	"gorm.io/gorm"
)

type (
	configsCtxKey       struct{}
	loggerCtxKey        struct{}
	dbCtxKey            struct{}
	dbTransactionCtxKey struct{}
	httpClientCtxKey    struct{}
)

func WithConfigs(ctx context.Context, cfg config.Configs) context.Context {
	return context.WithValue(ctx, configsCtxKey{}, cfg)
}

func Configs(ctx context.Context) config.Configs {
	cfg, ok := ctx.Value(configsCtxKey{}).(config.Configs)
	if !ok {
		panic("no configs in context")
	}

	return cfg
}

func WithLogger(ctx context.Context, logger logger.Logger) context.Context {
	return context.WithValue(ctx, loggerCtxKey{}, logger)
}

func Logger(ctx context.Context) logger.Logger {
	l, ok := ctx.Value(loggerCtxKey{}).(logger.Logger)
	if !ok {
		return logger.NewLogger(logger.INFO)
	}

	return l
}

func WithDB(ctx context.Context, db *gorm.DB) context.Context {
	return context.WithValue(ctx, dbCtxKey{}, db)
}

// DB returns the transaction handle if the context is inside an open
// transaction, otherwise the root database handle.
func DB(ctx context.Context) *gorm.DB {
	if holder, ok := ctx.Value(dbTransactionCtxKey{}).(*dbTransaction); ok && !holder.done {
		return holder.tx
	}

	db, ok := ctx.Value(dbCtxKey{}).(*gorm.DB)
	if !ok {
		panic("no database in context")
	}

	return db
}

type dbTransaction struct {
	tx   *gorm.DB
	done bool
}

// WithDBTransaction begins a transaction and makes DB return its handle
// until the transaction is committed or rolled back. Calling it inside an
// open transaction returns the context unchanged.
func WithDBTransaction(ctx context.Context) context.Context {
	if holder, ok := ctx.Value(dbTransactionCtxKey{}).(*dbTransaction); ok && !holder.done {
		return ctx
	}

	return context.WithValue(ctx, dbTransactionCtxKey{}, &dbTransaction{tx: DB(ctx).Begin()})
}

// WithCommitDBTransaction commits the transaction opened by
// WithDBTransaction. A nil return means the transaction is durable.
func WithCommitDBTransaction(ctx context.Context) error {
	holder, ok := ctx.Value(dbTransactionCtxKey{}).(*dbTransaction)
	if !ok || holder.done {
		return nil
	}

	holder.done = true
	return holder.tx.Commit().Error
}

// WithRollbackDBTransaction is a no-op if the transaction was already
// committed, so it is safe to defer right after WithDBTransaction.
func WithRollbackDBTransaction(ctx context.Context) context.Context {
	holder, ok := ctx.Value(dbTransactionCtxKey{}).(*dbTransaction)
	if !ok || holder.done {
		return ctx
	}

	holder.done = true
	if err := holder.tx.Rollback().Error; err != nil {
		Logger(ctx).Errorf("Cannot rollback transaction: %v", err)
	}

	return ctx
}

func WithHTTPClient(ctx context.Context, client *http.Client) context.Context {
	return context.WithValue(ctx, httpClientCtxKey{}, client)
}

func HTTPClient(ctx context.Context) *http.Client {
	client, ok := ctx.Value(httpClientCtxKey{}).(*http.Client)
	if !ok {
		return http.DefaultClient
	}

	return client
}
