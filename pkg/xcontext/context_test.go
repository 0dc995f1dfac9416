package xcontext

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func mockDBContext(t *testing.T) context.Context {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	return WithDB(context.Background(), db)
}

func Test_WithCommitDBTransaction(t *testing.T) {
	ctx := mockDBContext(t)

	txCtx := WithDBTransaction(ctx)
	require.NotSame(t, DB(ctx), DB(txCtx))

	require.NoError(t, WithCommitDBTransaction(txCtx))

	// Committing or rolling back a finished transaction is a no-op.
	require.NoError(t, WithCommitDBTransaction(txCtx))
	WithRollbackDBTransaction(txCtx)

	// Without an open transaction there is nothing to commit.
	require.NoError(t, WithCommitDBTransaction(ctx))
}

func Test_WithCommitDBTransaction_SurfacesFailure(t *testing.T) {
	ctx := mockDBContext(t)

	txCtx := WithDBTransaction(ctx)

	// Tear the transaction down behind the helper's back so the commit
	// has nothing left to finish.
	require.NoError(t, DB(txCtx).Rollback().Error)

	require.Error(t, WithCommitDBTransaction(txCtx))
}
