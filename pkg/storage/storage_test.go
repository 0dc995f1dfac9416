package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nomorelonelylife/Point-bot/internal/entity"
	"github.com/nomorelonelylife/Point-bot/pkg/testutil"
	"github.com/nomorelonelylife/Point-bot/pkg/xcontext"
)

func Test_fileStore_SnapshotAndRestore(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	cfg := xcontext.Configs(ctx).Backup
	cfg.Dir = t.TempDir()
	store := NewFileStore(cfg)

	path, err := store.Snapshot(ctx)
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	// Lose an account, then restore the snapshot.
	err = xcontext.DB(ctx).Delete(&entity.Account{}, "user_id=?", testutil.Account1.UserID).Error
	require.NoError(t, err)

	var count int64
	require.NoError(t, xcontext.DB(ctx).Model(&entity.Account{}).Count(&count).Error)
	require.EqualValues(t, 2, count)

	require.NoError(t, store.Restore(ctx, path))

	require.NoError(t, xcontext.DB(ctx).Model(&entity.Account{}).Count(&count).Error)
	require.EqualValues(t, 3, count)

	var account entity.Account
	err = xcontext.DB(ctx).Take(&account, "user_id=?", testutil.Account1.UserID).Error
	require.NoError(t, err)
	require.True(t, account.Balance.Equal(testutil.Account1.Balance))

	require.Error(t, store.Restore(ctx, filepath.Join(cfg.Dir, "missing.db")))
}

func Test_fileStore_Prune(t *testing.T) {
	ctx := testutil.MockContext()

	cfg := xcontext.Configs(ctx).Backup
	cfg.Dir = t.TempDir()
	store := NewFileStore(cfg)

	oldPath, err := store.Snapshot(ctx)
	require.NoError(t, err)

	oldTime := time.Now().Add(-30 * 24 * time.Hour)
	require.NoError(t, os.Chtimes(oldPath, oldTime, oldTime))

	// A file without the backup prefix is never touched.
	keeper := filepath.Join(cfg.Dir, "notes.txt")
	require.NoError(t, os.WriteFile(keeper, []byte("keep"), 0o600))
	require.NoError(t, os.Chtimes(keeper, oldTime, oldTime))

	pruned, err := store.Prune(ctx, time.Now().Add(-14*24*time.Hour))
	require.NoError(t, err)
	require.Equal(t, 1, pruned)

	_, err = os.Stat(oldPath)
	require.True(t, os.IsNotExist(err))

	_, err = os.Stat(keeper)
	require.NoError(t, err)

	// An absent backup dir prunes nothing.
	cfg.Dir = filepath.Join(cfg.Dir, "nope")
	pruned, err = NewFileStore(cfg).Prune(ctx, time.Now())
	require.NoError(t, err)
	require.Zero(t, pruned)
}
