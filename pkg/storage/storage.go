package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/nomorelonelylife/Point-bot/config"
	"github.com/nomorelonelylife/Point-bot/migration"
	"github.com/nomorelonelylife/Point-bot/pkg/xcontext"
)

// BackupStore snapshots the live database into timestamped files and can
// restore from them. Files are owner-only readable.
type BackupStore interface {
	Snapshot(ctx context.Context) (string, error)
	Restore(ctx context.Context, path string) error
	Prune(ctx context.Context, before time.Time) (int, error)
}

type fileStore struct {
	cfg config.BackupConfigs
}

func NewFileStore(cfg config.BackupConfigs) *fileStore {
	return &fileStore{cfg: cfg}
}

// Snapshot writes a consistent copy of the whole database to a new file in
// the backup directory and returns its path.
func (s *fileStore) Snapshot(ctx context.Context) (string, error) {
	if err := os.MkdirAll(s.cfg.Dir, 0o700); err != nil {
		return "", fmt.Errorf("cannot create backup dir: %w", err)
	}

	name := fmt.Sprintf("%s%s.db", s.cfg.Prefix, time.Now().Format("20060102_150405"))
	path := filepath.Join(s.cfg.Dir, name)

	// VACUUM INTO produces a clean, transactionally consistent copy
	// without blocking writers for the whole duration.
	if err := xcontext.DB(ctx).Exec("VACUUM INTO ?", path).Error; err != nil {
		return "", fmt.Errorf("cannot snapshot database: %w", err)
	}

	if err := os.Chmod(path, 0o600); err != nil {
		return "", fmt.Errorf("cannot restrict backup permissions: %w", err)
	}

	return path, nil
}

// Restore replaces the contents of every table with the rows from the given
// backup file. The copy happens inside one transaction, so a failure leaves
// the live database untouched.
func (s *fileStore) Restore(ctx context.Context, path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("cannot read backup file: %w", err)
	}

	// ATTACH is per connection and cannot run inside a transaction, so
	// everything is pinned to a single connection here.
	return xcontext.DB(ctx).Connection(func(conn *gorm.DB) error {
		if err := conn.Exec("ATTACH DATABASE ? AS backup", path).Error; err != nil {
			return fmt.Errorf("cannot attach backup: %w", err)
		}
		defer conn.Exec("DETACH DATABASE backup")

		return conn.Transaction(func(tx *gorm.DB) error {
			for _, table := range migration.Tables() {
				if err := tx.Exec(fmt.Sprintf("DELETE FROM %s", table)).Error; err != nil {
					return fmt.Errorf("cannot clear table %s: %w", table, err)
				}

				err := tx.Exec(fmt.Sprintf(
					"INSERT INTO %s SELECT * FROM backup.%s", table, table)).Error
				if err != nil {
					return fmt.Errorf("cannot copy table %s: %w", table, err)
				}
			}

			return nil
		})
	})
}

// Prune deletes backup files modified before the cutoff and returns how
// many were removed. Only files matching the configured prefix are touched.
func (s *fileStore) Prune(ctx context.Context, before time.Time) (int, error) {
	entries, err := os.ReadDir(s.cfg.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}

		return 0, fmt.Errorf("cannot read backup dir: %w", err)
	}

	pruned := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), s.cfg.Prefix) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			xcontext.Logger(ctx).Warnf("Cannot stat backup %s: %v", entry.Name(), err)
			continue
		}

		if !info.ModTime().Before(before) {
			continue
		}

		if err := os.Remove(filepath.Join(s.cfg.Dir, entry.Name())); err != nil {
			xcontext.Logger(ctx).Warnf("Cannot remove backup %s: %v", entry.Name(), err)
			continue
		}

		pruned++
	}

	return pruned, nil
}
