package migration

import (
	"context"

	"github.com/nomorelonelylife/Point-bot/internal/entity"
	"github.com/nomorelonelylife/Point-bot/pkg/xcontext"
)

// When this migrator is called, no need to call other migrators.
func AutoMigrate(ctx context.Context) error {
	return xcontext.DB(ctx).AutoMigrate(
		&entity.Account{},
		&entity.MonitoredTweet{},
		&entity.ConfettiBall{},
		&entity.ConfettiClaim{},
		&entity.ConfettiTrap{},
		&entity.TrapClaim{},
		&entity.Vote{},
		&entity.VoteOption{},
		&entity.VoteRecord{},
	)
}

// Tables lists every migrated table, used when copying rows between the
// live database and a backup snapshot.
func Tables() []string {
	return []string{
		"accounts",
		"monitored_tweets",
		"confetti_balls",
		"confetti_claims",
		"confetti_traps",
		"trap_claims",
		"votes",
		"vote_options",
		"vote_records",
	}
}
