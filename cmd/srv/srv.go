package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/nomorelonelylife/Point-bot/config"
	"github.com/nomorelonelylife/Point-bot/internal/domain"
	"github.com/nomorelonelylife/Point-bot/internal/model"
	"github.com/nomorelonelylife/Point-bot/internal/repository"
	"github.com/nomorelonelylife/Point-bot/migration"
	"github.com/nomorelonelylife/Point-bot/pkg/api/twitter"
	"github.com/nomorelonelylife/Point-bot/pkg/logger"
	"github.com/nomorelonelylife/Point-bot/pkg/storage"
	"github.com/nomorelonelylife/Point-bot/pkg/xcontext"
)

type srv struct {
	app *cli.App
	ctx context.Context

	configs config.Configs

	accountRepo  repository.AccountRepository
	tweetRepo    repository.MonitoredTweetRepository
	confettiRepo repository.ConfettiRepository
	trapRepo     repository.TrapRepository
	voteRepo     repository.VoteRepository

	ledgerDomain      domain.LedgerDomain
	tweetDomain       domain.TweetDomain
	confettiDomain    domain.ConfettiDomain
	trapDomain        domain.TrapDomain
	voteDomain        domain.VoteDomain
	maintenanceDomain domain.MaintenanceDomain

	backupStore     storage.BackupStore
	twitterEndpoint twitter.IEndpoint

	events chan model.Event
}

// loadBase prepares everything shared by all commands: configs, logger,
// and an open, migrated database in the context.
func (s *srv) loadBase(cctx *cli.Context) error {
	cfg, err := config.Load(cctx.String("config"))
	if err != nil {
		return err
	}

	// Secrets come from the environment, never the config file.
	if token := os.Getenv("TWITTER_BEARER_TOKEN"); token != "" {
		cfg.Twitter.BearerToken = token
	}
	if url := os.Getenv("HEARTBEAT_URL"); url != "" {
		cfg.Cron.HeartbeatURL = url
	}

	s.configs = cfg
	s.ctx = context.Background()
	s.ctx = xcontext.WithConfigs(s.ctx, cfg)
	s.ctx = xcontext.WithLogger(s.ctx, logger.NewLogger(cfg.LogLevel))
	s.ctx = xcontext.WithDB(s.ctx, s.newDatabase())

	return s.migrateDB()
}

func (s *srv) newDatabase() *gorm.DB {
	db, err := gorm.Open(sqlite.Open(s.configs.Database.ConnectionString()), &gorm.Config{})
	if err != nil {
		panic(err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		panic(err)
	}

	sqlDB.SetMaxOpenConns(s.configs.Database.MaxOpenConns)
	return db
}

func (s *srv) migrateDB() error {
	return migration.AutoMigrate(s.ctx)
}

func (s *srv) closeDatabase() {
	sqlDB, err := xcontext.DB(s.ctx).DB()
	if err != nil {
		xcontext.Logger(s.ctx).Errorf("Cannot take database handle to close: %v", err)
		return
	}

	// Close waits for in-flight transactions to finish committing or
	// rolling back.
	if err := sqlDB.Close(); err != nil {
		xcontext.Logger(s.ctx).Errorf("Cannot close database: %v", err)
	}
}

func (s *srv) loadRepos() {
	s.accountRepo = repository.NewAccountRepository()
	s.tweetRepo = repository.NewMonitoredTweetRepository()
	s.confettiRepo = repository.NewConfettiRepository()
	s.trapRepo = repository.NewTrapRepository()
	s.voteRepo = repository.NewVoteRepository()
}

func (s *srv) loadStorage() {
	s.backupStore = storage.NewFileStore(s.configs.Backup)
}

func (s *srv) loadEndpoint() {
	s.twitterEndpoint = twitter.New(s.configs.Twitter)
}

func (s *srv) loadDomains() {
	s.ledgerDomain = domain.NewLedgerDomain(s.accountRepo)
	s.tweetDomain = domain.NewTweetDomain(s.tweetRepo, s.accountRepo, s.twitterEndpoint)
	s.confettiDomain = domain.NewConfettiDomain(s.confettiRepo, s.accountRepo)
	s.trapDomain = domain.NewTrapDomain(s.trapRepo, s.accountRepo)
	s.voteDomain = domain.NewVoteDomain(s.voteRepo, s.accountRepo)
	s.maintenanceDomain = domain.NewMaintenanceDomain(
		s.voteRepo, s.confettiRepo, s.trapRepo, s.backupStore)
}
