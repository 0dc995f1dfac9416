package config

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/shopspring/decimal"
)

type Configs struct {
	Env      string
	LogLevel int

	Database DatabaseConfigs
	Health   ServerConfigs
	Backup   BackupConfigs
	Confetti ConfettiConfigs
	Trap     TrapConfigs
	Vote     VoteConfigs
	Tweet    TweetConfigs
	Twitter  TwitterConfigs
	Cron     CronConfigs
}

type DatabaseConfigs struct {
	Path         string
	MaxOpenConns int
	// BusyTimeout is how long a connection waits for the exclusive write
	// lock before the operation fails.
	BusyTimeout time.Duration
}

// ConnectionString builds the sqlite DSN. Transactions begin in immediate
// mode so concurrent writers serialize at BEGIN instead of failing on the
// first write statement.
func (d *DatabaseConfigs) ConnectionString() string {
	return fmt.Sprintf(
		"file:%s?_txlock=immediate&_busy_timeout=%d&_journal_mode=WAL&_foreign_keys=on",
		d.Path, d.BusyTimeout.Milliseconds(),
	)
}

type ServerConfigs struct {
	Host string
	Port string
}

func (s *ServerConfigs) Address() string {
	return fmt.Sprintf("%s:%s", s.Host, s.Port)
}

type BackupConfigs struct {
	Dir       string
	Prefix    string
	Retention time.Duration

	// Purge windows applied by the cleanup cycle after the backup is taken.
	ClaimRetention time.Duration
	VoteRetention  time.Duration
}

type ConfettiConfigs struct {
	MaxClaims int

	// Expiration bounds for balls and traps created without an explicit
	// expiry time.
	MinExpiration time.Duration
	MaxExpiration time.Duration
}

// TrapConfigs carries the trap tuning constants. The defaults come from the
// original bot and have no documented derivation, so they stay configurable
// rather than baked in.
type TrapConfigs struct {
	StealMinRate   decimal.Decimal
	StealMaxRate   decimal.Decimal
	PenaltyMinRate decimal.Decimal
	PenaltyMaxRate decimal.Decimal

	// EarningsCap deactivates a trap once its cumulative earnings exceed
	// this multiple of the creator's balance.
	EarningsCap decimal.Decimal
}

type VoteConfigs struct {
	MinOptions    int
	MaxOptions    int
	MinExpireDays int
	MaxExpireDays int
}

type TweetConfigs struct {
	MaxActive int

	DefaultLikePoints    float64
	DefaultRetweetPoints float64
	DefaultReplyPoints   float64
}

type TwitterConfigs struct {
	APIEndpoints []string
	BearerToken  string

	// RequestInterval is the minimum spacing between api calls, enforced
	// by a rate limiter on the caller side.
	RequestInterval time.Duration
	MaxRetry        int
}

type CronConfigs struct {
	SweepInterval   time.Duration
	HeartbeatURL    string
	CleanupMaxRetry int
	CleanupBackoff  time.Duration
}

// Default returns the configs the daemon runs with when no file overrides
// them.
func Default() Configs {
	return Configs{
		Env:      "local",
		LogLevel: 1,
		Database: DatabaseConfigs{
			Path:         "points.db",
			MaxOpenConns: 60,
			BusyTimeout:  30 * time.Second,
		},
		Health: ServerConfigs{Host: "", Port: "8080"},
		Backup: BackupConfigs{
			Dir:            "backups",
			Prefix:         "points_",
			Retention:      14 * 24 * time.Hour,
			ClaimRetention: 7 * 24 * time.Hour,
			VoteRetention:  14 * 24 * time.Hour,
		},
		Confetti: ConfettiConfigs{
			MaxClaims:     100,
			MinExpiration: time.Second,
			MaxExpiration: 30 * time.Minute,
		},
		Trap: TrapConfigs{
			StealMinRate:   decimal.NewFromFloat(0.001),
			StealMaxRate:   decimal.NewFromFloat(0.05),
			PenaltyMinRate: decimal.NewFromFloat(0.0001),
			PenaltyMaxRate: decimal.NewFromFloat(0.03),
			EarningsCap:    decimal.NewFromFloat(2.33333),
		},
		Vote: VoteConfigs{
			MinOptions:    2,
			MaxOptions:    10,
			MinExpireDays: 1,
			MaxExpireDays: 30,
		},
		Tweet: TweetConfigs{
			MaxActive:            3,
			DefaultLikePoints:    1,
			DefaultRetweetPoints: 2,
			DefaultReplyPoints:   1,
		},
		Twitter: TwitterConfigs{
			APIEndpoints:    []string{"https://api.twitter.com"},
			RequestInterval: 5 * time.Second,
			MaxRetry:        3,
		},
		Cron: CronConfigs{
			SweepInterval:   time.Hour,
			CleanupMaxRetry: 3,
			CleanupBackoff:  time.Second,
		},
	}
}

// Load reads a toml config file over the defaults. An empty path returns the
// defaults unchanged.
func Load(path string) (Configs, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Configs{}, fmt.Errorf("cannot decode config file %s: %w", path, err)
	}

	return cfg, nil
}
