package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/nomorelonelylife/Point-bot/pkg/enum"
)

type TrapOutcome string

var (
	// TrapOK means the trap sprung and the claimer lost points.
	TrapOK = enum.New(TrapOutcome("ok"))

	// TrapRejected covers inactive, expired, exhausted, duplicate, and
	// empty-handed claim attempts. Nothing happens.
	TrapRejected = enum.New(TrapOutcome("rejected"))

	// TrapNoBalance means the creator's balance is negligible; the trap
	// deactivates without paying out.
	TrapNoBalance = enum.New(TrapOutcome("no_balance"))

	// TrapPenalty means the anti-abuse cap tripped: the trap deactivates
	// and the creator pays a penalty instead of earning.
	TrapPenalty = enum.New(TrapOutcome("penalty"))
)

// ConfettiTrap is the adversarial counterpart of a ball. It holds no pool:
// whoever claims it loses a random share of their own balance to the trap
// creator. EarnedPoints accumulates what the creator extracted so far and
// feeds the anti-abuse cap.
type ConfettiTrap struct {
	Base

	CreatorID string `gorm:"index"`

	EarnedPoints decimal.Decimal `gorm:"type:decimal(30,8)"`

	MaxClaims    int
	ClaimedCount int

	Message    string
	ChannelRef string

	Active    bool      `gorm:"index:idx_confetti_traps_sweep"`
	ExpiresAt time.Time `gorm:"index:idx_confetti_traps_sweep"`
}

// TrapClaim records one victim's loss. Only successful steals create rows;
// rejected and penalized attempts leave no trace here.
type TrapClaim struct {
	CreatedAt time.Time `gorm:"index"`

	TrapID string `gorm:"primaryKey"`
	UserID string `gorm:"primaryKey"`

	DisplayName string
	Points      decimal.Decimal `gorm:"type:decimal(30,8)"`
}
