package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ConfettiBall is a pre-funded giveaway. The creator pays TotalPoints up
// front and claimers draw random shares until the pool is exhausted or the
// ball expires. The unclaimed remainder goes back to the creator at expiry.
type ConfettiBall struct {
	Base

	CreatorID string `gorm:"index"`

	TotalPoints   decimal.Decimal `gorm:"type:decimal(30,8)"`
	ClaimedPoints decimal.Decimal `gorm:"type:decimal(30,8)"`

	MaxClaims    int
	ClaimedCount int

	Message    string
	ChannelRef string

	Active    bool      `gorm:"index:idx_confetti_balls_sweep"`
	ExpiresAt time.Time `gorm:"index:idx_confetti_balls_sweep"`
}

// ConfettiClaim records one user's share of a ball. The composite primary
// key guarantees a user claims each ball at most once. Rows are append-only.
type ConfettiClaim struct {
	CreatedAt time.Time `gorm:"index"`

	BallID string `gorm:"primaryKey"`
	UserID string `gorm:"primaryKey"`

	DisplayName string
	Points      decimal.Decimal `gorm:"type:decimal(30,8)"`
}
