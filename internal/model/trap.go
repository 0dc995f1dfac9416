package model

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/nomorelonelylife/Point-bot/internal/entity"
)

type ConfettiTrap struct {
	ID           string          `json:"id"`
	CreatorID    string          `json:"creator_id"`
	EarnedPoints decimal.Decimal `json:"earned_points"`
	MaxClaims    int             `json:"max_claims"`
	ClaimedCount int             `json:"claimed_count"`
	Message      string          `json:"message"`
	ChannelRef   string          `json:"channel_ref"`
	Active       bool            `json:"active"`
	ExpiresAt    time.Time       `json:"expires_at"`
}

type TrapClaim struct {
	UserID      string          `json:"user_id"`
	DisplayName string          `json:"display_name"`
	Points      decimal.Decimal `json:"points"`
	ClaimedAt   time.Time       `json:"claimed_at"`
}

type CreateTrapRequest struct {
	CreatorID  string    `json:"creator_id"`
	MaxClaims  int       `json:"max_claims"`
	Message    string    `json:"message"`
	ChannelRef string    `json:"channel_ref"`
	ExpiresAt  time.Time `json:"expires_at"`
}

type CreateTrapResponse struct {
	Trap ConfettiTrap `json:"trap"`
}

type ClaimTrapRequest struct {
	TrapID      string `json:"trap_id"`
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
}

type ClaimTrapResponse struct {
	Outcome entity.TrapOutcome `json:"outcome"`

	// Points is what the claimer lost on a sprung trap, or what the
	// creator was penalized when the anti-abuse cap tripped.
	Points decimal.Decimal `json:"points"`
}

type ProcessExpiredTrapsRequest struct{}

// TrapSettlement summarizes one expired trap. No points move at trap
// expiry; the summary exists only for announcement.
type TrapSettlement struct {
	Trap   ConfettiTrap `json:"trap"`
	Claims []TrapClaim  `json:"claims"`
}

type ProcessExpiredTrapsResponse struct {
	Settlements []TrapSettlement `json:"settlements"`
}
