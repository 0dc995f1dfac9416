package model

import (
	"time"

	"github.com/nomorelonelylife/Point-bot/pkg/enum"
)

type EventType string

var (
	BallSettledEvent = enum.New(EventType("ball_settled"))
	TrapSettledEvent = enum.New(EventType("trap_settled"))
)

// Event is what the expiry sweep emits for the announcing side to consume.
// Exactly one of the settlement fields is set, matching Type.
type Event struct {
	Type      EventType `json:"type"`
	CreatedAt time.Time `json:"created_at"`

	BallSettlement *BallSettlement `json:"ball_settlement,omitempty"`
	TrapSettlement *TrapSettlement `json:"trap_settlement,omitempty"`
}
