package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is the point balance of one chat user. The user id comes from the
// chat platform and is opaque to this service.
type Account struct {
	CreatedAt time.Time
	UpdatedAt time.Time `gorm:"index"`

	UserID      string `gorm:"primaryKey"`
	DisplayName string

	// Balance always carries exactly eight fractional digits and never
	// goes negative.
	Balance decimal.Decimal `gorm:"type:decimal(30,8);not null"`
}
