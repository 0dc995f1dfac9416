package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Account struct {
	UserID      string          `json:"user_id"`
	DisplayName string          `json:"display_name"`
	Balance     decimal.Decimal `json:"balance"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type GetBalanceRequest struct {
	UserID string `json:"user_id"`
}

type GetBalanceResponse struct {
	Balance decimal.Decimal `json:"balance"`
}

type GetTopAccountsRequest struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

type GetTopAccountsResponse struct {
	Accounts []Account `json:"accounts"`
}

type CreditRequest struct {
	UserID      string          `json:"user_id"`
	DisplayName string          `json:"display_name"`
	Amount      decimal.Decimal `json:"amount"`
}

type CreditResponse struct {
	Balance decimal.Decimal `json:"balance"`
}

type TransferRequest struct {
	FromUserID string          `json:"from_user_id"`
	ToUserID   string          `json:"to_user_id"`
	Amount     decimal.Decimal `json:"amount"`
}

type TransferResponse struct {
	// Transferred is false when the sender's balance cannot cover the
	// amount. That outcome is not an error.
	Transferred bool `json:"transferred"`
}
