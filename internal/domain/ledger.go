package domain

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/nomorelonelylife/Point-bot/internal/model"
	"github.com/nomorelonelylife/Point-bot/internal/repository"
	"github.com/nomorelonelylife/Point-bot/pkg/errorx"
	"github.com/nomorelonelylife/Point-bot/pkg/numberutil"
	"github.com/nomorelonelylife/Point-bot/pkg/xcontext"
)

type LedgerDomain interface {
	GetBalance(context.Context, *model.GetBalanceRequest) (*model.GetBalanceResponse, error)
	GetTopAccounts(context.Context, *model.GetTopAccountsRequest) (*model.GetTopAccountsResponse, error)
	Credit(context.Context, *model.CreditRequest) (*model.CreditResponse, error)
	Transfer(context.Context, *model.TransferRequest) (*model.TransferResponse, error)
}

type ledgerDomain struct {
	accountRepo repository.AccountRepository
}

func NewLedgerDomain(accountRepo repository.AccountRepository) *ledgerDomain {
	return &ledgerDomain{accountRepo: accountRepo}
}

// GetBalance never fails for an unknown user; the balance is simply zero.
func (d *ledgerDomain) GetBalance(
	ctx context.Context, req *model.GetBalanceRequest,
) (*model.GetBalanceResponse, error) {
	if req.UserID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty user id")
	}

	account, err := d.accountRepo.Get(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &model.GetBalanceResponse{}, nil
		}

		xcontext.Logger(ctx).Errorf("Cannot get account: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetBalanceResponse{Balance: account.Balance}, nil
}

// GetTopAccounts lists accounts by balance, richest first.
func (d *ledgerDomain) GetTopAccounts(
	ctx context.Context, req *model.GetTopAccountsRequest,
) (*model.GetTopAccountsResponse, error) {
	if req.Limit <= 0 || req.Limit > 100 {
		return nil, errorx.New(errorx.BadRequest, "The limit must be between 1 and 100")
	}

	accounts, err := d.accountRepo.GetList(ctx, req.Offset, req.Limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get accounts: %v", err)
		return nil, errorx.Unknown
	}

	clientAccounts := []model.Account{}
	for i := range accounts {
		clientAccounts = append(clientAccounts, model.ConvertAccount(&accounts[i]))
	}

	return &model.GetTopAccountsResponse{Accounts: clientAccounts}, nil
}

func (d *ledgerDomain) Credit(
	ctx context.Context, req *model.CreditRequest,
) (*model.CreditResponse, error) {
	if req.UserID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty user id")
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	err := d.accountRepo.Deposit(ctx, req.UserID, req.DisplayName, req.Amount)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot deposit to account: %v", err)
		return nil, errorx.Unknown
	}

	account, err := d.accountRepo.Get(ctx, req.UserID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get account after deposit: %v", err)
		return nil, errorx.Unknown
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit transaction: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CreditResponse{Balance: account.Balance}, nil
}

// Transfer moves points between two users. An insufficient balance is a
// normal outcome reported through the response, not an error.
func (d *ledgerDomain) Transfer(
	ctx context.Context, req *model.TransferRequest,
) (*model.TransferResponse, error) {
	if req.FromUserID == "" || req.ToUserID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty user id")
	}

	if req.FromUserID == req.ToUserID {
		return nil, errorx.New(errorx.BadRequest, "Not allow transferring to yourself")
	}

	amount := numberutil.RoundPoints(req.Amount)
	if !amount.IsPositive() {
		return nil, errorx.New(errorx.BadRequest, "Transfer amount must be positive")
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	// The sufficiency check and both mutations share one exclusive
	// transaction, so concurrent transfers draining the same account
	// serialize instead of racing.
	sender, err := d.accountRepo.Get(ctx, req.FromUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &model.TransferResponse{Transferred: false}, nil
		}

		xcontext.Logger(ctx).Errorf("Cannot get sender account: %v", err)
		return nil, errorx.Unknown
	}

	if sender.Balance.LessThan(amount) {
		return &model.TransferResponse{Transferred: false}, nil
	}

	if err := d.accountRepo.Deposit(ctx, req.FromUserID, "", amount.Neg()); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot debit sender: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.accountRepo.Deposit(ctx, req.ToUserID, "", amount); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot credit receiver: %v", err)
		return nil, errorx.Unknown
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit transaction: %v", err)
		return nil, errorx.Unknown
	}

	return &model.TransferResponse{Transferred: true}, nil
}
