package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/SscSPs/bizledger/internal/apperrors"
	"github.com/SscSPs/bizledger/internal/core/domain"
	portsrepo "github.com/SscSPs/bizledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bizledger/internal/core/ports/services"
)

// nearLimitRatio is the usage ratio at which an account is flagged NearLimit.
var nearLimitRatio = decimal.NewFromFloat(0.8)

// creditGuardService classifies account standing against the credit limit.
type creditGuardService struct {
	BaseService
	accountRepo portsrepo.AccountReader
	balanceSvc  portssvc.BalanceCalculatorSvc
}

// NewCreditGuardService creates a new credit guard.
func NewCreditGuardService(accountRepo portsrepo.AccountReader, balanceSvc portssvc.BalanceCalculatorSvc) portssvc.CreditGuardSvc {
	return &creditGuardService{
		accountRepo: accountRepo,
		balanceSvc:  balanceSvc,
	}
}

var _ portssvc.CreditGuardSvc = (*creditGuardService)(nil)

func (s *creditGuardService) Evaluate(ctx context.Context, accountID string, pendingAmount decimal.Decimal) (*domain.CreditEvaluation, error) {
	if pendingAmount.IsNegative() {
		return nil, fmt.Errorf("%w: pending amount must not be negative", apperrors.ErrValidation)
	}

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	balance, err := s.balanceSvc.ComputeBalance(ctx, accountID)
	if err != nil {
		return nil, err
	}

	eval := ClassifyCredit(balance.Balance, account.CreditLimit, pendingAmount)
	eval.AccountID = accountID
	if eval.Status != domain.CreditOK {
		s.LogInfo(ctx, "Account credit flagged",
			slog.String("account_id", accountID),
			slog.String("status", string(eval.Status)),
			slog.String("projected", eval.Projected.String()),
			slog.String("limit", eval.Limit.String()))
	}
	return &eval, nil
}

// ClassifyCredit applies the credit policy. A zero or negative limit is unenforced.
func ClassifyCredit(balance, limit, pending decimal.Decimal) domain.CreditEvaluation {
	projected := balance.Add(pending)
	eval := domain.CreditEvaluation{
		Status:    domain.CreditOK,
		Balance:   balance,
		Limit:     limit,
		Pending:   pending,
		Projected: projected,
		Available: decimal.Zero,
	}
	if !limit.IsPositive() {
		return eval
	}

	eval.Available = decimal.Max(limit.Sub(projected), decimal.Zero)
	switch {
	case projected.GreaterThanOrEqual(limit):
		eval.Status = domain.CreditOverLimit
	case projected.GreaterThanOrEqual(limit.Mul(nearLimitRatio)):
		eval.Status = domain.CreditNearLimit
	}
	return eval
}
