package services

import (
	"context"

	"github.com/SscSPs/bizledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BalanceCalculatorSvc computes outstanding balances from an account's documents.
type BalanceCalculatorSvc interface {
	// ComputeBalance aggregates invoices, receipts and credit notes. Nothing is cached.
	ComputeBalance(ctx context.Context, accountID string) (*domain.AccountBalance, error)
}

// CreditGuardSvc classifies an account's standing before a credit-bearing transaction.
type CreditGuardSvc interface {
	// Evaluate is advisory: it never blocks the transaction itself.
	Evaluate(ctx context.Context, accountID string, pendingAmount decimal.Decimal) (*domain.CreditEvaluation, error)
}
