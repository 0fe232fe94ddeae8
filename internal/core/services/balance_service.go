package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/SscSPs/bizledger/internal/apperrors"
	"github.com/SscSPs/bizledger/internal/core/domain"
	portsrepo "github.com/SscSPs/bizledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bizledger/internal/core/ports/services"
)

// balanceService computes outstanding balances from the persistence service's documents.
type balanceService struct {
	BaseService
	accountRepo  portsrepo.AccountReader
	documentRepo portsrepo.DocumentReader
}

// NewBalanceService creates a new balance calculator.
func NewBalanceService(accountRepo portsrepo.AccountReader, documentRepo portsrepo.DocumentReader) portssvc.BalanceCalculatorSvc {
	return &balanceService{
		accountRepo:  accountRepo,
		documentRepo: documentRepo,
	}
}

var _ portssvc.BalanceCalculatorSvc = (*balanceService)(nil)

// ComputeBalance fetches the three document sets concurrently. If any fetch
// fails the whole computation fails: a missing set is never counted as zero.
func (s *balanceService) ComputeBalance(ctx context.Context, accountID string) (*domain.AccountBalance, error) {
	if _, err := s.accountRepo.FindAccountByID(ctx, accountID); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account for balance", slog.String("account_id", accountID))
			return nil, apperrors.Upstream("fetch account", err)
		}
		return nil, err
	}

	var docs domain.AccountDocuments
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		invoices, err := s.documentRepo.ListInvoicesByAccount(gctx, accountID)
		if err != nil {
			return documentFetchError("fetch invoices", err)
		}
		docs.Invoices = invoices
		return nil
	})
	g.Go(func() error {
		receipts, err := s.documentRepo.ListReceiptsByAccount(gctx, accountID)
		if err != nil {
			return documentFetchError("fetch receipts", err)
		}
		docs.Receipts = receipts
		return nil
	})
	g.Go(func() error {
		notes, err := s.documentRepo.ListCreditNotesByAccount(gctx, accountID)
		if err != nil {
			return documentFetchError("fetch credit notes", err)
		}
		docs.CreditNotes = notes
		return nil
	})
	if err := g.Wait(); err != nil {
		s.LogError(ctx, err, "Failed to fetch documents for balance", slog.String("account_id", accountID))
		return nil, err
	}

	balance := AggregateBalance(accountID, docs)
	s.LogDebug(ctx, "Balance computed",
		slog.String("account_id", accountID),
		slog.String("balance", balance.Balance.String()),
		slog.Int("invoices", len(docs.Invoices)),
		slog.Int("receipts", len(docs.Receipts)),
		slog.Int("credit_notes", len(docs.CreditNotes)))
	return &balance, nil
}

// documentFetchError maps a failed document listing to ErrUpstreamUnavailable.
// The account is already known to exist here, so a not-found from a listing is
// an upstream fault and must not surface as a missing account.
func documentFetchError(op string, err error) error {
	if errors.Is(err, apperrors.ErrNotFound) {
		return fmt.Errorf("%w: %s: %v", apperrors.ErrUpstreamUnavailable, op, err)
	}
	return apperrors.Upstream(op, err)
}

// AggregateBalance sums an account's documents. Cancelled invoices are excluded.
func AggregateBalance(accountID string, docs domain.AccountDocuments) domain.AccountBalance {
	invoiced := decimal.Zero
	for _, inv := range docs.Invoices {
		if inv.CountsTowardBalance() {
			invoiced = invoiced.Add(inv.Total)
		}
	}
	received := decimal.Zero
	for _, r := range docs.Receipts {
		received = received.Add(r.AmountReceived)
	}
	credited := decimal.Zero
	for _, cn := range docs.CreditNotes {
		credited = credited.Add(cn.Amount)
	}

	return domain.AccountBalance{
		AccountID:     accountID,
		Balance:       invoiced.Sub(received).Sub(credited),
		TotalInvoiced: invoiced,
		TotalReceived: received,
		TotalCredited: credited,
	}
}
