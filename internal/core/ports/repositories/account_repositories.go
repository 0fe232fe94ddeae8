package repositories

import (
	"context"

	"github.com/SscSPs/bizledger/internal/core/domain"
)

// AccountReader defines read operations for ledger accounts.
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.LedgerAccount, error)

	// ListAccounts retrieves every ledger account.
	ListAccounts(ctx context.Context) ([]domain.LedgerAccount, error)
}
