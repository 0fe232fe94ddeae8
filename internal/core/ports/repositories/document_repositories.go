package repositories

import (
	"context"

	"github.com/SscSPs/bizledger/internal/core/domain"
)

// DocumentReader defines read operations for the balance-affecting documents of an account.
// Each method must fail rather than return a partial list.
type DocumentReader interface {
	// ListInvoicesByAccount retrieves all invoices issued to an account, including cancelled ones.
	ListInvoicesByAccount(ctx context.Context, accountID string) ([]domain.Invoice, error)

	// ListReceiptsByAccount retrieves all receipts recorded for an account.
	ListReceiptsByAccount(ctx context.Context, accountID string) ([]domain.Receipt, error)

	// ListCreditNotesByAccount retrieves all credit notes issued to an account.
	ListCreditNotesByAccount(ctx context.Context, accountID string) ([]domain.CreditNote, error)
}

// SalesWriter submits completed workflows to the persistence service.
type SalesWriter interface {
	// SaveSale persists a sale. The service stores the invoice and links the stock entries.
	SaveSale(ctx context.Context, invoice domain.Invoice, stockEntryIDs []string) (*domain.Invoice, error)

	// SaveReturn persists a return as a credit note linked to its stock entries.
	SaveReturn(ctx context.Context, note domain.CreditNote, stockEntryIDs []string) (*domain.CreditNote, error)
}
