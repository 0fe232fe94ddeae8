package client

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/SscSPs/bizledger/internal/apperrors"
	"github.com/SscSPs/bizledger/internal/core/domain"
	portsrepo "github.com/SscSPs/bizledger/internal/core/ports/repositories"
)

// PersistenceClient is a client for the persistence service that owns accounts
// and the invoice, receipt and credit note documents.
type PersistenceClient struct {
	client *httpClient
}

// NewPersistenceClient creates a new persistence service client
func NewPersistenceClient(baseURL string, timeout time.Duration) *PersistenceClient {
	return &PersistenceClient{
		client: newHTTPClient(baseURL, timeout),
	}
}

var (
	_ portsrepo.AccountReader  = (*PersistenceClient)(nil)
	_ portsrepo.DocumentReader = (*PersistenceClient)(nil)
	_ portsrepo.SalesWriter    = (*PersistenceClient)(nil)
)

// FindAccountByID retrieves an account
func (c *PersistenceClient) FindAccountByID(ctx context.Context, accountID string) (*domain.LedgerAccount, error) {
	var resp accountPayload
	if err := c.client.get(ctx, "/accounts/"+url.PathEscape(accountID), &resp); err != nil {
		return nil, fmt.Errorf("failed to get account %s: %w", accountID, err)
	}
	account, err := toDomainAccount(resp)
	if err != nil {
		return nil, apperrors.Upstream("get account", err)
	}
	return &account, nil
}

// ListAccounts retrieves every account
func (c *PersistenceClient) ListAccounts(ctx context.Context) ([]domain.LedgerAccount, error) {
	var resp listAccountsResponse
	if err := c.client.get(ctx, "/accounts", &resp); err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	accounts := make([]domain.LedgerAccount, 0, len(resp.Accounts))
	for _, p := range resp.Accounts {
		account, err := toDomainAccount(p)
		if err != nil {
			return nil, apperrors.Upstream("list accounts", err)
		}
		accounts = append(accounts, account)
	}
	return accounts, nil
}

func accountQuery(path, accountID string) string {
	return path + "?" + url.Values{"accountId": []string{accountID}}.Encode()
}

// ListInvoicesByAccount retrieves an account's invoices. A malformed invoice fails the whole call.
func (c *PersistenceClient) ListInvoicesByAccount(ctx context.Context, accountID string) ([]domain.Invoice, error) {
	var resp listInvoicesResponse
	if err := c.client.get(ctx, accountQuery("/invoices", accountID), &resp); err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	invoices := make([]domain.Invoice, 0, len(resp.Invoices))
	for _, p := range resp.Invoices {
		inv, err := toDomainInvoice(p)
		if err != nil {
			return nil, apperrors.Upstream("list invoices", err)
		}
		invoices = append(invoices, inv)
	}
	return invoices, nil
}

// ListReceiptsByAccount retrieves an account's receipts
func (c *PersistenceClient) ListReceiptsByAccount(ctx context.Context, accountID string) ([]domain.Receipt, error) {
	var resp listReceiptsResponse
	if err := c.client.get(ctx, accountQuery("/receipts", accountID), &resp); err != nil {
		return nil, fmt.Errorf("failed to list receipts: %w", err)
	}
	receipts := make([]domain.Receipt, len(resp.Receipts))
	for i, p := range resp.Receipts {
		receipts[i] = toDomainReceipt(p)
	}
	return receipts, nil
}

// ListCreditNotesByAccount retrieves an account's credit notes
func (c *PersistenceClient) ListCreditNotesByAccount(ctx context.Context, accountID string) ([]domain.CreditNote, error) {
	var resp listCreditNotesResponse
	if err := c.client.get(ctx, accountQuery("/credit-notes", accountID), &resp); err != nil {
		return nil, fmt.Errorf("failed to list credit notes: %w", err)
	}
	notes := make([]domain.CreditNote, len(resp.CreditNotes))
	for i, p := range resp.CreditNotes {
		notes[i] = toDomainCreditNote(p)
	}
	return notes, nil
}

// SaveSale submits an invoice together with the stock entries it produced
func (c *PersistenceClient) SaveSale(ctx context.Context, invoice domain.Invoice, stockEntryIDs []string) (*domain.Invoice, error) {
	var resp invoicePayload
	req := saleRequest{Invoice: toInvoicePayload(invoice), StockEntryIDs: stockEntryIDs}
	if err := c.client.post(ctx, "/sales", req, &resp, withIdempotencyKey(invoice.InvoiceID)); err != nil {
		return nil, fmt.Errorf("failed to submit sale %s: %w", invoice.Number, err)
	}
	saved, err := toDomainInvoice(resp)
	if err != nil {
		return nil, apperrors.Upstream("submit sale", err)
	}
	return &saved, nil
}

// SaveReturn submits a credit note together with the stock entries it produced
func (c *PersistenceClient) SaveReturn(ctx context.Context, note domain.CreditNote, stockEntryIDs []string) (*domain.CreditNote, error) {
	var resp creditNotePayload
	req := returnRequest{CreditNote: toCreditNotePayload(note), StockEntryIDs: stockEntryIDs}
	if err := c.client.post(ctx, "/returns", req, &resp, withIdempotencyKey(note.CreditNoteID)); err != nil {
		return nil, fmt.Errorf("failed to submit return %s: %w", note.Number, err)
	}
	saved := toDomainCreditNote(resp)
	return &saved, nil
}
