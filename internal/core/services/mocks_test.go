package services_test

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/SscSPs/bizledger/internal/core/domain"
)

// --- Mock AccountReader ---
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.LedgerAccount, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerAccount), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context) ([]domain.LedgerAccount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerAccount), args.Error(1)
}

// --- Mock DocumentReader ---
type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) ListInvoicesByAccount(ctx context.Context, accountID string) ([]domain.Invoice, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Invoice), args.Error(1)
}

func (m *MockDocumentRepository) ListReceiptsByAccount(ctx context.Context, accountID string) ([]domain.Receipt, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Receipt), args.Error(1)
}

func (m *MockDocumentRepository) ListCreditNotesByAccount(ctx context.Context, accountID string) ([]domain.CreditNote, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CreditNote), args.Error(1)
}

// --- Mock SalesWriter ---
type MockSalesRepository struct {
	mock.Mock
}

func (m *MockSalesRepository) SaveSale(ctx context.Context, invoice domain.Invoice, stockEntryIDs []string) (*domain.Invoice, error) {
	args := m.Called(ctx, invoice, stockEntryIDs)
	if fn, ok := args.Get(0).(func(context.Context, domain.Invoice, []string) *domain.Invoice); ok {
		return fn(ctx, invoice, stockEntryIDs), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockSalesRepository) SaveReturn(ctx context.Context, note domain.CreditNote, stockEntryIDs []string) (*domain.CreditNote, error) {
	args := m.Called(ctx, note, stockEntryIDs)
	if fn, ok := args.Get(0).(func(context.Context, domain.CreditNote, []string) *domain.CreditNote); ok {
		return fn(ctx, note, stockEntryIDs), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CreditNote), args.Error(1)
}

// --- Mock CreditGuardSvc ---
type MockCreditGuard struct {
	mock.Mock
}

func (m *MockCreditGuard) Evaluate(ctx context.Context, accountID string, pendingAmount decimal.Decimal) (*domain.CreditEvaluation, error) {
	args := m.Called(ctx, accountID, pendingAmount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CreditEvaluation), args.Error(1)
}

// --- Mock BalanceCalculatorSvc ---
type MockBalanceCalculator struct {
	mock.Mock
}

func (m *MockBalanceCalculator) ComputeBalance(ctx context.Context, accountID string) (*domain.AccountBalance, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountBalance), args.Error(1)
}
