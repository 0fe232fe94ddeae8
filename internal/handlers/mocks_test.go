package handlers_test

import (
	"context"

	"github.com/SscSPs/bizledger/internal/core/domain"
	portssvc "github.com/SscSPs/bizledger/internal/core/ports/services"
	"github.com/SscSPs/bizledger/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mock CatalogService ---
type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) GetItem(ctx context.Context, itemID string) (*domain.StockItem, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StockItem), args.Error(1)
}

func (m *MockCatalogService) ListItems(ctx context.Context) ([]domain.StockItem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StockItem), args.Error(1)
}

func (m *MockCatalogService) ListLowStock(ctx context.Context) ([]domain.StockItem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StockItem), args.Error(1)
}

func (m *MockCatalogService) SaveItem(ctx context.Context, req dto.SaveItemRequest) (*domain.StockItem, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StockItem), args.Error(1)
}

func (m *MockCatalogService) DeleteItem(ctx context.Context, itemID string) error {
	args := m.Called(ctx, itemID)
	return args.Error(0)
}

var _ portssvc.CatalogSvcFacade = (*MockCatalogService)(nil)

// --- Mock StockLedgerService ---
type MockStockLedgerService struct {
	mock.Mock
}

func (m *MockStockLedgerService) AppendAdjustment(ctx context.Context, req domain.AdjustmentRequest) (*domain.StockAdjustmentLogEntry, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StockAdjustmentLogEntry), args.Error(1)
}

func (m *MockStockLedgerService) AppendBatch(ctx context.Context, reqs []domain.AdjustmentRequest) ([]domain.StockAdjustmentLogEntry, error) {
	args := m.Called(ctx, reqs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StockAdjustmentLogEntry), args.Error(1)
}

func (m *MockStockLedgerService) ReverseAdjustment(ctx context.Context, entryID string) (*domain.StockAdjustmentLogEntry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StockAdjustmentLogEntry), args.Error(1)
}

func (m *MockStockLedgerService) RebuildStock(ctx context.Context, itemID string, repair bool) (*domain.StockRebuild, error) {
	args := m.Called(ctx, itemID, repair)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StockRebuild), args.Error(1)
}

func (m *MockStockLedgerService) GetAdjustment(ctx context.Context, entryID string) (*domain.StockAdjustmentLogEntry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StockAdjustmentLogEntry), args.Error(1)
}

func (m *MockStockLedgerService) ListAdjustments(ctx context.Context, itemID string, params dto.ListAdjustmentsParams) (*dto.ListAdjustmentsResponse, error) {
	args := m.Called(ctx, itemID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListAdjustmentsResponse), args.Error(1)
}

var _ portssvc.StockLedgerSvcFacade = (*MockStockLedgerService)(nil)

// --- Mock PriceResolver ---
type MockPriceResolver struct {
	mock.Mock
}

func (m *MockPriceResolver) ResolvePrice(item domain.StockItem, accountPriceLevel string) domain.PriceResolution {
	args := m.Called(item, accountPriceLevel)
	return args.Get(0).(domain.PriceResolution)
}

func (m *MockPriceResolver) ResolvePriceForAccount(ctx context.Context, itemID string, accountID string) (*domain.PriceResolution, error) {
	args := m.Called(ctx, itemID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PriceResolution), args.Error(1)
}

var _ portssvc.PriceResolverSvc = (*MockPriceResolver)(nil)

// --- Mock BalanceCalculator ---
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

var _ portssvc.BalanceCalculatorSvc = (*MockBalanceCalculator)(nil)

// --- Mock CreditGuard ---
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

var _ portssvc.CreditGuardSvc = (*MockCreditGuard)(nil)

// --- Mock SalesWorkflow ---
type MockSalesWorkflow struct {
	mock.Mock
}

func (m *MockSalesWorkflow) RecordSale(ctx context.Context, req dto.RecordSaleRequest) (*domain.SaleRecord, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SaleRecord), args.Error(1)
}

func (m *MockSalesWorkflow) RecordReturn(ctx context.Context, req dto.RecordReturnRequest) (*domain.ReturnRecord, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReturnRecord), args.Error(1)
}

var _ portssvc.SalesWorkflowSvc = (*MockSalesWorkflow)(nil)
