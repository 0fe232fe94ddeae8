package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/bizledger/internal/apperrors"
	"github.com/SscSPs/bizledger/internal/core/domain"
	portssvc "github.com/SscSPs/bizledger/internal/core/ports/services"
	"github.com/SscSPs/bizledger/internal/dto"
	"github.com/SscSPs/bizledger/internal/handlers"
	"github.com/SscSPs/bizledger/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Test Suite ---
type HandlersTestSuite struct {
	suite.Suite
	router  *gin.Engine
	catalog *MockCatalogService
	stock   *MockStockLedgerService
	price   *MockPriceResolver
	balance *MockBalanceCalculator
	credit  *MockCreditGuard
	sales   *MockSalesWorkflow
}

func (suite *HandlersTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()

	suite.catalog = new(MockCatalogService)
	suite.stock = new(MockStockLedgerService)
	suite.price = new(MockPriceResolver)
	suite.balance = new(MockBalanceCalculator)
	suite.credit = new(MockCreditGuard)
	suite.sales = new(MockSalesWorkflow)

	container := &portssvc.ServiceContainer{
		Price:   suite.price,
		Stock:   suite.stock,
		Balance: suite.balance,
		Credit:  suite.credit,
		Catalog: suite.catalog,
		Sales:   suite.sales,
	}
	handlers.RegisterRoutes(suite.router, &config.Config{IsProduction: true}, container, nil)
}

func (suite *HandlersTestSuite) do(method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *HandlersTestSuite) errorBody(w *httptest.ResponseRecorder) map[string]any {
	var body map[string]any
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

// --- Test Cases ---

func (suite *HandlersTestSuite) TestHealth() {
	w := suite.do(http.MethodGet, "/health", nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("OK", w.Body.String())
}

func (suite *HandlersTestSuite) TestSaveItem_Success() {
	item := &domain.StockItem{
		ItemID:            "it-1",
		SKU:               "CHK-1KG",
		Name:              "Chickpeas 1kg",
		Kind:              domain.FinishedGood,
		UnitOfMeasure:     "bag",
		Stock:             decimal.NewFromInt(150),
		LowStockThreshold: decimal.NewFromInt(20),
		SellPrice:         decimal.NewFromInt(3),
	}
	suite.catalog.On("SaveItem", mock.Anything, mock.MatchedBy(func(r dto.SaveItemRequest) bool {
		return r.SKU == "CHK-1KG" && r.OpeningStock.Equal(decimal.NewFromInt(150)) && len(r.PriceTiers) == 1
	})).Return(item, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/items", map[string]any{
		"sku":           "CHK-1KG",
		"name":          "Chickpeas 1kg",
		"kind":          "FINISHED_GOOD",
		"unitOfMeasure": "bag",
		"openingStock":  "150",
		"sellPrice":     "3",
		"priceTiers":    []map[string]any{{"priceLevel": "WHOLESALE", "price": "2"}},
	})

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ItemResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("it-1", resp.ItemID)
	suite.True(resp.Stock.Equal(decimal.NewFromInt(150)))
	suite.False(resp.IsLowStock)
	suite.catalog.AssertExpectations(suite.T())
}

func (suite *HandlersTestSuite) TestSaveItem_BindingFailure() {
	w := suite.do(http.MethodPost, "/api/v1/items", map[string]any{"name": "no sku", "kind": "GADGET"})
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.catalog.AssertNotCalled(suite.T(), "SaveItem", mock.Anything, mock.Anything)
}

func (suite *HandlersTestSuite) TestDeleteItem_StockRemaining() {
	suite.catalog.On("DeleteItem", mock.Anything, "it-1").Return(apperrors.ErrPolicyViolation).Once()

	w := suite.do(http.MethodDelete, "/api/v1/items/it-1", nil)
	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *HandlersTestSuite) TestGetItem_NotFound() {
	suite.catalog.On("GetItem", mock.Anything, "missing").Return(nil, apperrors.ErrNotFound).Once()

	w := suite.do(http.MethodGet, "/api/v1/items/missing", nil)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *HandlersTestSuite) TestListItems_InternalErrorIsHidden() {
	suite.catalog.On("ListItems", mock.Anything).Return(nil, assertErr("db exploded")).Once()

	w := suite.do(http.MethodGet, "/api/v1/items", nil)
	suite.Equal(http.StatusInternalServerError, w.Code)
	suite.NotContains(w.Body.String(), "db exploded")
}

func (suite *HandlersTestSuite) TestResolvePrice() {
	suite.price.On("ResolvePriceForAccount", mock.Anything, "it-1", "acc-1").
		Return(&domain.PriceResolution{Price: decimal.NewFromInt(2), TierApplied: "WHOLESALE"}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/items/it-1/price?accountID=acc-1", nil)
	suite.Equal(http.StatusOK, w.Code)
	var resp dto.PriceResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("WHOLESALE", resp.TierApplied)
	suite.True(resp.Price.Equal(decimal.NewFromInt(2)))
}

func (suite *HandlersTestSuite) TestResolvePrice_MissingAccount() {
	w := suite.do(http.MethodGet, "/api/v1/items/it-1/price", nil)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlersTestSuite) TestCreateAdjustment_Success() {
	entry := &domain.StockAdjustmentLogEntry{
		EntryID:          "e-1",
		LogNumber:        2,
		ItemID:           "it-1",
		AdjustmentType:   domain.Addition,
		QuantityAdjusted: decimal.NewFromInt(50),
		PreviousStock:    decimal.NewFromInt(150),
		NewStock:         decimal.NewFromInt(200),
	}
	suite.stock.On("AppendAdjustment", mock.Anything, mock.MatchedBy(func(r domain.AdjustmentRequest) bool {
		return r.ItemID == "it-1" && r.Type == domain.Addition && r.QuantityDelta.Equal(decimal.NewFromInt(50))
	})).Return(entry, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/items/it-1/adjustments", map[string]any{
		"quantityDelta":  50,
		"adjustmentType": "ADDITION",
	})

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.AdjustmentResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(int64(2), resp.LogNumber)
	suite.True(resp.NewStock.Equal(decimal.NewFromInt(200)))
	suite.stock.AssertExpectations(suite.T())
}

func (suite *HandlersTestSuite) TestCreateAdjustment_SaleTypeRejectedAtBinding() {
	w := suite.do(http.MethodPost, "/api/v1/items/it-1/adjustments", map[string]any{
		"quantityDelta":  -5,
		"adjustmentType": "SALE_DEDUCTION",
	})
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.stock.AssertNotCalled(suite.T(), "AppendAdjustment", mock.Anything, mock.Anything)
}

func (suite *HandlersTestSuite) TestCreateAdjustment_InsufficientStock() {
	suite.stock.On("AppendAdjustment", mock.Anything, mock.Anything).Return(nil, apperrors.ErrInsufficientStock).Once()

	w := suite.do(http.MethodPost, "/api/v1/items/it-1/adjustments", map[string]any{
		"quantityDelta":  -1000,
		"adjustmentType": "MANUAL_CORRECTION_SUBTRACT",
	})
	suite.Equal(http.StatusUnprocessableEntity, w.Code)
}

func (suite *HandlersTestSuite) TestListAdjustments_PassesParams() {
	token := "abc"
	suite.stock.On("ListAdjustments", mock.Anything, "it-1", mock.MatchedBy(func(p dto.ListAdjustmentsParams) bool {
		return p.Limit == 5 && p.NextToken != nil && *p.NextToken == token
	})).Return(&dto.ListAdjustmentsResponse{Entries: []dto.AdjustmentResponse{}}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/items/it-1/adjustments?limit=5&nextToken=abc", nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.stock.AssertExpectations(suite.T())
}

func (suite *HandlersTestSuite) TestListAdjustments_LimitOutOfRange() {
	w := suite.do(http.MethodGet, "/api/v1/items/it-1/adjustments?limit=0", nil)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlersTestSuite) TestRebuildStock_Repair() {
	suite.stock.On("RebuildStock", mock.Anything, "it-1", true).Return(&domain.StockRebuild{
		ItemID:          "it-1",
		MaterializedQty: decimal.NewFromInt(180),
		LedgerQty:       decimal.NewFromInt(170),
		Drift:           decimal.NewFromInt(10),
		Repaired:        true,
	}, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/items/it-1/rebuild?repair=true", nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), `"repaired":true`)
}

func (suite *HandlersTestSuite) TestRebuildStock_BadFlag() {
	w := suite.do(http.MethodPost, "/api/v1/items/it-1/rebuild?repair=maybe", nil)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlersTestSuite) TestAppendBatch_ReportsIndex() {
	suite.stock.On("AppendBatch", mock.Anything, mock.MatchedBy(func(reqs []domain.AdjustmentRequest) bool {
		return len(reqs) == 2 && reqs[0].ItemID == "a" && reqs[1].ItemID == "b"
	})).Return(nil, &apperrors.BatchError{Index: 1, Err: apperrors.ErrInsufficientStock}).Once()

	w := suite.do(http.MethodPost, "/api/v1/adjustments/batch", map[string]any{
		"entries": []map[string]any{
			{"itemID": "a", "quantityDelta": 5, "adjustmentType": "ADDITION"},
			{"itemID": "b", "quantityDelta": -50, "adjustmentType": "MANUAL_CORRECTION_SUBTRACT"},
		},
	})

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
	suite.Equal(float64(1), suite.errorBody(w)["index"])
}

func (suite *HandlersTestSuite) TestAppendBatch_Empty() {
	w := suite.do(http.MethodPost, "/api/v1/adjustments/batch", map[string]any{"entries": []any{}})
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlersTestSuite) TestReverseAdjustment_ProtectedEntry() {
	suite.stock.On("ReverseAdjustment", mock.Anything, "e-sale").Return(nil, apperrors.ErrPolicyViolation).Twice()

	suite.Equal(http.StatusConflict, suite.do(http.MethodPost, "/api/v1/adjustments/e-sale/reverse", nil).Code)
	suite.Equal(http.StatusConflict, suite.do(http.MethodDelete, "/api/v1/adjustments/e-sale", nil).Code)
	suite.stock.AssertExpectations(suite.T())
}

func (suite *HandlersTestSuite) TestGetBalance() {
	suite.balance.On("ComputeBalance", mock.Anything, "acc-1").Return(&domain.AccountBalance{
		AccountID: "acc-1",
		Balance:   decimal.NewFromInt(-25000),
	}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/accounts/acc-1/balance", nil)
	suite.Equal(http.StatusOK, w.Code)
	var resp domain.AccountBalance
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.True(resp.Balance.Equal(decimal.NewFromInt(-25000)))
}

func (suite *HandlersTestSuite) TestGetBalance_UpstreamDown() {
	suite.balance.On("ComputeBalance", mock.Anything, "acc-1").
		Return(nil, apperrors.Upstream("list invoices", assertErr("connection refused"))).Once()

	w := suite.do(http.MethodGet, "/api/v1/accounts/acc-1/balance", nil)
	suite.Equal(http.StatusServiceUnavailable, w.Code)
}

func (suite *HandlersTestSuite) TestCheckCredit() {
	suite.credit.On("Evaluate", mock.Anything, "acc-1", mock.MatchedBy(func(d decimal.Decimal) bool {
		return d.Equal(decimal.NewFromInt(2000))
	})).Return(&domain.CreditEvaluation{AccountID: "acc-1", Status: domain.CreditNearLimit}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/accounts/acc-1/credit-check?pendingAmount=2000", nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), `"status":"NEAR_LIMIT"`)
}

func (suite *HandlersTestSuite) TestCheckCredit_BadAmount() {
	w := suite.do(http.MethodGet, "/api/v1/accounts/acc-1/credit-check?pendingAmount=lots", nil)
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.credit.AssertNotCalled(suite.T(), "Evaluate", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *HandlersTestSuite) TestRecordSale() {
	record := &domain.SaleRecord{
		Invoice: domain.Invoice{
			InvoiceID: "inv-1",
			Number:    "INV-1",
			Total:     decimal.NewFromInt(55),
			DueDate:   time.Date(2026, 4, 13, 0, 0, 0, 0, time.UTC),
		},
	}
	suite.sales.On("RecordSale", mock.Anything, mock.MatchedBy(func(r dto.RecordSaleRequest) bool {
		return r.AccountID == "acc-1" && len(r.Lines) == 1 && r.Discount.Equal(decimal.NewFromInt(10))
	})).Return(record, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/sales", map[string]any{
		"accountID": "acc-1",
		"number":    "INV-1",
		"discount":  "10",
		"lines":     []map[string]any{{"itemID": "it-1", "quantity": 30}},
	})

	suite.Equal(http.StatusCreated, w.Code)
	var resp domain.SaleRecord
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("inv-1", resp.Invoice.InvoiceID)
	suite.sales.AssertExpectations(suite.T())
}

func (suite *HandlersTestSuite) TestRecordSale_NoLines() {
	w := suite.do(http.MethodPost, "/api/v1/sales", map[string]any{"accountID": "acc-1", "number": "INV-1"})
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlersTestSuite) TestRecordReturn_UnknownReason() {
	w := suite.do(http.MethodPost, "/api/v1/returns", map[string]any{
		"accountID": "acc-1",
		"number":    "CN-1",
		"reason":    "BECAUSE",
	})
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlersTestSuite) TestRecordReturn_Upstream() {
	suite.sales.On("RecordReturn", mock.Anything, mock.Anything).
		Return(nil, apperrors.Upstream("submit return", assertErr("timeout"))).Once()

	w := suite.do(http.MethodPost, "/api/v1/returns", map[string]any{
		"accountID": "acc-1",
		"number":    "CN-1",
		"reason":    "DAMAGES",
		"amount":    "12.50",
	})
	suite.Equal(http.StatusServiceUnavailable, w.Code)
}

type assertErr string

func (e assertErr) Error() string { return string(e) }

// --- Run Test Suite ---
func TestHandlers(t *testing.T) {
	suite.Run(t, new(HandlersTestSuite))
}
