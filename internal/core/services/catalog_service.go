package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/SscSPs/bizledger/internal/apperrors"
	"github.com/SscSPs/bizledger/internal/core/domain"
	portsrepo "github.com/SscSPs/bizledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bizledger/internal/core/ports/services"
	"github.com/SscSPs/bizledger/internal/dto"
)

// catalogService manages stock items. Stock itself only moves through the ledger.
type catalogService struct {
	BaseService
	stockRepo portsrepo.StockRepositoryFacade
	ledgerSvc portssvc.StockLedgerWriterSvc
	validate  *validator.Validate
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(stockRepo portsrepo.StockRepositoryFacade, ledgerSvc portssvc.StockLedgerWriterSvc) portssvc.CatalogSvcFacade {
	return &catalogService{
		stockRepo: stockRepo,
		ledgerSvc: ledgerSvc,
		validate:  newValidator(),
	}
}

var _ portssvc.CatalogSvcFacade = (*catalogService)(nil)

func (s *catalogService) GetItem(ctx context.Context, itemID string) (*domain.StockItem, error) {
	item, err := s.stockRepo.FindItemByID(ctx, itemID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find item", slog.String("item_id", itemID))
		}
		return nil, err
	}
	return item, nil
}

func (s *catalogService) ListItems(ctx context.Context) ([]domain.StockItem, error) {
	items, err := s.stockRepo.ListItems(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list items")
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	return items, nil
}

func (s *catalogService) ListLowStock(ctx context.Context) ([]domain.StockItem, error) {
	items, err := s.ListItems(ctx)
	if err != nil {
		return nil, err
	}
	low := make([]domain.StockItem, 0)
	for _, item := range items {
		if item.IsLowStock() {
			low = append(low, item)
		}
	}
	return low, nil
}

func (s *catalogService) SaveItem(ctx context.Context, req dto.SaveItemRequest) (*domain.StockItem, error) {
	now := s.CurrentTime()

	item := domain.StockItem{
		ItemID:            req.ItemID,
		SKU:               req.SKU,
		Name:              req.Name,
		Kind:              req.Kind,
		UnitOfMeasure:     req.UnitOfMeasure,
		LowStockThreshold: req.LowStockThreshold,
		CostPrice:         req.CostPrice,
		SellPrice:         req.SellPrice,
		PriceTiers:        make([]domain.PriceTier, len(req.PriceTiers)),
	}
	for i, t := range req.PriceTiers {
		item.PriceTiers[i] = domain.PriceTier{PriceLevel: t.PriceLevel, Price: t.Price}
	}
	if err := s.validateItem(item); err != nil {
		s.LogWarn(ctx, "Rejected stock item", slog.String("sku", req.SKU), slog.String("error", err.Error()))
		return nil, err
	}

	isNew := req.ItemID == ""
	if isNew {
		if req.OpeningStock.IsNegative() {
			return nil, fmt.Errorf("%w: opening stock must not be negative", apperrors.ErrValidation)
		}
		item.ItemID = uuid.NewString()
		item.Stock = decimal.Zero
		item.CreatedAt = now
	} else {
		existing, err := s.stockRepo.FindItemByID(ctx, req.ItemID)
		if err != nil {
			return nil, err
		}
		item.Stock = existing.Stock
		item.CreatedAt = existing.CreatedAt
	}
	item.LastUpdatedAt = now

	if err := s.stockRepo.SaveItem(ctx, item); err != nil {
		s.LogError(ctx, err, "Failed to save item", slog.String("item_id", item.ItemID))
		return nil, fmt.Errorf("failed to save item: %w", err)
	}

	if isNew && req.OpeningStock.IsPositive() {
		entry, err := s.ledgerSvc.AppendAdjustment(ctx, domain.AdjustmentRequest{
			ItemID:        item.ItemID,
			QuantityDelta: req.OpeningStock,
			Type:          domain.Addition,
			Notes:         "Opening stock",
		})
		if err != nil {
			if delErr := s.stockRepo.DeleteItem(ctx, item.ItemID); delErr != nil {
				s.LogError(ctx, delErr, "Failed to remove item after opening stock failure", slog.String("item_id", item.ItemID))
			}
			return nil, fmt.Errorf("failed to record opening stock: %w", err)
		}
		item.Stock = entry.NewStock
	}

	s.LogInfo(ctx, "Stock item saved",
		slog.String("item_id", item.ItemID),
		slog.String("sku", item.SKU),
		slog.Bool("created", isNew))
	return &item, nil
}

// validateItem runs the struct rules and the unique price level rule.
func (s *catalogService) validateItem(item domain.StockItem) error {
	if err := s.validate.Struct(item); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	seen := make(map[string]bool, len(item.PriceTiers))
	for _, tier := range item.PriceTiers {
		level := domain.NormalizePriceLevel(tier.PriceLevel)
		if seen[level] {
			return fmt.Errorf("%w: %w: duplicate price level %q", apperrors.ErrValidation, apperrors.ErrPolicyViolation, level)
		}
		seen[level] = true
	}
	return nil
}

// DeleteItem checks and deletes under the item lock, so no adjustment can land in between.
func (s *catalogService) DeleteItem(ctx context.Context, itemID string) error {
	err := s.stockRepo.WithinStockTx(ctx, func(ctx context.Context, tx portsrepo.StockTx) error {
		item, err := tx.LockItem(ctx, itemID)
		if err != nil {
			return err
		}
		if !item.Stock.IsZero() {
			return fmt.Errorf("%w: item %s still has %s on hand", apperrors.ErrPolicyViolation, itemID, item.Stock)
		}
		return tx.DeleteItem(ctx, itemID)
	})
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrPolicyViolation):
			s.LogWarn(ctx, "Refused to delete item with stock on hand", slog.String("item_id", itemID), slog.String("error", err.Error()))
		case !errors.Is(err, apperrors.ErrNotFound):
			s.LogError(ctx, err, "Failed to delete item", slog.String("item_id", itemID))
		}
		return err
	}
	s.LogInfo(ctx, "Stock item deleted", slog.String("item_id", itemID))
	return nil
}
