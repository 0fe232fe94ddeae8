package services

import (
	"context"

	"github.com/SscSPs/bizledger/internal/core/domain"
)

// PriceResolverSvc resolves the price an account pays for an item.
type PriceResolverSvc interface {
	// ResolvePrice picks the item's tier for the price level, falling back to the sell price. Never fails.
	ResolvePrice(item domain.StockItem, accountPriceLevel string) domain.PriceResolution

	// ResolvePriceForAccount loads the item and account and resolves the price between them.
	ResolvePriceForAccount(ctx context.Context, itemID string, accountID string) (*domain.PriceResolution, error)
}
