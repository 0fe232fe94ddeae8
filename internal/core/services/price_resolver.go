package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/SscSPs/bizledger/internal/apperrors"
	"github.com/SscSPs/bizledger/internal/core/domain"
	portsrepo "github.com/SscSPs/bizledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bizledger/internal/core/ports/services"
)

// priceResolver implements portssvc.PriceResolverSvc.
type priceResolver struct {
	BaseService
	itemRepo    portsrepo.StockItemReader
	accountRepo portsrepo.AccountReader
}

// NewPriceResolver creates a new price resolver.
func NewPriceResolver(itemRepo portsrepo.StockItemReader, accountRepo portsrepo.AccountReader) portssvc.PriceResolverSvc {
	return &priceResolver{
		itemRepo:    itemRepo,
		accountRepo: accountRepo,
	}
}

var _ portssvc.PriceResolverSvc = (*priceResolver)(nil)

// ResolvePrice returns the first tier matching the price level, or the sell price.
func (s *priceResolver) ResolvePrice(item domain.StockItem, accountPriceLevel string) domain.PriceResolution {
	return ResolvePrice(item, accountPriceLevel)
}

// ResolvePrice is the pure price lookup used by every caller.
func ResolvePrice(item domain.StockItem, accountPriceLevel string) domain.PriceResolution {
	level := domain.NormalizePriceLevel(accountPriceLevel)
	if level != "" {
		for _, tier := range item.PriceTiers {
			if domain.NormalizePriceLevel(tier.PriceLevel) == level {
				return domain.PriceResolution{Price: tier.Price, TierApplied: tier.PriceLevel}
			}
		}
	}
	return domain.PriceResolution{Price: item.SellPrice, TierApplied: domain.StandardTier}
}

func (s *priceResolver) ResolvePriceForAccount(ctx context.Context, itemID string, accountID string) (*domain.PriceResolution, error) {
	item, err := s.itemRepo.FindItemByID(ctx, itemID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find item for price resolution", slog.String("item_id", itemID))
		}
		return nil, err
	}

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account for price resolution", slog.String("account_id", accountID))
		}
		return nil, err
	}

	resolution := ResolvePrice(*item, account.PriceLevel())
	s.LogDebug(ctx, "Price resolved",
		slog.String("item_id", itemID),
		slog.String("account_id", accountID),
		slog.String("tier", resolution.TierApplied),
		slog.String("price", resolution.Price.String()))
	return &resolution, nil
}
