package services

import (
	"context"

	"github.com/SscSPs/bizledger/internal/core/domain"
	"github.com/SscSPs/bizledger/internal/dto"
)

// CatalogReaderSvc defines read operations for stock items.
type CatalogReaderSvc interface {
	GetItem(ctx context.Context, itemID string) (*domain.StockItem, error)
	ListItems(ctx context.Context) ([]domain.StockItem, error)
	// ListLowStock returns items at or below their low-stock threshold.
	ListLowStock(ctx context.Context) ([]domain.StockItem, error)
}

// CatalogWriterSvc defines write operations for stock items.
type CatalogWriterSvc interface {
	// SaveItem creates or updates an item. Price tiers are validated strictly.
	SaveItem(ctx context.Context, req dto.SaveItemRequest) (*domain.StockItem, error)

	// DeleteItem removes an item whose stock is zero.
	DeleteItem(ctx context.Context, itemID string) error
}

// CatalogSvcFacade combines all catalog service interfaces.
type CatalogSvcFacade interface {
	CatalogReaderSvc
	CatalogWriterSvc
}
