package dto

import (
	"time"

	"github.com/SscSPs/bizledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PriceTierRequest is one tier in an item's price list.
type PriceTierRequest struct {
	PriceLevel string          `json:"priceLevel" binding:"required"`
	Price      decimal.Decimal `json:"price"`
}

// SaveItemRequest defines the data needed to create or update a stock item.
// ItemID is empty for new items. OpeningStock is only honoured on creation.
type SaveItemRequest struct {
	ItemID            string             `json:"itemID"`
	SKU               string             `json:"sku" binding:"required"`
	Name              string             `json:"name" binding:"required"`
	Kind              domain.ItemKind    `json:"kind" binding:"required,oneof=FINISHED_GOOD RAW_MATERIAL"`
	UnitOfMeasure     string             `json:"unitOfMeasure" binding:"required"`
	OpeningStock      decimal.Decimal    `json:"openingStock"`
	LowStockThreshold decimal.Decimal    `json:"lowStockThreshold"`
	CostPrice         decimal.Decimal    `json:"costPrice"`
	SellPrice         decimal.Decimal    `json:"sellPrice"`
	PriceTiers        []PriceTierRequest `json:"priceTiers" binding:"dive"`
}

// ItemResponse defines the data returned for a stock item.
type ItemResponse struct {
	ItemID            string             `json:"itemID"`
	SKU               string             `json:"sku"`
	Name              string             `json:"name"`
	Kind              domain.ItemKind    `json:"kind"`
	UnitOfMeasure     string             `json:"unitOfMeasure"`
	Stock             decimal.Decimal    `json:"stock"`
	LowStockThreshold decimal.Decimal    `json:"lowStockThreshold"`
	IsLowStock        bool               `json:"isLowStock"`
	CostPrice         decimal.Decimal    `json:"costPrice"`
	SellPrice         decimal.Decimal    `json:"sellPrice"`
	PriceTiers        []domain.PriceTier `json:"priceTiers"`
	CreatedAt         time.Time          `json:"createdAt"`
	LastUpdatedAt     time.Time          `json:"lastUpdatedAt"`
}

// ListItemsResponse wraps the list of items.
type ListItemsResponse struct {
	Items []ItemResponse `json:"items"`
}

// ToItemResponse converts a domain.StockItem to ItemResponse DTO
func ToItemResponse(item *domain.StockItem) ItemResponse {
	tiers := item.PriceTiers
	if tiers == nil {
		tiers = []domain.PriceTier{}
	}
	return ItemResponse{
		ItemID:            item.ItemID,
		SKU:               item.SKU,
		Name:              item.Name,
		Kind:              item.Kind,
		UnitOfMeasure:     item.UnitOfMeasure,
		Stock:             item.Stock,
		LowStockThreshold: item.LowStockThreshold,
		IsLowStock:        item.IsLowStock(),
		CostPrice:         item.CostPrice,
		SellPrice:         item.SellPrice,
		PriceTiers:        tiers,
		CreatedAt:         item.CreatedAt,
		LastUpdatedAt:     item.LastUpdatedAt,
	}
}

// ToListItemsResponse converts a slice of domain.StockItem to a ListItemsResponse.
func ToListItemsResponse(items []domain.StockItem) ListItemsResponse {
	res := make([]ItemResponse, len(items))
	for i := range items {
		res[i] = ToItemResponse(&items[i])
	}
	return ListItemsResponse{Items: res}
}

// PriceResponse is returned by the price lookup endpoint.
type PriceResponse struct {
	ItemID      string          `json:"itemID"`
	AccountID   string          `json:"accountID"`
	Price       decimal.Decimal `json:"price"`
	TierApplied string          `json:"tierApplied"`
}
