package mapping

import (
	"github.com/SscSPs/bizledger/internal/core/domain"
	"github.com/SscSPs/bizledger/internal/models"
)

// ToModelStockItem converts a domain StockItem to a model StockItem and its tiers
func ToModelStockItem(d domain.StockItem) (models.StockItem, []models.PriceTier) {
	tiers := make([]models.PriceTier, len(d.PriceTiers))
	for i, t := range d.PriceTiers {
		tiers[i] = models.PriceTier{
			ItemID:     d.ItemID,
			Position:   i,
			PriceLevel: t.PriceLevel,
			Price:      t.Price,
		}
	}
	return models.StockItem{
		ItemID:            d.ItemID,
		SKU:               d.SKU,
		Name:              d.Name,
		Kind:              string(d.Kind),
		UnitOfMeasure:     d.UnitOfMeasure,
		Stock:             d.Stock,
		LowStockThreshold: d.LowStockThreshold,
		CostPrice:         d.CostPrice,
		SellPrice:         d.SellPrice,
		AuditFields:       ToModelAuditFields(d.AuditFields),
	}, tiers
}

// ToDomainStockItem converts a model StockItem and its tiers to a domain StockItem.
// Tiers must already be in position order.
func ToDomainStockItem(m models.StockItem, tiers []models.PriceTier) domain.StockItem {
	domainTiers := make([]domain.PriceTier, len(tiers))
	for i, t := range tiers {
		domainTiers[i] = domain.PriceTier{PriceLevel: t.PriceLevel, Price: t.Price}
	}
	return domain.StockItem{
		ItemID:            m.ItemID,
		SKU:               m.SKU,
		Name:              m.Name,
		Kind:              domain.ItemKind(m.Kind),
		UnitOfMeasure:     m.UnitOfMeasure,
		Stock:             m.Stock,
		LowStockThreshold: m.LowStockThreshold,
		CostPrice:         m.CostPrice,
		SellPrice:         m.SellPrice,
		PriceTiers:        domainTiers,
		AuditFields:       ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelStockLogEntry converts a domain log entry to a model log entry
func ToModelStockLogEntry(d domain.StockAdjustmentLogEntry) models.StockLogEntry {
	return models.StockLogEntry{
		EntryID:          d.EntryID,
		LogNumber:        d.LogNumber,
		ItemID:           d.ItemID,
		ItemName:         d.ItemName,
		AdjustmentType:   string(d.AdjustmentType),
		QuantityAdjusted: d.QuantityAdjusted,
		PreviousStock:    d.PreviousStock,
		NewStock:         d.NewStock,
		EntryDate:        d.Date,
		Notes:            d.Notes,
		ReversesEntryID:  d.ReversesEntryID,
		SupersededByID:   d.SupersededByID,
		CreatedAt:        d.CreatedAt,
	}
}

// ToDomainStockLogEntry converts a model log entry to a domain log entry
func ToDomainStockLogEntry(m models.StockLogEntry) domain.StockAdjustmentLogEntry {
	return domain.StockAdjustmentLogEntry{
		EntryID:          m.EntryID,
		LogNumber:        m.LogNumber,
		ItemID:           m.ItemID,
		ItemName:         m.ItemName,
		AdjustmentType:   domain.AdjustmentType(m.AdjustmentType),
		QuantityAdjusted: m.QuantityAdjusted,
		PreviousStock:    m.PreviousStock,
		NewStock:         m.NewStock,
		Date:             m.EntryDate,
		Notes:            m.Notes,
		ReversesEntryID:  m.ReversesEntryID,
		SupersededByID:   m.SupersededByID,
		CreatedAt:        m.CreatedAt,
	}
}

// ToDomainStockLogEntrySlice converts a slice of model log entries
func ToDomainStockLogEntrySlice(ms []models.StockLogEntry) []domain.StockAdjustmentLogEntry {
	entries := make([]domain.StockAdjustmentLogEntry, len(ms))
	for i, m := range ms {
		entries[i] = ToDomainStockLogEntry(m)
	}
	return entries
}
