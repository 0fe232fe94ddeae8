package domain

import "github.com/shopspring/decimal"

// StandardTier tags a price that fell back to the item's sell price.
const StandardTier = "Standard"

// PriceResolution is the price an account should pay for an item.
type PriceResolution struct {
	Price       decimal.Decimal `json:"price"`
	TierApplied string          `json:"tierApplied"`
}
