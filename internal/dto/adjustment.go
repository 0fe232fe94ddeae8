package dto

import (
	"time"

	"github.com/SscSPs/bizledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAdjustmentRequest defines a manual stock adjustment for one item.
// Sale and return entries are created by the sales workflow only.
type CreateAdjustmentRequest struct {
	QuantityDelta  decimal.Decimal       `json:"quantityDelta"`
	AdjustmentType domain.AdjustmentType `json:"adjustmentType" binding:"required,oneof=ADDITION MANUAL_CORRECTION_ADD MANUAL_CORRECTION_SUBTRACT"`
	Notes          string                `json:"notes"`
	Date           *time.Time            `json:"date"` // Optional, defaults to today
	AllowNegative  bool                  `json:"allowNegative"`
}

// BatchAdjustmentEntry is one entry of a batch request.
type BatchAdjustmentEntry struct {
	ItemID string `json:"itemID" binding:"required"`
	CreateAdjustmentRequest
}

// BatchAdjustmentRequest applies several adjustments atomically.
type BatchAdjustmentRequest struct {
	Entries []BatchAdjustmentEntry `json:"entries" binding:"required,min=1,dive"`
}

// ToAdjustmentRequest converts the DTO into the domain request for itemID.
func (r CreateAdjustmentRequest) ToAdjustmentRequest(itemID string) domain.AdjustmentRequest {
	var date time.Time
	if r.Date != nil {
		date = *r.Date
	}
	return domain.AdjustmentRequest{
		ItemID:        itemID,
		QuantityDelta: r.QuantityDelta,
		Type:          r.AdjustmentType,
		Notes:         r.Notes,
		Date:          date,
		AllowNegative: r.AllowNegative,
	}
}

// AdjustmentResponse defines the data returned for a log entry.
type AdjustmentResponse struct {
	EntryID          string                `json:"entryID"`
	LogNumber        int64                 `json:"logNumber"`
	ItemID           string                `json:"itemID"`
	ItemName         string                `json:"itemName"`
	AdjustmentType   domain.AdjustmentType `json:"adjustmentType"`
	QuantityAdjusted decimal.Decimal       `json:"quantityAdjusted"`
	PreviousStock    decimal.Decimal       `json:"previousStock"`
	NewStock         decimal.Decimal       `json:"newStock"`
	Date             time.Time             `json:"date"`
	Notes            string                `json:"notes"`
	ReversesEntryID  *string               `json:"reversesEntryID,omitempty"`
	SupersededByID   *string               `json:"supersededByID,omitempty"`
	Superseded       bool                  `json:"superseded"`
	CreatedAt        time.Time             `json:"createdAt"`
}

// ToAdjustmentResponse converts a log entry to its DTO.
func ToAdjustmentResponse(e *domain.StockAdjustmentLogEntry) AdjustmentResponse {
	return AdjustmentResponse{
		EntryID:          e.EntryID,
		LogNumber:        e.LogNumber,
		ItemID:           e.ItemID,
		ItemName:         e.ItemName,
		AdjustmentType:   e.AdjustmentType,
		QuantityAdjusted: e.QuantityAdjusted,
		PreviousStock:    e.PreviousStock,
		NewStock:         e.NewStock,
		Date:             e.Date,
		Notes:            e.Notes,
		ReversesEntryID:  e.ReversesEntryID,
		SupersededByID:   e.SupersededByID,
		Superseded:       e.IsSuperseded(),
		CreatedAt:        e.CreatedAt,
	}
}

// ToAdjustmentResponses converts a slice of log entries.
func ToAdjustmentResponses(entries []domain.StockAdjustmentLogEntry) []AdjustmentResponse {
	res := make([]AdjustmentResponse, len(entries))
	for i := range entries {
		res[i] = ToAdjustmentResponse(&entries[i])
	}
	return res
}

// BatchAdjustmentResponse wraps the entries created by a batch.
type BatchAdjustmentResponse struct {
	Entries []AdjustmentResponse `json:"entries"`
}

// ListAdjustmentsParams defines query parameters for listing an item's log.
type ListAdjustmentsParams struct {
	Limit     int     `form:"limit,default=20" binding:"min=1,max=200"`
	NextToken *string `form:"nextToken"`
}

// ListAdjustmentsResponse wraps a page of log entries.
type ListAdjustmentsResponse struct {
	Entries   []AdjustmentResponse `json:"entries"`
	NextToken *string              `json:"nextToken,omitempty"`
}
