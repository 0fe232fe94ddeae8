package services

import (
	"context"

	"github.com/SscSPs/bizledger/internal/core/domain"
	"github.com/SscSPs/bizledger/internal/dto"
)

// StockLedgerWriterSvc defines write operations on the stock adjustment log.
type StockLedgerWriterSvc interface {
	// AppendAdjustment appends one entry and updates the item's stock.
	AppendAdjustment(ctx context.Context, req domain.AdjustmentRequest) (*domain.StockAdjustmentLogEntry, error)

	// AppendBatch appends every entry or none of them.
	AppendBatch(ctx context.Context, reqs []domain.AdjustmentRequest) ([]domain.StockAdjustmentLogEntry, error)

	// ReverseAdjustment appends the inverse of an unprotected entry and marks the original superseded.
	ReverseAdjustment(ctx context.Context, entryID string) (*domain.StockAdjustmentLogEntry, error)

	// RebuildStock replays the log of an item and optionally repairs the materialized stock.
	RebuildStock(ctx context.Context, itemID string, repair bool) (*domain.StockRebuild, error)
}

// StockLedgerReaderSvc defines read operations on the stock adjustment log.
type StockLedgerReaderSvc interface {
	// GetAdjustment retrieves a single log entry.
	GetAdjustment(ctx context.Context, entryID string) (*domain.StockAdjustmentLogEntry, error)

	// ListAdjustments retrieves a page of an item's log, newest first.
	ListAdjustments(ctx context.Context, itemID string, params dto.ListAdjustmentsParams) (*dto.ListAdjustmentsResponse, error)
}

// StockLedgerSvcFacade combines all stock ledger service interfaces.
type StockLedgerSvcFacade interface {
	StockLedgerWriterSvc
	StockLedgerReaderSvc
}
