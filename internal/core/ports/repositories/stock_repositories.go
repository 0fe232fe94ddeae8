package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/bizledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// StockItemReader defines read operations for stock items.
type StockItemReader interface {
	// FindItemByID retrieves a stock item with its price tiers.
	FindItemByID(ctx context.Context, itemID string) (*domain.StockItem, error)

	// ListItems retrieves every stock item.
	ListItems(ctx context.Context) ([]domain.StockItem, error)
}

// StockItemWriter defines write operations for stock items.
// Writers never change the stock column of an existing item.
type StockItemWriter interface {
	// SaveItem inserts a new item or updates the descriptive fields and tiers of an existing one.
	SaveItem(ctx context.Context, item domain.StockItem) error

	// DeleteItem removes an item and its price tiers. Items holding stock are refused.
	DeleteItem(ctx context.Context, itemID string) error
}

// StockLogReader defines read operations for the stock adjustment log.
type StockLogReader interface {
	// FindLogEntryByID retrieves a single log entry.
	FindLogEntryByID(ctx context.Context, entryID string) (*domain.StockAdjustmentLogEntry, error)

	// ListLogEntriesByItem retrieves log entries for an item, newest first, using token-based pagination.
	ListLogEntriesByItem(ctx context.Context, itemID string, limit int, nextToken *string) ([]domain.StockAdjustmentLogEntry, *string, error)
}

// StockTx is the set of operations available inside a stock unit of work.
// Everything done through a StockTx commits or rolls back together.
type StockTx interface {
	// LockItem reads an item and holds its write lock until the unit of work ends.
	LockItem(ctx context.Context, itemID string) (*domain.StockItem, error)

	// UpdateItemStock sets the materialized stock of a locked item.
	UpdateItemStock(ctx context.Context, itemID string, stock decimal.Decimal, now time.Time) error

	// NextLogNumber allocates the next sequential log number.
	NextLogNumber(ctx context.Context) (int64, error)

	// InsertLogEntry appends an entry to the log.
	InsertLogEntry(ctx context.Context, entry domain.StockAdjustmentLogEntry) error

	// FindLogEntry reads a log entry inside the unit of work.
	FindLogEntry(ctx context.Context, entryID string) (*domain.StockAdjustmentLogEntry, error)

	// MarkLogEntrySuperseded links an entry to the counter-entry that reversed it.
	MarkLogEntrySuperseded(ctx context.Context, entryID string, supersededByID string) error

	// DeleteItem removes a locked item when the unit of work commits. The log is kept.
	DeleteItem(ctx context.Context, itemID string) error

	// SumLogQuantities replays the log of an item.
	SumLogQuantities(ctx context.Context, itemID string) (decimal.Decimal, int, error)
}

// StockUnitOfWork runs fn atomically. If fn returns an error nothing it did is kept.
type StockUnitOfWork interface {
	WithinStockTx(ctx context.Context, fn func(ctx context.Context, tx StockTx) error) error
}

// StockRepositoryFacade combines all stock-related repository interfaces.
type StockRepositoryFacade interface {
	StockItemReader
	StockItemWriter
	StockLogReader
	StockUnitOfWork
}
