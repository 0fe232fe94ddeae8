package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/SscSPs/bizledger/internal/apperrors"
	"github.com/SscSPs/bizledger/internal/core/domain"
	portsrepo "github.com/SscSPs/bizledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bizledger/internal/core/ports/services"
	"github.com/SscSPs/bizledger/internal/dto"
)

const defaultAdjustmentPageSize = 20

// stockLedgerService maintains the stock adjustment log and the stock projection.
type stockLedgerService struct {
	BaseService
	stockRepo portsrepo.StockRepositoryFacade
	publisher portssvc.EventPublisher
}

// StockLedgerOption is a functional option for configuring the stock ledger service
type StockLedgerOption func(*stockLedgerService)

// WithStockEventPublisher publishes a stock.adjusted event for every committed entry.
func WithStockEventPublisher(p portssvc.EventPublisher) StockLedgerOption {
	return func(s *stockLedgerService) {
		s.publisher = p
	}
}

// WithStockClock overrides the clock used for entry timestamps.
func WithStockClock(now func() time.Time) StockLedgerOption {
	return func(s *stockLedgerService) {
		s.Now = now
	}
}

// NewStockLedgerService creates a new stock ledger service with the provided options
func NewStockLedgerService(stockRepo portsrepo.StockRepositoryFacade, options ...StockLedgerOption) portssvc.StockLedgerSvcFacade {
	svc := &stockLedgerService{stockRepo: stockRepo}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.StockLedgerSvcFacade = (*stockLedgerService)(nil)

func (s *stockLedgerService) AppendAdjustment(ctx context.Context, req domain.AdjustmentRequest) (*domain.StockAdjustmentLogEntry, error) {
	entries, err := s.appendEntries(ctx, []domain.AdjustmentRequest{req})
	if err != nil {
		var batchErr *apperrors.BatchError
		if errors.As(err, &batchErr) {
			return nil, batchErr.Err
		}
		return nil, err
	}
	return &entries[0], nil
}

func (s *stockLedgerService) AppendBatch(ctx context.Context, reqs []domain.AdjustmentRequest) ([]domain.StockAdjustmentLogEntry, error) {
	return s.appendEntries(ctx, reqs)
}

// appendEntries applies reqs in submission order inside one unit of work.
// Failures are reported as *apperrors.BatchError carrying the offending index.
func (s *stockLedgerService) appendEntries(ctx context.Context, reqs []domain.AdjustmentRequest) ([]domain.StockAdjustmentLogEntry, error) {
	if len(reqs) == 0 {
		return nil, fmt.Errorf("%w: batch must contain at least one entry", apperrors.ErrValidation)
	}

	now := s.CurrentTime()
	var created []domain.StockAdjustmentLogEntry
	err := s.stockRepo.WithinStockTx(ctx, func(ctx context.Context, tx portsrepo.StockTx) error {
		created = make([]domain.StockAdjustmentLogEntry, 0, len(reqs))

		items, err := lockItems(ctx, tx, reqs)
		if err != nil {
			return err
		}

		// Each entry is checked and applied before the next one is looked at,
		// so the reported index is always the first entry that cannot be applied.
		for i, req := range reqs {
			if err := req.Validate(); err != nil {
				return &apperrors.BatchError{Index: i, Err: fmt.Errorf("%w: %v", apperrors.ErrValidation, err)}
			}
			if req.Date.IsZero() {
				req.Date = startOfDay(now)
			}
			item, ok := items[req.ItemID]
			if !ok {
				return &apperrors.BatchError{Index: i, Err: fmt.Errorf("%w: stock item %s", apperrors.ErrNotFound, req.ItemID)}
			}
			entry, err := applyAdjustment(ctx, tx, item, req, now)
			if err != nil {
				return &apperrors.BatchError{Index: i, Err: err}
			}
			created = append(created, *entry)
		}
		return nil
	})
	if err != nil {
		s.logAppendFailure(ctx, err, len(reqs))
		return nil, err
	}

	for _, entry := range created {
		s.LogInfo(ctx, "Stock adjustment appended",
			slog.String("entry_id", entry.EntryID),
			slog.Int64("log_number", entry.LogNumber),
			slog.String("item_id", entry.ItemID),
			slog.String("type", string(entry.AdjustmentType)),
			slog.String("quantity", entry.QuantityAdjusted.String()),
			slog.String("new_stock", entry.NewStock.String()))
	}
	s.publishAdjustments(ctx, created)
	return created, nil
}

func (s *stockLedgerService) logAppendFailure(ctx context.Context, err error, size int) {
	switch {
	case errors.Is(err, apperrors.ErrValidation),
		errors.Is(err, apperrors.ErrNotFound),
		errors.Is(err, apperrors.ErrInsufficientStock),
		errors.Is(err, apperrors.ErrPolicyViolation):
		s.LogWarn(ctx, "Stock adjustment rejected", slog.String("error", err.Error()), slog.Int("batch_size", size))
	default:
		s.LogError(ctx, err, "Failed to append stock adjustments", slog.Int("batch_size", size))
	}
}

// lockItems locks every distinct item of the batch in ID order so that two
// overlapping batches can never wait on each other. Missing items are left out
// of the map; the caller reports them at the first entry that references them.
func lockItems(ctx context.Context, tx portsrepo.StockTx, reqs []domain.AdjustmentRequest) (map[string]*domain.StockItem, error) {
	ids := make([]string, 0, len(reqs))
	seen := make(map[string]bool, len(reqs))
	for _, req := range reqs {
		if !seen[req.ItemID] {
			seen[req.ItemID] = true
			ids = append(ids, req.ItemID)
		}
	}
	sort.Strings(ids)

	items := make(map[string]*domain.StockItem, len(ids))
	for _, id := range ids {
		item, err := tx.LockItem(ctx, id)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("failed to lock stock item %s: %w", id, err)
		}
		items[id] = item
	}
	return items, nil
}

// applyAdjustment writes one entry against a locked item and advances the
// item's in-memory stock so later entries in the same unit of work see it.
func applyAdjustment(ctx context.Context, tx portsrepo.StockTx, item *domain.StockItem, req domain.AdjustmentRequest, now time.Time) (*domain.StockAdjustmentLogEntry, error) {
	previous := item.Stock
	newStock := previous.Add(req.QuantityDelta)
	if newStock.IsNegative() && !req.AllowNegative {
		return nil, fmt.Errorf("%w: item %s has %s on hand, adjustment of %s would leave %s",
			apperrors.ErrInsufficientStock, item.ItemID, previous, req.QuantityDelta, newStock)
	}

	logNumber, err := tx.NextLogNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate log number: %w", err)
	}

	entry := domain.StockAdjustmentLogEntry{
		EntryID:          uuid.NewString(),
		LogNumber:        logNumber,
		ItemID:           item.ItemID,
		ItemName:         item.Name,
		AdjustmentType:   req.Type,
		QuantityAdjusted: req.QuantityDelta,
		PreviousStock:    previous,
		NewStock:         newStock,
		Date:             req.Date,
		Notes:            req.Notes,
		ReversesEntryID:  req.ReversesEntryID,
		CreatedAt:        now,
	}
	if err := tx.InsertLogEntry(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to insert log entry for item %s: %w", item.ItemID, err)
	}
	if err := tx.UpdateItemStock(ctx, item.ItemID, newStock, now); err != nil {
		return nil, fmt.Errorf("failed to update stock for item %s: %w", item.ItemID, err)
	}
	item.Stock = newStock
	return &entry, nil
}

func (s *stockLedgerService) ReverseAdjustment(ctx context.Context, entryID string) (*domain.StockAdjustmentLogEntry, error) {
	original, err := s.stockRepo.FindLogEntryByID(ctx, entryID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find log entry for reversal", slog.String("entry_id", entryID))
		}
		return nil, err
	}
	if original.AdjustmentType.IsProtected() {
		s.LogWarn(ctx, "Refused to reverse protected stock entry",
			slog.String("entry_id", entryID),
			slog.String("type", string(original.AdjustmentType)))
		return nil, fmt.Errorf("%w: %s entries can only be changed by the sales workflow", apperrors.ErrPolicyViolation, original.AdjustmentType)
	}

	now := s.CurrentTime()
	var reversal *domain.StockAdjustmentLogEntry
	err = s.stockRepo.WithinStockTx(ctx, func(ctx context.Context, tx portsrepo.StockTx) error {
		item, err := tx.LockItem(ctx, original.ItemID)
		if err != nil {
			return err
		}
		current, err := tx.FindLogEntry(ctx, entryID)
		if err != nil {
			return err
		}
		if current.IsSuperseded() {
			return fmt.Errorf("%w: log entry #%d has already been reversed", apperrors.ErrPolicyViolation, current.LogNumber)
		}
		if current.IsReversal() {
			return fmt.Errorf("%w: log entry #%d is itself a reversal", apperrors.ErrPolicyViolation, current.LogNumber)
		}

		delta := current.QuantityAdjusted.Neg()
		req := domain.AdjustmentRequest{
			ItemID:          current.ItemID,
			QuantityDelta:   delta,
			Type:            domain.CorrectionTypeFor(delta),
			Notes:           fmt.Sprintf("Reversal of log #%d", current.LogNumber),
			Date:            startOfDay(now),
			ReversesEntryID: &current.EntryID,
		}
		reversal, err = applyAdjustment(ctx, tx, item, req, now)
		if err != nil {
			return err
		}
		return tx.MarkLogEntrySuperseded(ctx, current.EntryID, reversal.EntryID)
	})
	if err != nil {
		s.logAppendFailure(ctx, err, 1)
		return nil, err
	}

	s.LogInfo(ctx, "Stock adjustment reversed",
		slog.String("entry_id", entryID),
		slog.String("reversal_id", reversal.EntryID),
		slog.String("item_id", reversal.ItemID),
		slog.String("new_stock", reversal.NewStock.String()))
	s.publishAdjustments(ctx, []domain.StockAdjustmentLogEntry{*reversal})
	return reversal, nil
}

func (s *stockLedgerService) RebuildStock(ctx context.Context, itemID string, repair bool) (*domain.StockRebuild, error) {
	var result domain.StockRebuild
	err := s.stockRepo.WithinStockTx(ctx, func(ctx context.Context, tx portsrepo.StockTx) error {
		item, err := tx.LockItem(ctx, itemID)
		if err != nil {
			return err
		}
		ledgerQty, count, err := tx.SumLogQuantities(ctx, itemID)
		if err != nil {
			return fmt.Errorf("failed to replay log for item %s: %w", itemID, err)
		}

		result = domain.StockRebuild{
			ItemID:          itemID,
			MaterializedQty: item.Stock,
			LedgerQty:       ledgerQty,
			Drift:           item.Stock.Sub(ledgerQty),
			EntryCount:      count,
		}
		if repair && !result.Drift.IsZero() {
			if err := tx.UpdateItemStock(ctx, itemID, ledgerQty, s.CurrentTime()); err != nil {
				return fmt.Errorf("failed to repair stock for item %s: %w", itemID, err)
			}
			result.Repaired = true
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to rebuild stock", slog.String("item_id", itemID))
		}
		return nil, err
	}

	if !result.Drift.IsZero() {
		s.LogWarn(ctx, "Stock projection drifted from log",
			slog.String("item_id", itemID),
			slog.String("drift", result.Drift.String()),
			slog.Bool("repaired", result.Repaired))
	}
	return &result, nil
}

func (s *stockLedgerService) GetAdjustment(ctx context.Context, entryID string) (*domain.StockAdjustmentLogEntry, error) {
	entry, err := s.stockRepo.FindLogEntryByID(ctx, entryID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find log entry", slog.String("entry_id", entryID))
		}
		return nil, err
	}
	return entry, nil
}

func (s *stockLedgerService) ListAdjustments(ctx context.Context, itemID string, params dto.ListAdjustmentsParams) (*dto.ListAdjustmentsResponse, error) {
	if _, err := s.stockRepo.FindItemByID(ctx, itemID); err != nil {
		return nil, err
	}

	limit := params.Limit
	if limit <= 0 {
		limit = defaultAdjustmentPageSize
	}
	entries, nextToken, err := s.stockRepo.ListLogEntriesByItem(ctx, itemID, limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list log entries", slog.String("item_id", itemID))
		return nil, fmt.Errorf("failed to list adjustments for item %s: %w", itemID, err)
	}

	return &dto.ListAdjustmentsResponse{
		Entries:   dto.ToAdjustmentResponses(entries),
		NextToken: nextToken,
	}, nil
}

// publishAdjustments is best effort: the log is already committed and is the source of truth.
func (s *stockLedgerService) publishAdjustments(ctx context.Context, entries []domain.StockAdjustmentLogEntry) {
	if s.publisher == nil {
		return
	}
	for _, entry := range entries {
		if err := s.publisher.Publish(ctx, domain.TopicStockAdjusted, entry.ItemID, domain.NewStockAdjustedEvent(entry)); err != nil {
			s.LogError(ctx, err, "Failed to publish stock adjustment event", slog.String("entry_id", entry.EntryID))
		}
	}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
