// Package memory holds an in-process stock repository used for local runs and tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/SscSPs/bizledger/internal/apperrors"
	"github.com/SscSPs/bizledger/internal/core/domain"
	portsrepo "github.com/SscSPs/bizledger/internal/core/ports/repositories"
	"github.com/SscSPs/bizledger/internal/utils/pagination"
)

// StockRepository keeps items and the adjustment log in memory.
// Units of work hold per-item locks and stage their writes until commit.
type StockRepository struct {
	mu      sync.RWMutex
	items   map[string]*domain.StockItem
	entries map[string]*domain.StockAdjustmentLogEntry
	// byItem holds entry IDs per item in log number order
	byItem map[string][]string

	seqMu   sync.Mutex
	logSeq  int64
	locksMu sync.Mutex
	locks   map[string]chan struct{}
}

// NewStockRepository creates an empty in-memory stock repository.
func NewStockRepository() *StockRepository {
	return &StockRepository{
		items:   make(map[string]*domain.StockItem),
		entries: make(map[string]*domain.StockAdjustmentLogEntry),
		byItem:  make(map[string][]string),
		locks:   make(map[string]chan struct{}),
	}
}

var _ portsrepo.StockRepositoryFacade = (*StockRepository)(nil)

func (r *StockRepository) FindItemByID(ctx context.Context, itemID string) (*domain.StockItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.items[itemID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return cloneItem(item), nil
}

func (r *StockRepository) ListItems(ctx context.Context) ([]domain.StockItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	items := make([]domain.StockItem, 0, len(r.items))
	for _, item := range r.items {
		items = append(items, *cloneItem(item))
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items, nil
}

// SaveItem inserts or updates an item. The stock of an existing item is kept.
func (r *StockRepository) SaveItem(ctx context.Context, item domain.StockItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, other := range r.items {
		if id != item.ItemID && other.SKU == item.SKU {
			return fmt.Errorf("%w: sku %s", apperrors.ErrDuplicate, item.SKU)
		}
	}
	saved := cloneItem(&item)
	if existing, ok := r.items[item.ItemID]; ok {
		saved.Stock = existing.Stock
		saved.CreatedAt = existing.CreatedAt
	}
	r.items[item.ItemID] = saved
	return nil
}

// DeleteItem removes an item. Its log entries stay.
func (r *StockRepository) DeleteItem(ctx context.Context, itemID string) error {
	release, err := r.acquire(ctx, itemID)
	if err != nil {
		return err
	}
	defer release()

	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[itemID]
	if !ok {
		return apperrors.ErrNotFound
	}
	if !item.Stock.IsZero() {
		return fmt.Errorf("%w: item %s still has %s on hand", apperrors.ErrPolicyViolation, itemID, item.Stock)
	}
	delete(r.items, itemID)
	return nil
}

func (r *StockRepository) FindLogEntryByID(ctx context.Context, entryID string) (*domain.StockAdjustmentLogEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.entries[entryID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return cloneEntry(entry), nil
}

// ListLogEntriesByItem returns entries newest first. The token carries the last log number returned.
func (r *StockRepository) ListLogEntriesByItem(ctx context.Context, itemID string, limit int, nextToken *string) ([]domain.StockAdjustmentLogEntry, *string, error) {
	var before int64
	if nextToken != nil && *nextToken != "" {
		n, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		before = n
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := r.byItem[itemID]
	page := make([]domain.StockAdjustmentLogEntry, 0, limit)
	for i := len(ids) - 1; i >= 0 && len(page) < limit+1; i-- {
		entry := r.entries[ids[i]]
		if before > 0 && entry.LogNumber >= before {
			continue
		}
		page = append(page, *cloneEntry(entry))
	}

	var token *string
	if len(page) > limit {
		page = page[:limit]
		t := pagination.EncodeToken(page[limit-1].LogNumber)
		token = &t
	}
	return page, token, nil
}

// WithinStockTx runs fn with a staged unit of work. Writes become visible only if fn succeeds.
func (r *StockRepository) WithinStockTx(ctx context.Context, fn func(ctx context.Context, tx portsrepo.StockTx) error) error {
	tx := &stockTx{
		repo:       r,
		held:       make(map[string]func()),
		stock:      make(map[string]stagedStock),
		superseded: make(map[string]string),
		deleted:    make(map[string]bool),
	}
	defer tx.releaseAll()

	if err := fn(ctx, tx); err != nil {
		return err
	}
	return tx.commit()
}

// acquire takes the write lock of one item, honouring ctx while waiting.
func (r *StockRepository) acquire(ctx context.Context, itemID string) (func(), error) {
	r.locksMu.Lock()
	lock, ok := r.locks[itemID]
	if !ok {
		lock = make(chan struct{}, 1)
		r.locks[itemID] = lock
	}
	r.locksMu.Unlock()

	select {
	case lock <- struct{}{}:
		return func() { <-lock }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (r *StockRepository) nextLogNumber() int64 {
	r.seqMu.Lock()
	defer r.seqMu.Unlock()
	r.logSeq++
	return r.logSeq
}

type stagedStock struct {
	stock decimal.Decimal
	at    time.Time
}

type stockTx struct {
	repo       *StockRepository
	held       map[string]func()
	stock      map[string]stagedStock
	inserted   []domain.StockAdjustmentLogEntry
	superseded map[string]string
	deleted    map[string]bool
}

var _ portsrepo.StockTx = (*stockTx)(nil)

func (t *stockTx) LockItem(ctx context.Context, itemID string) (*domain.StockItem, error) {
	if _, ok := t.held[itemID]; !ok {
		release, err := t.repo.acquire(ctx, itemID)
		if err != nil {
			return nil, err
		}
		t.held[itemID] = release
	}

	item, err := t.repo.FindItemByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if staged, ok := t.stock[itemID]; ok {
		item.Stock = staged.stock
	}
	return item, nil
}

func (t *stockTx) UpdateItemStock(ctx context.Context, itemID string, stock decimal.Decimal, now time.Time) error {
	if _, ok := t.held[itemID]; !ok {
		return fmt.Errorf("item %s is not locked in this unit of work", itemID)
	}
	t.stock[itemID] = stagedStock{stock: stock, at: now}
	return nil
}

func (t *stockTx) NextLogNumber(ctx context.Context) (int64, error) {
	return t.repo.nextLogNumber(), nil
}

func (t *stockTx) InsertLogEntry(ctx context.Context, entry domain.StockAdjustmentLogEntry) error {
	t.inserted = append(t.inserted, *cloneEntry(&entry))
	return nil
}

func (t *stockTx) FindLogEntry(ctx context.Context, entryID string) (*domain.StockAdjustmentLogEntry, error) {
	for i := range t.inserted {
		if t.inserted[i].EntryID == entryID {
			return t.withStaged(cloneEntry(&t.inserted[i])), nil
		}
	}
	entry, err := t.repo.FindLogEntryByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	return t.withStaged(entry), nil
}

func (t *stockTx) withStaged(entry *domain.StockAdjustmentLogEntry) *domain.StockAdjustmentLogEntry {
	if by, ok := t.superseded[entry.EntryID]; ok {
		entry.SupersededByID = &by
	}
	return entry
}

func (t *stockTx) MarkLogEntrySuperseded(ctx context.Context, entryID string, supersededByID string) error {
	if _, err := t.FindLogEntry(ctx, entryID); err != nil {
		return err
	}
	t.superseded[entryID] = supersededByID
	return nil
}

func (t *stockTx) DeleteItem(ctx context.Context, itemID string) error {
	if _, ok := t.held[itemID]; !ok {
		return fmt.Errorf("item %s is not locked in this unit of work", itemID)
	}
	t.deleted[itemID] = true
	return nil
}

func (t *stockTx) SumLogQuantities(ctx context.Context, itemID string) (decimal.Decimal, int, error) {
	t.repo.mu.RLock()
	sum := decimal.Zero
	count := 0
	for _, id := range t.repo.byItem[itemID] {
		sum = sum.Add(t.repo.entries[id].QuantityAdjusted)
		count++
	}
	t.repo.mu.RUnlock()

	for _, entry := range t.inserted {
		if entry.ItemID == itemID {
			sum = sum.Add(entry.QuantityAdjusted)
			count++
		}
	}
	return sum, count, nil
}

func (t *stockTx) commit() error {
	r := t.repo
	r.mu.Lock()
	defer r.mu.Unlock()

	for itemID, staged := range t.stock {
		item, ok := r.items[itemID]
		if !ok {
			return fmt.Errorf("%w: stock item %s", apperrors.ErrNotFound, itemID)
		}
		item.Stock = staged.stock
		item.LastUpdatedAt = staged.at
	}
	for i := range t.inserted {
		entry := t.inserted[i]
		r.entries[entry.EntryID] = &entry
		r.byItem[entry.ItemID] = append(r.byItem[entry.ItemID], entry.EntryID)
	}
	for entryID, by := range t.superseded {
		if entry, ok := r.entries[entryID]; ok {
			supersededBy := by
			entry.SupersededByID = &supersededBy
		}
	}
	for itemID := range t.deleted {
		delete(r.items, itemID)
	}
	return nil
}

func (t *stockTx) releaseAll() {
	for _, release := range t.held {
		release()
	}
}

func cloneItem(item *domain.StockItem) *domain.StockItem {
	c := *item
	if item.PriceTiers != nil {
		c.PriceTiers = append([]domain.PriceTier(nil), item.PriceTiers...)
	}
	return &c
}

func cloneEntry(entry *domain.StockAdjustmentLogEntry) *domain.StockAdjustmentLogEntry {
	c := *entry
	if entry.ReversesEntryID != nil {
		v := *entry.ReversesEntryID
		c.ReversesEntryID = &v
	}
	if entry.SupersededByID != nil {
		v := *entry.SupersededByID
		c.SupersededByID = &v
	}
	return &c
}
