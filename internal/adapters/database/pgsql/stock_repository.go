package pgsql

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/SscSPs/bizledger/internal/apperrors"
	"github.com/SscSPs/bizledger/internal/core/domain"
	portsrepo "github.com/SscSPs/bizledger/internal/core/ports/repositories"
	"github.com/SscSPs/bizledger/internal/models"
	"github.com/SscSPs/bizledger/internal/utils/mapping"
	"github.com/SscSPs/bizledger/internal/utils/pagination"
)

const itemColumns = `item_id, sku, name, kind, unit_of_measure, stock, low_stock_threshold,
	cost_price, sell_price, created_at, last_updated_at`

const logColumns = `entry_id, log_number, item_id, item_name, adjustment_type, quantity_adjusted,
	previous_stock, new_stock, entry_date, notes, reverses_entry_id, superseded_by_id, created_at`

// querier is satisfied by both the pool and a transaction.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PgxStockRepository stores stock items and the adjustment log in Postgres.
type PgxStockRepository struct {
	BaseRepository
}

// NewStockRepository creates a new repository for stock data.
func NewStockRepository(pool *pgxpool.Pool) *PgxStockRepository {
	return &PgxStockRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxStockRepository implements portsrepo.StockRepositoryFacade
var _ portsrepo.StockRepositoryFacade = (*PgxStockRepository)(nil)

func scanItem(row pgx.Row) (models.StockItem, error) {
	var m models.StockItem
	err := row.Scan(
		&m.ItemID,
		&m.SKU,
		&m.Name,
		&m.Kind,
		&m.UnitOfMeasure,
		&m.Stock,
		&m.LowStockThreshold,
		&m.CostPrice,
		&m.SellPrice,
		&m.CreatedAt,
		&m.LastUpdatedAt,
	)
	return m, err
}

func scanLogEntry(row pgx.Row) (models.StockLogEntry, error) {
	var m models.StockLogEntry
	err := row.Scan(
		&m.EntryID,
		&m.LogNumber,
		&m.ItemID,
		&m.ItemName,
		&m.AdjustmentType,
		&m.QuantityAdjusted,
		&m.PreviousStock,
		&m.NewStock,
		&m.EntryDate,
		&m.Notes,
		&m.ReversesEntryID,
		&m.SupersededByID,
		&m.CreatedAt,
	)
	return m, err
}

// loadTiers fetches the tiers of the given items keyed by item ID, in position order.
func loadTiers(ctx context.Context, q querier, itemIDs []string) (map[string][]models.PriceTier, error) {
	query := `
		SELECT item_id, position, price_level, price
		FROM stock_price_tiers
		WHERE item_id = ANY($1)
		ORDER BY item_id, position;
	`
	rows, err := q.Query(ctx, query, itemIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query price tiers: %w", err)
	}
	defer rows.Close()

	tiers := make(map[string][]models.PriceTier, len(itemIDs))
	for rows.Next() {
		var t models.PriceTier
		if err := rows.Scan(&t.ItemID, &t.Position, &t.PriceLevel, &t.Price); err != nil {
			return nil, fmt.Errorf("failed to scan price tier: %w", err)
		}
		tiers[t.ItemID] = append(tiers[t.ItemID], t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating price tiers: %w", err)
	}
	return tiers, nil
}

// FindItemByID retrieves an item with its price tiers.
func (r *PgxStockRepository) FindItemByID(ctx context.Context, itemID string) (*domain.StockItem, error) {
	query := `SELECT ` + itemColumns + ` FROM stock_items WHERE item_id = $1;`
	m, err := scanItem(r.Pool.QueryRow(ctx, query, itemID))
	if err != nil {
		if err = notFound(err); errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to find stock item "+itemID, err)
	}

	tiers, err := loadTiers(ctx, r.Pool, []string{itemID})
	if err != nil {
		return nil, err
	}
	item := mapping.ToDomainStockItem(m, tiers[itemID])
	return &item, nil
}

// ListItems retrieves every item ordered by name.
func (r *PgxStockRepository) ListItems(ctx context.Context) ([]domain.StockItem, error) {
	query := `SELECT ` + itemColumns + ` FROM stock_items ORDER BY name, item_id;`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query stock items: %w", err)
	}
	defer rows.Close()

	var ms []models.StockItem
	ids := []string{}
	for rows.Next() {
		m, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan stock item: %w", err)
		}
		ms = append(ms, m)
		ids = append(ids, m.ItemID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stock items: %w", err)
	}
	rows.Close()

	tiers, err := loadTiers(ctx, r.Pool, ids)
	if err != nil {
		return nil, err
	}
	items := make([]domain.StockItem, len(ms))
	for i, m := range ms {
		items[i] = mapping.ToDomainStockItem(m, tiers[m.ItemID])
	}
	return items, nil
}

// SaveItem upserts an item and replaces its tiers. The stock column of an existing row is left alone.
func (r *PgxStockRepository) SaveItem(ctx context.Context, item domain.StockItem) error {
	m, tiers := mapping.ToModelStockItem(item)

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
		INSERT INTO stock_items (` + itemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (item_id) DO UPDATE SET
			sku = EXCLUDED.sku,
			name = EXCLUDED.name,
			kind = EXCLUDED.kind,
			unit_of_measure = EXCLUDED.unit_of_measure,
			low_stock_threshold = EXCLUDED.low_stock_threshold,
			cost_price = EXCLUDED.cost_price,
			sell_price = EXCLUDED.sell_price,
			last_updated_at = EXCLUDED.last_updated_at;
	`
	_, err = tx.Exec(ctx, query,
		m.ItemID,
		m.SKU,
		m.Name,
		m.Kind,
		m.UnitOfMeasure,
		m.Stock,
		m.LowStockThreshold,
		m.CostPrice,
		m.SellPrice,
		m.CreatedAt,
		m.LastUpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: sku %s", apperrors.ErrDuplicate, m.SKU)
		}
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to save stock item "+m.ItemID, err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM stock_price_tiers WHERE item_id = $1;`, m.ItemID); err != nil {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to clear price tiers for "+m.ItemID, err)
	}
	if len(tiers) > 0 {
		batch := &pgx.Batch{}
		for _, t := range tiers {
			batch.Queue(`INSERT INTO stock_price_tiers (item_id, position, price_level, price) VALUES ($1, $2, $3, $4);`,
				t.ItemID, t.Position, t.PriceLevel, t.Price)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: %w: duplicate price level", apperrors.ErrValidation, apperrors.ErrPolicyViolation)
			}
			return apperrors.NewAppError(http.StatusInternalServerError, "failed to insert price tiers for "+m.ItemID, err)
		}
	}

	return r.Commit(ctx, tx)
}

// DeleteItem removes an item with zero stock and, by cascade, its price tiers.
func (r *PgxStockRepository) DeleteItem(ctx context.Context, itemID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM stock_items WHERE item_id = $1 AND stock = 0;`, itemID)
	if err != nil {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to delete stock item "+itemID, err)
	}
	if tag.RowsAffected() == 0 {
		return r.explainNotDeleted(ctx, itemID)
	}
	return nil
}

// explainNotDeleted tells a missing item apart from one that still holds stock.
func (r *PgxStockRepository) explainNotDeleted(ctx context.Context, itemID string) error {
	var stock decimal.Decimal
	err := r.Pool.QueryRow(ctx, `SELECT stock FROM stock_items WHERE item_id = $1;`, itemID).Scan(&stock)
	if err != nil {
		if err = notFound(err); errors.Is(err, apperrors.ErrNotFound) {
			return err
		}
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to read stock item "+itemID, err)
	}
	return fmt.Errorf("%w: item %s still has %s on hand", apperrors.ErrPolicyViolation, itemID, stock)
}

// FindLogEntryByID retrieves one log entry.
func (r *PgxStockRepository) FindLogEntryByID(ctx context.Context, entryID string) (*domain.StockAdjustmentLogEntry, error) {
	query := `SELECT ` + logColumns + ` FROM stock_adjustment_log WHERE entry_id = $1;`
	m, err := scanLogEntry(r.Pool.QueryRow(ctx, query, entryID))
	if err != nil {
		if err = notFound(err); errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to find log entry "+entryID, err)
	}
	entry := mapping.ToDomainStockLogEntry(m)
	return &entry, nil
}

// ListLogEntriesByItem retrieves a page of an item's log, newest first.
func (r *PgxStockRepository) ListLogEntriesByItem(ctx context.Context, itemID string, limit int, nextToken *string) ([]domain.StockAdjustmentLogEntry, *string, error) {
	args := []any{itemID}
	query := `SELECT ` + logColumns + ` FROM stock_adjustment_log WHERE item_id = $1`
	if nextToken != nil && *nextToken != "" {
		before, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		args = append(args, before)
		query += ` AND log_number < $` + strconv.Itoa(len(args))
	}
	// Fetch one extra row to know whether another page exists
	args = append(args, limit+1)
	query += ` ORDER BY log_number DESC LIMIT $` + strconv.Itoa(len(args)) + `;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query log entries for item %s: %w", itemID, err)
	}
	defer rows.Close()

	results := make([]models.StockLogEntry, 0, limit+1)
	for rows.Next() {
		m, err := scanLogEntry(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan log entry: %w", err)
		}
		results = append(results, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating log entries: %w", err)
	}

	var nextTokenVal *string
	if len(results) > limit {
		results = results[:limit]
		token := pagination.EncodeToken(results[limit-1].LogNumber)
		nextTokenVal = &token
	}
	return mapping.ToDomainStockLogEntrySlice(results), nextTokenVal, nil
}

// WithinStockTx runs fn inside a database transaction.
func (r *PgxStockRepository) WithinStockTx(ctx context.Context, fn func(ctx context.Context, tx portsrepo.StockTx) error) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	// Will be ignored if the transaction is committed successfully
	defer r.Rollback(ctx, tx)

	if err := fn(ctx, &pgxStockTx{tx: tx}); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// pgxStockTx implements portsrepo.StockTx on a pgx transaction.
type pgxStockTx struct {
	tx pgx.Tx
}

var _ portsrepo.StockTx = (*pgxStockTx)(nil)

// LockItem reads an item with SELECT ... FOR UPDATE.
func (t *pgxStockTx) LockItem(ctx context.Context, itemID string) (*domain.StockItem, error) {
	query := `SELECT ` + itemColumns + ` FROM stock_items WHERE item_id = $1 FOR UPDATE;`
	m, err := scanItem(t.tx.QueryRow(ctx, query, itemID))
	if err != nil {
		if err = notFound(err); errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to lock stock item %s: %w", itemID, err)
	}
	tiers, err := loadTiers(ctx, t.tx, []string{itemID})
	if err != nil {
		return nil, err
	}
	item := mapping.ToDomainStockItem(m, tiers[itemID])
	return &item, nil
}

func (t *pgxStockTx) UpdateItemStock(ctx context.Context, itemID string, stock decimal.Decimal, now time.Time) error {
	tag, err := t.tx.Exec(ctx, `UPDATE stock_items SET stock = $2, last_updated_at = $3 WHERE item_id = $1;`, itemID, stock, now)
	if err != nil {
		return fmt.Errorf("failed to update stock of %s: %w", itemID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteItem removes a locked item. The caller has already checked its stock under the lock.
func (t *pgxStockTx) DeleteItem(ctx context.Context, itemID string) error {
	tag, err := t.tx.Exec(ctx, `DELETE FROM stock_items WHERE item_id = $1;`, itemID)
	if err != nil {
		return fmt.Errorf("failed to delete stock item %s: %w", itemID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (t *pgxStockTx) NextLogNumber(ctx context.Context) (int64, error) {
	var n int64
	if err := t.tx.QueryRow(ctx, `SELECT nextval('stock_log_number_seq');`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to allocate log number: %w", err)
	}
	return n, nil
}

func (t *pgxStockTx) InsertLogEntry(ctx context.Context, entry domain.StockAdjustmentLogEntry) error {
	m := mapping.ToModelStockLogEntry(entry)
	query := `
		INSERT INTO stock_adjustment_log (` + logColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := t.tx.Exec(ctx, query,
		m.EntryID,
		m.LogNumber,
		m.ItemID,
		m.ItemName,
		m.AdjustmentType,
		m.QuantityAdjusted,
		m.PreviousStock,
		m.NewStock,
		m.EntryDate,
		m.Notes,
		m.ReversesEntryID,
		m.SupersededByID,
		m.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: log entry already reversed", apperrors.ErrPolicyViolation)
		}
		return fmt.Errorf("failed to insert log entry %s: %w", m.EntryID, err)
	}
	return nil
}

// FindLogEntry reads a log entry and locks it for the rest of the transaction.
func (t *pgxStockTx) FindLogEntry(ctx context.Context, entryID string) (*domain.StockAdjustmentLogEntry, error) {
	query := `SELECT ` + logColumns + ` FROM stock_adjustment_log WHERE entry_id = $1 FOR UPDATE;`
	m, err := scanLogEntry(t.tx.QueryRow(ctx, query, entryID))
	if err != nil {
		if err = notFound(err); errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to find log entry %s: %w", entryID, err)
	}
	entry := mapping.ToDomainStockLogEntry(m)
	return &entry, nil
}

func (t *pgxStockTx) MarkLogEntrySuperseded(ctx context.Context, entryID string, supersededByID string) error {
	tag, err := t.tx.Exec(ctx,
		`UPDATE stock_adjustment_log SET superseded_by_id = $2 WHERE entry_id = $1 AND superseded_by_id IS NULL;`,
		entryID, supersededByID)
	if err != nil {
		return fmt.Errorf("failed to mark log entry %s superseded: %w", entryID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: log entry %s has already been reversed", apperrors.ErrPolicyViolation, entryID)
	}
	return nil
}

func (t *pgxStockTx) SumLogQuantities(ctx context.Context, itemID string) (decimal.Decimal, int, error) {
	var sum decimal.Decimal
	var count int
	err := t.tx.QueryRow(ctx,
		`SELECT COALESCE(SUM(quantity_adjusted), 0), COUNT(*) FROM stock_adjustment_log WHERE item_id = $1;`,
		itemID).Scan(&sum, &count)
	if err != nil {
		return decimal.Zero, 0, fmt.Errorf("failed to sum log for item %s: %w", itemID, err)
	}
	return sum, count, nil
}
