package memory_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/bizledger/internal/adapters/memory"
	"github.com/SscSPs/bizledger/internal/apperrors"
	"github.com/SscSPs/bizledger/internal/core/domain"
	portsrepo "github.com/SscSPs/bizledger/internal/core/ports/repositories"
)

func seedItem(t *testing.T, repo *memory.StockRepository, id string, stock int64) {
	t.Helper()
	require.NoError(t, repo.SaveItem(context.Background(), domain.StockItem{
		ItemID: id,
		SKU:    "SKU-" + id,
		Name:   "Item " + id,
		Stock:  decimal.NewFromInt(stock),
	}))
}

func appendEntry(ctx context.Context, tx portsrepo.StockTx, itemID string, delta int64) (*domain.StockAdjustmentLogEntry, error) {
	item, err := tx.LockItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	n, err := tx.NextLogNumber(ctx)
	if err != nil {
		return nil, err
	}
	entry := domain.StockAdjustmentLogEntry{
		EntryID:          fmt.Sprintf("%s-%d", itemID, n),
		LogNumber:        n,
		ItemID:           itemID,
		AdjustmentType:   domain.CorrectionTypeFor(decimal.NewFromInt(delta)),
		QuantityAdjusted: decimal.NewFromInt(delta),
		PreviousStock:    item.Stock,
		NewStock:         item.Stock.Add(decimal.NewFromInt(delta)),
	}
	if err := tx.InsertLogEntry(ctx, entry); err != nil {
		return nil, err
	}
	return &entry, tx.UpdateItemStock(ctx, itemID, entry.NewStock, time.Now())
}

func TestStockRepository_CommitMakesWritesVisible(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewStockRepository()
	seedItem(t, repo, "a", 10)

	var created *domain.StockAdjustmentLogEntry
	err := repo.WithinStockTx(ctx, func(ctx context.Context, tx portsrepo.StockTx) error {
		var err error
		created, err = appendEntry(ctx, tx, "a", 5)
		return err
	})
	require.NoError(t, err)

	item, err := repo.FindItemByID(ctx, "a")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(15).Equal(item.Stock))

	entry, err := repo.FindLogEntryByID(ctx, created.EntryID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), entry.LogNumber)
}

func TestStockRepository_RollbackDiscardsWrites(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewStockRepository()
	seedItem(t, repo, "a", 10)
	seedItem(t, repo, "b", 10)

	boom := errors.New("boom")
	var first *domain.StockAdjustmentLogEntry
	err := repo.WithinStockTx(ctx, func(ctx context.Context, tx portsrepo.StockTx) error {
		var err error
		if first, err = appendEntry(ctx, tx, "a", 5); err != nil {
			return err
		}
		if _, err = appendEntry(ctx, tx, "b", -3); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	for _, id := range []string{"a", "b"} {
		item, err := repo.FindItemByID(ctx, id)
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(10).Equal(item.Stock), "item %s stock changed", id)
	}
	_, err = repo.FindLogEntryByID(ctx, first.EntryID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestStockRepository_TxSeesItsOwnWrites(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewStockRepository()
	seedItem(t, repo, "a", 0)

	err := repo.WithinStockTx(ctx, func(ctx context.Context, tx portsrepo.StockTx) error {
		e1, err := appendEntry(ctx, tx, "a", 4)
		require.NoError(t, err)
		_, err = appendEntry(ctx, tx, "a", 6)
		require.NoError(t, err)

		item, err := tx.LockItem(ctx, "a")
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(10).Equal(item.Stock))

		sum, count, err := tx.SumLogQuantities(ctx, "a")
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(10).Equal(sum))
		assert.Equal(t, 2, count)

		require.NoError(t, tx.MarkLogEntrySuperseded(ctx, e1.EntryID, "later"))
		found, err := tx.FindLogEntry(ctx, e1.EntryID)
		require.NoError(t, err)
		assert.True(t, found.IsSuperseded())
		return nil
	})
	require.NoError(t, err)
}

func TestStockRepository_ConcurrentUnitsOfWorkSerializePerItem(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewStockRepository()
	seedItem(t, repo, "a", 0)
	seedItem(t, repo, "b", 0)

	const workers = 50
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids := []string{"a", "b"}
			err := repo.WithinStockTx(ctx, func(ctx context.Context, tx portsrepo.StockTx) error {
				for _, id := range ids {
					if _, err := appendEntry(ctx, tx, id, 1); err != nil {
						return err
					}
				}
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	for _, id := range []string{"a", "b"} {
		item, err := repo.FindItemByID(ctx, id)
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(workers).Equal(item.Stock), "item %s stock %s", id, item.Stock)

		entries, _, err := repo.ListLogEntriesByItem(ctx, id, workers+10, nil)
		require.NoError(t, err)
		require.Len(t, entries, workers)
		// Each entry chains from the previous one
		for j := 0; j < len(entries)-1; j++ {
			assert.True(t, entries[j].PreviousStock.Equal(entries[j+1].NewStock))
		}
	}
}

func TestStockRepository_LockHonoursContext(t *testing.T) {
	repo := memory.NewStockRepository()
	seedItem(t, repo, "a", 0)

	locked := make(chan struct{})
	done := make(chan struct{})
	go func() {
		_ = repo.WithinStockTx(context.Background(), func(ctx context.Context, tx portsrepo.StockTx) error {
			_, err := tx.LockItem(ctx, "a")
			close(locked)
			<-done
			return err
		})
	}()
	<-locked
	defer close(done)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := repo.WithinStockTx(ctx, func(ctx context.Context, tx portsrepo.StockTx) error {
		_, err := tx.LockItem(ctx, "a")
		return err
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestStockRepository_ListLogEntriesPaginates(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewStockRepository()
	seedItem(t, repo, "a", 0)
	for i := 0; i < 5; i++ {
		require.NoError(t, repo.WithinStockTx(ctx, func(ctx context.Context, tx portsrepo.StockTx) error {
			_, err := appendEntry(ctx, tx, "a", 1)
			return err
		}))
	}

	page1, token, err := repo.ListLogEntriesByItem(ctx, "a", 2, nil)
	require.NoError(t, err)
	require.Len(t, page1, 2)
	require.NotNil(t, token)
	assert.Equal(t, int64(5), page1[0].LogNumber)
	assert.Equal(t, int64(4), page1[1].LogNumber)

	page2, token, err := repo.ListLogEntriesByItem(ctx, "a", 2, token)
	require.NoError(t, err)
	require.Len(t, page2, 2)
	assert.Equal(t, int64(3), page2[0].LogNumber)

	page3, token, err := repo.ListLogEntriesByItem(ctx, "a", 2, token)
	require.NoError(t, err)
	require.Len(t, page3, 1)
	assert.Nil(t, token)

	bad := "%%%"
	_, _, err = repo.ListLogEntriesByItem(ctx, "a", 2, &bad)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestStockRepository_SaveItemKeepsStock(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewStockRepository()
	seedItem(t, repo, "a", 7)

	require.NoError(t, repo.SaveItem(ctx, domain.StockItem{ItemID: "a", SKU: "SKU-a", Name: "Renamed"}))
	item, err := repo.FindItemByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", item.Name)
	assert.True(t, decimal.NewFromInt(7).Equal(item.Stock))

	err = repo.SaveItem(ctx, domain.StockItem{ItemID: "b", SKU: "SKU-a", Name: "Clash"})
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)

	assert.ErrorIs(t, repo.DeleteItem(ctx, "a"), apperrors.ErrPolicyViolation)
	seedItem(t, repo, "c", 0)
	require.NoError(t, repo.DeleteItem(ctx, "c"))
	assert.ErrorIs(t, repo.DeleteItem(ctx, "c"), apperrors.ErrNotFound)
}

func TestStockRepository_TxDeleteItem(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewStockRepository()
	seedItem(t, repo, "a", 0)
	seedItem(t, repo, "b", 0)

	err := repo.WithinStockTx(ctx, func(ctx context.Context, tx portsrepo.StockTx) error {
		return tx.DeleteItem(ctx, "b")
	})
	require.Error(t, err, "an unlocked item cannot be deleted")

	rollback := errors.New("rollback")
	err = repo.WithinStockTx(ctx, func(ctx context.Context, tx portsrepo.StockTx) error {
		if _, err := tx.LockItem(ctx, "a"); err != nil {
			return err
		}
		if err := tx.DeleteItem(ctx, "a"); err != nil {
			return err
		}
		return rollback
	})
	require.ErrorIs(t, err, rollback)
	_, err = repo.FindItemByID(ctx, "a")
	require.NoError(t, err, "a failed unit of work keeps the item")

	err = repo.WithinStockTx(ctx, func(ctx context.Context, tx portsrepo.StockTx) error {
		if _, err := tx.LockItem(ctx, "a"); err != nil {
			return err
		}
		return tx.DeleteItem(ctx, "a")
	})
	require.NoError(t, err)
	_, err = repo.FindItemByID(ctx, "a")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	_, err = repo.FindItemByID(ctx, "b")
	assert.NoError(t, err)
}
