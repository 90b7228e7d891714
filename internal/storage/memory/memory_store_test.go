package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nghiack7/data-ingestion-service/internal/domain/models"
	"github.com/nghiack7/data-ingestion-service/internal/storage"
)

func newRequest(t *testing.T) *models.IngestionRequest {
	t.Helper()
	return models.NewIngestionRequest([]int64{1, 2, 3, 4, 5}, models.PriorityHigh, 3)
}

func TestMemoryRepository_CreateAndGet(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	req := newRequest(t)

	id, err := repo.CreateRequest(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, req.IngestionID, id)

	saved, err := repo.GetRequest(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, req.IDs, saved.IDs)
	assert.Equal(t, models.StatusYetToStart, saved.Status)
	require.Len(t, saved.Batches, 2)
	assert.Equal(t, []int64{1, 2, 3}, saved.Batches[0].IDs)
	assert.Equal(t, []int64{4, 5}, saved.Batches[1].IDs)
}

func TestMemoryRepository_Get_NotFound(t *testing.T) {
	repo := NewMemoryRepository()

	_, err := repo.GetRequest(context.Background(), "non-existent-id")
	require.Error(t, err)
	assert.ErrorIs(t, err, storage.ErrRequestNotFound)
}

func TestMemoryRepository_Create_Duplicate(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	req := newRequest(t)

	_, err := repo.CreateRequest(ctx, req)
	require.NoError(t, err)

	_, err = repo.CreateRequest(ctx, req)
	require.Error(t, err)
	assert.ErrorIs(t, err, storage.ErrDuplicateRequest)
}

func TestMemoryRepository_UpdateBatchStatus_DerivesRequestStatus(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	req := newRequest(t)

	_, err := repo.CreateRequest(ctx, req)
	require.NoError(t, err)

	first := req.Batches[0].BatchID
	second := req.Batches[1].BatchID

	// One batch triggered: request rolls up to triggered
	require.NoError(t, repo.UpdateBatchStatus(ctx, first, models.StatusTriggered))
	snapshot, err := repo.GetRequest(ctx, req.IngestionID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusTriggered, snapshot.Status)
	assert.NotNil(t, snapshot.Batches[0].TriggeredAt)

	// First completed, second untouched: still triggered
	require.NoError(t, repo.UpdateBatchStatus(ctx, first, models.StatusCompleted))
	snapshot, err = repo.GetRequest(ctx, req.IngestionID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusTriggered, snapshot.Status)

	// Both completed: request completed
	require.NoError(t, repo.UpdateBatchStatus(ctx, second, models.StatusTriggered))
	require.NoError(t, repo.UpdateBatchStatus(ctx, second, models.StatusCompleted))
	snapshot, err = repo.GetRequest(ctx, req.IngestionID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, snapshot.Status)
	assert.NotNil(t, snapshot.Batches[1].CompletedAt)
}

func TestMemoryRepository_UpdateBatchStatus_NoRegression(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	req := newRequest(t)

	_, err := repo.CreateRequest(ctx, req)
	require.NoError(t, err)

	batchID := req.Batches[0].BatchID
	require.NoError(t, repo.UpdateBatchStatus(ctx, batchID, models.StatusCompleted))

	err = repo.UpdateBatchStatus(ctx, batchID, models.StatusTriggered)
	require.Error(t, err)
	assert.ErrorIs(t, err, storage.ErrStatusRegression)

	// Idempotent same-status update is allowed
	assert.NoError(t, repo.UpdateBatchStatus(ctx, batchID, models.StatusCompleted))
}

func TestMemoryRepository_UpdateBatchStatus_UnknownBatch(t *testing.T) {
	repo := NewMemoryRepository()

	err := repo.UpdateBatchStatus(context.Background(), "no-such-batch", models.StatusTriggered)
	require.Error(t, err)
	assert.ErrorIs(t, err, storage.ErrBatchNotFound)
}

func TestMemoryRepository_SnapshotIsolation(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	req := newRequest(t)

	_, err := repo.CreateRequest(ctx, req)
	require.NoError(t, err)

	snapshot, err := repo.GetRequest(ctx, req.IngestionID)
	require.NoError(t, err)

	// Mutating the snapshot must not affect the stored record
	snapshot.Batches[0].Status = models.StatusCompleted
	snapshot.IDs[0] = 99

	fresh, err := repo.GetRequest(ctx, req.IngestionID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusYetToStart, fresh.Batches[0].Status)
	assert.Equal(t, int64(1), fresh.IDs[0])

	// Mutating the submitted request after create must not either
	req.Batches[1].Status = models.StatusCompleted
	fresh, err = repo.GetRequest(ctx, req.IngestionID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusYetToStart, fresh.Batches[1].Status)
}

func TestMemoryRepository_CountByStatus(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	first := newRequest(t)
	second := newRequest(t)
	_, err := repo.CreateRequest(ctx, first)
	require.NoError(t, err)
	_, err = repo.CreateRequest(ctx, second)
	require.NoError(t, err)

	count, err := repo.CountByStatus(ctx, models.StatusYetToStart)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	for _, b := range first.Batches {
		require.NoError(t, repo.UpdateBatchStatus(ctx, b.BatchID, models.StatusCompleted))
	}

	count, err = repo.CountByStatus(ctx, models.StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	count, err = repo.CountByStatus(ctx, models.StatusYetToStart)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMemoryRepository_ConcurrentReadsDuringWrites(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	req := models.NewIngestionRequest([]int64{1, 2, 3, 4, 5, 6, 7, 8}, models.PriorityMedium, 2)

	_, err := repo.CreateRequest(ctx, req)
	require.NoError(t, err)

	var wg sync.WaitGroup

	// Writer drives every batch to completed
	wg.Add(1)
	go func() {
		defer wg.Done()
		for _, b := range req.Batches {
			_ = repo.UpdateBatchStatus(ctx, b.BatchID, models.StatusTriggered)
			_ = repo.UpdateBatchStatus(ctx, b.BatchID, models.StatusCompleted)
		}
	}()

	// Readers must always observe a status consistent with the batches
	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				snapshot, err := repo.GetRequest(ctx, req.IngestionID)
				assert.NoError(t, err)
				assert.Equal(t, models.DeriveRequestStatus(snapshot.Batches), snapshot.Status)
			}
		}()
	}

	wg.Wait()

	snapshot, err := repo.GetRequest(ctx, req.IngestionID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, snapshot.Status)
}
