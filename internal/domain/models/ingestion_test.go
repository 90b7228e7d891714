package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nghiack7/data-ingestion-service/pkg/errors"
)

func TestValidateIdentifiers_Boundaries(t *testing.T) {
	tests := []struct {
		name    string
		ids     []int64
		wantErr bool
	}{
		{name: "lower bound accepted", ids: []int64{1}, wantErr: false},
		{name: "upper bound accepted", ids: []int64{1_000_000_007}, wantErr: false},
		{name: "zero rejected", ids: []int64{0}, wantErr: true},
		{name: "negative rejected", ids: []int64{-5}, wantErr: true},
		{name: "above upper bound rejected", ids: []int64{1_000_000_008}, wantErr: true},
		{name: "empty sequence rejected", ids: []int64{}, wantErr: true},
		{name: "one bad id fails whole sequence", ids: []int64{1, 2, 0}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateIdentifiers(tt.ids)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, errors.ErrInvalidIdentifier))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParsePriority(t *testing.T) {
	for _, label := range []string{"HIGH", "MEDIUM", "LOW"} {
		p, err := ParsePriority(label)
		assert.NoError(t, err)
		assert.Equal(t, Priority(label), p)
	}

	_, err := ParsePriority("URGENT")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidPriority))

	_, err = ParsePriority("")
	assert.Error(t, err)
}

func TestPriorityWeightOrdering(t *testing.T) {
	assert.Less(t, PriorityHigh.Weight(), PriorityMedium.Weight())
	assert.Less(t, PriorityMedium.Weight(), PriorityLow.Weight())
}

func TestSplitIdentifiers(t *testing.T) {
	tests := []struct {
		name      string
		ids       []int64
		batchSize int
		want      [][]int64
	}{
		{
			name:      "even split",
			ids:       []int64{1, 2, 3, 4, 5, 6},
			batchSize: 3,
			want:      [][]int64{{1, 2, 3}, {4, 5, 6}},
		},
		{
			name:      "short last chunk",
			ids:       []int64{1, 2, 3, 4, 5},
			batchSize: 3,
			want:      [][]int64{{1, 2, 3}, {4, 5}},
		},
		{
			name:      "single chunk",
			ids:       []int64{7, 8},
			batchSize: 3,
			want:      [][]int64{{7, 8}},
		},
		{
			name:      "batch size one",
			ids:       []int64{1, 2, 3},
			batchSize: 1,
			want:      [][]int64{{1}, {2}, {3}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitIdentifiers(tt.ids, tt.batchSize))
		})
	}
}

func TestSplitIdentifiers_ConcatenationReproducesInput(t *testing.T) {
	for size := 1; size <= 7; size++ {
		for length := 1; length <= 20; length++ {
			ids := make([]int64, length)
			for i := range ids {
				ids[i] = int64(i + 1)
			}

			chunks := SplitIdentifiers(ids, size)

			var joined []int64
			for i, chunk := range chunks {
				assert.LessOrEqual(t, len(chunk), size)
				if i < len(chunks)-1 {
					assert.Len(t, chunk, size)
				}
				joined = append(joined, chunk...)
			}
			assert.Equal(t, ids, joined, "batchSize=%d length=%d", size, length)
		}
	}
}

func TestNewIngestionRequest(t *testing.T) {
	req := NewIngestionRequest([]int64{1, 2, 3, 4, 5}, PriorityHigh, 3)

	require.NotEmpty(t, req.IngestionID)
	assert.Equal(t, StatusYetToStart, req.Status)
	require.Len(t, req.Batches, 2)
	assert.Equal(t, []int64{1, 2, 3}, req.Batches[0].IDs)
	assert.Equal(t, []int64{4, 5}, req.Batches[1].IDs)

	for _, b := range req.Batches {
		assert.NotEmpty(t, b.BatchID)
		assert.Equal(t, req.IngestionID, b.IngestionID)
		assert.Equal(t, PriorityHigh, b.Priority)
		assert.Equal(t, StatusYetToStart, b.Status)
	}

	assert.NotEqual(t, req.Batches[0].BatchID, req.Batches[1].BatchID)
}

func TestDeriveRequestStatus(t *testing.T) {
	batch := func(s Status) *Batch { return &Batch{Status: s} }

	tests := []struct {
		name    string
		batches []*Batch
		want    Status
	}{
		{"all yet to start", []*Batch{batch(StatusYetToStart), batch(StatusYetToStart)}, StatusYetToStart},
		{"all completed", []*Batch{batch(StatusCompleted), batch(StatusCompleted)}, StatusCompleted},
		{"mixed yet to start and completed", []*Batch{batch(StatusYetToStart), batch(StatusCompleted)}, StatusTriggered},
		{"one triggered", []*Batch{batch(StatusTriggered), batch(StatusYetToStart)}, StatusTriggered},
		{"all triggered", []*Batch{batch(StatusTriggered), batch(StatusTriggered)}, StatusTriggered},
		{"single completed", []*Batch{batch(StatusCompleted)}, StatusCompleted},
		{"no batches", nil, StatusYetToStart},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveRequestStatus(tt.batches))
		})
	}
}

func TestClone_IsolatedFromOriginal(t *testing.T) {
	req := NewIngestionRequest([]int64{1, 2, 3, 4}, PriorityLow, 2)

	snapshot := req.Clone()
	req.Batches[0].Status = StatusCompleted
	req.IDs[0] = 99

	assert.Equal(t, StatusYetToStart, snapshot.Batches[0].Status)
	assert.Equal(t, int64(1), snapshot.IDs[0])
}
