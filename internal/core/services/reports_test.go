package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/topicgap/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/topicgap/internal/core/domain"
)

func TestReportService(t *testing.T) {
	ctx := context.Background()
	store := memory.NewReportStore()
	require.NoError(t, store.Save(ctx, &domain.AnalysisResult{
		ID:          "r1",
		TargetURL:   "https://a.com",
		TargetScore: 70,
		CompletedAt: time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC),
	}))
	service := NewReportService(store)

	got, err := service.Get(ctx, "  r1 ")
	require.NoError(t, err)
	assert.Equal(t, 70, got.TargetScore)

	list, err := service.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "r1", list[0].ID)

	require.NoError(t, service.Delete(ctx, "r1"))
	_, err = service.Get(ctx, "r1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReportService_RequiresID(t *testing.T) {
	service := NewReportService(memory.NewReportStore())

	_, err := service.Get(context.Background(), " ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.ErrorIs(t, service.Delete(context.Background(), ""), domain.ErrInvalidInput)
}
