package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ypropel/backend/internal/app/models"
	"github.com/ypropel/backend/internal/app/models/dto"
	"github.com/ypropel/backend/internal/pkg/apperrors"
)

func TestPublicJobBoardHidesInactiveAndExpired(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.member(t, "admin")
	past := time.Now().Add(-time.Hour)

	open, err := f.svc.Job.Create(ctx, admin.UserID, &dto.CreateJobRequest{Title: "Go developer", Company: "Acme"})
	require.NoError(t, err)
	assert.True(t, open.IsActive)

	closed, err := f.svc.Job.Create(ctx, admin.UserID, &dto.CreateJobRequest{Title: "Closed", Company: "Acme", IsActive: boolPtr(false)})
	require.NoError(t, err)
	expired, err := f.svc.Job.Create(ctx, admin.UserID, &dto.CreateJobRequest{Title: "Expired", Company: "Acme", ExpiresAt: &past})
	require.NoError(t, err)

	board, err := f.svc.Job.ListPublic(ctx, models.JobFilter{}, 1, 10)
	require.NoError(t, err)
	require.Len(t, board.Items, 1)
	assert.Equal(t, open.ID, board.Items[0].ID)
	assert.EqualValues(t, 1, board.Pagination.TotalItems)

	all, err := f.svc.Job.ListAll(ctx, models.JobFilter{}, 1, 10)
	require.NoError(t, err)
	assert.Len(t, all.Items, 3)

	for _, id := range []int64{closed.ID, expired.ID} {
		_, err := f.svc.Job.GetPublic(ctx, id)
		assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
	}

	reopened, err := f.svc.Job.SetActive(ctx, closed.ID, true)
	require.NoError(t, err)
	assert.True(t, reopened.IsActive)
	_, err = f.svc.Job.GetPublic(ctx, closed.ID)
	assert.NoError(t, err)
}
