package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ypropel/backend/internal/app/models/dto"
	"github.com/ypropel/backend/internal/pkg/apperrors"
)

func TestFreelanceAdminsMayModerate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.member(t, "owner")
	other := f.member(t, "other")
	admin := f.member(t, "admin")
	admin.IsAdmin = true

	listing, err := f.svc.Freelance.Create(ctx, owner.UserID, &dto.CreateFreelanceRequest{Title: "Logo design", Description: "Vector logos"})
	require.NoError(t, err)
	assert.Equal(t, []string{}, listing.Gallery)

	_, err = f.svc.Freelance.Update(ctx, other, listing.ID, map[string]any{"title": "Mine now"})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	assert.ErrorIs(t, f.svc.Freelance.Delete(ctx, other, listing.ID), apperrors.ErrPermissionDenied)

	updated, err := f.svc.Freelance.Update(ctx, admin, listing.ID, map[string]any{
		"title":   "Logo design (reviewed)",
		"gallery": []any{"https://cdn.example.com/a.png"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Logo design (reviewed)", updated.Title)
	assert.Equal(t, []string{"https://cdn.example.com/a.png"}, updated.Gallery)

	mine, err := f.svc.Freelance.Mine(ctx, owner.UserID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	require.NoError(t, f.svc.Freelance.Delete(ctx, admin, listing.ID))
	_, err = f.svc.Freelance.Get(ctx, listing.ID)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}
