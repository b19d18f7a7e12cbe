package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ypropel/backend/internal/app/models/dto"
	"github.com/ypropel/backend/internal/pkg/apperrors"
)

func boolPtr(b bool) *bool { return &b }

func TestCircleMembership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	creator := f.member(t, "creator")
	friend := f.member(t, "friend")
	outsider := f.member(t, "outsider")

	private, err := f.svc.Circle.Create(ctx, creator.UserID, &dto.CreateCircleRequest{
		Name:      "Algorithms",
		IsPublic:  boolPtr(false),
		MemberIDs: []int64{friend.UserID},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, private.MemberCount)

	_, err = f.svc.Circle.ToggleJoin(ctx, outsider.UserID, private.ID)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	_, err = f.svc.Circle.Get(ctx, private.ID, outsider.UserID)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	_, err = f.svc.Circle.ToggleJoin(ctx, creator.UserID, private.ID)
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)

	joined, err := f.svc.Circle.ToggleJoin(ctx, friend.UserID, private.ID)
	require.NoError(t, err)
	assert.False(t, joined)

	visible, err := f.svc.Circle.List(ctx, outsider.UserID)
	require.NoError(t, err)
	assert.Empty(t, visible)

	public, err := f.svc.Circle.Create(ctx, creator.UserID, &dto.CreateCircleRequest{Name: "Open"})
	require.NoError(t, err)
	joined, err = f.svc.Circle.ToggleJoin(ctx, outsider.UserID, public.ID)
	require.NoError(t, err)
	assert.True(t, joined)

	circle, err := f.svc.Circle.Get(ctx, public.ID, outsider.UserID)
	require.NoError(t, err)
	assert.True(t, circle.IsMember)
	assert.Len(t, circle.Members, 2)
}

func TestCircleCreateRejectsUnknownMember(t *testing.T) {
	f := newFixture(t)
	creator := f.member(t, "creator")

	_, err := f.svc.Circle.Create(context.Background(), creator.UserID, &dto.CreateCircleRequest{
		Name:      "Ghosts",
		MemberIDs: []int64{4242},
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidReference)
}

func TestCircleDeleteByCreatorOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	creator := f.member(t, "creator")
	member := f.member(t, "member")

	circle, err := f.svc.Circle.Create(ctx, creator.UserID, &dto.CreateCircleRequest{
		Name:      "Chemistry",
		MemberIDs: []int64{member.UserID},
	})
	require.NoError(t, err)

	assert.ErrorIs(t, f.svc.Circle.Delete(ctx, member, circle.ID), apperrors.ErrPermissionDenied)
	require.NoError(t, f.svc.Circle.Delete(ctx, creator, circle.ID))

	circles, err := f.svc.Circle.List(ctx, creator.UserID)
	require.NoError(t, err)
	for _, c := range circles {
		assert.NotEqual(t, circle.ID, c.ID)
	}
}

func TestCircleChat(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	creator := f.member(t, "creator")
	outsider := f.member(t, "outsider")

	circle, err := f.svc.Circle.Create(ctx, creator.UserID, &dto.CreateCircleRequest{Name: "Physics"})
	require.NoError(t, err)

	_, err = f.svc.Circle.PostMessage(ctx, outsider.UserID, circle.ID, "hi")
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	msg, err := f.svc.Circle.PostMessage(ctx, creator.UserID, circle.ID, " welcome ")
	require.NoError(t, err)
	assert.Equal(t, "welcome", msg.Content)

	require.Len(t, f.hub.frames, 1)
	assert.Equal(t, circle.ID, f.hub.frames[0].CircleID)
	assert.Equal(t, "welcome", f.hub.frames[0].Content)

	history, err := f.svc.Circle.ListMessages(ctx, creator.UserID, circle.ID, 1, 20)
	require.NoError(t, err)
	assert.Len(t, history, 1)

	_, err = f.svc.Circle.ListMessages(ctx, outsider.UserID, circle.ID, 1, 20)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}
