package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ypropel/backend/internal/app/models/dto"
	"github.com/ypropel/backend/internal/pkg/apperrors"
)

func TestPostLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.member(t, "owner")
	other := f.member(t, "other")

	post, err := f.svc.Post.Create(ctx, owner.UserID, &dto.CreatePostRequest{Content: " hello "}, PostMedia{})
	require.NoError(t, err)
	assert.Equal(t, "hello", post.Content)
	assert.Equal(t, "owner", post.Author.Name)

	liked, err := f.svc.Post.ToggleLike(ctx, other.UserID, post.ID)
	require.NoError(t, err)
	assert.True(t, liked)

	got, err := f.svc.Post.Get(ctx, post.ID, other.UserID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.LikeCount)
	assert.True(t, got.Liked)

	liked, err = f.svc.Post.ToggleLike(ctx, other.UserID, post.ID)
	require.NoError(t, err)
	assert.False(t, liked)

	_, err = f.svc.Post.Update(ctx, other, post.ID, map[string]any{"content": "hijack"})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	_, err = f.svc.Post.Update(ctx, owner, post.ID, map[string]any{"user_id": 99})
	assert.ErrorIs(t, err, apperrors.ErrNoFieldsToUpdate)

	updated, err := f.svc.Post.Update(ctx, owner, post.ID, map[string]any{"content": "edited"})
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Content)

	assert.ErrorIs(t, f.svc.Post.Delete(ctx, other, post.ID), apperrors.ErrPermissionDenied)
	require.NoError(t, f.svc.Post.Delete(ctx, owner, post.ID))

	_, err = f.svc.Post.Get(ctx, post.ID, owner.UserID)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestPostShareOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.member(t, "owner")
	fan := f.member(t, "fan")

	post, err := f.svc.Post.Create(ctx, owner.UserID, &dto.CreatePostRequest{Content: "share me"}, PostMedia{})
	require.NoError(t, err)

	count, err := f.svc.Post.Share(ctx, fan.UserID, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	_, err = f.svc.Post.Share(ctx, fan.UserID, post.ID)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.Equal(t, MsgAlreadyShared, apperrors.PublicMessage(err, ""))

	_, err = f.svc.Post.Share(ctx, fan.UserID, 9999)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestCommentOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.member(t, "owner")
	commenter := f.member(t, "commenter")

	post, err := f.svc.Post.Create(ctx, owner.UserID, &dto.CreatePostRequest{Content: "post"}, PostMedia{})
	require.NoError(t, err)

	comment, err := f.svc.Post.AddComment(ctx, commenter.UserID, post.ID, "nice")
	require.NoError(t, err)

	// the post owner cannot moderate someone else's comment
	_, err = f.svc.Post.UpdateComment(ctx, owner, comment.ID, "changed")
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	edited, err := f.svc.Post.UpdateComment(ctx, commenter, comment.ID, "nicer")
	require.NoError(t, err)
	assert.Equal(t, "nicer", edited.Content)

	require.NoError(t, f.svc.Post.DeleteComment(ctx, commenter, comment.ID))
	comments, err := f.svc.Post.ListComments(ctx, post.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)
}
