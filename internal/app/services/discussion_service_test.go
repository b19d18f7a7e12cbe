package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ypropel/backend/internal/app/models/dto"
	"github.com/ypropel/backend/internal/app/repositories"
	"github.com/ypropel/backend/internal/pkg/apperrors"
)

func TestDiscussionCommentCarriesAuthor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.member(t, "owner")
	reader := f.member(t, "reader")

	topic, err := f.svc.Discussion.Create(ctx, owner.UserID, &dto.CreateTopicRequest{Title: " Internships ", Content: "Where to apply?"})
	require.NoError(t, err)
	assert.Equal(t, "Internships", topic.Title)
	assert.Equal(t, "owner", topic.Author.Name)

	comment, err := f.svc.Discussion.AddComment(ctx, reader.UserID, topic.ID, "  Try the job fairs ")
	require.NoError(t, err)
	assert.Equal(t, "Try the job fairs", comment.Content)
	require.NotNil(t, comment.Author)
	assert.Equal(t, "reader", comment.Author.Name)

	_, err = f.svc.Discussion.AddComment(ctx, reader.UserID, topic.ID+100, "lost")
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)

	got, err := f.svc.Discussion.Get(ctx, topic.ID, reader.UserID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.CommentCount)
}

func TestDiscussionTogglesAreIndependent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.member(t, "owner")
	fan := f.member(t, "fan")

	topic, err := f.svc.Discussion.Create(ctx, owner.UserID, &dto.CreateTopicRequest{Title: "Visas", Content: "OPT timelines"})
	require.NoError(t, err)

	for _, want := range []bool{true, false, true} {
		on, err := f.svc.Discussion.ToggleUpvote(ctx, fan.UserID, topic.ID)
		require.NoError(t, err)
		assert.Equal(t, want, on)
	}
	liked, err := f.svc.Discussion.ToggleLike(ctx, fan.UserID, topic.ID)
	require.NoError(t, err)
	assert.True(t, liked)

	got, err := f.svc.Discussion.Get(ctx, topic.ID, fan.UserID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.UpvoteCount)
	assert.Equal(t, 1, got.LikeCount)
	assert.Equal(t, 0, got.FollowCount)
	assert.True(t, got.Upvoted)
	assert.False(t, got.Followed)

	_, err = f.svc.Discussion.ToggleFollow(ctx, fan.UserID, topic.ID+100)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestDiscussionOwnerOnlyEvenForAdmins(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.member(t, "owner")
	admin := f.member(t, "admin")
	admin.IsAdmin = true

	topic, err := f.svc.Discussion.Create(ctx, owner.UserID, &dto.CreateTopicRequest{Title: "Housing", Content: "Dorms or not"})
	require.NoError(t, err)

	_, err = f.svc.Discussion.Update(ctx, admin, topic.ID, map[string]any{"title": "Moderated"})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	assert.ErrorIs(t, f.svc.Discussion.Delete(ctx, admin, topic.ID), apperrors.ErrPermissionDenied)

	updated, err := f.svc.Discussion.Update(ctx, owner, topic.ID, map[string]any{"title": "Housing near campus", "user_id": admin.UserID})
	require.NoError(t, err)
	assert.Equal(t, "Housing near campus", updated.Title)
	assert.Equal(t, owner.UserID, updated.UserID)

	_, err = f.svc.Discussion.AddComment(ctx, admin.UserID, topic.ID, "noted")
	require.NoError(t, err)
	_, err = f.svc.Discussion.ToggleFollow(ctx, admin.UserID, topic.ID)
	require.NoError(t, err)

	require.NoError(t, f.svc.Discussion.Delete(ctx, owner, topic.ID))
	_, err = f.svc.Discussion.ListComments(ctx, topic.ID)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
	following, err := f.store.Repositories().ToggleRepository.Count(ctx, repositories.TableDiscussionFollows, topic.ID)
	require.NoError(t, err)
	assert.Zero(t, following)
}
