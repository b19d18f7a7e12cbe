package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ypropel/backend/internal/pkg/apperrors"
)

func TestSendMessageValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.member(t, "alice")

	_, err := f.svc.Message.Send(ctx, alice.UserID, alice.UserID, "hi me")
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)

	_, err = f.svc.Message.Send(ctx, alice.UserID, 777, "hello?")
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
	assert.Equal(t, "Receiver not found", apperrors.PublicMessage(err, ""))
}

func TestThreadAndReadState(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.member(t, "alice")
	bob := f.member(t, "bob")

	first, err := f.svc.Message.Send(ctx, alice.UserID, bob.UserID, "one")
	require.NoError(t, err)
	_, err = f.svc.Message.Send(ctx, alice.UserID, bob.UserID, "two")
	require.NoError(t, err)

	unread, err := f.svc.Message.UnreadCount(ctx, bob.UserID)
	require.NoError(t, err)
	assert.Equal(t, 2, unread)

	convs, err := f.svc.Message.Conversations(ctx, bob.UserID)
	require.NoError(t, err)
	require.Len(t, convs, 1)
	assert.Equal(t, alice.UserID, convs[0].Peer.ID)
	assert.Equal(t, "two", convs[0].LastMessage.Content)
	assert.Equal(t, 2, convs[0].UnreadCount)

	_, err = f.svc.Message.MarkRead(ctx, alice.UserID, first.ID)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	read, err := f.svc.Message.MarkRead(ctx, bob.UserID, first.ID)
	require.NoError(t, err)
	assert.NotNil(t, read.ReadAt)

	thread, err := f.svc.Message.Thread(ctx, bob.UserID, alice.UserID, true, 1, 50)
	require.NoError(t, err)
	require.Len(t, thread, 2)
	assert.Equal(t, "one", thread[0].Content)

	unread, err = f.svc.Message.UnreadCount(ctx, bob.UserID)
	require.NoError(t, err)
	assert.Zero(t, unread)
}
