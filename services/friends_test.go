package services

import (
	"context"
	"testing"

	"meetly/db"
	"meetly/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchByEmailNotFound(t *testing.T) {
	setupTestDB(t)
	a := createTestAccount(t, "a@x.com")
	fs := NewFriendshipService()

	_, err := fs.SearchByEmail(context.Background(), sessionFor(a), "b@x.com")
	require.Error(t, err)
	assert.Equal(t, "No user found with that email.", err.Error())

	var count int64
	require.NoError(t, db.ORM.Model(&models.Friendship{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestSearchByEmailCaseInsensitive(t *testing.T) {
	setupTestDB(t)
	a := createTestAccount(t, "a@x.com")
	b := createTestAccount(t, "b@x.com")
	fs := NewFriendshipService()

	found, err := fs.SearchByEmail(context.Background(), sessionFor(a), "  B@X.Com ")
	require.NoError(t, err)
	assert.Equal(t, b.UID, found.UID)
}

func TestSearchByEmailSelfBlocked(t *testing.T) {
	setupTestDB(t)
	a := createTestAccount(t, "a@x.com")
	fs := NewFriendshipService()

	_, err := fs.SearchByEmail(context.Background(), sessionFor(a), "A@x.com")
	assert.ErrorIs(t, err, ErrSelfRequest)
}

func TestSendRequestCreatesPending(t *testing.T) {
	setupTestDB(t)
	a := createTestAccount(t, "a@x.com")
	b := createTestAccount(t, "b@x.com")
	fs := NewFriendshipService()

	friendship, err := fs.SendRequest(context.Background(), sessionFor(a), b.UID)
	require.NoError(t, err)
	assert.Equal(t, models.FriendshipPending, friendship.Status)
	assert.Equal(t, a.UID, friendship.SenderID)
	assert.Equal(t, "a@x.com", friendship.SenderEmail)
	assert.Equal(t, b.UID, friendship.ReceiverID)
}

func TestSendRequestDuplicatePendingRejected(t *testing.T) {
	setupTestDB(t)
	a := createTestAccount(t, "a@x.com")
	b := createTestAccount(t, "b@x.com")
	fs := NewFriendshipService()

	_, err := fs.SendRequest(context.Background(), sessionFor(a), b.UID)
	require.NoError(t, err)

	_, err = fs.SendRequest(context.Background(), sessionFor(a), b.UID)
	require.Error(t, err)
	assert.Equal(t, "Friend request already sent", err.Error())

	var count int64
	require.NoError(t, db.ORM.Model(&models.Friendship{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestSendRequestResolvesReceiverEmailFromAccount(t *testing.T) {
	setupTestDB(t)
	a := createTestAccount(t, "a@x.com")
	b := createTestAccount(t, "b@x.com")
	fs := NewFriendshipService()

	friendship, err := fs.SendRequest(context.Background(), sessionFor(a), b.UID)
	require.NoError(t, err)
	assert.Equal(t, "b@x.com", friendship.ReceiverEmail)

	var stored models.Friendship
	require.NoError(t, db.ORM.First(&stored, "id = ?", friendship.ID).Error)
	assert.Equal(t, "b@x.com", stored.ReceiverEmail)
}

func TestSendRequestUnknownReceiver(t *testing.T) {
	setupTestDB(t)
	a := createTestAccount(t, "a@x.com")
	fs := NewFriendshipService()

	_, err := fs.SendRequest(context.Background(), sessionFor(a), "no-such-uid")
	assert.ErrorIs(t, err, ErrNoUserFound)

	var count int64
	require.NoError(t, db.ORM.Model(&models.Friendship{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestSendRequestToSelfBlocked(t *testing.T) {
	setupTestDB(t)
	a := createTestAccount(t, "a@x.com")
	fs := NewFriendshipService()

	_, err := fs.SendRequest(context.Background(), sessionFor(a), a.UID)
	assert.ErrorIs(t, err, ErrSelfRequest)
}

func TestAcceptTransitionsExactlyOnce(t *testing.T) {
	setupTestDB(t)
	a := createTestAccount(t, "a@x.com")
	b := createTestAccount(t, "b@x.com")
	fs := NewFriendshipService()

	friendship, err := fs.SendRequest(context.Background(), sessionFor(a), b.UID)
	require.NoError(t, err)

	require.NoError(t, fs.Accept(context.Background(), sessionFor(b), friendship.ID))

	var stored models.Friendship
	require.NoError(t, db.ORM.First(&stored, "id = ?", friendship.ID).Error)
	assert.Equal(t, models.FriendshipAccepted, stored.Status)

	// Already transitioned: neither accept nor reject may run again.
	assert.ErrorIs(t, fs.Accept(context.Background(), sessionFor(b), friendship.ID), ErrRequestNotPending)
	assert.ErrorIs(t, fs.Reject(context.Background(), sessionFor(b), friendship.ID), ErrRequestNotPending)
}

func TestRejectTransition(t *testing.T) {
	setupTestDB(t)
	a := createTestAccount(t, "a@x.com")
	b := createTestAccount(t, "b@x.com")
	fs := NewFriendshipService()

	friendship, err := fs.SendRequest(context.Background(), sessionFor(a), b.UID)
	require.NoError(t, err)
	require.NoError(t, fs.Reject(context.Background(), sessionFor(b), friendship.ID))

	var stored models.Friendship
	require.NoError(t, db.ORM.First(&stored, "id = ?", friendship.ID).Error)
	assert.Equal(t, models.FriendshipRejected, stored.Status)
}

func TestAcceptOnlyByReceiver(t *testing.T) {
	setupTestDB(t)
	a := createTestAccount(t, "a@x.com")
	b := createTestAccount(t, "b@x.com")
	fs := NewFriendshipService()

	friendship, err := fs.SendRequest(context.Background(), sessionFor(a), b.UID)
	require.NoError(t, err)

	err = fs.Accept(context.Background(), sessionFor(a), friendship.ID)
	require.Error(t, err)
}

func TestAcceptedFriendIDsBothDirections(t *testing.T) {
	setupTestDB(t)
	a := createTestAccount(t, "a@x.com")
	b := createTestAccount(t, "b@x.com")
	c := createTestAccount(t, "c@x.com")
	d := createTestAccount(t, "d@x.com")
	fs := NewFriendshipService()

	// a -> b accepted, c -> a accepted, a -> d still pending.
	f1, err := fs.SendRequest(context.Background(), sessionFor(a), b.UID)
	require.NoError(t, err)
	require.NoError(t, fs.Accept(context.Background(), sessionFor(b), f1.ID))

	f2, err := fs.SendRequest(context.Background(), sessionFor(c), a.UID)
	require.NoError(t, err)
	require.NoError(t, fs.Accept(context.Background(), sessionFor(a), f2.ID))

	_, err = fs.SendRequest(context.Background(), sessionFor(a), d.UID)
	require.NoError(t, err)

	ids, err := fs.AcceptedFriendIDs(context.Background(), a.UID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{b.UID, c.UID}, ids)
}

func TestPendingFor(t *testing.T) {
	setupTestDB(t)
	a := createTestAccount(t, "a@x.com")
	b := createTestAccount(t, "b@x.com")
	fs := NewFriendshipService()

	_, err := fs.SendRequest(context.Background(), sessionFor(a), b.UID)
	require.NoError(t, err)

	inbox, err := fs.PendingFor(context.Background(), b.UID)
	require.NoError(t, err)
	require.Len(t, inbox, 1)
	assert.Equal(t, a.UID, inbox[0].SenderID)
	assert.Equal(t, "a@x.com", inbox[0].SenderEmail)

	empty, err := fs.PendingFor(context.Background(), a.UID)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
