package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/curioapp/curio-server/internal/errors"
	"github.com/curioapp/curio-server/internal/store"
)

func setupBookmarkService(t *testing.T) (*BookmarkService, store.Store) {
	t.Helper()
	st := newTestStore(t)
	return NewBookmarkService(st, testLogger()), st
}

func TestBookmarkReview(t *testing.T) {
	svc, st := setupBookmarkService(t)
	ctx := context.Background()

	owner := seedUser(t, st, "user-1", "alice")
	reader := seedUser(t, st, "user-2", "bob")
	tab := seedTab(t, st, "tab-1", owner.ID, "Movies", 0)
	review := seedReview(t, st, "rev-1", tab.ID, "Dune", true)

	require.NoError(t, svc.BookmarkReview(ctx, reader.ID, review.ID))

	// Idempotent.
	require.NoError(t, svc.BookmarkReview(ctx, reader.ID, review.ID))

	page, err := store.NewPage(1, 10)
	require.NoError(t, err)
	entries, total, err := svc.ListReviewBookmarks(ctx, reader.ID, page)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, entries, 1)
	assert.Equal(t, review.ID, entries[0].Review.ID)
}

func TestBookmarkReviewRejectsDrafts(t *testing.T) {
	svc, st := setupBookmarkService(t)
	ctx := context.Background()

	owner := seedUser(t, st, "user-1", "alice")
	tab := seedTab(t, st, "tab-1", owner.ID, "Movies", 0)
	draft := seedReview(t, st, "rev-1", tab.ID, "Dune", false)

	// Not even the draft's owner can bookmark it.
	err := svc.BookmarkReview(ctx, owner.ID, draft.ID)
	require.Error(t, err)
	assert.True(t, store.IsNotFound(err))
}

func TestBookmarkReviewUnknownReview(t *testing.T) {
	svc, st := setupBookmarkService(t)

	reader := seedUser(t, st, "user-1", "bob")

	err := svc.BookmarkReview(context.Background(), reader.ID, "rev-missing")
	assert.True(t, store.IsNotFound(err))
}

func TestUnbookmarkReviewIdempotent(t *testing.T) {
	svc, st := setupBookmarkService(t)
	ctx := context.Background()

	owner := seedUser(t, st, "user-1", "alice")
	reader := seedUser(t, st, "user-2", "bob")
	tab := seedTab(t, st, "tab-1", owner.ID, "Movies", 0)
	review := seedReview(t, st, "rev-1", tab.ID, "Dune", true)

	require.NoError(t, svc.BookmarkReview(ctx, reader.ID, review.ID))
	require.NoError(t, svc.UnbookmarkReview(ctx, reader.ID, review.ID))

	// Removing an absent bookmark is a no-op.
	require.NoError(t, svc.UnbookmarkReview(ctx, reader.ID, review.ID))

	page, err := store.NewPage(1, 10)
	require.NoError(t, err)
	_, total, err := svc.ListReviewBookmarks(ctx, reader.ID, page)
	require.NoError(t, err)
	assert.Equal(t, 0, total)
}

func TestListReviewBookmarksHidesRevokedDrafts(t *testing.T) {
	svc, st := setupBookmarkService(t)
	ctx := context.Background()

	owner := seedUser(t, st, "user-1", "alice")
	reader := seedUser(t, st, "user-2", "bob")
	tab := seedTab(t, st, "tab-1", owner.ID, "Movies", 0)
	review := seedReview(t, st, "rev-1", tab.ID, "Dune", true)

	require.NoError(t, svc.BookmarkReview(ctx, reader.ID, review.ID))

	// The owner pulls the review back to draft after it was bookmarked.
	review.PublishedAt = nil
	require.NoError(t, st.UpdateReview(ctx, review))

	page, err := store.NewPage(1, 10)
	require.NoError(t, err)
	entries, total, err := svc.ListReviewBookmarks(ctx, reader.ID, page)
	require.NoError(t, err)
	assert.Equal(t, 0, total)
	assert.Empty(t, entries)
}

func TestBookmarkUser(t *testing.T) {
	svc, st := setupBookmarkService(t)
	ctx := context.Background()

	caller := seedUser(t, st, "user-1", "alice")
	target := seedUser(t, st, "user-2", "bob")

	require.NoError(t, svc.BookmarkUser(ctx, caller.ID, target.ID))
	require.NoError(t, svc.BookmarkUser(ctx, caller.ID, target.ID))

	page, err := store.NewPage(1, 10)
	require.NoError(t, err)
	entries, total, err := svc.ListUserBookmarks(ctx, caller.ID, page)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, entries, 1)
	assert.Equal(t, target.ID, entries[0].User.ID)
}

func TestBookmarkUserRejectsSelf(t *testing.T) {
	svc, st := setupBookmarkService(t)

	caller := seedUser(t, st, "user-1", "alice")

	err := svc.BookmarkUser(context.Background(), caller.ID, caller.ID)
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))
}

func TestBookmarkUserUnknownTarget(t *testing.T) {
	svc, st := setupBookmarkService(t)

	caller := seedUser(t, st, "user-1", "alice")

	err := svc.BookmarkUser(context.Background(), caller.ID, "user-missing")
	assert.True(t, store.IsNotFound(err))
}

func TestUnbookmarkUserIdempotent(t *testing.T) {
	svc, st := setupBookmarkService(t)
	ctx := context.Background()

	caller := seedUser(t, st, "user-1", "alice")
	target := seedUser(t, st, "user-2", "bob")

	require.NoError(t, svc.BookmarkUser(ctx, caller.ID, target.ID))
	require.NoError(t, svc.UnbookmarkUser(ctx, caller.ID, target.ID))
	require.NoError(t, svc.UnbookmarkUser(ctx, caller.ID, target.ID))

	page, err := store.NewPage(1, 10)
	require.NoError(t, err)
	_, total, err := svc.ListUserBookmarks(ctx, caller.ID, page)
	require.NoError(t, err)
	assert.Equal(t, 0, total)
}
