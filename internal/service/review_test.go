package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curioapp/curio-server/internal/domain"
	domainerrors "github.com/curioapp/curio-server/internal/errors"
	"github.com/curioapp/curio-server/internal/store"
)

func setupReviewService(t *testing.T) (*ReviewService, store.Store) {
	t.Helper()
	st := newTestStore(t)
	return NewReviewService(st, testLogger()), st
}

func TestCreateReviewRequiresTabOwnership(t *testing.T) {
	svc, st := setupReviewService(t)
	ctx := context.Background()

	owner := seedUser(t, st, "user-1", "alice")
	intruder := seedUser(t, st, "user-2", "bob")
	tab := seedTab(t, st, "tab-1", owner.ID, "Movies", 0)

	in := ReviewInput{Title: "Dune", MediaType: domain.MediaTypeText}

	_, err := svc.CreateReview(ctx, intruder.ID, tab.ID, in)
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrForbidden))

	review, err := svc.CreateReview(ctx, owner.ID, tab.ID, in)
	require.NoError(t, err)
	assert.Equal(t, tab.ID, review.TabID)
	assert.Equal(t, 0, review.SortOrder)
	assert.False(t, review.IsPublished())
}

func TestCreateReviewAppendsSortOrder(t *testing.T) {
	svc, st := setupReviewService(t)
	ctx := context.Background()

	owner := seedUser(t, st, "user-1", "alice")
	tab := seedTab(t, st, "tab-1", owner.ID, "Movies", 0)

	published := true
	first, err := svc.CreateReview(ctx, owner.ID, tab.ID, ReviewInput{
		Title:     "Dune",
		MediaType: domain.MediaTypeText,
		Published: &published,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, first.SortOrder)
	assert.True(t, first.IsPublished())

	// Drafts count toward the order too.
	second, err := svc.CreateReview(ctx, owner.ID, tab.ID, ReviewInput{
		Title:     "Arrival",
		MediaType: domain.MediaTypeText,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, second.SortOrder)

	third, err := svc.CreateReview(ctx, owner.ID, tab.ID, ReviewInput{
		Title:     "Solaris",
		MediaType: domain.MediaTypeText,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, third.SortOrder)
}

func TestCreateReviewValidatesInput(t *testing.T) {
	svc, st := setupReviewService(t)
	ctx := context.Background()

	owner := seedUser(t, st, "user-1", "alice")
	tab := seedTab(t, st, "tab-1", owner.ID, "Movies", 0)

	_, err := svc.CreateReview(ctx, owner.ID, tab.ID, ReviewInput{
		MediaType: domain.MediaTypeText,
	})
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))

	_, err = svc.CreateReview(ctx, owner.ID, tab.ID, ReviewInput{
		Title:     "Dune",
		MediaType: "PODCAST",
	})
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))
}

func TestCreateReviewRejectsForeignCategory(t *testing.T) {
	svc, st := setupReviewService(t)
	ctx := context.Background()

	owner := seedUser(t, st, "user-1", "alice")
	tab := seedTab(t, st, "tab-1", owner.ID, "Movies", 0)
	otherTab := seedTab(t, st, "tab-2", owner.ID, "Books", 1)

	category := &domain.Category{ID: "cat-1", TabID: otherTab.ID, Name: "Horror", Slug: "horror"}
	require.NoError(t, st.CreateCategory(ctx, category))

	_, err := svc.CreateReview(ctx, owner.ID, tab.ID, ReviewInput{
		Title:       "Dune",
		MediaType:   domain.MediaTypeText,
		CategoryIDs: []string{category.ID},
	})
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))
}

func TestCreateReviewRejectsForeignRelated(t *testing.T) {
	svc, st := setupReviewService(t)
	ctx := context.Background()

	owner := seedUser(t, st, "user-1", "alice")
	other := seedUser(t, st, "user-2", "bob")
	tab := seedTab(t, st, "tab-1", owner.ID, "Movies", 0)
	otherTab := seedTab(t, st, "tab-2", other.ID, "Films", 0)
	foreign := seedReview(t, st, "rev-x", otherTab.ID, "Alien", true)

	_, err := svc.CreateReview(ctx, owner.ID, tab.ID, ReviewInput{
		Title:      "Dune",
		MediaType:  domain.MediaTypeText,
		RelatedIDs: []string{foreign.ID},
	})
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))

	_, err = svc.CreateReview(ctx, owner.ID, tab.ID, ReviewInput{
		Title:      "Dune",
		MediaType:  domain.MediaTypeText,
		RelatedIDs: []string{"rev-missing"},
	})
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))
}

func TestUpdateReviewRejectsSelfRelation(t *testing.T) {
	svc, st := setupReviewService(t)
	ctx := context.Background()

	owner := seedUser(t, st, "user-1", "alice")
	tab := seedTab(t, st, "tab-1", owner.ID, "Movies", 0)
	review := seedReview(t, st, "rev-1", tab.ID, "Dune", true)

	_, err := svc.UpdateReview(ctx, owner.ID, review.ID, ReviewInput{
		Title:      "Dune",
		MediaType:  domain.MediaTypeText,
		RelatedIDs: []string{review.ID},
	})
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))
}

func TestUpdateReviewPublishAndUnpublish(t *testing.T) {
	svc, st := setupReviewService(t)
	ctx := context.Background()

	owner := seedUser(t, st, "user-1", "alice")
	tab := seedTab(t, st, "tab-1", owner.ID, "Movies", 0)
	review := seedReview(t, st, "rev-1", tab.ID, "Dune", false)

	published := true
	updated, err := svc.UpdateReview(ctx, owner.ID, review.ID, ReviewInput{
		Title:     "Dune",
		MediaType: domain.MediaTypeText,
		Published: &published,
	})
	require.NoError(t, err)
	require.True(t, updated.IsPublished())
	firstPublish := *updated.PublishedAt

	// Publishing again keeps the original timestamp.
	updated, err = svc.UpdateReview(ctx, owner.ID, review.ID, ReviewInput{
		Title:     "Dune",
		MediaType: domain.MediaTypeText,
		Published: &published,
	})
	require.NoError(t, err)
	require.True(t, updated.IsPublished())
	assert.True(t, firstPublish.Equal(*updated.PublishedAt))

	unpublished := false
	updated, err = svc.UpdateReview(ctx, owner.ID, review.ID, ReviewInput{
		Title:     "Dune",
		MediaType: domain.MediaTypeText,
		Published: &unpublished,
	})
	require.NoError(t, err)
	assert.False(t, updated.IsPublished())
}

func TestUpdateReviewOwnership(t *testing.T) {
	svc, st := setupReviewService(t)
	ctx := context.Background()

	owner := seedUser(t, st, "user-1", "alice")
	intruder := seedUser(t, st, "user-2", "bob")
	tab := seedTab(t, st, "tab-1", owner.ID, "Movies", 0)
	publishedRev := seedReview(t, st, "rev-1", tab.ID, "Dune", true)
	draft := seedReview(t, st, "rev-2", tab.ID, "Arrival", false)

	in := ReviewInput{Title: "Renamed", MediaType: domain.MediaTypeText}

	// Published review, wrong caller: forbidden.
	_, err := svc.UpdateReview(ctx, intruder.ID, publishedRev.ID, in)
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrForbidden))

	// Draft, wrong caller: not found, the draft's existence stays hidden.
	_, err = svc.UpdateReview(ctx, intruder.ID, draft.ID, in)
	require.Error(t, err)
	assert.True(t, store.IsNotFound(err))
}

func TestDeleteReview(t *testing.T) {
	svc, st := setupReviewService(t)
	ctx := context.Background()

	owner := seedUser(t, st, "user-1", "alice")
	tab := seedTab(t, st, "tab-1", owner.ID, "Movies", 0)
	review := seedReview(t, st, "rev-1", tab.ID, "Dune", true)

	require.NoError(t, svc.DeleteReview(ctx, owner.ID, review.ID))

	err := svc.DeleteReview(ctx, owner.ID, review.ID)
	assert.True(t, store.IsNotFound(err))
}

func TestGetReviewDetailVisibility(t *testing.T) {
	svc, st := setupReviewService(t)
	ctx := context.Background()

	owner := seedUser(t, st, "user-1", "alice")
	visitor := seedUser(t, st, "user-2", "bob")
	tab := seedTab(t, st, "tab-1", owner.ID, "Movies", 0)
	draft := seedReview(t, st, "rev-1", tab.ID, "Dune", false)

	// The owner reaches their draft through the detail endpoint.
	detail, err := svc.GetReviewDetail(ctx, owner.ID, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, draft.ID, detail.Review.ID)

	// Everyone else gets NotFound, never Forbidden.
	_, err = svc.GetReviewDetail(ctx, visitor.ID, draft.ID)
	assert.True(t, store.IsNotFound(err))

	_, err = svc.GetReviewDetail(ctx, "", draft.ID)
	assert.True(t, store.IsNotFound(err))
}

func TestGetReviewDetailFiltersDraftRelated(t *testing.T) {
	svc, st := setupReviewService(t)
	ctx := context.Background()

	owner := seedUser(t, st, "user-1", "alice")
	visitor := seedUser(t, st, "user-2", "bob")
	tab := seedTab(t, st, "tab-1", owner.ID, "Movies", 0)

	publishedRelated := seedReview(t, st, "rev-a", tab.ID, "Alien", true)
	seedReview(t, st, "rev-b", tab.ID, "Aliens", false)

	main := seedReview(t, st, "rev-1", tab.ID, "Dune", true)
	main.RelatedIDs = []string{"rev-a", "rev-b"}
	require.NoError(t, st.UpdateReview(ctx, main))

	detail, err := svc.GetReviewDetail(ctx, visitor.ID, main.ID)
	require.NoError(t, err)
	require.Len(t, detail.Related, 1)
	assert.Equal(t, publishedRelated.ID, detail.Related[0].ID)
}

func TestGetReviewDetailBookmarkState(t *testing.T) {
	svc, st := setupReviewService(t)
	ctx := context.Background()

	owner := seedUser(t, st, "user-1", "alice")
	reader := seedUser(t, st, "user-2", "bob")
	tab := seedTab(t, st, "tab-1", owner.ID, "Movies", 0)
	review := seedReview(t, st, "rev-1", tab.ID, "Dune", true)

	require.NoError(t, st.UpsertReviewBookmark(ctx, reader.ID, review.ID))

	detail, err := svc.GetReviewDetail(ctx, reader.ID, review.ID)
	require.NoError(t, err)
	assert.True(t, detail.IsBookmarked)

	detail, err = svc.GetReviewDetail(ctx, "", review.ID)
	require.NoError(t, err)
	assert.False(t, detail.IsBookmarked)
}

func TestListReviewsForTabPublishedOnly(t *testing.T) {
	svc, st := setupReviewService(t)
	ctx := context.Background()

	owner := seedUser(t, st, "user-1", "alice")
	tab := seedTab(t, st, "tab-1", owner.ID, "Movies", 0)
	seedReview(t, st, "rev-1", tab.ID, "Dune", true)
	seedReview(t, st, "rev-2", tab.ID, "Arrival", false)

	page, err := store.NewPage(1, 10)
	require.NoError(t, err)

	// Drafts stay out of the listing even for the tab's owner.
	listing, err := svc.ListReviewsForTab(ctx, owner.ID, tab.ID, "", "", page)
	require.NoError(t, err)
	assert.Equal(t, 1, listing.Total)
	require.Len(t, listing.Reviews, 1)
	assert.Equal(t, "rev-1", listing.Reviews[0].ID)

	listing, err = svc.ListReviewsForTab(ctx, "", tab.ID, "", "", page)
	require.NoError(t, err)
	assert.Equal(t, 1, listing.Total)
}

func TestListReviewsForTabAggregation(t *testing.T) {
	svc, st := setupReviewService(t)
	ctx := context.Background()

	owner := seedUser(t, st, "user-1", "alice")
	reader := seedUser(t, st, "user-2", "bob")
	tab := seedTab(t, st, "tab-1", owner.ID, "Movies", 0)

	category := &domain.Category{ID: "cat-1", TabID: tab.ID, Name: "Horror", Slug: "horror"}
	require.NoError(t, st.CreateCategory(ctx, category))

	review := seedReview(t, st, "rev-1", tab.ID, "The Thing", true)
	review.CategoryIDs = []string{category.ID}
	require.NoError(t, st.UpdateReview(ctx, review))
	seedReview(t, st, "rev-2", tab.ID, "Alien", true)

	require.NoError(t, st.UpsertReviewBookmark(ctx, reader.ID, "rev-2"))

	page, err := store.NewPage(1, 10)
	require.NoError(t, err)

	listing, err := svc.ListReviewsForTab(ctx, reader.ID, tab.ID, "", "", page)
	require.NoError(t, err)
	assert.Equal(t, 2, listing.Total)

	require.Len(t, listing.Categories["rev-1"], 1)
	assert.Equal(t, category.ID, listing.Categories["rev-1"][0].ID)
	assert.Empty(t, listing.Categories["rev-2"])

	assert.True(t, listing.Bookmarked["rev-2"])
	assert.False(t, listing.Bookmarked["rev-1"])
}

func TestListReviewsForTabUnknownTab(t *testing.T) {
	svc, _ := setupReviewService(t)

	page, err := store.NewPage(1, 10)
	require.NoError(t, err)

	_, err = svc.ListReviewsForTab(context.Background(), "", "tab-missing", "", "", page)
	assert.True(t, store.IsNotFound(err))
}
