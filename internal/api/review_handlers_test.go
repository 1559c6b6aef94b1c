package api

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curioapp/curio-server/internal/api/dto"
)

func TestCreateReview(t *testing.T) {
	ts := setupTestServer(t)
	token, profile := ts.onboardUser(t, "nora@example.com", "nora_reviews")
	tab := ts.createTab(t, token, "Horror Movies")

	resp := ts.api.Post(fmt.Sprintf("/api/v1/tabs/%s/reviews", tab.ID),
		"Authorization: "+token,
		map[string]any{
			"title":       "The Thing",
			"description": "Paranoia in the snow.",
			"author":      "John Carpenter",
			"media_type":  "VIDEO",
			"meta_fields": []map[string]any{{"label": "Year", "value": "1982"}},
			"published":   true,
		},
	)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	review := decodeData[ReviewResponse](t, resp.Body.Bytes())
	assert.Equal(t, tab.ID, review.TabID)
	assert.Equal(t, profile.ID, review.OwnerID)
	assert.Equal(t, "The Thing", review.Title)
	assert.Equal(t, 0, review.SortOrder)
	assert.NotNil(t, review.PublishedAt)
	require.Len(t, review.MetaFields, 1)
	assert.Equal(t, "Year", review.MetaFields[0].Label)
}

func TestCreateReviewInForeignTab(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.onboardUser(t, "nora@example.com", "nora_reviews")
	tab := ts.createTab(t, token, "Horror Movies")
	intruder, _ := ts.onboardUser(t, "sam@example.com", "sam_watches")

	resp := ts.api.Post(fmt.Sprintf("/api/v1/tabs/%s/reviews", tab.ID),
		"Authorization: "+intruder,
		map[string]any{"title": "Sneaky", "media_type": "TEXT"},
	)
	assert.Equal(t, http.StatusForbidden, resp.Code, resp.Body.String())
}

func TestCreateReviewUnknownMediaType(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.onboardUser(t, "nora@example.com", "nora_reviews")
	tab := ts.createTab(t, token, "Horror Movies")

	resp := ts.api.Post(fmt.Sprintf("/api/v1/tabs/%s/reviews", tab.ID),
		"Authorization: "+token,
		map[string]any{"title": "Serial", "media_type": "PODCAST"},
	)
	assert.Equal(t, http.StatusBadRequest, resp.Code, resp.Body.String())
}

func TestGetReviewDetail(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.onboardUser(t, "nora@example.com", "nora_reviews")
	tab := ts.createTab(t, token, "Horror Movies")
	review := ts.createReview(t, token, tab.ID, "The Thing", true)

	// Anonymous read of a published review.
	resp := ts.api.Get("/api/v1/reviews/" + review.ID)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	detail := decodeData[ReviewDetailResponse](t, resp.Body.Bytes())
	assert.Equal(t, review.ID, detail.Review.ID)
	assert.Empty(t, detail.Categories)
	assert.Empty(t, detail.Related)
	assert.False(t, detail.IsBookmarked)
}

func TestDraftVisibility(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.onboardUser(t, "nora@example.com", "nora_reviews")
	tab := ts.createTab(t, token, "Horror Movies")
	draft := ts.createReview(t, token, tab.ID, "Unfinished Thoughts", false)

	// Owner sees their draft.
	resp := ts.api.Get("/api/v1/reviews/"+draft.ID, "Authorization: "+token)
	assert.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	// Anonymous callers get a 404, not a 403, so drafts do not leak.
	resp = ts.api.Get("/api/v1/reviews/" + draft.ID)
	assert.Equal(t, http.StatusNotFound, resp.Code, resp.Body.String())

	// Other users too.
	visitor, _ := ts.onboardUser(t, "sam@example.com", "sam_watches")
	resp = ts.api.Get("/api/v1/reviews/"+draft.ID, "Authorization: "+visitor)
	assert.Equal(t, http.StatusNotFound, resp.Code, resp.Body.String())
}

func TestUpdateReviewPublishCycle(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.onboardUser(t, "nora@example.com", "nora_reviews")
	tab := ts.createTab(t, token, "Horror Movies")
	review := ts.createReview(t, token, tab.ID, "The Thing", true)
	firstPublish := review.PublishedAt
	require.NotNil(t, firstPublish)

	// Editing a published review keeps the original publication time.
	resp := ts.api.Put("/api/v1/reviews/"+review.ID,
		"Authorization: "+token,
		map[string]any{"title": "The Thing (1982)", "media_type": "VIDEO", "published": true},
	)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	updated := decodeData[ReviewResponse](t, resp.Body.Bytes())
	assert.Equal(t, "The Thing (1982)", updated.Title)
	require.NotNil(t, updated.PublishedAt)
	assert.True(t, firstPublish.Equal(*updated.PublishedAt))

	// Unpublishing reverts to draft.
	resp = ts.api.Put("/api/v1/reviews/"+review.ID,
		"Authorization: "+token,
		map[string]any{"title": "The Thing (1982)", "media_type": "VIDEO", "published": false},
	)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	reverted := decodeData[ReviewResponse](t, resp.Body.Bytes())
	assert.Nil(t, reverted.PublishedAt)

	// Republishing stamps a fresh time; the original is gone with the
	// unpublish.
	resp = ts.api.Put("/api/v1/reviews/"+review.ID,
		"Authorization: "+token,
		map[string]any{"title": "The Thing (1982)", "media_type": "VIDEO", "published": true},
	)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	republished := decodeData[ReviewResponse](t, resp.Body.Bytes())
	require.NotNil(t, republished.PublishedAt)
	assert.True(t, republished.PublishedAt.After(*firstPublish))
}

func TestUpdateReviewOwnership(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.onboardUser(t, "nora@example.com", "nora_reviews")
	tab := ts.createTab(t, token, "Horror Movies")
	review := ts.createReview(t, token, tab.ID, "The Thing", true)
	intruder, _ := ts.onboardUser(t, "sam@example.com", "sam_watches")

	resp := ts.api.Put("/api/v1/reviews/"+review.ID,
		"Authorization: "+intruder,
		map[string]any{"title": "Hijacked", "media_type": "VIDEO"},
	)
	assert.Equal(t, http.StatusForbidden, resp.Code, resp.Body.String())
}

func TestDeleteReview(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.onboardUser(t, "nora@example.com", "nora_reviews")
	tab := ts.createTab(t, token, "Horror Movies")
	review := ts.createReview(t, token, tab.ID, "The Thing", true)

	resp := ts.api.Delete("/api/v1/reviews/"+review.ID, "Authorization: "+token)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	resp = ts.api.Get("/api/v1/reviews/" + review.ID)
	assert.Equal(t, http.StatusNotFound, resp.Code, resp.Body.String())
}

func TestListTabReviews(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.onboardUser(t, "nora@example.com", "nora_reviews")
	tab := ts.createTab(t, token, "Horror Movies")
	ts.createReview(t, token, tab.ID, "The Thing", true)
	ts.createReview(t, token, tab.ID, "Alien", true)
	ts.createReview(t, token, tab.ID, "Unfinished Draft", false)

	resp := ts.api.Get(fmt.Sprintf("/api/v1/tabs/%s/reviews", tab.ID))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	listing := decodeData[dto.ListResponse[ReviewListEntry]](t, resp.Body.Bytes())
	require.Len(t, listing.Items, 2)
	assert.Equal(t, 2, listing.Meta.Total)
	assert.Equal(t, "The Thing", listing.Items[0].Title)
	assert.Equal(t, "Alien", listing.Items[1].Title)
}

func TestListTabReviewsHidesDraftsFromOwner(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.onboardUser(t, "nora@example.com", "nora_reviews")
	tab := ts.createTab(t, token, "Horror Movies")
	ts.createReview(t, token, tab.ID, "Unfinished Draft", false)

	// Listings are published-only even for the owner; drafts are reached
	// through the detail endpoint.
	resp := ts.api.Get(fmt.Sprintf("/api/v1/tabs/%s/reviews", tab.ID), "Authorization: "+token)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	listing := decodeData[dto.ListResponse[ReviewListEntry]](t, resp.Body.Bytes())
	assert.Empty(t, listing.Items)
	assert.Equal(t, 0, listing.Meta.Total)
}

func TestListTabReviewsSearch(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.onboardUser(t, "nora@example.com", "nora_reviews")
	tab := ts.createTab(t, token, "Horror Movies")
	ts.createReview(t, token, tab.ID, "The Thing", true)
	ts.createReview(t, token, tab.ID, "Alien", true)

	resp := ts.api.Get(fmt.Sprintf("/api/v1/tabs/%s/reviews?search=alien", tab.ID))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	listing := decodeData[dto.ListResponse[ReviewListEntry]](t, resp.Body.Bytes())
	require.Len(t, listing.Items, 1)
	assert.Equal(t, "Alien", listing.Items[0].Title)
}

func TestListTabReviewsAggregation(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.onboardUser(t, "nora@example.com", "nora_reviews")
	tab := ts.createTab(t, token, "Horror Movies")

	catResp := ts.api.Post(fmt.Sprintf("/api/v1/tabs/%s/categories", tab.ID),
		"Authorization: "+token,
		map[string]any{"name": "Slashers"},
	)
	require.Equal(t, http.StatusOK, catResp.Code)
	category := decodeData[CategoryResponse](t, catResp.Body.Bytes())

	createResp := ts.api.Post(fmt.Sprintf("/api/v1/tabs/%s/reviews", tab.ID),
		"Authorization: "+token,
		map[string]any{
			"title":        "Halloween",
			"media_type":   "VIDEO",
			"published":    true,
			"category_ids": []string{category.ID},
		},
	)
	require.Equal(t, http.StatusOK, createResp.Code, createResp.Body.String())
	review := decodeData[ReviewResponse](t, createResp.Body.Bytes())

	reader, _ := ts.onboardUser(t, "sam@example.com", "sam_watches")
	resp := ts.api.Put(fmt.Sprintf("/api/v1/reviews/%s/bookmark", review.ID), "Authorization: "+reader)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	resp = ts.api.Get(fmt.Sprintf("/api/v1/tabs/%s/reviews", tab.ID), "Authorization: "+reader)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	listing := decodeData[dto.ListResponse[ReviewListEntry]](t, resp.Body.Bytes())
	require.Len(t, listing.Items, 1)
	entry := listing.Items[0]
	require.Len(t, entry.Categories, 1)
	assert.Equal(t, "Slashers", entry.Categories[0].Name)
	assert.True(t, entry.IsBookmarked)
}

func TestListTabReviewsPagination(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.onboardUser(t, "nora@example.com", "nora_reviews")
	tab := ts.createTab(t, token, "Horror Movies")
	for i := 0; i < 3; i++ {
		ts.createReview(t, token, tab.ID, fmt.Sprintf("Movie %d", i), true)
	}

	resp := ts.api.Get(fmt.Sprintf("/api/v1/tabs/%s/reviews?page=2&limit=2", tab.ID))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	listing := decodeData[dto.ListResponse[ReviewListEntry]](t, resp.Body.Bytes())
	assert.Len(t, listing.Items, 1)
	assert.Equal(t, 3, listing.Meta.Total)
	assert.Equal(t, 2, listing.Meta.TotalPages)

	resp = ts.api.Get(fmt.Sprintf("/api/v1/tabs/%s/reviews?limit=0", tab.ID))
	assert.Equal(t, http.StatusBadRequest, resp.Code, resp.Body.String())
}

func TestRelatedReviews(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.onboardUser(t, "nora@example.com", "nora_reviews")
	tab := ts.createTab(t, token, "Horror Movies")
	first := ts.createReview(t, token, tab.ID, "The Thing", true)
	draft := ts.createReview(t, token, tab.ID, "Unfinished Companion", false)

	resp := ts.api.Post(fmt.Sprintf("/api/v1/tabs/%s/reviews", tab.ID),
		"Authorization: "+token,
		map[string]any{
			"title":       "They Live",
			"media_type":  "VIDEO",
			"published":   true,
			"related_ids": []string{first.ID, draft.ID},
		},
	)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	review := decodeData[ReviewResponse](t, resp.Body.Bytes())

	// Draft relations are stored but filtered out of the public detail.
	detailResp := ts.api.Get("/api/v1/reviews/" + review.ID)
	require.Equal(t, http.StatusOK, detailResp.Code, detailResp.Body.String())

	detail := decodeData[ReviewDetailResponse](t, detailResp.Body.Bytes())
	require.Len(t, detail.Related, 1)
	assert.Equal(t, first.ID, detail.Related[0].ID)
}

func TestRelatedReviewsMustBeOwn(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.onboardUser(t, "nora@example.com", "nora_reviews")
	other, _ := ts.onboardUser(t, "sam@example.com", "sam_watches")
	otherTab := ts.createTab(t, other, "Sam Stuff")
	foreign := ts.createReview(t, other, otherTab.ID, "Not Yours", true)

	tab := ts.createTab(t, token, "Horror Movies")
	resp := ts.api.Post(fmt.Sprintf("/api/v1/tabs/%s/reviews", tab.ID),
		"Authorization: "+token,
		map[string]any{
			"title":       "Borrowed",
			"media_type":  "VIDEO",
			"related_ids": []string{foreign.ID},
		},
	)
	assert.Equal(t, http.StatusBadRequest, resp.Code, resp.Body.String())
}
