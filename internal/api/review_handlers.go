package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/curioapp/curio-server/internal/api/dto"
	"github.com/curioapp/curio-server/internal/domain"
	"github.com/curioapp/curio-server/internal/service"
)

func (s *Server) registerReviewRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "createReview",
		Method:      http.MethodPost,
		Path:        "/api/v1/tabs/{id}/reviews",
		Summary:     "Create review",
		Description: "Creates a review at the end of a tab's curated order",
		Tags:        []string{"Reviews"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateReview)

	huma.Register(s.api, huma.Operation{
		OperationID: "listTabReviews",
		Method:      http.MethodGet,
		Path:        "/api/v1/tabs/{id}/reviews",
		Summary:     "List tab reviews",
		Description: "Returns a page of a tab's published reviews with their categories and bookmark state",
		Tags:        []string{"Reviews"},
	}, s.handleListTabReviews)

	huma.Register(s.api, huma.Operation{
		OperationID: "getReview",
		Method:      http.MethodGet,
		Path:        "/api/v1/reviews/{id}",
		Summary:     "Get review",
		Description: "Returns a review with its categories and related reviews. Drafts are only visible to their owner",
		Tags:        []string{"Reviews"},
	}, s.handleGetReview)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateReview",
		Method:      http.MethodPut,
		Path:        "/api/v1/reviews/{id}",
		Summary:     "Update review",
		Description: "Replaces a review's content. Editing a published review keeps its publication time; republishing after an unpublish stamps a new one",
		Tags:        []string{"Reviews"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateReview)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteReview",
		Method:      http.MethodDelete,
		Path:        "/api/v1/reviews/{id}",
		Summary:     "Delete review",
		Description: "Deletes a review and its bookmarks",
		Tags:        []string{"Reviews"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteReview)
}

// === DTOs ===

// MetaFieldBody is a single label/value pair on a review.
type MetaFieldBody struct {
	Label string `json:"label" validate:"required,max=100" doc:"Field label"`
	Value string `json:"value" validate:"required,max=500" doc:"Field value"`
}

// ReviewRequest is the request body shared by review create and update.
type ReviewRequest struct {
	Title       string          `json:"title" validate:"required,min=1,max=200" doc:"Review title"`
	Description string          `json:"description,omitempty" validate:"omitempty,max=20000" doc:"Review body, markdown"`
	Author      string          `json:"author,omitempty" validate:"omitempty,max=200" doc:"Creator of the reviewed media"`
	MediaType   string          `json:"media_type" validate:"required" doc:"Media type (VIDEO, SPOTIFY, IMAGE, TEXT, EXTERNAL_LINK)"`
	MediaURL    string          `json:"media_url,omitempty" validate:"omitempty,url,max=2048" doc:"Link to the media"`
	MediaConfig map[string]any  `json:"media_config,omitempty" doc:"Media type specific settings"`
	MetaFields  []MetaFieldBody `json:"meta_fields,omitempty" validate:"omitempty,max=20,dive" doc:"Extra label/value pairs"`
	CategoryIDs []string        `json:"category_ids,omitempty" validate:"omitempty,max=20,dive,required" doc:"Categories in the review's tab"`
	RelatedIDs  []string        `json:"related_ids,omitempty" validate:"omitempty,max=20,dive,required" doc:"IDs of the caller's own related reviews"`
	Published   *bool           `json:"published,omitempty" doc:"True publishes, false reverts to draft, absent leaves state alone"`
}

// CreateReviewInput wraps the create review request for Huma.
type CreateReviewInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Tab ID"`
	Body          ReviewRequest
}

// UpdateReviewInput wraps the update review request for Huma.
type UpdateReviewInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Review ID"`
	Body          ReviewRequest
}

// ReviewIDInput contains parameters for a review lookup.
type ReviewIDInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Review ID"`
}

// ListTabReviewsInput contains parameters for listing a tab's reviews.
type ListTabReviewsInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Tab ID"`
	Search        string `query:"search" doc:"Substring match against review titles" example:"horror"`
	CategoryID    string `query:"category_id" doc:"Restrict to one category"`
	dto.PageQuery
}

// ReviewResponse contains review data in API responses.
type ReviewResponse struct {
	ID          string            `json:"id" doc:"Review ID"`
	TabID       string            `json:"tab_id" doc:"Owning tab ID"`
	OwnerID     string            `json:"owner_id" doc:"Owning user ID"`
	Title       string            `json:"title" doc:"Review title"`
	Description string            `json:"description,omitempty" doc:"Review body, markdown"`
	Author      string            `json:"author,omitempty" doc:"Creator of the reviewed media"`
	MediaType   string            `json:"media_type" doc:"Media type"`
	MediaURL    string            `json:"media_url,omitempty" doc:"Link to the media"`
	MediaConfig map[string]any    `json:"media_config,omitempty" doc:"Media type specific settings"`
	SortOrder   int               `json:"sort_order" doc:"Position in the tab's curated order"`
	PublishedAt *time.Time        `json:"published_at,omitempty" doc:"Publication time, absent for drafts"`
	MetaFields  []MetaFieldBody   `json:"meta_fields,omitempty" doc:"Extra label/value pairs"`
	CategoryIDs []string          `json:"category_ids,omitempty" doc:"Category IDs"`
	RelatedIDs  []string          `json:"related_ids,omitempty" doc:"Related review IDs in curated order"`
	CreatedAt   time.Time         `json:"created_at" doc:"Creation time"`
	UpdatedAt   time.Time         `json:"updated_at" doc:"Last update time"`
}

// ReviewOutput wraps a review response for Huma.
type ReviewOutput struct {
	Body ReviewResponse
}

// ReviewDetailResponse contains a review together with its categories,
// related reviews, and the caller's bookmark state.
type ReviewDetailResponse struct {
	Review       ReviewResponse     `json:"review" doc:"The review"`
	Categories   []CategoryResponse `json:"categories" doc:"Categories assigned to the review"`
	Related      []ReviewResponse   `json:"related" doc:"Published related reviews in curated order"`
	IsBookmarked bool               `json:"is_bookmarked" doc:"Whether the caller bookmarked the review"`
}

// ReviewDetailOutput wraps the review detail for Huma.
type ReviewDetailOutput struct {
	Body ReviewDetailResponse
}

// ReviewListEntry is one review in a tab listing, joined with its
// categories and the caller's bookmark state.
type ReviewListEntry struct {
	ReviewResponse
	Categories   []CategoryResponse `json:"categories" doc:"Categories assigned to the review"`
	IsBookmarked bool               `json:"is_bookmarked" doc:"Whether the caller bookmarked the review"`
}

// ReviewListOutput wraps a review listing page for Huma.
type ReviewListOutput struct {
	Body dto.ListResponse[ReviewListEntry]
}

// === Handlers ===

func (s *Server) handleCreateReview(ctx context.Context, input *CreateReviewInput) (*ReviewOutput, error) {
	user, err := s.RequireUser(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.validate.Validate(input.Body); err != nil {
		return nil, err
	}

	review, err := s.services.Review.CreateReview(ctx, user.ID, input.ID, mapReviewInput(input.Body))
	if err != nil {
		return nil, err
	}
	return &ReviewOutput{Body: mapReviewResponse(review)}, nil
}

func (s *Server) handleListTabReviews(ctx context.Context, input *ListTabReviewsInput) (*ReviewListOutput, error) {
	callerID, err := s.OptionalUserID(ctx)
	if err != nil {
		return nil, err
	}
	page, err := input.PageQuery.Resolve()
	if err != nil {
		return nil, err
	}

	listing, err := s.services.Review.ListReviewsForTab(ctx, callerID, input.ID, input.Search, input.CategoryID, page)
	if err != nil {
		return nil, err
	}

	items := make([]ReviewListEntry, len(listing.Reviews))
	for i, review := range listing.Reviews {
		items[i] = ReviewListEntry{
			ReviewResponse: mapReviewResponse(review),
			Categories:     mapCategoryResponses(listing.Categories[review.ID]),
			IsBookmarked:   listing.Bookmarked[review.ID],
		}
	}
	return &ReviewListOutput{Body: dto.ListResponse[ReviewListEntry]{
		Items: items,
		Meta:  dto.NewListMeta(page, listing.Total),
	}}, nil
}

func (s *Server) handleGetReview(ctx context.Context, input *ReviewIDInput) (*ReviewDetailOutput, error) {
	callerID, err := s.OptionalUserID(ctx)
	if err != nil {
		return nil, err
	}

	detail, err := s.services.Review.GetReviewDetail(ctx, callerID, input.ID)
	if err != nil {
		return nil, err
	}

	related := make([]ReviewResponse, len(detail.Related))
	for i, r := range detail.Related {
		related[i] = mapReviewResponse(r)
	}
	return &ReviewDetailOutput{Body: ReviewDetailResponse{
		Review:       mapReviewResponse(detail.Review),
		Categories:   mapCategoryResponses(detail.Categories),
		Related:      related,
		IsBookmarked: detail.IsBookmarked,
	}}, nil
}

func (s *Server) handleUpdateReview(ctx context.Context, input *UpdateReviewInput) (*ReviewOutput, error) {
	user, err := s.RequireUser(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.validate.Validate(input.Body); err != nil {
		return nil, err
	}

	review, err := s.services.Review.UpdateReview(ctx, user.ID, input.ID, mapReviewInput(input.Body))
	if err != nil {
		return nil, err
	}
	return &ReviewOutput{Body: mapReviewResponse(review)}, nil
}

func (s *Server) handleDeleteReview(ctx context.Context, input *ReviewIDInput) (*dto.MessageOutput, error) {
	user, err := s.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Review.DeleteReview(ctx, user.ID, input.ID); err != nil {
		return nil, err
	}
	return &dto.MessageOutput{Body: dto.MessageResponse{Message: "Review deleted"}}, nil
}

func mapReviewInput(body ReviewRequest) service.ReviewInput {
	in := service.ReviewInput{
		Title:       body.Title,
		Description: body.Description,
		Author:      body.Author,
		MediaType:   domain.MediaType(body.MediaType),
		MediaURL:    body.MediaURL,
		MediaConfig: body.MediaConfig,
		CategoryIDs: body.CategoryIDs,
		RelatedIDs:  body.RelatedIDs,
		Published:   body.Published,
	}
	for _, f := range body.MetaFields {
		in.MetaFields = append(in.MetaFields, domain.MetaField{Label: f.Label, Value: f.Value})
	}
	return in
}

func mapReviewResponse(review *domain.Review) ReviewResponse {
	resp := ReviewResponse{
		ID:          review.ID,
		TabID:       review.TabID,
		OwnerID:     review.OwnerID,
		Title:       review.Title,
		Description: review.Description,
		Author:      review.Author,
		MediaType:   string(review.MediaType),
		MediaURL:    review.MediaURL,
		MediaConfig: review.MediaConfig,
		SortOrder:   review.SortOrder,
		PublishedAt: review.PublishedAt,
		CategoryIDs: review.CategoryIDs,
		RelatedIDs:  review.RelatedIDs,
		CreatedAt:   review.CreatedAt,
		UpdatedAt:   review.UpdatedAt,
	}
	for _, f := range review.MetaFields {
		resp.MetaFields = append(resp.MetaFields, MetaFieldBody{Label: f.Label, Value: f.Value})
	}
	return resp
}

func mapCategoryResponses(categories []*domain.Category) []CategoryResponse {
	out := make([]CategoryResponse, len(categories))
	for i, c := range categories {
		out[i] = mapCategoryResponse(c)
	}
	return out
}
