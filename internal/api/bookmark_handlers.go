package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/curioapp/curio-server/internal/api/dto"
)

func (s *Server) registerBookmarkRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "bookmarkReview",
		Method:      http.MethodPut,
		Path:        "/api/v1/reviews/{id}/bookmark",
		Summary:     "Bookmark review",
		Description: "Bookmarks a published review for the caller. Idempotent",
		Tags:        []string{"Bookmarks"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleBookmarkReview)

	huma.Register(s.api, huma.Operation{
		OperationID: "unbookmarkReview",
		Method:      http.MethodDelete,
		Path:        "/api/v1/reviews/{id}/bookmark",
		Summary:     "Remove review bookmark",
		Description: "Removes the caller's bookmark on a review. Idempotent",
		Tags:        []string{"Bookmarks"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUnbookmarkReview)

	huma.Register(s.api, huma.Operation{
		OperationID: "listReviewBookmarks",
		Method:      http.MethodGet,
		Path:        "/api/v1/me/bookmarks/reviews",
		Summary:     "List review bookmarks",
		Description: "Returns the caller's bookmarked reviews, most recent first",
		Tags:        []string{"Bookmarks"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListReviewBookmarks)

	huma.Register(s.api, huma.Operation{
		OperationID: "bookmarkUser",
		Method:      http.MethodPut,
		Path:        "/api/v1/users/{username}/bookmark",
		Summary:     "Bookmark user",
		Description: "Bookmarks another user for the caller. Idempotent",
		Tags:        []string{"Bookmarks"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleBookmarkUser)

	huma.Register(s.api, huma.Operation{
		OperationID: "unbookmarkUser",
		Method:      http.MethodDelete,
		Path:        "/api/v1/users/{username}/bookmark",
		Summary:     "Remove user bookmark",
		Description: "Removes the caller's bookmark on a user. Idempotent",
		Tags:        []string{"Bookmarks"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUnbookmarkUser)

	huma.Register(s.api, huma.Operation{
		OperationID: "listUserBookmarks",
		Method:      http.MethodGet,
		Path:        "/api/v1/me/bookmarks/users",
		Summary:     "List user bookmarks",
		Description: "Returns the caller's bookmarked users, most recent first",
		Tags:        []string{"Bookmarks"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListUserBookmarks)
}

// === DTOs ===

// BookmarkTargetInput contains parameters for toggling a bookmark.
type BookmarkTargetInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Target ID"`
}

// BookmarkUserInput contains parameters for toggling a user bookmark.
type BookmarkUserInput struct {
	Authorization string `header:"Authorization"`
	Username      string `path:"username" doc:"Target username"`
}

// ListBookmarksInput contains parameters for bookmark listings.
type ListBookmarksInput struct {
	Authorization string `header:"Authorization"`
	dto.PageQuery
}

// BookmarkedReviewResponse is one entry of the caller's review bookmarks.
type BookmarkedReviewResponse struct {
	Review       ReviewResponse `json:"review" doc:"The bookmarked review"`
	BookmarkedAt time.Time      `json:"bookmarked_at" doc:"When the caller bookmarked it"`
}

// BookmarkedReviewListOutput wraps a page of review bookmarks for Huma.
type BookmarkedReviewListOutput struct {
	Body dto.ListResponse[BookmarkedReviewResponse]
}

// BookmarkedUserResponse is one entry of the caller's user bookmarks.
type BookmarkedUserResponse struct {
	User         ProfileResponse `json:"user" doc:"The bookmarked user"`
	BookmarkedAt time.Time       `json:"bookmarked_at" doc:"When the caller bookmarked them"`
}

// BookmarkedUserListOutput wraps a page of user bookmarks for Huma.
type BookmarkedUserListOutput struct {
	Body dto.ListResponse[BookmarkedUserResponse]
}

// === Handlers ===

func (s *Server) handleBookmarkReview(ctx context.Context, input *BookmarkTargetInput) (*dto.MessageOutput, error) {
	user, err := s.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Bookmark.BookmarkReview(ctx, user.ID, input.ID); err != nil {
		return nil, err
	}
	return &dto.MessageOutput{Body: dto.MessageResponse{Message: "Review bookmarked"}}, nil
}

func (s *Server) handleUnbookmarkReview(ctx context.Context, input *BookmarkTargetInput) (*dto.MessageOutput, error) {
	user, err := s.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Bookmark.UnbookmarkReview(ctx, user.ID, input.ID); err != nil {
		return nil, err
	}
	return &dto.MessageOutput{Body: dto.MessageResponse{Message: "Bookmark removed"}}, nil
}

func (s *Server) handleListReviewBookmarks(ctx context.Context, input *ListBookmarksInput) (*BookmarkedReviewListOutput, error) {
	user, err := s.RequireUser(ctx)
	if err != nil {
		return nil, err
	}
	page, err := input.PageQuery.Resolve()
	if err != nil {
		return nil, err
	}

	entries, total, err := s.services.Bookmark.ListReviewBookmarks(ctx, user.ID, page)
	if err != nil {
		return nil, err
	}

	items := make([]BookmarkedReviewResponse, len(entries))
	for i, entry := range entries {
		items[i] = BookmarkedReviewResponse{
			Review:       mapReviewResponse(entry.Review),
			BookmarkedAt: entry.BookmarkedAt,
		}
	}
	return &BookmarkedReviewListOutput{Body: dto.ListResponse[BookmarkedReviewResponse]{
		Items: items,
		Meta:  dto.NewListMeta(page, total),
	}}, nil
}

func (s *Server) handleBookmarkUser(ctx context.Context, input *BookmarkUserInput) (*dto.MessageOutput, error) {
	user, err := s.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	target, err := s.services.User.GetByUsername(ctx, input.Username)
	if err != nil {
		return nil, err
	}
	if err := s.services.Bookmark.BookmarkUser(ctx, user.ID, target.ID); err != nil {
		return nil, err
	}
	return &dto.MessageOutput{Body: dto.MessageResponse{Message: "User bookmarked"}}, nil
}

func (s *Server) handleUnbookmarkUser(ctx context.Context, input *BookmarkUserInput) (*dto.MessageOutput, error) {
	user, err := s.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	target, err := s.services.User.GetByUsername(ctx, input.Username)
	if err != nil {
		return nil, err
	}
	if err := s.services.Bookmark.UnbookmarkUser(ctx, user.ID, target.ID); err != nil {
		return nil, err
	}
	return &dto.MessageOutput{Body: dto.MessageResponse{Message: "Bookmark removed"}}, nil
}

func (s *Server) handleListUserBookmarks(ctx context.Context, input *ListBookmarksInput) (*BookmarkedUserListOutput, error) {
	user, err := s.RequireUser(ctx)
	if err != nil {
		return nil, err
	}
	page, err := input.PageQuery.Resolve()
	if err != nil {
		return nil, err
	}

	entries, total, err := s.services.Bookmark.ListUserBookmarks(ctx, user.ID, page)
	if err != nil {
		return nil, err
	}

	items := make([]BookmarkedUserResponse, len(entries))
	for i, entry := range entries {
		items[i] = BookmarkedUserResponse{
			User:         mapProfileResponse(entry.User),
			BookmarkedAt: entry.BookmarkedAt,
		}
	}
	return &BookmarkedUserListOutput{Body: dto.ListResponse[BookmarkedUserResponse]{
		Items: items,
		Meta:  dto.NewListMeta(page, total),
	}}, nil
}
