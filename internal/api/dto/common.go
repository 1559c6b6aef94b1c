// Package dto provides request and response types shared across the Curio
// API. These types are used by huma to generate OpenAPI documentation.
package dto

import (
	"strconv"

	domainerrors "github.com/curioapp/curio-server/internal/errors"
	"github.com/curioapp/curio-server/internal/store"
)

// PageQuery carries raw pagination query parameters. They stay strings so
// an absent parameter is distinguishable from an explicit zero: absent
// falls back to the default, explicit zero or a negative value rejects.
type PageQuery struct {
	Page  string `query:"page" doc:"Page number (1-based)"`
	Limit string `query:"limit" doc:"Items per page (max 35)"`
}

// Resolve parses and validates the pagination parameters.
func (q PageQuery) Resolve() (store.Page, error) {
	page, err := parsePageParam(q.Page, "page")
	if err != nil {
		return store.Page{}, err
	}
	limit, err := parsePageParam(q.Limit, "limit")
	if err != nil {
		return store.Page{}, err
	}
	return store.NewPage(page, limit)
}

func parsePageParam(raw, name string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domainerrors.Validationf("%s must be an integer", name)
	}
	// An explicit zero is not "absent"; it must reject, not default.
	if n == 0 {
		return 0, domainerrors.Validationf("%s must be a positive integer", name)
	}
	return n, nil
}

// ListMeta describes one page of a listing.
type ListMeta struct {
	Page       int `json:"page" doc:"Current page number"`
	Limit      int `json:"limit" doc:"Items per page"`
	Total      int `json:"total" doc:"Total count across all pages"`
	TotalPages int `json:"total_pages" doc:"Total number of pages"`
}

// NewListMeta builds the meta block for a page and total count.
func NewListMeta(page store.Page, total int) ListMeta {
	return ListMeta{
		Page:       page.Page,
		Limit:      page.Limit,
		Total:      total,
		TotalPages: page.TotalPages(total),
	}
}

// ListResponse is a generic paginated list response.
type ListResponse[T any] struct {
	Items []T      `json:"items" doc:"List of items"`
	Meta  ListMeta `json:"meta" doc:"Pagination metadata"`
}

// AuthedInput is the bare input for endpoints that only need the caller's
// bearer token, which the auth middleware consumes from the same header.
type AuthedInput struct {
	Authorization string `header:"Authorization"`
}

// IDParam is a path parameter for resource IDs.
type IDParam struct {
	ID string `path:"id" doc:"Resource identifier"`
}

// MessageResponse is a simple success message response.
type MessageResponse struct {
	Message string `json:"message" doc:"Success message"`
}

// MessageOutput wraps a message response for huma.
type MessageOutput struct {
	Body MessageResponse
}
