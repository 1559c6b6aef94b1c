package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/curioapp/curio-server/internal/api/dto"
	"github.com/curioapp/curio-server/internal/domain"
)

func (s *Server) registerTabRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "createTab",
		Method:      http.MethodPost,
		Path:        "/api/v1/tabs",
		Summary:     "Create tab",
		Description: "Creates a new tab at the end of the caller's tab list",
		Tags:        []string{"Tabs"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateTab)

	huma.Register(s.api, huma.Operation{
		OperationID: "listMyTabs",
		Method:      http.MethodGet,
		Path:        "/api/v1/tabs",
		Summary:     "List own tabs",
		Description: "Returns the caller's tabs in their curated order",
		Tags:        []string{"Tabs"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListMyTabs)

	huma.Register(s.api, huma.Operation{
		OperationID: "reorderTabs",
		Method:      http.MethodPut,
		Path:        "/api/v1/tabs/order",
		Summary:     "Reorder tabs",
		Description: "Rewrites the caller's tab order",
		Tags:        []string{"Tabs"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleReorderTabs)

	huma.Register(s.api, huma.Operation{
		OperationID: "getTab",
		Method:      http.MethodGet,
		Path:        "/api/v1/tabs/{id}",
		Summary:     "Get tab",
		Description: "Returns a tab by ID",
		Tags:        []string{"Tabs"},
	}, s.handleGetTab)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateTab",
		Method:      http.MethodPatch,
		Path:        "/api/v1/tabs/{id}",
		Summary:     "Update tab",
		Description: "Renames a tab or changes its description",
		Tags:        []string{"Tabs"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateTab)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteTab",
		Method:      http.MethodDelete,
		Path:        "/api/v1/tabs/{id}",
		Summary:     "Delete tab",
		Description: "Deletes a tab and everything under it",
		Tags:        []string{"Tabs"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteTab)

	huma.Register(s.api, huma.Operation{
		OperationID: "listUserTabs",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/{username}/tabs",
		Summary:     "List user tabs",
		Description: "Returns a user's tabs in their curated order",
		Tags:        []string{"Tabs"},
	}, s.handleListUserTabs)

	huma.Register(s.api, huma.Operation{
		OperationID: "createCategory",
		Method:      http.MethodPost,
		Path:        "/api/v1/tabs/{id}/categories",
		Summary:     "Create category",
		Description: "Creates a category in a tab",
		Tags:        []string{"Categories"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateCategory)

	huma.Register(s.api, huma.Operation{
		OperationID: "listCategories",
		Method:      http.MethodGet,
		Path:        "/api/v1/tabs/{id}/categories",
		Summary:     "List categories",
		Description: "Returns the tab's categories that have at least one published review",
		Tags:        []string{"Categories"},
	}, s.handleListCategories)
}

// === DTOs ===

// TabResponse contains tab data in API responses.
type TabResponse struct {
	ID          string    `json:"id" doc:"Tab ID"`
	OwnerID     string    `json:"owner_id" doc:"Owning user ID"`
	Name        string    `json:"name" doc:"Tab name"`
	Slug        string    `json:"slug" doc:"URL-safe slug"`
	Description string    `json:"description,omitempty" doc:"Tab description"`
	SortOrder   int       `json:"sort_order" doc:"Position in the owner's tab list"`
	CreatedAt   time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt   time.Time `json:"updated_at" doc:"Last update time"`
}

// TabOutput wraps a tab response for Huma.
type TabOutput struct {
	Body TabResponse
}

// TabListResponse contains an ordered list of tabs.
type TabListResponse struct {
	Tabs []TabResponse `json:"tabs" doc:"Tabs in curated order"`
}

// TabListOutput wraps the tab list for Huma.
type TabListOutput struct {
	Body TabListResponse
}

// CreateTabRequest is the request body for creating a tab.
type CreateTabRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=100" doc:"Tab name"`
	Description string `json:"description,omitempty" validate:"omitempty,max=500" doc:"Tab description"`
}

// CreateTabInput wraps the create tab request for Huma.
type CreateTabInput struct {
	Authorization string `header:"Authorization"`
	Body          CreateTabRequest
}

// UpdateTabRequest is the request body for updating a tab.
type UpdateTabRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=100" doc:"New tab name"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=500" doc:"New description"`
}

// UpdateTabInput wraps the update tab request for Huma.
type UpdateTabInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Tab ID"`
	Body          UpdateTabRequest
}

// ReorderTabsRequest is the request body for tab reordering.
type ReorderTabsRequest struct {
	TabIDs []string `json:"tab_ids" validate:"required,min=1,dive,required" doc:"Every tab ID in the desired order"`
}

// ReorderTabsInput wraps the reorder request for Huma.
type ReorderTabsInput struct {
	Authorization string `header:"Authorization"`
	Body          ReorderTabsRequest
}

// ListMyTabsInput contains parameters for listing the caller's tabs.
type ListMyTabsInput struct {
	Authorization string `header:"Authorization"`
}

// GetTabInput contains parameters for a tab lookup.
type GetTabInput struct {
	ID string `path:"id" doc:"Tab ID"`
}

// AuthedTabInput contains parameters for authenticated tab operations.
type AuthedTabInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Tab ID"`
}

// ListUserTabsInput contains parameters for listing a user's tabs.
type ListUserTabsInput struct {
	Username string `path:"username" doc:"Tab owner's username"`
}

// CategoryResponse contains category data in API responses.
type CategoryResponse struct {
	ID        string    `json:"id" doc:"Category ID"`
	TabID     string    `json:"tab_id" doc:"Owning tab ID"`
	Name      string    `json:"name" doc:"Category name"`
	Slug      string    `json:"slug" doc:"URL-safe slug"`
	CreatedAt time.Time `json:"created_at" doc:"Creation time"`
}

// CategoryOutput wraps a category response for Huma.
type CategoryOutput struct {
	Body CategoryResponse
}

// CategoryListResponse contains a tab's live categories.
type CategoryListResponse struct {
	Categories []CategoryResponse `json:"categories" doc:"Categories with published reviews"`
}

// CategoryListOutput wraps the category list for Huma.
type CategoryListOutput struct {
	Body CategoryListResponse
}

// CreateCategoryRequest is the request body for creating a category.
type CreateCategoryRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100" doc:"Category name"`
}

// CreateCategoryInput wraps the create category request for Huma.
type CreateCategoryInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Tab ID"`
	Body          CreateCategoryRequest
}

// === Handlers ===

func (s *Server) handleCreateTab(ctx context.Context, input *CreateTabInput) (*TabOutput, error) {
	user, err := s.RequireUser(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.validate.Validate(input.Body); err != nil {
		return nil, err
	}

	tab, err := s.services.Tab.CreateTab(ctx, user.ID, input.Body.Name, input.Body.Description)
	if err != nil {
		return nil, err
	}
	return &TabOutput{Body: mapTabResponse(tab)}, nil
}

func (s *Server) handleListMyTabs(ctx context.Context, _ *ListMyTabsInput) (*TabListOutput, error) {
	user, err := s.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	tabs, err := s.services.Tab.ListTabsForUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &TabListOutput{Body: mapTabListResponse(tabs)}, nil
}

func (s *Server) handleReorderTabs(ctx context.Context, input *ReorderTabsInput) (*TabListOutput, error) {
	user, err := s.RequireUser(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.validate.Validate(input.Body); err != nil {
		return nil, err
	}

	tabs, err := s.services.Tab.ReorderTabs(ctx, user.ID, input.Body.TabIDs)
	if err != nil {
		return nil, err
	}
	return &TabListOutput{Body: mapTabListResponse(tabs)}, nil
}

func (s *Server) handleGetTab(ctx context.Context, input *GetTabInput) (*TabOutput, error) {
	tab, err := s.services.Tab.GetTab(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &TabOutput{Body: mapTabResponse(tab)}, nil
}

func (s *Server) handleUpdateTab(ctx context.Context, input *UpdateTabInput) (*TabOutput, error) {
	user, err := s.RequireUser(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.validate.Validate(input.Body); err != nil {
		return nil, err
	}

	tab, err := s.services.Tab.UpdateTab(ctx, user.ID, input.ID, input.Body.Name, input.Body.Description)
	if err != nil {
		return nil, err
	}
	return &TabOutput{Body: mapTabResponse(tab)}, nil
}

func (s *Server) handleDeleteTab(ctx context.Context, input *AuthedTabInput) (*dto.MessageOutput, error) {
	user, err := s.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Tab.DeleteTab(ctx, user.ID, input.ID); err != nil {
		return nil, err
	}
	return &dto.MessageOutput{Body: dto.MessageResponse{Message: "Tab deleted"}}, nil
}

func (s *Server) handleListUserTabs(ctx context.Context, input *ListUserTabsInput) (*TabListOutput, error) {
	owner, err := s.services.User.GetByUsername(ctx, input.Username)
	if err != nil {
		return nil, err
	}

	tabs, err := s.services.Tab.ListTabsForUser(ctx, owner.ID)
	if err != nil {
		return nil, err
	}
	return &TabListOutput{Body: mapTabListResponse(tabs)}, nil
}

func (s *Server) handleCreateCategory(ctx context.Context, input *CreateCategoryInput) (*CategoryOutput, error) {
	user, err := s.RequireUser(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.validate.Validate(input.Body); err != nil {
		return nil, err
	}

	category, err := s.services.Tab.CreateCategory(ctx, user.ID, input.ID, input.Body.Name)
	if err != nil {
		return nil, err
	}
	return &CategoryOutput{Body: mapCategoryResponse(category)}, nil
}

func (s *Server) handleListCategories(ctx context.Context, input *GetTabInput) (*CategoryListOutput, error) {
	categories, err := s.services.Tab.ListCategories(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	resp := CategoryListResponse{Categories: make([]CategoryResponse, len(categories))}
	for i, c := range categories {
		resp.Categories[i] = mapCategoryResponse(c)
	}
	return &CategoryListOutput{Body: resp}, nil
}

func mapTabResponse(tab *domain.Tab) TabResponse {
	return TabResponse{
		ID:          tab.ID,
		OwnerID:     tab.OwnerID,
		Name:        tab.Name,
		Slug:        tab.Slug,
		Description: tab.Description,
		SortOrder:   tab.SortOrder,
		CreatedAt:   tab.CreatedAt,
		UpdatedAt:   tab.UpdatedAt,
	}
}

func mapTabListResponse(tabs []*domain.Tab) TabListResponse {
	resp := TabListResponse{Tabs: make([]TabResponse, len(tabs))}
	for i, tab := range tabs {
		resp.Tabs[i] = mapTabResponse(tab)
	}
	return resp
}

func mapCategoryResponse(category *domain.Category) CategoryResponse {
	return CategoryResponse{
		ID:        category.ID,
		TabID:     category.TabID,
		Name:      category.Name,
		Slug:      category.Slug,
		CreatedAt: category.CreatedAt,
	}
}
