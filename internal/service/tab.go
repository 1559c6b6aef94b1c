package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/curioapp/curio-server/internal/domain"
	domainerrors "github.com/curioapp/curio-server/internal/errors"
	"github.com/curioapp/curio-server/internal/id"
	"github.com/curioapp/curio-server/internal/slug"
	"github.com/curioapp/curio-server/internal/store"
)

// TabService orchestrates tab and category operations with ownership
// enforcement.
type TabService struct {
	store  store.Store
	logger *slog.Logger
}

// NewTabService creates a new tab service.
func NewTabService(st store.Store, logger *slog.Logger) *TabService {
	return &TabService{
		store:  st,
		logger: logger,
	}
}

// CreateTab creates a new tab at the end of the owner's tab list.
func (s *TabService) CreateTab(ctx context.Context, ownerID, name, description string) (*domain.Tab, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if name == "" {
		return nil, domainerrors.Validation("tab name cannot be empty")
	}
	tabSlug := slug.Make(name)
	if tabSlug == "" {
		return nil, domainerrors.Validationf("tab name %q produces an empty slug", name)
	}

	existing, err := s.store.ListTabsByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list tabs: %w", err)
	}

	tabID, err := id.Generate("tab")
	if err != nil {
		return nil, fmt.Errorf("generate tab ID: %w", err)
	}

	now := time.Now()
	tab := &domain.Tab{
		ID:          tabID,
		OwnerID:     ownerID,
		Name:        name,
		Slug:        tabSlug,
		Description: description,
		SortOrder:   len(existing),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.store.CreateTab(ctx, tab); err != nil {
		if domainerrors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.Conflictf("you already have a tab named %q", name)
		}
		return nil, fmt.Errorf("create tab: %w", err)
	}

	s.logger.Info("tab created",
		"tab_id", tabID,
		"owner_id", ownerID,
		"name", name,
	)
	return tab, nil
}

// GetTab retrieves a tab by ID.
func (s *TabService) GetTab(ctx context.Context, tabID string) (*domain.Tab, error) {
	return s.store.GetTab(ctx, tabID)
}

// ListTabsForUser returns a user's tabs in their curated order.
func (s *TabService) ListTabsForUser(ctx context.Context, ownerID string) ([]*domain.Tab, error) {
	return s.store.ListTabsByOwner(ctx, ownerID)
}

// UpdateTab renames a tab or changes its description. Requires ownership.
func (s *TabService) UpdateTab(ctx context.Context, callerID, tabID string, name, description *string) (*domain.Tab, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tab, err := s.ownedTab(ctx, callerID, tabID)
	if err != nil {
		return nil, err
	}

	if name != nil {
		if *name == "" {
			return nil, domainerrors.Validation("tab name cannot be empty")
		}
		tab.Name = *name
		tab.Slug = slug.Make(*name)
		if tab.Slug == "" {
			return nil, domainerrors.Validationf("tab name %q produces an empty slug", *name)
		}
	}
	if description != nil {
		tab.Description = *description
	}
	tab.UpdatedAt = time.Now()

	if err := s.store.UpdateTab(ctx, tab); err != nil {
		if domainerrors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.Conflictf("you already have a tab named %q", tab.Name)
		}
		return nil, fmt.Errorf("update tab: %w", err)
	}

	s.logger.Info("tab updated", "tab_id", tabID, "user_id", callerID)
	return tab, nil
}

// DeleteTab deletes a tab and everything under it. Requires ownership.
func (s *TabService) DeleteTab(ctx context.Context, callerID, tabID string) error {
	if _, err := s.ownedTab(ctx, callerID, tabID); err != nil {
		return err
	}

	if err := s.store.DeleteTab(ctx, tabID); err != nil {
		return fmt.Errorf("delete tab: %w", err)
	}

	s.logger.Info("tab deleted", "tab_id", tabID, "user_id", callerID)
	return nil
}

// ReorderTabs rewrites the caller's tab order. orderedIDs must name each
// of the caller's tabs exactly once.
func (s *TabService) ReorderTabs(ctx context.Context, callerID string, orderedIDs []string) ([]*domain.Tab, error) {
	seen := make(map[string]bool, len(orderedIDs))
	for _, tabID := range orderedIDs {
		if seen[tabID] {
			return nil, domainerrors.Validationf("tab %s appears more than once", tabID)
		}
		seen[tabID] = true
	}

	if err := s.store.ReorderTabs(ctx, callerID, orderedIDs); err != nil {
		if domainerrors.Is(err, store.ErrInvalidInput) {
			return nil, domainerrors.Validation("tab order must include every tab exactly once")
		}
		return nil, fmt.Errorf("reorder tabs: %w", err)
	}

	s.logger.Info("tabs reordered", "user_id", callerID, "count", len(orderedIDs))
	return s.store.ListTabsByOwner(ctx, callerID)
}

// CreateCategory creates a category in a tab. Requires tab ownership.
func (s *TabService) CreateCategory(ctx context.Context, callerID, tabID, name string) (*domain.Category, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if name == "" {
		return nil, domainerrors.Validation("category name cannot be empty")
	}
	catSlug := slug.Make(name)
	if catSlug == "" {
		return nil, domainerrors.Validationf("category name %q produces an empty slug", name)
	}

	if _, err := s.ownedTab(ctx, callerID, tabID); err != nil {
		return nil, err
	}

	categoryID, err := id.Generate("cat")
	if err != nil {
		return nil, fmt.Errorf("generate category ID: %w", err)
	}

	category := &domain.Category{
		ID:        categoryID,
		TabID:     tabID,
		Name:      name,
		Slug:      catSlug,
		CreatedAt: time.Now(),
	}

	if err := s.store.CreateCategory(ctx, category); err != nil {
		if domainerrors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.Conflictf("this tab already has a category named %q", name)
		}
		return nil, fmt.Errorf("create category: %w", err)
	}

	s.logger.Info("category created",
		"category_id", categoryID,
		"tab_id", tabID,
		"name", name,
	)
	return category, nil
}

// ListCategories returns the tab's categories that have at least one
// published review. Anyone may call it; drafts never influence the result.
func (s *TabService) ListCategories(ctx context.Context, tabID string) ([]*domain.Category, error) {
	if _, err := s.store.GetTab(ctx, tabID); err != nil {
		return nil, err
	}
	return s.store.ListLiveCategories(ctx, tabID)
}

// ownedTab loads a tab and enforces that callerID owns it.
func (s *TabService) ownedTab(ctx context.Context, callerID, tabID string) (*domain.Tab, error) {
	tab, err := s.store.GetTab(ctx, tabID)
	if err != nil {
		return nil, err
	}
	if tab.OwnerID != callerID {
		return nil, domainerrors.Forbidden("you do not own this tab")
	}
	return tab, nil
}
