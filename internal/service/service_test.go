package service

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/curioapp/curio-server/internal/domain"
	"github.com/curioapp/curio-server/internal/store"
	"github.com/curioapp/curio-server/internal/store/sqlite"
)

func newTestStore(t *testing.T) store.Store {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	st, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	return st
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func seedUser(t *testing.T, st store.Store, id, name string) *domain.User {
	t.Helper()
	now := time.Now()
	user := &domain.User{
		ID:          id,
		ExternalID:  "ext-" + id,
		Username:    name,
		AvatarColor: "#aabbcc",
		Role:        domain.RoleUser,
		Aesthetic:   "classic",
		Palette:     "light",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, st.CreateUser(context.Background(), user))
	return user
}

func seedTab(t *testing.T, st store.Store, id, ownerID, name string, sortOrder int) *domain.Tab {
	t.Helper()
	now := time.Now()
	tab := &domain.Tab{
		ID:        id,
		OwnerID:   ownerID,
		Name:      name,
		Slug:      "slug-" + id,
		SortOrder: sortOrder,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, st.CreateTab(context.Background(), tab))
	return tab
}

func seedReview(t *testing.T, st store.Store, id, tabID, title string, published bool) *domain.Review {
	t.Helper()
	now := time.Now()
	review := &domain.Review{
		ID:        id,
		TabID:     tabID,
		Title:     title,
		MediaType: domain.MediaTypeText,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if published {
		review.PublishedAt = &now
	}
	require.NoError(t, st.CreateReview(context.Background(), review))
	return review
}
