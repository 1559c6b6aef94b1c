// Package main provides a tool to seed the database with demo data.
//
// It provisions a handful of users with tabs, categories, and reviews so
// the frontend has something to render during development.
//
// Usage:
//
//	DATABASE_PATH=~/Curio/curio.db go run ./cmd/seed
//	go run ./cmd/seed --db ./dev.db --bookmarks
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/curioapp/curio-server/internal/domain"
	"github.com/curioapp/curio-server/internal/service"
	"github.com/curioapp/curio-server/internal/store/sqlite"
)

var (
	dbFlag        = flag.String("db", "", "Path to the SQLite database file")
	seedBookmarks = flag.Bool("bookmarks", true, "Cross-bookmark the seeded users' reviews")
)

type seedUser struct {
	username  string
	aesthetic string
	palette   string
	tabs      []seedTab
}

type seedTab struct {
	name       string
	categories []string
	reviews    []seedReview
}

type seedReview struct {
	title     string
	author    string
	mediaType domain.MediaType
	category  string
	published bool
}

var demo = []seedUser{
	{
		username: "nora_reviews", aesthetic: "zine", palette: "ink",
		tabs: []seedTab{
			{
				name:       "Horror Movies",
				categories: []string{"Slashers", "Body Horror"},
				reviews: []seedReview{
					{title: "The Thing", author: "John Carpenter", mediaType: domain.MediaTypeVideo, category: "Body Horror", published: true},
					{title: "Halloween", author: "John Carpenter", mediaType: domain.MediaTypeVideo, category: "Slashers", published: true},
					{title: "Possessor", author: "Brandon Cronenberg", mediaType: domain.MediaTypeVideo, category: "Body Horror", published: false},
				},
			},
			{
				name: "Paperbacks",
				reviews: []seedReview{
					{title: "House of Leaves", author: "Mark Z. Danielewski", mediaType: domain.MediaTypeText, published: true},
				},
			},
		},
	},
	{
		username: "sam_listens", aesthetic: "terminal", palette: "green",
		tabs: []seedTab{
			{
				name:       "Albums",
				categories: []string{"Ambient", "Jazz"},
				reviews: []seedReview{
					{title: "Selected Ambient Works 85-92", author: "Aphex Twin", mediaType: domain.MediaTypeSpotify, category: "Ambient", published: true},
					{title: "A Love Supreme", author: "John Coltrane", mediaType: domain.MediaTypeSpotify, category: "Jazz", published: true},
				},
			},
		},
	},
	{
		username: "pat_plays", aesthetic: "pastel", palette: "peach",
		tabs: []seedTab{
			{
				name: "Games",
				reviews: []seedReview{
					{title: "Outer Wilds", mediaType: domain.MediaTypeText, published: true},
					{title: "Disco Elysium", mediaType: domain.MediaTypeText, published: true},
				},
			},
		},
	},
}

func main() {
	flag.Parse()

	dbPath := *dbFlag
	if dbPath == "" {
		dbPath = os.Getenv("DATABASE_PATH")
	}
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			log.Fatalf("Failed to resolve home directory: %v", err)
		}
		dbPath = filepath.Join(home, "Curio", "curio.db")
	}

	fmt.Printf("Opening database at: %s\n", dbPath)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	st, err := sqlite.Open(dbPath, logger)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer st.Close()

	users := service.NewUserService(st, logger)
	tabs := service.NewTabService(st, logger)
	reviews := service.NewReviewService(st, logger)
	bookmarks := service.NewBookmarkService(st, logger)

	ctx := context.Background()
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	var published []string
	var userIDs []string

	for _, su := range demo {
		// Provision against a fake external identity, then claim the
		// username the way onboarding would.
		profile, err := users.ResolveExternal(ctx, "seed-"+su.username)
		if err != nil {
			log.Fatalf("Failed to provision %s: %v", su.username, err)
		}
		if profile.Username != su.username {
			if profile, err = users.Onboard(ctx, profile.ExternalID, su.username); err != nil {
				log.Fatalf("Failed to onboard %s: %v", su.username, err)
			}
		}
		if _, err = users.UpdateTheme(ctx, profile.ID, su.aesthetic, su.palette); err != nil {
			log.Fatalf("Failed to set theme for %s: %v", su.username, err)
		}
		userIDs = append(userIDs, profile.ID)
		fmt.Printf("\nSeeding user %s (%s)\n", profile.Username, profile.ID)

		for _, stab := range su.tabs {
			tab, err := tabs.CreateTab(ctx, profile.ID, stab.name, "")
			if err != nil {
				log.Fatalf("Failed to create tab %q: %v", stab.name, err)
			}

			categoryIDs := map[string]string{}
			for _, name := range stab.categories {
				category, err := tabs.CreateCategory(ctx, profile.ID, tab.ID, name)
				if err != nil {
					log.Fatalf("Failed to create category %q: %v", name, err)
				}
				categoryIDs[name] = category.ID
			}

			for _, sr := range stab.reviews {
				in := service.ReviewInput{
					Title:       sr.title,
					Author:      sr.author,
					MediaType:   sr.mediaType,
					Description: fmt.Sprintf("Seeded review of %s.", sr.title),
					Published:   &sr.published,
				}
				if sr.category != "" {
					in.CategoryIDs = []string{categoryIDs[sr.category]}
				}
				review, err := reviews.CreateReview(ctx, profile.ID, tab.ID, in)
				if err != nil {
					log.Fatalf("Failed to create review %q: %v", sr.title, err)
				}
				if sr.published {
					published = append(published, review.ID)
				}
				fmt.Printf("  %s / %s\n", tab.Name, review.Title)
			}
		}
	}

	if *seedBookmarks {
		count := 0
		for _, userID := range userIDs {
			for _, reviewID := range published {
				if rng.Intn(2) == 0 {
					continue
				}
				if err := bookmarks.BookmarkReview(ctx, userID, reviewID); err != nil {
					log.Printf("Skipping bookmark: %v", err)
					continue
				}
				count++
			}
		}
		fmt.Printf("\nCreated %d review bookmarks\n", count)
	}

	fmt.Println("\nDone.")
}
