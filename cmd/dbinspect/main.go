// Package main provides a read-only inspection tool for the Curio database.
//
// Usage:
//
//	DATABASE_PATH=~/Curio/curio.db go run ./cmd/dbinspect
package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

func main() {
	dbPath := os.Getenv("DATABASE_PATH")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			log.Fatalf("Failed to resolve home directory: %v", err)
		}
		dbPath = filepath.Join(home, "Curio", "curio.db")
	}

	db, err := sql.Open("sqlite", "file:"+dbPath+"?mode=ro")
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	fmt.Println("=== Database Inspection ===")
	fmt.Printf("Path: %s\n\n", dbPath)

	for _, table := range []string{
		"users", "tabs", "categories", "reviews",
		"review_categories", "review_meta_fields", "related_reviews",
		"review_bookmarks", "user_bookmarks",
	} {
		var count int
		if err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&count); err != nil {
			log.Fatalf("Failed to count %s: %v", table, err)
		}
		fmt.Printf("%-20s %d\n", table, count)
	}

	var published, drafts int
	if err := db.QueryRow("SELECT COUNT(*) FROM reviews WHERE published_at IS NOT NULL").Scan(&published); err != nil {
		log.Fatalf("Failed to count published reviews: %v", err)
	}
	if err := db.QueryRow("SELECT COUNT(*) FROM reviews WHERE published_at IS NULL").Scan(&drafts); err != nil {
		log.Fatalf("Failed to count drafts: %v", err)
	}
	fmt.Printf("\nReviews: %d published, %d draft\n", published, drafts)

	fmt.Println("\nUsers:")
	rows, err := db.Query(`
		SELECT u.username,
		       (SELECT COUNT(*) FROM tabs t WHERE t.owner_id = u.id),
		       (SELECT COUNT(*) FROM reviews r JOIN tabs t ON r.tab_id = t.id WHERE t.owner_id = u.id)
		FROM users u
		ORDER BY u.username`)
	if err != nil {
		log.Fatalf("Failed to list users: %v", err)
	}
	defer rows.Close()

	for rows.Next() {
		var username string
		var tabCount, reviewCount int
		if err := rows.Scan(&username, &tabCount, &reviewCount); err != nil {
			log.Fatalf("Failed to scan user row: %v", err)
		}
		fmt.Printf("  %-24s %d tabs, %d reviews\n", username, tabCount, reviewCount)
	}
	if err := rows.Err(); err != nil {
		log.Fatalf("Failed iterating users: %v", err)
	}
}
