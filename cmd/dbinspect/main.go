// Package main provides a read-only inspection tool for the ReviewDB database.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/reviewdbapp/reviewdb-server/internal/store"
	"github.com/reviewdbapp/reviewdb-server/internal/store/sqlite"
)

func main() {
	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			log.Fatalf("Failed to resolve home directory: %v", err)
		}
		dbPath = filepath.Join(home, "ReviewDB", "metadata", "reviewdb.db")
	}

	st, err := sqlite.Open(dbPath, slog.New(slog.DiscardHandler))
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer st.Close()

	ctx := context.Background()
	page := store.DefaultPage()

	fmt.Println("=== Database Inspection ===")
	fmt.Println()

	users, err := st.ListUsers(ctx, "", page)
	if err != nil {
		log.Fatalf("Failed to list users: %v", err)
	}
	fmt.Printf("Users: %d\n", users.Total)
	for _, u := range users.Items {
		active := "inactive"
		if u.IsActive {
			active = "active"
		}
		fmt.Printf("  %s (%s, %s)\n", u.Username, u.Role, active)
	}
	fmt.Println()

	categories, err := st.ListCategories(ctx, "", page)
	if err != nil {
		log.Fatalf("Failed to list categories: %v", err)
	}
	genres, err := st.ListGenres(ctx, "", page)
	if err != nil {
		log.Fatalf("Failed to list genres: %v", err)
	}
	fmt.Printf("Categories: %d, Genres: %d\n", categories.Total, genres.Total)
	fmt.Println()

	titles, err := st.ListTitles(ctx, store.TitleFilter{}, page)
	if err != nil {
		log.Fatalf("Failed to list titles: %v", err)
	}
	fmt.Printf("Titles: %d (newest first)\n", titles.Total)
	for _, t := range titles.Items {
		rating := "unrated"
		if t.Rating != nil {
			rating = fmt.Sprintf("%.1f", *t.Rating)
		}

		reviews, err := st.ListReviewsByTitle(ctx, t.Title.ID, page)
		if err != nil {
			log.Fatalf("Failed to list reviews for %s: %v", t.Title.ID, err)
		}

		fmt.Printf("  %s (%d) rating=%s reviews=%d\n", t.Title.Name, t.Title.Year, rating, reviews.Total)
	}
}
