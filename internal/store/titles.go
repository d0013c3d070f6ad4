package store

import "github.com/reviewdbapp/reviewdb-server/internal/domain"

// TitleFilter narrows title listings. Zero values mean "no filter".
type TitleFilter struct {
	// CategorySlug matches titles in the category with this slug.
	CategorySlug string
	// GenreSlug matches titles carrying the genre with this slug.
	GenreSlug string
	// Name matches titles whose name contains this substring.
	Name string
	// Year matches titles released in exactly this year.
	Year int
}

// RatedTitle pairs a title with its averaged review score.
// Rating is nil when the title has no reviews.
type RatedTitle struct {
	Title  *domain.Title
	Rating *float64
}
