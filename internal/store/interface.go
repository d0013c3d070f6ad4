package store

import (
	"context"

	"github.com/reviewdbapp/reviewdb-server/internal/domain"
)

// Store is the persistence contract the services depend on.
// The SQLite implementation lives in the sqlite subpackage.
type Store interface {
	// Users
	CreateUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	ListUsers(ctx context.Context, search string, page Page) (*PagedResult[*domain.User], error)
	UpdateUser(ctx context.Context, user *domain.User) error
	DeleteUser(ctx context.Context, id string) error

	// Categories
	CreateCategory(ctx context.Context, category *domain.Category) error
	GetCategory(ctx context.Context, id string) (*domain.Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*domain.Category, error)
	ListCategories(ctx context.Context, search string, page Page) (*PagedResult[*domain.Category], error)
	DeleteCategoryBySlug(ctx context.Context, slug string) error

	// Genres
	CreateGenre(ctx context.Context, genre *domain.Genre) error
	GetGenre(ctx context.Context, id string) (*domain.Genre, error)
	GetGenreBySlug(ctx context.Context, slug string) (*domain.Genre, error)
	GetGenresBySlugs(ctx context.Context, slugs []string) ([]*domain.Genre, error)
	ListGenres(ctx context.Context, search string, page Page) (*PagedResult[*domain.Genre], error)
	DeleteGenreBySlug(ctx context.Context, slug string) error

	// Titles
	CreateTitle(ctx context.Context, title *domain.Title) error
	GetTitle(ctx context.Context, id string) (*RatedTitle, error)
	ListTitles(ctx context.Context, filter TitleFilter, page Page) (*PagedResult[*RatedTitle], error)
	UpdateTitle(ctx context.Context, title *domain.Title) error
	DeleteTitle(ctx context.Context, id string) error

	// Reviews
	CreateReview(ctx context.Context, review *domain.Review) error
	GetReview(ctx context.Context, id string) (*domain.Review, error)
	GetReviewByTitleAndAuthor(ctx context.Context, titleID, authorID string) (*domain.Review, error)
	ListReviewsByTitle(ctx context.Context, titleID string, page Page) (*PagedResult[*domain.Review], error)
	UpdateReview(ctx context.Context, review *domain.Review) error
	DeleteReview(ctx context.Context, id string) error

	// Comments
	CreateComment(ctx context.Context, comment *domain.Comment) error
	GetComment(ctx context.Context, id string) (*domain.Comment, error)
	ListCommentsByReview(ctx context.Context, reviewID string, page Page) (*PagedResult[*domain.Comment], error)
	UpdateComment(ctx context.Context, comment *domain.Comment) error
	DeleteComment(ctx context.Context, id string) error

	Ping(ctx context.Context) error
	Close() error
}
