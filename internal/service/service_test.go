package service

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/reviewdbapp/reviewdb-server/internal/auth"
	"github.com/reviewdbapp/reviewdb-server/internal/domain"
	"github.com/reviewdbapp/reviewdb-server/internal/id"
	"github.com/reviewdbapp/reviewdb-server/internal/mail"
	"github.com/reviewdbapp/reviewdb-server/internal/store"
	"github.com/reviewdbapp/reviewdb-server/internal/store/sqlite"
	"github.com/stretchr/testify/require"
)

// testEnv bundles the services under test with their backing pieces.
type testEnv struct {
	store   store.Store
	auth    *AuthService
	users   *UserService
	catalog *CatalogService
	reviews *ReviewService
	mailbox *mail.Recorder
}

// newTestEnv builds services on top of a throwaway SQLite store.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dir := t.TempDir()
	logger := slog.New(slog.DiscardHandler)

	st, err := sqlite.Open(filepath.Join(dir, "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	key, err := auth.LoadOrGenerateKey(dir)
	require.NoError(t, err)

	tokenService, err := auth.NewTokenService(key, 15*time.Minute)
	require.NoError(t, err)

	mailbox := mail.NewRecorder()

	return &testEnv{
		store:   st,
		auth:    NewAuthService(st, tokenService, mailbox, logger),
		users:   NewUserService(st, logger),
		catalog: NewCatalogService(st, logger),
		reviews: NewReviewService(st, logger),
		mailbox: mailbox,
	}
}

// createUser stores a user directly, bypassing the signup flow.
func (e *testEnv) createUser(t *testing.T, username string, role domain.Role) *domain.User {
	t.Helper()
	u := &domain.User{
		Username: username,
		Email:    username + "@example.com",
		Role:     role,
		IsActive: true,
	}
	u.ID = id.MustGenerate("user")
	u.InitTimestamps()
	require.NoError(t, e.store.CreateUser(context.Background(), u))
	return u
}

// createTitle stores a category and title for review tests.
func (e *testEnv) createTitle(t *testing.T, name string) *TitleView {
	t.Helper()
	ctx := context.Background()

	if _, err := e.store.GetCategoryBySlug(ctx, "films"); err != nil {
		_, err = e.catalog.CreateCategory(ctx, CreateCategoryRequest{Name: "Films", Slug: "films"})
		require.NoError(t, err)
	}

	title, err := e.catalog.CreateTitle(ctx, CreateTitleRequest{
		Name:         name,
		Year:         2020,
		CategorySlug: "films",
	})
	require.NoError(t, err)
	return title
}
