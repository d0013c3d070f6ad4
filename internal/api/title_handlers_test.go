package api

import (
	"net/http"
	"testing"

	"github.com/reviewdbapp/reviewdb-server/internal/domain"
	"github.com/reviewdbapp/reviewdb-server/internal/service"
	"github.com/stretchr/testify/require"
)

func TestTitleLifecycleOverHTTP(t *testing.T) {
	ts := newTestServer(t)
	adminToken, _ := ts.createUser(t, "root", domain.RoleAdmin)

	resp := ts.api.Post("/api/v1/categories", bearer(adminToken), map[string]any{"name": "Films", "slug": "films"})
	require.Equal(t, http.StatusOK, resp.Code)
	resp = ts.api.Post("/api/v1/genres", bearer(adminToken), map[string]any{"name": "Drama", "slug": "drama"})
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Post("/api/v1/titles", bearer(adminToken), map[string]any{
		"name":     "Heavy Rain",
		"year":     1994,
		"category": "films",
		"genre":    []string{"drama"},
	})
	require.Equal(t, http.StatusOK, resp.Code, "create failed: %s", resp.Body.String())

	title := decodeBody[service.TitleView](t, resp.Body.Bytes())
	require.NotEmpty(t, title.ID)
	require.Nil(t, title.Rating)
	require.NotNil(t, title.Category)
	require.Equal(t, "films", title.Category.Slug)
	require.Len(t, title.Genres, 1)

	// Unknown slugs come back as field validation errors.
	resp = ts.api.Post("/api/v1/titles", bearer(adminToken), map[string]any{
		"name":     "Unknown Genre",
		"year":     1994,
		"category": "films",
		"genre":    []string{"missing"},
	})
	require.Equal(t, http.StatusBadRequest, resp.Code)
	require.Contains(t, resp.Body.String(), "genre")

	// Filtering by genre slug.
	resp = ts.api.Get("/api/v1/titles?genre=drama")
	require.Equal(t, http.StatusOK, resp.Code)
	list := decodeBody[ListResponse[*service.TitleView]](t, resp.Body.Bytes())
	require.Equal(t, 1, list.Count)

	resp = ts.api.Get("/api/v1/titles?genre=missing")
	require.Equal(t, http.StatusOK, resp.Code)
	list = decodeBody[ListResponse[*service.TitleView]](t, resp.Body.Bytes())
	require.Equal(t, 0, list.Count)

	// Partial update.
	resp = ts.api.Patch("/api/v1/titles/"+title.ID, bearer(adminToken), map[string]any{"name": "Heavier Rain"})
	require.Equal(t, http.StatusOK, resp.Code)
	updated := decodeBody[service.TitleView](t, resp.Body.Bytes())
	require.Equal(t, "Heavier Rain", updated.Name)
	require.Equal(t, 1994, updated.Year)

	resp = ts.api.Delete("/api/v1/titles/"+title.ID, bearer(adminToken))
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Get("/api/v1/titles/" + title.ID)
	require.Equal(t, http.StatusNotFound, resp.Code)
}

func TestTitleRatingAggregation(t *testing.T) {
	ts := newTestServer(t)

	title := ts.createTitle(t, "Heavy Rain")
	aliceToken, _ := ts.createUser(t, "alice", domain.RoleUser)
	bobToken, _ := ts.createUser(t, "bob", domain.RoleUser)

	base := "/api/v1/titles/" + title.ID + "/reviews"

	resp := ts.api.Post(base, bearer(aliceToken), map[string]any{"text": "great", "score": 10})
	require.Equal(t, http.StatusOK, resp.Code)
	resp = ts.api.Post(base, bearer(bobToken), map[string]any{"text": "fine", "score": 5})
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Get("/api/v1/titles/" + title.ID)
	require.Equal(t, http.StatusOK, resp.Code)

	got := decodeBody[service.TitleView](t, resp.Body.Bytes())
	require.NotNil(t, got.Rating)
	require.InDelta(t, 7.5, *got.Rating, 0.0001)
}

func TestCommentsOverHTTP(t *testing.T) {
	ts := newTestServer(t)

	title := ts.createTitle(t, "Heavy Rain")
	authorToken, _ := ts.createUser(t, "author", domain.RoleUser)
	commenterToken, _ := ts.createUser(t, "commenter", domain.RoleUser)

	base := "/api/v1/titles/" + title.ID + "/reviews"

	resp := ts.api.Post(base, bearer(authorToken), map[string]any{"text": "mine", "score": 7})
	require.Equal(t, http.StatusOK, resp.Code)
	review := decodeBody[service.ReviewView](t, resp.Body.Bytes())

	commentBase := base + "/" + review.ID + "/comments"

	resp = ts.api.Post(commentBase, bearer(commenterToken), map[string]any{"text": "agreed"})
	require.Equal(t, http.StatusOK, resp.Code, "comment failed: %s", resp.Body.String())
	comment := decodeBody[service.CommentView](t, resp.Body.Bytes())
	require.Equal(t, "commenter", comment.Author)

	resp = ts.api.Get(commentBase)
	require.Equal(t, http.StatusOK, resp.Code)
	list := decodeBody[ListResponse[*service.CommentView]](t, resp.Body.Bytes())
	require.Equal(t, 1, list.Count)

	// The review author may not edit someone else's comment.
	resp = ts.api.Patch(commentBase+"/"+comment.ID, bearer(authorToken), map[string]any{"text": "hijacked"})
	require.Equal(t, http.StatusForbidden, resp.Code)

	resp = ts.api.Delete(commentBase+"/"+comment.ID, bearer(commenterToken))
	require.Equal(t, http.StatusOK, resp.Code)
}

func TestListPaginationShape(t *testing.T) {
	ts := newTestServer(t)
	adminToken, _ := ts.createUser(t, "root", domain.RoleAdmin)

	for _, slug := range []string{"one", "two", "three"} {
		resp := ts.api.Post("/api/v1/genres", bearer(adminToken), map[string]any{"name": slug, "slug": slug})
		require.Equal(t, http.StatusOK, resp.Code)
	}

	resp := ts.api.Get("/api/v1/genres?page=2&page_size=2")
	require.Equal(t, http.StatusOK, resp.Code)

	list := decodeBody[ListResponse[*service.GenreView]](t, resp.Body.Bytes())
	require.Equal(t, 3, list.Count)
	require.Len(t, list.Results, 1)
}
