package api

import "github.com/reviewdbapp/reviewdb-server/internal/store"

// ListResponse is the common page-numbered collection envelope.
type ListResponse[T any] struct {
	Count   int `json:"count" doc:"Total number of matching records"`
	Results []T `json:"results" doc:"Records on this page"`
}

func newListResponse[T any](result *store.PagedResult[T]) ListResponse[T] {
	items := result.Items
	if items == nil {
		items = []T{}
	}
	return ListResponse[T]{Count: result.Total, Results: items}
}

// MessageResponse is a plain acknowledgement body.
type MessageResponse struct {
	Message string `json:"message" doc:"Human-readable status message"`
}

// MessageOutput wraps MessageResponse for huma.
type MessageOutput struct {
	Body MessageResponse
}

// newPage builds pagination parameters from query values, with defaults
// applied for anything missing or out of range.
func newPage(number, size int) store.Page {
	page := store.Page{Number: number, Size: size}
	page.Validate()
	return page
}
