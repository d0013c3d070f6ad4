package domain

// Category is a top-level grouping for titles (films, books, music).
// Slugs are unique and serve as the public identifier in the API.
type Category struct {
	Record
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Genre is a tag-like classification applied to titles.
type Genre struct {
	Record
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Title is a reviewable work. A title belongs to at most one category and
// any number of genres.
type Title struct {
	Record
	Name        string  `json:"name"`
	Year        int     `json:"year"`
	Description *string `json:"description,omitempty"`

	// CategoryID is empty when the category was deleted out from under the title.
	CategoryID string `json:"category_id,omitempty"`

	// GenreIDs holds the associated genre IDs in insertion order.
	GenreIDs []string `json:"genre_ids,omitempty"`
}
