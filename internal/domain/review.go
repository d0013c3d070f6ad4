package domain

const (
	// ScoreMin and ScoreMax bound the review score scale.
	ScoreMin = 0
	ScoreMax = 10
)

// Review is a user's opinion of a title with a numeric score.
// Each user may review a given title at most once.
type Review struct {
	Record
	TitleID  string `json:"title_id"`
	AuthorID string `json:"author_id"`
	Text     string `json:"text"`
	Score    int    `json:"score"`
}

// Excerpt returns a shortened form of the review text for logs and lists.
func (r *Review) Excerpt() string {
	return excerpt(r.Text)
}

// Comment is a reply attached to a review.
type Comment struct {
	Record
	ReviewID string `json:"review_id"`
	AuthorID string `json:"author_id"`
	Text     string `json:"text"`
}

// Excerpt returns a shortened form of the comment text for logs and lists.
func (c *Comment) Excerpt() string {
	return excerpt(c.Text)
}

const excerptLength = 30

func excerpt(text string) string {
	runes := []rune(text)
	if len(runes) <= excerptLength {
		return text
	}
	return string(runes[:excerptLength]) + "…"
}
