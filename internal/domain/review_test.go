package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReview_Excerpt(t *testing.T) {
	short := &Review{Text: "loved it"}
	assert.Equal(t, "loved it", short.Excerpt())

	long := &Review{Text: strings.Repeat("a", 50)}
	got := long.Excerpt()
	assert.Equal(t, strings.Repeat("a", 30)+"…", got)
}

func TestComment_Excerpt(t *testing.T) {
	c := &Comment{Text: "надо смотреть в оригинале — дубляж теряет половину шуток"}
	got := c.Excerpt()
	assert.True(t, strings.HasSuffix(got, "…"), "long multibyte text should be truncated on rune boundaries")
	assert.Equal(t, 30, len([]rune(strings.TrimSuffix(got, "…"))))
}
