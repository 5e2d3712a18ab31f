package render

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/akarihousing/news-backend/internal/news"
)

func TestParagraphs_SkipsBlankLines(t *testing.T) {
	assert.Equal(t, []string{"Line one", "Line two"}, Paragraphs("Line one\n\nLine two"))
	assert.Equal(t, []string{"a", "b"}, Paragraphs("a\r\n   \r\nb\n"))
	assert.Empty(t, Paragraphs(""))
}

func TestExcerpt(t *testing.T) {
	tests := []struct {
		name string
		item news.Announcement
		want string
	}{
		{"excerpt wins", news.Announcement{Excerpt: "  summary ", Content: "body"}, "summary"},
		{"first content line", news.Announcement{Excerpt: "  ", Content: "\n\n  first  \nsecond"}, "first"},
		{"nothing", news.Announcement{Content: " \n "}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Excerpt(tt.item))
		})
	}
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "2025.10.01", FormatDate("2025-10-01"))
	assert.Equal(t, "2025.03.04", FormatDate("2025/3/4"))
	assert.Equal(t, "近日", FormatDate("近日"))
}

func TestLatest(t *testing.T) {
	items := testItems()
	assert.Len(t, Latest(items, 1), 1)
	assert.Len(t, Latest(items, 5), 2)
	assert.Empty(t, Latest(items, -1))
}
