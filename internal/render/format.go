package render

import (
	"regexp"
	"strings"

	"github.com/akarihousing/news-backend/internal/news"
)

var lineBreak = regexp.MustCompile(`\r?\n`)

// Excerpt returns the trimmed excerpt, or the first non-blank content line
// when the excerpt is blank.
func Excerpt(a news.Announcement) string {
	if e := strings.TrimSpace(a.Excerpt); e != "" {
		return e
	}
	for _, line := range lineBreak.Split(a.Content, -1) {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}

// Paragraphs splits content on line breaks and drops blank lines.
func Paragraphs(content string) []string {
	var out []string
	for _, line := range lineBreak.Split(content, -1) {
		if strings.TrimSpace(line) == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}

// FormatDate renders a stored date as YYYY.MM.DD, or returns it unchanged
// when it cannot be parsed.
func FormatDate(date string) string {
	t, ok := news.ParseDate(date)
	if !ok {
		return date
	}
	return t.Format("2006.01.02")
}

// Latest returns at most n items from the front of items.
func Latest(items []news.Announcement, n int) []news.Announcement {
	if n < 0 {
		n = 0
	}
	if len(items) > n {
		return items[:n]
	}
	return items
}
