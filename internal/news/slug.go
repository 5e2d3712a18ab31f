package news

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// fallbackSlug replaces titles with no ASCII-representable characters.
const fallbackSlug = "news"

var (
	whitespaceRun = regexp.MustCompile(`[\s\p{Zs}]+`)
	nonSlugChars  = regexp.MustCompile(`[^a-z0-9-]+`)
)

func transliterate(s string) string {
	t := transform.Chain(
		norm.NFKD,
		runes.Remove(runes.In(unicode.Mn)),
		runes.Remove(runes.Predicate(func(r rune) bool { return r > unicode.MaxASCII })),
	)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Slugify reduces free text to lowercase ASCII letters, digits and hyphens.
func Slugify(title string) string {
	slug := whitespaceRun.ReplaceAllString(strings.TrimSpace(title), "-")
	slug = strings.ToLower(transliterate(slug))
	slug = nonSlugChars.ReplaceAllString(slug, "")
	if slug == "" {
		return fallbackSlug
	}
	return slug
}

// DeriveID builds "{YYYYMMDD}-{slug}" from a title and date.
// An unparseable date falls back to today.
func DeriveID(title, date string) string {
	return deriveID(title, date, time.Now())
}

func deriveID(title, date string, now time.Time) string {
	t, ok := ParseDate(date)
	if !ok {
		t = now
	}
	return fmt.Sprintf("%s-%s", t.Format("20060102"), Slugify(title))
}

// Uniquify appends -2, -3, ... to candidate until it is not in existing.
func Uniquify(candidate string, existing []string) string {
	id := candidate
	for n := 2; slices.Contains(existing, id); n++ {
		id = fmt.Sprintf("%s-%d", candidate, n)
	}
	return id
}

// SanitizeID lowercases raw, collapses anything outside [a-z0-9-] to a
// hyphen and trims hyphens from both ends.
func SanitizeID(raw string) string {
	id := strings.ToLower(strings.TrimSpace(raw))
	id = nonSlugChars.ReplaceAllString(id, "-")
	return strings.Trim(id, "-")
}
