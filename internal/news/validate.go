package news

import (
	"sort"
	"strings"
	"time"
)

// Field names a validated announcement field.
type Field string

const (
	FieldDate    Field = "date"
	FieldTitle   Field = "title"
	FieldExcerpt Field = "excerpt"
	FieldContent Field = "content"
)

// Fields lists every validated field in form order.
var Fields = []Field{FieldDate, FieldTitle, FieldExcerpt, FieldContent}

const (
	msgTitleRequired   = "タイトルを入力してください。"
	msgDateRequired    = "日付を入力してください。"
	msgDateInvalid     = "日付の形式が正しくありません (例: 2025-10-01)。"
	msgExcerptRequired = "概要を入力してください。"
	msgContentRequired = "本文を入力してください。"
)

// dateLayouts are the accepted input formats, tried in order.
var dateLayouts = []string{"2006-01-02", "2006/1/2"}

// DateLayout is the normalized storage format.
const DateLayout = "2006-01-02"

// FieldErrors maps a field to its user-facing message. An empty map means valid.
type FieldErrors map[Field]string

func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, string(f))
	}
	sort.Strings(fields)
	return "invalid fields: " + strings.Join(fields, ", ")
}

// Strings converts the errors to a plain string map for JSON responses.
func (e FieldErrors) Strings() map[string]string {
	out := make(map[string]string, len(e))
	for f, msg := range e {
		out[string(f)] = msg
	}
	return out
}

// ParseDate parses a date in any accepted input format.
func ParseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Validate trims every field and checks that the record is complete.
// The normalized record is returned even when errors is non-empty so
// callers can echo corrected values back. The ID is trimmed but not sanitized.
func Validate(in Input) (FieldErrors, Announcement) {
	errs := FieldErrors{}
	out := Announcement{
		ID:      strings.TrimSpace(in.ID),
		Date:    strings.TrimSpace(in.Date),
		Title:   strings.TrimSpace(in.Title),
		Excerpt: strings.TrimSpace(in.Excerpt),
		Content: strings.TrimSpace(in.Content),
	}

	if out.Title == "" {
		errs[FieldTitle] = msgTitleRequired
	}

	if out.Date == "" {
		errs[FieldDate] = msgDateRequired
	} else if t, ok := ParseDate(out.Date); ok {
		out.Date = t.Format(DateLayout)
	} else {
		errs[FieldDate] = msgDateInvalid
	}

	if out.Excerpt == "" {
		errs[FieldExcerpt] = msgExcerptRequired
	}
	if out.Content == "" {
		errs[FieldContent] = msgContentRequired
	}

	return errs, out
}
