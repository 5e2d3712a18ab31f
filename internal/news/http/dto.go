package http

import "github.com/akarihousing/news-backend/internal/news"

// PayloadBody is the announcement submitted by the editor form.
type PayloadBody struct {
	ID      string `json:"id"`
	Date    string `json:"date"`
	Title   string `json:"title"`
	Excerpt string `json:"excerpt"`
	Content string `json:"content"`
}

func (p PayloadBody) toInput() news.Input {
	return news.Input{
		ID:      p.ID,
		Date:    p.Date,
		Title:   p.Title,
		Excerpt: p.Excerpt,
		Content: p.Content,
	}
}

// WriteBody is the JSON body shared by POST and DELETE.
// POST uses Payload, DELETE uses ID.
type WriteBody struct {
	IDToken string       `json:"idToken"`
	Payload *PayloadBody `json:"payload,omitempty"`
	ID      string       `json:"id,omitempty"`
}

type SaveResponse struct {
	Item    news.Announcement `json:"item"`
	Updated bool              `json:"updated"`
}

type DeleteResponse struct {
	Deleted bool `json:"deleted"`
}
