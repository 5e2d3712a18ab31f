package http

import "github.com/akarihousing/news-backend/internal/news"

// Request is the body of every script call.
type Request struct {
	Action    string              `json:"action"`
	AccessKey string              `json:"accessKey"`
	News      []news.Announcement `json:"news"`
}

// VerifyResponse answers verifyKey.
type VerifyResponse struct {
	Valid bool `json:"valid"`
}

// NewsResponse answers fetchNews and saveNews.
type NewsResponse struct {
	News []news.Announcement `json:"news"`
}

// Response is the union of every answer a client may receive.
// Error is set on failure.
type Response struct {
	Valid  *bool               `json:"valid,omitempty"`
	News   []news.Announcement `json:"news,omitempty"`
	Error  string              `json:"error,omitempty"`
	Errors map[string]string   `json:"errors,omitempty"`
}
