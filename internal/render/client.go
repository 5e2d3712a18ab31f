package render

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/akarihousing/news-backend/internal/news"
)

// ErrFetch is returned when the collection cannot be fetched or decoded.
var ErrFetch = errors.New(MsgFetchFailed)

// Client fetches the announcement collection once per page load.
// There is no retry; a failure is reported to the caller as ErrFetch.
type Client struct {
	url  string
	http *http.Client
}

// NewClient creates a client for the collection at url.
func NewClient(url string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{url: url, http: httpClient}
}

// Fetch loads the collection, accepting either a bare array or an
// {"items": [...]} envelope, and returns it newest first.
func (c *Client) Fetch(ctx context.Context) ([]news.Announcement, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-store")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrFetch, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}

	items, err := decodeCollection(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	news.SortByDate(items)
	return items, nil
}

func decodeCollection(body []byte) ([]news.Announcement, error) {
	body = bytes.TrimSpace(body)
	if len(body) > 0 && body[0] == '[' {
		var items []news.Announcement
		if err := json.Unmarshal(body, &items); err != nil {
			return nil, err
		}
		return items, nil
	}

	var envelope struct {
		Items []news.Announcement `json:"items"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, err
	}
	if envelope.Items == nil {
		return nil, errors.New("response has no items")
	}
	return envelope.Items, nil
}
