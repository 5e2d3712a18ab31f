// Package editor is the admin side of the news subsystem: a Backend
// abstraction over the two write protocols and the Editor state object
// driven by the newsctl command.
package editor

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

// DefaultTimeout bounds one backend round trip.
const DefaultTimeout = 10 * time.Second

const maxResponseBytes = 4 << 20

// Backend lists and mutates the announcement collection on behalf of an editor.
type Backend interface {
	List(ctx context.Context) ([]news.Announcement, error)
	// Save creates in, or updates the record originally stored as originalID.
	Save(ctx context.Context, originalID string, in news.Input) (news.SaveResult, error)
	Delete(ctx context.Context, id string) error
}

// ErrTransport is returned when the backend cannot be reached or answers garbage.
var ErrTransport = errors.New("通信中にエラーが発生しました。")

// ValidationError reports a record the backend refused, with messages per field.
type ValidationError struct {
	Message string
	Fields  map[news.Field]string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// RemoteError is a failure reported by the backend itself.
type RemoteError struct {
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	return e.Message
}

// Message returns the user-facing text for err, or fallback when err carries none.
func Message(err error, fallback string) string {
	var (
		validation *ValidationError
		remote     *RemoteError
	)
	switch {
	case errors.As(err, &validation):
		return validation.Message
	case errors.As(err, &remote) && remote.Message != "":
		return remote.Message
	case errors.Is(err, ErrTransport):
		return ErrTransport.Error()
	default:
		return fallback
	}
}

func newHTTPClient(client *http.Client) *http.Client {
	if client == nil {
		return &http.Client{Timeout: DefaultTimeout}
	}
	return client
}

// doJSON sends body as JSON and decodes the reply into out whatever the status.
// It returns the status code; a reply that is not JSON is ErrTransport.
func doJSON(ctx context.Context, client *http.Client, method, url string, body, out any) (int, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(out); err != nil {
		return resp.StatusCode, fmt.Errorf("%w: status %d: %v", ErrTransport, resp.StatusCode, err)
	}
	return resp.StatusCode, nil
}

func fieldMap(in map[string]string) map[news.Field]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[news.Field]string, len(in))
	for k, v := range in {
		out[news.Field(k)] = v
	}
	return out
}
