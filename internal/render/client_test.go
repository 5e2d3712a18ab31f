package render

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Fetch(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bare array", `[{"id":"a","date":"2025-01-01"},{"id":"b","date":"2025-06-01"}]`},
		{"envelope", `{"items":[{"id":"a","date":"2025-01-01"},{"id":"b","date":"2025-06-01"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "no-store", r.Header.Get("Cache-Control"))
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			items, err := NewClient(srv.URL, nil).Fetch(context.Background())
			require.NoError(t, err)
			require.Len(t, items, 2)
			assert.Equal(t, "b", items[0].ID)
		})
	}
}

func TestClient_FetchFailures(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		switch r.URL.Path {
		case "/down":
			w.WriteHeader(http.StatusServiceUnavailable)
		case "/garbage":
			w.Write([]byte("<html>"))
		default:
			w.Write([]byte(`{"error":"nope"}`))
		}
	}))
	defer srv.Close()

	for _, path := range []string{"/down", "/garbage", "/object"} {
		_, err := NewClient(srv.URL+path, nil).Fetch(context.Background())
		assert.ErrorIs(t, err, ErrFetch, path)
	}
	assert.Equal(t, int32(3), calls.Load(), "no retries")

	_, err := NewClient("http://127.0.0.1:0/unreachable", nil).Fetch(context.Background())
	assert.ErrorIs(t, err, ErrFetch)
}
