package editor

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/akarihousing/news-backend/internal/news"
	newshttp "github.com/akarihousing/news-backend/internal/news/http"
	"github.com/akarihousing/news-backend/internal/pkg/response"
)

// ErrNoToken is returned when no identity token is available for a write.
var ErrNoToken = errors.New("まずはGoogleアカウントでログインしてください。")

// TokenSource supplies the identity token sent with every write.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a TokenSource returning a fixed token.
type StaticToken string

func (t StaticToken) Token(ctx context.Context) (string, error) {
	if strings.TrimSpace(string(t)) == "" {
		return "", ErrNoToken
	}
	return string(t), nil
}

// EndpointBackend drives the /api/news endpoint with an identity token.
type EndpointBackend struct {
	url    string
	tokens TokenSource
	client *http.Client
}

// NewEndpointBackend creates a backend for the endpoint at url, e.g.
// https://example.com/api/news.
func NewEndpointBackend(url string, tokens TokenSource, client *http.Client) *EndpointBackend {
	return &EndpointBackend{url: strings.TrimRight(url, "/"), tokens: tokens, client: newHTTPClient(client)}
}

func (b *EndpointBackend) List(ctx context.Context) ([]news.Announcement, error) {
	var out struct {
		response.ListResponse[news.Announcement]
		response.ErrorResponse
	}
	status, err := doJSON(ctx, b.client, http.MethodGet, b.url, nil, &out)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, remoteError(status, out.ErrorResponse.Error, "お知らせの読み込みに失敗しました。")
	}
	if out.Items == nil {
		return []news.Announcement{}, nil
	}
	return out.Items, nil
}

// Save posts in. When originalID is set it is sent as the id, since ids are immutable.
func (b *EndpointBackend) Save(ctx context.Context, originalID string, in news.Input) (news.SaveResult, error) {
	token, err := b.tokens.Token(ctx)
	if err != nil {
		return news.SaveResult{}, err
	}

	id := in.ID
	if originalID != "" {
		id = originalID
	}
	body := newshttp.WriteBody{
		IDToken: token,
		Payload: &newshttp.PayloadBody{
			ID:      id,
			Date:    in.Date,
			Title:   in.Title,
			Excerpt: in.Excerpt,
			Content: in.Content,
		},
	}

	var out struct {
		newshttp.SaveResponse
		response.ErrorResponse
	}
	status, err := doJSON(ctx, b.client, http.MethodPost, b.url, body, &out)
	if err != nil {
		return news.SaveResult{}, err
	}

	switch {
	case status == http.StatusOK:
		return news.SaveResult{Item: out.Item, Updated: out.Updated}, nil
	case len(out.Errors) > 0:
		msg := out.ErrorResponse.Error
		if msg == "" {
			msg = "入力内容を確認してください。"
		}
		return news.SaveResult{}, &ValidationError{Message: msg, Fields: fieldMap(out.Errors)}
	default:
		return news.SaveResult{}, remoteError(status, out.ErrorResponse.Error, "保存に失敗しました。")
	}
}

func (b *EndpointBackend) Delete(ctx context.Context, id string) error {
	token, err := b.tokens.Token(ctx)
	if err != nil {
		return err
	}

	var out struct {
		newshttp.DeleteResponse
		response.ErrorResponse
	}
	status, err := doJSON(ctx, b.client, http.MethodDelete, b.url, newshttp.WriteBody{IDToken: token, ID: id}, &out)
	if err != nil {
		return err
	}
	if status != http.StatusOK || !out.Deleted {
		return remoteError(status, out.ErrorResponse.Error, "削除に失敗しました。")
	}
	return nil
}

func remoteError(status int, message, fallback string) *RemoteError {
	if message == "" {
		message = fallback
	}
	return &RemoteError{Status: status, Message: message}
}
