package editor

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/akarihousing/news-backend/internal/auth"
	"github.com/akarihousing/news-backend/internal/news"
	newshttp "github.com/akarihousing/news-backend/internal/news/http"
	"github.com/akarihousing/news-backend/internal/script"
	scripthttp "github.com/akarihousing/news-backend/internal/script/http"
)

const (
	testAudience  = "client-123.apps.googleusercontent.com"
	testToken     = "good-token"
	testAccessKey = "s3cret"
)

type memoryStore struct {
	items []news.Announcement
}

func (m *memoryStore) Load(ctx context.Context) []news.Announcement {
	out := append([]news.Announcement{}, m.items...)
	news.SortByDate(out)
	return out
}

func (m *memoryStore) Save(ctx context.Context, items []news.Announcement) error {
	m.items = append([]news.Announcement{}, items...)
	return nil
}

type tokenVerifier struct{}

func (tokenVerifier) Verify(ctx context.Context, token, audience string) (auth.Claims, error) {
	if token != testToken || audience != testAudience {
		return nil, auth.ErrInvalidToken
	}
	return auth.Claims{"sub": "1"}, nil
}

func newServer(t *testing.T) (*httptest.Server, *memoryStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hash, err := auth.HashAccessKey(testAccessKey, bcrypt.MinCost)
	require.NoError(t, err)

	store := &memoryStore{}
	svc := news.NewService(store)

	r := gin.New()
	api := r.Group("/api")
	newshttp.RegisterRoutes(api, newshttp.NewHandler(svc, tokenVerifier{}, testAudience))
	scripthttp.RegisterRoutes(api, scripthttp.NewHandler(script.NewService(svc, auth.NewAccessKeyChecker(hash))))

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, store
}

func input() news.Input {
	return news.Input{Date: "2025-10-01", Title: "Open House", Excerpt: "Join us", Content: "Body"}
}

func TestEndpointBackend_RoundTrip(t *testing.T) {
	srv, store := newServer(t)
	b := NewEndpointBackend(srv.URL+"/api/news", StaticToken(testToken), srv.Client())
	ctx := context.Background()

	res, err := b.Save(ctx, "", input())
	require.NoError(t, err)
	assert.False(t, res.Updated)
	assert.Equal(t, "20251001-open-house", res.Item.ID)

	edit := input()
	edit.ID = "ignored"
	edit.Title = "Changed"
	res, err = b.Save(ctx, "20251001-open-house", edit)
	require.NoError(t, err)
	assert.True(t, res.Updated)
	assert.Equal(t, "20251001-open-house", res.Item.ID, "original id is sent")

	items, err := b.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Changed", items[0].Title)

	require.NoError(t, b.Delete(ctx, "20251001-open-house"))
	assert.Empty(t, store.items)

	err = b.Delete(ctx, "20251001-open-house")
	var remote *RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, http.StatusNotFound, remote.Status)
	assert.Equal(t, "対象のお知らせが見つかりません。", remote.Message)
}

func TestEndpointBackend_ValidationError(t *testing.T) {
	srv, _ := newServer(t)
	b := NewEndpointBackend(srv.URL+"/api/news", StaticToken(testToken), srv.Client())

	_, err := b.Save(context.Background(), "", news.Input{Date: "not a date"})

	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "入力内容を確認してください。", validation.Message)
	assert.Contains(t, validation.Fields, news.FieldDate)
	assert.Contains(t, validation.Fields, news.FieldTitle)
}

func TestEndpointBackend_AuthErrors(t *testing.T) {
	srv, _ := newServer(t)
	ctx := context.Background()

	_, err := NewEndpointBackend(srv.URL+"/api/news", StaticToken(""), srv.Client()).Save(ctx, "", input())
	assert.ErrorIs(t, err, ErrNoToken)

	_, err = NewEndpointBackend(srv.URL+"/api/news", StaticToken("forged"), srv.Client()).Save(ctx, "", input())
	assert.Equal(t, "認証トークンが無効です。", Message(err, ""))
}

func TestEndpointBackend_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>oops</html>"))
	}))
	defer srv.Close()

	_, err := NewEndpointBackend(srv.URL, StaticToken(testToken), srv.Client()).List(context.Background())
	assert.ErrorIs(t, err, ErrTransport)
	assert.Equal(t, "通信中にエラーが発生しました。", Message(err, "fallback"))
}

func TestScriptBackend_RoundTrip(t *testing.T) {
	srv, store := newServer(t)
	b := NewScriptBackend(srv.URL+"/api/script", testAccessKey, srv.Client())
	ctx := context.Background()

	ok, err := b.VerifyKey(ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	in := input()
	in.ID = "open-house"
	res, err := b.Save(ctx, "", in)
	require.NoError(t, err)
	assert.False(t, res.Updated)

	_, err = b.Save(ctx, "", in)
	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, msgDuplicateID, validation.Message)

	in.ID = "open-house-2025"
	res, err = b.Save(ctx, "open-house", in)
	require.NoError(t, err)
	assert.True(t, res.Updated)
	require.Len(t, store.items, 1)
	assert.Equal(t, "open-house-2025", store.items[0].ID)

	require.NoError(t, b.Delete(ctx, "open-house-2025"))
	items, err := b.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestScriptBackend_RequiresEveryField(t *testing.T) {
	srv, store := newServer(t)
	b := NewScriptBackend(srv.URL+"/api/script", testAccessKey, srv.Client())

	_, err := b.Save(context.Background(), "", input())
	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, msgIncomplete, validation.Message)
	assert.Empty(t, store.items)
}

func TestScriptBackend_WrongKey(t *testing.T) {
	srv, _ := newServer(t)
	b := NewScriptBackend(srv.URL+"/api/script", "nope", srv.Client())
	ctx := context.Background()

	ok, err := b.VerifyKey(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = b.List(ctx)
	assert.Equal(t, "アクセスキーが一致しません。", Message(err, ""))
}

func TestEditor_WithEndpointBackend(t *testing.T) {
	srv, _ := newServer(t)
	e := New(NewEndpointBackend(srv.URL+"/api/news", StaticToken(testToken), srv.Client()))
	ctx := context.Background()

	require.NoError(t, e.Refresh(ctx))
	assert.Empty(t, e.Items())

	e.OpenNew()
	require.Error(t, e.Submit(ctx, news.Input{Date: "2025-10-01", Title: "T"}))
	assert.NotEmpty(t, e.FieldError(news.FieldExcerpt))
	assert.NotEmpty(t, e.FieldError(news.FieldContent))

	require.NoError(t, e.Submit(ctx, input()))
	assert.Equal(t, "お知らせを登録しました。", e.Status().Message)
	require.Len(t, e.Items(), 1)
	assert.Empty(t, e.FieldError(news.FieldExcerpt))
}
