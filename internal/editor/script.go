package editor

import (
	"context"
	"net/http"
	"strings"

	"github.com/akarihousing/news-backend/internal/news"
	"github.com/akarihousing/news-backend/internal/script"
	scripthttp "github.com/akarihousing/news-backend/internal/script/http"
)

const (
	msgScriptUnreachable = "スクリプトとの通信に失敗しました。"
	msgScriptMalformed   = "ニュースデータの形式が正しくありません。"
	msgIncomplete        = "すべての項目を入力してください。"
	msgDuplicateID       = "同じ ID のお知らせが存在します。別の ID を設定してください。"
	msgNotFound          = "対象のお知らせが見つかりません。"
)

// ScriptBackend drives the shared-key script protocol. Every write fetches
// the current collection, applies the change locally and sends the whole
// collection back.
type ScriptBackend struct {
	url       string
	accessKey string
	client    *http.Client
}

func NewScriptBackend(url, accessKey string, client *http.Client) *ScriptBackend {
	return &ScriptBackend{url: url, accessKey: strings.TrimSpace(accessKey), client: newHTTPClient(client)}
}

// VerifyKey asks the script whether the access key is accepted.
func (b *ScriptBackend) VerifyKey(ctx context.Context) (bool, error) {
	out, err := b.call(ctx, script.ActionVerifyKey, nil)
	if err != nil {
		return false, err
	}
	return out.Valid != nil && *out.Valid, nil
}

func (b *ScriptBackend) List(ctx context.Context) ([]news.Announcement, error) {
	out, err := b.call(ctx, script.ActionFetchNews, nil)
	if err != nil {
		return nil, err
	}
	if out.News == nil {
		return nil, &RemoteError{Status: http.StatusOK, Message: msgScriptMalformed}
	}
	news.SortByDate(out.News)
	return out.News, nil
}

// Save requires every field including the id. A new record must not reuse
// an existing id; an edited record may keep its own.
func (b *ScriptBackend) Save(ctx context.Context, originalID string, in news.Input) (news.SaveResult, error) {
	errs, item := news.Validate(in)
	if item.ID == "" || len(errs) > 0 {
		return news.SaveResult{}, &ValidationError{Message: msgIncomplete, Fields: errs}
	}

	items, err := b.List(ctx)
	if err != nil {
		return news.SaveResult{}, err
	}

	index := -1
	for i, a := range items {
		if originalID != "" && a.ID == originalID {
			index = i
			continue
		}
		if a.ID == item.ID {
			return news.SaveResult{}, &ValidationError{Message: msgDuplicateID}
		}
	}

	if index >= 0 {
		items[index] = item
	} else {
		items = append(items, item)
	}
	if err := b.save(ctx, items); err != nil {
		return news.SaveResult{}, err
	}
	return news.SaveResult{Item: item, Updated: index >= 0}, nil
}

func (b *ScriptBackend) Delete(ctx context.Context, id string) error {
	items, err := b.List(ctx)
	if err != nil {
		return err
	}

	kept := make([]news.Announcement, 0, len(items))
	for _, a := range items {
		if a.ID != id {
			kept = append(kept, a)
		}
	}
	if len(kept) == len(items) {
		return &RemoteError{Status: http.StatusNotFound, Message: msgNotFound}
	}
	return b.save(ctx, kept)
}

func (b *ScriptBackend) save(ctx context.Context, items []news.Announcement) error {
	news.SortByDate(items)
	_, err := b.call(ctx, script.ActionSaveNews, items)
	return err
}

func (b *ScriptBackend) call(ctx context.Context, action script.Action, items []news.Announcement) (scripthttp.Response, error) {
	req := scripthttp.Request{Action: string(action), AccessKey: b.accessKey, News: items}

	var out scripthttp.Response
	status, err := doJSON(ctx, b.client, http.MethodPost, b.url, req, &out)
	if err != nil {
		return out, err
	}
	if out.Error != "" {
		if len(out.Errors) > 0 {
			return out, &ValidationError{Message: out.Error, Fields: fieldMap(out.Errors)}
		}
		return out, &RemoteError{Status: status, Message: out.Error}
	}
	if status != http.StatusOK {
		return out, &RemoteError{Status: status, Message: msgScriptUnreachable}
	}
	return out, nil
}
