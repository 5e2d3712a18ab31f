package editor

import (
	"context"
	"errors"
	"time"

	"github.com/akarihousing/news-backend/internal/news"
)

// StatusState classifies the status line.
type StatusState string

const (
	StateInfo    StatusState = "info"
	StatePending StatusState = "pending"
	StateSuccess StatusState = "success"
	StateError   StatusState = "error"
)

// Status is the message shown to the editor.
type Status struct {
	Message string
	State   StatusState
}

// FormMode is whether the form is closed, creating or editing.
type FormMode int

const (
	FormClosed FormMode = iota
	FormNew
	FormEdit
)

// Form is the record being edited. OriginalID is set in FormEdit.
type Form struct {
	Mode       FormMode
	OriginalID string
	Values     news.Input
}

// ErrFormClosed is returned by Submit when no form is open.
var ErrFormClosed = errors.New("form is not open")

const (
	msgLoading     = "ニュースを読み込んでいます..."
	msgLoaded      = "最新データを取得しました。"
	msgLoadFailed  = "お知らせの読み込みに失敗しました。"
	msgNewMode     = "新規作成モードになりました。"
	msgEditMode    = "編集モードになりました。"
	msgSending     = "送信中..."
	msgCreated     = "お知らせを登録しました。"
	msgUpdated     = "お知らせを更新しました。"
	msgSaveFailed  = "保存に失敗しました。"
	msgDeleting    = "削除しています..."
	msgDeleted     = "お知らせを削除しました。"
	msgDeleteError = "削除に失敗しました。"
)

// Editor holds the admin view state: the loaded collection, the open form,
// the status line and one error slot per field. It is not safe for
// concurrent use.
type Editor struct {
	backend Backend
	now     func() time.Time

	items  []news.Announcement
	form   Form
	status Status
	errors map[news.Field]string
}

func New(backend Backend) *Editor {
	return &Editor{backend: backend, now: time.Now, errors: map[news.Field]string{}}
}

func (e *Editor) Items() []news.Announcement { return e.items }
func (e *Editor) Form() Form                 { return e.form }
func (e *Editor) Status() Status             { return e.status }

// FieldError returns the message in the slot for f.
func (e *Editor) FieldError(f news.Field) string {
	return e.errors[f]
}

// Find returns the loaded record with id.
func (e *Editor) Find(id string) (news.Announcement, bool) {
	for _, a := range e.items {
		if a.ID == id {
			return a, true
		}
	}
	return news.Announcement{}, false
}

// Refresh reloads the collection.
func (e *Editor) Refresh(ctx context.Context) error {
	e.setStatus(msgLoading, StatePending)
	if err := e.reload(ctx); err != nil {
		e.setStatus(Message(err, msgLoadFailed), StateError)
		return err
	}
	e.setStatus(msgLoaded, StateSuccess)
	return nil
}

// OpenNew opens an empty form dated today.
func (e *Editor) OpenNew() {
	e.clearErrors()
	e.form = Form{Mode: FormNew, Values: news.Input{Date: e.now().Format(news.DateLayout)}}
	e.setStatus(msgNewMode, StateInfo)
}

// OpenEdit loads the record with id into the form and reports whether it exists.
func (e *Editor) OpenEdit(id string) bool {
	a, ok := e.Find(id)
	if !ok {
		return false
	}
	e.clearErrors()
	e.form = Form{Mode: FormEdit, OriginalID: a.ID, Values: news.Input(a)}
	e.setStatus(msgEditMode, StateInfo)
	return true
}

// Close discards the form.
func (e *Editor) Close() {
	e.clearErrors()
	e.form = Form{}
}

// Submit saves values from the open form. Validation failures fill the
// field slots and keep the form open. A created record resets the form to
// a new one; an updated record stays open for further edits.
func (e *Editor) Submit(ctx context.Context, values news.Input) error {
	if e.form.Mode == FormClosed {
		return ErrFormClosed
	}
	e.clearErrors()
	e.form.Values = values
	e.setStatus(msgSending, StatePending)

	res, err := e.backend.Save(ctx, e.form.OriginalID, values)
	if err != nil {
		var validation *ValidationError
		if errors.As(err, &validation) {
			for f, msg := range validation.Fields {
				e.errors[f] = msg
			}
		}
		e.setStatus(Message(err, msgSaveFailed), StateError)
		return err
	}

	msg := msgCreated
	if res.Updated {
		msg = msgUpdated
		e.form = Form{Mode: FormEdit, OriginalID: res.Item.ID, Values: news.Input(res.Item)}
	} else {
		e.form = Form{Mode: FormNew, Values: news.Input{Date: e.now().Format(news.DateLayout)}}
	}

	if err := e.reload(ctx); err != nil {
		// The write went through; only the list is stale.
		e.setStatus(msg+" "+Message(err, msgLoadFailed), StateError)
		return nil
	}
	e.setStatus(msg, StateSuccess)
	return nil
}

// Remove deletes the record with id. A form editing that record is closed.
func (e *Editor) Remove(ctx context.Context, id string) error {
	e.setStatus(msgDeleting, StatePending)
	if err := e.backend.Delete(ctx, id); err != nil {
		e.setStatus(Message(err, msgDeleteError), StateError)
		return err
	}
	if e.form.Mode == FormEdit && e.form.OriginalID == id {
		e.Close()
	}

	if err := e.reload(ctx); err != nil {
		e.setStatus(msgDeleted+" "+Message(err, msgLoadFailed), StateError)
		return nil
	}
	e.setStatus(msgDeleted, StateSuccess)
	return nil
}

func (e *Editor) reload(ctx context.Context) error {
	items, err := e.backend.List(ctx)
	if err != nil {
		return err
	}
	news.SortByDate(items)
	e.items = items
	return nil
}

func (e *Editor) setStatus(message string, state StatusState) {
	e.status = Status{Message: message, State: state}
}

func (e *Editor) clearErrors() {
	clear(e.errors)
}
