package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/akarihousing/news-backend/internal/news"
	"github.com/akarihousing/news-backend/internal/pkg/apperror"
	"github.com/akarihousing/news-backend/internal/pkg/logging"
	"github.com/akarihousing/news-backend/internal/pkg/metrics"
	"github.com/akarihousing/news-backend/internal/pkg/response"
	"github.com/akarihousing/news-backend/internal/script"
)

// maxBodyBytes caps script request bodies; saveNews carries the whole collection.
const maxBodyBytes = 4 << 20

var (
	errDisabled      = apperror.New(http.StatusNotFound, "Not found.")
	errInvalidJSON   = apperror.New(http.StatusBadRequest, "Invalid JSON payload.")
	errUnknownAction = apperror.New(http.StatusBadRequest, "不明な操作です。")
	errAccessDenied  = apperror.New(http.StatusForbidden, "アクセスキーが一致しません。")
	errNewsMissing   = apperror.New(http.StatusBadRequest, "ニュースデータの形式が正しくありません。")
	errDuplicateID   = apperror.New(http.StatusUnprocessableEntity, "同じ ID のお知らせが存在します。別の ID を設定してください。")
	errInvalidItems  = apperror.New(http.StatusUnprocessableEntity, "すべての項目を入力してください。")
)

type Handler struct {
	service script.Service
}

func NewHandler(service script.Service) *Handler {
	return &Handler{service: service}
}

// Handle dispatches one script call on its action field.
func (h *Handler) Handle(c *gin.Context) {
	if !h.service.Enabled() {
		response.Error(c, errDisabled)
		return
	}

	var req Request
	if err := json.NewDecoder(http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)).Decode(&req); err != nil {
		logging.FromContext(c.Request.Context()).Debug("script body rejected", "error", err)
		h.fail(c, "invalid", errInvalidJSON)
		return
	}

	action := script.Action(req.Action)
	switch action {
	case script.ActionVerifyKey:
		h.verifyKey(c, req)
	case script.ActionFetchNews:
		h.fetchNews(c, req)
	case script.ActionSaveNews:
		h.saveNews(c, req)
	default:
		h.fail(c, "unknown", errUnknownAction)
	}
}

func (h *Handler) verifyKey(c *gin.Context, req Request) {
	valid := h.service.VerifyKey(c.Request.Context(), req.AccessKey)
	result := "success"
	if !valid {
		result = "denied"
	}
	metrics.ScriptRequestsTotal.WithLabelValues(string(script.ActionVerifyKey), result).Inc()
	c.JSON(http.StatusOK, VerifyResponse{Valid: valid})
}

func (h *Handler) fetchNews(c *gin.Context, req Request) {
	items, err := h.service.FetchNews(c.Request.Context(), req.AccessKey)
	if err != nil {
		h.fail(c, string(script.ActionFetchNews), mapError(err))
		return
	}
	metrics.ScriptRequestsTotal.WithLabelValues(string(script.ActionFetchNews), "success").Inc()
	c.JSON(http.StatusOK, NewsResponse{News: items})
}

func (h *Handler) saveNews(c *gin.Context, req Request) {
	if req.News == nil {
		h.fail(c, string(script.ActionSaveNews), errNewsMissing)
		return
	}

	items, err := h.service.SaveNews(c.Request.Context(), req.AccessKey, req.News)
	if err != nil {
		h.fail(c, string(script.ActionSaveNews), mapError(err))
		return
	}
	metrics.ScriptRequestsTotal.WithLabelValues(string(script.ActionSaveNews), "success").Inc()
	c.JSON(http.StatusOK, NewsResponse{News: items})
}

func (h *Handler) fail(c *gin.Context, action string, err error) {
	metrics.ScriptRequestsTotal.WithLabelValues(action, "error").Inc()
	response.Error(c, err)
}

func mapError(err error) error {
	var fieldErrs news.FieldErrors
	switch {
	case errors.Is(err, script.ErrDisabled):
		return errDisabled
	case errors.Is(err, script.ErrAccessDenied):
		return errAccessDenied
	case errors.Is(err, news.ErrDuplicateID):
		return errDuplicateID
	case errors.As(err, &fieldErrs):
		return apperror.WithFields(errInvalidItems.Code, errInvalidItems.Message, fieldErrs.Strings())
	case errors.Is(err, news.ErrInvalidPayload):
		return errInvalidItems
	case errors.Is(err, news.ErrSaveFailed):
		return apperror.Wrap(err, http.StatusInternalServerError, "保存に失敗しました。")
	default:
		return err
	}
}
