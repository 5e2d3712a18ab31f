package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/akarihousing/news-backend/internal/auth"
	"github.com/akarihousing/news-backend/internal/news"
	"github.com/akarihousing/news-backend/internal/pkg/apperror"
	"github.com/akarihousing/news-backend/internal/pkg/logging"
	"github.com/akarihousing/news-backend/internal/pkg/request"
	"github.com/akarihousing/news-backend/internal/pkg/response"
)

// maxBodyBytes caps write request bodies.
const maxBodyBytes = 1 << 20

var (
	errInvalidJSON     = apperror.New(http.StatusBadRequest, "Invalid JSON payload.")
	errPayloadMissing  = apperror.New(http.StatusBadRequest, "payload が見つかりません。")
	errIDMissing       = apperror.New(http.StatusBadRequest, "IDが指定されていません。")
	errUnauthenticated = apperror.New(http.StatusUnauthorized, "認証に失敗しました。")
	errTokenInvalid    = apperror.New(http.StatusForbidden, "認証トークンが無効です。")
	errNotFound        = apperror.New(http.StatusNotFound, "対象のお知らせが見つかりません。")
	errMethod          = apperror.New(http.StatusMethodNotAllowed, "Method not allowed.")
)

const msgValidation = "入力内容を確認してください。"

type Handler struct {
	service  news.Service
	verifier auth.Verifier
	audience string
}

// NewHandler creates the handler. audience is the OAuth client ID tokens must be issued for;
// when it is empty every write is refused with 401.
func NewHandler(service news.Service, verifier auth.Verifier, audience string) *Handler {
	return &Handler{service: service, verifier: verifier, audience: audience}
}

// List returns the whole collection, newest first.
func (h *Handler) List(c *gin.Context) {
	items := h.service.List(c.Request.Context())
	c.JSON(http.StatusOK, response.NewListResponse(items))
}

// Document serves the collection as a bare JSON array, the shape of the stored document.
func (h *Handler) Document(c *gin.Context) {
	items := h.service.List(c.Request.Context())
	data, err := news.EncodeDocument(items)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "application/json; charset=utf-8", data)
}

func (h *Handler) Get(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		response.Error(c, errIDMissing)
		return
	}
	req.Normalize()

	a, err := h.service.GetByID(c.Request.Context(), req.ID)
	if err != nil {
		switch {
		case errors.Is(err, news.ErrNotFound):
			response.Error(c, errNotFound)
		default:
			response.Error(c, err)
		}
		return
	}

	c.JSON(http.StatusOK, a)
}

// Preflight answers OPTIONS requests that reach the handler without an Origin header.
func (h *Handler) Preflight(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// MethodNotAllowed is used as the router's NoMethod handler.
func MethodNotAllowed(c *gin.Context) {
	response.Error(c, errMethod)
}

func (h *Handler) Save(c *gin.Context) {
	body, ok := h.authorize(c)
	if !ok {
		return
	}
	if body.Payload == nil {
		response.Error(c, errPayloadMissing)
		return
	}

	res, err := h.service.Save(c.Request.Context(), body.Payload.toInput())
	if err != nil {
		var fieldErrs news.FieldErrors
		switch {
		case errors.As(err, &fieldErrs):
			response.Error(c, apperror.WithFields(http.StatusUnprocessableEntity, msgValidation, fieldErrs.Strings()))
		case errors.Is(err, news.ErrSaveFailed):
			response.Error(c, apperror.Wrap(err, http.StatusInternalServerError, "保存に失敗しました。"))
		default:
			response.Error(c, err)
		}
		return
	}

	c.JSON(http.StatusOK, SaveResponse{Item: res.Item, Updated: res.Updated})
}

func (h *Handler) Delete(c *gin.Context) {
	body, ok := h.authorize(c)
	if !ok {
		return
	}

	id := strings.TrimSpace(body.ID)
	if id == "" {
		response.Error(c, errIDMissing)
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		switch {
		case errors.Is(err, news.ErrNotFound):
			response.Error(c, errNotFound)
		case errors.Is(err, news.ErrSaveFailed):
			response.Error(c, apperror.Wrap(err, http.StatusInternalServerError, "削除に失敗しました。"))
		default:
			response.Error(c, err)
		}
		return
	}

	c.JSON(http.StatusOK, DeleteResponse{Deleted: true})
}

// authorize decodes the write body and verifies its identity token.
// It writes the error response itself and reports whether the handler may continue.
func (h *Handler) authorize(c *gin.Context) (WriteBody, bool) {
	var body WriteBody

	dec := json.NewDecoder(http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		logging.FromContext(c.Request.Context()).Debug("write body rejected", "error", err)
		response.Error(c, errInvalidJSON)
		return WriteBody{}, false
	}

	token := strings.TrimSpace(body.IDToken)
	if token == "" || h.audience == "" {
		response.Error(c, errUnauthenticated)
		return WriteBody{}, false
	}

	claims, err := h.verifier.Verify(c.Request.Context(), token, h.audience)
	if err != nil {
		response.Error(c, errTokenInvalid)
		return WriteBody{}, false
	}
	auth.SetIdentity(c, claims)

	logging.FromContext(c.Request.Context()).Info("write authorized",
		"method", c.Request.Method,
		"subject", auth.GetSubject(c),
		"email", auth.GetEmail(c))
	return body, true
}
