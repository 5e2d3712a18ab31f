package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/akarihousing/news-backend/internal/pkg/apperror"
	"github.com/akarihousing/news-backend/internal/pkg/logging"
)

// ErrorResponse defines the JSON structure for error responses.
type ErrorResponse struct {
	Error  string            `json:"error"`
	Errors map[string]string `json:"errors,omitempty"`
}

// Error sends a JSON error response and aborts the handler chain.
// It checks if the error is an AppError to determine the status code.
// If it's not an AppError, it defaults to 500 Internal Server Error.
func Error(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		if appErr.Err != nil {
			logging.FromContext(c.Request.Context()).Warn("request failed",
				"status", appErr.Code,
				"error", appErr.Err)
		}
		c.AbortWithStatusJSON(appErr.Code, ErrorResponse{Error: appErr.Message, Errors: appErr.Fields})
		return
	}

	logging.FromContext(c.Request.Context()).Error("internal server error", "error", err)
	c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}
