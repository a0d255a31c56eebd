package middleware

import (
	"errors"
	"net/http"

	"github.com/Moses2004/JobX/internal/delivery/http/response"
	"github.com/Moses2004/JobX/internal/domain"
	"github.com/Moses2004/JobX/pkg/apperror"
	"github.com/Moses2004/JobX/pkg/logger"
	"github.com/Moses2004/JobX/pkg/supabase"

	"github.com/gin-gonic/gin"
)

// ErrorHandler converts errors attached to the context into the JSON
// envelope. Internal details never leak to clients; they are logged
// server-side instead.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err

		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			response.Error(c, appErr.Code, appErr.Message, nil)
			return
		}

		var apiErr *supabase.APIError
		if errors.As(err, &apiErr) {
			// The remote service already chose a status and a
			// user-presentable message.
			response.Error(c, apiErr.Status, apiErr.Message, nil)
			return
		}

		switch {
		case errors.Is(err, supabase.ErrNotConfigured):
			response.Error(c, http.StatusServiceUnavailable, "Authentication service is not configured", nil)
		case errors.Is(err, domain.ErrNoActiveUser):
			response.Error(c, http.StatusUnauthorized, "No user logged in", nil)
		case errors.Is(err, domain.ErrNotFound):
			response.Error(c, http.StatusNotFound, "Resource not found", nil)
		default:
			logger.Log.Error("unhandled request error", "error", err, "path", c.Request.URL.Path)
			response.Error(c, http.StatusInternalServerError, "An unexpected error occurred. Please try again later.", nil)
		}
	}
}
