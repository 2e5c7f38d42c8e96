package middleware

import (
	"errors"
	"net/http"

	"go-biodata-backend/internal/delivery/http/response"
	"go-biodata-backend/pkg/apperror"
	"go-biodata-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		// Check if there are errors appended to the context
		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			if appErr.Code >= http.StatusInternalServerError {
				logger.Log.ErrorContext(c.Request.Context(), "Request failed",
					"path", c.FullPath(), "request_id", c.GetString(RequestIDKey), "error", err)
			}
			response.Error(c, appErr.Code, appErr.Message, appErr.Details)
			return
		}

		// Never expose internal error details to clients
		logger.Log.ErrorContext(c.Request.Context(), "Internal server error",
			"path", c.FullPath(), "request_id", c.GetString(RequestIDKey), "error", err)
		response.Error(c, http.StatusInternalServerError, "Server error", nil)
	}
}
