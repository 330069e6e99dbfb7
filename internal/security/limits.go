package security

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/ZanzyTHEbar/job-fraud-detector/internal/errors"
)

// NewBodyTooLargeError is the response for bodies over the configured limit
func NewBodyTooLargeError() *apperrors.AppError {
	appErr := apperrors.NewValidationError("Request body too large")
	appErr.HTTPStatus = http.StatusRequestEntityTooLarge
	return appErr
}

// BodyLimitMiddleware rejects requests that declare a body over maxBytes and
// caps the reader for requests that do not declare a length
func BodyLimitMiddleware(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes <= 0 || c.Request.Body == nil {
			c.Next()
			return
		}

		if c.Request.ContentLength > maxBytes {
			apperrors.Respond(c, NewBodyTooLargeError())
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// RequestTimeoutMiddleware bounds the request context so outbound fetches
// cannot outlive timeout
func RequestTimeoutMiddleware(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if timeout <= 0 {
			c.Next()
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Header("X-Timeout", strconv.Itoa(int(timeout.Seconds())))

		c.Next()
	}
}
