package middleware

import (
	"errors"
	"net/http"
	"runtime/debug"
	"time"

	"tradebook/internal/apierror"
	"tradebook/internal/errs"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// BookKey is set by handlers to the name of the book a request ran against.
const BookKey = "book"

// ErrorHandler answers every error a handler attached with c.Error and did
// not write itself. A rolled-back unit of work is reported by the operation
// that failed; the cause stays in the log.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if len(c.Errors) == 0 {
			return
		}

		for _, ge := range c.Errors {
			requestLog(c, log.Error()).Err(ge.Err).Str("op", failedOp(ge.Err)).Msg("request failed")
		}
		if c.Writer.Written() {
			return
		}

		last := c.Errors.Last().Err
		if op := failedOp(last); op != "" {
			c.AbortWithStatusJSON(http.StatusInternalServerError,
				apierror.WithContext("storage failure", map[string]any{"op": op}))
			return
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, apierror.New("internal server error"))
	}
}

// failedOp returns the unit of work operation behind a storage failure, or
// "" for any other error.
func failedOp(err error) string {
	var se *errs.StorageError
	if errors.As(err, &se) {
		return se.Op
	}
	return ""
}

// Recovery turns a panic into a 500 and logs the stack.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				requestLog(c, log.Error()).
					Interface("panic", r).
					Bytes("stack", debug.Stack()).
					Msg("panic recovered")
				c.AbortWithStatusJSON(http.StatusInternalServerError, apierror.New("internal server error"))
			}
		}()
		c.Next()
	}
}

// Logger writes one line per request. Server errors log at error level and
// rejected requests at warn, so a quiet log means a healthy book.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		ev := log.Info()
		switch {
		case status >= http.StatusInternalServerError:
			ev = log.Error()
		case status >= http.StatusBadRequest:
			ev = log.Warn()
		}
		requestLog(c, ev).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}

func requestLog(c *gin.Context, ev *zerolog.Event) *zerolog.Event {
	return ev.
		Str("request_id", c.GetString(RequestIDKey)).
		Str("book", c.GetString(BookKey)).
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path)
}
