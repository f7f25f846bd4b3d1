package middleware

import (
	"bytes"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/justsurfingit/job-posts/internal/logging"
)

// maxLoggedBody caps how much of a request body goes into the log line.
const maxLoggedBody = 4 << 10

// RequestLogger writes one line per request. Bodies of non-GET requests are logged too.
func RequestLogger(log *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		req := c.Request

		var body string
		if req.Method != http.MethodGet && req.Body != nil {
			prefix, err := io.ReadAll(io.LimitReader(req.Body, maxLoggedBody))
			req.Body = readCloser{
				Reader: io.MultiReader(bytes.NewReader(prefix), req.Body),
				Closer: req.Body,
			}
			if err == nil {
				body = string(prefix)
			}
		}

		c.Next()

		keyvals := []any{
			"method", req.Method,
			"path", req.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
			"request_id", GetRequestID(c),
		}
		if req.Method != http.MethodGet {
			keyvals = append(keyvals, "body", body)
		}
		if len(c.Errors) > 0 {
			keyvals = append(keyvals, "err", c.Errors.String())
		}

		switch status := c.Writer.Status(); {
		case status >= http.StatusInternalServerError:
			log.Error("request", keyvals...)
		case status >= http.StatusBadRequest:
			log.Warn("request", keyvals...)
		default:
			log.Info("request", keyvals...)
		}
	}
}

type readCloser struct {
	io.Reader
	io.Closer
}

// BodyLimit caps request bodies at limit bytes. Reads past the cap fail with
// *http.MaxBytesError.
func BodyLimit(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		}
		c.Next()
	}
}

// Recovery turns panics into a 500 and logs them.
func Recovery(log *logging.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Error("panic recovered", "path", c.Request.URL.Path, "request_id", GetRequestID(c), "panic", recovered)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	})
}
