package middleware

import (
	"fmt"
	"log"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"

	"lodging/internal/pkg/response"
)

// RequestLogger logs each request in key=value form and recovers panics
// into a JSON 500.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		defer func() {
			if recovered := recover(); recovered != nil {
				logRequest(c, start, "panic", fmt.Sprintf("%v", recovered))
				log.Printf("panic_stack %s", debug.Stack())
				response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
				c.Abort()
				return
			}

			status := c.Writer.Status()
			level := "request"
			if status >= http.StatusInternalServerError {
				level = "request_error"
			}
			logRequest(c, start, level, c.Errors.String())
		}()

		c.Next()
	}
}

func logRequest(c *gin.Context, start time.Time, level, errMsg string) {
	log.Printf(
		"%s status=%d method=%s path=%s client_ip=%s tenant_id=%d user_id=%d latency=%s error=%q",
		level,
		c.Writer.Status(),
		c.Request.Method,
		c.Request.URL.Path,
		c.ClientIP(),
		c.GetInt64("tenant_id"),
		c.GetInt64("user_id"),
		time.Since(start),
		errMsg,
	)
}
