package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"coursestore-backend/internal/shared/response"
)

// Recovery turns a handler panic into the standard 500 envelope.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}

			evt := log.Error().
				Str("request_id", c.GetString(ContextRequestID)).
				Str("method", c.Request.Method).
				Str("route", c.FullPath()).
				Interface("panic", rec).
				Bytes("stack", debug.Stack())
			if uid, ok := UserID(c); ok {
				evt = evt.Str("user_id", uid.String())
			}
			evt.Msg("Panic recovered")

			if c.Writer.Written() {
				c.Abort()
				return
			}
			response.ErrorResponse(c, http.StatusInternalServerError, "SYS_001", "Internal server error")
			c.Abort()
		}()

		c.Next()
	}
}
