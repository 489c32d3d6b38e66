package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/cppla/yatube/utils"
)

// RequestID reuses the caller's X-Request-ID or assigns a new one, and echoes it back.
func RequestID() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		id := ctx.GetHeader(utils.RequestIDHeader)
		if id == "" || len(id) > 128 {
			id = utils.NewRequestID()
		}
		ctx.Set(utils.RequestIDKey, id)
		ctx.Header(utils.RequestIDHeader, id)
		ctx.Next()
	}
}
