package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"itinera/pkg/utils"
)

// TraceIDMiddleware keeps a trace id sent by the caller when it is a UUID, so
// one id follows a request from the presentation tier into the logs, and
// mints a new one otherwise.
func TraceIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader(utils.TraceIDHeader)
		if _, err := uuid.Parse(traceID); err != nil || len(traceID) != 36 {
			traceID = uuid.NewString()
		}
		c.Set(utils.TraceIDKey, traceID)
		c.Writer.Header().Set(utils.TraceIDHeader, traceID)
		c.Next()
	}
}
