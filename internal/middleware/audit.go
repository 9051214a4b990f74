package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/classroll-api/internal/models"
)

// AuditRecorder writes one audit entry.
type AuditRecorder interface {
	Record(ctx context.Context, actor models.Actor, action, resource, resourceID string, before, after interface{})
}

// Audit records an entry after each successful request. It is used for
// operations that have no domain record of their own, such as a sync.
func Audit(recorder AuditRecorder, action, resource string) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		if recorder == nil || c.Writer.Status() >= 400 {
			return
		}

		actor := models.Actor{IP: c.ClientIP()}
		if claims := Claims(c); claims != nil {
			actor.UserID = claims.UserID
		}

		recorder.Record(c.Request.Context(), actor, action, resource, "", nil, map[string]interface{}{
			"path":    c.FullPath(),
			"method":  c.Request.Method,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).Milliseconds(),
		})
	}
}
