package middleware

import (
	"time"

	"HealthifyGo/config"
	"HealthifyGo/utils"

	"github.com/gin-gonic/gin"
)

func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := utils.RequestID(c.GetHeader(utils.RequestIDHeader))
		c.Set("requestID", requestID)
		c.Header(utils.RequestIDHeader, requestID)

		c.Next()

		latency := time.Since(start)
		fields := []interface{}{
			"requestID", requestID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"clientIP", c.ClientIP(),
			"latency", latency.String(),
			"userAgent", c.Request.UserAgent(),
		}
		if uid, ok := c.Get(ContextUserID); ok {
			fields = append(fields, "userID", uid)
		}
		if len(c.Errors) > 0 {
			fields = append(fields, "errors", c.Errors.String())
		}
		if c.Writer.Status() >= 500 {
			config.Logger.Errorw("request", fields...)
			return
		}
		config.Logger.Infow("request", fields...)
	}
}
