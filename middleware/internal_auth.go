package middleware

import (
	"crypto/subtle"
	"net/http"

	"HealthifyGo/models"

	"github.com/gin-gonic/gin"
)

// InternalAuthMiddleware 内部接口认证中间件，未配置 token 时拒绝所有请求
func InternalAuthMiddleware(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authToken := c.GetHeader("X-Internal-Auth")

		if token == "" || subtle.ConstantTimeCompare([]byte(authToken), []byte(token)) != 1 {
			c.AbortWithStatusJSON(http.StatusForbidden, models.Response{
				Success: false,
				Message: "Forbidden",
			})
			return
		}

		c.Next()
	}
}
