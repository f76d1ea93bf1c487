package middleware

import (
	"context"
	"net/http"

	"HealthifyGo/config"
	"HealthifyGo/models"
	"HealthifyGo/utils"

	"github.com/gin-gonic/gin"
)

// Context keys
const (
	ContextUserID = "uid"
	ContextRole   = "role"
)

// AccountLookup 读取账号当前的角色和启用状态
type AccountLookup interface {
	ActiveRole(ctx context.Context, userID uint) (role string, active bool, err error)
}

// AuthMiddleware 认证中间件。令牌只证明身份，角色和启用状态每次从数据库读取
func AuthMiddleware(accounts AccountLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := c.GetHeader("Authorization")
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.Response{Success: false, Message: "未提供认证信息"})
			return
		}

		// 解析 JWT
		claims, err := utils.ParseToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.Response{Success: false, Message: "无效的认证信息"})
			return
		}

		role, active, err := accounts.ActiveRole(c.Request.Context(), claims.UserID)
		if err != nil {
			config.Logger.Errorw("查询账号状态失败", "error", err, "userID", claims.UserID)
			c.AbortWithStatusJSON(http.StatusInternalServerError, models.Response{Success: false, Message: "服务器内部错误"})
			return
		}
		if !active {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.Response{Success: false, Message: "账号不存在或已停用"})
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextRole, role)
		c.Next()
	}
}

// AdminChecker 从存储层确认管理员身份
type AdminChecker interface {
	IsAdmin(ctx context.Context, userID uint) (bool, error)
}

// AdminRequired 令牌里的角色可能过期，这里以数据库为准
func AdminRequired(checker AdminChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.GetUint(ContextUserID)
		ok, err := checker.IsAdmin(c.Request.Context(), uid)
		if err != nil {
			config.Logger.Errorw("检查管理员权限失败", "error", err, "userID", uid)
			c.AbortWithStatusJSON(http.StatusInternalServerError, models.Response{Success: false, Message: "服务器内部错误"})
			return
		}
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, models.Response{Success: false, Message: "需要管理员权限"})
			return
		}
		c.Set(ContextRole, models.RoleAdmin)
		c.Next()
	}
}
