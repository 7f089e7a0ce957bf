package middleware

import (
	"edulearn_backend/internal/model"
	"edulearn_backend/internal/service"
	"edulearn_backend/internal/util"
	"strings"

	"github.com/gin-gonic/gin"
)

// ExtractCredential 优先读取会话 Cookie，其次读取 Bearer 令牌
func ExtractCredential(c *gin.Context) string {
	if token, err := c.Cookie(util.SessionCookieName); err == nil && token != "" {
		return token
	}
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, util.BearerPrefix) {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, util.BearerPrefix))
	}
	return ""
}

func AuthMiddleware(gate *service.AuthGate) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := gate.ResolveIdentity(c.Request.Context(), ExtractCredential(c))
		if err != nil {
			util.HandleError(c, err)
			c.Abort()
			return
		}

		util.SetUserInContext(c, user)
		c.Next()
	}
}

func RoleMiddleware(roles ...model.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := service.RequireRole(util.GetUserFromContext(c), roles...); err != nil {
			util.HandleError(c, err)
			c.Abort()
			return
		}
		c.Next()
	}
}

// ApprovedMiddleware 拒绝未审核的教师
func ApprovedMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := service.RequireApproved(util.GetUserFromContext(c)); err != nil {
			util.HandleError(c, err)
			c.Abort()
			return
		}
		c.Next()
	}
}
