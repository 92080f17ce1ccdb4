package middleware

import (
	"slices"
	"strings"

	"activity-portal/internal/global/jwt"
	"activity-portal/internal/global/response"

	"github.com/gin-gonic/gin"
)

// Auth 校验 Bearer token，roles 为空时任何已登录用户都可访问
func Auth(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			response.Fail(c, response.ErrUnauthorized)
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))

		payload, valid := jwt.ParseToken(token)
		if !valid {
			response.Fail(c, response.ErrTokenInvalid)
			return
		}
		if len(roles) > 0 && !slices.Contains(roles, payload.Role) {
			response.Fail(c, response.ErrForbidden)
			return
		}
		c.Set(jwt.PayloadKey, payload)
		c.Next()
	}
}
