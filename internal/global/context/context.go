// Package context 从请求上下文中取出当前用户
package context

import (
	"activity-portal/internal/global/jwt"

	"github.com/gin-gonic/gin"
)

// Actor 当前操作者，由 handler 取出后显式传给业务层
type Actor struct {
	UserID uint
	Role   string
}

func (a Actor) IsAdmin() bool     { return a.Role == jwt.RoleAdmin }
func (a Actor) IsOrganizer() bool { return a.Role == jwt.RoleOrganizer }
func (a Actor) IsStudent() bool   { return a.Role == jwt.RoleStudent }

// CanActFor 学生只能操作自己的数据，管理员不受限制
func (a Actor) CanActFor(studentID uint) bool {
	if a.IsStudent() {
		return a.UserID == studentID
	}
	return a.IsAdmin()
}

func GetActor(c *gin.Context) (Actor, bool) {
	claims, ok := jwt.GetUserPayload(c)
	if !ok {
		return Actor{}, false
	}
	return Actor{UserID: claims.UserID, Role: claims.Role}, true
}
