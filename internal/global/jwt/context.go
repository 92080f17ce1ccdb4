package jwt

import (
	"github.com/gin-gonic/gin"
)

// PayloadKey 鉴权中间件写入 gin.Context 的键
const PayloadKey = "payload"

func GetUserPayload(c *gin.Context) (userPayload *Claims, exist bool) {
	payload, _ := c.Get(PayloadKey)
	userPayload, exist = payload.(*Claims)
	return
}
