package response

import (
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"

	"activity-portal/config"
	"activity-portal/internal/global/logger"
	"activity-portal/internal/global/sentry"

	"github.com/gin-gonic/gin"
)

const successCode int32 = 200

// ResponseBody 统一响应体
type ResponseBody struct {
	Success bool   `json:"success"`
	Code    int32  `json:"code"`
	Msg     string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Origin  string `json:"origin,omitempty"`
}

// Success 返回 200，data 可省略
func Success(c *gin.Context, data ...any) {
	SuccessWithMessage(c, "OK", data...)
}

// SuccessWithMessage 返回 200 并携带提示信息
func SuccessWithMessage(c *gin.Context, msg string, data ...any) {
	body := ResponseBody{Success: true, Code: successCode, Msg: msg}
	if len(data) > 0 {
		body.Data = data[0]
	}
	c.JSON(http.StatusOK, body)
}

// Fail 写入错误响应，非 *Error 的错误按服务器内部错误处理
func Fail(c *gin.Context, err error) {
	var e *Error
	if !errors.As(err, &e) {
		e = ErrServerInternal.WithOrigin(err)
	}

	body := ResponseBody{Success: false, Code: e.Code, Msg: e.Message}
	if config.Get().Mode == config.ModeDebug {
		body.Origin = e.Origin
	}

	c.Set(ErrorContextKey, e)
	c.Set(ResponseContextKey, body)
	if e.HTTPStatus() >= http.StatusInternalServerError {
		sentry.CaptureException(c, e)
	}
	c.AbortWithStatusJSON(e.HTTPStatus(), body)
}

// Recovery 在 defer 中调用，把 panic 转成 500 响应
func Recovery(c *gin.Context) {
	r := recover()
	if r == nil {
		return
	}
	err, ok := r.(error)
	if !ok {
		err = fmt.Errorf("%v", r)
	}
	logger.Get().Error("panic recovered",
		"path", c.Request.URL.Path,
		"error", err,
		"stack", string(debug.Stack()),
	)
	Fail(c, ErrServerInternal.WithOrigin(err))
}
