package test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"activity-portal/internal/global/jwt"
	"activity-portal/internal/global/response"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

// Request 描述一次测试请求
type Request struct {
	Method string
	Path   string
	Body   any
	Token  string // 非空时作为 Bearer token 发送
}

// DoRequest 把请求交给 engine 处理并解码统一响应体
func DoRequest(t *testing.T, engine *gin.Engine, req Request) (int, response.ResponseBody) {
	t.Helper()
	w := Serve(t, engine, req)

	var body response.ResponseBody
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	return w.Code, body
}

// Serve 返回原始响应，用于文件下载等非 JSON 响应
func Serve(t *testing.T, engine *gin.Engine, req Request) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if req.Body != nil {
		b, err := json.Marshal(req.Body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	r := httptest.NewRequest(method, req.Path, reader)
	r.Header.Set("Content-Type", "application/json")
	if req.Token != "" {
		r.Header.Set("Authorization", "Bearer "+req.Token)
	}

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, r)
	return w
}

// NewEngine 创建测试用 gin.Engine
func NewEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

// As 模拟已登录用户，代替 middleware.Auth
func As(p jwt.Payload) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(jwt.PayloadKey, &jwt.Claims{Payload: p})
		c.Next()
	}
}
