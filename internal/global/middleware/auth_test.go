package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"activity-portal/config"
	"activity-portal/internal/global/jwt"
	"activity-portal/internal/global/response"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthRouter(roles ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	config.Set(&config.Config{Mode: config.ModeRelease, JWT: config.JWT{AccessSecret: "secret", AccessExpire: 3600}})

	r := gin.New()
	r.GET("/private", Auth(roles...), func(c *gin.Context) {
		claims, _ := jwt.GetUserPayload(c)
		response.Success(c, claims.UserID)
	})
	return r
}

func doAuth(t *testing.T, r *gin.Engine, header string) (int, response.ResponseBody) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	r.ServeHTTP(w, req)

	var body response.ResponseBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestAuthMissingHeader(t *testing.T) {
	code, body := doAuth(t, newAuthRouter(), "")
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, response.ErrUnauthorized.Code, body.Code)
	assert.False(t, body.Success)
}

func TestAuthInvalidToken(t *testing.T) {
	code, body := doAuth(t, newAuthRouter(), "Bearer nope")
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, response.ErrTokenInvalid.Code, body.Code)
}

func TestAuthRoleRejected(t *testing.T) {
	r := newAuthRouter(jwt.RoleAdmin)
	token, err := jwt.CreateToken(jwt.Payload{UserID: 3, Role: jwt.RoleStudent})
	require.NoError(t, err)

	code, body := doAuth(t, r, "Bearer "+token)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, response.ErrForbidden.Code, body.Code)
}

func TestAuthAccepted(t *testing.T) {
	r := newAuthRouter(jwt.RoleAdmin, jwt.RoleStudent)
	token, err := jwt.CreateToken(jwt.Payload{UserID: 3, Role: jwt.RoleStudent})
	require.NoError(t, err)

	code, body := doAuth(t, r, "Bearer "+token)
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, body.Success)
	assert.EqualValues(t, 3, body.Data)
}
