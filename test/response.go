package test

import (
	"testing"

	"activity-portal/internal/global/response"

	"github.com/stretchr/testify/require"
)

func ErrorEqual(t *testing.T, expected *response.Error, resp response.ResponseBody) {
	t.Helper()
	require.False(t, resp.Success)
	require.Equal(t, expected.Code, resp.Code)
	require.Equal(t, expected.Message, resp.Msg)
}

// ErrorCode 只比较错误码，消息由业务动态生成时使用
func ErrorCode(t *testing.T, expected *response.Error, resp response.ResponseBody) {
	t.Helper()
	require.False(t, resp.Success)
	require.Equal(t, expected.Code, resp.Code, resp.Msg)
}

func NoError(t *testing.T, resp response.ResponseBody) {
	t.Helper()
	require.True(t, resp.Success, resp.Msg)
	require.Contains(t, []int32{200, 201}, resp.Code)
}
