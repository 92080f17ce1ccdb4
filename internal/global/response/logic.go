package response

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	pkgerrors "github.com/pkg/errors"
)

// ErrorContextKey 是用于在 gin.Context 中存储错误对象的键
const ErrorContextKey = "error"

// ResponseContextKey 是用于在 gin.Context 中存储响应体的键，供 Sentry 上报使用
const ResponseContextKey = "response_body"

type stackTracer interface {
	StackTrace() pkgerrors.StackTrace
}

// Error 带错误码的业务错误，错误码的前三位就是 HTTP 状态码
type Error struct {
	Code    int32  `json:"code"`
	Message string `json:"message"`
	Origin  string `json:"origin,omitempty"`
	cause   error
	stack   pkgerrors.StackTrace
}

func newError(code int32, msg string) *Error {
	return &Error{
		Code:    code,
		Message: msg,
	}
}

func (e *Error) Error() string {
	return fmt.Sprintf("code:%d, msg:%s", e.Code, e.Message)
}

// GetCode 实现 sentry.CodedError 接口
func (e *Error) GetCode() int32 {
	return e.Code
}

// HTTPStatus 由错误码推出 HTTP 状态码
func (e *Error) HTTPStatus() int {
	status := int(e.Code / 100)
	if status < 100 || status > 599 {
		return http.StatusInternalServerError
	}
	return status
}

func (e *Error) Unwrap() error {
	return e.cause
}

// StackTrace 实现 pkg/errors 的 stackTracer 接口，供 Sentry 提取堆栈
func (e *Error) StackTrace() pkgerrors.StackTrace {
	if e.stack != nil {
		return e.stack
	}
	var st stackTracer
	if e.cause != nil && errors.As(e.cause, &st) {
		return st.StackTrace()
	}
	return nil
}

// Is 只比较错误码
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

func (e *Error) clone() *Error {
	c := *e
	return &c
}

// WithOrigin 附带原始错误，debug 模式下返回给前端，同时保留错误链
func (e *Error) WithOrigin(err error) *Error {
	if err == nil {
		return e
	}
	wrapped := ensureStack(err)

	n := e.clone()
	n.Origin = fmt.Sprintf("%+v", wrapped)
	n.cause = wrapped
	if st, ok := wrapped.(stackTracer); ok {
		n.stack = st.StackTrace()
	}
	return n
}

// WithTips 在原消息后追加提示，release 模式下也可见
func (e *Error) WithTips(details ...string) *Error {
	n := e.clone()
	n.Message = strings.TrimSpace(e.Message + " " + strings.Join(details, " "))
	return n
}

// WithMessage 替换面向用户的消息，错误码保持不变
func (e *Error) WithMessage(msg string) *Error {
	n := e.clone()
	n.Message = msg
	return n
}

// WithMessagef 按格式生成消息
func (e *Error) WithMessagef(format string, args ...any) *Error {
	return e.WithMessage(fmt.Sprintf(format, args...))
}

func ensureStack(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := err.(stackTracer); ok {
		return err
	}
	return pkgerrors.WithStack(err)
}
