/*
 * @Description: 内容保存/删除校验错误
 * @Author: 安知鱼
 * @Date: 2026-09-25 09:14:30
 * @LastEditTime: 2026-09-25 11:02:07
 * @LastEditors: 安知鱼
 */
package validation

import (
	"errors"
	"net/http"

	"github.com/predelnews/predelnews-app/pkg/constant"
)

// DefaultTitle 是校验失败时展示给编辑的标题
const DefaultTitle = "Грешка"

// Error 是一次被取消的保存或删除操作。
// Message 原样展示给编辑，Kind 是 constant 包中的哨兵错误，用于映射 HTTP 状态码。
type Error struct {
	Title   string
	Message string
	Kind    error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func newError(kind error, message string) *Error {
	return &Error{Title: DefaultTitle, Message: message, Kind: kind}
}

// StatusCode 把错误映射为 HTTP 状态码，未知错误为 500
func StatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, constant.ErrBadRequest), errors.Is(err, constant.ErrInvalidPublicID):
		return http.StatusBadRequest
	case errors.Is(err, constant.ErrUnauthorized), errors.Is(err, constant.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, constant.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, constant.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, constant.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Message 返回可以展示给用户的错误文案，非校验错误返回 fallback
func Message(err error, fallback string) string {
	var verr *Error
	if errors.As(err, &verr) {
		return verr.Message
	}
	return fallback
}
