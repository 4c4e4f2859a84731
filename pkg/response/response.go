/*
 * @Description: 统一的 JSON 响应信封
 * @Author: 安知鱼
 * @Date: 2025-06-15 12:16:18
 * @LastEditTime: 2026-09-28 17:36:02
 * @LastEditors: 安知鱼
 */
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/predelnews/predelnews-app/pkg/service/validation"
)

// Response 是统一的API返回结构体，Code 与 HTTP 状态码一致
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

func write(c *gin.Context, status int, data interface{}, message string) {
	c.JSON(status, Response{Code: status, Message: message, Data: data})
}

// Success 成功响应
func Success(c *gin.Context, data interface{}, message string) {
	write(c, http.StatusOK, data, message)
}

// SuccessWithStatus 成功响应，但允许自定义 HTTP 状态码，例如创建资源时的 201
func SuccessWithStatus(c *gin.Context, code int, data interface{}, message string) {
	write(c, code, data, message)
}

// Fail 失败响应，data 固定为 null
func Fail(c *gin.Context, code int, message string) {
	write(c, code, nil, message)
}

// Error 按错误类型选择状态码。校验错误直接返回其文案，其余错误以 fallback 为前缀。
func Error(c *gin.Context, err error, fallback string) {
	Fail(c, validation.StatusCode(err), validation.Message(err, fallback+": "+err.Error()))
}
