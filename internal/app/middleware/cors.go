/*
 * @Description: 跨域中间件
 * @Author: 安知鱼
 * @Date: 2025-06-15 12:20:42
 * @LastEditTime: 2026-09-29 12:31:18
 * @LastEditors: 安知鱼
 */
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

func Cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 只对 API 路由应用 CORS 头部
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			if origin := c.Request.Header.Get("Origin"); origin != "" {
				c.Header("Access-Control-Allow-Origin", origin)
				c.Header("Vary", "Origin")
			}
			c.Header("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE")
			c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Requested-With")
			c.Header("Access-Control-Allow-Credentials", "true")

			if c.Request.Method == http.MethodOptions {
				c.AbortWithStatus(http.StatusNoContent)
				return
			}
		}

		c.Next()
	}
}
