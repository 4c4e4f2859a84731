/*
 * @Description: JWT 认证与管理员权限中间件
 * @Author: 安知鱼
 * @Date: 2025-06-16 10:11:27
 * @LastEditTime: 2026-09-29 12:02:15
 * @LastEditors: 安知鱼
 */
package middleware

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/predelnews/predelnews-app/internal/pkg/auth"
	"github.com/predelnews/predelnews-app/pkg/response"
)

type Middleware struct {
	secret []byte
}

func NewMiddleware(secret []byte) *Middleware {
	return &Middleware{secret: secret}
}

// bearerToken 解析 Authorization 头部，格式不正确时 ok 为 false
func bearerToken(c *gin.Context) (token string, present, ok bool) {
	header := c.Request.Header.Get("Authorization")
	if header == "" {
		return "", false, false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
		return "", true, false
	}
	return strings.TrimSpace(parts[1]), true, true
}

// JWTAuth 是一个强制性的JWT认证中间件
func (m *Middleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, present, ok := bearerToken(c)
		if !present {
			response.Fail(c, http.StatusUnauthorized, "请求未携带Token，无权限访问")
			c.Abort()
			return
		}
		if !ok {
			response.Fail(c, http.StatusUnauthorized, "Token格式不正确")
			c.Abort()
			return
		}

		claims, err := auth.ParseToken(tokenString, m.secret)
		if err != nil {
			log.Printf("[JWTAuth] JWT token解析失败: %v", err)
			response.Fail(c, http.StatusUnauthorized, "无效或过期的Token")
			c.Abort()
			return
		}

		c.Set(auth.ClaimsKey, claims)
		c.Next()
	}
}

// JWTAuthOptional 是一个可选的JWT认证中间件。
// 没有Token时以游客身份放行，Token无效时返回401。
func (m *Middleware) JWTAuthOptional() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, present, ok := bearerToken(c)
		if !present || !ok {
			c.Next()
			return
		}

		claims, err := auth.ParseToken(tokenString, m.secret)
		if err != nil {
			log.Printf("[JWTAuthOptional] Token解析失败: %v", err)
			response.Fail(c, http.StatusUnauthorized, "Token已过期")
			c.Abort()
			return
		}

		c.Set(auth.ClaimsKey, claims)
		c.Next()
	}
}

// AdminAuth 是一个管理员权限验证中间件，必须放在 JWTAuth 之后
func (m *Middleware) AdminAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		claimsValue, exists := c.Get(auth.ClaimsKey)
		if !exists {
			log.Printf("[AdminAuth] 错误: 上下文中没有找到认证信息 ClaimsKey")
			response.Fail(c, http.StatusForbidden, "权限信息获取失败")
			c.Abort()
			return
		}

		claims, ok := claimsValue.(*auth.CustomClaims)
		if !ok {
			log.Printf("[AdminAuth] 错误: 权限信息格式不正确")
			response.Fail(c, http.StatusForbidden, "权限信息格式不正确")
			c.Abort()
			return
		}

		if !claims.IsAdmin() {
			log.Printf("[AdminAuth] 权限不足: 用户 %s 不在 %s 组", claims.Username, auth.AdminGroup)
			response.Fail(c, http.StatusForbidden, "权限不足：此操作需要管理员权限")
			c.Abort()
			return
		}

		c.Next()
	}
}
