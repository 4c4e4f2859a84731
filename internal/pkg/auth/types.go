/*
 * @Description:
 * @Author: 安知鱼
 * @Date: 2025-08-11 18:38:27
 * @LastEditTime: 2026-09-24 14:02:51
 * @LastEditors: 安知鱼
 */
package auth

import "github.com/golang-jwt/jwt/v5"

// ClaimsKey 是用于在 gin.Context 中存储和检索整个用户信息结构体的键。
const ClaimsKey = "user_claims"

// AdminGroup 是允许管理内容和标记赞助内容的用户组
const AdminGroup = "admin"

// Issuer 令牌签发者
const Issuer = "predelnews"

// CustomClaims 定义了 JWT 的自定义 Claims 结构体
type CustomClaims struct {
	Username string   `json:"username"` // 编辑的登录名
	Groups   []string `json:"groups"`   // 所属用户组
	jwt.RegisteredClaims
}

// HasGroup 判断是否属于指定用户组，nil 接收者视为未登录
func (c *CustomClaims) HasGroup(group string) bool {
	if c == nil {
		return false
	}
	for _, g := range c.Groups {
		if g == group {
			return true
		}
	}
	return false
}

// IsAdmin 是否为管理员
func (c *CustomClaims) IsAdmin() bool {
	return c.HasGroup(AdminGroup)
}
