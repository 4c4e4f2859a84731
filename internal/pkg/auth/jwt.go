/*
 * @Description:
 * @Author: 安知鱼
 * @Date: 2025-06-28 00:21:55
 * @LastEditTime: 2026-09-24 14:11:37
 * @LastEditors: 安知鱼
 */
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/predelnews/predelnews-app/pkg/constant"
)

// DefaultTokenTTL 访问令牌的默认有效期
const DefaultTokenTTL = 12 * time.Hour

// GenerateToken 为编辑签发一个访问令牌，ttl<=0 时使用 DefaultTokenTTL
func GenerateToken(username string, groups []string, secretKey []byte, ttl time.Duration) (string, error) {
	if len(secretKey) == 0 {
		return "", fmt.Errorf("JWT Secret 不能为空")
	}
	username = strings.TrimSpace(username)
	if username == "" {
		return "", fmt.Errorf("用户名不能为空")
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}

	now := time.Now()
	claims := CustomClaims{
		Username: username,
		Groups:   groups,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    Issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secretKey)
}

// ParseToken 解析 JWT Token，失败时返回包装了 constant.ErrInvalidToken 的错误
func ParseToken(tokenStr string, secretKey []byte) (*CustomClaims, error) {
	if len(secretKey) == 0 {
		return nil, fmt.Errorf("JWT Secret 不能为空")
	}

	claims := &CustomClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secretKey, nil
	}, jwt.WithIssuer(Issuer))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: Token已过期", constant.ErrInvalidToken)
		}
		return nil, fmt.Errorf("%w: 解析token失败: %v", constant.ErrInvalidToken, err)
	}

	if !token.Valid {
		return nil, fmt.Errorf("%w: 无效或过期Token", constant.ErrInvalidToken)
	}

	return claims, nil
}
