/*
 * @Description: 随机字符串
 * @Author: 安知鱼
 * @Date: 2025-06-15 12:25:50
 * @LastEditTime: 2026-09-27 09:12:40
 * @LastEditors: 安知鱼
 */
package utils

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// GenerateRandomString 返回 length 个 URL 安全字符
func GenerateRandomString(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("长度必须大于 0")
	}
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	// 使用 Base64 URL 编码，避免特殊字符问题
	return base64.RawURLEncoding.EncodeToString(bytes)[:length], nil
}
