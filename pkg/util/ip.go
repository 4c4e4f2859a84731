/*
 * @Description: 客户端 IP 解析
 * @Author: 安知鱼
 * @Date: 2025-08-12 15:06:40
 * @LastEditTime: 2026-09-29 11:48:03
 * @LastEditors: 安知鱼
 */
package util

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

// proxyHeaders 按优先级排列的代理头部，支持 Cloudflare、腾讯云 EdgeOne、阿里云 CDN
var proxyHeaders = []string{
	"X-Forwarded-For",
	"X-Real-IP",
	"CF-Connecting-IP",
	"EO-Connecting-IP",
	"Ali-CDN-Real-IP",
	"True-Client-IP",
}

// GetRealClientIP 获取客户端真实IP地址，头部都不可用时使用 RemoteAddr
func GetRealClientIP(c *gin.Context) string {
	for _, header := range proxyHeaders {
		value := c.GetHeader(header)
		if value == "" {
			continue
		}
		// X-Forwarded-For 格式为 client, proxy1, proxy2，取第一个
		candidate := strings.TrimSpace(strings.Split(value, ",")[0])
		if IsValidIP(candidate) {
			return candidate
		}
	}

	if ip, _, err := net.SplitHostPort(c.Request.RemoteAddr); err == nil {
		return ip
	}
	return c.Request.RemoteAddr
}

// IsValidIP 验证IP地址是否有效
func IsValidIP(ip string) bool {
	return net.ParseIP(ip) != nil
}
