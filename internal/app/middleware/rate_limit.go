/*
 * @Description: 频率限制中间件
 * @Author: 安知鱼
 * @Date: 2025-11-08 00:00:00
 * @LastEditTime: 2026-09-29 12:25:50
 * @LastEditors: 安知鱼
 */
package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/predelnews/predelnews-app/pkg/response"
	"github.com/predelnews/predelnews-app/pkg/util"
)

// 搜索接口的默认限流参数
const (
	SearchRequestsPerMinute = 60
	SearchBurst             = 30
)

// staleLimiterAge 超过该时长未访问的限流器会被清理
const staleLimiterAge = 10 * time.Minute

// IPRateLimiter 为每个IP地址维护一个令牌桶
type IPRateLimiter struct {
	limiters map[string]*limiterInfo
	mu       sync.Mutex
	// 每个IP每分钟允许的请求数
	requestsPerMinute int
	// 突发请求数
	burst int
	now   func() time.Time
	done  chan struct{}
	once  sync.Once
}

// limiterInfo 存储限流器及其最后访问时间
type limiterInfo struct {
	limiter      *rate.Limiter
	lastAccessed time.Time
}

// NewIPRateLimiter 创建一个新的IP限流器，并启动定期清理协程
func NewIPRateLimiter(requestsPerMinute, burst int) *IPRateLimiter {
	if requestsPerMinute <= 0 {
		requestsPerMinute = SearchRequestsPerMinute
	}
	if burst <= 0 {
		burst = 1
	}
	limiter := &IPRateLimiter{
		limiters:          make(map[string]*limiterInfo),
		requestsPerMinute: requestsPerMinute,
		burst:             burst,
		now:               time.Now,
		done:              make(chan struct{}),
	}
	go limiter.cleanupStaleEntries(5 * time.Minute)
	return limiter
}

// getLimiter 获取指定IP的限流器
func (i *IPRateLimiter) getLimiter(ip string) *rate.Limiter {
	i.mu.Lock()
	defer i.mu.Unlock()

	info, exists := i.limiters[ip]
	if !exists {
		info = &limiterInfo{
			limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(i.requestsPerMinute)), i.burst),
		}
		i.limiters[ip] = info
	}
	info.lastAccessed = i.now()
	return info.limiter
}

// Allow 判断该IP当前是否还有可用额度
func (i *IPRateLimiter) Allow(ip string) bool {
	return i.getLimiter(ip).Allow()
}

// cleanupStaleEntries 定期清理超过一定时间未使用的限流器
func (i *IPRateLimiter) cleanupStaleEntries(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			i.removeStale()
		case <-i.done:
			return
		}
	}
}

func (i *IPRateLimiter) removeStale() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	removed := 0
	for ip, info := range i.limiters {
		if i.now().Sub(info.lastAccessed) > staleLimiterAge {
			delete(i.limiters, ip)
			removed++
		}
	}
	return removed
}

// Stop 停止清理协程
func (i *IPRateLimiter) Stop() {
	i.once.Do(func() { close(i.done) })
}

// RateLimit 使用给定的限流器按客户端IP限流
func RateLimit(limiter *IPRateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow(util.GetRealClientIP(c)) {
			response.Fail(c, http.StatusTooManyRequests, "请求过于频繁，请稍后再试")
			c.Abort()
			return
		}
		c.Next()
	}
}
