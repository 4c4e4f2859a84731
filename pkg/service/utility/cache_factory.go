/*
 * @Description: 缓存工厂：有可用的 Redis 时使用 Redis，否则降级为内存缓存
 * @Author: 安知鱼
 * @Date: 2025-10-05 00:00:00
 * @LastEditTime: 2026-09-28 18:12:44
 * @LastEditors: 安知鱼
 */
package utility

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheServiceType 缓存服务类型
type CacheServiceType string

const (
	CacheTypeRedis  CacheServiceType = "redis"
	CacheTypeMemory CacheServiceType = "memory"
)

const redisProbeTimeout = 3 * time.Second

// NewCacheServiceWithFallback 在 redisClient 为 nil 或 Ping 失败时返回内存缓存
func NewCacheServiceWithFallback(ctx context.Context, redisClient *redis.Client) CacheService {
	if redisClient == nil {
		log.Println("🔄 使用内存缓存服务（Memory Cache）")
		return NewMemoryCacheService()
	}

	probeCtx, cancel := context.WithTimeout(ctx, redisProbeTimeout)
	defer cancel()
	if err := redisClient.Ping(probeCtx).Err(); err != nil {
		log.Printf("⚠️  Redis 不可用: %v，降级到内存缓存", err)
		return NewMemoryCacheService()
	}

	log.Println("✅ 使用 Redis 缓存服务")
	return NewCacheService(redisClient)
}

// GetCacheServiceType 获取当前使用的缓存类型
func GetCacheServiceType(svc CacheService) CacheServiceType {
	if _, ok := svc.(*redisCacheService); ok {
		return CacheTypeRedis
	}
	return CacheTypeMemory
}

// StopCacheService 停止内存缓存的后台清理任务，Redis 实现无需处理
func StopCacheService(svc CacheService) {
	if m, ok := svc.(*memoryCacheService); ok {
		m.Stop()
	}
}
