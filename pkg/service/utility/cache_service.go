/*
 * @Description: Redis 缓存服务
 * @Author: 安知鱼
 * @Date: 2025-06-20 15:17:47
 * @LastEditTime: 2026-10-14 10:48:12
 * @LastEditors: 安知鱼
 */
package utility

import (
	"context"
	"errors"
	"log"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheService 定义了缓存服务的接口，提供了基础的 Get/Set/Delete 操作
type CacheService interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	// Get 键不存在时返回空字符串和 nil 错误
	Get(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key ...string) error
	// Increment 原子地增加一个键的值
	Increment(ctx context.Context, key string) (int64, error)
	// IncrementBy 原子地为一个键增加 delta
	IncrementBy(ctx context.Context, key string, delta int64) (int64, error)
	// Expire 设置键的过期时间
	Expire(ctx context.Context, key string, expiration time.Duration) error
	// Scan 使用 SCAN 命令安全地查找匹配的键
	Scan(ctx context.Context, pattern string) ([]string, error)
	// GetAndDeleteMany 获取多个计数键的值并删除它们
	GetAndDeleteMany(ctx context.Context, keys []string) (map[string]int, error)
	// RemoveByPrefix 删除所有以 prefix 开头的键，返回删除的数量
	RemoveByPrefix(ctx context.Context, prefix string) (int, error)
}

// redisCacheService 是 CacheService 的 Redis 实现
type redisCacheService struct {
	client *redis.Client
}

// NewCacheService 是 redisCacheService 的构造函数，通过依赖注入接收 Redis 客户端
func NewCacheService(client *redis.Client) CacheService {
	return &redisCacheService{
		client: client,
	}
}

// Expire 实现了设置键的过期时间
func (s *redisCacheService) Expire(ctx context.Context, key string, expiration time.Duration) error {
	return s.client.Expire(ctx, key, expiration).Err()
}

// Set 实现了设置缓存的方法
func (s *redisCacheService) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return s.client.Set(ctx, key, value, expiration).Err()
}

// Get 实现了获取缓存的方法
func (s *redisCacheService) Get(ctx context.Context, key string) (string, error) {
	val, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return val, err
}

// Delete 实现了删除缓存的方法
func (s *redisCacheService) Delete(ctx context.Context, key ...string) error {
	if len(key) == 0 {
		return nil
	}
	return s.client.Del(ctx, key...).Err()
}

// Increment 实现了原子递增
func (s *redisCacheService) Increment(ctx context.Context, key string) (int64, error) {
	return s.client.Incr(ctx, key).Result()
}

// IncrementBy 实现了按步长原子递增
func (s *redisCacheService) IncrementBy(ctx context.Context, key string, delta int64) (int64, error) {
	return s.client.IncrBy(ctx, key, delta).Result()
}

// Scan 使用 SCAN 命令安全地遍历所有匹配的键，避免了在生产环境中使用 KEYS 命令。
func (s *redisCacheService) Scan(ctx context.Context, pattern string) ([]string, error) {
	var allKeys []string
	var cursor uint64
	for {
		keys, nextCursor, err := s.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return nil, err
		}
		allKeys = append(allKeys, keys...)
		if nextCursor == 0 {
			break
		}
		cursor = nextCursor
	}
	return allKeys, nil
}

// RemoveByPrefix 扫描 prefix* 并分批删除
func (s *redisCacheService) RemoveByPrefix(ctx context.Context, prefix string) (int, error) {
	keys, err := s.Scan(ctx, prefix+"*")
	if err != nil {
		return 0, err
	}
	for start := 0; start < len(keys); start += 500 {
		end := start + 500
		if end > len(keys) {
			end = len(keys)
		}
		if err := s.client.Del(ctx, keys[start:end]...).Err(); err != nil {
			return start, err
		}
	}
	return len(keys), nil
}

// GetAndDeleteMany 使用 pipeline 来原子性地获取并删除多个键。
// 返回一个 map，键是原始 key，值是获取到的计数值。
func (s *redisCacheService) GetAndDeleteMany(ctx context.Context, keys []string) (map[string]int, error) {
	if len(keys) == 0 {
		return nil, nil
	}

	pipe := s.client.TxPipeline()
	cmds := make(map[string]*redis.StringCmd, len(keys))
	for _, key := range keys {
		cmds[key] = pipe.Get(ctx, key)
	}
	pipe.Del(ctx, keys...)

	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, err
	}

	results := make(map[string]int, len(cmds))
	for key, cmd := range cmds {
		valStr, err := cmd.Result()
		if err != nil {
			continue
		}
		valInt, convErr := strconv.Atoi(valStr)
		if convErr != nil {
			log.Printf("警告: 无法将 Redis 值 '%s' (key: %s) 转换为整数: %v", valStr, key, convErr)
			continue
		}
		results[key] = valInt
	}
	return results, nil
}
