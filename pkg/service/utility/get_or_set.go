/*
 * @Description: 读穿透缓存辅助函数
 * @Author: 安知鱼
 * @Date: 2026-09-05 14:27:30
 * @LastEditTime: 2026-09-21 10:05:48
 * @LastEditors: 安知鱼
 */
package utility

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/predelnews/predelnews-app/pkg/constant"
)

// GetOrSet 先读缓存，未命中时调用 factory 并以 JSON 写回。
// ttl<=0 时使用默认的 5 分钟；缓存读取或解码失败时直接回源。
func GetOrSet[T any](ctx context.Context, cache CacheService, key string, ttl time.Duration, factory func(ctx context.Context) (T, error)) (T, error) {
	if ttl <= 0 {
		ttl = constant.DefaultCacheTTL
	}

	if cache != nil {
		raw, err := cache.Get(ctx, key)
		switch {
		case err != nil:
			log.Printf("⚠️ 读取缓存 '%s' 失败: %v", key, err)
		case raw != "":
			var cached T
			if err := json.Unmarshal([]byte(raw), &cached); err == nil {
				return cached, nil
			}
			log.Printf("⚠️ 解码缓存 '%s' 失败，重新计算", key)
		}
	}

	value, err := factory(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	if cache != nil {
		data, err := json.Marshal(value)
		if err != nil {
			return value, fmt.Errorf("序列化缓存 '%s' 失败: %w", key, err)
		}
		if err := cache.Set(ctx, key, string(data), ttl); err != nil {
			log.Printf("⚠️ 写入缓存 '%s' 失败: %v", key, err)
		}
	}
	return value, nil
}

// RemoveByPrefixes 依次清理多个前缀，返回删除的键总数
func RemoveByPrefixes(ctx context.Context, cache CacheService, prefixes ...string) (int, error) {
	total := 0
	for _, p := range prefixes {
		n, err := cache.RemoveByPrefix(ctx, p)
		total += n
		if err != nil {
			return total, fmt.Errorf("清理缓存前缀 '%s' 失败: %w", p, err)
		}
	}
	return total, nil
}
