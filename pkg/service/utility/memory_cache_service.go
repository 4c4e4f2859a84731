/*
 * @Description: 内存缓存服务实现（用于 Redis 不可用时的降级方案）
 * @Author: 安知鱼
 * @Date: 2025-10-05 00:00:00
 * @LastEditTime: 2026-10-14 10:48:12
 * @LastEditors: 安知鱼
 */
package utility

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"
)

// cacheItem 缓存项结构
type cacheItem struct {
	value      string
	expiration time.Time
	hasExpiry  bool
}

// isExpired 检查是否过期
func (item *cacheItem) isExpired(now time.Time) bool {
	return item.hasExpiry && now.After(item.expiration)
}

// memoryCacheService 是基于内存的缓存服务实现
type memoryCacheService struct {
	mu     sync.Mutex
	data   map[string]*cacheItem
	now    func() time.Time
	ticker *time.Ticker
	done   chan struct{}
	once   sync.Once
}

// NewMemoryCacheService 创建内存缓存服务实例
func NewMemoryCacheService() CacheService {
	return newMemoryCacheService(time.Now)
}

func newMemoryCacheService(now func() time.Time) *memoryCacheService {
	svc := &memoryCacheService{
		data:   make(map[string]*cacheItem),
		now:    now,
		ticker: time.NewTicker(1 * time.Minute), // 每分钟清理一次过期数据
		done:   make(chan struct{}),
	}
	go svc.cleanupExpired()
	return svc
}

// cleanupExpired 定期清理过期的缓存项
func (s *memoryCacheService) cleanupExpired() {
	for {
		select {
		case <-s.ticker.C:
			s.mu.Lock()
			now := s.now()
			for key, item := range s.data {
				if item.isExpired(now) {
					delete(s.data, key)
				}
			}
			s.mu.Unlock()
		case <-s.done:
			return
		}
	}
}

// Stop 停止清理任务
func (s *memoryCacheService) Stop() {
	s.once.Do(func() {
		s.ticker.Stop()
		close(s.done)
	})
}

// load 必须在持有锁时调用，过期的键会被顺便删除
func (s *memoryCacheService) load(key string) (*cacheItem, bool) {
	item, ok := s.data[key]
	if !ok {
		return nil, false
	}
	if item.isExpired(s.now()) {
		delete(s.data, key)
		return nil, false
	}
	return item, true
}

func stringify(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// Set 设置缓存
func (s *memoryCacheService) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	item := &cacheItem{
		value:     stringify(value),
		hasExpiry: expiration > 0,
	}
	if expiration > 0 {
		item.expiration = s.now().Add(expiration)
	}

	s.mu.Lock()
	s.data[key] = item
	s.mu.Unlock()
	return nil
}

// Get 获取缓存
func (s *memoryCacheService) Get(ctx context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.load(key)
	if !ok {
		return "", nil
	}
	return item.value, nil
}

// Delete 删除缓存
func (s *memoryCacheService) Delete(ctx context.Context, keys ...string) error {
	s.mu.Lock()
	for _, key := range keys {
		delete(s.data, key)
	}
	s.mu.Unlock()
	return nil
}

// Increment 原子地增加一个键的值，过期或不存在的键从 1 开始
func (s *memoryCacheService) Increment(ctx context.Context, key string) (int64, error) {
	return s.IncrementBy(ctx, key, 1)
}

// IncrementBy 原子地为一个键增加 delta，过期或不存在的键从 delta 开始
func (s *memoryCacheService) IncrementBy(ctx context.Context, key string, delta int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.load(key)
	if !ok {
		s.data[key] = &cacheItem{value: strconv.FormatInt(delta, 10)}
		return delta, nil
	}
	current, err := strconv.ParseInt(item.value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("键 '%s' 的值不是整数", key)
	}
	current += delta
	item.value = strconv.FormatInt(current, 10)
	return current, nil
}

// Expire 设置键的过期时间
func (s *memoryCacheService) Expire(ctx context.Context, key string, expiration time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.load(key)
	if !ok {
		return fmt.Errorf("key not found")
	}
	item.expiration = s.now().Add(expiration)
	item.hasExpiry = true
	return nil
}

// Scan 查找匹配的键（简单实现，支持 * 通配符）
func (s *memoryCacheService) Scan(ctx context.Context, pattern string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	var keys []string
	for key, item := range s.data {
		if !item.isExpired(now) && matchPattern(key, pattern) {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

// RemoveByPrefix 删除所有以 prefix 开头的键
func (s *memoryCacheService) RemoveByPrefix(ctx context.Context, prefix string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key := range s.data {
		if strings.HasPrefix(key, prefix) {
			delete(s.data, key)
			removed++
		}
	}
	return removed, nil
}

// matchPattern 简单的模式匹配（支持 * 通配符）
func matchPattern(s, pattern string) bool {
	if !strings.Contains(pattern, "*") {
		return s == pattern
	}

	parts := strings.Split(pattern, "*")
	if !strings.HasPrefix(s, parts[0]) {
		return false
	}
	last := parts[len(parts)-1]
	if !strings.HasSuffix(s, last) {
		return false
	}

	// 中间部分按顺序出现即可
	idx := len(parts[0])
	end := len(s) - len(last)
	if end < idx {
		return false
	}
	for _, part := range parts[1 : len(parts)-1] {
		pos := strings.Index(s[idx:end], part)
		if pos == -1 {
			return false
		}
		idx += pos + len(part)
	}
	return true
}

// GetAndDeleteMany 获取多个键的值并删除它们
func (s *memoryCacheService) GetAndDeleteMany(ctx context.Context, keys []string) (map[string]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	results := make(map[string]int)
	for _, key := range keys {
		item, ok := s.load(key)
		if !ok {
			continue
		}
		delete(s.data, key)
		if n, err := strconv.Atoi(item.value); err == nil {
			results[key] = n
		}
	}
	return results, nil
}
