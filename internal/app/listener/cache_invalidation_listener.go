/*
 * @Description: 监听内容变更事件，清理受影响的缓存
 * @Author: 安知鱼
 * @Date: 2025-07-18 17:30:00
 * @LastEditTime: 2026-09-29 16:48:31
 * @LastEditors: 安知鱼
 */
package listener

import (
	"context"
	"log"
	"time"

	"github.com/predelnews/predelnews-app/internal/pkg/event"
	"github.com/predelnews/predelnews-app/pkg/constant"
	"github.com/predelnews/predelnews-app/pkg/service/utility"
)

// invalidationTimeout 单次清理缓存的超时时间
const invalidationTimeout = 10 * time.Second

// CacheInvalidationListener 在文章或分类体系变更后按前缀清理缓存。
type CacheInvalidationListener struct {
	cacheSvc utility.CacheService
	prefixes []string
}

// NewCacheInvalidationListener 订阅文章保存、删除与分类体系变更事件。
func NewCacheInvalidationListener(eventBus *event.EventBus, cacheSvc utility.CacheService) *CacheInvalidationListener {
	l := &CacheInvalidationListener{
		cacheSvc: cacheSvc,
		prefixes: constant.InvalidationPrefixes,
	}
	for _, topic := range []event.Topic{event.ArticleSaved, event.ArticleDeleted, event.TaxonomyChanged} {
		eventBus.Subscribe(topic, l.handle)
	}
	return l
}

func (l *CacheInvalidationListener) handle(payload interface{}) {
	switch p := payload.(type) {
	case event.ArticlePayload:
		log.Printf("[CacheInvalidationListener] 文章 %d (%s/%s) 已变更，清理缓存", p.ArticleID, p.CategorySlug, p.Slug)
	case event.TaxonomyPayload:
		log.Printf("[CacheInvalidationListener] %s %d 已变更，清理缓存", p.Kind, p.ID)
	default:
		log.Printf("[CacheInvalidationListener] 收到未知负载 %T，仍然清理缓存", payload)
	}
	l.Invalidate()
}

// Invalidate 清理所有内容相关的缓存前缀
func (l *CacheInvalidationListener) Invalidate() {
	ctx, cancel := context.WithTimeout(context.Background(), invalidationTimeout)
	defer cancel()

	removed, err := utility.RemoveByPrefixes(ctx, l.cacheSvc, l.prefixes...)
	if err != nil {
		log.Printf("[CacheInvalidationListener] ⚠️ 清理缓存失败（已删除 %d 个键）: %v", removed, err)
		return
	}
	log.Printf("[CacheInvalidationListener] 已删除 %d 个缓存键", removed)
}
