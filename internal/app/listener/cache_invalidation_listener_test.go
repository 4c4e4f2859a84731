package listener

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/predelnews/predelnews-app/internal/pkg/event"
	"github.com/predelnews/predelnews-app/pkg/constant"
	"github.com/predelnews/predelnews-app/pkg/service/utility"
)

func TestCacheInvalidationListener(t *testing.T) {
	tests := []struct {
		name    string
		topic   event.Topic
		payload interface{}
	}{
		{name: "文章保存", topic: event.ArticleSaved, payload: event.ArticlePayload{ArticleID: 1, Slug: "test", CategorySlug: "sport"}},
		{name: "文章删除", topic: event.ArticleDeleted, payload: event.ArticlePayload{ArticleID: 1}},
		{name: "分类体系变更", topic: event.TaxonomyChanged, payload: event.TaxonomyPayload{Kind: "category", ID: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			cache := utility.NewMemoryCacheService()
			viewKey := constant.ArticleViewCountKeyPrefix + "abcd"
			for _, key := range []string{constant.CacheKeyAllCategories, constant.LatestArticlesKey(1, 20), constant.SearchKey("пожар", 1, 20), viewKey} {
				require.NoError(t, cache.Set(ctx, key, "1", 0))
			}

			bus := event.NewEventBus()
			NewCacheInvalidationListener(bus, cache)
			bus.Publish(tt.topic, tt.payload)
			bus.Shutdown()

			for _, key := range []string{constant.CacheKeyAllCategories, constant.LatestArticlesKey(1, 20), constant.SearchKey("пожар", 1, 20)} {
				v, err := cache.Get(ctx, key)
				require.NoError(t, err)
				assert.Empty(t, v, key)
			}
			// 浏览量计数器不属于失效前缀
			v, err := cache.Get(ctx, viewKey)
			require.NoError(t, err)
			assert.Equal(t, "1", v)
		})
	}
}
