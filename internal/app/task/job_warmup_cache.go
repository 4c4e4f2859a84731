/*
 * @Description: 缓存预热任务
 * @Author: 安知鱼
 * @Date: 2026-09-29 15:40:08
 * @LastEditTime: 2026-09-29 16:02:45
 * @LastEditors: 安知鱼
 */
package task

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/predelnews/predelnews-app/pkg/domain/model"
)

// CategoryWarmer 提供需要预热的分类体系数据
type CategoryWarmer interface {
	GetAllCategories(ctx context.Context) ([]*model.CategoryResponse, error)
	GetPopularTags(ctx context.Context, count int) ([]*model.TagResponse, error)
}

// ArticleWarmer 提供需要预热的首页文章列表
type ArticleWarmer interface {
	GetFeatured(ctx context.Context, count int) ([]*model.ArticleSummary, error)
	GetBreakingNews(ctx context.Context, count int) ([]*model.ArticleSummary, error)
}

// WarmupCacheJob 定期读取首页用到的列表，让它们一直留在缓存中。
type WarmupCacheJob struct {
	taxonomy CategoryWarmer
	articles ArticleWarmer
}

// NewWarmupCacheJob 是任务的构造函数。
func NewWarmupCacheJob(taxonomy CategoryWarmer, articles ArticleWarmer) *WarmupCacheJob {
	return &WarmupCacheJob{taxonomy: taxonomy, articles: articles}
}

// Name 方法返回任务的可读名称。
func (j *WarmupCacheJob) Name() string {
	return "WarmupCacheJob"
}

// Run 是 Job 接口要求实现的方法。
func (j *WarmupCacheJob) Run() {
	if err := j.Warmup(context.Background()); err != nil {
		log.Printf("⚠️ 任务 '%s' 部分失败: %v", j.Name(), err)
	}
}

// Warmup 依次加载分类、热门标签、精选与快讯，单项失败不影响其余项
func (j *WarmupCacheJob) Warmup(ctx context.Context) error {
	steps := []struct {
		name string
		load func(ctx context.Context) error
	}{
		{"categories", func(ctx context.Context) error {
			_, err := j.taxonomy.GetAllCategories(ctx)
			return err
		}},
		{"popular_tags", func(ctx context.Context) error {
			_, err := j.taxonomy.GetPopularTags(ctx, 0)
			return err
		}},
		{"featured", func(ctx context.Context) error {
			_, err := j.articles.GetFeatured(ctx, 0)
			return err
		}},
		{"breaking", func(ctx context.Context) error {
			_, err := j.articles.GetBreakingNews(ctx, 0)
			return err
		}},
	}

	var errs []error
	for _, step := range steps {
		if err := step.load(ctx); err != nil {
			errs = append(errs, fmt.Errorf("预热 %s 失败: %w", step.name, err))
		}
	}
	return errors.Join(errs...)
}
