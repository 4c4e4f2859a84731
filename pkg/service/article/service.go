/*
 * @Description: 文章查询服务：列表、详情、相关文章与浏览量
 * @Author: 安知鱼
 * @Date: 2025-07-25 11:41:57
 * @LastEditTime: 2026-09-27 15:22:48
 * @LastEditors: 安知鱼
 */
package article

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/predelnews/predelnews-app/internal/pkg/auth"
	"github.com/predelnews/predelnews-app/internal/pkg/event"
	"github.com/predelnews/predelnews-app/pkg/constant"
	"github.com/predelnews/predelnews-app/pkg/domain/model"
	"github.com/predelnews/predelnews-app/pkg/domain/repository"
	"github.com/predelnews/predelnews-app/pkg/idgen"
	"github.com/predelnews/predelnews-app/pkg/service/ranking"
	"github.com/predelnews/predelnews-app/pkg/service/slug"
	"github.com/predelnews/predelnews-app/pkg/service/utility"
)

// 各列表的默认数量
const (
	DefaultFeaturedCount = 5
	DefaultBreakingCount = 3
	DefaultMostReadCount = 10
	DefaultMostReadDays  = 7
	DefaultRelatedCount  = ranking.DefaultTagOverlapCount
)

// cachedListLimit 精选、快讯、热门、相关列表最多缓存的条数，请求数量也以此为上限
const cachedListLimit = 50

// Service 定义了文章服务的接口
type Service interface {
	GetBySlug(ctx context.Context, categorySlug, articleSlug string) (*model.ArticleResponse, error)
	GetByID(ctx context.Context, publicID string) (*model.ArticleResponse, error)

	GetLatest(ctx context.Context, page, pageSize int) (*model.PagedResult[*model.ArticleSummary], error)
	GetByCategory(ctx context.Context, categorySlug string, page, pageSize int) (*model.PagedResult[*model.ArticleSummary], error)
	GetByTag(ctx context.Context, tagSlug string, page, pageSize int) (*model.PagedResult[*model.ArticleSummary], error)
	GetByAuthor(ctx context.Context, authorSlug string, page, pageSize int) (*model.PagedResult[*model.ArticleSummary], error)
	GetByRegion(ctx context.Context, regionSlug string, page, pageSize int) (*model.PagedResult[*model.ArticleSummary], error)

	GetFeatured(ctx context.Context, count int) ([]*model.ArticleSummary, error)
	GetBreakingNews(ctx context.Context, count int) ([]*model.ArticleSummary, error)
	GetMostRead(ctx context.Context, days, count int) ([]*model.ArticleSummary, error)

	GetRelated(ctx context.Context, publicID string, count int) ([]*model.ArticleSummary, error)
	GetRelatedWeighted(ctx context.Context, publicID string) ([]*model.ArticleSummary, error)

	IncrementViewCount(ctx context.Context, publicID string) error

	Save(ctx context.Context, actor *auth.CustomClaims, publicID string, req *model.SaveArticleRequest) (*model.ArticleResponse, error)
	Delete(ctx context.Context, publicID string) error
	// PreviewSlug 返回标题对应的可用 slug，publicID 非空时排除该文章自身
	PreviewSlug(ctx context.Context, title, publicID string) (string, error)
}

type serviceImpl struct {
	repos    repository.Repositories
	cacheSvc utility.CacheService
	bus      *event.EventBus
	slugGen  *slug.Generator
	now      func() time.Time
}

// Option 调整服务的可选依赖
type Option func(*serviceImpl)

// WithClock 替换当前时间来源，用于计算时效分
func WithClock(now func() time.Time) Option {
	return func(s *serviceImpl) {
		if now != nil {
			s.now = now
		}
	}
}

// WithSlugGenerator 使用指定的 slug 生成器
func WithSlugGenerator(g *slug.Generator) Option {
	return func(s *serviceImpl) {
		if g != nil {
			s.slugGen = g
		}
	}
}

// WithEventBus 保存和删除后向事件总线发布事件
func WithEventBus(bus *event.EventBus) Option {
	return func(s *serviceImpl) {
		s.bus = bus
	}
}

// NewService 创建文章服务，cacheSvc 为 nil 时不使用缓存
func NewService(repos repository.Repositories, cacheSvc utility.CacheService, opts ...Option) Service {
	s := &serviceImpl{
		repos:    repos,
		cacheSvc: cacheSvc,
		slugGen:  slug.NewGenerator(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// --- 详情 ---

func (s *serviceImpl) GetBySlug(ctx context.Context, categorySlug, articleSlug string) (*model.ArticleResponse, error) {
	key := constant.ArticleSlugKey(categorySlug, articleSlug)
	return utility.GetOrSet(ctx, s.cacheSvc, key, 0, func(ctx context.Context) (*model.ArticleResponse, error) {
		category, err := s.repos.Category.FindBySlug(ctx, strings.TrimSpace(categorySlug))
		if err != nil {
			return nil, err
		}
		a, err := s.repos.Article.FindBySlug(ctx, category.ID, strings.TrimSpace(articleSlug))
		if err != nil {
			return nil, err
		}
		if !a.IsPublished() {
			return nil, constant.ErrNotFound
		}
		return ToResponse(a), nil
	})
}

func (s *serviceImpl) GetByID(ctx context.Context, publicID string) (*model.ArticleResponse, error) {
	id, err := idgen.DecodeEntityID(publicID, idgen.EntityTypeArticle)
	if err != nil {
		return nil, err
	}
	return utility.GetOrSet(ctx, s.cacheSvc, constant.ArticleIDKey(id), 0, func(ctx context.Context) (*model.ArticleResponse, error) {
		a, err := s.repos.Article.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if !a.IsPublished() {
			return nil, constant.ErrNotFound
		}
		return ToResponse(a), nil
	})
}

// --- 分页列表 ---

func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = model.DefaultPageSize
	}
	return page, pageSize
}

// listPage 读取范围内全部已发布文章，按发布时间降序分页并缓存
func (s *serviceImpl) listPage(ctx context.Context, key string, scope repository.ArticleScope, page, pageSize int) (*model.PagedResult[*model.ArticleSummary], error) {
	return utility.GetOrSet(ctx, s.cacheSvc, key, 0, func(ctx context.Context) (*model.PagedResult[*model.ArticleSummary], error) {
		articles, err := s.repos.Article.ListPublished(ctx, scope)
		if err != nil {
			return nil, fmt.Errorf("获取文章列表失败: %w", err)
		}
		return ranking.Paginate(ToSummaries(articles), page, pageSize), nil
	})
}

func (s *serviceImpl) GetLatest(ctx context.Context, page, pageSize int) (*model.PagedResult[*model.ArticleSummary], error) {
	page, pageSize = normalizePage(page, pageSize)
	return s.listPage(ctx, constant.LatestArticlesKey(page, pageSize), repository.ArticleScope{}, page, pageSize)
}

// scopedPage 先按 slug 找到分类体系记录，找不到时返回空页而不是错误
func scopedPage[T any](
	ctx context.Context,
	s *serviceImpl,
	repo repository.TaxonomyRepository[T],
	slugValue string,
	page, pageSize int,
	keyOf func(slug string, page, pageSize int) string,
	scopeOf func(entity *T) repository.ArticleScope,
) (*model.PagedResult[*model.ArticleSummary], error) {
	page, pageSize = normalizePage(page, pageSize)
	entity, err := repo.FindBySlug(ctx, strings.TrimSpace(slugValue))
	if errors.Is(err, constant.ErrNotFound) {
		return model.EmptyPagedResult[*model.ArticleSummary](pageSize), nil
	}
	if err != nil {
		return nil, err
	}
	return s.listPage(ctx, keyOf(slugValue, page, pageSize), scopeOf(entity), page, pageSize)
}

func (s *serviceImpl) GetByCategory(ctx context.Context, categorySlug string, page, pageSize int) (*model.PagedResult[*model.ArticleSummary], error) {
	return scopedPage(ctx, s, s.repos.Category, categorySlug, page, pageSize, constant.CategoryArticlesKey,
		func(c *model.Category) repository.ArticleScope { return repository.ArticleScope{CategoryID: c.ID} })
}

func (s *serviceImpl) GetByTag(ctx context.Context, tagSlug string, page, pageSize int) (*model.PagedResult[*model.ArticleSummary], error) {
	return scopedPage(ctx, s, s.repos.Tag, tagSlug, page, pageSize, constant.TagArticlesKey,
		func(t *model.Tag) repository.ArticleScope { return repository.ArticleScope{TagID: t.ID} })
}

func (s *serviceImpl) GetByAuthor(ctx context.Context, authorSlug string, page, pageSize int) (*model.PagedResult[*model.ArticleSummary], error) {
	return scopedPage(ctx, s, s.repos.Author, authorSlug, page, pageSize, constant.AuthorArticlesKey,
		func(a *model.Author) repository.ArticleScope { return repository.ArticleScope{AuthorID: a.ID} })
}

func (s *serviceImpl) GetByRegion(ctx context.Context, regionSlug string, page, pageSize int) (*model.PagedResult[*model.ArticleSummary], error) {
	return scopedPage(ctx, s, s.repos.Region, regionSlug, page, pageSize, constant.RegionArticlesKey,
		func(r *model.Region) repository.ArticleScope { return repository.ArticleScope{RegionID: r.ID} })
}

// --- 首页列表 ---

func clampCount(count, def int) int {
	if count <= 0 {
		count = def
	}
	if count > cachedListLimit {
		count = cachedListLimit
	}
	return count
}

func head[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}

// cachedList 缓存前 cachedListLimit 条结果，返回前 count 条
func (s *serviceImpl) cachedList(ctx context.Context, key string, ttl time.Duration, count int, load func(ctx context.Context) ([]*model.Article, error)) ([]*model.ArticleSummary, error) {
	items, err := utility.GetOrSet(ctx, s.cacheSvc, key, ttl, func(ctx context.Context) ([]*model.ArticleSummary, error) {
		articles, err := load(ctx)
		if err != nil {
			return nil, err
		}
		return ToSummaries(head(articles, cachedListLimit)), nil
	})
	if err != nil {
		return nil, err
	}
	return head(items, count), nil
}

func (s *serviceImpl) GetFeatured(ctx context.Context, count int) ([]*model.ArticleSummary, error) {
	count = clampCount(count, DefaultFeaturedCount)
	return s.cachedList(ctx, constant.CacheKeyFeaturedArticle, 0, count, func(ctx context.Context) ([]*model.Article, error) {
		return s.repos.Article.ListPublished(ctx, repository.ArticleScope{OnlyFeatured: true})
	})
}

func (s *serviceImpl) GetBreakingNews(ctx context.Context, count int) ([]*model.ArticleSummary, error) {
	count = clampCount(count, DefaultBreakingCount)
	return s.cachedList(ctx, constant.CacheKeyBreakingNews, constant.BreakingNewsTTL, count, func(ctx context.Context) ([]*model.Article, error) {
		return s.repos.Article.ListPublished(ctx, repository.ArticleScope{OnlyBreaking: true})
	})
}

// GetMostRead 返回最近 days 天内发布的文章，按浏览量降序
func (s *serviceImpl) GetMostRead(ctx context.Context, days, count int) ([]*model.ArticleSummary, error) {
	if days <= 0 {
		days = DefaultMostReadDays
	}
	count = clampCount(count, DefaultMostReadCount)
	key := constant.CacheKeyMostRead
	if days != DefaultMostReadDays {
		key = fmt.Sprintf("%s:%d", constant.CacheKeyMostRead, days)
	}
	return s.cachedList(ctx, key, constant.MostReadCacheTTL, count, func(ctx context.Context) ([]*model.Article, error) {
		since := s.now().AddDate(0, 0, -days)
		articles, err := s.repos.Article.ListPublished(ctx, repository.ArticleScope{Since: since})
		if err != nil {
			return nil, err
		}
		// 同浏览量时保持发布时间降序
		sort.SliceStable(articles, func(i, j int) bool {
			return articles[i].ViewCount > articles[j].ViewCount
		})
		return articles, nil
	})
}

// --- 相关文章 ---

func (s *serviceImpl) findReference(ctx context.Context, publicID string) (*model.Article, error) {
	id, err := idgen.DecodeEntityID(publicID, idgen.EntityTypeArticle)
	if err != nil {
		return nil, err
	}
	return s.repos.Article.FindByID(ctx, id)
}

// GetRelated 在同分类的已发布文章中按标签重合度挑选相关文章
func (s *serviceImpl) GetRelated(ctx context.Context, publicID string, count int) ([]*model.ArticleSummary, error) {
	ref, err := s.findReference(ctx, publicID)
	if err != nil {
		return nil, err
	}
	count = clampCount(count, DefaultRelatedCount)
	return s.cachedList(ctx, constant.RelatedArticlesKey(ref.ID), 0, count, func(ctx context.Context) ([]*model.Article, error) {
		pool, err := s.repos.Article.ListPublished(ctx, repository.ArticleScope{CategoryID: ref.CategoryID})
		if err != nil {
			return nil, fmt.Errorf("获取同分类文章失败: %w", err)
		}
		return ranking.Articles(ranking.ScoreTagOverlap(ref, pool, cachedListLimit)), nil
	})
}

// GetRelatedWeighted 优先使用编辑手动指定的相关文章，否则按加权得分挑选
func (s *serviceImpl) GetRelatedWeighted(ctx context.Context, publicID string) ([]*model.ArticleSummary, error) {
	ref, err := s.findReference(ctx, publicID)
	if err != nil {
		return nil, err
	}
	return utility.GetOrSet(ctx, s.cacheSvc, constant.WeightedRelatedArticlesKey(ref.ID), 0, func(ctx context.Context) ([]*model.ArticleSummary, error) {
		if overrides, err := s.resolveOverrides(ctx, ref); err != nil {
			return nil, err
		} else if len(overrides) > 0 {
			return ToSummaries(overrides), nil
		}

		pool, err := s.repos.Article.ListPublished(ctx, repository.ArticleScope{})
		if err != nil {
			return nil, fmt.Errorf("获取文章列表失败: %w", err)
		}
		scored := ranking.ScoreWeightedRelated(ref, pool, s.now(), ranking.DefaultWeightedCount)
		return ToSummaries(ranking.Articles(scored)), nil
	})
}

// resolveOverrides 读取编辑指定的相关文章，只保留已发布的前 DefaultWeightedCount 篇
func (s *serviceImpl) resolveOverrides(ctx context.Context, ref *model.Article) ([]*model.Article, error) {
	if len(ref.RelatedOverrideIDs) == 0 {
		return nil, nil
	}
	found, err := s.repos.Article.FindByIDs(ctx, ref.RelatedOverrideIDs)
	if err != nil {
		return nil, fmt.Errorf("读取手动相关文章失败: %w", err)
	}
	out := make([]*model.Article, 0, ranking.DefaultWeightedCount)
	for _, a := range found {
		if a.ID == ref.ID || !a.IsPublished() {
			continue
		}
		out = append(out, a)
		if len(out) == ranking.DefaultWeightedCount {
			break
		}
	}
	return out, nil
}

// --- 浏览量 ---

// IncrementViewCount 在缓存中累加浏览量，由定时任务批量写回数据库。
// 没有缓存时直接写库。
func (s *serviceImpl) IncrementViewCount(ctx context.Context, publicID string) error {
	a, err := s.findReference(ctx, publicID)
	if err != nil {
		return err
	}
	if !a.IsPublished() {
		return constant.ErrNotFound
	}
	if s.cacheSvc == nil {
		return s.repos.Article.UpdateViewCounts(ctx, map[uint]int{a.ID: 1})
	}
	key := constant.ArticleViewCountKeyPrefix + idgen.MustPublicID(a.ID, idgen.EntityTypeArticle)
	if _, err := s.cacheSvc.Increment(ctx, key); err != nil {
		log.Printf("⚠️ 缓存浏览量失败，直接写入数据库: %v", err)
		return s.repos.Article.UpdateViewCounts(ctx, map[uint]int{a.ID: 1})
	}
	return nil
}
