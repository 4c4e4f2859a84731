/*
 * @Description: 搜索服务 - 基于已发布文章的关键词打分检索
 * @Author: 安知鱼
 * @Date: 2025-01-27 10:00:00
 * @LastEditTime: 2026-09-28 16:40:12
 * @LastEditors: 安知鱼
 */
package search

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/predelnews/predelnews-app/internal/pkg/parser"
	"github.com/predelnews/predelnews-app/pkg/constant"
	"github.com/predelnews/predelnews-app/pkg/domain/model"
	"github.com/predelnews/predelnews-app/pkg/domain/repository"
	"github.com/predelnews/predelnews-app/pkg/service/article"
	"github.com/predelnews/predelnews-app/pkg/service/ranking"
	"github.com/predelnews/predelnews-app/pkg/service/taxonomy"
	"github.com/predelnews/predelnews-app/pkg/service/utility"
)

// MaxSuggestionCount 单次搜索建议的数量上限
const MaxSuggestionCount = 50

// Service 定义了搜索服务的接口
type Service interface {
	// Search 返回匹配全部检索词的文章分页，空查询返回空结果
	Search(ctx context.Context, req *model.SearchRequest) (*model.SearchResult, error)
	// Suggestions 返回标题包含查询串的文章标题
	Suggestions(ctx context.Context, req *model.SuggestionsRequest) ([]string, error)
}

// SearchService 搜索服务
type SearchService struct {
	articles repository.ArticleRepository
	cacheSvc utility.CacheService
	pageSize int
	now      func() time.Time
}

// Option 调整搜索服务的参数
type Option func(*SearchService)

// WithPageSize 设置默认每页条数
func WithPageSize(size int) Option {
	return func(s *SearchService) {
		if size > 0 {
			s.pageSize = size
		}
	}
}

// WithClock 替换计时使用的时间来源
func WithClock(now func() time.Time) Option {
	return func(s *SearchService) {
		if now != nil {
			s.now = now
		}
	}
}

// NewSearchService 创建搜索服务实例，cacheSvc 为 nil 时不使用缓存
func NewSearchService(articles repository.ArticleRepository, cacheSvc utility.CacheService, opts ...Option) *SearchService {
	s := &SearchService{
		articles: articles,
		cacheSvc: cacheSvc,
		pageSize: model.DefaultPageSize,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Search 执行搜索
func (s *SearchService) Search(ctx context.Context, req *model.SearchRequest) (*model.SearchResult, error) {
	start := s.now()
	if req == nil {
		req = &model.SearchRequest{}
	}
	query := strings.TrimSpace(req.Query)
	page := req.Page
	if page < 1 {
		page = 1
	}
	size := req.Size
	if size <= 0 {
		size = s.pageSize
	}

	normalized := ranking.NormalizeQuery(query)
	if normalized == "" {
		return s.finish(emptyResult(query, size), start), nil
	}

	cached, err := utility.GetOrSet(ctx, s.cacheSvc, constant.SearchKey(normalized, page, size), constant.SearchCacheTTL,
		func(ctx context.Context) (*model.SearchResult, error) {
			pool, err := s.articles.ListPublished(ctx, repository.ArticleScope{})
			if err != nil {
				return nil, fmt.Errorf("获取待搜索文章失败: %w", err)
			}
			matched := ranking.ScoreSearch(ranking.SearchTerms(normalized), pool, plainBody)
			return &model.SearchResult{
				Articles:          ranking.Paginate(article.ToSummaries(ranking.Articles(matched)), page, size),
				RelatedCategories: taxonomy.CategoriesToResponse(ranking.RelatedCategories(matched, ranking.MaxRelatedCategories)),
			}, nil
		})
	if err != nil {
		return nil, err
	}

	result := *cached
	result.Query = query
	if result.Articles == nil {
		result.Articles = model.EmptyPagedResult[*model.ArticleSummary](size)
	}
	if result.RelatedCategories == nil {
		result.RelatedCategories = []*model.CategoryResponse{}
	}
	return s.finish(&result, start), nil
}

// Suggestions 返回搜索建议
func (s *SearchService) Suggestions(ctx context.Context, req *model.SuggestionsRequest) ([]string, error) {
	if req == nil {
		return []string{}, nil
	}
	query := strings.TrimSpace(req.Query)
	if utf8.RuneCountInString(query) < ranking.MinSuggestionQueryLen {
		return []string{}, nil
	}
	count := req.Count
	if count <= 0 {
		count = ranking.DefaultSuggestionCount
	}
	if count > MaxSuggestionCount {
		count = MaxSuggestionCount
	}

	pool, err := s.articles.ListPublished(ctx, repository.ArticleScope{})
	if err != nil {
		return nil, fmt.Errorf("获取搜索建议失败: %w", err)
	}
	return ranking.Suggestions(query, pool, count), nil
}

func (s *SearchService) finish(result *model.SearchResult, start time.Time) *model.SearchResult {
	result.SearchDuration = s.now().Sub(start)
	result.DurationMs = float64(result.SearchDuration.Microseconds()) / 1000
	return result
}

func emptyResult(query string, size int) *model.SearchResult {
	return &model.SearchResult{
		Query:             query,
		Articles:          model.EmptyPagedResult[*model.ArticleSummary](size),
		RelatedCategories: []*model.CategoryResponse{},
	}
}

// plainBody 正文去掉 HTML 标签后参与匹配，避免命中标签名和属性
func plainBody(a *model.Article) string {
	return parser.PlainText(a.Content)
}
