/*
 * @Description: 缓存键定义
 * @Author: 安知鱼
 * @Date: 2026-09-02 14:20:31
 * @LastEditTime: 2026-09-21 09:12:47
 * @LastEditors: 安知鱼
 */
package constant

import (
	"fmt"
	"strings"
	"time"
)

// CacheKeyNamespace 是所有缓存键的统一前缀
const CacheKeyNamespace = "predel:"

// 固定缓存键
const (
	CacheKeyAllCategories   = CacheKeyNamespace + "categories:all"
	CacheKeyAllTags         = CacheKeyNamespace + "tags:all"
	CacheKeyPopularTags     = CacheKeyNamespace + "tags:popular"
	CacheKeyAllRegions      = CacheKeyNamespace + "regions:all"
	CacheKeyAllAuthors      = CacheKeyNamespace + "authors:all"
	CacheKeyFeaturedArticle = CacheKeyNamespace + "articles:featured"
	CacheKeyBreakingNews    = CacheKeyNamespace + "articles:breaking"
	CacheKeyMostRead        = CacheKeyNamespace + "articles:mostread"

	// ArticleViewCountKeyPrefix 是浏览量计数器的前缀，后接文章公共ID
	ArticleViewCountKeyPrefix  = CacheKeyNamespace + "article:view_count:"
	ArticleViewCountKeyPattern = ArticleViewCountKeyPrefix + "*"
)

// 各类数据的缓存时长
const (
	DefaultCacheTTL     = 5 * time.Minute
	SearchCacheTTL      = 2 * time.Minute
	BreakingNewsTTL     = 1 * time.Minute
	MostReadCacheTTL    = 15 * time.Minute
	PopularTagsCacheTTL = 30 * time.Minute
)

// 缓存失效时按前缀清理的分组
var InvalidationPrefixes = []string{
	CacheKeyNamespace + "articles:",
	CacheKeyNamespace + "article:id:",
	CacheKeyNamespace + "article:slug:",
	CacheKeyNamespace + "category:",
	CacheKeyNamespace + "tag:",
	CacheKeyNamespace + "author:",
	CacheKeyNamespace + "region:",
	CacheKeyNamespace + "search:",
	CacheKeyNamespace + "categories:",
	CacheKeyNamespace + "tags:",
	CacheKeyNamespace + "regions:",
	CacheKeyNamespace + "authors:",
}

// LatestArticlesKey 最新文章分页
func LatestArticlesKey(page, pageSize int) string {
	return fmt.Sprintf("%sarticles:latest:%d:%d", CacheKeyNamespace, page, pageSize)
}

// CategoryArticlesKey 分类下的文章分页
func CategoryArticlesKey(slug string, page, pageSize int) string {
	return fmt.Sprintf("%scategory:%s:articles:%d:%d", CacheKeyNamespace, normalizeKeyPart(slug), page, pageSize)
}

// TagArticlesKey 标签下的文章分页
func TagArticlesKey(slug string, page, pageSize int) string {
	return fmt.Sprintf("%stag:%s:articles:%d:%d", CacheKeyNamespace, normalizeKeyPart(slug), page, pageSize)
}

// AuthorArticlesKey 作者的文章分页
func AuthorArticlesKey(slug string, page, pageSize int) string {
	return fmt.Sprintf("%sauthor:%s:articles:%d:%d", CacheKeyNamespace, normalizeKeyPart(slug), page, pageSize)
}

// RegionArticlesKey 地区下的文章分页
func RegionArticlesKey(slug string, page, pageSize int) string {
	return fmt.Sprintf("%sregion:%s:articles:%d:%d", CacheKeyNamespace, normalizeKeyPart(slug), page, pageSize)
}

// ArticleSlugKey 按 分类slug + 文章slug 缓存的文章详情
func ArticleSlugKey(categorySlug, articleSlug string) string {
	return fmt.Sprintf("%sarticle:slug:%s:%s", CacheKeyNamespace, normalizeKeyPart(categorySlug), normalizeKeyPart(articleSlug))
}

// ArticleIDKey 按 ID 缓存的文章详情
func ArticleIDKey(id uint) string {
	return fmt.Sprintf("%sarticle:id:%d", CacheKeyNamespace, id)
}

// SearchKey 搜索结果，query 应为已规范化的查询串
func SearchKey(query string, page, pageSize int) string {
	return fmt.Sprintf("%ssearch:%s:%d:%d", CacheKeyNamespace, query, page, pageSize)
}

// RelatedArticlesKey 标签重合度相关文章
func RelatedArticlesKey(id uint) string {
	return fmt.Sprintf("%sarticles:related:%d", CacheKeyNamespace, id)
}

// WeightedRelatedArticlesKey 加权相关文章
func WeightedRelatedArticlesKey(id uint) string {
	return fmt.Sprintf("%sarticles:related:weighted:%d", CacheKeyNamespace, id)
}

func normalizeKeyPart(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
