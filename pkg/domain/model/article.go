/*
 * @Description: 文章领域模型
 * @Author: 安知鱼
 * @Date: 2025-07-25 11:41:57
 * @LastEditTime: 2026-09-22 11:20:40
 * @LastEditors: 安知鱼
 */
package model

import (
	"strings"
	"time"
)

// 文章状态
const (
	ArticleStatusDraft     = "draft"
	ArticleStatusPublished = "published"
)

// --- 核心领域对象 (Domain Object) ---

// Article 是文章的核心领域模型。
// Author、Category、Region、Tags 由仓储层在读取时填充。
type Article struct {
	ID                 uint
	Title              string
	Slug               string
	Subtitle           string
	Excerpt            string
	Content            string // 已清理的 HTML 正文
	ContentMarkdown    string // 可选的 Markdown 原文
	PublishDate        time.Time
	UpdatedAt          time.Time
	Status             string
	AuthorID           uint
	CategoryID         uint
	RegionID           *uint
	Author             *Author
	Category           *Category
	Region             *Region
	Tags               []*Tag
	ViewCount          int
	IsFeatured         bool
	IsBreakingNews     bool
	IsSponsored        bool
	SponsorName        string
	// CoverImage 保存媒体选择器的原始 JSON，例如 [{"mediaKey":"...","altText":"..."}]
	CoverImage         string
	FeaturedImage      *MediaImage
	MetaTitle          string
	MetaDescription    string
	CanonicalURL       string
	// RelatedOverrideIDs 是编辑手动指定的相关文章
	RelatedOverrideIDs []uint
}

// IsPublished 判断文章是否已发布
func (a *Article) IsPublished() bool {
	return a.Status == ArticleStatusPublished
}

// TagIDs 返回文章的标签ID集合
func (a *Article) TagIDs() map[uint]struct{} {
	ids := make(map[uint]struct{}, len(a.Tags))
	for _, t := range a.Tags {
		if t != nil {
			ids[t.ID] = struct{}{}
		}
	}
	return ids
}

// CategorySlug 返回所属分类的 slug，没有分类时为空
func (a *Article) CategorySlug() string {
	if a.Category == nil {
		return ""
	}
	return a.Category.Slug
}

// URL 返回文章的站内路径 /{分类}/{slug}
func (a *Article) URL() string {
	return "/" + a.CategorySlug() + "/" + a.Slug
}

// ArticleSummary 是列表、搜索结果中使用的文章摘要
type ArticleSummary struct {
	ID             string      `json:"id"`
	Title          string      `json:"title"`
	Slug           string      `json:"slug"`
	Excerpt        string      `json:"excerpt,omitempty"`
	PublishDate    time.Time   `json:"publish_date"`
	AuthorName     string      `json:"author_name"`
	CategoryName   string      `json:"category_name"`
	CategorySlug   string      `json:"category_slug"`
	FeaturedImage  *MediaImage `json:"featured_image,omitempty"`
	ViewCount      int         `json:"view_count"`
	IsFeatured     bool        `json:"is_featured"`
	IsBreakingNews bool        `json:"is_breaking_news"`
	URL            string      `json:"url"`
}

// --- API 数据传输对象 (Data Transfer Objects) ---

// ArticleResponse 文章详情的 API 响应结构
type ArticleResponse struct {
	ID              string            `json:"id"`
	Title           string            `json:"title"`
	Slug            string            `json:"slug"`
	Subtitle        string            `json:"subtitle,omitempty"`
	Excerpt         string            `json:"excerpt,omitempty"`
	Content         string            `json:"content"`
	PublishDate     time.Time         `json:"publish_date"`
	UpdatedAt       time.Time         `json:"updated_at"`
	Author          *AuthorResponse   `json:"author"`
	Category        *CategoryResponse `json:"category,omitempty"`
	Region          *RegionResponse   `json:"region,omitempty"`
	Tags            []*TagResponse    `json:"tags"`
	FeaturedImage   *MediaImage       `json:"featured_image,omitempty"`
	ViewCount       int               `json:"view_count"`
	IsFeatured      bool              `json:"is_featured"`
	IsBreakingNews  bool              `json:"is_breaking_news"`
	IsSponsored     bool              `json:"is_sponsored"`
	SponsorName     string            `json:"sponsor_name,omitempty"`
	MetaTitle       string            `json:"meta_title,omitempty"`
	MetaDescription string            `json:"meta_description,omitempty"`
	CanonicalURL    string            `json:"canonical_url,omitempty"`
	URL             string            `json:"url"`
}

// SaveArticleRequest 定义了创建或更新文章的请求体
type SaveArticleRequest struct {
	Title           string      `json:"title" binding:"required"`
	Slug            string      `json:"slug"`
	Subtitle        string      `json:"subtitle"`
	Excerpt         string      `json:"excerpt"`
	Content         string      `json:"content"`
	ContentMarkdown string      `json:"content_md"`
	PublishDate     *time.Time  `json:"publish_date"`
	Status          string      `json:"status"`
	AuthorID        string      `json:"author_id"`
	CategoryID      string      `json:"category_id" binding:"required"`
	RegionID        string      `json:"region_id"`
	// Tags 为逗号分隔的标签公共ID，与编辑器中标签选择器的存储格式一致
	Tags            string      `json:"tags"`
	IsFeatured      bool        `json:"is_featured"`
	IsBreakingNews  bool        `json:"is_breaking_news"`
	IsSponsored     bool        `json:"is_sponsored"`
	SponsorName     string      `json:"sponsor_name"`
	CoverImage      string      `json:"cover_image"`
	FeaturedImage   *MediaImage `json:"featured_image"`
	MetaTitle       string      `json:"meta_title"`
	MetaDescription string      `json:"meta_description"`
	CanonicalURL    string      `json:"canonical_url"`
	RelatedOverride []string    `json:"related_override"`
}

// TagList 将逗号分隔的标签字段拆分为非空条目
func (r *SaveArticleRequest) TagList() []string {
	var ids []string
	for _, part := range strings.Split(r.Tags, ",") {
		if p := strings.TrimSpace(part); p != "" {
			ids = append(ids, p)
		}
	}
	return ids
}
