/*
 * @Description: 分类、地区、标签、作者等分类法模型
 * @Author: 安知鱼
 * @Date: 2026-09-02 10:15:08
 * @LastEditTime: 2026-09-22 16:40:13
 * @LastEditors: 安知鱼
 */
package model

// 分类法类型，用于删除保护的提示文案与事件负载
const (
	TaxonomyCategory = "category"
	TaxonomyRegion   = "region"
	TaxonomyTag      = "tag"
	TaxonomyAuthor   = "author"
)

// 缺省显示值
const (
	UnknownAuthorName = "Unknown"
	UnknownAuthorSlug = "unknown"
	UncategorizedName = "Uncategorized"
)

// --- 核心领域对象 (Domain Object) ---

// Category 是新闻分类
type Category struct {
	ID               uint
	Name             string
	Slug             string
	Description      string
	SortOrder        int
	IsMainNavigation bool
	MetaTitle        string
	MetaDescription  string
	ArticleCount     int
}

// Region 是新闻所属的地区
type Region struct {
	ID           uint
	Name         string
	Slug         string
	ArticleCount int
}

// Tag 是文章标签
type Tag struct {
	ID           uint
	Name         string
	Slug         string
	ArticleCount int
}

// Author 是文章作者
type Author struct {
	ID            uint
	Name          string
	Slug          string
	Bio           string
	Email         string
	TwitterHandle string
	FacebookURL   string
	LinkedInURL   string
	ArticleCount  int
}

// --- API 数据传输对象 (Data Transfer Objects) ---

// CategoryResponse 分类的 API 响应结构
type CategoryResponse struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Slug             string `json:"slug"`
	Description      string `json:"description,omitempty"`
	SortOrder        int    `json:"sort_order"`
	IsMainNavigation bool   `json:"is_main_navigation"`
	MetaTitle        string `json:"meta_title,omitempty"`
	MetaDescription  string `json:"meta_description,omitempty"`
	ArticleCount     int    `json:"article_count"`
	URL              string `json:"url"`
}

// RegionResponse 地区的 API 响应结构
type RegionResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Slug         string `json:"slug"`
	ArticleCount int    `json:"article_count"`
}

// TagResponse 标签的 API 响应结构
type TagResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Slug         string `json:"slug"`
	ArticleCount int    `json:"article_count"`
}

// AuthorResponse 作者的 API 响应结构
type AuthorResponse struct {
	ID            string `json:"id,omitempty"`
	Name          string `json:"name"`
	Slug          string `json:"slug"`
	Bio           string `json:"bio,omitempty"`
	Email         string `json:"email,omitempty"`
	TwitterHandle string `json:"twitter_handle,omitempty"`
	FacebookURL   string `json:"facebook_url,omitempty"`
	LinkedInURL   string `json:"linkedin_url,omitempty"`
	ArticleCount  int    `json:"article_count"`
}

// SaveCategoryRequest 创建分类的请求体
type SaveCategoryRequest struct {
	Name             string `json:"name" binding:"required"`
	Slug             string `json:"slug"`
	Description      string `json:"description"`
	SortOrder        int    `json:"sort_order"`
	IsMainNavigation bool   `json:"is_main_navigation"`
	MetaTitle        string `json:"meta_title"`
	MetaDescription  string `json:"meta_description"`
}

// SaveRegionRequest 创建地区的请求体
type SaveRegionRequest struct {
	Name string `json:"name" binding:"required"`
	Slug string `json:"slug"`
}

// SaveTagRequest 创建标签的请求体
type SaveTagRequest struct {
	Name string `json:"name" binding:"required"`
	Slug string `json:"slug"`
}

// SaveAuthorRequest 创建作者的请求体
type SaveAuthorRequest struct {
	Name          string `json:"name" binding:"required"`
	Slug          string `json:"slug"`
	Bio           string `json:"bio"`
	Email         string `json:"email"`
	TwitterHandle string `json:"twitter_handle"`
	FacebookURL   string `json:"facebook_url"`
	LinkedInURL   string `json:"linkedin_url"`
}
