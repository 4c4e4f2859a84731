/*
 * @Description: 搜索相关的数据模型
 * @Author: 安知鱼
 * @Date: 2025-01-27 10:00:00
 * @LastEditTime: 2026-09-21 18:10:44
 * @LastEditors: 安知鱼
 */
package model

import "time"

// SearchResult 定义了搜索结果的统一结构
type SearchResult struct {
	Query             string                        `json:"query"`
	Articles          *PagedResult[*ArticleSummary] `json:"articles"`
	RelatedCategories []*CategoryResponse           `json:"related_categories"`
	SearchDuration    time.Duration                 `json:"-"`
	DurationMs        float64                       `json:"search_duration_ms"`
}

// SearchRequest 定义了搜索请求的参数
type SearchRequest struct {
	Query string `form:"q"`
	Page  int    `form:"page"`
	Size  int    `form:"size"`
}

// SuggestionsRequest 定义了搜索建议请求的参数
type SuggestionsRequest struct {
	Query string `form:"q"`
	Count int    `form:"count"`
}
